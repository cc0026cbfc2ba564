package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/signal.report/internal/acquire"
	"github.com/banshee-data/signal.report/internal/process"
	"github.com/banshee-data/signal.report/internal/signal"
	"github.com/banshee-data/signal.report/internal/store"
)

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyConfig()

	if cfg.GetAcquirer() != acquire.KindConsole {
		t.Errorf("GetAcquirer() = %q, want %q", cfg.GetAcquirer(), acquire.KindConsole)
	}
	if cfg.GetSamples() != 10 {
		t.Errorf("GetSamples() = %d, want 10", cfg.GetSamples())
	}
	if cfg.GetProcessor() != process.KindAmplifier {
		t.Errorf("GetProcessor() = %q, want %q", cfg.GetProcessor(), process.KindAmplifier)
	}
	if cfg.GetFactor() != 2.0 {
		t.Errorf("GetFactor() = %f, want 2.0", cfg.GetFactor())
	}
	if cfg.GetInputBuffer() != signal.KindSlice {
		t.Errorf("GetInputBuffer() = %q, want %q", cfg.GetInputBuffer(), signal.KindSlice)
	}
	if cfg.GetContext() != store.KindGob {
		t.Errorf("GetContext() = %q, want %q", cfg.GetContext(), store.KindGob)
	}
	// Capacities track the sample count when unset.
	cfg.Samples = ptrInt(37)
	if cfg.GetInputCapacity() != 37 || cfg.GetOutputCapacity() != 37 {
		t.Errorf("capacities = %d/%d, want 37/37", cfg.GetInputCapacity(), cfg.GetOutputCapacity())
	}
	if cfg.GetChartPath() != "" || cfg.GetPlotPath() != "" {
		t.Error("render paths should default to disabled")
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pipeline.json")

	testJSON := `{
  "acquirer": "sine",
  "comment": "lab bench sweep",
  "samples": 50,
  "amplitude": 2.5,
  "processor": "threshold",
  "threshold": 1.25,
  "input_buffer": "ring",
  "output_buffer": "stack",
  "context": "text",
  "raw_dir": "out/raw"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetAcquirer() != acquire.KindSine {
		t.Errorf("GetAcquirer() = %q, want sine", cfg.GetAcquirer())
	}
	if cfg.GetSamples() != 50 {
		t.Errorf("GetSamples() = %d, want 50", cfg.GetSamples())
	}
	if cfg.GetComment() != "lab bench sweep" {
		t.Errorf("GetComment() = %q, want %q", cfg.GetComment(), "lab bench sweep")
	}
	if cfg.GetAmplitude() != 2.5 {
		t.Errorf("GetAmplitude() = %f, want 2.5", cfg.GetAmplitude())
	}
	if cfg.GetThreshold() != 1.25 {
		t.Errorf("GetThreshold() = %f, want 1.25", cfg.GetThreshold())
	}
	if cfg.GetInputBuffer() != signal.KindRing {
		t.Errorf("GetInputBuffer() = %q, want ring", cfg.GetInputBuffer())
	}
	if cfg.GetRawDir() != "out/raw" {
		t.Errorf("GetRawDir() = %q, want out/raw", cfg.GetRawDir())
	}
	// Fields omitted from the JSON keep their defaults.
	if cfg.GetFrequency() != 1.0 {
		t.Errorf("GetFrequency() = %f, want default 1.0", cfg.GetFrequency())
	}
	if cfg.GetProcessedDir() != "data/processed" {
		t.Errorf("GetProcessedDir() = %q, want default", cfg.GetProcessedDir())
	}
}

func TestLoadConfigRejectsBadPath(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "pipeline.yaml")
	if err := os.WriteFile(yamlPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(yamlPath); err == nil {
		t.Error("expected error for non-json extension")
	}

	if _, err := Load(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"empty is valid", func(c *Config) {}, false},
		{"unknown acquirer", func(c *Config) { c.Acquirer = ptrString("antenna") }, true},
		{"unknown processor", func(c *Config) { c.Processor = ptrString("fft") }, true},
		{"unknown buffer", func(c *Config) { c.InputBuffer = ptrString("deque") }, true},
		{"unknown context", func(c *Config) { c.Context = ptrString("redis") }, true},
		{"zero samples", func(c *Config) { c.Samples = ptrInt(0) }, true},
		{"negative capacity", func(c *Config) { c.OutputCapacity = ptrInt(-1) }, true},
		{"zero sample rate", func(c *Config) { c.SampleRate = ptrFloat64(0) }, true},
		{"valid overrides", func(c *Config) {
			c.Acquirer = ptrString(acquire.KindFile)
			c.InputPath = ptrString("trace.txt")
			c.Processor = ptrString(process.KindZScore)
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := EmptyConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := EmptyConfig()
	cfg.Acquirer = ptrString(acquire.KindSine)
	cfg.Comment = ptrString("nightly sweep")
	cfg.Samples = ptrInt(16)
	cfg.InputBuffer = ptrString(signal.KindRing)
	cfg.Context = ptrString(store.KindText)
	cfg.RawDir = ptrString(filepath.Join(tmpDir, "raw"))
	cfg.ProcessedDir = ptrString(filepath.Join(tmpDir, "processed"))
	cfg.AuditPath = ptrString(filepath.Join(tmpDir, "audit.log"))
	cfg.TracePath = ptrString(filepath.Join(tmpDir, "trace.log"))

	in, err := cfg.NewInputSignal()
	if err != nil {
		t.Fatalf("NewInputSignal: %v", err)
	}
	if in.Kind() != signal.KindRing || in.Cap() != 16 {
		t.Errorf("input signal = %s/%d, want ring/16", in.Kind(), in.Cap())
	}
	if in.Comment != "nightly sweep" {
		t.Errorf("input comment = %q, want %q", in.Comment, "nightly sweep")
	}

	out, err := cfg.NewOutputSignal()
	if err != nil {
		t.Fatalf("NewOutputSignal: %v", err)
	}

	if _, err := cfg.NewAcquirer(in); err != nil {
		t.Errorf("NewAcquirer: %v", err)
	}
	if _, err := cfg.NewProcessor(out); err != nil {
		t.Errorf("NewProcessor: %v", err)
	}

	raw, err := cfg.NewRawRepository()
	if err != nil {
		t.Fatalf("NewRawRepository: %v", err)
	}
	if err := raw.Save(in); err != nil {
		t.Errorf("Save through built repository: %v", err)
	}
	if _, err := cfg.NewProcessedRepository(); err != nil {
		t.Fatalf("NewProcessedRepository: %v", err)
	}
}
