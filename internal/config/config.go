package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/signal.report/internal/acquire"
	"github.com/banshee-data/signal.report/internal/process"
	"github.com/banshee-data/signal.report/internal/signal"
	"github.com/banshee-data/signal.report/internal/store"
)

// DefaultConfigPath is the path to the canonical pipeline defaults file.
const DefaultConfigPath = "config/pipeline.defaults.json"

// Config represents the root configuration for a signal pipeline run.
// All fields are optional in the JSON file; the Get* methods provide
// fallback defaults for anything not specified, so partial configs are
// safe.
type Config struct {
	// Acquisition params
	Acquirer   *string  `json:"acquirer,omitempty"` // console, file, sine, serial, pcap
	Comment    *string  `json:"comment,omitempty"`
	Samples    *int     `json:"samples,omitempty"`
	InputPath  *string  `json:"input_path,omitempty"`
	SerialPort *string  `json:"serial_port,omitempty"`
	SerialBaud *int     `json:"serial_baud,omitempty"`
	UDPPort    *int     `json:"udp_port,omitempty"`
	Amplitude  *float64 `json:"amplitude,omitempty"`
	Frequency  *float64 `json:"frequency,omitempty"`
	SampleRate *float64 `json:"sample_rate,omitempty"`
	Noise      *float64 `json:"noise,omitempty"`

	// Processing params
	Processor *string  `json:"processor,omitempty"` // amplifier, threshold, zscore, moving_average
	Factor    *float64 `json:"factor,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	Window    *int     `json:"window,omitempty"`

	// Buffer params
	InputBuffer    *string `json:"input_buffer,omitempty"`  // slice, stack, ring
	OutputBuffer   *string `json:"output_buffer,omitempty"` // slice, stack, ring
	InputCapacity  *int    `json:"input_capacity,omitempty"`
	OutputCapacity *int    `json:"output_capacity,omitempty"`

	// Persistence params
	Context      *string `json:"context,omitempty"` // gob, text
	RawDir       *string `json:"raw_dir,omitempty"`
	ProcessedDir *string `json:"processed_dir,omitempty"`
	AuditPath    *string `json:"audit_path,omitempty"`
	TracePath    *string `json:"trace_path,omitempty"`

	// Render params
	ChartPath *string `json:"chart_path,omitempty"`
	PlotPath  *string `json:"plot_path,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyConfig returns a Config with all fields set to nil.
// Use Load to read actual values from a file.
func EmptyConfig() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The file is validated to ensure
// it has a .json extension and is under the max file size.
func Load(path string) (*Config, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.Acquirer != nil {
		if err := checkKind("acquirer", *c.Acquirer, acquire.ValidKinds); err != nil {
			return err
		}
	}
	if c.Processor != nil {
		if err := checkKind("processor", *c.Processor, process.ValidKinds); err != nil {
			return err
		}
	}
	if c.InputBuffer != nil {
		if err := checkKind("input_buffer", *c.InputBuffer, signal.ValidKinds); err != nil {
			return err
		}
	}
	if c.OutputBuffer != nil {
		if err := checkKind("output_buffer", *c.OutputBuffer, signal.ValidKinds); err != nil {
			return err
		}
	}
	if c.Context != nil {
		if err := checkKind("context", *c.Context, store.ValidContextKinds); err != nil {
			return err
		}
	}

	if c.Samples != nil && *c.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", *c.Samples)
	}
	if c.InputCapacity != nil && *c.InputCapacity <= 0 {
		return fmt.Errorf("input_capacity must be positive, got %d", *c.InputCapacity)
	}
	if c.OutputCapacity != nil && *c.OutputCapacity <= 0 {
		return fmt.Errorf("output_capacity must be positive, got %d", *c.OutputCapacity)
	}
	if c.Window != nil && *c.Window < 0 {
		return fmt.Errorf("window must be non-negative, got %d", *c.Window)
	}
	if c.SampleRate != nil && *c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %f", *c.SampleRate)
	}

	return nil
}

func checkKind(field, value string, valid []string) error {
	for _, k := range valid {
		if value == k {
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q (valid: %v)", field, value, valid)
}

// GetAcquirer returns the acquirer kind or the default.
func (c *Config) GetAcquirer() string {
	if c.Acquirer == nil {
		return acquire.KindConsole
	}
	return *c.Acquirer
}

// GetComment returns the description stamped on acquired signals, or ""
// when the acquirer should collect one itself.
func (c *Config) GetComment() string {
	if c.Comment == nil {
		return ""
	}
	return *c.Comment
}

// GetSamples returns the sample count or the default.
func (c *Config) GetSamples() int {
	if c.Samples == nil {
		return 10
	}
	return *c.Samples
}

// GetInputPath returns the acquisition input path or the default.
func (c *Config) GetInputPath() string {
	if c.InputPath == nil {
		return "signal.txt"
	}
	return *c.InputPath
}

// GetSerialPort returns the serial device path or the default.
func (c *Config) GetSerialPort() string {
	if c.SerialPort == nil {
		return "/dev/ttyUSB0"
	}
	return *c.SerialPort
}

// GetSerialBaud returns the serial baud rate or the default.
func (c *Config) GetSerialBaud() int {
	if c.SerialBaud == nil {
		return 115200
	}
	return *c.SerialBaud
}

// GetUDPPort returns the capture UDP port filter or the default.
func (c *Config) GetUDPPort() int {
	if c.UDPPort == nil {
		return 2368
	}
	return *c.UDPPort
}

// GetAmplitude returns the synthetic signal amplitude or the default.
func (c *Config) GetAmplitude() float64 {
	if c.Amplitude == nil {
		return 1.0
	}
	return *c.Amplitude
}

// GetFrequency returns the synthetic signal frequency or the default.
func (c *Config) GetFrequency() float64 {
	if c.Frequency == nil {
		return 1.0
	}
	return *c.Frequency
}

// GetSampleRate returns the synthetic sample rate or the default.
func (c *Config) GetSampleRate() float64 {
	if c.SampleRate == nil {
		return 100.0
	}
	return *c.SampleRate
}

// GetNoise returns the synthetic noise amplitude or the default.
func (c *Config) GetNoise() float64 {
	if c.Noise == nil {
		return 0
	}
	return *c.Noise
}

// GetProcessor returns the processor kind or the default.
func (c *Config) GetProcessor() string {
	if c.Processor == nil {
		return process.KindAmplifier
	}
	return *c.Processor
}

// GetFactor returns the amplifier factor or the default.
func (c *Config) GetFactor() float64 {
	if c.Factor == nil {
		return 2.0
	}
	return *c.Factor
}

// GetThreshold returns the threshold cutoff or the default.
func (c *Config) GetThreshold() float64 {
	if c.Threshold == nil {
		return 5.0
	}
	return *c.Threshold
}

// GetWindow returns the moving average window or the default.
func (c *Config) GetWindow() int {
	if c.Window == nil {
		return 5
	}
	return *c.Window
}

// GetInputBuffer returns the input buffer kind or the default.
func (c *Config) GetInputBuffer() string {
	if c.InputBuffer == nil {
		return signal.KindSlice
	}
	return *c.InputBuffer
}

// GetOutputBuffer returns the output buffer kind or the default.
func (c *Config) GetOutputBuffer() string {
	if c.OutputBuffer == nil {
		return signal.KindSlice
	}
	return *c.OutputBuffer
}

// GetInputCapacity returns the input buffer capacity or the sample count.
func (c *Config) GetInputCapacity() int {
	if c.InputCapacity == nil {
		return c.GetSamples()
	}
	return *c.InputCapacity
}

// GetOutputCapacity returns the output buffer capacity or the sample count.
func (c *Config) GetOutputCapacity() int {
	if c.OutputCapacity == nil {
		return c.GetSamples()
	}
	return *c.OutputCapacity
}

// GetContext returns the persistence context kind or the default.
func (c *Config) GetContext() string {
	if c.Context == nil {
		return store.KindGob
	}
	return *c.Context
}

// GetRawDir returns the raw signal directory or the default.
func (c *Config) GetRawDir() string {
	if c.RawDir == nil {
		return "data/raw"
	}
	return *c.RawDir
}

// GetProcessedDir returns the processed signal directory or the default.
func (c *Config) GetProcessedDir() string {
	if c.ProcessedDir == nil {
		return "data/processed"
	}
	return *c.ProcessedDir
}

// GetAuditPath returns the audit log path or the default.
func (c *Config) GetAuditPath() string {
	if c.AuditPath == nil {
		return "data/audit.log"
	}
	return *c.AuditPath
}

// GetTracePath returns the trace log path or the default.
func (c *Config) GetTracePath() string {
	if c.TracePath == nil {
		return "data/trace.log"
	}
	return *c.TracePath
}

// GetChartPath returns the HTML chart output path, or "" when chart
// rendering is disabled.
func (c *Config) GetChartPath() string {
	if c.ChartPath == nil {
		return ""
	}
	return *c.ChartPath
}

// GetPlotPath returns the PNG plot output path, or "" when plot
// rendering is disabled.
func (c *Config) GetPlotPath() string {
	if c.PlotPath == nil {
		return ""
	}
	return *c.PlotPath
}
