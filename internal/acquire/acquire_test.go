package acquire

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/signal.report/internal/signal"
)

func newTestSignal(t *testing.T) *signal.Signal {
	t.Helper()
	return signal.New(signal.NewSliceBuffer(32))
}

func TestNewFactory(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		cfg     Config
		wantErr bool
	}{
		{"console", KindConsole, Config{Samples: 3}, false},
		{"file", KindFile, Config{Path: "data.txt"}, false},
		{"file without path", KindFile, Config{}, true},
		{"sine", KindSine, Config{Samples: 10}, false},
		{"serial", KindSerial, Config{Port: "/dev/ttyUSB0"}, false},
		{"serial without port", KindSerial, Config{}, true},
		{"pcap", KindPcap, Config{Path: "trace.pcap"}, false},
		{"pcap without path", KindPcap, Config{}, true},
		{"unknown", "sensor", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.kind, tt.cfg, newTestSignal(t))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) expected error, got nil", tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.kind, err)
			}
			if a.Signal() == nil {
				t.Errorf("New(%q) returned acquirer with nil signal", tt.kind)
			}
		})
	}
}

func TestConsoleAcquire(t *testing.T) {
	sig := newTestSignal(t)
	in := strings.NewReader("bench capture\n1.5\nnot-a-number\n2.5\n-3\n")
	var out strings.Builder
	c := NewConsole(in, &out, 3, sig)

	if err := c.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if diff := cmp.Diff([]float64{1.5, 2.5, -3}, sig.Values()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	if sig.Comment != "bench capture" {
		t.Errorf("Comment = %q, want %q", sig.Comment, "bench capture")
	}
	if !strings.Contains(out.String(), "invalid number") {
		t.Errorf("expected re-prompt message in output, got:\n%s", out.String())
	}
	if sig.AcquiredAt.IsZero() {
		t.Error("AcquiredAt not stamped")
	}
}

func TestConsoleAcquireInputClosed(t *testing.T) {
	sig := newTestSignal(t)
	c := NewConsole(strings.NewReader("capture\n1\n"), &strings.Builder{}, 3, sig)
	if err := c.Acquire(context.Background()); err == nil {
		t.Fatal("expected error when input runs out before the sample budget")
	}
}

func TestConsoleAcquireKeepsPresetComment(t *testing.T) {
	sig := newTestSignal(t)
	sig.Comment = "configured run"
	// No comment prompt: the first line is already a sample.
	var out strings.Builder
	c := NewConsole(strings.NewReader("4.5\n"), &out, 1, sig)
	if err := c.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if sig.Comment != "configured run" {
		t.Errorf("Comment = %q, want %q", sig.Comment, "configured run")
	}
	if v, _ := sig.At(0); v != 4.5 {
		t.Errorf("At(0) = %v, want 4.5", v)
	}
	if strings.Contains(out.String(), "comment>") {
		t.Error("prompted for a comment despite one being set")
	}
}

func TestFileAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	content := "1.0\n\n2.5\nbogus\n-4.25\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sig := newTestSignal(t)
	f := NewFile(path, sig)
	if err := f.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if diff := cmp.Diff([]float64{1.0, 2.5, -4.25}, sig.Values()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestFileAcquireMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.txt"), newTestSignal(t))
	if err := f.Acquire(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSineAcquire(t *testing.T) {
	sig := newTestSignal(t)
	s := NewSine(Config{Samples: 8, Amplitude: 2, Frequency: 5, SampleRate: 40}, sig)

	if err := s.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if sig.Len() != 8 {
		t.Fatalf("Len = %d, want 8", sig.Len())
	}
	for i, v := range sig.Values() {
		if math.Abs(v) > 2+1e-9 {
			t.Errorf("sample %d = %v exceeds amplitude 2", i, v)
		}
	}
	// First sample of a noiseless sinusoid is sin(0) == 0.
	if v, _ := sig.At(0); v != 0 {
		t.Errorf("At(0) = %v, want 0", v)
	}
}

func TestSineSeedIsDeterministic(t *testing.T) {
	gen := func() []float64 {
		sig := newTestSignal(t)
		s := NewSine(Config{Samples: 16, Noise: 0.5}, sig)
		s.Seed(42)
		if err := s.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		return sig.Values()
	}
	if diff := cmp.Diff(gen(), gen()); diff != "" {
		t.Errorf("seeded runs differ (-first +second):\n%s", diff)
	}
}

func TestAcquireCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sig := newTestSignal(t)
	s := NewSine(Config{Samples: 100}, sig)
	if err := s.Acquire(ctx); err == nil {
		t.Fatal("expected context error")
	}
	if sig.Len() != 0 {
		t.Errorf("cancelled acquire stored %d samples", sig.Len())
	}
}
