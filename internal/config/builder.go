package config

import (
	"fmt"

	"github.com/banshee-data/signal.report/internal/acquire"
	"github.com/banshee-data/signal.report/internal/audit"
	"github.com/banshee-data/signal.report/internal/process"
	"github.com/banshee-data/signal.report/internal/signal"
	"github.com/banshee-data/signal.report/internal/store"
)

// NewInputSignal builds the signal the acquirer fills, stamped with the
// configured comment.
func (c *Config) NewInputSignal() (*signal.Signal, error) {
	buf, err := signal.NewBuffer(c.GetInputBuffer(), c.GetInputCapacity())
	if err != nil {
		return nil, fmt.Errorf("input buffer: %w", err)
	}
	sig := signal.New(buf)
	sig.Comment = c.GetComment()
	return sig, nil
}

// NewOutputSignal builds the signal the processor writes into.
func (c *Config) NewOutputSignal() (*signal.Signal, error) {
	buf, err := signal.NewBuffer(c.GetOutputBuffer(), c.GetOutputCapacity())
	if err != nil {
		return nil, fmt.Errorf("output buffer: %w", err)
	}
	return signal.New(buf), nil
}

// AcquireConfig collects the acquisition parameters for the configured kind.
func (c *Config) AcquireConfig() acquire.Config {
	return acquire.Config{
		Samples:    c.GetSamples(),
		Path:       c.GetInputPath(),
		Port:       c.GetSerialPort(),
		Baud:       c.GetSerialBaud(),
		UDPPort:    c.GetUDPPort(),
		Amplitude:  c.GetAmplitude(),
		Frequency:  c.GetFrequency(),
		SampleRate: c.GetSampleRate(),
		Noise:      c.GetNoise(),
	}
}

// NewAcquirer builds the configured acquirer writing into sig.
func (c *Config) NewAcquirer(sig *signal.Signal) (acquire.Acquirer, error) {
	return acquire.New(c.GetAcquirer(), c.AcquireConfig(), sig)
}

// ProcessConfig collects the processing parameters for the configured kind.
func (c *Config) ProcessConfig() process.Config {
	return process.Config{
		Factor:    c.GetFactor(),
		Threshold: c.GetThreshold(),
		Window:    c.GetWindow(),
	}
}

// NewProcessor builds the configured processor writing into out.
func (c *Config) NewProcessor(out *signal.Signal) (process.Processor, error) {
	return process.New(c.GetProcessor(), c.ProcessConfig(), out)
}

// newRepository builds a supervised repository over a fresh context
// rooted at dir. Both raw and processed repositories share the audit
// and trace log files.
func (c *Config) newRepository(dir string) (*store.SignalRepository, error) {
	ctx, err := store.NewContext(c.GetContext(), dir)
	if err != nil {
		return nil, err
	}
	auditor, err := audit.NewFileAuditor(c.GetAuditPath())
	if err != nil {
		return nil, err
	}
	tracer, err := audit.NewFileTracer(c.GetTracePath())
	if err != nil {
		return nil, err
	}
	return store.NewSignalRepository(ctx, auditor, tracer), nil
}

// NewRawRepository builds the repository for acquired signals.
func (c *Config) NewRawRepository() (*store.SignalRepository, error) {
	return c.newRepository(c.GetRawDir())
}

// NewProcessedRepository builds the repository for processed signals.
func (c *Config) NewProcessedRepository() (*store.SignalRepository, error) {
	return c.newRepository(c.GetProcessedDir())
}
