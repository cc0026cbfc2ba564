// Package process transforms acquired signals: amplification, threshold
// filtering, standardisation and smoothing.
package process

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Processor kind constants. These are the values accepted in config files.
const (
	KindAmplifier     = "amplifier"
	KindThreshold     = "threshold"
	KindZScore        = "zscore"
	KindMovingAverage = "moving_average"
)

// ValidKinds lists the accepted processor kinds.
var ValidKinds = []string{KindAmplifier, KindThreshold, KindZScore, KindMovingAverage}

// Processor transforms an input signal into an injected output signal.
type Processor interface {
	// Process reads the samples of in and writes transformed samples into
	// the output signal. The input is not modified.
	Process(in *signal.Signal) error
	// Output returns the signal holding the processed samples.
	Output() *signal.Signal
}

// Config carries the per-strategy processing parameters. Only the fields
// relevant to the configured kind are used.
type Config struct {
	// Factor scales samples in the amplifier.
	Factor float64
	// Threshold bounds samples in the threshold filter.
	Threshold float64
	// Window is the moving-average window width in samples.
	Window int
}

// New creates a processor of the given kind writing into out.
func New(kind string, cfg Config, out *signal.Signal) (Processor, error) {
	switch kind {
	case KindAmplifier:
		return NewAmplifier(cfg.Factor, out), nil
	case KindThreshold:
		return NewThreshold(cfg.Threshold, out), nil
	case KindZScore:
		return NewZScore(out), nil
	case KindMovingAverage:
		return NewMovingAverage(cfg.Window, out), nil
	default:
		return nil, fmt.Errorf("unknown processor kind %q (valid: amplifier, threshold, zscore, moving_average)", kind)
	}
}

// Summary holds descriptive statistics of a signal.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Describe computes summary statistics over the samples of sig.
func Describe(sig *signal.Signal) Summary {
	values := sig.Values()
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
		Mean:  stat.Mean(values, nil),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// copyInto writes values into the output signal, wrapping storage errors.
func copyInto(out *signal.Signal, values []float64) error {
	for i, v := range values {
		if err := out.Put(v); err != nil {
			return fmt.Errorf("failed to store processed sample %d: %w", i, err)
		}
	}
	return nil
}
