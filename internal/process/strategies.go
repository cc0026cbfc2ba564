package process

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Amplifier scales every sample by a constant factor.
type Amplifier struct {
	factor float64
	out    *signal.Signal
}

// NewAmplifier creates an amplifier. A zero factor defaults to 2x.
func NewAmplifier(factor float64, out *signal.Signal) *Amplifier {
	if factor == 0 {
		factor = 2.0
	}
	return &Amplifier{factor: factor, out: out}
}

func (a *Amplifier) Output() *signal.Signal { return a.out }

func (a *Amplifier) Process(in *signal.Signal) error {
	values := in.Values()
	for i := range values {
		values[i] *= a.factor
	}
	a.stamp(in)
	return copyInto(a.out, values)
}

func (a *Amplifier) stamp(in *signal.Signal) { stampFrom(a.out, in) }

// Threshold passes samples strictly below the threshold and zeroes the rest.
type Threshold struct {
	threshold float64
	out       *signal.Signal
}

// NewThreshold creates a threshold filter.
func NewThreshold(threshold float64, out *signal.Signal) *Threshold {
	return &Threshold{threshold: threshold, out: out}
}

func (t *Threshold) Output() *signal.Signal { return t.out }

func (t *Threshold) Process(in *signal.Signal) error {
	values := in.Values()
	for i, v := range values {
		if v >= t.threshold {
			values[i] = 0
		}
	}
	stampFrom(t.out, in)
	return copyInto(t.out, values)
}

// ZScore standardises samples to zero mean and unit variance.
type ZScore struct {
	out *signal.Signal
}

// NewZScore creates a standardising processor.
func NewZScore(out *signal.Signal) *ZScore {
	return &ZScore{out: out}
}

func (z *ZScore) Output() *signal.Signal { return z.out }

func (z *ZScore) Process(in *signal.Signal) error {
	values := in.Values()
	if len(values) < 2 {
		return fmt.Errorf("zscore requires at least 2 samples, got %d", len(values))
	}
	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return fmt.Errorf("zscore undefined for constant signal")
	}
	for i := range values {
		values[i] = stat.StdScore(values[i], mean, std)
	}
	stampFrom(z.out, in)
	return copyInto(z.out, values)
}

// MovingAverage smooths the signal with a centred window.
type MovingAverage struct {
	window int
	out    *signal.Signal
}

// NewMovingAverage creates a smoother. The window is clamped to an odd value
// of at least 3.
func NewMovingAverage(window int, out *signal.Signal) *MovingAverage {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	return &MovingAverage{window: window, out: out}
}

func (m *MovingAverage) Output() *signal.Signal { return m.out }

func (m *MovingAverage) Process(in *signal.Signal) error {
	values := in.Values()
	half := m.window / 2
	smoothed := make([]float64, len(values))
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(values) {
			hi = len(values)
		}
		smoothed[i] = stat.Mean(values[lo:hi], nil)
	}
	stampFrom(m.out, in)
	return copyInto(m.out, smoothed)
}

// stampFrom carries acquisition metadata onto the processed signal.
func stampFrom(out, in *signal.Signal) {
	out.AcquiredAt = in.AcquiredAt
}
