package acquire

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Sine generates a synthetic sinusoid, optionally with uniform noise. Useful
// for exercising the pipeline without hardware attached.
type Sine struct {
	samples    int
	amplitude  float64
	frequency  float64
	sampleRate float64
	noise      float64
	rng        *rand.Rand
	sig        *signal.Signal
}

// NewSine creates a sine generator from cfg. Zero-valued parameters fall back
// to a 1 Hz unit sinusoid sampled at 100 Hz.
func NewSine(cfg Config, sig *signal.Signal) *Sine {
	s := &Sine{
		samples:    cfg.Samples,
		amplitude:  cfg.Amplitude,
		frequency:  cfg.Frequency,
		sampleRate: cfg.SampleRate,
		noise:      cfg.Noise,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sig:        sig,
	}
	if s.samples <= 0 {
		s.samples = 20
	}
	if s.amplitude == 0 {
		s.amplitude = 1.0
	}
	if s.frequency <= 0 {
		s.frequency = 1.0
	}
	if s.sampleRate <= 0 {
		s.sampleRate = 100.0
	}
	return s
}

func (s *Sine) Signal() *signal.Signal { return s.sig }

// Seed fixes the noise source, for reproducible traces.
func (s *Sine) Seed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Acquire fills the signal with amplitude*sin(2*pi*f*t) plus noise.
func (s *Sine) Acquire(ctx context.Context) error {
	for i := 0; i < s.samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := float64(i) / s.sampleRate
		v := s.amplitude * math.Sin(2*math.Pi*s.frequency*t)
		if s.noise > 0 {
			v += (s.rng.Float64()*2 - 1) * s.noise
		}
		if err := s.sig.Put(v); err != nil {
			return fmt.Errorf("failed to store sample %d: %w", i, err)
		}
	}
	s.sig.AcquiredAt = time.Now()
	return nil
}
