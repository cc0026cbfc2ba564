// Package signal defines the signal entity and its sample buffers.
package signal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Signal is a sequence of sampled values plus acquisition metadata. The
// sample storage discipline (slice, stack or ring) is decided by whoever
// constructs the signal, typically from config.
type Signal struct {
	ID         string
	Comment    string
	AcquiredAt time.Time
	Buffer     Buffer
}

// New creates a signal with a fresh uuid and the given buffer.
func New(buf Buffer) *Signal {
	if buf == nil {
		buf = NewSliceBuffer(DefaultCapacity)
	}
	return &Signal{
		ID:     uuid.NewString(),
		Buffer: buf,
	}
}

// Put appends a sample to the signal.
func (s *Signal) Put(v float64) error {
	return s.Buffer.Put(v)
}

// Take removes the next sample according to the buffer discipline.
func (s *Signal) Take() (float64, error) {
	return s.Buffer.Take()
}

// At returns the sample at index i in acquisition order.
func (s *Signal) At(i int) (float64, error) {
	return s.Buffer.At(i)
}

// Values returns a copy of the buffered samples in acquisition order.
func (s *Signal) Values() []float64 {
	return s.Buffer.Values()
}

// Len returns the number of buffered samples.
func (s *Signal) Len() int { return s.Buffer.Len() }

// Cap returns the buffer capacity.
func (s *Signal) Cap() int { return s.Buffer.Cap() }

// Empty reports whether the signal holds no samples.
func (s *Signal) Empty() bool { return s.Buffer.Empty() }

// Kind returns the buffer kind backing this signal.
func (s *Signal) Kind() string { return s.Buffer.Kind() }

func (s *Signal) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Signal %s (%s, %d samples)", s.ID, s.Kind(), s.Len())
	if s.Comment != "" {
		fmt.Fprintf(&b, " %q", s.Comment)
	}
	if !s.AcquiredAt.IsZero() {
		fmt.Fprintf(&b, " acquired %s", s.AcquiredAt.Format(time.RFC3339))
	}
	return b.String()
}
