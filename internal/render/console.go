// Package render presents signals: a plain-text console view, an HTML chart
// and a PNG plot.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/banshee-data/signal.report/internal/process"
	"github.com/banshee-data/signal.report/internal/signal"
)

// Console writes a plain-text view of a signal.
type Console struct {
	out io.Writer
}

// NewConsole creates a console renderer writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Render writes metadata, samples and summary statistics for sig. Rendering
// an empty signal is an error.
func (c *Console) Render(sig *signal.Signal) error {
	if sig == nil {
		return fmt.Errorf("nil signal")
	}
	if sig.Empty() {
		return fmt.Errorf("cannot render empty signal %s", sig.ID)
	}

	fmt.Fprintf(c.out, "=== signal %s ===\n", sig.ID)
	if sig.Comment != "" {
		fmt.Fprintf(c.out, "comment:   %s\n", sig.Comment)
	}
	if !sig.AcquiredAt.IsZero() {
		fmt.Fprintf(c.out, "acquired:  %s\n", sig.AcquiredAt.Format(time.RFC3339))
	}
	fmt.Fprintf(c.out, "buffer:    %s\n", sig.Kind())
	fmt.Fprintf(c.out, "samples:   %d\n", sig.Len())

	for i, v := range sig.Values() {
		fmt.Fprintf(c.out, "  %4d  %12.6f\n", i, v)
	}

	s := process.Describe(sig)
	fmt.Fprintf(c.out, "min=%.6f max=%.6f mean=%.6f stddev=%.6f\n",
		s.Min, s.Max, s.Mean, s.StdDev)
	return nil
}
