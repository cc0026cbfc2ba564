package render

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Plot renders signals as a PNG line plot.
type Plot struct {
	title string
}

// NewPlot creates a PNG plot renderer with the given title.
func NewPlot(title string) *Plot {
	if title == "" {
		title = "Signal"
	}
	return &Plot{title: title}
}

// RenderFile draws the named signals as lines over the sample index and saves
// a PNG at path.
func (p *Plot) RenderFile(path string, signals map[string]*signal.Signal) error {
	if len(signals) == 0 {
		return fmt.Errorf("no signals to plot")
	}

	pl := plot.New()
	pl.Title.Text = p.title
	pl.X.Label.Text = "sample"
	pl.Y.Label.Text = "value"
	pl.Add(plotter.NewGrid())

	for name, sig := range signals {
		if sig == nil || sig.Empty() {
			return fmt.Errorf("cannot plot empty signal %q", name)
		}
		pts := make(plotter.XYs, sig.Len())
		for i, v := range sig.Values() {
			pts[i].X = float64(i)
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build line for %q: %w", name, err)
		}
		line.Width = vg.Points(1)
		pl.Add(line)
		pl.Legend.Add(name, line)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}
	if err := pl.Save(12*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
