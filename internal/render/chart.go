package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Chart renders signals as an HTML line chart.
type Chart struct {
	title string
}

// NewChart creates a chart renderer with the given page title.
func NewChart(title string) *Chart {
	if title == "" {
		title = "Signal"
	}
	return &Chart{title: title}
}

// Render writes a line chart of the named signals to w. Series are drawn on a
// shared sample-index axis.
func (c *Chart) Render(w io.Writer, signals map[string]*signal.Signal) error {
	if len(signals) == 0 {
		return fmt.Errorf("no signals to chart")
	}

	maxLen := 0
	for name, sig := range signals {
		if sig == nil || sig.Empty() {
			return fmt.Errorf("cannot chart empty signal %q", name)
		}
		if sig.Len() > maxLen {
			maxLen = sig.Len()
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: c.title, Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: c.title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sample"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	xAxis := make([]int, maxLen)
	for i := range xAxis {
		xAxis[i] = i
	}
	line.SetXAxis(xAxis)

	for name, sig := range signals {
		values := sig.Values()
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderFile renders the chart into an HTML file, creating parent
// directories as needed.
func (c *Chart) RenderFile(path string, signals map[string]*signal.Signal) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer f.Close()
	return c.Render(f, signals)
}
