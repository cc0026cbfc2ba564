// Package pipeline orchestrates a full signal run: acquisition, raw
// persistence, processing, processed persistence, recovery and rendering.
// The runner makes no construction decisions; every collaborator is
// injected already configured.
package pipeline

import (
	"context"
	"fmt"

	"github.com/banshee-data/signal.report/internal/acquire"
	"github.com/banshee-data/signal.report/internal/monitoring"
	"github.com/banshee-data/signal.report/internal/process"
	"github.com/banshee-data/signal.report/internal/render"
	"github.com/banshee-data/signal.report/internal/signal"
	"github.com/banshee-data/signal.report/internal/store"
)

// Runner drives one acquisition through the pipeline. Archive, Chart and
// Plot are optional; the rest are required.
type Runner struct {
	Acquirer  acquire.Acquirer
	Processor process.Processor
	Raw       store.Repository
	Processed store.Repository
	Console   *render.Console

	// Archive records both signals in the sqlite store when set.
	Archive *store.Store

	// Chart and Plot write file renderings of the run when their paths
	// are non-empty.
	Chart     *render.Chart
	ChartPath string
	Plot      *render.Plot
	PlotPath  string
}

// Result reports the IDs of the signals a run produced.
type Result struct {
	RawID       string
	ProcessedID string
}

// Run executes the pipeline once. Signals are persisted before rendering
// and rendered from their recovered copies, so a run that completes proves
// the persistence roundtrip.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	monitoring.Logf("acquiring signal")
	if err := r.Acquirer.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	raw := r.Acquirer.Signal()
	logSummary("acquired", raw)

	if err := r.Raw.Save(raw); err != nil {
		return nil, fmt.Errorf("save raw signal: %w", err)
	}

	if err := r.Processor.Process(raw); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	processed := r.Processor.Output()
	processed.Comment = "processed"
	if raw.Comment != "" {
		processed.Comment = "processed: " + raw.Comment
	}
	logSummary("processed", processed)

	if err := r.Processed.Save(processed); err != nil {
		return nil, fmt.Errorf("save processed signal: %w", err)
	}

	if r.Archive != nil {
		if err := r.Archive.RecordSignal(raw, store.StageRaw); err != nil {
			return nil, fmt.Errorf("archive raw signal: %w", err)
		}
		if err := r.Archive.RecordSignal(processed, store.StageProcessed); err != nil {
			return nil, fmt.Errorf("archive processed signal: %w", err)
		}
	}

	rawCopy, err := r.Raw.Get(raw.ID)
	if err != nil {
		return nil, fmt.Errorf("recover raw signal: %w", err)
	}
	processedCopy, err := r.Processed.Get(processed.ID)
	if err != nil {
		return nil, fmt.Errorf("recover processed signal: %w", err)
	}

	if err := r.Console.Render(rawCopy); err != nil {
		return nil, fmt.Errorf("render raw signal: %w", err)
	}
	if err := r.Console.Render(processedCopy); err != nil {
		return nil, fmt.Errorf("render processed signal: %w", err)
	}

	signals := map[string]*signal.Signal{
		"raw":       rawCopy,
		"processed": processedCopy,
	}
	if r.Chart != nil && r.ChartPath != "" {
		if err := r.Chart.RenderFile(r.ChartPath, signals); err != nil {
			return nil, fmt.Errorf("render chart: %w", err)
		}
		monitoring.Logf("wrote chart to %s", r.ChartPath)
	}
	if r.Plot != nil && r.PlotPath != "" {
		if err := r.Plot.RenderFile(r.PlotPath, signals); err != nil {
			return nil, fmt.Errorf("render plot: %w", err)
		}
		monitoring.Logf("wrote plot to %s", r.PlotPath)
	}

	return &Result{RawID: raw.ID, ProcessedID: processed.ID}, nil
}

func (r *Runner) validate() error {
	switch {
	case r.Acquirer == nil:
		return fmt.Errorf("runner requires an acquirer")
	case r.Processor == nil:
		return fmt.Errorf("runner requires a processor")
	case r.Raw == nil || r.Processed == nil:
		return fmt.Errorf("runner requires raw and processed repositories")
	case r.Console == nil:
		return fmt.Errorf("runner requires a console renderer")
	}
	return nil
}

func logSummary(stage string, sig *signal.Signal) {
	s := process.Describe(sig)
	monitoring.Logf("%s signal %s: %d samples, mean %.4f, stddev %.4f", stage, sig.ID, s.Count, s.Mean, s.StdDev)
}
