package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/signal.report/internal/api"
	"github.com/banshee-data/signal.report/internal/config"
	"github.com/banshee-data/signal.report/internal/pipeline"
	"github.com/banshee-data/signal.report/internal/render"
	"github.com/banshee-data/signal.report/internal/store"
	"github.com/banshee-data/signal.report/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a pipeline config JSON file")
	listen      = flag.String("listen", ":8080", "Listen address for the HTTP monitor")
	serve       = flag.Bool("serve", false, "Keep the HTTP monitor running after the pipeline completes")
	dbFile      = flag.String("db", "signals.db", "Path to the sqlite signal archive (empty disables archiving)")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("signal.report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	runner, archive, err := buildRunner(cfg, *dbFile)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}
	if archive != nil {
		defer archive.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// HTTP monitor goroutine; only useful with an archive to browse
	if *serve {
		if archive == nil {
			log.Fatal("-serve requires an archive, set -db")
		}
		if *listen == "" {
			log.Fatal("Listen address is required")
		}
		ws := api.NewWebServer(api.WebServerConfig{
			Address:     *listen,
			Archive:     archive,
			AdminRoutes: true,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ws.Start(ctx); err != nil {
				log.Printf("monitor server error: %v", err)
			}
		}()
	}

	res, err := runner.Run(ctx)
	if err != nil {
		stop()
		wg.Wait()
		log.Fatalf("pipeline failed: %v", err)
	}
	log.Printf("pipeline complete: raw %s, processed %s", res.RawID, res.ProcessedID)

	if *serve {
		log.Printf("monitor serving on %s", *listen)
	} else {
		stop()
	}

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

// loadConfig reads the config at path. When no path is given it falls back
// to the checked-in defaults file if present, and to an empty config when
// running outside the repository.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err != nil {
			return config.EmptyConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	return config.Load(path)
}

// buildRunner assembles the pipeline from the config. The archive is nil
// when dbFile is empty.
func buildRunner(cfg *config.Config, dbFile string) (*pipeline.Runner, *store.Store, error) {
	in, err := cfg.NewInputSignal()
	if err != nil {
		return nil, nil, err
	}
	out, err := cfg.NewOutputSignal()
	if err != nil {
		return nil, nil, err
	}

	acquirer, err := cfg.NewAcquirer(in)
	if err != nil {
		return nil, nil, err
	}
	processor, err := cfg.NewProcessor(out)
	if err != nil {
		return nil, nil, err
	}
	raw, err := cfg.NewRawRepository()
	if err != nil {
		return nil, nil, err
	}
	processed, err := cfg.NewProcessedRepository()
	if err != nil {
		return nil, nil, err
	}

	var archive *store.Store
	if dbFile != "" {
		archive, err = store.NewStore(dbFile)
		if err != nil {
			return nil, nil, err
		}
	}

	runner := &pipeline.Runner{
		Acquirer:  acquirer,
		Processor: processor,
		Raw:       raw,
		Processed: processed,
		Console:   render.NewConsole(os.Stdout),
		Archive:   archive,
		ChartPath: cfg.GetChartPath(),
		PlotPath:  cfg.GetPlotPath(),
	}
	if runner.ChartPath != "" {
		runner.Chart = render.NewChart("signal pipeline run")
	}
	if runner.PlotPath != "" {
		runner.Plot = render.NewPlot("signal pipeline run")
	}
	return runner, archive, nil
}
