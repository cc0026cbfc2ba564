package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/signal.report/internal/config"
)

func TestLoadConfigDefaultsFile(t *testing.T) {
	// Run from the repository root the checked-in defaults are picked up.
	if _, err := os.Stat(config.DefaultConfigPath); err != nil {
		t.Skipf("defaults file not present: %v", err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.GetAcquirer() != "sine" {
		t.Errorf("GetAcquirer() = %q, want %q", cfg.GetAcquirer(), "sine")
	}
	if cfg.GetComment() == "" {
		t.Error("defaults file should stamp a comment on acquired signals")
	}
}

func TestLoadConfigMissingDefaults(t *testing.T) {
	// Outside the repository there is no defaults file; an empty config
	// keeps the pipeline runnable on built-in defaults.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Samples != nil {
		t.Errorf("expected empty config, got samples %d", *cfg.Samples)
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(`{"acquirer": "file", "samples": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.GetAcquirer() != "file" || cfg.GetSamples() != 7 {
		t.Errorf("config = %s/%d, want file/7", cfg.GetAcquirer(), cfg.GetSamples())
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}
