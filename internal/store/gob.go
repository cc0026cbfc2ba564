package store

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/banshee-data/signal.report/internal/signal"
)

// GobContext persists signals as binary gob files, one <id>.gob per signal.
type GobContext struct {
	dir string
}

// NewGobContext creates a gob context rooted at dir, creating it if needed.
func NewGobContext(dir string) (*GobContext, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &GobContext{dir: dir}, nil
}

func (c *GobContext) Dir() string { return c.dir }

// Persist writes the signal record to <dir>/<id>.gob.
func (c *GobContext) Persist(sig *signal.Signal) error {
	rec, err := toRecord(sig)
	if err != nil {
		return err
	}

	path, err := signalPath(c.dir, rec.ID, ".gob")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("failed to encode signal %s: %w", rec.ID, err)
	}
	return nil
}

// Recover loads the signal stored under id.
func (c *GobContext) Recover(id string) (*signal.Signal, error) {
	path, err := signalPath(c.dir, id, ".gob")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rec Record
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode signal %s: %w", id, err)
	}
	return rec.Signal()
}
