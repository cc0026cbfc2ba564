package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/banshee-data/signal.report/internal/signal"
)

// recordHeader tags text files with the record shape so stale or foreign
// files are rejected on recovery.
const recordHeader = "record:signal/v1"

// TextContext persists signals as flat text files, one <id>.dat per signal,
// using the reflective record mapper.
type TextContext struct {
	dir string
}

// NewTextContext creates a text context rooted at dir, creating it if needed.
func NewTextContext(dir string) (*TextContext, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &TextContext{dir: dir}, nil
}

func (c *TextContext) Dir() string { return c.dir }

// Persist writes the mapped record to <dir>/<id>.dat with a header line.
func (c *TextContext) Persist(sig *signal.Signal) error {
	rec, err := toRecord(sig)
	if err != nil {
		return err
	}
	body, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("failed to map signal %s: %w", rec.ID, err)
	}

	path, err := signalPath(c.dir, rec.ID, ".dat")
	if err != nil {
		return err
	}
	content := recordHeader + "\n" + body
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Recover loads the signal stored under id.
func (c *TextContext) Recover(id string) (*signal.Signal, error) {
	path, err := signalPath(c.dir, id, ".dat")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	header, body, ok := strings.Cut(string(data), "\n")
	if !ok || strings.TrimSpace(header) != recordHeader {
		return nil, fmt.Errorf("%s is not a signal record (header %q)", path, header)
	}

	var rec Record
	if err := unmarshalRecord(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse signal %s: %w", id, err)
	}
	return rec.Signal()
}
