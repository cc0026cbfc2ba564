// Package audit provides segregated audit and trace hooks for repositories
// that supervise critical entities.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/signal.report/internal/timeutil"
)

// Auditor records that an operation happened around an entity.
type Auditor interface {
	Audit(entity fmt.Stringer, note string) error
}

// Tracer records a failed or notable action against an entity.
type Tracer interface {
	Trace(entity fmt.Stringer, action, message string) error
}

// FileAuditor appends audit records to a log file.
type FileAuditor struct {
	path  string
	clock timeutil.Clock
}

// NewFileAuditor creates an auditor writing to the given file. Parent
// directories are created as needed.
func NewFileAuditor(path string) (*FileAuditor, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	return &FileAuditor{path: path, clock: timeutil.RealClock{}}, nil
}

// Audit appends one record: separator, entity, timestamp, note.
func (a *FileAuditor) Audit(entity fmt.Stringer, note string) error {
	return appendRecord(a.path, func(f *os.File) error {
		_, err := fmt.Fprintf(f, "------->\n%s\n%s\n%s\n\n",
			stringify(entity), a.clock.Now().Format(time.RFC3339), note)
		return err
	})
}

// FileTracer appends trace records to a log file.
type FileTracer struct {
	path  string
	clock timeutil.Clock
}

// NewFileTracer creates a tracer writing to the given file. Parent
// directories are created as needed.
func NewFileTracer(path string) (*FileTracer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create trace log directory: %w", err)
	}
	return &FileTracer{path: path, clock: timeutil.RealClock{}}, nil
}

// Trace appends one record: separator, action, entity, timestamp, message.
func (t *FileTracer) Trace(entity fmt.Stringer, action, message string) error {
	return appendRecord(t.path, func(f *os.File) error {
		_, err := fmt.Fprintf(f, "------->\naction: %s\n%s\n%s\n%s\n\n",
			action, stringify(entity), t.clock.Now().Format(time.RFC3339), message)
		return err
	})
}

func appendRecord(path string, write func(*os.File) error) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("failed to append to log %s: %w", path, err)
	}
	return nil
}

func stringify(entity fmt.Stringer) string {
	if entity == nil {
		return "<nil>"
	}
	return entity.String()
}
