// Package store persists signals. A Context saves single signals to files
// (binary gob or flat text); a Repository decorates a Context with audit and
// trace supervision; the Store keeps a queryable sqlite archive of every
// signal that moved through the pipeline.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/signal.report/internal/security"
	"github.com/banshee-data/signal.report/internal/signal"
)

// Context kind constants. These are the values accepted in config files.
const (
	KindGob  = "gob"
	KindText = "text"
)

// ValidContextKinds lists the accepted persistence context kinds.
var ValidContextKinds = []string{KindGob, KindText}

// ErrNotFound is returned by Recover when no file exists for the id.
var ErrNotFound = fmt.Errorf("signal not found")

// Context is a file-backed persistence strategy for single signals.
type Context interface {
	// Persist writes the signal under its ID.
	Persist(sig *signal.Signal) error
	// Recover loads the signal stored under id.
	Recover(id string) (*signal.Signal, error)
	// Dir returns the backing directory.
	Dir() string
}

// NewContext creates a persistence context of the given kind rooted at dir.
func NewContext(kind, dir string) (Context, error) {
	switch kind {
	case KindGob:
		return NewGobContext(dir)
	case KindText:
		return NewTextContext(dir)
	default:
		return nil, fmt.Errorf("unknown context kind %q (valid: gob, text)", kind)
	}
}

// ensureDir validates and creates the context resource directory.
func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("context directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create context directory %s: %w", dir, err)
	}
	return nil
}

// signalPath builds the storage path for id under dir, rejecting IDs that
// would name a file outside the context directory.
func signalPath(dir, id, ext string) (string, error) {
	name := id + ext
	if err := security.ValidateFileName(name); err != nil {
		return "", fmt.Errorf("invalid signal id: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := security.ValidatePathWithinDirectory(path, dir); err != nil {
		return "", fmt.Errorf("invalid signal id %q: %w", id, err)
	}
	return path, nil
}

// Record is the serialised form of a signal. Both file contexts and the
// reflective text mapper operate on this flat shape.
type Record struct {
	ID         string    `record:"id"`
	Comment    string    `record:"comment"`
	AcquiredAt time.Time `record:"acquired_at"`
	Kind       string    `record:"kind"`
	Capacity   int       `record:"capacity"`
	Values     []float64 `record:"values"`
}

// toRecord flattens a signal for persistence.
func toRecord(sig *signal.Signal) (*Record, error) {
	if sig == nil {
		return nil, fmt.Errorf("nil signal")
	}
	if strings.TrimSpace(sig.ID) == "" {
		return nil, fmt.Errorf("signal has no ID")
	}
	return &Record{
		ID:         sig.ID,
		Comment:    sig.Comment,
		AcquiredAt: sig.AcquiredAt,
		Kind:       sig.Kind(),
		Capacity:   sig.Buffer.Cap(),
		Values:     sig.Values(),
	}, nil
}

// Signal rebuilds the signal described by the record, restoring the original
// buffer kind.
func (r *Record) Signal() (*signal.Signal, error) {
	capacity := r.Capacity
	if capacity < len(r.Values) {
		capacity = len(r.Values)
	}
	buf, err := signal.NewBuffer(r.Kind, capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild %q buffer: %w", r.Kind, err)
	}
	for i, v := range r.Values {
		if err := buf.Put(v); err != nil {
			return nil, fmt.Errorf("failed to restore sample %d: %w", i, err)
		}
	}
	return &signal.Signal{
		ID:         r.ID,
		Comment:    r.Comment,
		AcquiredAt: r.AcquiredAt,
		Buffer:     buf,
	}, nil
}
