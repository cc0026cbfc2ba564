package store

import (
	"compress/gzip"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Pipeline stage labels recorded in the archive.
const (
	StageRaw       = "raw"
	StageProcessed = "processed"
)

// Store is the sqlite archive of every signal that moved through the
// pipeline. Unlike the file contexts it is queryable: the monitor API and
// the tailsql debugger read from it.
type Store struct {
	*sql.DB
	path string
}

// NewStore opens (or creates) the archive at path and brings the schema up
// to date by running the embedded migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Store{DB: db, path: path}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive %s: %w", path, err)
	}
	return s, nil
}

// SignalRow is an archived signal with its samples.
type SignalRow struct {
	ID          string    `json:"id"`
	Stage       string    `json:"stage"`
	Comment     string    `json:"comment,omitempty"`
	BufferKind  string    `json:"buffer_kind"`
	AcquiredAt  time.Time `json:"acquired_at"`
	SampleCount int       `json:"sample_count"`
	Values      []float64 `json:"values,omitempty"`
}

func (r *SignalRow) String() string {
	return fmt.Sprintf("ID: %s, Stage: %s, Kind: %s, Samples: %d",
		r.ID, r.Stage, r.BufferKind, r.SampleCount)
}

// RecordSignal archives the signal and its samples under the given stage.
// Re-recording the same id replaces the previous samples.
func (s *Store) RecordSignal(sig *signal.Signal, stage string) error {
	if sig == nil || sig.ID == "" {
		return fmt.Errorf("signal must have an ID")
	}

	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO signals (id, stage, comment, buffer_kind, acquired_at, sample_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sig.ID, stage, sig.Comment, sig.Kind(), sig.AcquiredAt.UTC().Format(time.RFC3339Nano), sig.Len(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert signal %s: %w", sig.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM samples WHERE signal_id = ?`, sig.ID); err != nil {
		return fmt.Errorf("failed to clear samples for %s: %w", sig.ID, err)
	}
	for i, v := range sig.Values() {
		if _, err := tx.Exec(
			`INSERT INTO samples (signal_id, idx, value) VALUES (?, ?, ?)`,
			sig.ID, i, v,
		); err != nil {
			return fmt.Errorf("failed to insert sample %d of %s: %w", i, sig.ID, err)
		}
	}

	return tx.Commit()
}

// GetSignal returns the archived signal with its samples, or ErrNotFound.
func (s *Store) GetSignal(id string) (*SignalRow, error) {
	row := s.QueryRow(
		`SELECT id, stage, comment, buffer_kind, acquired_at, sample_count
		 FROM signals WHERE id = ?`, id)

	var r SignalRow
	var acquiredAt string
	err := row.Scan(&r.ID, &r.Stage, &r.Comment, &r.BufferKind, &acquiredAt, &r.SampleCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	r.AcquiredAt, err = time.Parse(time.RFC3339Nano, acquiredAt)
	if err != nil {
		return nil, fmt.Errorf("signal %s has a malformed acquired_at %q: %w", id, acquiredAt, err)
	}

	rows, err := s.Query(`SELECT value FROM samples WHERE signal_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		r.Values = append(r.Values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &r, nil
}

// ListSignals returns archived signal metadata, most recent first.
func (s *Store) ListSignals(limit int) ([]SignalRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Query(
		`SELECT id, stage, comment, buffer_kind, acquired_at, sample_count
		 FROM signals ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRow
	for rows.Next() {
		var r SignalRow
		var acquiredAt string
		if err := rows.Scan(&r.ID, &r.Stage, &r.Comment, &r.BufferKind, &acquiredAt, &r.SampleCount); err != nil {
			return nil, err
		}
		r.AcquiredAt, err = time.Parse(time.RFC3339Nano, acquiredAt)
		if err != nil {
			// Keep the listing usable; the row stays with a zero time.
			log.Printf("signal %s has a malformed acquired_at %q: %v", r.ID, acquiredAt, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AttachAdminRoutes mounts the tailsql live SQL debugger and a backup
// endpoint under /debug/ on the given mux.
func (s *Store) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://"+s.path, s.DB, &tailsql.DBOptions{
		Label: "Signal archive",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the archive now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := s.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := backupFile.WriteTo(gz); err != nil {
			log.Printf("Failed to stream backup: %v", err)
		}
	}))
}
