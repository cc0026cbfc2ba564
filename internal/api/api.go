// Package api serves the HTTP monitor for the signal archive: health
// checks, signal listings and on-demand chart renderings.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/signal.report/internal/render"
	"github.com/banshee-data/signal.report/internal/signal"
	"github.com/banshee-data/signal.report/internal/store"
)

// WebServer handles the HTTP interface for browsing archived signals
type WebServer struct {
	address string
	archive *store.Store
	server  *http.Server
}

// WebServerConfig contains configuration options for the web server
type WebServerConfig struct {
	Address string
	Archive *store.Store
	// AdminRoutes exposes the archive debug and backup endpoints when set.
	AdminRoutes bool
}

// NewWebServer creates a new web server with the provided configuration
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		archive: config.Archive,
	}

	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(config.AdminRoutes),
	}

	return ws
}

// Start begins the HTTP server in a goroutine and handles graceful shutdown
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		log.Printf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	log.Printf("HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers
func (ws *WebServer) setupRoutes(admin bool) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", ws.handleHealth)
	mux.HandleFunc("GET /api/signals", ws.handleListSignals)
	mux.HandleFunc("GET /api/signals/{id}", ws.handleGetSignal)
	mux.HandleFunc("GET /charts/{id}", ws.handleChart)

	if admin && ws.archive != nil {
		ws.archive.AttachAdminRoutes(mux)
	}

	return mux
}

// ServeMux exposes the configured routes for tests and embedding.
func (ws *WebServer) ServeMux() http.Handler {
	return ws.server.Handler
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "signal-report", "timestamp": "%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func (ws *WebServer) handleListSignals(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	rows, err := ws.archive.ListSignals(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list signals: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		log.Printf("failed to encode signal list: %v", err)
	}
}

func (ws *WebServer) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	row, ok := ws.lookupSignal(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(row); err != nil {
		log.Printf("failed to encode signal %s: %v", row.ID, err)
	}
}

func (ws *WebServer) handleChart(w http.ResponseWriter, r *http.Request) {
	row, ok := ws.lookupSignal(w, r)
	if !ok {
		return
	}

	sig, err := rowSignal(row)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to rebuild signal: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	chart := render.NewChart(fmt.Sprintf("signal %s (%s)", row.ID, row.Stage))
	if err := chart.Render(w, map[string]*signal.Signal{row.Stage: sig}); err != nil {
		log.Printf("failed to render chart for %s: %v", row.ID, err)
	}
}

// lookupSignal fetches the row for the {id} path segment, writing the
// error response itself when the lookup fails.
func (ws *WebServer) lookupSignal(w http.ResponseWriter, r *http.Request) (*store.SignalRow, bool) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "missing signal id", http.StatusBadRequest)
		return nil, false
	}

	row, err := ws.archive.GetSignal(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "signal not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("failed to load signal: %v", err), http.StatusInternalServerError)
		}
		return nil, false
	}
	return row, true
}

// rowSignal rebuilds an in-memory signal from an archived row so the
// renderers can draw it.
func rowSignal(row *store.SignalRow) (*signal.Signal, error) {
	capacity := len(row.Values)
	if capacity == 0 {
		capacity = 1
	}
	buf, err := signal.NewBuffer(row.BufferKind, capacity)
	if err != nil {
		return nil, err
	}
	sig := signal.New(buf)
	sig.ID = row.ID
	sig.Comment = row.Comment
	sig.AcquiredAt = row.AcquiredAt
	for _, v := range row.Values {
		if err := sig.Put(v); err != nil {
			return nil, err
		}
	}
	return sig, nil
}
