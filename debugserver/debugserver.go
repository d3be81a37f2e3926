// Package debugserver exposes the most recent search's Summary as JSON
// over HTTP, for operators attaching to a running daemon rather than
// parsing its log stream. It is optional: callers who never call Start
// pay nothing for it.
package debugserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/AdKamat2411/ChessMirror/searcher"
	"github.com/rs/zerolog/log"
)

// Server serves the last reported Summary on /summary.
type Server struct {
	mu      sync.RWMutex
	last    searcher.Summary
	haveOne bool
}

// New returns an empty Server; call Record after each search and Start
// once to begin serving.
func New() *Server {
	return &Server{}
}

// Record stores s as the most recently completed search's summary.
func (srv *Server) Record(s searcher.Summary) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.last = s
	srv.haveOne = true
}

// Start serves /summary on addr (e.g. ":8090") until the process exits.
// It runs in the caller's goroutine; callers that want it backgrounded
// should call it with `go`.
func (srv *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/summary", srv.handleSummary)
	log.Info().Str("addr", addr).Msg("debug server listening")
	return http.ListenAndServe(addr, mux)
}

func (srv *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	if !srv.haveOne {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(srv.last); err != nil {
		http.Error(w, "failed to encode summary: "+err.Error(), http.StatusInternalServerError)
	}
}
