// Package statsrv exposes the admin HTTP endpoints used to inspect a
// running process: aggregate connection counters and the textual dump
// of the global state produced by globalstate.Global.Dump.
package statsrv

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MahdiBaghbani/sslguard/internal/globalstate"
)

// Stats is the counter snapshot served at /stats.
type Stats struct {
	ActiveConns int64 `json:"active_conns"`
	TotalConns  int64 `json:"total_conns"`
}

// Source supplies the live counters the router renders at /stats.
// Implemented by the process's connection manager.
type Source interface {
	Stats() Stats
}

// Router builds the chi router for the admin endpoints.
func Router(g *globalstate.Global, src Source) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, src.Stats())
	})

	r.Get("/filter/dump", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(g.Dump()))
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
