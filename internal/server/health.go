package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"rift-rewind/internal/constants"
)

func Healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

type index struct {
	Service    string   `json:"service"`
	Procedures []string `json:"procedures"`
}

// Index is where callers without a session land. It lists the RPC
// procedures so a client can discover the surface.
func Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	procedures := []string{
		SearchProcedure,
		GetStatsProcedure,
		GetTimelineProcedure,
		GetHeatmapPlanProcedure,
		GenerateRecapProcedure,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(index{Service: RiftRewindName, Procedures: procedures})
}
