package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"topactors-backend/internal/actor"
)

type actorReader interface {
	List(ctx context.Context) ([]actor.Record, error)
	Count(ctx context.Context) (int64, error)
}

type healthStatus struct {
	Status string `json:"status"`
	Actors int64  `json:"actors"`
}

type debugActor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

func writeJson(w http.ResponseWriter, status int, value any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		slog.Warn("write json response", "err", err)
	}
}

// NewMux serves the operational endpoints, it is not a public api.
func NewMux(store actorReader) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		count, err := store.Count(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "count actors", "err", err)
			writeJson(w, http.StatusServiceUnavailable, healthStatus{Status: "unavailable"})
			return
		}
		writeJson(w, http.StatusOK, healthStatus{Status: "ok", Actors: count})
	})
	mux.HandleFunc("GET /debug/actors", func(w http.ResponseWriter, r *http.Request) {
		records, err := store.List(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "list actors", "err", err)
			writeJson(w, http.StatusInternalServerError, map[string]string{"error": "failed to list actors"})
			return
		}
		out := make([]debugActor, len(records))
		for i, r := range records {
			out[i] = debugActor{ID: r.ID, Name: r.Name, Rank: r.Rank}
		}
		writeJson(w, http.StatusOK, out)
	})
	return mux
}
