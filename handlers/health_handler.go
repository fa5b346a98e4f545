package handlers

import (
	"context"
	"net/http"
)

// Pinger is anything whose liveness /healthz should report
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports ok when the store answers
func Healthz(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// CurrentSeason reports the season the pool is playing
func CurrentSeason(season int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"season": season})
	}
}
