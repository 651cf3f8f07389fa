package services

import (
	"net/http"

	h "admin/internal/helpers"
	m "admin/internal/middlewares"
	"admin/internal/session"
	"admin/internal/stats"

	"github.com/go-chi/chi/v5"
)

type StatsService struct {
	Aggregator stats.Aggregator
	Sessions   session.Store
}

func (s StatsService) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(m.RequireSession(s.Sessions)).Get("/stats", s.GetStats)
	return r
}

// GetStats always answers 200; fetch failures surface as a stale snapshot.
func (s StatsService) GetStats(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Aggregator.Snapshot(r.Context(), m.GetLogger(r), m.GetSessionToken(r))
	h.RespondWithJSON(w, http.StatusOK, snapshot)
}
