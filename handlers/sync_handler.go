package handlers

import (
	"context"
	"net/http"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/middleware"
	"cfb-pickem-go/services"
)

// ResultsProvider fetches a week's final scores from a sports-data API
type ResultsProvider interface {
	Configured() bool
	GetWeekResults(ctx context.Context, season, week int) ([]services.ExternalGameResult, error)
	GetPostseasonResults(ctx context.Context, season int) ([]services.ExternalGameResult, error)
}

// SyncHandler applies external results for a week
type SyncHandler struct {
	results   *services.ResultService
	provider  ResultsProvider
	validator *RequestValidator
	logger    *logging.Logger
}

// NewSyncHandler creates a new sync handler. provider may be nil, in which
// case results must be posted in the body.
func NewSyncHandler(results *services.ResultService, provider ResultsProvider, validator *RequestValidator) *SyncHandler {
	return &SyncHandler{
		results:   results,
		provider:  provider,
		validator: validator,
		logger:    logging.WithPrefix("SyncHandler"),
	}
}

// SyncWeekResults handles POST /api/sync/seasons/{season}/weeks/{week}/results
func (h *SyncHandler) SyncWeekResults(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	week, err := weekVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	external, ok := h.readResults(w, r, func(ctx context.Context) ([]services.ExternalGameResult, error) {
		return h.provider.GetWeekResults(ctx, season, week)
	})
	if !ok {
		return
	}

	report, err := h.results.SyncWeekResults(r.Context(), season, week, external, middleware.ActorName(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SyncBowlResults handles POST /api/sync/bowls/{season}/results
func (h *SyncHandler) SyncBowlResults(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	external, ok := h.readResults(w, r, func(ctx context.Context) ([]services.ExternalGameResult, error) {
		return h.provider.GetPostseasonResults(ctx, season)
	})
	if !ok {
		return
	}

	report, err := h.results.SyncBowlResults(r.Context(), season, external, middleware.ActorName(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// readResults returns the posted results, or fetches them when the body
// carries none. It writes the error response itself and reports false.
func (h *SyncHandler) readResults(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]services.ExternalGameResult, error)) ([]services.ExternalGameResult, bool) {
	var req SyncRequest
	if err := decodeOptionalJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}

	external := req.ToResults()
	if len(external) > 0 {
		return external, true
	}
	if h.provider == nil || !h.provider.Configured() {
		writeError(w, http.StatusUnprocessableEntity, "no results posted and no results provider configured")
		return nil, false
	}

	external, err := fetch(r.Context())
	if err != nil {
		h.logger.Errorf("Provider fetch for %s failed: %v", r.URL.Path, err)
		writeError(w, http.StatusBadGateway, "results provider unavailable")
		return nil, false
	}
	return external, true
}
