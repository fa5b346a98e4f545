package handlers

import (
	"net/http"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/middleware"
	"cfb-pickem-go/services"
)

// PickHandler handles the current user's weekly and bowl picks
type PickHandler struct {
	picks     *services.PickService
	validator *RequestValidator
	logger    *logging.Logger
}

// NewPickHandler creates a new pick handler
func NewPickHandler(picks *services.PickService, validator *RequestValidator) *PickHandler {
	return &PickHandler{
		picks:     picks,
		validator: validator,
		logger:    logging.WithPrefix("PickHandler"),
	}
}

// GetWeekPicks handles GET /api/seasons/{season}/weeks/{week}/picks
func (h *PickHandler) GetWeekPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
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

	picks, err := h.picks.GetUserWeekPicks(r.Context(), user.ID, season, week)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

// SubmitWeekPicks handles PUT /api/seasons/{season}/weeks/{week}/picks
func (h *PickHandler) SubmitWeekPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
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

	var req WeeklyPicksRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	picks, err := h.picks.SubmitWeeklyPicks(r.Context(), user.ID, season, week, req.ToInputs())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

// GetBowlPicks handles GET /api/bowls/{season}/picks
func (h *PickHandler) GetBowlPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	picks, err := h.picks.GetUserBowlPicks(r.Context(), user.ID, season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

// SubmitBowlPicks handles PUT /api/bowls/{season}/picks
func (h *PickHandler) SubmitBowlPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req BowlPicksRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	picks, err := h.picks.SubmitBowlPicks(r.Context(), user.ID, season, req.ToInputs())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, picks)
}
