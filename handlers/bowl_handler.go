package handlers

import (
	"net/http"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/services"
)

// BowlHandler serves the bowl slate and both bowl leaderboards
type BowlHandler struct {
	games  *services.GameService
	bowls  *services.BowlLeaderboardService
	logger *logging.Logger
}

// NewBowlHandler creates a new bowl handler
func NewBowlHandler(games *services.GameService, bowls *services.BowlLeaderboardService) *BowlHandler {
	return &BowlHandler{
		games:  games,
		bowls:  bowls,
		logger: logging.WithPrefix("BowlHandler"),
	}
}

// GetBowlGames handles GET /api/bowls/{season}/games
func (h *BowlHandler) GetBowlGames(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	games, err := h.games.GetBowlGames(r.Context(), season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// GetBowlLeaderboard handles GET /api/bowls/{season}/leaderboard
func (h *BowlHandler) GetBowlLeaderboard(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	entries, err := h.bowls.GetBowlLeaderboard(r.Context(), season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetOutrightLeaderboard handles GET /api/bowls/{season}/leaderboard/outright
func (h *BowlHandler) GetOutrightLeaderboard(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	entries, err := h.bowls.GetBowlOutrightLeaderboard(r.Context(), season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetUserBowlHistory handles GET /api/bowls/{season}/users/{userID}/history
func (h *BowlHandler) GetUserBowlHistory(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	userID, err := objectIDVar(r, "userID")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	history, err := h.bowls.GetUserBowlHistory(r.Context(), userID, season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
