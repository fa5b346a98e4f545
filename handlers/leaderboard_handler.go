package handlers

import (
	"net/http"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/services"
)

// LeaderboardHandler serves the regular-season slate and standings
type LeaderboardHandler struct {
	games        *services.GameService
	leaderboards *services.LeaderboardService
	logger       *logging.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(games *services.GameService, leaderboards *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		games:        games,
		leaderboards: leaderboards,
		logger:       logging.WithPrefix("LeaderboardHandler"),
	}
}

// GetWeekGames handles GET /api/seasons/{season}/weeks/{week}/games
func (h *LeaderboardHandler) GetWeekGames(w http.ResponseWriter, r *http.Request) {
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

	games, err := h.games.GetWeekGames(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// GetWeeklyLeaderboard handles GET /api/seasons/{season}/weeks/{week}/leaderboard
func (h *LeaderboardHandler) GetWeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.leaderboards.GetWeeklyLeaderboard(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetSeasonLeaderboard handles GET /api/seasons/{season}/leaderboard
func (h *LeaderboardHandler) GetSeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	entries, err := h.leaderboards.GetSeasonLeaderboard(r.Context(), season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetUserHistory handles GET /api/seasons/{season}/users/{userID}/history
func (h *LeaderboardHandler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
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

	history, err := h.leaderboards.GetUserSeasonHistory(r.Context(), userID, season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
