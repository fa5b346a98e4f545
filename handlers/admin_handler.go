package handlers

import (
	"net/http"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/middleware"
	"cfb-pickem-go/services"

	"github.com/gorilla/mux"
)

// AdminHandler handles line uploads, result entry and alias maintenance
type AdminHandler struct {
	games      *services.GameService
	results    *services.ResultService
	normalizer *services.TeamNameNormalizer
	validator  *RequestValidator
	logger     *logging.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(games *services.GameService, results *services.ResultService, normalizer *services.TeamNameNormalizer, validator *RequestValidator) *AdminHandler {
	return &AdminHandler{
		games:      games,
		results:    results,
		normalizer: normalizer,
		validator:  validator,
		logger:     logging.WithPrefix("AdminHandler"),
	}
}

// UploadWeekGames handles POST /api/admin/seasons/{season}/weeks/{week}/games
func (h *AdminHandler) UploadWeekGames(w http.ResponseWriter, r *http.Request) {
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

	var req GameLinesRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	games, err := h.games.UpsertWeekGames(r.Context(), season, week, req.ToInputs())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// UploadBowlGames handles POST /api/admin/bowls/{season}/games
func (h *AdminHandler) UploadBowlGames(w http.ResponseWriter, r *http.Request) {
	season, err := seasonVar(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req BowlLinesRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	games, err := h.games.UpsertBowlGames(r.Context(), season, req.ToInputs())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// EnterResult handles POST /api/admin/games/{id}/result. A game that
// already has a result answers 409; use PUT to correct it.
func (h *AdminHandler) EnterResult(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, false)
}

// CorrectResult handles PUT /api/admin/games/{id}/result
func (h *AdminHandler) CorrectResult(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, true)
}

func (h *AdminHandler) writeResult(w http.ResponseWriter, r *http.Request, correction bool) {
	id, err := objectIDVar(r, "id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	var req ResultRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	enter := h.results.EnterResult
	if correction {
		enter = h.results.CorrectResult
	}
	game, err := enter(r.Context(), id, *req.FavoriteScore, *req.UnderdogScore, middleware.ActorName(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// EnterBowlResult handles POST /api/admin/bowls/games/{id}/result
func (h *AdminHandler) EnterBowlResult(w http.ResponseWriter, r *http.Request) {
	h.writeBowlResult(w, r, false)
}

// CorrectBowlResult handles PUT /api/admin/bowls/games/{id}/result
func (h *AdminHandler) CorrectBowlResult(w http.ResponseWriter, r *http.Request) {
	h.writeBowlResult(w, r, true)
}

func (h *AdminHandler) writeBowlResult(w http.ResponseWriter, r *http.Request, correction bool) {
	id, err := objectIDVar(r, "id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	var req ResultRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	enter := h.results.EnterBowlResult
	if correction {
		enter = h.results.CorrectBowlResult
	}
	game, err := enter(r.Context(), id, *req.FavoriteScore, *req.UnderdogScore, middleware.ActorName(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// ListAliases handles GET /api/admin/aliases
func (h *AdminHandler) ListAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.normalizer.ListAliases(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, aliases)
}

// SetAlias handles POST /api/admin/aliases
func (h *AdminHandler) SetAlias(w http.ResponseWriter, r *http.Request) {
	var req AliasRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	alias, err := h.normalizer.SetAlias(r.Context(), req.Alias, req.CanonicalName)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.logger.Infof("%s mapped %q to %q", middleware.ActorName(r), alias.Alias, alias.CanonicalName)
	writeJSON(w, http.StatusOK, alias)
}

// DeleteAlias handles DELETE /api/admin/aliases/{alias}
func (h *AdminHandler) DeleteAlias(w http.ResponseWriter, r *http.Request) {
	alias := mux.Vars(r)["alias"]
	if err := h.normalizer.RemoveAlias(r.Context(), alias); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
