package handlers

import (
	"net/http"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/middleware"
	"cfb-pickem-go/services"
)

// UserHandler serves the current user and public profiles
type UserHandler struct {
	users  *services.UserService
	logger *logging.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users, logger: logging.WithPrefix("UserHandler")}
}

// Me handles GET /api/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetProfile handles GET /api/users/{userID}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDVar(r, "userID")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	profile, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
