// internal/api/admin/handlers.go
package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vplcricket/registry/internal/api/apiutil"
	"github.com/vplcricket/registry/internal/api/auth"
	"github.com/vplcricket/registry/internal/api/authz"
	"github.com/vplcricket/registry/internal/audit"
)

type UserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	service  *auth.Service
	recorder *audit.Recorder
)

func InitHandlers(s *auth.Service, rec *audit.Recorder) {
	service = s
	recorder = rec
}

func HandleUsersList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	actor := authz.IdentityFromContext(r.Context())

	users, err := service.ListUsers(r.Context(), actor)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		logger.Error().Err(err).Msg("Failed to list users")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := make([]UserView, len(users))
	for i, u := range users {
		view[i] = UserView{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
	}
	apiutil.JSON(w, http.StatusOK, view)
}

func HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	actor := authz.IdentityFromContext(r.Context())

	username := r.FormValue("new_username")
	password := r.FormValue("new_password")
	role := r.FormValue("role")
	if username == "" || password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	id, err := service.CreateUser(r.Context(), actor, username, password, role)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, auth.ErrDuplicateUsername):
			http.Error(w, "Username already exists", http.StatusConflict)
		case errors.Is(err, auth.ErrProtectedAccount):
			http.Error(w, "Username is reserved", http.StatusForbidden)
		default:
			logger.Error().Err(err).Msg("Failed to create user")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	recorder.Record(r.Context(), authz.ActorName(r.Context()), "Created user: "+username, "")
	apiutil.JSON(w, http.StatusCreated, map[string]any{"id": id, "username": username})
}

func HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	actor := authz.IdentityFromContext(r.Context())

	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	username, err := service.DeleteUser(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, auth.ErrProtectedAccount):
			http.Error(w, "Master admin cannot be deleted", http.StatusForbidden)
		case errors.Is(err, auth.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			logger.Error().Err(err).Msg("Failed to delete user")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	recorder.Record(r.Context(), authz.ActorName(r.Context()), "Deleted committee member: "+username, "")
	w.WriteHeader(http.StatusNoContent)
}
