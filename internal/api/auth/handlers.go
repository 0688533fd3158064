package auth

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vplcricket/registry/internal/api/apiutil"
	"github.com/vplcricket/registry/internal/audit"
	"github.com/vplcricket/registry/internal/ratelimit"
)

var (
	service  *Service
	sessions *Sessions
	recorder *audit.Recorder
	limiter  *ratelimit.Limiter
)

func InitHandlers(s *Service, sess *Sessions, rec *audit.Recorder, lim *ratelimit.Limiter) {
	service = s
	sessions = sess
	recorder = rec
	limiter = lim
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	ip := ratelimit.ClientIP(r)
	if result := limiter.Check(username, ip); !result.Allowed {
		logger.Warn().
			Str("reason", result.Reason).
			Str("ip", ip).
			Msg("Login attempt rate limited")
		w.Header().Set("Retry-After", result.RetryAfter.String())
		http.Error(w, "Too many login attempts", http.StatusTooManyRequests)
		return
	}

	identity, err := service.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if lockedOut := limiter.RecordFailure(username, ip); lockedOut {
				logger.Warn().Str("ip", ip).Msg("Account locked out after repeated login failures")
			}
			http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
			return
		}
		logger.Error().Err(err).Msg("Failed to authenticate")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	limiter.Reset(username)
	limiter.RecordAttempt(ip)

	if err := sessions.Create(w, *identity); err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	action := "Committee member logged in"
	if identity.IsSuperAdmin() {
		action = "Admin logged in"
	}
	recorder.Record(r.Context(), identity.Username, action, "")

	apiutil.JSON(w, http.StatusOK, map[string]string{
		"username": identity.Username,
		"role":     identity.Role,
	})
}

func HandleLogout(w http.ResponseWriter, r *http.Request) {
	sessions.Clear(w, r)
	w.WriteHeader(http.StatusNoContent)
}
