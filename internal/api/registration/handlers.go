// internal/api/registration/handlers.go
package registration

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vplcricket/registry/internal/api/apiutil"
	"github.com/vplcricket/registry/internal/league"
	"github.com/vplcricket/registry/internal/store"
)

// maxUploadBytes bounds the multipart form size for photo uploads.
const maxUploadBytes = 16 << 20

var (
	engine  *league.Engine
	queries *store.Queries
)

func InitHandlers(e *league.Engine, q *store.Queries) {
	engine = e
	queries = q
}

func HandleHome(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	remaining, err := engine.RemainingSlots(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count players")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.JSON(w, http.StatusOK, map[string]any{
		"total_slots":       engine.Capacity(),
		"remaining":         remaining,
		"registration_open": engine.Open(),
	})
}

func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	sub := league.Submission{
		FullName:     r.FormValue("full_name"),
		Age:          r.FormValue("age"),
		Phone:        r.FormValue("phone"),
		Level:        r.FormValue("level"),
		ContactName:  r.FormValue("ch_name"),
		ContactPhone: r.FormValue("ch_mobile"),
		CurrentTeam:  r.FormValue("current_team"),
		PreviousTeam: r.FormValue("prev_team"),
		PlayingRole:  r.FormValue("role"),
		PlayingStyle: r.FormValue("style"),
		JerseyName:   r.FormValue("shirt_name"),
		JerseyNumber: r.FormValue("shirt_number"),
		JerseySize:   r.FormValue("shirt_size"),
		Sleeves:      r.FormValue("sleeves"),
	}
	if sub.FullName == "" || sub.Phone == "" {
		http.Error(w, "Full name and phone are required", http.StatusBadRequest)
		return
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		sub.Photo = file
	}

	playerID, vplID, err := engine.Register(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, league.ErrRegistrationClosed):
			http.Error(w, "Registration is closed", http.StatusForbidden)
		case errors.Is(err, league.ErrCapacityFull):
			http.Error(w, "Registration is full", http.StatusConflict)
		case errors.Is(err, league.ErrDuplicatePhone):
			http.Error(w, "This mobile number is already registered", http.StatusConflict)
		default:
			logger.Error().Err(err).Msg("Failed to register player")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	logger.Info().Int64("player_id", playerID).Str("vpl_id", vplID).Msg("Player registered")
	apiutil.JSON(w, http.StatusCreated, map[string]any{
		"player_id": playerID,
		"vpl_id":    vplID,
	})
}

func HandlePayment(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	playerID, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	method := r.FormValue("payment_method")
	if method == "" {
		http.Error(w, "Payment method is required", http.StatusBadRequest)
		return
	}

	var proof io.Reader
	if file, _, err := r.FormFile("screenshot"); err == nil {
		defer file.Close()
		proof = file
	}

	if err := engine.SubmitPayment(r.Context(), playerID, method, proof); err != nil {
		if errors.Is(err, league.ErrPlayerNotFound) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("player_id", playerID).Msg("Failed to record payment")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.JSON(w, http.StatusOK, map[string]string{
		"status": league.StatusPending,
	})
}

// publicPlayer is the subset of fields shown on the open roster page.
type publicPlayer struct {
	VPLID       string `json:"vpl_id"`
	FullName    string `json:"full_name"`
	Level       string `json:"level"`
	CurrentTeam string `json:"current_team"`
	PlayingRole string `json:"role"`
	Status      string `json:"status"`
}

func HandleTotalPlayers(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	players, err := queries.ListPlayers(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := make([]publicPlayer, len(players))
	for i, p := range players {
		view[i] = publicPlayer{
			VPLID:       p.VPLID,
			FullName:    p.FullName,
			Level:       p.Level,
			CurrentTeam: p.CurrentTeam,
			PlayingRole: p.PlayingRole,
			Status:      p.Status,
		}
	}
	apiutil.JSON(w, http.StatusOK, view)
}
