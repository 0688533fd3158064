// internal/api/players/handlers.go
package players

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vplcricket/registry/internal/api/apiutil"
	"github.com/vplcricket/registry/internal/api/authz"
	"github.com/vplcricket/registry/internal/audit"
	"github.com/vplcricket/registry/internal/league"
	"github.com/vplcricket/registry/internal/store"
)

// PlayerView represents a player row for committee screens.
type PlayerView struct {
	ID            int64  `json:"id"`
	VPLID         string `json:"vpl_id"`
	FullName      string `json:"full_name"`
	Age           string `json:"age"`
	Phone         string `json:"phone"`
	Level         string `json:"level"`
	ContactName   string `json:"ch_name"`
	ContactPhone  string `json:"ch_mobile"`
	CurrentTeam   string `json:"current_team"`
	PreviousTeam  string `json:"prev_team"`
	PlayingRole   string `json:"role"`
	PlayingStyle  string `json:"style"`
	Photo         string `json:"photo"`
	JerseyName    string `json:"shirt_name"`
	JerseyNumber  string `json:"shirt_number"`
	JerseySize    string `json:"shirt_size"`
	Sleeves       string `json:"sleeves"`
	PaymentMethod string `json:"payment_method"`
	PaymentProof  string `json:"payment_proof"`
	Status        string `json:"status"`
}

var (
	queries  *store.Queries
	recorder *audit.Recorder
)

func InitHandlers(q *store.Queries, rec *audit.Recorder) {
	queries = q
	recorder = rec
}

func toView(p store.Player) PlayerView {
	return PlayerView{
		ID:            p.ID,
		VPLID:         p.VPLID,
		FullName:      p.FullName,
		Age:           p.Age,
		Phone:         p.Phone,
		Level:         p.Level,
		ContactName:   p.ContactName,
		ContactPhone:  p.ContactPhone,
		CurrentTeam:   p.CurrentTeam,
		PreviousTeam:  p.PreviousTeam,
		PlayingRole:   p.PlayingRole,
		PlayingStyle:  p.PlayingStyle,
		Photo:         p.Photo,
		JerseyName:    p.JerseyName,
		JerseyNumber:  p.JerseyNumber,
		JerseySize:    p.JerseySize,
		Sleeves:       p.Sleeves,
		PaymentMethod: p.PaymentMethod,
		PaymentProof:  p.PaymentProof,
		Status:        p.Status,
	}
}

func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	players, err := queries.ListPlayers(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := make([]PlayerView, len(players))
	for i, p := range players {
		view[i] = toView(p)
	}
	apiutil.JSON(w, http.StatusOK, view)
}

func HandleEdit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	player, err := queries.GetPlayerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Msg("Failed to load player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Absent form fields keep their stored value; submitted ones overwrite
	// without further validation.
	err = queries.UpdatePlayer(r.Context(), store.UpdatePlayerParams{
		ID:           id,
		FullName:     formValueOr(r, "full_name", player.FullName),
		Age:          formValueOr(r, "age", player.Age),
		Level:        formValueOr(r, "level", player.Level),
		ContactName:  formValueOr(r, "ch_name", player.ContactName),
		ContactPhone: formValueOr(r, "ch_mobile", player.ContactPhone),
		CurrentTeam:  formValueOr(r, "current_team", player.CurrentTeam),
		PreviousTeam: formValueOr(r, "prev_team", player.PreviousTeam),
		PlayingRole:  formValueOr(r, "role", player.PlayingRole),
		PlayingStyle: formValueOr(r, "style", player.PlayingStyle),
		JerseyName:   formValueOr(r, "shirt_name", player.JerseyName),
		JerseyNumber: formValueOr(r, "shirt_number", player.JerseyNumber),
		JerseySize:   formValueOr(r, "shirt_size", player.JerseySize),
		Sleeves:      formValueOr(r, "sleeves", player.Sleeves),
		Status:       formValueOr(r, "status", player.Status),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	recorder.Record(r.Context(), authz.ActorName(r.Context()), "Edited player details", player.VPLID)

	updated, err := queries.GetPlayerByID(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to reload player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	apiutil.JSON(w, http.StatusOK, toView(updated))
}

func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	player, err := queries.GetPlayerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Msg("Failed to load player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := queries.DeletePlayer(r.Context(), id); err != nil {
		logger.Error().Err(err).Msg("Failed to delete player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	recorder.Record(r.Context(), authz.ActorName(r.Context()), "Deleted player profile", player.VPLID)
	w.WriteHeader(http.StatusNoContent)
}

func HandleExport(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	playersList, err := queries.ListPlayers(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players for export")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=`+league.ExportFilename)
	if err := league.WriteCSV(w, playersList); err != nil {
		logger.Error().Err(err).Msg("Failed to write player export")
	}
}

func formValueOr(r *http.Request, key, fallback string) string {
	if !r.Form.Has(key) {
		return fallback
	}
	return r.FormValue(key)
}
