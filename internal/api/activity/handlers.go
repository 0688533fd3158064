// internal/api/activity/handlers.go
package activity

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vplcricket/registry/internal/api/apiutil"
	"github.com/vplcricket/registry/internal/store"
)

type EntryView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	TargetID  string    `json:"target_id"`
	Timestamp time.Time `json:"timestamp"`
}

var queries *store.Queries

func InitHandlers(q *store.Queries) {
	queries = q
}

// HandleList returns the activity log, newest entries first.
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	logs, err := queries.ListActivityLogs(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list activity logs")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := make([]EntryView, len(logs))
	for i, l := range logs {
		view[i] = EntryView{
			ID:        l.ID,
			Username:  l.Username,
			Action:    l.Action,
			TargetID:  l.TargetID,
			Timestamp: l.CreatedAt,
		}
	}
	apiutil.JSON(w, http.StatusOK, view)
}
