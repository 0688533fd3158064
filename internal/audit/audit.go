// Package audit appends entries to the append-only activity log. Recording is
// best effort: a failure is logged and never propagated, so it cannot undo the
// mutation that triggered it. Callers record after their own commit.
package audit

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vplcricket/registry/internal/store"
)

// AnonymousActor is recorded when no authenticated identity is present.
const AnonymousActor = "System/Guest"

// NoTarget is recorded when an action has no specific record target.
const NoTarget = "N/A"

type Recorder struct {
	queries *store.Queries
}

func New(queries *store.Queries) *Recorder {
	return &Recorder{queries: queries}
}

// Record appends an entry for actor. An empty actor is recorded as
// AnonymousActor, an empty targetID as NoTarget.
func (r *Recorder) Record(ctx context.Context, actor, action, targetID string) {
	if actor == "" {
		actor = AnonymousActor
	}
	if targetID == "" {
		targetID = NoTarget
	}

	err := r.queries.CreateActivityLog(ctx, store.CreateActivityLogParams{
		Username: actor,
		Action:   action,
		TargetID: targetID,
	})
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("actor", actor).
			Str("action", action).
			Msg("Failed to record activity log entry")
	}
}
