package store

import (
	"context"
	"time"
)

type ActivityLog struct {
	ID        int64
	Username  string
	Action    string
	TargetID  string
	CreatedAt time.Time
}

type CreateActivityLogParams struct {
	Username string
	Action   string
	TargetID string
}

func (q *Queries) CreateActivityLog(ctx context.Context, arg CreateActivityLogParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO activity_logs (username, action, target_id) VALUES (?, ?, ?)`,
		arg.Username, arg.Action, arg.TargetID,
	)
	return err
}

// ListActivityLogs returns entries newest first.
func (q *Queries) ListActivityLogs(ctx context.Context) ([]ActivityLog, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, username, action, target_id, created_at
		 FROM activity_logs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []ActivityLog
	for rows.Next() {
		var l ActivityLog
		if err := rows.Scan(&l.ID, &l.Username, &l.Action, &l.TargetID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
