package gradebook

import (
	"context"
	"database/sql"
	"time"
)

// EventGradingCompleted is appended once per recorded run.
const EventGradingCompleted = "GradingCompleted"

// Event is one entry of the append-only event log. Seq increases
// monotonically, so consumers resume with Since(lastSeq).
type Event struct {
	Seq       int64  `json:"seq"`
	Type      string `json:"type"`
	Ref       string `json:"ref"`
	Data      string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendEvent(ctx context.Context, x execer, e Event) error {
	_, err := x.ExecContext(ctx,
		`INSERT INTO event_log (typ, ref, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		e.Type, e.Ref, e.Data, time.Now().Unix())
	return err
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	return appendEvent(ctx, r.db, e)
}

// Since returns up to limit events with Seq greater than after, oldest first.
func (r *EventRepo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, typ, ref, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.Type, &e.Ref, &e.Data, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
