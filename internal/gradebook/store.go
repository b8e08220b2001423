package gradebook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mind-engage/cssgrader/internal/grading"
	"github.com/mind-engage/cssgrader/internal/report"
)

// ErrNotFound is returned when no record exists for a student.
var ErrNotFound = errors.New("gradebook: not found")

// Entry is one stored grading run.
type Entry struct {
	RunID       string          `json:"run_id"`
	Student     string          `json:"student"`
	Earned      int             `json:"earned"`
	Total       int             `json:"total"`
	Status      grading.Status  `json:"status"`
	Stylesheet  string          `json:"stylesheet,omitempty"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	GradedAt    time.Time       `json:"graded_at"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Store keeps the history of grading runs.
type Store interface {
	Record(ctx context.Context, r report.Report) error
	List(ctx context.Context, limit int) ([]Entry, error)
	ForStudent(ctx context.Context, student string) ([]Entry, error)
}

type SQLStore struct{ DB *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

// Record stores the run and appends a GradingCompleted event in one
// transaction.
func (s *SQLStore) Record(ctx context.Context, r report.Report) error {
	result, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	event, err := json.Marshal(r.Record())
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	var submitted *int64
	if r.Submitted != nil {
		ts := r.Submitted.Unix()
		submitted = &ts
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO score_records (run_id, student, earned, total, status, stylesheet, submitted_at, graded_at, result_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		r.RunID, r.Student, r.Result.Earned, r.Result.Total, r.Result.Status.Code(),
		r.Stylesheet, submitted, r.GradedAt.Unix(), string(result)); err != nil {
		return fmt.Errorf("insert score record: %w", err)
	}
	if err := appendEvent(ctx, tx, Event{Type: EventGradingCompleted, Ref: r.RunID, Data: string(event)}); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return tx.Commit()
}

const selectEntries = `
	SELECT run_id, student, earned, total, status, stylesheet, submitted_at, graded_at, result_json
	FROM score_records`

// List returns the most recent runs first.
func (s *SQLStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, selectEntries+` ORDER BY graded_at DESC, run_id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// ForStudent returns a student's runs, most recent first.
func (s *SQLStore) ForStudent(ctx context.Context, student string) ([]Entry, error) {
	rows, err := s.DB.QueryContext(ctx, selectEntries+` WHERE student=$1 ORDER BY graded_at DESC, run_id`, student)
	if err != nil {
		return nil, err
	}
	out, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			status    int
			submitted sql.NullInt64
			graded    int64
			result    string
		)
		if err := rows.Scan(&e.RunID, &e.Student, &e.Earned, &e.Total, &status,
			&e.Stylesheet, &submitted, &graded, &result); err != nil {
			return nil, err
		}
		e.Status = grading.Status(status)
		if submitted.Valid {
			ts := time.Unix(submitted.Int64, 0).UTC()
			e.SubmittedAt = &ts
		}
		e.GradedAt = time.Unix(graded, 0).UTC()
		e.Result = json.RawMessage(result)
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ Store = (*SQLStore)(nil)
