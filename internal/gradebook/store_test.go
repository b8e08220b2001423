package gradebook_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cssgrader/internal/db"
	"github.com/mind-engage/cssgrader/internal/gradebook"
	"github.com/mind-engage/cssgrader/internal/grading"
	"github.com/mind-engage/cssgrader/internal/report"
	"github.com/mind-engage/cssgrader/internal/stylesheet"
)

func openStore(t *testing.T) *gradebook.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "gradebook.db") + "?_pragma=busy_timeout(5000)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return gradebook.NewSQLStore(dbh)
}

func run(id, student string, status grading.Status, graded time.Time, submitted *time.Time) report.Report {
	rules := stylesheet.Parse("p { color: red; font-size: 1em } span { color: red; font-size: 1em }")
	return report.Report{
		RunID:      id,
		Student:    student,
		Stylesheet: "styles.css",
		Submitted:  submitted,
		Due:        graded,
		GradedAt:   graded,
		Result:     grading.NewGrader().Grade(rules, status),
	}
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	t0 := time.Unix(1_700_000_000, 0).UTC()
	sub := t0.Add(-time.Hour)

	require.NoError(t, s.Record(ctx, run("r1", "ada", grading.OnTime, t0, &sub)))
	require.NoError(t, s.Record(ctx, run("r2", "grace", grading.Late, t0.Add(time.Minute), nil)))
	require.NoError(t, s.Record(ctx, run("r3", "ada", grading.Missing, t0.Add(2*time.Minute), nil)))

	all, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r3", all[0].RunID)
	assert.Equal(t, grading.Missing, all[0].Status)
	assert.Equal(t, 0, all[0].Earned)

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	ada, err := s.ForStudent(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, ada, 2)
	first := ada[1]
	assert.Equal(t, "r1", first.RunID)
	require.NotNil(t, first.SubmittedAt)
	assert.True(t, sub.Equal(*first.SubmittedAt))
	assert.Equal(t, 100, first.Total)

	var res struct {
		Earned int `json:"earned"`
	}
	require.NoError(t, json.Unmarshal(first.Result, &res))
	assert.Equal(t, first.Earned, res.Earned)

	_, err = s.ForStudent(ctx, "nobody")
	assert.ErrorIs(t, err, gradebook.ErrNotFound)
}

func TestRecordRejectsDuplicateRun(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	r := run("dup", "ada", grading.OnTime, time.Unix(1, 0), nil)
	require.NoError(t, s.Record(ctx, r))
	assert.Error(t, s.Record(ctx, r))

	var events int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_log WHERE ref=$1`, "dup").Scan(&events))
	assert.Equal(t, 1, events)
}

func TestEventsSince(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	events := gradebook.NewEventRepo(s.DB)

	t0 := time.Unix(1_700_000_000, 0).UTC()
	require.NoError(t, s.Record(ctx, run("r1", "ada", grading.OnTime, t0, nil)))
	require.NoError(t, s.Record(ctx, run("r2", "ada", grading.Late, t0, nil)))
	require.NoError(t, events.Append(ctx, gradebook.Event{Type: "Manual", Ref: "note", Data: "{}"}))

	all, err := events.Since(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, gradebook.EventGradingCompleted, all[0].Type)
	assert.Equal(t, "r1", all[0].Ref)
	assert.Contains(t, all[0].Data, `"student":"ada"`)
	assert.Less(t, all[0].Seq, all[1].Seq)

	rest, err := events.Since(ctx, all[0].Seq, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "r2", rest[0].Ref)
}
