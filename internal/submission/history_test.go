package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cssgrader/internal/grading"
)

type fakeHistory struct {
	commits []Commit
	err     error
	asked   int
}

func (f *fakeHistory) Recent(_ context.Context, n int) ([]Commit, error) {
	f.asked = n
	return f.commits, f.err
}

func TestParseLog(t *testing.T) {
	out := "1700000000\x1fAda\x1fada@example.com\x1fGitHub\x1fnoreply@github.com\x1fStyle links\n" +
		"garbage line\n" +
		"notanumber\x1fa\x1fb\x1fc\x1fd\x1fe\n" +
		"1600000000\x1fgithub-classroom[bot]\x1fx\x1fy\x1fz\x1fInitial commit\n"
	commits := ParseLog(out)
	require.Len(t, commits, 2)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), commits[0].Time)
	assert.Equal(t, "Ada", commits[0].AuthorName)
	assert.Equal(t, "Style links", commits[0].Subject)
	assert.Equal(t, "Initial commit", commits[1].Subject)
}

func TestLatestStudentCommitSkipsAutomation(t *testing.T) {
	commits := []Commit{
		{Subject: "Update autograding results", AuthorName: "x"},
		{AuthorName: "github-actions[bot]", Subject: "feedback"},
		{AuthorName: "Ada", Subject: "finish css", Time: time.Unix(10, 0)},
		{AuthorName: "Ada", Subject: "start", Time: time.Unix(5, 0)},
	}
	c, ok := LatestStudentCommit(commits, AutomationMarkers)
	require.True(t, ok)
	assert.Equal(t, "finish css", c.Subject)
}

func TestLatestStudentCommitFallsBackToNewest(t *testing.T) {
	commits := []Commit{
		{CommitterName: "GitHub Classroom", Subject: "a"},
		{AuthorName: "dependabot[bot]", Subject: "b"},
	}
	c, ok := LatestStudentCommit(commits, AutomationMarkers)
	require.True(t, ok)
	assert.Equal(t, "a", c.Subject)

	_, ok = LatestStudentCommit(nil, AutomationMarkers)
	assert.False(t, ok)
}

func TestSubmissionTime(t *testing.T) {
	h := &fakeHistory{commits: []Commit{{AuthorName: "Ada", Time: time.Unix(42, 0)}}}
	ts := SubmissionTime(context.Background(), h, 50, AutomationMarkers)
	require.NotNil(t, ts)
	assert.Equal(t, time.Unix(42, 0), *ts)
	assert.Equal(t, 50, h.asked)

	assert.Nil(t, SubmissionTime(context.Background(), &fakeHistory{err: errors.New("not a git repository")}, 50, nil))
	assert.Nil(t, SubmissionTime(context.Background(), &fakeHistory{}, 50, nil))
	assert.Nil(t, SubmissionTime(context.Background(), nil, 50, nil))
}

func TestResolveStatus(t *testing.T) {
	due := time.Date(2025, 10, 1, 23, 59, 59, 0, time.UTC)
	before := due.Add(-time.Hour)
	late := due.Add(time.Second)

	assert.Equal(t, grading.Missing, ResolveStatus(false, false, &before, due))
	assert.Equal(t, grading.Missing, ResolveStatus(true, true, &before, due))
	assert.Equal(t, grading.OnTime, ResolveStatus(true, false, &before, due))
	assert.Equal(t, grading.OnTime, ResolveStatus(true, false, &due, due))
	assert.Equal(t, grading.Late, ResolveStatus(true, false, &late, due))
	assert.Equal(t, grading.OnTime, ResolveStatus(true, false, nil, due))
}
