package submission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Commit is one entry of the version-control history.
type Commit struct {
	Time           time.Time
	AuthorName     string
	AuthorEmail    string
	CommitterName  string
	CommitterEmail string
	Subject        string
}

// History returns the most recent commits, newest first.
type History interface {
	Recent(ctx context.Context, n int) ([]Commit, error)
}

// AutomationMarkers identify commits made by bots and classroom tooling.
var AutomationMarkers = []string{"github-actions", "[bot]", "github classroom", "autograd"}

// GitHistory reads history with the git binary.
type GitHistory struct {
	Dir     string
	Timeout time.Duration
}

func NewGitHistory(dir string) *GitHistory {
	return &GitHistory{Dir: dir, Timeout: 10 * time.Second}
}

const logFormat = "%ct%x1f%an%x1f%ae%x1f%cn%x1f%ce%x1f%s"

func (g *GitHistory) Recent(ctx context.Context, n int) ([]Commit, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, errors.New("git not found in PATH")
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, "git", "log", "-n", strconv.Itoa(n), "--format="+logFormat)
	cmd.Dir = g.Dir
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git log: %s", strings.TrimSpace(stderr.String()))
	}
	return ParseLog(out.String()), nil
}

// ParseLog decodes git log output in logFormat. Malformed lines are skipped.
func ParseLog(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		f := strings.Split(strings.TrimRight(line, "\r"), "\x1f")
		if len(f) != 6 {
			continue
		}
		secs, err := strconv.ParseInt(strings.TrimSpace(f[0]), 10, 64)
		if err != nil {
			continue
		}
		commits = append(commits, Commit{
			Time:           time.Unix(secs, 0).UTC(),
			AuthorName:     f[1],
			AuthorEmail:    f[2],
			CommitterName:  f[3],
			CommitterEmail: f[4],
			Subject:        f[5],
		})
	}
	return commits
}

// IsAutomated reports whether any marker occurs in the commit's combined
// author, committer and subject text, ignoring case.
func IsAutomated(c Commit, markers []string) bool {
	text := strings.ToLower(strings.Join([]string{
		c.AuthorName, c.AuthorEmail, c.CommitterName, c.CommitterEmail, c.Subject,
	}, " "))
	for _, m := range markers {
		if m != "" && strings.Contains(text, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// LatestStudentCommit picks the newest commit not made by automation,
// falling back to the newest commit of any kind.
func LatestStudentCommit(commits []Commit, markers []string) (Commit, bool) {
	for _, c := range commits {
		if !IsAutomated(c, markers) {
			return c, true
		}
	}
	if len(commits) > 0 {
		return commits[0], true
	}
	return Commit{}, false
}

// SubmissionTime returns the timestamp of the latest student commit within
// the window, or nil when history is unavailable.
func SubmissionTime(ctx context.Context, h History, window int, markers []string) *time.Time {
	if h == nil {
		return nil
	}
	commits, err := h.Recent(ctx, window)
	if err != nil {
		tracer().Infof("history unavailable: %v", err)
		return nil
	}
	c, ok := LatestStudentCommit(commits, markers)
	if !ok {
		return nil
	}
	ts := c.Time
	return &ts
}
