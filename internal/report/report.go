// Package report renders grading results for students and downstream
// tooling.
package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mind-engage/cssgrader/internal/grading"
	"github.com/mind-engage/cssgrader/internal/stylesheet"
)

// Report is everything known about one grading run.
type Report struct {
	RunID         string                 `json:"run_id"`
	Student       string                 `json:"student"`
	Stylesheet    string                 `json:"stylesheet,omitempty"` // path, empty when missing
	DiscoveryNote string                 `json:"discovery_note"`
	Submitted     *time.Time             `json:"submitted,omitempty"`
	Due           time.Time              `json:"due"`
	GradedAt      time.Time              `json:"graded_at"`
	Result        grading.Result         `json:"result"`
	Diagnostics   stylesheet.Diagnostics `json:"diagnostics"`
}

// Record extracts the score record.
func (r Report) Record() ScoreRecord {
	return ScoreRecord{
		Student: r.Student,
		Earned:  r.Result.Earned,
		Total:   r.Result.Total,
		Status:  r.Result.Status,
	}
}

// TimingNote describes the submission time relative to the deadline.
func (r Report) TimingNote() string {
	switch {
	case r.Result.Status == grading.Missing:
		return "No stylesheet submitted, so timing was not evaluated."
	case r.Submitted == nil:
		return "Submission time unknown (no commit history available); treated as on time."
	}
	rel := humanize.RelTime(*r.Submitted, r.Due, "before", "after")
	if r.Submitted.Equal(r.Due) {
		rel = "exactly at"
	}
	return fmt.Sprintf("Last student commit at %s, %s the deadline.",
		r.Submitted.Format(timeLayout), rel)
}

const timeLayout = "2006-01-02 15:04 MST"
