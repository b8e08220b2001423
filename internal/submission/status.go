package submission

import (
	"time"

	"github.com/mind-engage/cssgrader/internal/grading"
)

// ResolveStatus classifies a submission. A missing or blank stylesheet is
// MISSING; otherwise a submission after due is LATE. An unknown timestamp
// counts as on time.
func ResolveStatus(found, blank bool, submitted *time.Time, due time.Time) grading.Status {
	if !found || blank {
		return grading.Missing
	}
	if submitted != nil && submitted.After(due) {
		return grading.Late
	}
	return grading.OnTime
}
