package grading

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssgrader.grading'.
func tracer() tracing.Trace {
	return tracing.Select("cssgrader.grading")
}

// Requirement is one atomic pass/fail check within a task.
type Requirement struct {
	Label         string `json:"label"`
	Satisfied     bool   `json:"satisfied"`
	FailureDetail string `json:"failure_detail,omitempty"` // guidance shown when not satisfied
}

// Task is one graded CSS concept with its evaluated requirements.
type Task struct {
	ID           string        `json:"id"`
	DisplayName  string        `json:"display_name"`
	Weight       float64       `json:"weight"`
	Requirements []Requirement `json:"requirements"`
}

// SatisfiedCount returns how many requirements passed.
func (t Task) SatisfiedCount() int {
	n := 0
	for _, r := range t.Requirements {
		if r.Satisfied {
			n++
		}
	}
	return n
}

// Fraction is the share of satisfied requirements, 0 for a task without
// requirements.
func (t Task) Fraction() float64 {
	if len(t.Requirements) == 0 {
		return 0
	}
	return float64(t.SatisfiedCount()) / float64(len(t.Requirements))
}
