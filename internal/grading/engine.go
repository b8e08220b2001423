package grading

import (
	"math"

	css "github.com/mind-engage/cssgrader/internal/stylesheet"
)

// TotalMarks is the fixed maximum of every score record.
const TotalMarks = 100

// TaskScore is the contribution of one task to the bucket.
type TaskScore struct {
	ID      string  `json:"id"`
	Percent float64 `json:"percent"` // satisfied share, 0..100
	Marks   float64 `json:"marks"`   // contribution to the bucket, unrounded
	Max     float64 `json:"max"`     // contribution at 100%
}

// Result is the outcome of grading one submission.
type Result struct {
	Status      Status      `json:"status"`
	Tasks       []Task      `json:"tasks"`
	Breakdown   []TaskScore `json:"breakdown"`
	TaskMarks   int         `json:"task_marks"`   // rounded bucket
	TaskMax     int         `json:"task_max"`     // bucket ceiling
	StatusMarks int         `json:"status_marks"` // status component
	StatusMax   int         `json:"status_max"`   // status component when on time
	Earned      int         `json:"earned"`
	Total       int         `json:"total"`
}

// Option configures a Grader.
type Option func(*config)

type config struct {
	Ceiling     int                // bucket all task weights are normalized into
	OnTimeMarks int                // status component for ON_TIME
	LateMarks   int                // status component for LATE
	Weights     map[string]float64 // per-task weight overrides
}

// WithCeiling sets the bucket that task weights are normalized into.
func WithCeiling(n int) Option {
	return func(c *config) { c.Ceiling = n }
}

// WithStatusMarks sets the status component awarded for on-time and late
// submissions.
func WithStatusMarks(onTime, late int) Option {
	return func(c *config) { c.OnTimeMarks, c.LateMarks = onTime, late }
}

// WithWeights overrides task weights by task ID.
func WithWeights(w map[string]float64) Option {
	return func(c *config) { c.Weights = w }
}

// Grader evaluates the task checklists and scores them.
type Grader struct {
	cfg  config
	defs []Definition
}

// NewGrader installs the built-in task definitions.
func NewGrader(opts ...Option) *Grader {
	cfg := config{
		Ceiling:     80,
		OnTimeMarks: 20,
		LateMarks:   10,
	}
	for _, o := range opts {
		o(&cfg)
	}
	defs := make([]Definition, len(Definitions))
	copy(defs, Definitions)
	for i := range defs {
		if w, ok := cfg.Weights[defs[i].ID]; ok {
			defs[i].Weight = w
		}
	}
	return &Grader{cfg: cfg, defs: defs}
}

// Evaluate builds every task checklist. A missing submission yields the
// placeholder requirement for each task instead of evaluating the rules.
func (g *Grader) Evaluate(rules []css.Rule, status Status) []Task {
	tasks := make([]Task, 0, len(g.defs))
	for _, d := range g.defs {
		t := Task{ID: d.ID, DisplayName: d.DisplayName, Weight: d.Weight}
		if status == Missing {
			t.Requirements = Placeholder()
		} else {
			t.Requirements = d.Build(rules)
		}
		tracer().Debugf("task %s: %d/%d", t.ID, t.SatisfiedCount(), len(t.Requirements))
		tasks = append(tasks, t)
	}
	return tasks
}

// Grade evaluates rules and combines the weighted task bucket with the
// status component.
func (g *Grader) Grade(rules []css.Rule, status Status) Result {
	tasks := g.Evaluate(rules, status)
	res := g.Score(tasks, status)
	tracer().Infof("graded: status=%s tasks=%d status_marks=%d earned=%d/%d",
		status, res.TaskMarks, res.StatusMarks, res.Earned, res.Total)
	return res
}

// Score aggregates evaluated tasks. Each task earns weight*fraction; the sum
// is normalized by the sum of all weights into the ceiling and rounded.
func (g *Grader) Score(tasks []Task, status Status) Result {
	res := Result{
		Status:    status,
		Tasks:     tasks,
		TaskMax:   g.cfg.Ceiling,
		StatusMax: g.cfg.OnTimeMarks,
		Total:     TotalMarks,
	}
	sumWeights := 0.0
	for _, t := range tasks {
		sumWeights += t.Weight
	}
	earned := 0.0
	ceiling := float64(g.cfg.Ceiling)
	for _, t := range tasks {
		f := t.Fraction()
		if status == Missing {
			f = 0
		}
		earned += t.Weight * f
		ts := TaskScore{ID: t.ID, Percent: f * 100}
		if sumWeights > 0 {
			ts.Max = t.Weight / sumWeights * ceiling
			ts.Marks = ts.Max * f
		}
		res.Breakdown = append(res.Breakdown, ts)
	}
	if sumWeights > 0 {
		res.TaskMarks = int(math.Round(earned / sumWeights * ceiling))
	}
	res.StatusMarks = g.StatusMarks(status)
	res.Earned = res.TaskMarks + res.StatusMarks
	if res.Earned > res.Total {
		res.Earned = res.Total
	}
	if res.Earned < 0 {
		res.Earned = 0
	}
	return res
}

// StatusMarks is the status component for s.
func (g *Grader) StatusMarks(s Status) int {
	switch s {
	case OnTime:
		return g.cfg.OnTimeMarks
	case Late:
		return g.cfg.LateMarks
	}
	return 0
}

// Ceiling returns the configured bucket size.
func (g *Grader) Ceiling() int { return g.cfg.Ceiling }
