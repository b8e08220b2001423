package grading

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rubric is an optional override of the built-in scoring constants, loaded
// from YAML:
//
//	ceiling: 80
//	status:
//	  on_time: 20
//	  late: 10
//	tasks:
//	  - id: element
//	    weight: 10
type Rubric struct {
	Ceiling *int        `yaml:"ceiling,omitempty"`
	Status  *StatusPts  `yaml:"status,omitempty"`
	Tasks   []Criterion `yaml:"tasks,omitempty"`
}

type StatusPts struct {
	OnTime int `yaml:"on_time"`
	Late   int `yaml:"late"`
}

type Criterion struct {
	ID     string  `yaml:"id"`
	Weight float64 `yaml:"weight"`
}

// ParseRubric decodes and validates a rubric document.
func ParseRubric(input []byte) (Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(input, &r); err != nil {
		return Rubric{}, fmt.Errorf("decode rubric: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}
	return r, nil
}

// LoadRubric reads a rubric file.
func LoadRubric(path string) (Rubric, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Rubric{}, fmt.Errorf("read rubric: %w", err)
	}
	return ParseRubric(b)
}

// Validate checks that task ids are known, weights are non-negative and the
// components cannot exceed the total.
func (r Rubric) Validate() error {
	ceiling, onTime, late := 80, 20, 10
	if r.Ceiling != nil {
		ceiling = *r.Ceiling
	}
	if r.Status != nil {
		onTime, late = r.Status.OnTime, r.Status.Late
	}
	if ceiling < 0 || onTime < 0 || late < 0 {
		return errors.New("rubric: marks must not be negative")
	}
	if late > onTime {
		return fmt.Errorf("rubric: late marks %d exceed on-time marks %d", late, onTime)
	}
	if ceiling+onTime > TotalMarks {
		return fmt.Errorf("rubric: ceiling %d plus on-time marks %d exceed %d", ceiling, onTime, TotalMarks)
	}
	seen := map[string]bool{}
	for _, c := range r.Tasks {
		if _, ok := DefinitionByID(c.ID); !ok {
			return fmt.Errorf("rubric: unknown task %q", c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("rubric: task %q listed twice", c.ID)
		}
		seen[c.ID] = true
		if c.Weight < 0 {
			return fmt.Errorf("rubric: task %q has negative weight", c.ID)
		}
	}
	return nil
}

// Options turns the rubric into grader options.
func (r Rubric) Options() []Option {
	var opts []Option
	if r.Ceiling != nil {
		opts = append(opts, WithCeiling(*r.Ceiling))
	}
	if r.Status != nil {
		opts = append(opts, WithStatusMarks(r.Status.OnTime, r.Status.Late))
	}
	if len(r.Tasks) > 0 {
		w := make(map[string]float64, len(r.Tasks))
		for _, c := range r.Tasks {
			w[c.ID] = c.Weight
		}
		opts = append(opts, WithWeights(w))
	}
	return opts
}
