package grading

import (
	"fmt"

	css "github.com/mind-engage/cssgrader/internal/stylesheet"
)

// Builder produces the ordered requirements of one task. Builders are pure
// functions of the rule list.
type Builder func(rules []css.Rule) []Requirement

// checklist accumulates requirements in the order they are checked.
type checklist struct {
	rules []css.Rule
	reqs  []Requirement
}

func newChecklist(rules []css.Rule) *checklist {
	return &checklist{rules: rules}
}

func (c *checklist) add(label string, ok bool, hint string) {
	r := Requirement{Label: label, Satisfied: ok}
	if !ok {
		r.FailureDetail = hint
	}
	c.reqs = append(c.reqs, r)
}

// exists checks that at least one rule uses the selector.
func (c *checklist) exists(q css.SelectorQuery) {
	c.add(fmt.Sprintf("`%s` rule exists", q),
		css.Exists(c.rules, q),
		fmt.Sprintf("Add a rule for the selector `%s`.", q))
}

// has checks that a rule for the selector declares any of props.
func (c *checklist) has(q css.SelectorQuery, what string, props ...string) {
	c.add(fmt.Sprintf("`%s` sets %s", q, what),
		css.Satisfies(c.rules, q, css.Requirement{AnyOf: props}),
		fmt.Sprintf("Inside the `%s` rule, declare %s (accepted: %s).", q, what, quoted(props)))
}

// declares checks that a rule for the selector declares any property at all.
func (c *checklist) declares(q css.SelectorQuery) {
	ok := false
	for _, r := range css.Matches(c.rules, q) {
		if css.HasAnyProperty(r.Declarations) {
			ok = true
			break
		}
	}
	c.add(fmt.Sprintf("`%s` declares a property", q), ok,
		fmt.Sprintf("Give the `%s` rule at least one `property: value;` declaration.", q))
}

// contains checks that a rule for the selector contains literal text.
func (c *checklist) contains(q css.SelectorQuery, text, hint string) {
	c.add(fmt.Sprintf("`%s` uses `%s`", q, text),
		css.Satisfies(c.rules, q, css.Requirement{Contains: text}),
		hint)
}

func (c *checklist) result() []Requirement {
	return c.reqs
}

func quoted(props []string) string {
	s := ""
	for i, p := range props {
		if i > 0 {
			s += ", "
		}
		s += "`" + p + "`"
	}
	return s
}

// sharedBlock returns the source block that declares every selector in
// sels together, i.e. a comma-grouped selector list.
func sharedBlock(rules []css.Rule, sels ...string) (int, bool) {
	blocks := map[int]int{}
	for _, sel := range sels {
		seen := map[int]bool{}
		for _, r := range rules {
			if r.Selector == sel && !seen[r.Block] {
				seen[r.Block] = true
				blocks[r.Block]++
			}
		}
	}
	best, ok := -1, false
	for b, n := range blocks {
		if n == len(sels) && (!ok || b < best) {
			best, ok = b, true
		}
	}
	return best, ok
}

// Placeholder is the single requirement reported for every task when no
// stylesheet was submitted.
func Placeholder() []Requirement {
	return []Requirement{{
		Label:         "Stylesheet submitted",
		Satisfied:     false,
		FailureDetail: "No non-empty stylesheet was found. Link a .css file from index.html or add styles.css.",
	}}
}
