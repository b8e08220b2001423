package stylesheet

import (
	"regexp"
	"strings"
	"sync"
)

// SelectorQuery decides whether a normalized selector is of interest.
type SelectorQuery interface {
	Match(selector string) bool
	String() string
}

type exactQuery string

func (q exactQuery) Match(selector string) bool { return string(q) == selector }
func (q exactQuery) String() string             { return string(q) }

// Exact matches selectors equal to s after normalization.
func Exact(s string) SelectorQuery {
	return exactQuery(Normalize(s))
}

type patternQuery struct {
	src string
	re  *regexp.Regexp
}

func (q patternQuery) Match(selector string) bool { return q.re.MatchString(selector) }
func (q patternQuery) String() string             { return q.src }

// Pattern matches selectors against a regular expression. The expression is
// anchored at both ends; every run of spaces in expr accepts any amount of
// whitespace, so ".a .b" and ".a   .b" are treated alike. Pattern panics on
// an invalid expression, like regexp.MustCompile.
func Pattern(expr string) SelectorQuery {
	src := strings.TrimSpace(expr)
	body := spaceRe.ReplaceAllString(src, `\s+`)
	return patternQuery{src: src, re: regexp.MustCompile(`^(?:` + body + `)$`)}
}

type funcQuery struct {
	name string
	fn   func(string) bool
}

func (q funcQuery) Match(selector string) bool { return q.fn(selector) }
func (q funcQuery) String() string             { return q.name }

// Func wraps an arbitrary predicate over the normalized selector.
func Func(name string, fn func(selector string) bool) SelectorQuery {
	return funcQuery{name: name, fn: fn}
}

// Matches returns the rules whose selector matches q, in source order.
func Matches(rules []Rule, q SelectorQuery) []Rule {
	var out []Rule
	for _, r := range rules {
		if q.Match(r.Selector) {
			out = append(out, r)
		}
	}
	return out
}

// Exists reports whether any rule matches q.
func Exists(rules []Rule, q SelectorQuery) bool {
	for _, r := range rules {
		if q.Match(r.Selector) {
			return true
		}
	}
	return false
}

// Requirement describes what a matching rule's declarations must contain.
// Empty fields are ignored.
type Requirement struct {
	AnyOf    []string // at least one of these properties
	AllOf    []string // every one of these properties
	Contains string   // literal text, e.g. "!important"
}

// Satisfies reports whether at least one rule matching q meets every part
// of req.
func Satisfies(rules []Rule, q SelectorQuery, req Requirement) bool {
	for _, r := range Matches(rules, q) {
		if req.satisfiedBy(r.Declarations) {
			return true
		}
	}
	return false
}

func (req Requirement) satisfiedBy(decls string) bool {
	for _, p := range req.AllOf {
		if !HasProperty(decls, p) {
			return false
		}
	}
	if len(req.AnyOf) > 0 {
		found := false
		for _, p := range req.AnyOf {
			if HasProperty(decls, p) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if req.Contains != "" && !strings.Contains(decls, strings.ToLower(req.Contains)) {
		return false
	}
	return true
}

var (
	propMu    sync.Mutex
	propCache = map[string]*regexp.Regexp{}
	anyPropRe = regexp.MustCompile(`(?i)(^|[;\s])-?[a-z][a-z0-9-]*\s*:`)
)

// HasProperty reports whether decls declares prop. The property name must
// start on a word boundary and be followed by a colon, so "border-color:"
// declares color while "colorful-border:" does not.
func HasProperty(decls, prop string) bool {
	return propertyRe(prop).MatchString(decls)
}

// HasAnyProperty reports whether decls declares at least one property.
func HasAnyProperty(decls string) bool {
	return anyPropRe.MatchString(decls)
}

func propertyRe(prop string) *regexp.Regexp {
	prop = strings.ToLower(strings.TrimSpace(prop))
	propMu.Lock()
	defer propMu.Unlock()
	re, ok := propCache[prop]
	if !ok {
		re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(prop) + `\s*:`)
		propCache[prop] = re
	}
	return re
}

type namedQuery struct {
	SelectorQuery
	name string
}

func (q namedQuery) String() string { return q.name }

// Named gives q a display name for reports.
func Named(name string, q SelectorQuery) SelectorQuery {
	return namedQuery{SelectorQuery: q, name: name}
}
