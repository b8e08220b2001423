package stylesheet

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
	"golang.org/x/net/html"
)

// Diagnostics are informational findings about a stylesheet. They never
// influence the score.
type Diagnostics struct {
	ParseError         string   `json:"parse_error,omitempty"`
	AtRules            []string `json:"at_rules,omitempty"`            // e.g. "@media", ignored by the grader
	InvalidSelectors   []string `json:"invalid_selectors,omitempty"`   // rejected by a strict selector parser
	UnmatchedSelectors []string `json:"unmatched_selectors,omitempty"` // match no element of the markup
	MarkupChecked      bool     `json:"markup_checked"`
}

// Empty reports whether there is nothing worth telling the student.
func (d Diagnostics) Empty() bool {
	return d.ParseError == "" && len(d.AtRules) == 0 &&
		len(d.InvalidSelectors) == 0 && len(d.UnmatchedSelectors) == 0
}

// dynamic pseudo-classes and pseudo-elements depend on user interaction or
// generated content and cannot match a static document.
var dynamicPseudoRe = regexp.MustCompile(`::?(hover|active|focus-within|focus-visible|focus|visited|target|before|after|first-line|first-letter|placeholder|selection|marker)\b`)

// Diagnose cross-checks src with a strict CSS parser and, when doc is not
// nil, reports selectors that match nothing in the markup.
//
// The raw text is only ever tokenized. The strict parser sees a sheet
// rebuilt from rules, so stray text outside blocks cannot reach it.
func Diagnose(src string, rules []Rule, doc *html.Node) Diagnostics {
	var d Diagnostics
	d.AtRules, d.ParseError = scanAtRules(src)
	if _, err := parser.Parse(Rebuild(rules)); err != nil && d.ParseError == "" {
		d.ParseError = err.Error()
	}
	if d.ParseError != "" {
		tracer().Infof("strict parse failed: %s", d.ParseError)
	}

	seen := map[string]bool{}
	for _, r := range rules {
		if seen[r.Selector] {
			continue
		}
		seen[r.Selector] = true
		static := strings.TrimSpace(dynamicPseudoRe.ReplaceAllString(r.Selector, ""))
		if static == "" || strings.HasSuffix(static, ">") || strings.HasSuffix(static, "+") || strings.HasSuffix(static, "~") {
			static = "*"
		}
		sel, err := cascadia.Compile(static)
		if err != nil {
			d.InvalidSelectors = append(d.InvalidSelectors, r.Selector)
			continue
		}
		if doc != nil && sel.MatchFirst(doc) == nil {
			d.UnmatchedSelectors = append(d.UnmatchedSelectors, r.Selector)
		}
	}
	d.MarkupChecked = doc != nil
	return d
}

// scanAtRules tokenizes src and returns the sorted, lowercased at-keywords
// it contains. A tokenizer error (unclosed string or comment) ends the scan
// and is returned as a message.
func scanAtRules(src string) ([]string, string) {
	set := map[string]bool{}
	var msg string
	s := scanner.New(src)
scan:
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			break scan
		case scanner.TokenError:
			msg = fmt.Sprintf("line %d, column %d: %s", tok.Line, tok.Column, tok.Value)
			break scan
		case scanner.TokenAtKeyword:
			set[strings.ToLower(tok.Value)] = true
		}
	}
	var out []string
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, msg
}

// Rebuild renders rules back into stylesheet text, one block per source
// block. Selectors holding a ';' are left out: they come from stray text
// before a block and would otherwise open a rule prelude that never ends.
func Rebuild(rules []Rule) string {
	var b strings.Builder
	for i := 0; i < len(rules); {
		j := i
		var sels []string
		for ; j < len(rules) && rules[j].Block == rules[i].Block; j++ {
			if !strings.Contains(rules[j].Selector, ";") {
				sels = append(sels, rules[j].Selector)
			}
		}
		if len(sels) > 0 {
			fmt.Fprintf(&b, "%s { %s }\n", strings.Join(sels, ", "), rules[i].Declarations)
		}
		i = j
	}
	return b.String()
}
