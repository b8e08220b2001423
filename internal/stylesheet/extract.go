package stylesheet

import (
	"regexp"
	"strings"
)

// Rule is one normalized selector with the declaration text of its block.
// Rules expanded from a comma-grouped selector list share Declarations and
// Block.
type Rule struct {
	Selector     string `json:"selector"`
	Declarations string `json:"declarations"`
	Block        int    `json:"block"` // index of the source block
}

var (
	commentRe = regexp.MustCompile(`(?s)/\*.*?(\*/|$)`)
	blockRe   = regexp.MustCompile(`([^{}]+)\{([^{}]*)\}`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// StripComments removes /* ... */ comments. An unterminated comment runs to
// the end of the text.
func StripComments(src string) string {
	return commentRe.ReplaceAllString(src, " ")
}

// IsBlank reports whether src holds nothing but whitespace and comments.
func IsBlank(src string) bool {
	return strings.TrimSpace(StripComments(src)) == ""
}

// Normalize trims, lowercases and collapses internal whitespace to single
// spaces.
func Normalize(s string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Extract splits comment-free stylesheet text into rules, one per selector
// of every selector{declarations} block. Text outside such blocks is
// ignored.
func Extract(src string) []Rule {
	var rules []Rule
	block := 0
	for _, m := range blockRe.FindAllStringSubmatch(src, -1) {
		decls := Normalize(m[2])
		emitted := false
		for _, piece := range strings.Split(m[1], ",") {
			sel := Normalize(piece)
			if sel == "" {
				continue
			}
			rules = append(rules, Rule{Selector: sel, Declarations: decls, Block: block})
			emitted = true
		}
		if emitted {
			block++
		}
	}
	tracer().Debugf("extracted %d rules from %d blocks", len(rules), block)
	return rules
}

// Parse strips comments and extracts rules in one step.
func Parse(src string) []Rule {
	return Extract(StripComments(src))
}
