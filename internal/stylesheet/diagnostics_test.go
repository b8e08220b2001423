package stylesheet

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestDiagnoseAtRulesAndMarkup(t *testing.T) {
	src := `
		@media (max-width: 600px) { p { color: red } }
		p { color: blue }
		.missing { margin: 0 }
		a:hover { color: green }
	`
	doc, err := html.Parse(strings.NewReader(`<html><body><p>hi</p><a href="#">x</a></body></html>`))
	require.NoError(t, err)

	d := Diagnose(src, Parse(src), doc)
	assert.Equal(t, []string{"@media"}, d.AtRules)
	assert.True(t, d.MarkupChecked)
	assert.Equal(t, []string{".missing"}, d.UnmatchedSelectors)
	assert.Empty(t, d.InvalidSelectors)
	assert.False(t, d.Empty())
}

func TestDiagnoseWithoutMarkup(t *testing.T) {
	src := "p { color: blue }"
	d := Diagnose(src, Parse(src), nil)
	assert.False(t, d.MarkupChecked)
	assert.True(t, d.Empty())
}

func TestDiagnoseInvalidSelector(t *testing.T) {
	src := "p..x { color: blue }"
	d := Diagnose(src, Parse(src), nil)
	assert.Equal(t, []string{"p..x"}, d.InvalidSelectors)
}

func TestDiagnoseMalformedInputReturns(t *testing.T) {
	cases := []struct {
		name, src string
		atRules   []string
		parseErr  bool
	}{
		{"declaration after block", `p { color: red } content: "x";`, nil, false},
		{"declaration before block", "font-family: \"Arial\", sans-serif;\np { color: red; font-size: 14px; }", nil, false},
		{"bare declaration", "color: red;", nil, false},
		{"stray string statement", `foo 'x'; p { color: red }`, nil, false},
		{"unclosed string", `p { content: "x }`, nil, true},
		{"unclosed comment", "p { color: red } /* oops", nil, true},
		{"stray closing braces", "} p { color: red } }", nil, false},
		{"import then rule", "@import url(a.css);\nh1 { color: red }", []string{"@import"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			done := make(chan Diagnostics, 1)
			go func() { done <- Diagnose(c.src, Parse(c.src), nil) }()
			select {
			case d := <-done:
				assert.Equal(t, c.atRules, d.AtRules)
				assert.Equal(t, c.parseErr, d.ParseError != "", d.ParseError)
			case <-time.After(5 * time.Second):
				t.Fatalf("Diagnose did not return for %q", c.src)
			}
		})
	}
}

func TestRebuild(t *testing.T) {
	src := "font-family: \"Arial\", sans-serif;\np { color: red }\nh1, h2 { margin: 0 }"
	assert.Equal(t, "font-family: \"arial\" { color: red }\nh1, h2 { margin: 0 }\n", Rebuild(Parse(src)))
	assert.Empty(t, Rebuild(nil))
}
