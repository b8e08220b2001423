package stylesheet

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGroupsAndNormalizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssgrader.stylesheet")
	defer teardown()

	src := "H1 ,  h2,\n\th3 {  Font-Family:  Arial;\n color: RED; }\n.a   .b{margin:0}"
	rules := Extract(src)
	require.Len(t, rules, 4)
	assert.Equal(t, Rule{Selector: "h1", Declarations: "font-family: arial; color: red;", Block: 0}, rules[0])
	assert.Equal(t, "h2", rules[1].Selector)
	assert.Equal(t, "h3", rules[2].Selector)
	assert.Equal(t, rules[0].Declarations, rules[2].Declarations)
	assert.Equal(t, Rule{Selector: ".a .b", Declarations: "margin:0", Block: 1}, rules[3])
}

func TestExtractDropsEmptySelectorPieces(t *testing.T) {
	rules := Extract("p, , span, { color: blue }")
	require.Len(t, rules, 2)
	assert.Equal(t, "p", rules[0].Selector)
	assert.Equal(t, "span", rules[1].Selector)
}

func TestExtractIgnoresStrayBraces(t *testing.T) {
	rules := Extract("} p { color: red } } { div { margin: 0 ")
	require.Len(t, rules, 1)
	assert.Equal(t, "p", rules[0].Selector)
}

func TestExtractEmptyDeclarations(t *testing.T) {
	rules := Extract("p {}")
	require.Len(t, rules, 1)
	assert.Equal(t, "", rules[0].Declarations)
}

func TestExtractNestedBlocksKeepInnermost(t *testing.T) {
	rules := Extract("@media screen { p { color: red } }")
	require.Len(t, rules, 1)
	assert.Equal(t, "p", rules[0].Selector)
}

func TestExtractIsIdempotent(t *testing.T) {
	src := "p { color: red; } .x, #y { padding: 1px }"
	assert.Equal(t, Extract(src), Extract(src))
}

func TestStripCommentsAndBlank(t *testing.T) {
	assert.Equal(t, "p   { color: red }", StripComments("p /* x */ { color: red }"))
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("  /* nothing\n here */ \n"))
	assert.True(t, IsBlank("/* unterminated"))
	assert.False(t, IsBlank("/* c */ p{}"))
	assert.Empty(t, Parse("/* p { color: red } */"))
}
