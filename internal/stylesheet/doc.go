/*
Package stylesheet extracts selector/declaration pairs from student
stylesheets and answers property questions about them.

The extractor is deliberately lightweight. It recognizes well-formed
`selector { declarations }` spans that contain no nested braces and ignores
everything else. Nested blocks (at-rules such as @media, or CSS nesting) are
not supported: only the innermost brace-free span is recognized and the
enclosing prelude is dropped.

Property checks never inspect values. A rule "has" a property if its
declaration text contains the property name followed by a colon, where the
name starts on a word boundary.
*/
package stylesheet

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssgrader.stylesheet'.
func tracer() tracing.Trace {
	return tracing.Select("cssgrader.stylesheet")
}
