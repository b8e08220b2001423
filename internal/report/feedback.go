package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/mind-engage/cssgrader/internal/grading"
)

var feedbackTmpl = template.Must(template.New("feedback").Funcs(template.FuncMap{
	"pct":    func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
	"marks":  func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"mark":   func(ok bool) string { return map[bool]string{true: "✅", false: "❌"}[ok] },
	"code":   func(s grading.Status) int { return s.Code() },
	"task":   taskName,
	"join":   strings.Join,
	"inline": func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
}).Parse(`# CSS Assignment Feedback

| | |
|---|---|
| Student | ` + "`{{.Student}}`" + ` |
| Stylesheet | {{inline .DiscoveryNote}} |
| Submission | {{inline .TimingNote}} |
| Due | {{.Due.Format "2006-01-02 15:04 MST"}} |
| Status | {{.Result.Status}} ({{code .Result.Status}}) |

## Score

| Task | Completed | Marks |
|---|---:|---:|
{{- range .Result.Breakdown}}
| {{task $.Result.Tasks .ID}} | {{pct .Percent}} | {{marks .Marks}} / {{marks .Max}} |
{{- end}}
| Tasks subtotal | | {{.Result.TaskMarks}} / {{.Result.TaskMax}} |
| Submission timing | | {{.Result.StatusMarks}} / {{.Result.StatusMax}} |
| **Total** | | **{{.Result.Earned}} / {{.Result.Total}}** |

## Checklist
{{range .Result.Tasks}}
### {{.DisplayName}} ({{.SatisfiedCount}}/{{len .Requirements}})
{{range .Requirements}}
- {{mark .Satisfied}} {{.Label}}{{if not .Satisfied}}{{with .FailureDetail}}: {{.}}{{end}}{{end}}
{{- end}}
{{end}}
{{- with .Diagnostics}}{{if not .Empty}}
## Stylesheet notes

These notes do not affect your score.
{{with .ParseError}}
- A strict CSS parser could not read the file: {{.}}
{{- end}}
{{- with .AtRules}}
- At-rules are not graded and their nested rules are read as plain rules: {{join . ", "}}
{{- end}}
{{- with .InvalidSelectors}}
- Selectors that look invalid: ` + "`{{join . \"`, `\"}}`" + `
{{- end}}
{{- with .UnmatchedSelectors}}
- Selectors that match nothing in your HTML: ` + "`{{join . \"`, `\"}}`" + `
{{- end}}
{{end}}{{end}}`))

func taskName(tasks []grading.Task, id string) string {
	for _, t := range tasks {
		if t.ID == id {
			return t.DisplayName
		}
	}
	return id
}

// WriteFeedback renders the Markdown feedback document.
func WriteFeedback(w io.Writer, r Report) error {
	return feedbackTmpl.Execute(w, r)
}

// Feedback renders the Markdown feedback document to a string.
func Feedback(r Report) (string, error) {
	var buf bytes.Buffer
	if err := WriteFeedback(&buf, r); err != nil {
		return "", fmt.Errorf("render feedback: %w", err)
	}
	return buf.String(), nil
}
