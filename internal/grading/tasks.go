package grading

import (
	"fmt"
	"strings"

	css "github.com/mind-engage/cssgrader/internal/stylesheet"
)

// Definition is the static configuration of one graded task.
type Definition struct {
	ID          string
	DisplayName string
	Weight      float64
	Build       Builder
}

// Definitions lists the graded tasks in report order.
var Definitions = []Definition{
	{ID: "element", DisplayName: "Basic Element Selectors", Weight: 10, Build: elementSelectors},
	{ID: "class", DisplayName: "Class Selectors", Weight: 12, Build: classSelectors},
	{ID: "id", DisplayName: "ID Selectors", Weight: 10, Build: idSelectors},
	{ID: "specificity", DisplayName: "Specificity", Weight: 12, Build: specificity},
	{ID: "important", DisplayName: "Priority Override (!important)", Weight: 10, Build: priorityOverride},
	{ID: "descendant", DisplayName: "Descendant Selectors", Weight: 12, Build: descendantSelectors},
	{ID: "pseudo", DisplayName: "Pseudo-classes", Weight: 12, Build: pseudoClasses},
	{ID: "grouped", DisplayName: "Grouped Selectors", Weight: 12, Build: groupedSelectors},
	{ID: "universal", DisplayName: "Universal Selector", Weight: 10, Build: universalSelector},
}

// DefinitionByID looks up a task definition.
func DefinitionByID(id string) (Definition, bool) {
	for _, d := range Definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

var (
	textColor  = []string{"color"}
	fontSize   = css.Family("font-size")
	background = css.Families("background-color", "background-image")
)

func elementSelectors(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	for _, el := range []string{"p", "span"} {
		q := css.Exact(el)
		c.exists(q)
		c.has(q, "a text color", textColor...)
		c.has(q, "a font size", fontSize...)
	}
	return c.result()
}

func classSelectors(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	highlight := css.Exact(".highlight")
	note := css.Exact(".note")
	c.exists(highlight)
	c.exists(note)
	c.has(highlight, "a background", background...)
	c.has(note, "a font style or weight", css.Families("font-style", "font-weight")...)
	return c.result()
}

func idSelectors(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	title := css.Exact("#main-title")
	c.exists(title)
	c.has(title, "a text color", textColor...)
	c.has(title, "text alignment or size", append([]string{"text-align"}, fontSize...)...)
	return c.result()
}

func specificity(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	class := css.Exact(".specificity-test")
	combined := css.Named("element.specificity-test", css.Pattern(`[a-z][a-z0-9]*\.specificity-test`))
	c.exists(class)
	c.exists(combined)
	c.has(class, "a text color", textColor...)
	c.has(combined, "a text color that overrides the class rule", textColor...)
	return c.result()
}

func priorityOverride(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	q := css.Exact(".important-test")
	c.exists(q)
	c.declares(q)
	c.contains(q, "!important",
		"Mark one declaration in `.important-test` with `!important`, e.g. `color: blue !important;`.")
	return c.result()
}

func isDescendant(sel string) bool {
	return strings.Contains(sel, " ") && !strings.ContainsAny(sel, ">+~,")
}

func descendantSelectors(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	q := css.Named(".container p", css.Pattern(`\.container p`))
	c.add("a descendant selector exists",
		css.Exists(rules, css.Func("descendant", isDescendant)),
		"Write a selector with two parts separated by a space, e.g. `.container p`.")
	c.exists(q)
	c.has(q, "a text color or font", css.Families("color", "font-size", "font-weight")...)
	return c.result()
}

var otherPseudo = []string{":focus", ":active", ":visited", ":first-child", ":last-child", ":nth-child("}

func isOtherPseudo(sel string) bool {
	for _, p := range otherPseudo {
		if strings.Contains(sel, p) {
			return true
		}
	}
	return false
}

func pseudoClasses(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	hover := css.Exact("a:hover")
	c.exists(hover)
	c.has(hover, "a visible hover effect", css.Families("color", "background-color", "text-decoration")...)
	c.add("another pseudo-class is used",
		css.Exists(rules, css.Func("pseudo-class", isOtherPseudo)),
		fmt.Sprintf("Use one more pseudo-class, e.g. %s.", quoted(otherPseudo[:4])))
	return c.result()
}

func groupedSelectors(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	headings := []string{"h1", "h2", "h3"}
	for _, h := range headings {
		c.exists(css.Exact(h))
	}
	block, grouped := sharedBlock(rules, headings...)
	c.add("`h1, h2, h3` share one grouped rule", grouped,
		"Combine the headings into one rule: `h1, h2, h3 { ... }`.")
	fonts := false
	if grouped {
		for _, r := range rules {
			if r.Block == block && css.Satisfies([]css.Rule{r}, css.Exact(r.Selector), css.Requirement{AnyOf: css.Family("font-family")}) {
				fonts = true
				break
			}
		}
	}
	c.add("grouped heading rule sets a font family", fonts,
		"Declare `font-family` (or the `font` shorthand) in the grouped heading rule.")
	return c.result()
}

func universalSelector(rules []css.Rule) []Requirement {
	c := newChecklist(rules)
	all := css.Exact("*")
	c.exists(all)
	c.has(all, "a margin", css.Sides("margin")...)
	c.has(all, "a padding", css.Sides("padding")...)
	c.has(all, "box-sizing", "box-sizing")
	return c.result()
}
