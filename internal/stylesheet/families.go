package stylesheet

var sides = []string{"top", "right", "bottom", "left"}

// Sides returns a box property together with its per-side longhands,
// e.g. padding, padding-top, ..., padding-left.
func Sides(prop string) []string {
	out := []string{prop}
	for _, s := range sides {
		out = append(out, prop+"-"+s)
	}
	return out
}

// shorthands maps a longhand property to the shorthands that can set it.
var shorthands = map[string][]string{
	"font-size":        {"font"},
	"font-family":      {"font"},
	"font-weight":      {"font"},
	"font-style":       {"font"},
	"line-height":      {"font"},
	"background-color": {"background"},
	"background-image": {"background"},
	"border-color":     {"border"},
	"border-width":     {"border"},
	"border-style":     {"border"},
	"text-decoration":  {"text-decoration-line"},
}

// Family returns prop plus every shorthand or related property accepted in
// its place.
func Family(prop string) []string {
	return append([]string{prop}, shorthands[prop]...)
}

// Families concatenates the families of several properties.
func Families(props ...string) []string {
	var out []string
	for _, p := range props {
		out = append(out, Family(p)...)
	}
	return out
}
