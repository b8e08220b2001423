package submission

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoStylesheet is returned by Discover when no stylesheet could be read.
var ErrNoStylesheet = errors.New("no stylesheet found")

// DefaultStylesheets are tried when the markup links nothing usable.
var DefaultStylesheets = []string{"styles.css", "style.css"}

// SkipDirs are never scanned for stylesheets.
var SkipDirs = []string{".git", ".github", "node_modules", "vendor", "dist", "build"}

// Stylesheet is a located submission.
type Stylesheet struct {
	Path   string     // relative to the submission root
	Source string     // raw file contents
	Note   string     // how the file was found
	Markup *html.Node // parsed markup, nil when no markup file was read
}

// Locator finds the stylesheet inside a submission directory.
type Locator struct {
	Root     string   // submission root
	HTMLFile string   // markup file relative to Root, e.g. index.html
	Skip     []string // extra directories to skip, relative to Root
}

// Discover tries, in order: the first local stylesheet linked from the
// markup file, the default file names, and a scan of the directory tree.
// Unreadable files count as absent.
func (l Locator) Discover() (Stylesheet, error) {
	var doc *html.Node
	if l.HTMLFile != "" {
		var err error
		doc, err = parseMarkup(filepath.Join(l.Root, l.HTMLFile))
		if err != nil {
			tracer().Debugf("markup %s unavailable: %v", l.HTMLFile, err)
		}
	}
	if doc != nil {
		for _, href := range StylesheetLinks(doc) {
			rel, ok := resolveHref(l.HTMLFile, href)
			if !ok {
				continue
			}
			if src, err := l.read(rel); err == nil {
				return Stylesheet{Path: rel, Source: src, Markup: doc,
					Note: fmt.Sprintf("Found `%s` linked from `%s`.", rel, l.HTMLFile)}, nil
			}
			tracer().Infof("linked stylesheet %s not readable", rel)
		}
	}
	for _, name := range DefaultStylesheets {
		if src, err := l.read(name); err == nil {
			note := fmt.Sprintf("Used default `%s`.", name)
			if doc != nil {
				note = fmt.Sprintf("No usable stylesheet link in `%s`; used default `%s`.", l.HTMLFile, name)
			}
			return Stylesheet{Path: name, Source: src, Markup: doc, Note: note}, nil
		}
	}
	for _, rel := range l.scan() {
		if src, err := l.read(rel); err == nil {
			return Stylesheet{Path: rel, Source: src, Markup: doc,
				Note: fmt.Sprintf("No linked or default stylesheet; found `%s` by scanning the repository.", rel)}, nil
		}
	}
	return Stylesheet{Markup: doc, Note: "No stylesheet found."}, ErrNoStylesheet
}

func (l Locator) read(rel string) (string, error) {
	p := filepath.Join(l.Root, filepath.FromSlash(rel))
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", rel)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// scan lists .css files below Root, shallowest first, then lexically.
func (l Locator) scan() []string {
	skip := map[string]bool{}
	for _, d := range l.Skip {
		skip[filepath.ToSlash(filepath.Clean(d))] = true
	}
	var found []string
	_ = filepath.WalkDir(l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, rerr := filepath.Rel(l.Root, p)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (skip[rel] || contains(SkipDirs, d.Name())) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(path.Ext(rel), ".css") {
			found = append(found, rel)
		}
		return nil
	})
	sort.SliceStable(found, func(i, j int) bool {
		di, dj := strings.Count(found[i], "/"), strings.Count(found[j], "/")
		if di != dj {
			return di < dj
		}
		return found[i] < found[j]
	})
	return found
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func parseMarkup(p string) (*html.Node, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return html.Parse(f)
}

// StylesheetLinks returns the href of every <link rel="stylesheet"> in
// document order. Commented-out links are comment nodes and never match.
func StylesheetLinks(doc *html.Node) []string {
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Link {
			var rel, href string
			for _, a := range n.Attr {
				switch strings.ToLower(a.Key) {
				case "rel":
					rel = a.Val
				case "href":
					href = strings.TrimSpace(a.Val)
				}
			}
			if href != "" && hasToken(rel, "stylesheet") {
				hrefs = append(hrefs, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs
}

func hasToken(list, tok string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, tok) {
			return true
		}
	}
	return false
}

// resolveHref maps a link href to a path relative to the submission root.
// Remote URLs and paths escaping the root are rejected.
func resolveHref(htmlFile, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	p := u.Path
	if strings.HasPrefix(p, "/") {
		p = strings.TrimPrefix(p, "/")
	} else {
		p = path.Join(path.Dir(filepath.ToSlash(htmlFile)), p)
	}
	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}
