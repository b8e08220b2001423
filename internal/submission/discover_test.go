package submission

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

func TestDiscoverLinkedStylesheet(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.html": `<html><head>
			<!-- <link rel="stylesheet" href="old.css"> -->
			<link rel="icon" href="favicon.css">
			<link rel="stylesheet" href="https://cdn.example.com/x.css">
			<link rel="Alternate StyleSheet" href="css/main.css?v=2">
		</head><body></body></html>`,
		"old.css":      "p { color: red }",
		"favicon.css":  "",
		"css/main.css": "p { color: blue }",
		"styles.css":   "p { color: green }",
	})
	s, err := Locator{Root: root, HTMLFile: "index.html"}.Discover()
	require.NoError(t, err)
	assert.Equal(t, "css/main.css", s.Path)
	assert.Equal(t, "p { color: blue }", s.Source)
	assert.NotNil(t, s.Markup)
	assert.Contains(t, s.Note, "linked from `index.html`")
}

func TestDiscoverFallsBackToDefault(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.html": `<link rel="stylesheet" href="gone.css">`,
		"styles.css": "p {}",
	})
	s, err := Locator{Root: root, HTMLFile: "index.html"}.Discover()
	require.NoError(t, err)
	assert.Equal(t, "styles.css", s.Path)
	assert.Contains(t, s.Note, "used default")
}

func TestDiscoverScansTree(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"node_modules/lib/a.css": "x{}",
		".github/b.css":          "x{}",
		"grading/out.css":        "x{}",
		"site/deep/z.css":        "x{}",
		"site/b.css":             "x{}",
		"site/a.css":             "x{}",
	})
	s, err := Locator{Root: root, HTMLFile: "index.html", Skip: []string{"grading"}}.Discover()
	require.NoError(t, err)
	assert.Equal(t, "site/a.css", s.Path)
	assert.Nil(t, s.Markup)
}

func TestDiscoverNothing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"vendor/x.css": "p{}", "README.md": "hi"})
	s, err := Locator{Root: root, HTMLFile: "index.html"}.Discover()
	assert.ErrorIs(t, err, ErrNoStylesheet)
	assert.Equal(t, "", s.Path)
}

func TestResolveHref(t *testing.T) {
	cases := []struct {
		html, href, want string
		ok               bool
	}{
		{"index.html", "styles.css", "styles.css", true},
		{"site/index.html", "../css/a.css", "css/a.css", true},
		{"site/index.html", "/css/a.css", "css/a.css", true},
		{"index.html", "../outside.css", "", false},
		{"index.html", "//cdn.example.com/a.css", "", false},
		{"index.html", "http://example.com/a.css", "", false},
		{"index.html", "#frag", "", false},
	}
	for _, c := range cases {
		got, ok := resolveHref(c.html, c.href)
		assert.Equal(t, c.ok, ok, c.href)
		assert.Equal(t, c.want, got, c.href)
	}
}
