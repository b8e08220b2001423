package grading

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRubric(t *testing.T) {
	r, err := ParseRubric([]byte(`
ceiling: 70
status:
  on_time: 30
  late: 15
tasks:
  - id: universal
    weight: 0
  - id: class
    weight: 20
`))
	require.NoError(t, err)
	g := NewGrader(r.Options()...)
	assert.Equal(t, 70, g.Ceiling())
	assert.Equal(t, 15, g.StatusMarks(Late))
	tasks := g.Evaluate(nil, OnTime)
	assert.Equal(t, 20.0, taskByID(t, tasks, "class").Weight)
	assert.Equal(t, 0.0, taskByID(t, tasks, "universal").Weight)
}

func TestParseRubricRejects(t *testing.T) {
	cases := map[string]string{
		"unknown task":  "tasks: [{id: flexbox, weight: 1}]",
		"duplicate":     "tasks: [{id: id, weight: 1}, {id: id, weight: 2}]",
		"negative":      "tasks: [{id: id, weight: -1}]",
		"over total":    "ceiling: 90\nstatus: {on_time: 20, late: 10}",
		"late above":    "status: {on_time: 5, late: 10}",
		"invalid yaml":  "ceiling: [",
		"negative mark": "ceiling: -1",
	}
	for name, doc := range cases {
		_, err := ParseRubric([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadRubric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ceiling: 80\n"), 0o644))
	r, err := LoadRubric(path)
	require.NoError(t, err)
	require.NotNil(t, r.Ceiling)
	assert.Equal(t, 80, *r.Ceiling)

	_, err = LoadRubric(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
