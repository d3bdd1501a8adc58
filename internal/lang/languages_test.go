package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	l, err := Get(" JavaScript ")
	require.NoError(t, err)
	assert.Equal(t, "javascript", l.ID)
	assert.Equal(t, "js", l.Extension())
	assert.True(t, l.Supports(FeatureTracing))

	_, err = Get("cobol")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestFeatures(t *testing.T) {
	want := map[string][]Feature{
		"javascript": {FeatureVisualization, FeatureTracing},
		"python":     {FeatureVisualization, FeatureTracing},
		"java":       {FeatureVisualization},
		"cpp":        {FeatureVisualization},
		"c":          {FeatureVisualization},
	}
	all := All()
	require.Len(t, all, len(want))
	for _, l := range all {
		assert.Equal(t, want[l.ID], l.Features, l.ID)
	}

	py, err := Get("python")
	require.NoError(t, err)
	assert.True(t, py.Supports(FeatureTracing))

	for _, id := range []string{"typescript", "go", "rust"} {
		_, err := Get(id)
		assert.ErrorIs(t, err, ErrUnknownLanguage, id)
	}
	for _, path := range []string{"a.ts", "main.go", "lib.rs"} {
		_, ok := ForPath(path)
		assert.False(t, ok, path)
	}
}

func TestForPath(t *testing.T) {
	cases := map[string]string{
		"src/app.js":   "javascript",
		"src/App.JSX":  "javascript",
		"main.py":      "python",
		"Main.java":    "java",
		"lib/util.hpp": "cpp",
		"x.c":          "c",
	}
	for path, want := range cases {
		l, ok := ForPath(path)
		require.True(t, ok, path)
		assert.Equal(t, want, l.ID, path)
	}

	_, ok := ForPath("README")
	assert.False(t, ok)
	_, ok = ForPath("notes.txt")
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	all[0].ID = "mutated"

	l, err := Get(DefaultLanguage)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, l.ID)
	assert.False(t, All()[2].Supports(FeatureTracing), "java does not advertise tracing")
}
