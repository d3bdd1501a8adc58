package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"CodeTracer/internal/lang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestScanner_Scan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js":                "function main() {}\nlet x = 1\nconsole.log(x)",
		"empty.js":            "   \n",
		"sub/b.py":            "x = 1\nif ready:\n",
		"node_modules/lib.js": "let skipped = 1",
		".git/hook.js":        "let skipped = 1",
		"README.md":           "x = 1",
	})

	s := NewScanner(nil)
	s.Concurrency = 2
	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(root, "a.js"), results[0].Path)
	assert.Equal(t, "javascript", results[0].Language)
	assert.NoError(t, results[0].Err)
	assert.Len(t, results[0].Trace.Steps, 3)
	assert.NotEmpty(t, results[0].Source)

	assert.Equal(t, filepath.Join(root, "empty.js"), results[1].Path)
	assert.ErrorIs(t, results[1].Err, ErrEmptyCode)
	assert.NotEmpty(t, results[1].Error)

	assert.Equal(t, filepath.Join(root, "sub", "b.py"), results[2].Path)
	assert.Equal(t, "python", results[2].Language)
	assert.Len(t, results[2].Trace.Steps, 2)
}

func TestScanner_LanguageFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js": "let x = 1",
		"b.py": "y = 2",
	})

	s := NewScanner(nil)
	s.Languages = []string{"Python"}
	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "python", results[0].Language)
}

func TestScanner_SingleFile(t *testing.T) {
	root := writeTree(t, map[string]string{"only.js": "while (true) {"})

	results, err := NewScanner(nil).Scan(context.Background(), filepath.Join(root, "only.js"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Loop iteration", results[0].Trace.Steps[0].Action)

	_, err = NewScanner(nil).Scan(context.Background(), filepath.Join(root, "missing.js"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	_, err = NewScanner(nil).Scan(context.Background(), filepath.Join(root, "notes.txt"))
	assert.ErrorIs(t, err, lang.ErrUnknownLanguage)
}

func TestScanner_Cancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.js": "let x = 1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewScanner(nil).Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanner_LimitsApplied(t *testing.T) {
	root := writeTree(t, map[string]string{"long.js": "let x = 1\nlet y = 2\nlet z = 3"})

	s := NewScanner(nil)
	s.Limits = Limits{MaxLines: 2}
	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrTooManyLines)
	assert.Empty(t, results[0].Trace.Steps)
}
