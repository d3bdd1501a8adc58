package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"CodeTracer/internal/analysis"
	"CodeTracer/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const code = "function f(){}\nlet x = 1;\nconsole.log(\"<b>\" + x);"

func sampleResults(root string) []model.FileResult {
	return []model.FileResult{
		{
			Path:     filepath.Join(root, "src", "main.js"),
			Language: "javascript",
			Source:   code,
			Trace:    analysis.Analyze(code),
		},
		{
			Path:     filepath.Join(root, "broken.js"),
			Language: "javascript",
			Err:      errors.New("broken.js: code is empty"),
		},
	}
}

func TestBuildData(t *testing.T) {
	root := "/project"
	data := BuildData(sampleResults(root), root, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	assert.Equal(t, "2026-01-02 03:04:05", data.GeneratedAt)
	assert.Equal(t, 2, data.TotalFiles)
	assert.Equal(t, 3, data.TotalSteps)
	require.Len(t, data.Files, 2)

	card := data.Files[0]
	assert.Equal(t, filepath.Join("src", "main.js"), card.Path)
	require.Len(t, card.Steps, 3)
	assert.Equal(t, "FUNCTION", card.Steps[0].Type)
	assert.Equal(t, "variable", card.Steps[1].TypeClass)
	assert.Equal(t, "x=assigned", card.Steps[1].Variables)
	assert.Equal(t, 1, card.Edges)
	assert.Contains(t, string(card.FullCode), "highlight-line")

	assert.Equal(t, "broken.js: code is empty", data.Files[1].Error)
}

func TestRenderHTML_EscapesSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleResults("/project"), "/project"))

	out := buf.String()
	assert.Contains(t, out, "Declare function f")
	assert.Contains(t, out, "#1 x")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.NotContains(t, out, "<b>")
}

func TestGenerateHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := GenerateHTML(sampleResults(dir), dir, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "report_"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "CodeTracer Report")
}

func TestHighlightSyntax(t *testing.T) {
	out := highlightSyntax(`const s = 'a' + 42; // note`)
	assert.Contains(t, out, `<span class="s-kwd">const</span>`)
	assert.Contains(t, out, `<span class="s-str">'a'</span>`)
	assert.Contains(t, out, `<span class="s-num">42</span>`)
	assert.Contains(t, out, `<span class="s-com">// note</span>`)

	assert.Contains(t, highlightSyntax("greet(name)"), `<span class="s-func">greet</span>`)
	assert.Equal(t, `<span class="s-str">"open</span>`, highlightSyntax(`"open`))
}

func TestWrite_Formats(t *testing.T) {
	trace := analysis.Analyze(code)

	var js bytes.Buffer
	require.NoError(t, Write(&js, "json", trace))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Len(t, decoded["steps"], 3)

	var ym bytes.Buffer
	require.NoError(t, Write(&ym, "yaml", trace))
	var back model.Trace
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &back))
	assert.Equal(t, trace.Nodes, back.Nodes)

	var txt bytes.Buffer
	require.NoError(t, Write(&txt, "text", trace))
	assert.Contains(t, txt.String(), "Steps (3):")
	assert.Contains(t, txt.String(), "Edges (1): 0->1")
	assert.Contains(t, txt.String(), "Variables: x=assigned")

	assert.Error(t, Write(&txt, "pdf", trace))
}
