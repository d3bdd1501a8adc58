package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"CodeTracer/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func newHandler() http.Handler {
	return NewServer(nil, analysis.DefaultLimits, nil).Handler()
}

func TestVisualize(t *testing.T) {
	rec, resp := do(t, newHandler(), http.MethodPost, "/api/visualize",
		`{"code":"function f(){}\nlet x = 1;\nconsole.log(x);","language":"javascript"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]any)
	assert.Equal(t, "visualizer", data["type"])
	assert.Len(t, data["steps"], 3)
	assert.Len(t, data["nodes"], 2)
	assert.Len(t, data["edges"], 1)
	assert.Equal(t, map[string]any{"variables": map[string]any{"x": "assigned"}}, data["finalState"])
}

func TestTrace(t *testing.T) {
	rec, resp := do(t, newHandler(), http.MethodPost, "/api/trace",
		`{"code":"let a = 1\nwhile (a) {"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "tracer", data["type"])
	assert.Equal(t, float64(2), data["totalSteps"])

	entries := data["trace"].([]any)
	second := entries[1].(map[string]any)
	assert.Equal(t, float64(2), second["step"])
	assert.Equal(t, "while (a) {", second["lineContent"])
	assert.Equal(t, "Loop iteration", second["action"])
	assert.Equal(t, []any{}, second["callStack"])
}

func TestTrace_Python(t *testing.T) {
	rec, resp := do(t, newHandler(), http.MethodPost, "/api/trace",
		`{"code":"total = 0\nfor n in items:","language":"python"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(2), data["totalSteps"])
}

func TestFormat(t *testing.T) {
	rec, resp := do(t, newHandler(), http.MethodPost, "/api/format", `{"code":"if (x) {\ny()\n}"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "if (x) {\n    y()\n}", data["code"])
}

func TestLanguages(t *testing.T) {
	rec, resp := do(t, newHandler(), http.MethodGet, "/api/languages", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp["data"])
}

func TestRejections(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"empty body", "/api/visualize", "", http.StatusBadRequest},
		{"bad json", "/api/visualize", "{", http.StatusBadRequest},
		{"empty code", "/api/trace", `{"code":"   "}`, http.StatusBadRequest},
		{"unknown language", "/api/trace", `{"code":"x = 1","language":"cobol"}`, http.StatusBadRequest},
		{"unsupported feature", "/api/trace", `{"code":"x = 1","language":"java"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, newHandler(), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, resp["success"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestLimits(t *testing.T) {
	h := NewServer(nil, analysis.Limits{MaxLines: 1}, nil).Handler()
	rec, resp := do(t, h, http.MethodPost, "/api/visualize", `{"code":"a = 1\nb = 2"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "line count")
}

func TestBodyTooLarge(t *testing.T) {
	body := bytes.Repeat([]byte("x"), maxBodyBytes+10)
	payload := `{"code":"` + string(body) + `"}`
	rec, _ := do(t, newHandler(), http.MethodPost, "/api/visualize", payload)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/visualize", nil)
	rec := httptest.NewRecorder()
	newHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	rec, resp := do(t, newHandler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])
}
