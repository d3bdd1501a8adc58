// Package api exposes the static tracer over HTTP with the same request and
// response envelopes the editor front end expects. Submitted code is only
// analysed, never executed.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"CodeTracer/internal/analysis"
	"CodeTracer/internal/format"
	"CodeTracer/internal/lang"
	"CodeTracer/internal/model"

	"go.uber.org/zap"
)

// 请求体上限，略大于代码长度限制
const maxBodyBytes = 1 << 20

type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type VisualizeData struct {
	Type       string       `json:"type"`
	Steps      []model.Step `json:"steps"`
	FinalState FinalState   `json:"finalState"`
	Nodes      []model.Node `json:"nodes"`
	Edges      []model.Edge `json:"edges"`
}

type FinalState struct {
	Variables map[string]string `json:"variables"`
}

type TraceEntry struct {
	Step        int               `json:"step"`
	Line        int               `json:"line"`
	LineContent string            `json:"lineContent"`
	Action      string            `json:"action"`
	CallStack   []string          `json:"callStack"`
	Variables   map[string]string `json:"variables"`
}

type TraceData struct {
	Type       string       `json:"type"`
	Trace      []TraceEntry `json:"trace"`
	TotalSteps int          `json:"totalSteps"`
}

type FormatData struct {
	Code string `json:"code"`
}

type Server struct {
	Tracer     *analysis.Tracer
	Limits     analysis.Limits
	IndentSize int
	Logger     *zap.Logger
}

func NewServer(tracer *analysis.Tracer, limits analysis.Limits, logger *zap.Logger) *Server {
	if tracer == nil {
		tracer = analysis.NewTracer(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Tracer:     tracer,
		Limits:     limits,
		IndentSize: format.DefaultIndent,
		Logger:     logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/visualize", s.handleVisualize)
	mux.HandleFunc("POST /api/trace", s.handleTrace)
	mux.HandleFunc("POST /api/format", s.handleFormat)
	mux.HandleFunc("GET /api/languages", s.handleLanguages)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{Success: true, Data: map[string]string{"status": "ok"}})
	})
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, lang.FeatureVisualization)
	if !ok {
		return
	}
	trace := s.Tracer.Analyze(req.Code)
	writeJSON(w, http.StatusOK, Response{Success: true, Data: VisualizeData{
		Type:       "visualizer",
		Steps:      trace.Steps,
		FinalState: FinalState{Variables: trace.Variables},
		Nodes:      trace.Nodes,
		Edges:      trace.Edges,
	}})
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, lang.FeatureTracing)
	if !ok {
		return
	}
	steps := s.Tracer.Steps(req.Code)
	entries := make([]TraceEntry, len(steps))
	for i, st := range steps {
		entries[i] = TraceEntry{
			Step:        i + 1,
			Line:        st.Line,
			LineContent: st.LineContent,
			Action:      st.Action,
			CallStack:   st.CallStack,
			Variables:   st.Variables,
		}
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: TraceData{
		Type:       "tracer",
		Trace:      entries,
		TotalSteps: len(entries),
	}})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, "")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: FormatData{
		Code: format.Indent(req.Code, s.IndentSize),
	}})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: lang.All()})
}

// decode 解析并校验请求；失败时已写好错误响应
func (s *Server) decode(w http.ResponseWriter, r *http.Request, feature lang.Feature) (Request, bool) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		} else if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		writeError(w, status, err)
		return req, false
	}

	if req.Language == "" {
		req.Language = lang.DefaultLanguage
	}
	l, err := lang.Get(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return req, false
	}
	if feature != "" && !l.Supports(feature) {
		writeError(w, http.StatusUnprocessableEntity, errors.New(l.Label+" does not support "+string(feature)))
		return req, false
	}
	if err := analysis.Validate(req.Code, s.Limits); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return req, false
	}
	s.Logger.Debug("accepted", zap.String("language", l.ID), zap.Int("codeLength", len(req.Code)))
	return req, true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, Response{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
