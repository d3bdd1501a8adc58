package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"CodeTracer/internal/model"

	"gopkg.in/yaml.v3"
)

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteText 纯文本输出，供终端查看
func WriteText(w io.Writer, trace model.Trace) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Steps (%d):\n", len(trace.Steps))
	for i, s := range trace.Steps {
		fmt.Fprintf(&sb, "  %3d. L%-4d %-10s %s\n", i+1, s.Line, s.Kind, s.Action)
	}
	fmt.Fprintf(&sb, "Nodes (%d):\n", len(trace.Nodes))
	for _, n := range trace.Nodes {
		fmt.Fprintf(&sb, "  #%d %-9s %s (L%d)\n", n.ID, n.Kind, n.Label, n.Line)
	}
	fmt.Fprintf(&sb, "Edges (%d):", len(trace.Edges))
	for _, e := range trace.Edges {
		fmt.Fprintf(&sb, " %d->%d", e.Source, e.Target)
	}
	sb.WriteString("\n")
	if vars := formatVars(trace.Variables); vars != "" {
		fmt.Fprintf(&sb, "Variables: %s\n", vars)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Write 按格式输出单个 trace；html 需走 GenerateHTML
func Write(w io.Writer, format string, trace model.Trace) error {
	switch format {
	case "", "text":
		return WriteText(w, trace)
	case "json":
		return WriteJSON(w, trace)
	case "yaml":
		return WriteYAML(w, trace)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
