package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"CodeTracer/internal/model"
)

// FileCard 报告中的一个文件
type FileCard struct {
	ID       int
	Path     string
	Language string
	Error    string
	Steps    []ReportStep
	Nodes    []model.Node
	Edges    int
	FullCode template.HTML
}

type ReportData struct {
	GeneratedAt string
	TotalFiles  int
	TotalSteps  int
	Files       []FileCard
}

type ReportStep struct {
	Index     int
	Type      string
	TypeClass string
	Action    string
	Line      int
	Code      string
	Variables string
}

const htmlTemplateStr = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>CodeTracer Report</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f0f2f5; color: #333; margin: 0; padding: 20px; }
        .container { max-width: 1100px; margin: 0 auto; }

        .report-header { background: white; padding: 20px 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.05); margin-bottom: 30px; border-left: 5px solid #1976d2; }
        .report-header h1 { margin: 0; color: #2c3e50; font-size: 24px; }
        .meta { color: #7f8c8d; font-size: 14px; margin-top: 5px; }

        .file-card { background: white; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.05); margin-bottom: 40px; overflow: hidden; }
        .file-title { background: #2c3e50; color: white; padding: 15px 20px; font-weight: bold; display: flex; justify-content: space-between; }
        .file-body { padding: 20px; }
        .file-error { color: #d32f2f; font-family: monospace; }

        .timeline { position: relative; padding-left: 20px; }
        .timeline::before { content: ''; position: absolute; left: 0; top: 10px; bottom: 0; width: 2px; background: #e0e0e0; }
        .step { position: relative; margin-bottom: 18px; padding-left: 25px; }
        .step::before { content: ''; position: absolute; left: -26px; top: 0; width: 14px; height: 14px; border-radius: 50%; border: 3px solid white; box-shadow: 0 0 0 2px #e0e0e0; z-index: 1; }

        .type-function::before { background: #1976d2; }
        .type-output::before { background: #388e3c; }
        .type-variable::before { background: #fbc02d; }
        .type-loop::before { background: #7b1fa2; }
        .type-condition::before { background: #d32f2f; }

        .step-header { display: flex; align-items: center; margin-bottom: 6px; flex-wrap: wrap; }
        .tag { padding: 2px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; margin-right: 10px; color: white; }
        .tag-function { background: #1976d2; }
        .tag-output { background: #388e3c; }
        .tag-variable { background: #f9a825; }
        .tag-loop { background: #7b1fa2; }
        .tag-condition { background: #d32f2f; }

        .action { font-family: 'JetBrains Mono', Consolas, monospace; font-weight: bold; color: #000; }
        .file-loc { font-size: 13px; color: #7f8c8d; margin-left: auto; font-family: monospace; }
        .summary-code { font-family: 'JetBrains Mono', Consolas, monospace; font-size: 13px; color: #444; white-space: pre-wrap; background: #fafafa; padding: 5px; border: 1px solid #eee; }
        .vars { margin-top: 4px; font-size: 12px; color: #555; font-family: monospace; }

        .graph { margin: 20px 0; display: flex; flex-wrap: wrap; align-items: center; gap: 6px; }
        .node { padding: 4px 10px; border-radius: 12px; font-size: 12px; color: white; font-family: monospace; }
        .node-function { background: #1976d2; }
        .node-variable { background: #f9a825; }
        .node-loop { background: #7b1fa2; }
        .node-condition { background: #d32f2f; }
        .arrow { color: #999; }

        .toggle-btn { background: none; border: none; color: #3498db; cursor: pointer; font-size: 12px; padding: 0; margin-top: 8px; text-decoration: underline; }
        .full-code-context { display: none; margin-top: 10px; background: #282c34; padding: 10px; border-radius: 4px; font-family: 'JetBrains Mono', Consolas, monospace; font-size: 12px; line-height: 1.6; color: #abb2bf; overflow-x: auto; }
        .code-line { display: block; white-space: pre; }
        .line-num { color: #5c6370; margin-right: 15px; user-select: none; display: inline-block; width: 35px; text-align: right; border-right: 1px solid #3e4451; padding-right: 5px;}
        .highlight-line { background-color: #3e4451; display: block; width: 100%; }
        .highlight-line .line-num { color: #e5c07b; font-weight: bold; }

        .s-kwd { color: #c678dd; font-weight: bold; }
        .s-type { color: #e5c07b; }
        .s-str { color: #98c379; }
        .s-com { color: #7f848e; font-style: italic; }
        .s-num { color: #d19a66; }
        .s-func { color: #61afef; }
    </style>
</head>
<body>
    <div class="container">
        <div class="report-header">
            <h1>CodeTracer Report</h1>
            <div class="meta">Generated at: {{.GeneratedAt}} | Files: <strong>{{.TotalFiles}}</strong> | Steps: <strong>{{.TotalSteps}}</strong></div>
        </div>

        {{range .Files}}
        <div class="file-card">
            <div class="file-title">
                <span>{{.Path}}</span>
                <span style="font-size: 0.8em; opacity: 0.8;">{{.Language}} | Steps: {{len .Steps}} | Nodes: {{len .Nodes}} | Edges: {{.Edges}}</span>
            </div>
            <div class="file-body">
                {{if .Error}}
                <div class="file-error">{{.Error}}</div>
                {{else}}
                <div class="timeline">
                    {{range .Steps}}
                    <div class="step type-{{.TypeClass}}">
                        <div class="step-header">
                            <span class="tag tag-{{.TypeClass}}">{{.Type}}</span>
                            <span class="action">{{.Action}}</span>
                            <span class="file-loc">line {{.Line}}</span>
                        </div>
                        {{if .Code}}<div class="summary-code">{{.Code}}</div>{{end}}
                        {{if .Variables}}<div class="vars">{{.Variables}}</div>{{end}}
                    </div>
                    {{end}}
                </div>

                <div class="graph">
                    {{range $i, $n := .Nodes}}
                    {{if $i}}<span class="arrow">&rarr;</span>{{end}}
                    <span class="node node-{{$n.Kind}}" title="line {{$n.Line}}">#{{$n.ID}} {{$n.Label}}</span>
                    {{end}}
                </div>

                <button class="toggle-btn" onclick="toggleCode('code-{{.ID}}')">View Source</button>
                <div id="code-{{.ID}}" class="full-code-context">
                    {{.FullCode}}
                </div>
                {{end}}
            </div>
        </div>
        {{end}}
    </div>

    <script>
        function toggleCode(id) {
            var el = document.getElementById(id);
            el.style.display = (el.style.display === "block") ? "none" : "block";
        }
    </script>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateStr))

// BuildData 把扫描结果整理为模板数据，路径相对 root 展示
func BuildData(results []model.FileResult, root string, now time.Time) ReportData {
	data := ReportData{
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
		TotalFiles:  len(results),
	}

	for idx, res := range results {
		displayPath := res.Path
		if root != "" {
			if rel, err := filepath.Rel(root, res.Path); err == nil && rel != "." {
				displayPath = rel
			}
		}

		card := FileCard{
			ID:       idx + 1,
			Path:     displayPath,
			Language: res.Language,
			Error:    res.Error,
			Nodes:    res.Trace.Nodes,
			Edges:    len(res.Trace.Edges),
		}
		if card.Error == "" && res.Err != nil {
			card.Error = res.Err.Error()
		}

		stepLines := make(map[int]bool)
		for i, step := range res.Trace.Steps {
			stepLines[step.Line] = true
			card.Steps = append(card.Steps, ReportStep{
				Index:     i,
				Type:      strings.ToUpper(string(step.Kind)),
				TypeClass: string(step.Kind),
				Action:    step.Action,
				Line:      step.Line,
				Code:      step.LineContent,
				Variables: formatVars(step.Variables),
			})
		}
		data.TotalSteps += len(card.Steps)

		if res.Source != "" {
			card.FullCode = template.HTML(renderSource(res.Source, stepLines))
		}
		data.Files = append(data.Files, card)
	}
	return data
}

// RenderHTML 把报告写入 w
func RenderHTML(w io.Writer, results []model.FileResult, root string) error {
	return htmlTemplate.Execute(w, BuildData(results, root, time.Now()))
}

// GenerateHTML 生成 HTML 报告文件，返回报告的绝对路径
func GenerateHTML(results []model.FileResult, root, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "output"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	fileName := fmt.Sprintf("report_%d.html", time.Now().Unix())
	path := filepath.Join(outputDir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := RenderHTML(f, results, root); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return filepath.Abs(path)
}

func formatVars(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + vars[k]
	}
	return strings.Join(parts, ", ")
}

// renderSource 输出带行号的完整源码，命中步骤的行高亮
func renderSource(code string, stepLines map[int]bool) string {
	var sb strings.Builder
	for i, raw := range strings.Split(code, "\n") {
		lineNum := i + 1
		cssClass := "code-line"
		if stepLines[lineNum] {
			cssClass += " highlight-line"
		}
		fmt.Fprintf(&sb, "<span class='%s'><span class='line-num'>%d</span>%s</span>",
			cssClass, lineNum, highlightSyntax(strings.TrimRight(raw, "\r")))
	}
	return sb.String()
}
