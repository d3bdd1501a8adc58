// Package format re-indents source text using the same line heuristics as
// the tracer: braces and block keywords only, no parsing.
package format

import "strings"

const DefaultIndent = 4

// 行首出现这些关键字时，下一行缩进加一
var blockOpeners = []string{"if ", "for ", "while ", "function "}

// Indent 按花括号和控制关键字逐行重新缩进。空行输出为空。
func Indent(code string, size int) string {
	if size <= 0 {
		size = DefaultIndent
	}
	lines := strings.Split(code, "\n")
	out := make([]string, len(lines))
	level := 0

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out[i] = ""
			continue
		}
		if strings.HasPrefix(trimmed, "}") && level > 0 {
			level--
		}
		out[i] = strings.Repeat(" ", level*size) + trimmed
		if opensBlock(trimmed) {
			level++
		}
	}
	return strings.Join(out, "\n")
}

func opensBlock(line string) bool {
	if strings.HasSuffix(line, "{") {
		return true
	}
	for _, kw := range blockOpeners {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
