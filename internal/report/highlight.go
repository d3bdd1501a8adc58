package report

import (
	"bytes"
	"strings"
)

var keywords = map[string]bool{
	"function": true, "return": true, "if": true, "else": true, "for": true, "while": true, "do": true,
	"let": true, "const": true, "var": true, "new": true, "class": true, "extends": true, "import": true,
	"export": true, "from": true, "try": true, "catch": true, "finally": true, "throw": true, "switch": true,
	"case": true, "break": true, "continue": true, "this": true, "typeof": true, "async": true, "await": true,
	"true": true, "false": true, "null": true, "undefined": true,
}

// highlightSyntax 先转义 HTML 再做词法着色
func highlightSyntax(code string) string {
	code = strings.ReplaceAll(code, "&", "&amp;")
	code = strings.ReplaceAll(code, "<", "&lt;")
	code = strings.ReplaceAll(code, ">", "&gt;")
	return fastLexer(code)
}

func fastLexer(code string) string {
	var buf bytes.Buffer
	n := len(code)
	i := 0

	isAlpha := func(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$' }
	isNum := func(c byte) bool { return c >= '0' && c <= '9' }

	span := func(class, text string) {
		buf.WriteString(`<span class="` + class + `">`)
		buf.WriteString(text)
		buf.WriteString(`</span>`)
	}

	for i < n {
		c := code[i]

		// 字符串: 双引号、单引号、模板字符串
		if c == '"' || c == '\'' || c == '`' {
			start := i
			i++
			for i < n && code[i] != c {
				if code[i] == '\\' {
					i++
				}
				i++
			}
			if i < n {
				i++
			}
			if i > n {
				i = n
			}
			span("s-str", code[start:i])
			continue
		}

		if c == '/' && i+1 < n && code[i+1] == '/' {
			span("s-com", code[i:])
			break
		}

		if isNum(c) {
			start := i
			for i < n && (isNum(code[i]) || code[i] == '.') {
				i++
			}
			span("s-num", code[start:i])
			continue
		}

		if isAlpha(c) {
			start := i
			for i < n && (isAlpha(code[i]) || isNum(code[i])) {
				i++
			}
			word := code[start:i]

			j := i
			for j < n && code[j] == ' ' {
				j++
			}
			isFuncCall := j < n && code[j] == '('

			switch {
			case keywords[word]:
				span("s-kwd", word)
			case isFuncCall:
				span("s-func", word)
			case word[0] >= 'A' && word[0] <= 'Z':
				span("s-type", word)
			default:
				buf.WriteString(word)
			}
			continue
		}

		buf.WriteByte(c)
		i++
	}

	return buf.String()
}
