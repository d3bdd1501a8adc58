package lang

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnknownLanguage = errors.New("unknown language")

// Feature 语言支持的功能
type Feature string

const (
	FeatureVisualization Feature = "visualization"
	FeatureTracing       Feature = "tracing"
)

// Language 编辑器支持的语言
type Language struct {
	ID         string    `json:"value" yaml:"id"`
	Label      string    `json:"label" yaml:"label"`
	Extensions []string  `json:"extensions" yaml:"extensions"` // 第一个为默认扩展名
	Compiled   bool      `json:"compiled" yaml:"compiled"`
	Template   string    `json:"template" yaml:"template"`
	Features   []Feature `json:"features" yaml:"features"`
}

const DefaultLanguage = "javascript"

// 注意：分析规则只针对 JavaScript 形态的代码，其它语言按同样的启发式处理
var languages = []Language{
	{
		ID:         "javascript",
		Label:      "JavaScript",
		Extensions: []string{"js", "mjs", "cjs", "jsx"},
		Template: `// JavaScript Code
function greet(name) {
  return ` + "`Hello, ${name}!`" + `;
}

console.log(greet('World'));
`,
		Features: []Feature{FeatureVisualization, FeatureTracing},
	},
	{
		ID:         "python",
		Label:      "Python",
		Extensions: []string{"py"},
		Template: `# Python Code
def greet(name):
    return f"Hello, {name}!"

print(greet("World"))
`,
		Features: []Feature{FeatureVisualization, FeatureTracing},
	},
	{
		ID:         "java",
		Label:      "Java",
		Extensions: []string{"java"},
		Compiled:   true,
		Template: `// Java Code
public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}
`,
		Features: []Feature{FeatureVisualization},
	},
	{
		ID:         "cpp",
		Label:      "C++",
		Extensions: []string{"cpp", "cc", "hpp"},
		Compiled:   true,
		Template: `// C++ Code
#include <iostream>
using namespace std;

int main() {
    cout << "Hello, World!" << endl;
    return 0;
}
`,
		Features: []Feature{FeatureVisualization},
	},
	{
		ID:         "c",
		Label:      "C",
		Extensions: []string{"c", "h"},
		Compiled:   true,
		Template: `// C Code
#include <stdio.h>

int main() {
    printf("Hello, World!\n");
    return 0;
}
`,
		Features: []Feature{FeatureVisualization},
	},
}

// All 返回全部语言 (副本)
func All() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

func Get(id string) (Language, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, l := range languages {
		if l.ID == id {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
}

// ForPath 根据文件扩展名识别语言
func ForPath(path string) (Language, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return Language{}, false
	}
	for _, l := range languages {
		for _, e := range l.Extensions {
			if e == ext {
				return l, true
			}
		}
	}
	return Language{}, false
}

func (l Language) Supports(f Feature) bool {
	for _, x := range l.Features {
		if x == f {
			return true
		}
	}
	return false
}

// Extension returns the default file extension without the dot.
func (l Language) Extension() string {
	if len(l.Extensions) == 0 {
		return "txt"
	}
	return l.Extensions[0]
}
