package model

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// NamePlaceholder 在 Action / NodeLabel 中被替换为提取出的名字
const NamePlaceholder = "{name}"

// LineRule 定义一条行分类规则。规则按顺序匹配，第一个触发的规则认领该行。
type LineRule struct {
	Name      string         `yaml:"name"`         // 规则名称
	Kind      Kind           `yaml:"kind"`         // 分类
	Prefix    string         `yaml:"prefix"`       // 行首必须匹配
	Contains  []string       `yaml:"contains"`     // 任一子串命中即可
	NotPrefix []string       `yaml:"not_prefix"`   // 以这些前缀开头的行不触发 (如注释)
	NameRegex string         `yaml:"name_pattern"` // 第一个捕获组作为名字
	Action    string         `yaml:"action"`       // 步骤描述
	NodeLabel string         `yaml:"node_label"`   // 节点标签，空则使用名字
	EmitNode  bool           `yaml:"emit_node"`    // 是否生成图节点
	Assigns   bool           `yaml:"assigns"`      // 是否把名字记入变量表
	Pattern   *regexp.Regexp `yaml:"-"`            // 运行时编译
}

// Triggers reports whether the (already trimmed) line is claimed by this rule.
func (r *LineRule) Triggers(line string) bool {
	if r.Prefix != "" && !strings.HasPrefix(line, r.Prefix) {
		return false
	}
	for _, p := range r.NotPrefix {
		if strings.HasPrefix(line, p) {
			return false
		}
	}
	if len(r.Contains) == 0 {
		return true
	}
	for _, sub := range r.Contains {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

// ExtractName 返回名字；规则没有 NameRegex 时 ok 恒为 true
func (r *LineRule) ExtractName(line string) (name string, ok bool) {
	if r.Pattern == nil {
		return "", true
	}
	m := r.Pattern.FindStringSubmatch(line)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Describe 生成步骤描述
func (r *LineRule) Describe(name string) string {
	return strings.ReplaceAll(r.Action, NamePlaceholder, name)
}

// Label 生成节点标签
func (r *LineRule) Label(name string) string {
	if r.NodeLabel == "" {
		return name
	}
	return strings.ReplaceAll(r.NodeLabel, NamePlaceholder, name)
}

// Compile 校验并预编译规则的正则
func (r *LineRule) Compile() error {
	if r.Name == "" {
		r.Name = string(r.Kind)
	}
	if r.Prefix == "" && len(r.Contains) == 0 {
		return fmt.Errorf("rule %q: needs prefix or contains", r.Name)
	}
	switch r.Kind {
	case KindFunction, KindOutput, KindVariable, KindLoop, KindCondition:
	default:
		return fmt.Errorf("rule %q: unknown kind %q", r.Name, r.Kind)
	}
	if r.EmitNode && r.Kind == KindOutput {
		return fmt.Errorf("rule %q: output lines do not produce nodes", r.Name)
	}
	// 没有名字来源时，变量表和节点标签都会是空串
	if r.Assigns && r.NameRegex == "" {
		return fmt.Errorf("rule %q: assigns needs name_pattern", r.Name)
	}
	if r.EmitNode && r.NameRegex == "" && r.NodeLabel == "" {
		return fmt.Errorf("rule %q: emit_node needs name_pattern or node_label", r.Name)
	}
	if r.NameRegex == "" {
		r.Pattern = nil
		return nil
	}
	pat, err := regexp.Compile(r.NameRegex)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	if pat.NumSubexp() < 1 {
		return fmt.Errorf("rule %q: name_pattern needs a capture group", r.Name)
	}
	r.Pattern = pat
	return nil
}

// LoadRulesFromFile 从 YAML 文件加载规则，文件顺序即优先级
func LoadRulesFromFile(path string) ([]LineRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]LineRule, error) {
	var rules []LineRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, errors.New("rules file defines no rules")
	}
	for i := range rules {
		if err := rules[i].Compile(); err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	return rules, nil
}

// GetBuiltinRules 返回内置规则，顺序固定:
// function > console.log > 赋值 > 循环 > 条件
func GetBuiltinRules() []LineRule {
	rules := []LineRule{
		{
			Name:      "function-declaration",
			Kind:      KindFunction,
			Prefix:    "function ",
			NameRegex: `function\s+(\w+)`,
			Action:    "Declare function " + NamePlaceholder,
			EmitNode:  true,
		},
		{
			Name:     "console-output",
			Kind:     KindOutput,
			Contains: []string{"console.log"},
			Action:   "Console output",
		},
		{
			Name:      "variable-assignment",
			Kind:      KindVariable,
			Contains:  []string{"="},
			NotPrefix: []string{"//"},
			NameRegex: `(?:\b(?:let|const|var)\s+)?(\w+)\s*=`,
			Action:    "Assign variable " + NamePlaceholder,
			EmitNode:  true,
			Assigns:   true,
		},
		{
			Name:      "loop",
			Kind:      KindLoop,
			Contains:  []string{"for ", "while "},
			Action:    "Loop iteration",
			NodeLabel: "Loop",
			EmitNode:  true,
		},
		{
			Name:      "condition",
			Kind:      KindCondition,
			Contains:  []string{"if "},
			Action:    "Condition check",
			NodeLabel: "Condition",
			EmitNode:  true,
		},
	}
	for i := range rules {
		// 内置规则编译失败属于程序错误
		if err := rules[i].Compile(); err != nil {
			panic(err)
		}
	}
	return rules
}
