package analysis

import (
	"strings"

	"CodeTracer/internal/model"
)

// Match 一行的分类结果
type Match struct {
	Rule *model.LineRule
	Name string
}

// Classifier 按规则顺序对单行分类，编译后的规则只读，可并发使用
type Classifier struct {
	rules []model.LineRule
}

// NewClassifier 使用给定规则；rules 为空时使用内置规则
func NewClassifier(rules []model.LineRule) *Classifier {
	if len(rules) == 0 {
		rules = model.GetBuiltinRules()
	}
	return &Classifier{rules: rules}
}

func (c *Classifier) Rules() []model.LineRule {
	return c.rules
}

// Classify trims the line and returns the rule that claims it.
// The first triggering rule wins even if it then fails to extract a name,
// in which case the line is a no-op.
func (c *Classifier) Classify(line string) (Match, bool) {
	text := strings.TrimSpace(line)
	if text == "" {
		return Match{}, false
	}
	for i := range c.rules {
		rule := &c.rules[i]
		if !rule.Triggers(text) {
			continue
		}
		name, ok := rule.ExtractName(text)
		if !ok {
			return Match{}, false
		}
		return Match{Rule: rule, Name: name}, true
	}
	return Match{}, false
}
