package analysis

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyCode    = errors.New("code is empty")
	ErrTooLong      = errors.New("code exceeds maximum length")
	ErrTooManyLines = errors.New("code exceeds maximum line count")
)

// Limits 输入大小限制，0 表示不限制
type Limits struct {
	MaxLength int `yaml:"max_length"`
	MaxLines  int `yaml:"max_lines"`
}

// DefaultLimits 与编辑器前端保持一致
var DefaultLimits = Limits{
	MaxLength: 100000,
	MaxLines:  5000,
}

// Validate 检查代码是否适合分析。Analyze 本身从不拒绝输入。
func Validate(code string, limits Limits) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyCode
	}
	if limits.MaxLength > 0 {
		if n := utf8.RuneCountInString(code); n > limits.MaxLength {
			return fmt.Errorf("%w: %d > %d characters", ErrTooLong, n, limits.MaxLength)
		}
	}
	if limits.MaxLines > 0 {
		if n := strings.Count(code, "\n") + 1; n > limits.MaxLines {
			return fmt.Errorf("%w: %d > %d lines", ErrTooManyLines, n, limits.MaxLines)
		}
	}
	return nil
}
