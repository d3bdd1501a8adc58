package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"CodeTracer/internal/analysis"
	"CodeTracer/internal/format"
)

// DefaultFile 当前目录下自动加载的配置文件名
const DefaultFile = "tracer.yaml"

type Config struct {
	Rules       string          `yaml:"rules"`       // 外部规则文件，空则使用内置规则
	OutputDir   string          `yaml:"output_dir"`  // 报告输出目录
	Format      string          `yaml:"format"`      // text | json | yaml | html
	Concurrency int             `yaml:"concurrency"` // 扫描并发数
	Languages   []string        `yaml:"languages"`   // 扫描时只处理这些语言
	Limits      analysis.Limits `yaml:"limits"`
	IndentSize  int             `yaml:"indent_size"`
	Server      struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func Default() *Config {
	cfg := &Config{
		OutputDir:   "output",
		Format:      "text",
		Concurrency: 4,
		Limits:      analysis.DefaultLimits,
		IndentSize:  format.DefaultIndent,
	}
	cfg.Server.Addr = "127.0.0.1:3000"
	return cfg
}

// Load 读取 YAML 配置，未设置的字段保留默认值
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// LoadOptional 指定路径必须存在；未指定时尝试 DefaultFile，不存在则返回默认配置
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return Default(), nil
}

func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json", "yaml", "html":
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	if c.Limits.MaxLength < 0 || c.Limits.MaxLines < 0 {
		return errors.New("limits must be >= 0")
	}
	return nil
}
