package main

import (
	"fmt"
	"io"
	"os"

	"CodeTracer/internal/analysis"
	"CodeTracer/internal/config"
	"CodeTracer/internal/model"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// 全局参数
	argConfig  string
	argRules   string
	argFormat  string
	argOutput  string
	argVerbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tracer",
	Short: "Static line-heuristic tracer and visualizer for JavaScript-shaped code",
	Long: `tracer scans source text line by line, classifies each line
(function declaration, console output, assignment, loop, condition) and
emits an ordered step list plus a sequential node/edge graph.

Nothing is executed: the trace is a display approximation only.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if argVerbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.LoadOptional(argConfig)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd)
		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&argConfig, "config", "c", "", "Path to config file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&argRules, "rules", "", "Path to external rules.yaml file")
	rootCmd.PersistentFlags().StringVarP(&argFormat, "format", "f", "text", "Output format: text, json, yaml, html")
	rootCmd.PersistentFlags().StringVarP(&argOutput, "output", "o", "", "Report output directory")
	rootCmd.PersistentFlags().BoolVarP(&argVerbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(analyzeCmd, scanCmd, formatCmd, languagesCmd, rulesCmd, serveCmd)
}

// applyFlags 命令行参数优先于配置文件
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("rules") {
		cfg.Rules = argRules
	}
	if flags.Changed("format") {
		cfg.Format = argFormat
	}
	if flags.Changed("output") {
		cfg.OutputDir = argOutput
	}
	// 以下参数只挂在部分子命令上
	if flags.Changed("concurrency") {
		cfg.Concurrency = argConcurrency
	}
	if flags.Changed("languages") {
		cfg.Languages = argLanguages
	}
	if flags.Changed("indent") {
		cfg.IndentSize = argIndent
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = argAddr
	}
}

// loadRules 加载规则优先级: 1. 命令行/配置 2. 当前目录 rules.yaml 3. 内置默认
func loadRules() ([]model.LineRule, error) {
	rulePath := cfg.Rules
	if rulePath == "" {
		if _, err := os.Stat("rules.yaml"); err == nil {
			rulePath = "rules.yaml"
		}
	}
	if rulePath == "" {
		logger.Debug("using builtin rules")
		return model.GetBuiltinRules(), nil
	}
	rules, err := model.LoadRulesFromFile(rulePath)
	if err != nil {
		return nil, fmt.Errorf("load rules from %s: %w", rulePath, err)
	}
	logger.Debug("loaded rules", zap.String("path", rulePath), zap.Int("count", len(rules)))
	return rules, nil
}

func newTracer() (*analysis.Tracer, error) {
	rules, err := loadRules()
	if err != nil {
		return nil, err
	}
	return analysis.NewTracer(rules), nil
}

// readSource 读取文件，路径为 "-" 或空时读标准输入
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("[-] %v", err)
		os.Exit(1)
	}
}
