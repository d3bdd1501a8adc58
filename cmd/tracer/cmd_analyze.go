package main

import (
	"fmt"
	"path/filepath"

	"CodeTracer/internal/analysis"
	"CodeTracer/internal/lang"
	"CodeTracer/internal/model"
	"CodeTracer/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var argLanguage string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Synthesize the step list and graph for one source file (or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&argLanguage, "language", "l", "", "Language id (default: detected from file extension)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	language, err := detectLanguage(path)
	if err != nil {
		return err
	}

	code, err := readSource(cmd, path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := analysis.Validate(code, cfg.Limits); err != nil {
		return err
	}

	tracer, err := newTracer()
	if err != nil {
		return err
	}
	trace := tracer.Analyze(code)
	logger.Debug("analyzed",
		zap.String("path", path),
		zap.String("language", language),
		zap.Int("steps", len(trace.Steps)),
		zap.Int("nodes", len(trace.Nodes)))

	if cfg.Format != "html" {
		return report.Write(cmd.OutOrStdout(), cfg.Format, trace)
	}

	if path == "" || path == "-" {
		path = "stdin." + mustLanguage(language).Extension()
	}
	result := model.FileResult{Path: path, Language: language, Source: code, Trace: trace}
	out, err := report.GenerateHTML([]model.FileResult{result}, filepath.Dir(path), cfg.OutputDir)
	if err != nil {
		return err
	}
	color.Green("[+] Report generated successfully: %s", out)
	return nil
}

func detectLanguage(path string) (string, error) {
	if argLanguage != "" {
		l, err := lang.Get(argLanguage)
		if err != nil {
			return "", err
		}
		return l.ID, nil
	}
	if l, ok := lang.ForPath(path); ok {
		return l.ID, nil
	}
	return lang.DefaultLanguage, nil
}

func mustLanguage(id string) lang.Language {
	l, err := lang.Get(id)
	if err != nil {
		l, _ = lang.Get(lang.DefaultLanguage)
	}
	return l
}
