package main

import (
	"fmt"
	"os"

	"CodeTracer/internal/analysis"
	"CodeTracer/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	argConcurrency int
	argLanguages   []string
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Analyze every known source file under a directory",
	Long: `Walks the directory (skipping hidden directories, node_modules, dist,
build and vendor), analyzes each file with a known extension and writes
an HTML report by default. Use --format json|yaml for a machine-readable
summary on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVarP(&argConcurrency, "concurrency", "j", 0, "Files analyzed in parallel (default from config, 4)")
	scanCmd.Flags().StringSliceVar(&argLanguages, "languages", nil, "Only scan these languages, e.g. javascript,python")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]

	tracer, err := newTracer()
	if err != nil {
		return err
	}

	format := cfg.Format
	if !cmd.Flags().Changed("format") && format == "text" {
		format = "html"
	}

	scanner := analysis.NewScanner(tracer)
	scanner.Limits = cfg.Limits
	scanner.Concurrency = cfg.Concurrency
	scanner.Languages = cfg.Languages
	scanner.Logger = logger
	if format == "html" || format == "text" {
		scanner.Progress = os.Stderr
	}

	if format == "html" {
		color.Cyan("[*] Scanning %s ...", root)
	}
	results, err := scanner.Scan(cmd.Context(), root)
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	failed, steps := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		steps += len(r.Trace.Steps)
	}

	switch format {
	case "json":
		return report.WriteJSON(cmd.OutOrStdout(), results)
	case "yaml":
		return report.WriteYAML(cmd.OutOrStdout(), results)
	case "text":
		for _, r := range results {
			if r.Err != nil {
				color.Yellow("[!] %s: %v", r.Path, r.Err)
				continue
			}
			color.Blue("[*] %s (%s)", r.Path, r.Language)
			if err := report.WriteText(cmd.OutOrStdout(), r.Trace); err != nil {
				return err
			}
		}
		return nil
	}

	color.Blue("[*] Analyzed %d files, %d steps, %d skipped.", len(results), steps, failed)
	if len(results) == 0 {
		color.Yellow("[*] No source files found.")
		return nil
	}
	out, err := report.GenerateHTML(results, root, cfg.OutputDir)
	if err != nil {
		return err
	}
	color.Green("[+] Report generated successfully: %s", out)
	return nil
}
