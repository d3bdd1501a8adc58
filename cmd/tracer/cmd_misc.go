package main

import (
	"fmt"
	"os"
	"strings"

	"CodeTracer/internal/format"
	"CodeTracer/internal/lang"
	"CodeTracer/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	argWrite  bool
	argIndent int
)

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Re-indent source using brace and block-keyword heuristics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFormat,
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := lang.All()
		switch cfg.Format {
		case "json":
			return report.WriteJSON(cmd.OutOrStdout(), all)
		case "yaml":
			return report.WriteYAML(cmd.OutOrStdout(), all)
		}
		for _, l := range all {
			features := make([]string, len(l.Features))
			for i, f := range l.Features {
				features[i] = string(f)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-11s %-11s .%-5s %s\n",
				l.ID, l.Label, l.Extension(), strings.Join(features, ","))
		}
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective classification rules as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules()
		if err != nil {
			return err
		}
		return report.WriteYAML(cmd.OutOrStdout(), rules)
	},
}

func init() {
	formatCmd.Flags().BoolVarP(&argWrite, "write", "w", false, "Write result back to the file instead of stdout")
	formatCmd.Flags().IntVar(&argIndent, "indent", 0, "Spaces per indent level (default from config, 4)")
}

func runFormat(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	code, err := readSource(cmd, path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	out := format.Indent(code, cfg.IndentSize)

	if !argWrite || path == "" || path == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return err
	}
	color.Green("[+] Formatted %s", path)
	return nil
}
