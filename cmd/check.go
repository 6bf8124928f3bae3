package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/tagcheck/internal/checker"
	"github.com/conneroisu/tagcheck/internal/config"
	"github.com/conneroisu/tagcheck/internal/report"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:     "check [file]",
	Aliases: []string{"c"},
	Short:   "Check a single HTML file for unbalanced tags",
	Long: `Check reads an HTML file and reports tag nesting problems with line
numbers. At most --max-report problems are printed; the rest are dropped.

The exit status is 0 once the file has been checked, even when problems are
found, unless --strict is given. Failing to read the file exits with 1.

Examples:
  tagcheck check index.html
  tagcheck check public/index.html --format json
  tagcheck check --max-report 50 page.html
  tagcheck check                      # uses check.file from .tagcheck.yml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheckCommand,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("format", "f", config.FormatText, "Output format (text, json, yaml)")
	checkCmd.Flags().IntP("max-report", "n", config.DefaultMaxReport, "Maximum number of problems to print")
	checkCmd.Flags().Bool("strict", false, "Exit with a non-zero status when problems are found")

	viper.BindPFlag("check.format", checkCmd.Flags().Lookup("format"))
	viper.BindPFlag("check.max_report", checkCmd.Flags().Lookup("max-report"))
	viper.BindPFlag("check.strict", checkCmd.Flags().Lookup("strict"))
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := resolveInput(cfg, args)
	if err != nil {
		return err
	}

	result, err := checker.New(newLogger(cfg)).Check(commandContext(cmd), path)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), cfg.Check.Format, result.File, result.Diagnostics, cfg.Check.MaxReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Check.Strict && !result.Valid() {
		return fmt.Errorf("%s: %d structural error(s) found", result.File, len(result.Diagnostics))
	}

	return nil
}
