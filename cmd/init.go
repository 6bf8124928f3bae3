package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tagcheck/internal/config"
)

const configFileName = ".tagcheck.yml"

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Write a .tagcheck.yml with the default settings",
	Long: `Init writes a .tagcheck.yml configuration file holding the default
settings into the given directory, or the current directory.

Examples:
  tagcheck init                        # .tagcheck.yml in the current directory
  tagcheck init site --file index.html # preset the file to check
  tagcheck init --force                # overwrite an existing file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initFile  string
	initForce bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFile, "file", "", "HTML file checked when no argument is given")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	content, err := defaultConfigYAML(initFile)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
	return nil
}

// defaultConfigYAML renders the default configuration as YAML.
func defaultConfigYAML(file string) ([]byte, error) {
	cfg := config.Config{
		Check: config.CheckConfig{
			File:      file,
			Format:    config.FormatText,
			MaxReport: config.DefaultMaxReport,
		},
		Watch: config.WatchConfig{Debounce: config.DefaultDebounce},
		Log:   config.LogConfig{Level: "info", Format: "text"},
	}

	content, err := yaml.Marshal(configDocument(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to render configuration: %w", err)
	}
	return content, nil
}

// configDocument mirrors config.Config with the debounce as a duration
// string, which is what viper expects when reading it back.
func configDocument(cfg config.Config) map[string]interface{} {
	return map[string]interface{}{
		"check": map[string]interface{}{
			"file":       cfg.Check.File,
			"format":     cfg.Check.Format,
			"max_report": cfg.Check.MaxReport,
			"strict":     cfg.Check.Strict,
		},
		"watch": map[string]interface{}{
			"debounce": cfg.Watch.Debounce.String(),
		},
		"log": map[string]interface{}{
			"level":  cfg.Log.Level,
			"format": cfg.Log.Format,
		},
	}
}
