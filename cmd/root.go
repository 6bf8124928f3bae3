// Package cmd provides the command-line interface for tagcheck.
//
// Configuration System:
//
//	Settings are resolved with the following precedence:
//	1. Command-line flags (--format, --max-report, ...) - highest priority
//	2. TAGCHECK_ environment variables (TAGCHECK_CHECK_FILE, ...), including
//	   those loaded from a .env file in the working directory
//	3. Configuration file (--config, TAGCHECK_CONFIG_FILE, or .tagcheck.yml)
//	4. Built-in defaults - lowest priority
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/tagcheck/internal/config"
	tcerrors "github.com/conneroisu/tagcheck/internal/errors"
	"github.com/conneroisu/tagcheck/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagcheck",
	Short: "Check that the tags of an HTML document are balanced",
	Long: `tagcheck scans an HTML document and reports structural problems:

  • closing tags that do not match the innermost open tag
  • closing tags with no open tag at all
  • tags that are never closed

Void elements (br, img, input, meta, ...) are ignored.

Quick Start:
  tagcheck check index.html       Check a file once
  tagcheck watch index.html       Re-check on every save
  tagcheck version                Show build information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to a process exit status.
// Configuration and usage problems exit with 2, everything else with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch tcerrors.GetErrorType(err) {
	case tcerrors.ErrorTypeConfig, tcerrors.ErrorTypeValidation:
		return 2
	default:
		return 1
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tagcheck.yml, can also use TAGCHECK_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires the configuration sources together. A missing .env or
// config file is not an error.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("TAGCHECK_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tagcheck")
	}

	viper.SetEnvPrefix("TAGCHECK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads configuration and wraps failures as config errors.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, tcerrors.NewConfigError(tcerrors.CodeInvalidConfig, "failed to load config", err)
	}
	return cfg, nil
}

// resolveInput picks the file to check: the first argument, else the
// configured check.file.
func resolveInput(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Check.File != "" {
		return cfg.Check.File, nil
	}
	return "", tcerrors.NewValidationError(tcerrors.CodeNoInput,
		"no input file: pass a path or set check.file in .tagcheck.yml")
}

func newLogger(cfg *config.Config) logging.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
