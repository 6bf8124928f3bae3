package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/tagcheck/internal/checker"
	"github.com/conneroisu/tagcheck/internal/config"
	"github.com/conneroisu/tagcheck/internal/logging"
	"github.com/conneroisu/tagcheck/internal/report"
	"github.com/conneroisu/tagcheck/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:     "watch [file]",
	Aliases: []string{"w"},
	Short:   "Re-check an HTML file every time it changes",
	Long: `Watch checks the file once, then again after every save. Bursts of
file system events are grouped using the watch.debounce setting.

Press Ctrl+C to stop.

Examples:
  tagcheck watch index.html
  tagcheck watch index.html --debounce 1s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatchCommand,
}

var (
	okStatus   = color.New(color.FgGreen, color.Bold)
	failStatus = color.New(color.FgRed, color.Bold)
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("debounce", config.DefaultDebounce, "Delay used to group file change events")
	viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := resolveInput(cfg, args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg).WithComponent("watch")
	session := &watchSession{
		checker: checker.New(logger),
		cfg:     cfg,
		path:    path,
		out:     cmd.OutOrStdout(),
		status:  cmd.ErrOrStderr(),
		logger:  logger,
	}

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	if err := fw.AddFile(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	changes := make(chan struct{}, 1)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		select {
		case changes <- struct{}{}:
		default:
		}
		return nil
	})

	ctx := commandContext(cmd)
	session.run(ctx)

	fmt.Fprintf(session.status, "Watching %s for changes (Ctrl+C to stop)\n", path)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fw.Start(gctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-changes:
				session.run(gctx)
			}
		}
	})

	return g.Wait()
}

// watchSession re-runs a check and prints the result for one watched file.
type watchSession struct {
	checker *checker.Checker
	cfg     *config.Config
	path    string
	out     io.Writer
	status  io.Writer
	logger  logging.Logger
}

// run performs one check. Read errors are reported and the watch goes on,
// the file may be in the middle of being replaced.
func (s *watchSession) run(ctx context.Context) {
	result, err := s.checker.Check(ctx, s.path)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		failStatus.Fprintf(s.status, "✗ %s: %v\n", s.path, err)
		s.logger.Warn(ctx, err, "Check failed", "file", s.path)
		return
	}

	if result.Valid() {
		okStatus.Fprintf(s.status, "✓ %s (%s)\n", result.File, result.Duration.Round(time.Microsecond))
	} else {
		failStatus.Fprintf(s.status, "✗ %s: %d problem(s) (%s)\n", result.File, len(result.Diagnostics), result.Duration.Round(time.Microsecond))
	}

	if err := report.Write(s.out, s.cfg.Check.Format, result.File, result.Diagnostics, s.cfg.Check.MaxReport); err != nil {
		s.logger.Error(ctx, err, "Failed to write report")
	}
}
