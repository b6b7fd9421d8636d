package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/gdmswitch/internal/adapter/output"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
	"github.com/jmylchreest/gdmswitch/internal/watch"
)

var statusOpts struct {
	format   string
	follow   bool
	debounce time.Duration
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session type and the toggle action",
	Long: `Show the current session type, the session type GDM will use at the
next login, and the label of the toggle action.

The default format is Waybar's custom module JSON:

  "custom/session": {
    "exec": "gdmswitch status --follow",
    "return-type": "json",
    "on-click": "gdmswitch toggle-session"
  }

With --follow a new line is printed whenever the GDM config changes.

The output includes:
  - text: Current session type (X11, Wayland, Undefined)
  - alt/class: x11, wayland, pending (switch queued for next login) or unavailable
  - tooltip: Session, next login and action`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "",
		"Output format: waybar, plain, json, yaml (default from config)")
	statusCmd.Flags().BoolVar(&statusOpts.follow, "follow", false,
		"Print the status again whenever the GDM config changes")
	statusCmd.Flags().DurationVar(&statusOpts.debounce, "debounce", watch.DefaultDebounce,
		"Wait this long after a config change before printing (with --follow)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	format := statusOpts.format
	if format == "" {
		format = cfg.Status.Format
	}

	opts := output.DefaultFormatterOptions()
	opts.Compact = statusOpts.follow
	formatter, err := output.NewFormatter(output.FormatType(format), opts)
	if err != nil {
		return err
	}

	ctrl, cleanup, err := newController(cfg, controllerSetup{}, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := printStatus(ctx, cmd, ctrl, formatter); err != nil {
		return err
	}
	if !statusOpts.follow {
		return nil
	}

	watcher, err := watch.NewFileWatcher(gdmConfigPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to watch GDM config: %w", err)
	}
	watcher.SetDebounce(statusOpts.debounce)

	err = watcher.Run(ctx, func() {
		if err := printStatus(ctx, cmd, ctrl, formatter); err != nil {
			logger.Warn("failed to write status", "error", err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func printStatus(ctx context.Context, cmd *cobra.Command, ctrl *toggle.Controller, formatter output.Formatter) error {
	probeCtx, cancel := context.WithTimeout(ctx, cfg.Probe.Timeout.Duration()*2)
	defer cancel()

	return formatter.FormatStatus(cmd.OutOrStdout(), ctrl.Status(probeCtx))
}
