package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/gdmswitch/internal/apply"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

var toggleOpts struct {
	dryRun bool
}

var toggleCmd = &cobra.Command{
	Use:   "toggle-session",
	Short: "Switch GDM to the other session type and restart it",
	Long: `Detect the current session type, rewrite the GDM configuration so the
opposite type is used at the next login, then restart the display manager.

The write and restart run through pkexec, so a polkit prompt is shown.
Restarting GDM ends the current graphical session.

Exit codes:
  0  toggle applied
  1  session probe failed or session type is undefined
  2  GDM config could not be read or rewritten
  3  privileged write or display manager restart failed
  64 invalid command line (unknown flag or extra arguments)

Exit code 1 is also used when another toggle is already running in this
process and for errors outside the toggle itself (e.g. an invalid
gdmswitch config file). Check stderr to tell them apart.

Examples:
  # Preview the rewritten config without changing anything
  gdmswitch toggle-session --dry-run

  # Switch and restart GDM
  gdmswitch toggle-session`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)

	toggleCmd.Flags().BoolVar(&toggleOpts.dryRun, "dry-run", false,
		"Print the rewritten config without writing it or restarting GDM")
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, cleanup, err := newController(cfg, controllerSetup{
		apply:   !toggleOpts.dryRun,
		notify:  !toggleOpts.dryRun,
		journal: true,
	}, func(s toggle.State) {
		if s.Terminal() {
			logger.Info("toggle finished", "state", s.String())
		}
	})
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()

	if toggleOpts.dryRun {
		plan, err := ctrl.Plan(ctx)
		if err != nil {
			return &exitError{code: toggle.ExitCode(err), err: err}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Current session: %s, next login would use %s (%s)\n",
			plan.Snapshot.Type, plan.Target, gdmConfigPath())
		if !plan.Changed() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Config already selects this session type; nothing would change")
		}
		_, err = out.Write(plan.Rewritten.Bytes())
		return err
	}

	res, err := ctrl.ToggleSession(ctx)
	if err != nil {
		if hint := appliedHint(err); hint != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), hint)
		}
		return &exitError{code: toggle.ExitCode(err), err: err}
	}

	fmt.Fprintf(out, "GDM now uses %s at the next login\n", res.Target)
	return nil
}

// appliedHint explains a failure that happened after the config reached disk.
func appliedHint(err error) string {
	var ae *apply.ApplyError
	if !errors.As(err, &ae) || !ae.Written() {
		return ""
	}
	return fmt.Sprintf("%s was updated but %s was not restarted; restart it or log out to use the new session type",
		ae.Path, cfg.GDM.Unit)
}
