package main

import (
	"context"
	"fmt"

	"github.com/jmylchreest/gdmswitch/internal/apply"
	"github.com/jmylchreest/gdmswitch/internal/config"
	"github.com/jmylchreest/gdmswitch/internal/gdmconf"
	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/notify"
	"github.com/jmylchreest/gdmswitch/internal/session"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

// controllerSetup selects the optional collaborators to wire.
type controllerSetup struct {
	apply   bool // privileged writer and restarter
	notify  bool
	journal bool
}

// newController wires a toggle.Controller from configuration. The returned
// cleanup func closes the journal and is always safe to call.
func newController(c *config.Config, setup controllerSetup, onState func(toggle.State)) (*toggle.Controller, func(), error) {
	cleanup := func() {}

	prober, err := session.NewProber(c.Probe.Backend, session.Options{
		Timeout: c.Probe.Timeout.Duration(),
		Logger:  logger,
	})
	if err != nil {
		return nil, cleanup, err
	}

	opts := toggle.Options{
		Prober:        prober,
		ConfigPath:    gdmConfigPath(),
		Logger:        logger,
		OnStateChange: onState,
	}

	if setup.apply {
		writer, err := apply.NewPrivilegedWriter(c.Apply.Elevate, c.Apply.Helper)
		if err != nil {
			return nil, cleanup, err
		}
		restarter, err := apply.NewRestarter(c.Apply.RestartMethod, c.Apply.Elevate, c.GDM.Unit)
		if err != nil {
			return nil, cleanup, err
		}
		opts.Applier = apply.NewApplier(writer, restarter, c.Apply.Timeout.Duration(), logger)
	}

	if setup.notify && c.Notify.Enabled {
		opts.Notifier = notify.NewDBusNotifier(c.Notify.AppName, logger)
	}

	if setup.journal && c.Journal.Enabled {
		j, err := journal.Open(c.JournalPath())
		if err != nil {
			// A missing journal never blocks a toggle.
			logger.Warn("failed to open journal", "path", c.JournalPath(), "error", err)
		} else {
			logger.Debug("journal opened", "path", j.Path())
			opts.Recorder = j
			cleanup = func() {
				if err := j.Close(); err != nil {
					logger.Warn("failed to close journal", "error", err)
				}
			}
		}
	}

	if opts.Applier == nil {
		opts.Applier = unavailableApplier{}
	}

	return toggle.NewController(opts), cleanup, nil
}

// unavailableApplier backs controllers that only report status.
type unavailableApplier struct{}

func (unavailableApplier) Apply(_ context.Context, _ gdmconf.Document, path string) error {
	return fmt.Errorf("applying %s is not available in this command", path)
}
