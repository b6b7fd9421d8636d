package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/gdmswitch/internal/apply"
	"github.com/jmylchreest/gdmswitch/internal/config"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

func TestUsageErrorsExitDistinctly(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"toggle-session", "--bogus"}},
		{"extra argument", []string{"status", "now"}},
		{"unknown command", []string{"switch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Equal(t, exitUsage, exitCode(err))
			assert.NotEqual(t, toggle.ExitProbeFailed, exitCode(err))
		})
	}
}

func TestAppliedHint(t *testing.T) {
	cfg = config.DefaultConfig()
	t.Cleanup(func() { cfg = nil })

	restartErr := &toggle.ControllerError{
		State: toggle.StateApplyFailed,
		Err:   &apply.ApplyError{Kind: apply.RestartFailed, Step: "restart", Path: "/etc/gdm/custom.conf", Err: errors.New("denied")},
	}
	hint := appliedHint(restartErr)
	assert.Contains(t, hint, "/etc/gdm/custom.conf was updated")
	assert.Contains(t, hint, "gdm.service was not restarted")

	writeErr := &toggle.ControllerError{
		State: toggle.StateApplyFailed,
		Err:   &apply.ApplyError{Kind: apply.WriteFailed, Step: "write", Path: "/etc/gdm/custom.conf", Err: errors.New("denied")},
	}
	assert.Empty(t, appliedHint(writeErr))
	assert.Empty(t, appliedHint(toggle.ErrToggleUnavailable))
}

func TestHistoryFilter(t *testing.T) {
	t.Cleanup(func() { historyOpts.dryRun, historyOpts.real, historyOpts.failed = false, false, false })

	opts := historyFilter(time.Hour)
	assert.Equal(t, time.Hour, opts.Since)
	assert.Nil(t, opts.DryRun)

	historyOpts.dryRun = true
	opts = historyFilter(0)
	require.NotNil(t, opts.DryRun)
	assert.True(t, *opts.DryRun)

	historyOpts.dryRun = false
	historyOpts.real = true
	historyOpts.failed = true
	opts = historyFilter(0)
	require.NotNil(t, opts.DryRun)
	assert.False(t, *opts.DryRun)
	assert.True(t, opts.FailedOnly)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gdmswitch", "config.toml")

	require.NoError(t, initConfig(path, false))
	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)

	assert.Error(t, initConfig(path, false))

	require.NoError(t, os.WriteFile(path, []byte("[probe]\nbackend = \"env\"\n"), 0644))
	require.NoError(t, initConfig(path, true))
	loaded, err = config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultProbeBackend, loaded.Probe.Backend)
}
