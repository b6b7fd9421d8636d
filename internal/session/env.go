package session

import (
	"context"
	"log/slog"
	"os"
)

// EnvProber reads XDG_SESSION_TYPE from the environment. It only reflects
// the session the process was started in.
type EnvProber struct {
	getenv func(string) string
	logger *slog.Logger
}

// NewEnvProber creates an EnvProber.
func NewEnvProber(opts Options) *EnvProber {
	opts = opts.withDefaults()
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return &EnvProber{getenv: getenv, logger: opts.Logger}
}

// Name returns the backend identifier.
func (p *EnvProber) Name() string {
	return BackendEnv
}

// Probe classifies XDG_SESSION_TYPE. It never fails.
func (p *EnvProber) Probe(_ context.Context) (Snapshot, error) {
	snap := Snapshot{
		SessionID: p.getenv("XDG_SESSION_ID"),
		Type:      ParseType(p.getenv("XDG_SESSION_TYPE")),
		Source:    p.Name(),
	}
	p.logger.Debug("session probed", "backend", p.Name(), "session", snap.SessionID, "type", snap.Type)
	return snap, nil
}
