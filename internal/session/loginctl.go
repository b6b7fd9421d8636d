package session

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// sessionLinePattern matches the session id at the start of a loginctl
// listing row, e.g. "      2 1000 alice seat0 tty2".
var sessionLinePattern = regexp.MustCompile(`^\s*([0-9]+)`)

// LoginctlProber queries systemd-logind through the loginctl command.
type LoginctlProber struct {
	runner  Runner
	timeout time.Duration
	logger  *slog.Logger
}

// NewLoginctlProber creates a LoginctlProber.
func NewLoginctlProber(opts Options) *LoginctlProber {
	opts = opts.withDefaults()
	return &LoginctlProber{
		runner:  opts.Runner,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// Name returns the backend identifier.
func (p *LoginctlProber) Name() string {
	return BackendLoginctl
}

// Probe lists sessions, takes the first listed one and asks logind for its Type.
func (p *LoginctlProber) Probe(ctx context.Context) (Snapshot, error) {
	listing, err := p.run(ctx, "loginctl")
	if err != nil {
		perr := commandError(ctx, p.Name(), "failed to list sessions", err)
		p.logger.Warn("session probe failed", "backend", p.Name(), "error", perr)
		return Undefined(p.Name()), perr
	}

	id, err := ParseSessionListing(string(listing))
	if err != nil {
		p.logger.Warn("session probe failed", "backend", p.Name(), "error", err)
		return Undefined(p.Name()), err
	}

	props, err := p.run(ctx, "loginctl", "show-session", id, "-p", "Type")
	if err != nil {
		perr := commandError(ctx, p.Name(), "failed to query session "+id, err)
		p.logger.Warn("session probe failed", "backend", p.Name(), "session", id, "error", perr)
		return Snapshot{SessionID: id, Type: TypeUndefined, Source: p.Name()}, perr
	}

	snap := Snapshot{
		SessionID: id,
		Type:      ClassifyTypeProperty(string(props)),
		Source:    p.Name(),
	}
	p.logger.Debug("session probed", "backend", p.Name(), "session", id, "type", snap.Type)
	return snap, nil
}

// run executes a single bounded query.
func (p *LoginctlProber) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.runner.Output(ctx, name, args...)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, err
}

// ParseSessionListing extracts the session id from plain `loginctl` output.
// The first line is the column header; the id is read from the second line.
func ParseSessionListing(output string) (string, error) {
	lines := strings.Split(output, "\n")
	if len(lines) < 2 {
		return "", &ProbeError{
			Kind:    ParseFailure,
			Source:  BackendLoginctl,
			Message: "session listing has no session line",
		}
	}

	m := sessionLinePattern.FindStringSubmatch(lines[1])
	if m == nil {
		return "", &ProbeError{
			Kind:    ParseFailure,
			Source:  BackendLoginctl,
			Message: "no session id in " + strings.TrimSpace(lines[1]),
		}
	}
	return m[1], nil
}
