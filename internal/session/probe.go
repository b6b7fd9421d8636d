package session

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// DefaultTimeout bounds each query issued by a probe.
const DefaultTimeout = 5 * time.Second

// Backend names accepted by NewProber.
const (
	BackendLoginctl = "loginctl"
	BackendLogind   = "logind"
	BackendEnv      = "env"
)

// Prober determines the type of the active login session.
type Prober interface {
	// Name returns the backend identifier (e.g., "loginctl").
	Name() string

	// Probe returns a fresh snapshot. On failure the snapshot type is
	// TypeUndefined and the error is a *ProbeError.
	Probe(ctx context.Context) (Snapshot, error)
}

// Runner executes a command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs the command and returns stdout. Stderr is attached to the
// error when the command exits non-zero.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out, err
}

// Options configures a prober.
type Options struct {
	Timeout time.Duration
	Runner  Runner
	Logger  *slog.Logger
	Getenv  func(string) string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// NewProber creates a Prober for the named backend.
// An empty backend selects loginctl.
func NewProber(backend string, opts Options) (Prober, error) {
	opts = opts.withDefaults()

	switch backend {
	case "", BackendLoginctl:
		return NewLoginctlProber(opts), nil
	case BackendLogind:
		return NewLogindProber(opts), nil
	case BackendEnv:
		return NewEnvProber(opts), nil
	default:
		return nil, fmt.Errorf("unknown probe backend %q", backend)
	}
}
