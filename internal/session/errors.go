package session

import (
	"context"
	"errors"
	"os/exec"
)

// ProbeErrorKind classifies a probe failure.
type ProbeErrorKind int

const (
	// ParseFailure means the session listing had no recognisable session line.
	ParseFailure ProbeErrorKind = iota + 1
	// Timeout means a query did not finish within the probe timeout.
	Timeout
	// SubprocessLaunchFailed means a query command could not be run or exited non-zero.
	SubprocessLaunchFailed
)

// String returns the kind name.
func (k ProbeErrorKind) String() string {
	switch k {
	case ParseFailure:
		return "parse failure"
	case Timeout:
		return "timeout"
	case SubprocessLaunchFailed:
		return "subprocess launch failed"
	default:
		return "unknown"
	}
}

// ProbeError describes why a probe degraded to an undefined session type.
type ProbeError struct {
	Kind    ProbeErrorKind
	Source  string
	Message string
	Err     error
}

func (e *ProbeError) Error() string {
	msg := e.Source + " probe: " + e.Message
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ProbeError of the same kind, so callers can
// write errors.Is(err, session.ErrTimeout).
func (e *ProbeError) Is(target error) bool {
	var pe *ProbeError
	if !errors.As(target, &pe) {
		return false
	}
	return pe.Source == "" && pe.Message == "" && pe.Err == nil && pe.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons.
var (
	ErrParseFailure = &ProbeError{Kind: ParseFailure}
	ErrTimeout      = &ProbeError{Kind: Timeout}
	ErrLaunchFailed = &ProbeError{Kind: SubprocessLaunchFailed}
)

// commandError converts a command failure into a ProbeError, distinguishing
// deadline expiry from launch or exit failures.
func commandError(ctx context.Context, source, message string, err error) *ProbeError {
	kind := SubprocessLaunchFailed
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		kind = Timeout
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		message += " (" + execErr.Name + " not found)"
	}
	return &ProbeError{Kind: kind, Source: source, Message: message, Err: err}
}
