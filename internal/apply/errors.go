package apply

import (
	"context"
	"errors"
)

// ApplyErrorKind classifies an apply failure.
type ApplyErrorKind int

const (
	// WriteFailed means the config was not written; no restart was attempted.
	WriteFailed ApplyErrorKind = iota + 1
	// RestartFailed means the config was written but the restart failed.
	RestartFailed
	// Timeout means a step did not finish within its deadline.
	Timeout
)

// String returns the kind name.
func (k ApplyErrorKind) String() string {
	switch k {
	case WriteFailed:
		return "write failed"
	case RestartFailed:
		return "restart failed"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ApplyError is returned by Applier.Apply.
type ApplyError struct {
	Kind ApplyErrorKind
	Step string // "write" or "restart"
	Path string
	Err  error
}

func (e *ApplyError) Error() string {
	msg := e.Step + " " + e.Path + ": " + e.Kind.String()
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is matches sentinel ApplyErrors by kind.
func (e *ApplyError) Is(target error) bool {
	var ae *ApplyError
	if !errors.As(target, &ae) {
		return false
	}
	return ae.Step == "" && ae.Path == "" && ae.Err == nil && ae.Kind == e.Kind
}

// Written reports whether the new config reached disk before the failure.
func (e *ApplyError) Written() bool {
	return e.Step == stepRestart
}

// Sentinel values for errors.Is comparisons.
var (
	ErrWriteFailed   = &ApplyError{Kind: WriteFailed}
	ErrRestartFailed = &ApplyError{Kind: RestartFailed}
	ErrTimeout       = &ApplyError{Kind: Timeout}
)

const (
	stepWrite   = "write"
	stepRestart = "restart"
)

// stepError builds the ApplyError for a failed step.
func stepError(ctx context.Context, step, path string, err error) *ApplyError {
	kind := WriteFailed
	if step == stepRestart {
		kind = RestartFailed
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		kind = Timeout
	}
	return &ApplyError{Kind: kind, Step: step, Path: path, Err: err}
}
