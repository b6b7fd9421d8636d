package toggle

import (
	"errors"

	"github.com/jmylchreest/gdmswitch/internal/apply"
	"github.com/jmylchreest/gdmswitch/internal/gdmconf"
	"github.com/jmylchreest/gdmswitch/internal/session"
)

var (
	// ErrToggleUnavailable is returned when the current session type is
	// undefined, so there is no opposite type to switch to.
	ErrToggleUnavailable = errors.New("session type is undefined; toggle unavailable")

	// ErrToggleInFlight is returned when another toggle is still running.
	ErrToggleInFlight = errors.New("a session toggle is already in progress")
)

// ControllerError wraps the failure of a toggle run with the state it ended in.
type ControllerError struct {
	State State
	Err   error
}

func (e *ControllerError) Error() string {
	return e.State.String() + ": " + e.Err.Error()
}

func (e *ControllerError) Unwrap() error {
	return e.Err
}

// Exit codes of the toggle-session command.
const (
	ExitOK           = 0
	ExitProbeFailed  = 1
	ExitConfigFailed = 2
	ExitApplyFailed  = 3
)

// ExitCode maps an error returned by the controller to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ce *ControllerError
	if errors.As(err, &ce) {
		switch ce.State {
		case StateProbeFailed:
			return ExitProbeFailed
		case StateRewriteFailed:
			return ExitConfigFailed
		case StateApplyFailed:
			return ExitApplyFailed
		}
	}

	var pe *session.ProbeError
	var cfgErr *gdmconf.ConfigError
	var ae *apply.ApplyError
	switch {
	case errors.As(err, &pe), errors.Is(err, ErrToggleUnavailable):
		return ExitProbeFailed
	case errors.As(err, &cfgErr):
		return ExitConfigFailed
	case errors.As(err, &ae):
		return ExitApplyFailed
	default:
		return ExitProbeFailed
	}
}
