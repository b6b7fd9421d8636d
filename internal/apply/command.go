package apply

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner runs a command to completion, feeding stdin when non-nil.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) error
}

// ExecRunner runs commands with os/exec. Arguments are passed as argv; no
// shell is involved.
type ExecRunner struct{}

// Run executes the command and folds stderr into the returned error.
func (ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// elevated prefixes argv with the privilege command (e.g. pkexec) when set.
func elevated(elevate, name string, args ...string) (string, []string) {
	if elevate == "" {
		return name, args
	}
	return elevate, append([]string{name}, args...)
}
