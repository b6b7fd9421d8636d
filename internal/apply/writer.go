package apply

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to the config path for the pre-write copy.
const BackupSuffix = ".gdmswitch.bak"

// HelperCommand is the hidden subcommand that performs the root-side write.
const HelperCommand = "write-config"

// PrivilegedWriter hands content to a helper process running as root. The
// helper is invoked as `<elevate> <helper> write-config --path <path>` and
// reads the new content from standard input.
type PrivilegedWriter struct {
	Elevate string // privilege command, e.g. "pkexec"; empty runs the helper directly
	Helper  string // absolute path of the gdmswitch binary
	Runner  CommandRunner
}

// NewPrivilegedWriter creates a PrivilegedWriter. An empty helper resolves to
// the running executable.
func NewPrivilegedWriter(elevate, helper string) (*PrivilegedWriter, error) {
	if helper == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve helper executable: %w", err)
		}
		helper = exe
	}
	return &PrivilegedWriter{Elevate: elevate, Helper: helper, Runner: ExecRunner{}}, nil
}

// Write runs the helper with content on stdin.
func (w *PrivilegedWriter) Write(ctx context.Context, path string, content []byte) error {
	name, args := elevated(w.Elevate, w.Helper, HelperCommand, "--path", path)
	if content == nil {
		content = []byte{}
	}
	return w.Runner.Run(ctx, content, name, args...)
}

// FileWriter writes atomically to the local filesystem. It is what the
// privileged helper uses, and can be used directly when already running as root.
type FileWriter struct {
	Backup bool
}

// Write replaces path with content via a temp file and rename in the same
// directory. The previous file is kept at path+BackupSuffix when Backup is
// set. The original is untouched unless the final rename succeeds.
func (w FileWriter) Write(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := fs.FileMode(0644)
	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode().Perm()
		}
	case os.IsNotExist(err):
		previous = nil
	default:
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if w.Backup && previous != nil {
		if err := os.WriteFile(path+BackupSuffix, previous, mode); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true
	return nil
}
