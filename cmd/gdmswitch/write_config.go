package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/gdmswitch/internal/apply"
	"github.com/jmylchreest/gdmswitch/internal/gdmconf"
)

// maxConfigSize bounds what the helper reads from stdin.
const maxConfigSize = 1 << 20

// helperDirs and helperFiles limit where the root-side helper may write.
var (
	helperDirs  = []string{"/etc/gdm", "/etc/gdm3"}
	helperFiles = []string{"custom.conf", "daemon.conf"}
)

var writeConfigOpts struct {
	path string
}

var writeConfigCmd = &cobra.Command{
	Use:    apply.HelperCommand,
	Short:  "Write a GDM config from stdin (privileged helper)",
	Hidden: true,
	Args:   usageArgs(cobra.NoArgs),
	// Runs as root under pkexec; the user's config file is not read.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.Context(), writeConfigOpts.path, cmd.InOrStdin(), apply.FileWriter{Backup: true})
	},
}

func init() {
	rootCmd.AddCommand(writeConfigCmd)

	writeConfigCmd.Flags().StringVar(&writeConfigOpts.path, "path", "", "GDM config path to replace")
	_ = writeConfigCmd.MarkFlagRequired("path")
}

// writeConfig validates the target path and the content read from r, then
// hands it to w.
func writeConfig(ctx context.Context, path string, r io.Reader, w apply.Writer) error {
	if err := checkHelperPath(path); err != nil {
		return err
	}

	content, err := io.ReadAll(io.LimitReader(r, maxConfigSize+1))
	if err != nil {
		return fmt.Errorf("failed to read config from stdin: %w", err)
	}
	if len(content) > maxConfigSize {
		return fmt.Errorf("config exceeds %d bytes", maxConfigSize)
	}

	doc := gdmconf.Parse(string(content))
	if active, commented := gdmconf.DirectiveCount(doc); active+commented != 1 {
		return fmt.Errorf("refusing to write config with %d WaylandEnable directives", active+commented)
	}

	logger.Debug("writing GDM config", "path", path, "bytes", len(content))
	return w.Write(ctx, path, content)
}

func checkHelperPath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path %q is not absolute", path)
	}
	clean := filepath.Clean(path)
	if !slices.Contains(helperDirs, filepath.Dir(clean)) || !slices.Contains(helperFiles, filepath.Base(clean)) {
		return fmt.Errorf("path %q is not a GDM config file", path)
	}
	return nil
}
