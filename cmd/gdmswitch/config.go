package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/gdmswitch/internal/config"
)

var configOpts struct {
	init  bool
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the gdmswitch configuration",
	Long: `Print the effective configuration as TOML.

Examples:
  # Show the configuration in use
  gdmswitch config

  # Write the defaults to ~/.config/gdmswitch/config.toml
  gdmswitch config --init`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.init, "init", false,
		"Write the default configuration to the config path")
	configCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing config file with --init")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configOpts.init {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	}

	path := globalOpts.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	if err := initConfig(path, configOpts.force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// initConfig saves the default configuration to path, refusing to replace an
// existing file unless force is set.
func initConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return config.DefaultConfig().Save(path)
}
