// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultGDMConfigPath = "/etc/gdm/custom.conf"
	DefaultUnit          = "gdm.service"
	DefaultProbeBackend  = "loginctl"
	DefaultElevate       = "pkexec"
	DefaultRestartMethod = "systemctl"
	DefaultProbeTimeout  = 5 * time.Second
	DefaultApplyTimeout  = 2 * time.Minute
	DefaultStatusFormat  = "waybar"
	DefaultHistoryLimit  = 20
	DefaultNotifyAppName = "gdmswitch"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports "5s", "1m30s", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the gdmswitch configuration.
// Loaded from ~/.config/gdmswitch/config.toml
type Config struct {
	GDM     GDMConfig     `toml:"gdm"`
	Probe   ProbeConfig   `toml:"probe"`
	Apply   ApplyConfig   `toml:"apply"`
	Notify  NotifyConfig  `toml:"notify"`
	Journal JournalConfig `toml:"journal"`
	Status  StatusConfig  `toml:"status"`
}

// GDMConfig locates the display manager.
type GDMConfig struct {
	ConfigPath string `toml:"config_path"` // GDM custom.conf
	Unit       string `toml:"unit"`        // systemd unit restarted after a write
}

// ProbeConfig selects how the session type is detected.
type ProbeConfig struct {
	Backend string   `toml:"backend"` // loginctl, logind, env
	Timeout Duration `toml:"timeout"` // per query
}

// ApplyConfig controls the privileged write and restart.
type ApplyConfig struct {
	Elevate       string   `toml:"elevate"`        // privilege command; empty when already root
	Helper        string   `toml:"helper"`         // gdmswitch binary run as root; empty = self
	RestartMethod string   `toml:"restart_method"` // systemctl, dbus
	Timeout       Duration `toml:"timeout"`        // per step, includes the polkit prompt
}

// NotifyConfig controls desktop notifications.
type NotifyConfig struct {
	Enabled bool   `toml:"enabled"`
	AppName string `toml:"app_name"`
}

// JournalConfig controls the toggle journal.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty = $XDG_DATA_HOME/gdmswitch/journal.jsonl
}

// StatusConfig holds status output defaults.
type StatusConfig struct {
	Format string `toml:"format"` // waybar, plain, json, yaml
}

// ValidProbeBackends returns the accepted probe.backend values.
func ValidProbeBackends() []string {
	return []string{"loginctl", "logind", "env"}
}

// ValidRestartMethods returns the accepted apply.restart_method values.
func ValidRestartMethods() []string {
	return []string{"systemctl", "dbus"}
}

// ValidStatusFormats returns the accepted status.format values.
func ValidStatusFormats() []string {
	return []string{"waybar", "plain", "json", "yaml"}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		GDM: GDMConfig{
			ConfigPath: DefaultGDMConfigPath,
			Unit:       DefaultUnit,
		},
		Probe: ProbeConfig{
			Backend: DefaultProbeBackend,
			Timeout: Duration(DefaultProbeTimeout),
		},
		Apply: ApplyConfig{
			Elevate:       DefaultElevate,
			Helper:        "",
			RestartMethod: DefaultRestartMethod,
			Timeout:       Duration(DefaultApplyTimeout),
		},
		Notify: NotifyConfig{
			Enabled: true,
			AppName: DefaultNotifyAppName,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "",
		},
		Status: StatusConfig{
			Format: DefaultStatusFormat,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "gdmswitch", "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gdmswitch")
}

// JournalPath returns the configured journal path or the XDG default.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return expandPath(c.Journal.Path)
	}
	return filepath.Join(DataPath(), "journal.jsonl")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks enumerated fields and durations.
func (c *Config) Validate() error {
	if c.GDM.ConfigPath == "" {
		return errors.New("gdm.config_path must not be empty")
	}
	if !slices.Contains(ValidProbeBackends(), c.Probe.Backend) {
		return fmt.Errorf("probe.backend %q must be one of %v", c.Probe.Backend, ValidProbeBackends())
	}
	if !slices.Contains(ValidRestartMethods(), c.Apply.RestartMethod) {
		return fmt.Errorf("apply.restart_method %q must be one of %v", c.Apply.RestartMethod, ValidRestartMethods())
	}
	if !slices.Contains(ValidStatusFormats(), c.Status.Format) {
		return fmt.Errorf("status.format %q must be one of %v", c.Status.Format, ValidStatusFormats())
	}
	if c.Probe.Timeout < 0 || c.Apply.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
