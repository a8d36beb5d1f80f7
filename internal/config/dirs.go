package config

import (
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the configuration file name inside the config dir.
	ConfigFileName = "config.yaml"
	// ConfigDirEnv overrides the config directory.
	ConfigDirEnv = "DOCKMCP_CONFIG_DIR"
	// EnvPrefix prefixes every environment override, e.g. DOCKMCP_TIMEOUTS_PROBE.
	EnvPrefix = "DOCKMCP"

	logsSubdir  = "logs"
	locksSubdir = "locks"
)

// ConfigDir returns the dockmcp config directory.
// It checks DOCKMCP_CONFIG_DIR, then $XDG_CONFIG_HOME/dockmcp, then
// ~/.config/dockmcp.
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dockmcp"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dockmcp"), nil
}

// ConfigFilePath returns the default config file path.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// LogsDir returns the directory for rotated log files.
func LogsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logsSubdir), nil
}

// LocksDir returns the directory for per-project compose lock files.
func LocksDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, locksSubdir), nil
}
