// Package config loads dockmcp settings from config.yaml, DOCKMCP_* env vars
// and built-in defaults, in increasing order of precedence: defaults, file, env.
package config

import (
	"slices"
	"time"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/project"
)

// Config is the full dockmcp configuration.
type Config struct {
	Docker   DockerConfig   `yaml:"docker" mapstructure:"docker"`
	Timeouts TimeoutsConfig `yaml:"timeouts" mapstructure:"timeouts"`
	Project  ProjectConfig  `yaml:"project" mapstructure:"project"`
	Compose  ComposeConfig  `yaml:"compose" mapstructure:"compose"`
	Backup   BackupConfig   `yaml:"backup" mapstructure:"backup"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DockerConfig selects the Docker daemon.
type DockerConfig struct {
	// Host overrides DOCKER_HOST when set, e.g. unix:///var/run/docker.sock
	Host string `yaml:"host,omitempty" mapstructure:"host"`
}

// TimeoutsConfig bounds calls to the daemon and the compose CLI.
type TimeoutsConfig struct {
	// Probe bounds the daemon ping and compose CLI detection (default: 5s)
	Probe time.Duration `yaml:"probe" mapstructure:"probe"`
	// Operation bounds ordinary runtime and compose operations (default: 120s)
	Operation time.Duration `yaml:"operation" mapstructure:"operation"`
	// Logs bounds non-follow compose log retrieval (default: 60s)
	Logs time.Duration `yaml:"logs" mapstructure:"logs"`
}

// ProjectConfig configures the project directory locator.
type ProjectConfig struct {
	EnvHints []string `yaml:"env_hints" mapstructure:"env_hints"`
	Markers  []string `yaml:"markers" mapstructure:"markers"`
}

// ComposeConfig configures the compose CLI.
type ComposeConfig struct {
	// Command replaces auto-detection, e.g. "docker compose" or "podman-compose"
	Command string `yaml:"command,omitempty" mapstructure:"command"`
}

// BackupConfig configures volume backups.
type BackupConfig struct {
	// Image runs the tar helper container (default: alpine)
	Image string `yaml:"image" mapstructure:"image"`
}

// LoggingConfig configures file-based logging.
// File logging is enabled by default.
type LoggingConfig struct {
	FileEnabled *bool `yaml:"file_enabled,omitempty" mapstructure:"file_enabled"`
	MaxSizeMB   int   `yaml:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
	MaxAgeDays  int   `yaml:"max_age_days,omitempty" mapstructure:"max_age_days"`
	MaxBackups  int   `yaml:"max_backups,omitempty" mapstructure:"max_backups"`
}

// ToLogger converts to the logger package's mirror type.
func (c LoggingConfig) ToLogger() *logger.LoggingConfig {
	return &logger.LoggingConfig{
		FileEnabled: c.FileEnabled,
		MaxSizeMB:   c.MaxSizeMB,
		MaxAgeDays:  c.MaxAgeDays,
		MaxBackups:  c.MaxBackups,
	}
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeouts: TimeoutsConfig{
			Probe:     5 * time.Second,
			Operation: 120 * time.Second,
			Logs:      60 * time.Second,
		},
		Project: ProjectConfig{
			EnvHints: slices.Clone(project.DefaultEnvHints),
			Markers:  slices.Clone(project.DefaultMarkers),
		},
		Backup: BackupConfig{
			Image: "alpine",
		},
	}
}
