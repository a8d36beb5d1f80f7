package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5*time.Second, cfg.Timeouts.Probe)
	assert.Equal(t, 120*time.Second, cfg.Timeouts.Operation)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Logs)
	assert.Equal(t, []string{"MCP_PROJECT_DIR", "WORKSPACE_ROOT", "CURSOR_WORKSPACE_ROOT"}, cfg.Project.EnvHints)
	assert.Len(t, cfg.Project.Markers, 4)
	assert.Equal(t, "alpine", cfg.Backup.Image)
	require.NoError(t, cfg.Validate())

	cfg.Project.Markers[0] = "changed"
	assert.Equal(t, "docker-compose.yml", DefaultConfig().Project.Markers[0], "defaults are not shared")
}

func TestLoader_DefaultPathMissing(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Timeouts, cfg.Timeouts)
}

func TestLoader_ExplicitPathMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := NewLoader(path).Load()
	require.Error(t, err)
	assert.True(t, IsConfigNotFound(err))
	assert.EqualError(t, err, "configuration file not found: "+path)
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
docker:
  host: tcp://127.0.0.1:2375
timeouts:
  probe: 2s
  operation: 3m
project:
  env_hints: [MY_ROOT]
compose:
  command: docker compose
logging:
  file_enabled: false
  max_backups: 9
`)

	loader := NewLoader(path)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "tcp://127.0.0.1:2375", cfg.Docker.Host)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Probe)
	assert.Equal(t, 3*time.Minute, cfg.Timeouts.Operation)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Logs, "unset keys keep defaults")
	assert.Equal(t, []string{"MY_ROOT"}, cfg.Project.EnvHints)
	assert.Equal(t, DefaultConfig().Project.Markers, cfg.Project.Markers)
	assert.Equal(t, "docker compose", cfg.Compose.Command)
	require.NotNil(t, cfg.Logging.FileEnabled)
	assert.False(t, *cfg.Logging.FileEnabled)
	assert.Equal(t, 9, cfg.Logging.MaxBackups)
	assert.Same(t, cfg, loader.Current())
}

func TestLoader_DefaultDirFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)
	writeConfig(t, dir, "backup:\n  image: busybox:1.36\n")

	loader := NewLoader("")
	got, err := loader.ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), got)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "busybox:1.36", cfg.Backup.Image)
}

func TestLoader_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "timeouts:\n  probe: 2s\n")

	t.Setenv("DOCKMCP_TIMEOUTS_PROBE", "7s")
	t.Setenv("DOCKMCP_PROJECT_MARKERS", "stack.yml,compose.yml")
	t.Setenv("DOCKMCP_DOCKER_HOST", "unix:///tmp/docker.sock")
	t.Setenv("DOCKMCP_LOGGING_FILE_ENABLED", "false")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Timeouts.Probe, "env beats file")
	assert.Equal(t, []string{"stack.yml", "compose.yml"}, cfg.Project.Markers)
	assert.Equal(t, "unix:///tmp/docker.sock", cfg.Docker.Host)
	require.NotNil(t, cfg.Logging.FileEnabled)
	assert.False(t, *cfg.Logging.FileEnabled)
}

func TestLoader_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "timeouts: [",
			wantErr: "failed to read config file",
		},
		{
			name:    "bad duration",
			content: "timeouts:\n  probe: soon\n",
			wantErr: "failed to parse config",
		},
		{
			name:    "zero timeout",
			content: "timeouts:\n  operation: 0s\n",
			wantErr: "timeouts.operation must be positive",
		},
		{
			name:    "marker with path",
			content: "project:\n  markers: [deploy/compose.yml]\n",
			wantErr: `project.markers entry "deploy/compose.yml" must be a plain file name`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := NewLoader(path).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadFromString(t *testing.T) {
	cfg, err := ReadFromString("compose:\n  command: podman-compose\n")
	require.NoError(t, err)
	assert.Equal(t, "podman-compose", cfg.Compose.Command)
	assert.Equal(t, "alpine", cfg.Backup.Image)
}

func TestWatch_RequiresFile(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())
	loader := NewLoader("")
	_, err := loader.Load()
	require.NoError(t, err)

	assert.Error(t, loader.Watch(nil))
}

func TestConfigDir(t *testing.T) {
	t.Run("explicit env", func(t *testing.T) {
		t.Setenv(ConfigDirEnv, "/opt/dockmcp")
		dir, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/opt/dockmcp", dir)

		logs, err := LogsDir()
		require.NoError(t, err)
		assert.Equal(t, "/opt/dockmcp/logs", logs)

		locks, err := LocksDir()
		require.NoError(t, err)
		assert.Equal(t, "/opt/dockmcp/locks", locks)
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv(ConfigDirEnv, "")
		t.Setenv("XDG_CONFIG_HOME", "/home/dev/.cfg")
		dir, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/home/dev/.cfg/dockmcp", dir)
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv(ConfigDirEnv, "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/dev")
		dir, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/home/dev/.config/dockmcp", dir)
	})
}

func TestLoggingConfig_ToLogger(t *testing.T) {
	off := false
	lc := LoggingConfig{FileEnabled: &off, MaxSizeMB: 10}.ToLogger()
	assert.False(t, lc.IsFileEnabled())
	assert.Equal(t, 10, lc.GetMaxSizeMB())
	assert.Equal(t, 7, lc.GetMaxAgeDays())
}
