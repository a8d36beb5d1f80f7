package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit(t *testing.T) {
	Init(false)
	if Log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Init(false) level = %v, want info", Log.GetLevel())
	}

	Init(true)
	if Log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Init(true) level = %v, want debug", Log.GetLevel())
	}
}

func TestInitWithWriter_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(false, &buf)
	t.Cleanup(func() { Log = zerolog.Nop() })

	Info().Msg("daemon reachable")
	Debug().Msg("hidden at info level")

	out := buf.String()
	if !strings.Contains(out, "daemon reachable") {
		t.Errorf("output should contain info message, got %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Errorf("debug message should be filtered at info level, got %q", out)
	}
}

func TestSetContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(true, &buf)
	t.Cleanup(func() {
		ClearContext()
		Log = zerolog.Nop()
	})

	SetContext("container_list", "/srv/app")
	Info().Msg("calling tool")
	out := buf.String()
	if !strings.Contains(out, "container_list") || !strings.Contains(out, "/srv/app") {
		t.Errorf("output should carry tool and project context, got %q", out)
	}

	buf.Reset()
	ClearContext()
	Info().Msg("no context")
	if strings.Contains(buf.String(), "container_list") {
		t.Errorf("context should be cleared, got %q", buf.String())
	}
}

func TestInitWithFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &LoggingConfig{MaxSizeMB: 1}
	if err := InitWithFile(true, tmpDir, cfg); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	t.Cleanup(func() { CloseFileWriter() })

	want := filepath.Join(tmpDir, LogFileName)
	if got := GetLogFilePath(); got != want {
		t.Errorf("GetLogFilePath() = %q, want %q", got, want)
	}

	Info().Str("kind", "volume").Msg("written to file")

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"volume"`) {
		t.Errorf("log file should contain JSON fields, got %q", string(data))
	}
}

func TestInitWithFile_Disabled(t *testing.T) {
	tmpDir := t.TempDir()
	disabled := false
	if err := InitWithFile(false, tmpDir, &LoggingConfig{FileEnabled: &disabled}); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}

	if GetLogFilePath() != "" {
		t.Errorf("GetLogFilePath() should be empty when file logging is disabled")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, LogFileName)); !os.IsNotExist(err) {
		t.Errorf("log file should not be created, stat err = %v", err)
	}
}

func TestInitWithFile_EmptyDir(t *testing.T) {
	if err := InitWithFile(false, "", &LoggingConfig{}); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	if GetLogFilePath() != "" {
		t.Error("GetLogFilePath() should be empty without a logs dir")
	}
}

func TestCloseFileWriter_Idempotent(t *testing.T) {
	if err := InitWithFile(false, t.TempDir(), &LoggingConfig{}); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	if err := CloseFileWriter(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := CloseFileWriter(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestLoggingConfigDefaults(t *testing.T) {
	cfg := &LoggingConfig{}
	if !cfg.IsFileEnabled() {
		t.Error("IsFileEnabled should default to true when nil")
	}
	if cfg.GetMaxSizeMB() != 50 {
		t.Errorf("GetMaxSizeMB should default to 50, got %d", cfg.GetMaxSizeMB())
	}
	if cfg.GetMaxAgeDays() != 7 {
		t.Errorf("GetMaxAgeDays should default to 7, got %d", cfg.GetMaxAgeDays())
	}
	if cfg.GetMaxBackups() != 3 {
		t.Errorf("GetMaxBackups should default to 3, got %d", cfg.GetMaxBackups())
	}

	falseVal := false
	cfg.FileEnabled = &falseVal
	if cfg.IsFileEnabled() {
		t.Error("IsFileEnabled should return false when explicitly set")
	}

	cfg = &LoggingConfig{MaxSizeMB: 20, MaxAgeDays: 14, MaxBackups: 5}
	if cfg.GetMaxSizeMB() != 20 || cfg.GetMaxAgeDays() != 14 || cfg.GetMaxBackups() != 5 {
		t.Errorf("custom values not returned: %+v", cfg)
	}
}
