package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Loader reads the config file, applies env overrides and keeps the most
// recently loaded Config.
type Loader struct {
	path     string
	explicit bool
	viper    *viper.Viper
	current  atomic.Pointer[Config]
}

// NewLoader creates a loader for path. An empty path selects the default
// location, which may be absent; an explicit path must exist.
func NewLoader(path string) *Loader {
	return &Loader{
		path:     path,
		explicit: path != "",
		viper:    newViper(),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	bindEnvKeys(v)
	return v
}

// setDefaults registers every leaf of DefaultConfig with v.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("docker.host", d.Docker.Host)
	v.SetDefault("timeouts.probe", d.Timeouts.Probe)
	v.SetDefault("timeouts.operation", d.Timeouts.Operation)
	v.SetDefault("timeouts.logs", d.Timeouts.Logs)
	v.SetDefault("project.env_hints", d.Project.EnvHints)
	v.SetDefault("project.markers", d.Project.Markers)
	v.SetDefault("compose.command", d.Compose.Command)
	v.SetDefault("backup.image", d.Backup.Image)
}

// bindEnvKeys binds every leaf mapstructure path of Config to its
// DOCKMCP_* variable, e.g. timeouts.probe to DOCKMCP_TIMEOUTS_PROBE.
func bindEnvKeys(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_")
	for _, key := range collectLeafPaths(reflect.TypeOf(Config{}), "") {
		envVar := EnvPrefix + "_" + strings.ToUpper(replacer.Replace(key))
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("config: BindEnv(%q, %q) failed: %v", key, envVar, err))
		}
	}
}

func collectLeafPaths(t reflect.Type, prefix string) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var paths []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		path := tag
		if prefix != "" {
			path = prefix + "." + tag
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft.String() != "time.Time" {
			paths = append(paths, collectLeafPaths(ft, path)...)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// ConfigPath returns the file the loader reads, resolving the default
// location when no explicit path was given.
func (l *Loader) ConfigPath() (string, error) {
	if l.path != "" {
		return l.path, nil
	}
	return ConfigFilePath()
}

// Load reads the config file (if any) and returns the validated Config.
func (l *Loader) Load() (*Config, error) {
	path, err := l.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		l.viper.SetConfigFile(path)
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		if l.explicit {
			return nil, &ConfigNotFoundError{Path: path}
		}
	default:
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg, err := decode(l.viper)
	if err != nil {
		return nil, err
	}
	l.current.Store(cfg)
	return cfg, nil
}

// Current returns the most recently loaded Config, or nil before Load.
func (l *Loader) Current() *Config {
	return l.current.Load()
}

// Watch reloads the config file whenever it changes. Successful reloads
// replace Current; onChange, if non-nil, observes every reload attempt.
func (l *Loader) Watch(onChange func(fsnotify.Event, *Config, error)) error {
	if l.viper.ConfigFileUsed() == "" {
		return fmt.Errorf("watch config requires a loaded config file")
	}
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(l.viper)
		if err == nil {
			l.current.Store(cfg)
		}
		if onChange != nil {
			onChange(e, cfg, err)
		}
	})
	l.viper.WatchConfig()
	return nil
}

// ReadFromString parses YAML content on top of the defaults. Env overrides
// still apply.
func ReadFromString(content string) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigNotFoundError is returned when an explicitly requested config file
// doesn't exist.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

// IsConfigNotFound returns true if the error is a ConfigNotFoundError
func IsConfigNotFound(err error) bool {
	var cnf *ConfigNotFoundError
	return errors.As(err, &cnf)
}
