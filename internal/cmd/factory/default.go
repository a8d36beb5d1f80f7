package factory

import (
	"context"
	"slices"
	"sync"

	"github.com/muesli/termenv"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/compose"
	"github.com/schmitthub/dockmcp/internal/config"
	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/iostreams"
	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/project"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// New creates a fully-wired Factory with lazy-initialized dependency closures.
// Called exactly once at the CLI entry point (internal/dockmcp/cmd.go).
// Tests should NOT import this package; construct &cmdutil.Factory{} directly.
func New(version, commit string) *cmdutil.Factory {
	ios := iostreams.NewIOStreams()
	ios.Logger = &logger.Log

	if !ios.IsOutputTTY() || termenv.EnvNoColor() {
		ios.SetColorEnabled(false)
	}

	f := &cmdutil.Factory{
		Version:   version,
		Commit:    commit,
		IOStreams: ios,
	}

	// --- Lazy dependency closures ---

	// Config. ConfigPath is read on first use, after flags are parsed.
	var (
		loaderOnce   sync.Once
		configLoader *config.Loader
		configOnce   sync.Once
		configData   *config.Config
		configErr    error
	)
	f.ConfigLoader = func() *config.Loader {
		loaderOnce.Do(func() {
			configLoader = config.NewLoader(f.ConfigPath)
		})
		return configLoader
	}
	f.Config = func() (*config.Config, error) {
		configOnce.Do(func() {
			configData, configErr = f.ConfigLoader().Load()
		})
		if configErr != nil {
			return nil, configErr
		}
		// A watched loader may have swapped in a newer config.
		if cur := f.ConfigLoader().Current(); cur != nil {
			return cur, nil
		}
		return configData, nil
	}

	// Docker: one scoped handle per call, built from the current config.
	f.Docker = func(ctx context.Context) (*docker.Client, error) {
		cfg, err := f.Config()
		if err != nil {
			return nil, err
		}
		return docker.NewClient(ctx, docker.Options{
			Host:         cfg.Docker.Host,
			ProbeTimeout: cfg.Timeouts.Probe,
			BackupImage:  cfg.Backup.Image,
		})
	}

	// Project locator
	var (
		locatorOnce sync.Once
		locator     *project.Locator
		locatorErr  error
	)
	f.Locator = func() (*project.Locator, error) {
		locatorOnce.Do(func() {
			cfg, err := f.Config()
			if err != nil {
				locatorErr = err
				return
			}
			locator = project.NewLocator()
			locator.EnvHints = slices.Clone(cfg.Project.EnvHints)
			locator.Markers = slices.Clone(cfg.Project.Markers)
		})
		return locator, locatorErr
	}

	// Compose runner
	var (
		composeOnce sync.Once
		runner      *compose.Runner
		runnerErr   error
	)
	f.Compose = func() (*compose.Runner, error) {
		composeOnce.Do(func() {
			cfg, err := f.Config()
			if err != nil {
				runnerErr = err
				return
			}
			loc, err := f.Locator()
			if err != nil {
				runnerErr = err
				return
			}
			runner = compose.NewRunner(loc, compose.Options{
				Command:      cfg.Compose.Command,
				ProbeTimeout: cfg.Timeouts.Probe,
				Timeout:      cfg.Timeouts.Operation,
				LogsTimeout:  cfg.Timeouts.Logs,
				Stream:       ios.ErrOut,
				LockDir:      locksDir,
			})
		})
		return runner, runnerErr
	}

	// Tool registry
	var (
		toolsOnce sync.Once
		registry  *tools.Registry
		toolsErr  error
	)
	f.Tools = func() (*tools.Registry, error) {
		toolsOnce.Do(func() {
			cfg, err := f.Config()
			if err != nil {
				toolsErr = err
				return
			}
			loc, err := f.Locator()
			if err != nil {
				toolsErr = err
				return
			}
			run, err := f.Compose()
			if err != nil {
				toolsErr = err
				return
			}
			registry = tools.NewDefaultRegistry(&tools.Deps{
				OpenDocker: f.Docker,
				Compose:    run,
				Locator:    loc,
				Timeout:    cfg.Timeouts.Operation,
			})
		})
		return registry, toolsErr
	}

	return f
}
