package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go-yob/internal/config"
	"go-yob/internal/logging"
)

type Options struct {
	ConfigPath string
	EnvFile    string
	// LogLevel overrides the configured level when set.
	LogLevel string
}

type Bootstrap struct {
	Config        *config.Config
	Components    *Components
	options       Options
	usingDefaults bool
	initialized   bool
	started       bool
	cancel        context.CancelFunc
}

func New(opts Options) *Bootstrap {
	return &Bootstrap{options: opts}
}

func (b *Bootstrap) Initialize() error {
	if err := b.loadConfig(); err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	if err := b.initializeLogging(); err != nil {
		return fmt.Errorf("logging init failed: %w", err)
	}

	if b.usingDefaults {
		logging.Info("No config file at %s, using defaults", b.options.ConfigPath)
	}

	if err := b.wireComponents(); err != nil {
		return fmt.Errorf("component wiring failed: %w", err)
	}

	b.initialized = true
	logging.Info("Bootstrap complete")
	return nil
}

func (b *Bootstrap) loadConfig() error {
	if err := config.LoadEnvFile(b.options.EnvFile); err != nil {
		return err
	}

	// The config file is optional; the environment can carry everything.
	cfg, err := config.LoadOrDefault(b.options.ConfigPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	b.usingDefaults = err != nil

	if b.options.LogLevel != "" {
		cfg.Logging.Level = b.options.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	b.Config = cfg
	return nil
}

func (b *Bootstrap) initializeLogging() error {
	lc := b.Config.Logging

	if lc.File != "" && lc.MaxSizeMB > 0 {
		rotation := logging.NewLogRotation(int64(lc.MaxSizeMB)*1024*1024, 0)
		if _, err := rotation.RotateIfNeeded(lc.File); err != nil {
			return err
		}
	}

	return logging.InitGlobalLogger(logging.ParseLevel(lc.Level), lc.File, lc.Format)
}

func (b *Bootstrap) wireComponents() error {
	return Wire(b)
}

// Start connects to Discord and starts the event consumer. ctx bounds the
// lifetime of background work.
func (b *Bootstrap) Start(ctx context.Context) error {
	if !b.initialized {
		return fmt.Errorf("bootstrap not initialized")
	}

	ctx, b.cancel = context.WithCancel(ctx)
	b.started = true
	return StartAll(ctx, b.Components)
}

func (b *Bootstrap) Shutdown() error {
	if b.Components == nil {
		return nil
	}
	if !b.started {
		return b.Components.Session.Close()
	}
	if b.cancel != nil {
		defer b.cancel()
	}
	return Shutdown(b.Components, b.Config.Runtime.ShutdownTimeout)
}
