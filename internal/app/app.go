// Package app provides the application context for sketch-ctl.
// It allows dependency injection for testing.
package app

import (
	"github.com/firefly-engineering/firefly-sketch/internal/audit"
	"github.com/firefly-engineering/firefly-sketch/internal/config"
	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/sketch"
)

// App holds the application dependencies
type App struct {
	// Config is the resolved configuration
	Config *config.Config

	// Audit records lifecycle events
	Audit *audit.Logger

	// Manager drives sketch lifecycles
	Manager *sketch.Manager

	managerOpts []sketch.Option
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets a custom configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithAudit sets a custom audit logger
func WithAudit(l *audit.Logger) Option {
	return func(a *App) {
		a.Audit = l
	}
}

// WithManager sets a prebuilt manager
func WithManager(m *sketch.Manager) Option {
	return func(a *App) {
		a.Manager = m
	}
}

// WithManagerOptions passes options through to sketch.New
func WithManagerOptions(opts ...sketch.Option) Option {
	return func(a *App) {
		a.managerOpts = append(a.managerOpts, opts...)
	}
}

// New creates a new App with the given options.
// Configuration is loaded from the working directory and environment
// unless provided via WithConfig.
func New(opts ...Option) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		app.Config = cfg
	}

	if app.Audit == nil {
		app.Audit = audit.NewLogger(app.Config.Paths.EventsDir)
	}

	if app.Manager == nil {
		opts := append([]sketch.Option{sketch.WithAudit(app.Audit)}, app.managerOpts...)
		m, err := sketch.New(app.Config, opts...)
		if err != nil {
			return nil, err
		}
		app.Manager = m
	}

	logging.Debug("app initialized", "base", app.Config.Paths.BaseDir, "surface", app.Manager.Surface())
	return app, nil
}

// Default is the application instance used by commands.
// It is built on first use by Current.
var Default *App

// Current returns Default, creating it on first use.
func Current() (*App, error) {
	if Default != nil {
		return Default, nil
	}
	app, err := New()
	if err != nil {
		return nil, err
	}
	Default = app
	return Default, nil
}

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault drops the default instance so the next Current rebuilds it
func ResetDefault() {
	Default = nil
}
