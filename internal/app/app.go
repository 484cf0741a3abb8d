package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/paramgraph/internal/config"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/loop"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/vk/paramgraph/internal/scene"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *registry.Registry

	// Set by Run.
	scene *scene.Scene
	// Watch mode only. Every access to scene goes through loop.
	loop         *loop.Loop
	cancelNotify func()
	httpServer   *http.Server
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// It panics when the compiled-in node types fail validation, since that is a
// programming error rather than a user one.
func New(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.Load(ctx, modules...)

	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Scene returns the scene built by Run, or nil before that. In watch mode it
// must only be touched from the loop.
func (a *App) Scene() *scene.Scene {
	return a.scene
}
