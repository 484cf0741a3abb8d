package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/fsutil"
	"github.com/vk/paramgraph/internal/loop"
)

const (
	loopQueueSize  = 256
	reloadDebounce = 200 * time.Millisecond
	stopTimeout    = 5 * time.Second
)

// watch keeps the scene alive until ctx is cancelled. Node hooks run, manifest
// edits are pushed into the graph and evaluated paths are reprinted after
// every change.
func (a *App) watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	a.loop = loop.New(loopQueueSize)
	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	defer stopLoop()
	go func() { _ = a.loop.Run(loopCtx) }()

	post := func(fn func()) {
		if !a.loop.Post(fn) {
			logger.Debug("Dropped work posted after shutdown.")
		}
	}

	reprint := make(chan struct{}, 1)
	err := a.loop.Do(ctx, func() error {
		a.cancelNotify = a.scene.Graph().Subscribe(func(c *cell.Cell) {
			logger.Info("Parameter changed.", "path", c.Path(), "value", FormatValue(c.Peek()))
			select {
			case reprint <- struct{}{}:
			default:
			}
		})
		if err := a.printValues(a.outW); err != nil {
			logger.Warn("Evaluation failed.", "error", err)
		}
		return a.scene.Start(ctx, post)
	})
	if err != nil {
		// Start already stopped the nodes it had started.
		_ = a.loop.Do(context.WithoutCancel(ctx), func() error {
			if a.cancelNotify != nil {
				a.cancelNotify()
			}
			return nil
		})
		return fmt.Errorf("failed to start scene: %w", err)
	}

	watcher, err := a.watchManifests(ctx)
	if err != nil {
		return errors.Join(err, a.shutdown(ctx))
	}
	defer watcher.Close()

	a.healthCheckServer(ctx)
	defer a.closeHealthCheckServer(ctx)

	reload := make(chan struct{}, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	logger.Info("👀 Watching for changes.", "paths", a.config.ManifestPaths)
	for {
		select {
		case <-ctx.Done():
			return a.shutdown(ctx)

		case <-reprint:
			err := a.loop.Do(ctx, func() error { return a.printValues(a.outW) })
			if err != nil && ctx.Err() == nil {
				logger.Warn("Evaluation failed.", "error", err)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return a.shutdown(ctx)
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Ext(event.Name) != ".hcl" {
				continue
			}
			logger.Debug("Manifest changed.", "file", event.Name, "operation", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			a.reload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return a.shutdown(ctx)
			}
			logger.Error("File watcher error.", "error", err)
		}
	}
}

// watchManifests watches every manifest path. Directories are watched as a
// whole so editors that replace files are still seen.
func (a *App) watchManifests(ctx context.Context) (*fsnotify.Watcher, error) {
	logger := ctxlog.FromContext(ctx)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, path := range a.config.ManifestPaths {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("Manifest path not watched.", "path", path, "error", err)
			continue
		}
		if !info.IsDir() {
			path = filepath.Dir(path)
		}
		dirs, err := fsutil.Dirs(path)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
		for _, dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				logger.Warn("Failed to watch directory.", "path", dir, "error", err)
				continue
			}
			logger.Debug("Watching directory.", "path", dir)
		}
	}
	return watcher, nil
}

// shutdown runs the stop hooks of every node on the loop.
func (a *App) shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Stopping scene...")

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	err := a.loop.Do(stopCtx, func() error {
		if a.cancelNotify != nil {
			a.cancelNotify()
		}
		return a.scene.Stop()
	})
	if err != nil {
		logger.Error("Scene stop failed.", "error", err)
		return err
	}
	logger.Info("🏁 Scene stopped.")
	return nil
}
