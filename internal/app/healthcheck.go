package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Handler returns the routes of the health check server. /values is only
// served in watch mode, where the loop owns the scene.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/values", a.valuesHandler)
	return mux
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// valuesHandler writes a JSON object of every parameter path and its value.
// Parameters whose evaluation fails report their last good value.
func (a *App) valuesHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Values endpoint hit.", "remote_addr", r.RemoteAddr)
	if a.loop == nil {
		http.Error(w, "values are only served in watch mode", http.StatusServiceUnavailable)
		return
	}

	snapshot := make(map[string]json.RawMessage)
	err := a.loop.Do(r.Context(), func() error {
		for _, c := range a.scene.Cells() {
			v, err := c.Value()
			if err != nil {
				v = c.Peek()
			}
			raw, err := marshalValue(v)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", c.Path(), err)
			}
			snapshot[c.Path()] = raw
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		a.logger.Error("Writing values response failed.", "error", err)
	}
}

func marshalValue(v cty.Value) (json.RawMessage, error) {
	switch {
	case v.Type() == cty.NilType || v.IsNull():
		return json.RawMessage("null"), nil
	case v.Type().Equals(cell.OpaqueType):
		return json.Marshal(FormatValue(v))
	}
	return ctyjson.Marshal(v, v.Type())
}

// healthCheckServer initializes and runs the health check HTTP server.
func (a *App) healthCheckServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring health check server.")
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: a.Handler(),
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeHealthCheckServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return
	}
	logger.Debug("Health check server shut down gracefully.")
}
