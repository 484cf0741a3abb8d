// Package testutil provides the harness shared by the integration tests: it
// writes manifests to a temporary directory and runs a fresh App on them.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/paramgraph/internal/app"
	"github.com/vk/paramgraph/internal/hcl"
	"github.com/vk/paramgraph/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
	Dir    string
}

// WriteFiles writes files, keyed by relative path, under a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// newApp builds an app the way the CLI does, turning a startup panic into an
// error.
func newApp(cfg app.Config, out *SafeBuffer, modules ...registry.Module) (a *app.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	return app.New(out, &cfg, hcl.NewLoader(), modules...), nil
}

// RunIntegrationTest writes files, points cfg at the directory and runs the
// app once. With no modules, the compiled-in ones are used.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()
	dir := WriteFiles(t, files)
	cfg.ManifestPaths = append(cfg.ManifestPaths, dir)

	out := &SafeBuffer{}
	result := &HarnessResult{Dir: dir}
	result.App, result.Err = newApp(cfg, out, modules...)
	if result.Err == nil {
		result.Err = result.App.Run(context.Background())
	}
	result.Output = out.String()

	if os.Getenv("PARAMGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), result.Output)
	}
	return result
}

// WatchSession is an app running in watch mode.
type WatchSession struct {
	App *app.App
	Out *SafeBuffer
	Dir string

	cancel context.CancelFunc
	done   chan error
	once   sync.Once
	err    error
}

// StartWatch writes files and runs the app in watch mode until the test ends
// or Stop is called.
func StartWatch(t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *WatchSession {
	t.Helper()
	dir := WriteFiles(t, files)
	cfg.ManifestPaths = append(cfg.ManifestPaths, dir)
	cfg.Watch = true

	out := &SafeBuffer{}
	a, err := newApp(cfg, out, modules...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ws := &WatchSession{App: a, Out: out, Dir: dir, cancel: cancel, done: make(chan error, 1)}
	go func() { ws.done <- a.Run(ctx) }()
	t.Cleanup(func() { _ = ws.Stop() })
	return ws
}

// Stop cancels the session and returns the error of Run.
func (ws *WatchSession) Stop() error {
	ws.once.Do(func() {
		ws.cancel()
		select {
		case ws.err = <-ws.done:
		case <-time.After(10 * time.Second):
			ws.err = fmt.Errorf("watch session did not stop")
		}
	})
	return ws.err
}

// WaitForOutput waits until the session output contains want.
func (ws *WatchSession) WaitForOutput(t *testing.T, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(ws.Out.String(), want)
	}, 10*time.Second, 20*time.Millisecond, "output never contained %q", want)
}

// WriteFile replaces one manifest of a running session.
func (ws *WatchSession) WriteFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(ws.Dir, name), []byte(content), 0644))
}
