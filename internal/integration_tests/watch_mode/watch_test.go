package integration_tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgraph/internal/app"
	"github.com/vk/paramgraph/internal/testutil"
)

const sceneTemplate = `
node "multiplier" "m" {
  values = { input = %s, multi = 3 }
}

node "custom" "limits" {
  parameter "max" {
    type      = int
    value     = %s
    read_only = true
  }
}
`

func manifest(input, limit string) string {
	return fmt.Sprintf(sceneTemplate, input, limit)
}

// TestWatch_ReloadsLiteralValues checks that editing a manifest pushes the new
// literals into the running scene.
func TestWatch_ReloadsLiteralValues(t *testing.T) {
	t.Parallel()

	ws := testutil.StartWatch(t, map[string]string{"main.hcl": manifest("2", "10")},
		app.Config{Eval: []string{"m.output"}})
	ws.WaitForOutput(t, "m.output = 6\n")

	ws.WriteFile(t, "main.hcl", manifest("5", "10"))
	ws.WaitForOutput(t, "m.output = 15\n")
	ws.WaitForOutput(t, "Manifests reloaded.")

	// Read-only literals cannot be edited live.
	ws.WriteFile(t, "main.hcl", manifest("5", "20"))
	ws.WaitForOutput(t, "Manifest reload applied partially.")

	require.NoError(t, ws.Stop())
}

// TestWatch_SetKeepsPrecedence checks that -set overrides survive reloads.
func TestWatch_SetKeepsPrecedence(t *testing.T) {
	t.Parallel()

	ws := testutil.StartWatch(t, map[string]string{"main.hcl": manifest("2", "10")},
		app.Config{Eval: []string{"m.output"}, Set: []string{"m.multi=4"}})
	ws.WaitForOutput(t, "m.output = 8\n")

	ws.WriteFile(t, "main.hcl", manifest("3", "10"))
	ws.WaitForOutput(t, "m.output = 12\n")
	require.NoError(t, ws.Stop())
}

// TestWatch_ServesValues checks the /health and /values routes of the health
// check server.
func TestWatch_ServesValues(t *testing.T) {
	t.Parallel()

	ws := testutil.StartWatch(t, map[string]string{"main.hcl": manifest("2", "10")},
		app.Config{Eval: []string{"m.output"}})
	ws.WaitForOutput(t, "m.output = 6\n")
	handler := ws.App.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/values", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var values map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &values))
	assert.Equal(t, 6.0, values["m.output"])
	assert.Equal(t, 2.0, values["m.input"])
	assert.Equal(t, 10.0, values["limits.max"])

	require.NoError(t, ws.Stop())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/values", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
