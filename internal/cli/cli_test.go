package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/areasearch/internal/cli/pagination"
	"github.com/rshade/areasearch/internal/config"
	"github.com/rshade/areasearch/internal/engine"
)

const cliWorld = `
agent: {region: 1}
regions:
  - {handle: 1, name: Ahern}
people:
  - {id: 11111111-1111-1111-1111-111111111111, name: Jane Resident}
objects:
  - id: aaaaaaaa-0000-0000-0000-000000000001
    region: 1
    name: Alpha Box
    owner: 11111111-1111-1111-1111-111111111111
  - id: aaaaaaaa-0000-0000-0000-000000000002
    region: 1
    name: Beta Sphere
    owner: 11111111-1111-1111-1111-111111111111
  - id: aaaaaaaa-0000-0000-0000-000000000003
    region: 1
    name: Someone
    avatar: true
`

// setupCLI isolates config and returns a world file path.
func setupCLI(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFile, "")
	t.Setenv(config.EnvSimLatency, "1ms")
	t.Setenv(config.EnvMinRefreshInterval, "10ms")
	t.Cleanup(config.ResetGlobalConfigForTest)

	world := filepath.Join(home, "world.yaml")
	require.NoError(t, os.WriteFile(world, []byte(cliWorld), 0o600))
	return world
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestScan_JSON(t *testing.T) {
	world := setupCLI(t)

	out, _, err := execute(t, "scan", "--world", world, "--owner", "Jane", "--output", "json", "--quiet", "30ms")
	require.NoError(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	names := []string{}
	for _, r := range res.Rows {
		names = append(names, r.Name)
		assert.Equal(t, "Jane Resident", r.Owner)
	}
	assert.ElementsMatch(t, []string{"Alpha Box", "Beta Sphere"}, names)
	assert.Equal(t, engine.Status{Listed: 2, Pending: 0, Total: 2}, res.Status)
}

func TestScan_TableAndShortFilterWarning(t *testing.T) {
	world := setupCLI(t)

	out, errOut, err := execute(t, "scan", "--world", world, "--name", "Box", "--quiet", "30ms")
	require.NoError(t, err)
	assert.Contains(t, errOut, `Name filter "Box" is too short`)
	assert.Contains(t, out, "Alpha Box")
	assert.Contains(t, out, "Beta Sphere")
	assert.Contains(t, out, "2 listed/0 pending/2 total")
	assert.NotContains(t, out, "Someone")
}

func TestScan_SortAndLimit(t *testing.T) {
	world := setupCLI(t)

	out, _, err := execute(t, "scan", "--world", world, "--owner", "Jane",
		"--sort", "name:desc", "--limit", "1", "-o", "ndjson", "--quiet", "30ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	var row engine.Row
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	assert.Equal(t, "Beta Sphere", row.Name)

	_, _, err = execute(t, "scan", "--world", world, "--sort", "size")
	require.ErrorIs(t, err, pagination.ErrInvalidSortField)
}

func TestScan_TimesOutWhileRequestsPending(t *testing.T) {
	world := setupCLI(t)
	t.Setenv(config.EnvSimLatency, "1m")

	_, _, err := execute(t, "scan", "--world", world, "--quiet", "20ms", "--timeout", "150ms")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScan_Errors(t *testing.T) {
	world := setupCLI(t)

	_, _, err := execute(t, "scan", "--world", world, "--output", "xml")
	require.ErrorIs(t, err, engine.ErrUnsupportedFormat)

	_, _, err = execute(t, "scan", "--world", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "scan")
	require.Error(t, err, "--world is required")
}

func TestView_RequiresTerminal(t *testing.T) {
	world := setupCLI(t)
	_, _, err := execute(t, "view", "--world", world)
	require.ErrorIs(t, err, ErrNotTerminal)
}

func TestConfigInitAndShow(t *testing.T) {
	setupCLI(t)
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")

	out, _, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, _, err = execute(t, "--config", path, "config", "init")
	require.Error(t, err)

	_, _, err = execute(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	out, _, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "filter_min_length: 3")
	// Environment overrides show up in the effective config.
	assert.Contains(t, out, "min_refresh_interval: 10ms")
}

func TestMetricsHandler(t *testing.T) {
	reg := newMetricsRegistry()
	m := engine.NewMetrics(reg)
	m.Requests.Inc()

	srv := httptest.NewServer(metricsHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "areasearch_property_requests_total 1")
	assert.Contains(t, body.String(), "go_goroutines")
}

func TestServeMetrics_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, serveMetrics(ctx, "127.0.0.1:0", prometheus.NewRegistry()))
}
