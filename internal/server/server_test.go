package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/storage"
)

func testConfig() *Config {
	return &Config{
		Host:               "127.0.0.1",
		Port:               0,
		Version:            "test",
		BudgetKcal:         120,
		MinKcal:            0,
		MaxKcal:            1000,
		MaxCount:           10,
		ExhaustiveMaxCount: 20,
	}
}

func testCatalog() models.Catalog {
	return models.Catalog{
		{Description: "X", ServingLabel: "1 cup", ServingGrams: 100, EnergyKcal: 60, ProteinGrams: 10},
		{Description: "Y", ServingLabel: "1 cup", ServingGrams: 100, EnergyKcal: 60, ProteinGrams: 10},
		{Description: "Z", ServingLabel: "1 cup", ServingGrams: 100, EnergyKcal: 100, ProteinGrams: 15},
		{Description: "water", ServingLabel: "1 cup", ServingGrams: 240, EnergyKcal: 0, ProteinGrams: 0},
		{Description: "lard", ServingLabel: "1 tbsp", ServingGrams: 13, EnergyKcal: 1200, ProteinGrams: 0},
	}
}

func newTestServer(t *testing.T) *MaxProteinServer {
	t.Helper()
	return newMaxProteinServer(testConfig(), testCatalog(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// callTool posts a tool call and returns the status and, on success, the
// decoded text payload.
func callTool(t *testing.T, h http.Handler, name string, args map[string]interface{}) (int, []byte) {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		return rec.Code, rec.Body.Bytes()
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	return rec.Code, []byte(result.Content[0].Text)
}

func TestFilterFoods(t *testing.T) {
	h := newTestServer(t).Handler()

	code, payload := callTool(t, h, "filter_foods", nil)
	require.Equal(t, http.StatusOK, code)

	var resp FilterResponse
	require.NoError(t, json.Unmarshal(payload, &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "X", resp.Candidates[0].Description)

	code, payload = callTool(t, h, "filter_foods", map[string]interface{}{"min_kcal": 60, "max_count": 5})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(payload, &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Z", resp.Candidates[0].Description)
}

func TestSolveTools(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		tool        string
		wantProtein int
		wantItems   []string
	}{
		{tool: "greedy_max_protein", wantProtein: 15, wantItems: []string{"Z"}},
		{tool: "exhaustive_max_protein", wantProtein: 20, wantItems: []string{"X", "Y"}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			code, payload := callTool(t, h, tt.tool, map[string]interface{}{"budget_kcal": 120})
			require.Equal(t, http.StatusOK, code, string(payload))

			var res models.Result
			require.NoError(t, json.Unmarshal(payload, &res))
			assert.NotEmpty(t, res.RunID)
			assert.Equal(t, 120, res.BudgetKcal)
			assert.Equal(t, 3, res.CandidateCount)
			assert.Equal(t, tt.wantProtein, res.Totals.ProteinGrams)
			assert.LessOrEqual(t, res.Totals.EnergyKcal, 120)

			var got []string
			for _, f := range res.Selection {
				got = append(got, f.Description)
			}
			assert.Equal(t, tt.wantItems, got)
		})
	}
}

func TestCompareStrategies(t *testing.T) {
	h := newTestServer(t).Handler()

	code, payload := callTool(t, h, "compare_strategies", map[string]interface{}{})
	require.Equal(t, http.StatusOK, code)

	var cmp models.Comparison
	require.NoError(t, json.Unmarshal(payload, &cmp))
	require.NotNil(t, cmp.Greedy)
	require.NotNil(t, cmp.Exhaustive)
	assert.Equal(t, 15, cmp.Greedy.Totals.ProteinGrams)
	assert.Equal(t, 20, cmp.Exhaustive.Totals.ProteinGrams)
	assert.Equal(t, 5, cmp.ProteinGap)
}

func TestToolErrors(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want int
	}{
		{name: "unknown tool", tool: "log_meal", want: http.StatusNotFound},
		{name: "exhaustive over limit", tool: "exhaustive_max_protein", args: map[string]interface{}{"max_count": 21}, want: http.StatusBadRequest},
		{name: "compare over limit", tool: "compare_strategies", args: map[string]interface{}{"max_count": 64}, want: http.StatusBadRequest},
		{name: "negative count", tool: "filter_foods", args: map[string]interface{}{"max_count": -1}, want: http.StatusBadRequest},
		{name: "non-integer budget", tool: "greedy_max_protein", args: map[string]interface{}{"budget_kcal": "lots"}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := callTool(t, h, tt.tool, tt.args)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestGreedyAllowsLargeCounts(t *testing.T) {
	h := newTestServer(t).Handler()

	code, _ := callTool(t, h, "greedy_max_protein", map[string]interface{}{"max_count": 500})
	assert.Equal(t, http.StatusOK, code)
}

func TestHTTPMethodsAndRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	callTool(t, h, "greedy_max_protein", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "max_protein_tool_calls_total")
	assert.Contains(t, rec.Body.String(), "max_protein_selector_duration_seconds")
}

func TestNewMaxProteinServer_LoadsReadOnlyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.db")
	store, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceCatalog(context.Background(), testCatalog()))
	require.NoError(t, store.Close())

	cfg := testConfig()
	cfg.DBPath = path
	srv, err := NewMaxProteinServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.Equal(t, testCatalog(), srv.catalog)
	assert.True(t, srv.storage.ReadOnly())
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}

func TestNewMaxProteinServer_MissingDB(t *testing.T) {
	cfg := testConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "missing.db")
	_, err := NewMaxProteinServer(cfg, nil)
	require.Error(t, err)
}

func TestStart_ListenFailureStopsServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	srv := newMaxProteinServer(cfg, testCatalog(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after the listener failed")
	}

	// Start already stopped the server; a second Stop is a no-op.
	require.NoError(t, srv.Stop())
}

func TestStart_ContextCancel(t *testing.T) {
	cfg := testConfig()
	srv := newMaxProteinServer(cfg, testCatalog(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
