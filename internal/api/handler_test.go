package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenhub/hubsim/internal/cache"
	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/service"
	"github.com/greenhub/hubsim/internal/sim"
)

func testHandler(t *testing.T, basePath string) http.Handler {
	t.Helper()
	cfg := config.Default()
	solar, temp := sim.BuiltinSources(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(cfg, solar, temp, cache.New(cfg.Cache.TTL), nil, logger)
	return NewHandler(svc, basePath, logger).Router()
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetConfig(t *testing.T) {
	rec := doRequest(t, testHandler(t, ""), http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 10.0, cfg.Hub.PowerCeilingKW)
}

func TestRunComparison(t *testing.T) {
	body := map[string]any{
		"jobs": []map[string]any{
			{"name": "ai-training", "power_kw": 3.5, "duration_min": 120, "priority": "high", "deadline_hour": 18},
			{"name": "data-backup", "power_kw": 1.2, "duration_min": 90, "priority": "low"},
		},
	}

	rec := doRequest(t, testHandler(t, ""), http.MethodPost, "/api/simulations", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var cmp service.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	assert.Equal(t, "baseline", cmp.Baseline.Policy)
	assert.Equal(t, "smart", cmp.Smart.Policy)
	assert.NotEmpty(t, cmp.Baseline.Result.Hours)
}

func TestRunComparisonRejectsBadRequests(t *testing.T) {
	h := testHandler(t, "")

	tests := map[string]string{
		"malformed json": `{"jobs": [`,
		"no jobs":        `{"jobs": []}`,
		"invalid job":    `{"jobs": [{"name": "x", "power_kw": 0, "duration_min": 10, "priority": "high"}]}`,
		"bad priority":   `{"jobs": [{"name": "x", "power_kw": 1, "duration_min": 10, "priority": "urgent"}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/simulations", strings.NewReader(body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGetSolarProfile(t *testing.T) {
	rec := doRequest(t, testHandler(t, ""), http.MethodGet, "/api/profiles/solar?step=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var points []service.ProfilePoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 24)
}

func TestGetTemperatureProfileDefaultStep(t *testing.T) {
	rec := doRequest(t, testHandler(t, ""), http.MethodGet, "/api/profiles/temperature", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var points []service.ProfilePoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 48)
}

func TestRunExperiments(t *testing.T) {
	rec := doRequest(t, testHandler(t, ""), http.MethodPost, "/api/experiments",
		map[string]any{"trials": 2, "jobs_per_trial": 2, "seed": 42})
	require.Equal(t, http.StatusCreated, rec.Code)

	var run struct {
		ID      string `json:"id"`
		Seed    int64  `json:"seed"`
		Summary struct {
			Trials int `json:"trials"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, 2, run.Summary.Trials)
}

func TestGetExperimentNotFound(t *testing.T) {
	rec := doRequest(t, testHandler(t, ""), http.MethodGet, "/api/experiments/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBasePathMount(t *testing.T) {
	h := testHandler(t, "/hubsim")

	rec := doRequest(t, h, http.MethodGet, "/hubsim/api/config", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/config", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
