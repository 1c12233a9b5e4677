package httpapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conflictwatch/casemap/internal/adapter/httpapi"
	"github.com/conflictwatch/casemap/internal/adapter/tiles"
	"github.com/conflictwatch/casemap/internal/observability"
	"github.com/conflictwatch/casemap/internal/pipeline"
	"github.com/conflictwatch/casemap/internal/repository"
)

const testHeader = "id,name,country,region,latitude,longitude,start_date,status,perpetrators,targeted_group,est_deaths,last_verified,sources,summary"

const testDataset = testHeader + "\n" +
	"CM-001,Alpha,Atland,Africa,12.5,-1.5,2015-06-01,ongoing,Group A,Civilians,3400,2025-02-01,https://example.org/a;https://archive.example/b,First case\n" +
	"CM-002,Bravo,Bestan,Asia,35,104,2019-01-15,escalating,Group B,Minority,,2025-03-10,https://example.org/c,Second case\n" +
	"CM-003,Charlie,Ceylia,Africa,95,10,2021-09-01,at-risk,Group C,Refugees,120,2025-01-20,,Third case\n"

// newTestServer builds a server over a CSV placed in a temp directory.
// With dataset == "" no file is written, so the loader sees no source.
func newTestServer(t *testing.T, dataset string) *httpapi.Server {
	t.Helper()

	dir := t.TempDir()
	preferred := filepath.Join(dir, "data", "cases.csv")
	fallback := filepath.Join(dir, "cases.csv")
	if dataset != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(preferred), 0o755))
		require.NoError(t, os.WriteFile(preferred, []byte(dataset), 0o644))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	repo := repository.NewCachedRepository(repository.NewCSVRepository(preferred, fallback), 0)
	svc := pipeline.New(repo, logger, metrics)
	h := httpapi.NewHandler(svc, tiles.StyleFor(""), logger, metrics)
	return httpapi.NewServer(":0", h, logger)
}

func doRequest(srv *httpapi.Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, testDataset)
	rec := doRequest(srv, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzTracksFirstRun(t *testing.T) {
	srv := newTestServer(t, testDataset)

	rec := doRequest(srv, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/v1/meta")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, testDataset)
	rec := doRequest(srv, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestGetCases(t *testing.T) {
	srv := newTestServer(t, testDataset)

	t.Run("default filter returns every dated row", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/v1/cases")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Cases []struct {
				ID     string `json:"id"`
				Region string `json:"region"`
			} `json:"cases"`
			Total  int `json:"total"`
			Issues []struct {
				Row     int    `json:"row"`
				Message string `json:"message"`
			} `json:"issues"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		assert.Equal(t, 3, body.Total)
		require.Len(t, body.Issues, 1)
		assert.Equal(t, 2, body.Issues[0].Row)
		assert.Contains(t, body.Issues[0].Message, "out of range")
	})

	t.Run("status filter narrows the set", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/v1/cases?statuses=escalating")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Cases []struct {
				ID string `json:"id"`
			} `json:"cases"`
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, 1, body.Total)
		assert.Equal(t, "CM-002", body.Cases[0].ID)
	})

	t.Run("lower year bound alone is accepted", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/v1/cases?year_min=2016")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Cases []struct {
				ID string `json:"id"`
			} `json:"cases"`
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		// CM-001 (2015) falls below the pinned lower bound; the upper
		// bound defaults to the dataset maximum.
		require.Equal(t, 2, body.Total)
		for _, c := range body.Cases {
			assert.NotEqual(t, "CM-001", c.ID)
		}
	})

	t.Run("inverted year range is rejected", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/v1/cases?year_min=2020&year_max=2010")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric year is rejected", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/v1/cases?year_min=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetMap(t *testing.T) {
	srv := newTestServer(t, testDataset)
	rec := doRequest(srv, http.MethodGet, "/api/v1/map?labels=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Style struct {
			Provider string `json:"provider"`
			TileURL  string `json:"tile_url"`
		} `json:"style"`
		View struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Zoom      float64 `json:"zoom"`
		} `json:"view"`
		ShowLabels bool `json:"show_labels"`
		Markers    []struct {
			Name    string   `json:"name"`
			Color   [3]uint8 `json:"color"`
			Tooltip string   `json:"tooltip"`
		} `json:"markers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// CM-003 sits outside the valid latitude band and is not plotted.
	require.Len(t, body.Markers, 2)
	assert.True(t, body.ShowLabels)
	assert.Equal(t, "osm", body.Style.Provider)
	assert.NotEmpty(t, body.Style.TileURL)
	assert.InDelta(t, (12.5+35)/2, body.View.Latitude, 1e-9)
	assert.Equal(t, "Alpha", body.Markers[0].Name)
	assert.Equal(t, [3]uint8{220, 20, 60}, body.Markers[0].Color)
	assert.Contains(t, body.Markers[0].Tooltip, "<b>Alpha</b>")
}

func TestGetSources(t *testing.T) {
	srv := newTestServer(t, testDataset)
	rec := doRequest(srv, http.MethodGet, "/api/v1/sources?regions=Africa")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sources []struct {
			ID    string `json:"id"`
			Links []struct {
				Label string `json:"label"`
				URL   string `json:"url"`
			} `json:"links"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Sources, 2)
	assert.Equal(t, "CM-001", body.Sources[0].ID)
	require.Len(t, body.Sources[0].Links, 2)
	assert.Equal(t, "example.org/a", body.Sources[0].Links[0].Label)
	assert.Equal(t, "https://example.org/a", body.Sources[0].Links[0].URL)
	assert.Empty(t, body.Sources[1].Links)
}

func TestGetMeta(t *testing.T) {
	srv := newTestServer(t, testDataset)
	rec := doRequest(srv, http.MethodGet, "/api/v1/meta")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Regions    []string `json:"regions"`
		Statuses   []string `json:"statuses"`
		YearMin    int      `json:"year_min"`
		YearMax    int      `json:"year_max"`
		Path       string   `json:"path"`
		IssueCount int      `json:"issue_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, []string{"Africa", "Asia"}, body.Regions)
	assert.Equal(t, []string{"at-risk", "escalating", "ongoing"}, body.Statuses)
	assert.Equal(t, 2015, body.YearMin)
	assert.Equal(t, 2021, body.YearMax)
	assert.True(t, strings.HasSuffix(body.Path, filepath.Join("data", "cases.csv")))
	assert.Equal(t, 1, body.IssueCount)
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t, testDataset)
	rec := doRequest(srv, http.MethodGet, "/api/v1/export?regions=Asia")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cases_filtered.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, testHeader, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "CM-002,"))
}

func TestNoDataSource(t *testing.T) {
	srv := newTestServer(t, "")
	rec := doRequest(srv, http.MethodGet, "/api/v1/cases")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no data source", body["error"])
	assert.Contains(t, body["hint"], "/api/v1/sample")
}

func TestMissingColumns(t *testing.T) {
	srv := newTestServer(t, "id,name\nCM-001,Alpha\n")
	rec := doRequest(srv, http.MethodGet, "/api/v1/cases")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing required columns", body.Error)
	assert.Contains(t, body.Missing, "latitude")
	assert.Contains(t, body.Missing, "sources")
}

func TestCreateSample(t *testing.T) {
	t.Run("writes a starter dataset when none exists", func(t *testing.T) {
		srv := newTestServer(t, "")

		rec := doRequest(srv, http.MethodPost, "/api/v1/sample")
		require.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["path"])

		rec = doRequest(srv, http.MethodGet, "/api/v1/cases")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refuses when a dataset is present", func(t *testing.T) {
		srv := newTestServer(t, testDataset)

		rec := doRequest(srv, http.MethodPost, "/api/v1/sample")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
