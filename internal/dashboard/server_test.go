package dashboard

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/driftdeck/driftdeck/internal/catalog"
	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/driftdeck/driftdeck/internal/testutil"
	"github.com/labstack/echo/v4"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testRoot = "/srv/projects"

func setupTestServer(t *testing.T, mfs *filesystem.MockFileSystem) *Server {
	t.Helper()

	server, err := NewServer(catalog.New(mfs, testRoot), zap.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func demoFS() *filesystem.MockFileSystem {
	return testutil.NewCatalogBuilder(testRoot).
		AddReport("demo", "report1.json", `{"model":"X","accuracy":0.9,"description":"demo run"}`).
		AddReport("demo", "report1.html", `<html></html>`).
		AddReport("demo", "broken.json", `{invalid json`).
		AddProject("empty").
		Build()
}

func do(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server := setupTestServer(t, demoFS())
		assert.Equal(t, "localhost:8501", server.Addr())
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(catalog.New(demoFS(), testRoot), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when catalog is nil", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	rec := do(t, setupTestServer(t, demoFS()), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleListProjects(t *testing.T) {
	t.Run("lists projects", func(t *testing.T) {
		rec := do(t, setupTestServer(t, demoFS()), "/api/v1/projects")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp ProjectsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"demo", "empty"}, resp.Projects)
	})

	t.Run("missing root is an empty array", func(t *testing.T) {
		rec := do(t, setupTestServer(t, filesystem.NewMockFileSystem()), "/api/v1/projects")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"projects":[]}`, rec.Body.String())
	})

	t.Run("filesystem errors are 500", func(t *testing.T) {
		mfs := demoFS()
		mfs.FailOn(testRoot, fs.ErrPermission)

		rec := do(t, setupTestServer(t, mfs), "/api/v1/projects")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"failed to list projects"}`, rec.Body.String())
	})
}

func TestHandleListReports(t *testing.T) {
	server := setupTestServer(t, demoFS())

	rec := do(t, server, "/api/v1/projects/demo/reports")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"project":"demo","reports":["broken.json","report1.json"]}`, rec.Body.String())

	rec = do(t, server, "/api/v1/projects/empty/reports")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"project":"empty","reports":[]}`, rec.Body.String())
}

func TestHandleGetReport(t *testing.T) {
	server := setupTestServer(t, demoFS())

	rec := do(t, server, "/api/v1/projects/demo/reports/report1.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"model":"X","accuracy":0.9,"description":"demo run"}`, rec.Body.String())

	for _, path := range []string{
		"/api/v1/projects/demo/reports/broken.json",
		"/api/v1/projects/demo/reports/missing.json",
		"/api/v1/projects/ghost/reports/report1.json",
	} {
		rec = do(t, server, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"message":"`+ReportUnavailableMessage+`"}`, rec.Body.String(), path)
	}

	assert.Equal(t, 1.0, promtestutil.ToFloat64(server.Metrics().reportLoads.WithLabelValues("ok")))
	assert.Equal(t, 3.0, promtestutil.ToFloat64(server.Metrics().reportLoads.WithLabelValues("unavailable")))
}

func TestHandleIndex(t *testing.T) {
	t.Run("lists projects and reports", func(t *testing.T) {
		rec := do(t, setupTestServer(t, demoFS()), "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "DriftDeck Dashboard")
		assert.Contains(t, body, "Monitor your ML models efficiently!")
		assert.Contains(t, body, `<a href="/projects/demo/reports/report1.json">report1.json</a> (X, accuracy 0.900)`)
		assert.Contains(t, body, `<li class="unavailable">broken.json</li>`)
		assert.Contains(t, body, "No reports available for this project.")
		assert.NotContains(t, body, "report1.html")
	})

	t.Run("empty catalog notice", func(t *testing.T) {
		rec := do(t, setupTestServer(t, filesystem.NewMockFileSystem()), "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No projects found. Please add a project and restart the app.")
	})
}

func TestHandleReportPage(t *testing.T) {
	server := setupTestServer(t, demoFS())

	rec := do(t, server, "/projects/demo/reports/report1.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Report: report1.json")
	assert.Contains(t, rec.Body.String(), "&#34;model&#34;: &#34;X&#34;")

	rec = do(t, server, "/projects/demo/reports/broken.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ReportUnavailableMessage)
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t, demoFS())
	do(t, server, "/api/v1/projects")
	do(t, server, "/api/v1/projects/demo/reports/report1.json")

	rec := do(t, server, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `driftdeck_catalog_listings_total{kind="projects"} 1`)
	assert.Contains(t, body, `driftdeck_report_loads_total{result="ok"} 1`)
	assert.Contains(t, body, `driftdeck_http_request_duration_seconds_count{method="GET",route="/api/v1/projects",status="200"} 1`)
}

func TestHandleIndex_LinksRoundTrip(t *testing.T) {
	names := []string{"q?1.json", "h#2.json", "a b.json", "100%.json"}

	builder := testutil.NewCatalogBuilder(testRoot)
	for _, name := range names {
		builder.AddReport("odd project", name, `{"model":"X","accuracy":0.5}`)
	}
	server := setupTestServer(t, builder.Build())

	rec := do(t, server, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	hrefs := regexp.MustCompile(`href="(/projects/[^"]+)"`).FindAllStringSubmatch(rec.Body.String(), -1)
	require.Len(t, hrefs, len(names))
	assert.Contains(t, rec.Body.String(), `href="/projects/odd%20project/reports/q%3F1.json"`)

	for _, href := range hrefs {
		page := do(t, server, href[1])
		assert.Equal(t, http.StatusOK, page.Code, href[1])
		assert.Contains(t, page.Body.String(), "Report: ", href[1])
	}
}

func TestHandleGetReport_EscapedPath(t *testing.T) {
	server := setupTestServer(t, demoFS())

	rec := do(t, server, "/api/v1/projects/d%65mo/reports/%72eport1.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"model":"X","accuracy":0.9,"description":"demo run"}`, rec.Body.String())
}

func TestMetricsMiddleware_PlainErrorIs500(t *testing.T) {
	server := setupTestServer(t, demoFS())
	server.echo.GET("/fail", func(c echo.Context) error {
		return errors.New("unexpected")
	})

	rec := do(t, server, "/fail")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := do(t, server, "/metrics").Body.String()
	assert.Contains(t, body, `driftdeck_http_request_duration_seconds_count{method="GET",route="/fail",status="500"} 1`)
	assert.NotContains(t, body, `route="/fail",status="200"`)
}
