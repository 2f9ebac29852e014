package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftdeck/driftdeck/internal/catalog"
	"github.com/driftdeck/driftdeck/internal/cli"
	"github.com/driftdeck/driftdeck/internal/dashboard"
	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/driftdeck/driftdeck/internal/producer"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func get(t *testing.T, server *dashboard.Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestFullWorkflow(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	root := "/var/lib/driftdeck"

	// Produce two runs, one of them drifted
	p := producer.New(fs, root, zap.NewNop())
	opts := producer.Options{
		Project:      "project_1",
		ReportName:   "baseline",
		Samples:      300,
		Features:     4,
		Trees:        10,
		TestFraction: 0.2,
		Seed:         42,
	}
	_, err := p.Run(context.Background(), opts)
	require.NoError(t, err)

	opts.ReportName = "shifted"
	opts.DriftShift = 3
	shifted, err := p.Run(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, shifted.Metadata.Drift.DatasetDrift)

	// A hand-dropped broken report next to them
	fs.AddFile(filepath.Join(root, "project_1", "reports", "corrupt.json"), []byte(`{"model":`))

	c := catalog.New(fs, root)
	reports, err := c.ListReports("project_1")
	require.NoError(t, err)
	require.Equal(t, []string{"baseline.json", "corrupt.json", "shifted.json"}, reports)

	server, err := dashboard.NewServer(c, zap.NewNop(), nil)
	require.NoError(t, err)

	rec := get(t, server, "/api/v1/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"projects":["project_1"]}`, rec.Body.String())

	rec = get(t, server, "/api/v1/projects/project_1/reports/shifted.json")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, producer.ForestModelName, doc["model"])
	require.Equal(t, shifted.Metadata.RunID, doc["run_id"])

	rec = get(t, server, "/api/v1/projects/project_1/reports/corrupt.json")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, server, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `href="/projects/project_1/reports/baseline.json"`)
	require.Contains(t, rec.Body.String(), `<li class="unavailable">corrupt.json</li>`)
}

func TestCLIWorkflow_OnDisk(t *testing.T) {
	root := filepath.Join(t.TempDir(), "projects")

	run := func(args ...string) string {
		t.Helper()

		var stdout bytes.Buffer
		cmd := cli.NewRootCommand(filesystem.NewOSFileSystem())
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--root", root}, args...))
		require.NoError(t, cmd.Execute())
		return stdout.String()
	}

	require.Contains(t, run("projects"), "No projects found")

	run("train", "--samples", "200", "--trees", "5", "--features", "3")
	_, err := os.Stat(filepath.Join(root, "project_1", "model.pkl"))
	require.NoError(t, err)

	require.Equal(t, "project_1\n", run("projects"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(run("show", "project_1", "fraud_detection_report.json")), &doc))
	require.Equal(t, producer.DefaultDescription, doc["description"])
}
