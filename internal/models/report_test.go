package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewProject_EmptyReports(t *testing.T) {
	p := NewProject("demo", "/srv/projects/demo", nil)
	require.False(t, p.HasReports())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"demo","path":"/srv/projects/demo","reports":[]}`, string(data))
}

func TestDriftSummary_String(t *testing.T) {
	require.Equal(t, "no dataset drift (0/3 features drifted)",
		(&DriftSummary{TotalFeatures: 3}).String())
	require.Equal(t, "dataset drift detected (2/3 features drifted)",
		(&DriftSummary{DatasetDrift: true, DriftedFeatures: 2, TotalFeatures: 3}).String())
}

func TestClassificationMetrics_Support(t *testing.T) {
	m := &ClassificationMetrics{Confusion: [2][2]int{{5, 1}, {2, 7}}}
	require.Equal(t, 15, m.Support())
}

func TestReportMetadata_OptionalFieldsOmitted(t *testing.T) {
	data, err := json.Marshal(ReportMetadata{Model: "X", Accuracy: 0.5, Description: "d"})
	require.NoError(t, err)
	require.JSONEq(t, `{"model":"X","accuracy":0.5,"description":"d"}`, string(data))

	data, err = json.Marshal(ReportMetadata{Model: "X", CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)
	require.Contains(t, string(data), `"created_at":"2025-01-02T03:04:05Z"`)
}
