package models

import (
	"fmt"
	"time"
)

// ReportMetadata is the JSON document the producer writes for the dashboard.
//
// Only Model, Accuracy and Description are part of the historic shape; the
// remaining fields are optional extensions. The loader never validates
// against this type.
type ReportMetadata struct {
	// Model is the classifier name
	Model string `json:"model"`

	// Accuracy is the test-split accuracy in [0, 1]
	Accuracy float64 `json:"accuracy"`

	// Description is a human readable summary
	Description string `json:"description"`

	RunID     string    `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`

	// Metrics holds the full classification breakdown
	Metrics *ClassificationMetrics `json:"metrics,omitempty"`

	// Drift holds the reference vs current data drift summary
	Drift *DriftSummary `json:"drift,omitempty"`
}

// ClassificationMetrics summarizes binary classifier quality on the test split.
type ClassificationMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	// Confusion is indexed [actual][predicted]
	Confusion [2][2]int `json:"confusion_matrix"`
}

// Support returns the number of evaluated samples
func (m *ClassificationMetrics) Support() int {
	return m.Confusion[0][0] + m.Confusion[0][1] + m.Confusion[1][0] + m.Confusion[1][1]
}

// FeatureDrift is the drift test result for a single feature.
type FeatureDrift struct {
	Feature   string  `json:"feature"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Drifted   bool    `json:"drifted"`
}

// DriftSummary aggregates per-feature drift into a dataset verdict.
type DriftSummary struct {
	Method          string         `json:"method"`
	Threshold       float64        `json:"threshold"`
	DatasetDrift    bool           `json:"dataset_drift"`
	DriftedFeatures int            `json:"drifted_features"`
	TotalFeatures   int            `json:"total_features"`
	Share           float64        `json:"share"`
	Features        []FeatureDrift `json:"features"`
}

// String returns a one-line description of the drift verdict
func (d *DriftSummary) String() string {
	verdict := "no dataset drift"
	if d.DatasetDrift {
		verdict = "dataset drift detected"
	}
	return fmt.Sprintf("%s (%d/%d features drifted)", verdict, d.DriftedFeatures, d.TotalFeatures)
}

// ReportSummary is one row of a project's report index.
type ReportSummary struct {
	// Name is the report filename
	Name string `json:"name"`

	// Available is false when the report could not be loaded
	Available bool `json:"available"`

	// Metadata is set when the document matched the common metadata shape
	Metadata *ReportMetadata `json:"metadata,omitempty"`
}
