package catalog

import (
	"encoding/json"
	"path/filepath"

	"github.com/driftdeck/driftdeck/internal/models"
	"go.uber.org/zap"
)

// Document is a parsed report. Its value is the generic JSON tree produced by
// encoding/json: map[string]any, []any, float64, string, bool or nil.
type Document struct {
	value any
}

// NewDocument wraps an already decoded JSON value.
func NewDocument(value any) Document {
	return Document{value: value}
}

// Value returns the decoded JSON tree.
func (d Document) Value() any {
	return d.value
}

// Map returns the document as an object when its top level is one.
func (d Document) Map() (map[string]any, bool) {
	m, ok := d.value.(map[string]any)
	return m, ok
}

// Metadata returns a typed view of the common {model, accuracy, description}
// shape. It is a convenience for display and never a validation step.
func (d Document) Metadata() (*models.ReportMetadata, bool) {
	m, ok := d.Map()
	if !ok {
		return nil, false
	}
	if _, ok := m["model"].(string); !ok {
		return nil, false
	}
	if _, ok := m["accuracy"].(float64); !ok {
		return nil, false
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, false
	}
	var meta models.ReportMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

// MarshalIndent renders the document as indented JSON.
func (d Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d.value, "", "  ")
}

// Load reads and parses <root>/<project>/reports/<report>. Every failure
// (missing file, read error, malformed JSON, invalid name) returns false;
// callers cannot tell the causes apart.
func (c *Catalog) Load(project, report string) (Document, bool) {
	if !validName(project) || !validName(report) {
		c.logger.Debug("report unavailable",
			zap.String("project", project),
			zap.String("report", report),
			zap.String("reason", "invalid name"))
		return Document{}, false
	}

	path := filepath.Join(c.ReportsDir(project), report)
	data, err := c.fs.ReadFile(path)
	if err != nil {
		c.logger.Debug("report unavailable", zap.String("path", path), zap.Error(err))
		return Document{}, false
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Debug("report unavailable", zap.String("path", path), zap.Error(err))
		return Document{}, false
	}

	return Document{value: value}, true
}

// Summaries loads every listed report of a project. Reports that fail to
// load are kept with Available set to false.
func (c *Catalog) Summaries(project string) ([]models.ReportSummary, error) {
	reports, err := c.ListReports(project)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ReportSummary, 0, len(reports))
	for _, name := range reports {
		summary := models.ReportSummary{Name: name}
		if doc, ok := c.Load(project, name); ok {
			summary.Available = true
			if meta, ok := doc.Metadata(); ok {
				summary.Metadata = meta
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
