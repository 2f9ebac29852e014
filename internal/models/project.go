package models

// ReportsDirName is the per-project directory that holds report files.
const ReportsDirName = "reports"

// ModelFileName is the opaque model artifact written next to reports.
const ModelFileName = "model.pkl"

// ReportExt is the suffix a file must carry to be listed as a report.
// The match is case sensitive.
const ReportExt = ".json"

// Project represents a project directory under the catalog root.
type Project struct {
	// Name is the directory name (unique within the root)
	Name string `json:"name"`

	// Path is the project directory path
	Path string `json:"path"`

	// Reports holds the report filenames found in the reports directory
	Reports []string `json:"reports"`
}

// NewProject creates a new Project instance
func NewProject(name, path string, reports []string) *Project {
	if reports == nil {
		reports = []string{}
	}
	return &Project{
		Name:    name,
		Path:    path,
		Reports: reports,
	}
}

// HasReports reports whether any report was found for the project
func (p *Project) HasReports() bool {
	return len(p.Reports) > 0
}
