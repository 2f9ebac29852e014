package testutil

import (
	"path/filepath"

	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/driftdeck/driftdeck/internal/models"
)

// CatalogBuilder helps create in-memory project roots for tests
type CatalogBuilder struct {
	fs   *filesystem.MockFileSystem
	root string
}

// NewCatalogBuilder creates a CatalogBuilder with an empty root directory
func NewCatalogBuilder(root string) *CatalogBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)

	return &CatalogBuilder{
		fs:   fs,
		root: root,
	}
}

// Root returns the root directory
func (cb *CatalogBuilder) Root() string {
	return cb.root
}

// AddProject adds a project directory without a reports directory
func (cb *CatalogBuilder) AddProject(name string) *CatalogBuilder {
	cb.fs.AddDir(filepath.Join(cb.root, name))
	return cb
}

// AddReportsDir adds an empty reports directory for a project
func (cb *CatalogBuilder) AddReportsDir(project string) *CatalogBuilder {
	cb.fs.AddDir(filepath.Join(cb.root, project, models.ReportsDirName))
	return cb
}

// AddReport adds a file to a project's reports directory. The name is used
// as-is, so non-report files can be added too.
func (cb *CatalogBuilder) AddReport(project, name, content string) *CatalogBuilder {
	cb.fs.AddFile(filepath.Join(cb.root, project, models.ReportsDirName, name), []byte(content))
	return cb
}

// AddModel adds an opaque model artifact to a project
func (cb *CatalogBuilder) AddModel(project string, content []byte) *CatalogBuilder {
	cb.fs.AddFile(filepath.Join(cb.root, project, models.ModelFileName), content)
	return cb
}

// AddFile adds an arbitrary file relative to the root
func (cb *CatalogBuilder) AddFile(rel, content string) *CatalogBuilder {
	cb.fs.AddFile(filepath.Join(cb.root, rel), []byte(content))
	return cb
}

// Build returns the populated filesystem
func (cb *CatalogBuilder) Build() *filesystem.MockFileSystem {
	return cb.fs
}
