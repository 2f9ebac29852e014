// Package catalog enumerates projects and reports under a root directory and
// loads individual report documents.
//
// Layout:
//
//	<root>/<project>/reports/<report>.json
//
// Every call re-reads the filesystem; nothing is cached.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/driftdeck/driftdeck/internal/models"
	"go.uber.org/zap"
)

// Catalog is the read-only view over a projects root.
type Catalog struct {
	fs     filesystem.FileSystem
	root   string
	logger *zap.Logger
}

// Option configures catalog behavior.
type Option func(*Catalog)

// WithLogger sets the logger used for load failures and skipped entries.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Catalog rooted at root.
func New(fs filesystem.FileSystem, root string, options ...Option) *Catalog {
	c := &Catalog{
		fs:     fs,
		root:   filepath.Clean(root),
		logger: zap.NewNop(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Root returns the cleaned root directory.
func (c *Catalog) Root() string {
	return c.root
}

// ProjectDir returns the directory of a project.
func (c *Catalog) ProjectDir(project string) string {
	return filepath.Join(c.root, project)
}

// ReportsDir returns the reports directory of a project.
func (c *Catalog) ReportsDir(project string) string {
	return filepath.Join(c.root, project, models.ReportsDirName)
}

// ListProjects returns the names of the immediate subdirectories of the root,
// sorted by name. A missing root yields an empty slice.
func (c *Catalog) ListProjects() ([]string, error) {
	entries, err := c.fs.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read projects directory %s: %w", c.root, err)
	}

	projects := []string{}
	for _, entry := range entries {
		if !validName(entry.Name()) {
			continue
		}
		isDir, ok, err := c.resolve(filepath.Join(c.root, entry.Name()), entry)
		if err != nil {
			return nil, err
		}
		if ok && isDir {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListReports returns the .json filenames directly inside the project's
// reports directory, sorted by name. The suffix check is case sensitive and
// subdirectories are never listed. A missing directory yields an empty slice.
func (c *Catalog) ListReports(project string) ([]string, error) {
	if !validName(project) {
		return []string{}, nil
	}

	dir := c.ReportsDir(project)
	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read reports directory %s: %w", dir, err)
	}

	reports := []string{}
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), models.ReportExt) {
			continue
		}
		isDir, ok, err := c.resolve(filepath.Join(dir, entry.Name()), entry)
		if err != nil {
			return nil, err
		}
		if ok && !isDir {
			reports = append(reports, entry.Name())
		}
	}

	sort.Strings(reports)
	return reports, nil
}

// Projects lists every project together with its reports.
func (c *Catalog) Projects() ([]*models.Project, error) {
	names, err := c.ListProjects()
	if err != nil {
		return nil, err
	}

	projects := make([]*models.Project, 0, len(names))
	for _, name := range names {
		reports, err := c.ListReports(name)
		if err != nil {
			return nil, err
		}
		projects = append(projects, models.NewProject(name, c.ProjectDir(name), reports))
	}

	return projects, nil
}

// resolve reports whether entry is a directory, following symlinks. ok is
// false for a dangling symlink.
func (c *Catalog) resolve(path string, entry fs.DirEntry) (isDir, ok bool, err error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), true, nil
	}

	info, err := c.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("skipping dangling symlink", zap.String("path", path))
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.IsDir(), true, nil
}

// validName rejects names that would resolve outside their parent directory.
// Only the platform's own separators count, so a backslash is an ordinary
// character on Unix.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name
}
