// Package browse implements the interactive project and report picker.
package browse

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"
	"github.com/driftdeck/driftdeck/internal/catalog"
)

// Notices shown when the catalog has nothing to pick from.
const (
	NoProjectsNotice = "No projects found. Please add a project and restart the app."
	NoReportsNotice  = "No reports available for this project."
)

// ErrUnavailable is returned when the selected report fails to load.
var ErrUnavailable = errors.New("failed to load the report, please check the file format")

// SelectFunc asks the user to pick one of options.
type SelectFunc func(title, description string, options []string) (string, error)

// Flow walks the user from project to report to document.
type Flow struct {
	catalog *catalog.Catalog
	selectF SelectFunc
}

// Result captures the selection and the loaded document. Notice is set
// instead when the flow stopped on an empty catalog.
type Result struct {
	Project  string
	Report   string
	Document catalog.Document
	Notice   string
}

// NewFlow constructs a Flow backed by huh select forms.
func NewFlow(c *catalog.Catalog) *Flow {
	return &Flow{
		catalog: c,
		selectF: huhSelect,
	}
}

// WithSelect replaces the interactive picker.
func (f *Flow) WithSelect(fn SelectFunc) *Flow {
	f.selectF = fn
	return f
}

// Run executes the selections; returns nil result on user abort.
func (f *Flow) Run() (*Result, error) {
	projects, err := f.catalog.ListProjects()
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return &Result{Notice: NoProjectsNotice}, nil
	}

	project, err := f.selectF("Select a Project", fmt.Sprintf("%d project(s) in %s", len(projects), f.catalog.Root()), projects)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	reports, err := f.catalog.ListReports(project)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return &Result{Project: project, Notice: NoReportsNotice}, nil
	}

	report, err := f.selectF("Select a Report", fmt.Sprintf("Reports of %s", project), reports)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	doc, ok := f.catalog.Load(project, report)
	if !ok {
		return nil, ErrUnavailable
	}

	return &Result{Project: project, Report: report, Document: doc}, nil
}

func huhSelect(title, description string, options []string) (string, error) {
	selected := ""

	opts := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		opts = append(opts, huh.NewOption(option, option))
	}

	keyMap := huh.NewDefaultKeyMap()
	keyMap.Select.Submit.SetKeys("enter", " ")
	keyMap.Select.Submit.SetHelp("space/enter", "continue")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(opts...).
				Value(&selected),
		).
			Title(title).
			Description(description),
	).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen()).
		WithKeyMap(keyMap)

	if err := form.Run(); err != nil {
		return "", err
	}

	return selected, nil
}
