package cli

import (
	"fmt"

	"github.com/driftdeck/driftdeck/internal/tui"
	"github.com/driftdeck/driftdeck/internal/tui/browse"
	"github.com/spf13/cobra"
)

// ProjectsCommand handles the projects command
type ProjectsCommand struct {
	app *App
}

// ProjectsOutput is the JSON shape of the projects command
type ProjectsOutput struct {
	Root     string   `json:"root"`
	Projects []string `json:"projects"`
}

// NewProjectsCommand creates a new projects command
func NewProjectsCommand(app *App) *cobra.Command {
	cmd := &ProjectsCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects under the root",
		Long: `Lists the directories directly under the projects root, sorted by name.

A missing root is not an error; it simply has no projects.`,
		Example: `  # List projects
  driftdeck projects

  # Output JSON for scripting
  driftdeck projects --format json`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("format", formatText, "Output format: text or json")

	return cobraCmd
}

// Run executes the projects command
func (c *ProjectsCommand) Run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}

	cat := c.app.Catalog()
	projects, err := cat.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return writeJSON(out, ProjectsOutput{Root: cat.Root(), Projects: projects})
	}

	if len(projects) == 0 {
		fmt.Fprintln(out, tui.WarningStyle.Render(browse.NoProjectsNotice))
		return nil
	}
	for _, project := range projects {
		fmt.Fprintln(out, project)
	}
	return nil
}
