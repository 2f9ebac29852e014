package cli

import (
	"fmt"

	"github.com/driftdeck/driftdeck/internal/tui"
	"github.com/driftdeck/driftdeck/internal/tui/browse"
	"github.com/spf13/cobra"
)

// ReportsCommand handles the reports command
type ReportsCommand struct {
	app *App
}

// ReportsOutput is the JSON shape of the reports command
type ReportsOutput struct {
	Project string   `json:"project"`
	Reports []string `json:"reports"`
}

// NewReportsCommand creates a new reports command
func NewReportsCommand(app *App) *cobra.Command {
	cmd := &ReportsCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "reports <project>",
		Short: "List the JSON reports of a project",
		Long: `Lists the .json files in <root>/<project>/reports, sorted by name.

Other files next to them (HTML renderings, model artifacts) are not listed.`,
		Example: `  driftdeck reports project_1
  driftdeck reports project_1 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("format", formatText, "Output format: text or json")

	return cobraCmd
}

// Run executes the reports command
func (c *ReportsCommand) Run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}

	project := args[0]
	summaries, err := c.app.Catalog().Summaries(project)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		reports := make([]string, 0, len(summaries))
		for _, summary := range summaries {
			reports = append(reports, summary.Name)
		}
		return writeJSON(out, ReportsOutput{Project: project, Reports: reports})
	}

	if len(summaries) == 0 {
		fmt.Fprintln(out, tui.WarningStyle.Render(browse.NoReportsNotice))
		return nil
	}
	for _, summary := range summaries {
		switch {
		case !summary.Available:
			fmt.Fprintf(out, "%s  %s\n", summary.Name, tui.ErrorStyle.Render("unreadable"))
		case summary.Metadata != nil:
			fmt.Fprintf(out, "%s  %s\n", summary.Name,
				tui.SubtleStyle.Render(fmt.Sprintf("%s, accuracy %.3f", summary.Metadata.Model, summary.Metadata.Accuracy)))
		default:
			fmt.Fprintln(out, summary.Name)
		}
	}
	return nil
}
