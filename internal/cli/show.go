package cli

import (
	"errors"
	"fmt"

	"github.com/driftdeck/driftdeck/internal/tui"
	"github.com/spf13/cobra"
)

// ErrReportUnavailable is returned when a report is missing or malformed.
var ErrReportUnavailable = errors.New("report unavailable")

// ShowCommand handles the show command
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command
func NewShowCommand(app *App) *cobra.Command {
	cmd := &ShowCommand{app: app}

	return &cobra.Command{
		Use:   "show <project> <report>",
		Short: "Print a report as indented JSON",
		Long: `Loads <root>/<project>/reports/<report> and prints it as indented JSON.

A missing, unreadable or malformed report prints a single failure message and
exits non-zero. The three cases are not told apart.`,
		Example: `  driftdeck show project_1 fraud_detection_report.json`,
		Args:    cobra.ExactArgs(2),
		RunE:    cmd.Run,
	}
}

// Run executes the show command
func (c *ShowCommand) Run(cmd *cobra.Command, args []string) error {
	doc, ok := c.app.Catalog().Load(args[0], args[1])
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), tui.ErrorStyle.Render(tui.ReportUnavailableNotice))
		return ErrReportUnavailable
	}

	body, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return err
}
