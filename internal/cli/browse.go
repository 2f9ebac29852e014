package cli

import (
	"fmt"

	"github.com/driftdeck/driftdeck/internal/tui/browse"
	"github.com/spf13/cobra"
)

// BrowseCommand handles the browse command
type BrowseCommand struct {
	app *App

	// selectF replaces the interactive picker when set
	selectF browse.SelectFunc
}

// NewBrowseCommand creates a new browse command
func NewBrowseCommand(app *App) *cobra.Command {
	cmd := &BrowseCommand{app: app}

	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a project and report interactively and print it",
		Long: `Asks for a project, then for one of its reports, and prints the report
as indented JSON. This is the default command.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}
}

// Run executes the browse command
func (c *BrowseCommand) Run(cmd *cobra.Command, args []string) error {
	flow := browse.NewFlow(c.app.Catalog())
	if c.selectF != nil {
		flow.WithSelect(c.selectF)
	}

	result, err := flow.Run()
	if err != nil {
		return err
	}
	if result == nil {
		// User aborted
		return nil
	}

	rendered, err := browse.Render(result)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
	return err
}
