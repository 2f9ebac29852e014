package cli

import (
	"fmt"

	"github.com/driftdeck/driftdeck/internal/producer"
	"github.com/driftdeck/driftdeck/internal/tui"
	"github.com/spf13/cobra"
)

// TrainCommand handles the train command
type TrainCommand struct {
	app *App
}

// NewTrainCommand creates a new train command
func NewTrainCommand(app *App) *cobra.Command {
	cmd := &TrainCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "train",
		Short: "Train the demo classifier and write its monitoring report",
		Long: `Trains a random stump forest on synthetic fraud data, evaluates it on a
held-out split and checks every feature for drift between the splits.

Writes <root>/<project>/model.pkl and <root>/<project>/reports/<name>.{json,html}.
Flags override the producer section of the config file.`,
		Example: `  # Defaults: project_1/reports/fraud_detection_report.json
  driftdeck train

  # Simulate a shifted production population
  driftdeck train --name shifted --drift-shift 1.5`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	defaults := app.Config().Producer
	cobraCmd.Flags().String("project", defaults.Project, "Project directory to write")
	cobraCmd.Flags().String("name", defaults.ReportName, "Report name without extension")
	cobraCmd.Flags().String("description", "", "Report description")
	cobraCmd.Flags().Int("samples", defaults.Samples, "Number of synthetic samples")
	cobraCmd.Flags().Int("features", defaults.Features, "Number of features")
	cobraCmd.Flags().Int("trees", defaults.Trees, "Number of trees in the forest")
	cobraCmd.Flags().Int64("seed", defaults.Seed, "Random seed")
	cobraCmd.Flags().Float64("drift-shift", defaults.DriftShift, "Shift added to every feature of the test split")

	return cobraCmd
}

// Run executes the train command
func (c *TrainCommand) Run(cmd *cobra.Command, args []string) error {
	cfg := c.app.Config()
	opts := c.options(cmd)

	p := producer.New(c.app.fs, cfg.Root, c.app.Logger())
	result, err := p.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to train: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.SuccessStyle.Render(fmt.Sprintf("Model training completed. Report saved at: %s", result.JSONPath)))
	fmt.Fprintf(out, "  model:    %s\n", result.ModelPath)
	fmt.Fprintf(out, "  html:     %s\n", result.HTMLPath)
	fmt.Fprintf(out, "  accuracy: %.3f\n", result.Metadata.Accuracy)
	if result.Metadata.Drift != nil {
		fmt.Fprintf(out, "  drift:    %s\n", result.Metadata.Drift)
	}

	return nil
}

// options merges the config's producer section with changed flags.
func (c *TrainCommand) options(cmd *cobra.Command) producer.Options {
	pc := c.app.Config().Producer
	opts := producer.Options{
		Project:      pc.Project,
		ReportName:   pc.ReportName,
		Samples:      pc.Samples,
		Features:     pc.Features,
		Trees:        pc.Trees,
		TestFraction: pc.TestFraction,
		Seed:         pc.Seed,
		DriftShift:   pc.DriftShift,
	}

	flags := cmd.Flags()
	if flags.Changed("project") {
		opts.Project, _ = flags.GetString("project")
	}
	if flags.Changed("name") {
		opts.ReportName, _ = flags.GetString("name")
	}
	opts.Description, _ = flags.GetString("description")
	if flags.Changed("samples") {
		opts.Samples, _ = flags.GetInt("samples")
	}
	if flags.Changed("features") {
		opts.Features, _ = flags.GetInt("features")
	}
	if flags.Changed("trees") {
		opts.Trees, _ = flags.GetInt("trees")
	}
	if flags.Changed("seed") {
		opts.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("drift-shift") {
		opts.DriftShift, _ = flags.GetFloat64("drift-shift")
	}

	return opts
}
