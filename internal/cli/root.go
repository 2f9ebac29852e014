package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/driftdeck/driftdeck/internal/catalog"
	"github.com/driftdeck/driftdeck/internal/config"
	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/driftdeck/driftdeck/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	configFlag   = "config"
	rootFlag     = "root"
	logLevelFlag = "log-level"
)

// App carries the state shared by all subcommands. Config and logger are
// populated by the root command before any subcommand runs.
type App struct {
	fs     filesystem.FileSystem
	config *config.Config
	logger *zap.Logger
}

// NewApp creates an App with default configuration and a no-op logger.
func NewApp(fs filesystem.FileSystem) *App {
	return &App{
		fs:     fs,
		config: config.Default(),
		logger: zap.NewNop(),
	}
}

// Config returns the resolved configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the configured logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Catalog returns a catalog over the configured root.
func (a *App) Catalog() *catalog.Catalog {
	return catalog.New(a.fs, a.config.Root, catalog.WithLogger(a.logger))
}

// load resolves configuration with flag overrides on top and builds the
// logger on the command's error stream.
func (a *App) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString(configFlag)

	cfg, err := config.Load(a.fs, path)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed(rootFlag) {
		cfg.Root, _ = cmd.Flags().GetString(rootFlag)
	}
	if cmd.Flags().Changed(logLevelFlag) {
		cfg.Log.Level, _ = cmd.Flags().GetString(logLevelFlag)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.config = cfg
	a.logger = logger
	return nil
}

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem) *cobra.Command {
	app := NewApp(fs)

	rootCmd := &cobra.Command{
		Use:   "driftdeck",
		Short: "Browse and produce ML model monitoring reports",
		Long: `A CLI tool for ML model monitoring reports.

Projects live as directories under a root, each with a reports/ directory of
JSON documents. driftdeck lists and shows them, trains a demo model that
writes new reports, and serves a read-only dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `driftdeck browse` when no subcommand is provided.
			return (&BrowseCommand{app: app}).Run(cmd, args)
		},
	}

	rootCmd.PersistentFlags().String(configFlag, "", fmt.Sprintf("Config file (default %s if present)", config.DefaultFile))
	rootCmd.PersistentFlags().String(rootFlag, "", "Projects root directory (overrides config)")
	rootCmd.PersistentFlags().String(logLevelFlag, "", "Log level: debug, info, warn or error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(NewProjectsCommand(app))
	rootCmd.AddCommand(NewReportsCommand(app))
	rootCmd.AddCommand(NewShowCommand(app))
	rootCmd.AddCommand(NewTrainCommand(app))
	rootCmd.AddCommand(NewServeCommand(app))
	rootCmd.AddCommand(NewBrowseCommand(app))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	fs := filesystem.NewOSFileSystem()

	rootCmd := NewRootCommand(fs)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrReportUnavailable) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
