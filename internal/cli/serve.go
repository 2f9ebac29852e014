package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/signal"
	"syscall"

	"github.com/driftdeck/driftdeck/internal/dashboard"
	"github.com/driftdeck/driftdeck/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command
func NewServeCommand(app *App) *cobra.Command {
	cmd := &ServeCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only dashboard over HTTP",
		Long: `Serves the catalog as HTML pages and a JSON API:

  GET /                                         project and report index
  GET /projects/:project/reports/:report        report page
  GET /api/v1/projects                          project names
  GET /api/v1/projects/:project/reports         report names
  GET /api/v1/projects/:project/reports/:report report document
  GET /health, GET /metrics

Every request rescans the root. With --watch, catalog changes are logged as
they happen. SIGINT and SIGTERM shut the server down gracefully.`,
		Example: `  driftdeck serve --port 8501 --watch`,
		Args:    cobra.NoArgs,
		RunE:    cmd.Run,
	}

	cobraCmd.Flags().String("host", "", "Listen host (overrides config)")
	cobraCmd.Flags().Int("port", 0, "Listen port (overrides config)")
	cobraCmd.Flags().Bool("watch", false, "Log project and report changes under the root")

	return cobraCmd
}

// Run executes the serve command
func (c *ServeCommand) Run(cmd *cobra.Command, args []string) error {
	cfg := c.app.Config()
	logger := c.app.Logger()

	serverCfg := &dashboard.Config{Host: cfg.Server.Host, Port: cfg.Server.Port}
	if cmd.Flags().Changed("host") {
		serverCfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		serverCfg.Port, _ = cmd.Flags().GetInt("port")
		if serverCfg.Port < 1 || serverCfg.Port > 65535 {
			return fmt.Errorf("port %d out of range", serverCfg.Port)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchEnabled, _ := cmd.Flags().GetBool("watch"); watchEnabled {
		watcher, err := startWatcher(ctx, cfg.Root, logger)
		if err != nil {
			return err
		}
		if watcher != nil {
			defer watcher.Close()
			go logCatalogEvents(ctx, watcher, logger)
		}
	}

	server, err := dashboard.NewServer(c.app.Catalog(), logger, serverCfg)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard listening on http://%s\n", server.Addr())

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down dashboard: %w", err)
	}
	return <-errCh
}

// startWatcher starts a catalog watcher on root. A missing root is served as
// an empty catalog, so the watcher is skipped with a warning and nil is
// returned.
func startWatcher(ctx context.Context, root string, logger *zap.Logger) (*watch.Watcher, error) {
	watcher, err := watch.New(root, logger)
	if err != nil {
		return nil, err
	}

	if err := watcher.Start(ctx); err != nil {
		_ = watcher.Close()
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("projects root does not exist, watching disabled", zap.String("root", root))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}
	return watcher, nil
}

func logCatalogEvents(ctx context.Context, watcher *watch.Watcher, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-watcher.Events():
			fields := []zap.Field{zap.Stringer("kind", event.Kind), zap.String("project", event.Project)}
			if event.Report != "" {
				fields = append(fields, zap.String("report", event.Report))
			}
			logger.Info("catalog changed", fields...)
		}
	}
}
