// Package dashboard serves the project/report catalog over HTTP.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/driftdeck/driftdeck/internal/catalog"
	"github.com/driftdeck/driftdeck/internal/tui"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReportUnavailableMessage is the generic notice for any failed load.
const ReportUnavailableMessage = tui.ReportUnavailableNotice

// Server provides the dashboard endpoints.
type Server struct {
	echo    *echo.Echo
	catalog *catalog.Catalog
	logger  *zap.Logger
	metrics *Metrics
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new dashboard server.
func NewServer(c *catalog.Catalog, logger *zap.Logger, cfg *Config) (*Server, error) {
	if c == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8501,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newRenderer()

	s := &Server{
		echo:    e,
		catalog: c,
		logger:  logger,
		metrics: NewMetrics(),
		config:  cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.metrics.middleware)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", responseStatus(c, err)),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s.registerRoutes()

	return s, nil
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/projects/:project/reports/:report", s.handleReportPage)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/projects", s.handleListProjects)
	v1.GET("/projects/:project/reports", s.handleListReports)
	v1.GET("/projects/:project/reports/:report", s.handleGetReport)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ProjectsResponse is the response body for GET /api/v1/projects.
type ProjectsResponse struct {
	Projects []string `json:"projects"`
}

// ReportsResponse is the response body for GET /api/v1/projects/:project/reports.
type ReportsResponse struct {
	Project string   `json:"project"`
	Reports []string `json:"reports"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.listProjects()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProjectsResponse{Projects: projects})
}

func (s *Server) handleListReports(c echo.Context) error {
	project := param(c, "project")
	reports, err := s.listReports(project)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReportsResponse{Project: project, Reports: reports})
}

func (s *Server) handleGetReport(c echo.Context) error {
	doc, ok := s.load(param(c, "project"), param(c, "report"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, ReportUnavailableMessage)
	}
	return c.JSON(http.StatusOK, doc.Value())
}

func (s *Server) handleIndex(c echo.Context) error {
	names, err := s.listProjects()
	if err != nil {
		return err
	}

	view := s.page("Projects")
	for _, name := range names {
		s.metrics.observeListing("reports")
		summaries, err := s.catalog.Summaries(name)
		if err != nil {
			s.logger.Error("failed to list reports", zap.String("project", name), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to list reports")
		}
		for _, summary := range summaries {
			s.metrics.observeLoad(summary.Available)
		}
		view.Projects = append(view.Projects, newProjectView(name, summaries))
	}

	return c.Render(http.StatusOK, "index", view)
}

func (s *Server) handleReportPage(c echo.Context) error {
	project, report := param(c, "project"), param(c, "report")

	view := s.page(fmt.Sprintf("%s / %s", project, report))
	view.Project = project
	view.Report = report

	doc, ok := s.load(project, report)
	if !ok {
		view.Error = ReportUnavailableMessage
		return c.Render(http.StatusNotFound, "report", view)
	}

	body, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	view.Body = string(body)

	return c.Render(http.StatusOK, "report", view)
}

// param returns a path parameter as a plain name. echo routes on the raw
// path whenever the request escapes more than the default encoding, and
// leaves the parameter escaped in that case.
func param(c echo.Context, name string) string {
	value := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

func (s *Server) page(title string) pageView {
	return pageView{
		Title:    fmt.Sprintf("%s | %s", title, tui.AppTitle),
		AppTitle: tui.AppTitle,
		Tagline:  tui.AppTagline,
	}
}

func (s *Server) listProjects() ([]string, error) {
	s.metrics.observeListing("projects")
	projects, err := s.catalog.ListProjects()
	if err != nil {
		s.logger.Error("failed to list projects", zap.Error(err))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to list projects")
	}
	return projects, nil
}

func (s *Server) listReports(project string) ([]string, error) {
	s.metrics.observeListing("reports")
	reports, err := s.catalog.ListReports(project)
	if err != nil {
		s.logger.Error("failed to list reports", zap.String("project", project), zap.Error(err))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to list reports")
	}
	return reports, nil
}

func (s *Server) load(project, report string) (catalog.Document, bool) {
	doc, ok := s.catalog.Load(project, report)
	s.metrics.observeLoad(ok)
	if !ok {
		s.logger.Info("report unavailable", zap.String("project", project), zap.String("report", report))
	}
	return doc, ok
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start starts the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting dashboard", zap.String("addr", s.Addr()))
	if err := s.echo.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down dashboard")
	return s.echo.Shutdown(ctx)
}
