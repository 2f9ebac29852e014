// Package producer trains a demo classifier on synthetic data and writes a
// project directory with the model artifact and its monitoring reports.
package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/driftdeck/driftdeck/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// DefaultDescription is written when Options.Description is empty.
const DefaultDescription = "Fraud detection model monitoring report"

const runIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Options controls a single producer run.
type Options struct {
	Project      string
	ReportName   string
	Description  string
	Samples      int
	Features     int
	Trees        int
	TestFraction float64
	Seed         int64

	// DriftShift is added to every feature of the test split
	DriftShift float64
}

// Validate checks the options before any file is written.
func (o Options) Validate() error {
	var errs []error

	if !safeName(o.Project) {
		errs = append(errs, fmt.Errorf("invalid project name %q", o.Project))
	}
	if !safeName(o.ReportName) || strings.HasSuffix(o.ReportName, models.ReportExt) {
		errs = append(errs, fmt.Errorf("invalid report name %q (give it without extension)", o.ReportName))
	}
	if o.Samples < 10 {
		errs = append(errs, fmt.Errorf("samples must be at least 10, got %d", o.Samples))
	}
	if o.Features < 1 {
		errs = append(errs, fmt.Errorf("features must be at least 1, got %d", o.Features))
	}
	if o.Trees < 1 {
		errs = append(errs, fmt.Errorf("trees must be at least 1, got %d", o.Trees))
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		errs = append(errs, fmt.Errorf("test fraction must be in (0, 1), got %g", o.TestFraction))
	}

	return errors.Join(errs...)
}

func safeName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Result describes the files written by a run.
type Result struct {
	ProjectDir string
	ModelPath  string
	JSONPath   string
	HTMLPath   string
	Metadata   *models.ReportMetadata
}

// Producer writes projects under a root directory.
type Producer struct {
	fs     filesystem.FileSystem
	root   string
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Producer. A nil logger disables logging.
func New(fs filesystem.FileSystem, root string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{
		fs:     fs,
		root:   root,
		logger: logger,
		now:    time.Now,
	}
}

// Run trains the model, evaluates it, computes drift between the train and
// test splits and writes model.pkl, <name>.json and <name>.html.
func (p *Producer) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}

	runID, err := gonanoid.Generate(runIDAlphabet, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate run ID: %w", err)
	}
	logger := p.logger.With(zap.String("project", opts.Project), zap.String("run_id", runID))

	seed := uint64(opts.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	data := Synthesize(rng, opts.Samples, opts.Features)
	train, test := data.Split(rng, opts.TestFraction)
	if opts.DriftShift != 0 {
		test = test.Shift(opts.DriftShift)
	}
	logger.Debug("dataset ready", zap.Int("train", train.Len()), zap.Int("test", test.Len()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	forest, err := FitForest(rng, train, opts.Trees)
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metrics, err := Evaluate(test.Y, forest.PredictAll(test.X))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate model: %w", err)
	}
	drift, err := DetectDrift(train, test)
	if err != nil {
		return nil, fmt.Errorf("failed to compute drift: %w", err)
	}

	meta := &models.ReportMetadata{
		Model:       forest.Model,
		Accuracy:    metrics.Accuracy,
		Description: opts.Description,
		RunID:       runID,
		CreatedAt:   p.now().UTC().Truncate(time.Second),
		Metrics:     metrics,
		Drift:       drift,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.write(opts, forest, meta)
	if err != nil {
		return nil, err
	}

	logger.Info("report written",
		zap.String("path", result.JSONPath),
		zap.Float64("accuracy", meta.Accuracy),
		zap.Bool("dataset_drift", drift.DatasetDrift))

	return result, nil
}

func (p *Producer) write(opts Options, forest *Forest, meta *models.ReportMetadata) (*Result, error) {
	projectDir := filepath.Join(p.root, opts.Project)
	reportsDir := filepath.Join(projectDir, models.ReportsDirName)
	if err := p.fs.MkdirAll(reportsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	result := &Result{
		ProjectDir: projectDir,
		ModelPath:  filepath.Join(projectDir, models.ModelFileName),
		JSONPath:   filepath.Join(reportsDir, opts.ReportName+models.ReportExt),
		HTMLPath:   filepath.Join(reportsDir, opts.ReportName+".html"),
		Metadata:   meta,
	}

	artifact, err := forest.MarshalArtifact()
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	if err := p.fs.WriteFile(result.ModelPath, artifact, 0644); err != nil {
		return nil, fmt.Errorf("failed to write model: %w", err)
	}

	page, err := RenderHTML(opts.Project, opts.ReportName, meta)
	if err != nil {
		return nil, err
	}
	if err := p.fs.WriteFile(result.HTMLPath, page, 0644); err != nil {
		return nil, fmt.Errorf("failed to write html report: %w", err)
	}

	doc, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := p.fs.WriteFile(result.JSONPath, append(doc, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("failed to write json report: %w", err)
	}

	return result, nil
}
