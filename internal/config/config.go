// Package config provides configuration loading for driftdeck.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/driftdeck/driftdeck/internal/logging"
)

// Config is the complete driftdeck configuration.
type Config struct {
	// Root is the directory holding one subdirectory per project
	Root string `koanf:"root"`

	Log      logging.Config `koanf:"log"`
	Server   ServerConfig   `koanf:"server"`
	Producer ProducerConfig `koanf:"producer"`
}

// ServerConfig holds dashboard HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ProducerConfig holds defaults for the train command.
type ProducerConfig struct {
	Project      string  `koanf:"project"`
	ReportName   string  `koanf:"report_name"`
	Samples      int     `koanf:"samples"`
	Features     int     `koanf:"features"`
	Trees        int     `koanf:"trees"`
	TestFraction float64 `koanf:"test_fraction"`
	Seed         int64   `koanf:"seed"`
	DriftShift   float64 `koanf:"drift_shift"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root: "projects",
		Log:  logging.NewDefaultConfig(),
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8501,
			ShutdownTimeout: 10 * time.Second,
		},
		Producer: ProducerConfig{
			Project:      "project_1",
			ReportName:   "fraud_detection_report",
			Samples:      1000,
			Features:     10,
			Trees:        100,
			TestFraction: 0.2,
			Seed:         42,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if err := c.Producer.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Validate checks the producer settings.
func (p *ProducerConfig) Validate() error {
	var errs []error

	if p.Project == "" {
		errs = append(errs, errors.New("producer.project must not be empty"))
	}
	if p.ReportName == "" {
		errs = append(errs, errors.New("producer.report_name must not be empty"))
	}
	if p.Samples < 10 {
		errs = append(errs, fmt.Errorf("producer.samples must be at least 10, got %d", p.Samples))
	}
	if p.Features < 1 {
		errs = append(errs, fmt.Errorf("producer.features must be at least 1, got %d", p.Features))
	}
	if p.Trees < 1 {
		errs = append(errs, fmt.Errorf("producer.trees must be at least 1, got %d", p.Trees))
	}
	if p.TestFraction <= 0 || p.TestFraction >= 1 {
		errs = append(errs, fmt.Errorf("producer.test_fraction must be in (0, 1), got %g", p.TestFraction))
	}

	return errors.Join(errs...)
}
