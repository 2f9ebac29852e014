package config

import (
	"testing"
	"time"

	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "projects", cfg.Root)
	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Equal(t, "project_1", cfg.Producer.Project)
	assert.Equal(t, "fraud_detection_report", cfg.Producer.ReportName)
	assert.Equal(t, 1000, cfg.Producer.Samples)
	assert.Equal(t, 10, cfg.Producer.Features)
	assert.Equal(t, 100, cfg.Producer.Trees)
	assert.InDelta(t, 0.2, cfg.Producer.TestFraction, 1e-9)
	assert.Equal(t, int64(42), cfg.Producer.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty root", func(c *Config) { c.Root = "" }, "root must not be empty"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "shutdown_timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, "invalid log level"},
		{"few samples", func(c *Config) { c.Producer.Samples = 3 }, "producer.samples"},
		{"no features", func(c *Config) { c.Producer.Features = 0 }, "producer.features"},
		{"no trees", func(c *Config) { c.Producer.Trees = 0 }, "producer.trees"},
		{"test fraction", func(c *Config) { c.Producer.TestFraction = 1 }, "producer.test_fraction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := Load(filesystem.NewMockFileSystem(), "")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		fs := filesystem.NewMockFileSystem()
		fs.AddFile("/etc/driftdeck/driftdeck.yaml", []byte(`
root: /data/projects
log:
  level: debug
  format: json
server:
  port: 9000
  shutdown_timeout: 3s
producer:
  samples: 200
  report_name: weekly
`))

		cfg, err := Load(fs, "/etc/driftdeck/driftdeck.yaml")
		require.NoError(t, err)
		assert.Equal(t, "/data/projects", cfg.Root)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, 200, cfg.Producer.Samples)
		assert.Equal(t, "weekly", cfg.Producer.ReportName)
		assert.Equal(t, 10, cfg.Producer.Features)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		fs := filesystem.NewMockFileSystem()
		fs.AddFile("driftdeck.yaml", []byte("root: from-file\nserver:\n  port: 9000\n"))

		t.Setenv("DRIFTDECK_ROOT", "from-env")
		t.Setenv("DRIFTDECK_SERVER_PORT", "9100")
		t.Setenv("DRIFTDECK_PRODUCER_TEST_FRACTION", "0.3")

		cfg, err := Load(fs, "")
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Root)
		assert.Equal(t, 9100, cfg.Server.Port)
		assert.InDelta(t, 0.3, cfg.Producer.TestFraction, 1e-9)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := Load(filesystem.NewMockFileSystem(), "/nope.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		fs := filesystem.NewMockFileSystem()
		fs.AddFile("/bad.yaml", []byte("root: [unterminated"))

		_, err := Load(fs, "/bad.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		fs := filesystem.NewMockFileSystem()
		fs.AddFile("/bad.yaml", []byte("server:\n  port: 0\n"))

		_, err := Load(fs, "/bad.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "root", envKey("DRIFTDECK_ROOT"))
	assert.Equal(t, "server.port", envKey("DRIFTDECK_SERVER_PORT"))
	assert.Equal(t, "server.shutdown_timeout", envKey("DRIFTDECK_SERVER_SHUTDOWN_TIMEOUT"))
	assert.Equal(t, "producer.report_name", envKey("DRIFTDECK_PRODUCER_REPORT_NAME"))
}
