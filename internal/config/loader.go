package config

import (
	"fmt"
	"strings"

	"github.com/driftdeck/driftdeck/internal/filesystem"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultFile is read from the working directory when no path is given.
	DefaultFile = "driftdeck.yaml"

	// EnvPrefix namespaces environment overrides.
	EnvPrefix = "DRIFTDECK_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load builds the configuration from defaults, a YAML file and environment
// variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (DRIFTDECK_SERVER_PORT, DRIFTDECK_LOG_LEVEL, ...)
//  2. YAML config file
//  3. Defaults
//
// An empty path reads DefaultFile if it exists. An explicit path must exist.
//
// Environment variables map onto keys by splitting on the first underscore
// after the prefix:
//
//	DRIFTDECK_ROOT                    -> root
//	DRIFTDECK_SERVER_PORT             -> server.port
//	DRIFTDECK_PRODUCER_TEST_FRACTION  -> producer.test_fraction
func Load(fs filesystem.FileSystem, path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if explicit || fs.Exists(path) {
		content, err := readConfigFile(fs, path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func readConfigFile(fs filesystem.FileSystem, path string) ([]byte, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// envKey maps DRIFTDECK_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}
