// Package config loads mempart settings from MEMPART_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gabapcia/mempart/internal/pkg/pathutil"
	"github.com/gabapcia/mempart/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "MEMPART"

const (
	WatermarkBackendFile  = "file"
	WatermarkBackendRedis = "redis"
)

// ErrPathCollision is returned when the archive or watermark file could be
// overwritten by a partition file.
var ErrPathCollision = errors.New("path collides with a partition file")

type Config struct {
	// MempoolDB is the node's mempool SQLite database.
	MempoolDB string `envconfig:"MEMPOOL_DB" default:"~/.stacks/mempool.sqlite" validate:"required"`

	WatermarkPath string `envconfig:"WATERMARK_PATH" default:"./add/watermark" validate:"required"`
	ArchivePath   string `envconfig:"ARCHIVE_PATH" default:"./add/.archive.json" validate:"required"`

	// OutputDir holds one <contract name>.json file per partition and the lock file.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"./add" validate:"required"`

	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"1s" validate:"min=10ms"`

	// FetchLimit caps rows read per cycle; 0 reads everything available.
	FetchLimit uint64 `envconfig:"FETCH_LIMIT" default:"0"`

	// InclusiveWatermark re-reads rows at the watermark's accept time.
	InclusiveWatermark bool `envconfig:"INCLUSIVE_WATERMARK" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	WatermarkBackend string `envconfig:"WATERMARK_BACKEND" default:"file" validate:"oneof=file redis"`
	RedisAddr        string `envconfig:"REDIS_ADDR" validate:"required_if=WatermarkBackend redis"`
	RedisUsername    string `envconfig:"REDIS_USERNAME"`
	RedisPassword    string `envconfig:"REDIS_PASSWORD"`
	RedisDB          int    `envconfig:"REDIS_DB" default:"0" validate:"min=0"`

	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
	ServiceName      string `envconfig:"SERVICE_NAME" default:"mempart" validate:"required"`
}

// Load reads the environment, expands "~" and environment variables in
// paths and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.checkCollisions(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) expandPaths() error {
	paths := []struct {
		name string
		ptr  *string
	}{
		{"MEMPOOL_DB", &c.MempoolDB},
		{"WATERMARK_PATH", &c.WatermarkPath},
		{"ARCHIVE_PATH", &c.ArchivePath},
		{"OUTPUT_DIR", &c.OutputDir},
	}

	for _, p := range paths {
		expanded, err := pathutil.Expand(*p.ptr)
		if err != nil {
			return fmt.Errorf("expand %s_%s: %w", Prefix, p.name, err)
		}
		*p.ptr = expanded
	}
	return nil
}

// partitionFileName matches the names partition files can take.
var partitionFileName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,127}\.json$`)

func (c *Config) checkCollisions() error {
	outputDir := filepath.Clean(c.OutputDir)

	for name, path := range map[string]string{
		"ARCHIVE_PATH":   c.ArchivePath,
		"WATERMARK_PATH": c.WatermarkPath,
	} {
		if filepath.Dir(filepath.Clean(path)) == outputDir && partitionFileName.MatchString(filepath.Base(path)) {
			return fmt.Errorf("%w: %s_%s=%q", ErrPathCollision, Prefix, name, path)
		}
	}
	return nil
}
