package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/doraemoncito/tap2bin/log"
	"github.com/doraemoncito/tap2bin/store"
)

// Config represents a tap2bin.yaml configuration file.
// All values are optional and act as defaults for decode and batch flags.
// CLI flags always override config values.
type Config struct {
	OutputDir string        `yaml:"output_dir"`
	Manifest  bool          `yaml:"manifest"`
	Report    string        `yaml:"report"`
	Quiet     bool          `yaml:"quiet"`
	NoColor   bool          `yaml:"no_color"`
	LogLevel  string        `yaml:"log_level"`
	Jobs      int           `yaml:"jobs"`
	Timeout   Duration      `yaml:"timeout"`
	Catalog   string        `yaml:"catalog"`
	Storage   StorageConfig `yaml:"storage"`
}

// StorageConfig holds storage defaults from the config file.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Options converts the storage section into store options.
func (s StorageConfig) Options() store.Options {
	return store.Options{
		Backend:      s.Backend,
		Path:         s.Path,
		Region:       s.Region,
		Endpoint:     s.Endpoint,
		UsePathStyle: s.S3PathStyle,
	}
}

// Validate checks values that YAML decoding cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must be >= 0, got %d", c.Jobs))
	}
	if c.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %s", c.Timeout.Duration))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Storage.Backend {
	case "", store.BackendFS, store.BackendMemory:
	case store.BackendS3:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
