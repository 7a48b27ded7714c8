package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/doraemoncito/tap2bin/cli/config"
	"github.com/doraemoncito/tap2bin/extract"
	"github.com/doraemoncito/tap2bin/log"
	"github.com/doraemoncito/tap2bin/report"
	"github.com/doraemoncito/tap2bin/store"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
)

// settings is the merged view of flags and the config file for decode and
// batch.
type settings struct {
	outputDir string
	manifest  bool
	report    string
	quiet     bool
	noColor   bool
	logLevel  zapcore.Level
	jobs      int
	timeout   time.Duration
	catalog   string
	store     store.Options
}

// loadConfig loads --config when set. A nil config means no file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

// resolveSettings merges CLI flags over config values over flag defaults.
func resolveSettings(c *cli.Context) (*settings, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	s := &settings{
		outputDir: resolveString(c, "output-dir", configVal(cfg, func(c *config.Config) string { return c.OutputDir })),
		manifest:  resolveBool(c, "manifest", configVal(cfg, func(c *config.Config) bool { return c.Manifest })),
		report:    resolveString(c, "report", configVal(cfg, func(c *config.Config) string { return c.Report })),
		quiet:     resolveBool(c, "quiet", configVal(cfg, func(c *config.Config) bool { return c.Quiet })),
		noColor:   resolveBool(c, "no-color", configVal(cfg, func(c *config.Config) bool { return c.NoColor })),
		jobs:      resolveInt(c, "jobs", configVal(cfg, func(c *config.Config) int { return c.Jobs })),
		timeout:   resolveDuration(c, "timeout", configVal(cfg, func(c *config.Config) time.Duration { return c.Timeout.Duration })),
		catalog:   resolveString(c, "catalog", configVal(cfg, func(c *config.Config) string { return c.Catalog })),
		store: store.Options{
			Backend:      resolveString(c, "store", configVal(cfg, func(c *config.Config) string { return c.Storage.Backend })),
			Path:         resolveString(c, "store-path", configVal(cfg, func(c *config.Config) string { return c.Storage.Path })),
			Region:       resolveString(c, "s3-region", configVal(cfg, func(c *config.Config) string { return c.Storage.Region })),
			Endpoint:     resolveString(c, "s3-endpoint", configVal(cfg, func(c *config.Config) string { return c.Storage.Endpoint })),
			UsePathStyle: resolveBool(c, "s3-path-style", configVal(cfg, func(c *config.Config) bool { return c.Storage.S3PathStyle })),
		},
	}

	s.logLevel, err = log.ParseLevel(resolveString(c, "log-level", configVal(cfg, func(c *config.Config) string { return c.LogLevel })))
	if err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *settings) validate() error {
	switch s.store.Backend {
	case store.BackendFS, store.BackendMemory:
	case store.BackendS3:
		if s.store.Path == "" {
			return errors.New("--store-path is required for the s3 backend (format: bucket/prefix)")
		}
	default:
		return fmt.Errorf("unknown --store %q (must be fs, s3 or memory)", s.store.Backend)
	}
	if s.jobs < 0 {
		return fmt.Errorf("--jobs must be >= 0, got %d", s.jobs)
	}
	if s.timeout < 0 {
		return fmt.Errorf("--timeout must be >= 0, got %s", s.timeout)
	}
	return nil
}

// context returns the decode context: canceled on SIGINT/SIGTERM and after
// the configured timeout.
func (s *settings) context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	if s.timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// openCatalog opens the catalog when --catalog is set.
func (s *settings) openCatalog() (*store.Catalog, error) {
	if s.catalog == "" {
		return nil, nil
	}
	return store.NewCatalogFS(s.catalog)
}

// observer returns the progress observer writing to w.
func (s *settings) observer(w io.Writer) extract.Observer {
	if s.quiet {
		return report.Quiet{}
	}
	return report.NewText(w, s.noColor)
}

// fileOptions builds the decode options for one input.
func (s *settings) fileOptions(outputDir string, catalog *store.Catalog, obs extract.Observer, logs io.Writer) extract.FileOptions {
	return extract.FileOptions{
		OutputDir: outputDir,
		Store:     s.store,
		Manifest:  s.manifest,
		Catalog:   catalog,
		Observer:  obs,
		LogOutput: logs,
		LogLevel:  s.logLevel,
	}
}

// configVal returns get(cfg), or the zero value when cfg is nil.
func configVal[T any](cfg *config.Config, get func(*config.Config) T) T {
	var zero T
	if cfg == nil {
		return zero
	}
	return get(cfg)
}

// resolveString returns the flag value if set on the command line, the
// config value if non-empty, and the flag default otherwise.
func resolveString(c *cli.Context, name, cfgVal string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if cfgVal != "" {
		return cfgVal
	}
	return c.String(name)
}

func resolveInt(c *cli.Context, name string, cfgVal int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	if cfgVal != 0 {
		return cfgVal
	}
	return c.Int(name)
}

func resolveBool(c *cli.Context, name string, cfgVal bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	return cfgVal || c.Bool(name)
}

func resolveDuration(c *cli.Context, name string, cfgVal time.Duration) time.Duration {
	if c.IsSet(name) {
		return c.Duration(name)
	}
	if cfgVal != 0 {
		return cfgVal
	}
	return c.Duration(name)
}

// errWriter returns the app's error writer.
func errWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// outWriter returns the app's output writer.
func outWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}
