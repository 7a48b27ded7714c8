package extract

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"github.com/doraemoncito/tap2bin/iox"
	"github.com/doraemoncito/tap2bin/log"
	"github.com/doraemoncito/tap2bin/metrics"
	"github.com/doraemoncito/tap2bin/store"
	"github.com/doraemoncito/tap2bin/types"
)

// FileOptions configures DecodeFile.
type FileOptions struct {
	// OutputDir is the artifact destination. For the directory backend it
	// defaults to the input's parent directory; for the other backends it is
	// the key prefix and defaults to the input's base name.
	OutputDir string
	// Store selects the storage backend.
	Store store.Options
	// Writer, when set, replaces the writer built from Store and OutputDir.
	Writer store.FileWriter

	// Manifest writes <base>.manifest.yaml next to the artifacts.
	Manifest bool
	// Catalog, when set, records the extracted artifacts.
	Catalog *store.Catalog

	// RunID identifies this decode. Generated when empty.
	RunID    string
	Observer Observer

	// LogOutput receives JSON log entries at LogLevel. Nil discards logs.
	LogOutput io.Writer
	LogLevel  zapcore.Level

	// Now is the clock used for catalog records. Defaults to time.Now.
	Now func() time.Time
}

// DecodeFile extracts the machine-code payloads of the container at path.
// Gzip and zstd compressed containers are decompressed transparently.
func DecodeFile(ctx context.Context, path string, opts FileOptions) (*types.Summary, error) {
	in, err := iox.OpenInput(path)
	if err != nil {
		return nil, ErrInput.Wrap(err)
	}
	defer iox.DiscardClose(in)

	base := iox.StemName(path)
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	logger := log.NewNop()
	if opts.LogOutput != nil {
		logger = log.NewLoggerWithWriter(log.Meta{Input: path, RunID: runID}, opts.LogLevel, opts.LogOutput)
	}
	defer logger.Sync()

	dest := opts.OutputDir
	writer := opts.Writer
	if writer == nil {
		dest = defaultDest(path, base, opts)
		writer, err = store.Open(ctx, opts.Store, dest)
		if err != nil {
			return nil, ErrOutput.Wrap(err)
		}
	}
	if in.Compression != iox.CompressionNone {
		logger.Debug("decompressing input", map[string]any{"compression": in.Compression})
	}

	summary, err := Extract(ctx, in, Config{
		Source:   path,
		BaseName: base,
		Writer:   writer,
		Observer: opts.Observer,
		Logger:   logger,
		Metrics:  metrics.NewCollector(base, writer.Backend(), runID),
	})
	if err != nil {
		return nil, err
	}
	summary.RunID = runID
	summary.Output = dest

	if opts.Manifest {
		data, err := NewManifest(summary).Marshal()
		if err != nil {
			return nil, ErrOutput.Wrap(err)
		}
		loc, err := writer.PutFile(ctx, ManifestName(base), data)
		if err != nil {
			return nil, ErrOutput.Wrap(err)
		}
		summary.Manifest = loc
	}

	if opts.Catalog != nil {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		if err := opts.Catalog.Record(ctx, runID, base, now(), summary.Artifacts); err != nil {
			return nil, ErrOutput.Wrap(err)
		}
	}

	logger.Info("decode complete", map[string]any{
		"blocks":    summary.TotalBlocks,
		"artifacts": len(summary.Artifacts),
		"bytes":     summary.TotalBytes(),
		"end":       string(summary.End),
	})
	return summary, nil
}

func defaultDest(path, base string, opts FileOptions) string {
	if opts.OutputDir != "" {
		return opts.OutputDir
	}
	switch opts.Store.Backend {
	case "", store.BackendFS:
		return filepath.Dir(path)
	default:
		return base
	}
}
