package store

import (
	"context"
	"fmt"
)

// Options selects and configures the artifact destination.
type Options struct {
	// Backend is BackendFS (default), BackendS3 or BackendMemory.
	Backend string
	// Path is "bucket/prefix" for BackendS3. Unused otherwise.
	Path string
	// Region, Endpoint and UsePathStyle configure BackendS3.
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// Open returns the FileWriter for opts. dest is the output directory for
// BackendFS and the key prefix within the store for the other backends.
func Open(ctx context.Context, opts Options, dest string) (FileWriter, error) {
	switch opts.Backend {
	case "", BackendFS:
		return NewDirWriter(dest), nil
	case BackendMemory:
		return NewMemoryWriter(dest), nil
	case BackendS3:
		bucket, prefix := ParseS3Path(opts.Path)
		return NewS3Writer(ctx, S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       opts.Region,
			Endpoint:     opts.Endpoint,
			UsePathStyle: opts.UsePathStyle,
		}, dest)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
			opts.Backend, BackendFS, BackendS3, BackendMemory)
	}
}
