package store

import (
	"context"
	"os"
	"path/filepath"
)

// DirWriter writes artifacts as plain files into a local directory.
type DirWriter struct {
	dir string
}

// NewDirWriter returns a writer rooted at dir. The directory is created
// by Prepare, not here.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{dir: dir}
}

// Dir returns the output directory.
func (w *DirWriter) Dir() string { return w.dir }

// Prepare creates the output directory and any missing parents.
func (w *DirWriter) Prepare(_ context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return WrapInitError(err, w.dir)
	}
	return nil
}

// PutFile writes data to <dir>/<filename>, truncating an existing file.
func (w *DirWriter) PutFile(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", WrapWriteError(err, path)
	}
	return path, nil
}

// Backend implements FileWriter.
func (w *DirWriter) Backend() string { return BackendFS }

// Verify DirWriter implements FileWriter.
var _ FileWriter = (*DirWriter)(nil)
