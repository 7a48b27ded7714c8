package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Backend names accepted by Open.
const (
	BackendFS     = "fs"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// FileWriter writes named artifact files to a destination.
type FileWriter interface {
	// Prepare makes the destination ready for writes. It is called once
	// before the first PutFile, even when nothing will be written.
	Prepare(ctx context.Context) error

	// PutFile writes data under filename, replacing any existing file of the
	// same name, and returns the location it was written to.
	// The filename must not contain path separators or be "." or "..".
	PutFile(ctx context.Context, filename string, data []byte) (string, error)

	// Backend returns the backend name (BackendFS, BackendS3, BackendMemory).
	Backend() string
}

// ValidateFilename rejects names that would escape the destination.
func ValidateFilename(filename string) error {
	switch {
	case filename == "", filename == ".", filename == "..":
		return NewStorageError(ErrInvalidName, "write", filename, fmt.Errorf("%q is not a file name", filename))
	case strings.ContainsAny(filename, `/\`):
		return NewStorageError(ErrInvalidName, "write", filename, fmt.Errorf("%q contains a path separator", filename))
	}
	return nil
}

// StubFileWriter records PutFile calls for testing.
type StubFileWriter struct {
	mu       sync.Mutex
	Prepared int
	Files    []StubFileRecord

	// PrepareErr and PutErr, when set, are returned by the matching method.
	PrepareErr error
	PutErr     error
}

// StubFileRecord is a recorded file write for testing.
type StubFileRecord struct {
	Filename string
	Data     []byte
}

// NewStubFileWriter creates a new stub file writer.
func NewStubFileWriter() *StubFileWriter {
	return &StubFileWriter{}
}

// Prepare implements FileWriter.
func (w *StubFileWriter) Prepare(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Prepared++
	return w.PrepareErr
}

// PutFile implements FileWriter by recording the call.
func (w *StubFileWriter) PutFile(_ context.Context, filename string, data []byte) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.PutErr != nil {
		return "", WrapWriteError(w.PutErr, filename)
	}
	w.Files = append(w.Files, StubFileRecord{
		Filename: filename,
		Data:     append([]byte(nil), data...),
	})
	return "stub://" + filename, nil
}

// Backend implements FileWriter.
func (w *StubFileWriter) Backend() string { return "stub" }

// Names returns the recorded file names in write order.
func (w *StubFileWriter) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, len(w.Files))
	for i, f := range w.Files {
		names[i] = f.Filename
	}
	return names
}

// Verify StubFileWriter implements FileWriter.
var _ FileWriter = (*StubFileWriter)(nil)
