package store

import (
	"bytes"
	"context"
	"path"
	"sync"

	"github.com/justapithecus/lode/lode"
)

// LodeWriter writes artifacts into a Lode Store under a key prefix.
// Files bypass Dataset segment/manifest machinery and land at
// <prefix>/<filename>.
type LodeWriter struct {
	factory  lode.StoreFactory
	prefix   string
	scheme   string
	backend  string
	location string

	storeOnce sync.Once
	store     lode.Store
	storeErr  error
}

// NewLodeWriter creates a writer over the store produced by factory.
// scheme and location are used only to build the returned locations,
// e.g. "s3" and "bucket/prefix" yield "s3://bucket/prefix/<prefix>/<name>".
func NewLodeWriter(factory lode.StoreFactory, backend, scheme, location, prefix string) *LodeWriter {
	return &LodeWriter{
		factory:  factory,
		prefix:   prefix,
		scheme:   scheme,
		backend:  backend,
		location: location,
	}
}

// NewMemoryWriter creates a writer over an in-memory Lode store.
func NewMemoryWriter(prefix string) *LodeWriter {
	return NewLodeWriter(lode.NewMemoryFactory(), BackendMemory, "mem", "", prefix)
}

// Prepare lazily initializes the store from the factory.
func (w *LodeWriter) Prepare(_ context.Context) error {
	_, err := w.getOrCreateStore()
	return err
}

// PutFile writes data at <prefix>/<filename>, deleting a previous object at
// the same key first so that reruns replace earlier output.
func (w *LodeWriter) PutFile(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	store, err := w.getOrCreateStore()
	if err != nil {
		return "", err
	}

	key := w.key(filename)
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return "", WrapReadError(err, key)
	}
	if exists {
		if err := store.Delete(ctx, key); err != nil {
			return "", WrapWriteError(err, key)
		}
	}
	if err := store.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return "", WrapWriteError(err, key)
	}
	return w.scheme + "://" + path.Join(w.location, key), nil
}

// Backend implements FileWriter.
func (w *LodeWriter) Backend() string { return w.backend }

// Store returns the underlying store, initializing it if needed.
func (w *LodeWriter) Store() (lode.Store, error) {
	return w.getOrCreateStore()
}

func (w *LodeWriter) key(filename string) string {
	if w.prefix == "" {
		return filename
	}
	return path.Join(w.prefix, filename)
}

// getOrCreateStore lazily initializes the Store from the factory.
func (w *LodeWriter) getOrCreateStore() (lode.Store, error) {
	w.storeOnce.Do(func() {
		w.store, w.storeErr = w.factory()
		if w.storeErr != nil {
			w.storeErr = WrapInitError(w.storeErr, w.location)
		}
	})
	return w.store, w.storeErr
}

// Verify LodeWriter implements FileWriter.
var _ FileWriter = (*LodeWriter)(nil)
