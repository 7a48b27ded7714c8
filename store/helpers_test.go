package store

import (
	"context"
	"errors"
	"io"

	"github.com/justapithecus/lode/lode"
)

// failingStore is a lode.Store that returns configurable errors.
type failingStore struct {
	putErr    error
	existsErr error
	listErr   error
	deleteErr error
	exists    bool

	putPaths    []string
	deleteCalls int
}

func (s *failingStore) Put(_ context.Context, path string, _ io.Reader) error {
	s.putPaths = append(s.putPaths, path)
	return s.putErr
}

func (s *failingStore) Get(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *failingStore) Exists(_ context.Context, _ string) (bool, error) {
	return s.exists, s.existsErr
}

func (s *failingStore) List(_ context.Context, _ string) ([]string, error) {
	return nil, s.listErr
}

func (s *failingStore) Delete(_ context.Context, _ string) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *failingStore) ReadRange(_ context.Context, _ string, _, _ int64) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (s *failingStore) ReaderAt(_ context.Context, _ string) (io.ReaderAt, error) {
	return nil, errors.New("not implemented")
}

var _ lode.Store = (*failingStore)(nil)

// sharedFactory returns a StoreFactory that always returns the given store.
func sharedFactory(store lode.Store) lode.StoreFactory {
	return func() (lode.Store, error) { return store, nil }
}

// failingFactory returns a StoreFactory that fails to create a store.
func failingFactory(err error) lode.StoreFactory {
	return func() (lode.Store, error) { return nil, err }
}
