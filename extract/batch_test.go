package extract

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doraemoncito/tap2bin/store"
	"github.com/doraemoncito/tap2bin/tap/taptest"
)

func TestDecodeAll_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, name := range []string{"alpha.tap", "bravo.tap", "charlie.tap", "delta.tap", "echo.tap"} {
		b := taptest.New()
		for j := 0; j <= i; j++ {
			b.Pair("part", 0x8000, taptest.Payload(8, byte(j)))
		}
		paths = append(paths, b.WriteFile(t, dir, name))
	}

	results, err := DecodeAll(t.Context(), paths, 3, func(int, string) FileOptions {
		return FileOptions{Writer: store.NewStubFileWriter()}
	})
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, paths[i], r.Path)
		assert.Equal(t, filepath.Base(paths[i]), r.Summary.BaseName+".tap")
		assert.Len(t, r.Summary.Artifacts, i+1)
	}
}

func TestDecodeAll_IsolatedCounters(t *testing.T) {
	dir := t.TempDir()
	a := taptest.New().Pair("a", 0x8000, []byte{1}).Pair("b", 0x9000, []byte{2}).WriteFile(t, dir, "a.tap")
	b := taptest.New().Pair("c", 0x8000, []byte{3}).WriteFile(t, dir, "b.tap")

	results, err := DecodeAll(t.Context(), []string{a, b}, 2, func(int, string) FileOptions {
		return FileOptions{Writer: store.NewStubFileWriter()}
	})
	require.NoError(t, err)

	assert.Equal(t, "a_code2.bin", results[0].Summary.Artifacts[1].Name)
	require.Len(t, results[1].Summary.Artifacts, 1)
	assert.Equal(t, "b.bin", results[1].Summary.Artifacts[0].Name, "numbering restarts per input")
	assert.Equal(t, int64(1), results[1].Summary.Metrics.ArtifactsExtracted)
}

func TestDecodeAll_FirstFailure(t *testing.T) {
	dir := t.TempDir()
	good := taptest.New().Pair("a", 0x8000, []byte{1}).WriteFile(t, dir, "good.tap")
	missing := filepath.Join(dir, "missing.tap")

	results, err := DecodeAll(t.Context(), []string{missing, good}, 1, func(int, string) FileOptions {
		return FileOptions{Writer: store.NewStubFileWriter()}
	})
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.True(t, IsInputError(results[0].Err))
	assert.Nil(t, results[0].Summary)
}

func TestDecodeAll_Canceled(t *testing.T) {
	path := taptest.New().Pair("a", 0x8000, []byte{1}).WriteFile(t, t.TempDir(), "a.tap")
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	results, err := DecodeAll(ctx, []string{path}, 0, func(int, string) FileOptions {
		return FileOptions{Writer: store.NewStubFileWriter()}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestDecodeAll_Empty(t *testing.T) {
	results, err := DecodeAll(t.Context(), nil, 4, func(int, string) FileOptions { return FileOptions{} })
	require.NoError(t, err)
	assert.Empty(t, results)
}
