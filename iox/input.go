package iox

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression names reported by Input.Compression.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// gzipMagic includes the deflate method byte: a plain container can begin
// with 1f 8b (a 0x8b1f byte block) but then carries a flag byte there.
var (
	gzipMagic = []byte{0x1f, 0x8b, 0x08}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// compressedSuffixes are stripped before the container extension when
// deriving an artifact base name.
var compressedSuffixes = []string{".gz", ".zst", ".zstd"}

// Input is an opened container stream. Compressed files are decompressed
// transparently; the compression is detected from the leading magic bytes,
// not from the file name.
type Input struct {
	io.Reader

	// Compression is one of CompressionNone, CompressionGzip, CompressionZstd.
	Compression string

	closers []func() error
}

// OpenInput opens path for reading. The returned error wraps the os error,
// so os.IsNotExist / errors.Is(err, fs.ErrNotExist) work on it.
func OpenInput(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	in, err := NewInput(f)
	if err != nil {
		DiscardClose(f)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in.closers = append(in.closers, f.Close)
	return in, nil
}

// NewInput wraps r, decompressing it if it starts with a gzip or zstd frame.
// Closing the Input does not close r.
func NewInput(r io.Reader) (*Input, error) {
	br := bufio.NewReader(r)
	// Peek errors only mean the stream is shorter than the magic.
	head, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return &Input{Reader: zr, Compression: CompressionGzip, closers: []func() error{zr.Close}}, nil

	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		rc := zr.IOReadCloser()
		return &Input{Reader: rc, Compression: CompressionZstd, closers: []func() error{rc.Close}}, nil

	default:
		return &Input{Reader: br, Compression: CompressionNone}, nil
	}
}

// Close releases the decompressor and the underlying file, innermost first.
func (in *Input) Close() error {
	var first error
	for _, c := range in.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	in.closers = nil
	return first
}

// StemName returns the file name of path without directory, without a
// compression suffix and without its container extension:
// "games/manic.tap.gz" -> "manic".
func StemName(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	for _, suffix := range compressedSuffixes {
		if strings.HasSuffix(lower, suffix) && len(name) > len(suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	if ext := filepath.Ext(name); ext != "" && len(ext) < len(name) {
		name = name[:len(name)-len(ext)]
	}
	return name
}
