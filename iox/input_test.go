package iox

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var sample = []byte{0x13, 0x00, 0x00, 0x03, 'M', 'A', 'N', 'I', 'C'}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	zw, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer DiscardClose(zw)
	return zw.EncodeAll(data, nil)
}

func TestNewInput_Detection(t *testing.T) {
	// A plain container whose first block is 0x8b1f bytes long starts with
	// the two gzip ID bytes followed by the data flag.
	gzipLike := make([]byte, 2+0x8b1f)
	gzipLike[0], gzipLike[1], gzipLike[2] = 0x1f, 0x8b, 0xff

	tests := []struct {
		name        string
		data        []byte
		compression string
		want        []byte
	}{
		{"plain", sample, CompressionNone, sample},
		{"gzip", gzipBytes(t, sample), CompressionGzip, sample},
		{"zstd", zstdBytes(t, sample), CompressionZstd, sample},
		{"plain starting with gzip ID", gzipLike, CompressionNone, gzipLike},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := NewInput(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("NewInput failed: %v", err)
			}
			t.Cleanup(CloseFunc(in))

			if in.Compression != tt.compression {
				t.Errorf("Compression = %q, want %q", in.Compression, tt.compression)
			}
			got, err := io.ReadAll(in)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("decoded %d bytes, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestNewInput_ShortStream(t *testing.T) {
	in, err := NewInput(bytes.NewReader([]byte{0x1f}))
	if err != nil {
		t.Fatalf("NewInput failed: %v", err)
	}
	if in.Compression != CompressionNone {
		t.Errorf("Compression = %q, want none", in.Compression)
	}
	got, _ := io.ReadAll(in)
	if !bytes.Equal(got, []byte{0x1f}) {
		t.Errorf("got %x, want 1f", got)
	}
}

func TestNewInput_CorruptGzip(t *testing.T) {
	_, err := NewInput(bytes.NewReader([]byte{0x1f, 0x8b, 0x08, 0x00}))
	if err == nil {
		t.Fatal("expected error for corrupt gzip header")
	}
}

func TestOpenInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.tap.gz")
	if err := os.WriteFile(path, gzipBytes(t, sample), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput failed: %v", err)
	}
	got, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, sample) {
		t.Errorf("decoded = %x, want %x", got, sample)
	}
	if err := in.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestOpenInput_NotFound(t *testing.T) {
	_, err := OpenInput(filepath.Join(t.TempDir(), "missing.tap"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestStemName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"manic_miner.tap", "manic_miner"},
		{"/tmp/games/JetSet.TAP", "JetSet"},
		{"games/manic.tap.gz", "manic"},
		{"games/manic.tap.zst", "manic"},
		{"archive.tap.ZSTD", "archive"},
		{"noext", "noext"},
		{"multi.part.tap", "multi.part"},
		{".gz", ".gz"},
		{".hidden", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := StemName(tt.path); got != tt.want {
				t.Errorf("StemName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
