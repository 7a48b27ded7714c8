// Package taptest builds synthetic .tap containers for tests.
package taptest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/doraemoncito/tap2bin/tap"
)

// Builder accumulates framed blocks.
type Builder struct {
	buf bytes.Buffer
}

// New returns an empty Builder.
func New() *Builder { return &Builder{} }

// Raw appends body with its length prefix, unmodified.
func (b *Builder) Raw(body []byte) *Builder {
	var prefix [tap.LengthPrefixSize]byte
	binary.LittleEndian.PutUint16(prefix[:], uint16(len(body)))
	b.buf.Write(prefix[:])
	b.buf.Write(body)
	return b
}

// Header appends a header block.
func (b *Builder) Header(subtype tap.Subtype, name string, dataLength, param1, param2 uint16) *Builder {
	return b.Raw(HeaderBody(subtype, name, dataLength, param1, param2))
}

// Code appends a Code header announcing payload at addr.
func (b *Builder) Code(name string, addr uint16, size int) *Builder {
	return b.Header(tap.SubtypeCode, name, uint16(size), addr, 0x8000)
}

// BASIC appends a BASIC program header.
func (b *Builder) BASIC(name string, autostart, length uint16) *Builder {
	return b.Header(tap.SubtypeBASIC, name, length, autostart, length)
}

// Data appends a data block carrying payload.
func (b *Builder) Data(payload []byte) *Builder {
	return b.Raw(DataBody(payload))
}

// Pair appends a Code header immediately followed by its data block.
func (b *Builder) Pair(name string, addr uint16, payload []byte) *Builder {
	return b.Code(name, addr, len(payload)).Data(payload)
}

// Truncated appends a length prefix declaring declared bytes followed by
// only the first part of body.
func (b *Builder) Truncated(declared uint16, body []byte) *Builder {
	var prefix [tap.LengthPrefixSize]byte
	binary.LittleEndian.PutUint16(prefix[:], declared)
	b.buf.Write(prefix[:])
	b.buf.Write(body)
	return b
}

// Bytes returns the container built so far.
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// WriteFile writes the container to dir/name and returns its path.
func (b *Builder) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// HeaderBody builds a 19-byte header block body with a valid checksum.
func HeaderBody(subtype tap.Subtype, name string, dataLength, param1, param2 uint16) []byte {
	body := make([]byte, tap.MinHeaderSize)
	body[0] = tap.FlagHeader
	body[1] = byte(subtype)
	copy(body[2:12], []byte("          "))
	copy(body[2:12], name)
	binary.LittleEndian.PutUint16(body[12:], dataLength)
	binary.LittleEndian.PutUint16(body[14:], param1)
	binary.LittleEndian.PutUint16(body[16:], param2)
	body[18] = Checksum(body[:18])
	return body
}

// DataBody builds a data block body around payload.
func DataBody(payload []byte) []byte {
	body := make([]byte, 0, len(payload)+2)
	body = append(body, tap.FlagData)
	body = append(body, payload...)
	return append(body, Checksum(body))
}

// Checksum is the XOR of all bytes.
func Checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum ^= c
	}
	return sum
}

// Payload returns n deterministic bytes seeded by seed.
func Payload(n int, seed byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = seed + byte(i*7)
	}
	return p
}
