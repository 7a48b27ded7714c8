// Package tap reads ZX Spectrum .tap cassette containers.
//
// A .tap file is a flat sequence of blocks. Each block is a 2-byte
// little-endian length L followed by L bytes; the first of those bytes is the
// flag (0x00 header, 0xFF data) and the last is an XOR checksum.
//
// Truncation is expected in real captures, so running out of bytes at any
// point ends the stream cleanly instead of failing.
package tap

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/doraemoncito/tap2bin/types"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the block length prefix in bytes.
	LengthPrefixSize = 2
	// MaxBlockSize is the largest block body a length prefix can declare.
	MaxBlockSize = 0xFFFF
)

// RawBlock is the body of one block, flag byte first.
// A fresh slice is allocated for every block so callers may keep it.
type RawBlock []byte

// Flag returns the discriminant byte, or 0 with ok=false for an empty block.
func (b RawBlock) Flag() (flag byte, ok bool) {
	if len(b) == 0 {
		return 0, false
	}
	return b[0], true
}

// BlockReader pulls length-prefixed blocks from a stream.
// Its API follows bufio.Scanner: call Next until it returns false, then
// consult End and Err.
type BlockReader struct {
	reader io.Reader

	pos       int64 // bytes consumed so far
	lastStart int64 // offset of the last returned block's length prefix

	end       types.EndReason
	declared  int
	available int
	err       error
}

// NewBlockReader creates a block reader over r.
func NewBlockReader(r io.Reader) *BlockReader {
	return &BlockReader{reader: r}
}

// Next reads the next block.
// It returns false once no complete block remains; after that End reports
// why, and Err reports a read failure other than running out of bytes.
func (br *BlockReader) Next() (RawBlock, bool) {
	if br.end != types.EndNone || br.err != nil {
		return nil, false
	}

	var lengthBuf [LengthPrefixSize]byte
	n, err := io.ReadFull(br.reader, lengthBuf[:])
	br.pos += int64(n)
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			br.end = types.EndOfStream
		case errors.Is(err, io.ErrUnexpectedEOF):
			br.end = types.EndTruncatedLength
		default:
			br.fail(err)
		}
		return nil, false
	}

	start := br.pos - LengthPrefixSize
	length := int(binary.LittleEndian.Uint16(lengthBuf[:]))

	block := make(RawBlock, length)
	n, err = io.ReadFull(br.reader, block)
	br.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			br.end = types.EndTruncatedBody
			br.declared = length
			br.available = n
		} else {
			br.fail(err)
		}
		return nil, false
	}

	br.lastStart = start
	return block, true
}

// fail records a hard read error. End is still set so that callers that only
// look at End see a finished stream.
func (br *BlockReader) fail(err error) {
	br.err = err
	br.end = types.EndOfStream
}

// End reports why reading stopped, or types.EndNone while blocks remain.
func (br *BlockReader) End() types.EndReason {
	return br.end
}

// Truncation returns the declared and actually available body length of a
// block cut short by the end of the stream. Both are zero unless End is
// types.EndTruncatedBody.
func (br *BlockReader) Truncation() (declared, available int) {
	return br.declared, br.available
}

// Offset returns the stream offset of the last returned block's length prefix.
func (br *BlockReader) Offset() int64 {
	return br.lastStart
}

// Consumed returns the number of bytes read from the underlying stream.
func (br *BlockReader) Consumed() int64 {
	return br.pos
}

// Err returns the first read error that was not a short read.
// Running out of bytes is never reported here.
func (br *BlockReader) Err() error {
	return br.err
}
