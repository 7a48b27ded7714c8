package tap

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Flag byte values.
const (
	FlagHeader byte = 0x00
	FlagData   byte = 0xFF
)

// Header block layout, as offsets into the block body (flag at 0).
const (
	headerSubtypeOffset    = 1
	headerNameOffset       = 2
	headerNameSize         = 10
	headerDataLengthOffset = 12
	headerParam1Offset     = 14
	headerParam2Offset     = 16

	// MinHeaderSize is the shortest body that carries every mandatory header field.
	MinHeaderSize = 19
)

// Subtype is the file type stored in a header block.
type Subtype byte

// Header subtypes.
const (
	SubtypeBASIC       Subtype = 0x00
	SubtypeNumberArray Subtype = 0x01
	SubtypeCharArray   Subtype = 0x02
	SubtypeCode        Subtype = 0x03
)

// String returns the human-readable subtype name.
func (s Subtype) String() string {
	switch s {
	case SubtypeBASIC:
		return "BASIC"
	case SubtypeNumberArray:
		return "Number array"
	case SubtypeCharArray:
		return "Char array"
	case SubtypeCode:
		return "Code"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(s))
	}
}

// Known reports whether s is one of the four standard subtypes.
func (s Subtype) Known() bool {
	return s <= SubtypeCode
}

// Block is a classified block: exactly one of Header, Data or Unrecognized.
// Use a type switch to handle it.
type Block interface {
	// Kind returns "header", "data" or "unrecognized".
	Kind() string
	// Size returns the length of the block body.
	Size() int

	isBlock()
}

// Header is a metadata block describing the block that follows it.
type Header struct {
	Subtype    Subtype
	Name       string
	DataLength uint16
	// Param1 is the load address for Code and the auto-start line for BASIC.
	Param1 uint16
	// Param2 is an auxiliary parameter for Code and the variables offset for BASIC.
	Param2 uint16

	size int
}

// Kind implements Block.
func (Header) Kind() string { return "header" }

// Size implements Block.
func (h Header) Size() int { return h.size }

func (Header) isBlock() {}

// IsCode reports whether the header announces a machine-code block.
func (h Header) IsCode() bool {
	return h.Subtype == SubtypeCode
}

// LoadAddress returns the load address of a Code header.
func (h Header) LoadAddress() uint16 {
	return h.Param1
}

// AutoStartLine returns the auto-start line of a BASIC header.
func (h Header) AutoStartLine() uint16 {
	return h.Param1
}

// VariablesOffset returns the variables area offset of a BASIC header.
func (h Header) VariablesOffset() uint16 {
	return h.Param2
}

// Data is a payload block. Payload excludes the flag and the checksum.
type Data struct {
	Payload []byte

	size int
}

// Kind implements Block.
func (Data) Kind() string { return "data" }

// Size implements Block.
func (d Data) Size() int { return d.size }

func (Data) isBlock() {}

// UnrecognizedReason says why a block could not be classified.
type UnrecognizedReason int

const (
	// ShortBlock is a block with fewer than two bytes.
	ShortBlock UnrecognizedReason = iota
	// MalformedHeader is a header-flagged block too short for its fields.
	MalformedHeader
	// UnknownFlag is a block whose flag is neither 0x00 nor 0xFF.
	UnknownFlag
)

func (r UnrecognizedReason) String() string {
	switch r {
	case ShortBlock:
		return "short block"
	case MalformedHeader:
		return "malformed header"
	case UnknownFlag:
		return "unknown flag"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Unrecognized is any block that is neither a well-formed header nor data.
type Unrecognized struct {
	Raw    RawBlock
	Reason UnrecognizedReason
}

// Kind implements Block.
func (Unrecognized) Kind() string { return "unrecognized" }

// Size implements Block.
func (u Unrecognized) Size() int { return len(u.Raw) }

func (Unrecognized) isBlock() {}

// Flag returns the flag byte of the block, if it has one.
func (u Unrecognized) Flag() (byte, bool) {
	return u.Raw.Flag()
}

// Classify determines what a raw block is. It does no I/O and keeps no state.
func Classify(raw RawBlock) Block {
	if len(raw) < 2 {
		return Unrecognized{Raw: raw, Reason: ShortBlock}
	}

	switch raw[0] {
	case FlagHeader:
		if len(raw) < MinHeaderSize {
			return Unrecognized{Raw: raw, Reason: MalformedHeader}
		}
		return Header{
			Subtype:    Subtype(raw[headerSubtypeOffset]),
			Name:       decodeName(raw[headerNameOffset : headerNameOffset+headerNameSize]),
			DataLength: binary.LittleEndian.Uint16(raw[headerDataLengthOffset:]),
			Param1:     binary.LittleEndian.Uint16(raw[headerParam1Offset:]),
			Param2:     binary.LittleEndian.Uint16(raw[headerParam2Offset:]),
			size:       len(raw),
		}
	case FlagData:
		return Data{Payload: raw[1 : len(raw)-1], size: len(raw)}
	default:
		return Unrecognized{Raw: raw, Reason: UnknownFlag}
	}
}

// decodeName turns the space-padded name field into text.
// Bytes outside 7-bit ASCII (Spectrum tokens, UDGs) are dropped.
func decodeName(field []byte) string {
	var b strings.Builder
	b.Grow(len(field))
	for _, c := range field {
		if c < 0x80 {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}
