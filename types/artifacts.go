// Package types defines the records shared by the decoder, the reporters and
// the CLI renderers.
//
//nolint:revive // types is a common Go package naming convention
package types

import "github.com/opencontainers/go-digest"

// Artifact is one extracted machine-code payload.
// It exists only for a Code header immediately followed by a Data block.
type Artifact struct {
	// Name is the generated file name (<base>.bin, <base>_code2.bin, ...).
	Name string `json:"name" yaml:"name" msgpack:"name"`
	// Location is where the payload was persisted (file path or object URL).
	Location string `json:"location" yaml:"location" msgpack:"location"`
	// LoadAddress is param1 of the Code header.
	LoadAddress uint16 `json:"load_address" yaml:"load_address" msgpack:"load_address"`
	// Param2 is the auxiliary header parameter, carried through unchanged.
	Param2 uint16 `json:"param2" yaml:"param2" msgpack:"param2"`
	// HeaderName is the trimmed 10-byte name field of the Code header.
	HeaderName string `json:"header_name" yaml:"header_name" msgpack:"header_name"`
	// DeclaredLength is the header's data_length field. Informational only:
	// the payload size always comes from the Data block framing.
	DeclaredLength uint16 `json:"declared_length" yaml:"declared_length" msgpack:"declared_length"`
	// Size is the payload size in bytes.
	Size int `json:"size" yaml:"size" msgpack:"size"`
	// BlockIndex is the 1-based index of the Data block in the stream.
	BlockIndex int `json:"block_index" yaml:"block_index" msgpack:"block_index"`
	// Digest is the sha256 digest of the payload.
	Digest digest.Digest `json:"digest" yaml:"digest" msgpack:"digest"`

	// Payload is the flag- and checksum-stripped data. Never serialized.
	Payload []byte `json:"-" yaml:"-" msgpack:"-"`
}
