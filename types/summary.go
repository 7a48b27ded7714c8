package types

import "github.com/doraemoncito/tap2bin/metrics"

// EndReason records why block reading stopped.
// Every value is a normal termination; none of them is an error.
type EndReason string

const (
	// EndNone means the stream has not been exhausted yet.
	EndNone EndReason = ""
	// EndOfStream means no bytes were left where a length prefix was expected.
	EndOfStream EndReason = "end_of_stream"
	// EndTruncatedLength means a single dangling byte was left for the length prefix.
	EndTruncatedLength EndReason = "truncated_length"
	// EndTruncatedBody means the last declared block length exceeded the remaining bytes.
	EndTruncatedBody EndReason = "truncated_body"
)

// IsTruncated reports whether the stream ended inside a block.
func (r EndReason) IsTruncated() bool {
	return r == EndTruncatedLength || r == EndTruncatedBody
}

// Summary is the result of decoding one input.
type Summary struct {
	Source          string     `json:"source" yaml:"source" msgpack:"source"`
	RunID           string     `json:"run_id,omitempty" yaml:"run_id,omitempty" msgpack:"run_id,omitempty"`
	BaseName        string     `json:"base_name" yaml:"base_name" msgpack:"base_name"`
	Output          string     `json:"output" yaml:"output" msgpack:"output"`
	TotalBlocks     int        `json:"total_blocks" yaml:"total_blocks" msgpack:"total_blocks"`
	Artifacts       []Artifact `json:"artifacts" yaml:"artifacts" msgpack:"artifacts"`
	UnpairedHeaders int        `json:"unpaired_headers" yaml:"unpaired_headers" msgpack:"unpaired_headers"`
	End             EndReason  `json:"end" yaml:"end" msgpack:"end"`
	Manifest        string     `json:"manifest,omitempty" yaml:"manifest,omitempty" msgpack:"manifest,omitempty"`

	// Metrics is the counter snapshot taken when decoding finished.
	Metrics *metrics.Snapshot `json:"metrics,omitempty" yaml:"metrics,omitempty" msgpack:"metrics,omitempty"`
}

// TotalBytes returns the summed payload size of all artifacts.
func (s *Summary) TotalBytes() int64 {
	var n int64
	for _, a := range s.Artifacts {
		n += int64(a.Size)
	}
	return n
}

// BlockInfo describes a single block for `tap2bin inspect`.
type BlockInfo struct {
	Index       int    `json:"index" yaml:"index" msgpack:"index"`
	Offset      int64  `json:"offset" yaml:"offset" msgpack:"offset"`
	Length      int    `json:"length" yaml:"length" msgpack:"length"`
	Kind        string `json:"kind" yaml:"kind" msgpack:"kind"`
	Subtype     string `json:"subtype,omitempty" yaml:"subtype,omitempty" msgpack:"subtype,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	DataLength  uint16 `json:"data_length,omitempty" yaml:"data_length,omitempty" msgpack:"data_length,omitempty"`
	Param1      uint16 `json:"param1,omitempty" yaml:"param1,omitempty" msgpack:"param1,omitempty"`
	Param2      uint16 `json:"param2,omitempty" yaml:"param2,omitempty" msgpack:"param2,omitempty"`
	PayloadSize int    `json:"payload_size" yaml:"payload_size" msgpack:"payload_size"`
	Note        string `json:"note,omitempty" yaml:"note,omitempty" msgpack:"note,omitempty"`
}

// Inspection is the block listing of one input.
type Inspection struct {
	Source string      `json:"source" yaml:"source" msgpack:"source"`
	Blocks []BlockInfo `json:"blocks" yaml:"blocks" msgpack:"blocks"`
	End    EndReason   `json:"end" yaml:"end" msgpack:"end"`
}
