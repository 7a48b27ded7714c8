// Package metrics provides per-decode counters.
//
// A Collector accumulates counters while one input is decoded. It is a leaf
// package with no internal dependencies; block kinds and header subtypes are
// recorded by their display names so that it does not import the tap package.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the decode counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Blocks
	BlocksTotal        int64            `json:"blocks_total" yaml:"blocks_total" msgpack:"blocks_total"`
	BlocksByKind       map[string]int64 `json:"blocks_by_kind" yaml:"blocks_by_kind" msgpack:"blocks_by_kind"`
	HeadersBySubtype   map[string]int64 `json:"headers_by_subtype" yaml:"headers_by_subtype" msgpack:"headers_by_subtype"`
	UnpairedHeaders    int64            `json:"unpaired_headers" yaml:"unpaired_headers" msgpack:"unpaired_headers"`
	UnpairedDataBlocks int64            `json:"unpaired_data_blocks" yaml:"unpaired_data_blocks" msgpack:"unpaired_data_blocks"`
	TruncatedStreams   int64            `json:"truncated_streams" yaml:"truncated_streams" msgpack:"truncated_streams"`

	// Artifacts
	ArtifactsExtracted int64 `json:"artifacts_extracted" yaml:"artifacts_extracted" msgpack:"artifacts_extracted"`
	ArtifactBytes      int64 `json:"artifact_bytes" yaml:"artifact_bytes" msgpack:"artifact_bytes"`

	// Storage
	WriteSuccess int64 `json:"write_success" yaml:"write_success" msgpack:"write_success"`
	WriteFailure int64 `json:"write_failure" yaml:"write_failure" msgpack:"write_failure"`

	// Dimensions (informational, set at construction)
	Source         string `json:"source" yaml:"source" msgpack:"source"`
	StorageBackend string `json:"storage_backend" yaml:"storage_backend" msgpack:"storage_backend"`
	RunID          string `json:"run_id" yaml:"run_id" msgpack:"run_id"`
}

// Collector accumulates metrics during a single decode.
// Thread-safe via sync.Mutex. All methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	blocksTotal        int64
	blocksByKind       map[string]int64
	headersBySubtype   map[string]int64
	unpairedHeaders    int64
	unpairedDataBlocks int64
	truncatedStreams   int64

	artifactsExtracted int64
	artifactBytes      int64

	writeSuccess int64
	writeFailure int64

	source         string
	storageBackend string
	runID          string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(source, storageBackend, runID string) *Collector {
	return &Collector{
		blocksByKind:     make(map[string]int64),
		headersBySubtype: make(map[string]int64),
		source:           source,
		storageBackend:   storageBackend,
		runID:            runID,
	}
}

// --- Blocks ---

// IncBlock records one block read from the stream, by kind.
func (c *Collector) IncBlock(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.blocksTotal++
	c.blocksByKind[kind]++
	c.mu.Unlock()
}

// IncHeader records a header block by subtype name.
func (c *Collector) IncHeader(subtype string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.headersBySubtype[subtype]++
	c.mu.Unlock()
}

// IncUnpairedHeader records a Code header that was not followed by data.
func (c *Collector) IncUnpairedHeader() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.unpairedHeaders++
	c.mu.Unlock()
}

// IncUnpairedData records a data block with no Code header in front of it.
func (c *Collector) IncUnpairedData() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.unpairedDataBlocks++
	c.mu.Unlock()
}

// IncTruncated records a stream that ended inside a block.
func (c *Collector) IncTruncated() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.truncatedStreams++
	c.mu.Unlock()
}

// --- Artifacts ---

// AddArtifact records one extracted artifact of size bytes.
func (c *Collector) AddArtifact(size int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.artifactsExtracted++
	c.artifactBytes += int64(size)
	c.mu.Unlock()
}

// --- Storage ---
// Counters are per PutFile call: artifacts and manifests both count.

// IncWriteSuccess records a successful file write.
func (c *Collector) IncWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.writeSuccess++
	c.mu.Unlock()
}

// IncWriteFailure records a failed file write.
func (c *Collector) IncWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.writeFailure++
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		BlocksTotal:        c.blocksTotal,
		BlocksByKind:       copyCounts(c.blocksByKind),
		HeadersBySubtype:   copyCounts(c.headersBySubtype),
		UnpairedHeaders:    c.unpairedHeaders,
		UnpairedDataBlocks: c.unpairedDataBlocks,
		TruncatedStreams:   c.truncatedStreams,

		ArtifactsExtracted: c.artifactsExtracted,
		ArtifactBytes:      c.artifactBytes,

		WriteSuccess: c.writeSuccess,
		WriteFailure: c.writeFailure,

		Source:         c.source,
		StorageBackend: c.storageBackend,
		RunID:          c.runID,
	}
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
