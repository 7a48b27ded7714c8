package extract

import (
	"github.com/doraemoncito/tap2bin/tap"
	"github.com/doraemoncito/tap2bin/types"
)

// BlockEvent describes one classified block as it is visited.
type BlockEvent struct {
	// Index is the 1-based position of the block in the stream.
	Index int
	// Offset is the byte offset of the block's length prefix.
	Offset int64
	Block  tap.Block
	// Paired is set for a Data block consumed by the preceding Code header.
	Paired bool
}

// Observer receives progress while a container is decoded.
// Calls are made synchronously from the decoding goroutine, in stream order.
type Observer interface {
	OnStart(source, base string)
	OnBlock(ev BlockEvent)
	OnArtifact(a types.Artifact)
	// OnUnpaired is called for a Code header that was not immediately
	// followed by a Data block.
	OnUnpaired(index int, h tap.Header)
	OnEnd(s *types.Summary)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnStart(string, string) {}
func (NopObserver) OnBlock(BlockEvent) {}
func (NopObserver) OnArtifact(types.Artifact) {}
func (NopObserver) OnUnpaired(int, tap.Header) {}
func (NopObserver) OnEnd(*types.Summary) {}

var _ Observer = NopObserver{}
