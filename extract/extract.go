// Package extract pulls machine-code payloads out of .tap containers.
//
// Extract drives a two-state automaton over the classified block stream:
// a Code header arms it, and the block immediately after is either the
// Data block that becomes an artifact or an ordinary block that is processed
// as if no header had been seen. Everything else is only reported.
package extract

import (
	"context"
	"errors"
	"io"

	"github.com/opencontainers/go-digest"

	"github.com/doraemoncito/tap2bin/log"
	"github.com/doraemoncito/tap2bin/metrics"
	"github.com/doraemoncito/tap2bin/store"
	"github.com/doraemoncito/tap2bin/tap"
	"github.com/doraemoncito/tap2bin/types"
)

// Config holds the collaborators of one Extract call.
type Config struct {
	// Source names the input in the summary and observer events.
	Source string
	// BaseName is the stem used to name artifacts (required).
	BaseName string
	// Writer persists artifacts (required).
	Writer store.FileWriter
	// Observer receives progress events. Nil means NopObserver.
	Observer Observer
	// Logger receives diagnostics. Nil means a no-op logger.
	Logger *log.Logger
	// Metrics accumulates counters. Nil disables counting.
	Metrics *metrics.Collector
}

type state int

const (
	expectAnyBlock state = iota
	expectPairedData
)

type extractor struct {
	cfg     Config
	obs     Observer
	logger  *log.Logger
	summary *types.Summary

	state   state
	pending tap.Header
	// pendingIndex is the block index of pending.
	pendingIndex int
}

// Extract decodes the container read from r and persists every Code header +
// Data pair through cfg.Writer. The writer is prepared before the first block
// is read, so the destination exists even when nothing is extracted.
//
// The returned error is nil for every well-formed or truncated stream; it is
// an ErrInput for a read failure and an ErrOutput for a write failure.
func Extract(ctx context.Context, r io.Reader, cfg Config) (*types.Summary, error) {
	if cfg.Writer == nil {
		return nil, ErrOutput.New("no writer configured")
	}
	if cfg.BaseName == "" {
		return nil, ErrOutput.New("empty artifact base name")
	}

	x := &extractor{
		cfg:    cfg,
		obs:    cfg.Observer,
		logger: cfg.Logger,
		summary: &types.Summary{
			Source:    cfg.Source,
			BaseName:  cfg.BaseName,
			Artifacts: []types.Artifact{},
		},
	}
	if x.obs == nil {
		x.obs = NopObserver{}
	}
	if x.logger == nil {
		x.logger = log.NewNop()
	}

	if err := cfg.Writer.Prepare(ctx); err != nil {
		return nil, ErrOutput.Wrap(err)
	}
	return x.run(ctx, tap.NewBlockReader(r))
}

func (x *extractor) run(ctx context.Context, br *tap.BlockReader) (*types.Summary, error) {
	x.obs.OnStart(x.summary.Source, x.summary.BaseName)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, ok := br.Next()
		if !ok {
			break
		}
		x.summary.TotalBlocks++
		index := x.summary.TotalBlocks
		block := tap.Classify(raw)
		x.count(block)

		ev := BlockEvent{Index: index, Offset: br.Offset(), Block: block}

		if x.state == expectPairedData {
			x.state = expectAnyBlock
			if data, ok := block.(tap.Data); ok {
				ev.Paired = true
				x.obs.OnBlock(ev)
				if err := x.emit(ctx, data, index); err != nil {
					return nil, err
				}
				continue
			}
			x.unpaired()
		}

		x.obs.OnBlock(ev)
		x.visit(ev)
	}

	if err := br.Err(); err != nil {
		return nil, ErrInput.Wrap(err)
	}
	if x.state == expectPairedData {
		x.unpaired()
	}

	x.summary.End = br.End()
	if x.summary.End.IsTruncated() {
		declared, available := br.Truncation()
		x.cfg.Metrics.IncTruncated()
		x.logger.Warn("stream truncated", map[string]any{
			"reason":    string(x.summary.End),
			"offset":    br.Consumed(),
			"declared":  declared,
			"available": available,
		})
	}

	if x.cfg.Metrics != nil {
		snap := x.cfg.Metrics.Snapshot()
		x.summary.Metrics = &snap
	}
	x.obs.OnEnd(x.summary)
	return x.summary, nil
}

// visit handles a block outside of a pairing.
func (x *extractor) visit(ev BlockEvent) {
	switch b := ev.Block.(type) {
	case tap.Header:
		if b.IsCode() {
			x.pending = b
			x.pendingIndex = ev.Index
			x.state = expectPairedData
		}
	case tap.Data:
		x.cfg.Metrics.IncUnpairedData()
	case tap.Unrecognized:
		x.logger.Debug("unrecognized block", map[string]any{
			"index":  ev.Index,
			"offset": ev.Offset,
			"size":   b.Size(),
			"reason": b.Reason.String(),
		})
	}
}

func (x *extractor) unpaired() {
	x.summary.UnpairedHeaders++
	x.cfg.Metrics.IncUnpairedHeader()
	x.logger.Info("code header without data block", map[string]any{
		"index": x.pendingIndex,
		"name":  x.pending.Name,
	})
	x.obs.OnUnpaired(x.pendingIndex, x.pending)
}

// emit turns the pending Code header and data into an artifact and writes it.
func (x *extractor) emit(ctx context.Context, data tap.Data, index int) error {
	h := x.pending
	if int(h.DataLength) != len(data.Payload) {
		x.logger.Debug("declared length differs from payload", map[string]any{
			"index":    index,
			"declared": h.DataLength,
			"payload":  len(data.Payload),
		})
	}

	ordinal := len(x.summary.Artifacts) + 1
	a := types.Artifact{
		Name:           ArtifactName(x.cfg.BaseName, ordinal),
		LoadAddress:    h.LoadAddress(),
		Param2:         h.Param2,
		HeaderName:     h.Name,
		DeclaredLength: h.DataLength,
		Size:           len(data.Payload),
		BlockIndex:     index,
		Digest:         digest.FromBytes(data.Payload),
		Payload:        data.Payload,
	}

	loc, err := x.cfg.Writer.PutFile(ctx, a.Name, a.Payload)
	if err != nil {
		x.cfg.Metrics.IncWriteFailure()
		return ErrOutput.Wrap(err)
	}
	x.cfg.Metrics.IncWriteSuccess()
	x.cfg.Metrics.AddArtifact(a.Size)

	a.Location = loc
	x.summary.Artifacts = append(x.summary.Artifacts, a)
	x.obs.OnArtifact(a)
	return nil
}

func (x *extractor) count(block tap.Block) {
	x.cfg.Metrics.IncBlock(block.Kind())
	if h, ok := block.(tap.Header); ok {
		x.cfg.Metrics.IncHeader(h.Subtype.String())
	}
}

// IsInputError reports whether err is an input failure.
func IsInputError(err error) bool { return ErrInput.Has(err) }

// IsOutputError reports whether err is an output failure.
func IsOutputError(err error) bool { return ErrOutput.Has(err) }

// isCanceled reports whether err is a context cancellation.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
