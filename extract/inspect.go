package extract

import (
	"context"
	"io"

	"github.com/doraemoncito/tap2bin/iox"
	"github.com/doraemoncito/tap2bin/tap"
	"github.com/doraemoncito/tap2bin/types"
)

// Notes attached to inspected blocks.
const (
	NoteCodePayload = "code payload"
	NoteUnpaired    = "unpaired code header"
)

// Inspect lists the blocks of the container at path without writing anything.
func Inspect(ctx context.Context, path string) (*types.Inspection, error) {
	in, err := iox.OpenInput(path)
	if err != nil {
		return nil, ErrInput.Wrap(err)
	}
	defer iox.DiscardClose(in)
	return InspectReader(ctx, in, path)
}

// InspectReader lists the blocks read from r. Blocks are annotated the way
// Extract would treat them.
func InspectReader(ctx context.Context, r io.Reader, source string) (*types.Inspection, error) {
	br := tap.NewBlockReader(r)
	out := &types.Inspection{Source: source, Blocks: []types.BlockInfo{}}
	pendingCode := -1

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, ok := br.Next()
		if !ok {
			break
		}

		info := describe(tap.Classify(raw), len(out.Blocks)+1, br.Offset())
		if pendingCode >= 0 {
			if info.Kind == "data" {
				info.Note = NoteCodePayload
			} else {
				out.Blocks[pendingCode].Note = NoteUnpaired
			}
			pendingCode = -1
		}
		out.Blocks = append(out.Blocks, info)
		if info.Kind == "header" && info.Subtype == tap.SubtypeCode.String() {
			pendingCode = len(out.Blocks) - 1
		}
	}
	if err := br.Err(); err != nil {
		return nil, ErrInput.Wrap(err)
	}
	if pendingCode >= 0 {
		out.Blocks[pendingCode].Note = NoteUnpaired
	}
	out.End = br.End()
	return out, nil
}

func describe(block tap.Block, index int, offset int64) types.BlockInfo {
	info := types.BlockInfo{
		Index:  index,
		Offset: offset,
		Length: block.Size(),
		Kind:   block.Kind(),
	}
	switch b := block.(type) {
	case tap.Header:
		info.Subtype = b.Subtype.String()
		info.Name = b.Name
		info.DataLength = b.DataLength
		info.Param1 = b.Param1
		info.Param2 = b.Param2
	case tap.Data:
		info.PayloadSize = len(b.Payload)
	case tap.Unrecognized:
		info.Note = b.Reason.String()
	}
	return info
}
