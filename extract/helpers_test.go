package extract

import (
	"fmt"

	"github.com/doraemoncito/tap2bin/tap"
	"github.com/doraemoncito/tap2bin/types"
)

// recorder is an Observer that records events as short strings.
type recorder struct {
	events  []string
	summary *types.Summary
}

func (r *recorder) OnStart(source, base string) {
	r.events = append(r.events, fmt.Sprintf("start %s", base))
}

func (r *recorder) OnBlock(ev BlockEvent) {
	s := fmt.Sprintf("block %d %s", ev.Index, ev.Block.Kind())
	if ev.Paired {
		s += " paired"
	}
	r.events = append(r.events, s)
}

func (r *recorder) OnArtifact(a types.Artifact) {
	r.events = append(r.events, "artifact "+a.Name)
}

func (r *recorder) OnUnpaired(index int, h tap.Header) {
	r.events = append(r.events, fmt.Sprintf("unpaired %d %s", index, h.Name))
}

func (r *recorder) OnEnd(s *types.Summary) {
	r.summary = s
	r.events = append(r.events, "end")
}

var _ Observer = (*recorder)(nil)

// failingReader returns data and then err.
type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}
