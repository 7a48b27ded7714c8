// Package report renders decode progress and summaries for humans and
// writes machine-readable run reports.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/doraemoncito/tap2bin/extract"
	"github.com/doraemoncito/tap2bin/tap"
	"github.com/doraemoncito/tap2bin/types"
)

const ruleWidth = 70

// BenchmarkCommand is the downstream tool suggested for extracted files.
const BenchmarkCommand = "./z80_benchmark"

// numbers formats byte counts with thousands separators.
var numbers = message.NewPrinter(language.English)

// Text prints per-block progress and a final summary.
// It implements extract.Observer.
type Text struct {
	w  io.Writer
	st styles
}

// NewText returns a reporter writing to w.
func NewText(w io.Writer, noColor bool) *Text {
	return &Text{w: w, st: newStyles(w, noColor)}
}

// OnStart implements extract.Observer.
func (t *Text) OnStart(source, _ string) {
	t.rule()
	t.printf("%s %s\n", t.st.title.Render("Processing:"), source)
	t.rule()
}

// OnBlock implements extract.Observer.
func (t *Text) OnBlock(ev extract.BlockEvent) {
	switch b := ev.Block.(type) {
	case tap.Header:
		t.printf("\n%s\n", t.st.title.Render(fmt.Sprintf("Block %d: Header", ev.Index)))
		t.field("Type", b.Subtype.String())
		t.field("Name", "'"+b.Name+"'")
		t.field("Data length", fmt.Sprintf("%d bytes", b.DataLength))
		switch b.Subtype {
		case tap.SubtypeCode:
			t.field("Load address", fmt.Sprintf("0x%04X", b.LoadAddress()))
			t.field("Param2", fmt.Sprintf("0x%04X", b.Param2))
		case tap.SubtypeBASIC:
			t.field("Auto-start line", fmt.Sprintf("%d", b.AutoStartLine()))
			t.field("Variables offset", fmt.Sprintf("%d", b.VariablesOffset()))
		}
	case tap.Data:
		if !ev.Paired {
			t.printf("\n%s\n", t.st.title.Render(fmt.Sprintf("Block %d: Data block (%d bytes)", ev.Index, len(b.Payload))))
		}
	case tap.Unrecognized:
		t.printf("\n%s\n", t.st.muted.Render(fmt.Sprintf("Block %d: Unrecognized (%s, %d bytes)", ev.Index, b.Reason, b.Size())))
	}
}

// OnArtifact implements extract.Observer.
func (t *Text) OnArtifact(a types.Artifact) {
	t.printf("\n  %s\n", t.st.success.Render(fmt.Sprintf("✓ Extracted %s bytes to: %s", numbers.Sprintf("%d", a.Size), artifactPath(a))))
	t.printf("    Load address: 0x%04X\n", a.LoadAddress)
}

// OnUnpaired implements extract.Observer.
func (t *Text) OnUnpaired(index int, h tap.Header) {
	t.printf("  %s\n", t.st.warning.Render(fmt.Sprintf("! Code header '%s' (block %d) is not followed by a data block", h.Name, index)))
}

// OnEnd implements extract.Observer.
func (t *Text) OnEnd(s *types.Summary) {
	t.printf("\n")
	t.rule()
	t.printf("%s\n", t.st.title.Render("Summary for "+s.BaseName+":"))
	t.printf("  Total blocks processed: %d\n", s.TotalBlocks)
	t.printf("  Machine code files extracted: %d\n", len(s.Artifacts))
	if s.UnpairedHeaders > 0 {
		t.printf("  Code headers without data: %d\n", s.UnpairedHeaders)
	}
	if s.End.IsTruncated() {
		t.printf("  %s\n", t.st.warning.Render("Stream truncated ("+strings.ReplaceAll(string(s.End), "_", " ")+")"))
	}

	if len(s.Artifacts) > 0 {
		t.printf("\n  Extracted files:\n")
		for _, a := range s.Artifacts {
			t.printf("    - %s (%s bytes)\n", a.Name, numbers.Sprintf("%d", a.Size))
		}
	} else {
		t.printf("  %s\n", t.st.warning.Render("⚠ No machine code blocks found"))
	}
	t.rule()

	if len(s.Artifacts) > 0 {
		t.printf("\n%s\n", t.st.success.Render("✓ Extraction successful!"))
		t.printf("\nYou can now benchmark with:\n")
		for _, a := range s.Artifacts {
			t.printf("  %s %s\n", BenchmarkCommand, artifactPath(a))
		}
	} else {
		t.printf("\n%s\n", t.st.warning.Render("⚠ No machine code found in TAP file"))
		t.printf("This TAP file may only contain BASIC code\n")
	}
}

// artifactPath is where the artifact was written, falling back to its name
// when the writer reported no location.
func artifactPath(a types.Artifact) string {
	if a.Location != "" {
		return a.Location
	}
	return a.Name
}

func (t *Text) field(label, value string) {
	t.printf("  %s %s\n", t.st.label.Render(label+":"), value)
}

func (t *Text) rule() {
	t.printf("%s\n", t.st.muted.Render(strings.Repeat("=", ruleWidth)))
}

// printf writes to the output. Progress output is best effort.
func (t *Text) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.w, format, args...)
}

// Quiet suppresses all progress output.
type Quiet struct {
	extract.NopObserver
}

var (
	_ extract.Observer = (*Text)(nil)
	_ extract.Observer = Quiet{}
)
