package report

import (
	"fmt"
	"io"

	"github.com/doraemoncito/tap2bin/extract"
)

// WriteBatchSummary prints one line per file and the batch totals.
func WriteBatchSummary(w io.Writer, results []extract.Result, noColor bool) {
	st := newStyles(w, noColor)
	var files, artifacts int
	var bytes int64

	_, _ = fmt.Fprintf(w, "%s\n", st.title.Render(fmt.Sprintf("Batch summary (%d files)", len(results))))
	for _, r := range results {
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(w, "  %s %s: %v\n", st.warning.Render("✗"), r.Path, r.Err)
		case len(r.Summary.Artifacts) == 0:
			files++
			_, _ = fmt.Fprintf(w, "  %s %s: no machine code\n", st.warning.Render("⚠"), r.Path)
		default:
			files++
			artifacts += len(r.Summary.Artifacts)
			bytes += r.Summary.TotalBytes()
			_, _ = fmt.Fprintf(w, "  %s %s: %d file(s), %s bytes\n", st.success.Render("✓"), r.Path,
				len(r.Summary.Artifacts), numbers.Sprintf("%d", r.Summary.TotalBytes()))
		}
	}
	_, _ = fmt.Fprintf(w, "  Decoded %d/%d inputs, %d artifact(s), %s bytes\n",
		files, len(results), artifacts, numbers.Sprintf("%d", bytes))
}
