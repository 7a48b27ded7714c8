package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/doraemoncito/tap2bin/metrics"
	"github.com/doraemoncito/tap2bin/types"
)

// Outcome values of a run report.
const (
	OutcomeSuccess     = "success"
	OutcomeNoArtifacts = "no_artifacts"
	OutcomeFailed      = "failed"
)

// RunReport is the structured JSON report written by --report.
type RunReport struct {
	Source     string `json:"source"`
	RunID      string `json:"run_id,omitempty"`
	Outcome    string `json:"outcome"`
	Message    string `json:"message,omitempty"`
	ExitCode   int    `json:"exit_code"`
	DurationMs int64  `json:"duration_ms"`

	BaseName        string          `json:"base_name,omitempty"`
	Output          string          `json:"output,omitempty"`
	TotalBlocks     int             `json:"total_blocks"`
	UnpairedHeaders int             `json:"unpaired_headers"`
	End             types.EndReason `json:"end,omitempty"`
	Manifest        string          `json:"manifest,omitempty"`

	Artifacts []types.Artifact  `json:"artifacts"`
	Bytes     int64             `json:"bytes"`
	Metrics   *metrics.Snapshot `json:"metrics,omitempty"`
}

// BuildRunReport composes a RunReport for one input. s may be nil when the
// decode failed; err is then reported as the message.
func BuildRunReport(source string, s *types.Summary, err error, exitCode int, d time.Duration) *RunReport {
	r := &RunReport{
		Source:     source,
		ExitCode:   exitCode,
		DurationMs: d.Milliseconds(),
		Artifacts:  []types.Artifact{},
	}

	switch {
	case err != nil:
		r.Outcome = OutcomeFailed
		r.Message = err.Error()
	case s == nil || len(s.Artifacts) == 0:
		r.Outcome = OutcomeNoArtifacts
		r.Message = "no machine code blocks found"
	default:
		r.Outcome = OutcomeSuccess
	}

	if s != nil {
		r.RunID = s.RunID
		r.BaseName = s.BaseName
		r.Output = s.Output
		r.TotalBlocks = s.TotalBlocks
		r.UnpairedHeaders = s.UnpairedHeaders
		r.End = s.End
		r.Manifest = s.Manifest
		r.Artifacts = append(r.Artifacts, s.Artifacts...)
		r.Bytes = s.TotalBytes()
		r.Metrics = s.Metrics
	}
	return r
}

// WriteJSON writes v as indented JSON to path. If path is "-", writes to stderr.
func WriteJSON(v any, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}
	if path == "-" {
		if err := writeJSONTo(v, os.Stderr); err != nil {
			return fmt.Errorf("failed to write report to stderr: %w", err)
		}
		return nil
	}

	data, err := marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// writeJSONTo writes v as JSON to any writer.
func writeJSONTo(v any, w io.Writer) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}
