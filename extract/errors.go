package extract

import "github.com/zeebo/errs"

// Error classes for failures at the I/O boundary. In-stream anomalies
// (truncation, malformed or unpaired blocks) are never errors.
var (
	// ErrInput wraps failures to open or read the container.
	ErrInput = errs.Class("input")
	// ErrOutput wraps failures to create the destination or write artifacts.
	ErrOutput = errs.Class("output")
)
