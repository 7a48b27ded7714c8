// Package cmd provides CLI commands for the tap2bin binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml, msgpack.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml, msgpack",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for inspect.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect only)",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// DecodeFlags returns the flags shared by decode and batch. Every flag
// except --config has a tap2bin.yaml counterpart; flags win when set.
func DecodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to tap2bin.yaml config file",
		},
		&cli.BoolFlag{
			Name:  "manifest",
			Usage: "Write <name>.manifest.yaml next to the extracted files",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a JSON run report to this path (\"-\" for stderr)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress progress output",
		},
		NoColorFlag,
		&cli.StringFlag{
			Name:  "store",
			Usage: "Storage backend: fs, s3 or memory",
			Value: "fs",
		},
		&cli.StringFlag{
			Name:  "store-path",
			Usage: "Storage path (s3: bucket/prefix)",
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Usage: "AWS region for S3 backend (optional, uses default chain)",
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "Custom S3 endpoint URL (MinIO, R2, LocalStack)",
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "Use path-style S3 addressing",
		},
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Record extracted files in the catalog at this directory",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level for JSON logs on stderr: debug, info, warn, error",
			Value: "warn",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Abort decoding after this long (0 = no limit)",
		},
	}
}
