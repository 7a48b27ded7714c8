// Package main provides the tap2bin CLI entrypoint.
//
// tap2bin extracts the machine-code blocks of ZX Spectrum .tap files into
// raw binaries.
//
// Usage:
//
//	tap2bin <command> [subcommand] [options]
//	tap2bin <input-file> [output-dir]   (same as decode)
//
// Exit codes:
//   - 0: success, including inputs without machine code
//   - 1: missing input, invalid flags or an I/O failure
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/doraemoncito/tap2bin/cli/cmd"
	"github.com/doraemoncito/tap2bin/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

// Replaced in tests.
var (
	osExit           = os.Exit
	stderr io.Writer = os.Stderr
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		osExit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "tap2bin",
		Usage:          "Extract machine code from ZX Spectrum .tap files",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ArgsUsage:      "<input-file> [output-dir]",
		Flags:          cmd.DecodeFlags(),
		Action:         defaultAction,
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.DecodeCommand(),
			cmd.BatchCommand(),
			cmd.InspectCommand(),
			cmd.CatalogCommand(),
			cmd.VersionCommand(commit),
		},
	}
}

// defaultAction runs decode when the first argument is not a command name,
// so "tap2bin game.tap out/" behaves like "tap2bin decode game.tap out/".
func defaultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return cmd.DecodeAction(c)
}

// exitErrHandler handles errors from the CLI, preserving exit codes from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	// Check for ExitCoder (from cli.Exit), handles wrapped errors
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N", so skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(stderr, msg)
		}
		osExit(code)
		return
	}

	// Unexpected error - print and exit with code 1
	fmt.Fprintf(stderr, "Error: %v\n", err)
	osExit(1)
}
