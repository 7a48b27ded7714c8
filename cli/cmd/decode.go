package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/doraemoncito/tap2bin/extract"
	"github.com/doraemoncito/tap2bin/report"
)

// DecodeCommand returns the decode command.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Extract machine code blocks from a .tap file",
		ArgsUsage: "<input-file> [output-dir]",
		Flags:     DecodeFlags(),
		Action:    DecodeAction,
	}
}

// DecodeAction decodes <input-file> into [output-dir]. It reads the flags
// returned by DecodeFlags, so it can also serve as an App action.
func DecodeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("input file required (usage: tap2bin decode <input-file> [output-dir])", exitFailure)
	}
	if c.NArg() > 2 {
		return cli.Exit(fmt.Sprintf("too many arguments: %d (want <input-file> [output-dir])", c.NArg()), exitFailure)
	}
	input := c.Args().Get(0)

	s, err := resolveSettings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFailure)
	}
	outputDir := s.outputDir
	if dir := c.Args().Get(1); dir != "" {
		outputDir = dir
	}

	catalog, err := s.openCatalog()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFailure)
	}

	ctx, cancel := s.context(c.Context)
	defer cancel()

	start := time.Now()
	opts := s.fileOptions(outputDir, catalog, s.observer(outWriter(c)), errWriter(c))
	summary, err := extract.DecodeFile(ctx, input, opts)
	code := exitCodeFor(err)

	if s.report != "" {
		rep := report.BuildRunReport(input, summary, err, code, time.Since(start))
		if werr := report.WriteJSON(rep, s.report); werr != nil {
			fmt.Fprintf(errWriter(c), "Warning: %v\n", werr)
		}
	}

	if err != nil {
		return cli.Exit(describeError(input, err), code)
	}
	return nil
}

// exitCodeFor maps a decode error to the process exit code. Zero artifacts
// is not an error.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}
	return exitFailure
}

// describeError renders a decode failure for the terminal.
func describeError(input string, err error) string {
	if extract.IsInputError(err) && errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("Error: File not found: %s", input)
	}
	return fmt.Sprintf("Error: %v", err)
}

