package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/doraemoncito/tap2bin/extract"
	"github.com/doraemoncito/tap2bin/report"
)

// BatchCommand returns the batch command.
func BatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Extract machine code blocks from several .tap files concurrently",
		ArgsUsage: "<input-file>...",
		Flags: append(DecodeFlags(),
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Maximum concurrent decodes (0 = number of CPUs)",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Write every input's files here instead of next to the input",
			},
		),
		Action: batchAction,
	}
}

func batchAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("at least one input file required (usage: tap2bin batch <input-file>...)", exitFailure)
	}
	paths := c.Args().Slice()

	s, err := resolveSettings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFailure)
	}
	catalog, err := s.openCatalog()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFailure)
	}

	ctx, cancel := s.context(c.Context)
	defer cancel()

	// Progress of each file is buffered and printed in input order.
	progress := make([]bytes.Buffer, len(paths))
	start := time.Now()
	results, runErr := extract.DecodeAll(ctx, paths, s.jobs, func(i int, _ string) extract.FileOptions {
		return s.fileOptions(s.outputDir, catalog, s.observer(&progress[i]), errWriter(c))
	})
	elapsed := time.Since(start)

	out := outWriter(c)
	failed := 0
	for i, r := range results {
		if _, err := progress[i].WriteTo(out); err != nil {
			return err
		}
		if r.Err != nil {
			failed++
		}
	}
	if !s.quiet {
		report.WriteBatchSummary(out, results, s.noColor)
	}

	if s.report != "" {
		reports := make([]*report.RunReport, len(results))
		for i, r := range results {
			reports[i] = report.BuildRunReport(r.Path, r.Summary, r.Err, exitCodeFor(r.Err), elapsed)
		}
		if werr := report.WriteJSON(reports, s.report); werr != nil {
			fmt.Fprintf(errWriter(c), "Warning: %v\n", werr)
		}
	}

	if runErr != nil {
		for _, r := range results {
			if r.Err == runErr {
				return cli.Exit(describeError(r.Path, r.Err), exitFailure)
			}
		}
		return cli.Exit(fmt.Sprintf("Error: %v", runErr), exitFailure)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("Error: %d of %d inputs failed", failed, len(results)), exitFailure)
	}
	return nil
}
