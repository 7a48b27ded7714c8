package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/doraemoncito/tap2bin/cli/render"
	"github.com/doraemoncito/tap2bin/cli/tui"
	"github.com/doraemoncito/tap2bin/extract"
)

// InspectCommand returns the inspect command.
// Inspect lists every block of one input without writing anything.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "List the blocks of a .tap file",
		ArgsUsage: "<input-file>",
		Flags:     ReadOnlyFlags(),
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("input file required", exitFailure)
	}
	input := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	resp, err := extract.Inspect(c.Context, input)
	if err != nil {
		return cli.Exit(describeError(input, err), exitFailure)
	}

	// Handle TUI mode
	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewInspectBlocks, resp)
	}

	// Tables show the block rows; structured formats carry the whole listing.
	if r.Format() == render.FormatTable {
		if err := r.Render(resp.Blocks); err != nil {
			return err
		}
		_, err := fmt.Fprintf(outWriter(c), "\nend: %s\n", resp.End)
		return err
	}
	return r.Render(resp)
}
