package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/doraemoncito/tap2bin/cli/config"
	"github.com/doraemoncito/tap2bin/cli/render"
	"github.com/doraemoncito/tap2bin/store"
)

// CatalogCommand returns the catalog command with subcommands.
// Catalog commands are read-only views over past decodes recorded with
// --catalog.
func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Query the catalog of extracted files",
		Subcommands: []*cli.Command{
			catalogListCommand(),
			catalogStatsCommand(),
		},
	}
}

func catalogFlags() []cli.Flag {
	return append(ReadOnlyFlags(),
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to tap2bin.yaml config file (provides catalog)",
		},
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Catalog directory",
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "Only show entries for this input name",
		},
	)
}

func catalogListCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List recorded artifacts",
		Flags:  catalogFlags(),
		Action: catalogListAction,
	}
}

func catalogStatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show per-input totals of recorded artifacts",
		Flags:  catalogFlags(),
		Action: catalogStatsAction,
	}
}

// readCatalog resolves the catalog location and lists its entries.
func readCatalog(c *cli.Context) ([]store.CatalogEntry, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Error: %v", err), exitFailure)
	}
	dir := resolveString(c, "catalog", configVal(cfg, func(c *config.Config) string { return c.Catalog }))
	if dir == "" {
		return nil, cli.Exit("--catalog is required (or set catalog in the config file)", exitFailure)
	}

	cat, err := store.NewCatalogFS(dir)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Error: %v", err), exitFailure)
	}
	entries, err := cat.List(c.Context, c.String("source"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Error: failed to read catalog: %v", err), exitFailure)
	}
	if entries == nil {
		entries = []store.CatalogEntry{}
	}
	return entries, nil
}

func catalogListAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for catalog commands", exitFailure)
	}

	entries, err := readCatalog(c)
	if err != nil {
		return err
	}
	return r.Render(entries)
}

func catalogStatsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for catalog commands", exitFailure)
	}

	entries, err := readCatalog(c)
	if err != nil {
		return err
	}
	return r.Render(store.Stats(entries))
}
