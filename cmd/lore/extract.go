package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kedarbellare/lore/internal/logging"
	"github.com/kedarbellare/lore/internal/source"
	"github.com/kedarbellare/lore/pkg/lore"
	"github.com/kedarbellare/lore/pkg/lore/batch"
	"github.com/kedarbellare/lore/pkg/lore/config"
	"github.com/kedarbellare/lore/pkg/lore/pattern"
	"github.com/kedarbellare/lore/pkg/lore/store"
	"github.com/kedarbellare/lore/pkg/lore/store/sqlite"
	"github.com/kedarbellare/lore/pkg/lore/store/tsv"
)

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "document directory, JSONL file of {id,text} lines, or single file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ext",
			Value: ".txt",
			Usage: "file extension to pick up when --input is a directory",
		},
		&cli.BoolFlag{
			Name:  "precomputed",
			Usage: "inputs are CoreNLP JSON rather than raw text",
		},
		&cli.StringFlag{
			Name:  "corenlp",
			Usage: "CoreNLP server URL",
		},
	}
}

func extractCommand(name, usage string) *cli.Command {
	kind := pattern.Kind(name)
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: append(inputFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "TSV output file (default stdout)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database to store the run in instead of TSV output",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "documents processed concurrently (0 = one per CPU)",
			},
			&cli.BoolFlag{
				Name:  "exploded",
				Usage: "one record per mention (pair) instead of per entity (pair)",
			},
			&cli.BoolFlag{
				Name:  "unlabeled",
				Usage: "drop dependency labels from entity contexts",
			},
			&cli.IntFlag{
				Name:  "max-path-length",
				Usage: "longest dependency walk between two mentions, in edges",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a progress bar",
			},
		),
		Action: func(c *cli.Context) error {
			return runExtract(c, kind)
		},
	}
}

// loadComponents reads the configuration file and applies command-line
// overrides.
func loadComponents(c *cli.Context) (*config.Components, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("corenlp") {
		cfg.CoreNLP.URL = c.String("corenlp")
	}
	if c.IsSet("precomputed") {
		cfg.CoreNLP.Precomputed = c.Bool("precomputed")
	}
	if c.IsSet("workers") {
		cfg.Batch.Workers = c.Int("workers")
	}
	if c.IsSet("progress") {
		cfg.Batch.Progress = c.Bool("progress")
	}
	if c.IsSet("exploded") {
		mode := pattern.ModeAggregated
		if c.Bool("exploded") {
			mode = pattern.ModeExploded
		}
		cfg.Extract.EntityMode = string(mode)
		cfg.Extract.RelationMode = string(mode)
	}
	if c.IsSet("unlabeled") {
		cfg.Extract.Labeled = !c.Bool("unlabeled")
	}
	if c.IsSet("max-path-length") {
		cfg.Extract.MaxPathLength = c.Int("max-path-length")
	}
	comp, err := config.Build(cfg)
	if err != nil {
		return nil, err
	}
	logging.Debug("extraction configured",
		"ignored_ners", strings.Join(comp.Filter.Ignored(), ","),
		"max_path", comp.Walker.MaxLength(),
		"labeled", cfg.Extract.Labeled)
	return comp, nil
}

func openSink(c *cli.Context) (store.Sink, error) {
	output, db := c.String("output"), c.String("db")
	switch {
	case output != "" && db != "":
		return nil, fmt.Errorf("--output and --db are mutually exclusive")
	case db != "":
		return sqlite.OpenSQLite(c.Context, db)
	case output != "":
		return tsv.Create(output)
	}
	return tsv.New(c.App.Writer), nil
}

func runExtract(c *cli.Context, kind pattern.Kind) error {
	comp, err := loadComponents(c)
	if err != nil {
		return err
	}

	inputs, err := source.Load(c.String("input"), c.String("ext"))
	if err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}
	logging.Info("loaded documents", "count", len(inputs), "input", c.String("input"))

	sink, err := openSink(c)
	if err != nil {
		return err
	}
	defer sink.Close()

	mode := comp.Config.Extract.EntityMode
	if kind == pattern.KindRelations {
		mode = comp.Config.Extract.RelationMode
	}
	driver := &batch.Driver{
		Processor: lore.New(lore.Options{Annotator: comp.Annotator, Assembler: comp.Assembler}),
		Sink:      sink,
		Workers:   comp.Config.Batch.Workers,
		Mode:      mode,
	}
	if comp.Config.Batch.Progress {
		driver.Progress = c.App.ErrWriter
	}

	stats, err := driver.Run(c.Context, inputs, kind)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		logging.Warn("some documents failed", "failed", stats.Failed, "docs", stats.Docs)
	}
	return sink.Close()
}
