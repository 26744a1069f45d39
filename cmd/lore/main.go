package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/kedarbellare/lore/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lore: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "lore",
		Usage:     "extract entity and relation patterns from coreference-annotated text",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"LORE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},
		Before: func(c *cli.Context) error {
			return logging.Init(c.App.ErrWriter, c.String("log-level"))
		},
		Commands: []*cli.Command{
			extractCommand("entities", "emit the dependency contexts of each entity"),
			extractCommand("relations", "emit the dependency walks between co-occurring entities"),
			describeCommand(),
			convertCommand(),
		},
	}
}
