package main

import (
	"github.com/urfave/cli/v2"

	"github.com/kedarbellare/lore/internal/logging"
	"github.com/kedarbellare/lore/pkg/lore/corpus"
)

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "convert a tree of NITF (NYT corpus) articles to plain text",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "directory of .xml articles", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "directory for .txt output", Required: true},
		},
		Action: func(c *cli.Context) error {
			res, err := corpus.ConvertTree(c.Context, c.String("input"), c.String("output"))
			if err != nil {
				return err
			}
			logging.Info("conversion finished", "converted", res.Converted, "skipped", res.Skipped)
			return nil
		},
	}
}
