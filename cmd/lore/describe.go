package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kedarbellare/lore/internal/source"
	"github.com/kedarbellare/lore/pkg/lore"
)

func describeCommand() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "print every clustered mention with its head and dependencies",
		Flags: append(inputFlags(), &cli.BoolFlag{
			Name:  "walks",
			Usage: "also print the unlabeled walks between mentions of eligible entities",
		}),
		Action: func(c *cli.Context) error {
			comp, err := loadComponents(c)
			if err != nil {
				return err
			}
			inputs, err := source.Load(c.String("input"), c.String("ext"))
			if err != nil {
				return fmt.Errorf("load inputs: %w", err)
			}

			l := lore.New(lore.Options{Annotator: comp.Annotator, Assembler: comp.Assembler})
			for _, in := range inputs {
				lines, err := l.Describe(c.Context, in, c.Bool("walks"))
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "# %s\n", in.ID)
				for _, line := range lines {
					fmt.Fprintln(c.App.Writer, line)
				}
			}
			return nil
		},
	}
}
