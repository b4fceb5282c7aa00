package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sprouthq/sprout/internal/progress"
	"github.com/sprouthq/sprout/pkg/reference"
	"github.com/urfave/cli/v2"
)

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Build a reference dataset from growth-table CSV files",
		ArgsUsage: "<csv-dir>",
		Description: `Ingests CSV files named <sex>_<measurement>.csv (for example
male_height.csv) with columns age_months,l,m,s, validates every row, and
writes a checksummed dataset file. A single malformed row fails the build.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "growth-reference.json",
				Usage:   "Output dataset path",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one argument: the CSV directory")
			}
			dir := c.Args().First()

			sources, err := reference.DiscoverSources(dir)
			if err != nil {
				return err
			}

			tracker := progress.NewTracker("Parsing reference tables", len(sources))
			builder := reference.NewBuilder(reference.WithProgress(tracker.Tick))
			rows, err := builder.Build(sources)
			tracker.Finish()
			if err != nil {
				return err
			}

			// Publishing through NewTable before writing catches duplicate
			// keys across files, not just within one.
			table, err := reference.NewTable(rows)
			if err != nil {
				return err
			}

			output := c.String("output")
			if err := reference.WriteDataset(output, rows); err != nil {
				return err
			}

			color.Green("Wrote %s", output)
			fmt.Printf("%d rows across %d series:\n", table.Len(), len(table.Series()))
			for _, sk := range table.Series() {
				minAge, maxAge, _ := table.AgeRange(sk.Sex, sk.Measurement)
				fmt.Printf("  %s/%s: months %d-%d\n", sk.Sex, sk.Measurement, minAge, maxAge)
			}
			return nil
		},
	}
}
