package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/sprouthq/sprout/pkg/lms"
	"github.com/sprouthq/sprout/pkg/reference"
	"github.com/urfave/cli/v2"
)

// chartPercentiles are the curves growth charts conventionally draw.
var chartPercentiles = []float64{3, 5, 10, 25, 50, 75, 90, 95, 97}

func chartCmd() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "Show the reference percentile curve values for one age bucket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sex", Aliases: []string{"s"}, Required: true, Usage: "male or female"},
			&cli.StringFlag{Name: "measurement", Aliases: []string{"m"}, Required: true, Usage: "height or weight"},
			&cli.IntFlag{Name: "age", Aliases: []string{"a"}, Required: true, Usage: "age in months"},
		},
		Action: func(c *cli.Context) error {
			sex, err := reference.ParseSex(c.String("sex"))
			if err != nil {
				return err
			}
			measurement, err := reference.ParseMeasurement(c.String("measurement"))
			if err != nil {
				return err
			}
			months := c.Int("age")

			table, err := loadTable(c)
			if err != nil {
				return err
			}
			engine := lms.New(table)

			headers := make([]string, 0, len(chartPercentiles)+1)
			headers = append(headers, "Age (months)")
			row := make([]string, 0, len(chartPercentiles)+1)
			row = append(row, fmt.Sprintf("%d", months))
			for _, p := range chartPercentiles {
				headers = append(headers, fmt.Sprintf("P%g", p))
				v, err := engine.ValueAtPercentile(sex, measurement, months, p)
				if err != nil {
					return err
				}
				row = append(row, fmt.Sprintf("%.1f", v))
			}

			fmt.Printf("%s %s reference curve\n", sex, measurement)
			out := tablewriter.NewTable(os.Stdout)
			out.Header(headers)
			out.Append(row)
			out.Render()
			return nil
		},
	}
}
