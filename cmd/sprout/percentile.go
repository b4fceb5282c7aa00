package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sprouthq/sprout/pkg/age"
	"github.com/sprouthq/sprout/pkg/lms"
	"github.com/sprouthq/sprout/pkg/reference"
	"github.com/urfave/cli/v2"
)

func percentileCmd() *cli.Command {
	return &cli.Command{
		Name:    "percentile",
		Aliases: []string{"pct"},
		Usage:   "Compute a growth percentile for one measurement",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sex", Aliases: []string{"s"}, Required: true, Usage: "male or female"},
			&cli.StringFlag{Name: "measurement", Aliases: []string{"m"}, Required: true, Usage: "height or weight"},
			&cli.Float64Flag{Name: "value", Aliases: []string{"v"}, Required: true, Usage: "measured value (cm or kg)"},
			&cli.IntFlag{Name: "age", Aliases: []string{"a"}, Value: -1, Usage: "age in months"},
			&cli.StringFlag{Name: "birth", Aliases: []string{"b"}, Usage: "birth date YYYY-MM-DD (alternative to --age)"},
			&cli.BoolFlag{Name: "json", Usage: "emit JSON instead of a table"},
		},
		Action: runPercentile,
	}
}

func runPercentile(c *cli.Context) error {
	sex, err := reference.ParseSex(c.String("sex"))
	if err != nil {
		return err
	}
	measurement, err := reference.ParseMeasurement(c.String("measurement"))
	if err != nil {
		return err
	}

	months := c.Int("age")
	if birth := c.String("birth"); birth != "" {
		b, err := age.ParseDate(birth)
		if err != nil {
			return err
		}
		months = age.Months(b, time.Now())
	}
	if months < 0 {
		return fmt.Errorf("provide --age in months or --birth YYYY-MM-DD")
	}

	table, err := loadTable(c)
	if err != nil {
		return err
	}
	engine := lms.New(table)

	value := c.Float64("value")
	pct, err := engine.Percentile(sex, measurement, months, value)
	if err != nil {
		return err
	}
	z, err := engine.ZScore(sex, measurement, months, value)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"sex":         sex,
			"measurement": measurement,
			"age_months":  months,
			"value":       value,
			"z_score":     z,
			"percentile":  pct,
		})
	}

	out := tablewriter.NewTable(os.Stdout)
	out.Header([]string{"Sex", "Measurement", "Age (months)", "Value", "Z-score", "Percentile"})
	out.Append([]string{
		string(sex),
		string(measurement),
		fmt.Sprintf("%d", months),
		fmt.Sprintf("%.1f", value),
		fmt.Sprintf("%.3f", z),
		fmt.Sprintf("%.2f", pct),
	})
	out.Render()
	return nil
}
