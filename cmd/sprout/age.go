package main

import (
	"fmt"
	"time"

	"github.com/sprouthq/sprout/pkg/age"
	"github.com/urfave/cli/v2"
)

func ageCmd() *cli.Command {
	return &cli.Command{
		Name:  "age",
		Usage: "Convert a birth date to age in whole months",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "birth", Aliases: []string{"b"}, Required: true, Usage: "birth date YYYY-MM-DD"},
			&cli.StringFlag{Name: "on", Usage: "reference date YYYY-MM-DD (defaults to today)"},
		},
		Action: func(c *cli.Context) error {
			birth, err := age.ParseDate(c.String("birth"))
			if err != nil {
				return err
			}
			on := time.Now()
			if s := c.String("on"); s != "" {
				on, err = age.ParseDate(s)
				if err != nil {
					return err
				}
			}
			fmt.Println(age.Months(birth, on))
			return nil
		},
	}
}
