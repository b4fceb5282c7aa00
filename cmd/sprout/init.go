package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/sprouthq/sprout/pkg/config"
	"github.com/urfave/cli/v2"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default sprout.toml configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "sprout.toml",
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: func(c *cli.Context) error {
			outputPath := c.String("output")
			if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
				return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
			}
			if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create directory %q: %w", dir, err)
				}
			}

			content, err := toml.Marshal(config.DefaultConfig())
			if err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, content, 0o644); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}

			color.Green("Created %s", outputPath)
			fmt.Println("Edit this file, then run: sprout build <csv-dir> && sprout serve")
			return nil
		},
	}
}
