package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	app := &cli.App{
		Name:    "sprout",
		Usage:   "Child growth percentiles from LMS reference tables",
		Version: version,
		Description: `Sprout computes child growth percentiles (height, weight) against
LMS growth-reference tables, and serves them over a chat webhook, an MCP
server, or directly from the command line.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SPROUT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Path to the built reference dataset (overrides config)",
				EnvVars: []string{"SPROUT_DATASET"},
			},
		},
		Commands: []*cli.Command{
			buildCmd(),
			percentileCmd(),
			chartCmd(),
			ageCmd(),
			serveCmd(),
			mcpCmd(),
			initCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
