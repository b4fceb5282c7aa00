package main

import (
	"context"

	"github.com/sprouthq/sprout/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run an MCP server exposing percentile tools over stdio",
		Action: func(c *cli.Context) error {
			table, err := loadTable(c)
			if err != nil {
				return err
			}
			return mcpserver.NewServer(version, table).Run(context.Background())
		},
	}
}
