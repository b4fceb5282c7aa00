package main

import (
	"fmt"

	"github.com/sprouthq/sprout/pkg/config"
	"github.com/sprouthq/sprout/pkg/reference"
	"github.com/urfave/cli/v2"
)

// loadConfig resolves the effective config: explicit --config path, else the
// standard search locations, else defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// loadTable loads the reference dataset named by --dataset or config.
func loadTable(c *cli.Context) (*reference.Table, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	path := cfg.Data.Dataset
	if override := c.String("dataset"); override != "" {
		path = override
	}
	return reference.LoadDataset(path)
}
