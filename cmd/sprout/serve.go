package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sprouthq/sprout/internal/bot"
	"github.com/sprouthq/sprout/internal/llm"
	"github.com/sprouthq/sprout/internal/session"
	"github.com/sprouthq/sprout/internal/webhook"
	"github.com/sprouthq/sprout/pkg/lms"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the chat webhook server",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			table, err := loadTable(c)
			if err != nil {
				return fmt.Errorf("load reference dataset: %w", err)
			}
			log.Info("reference dataset loaded", zap.Int("rows", table.Len()))

			var sessions session.Store
			switch cfg.Session.Backend {
			case "memory":
				sessions = session.NewMemoryStore()
			case "sqlite", "":
				store, err := session.NewSQLiteStore(cfg.Session.Path)
				if err != nil {
					return err
				}
				defer store.Close()
				sessions = store
			default:
				return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
			}

			var extractor bot.Extractor
			apiKey := os.Getenv(cfg.LLM.APIKeyEnv)
			if apiKey == "" {
				log.Warn("no LLM API key set, running with template replies only",
					zap.String("env", cfg.LLM.APIKeyEnv))
			} else {
				extractor = llm.New(llm.Config{
					BaseURL:         cfg.LLM.BaseURL,
					Model:           cfg.LLM.Model,
					APIKey:          apiKey,
					Timeout:         time.Duration(cfg.LLM.TimeoutSec) * time.Second,
					MaxRetries:      cfg.LLM.MaxRetries,
					BreakerFailures: cfg.LLM.BreakerFailures,
				}, log)
			}

			b := bot.New(sessions, extractor, lms.New(table), log)
			server := webhook.New(b, log, webhook.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
				WriteTimeout:    time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
				ShutdownTimeout: time.Duration(cfg.Server.ShutdownSec) * time.Second,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
}
