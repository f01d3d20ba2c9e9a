package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/anonpost/internal/api"
	"github.com/anonpost/internal/config"
	"github.com/anonpost/internal/dialog"
	"github.com/anonpost/internal/logging"
	"github.com/anonpost/internal/metrics"
	"github.com/anonpost/internal/retry"
	"github.com/anonpost/internal/session"
	"github.com/anonpost/internal/store"
	"github.com/anonpost/internal/telegram"
)

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Start the bot",
		Action: runBot,
	}
}

func runBot(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	posts, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open post store: %w", err)
	}
	sessions := session.NewManager()

	// The Bot API can be briefly unreachable right after deploys; only
	// the bootstrap connection is ever retried.
	var client *telegram.Client
	result := retry.Do(ctx, retry.ConnectConfig(), func() error {
		var connectErr error
		client, connectErr = telegram.NewClient(cfg.Telegram.Token)
		return connectErr
	})
	if !result.Success {
		return fmt.Errorf("failed to connect to telegram: %w", result.LastError)
	}

	botUsername := cfg.Telegram.BotUsername
	if botUsername == "" {
		botUsername, err = client.Username(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve bot username: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	engine := dialog.NewEngine(dialog.Config{
		GroupID:     cfg.Telegram.GroupID,
		ChannelID:   cfg.Telegram.ChannelID,
		BotUsername: botUsername,
		PinPosts:    cfg.Telegram.PinPosts,
		Topics:      engineTopics(cfg.Topics),
	}, sessions, posts, client, metrics.New(registry))
	client.Bind(engine)

	if cfg.Admin.Enabled {
		adminServer := api.NewServer(cfg.Admin.Addr, posts, sessions, registry)
		go func() {
			if serveErr := adminServer.Start(); serveErr != nil {
				log.Error().Err(serveErr).Msg("admin server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := adminServer.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Warn().Err(shutdownErr).Msg("admin server shutdown failed")
			}
		}()
		log.Info().Str("addr", cfg.Admin.Addr).Msg("admin server listening")
	}

	log.Info().
		Str("bot", botUsername).
		Int64("channel_id", cfg.Telegram.ChannelID).
		Int("topics", len(cfg.Topics)).
		Msg("bot is running")

	client.Start(ctx)

	if err := posts.SaveAll(); err != nil {
		log.Error().Err(err).Msg("final snapshot save failed")
	}
	log.Info().Msg("bot stopped")
	return nil
}

func engineTopics(topics []config.Topic) []dialog.Topic {
	out := make([]dialog.Topic, 0, len(topics))
	for _, t := range topics {
		out = append(out, dialog.Topic{Label: t.Label, ThreadID: t.ThreadID})
	}
	return out
}
