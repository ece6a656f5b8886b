// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"imgbb-telegram-bot/internal/application"
	"imgbb-telegram-bot/internal/config"
	"imgbb-telegram-bot/internal/infra/adapters/imgbb"
	tele "imgbb-telegram-bot/internal/infra/adapters/telegram"
	"imgbb-telegram-bot/internal/infra/api"
	"imgbb-telegram-bot/internal/infra/i18n"
	"imgbb-telegram-bot/internal/infra/logging"
	"imgbb-telegram-bot/internal/infra/metrics"
	"imgbb-telegram-bot/internal/usecase"
)

// set via -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "", "path to optional YAML config file")
	envFile := flag.String("env", ".env", "dotenv file loaded before reading the environment")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	if err := run(*cfgPath, *envFile, *devMode); err != nil {
		fmt.Fprintf(os.Stderr, "imgbb-bot: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, envFile string, dev bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(cfgPath, dev)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Bool("dev", cfg.Runtime.Dev).
		Str("imgbb_key", logging.Redact(cfg.ImgBB.APIKey, cfg.Runtime.Dev)).
		Msg("starting imgbb bot")

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Translations ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		return fmt.Errorf("i18n: %w", err)
	}

	// ---- Image host + use case ----
	host, err := imgbb.NewClient(cfg.ImgBB)
	if err != nil {
		return fmt.Errorf("imgbb: %w", err)
	}
	uploadUC := usecase.NewUploadUseCase(host, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(uploadUC, tr, usecase.SupportedFormatsText())

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, logger)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	if err := botAdapter.SetMenuCommands(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to set bot menu commands")
	}

	g, gctx := errgroup.WithContext(ctx)

	var admin *api.Server
	if !cfg.Admin.Disabled {
		admin = api.NewServer(logger, version)
		g.Go(func() error {
			return admin.Run(gctx, fmt.Sprintf(":%d", cfg.Admin.Port))
		})
	}

	g.Go(func() error {
		// polling ending for any reason stops the admin server too
		defer stop()
		if admin != nil {
			admin.SetReady(true)
			defer admin.SetReady(false)
		}
		err := botAdapter.StartPolling(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = g.Wait()
	logShutdown(logger, err)
	return err
}

func logShutdown(logger *zerolog.Logger, err error) {
	if err != nil {
		logger.Error().Err(err).Msg("stopped with error")
		return
	}
	logger.Info().Msg("shutdown complete")
}
