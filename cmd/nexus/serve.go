package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-nexus/pkg/config"
	"github.com/goliatone/go-nexus/pkg/logging"
)

type serveCmd struct {
	Seed bool `default:"true" negatable:"" help:"Add the starter widgets when the overview is empty."`
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := config.Load(root.EnvFile...)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(ctx, cfg, logger, appOptions{SeedLayout: cmd.Seed})
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}()
	return a.Run(ctx)
}
