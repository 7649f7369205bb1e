package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/mempart/internal/app"
	"github.com/gabapcia/mempart/internal/config"
	"github.com/gabapcia/mempart/internal/handlers/cli"
	"github.com/gabapcia/mempart/internal/pkg/logger"
	"github.com/gabapcia/mempart/internal/pkg/telemetry"
	"github.com/gabapcia/mempart/internal/txroute"
)

var version = "dev"

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.TelemetryEnabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "mempart: telemetry shutdown:", err)
		}
	}()

	if err := logger.Init(cfg.LogLevel, logger.WithLoggerProvider(telemetry.LoggerProvider())); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	newRouter := func(ctx context.Context) (txroute.Service, func() error, error) {
		svc, release, err := app.NewRouter(ctx, cfg)
		return svc, release, err
	}
	inspect := func(ctx context.Context) (txroute.Status, error) {
		return app.Inspect(ctx, cfg)
	}

	return cli.Run(ctx, newRouter, inspect)
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "mempart:", err)
		os.Exit(1)
	}
}
