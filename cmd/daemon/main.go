package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/cmusnotify/internal/config"
	"github.com/genricoloni/cmusnotify/internal/cover"
	"github.com/genricoloni/cmusnotify/internal/domain"
	"github.com/genricoloni/cmusnotify/internal/engine"
	"github.com/genricoloni/cmusnotify/internal/fetcher"
	"github.com/genricoloni/cmusnotify/internal/monitor"
	"github.com/genricoloni/cmusnotify/internal/notifier"
	"github.com/genricoloni/cmusnotify/internal/processor"
	"github.com/genricoloni/cmusnotify/internal/tags"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// AppOptions wires every component of the daemon around cfg
func AppOptions(cfg *config.AppConfig) fx.Option {
	return fx.Options(
		fx.Supply(cfg),

		// Provide dependencies
		fx.Provide(
			newLogger,
			func(c *config.AppConfig) domain.Config { return c },
			newQuerier,
			fx.Annotate(monitor.NewCmusMonitor, fx.As(new(domain.Monitor))),
			fx.Annotate(tags.NewReader, fx.As(new(domain.TagReader))),
			newResolver,
			fx.Annotate(notifier.NewDBusNotifier, fx.As(new(domain.Notifier))),
			processor.NewIconProcessor,
			fetcher.NewHTTPFetcher,
			newEngine,
		),

		// Lifecycle hooks, the lock is taken before anything starts
		fx.Invoke(registerLock),
		fx.Invoke(registerHooks),
	)
}

// runDaemon runs the application until SIGINT or SIGTERM
func runDaemon(ctx context.Context, cfg *config.AppConfig) error {
	app := fx.New(
		AppOptions(cfg),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	// Wait for interrupt signal
	<-ctx.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	return app.Stop(stopCtx)
}

// newLogger creates the production logger at the configured level
func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel())
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newQuerier(cfg domain.Config) monitor.Querier {
	return monitor.NewRemoteQuerier(cfg.Player().RemoteBin, cfg.Player().Socket)
}

func newResolver(logger *zap.Logger, reader domain.TagReader, cfg domain.Config) *cover.Resolver {
	return cover.NewResolver(logger, reader, cfg.Cover().TempDir)
}

func newEngine(
	logger *zap.Logger,
	cfg domain.Config,
	mon domain.Monitor,
	resolver *cover.Resolver,
	n domain.Notifier,
	icons *processor.IconProcessor,
	fetch *fetcher.HTTPFetcher,
) *engine.Engine {
	return engine.NewEngine(logger, cfg, mon, resolver, n, icons, fetch)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, mon domain.Monitor, eng *engine.Engine, n domain.Notifier) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("cmus-notify daemon started")
			if err := mon.Start(ctx); err != nil {
				return fmt.Errorf("start monitor: %w", err)
			}
			return eng.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			err := eng.Stop(ctx)
			err = errors.Join(err, mon.Stop(ctx), n.Close())
			_ = logger.Sync()
			return err
		},
	})
}
