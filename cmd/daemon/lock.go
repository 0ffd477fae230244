package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/genricoloni/cmusnotify/internal/config"
	"github.com/gofrs/flock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// errAlreadyRunning is returned when another daemon holds the lock
var errAlreadyRunning = errors.New("another cmus-notify instance is already running")

// registerLock enforces a single daemon per lock file
func registerLock(lc fx.Lifecycle, logger *zap.Logger, cfg *config.AppConfig) {
	path := cfg.LockFile()
	lock := flock.New(path)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create lock dir: %w", err)
			}
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w (lock %s)", errAlreadyRunning, path)
			}
			logger.Debug("Lock acquired", zap.String("path", path))
			return nil
		},
		OnStop: func(context.Context) error {
			if err := lock.Unlock(); err != nil {
				return fmt.Errorf("release lock: %w", err)
			}
			return nil
		},
	})
}
