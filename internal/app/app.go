// Package app assembles the transaction router from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/mempart/internal/config"
	"github.com/gabapcia/mempart/internal/infra/mempool/sqlite"
	"github.com/gabapcia/mempart/internal/infra/storage/file"
	"github.com/gabapcia/mempart/internal/infra/storage/redis"
	"github.com/gabapcia/mempart/internal/pkg/logger"
	"github.com/gabapcia/mempart/internal/txroute"
)

// ReleaseFunc frees the resources held by a router.
type ReleaseFunc func() error

func newWatermarkStorage(ctx context.Context, cfg config.Config) (txroute.WatermarkStorage, ReleaseFunc, error) {
	if cfg.WatermarkBackend != config.WatermarkBackendRedis {
		return file.NewWatermarkStorage(cfg.WatermarkPath), func() error { return nil }, nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return client.WatermarkStorage(cfg.ServiceName), client.Close, nil
}

// NewRouter locks the output directory, opens the mempool and builds the
// router. The returned ReleaseFunc must be called after the router is
// closed.
func NewRouter(ctx context.Context, cfg config.Config) (txroute.Service, ReleaseFunc, error) {
	lock, err := file.AcquireLock(cfg.OutputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("lock output directory: %w", err)
	}

	source, err := sqlite.Open(ctx, cfg.MempoolDB,
		sqlite.WithLimit(cfg.FetchLimit),
		sqlite.WithInclusiveWatermark(cfg.InclusiveWatermark),
	)
	if err != nil {
		return nil, nil, errors.Join(err, lock.Release())
	}

	watermarks, releaseWatermarks, err := newWatermarkStorage(ctx, cfg)
	if err != nil {
		return nil, nil, errors.Join(err, source.Close(), lock.Release())
	}

	svc := txroute.New(
		source,
		watermarks,
		file.NewArchiveStorage(cfg.ArchivePath),
		file.NewPartitionStorage(cfg.OutputDir),
		txroute.WithPollInterval(cfg.PollInterval),
	)

	logger.Info(ctx, "router assembled",
		"mempool.path", cfg.MempoolDB,
		"output.dir", cfg.OutputDir,
		"watermark.backend", cfg.WatermarkBackend,
	)

	release := func() error {
		return errors.Join(releaseWatermarks(), source.Close(), lock.Release())
	}
	return svc, release, nil
}

// Inspect reports the persisted state described by cfg. It neither locks
// the output directory nor opens the mempool.
func Inspect(ctx context.Context, cfg config.Config) (txroute.Status, error) {
	watermarks, release, err := newWatermarkStorage(ctx, cfg)
	if err != nil {
		return txroute.Status{}, err
	}
	defer release()

	partitions := file.NewPartitionStorage(cfg.OutputDir)
	return txroute.Inspect(ctx, watermarks, file.NewArchiveStorage(cfg.ArchivePath), partitions)
}
