package gateway

import (
	"context"
	"fmt"

	"s3-toolkit/core/storage"
	"s3-toolkit/core/storage/awss3"
	"s3-toolkit/core/storage/minio"

	"go.uber.org/zap"
)

// Connect creates the configured storage client and verifies it can reach the backend.
func Connect(ctx context.Context, cfg storage.Config, logger *zap.Logger) (storage.Client, error) {
	client, err := newDriver(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create storage client",
			zap.String("driver", cfg.Driver),
			zap.Error(err),
		)
		return nil, storage.NewError(storage.KindConnection, "connect", err)
	}
	return Verify(ctx, client, logger.With(zap.String("driver", cfg.Driver)))
}

// Verify checks an already constructed client with ListBuckets.
func Verify(ctx context.Context, client storage.Client, logger *zap.Logger) (storage.Client, error) {
	buckets, err := client.ListBuckets(ctx)
	if err != nil {
		logger.Error("Storage client failed connectivity check", zap.Error(err))
		return nil, &storage.Error{
			Kind: storage.KindConnection,
			Op:   "connect",
			Code: storage.CodeOf(err),
			Err:  err,
		}
	}
	logger.Debug("Storage client connected", zap.Int("buckets", len(buckets)))
	return client, nil
}

func newDriver(ctx context.Context, cfg storage.Config) (storage.Client, error) {
	if !cfg.IsValidDriver() {
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if cfg.Driver == storage.DriverMinio {
		return minio.New(cfg)
	}
	return awss3.New(ctx, cfg)
}
