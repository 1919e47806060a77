package object

import (
	"context"
	"net/http"
	"time"

	"s3-toolkit/core/storage"

	"go.uber.org/zap"
)

// Service handles object operations.
type Service struct {
	client     storage.Client
	cfg        storage.Config
	logger     *zap.Logger
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithHTTPClient sets the client used to fetch relay sources.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.httpClient = c
	}
}

// WithClock sets the clock used to compute purge cutoffs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new object service.
// cfg supplies the region and endpoint used to build public object URLs.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		client:     client,
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) fail(op, bucket, key string, err error) error {
	s.logger.Error("Object operation failed",
		zap.String("op", op),
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Error(err),
	)
	return err
}

// Delete removes the object. In a versioned bucket this adds a delete marker.
func (s *Service) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.DeleteObject(ctx, storage.ObjectKey{Bucket: bucket, Key: key}); err != nil {
		return s.fail("delete", bucket, key, err)
	}
	s.logger.Info("Object deleted", zap.String("bucket", bucket), zap.String("key", key))
	return nil
}

// SetPublicReadACL grants anonymous read access to a single object.
func (s *Service) SetPublicReadACL(ctx context.Context, bucket, key string) error {
	if err := s.client.PutObjectACL(ctx, bucket, key, storage.ACLPublicRead); err != nil {
		return s.fail("put-acl", bucket, key, err)
	}
	s.logger.Info("Object made public", zap.String("bucket", bucket), zap.String("key", key))
	return nil
}

// List returns the current objects under prefix.
func (s *Service) List(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	objects, err := s.client.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, s.fail("list", bucket, prefix, err)
	}
	return objects, nil
}

// Move copies src to dst and then deletes src.
// The two calls are independent: a failed delete leaves both keys in place.
func (s *Service) Move(ctx context.Context, bucket, src, dst string) error {
	if _, err := s.client.CopyObject(ctx, bucket, src, dst); err != nil {
		return s.fail("copy", bucket, src, err)
	}
	if err := s.client.DeleteObject(ctx, storage.ObjectKey{Bucket: bucket, Key: src}); err != nil {
		return s.fail("delete-after-copy", bucket, src, err)
	}
	s.logger.Debug("Object moved", zap.String("bucket", bucket), zap.String("from", src), zap.String("to", dst))
	return nil
}
