package bucket

import (
	"context"
	"fmt"

	"s3-toolkit/core/storage"

	"go.uber.org/zap"
)

const (
	// LifecycleRuleID identifies the expiration rule written by ConfigureLifecycle.
	LifecycleRuleID = "expire-objects"

	DefaultIndexDocument = "index.html"
	DefaultErrorDocument = "error.html"
)

// Service handles bucket operations.
type Service struct {
	client    storage.Client
	partition string
	logger    *zap.Logger
}

// NewService creates a new bucket service.
// partition is the ARN partition used in policy documents (usually "aws").
func NewService(client storage.Client, partition string, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		partition: partition,
		logger:    logger,
	}
}

func (s *Service) fail(op, bucket string, err error) error {
	s.logger.Error("Bucket operation failed",
		zap.String("op", op),
		zap.String("bucket", bucket),
		zap.Error(err),
	)
	return err
}

// List returns every bucket visible to the credentials.
func (s *Service) List(ctx context.Context) ([]storage.BucketInfo, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, s.fail("list", "", err)
	}
	return buckets, nil
}

// Create creates a bucket in region.
func (s *Service) Create(ctx context.Context, name, region string) error {
	if err := s.client.CreateBucket(ctx, storage.BucketDescriptor{Name: name, Region: region}); err != nil {
		return s.fail("create", name, err)
	}
	s.logger.Info("Bucket created", zap.String("bucket", name), zap.String("region", region))
	return nil
}

// Delete deletes an empty bucket.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.client.DeleteBucket(ctx, name); err != nil {
		return s.fail("delete", name, err)
	}
	s.logger.Info("Bucket deleted", zap.String("bucket", name))
	return nil
}

// Exists reports whether the bucket exists. A not-found answer is (false, nil).
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, name)
	if err != nil {
		return false, s.fail("exists", name, err)
	}
	return exists, nil
}

// SetPublicReadPolicy removes the public access block and grants anonymous reads on all keys.
func (s *Service) SetPublicReadPolicy(ctx context.Context, name string) error {
	if err := s.client.DeletePublicAccessBlock(ctx, name); err != nil {
		return s.fail("delete-public-access-block", name, err)
	}
	policy, err := PublicReadPolicy(s.partition, name)
	if err != nil {
		return s.fail("put-policy", name, err)
	}
	if err := s.client.PutBucketPolicy(ctx, name, policy); err != nil {
		return s.fail("put-policy", name, err)
	}
	s.logger.Info("Public read policy applied", zap.String("bucket", name))
	return nil
}

// ReadPolicy returns the bucket policy document.
func (s *Service) ReadPolicy(ctx context.Context, name string) (string, error) {
	policy, err := s.client.GetBucketPolicy(ctx, name)
	if err != nil {
		return "", s.fail("get-policy", name, err)
	}
	return policy, nil
}

// EnableVersioning turns on versioning for the bucket.
func (s *Service) EnableVersioning(ctx context.Context, name string) error {
	if err := s.client.EnableVersioning(ctx, name); err != nil {
		return s.fail("enable-versioning", name, err)
	}
	s.logger.Info("Versioning enabled", zap.String("bucket", name))
	return nil
}

// VersioningStatus returns the versioning state; a bucket never configured is Disabled.
func (s *Service) VersioningStatus(ctx context.Context, name string) (storage.VersioningStatus, error) {
	status, err := s.client.GetBucketVersioning(ctx, name)
	if err != nil {
		return "", s.fail("get-versioning", name, err)
	}
	return status, nil
}

// ConfigureLifecycle installs a single rule expiring objects under prefix after days days.
// An empty prefix covers the whole bucket.
func (s *Service) ConfigureLifecycle(ctx context.Context, name, prefix string, days int) error {
	if days < 1 {
		return fmt.Errorf("expiration days must be at least 1, got %d", days)
	}
	rule := storage.LifecycleRule{ID: LifecycleRuleID, Prefix: prefix, ExpirationDays: int32(days)}
	if err := s.client.PutBucketLifecycle(ctx, name, []storage.LifecycleRule{rule}); err != nil {
		return s.fail("put-lifecycle", name, err)
	}
	s.logger.Info("Lifecycle policy applied",
		zap.String("bucket", name),
		zap.String("prefix", prefix),
		zap.Int("days", days),
	)
	return nil
}

// ConfigureWebsite enables static website hosting. Empty documents default to index.html and error.html.
func (s *Service) ConfigureWebsite(ctx context.Context, name, index, errorDoc string) error {
	if index == "" {
		index = DefaultIndexDocument
	}
	if errorDoc == "" {
		errorDoc = DefaultErrorDocument
	}
	cfg := storage.WebsiteConfig{IndexDocument: index, ErrorDocument: errorDoc}
	if err := s.client.PutBucketWebsite(ctx, name, cfg); err != nil {
		return s.fail("put-website", name, err)
	}
	s.logger.Info("Website configured", zap.String("bucket", name), zap.String("index", index))
	return nil
}
