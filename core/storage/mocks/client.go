package mocks

import (
	"context"

	"s3-toolkit/core/storage"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

var _ storage.Client = (*Client)(nil)

func (m *Client) ListBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	args := m.Called(ctx)
	if buckets, ok := args.Get(0).([]storage.BucketInfo); ok {
		return buckets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateBucket(ctx context.Context, bucket storage.BucketDescriptor) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *Client) DeleteBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *Client) DeletePublicAccessBlock(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *Client) PutBucketPolicy(ctx context.Context, bucket, policy string) error {
	args := m.Called(ctx, bucket, policy)
	return args.Error(0)
}

func (m *Client) GetBucketPolicy(ctx context.Context, bucket string) (string, error) {
	args := m.Called(ctx, bucket)
	return args.String(0), args.Error(1)
}

func (m *Client) EnableVersioning(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *Client) GetBucketVersioning(ctx context.Context, bucket string) (storage.VersioningStatus, error) {
	args := m.Called(ctx, bucket)
	return args.Get(0).(storage.VersioningStatus), args.Error(1)
}

func (m *Client) PutBucketLifecycle(ctx context.Context, bucket string, rules []storage.LifecycleRule) error {
	args := m.Called(ctx, bucket, rules)
	return args.Error(0)
}

func (m *Client) PutBucketWebsite(ctx context.Context, bucket string, cfg storage.WebsiteConfig) error {
	args := m.Called(ctx, bucket, cfg)
	return args.Error(0)
}

func (m *Client) UploadFile(ctx context.Context, bucket, key, path, contentType string) (storage.UploadResult, error) {
	args := m.Called(ctx, bucket, key, path, contentType)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, in storage.PutObjectInput) (storage.UploadResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, key storage.ObjectKey) (*storage.ObjectReader, error) {
	args := m.Called(ctx, key)
	if obj, ok := args.Get(0).(*storage.ObjectReader); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) DeleteObject(ctx context.Context, key storage.ObjectKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Client) PutObjectACL(ctx context.Context, bucket, key string, acl storage.CannedACL) error {
	args := m.Called(ctx, bucket, key, acl)
	return args.Error(0)
}

func (m *Client) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) (storage.UploadResult, error) {
	args := m.Called(ctx, bucket, srcKey, dstKey)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, bucket, prefix)
	if objects, ok := args.Get(0).([]storage.ObjectInfo); ok {
		return objects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListObjectVersions(ctx context.Context, bucket, prefix string) ([]storage.VersionRecord, error) {
	args := m.Called(ctx, bucket, prefix)
	if versions, ok := args.Get(0).([]storage.VersionRecord); ok {
		return versions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateMultipartUpload(ctx context.Context, bucket, key, contentType string) (string, error) {
	args := m.Called(ctx, bucket, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *Client) UploadPart(ctx context.Context, in storage.PartInput) (storage.PartRecord, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(storage.PartRecord), args.Error(1)
}

func (m *Client) CompleteMultipartUpload(ctx context.Context, bucket, key, uploadID string, parts []storage.PartRecord) (storage.UploadResult, error) {
	args := m.Called(ctx, bucket, key, uploadID, parts)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}
