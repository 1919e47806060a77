package minio

import (
	"context"
	"fmt"
	"os"
	"strings"

	"s3-toolkit/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// Client implements storage.Client on top of minio-go.
type Client struct {
	mc   *minio.Client
	core *minio.Core
}

var _ storage.Client = (*Client)(nil)

// New creates a new Minio client based on the configuration.
func New(cfg storage.Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio driver requires an endpoint")
	}

	mc, err := minio.New(trimScheme(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		Transport:    storage.NewTransport(cfg.Timeout()),
		BucketLookup: bucketLookup(cfg.ForcePathStyle),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	// Minio connects lazily; callers check connectivity with ListBuckets.
	return &Client{mc: mc, core: &minio.Core{Client: mc}}, nil
}

// Minio expects endpoint without scheme
func trimScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimPrefix(endpoint, "https://")
}

func bucketLookup(pathStyle bool) minio.BucketLookupType {
	if pathStyle {
		return minio.BucketLookupPath
	}
	return minio.BucketLookupAuto
}

func wrap(op, bucket, key string, err error) error {
	return storage.RemoteError(op, bucket, key, minio.ToErrorResponse(err).Code, err)
}

func notSupported(op, bucket, key string) error {
	return storage.RemoteError(op, bucket, key, "NotImplemented", storage.ErrNotSupported)
}

func (c *Client) ListBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	buckets, err := c.mc.ListBuckets(ctx)
	if err != nil {
		return nil, wrap("ListBuckets", "", "", err)
	}
	out := make([]storage.BucketInfo, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, storage.BucketInfo{Name: b.Name, CreatedAt: b.CreationDate})
	}
	return out, nil
}

func (c *Client) CreateBucket(ctx context.Context, bucket storage.BucketDescriptor) error {
	if err := c.mc.MakeBucket(ctx, bucket.Name, minio.MakeBucketOptions{Region: bucket.Region}); err != nil {
		return wrap("CreateBucket", bucket.Name, "", err)
	}
	return nil
}

func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	if err := c.mc.RemoveBucket(ctx, bucket); err != nil {
		return wrap("DeleteBucket", bucket, "", err)
	}
	return nil
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return false, wrap("HeadBucket", bucket, "", err)
	}
	return exists, nil
}

// DeletePublicAccessBlock is a no-op: S3-compatible servers have no public access block.
func (c *Client) DeletePublicAccessBlock(ctx context.Context, bucket string) error {
	return nil
}

func (c *Client) PutBucketPolicy(ctx context.Context, bucket, policy string) error {
	if err := c.mc.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return wrap("PutBucketPolicy", bucket, "", err)
	}
	return nil
}

func (c *Client) GetBucketPolicy(ctx context.Context, bucket string) (string, error) {
	policy, err := c.mc.GetBucketPolicy(ctx, bucket)
	if err != nil {
		return "", wrap("GetBucketPolicy", bucket, "", err)
	}
	// minio-go reports a missing policy as an empty document.
	if policy == "" {
		return "", storage.RemoteError("GetBucketPolicy", bucket, "", "NoSuchBucketPolicy",
			fmt.Errorf("the bucket policy does not exist"))
	}
	return policy, nil
}

func (c *Client) EnableVersioning(ctx context.Context, bucket string) error {
	if err := c.mc.EnableVersioning(ctx, bucket); err != nil {
		return wrap("PutBucketVersioning", bucket, "", err)
	}
	return nil
}

func (c *Client) GetBucketVersioning(ctx context.Context, bucket string) (storage.VersioningStatus, error) {
	cfg, err := c.mc.GetBucketVersioning(ctx, bucket)
	if err != nil {
		return "", wrap("GetBucketVersioning", bucket, "", err)
	}
	return versioningStatus(cfg.Status), nil
}

func versioningStatus(status string) storage.VersioningStatus {
	switch status {
	case minio.Enabled:
		return storage.VersioningEnabled
	case minio.Suspended:
		return storage.VersioningSuspended
	default:
		return storage.VersioningDisabled
	}
}

func (c *Client) PutBucketLifecycle(ctx context.Context, bucket string, rules []storage.LifecycleRule) error {
	if err := c.mc.SetBucketLifecycle(ctx, bucket, lifecycleConfig(rules)); err != nil {
		return wrap("PutBucketLifecycleConfiguration", bucket, "", err)
	}
	return nil
}

func lifecycleConfig(rules []storage.LifecycleRule) *lifecycle.Configuration {
	cfg := lifecycle.NewConfiguration()
	for _, r := range rules {
		cfg.Rules = append(cfg.Rules, lifecycle.Rule{
			ID:         r.ID,
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: r.Prefix},
			Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(r.ExpirationDays)},
		})
	}
	return cfg
}

func (c *Client) PutBucketWebsite(ctx context.Context, bucket string, cfg storage.WebsiteConfig) error {
	return notSupported("PutBucketWebsite", bucket, "")
}

func (c *Client) UploadFile(ctx context.Context, bucket, key, path, contentType string) (storage.UploadResult, error) {
	if _, err := os.Stat(path); err != nil {
		return storage.UploadResult{}, storage.NewError(storage.KindLocalIO, "UploadFile", err).WithKey(path)
	}
	info, err := c.mc.FPutObject(ctx, bucket, key, path, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return storage.UploadResult{}, wrap("PutObject", bucket, key, err)
	}
	return uploadResult(info), nil
}

func (c *Client) PutObject(ctx context.Context, in storage.PutObjectInput) (storage.UploadResult, error) {
	info, err := c.mc.PutObject(ctx, in.Bucket, in.Key, in.Body, in.Size, minio.PutObjectOptions{
		ContentType:        in.ContentType,
		ContentDisposition: in.ContentDisposition,
	})
	if err != nil {
		return storage.UploadResult{}, wrap("PutObject", in.Bucket, in.Key, err)
	}
	return uploadResult(info), nil
}

func uploadResult(info minio.UploadInfo) storage.UploadResult {
	return storage.UploadResult{
		Bucket:    info.Bucket,
		Key:       info.Key,
		ETag:      info.ETag,
		VersionID: info.VersionID,
	}
}

func (c *Client) GetObject(ctx context.Context, key storage.ObjectKey) (*storage.ObjectReader, error) {
	obj, err := c.mc.GetObject(ctx, key.Bucket, key.Key, minio.GetObjectOptions{VersionID: key.VersionID})
	if err != nil {
		return nil, wrap("GetObject", key.Bucket, key.Key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, wrap("GetObject", key.Bucket, key.Key, err)
	}
	return &storage.ObjectReader{ReadCloser: obj, ContentType: info.ContentType}, nil
}

func (c *Client) DeleteObject(ctx context.Context, key storage.ObjectKey) error {
	err := c.mc.RemoveObject(ctx, key.Bucket, key.Key, minio.RemoveObjectOptions{VersionID: key.VersionID})
	if err != nil {
		return wrap("DeleteObject", key.Bucket, key.Key, err)
	}
	return nil
}

func (c *Client) PutObjectACL(ctx context.Context, bucket, key string, acl storage.CannedACL) error {
	return notSupported("PutObjectAcl", bucket, key)
}

func (c *Client) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) (storage.UploadResult, error) {
	info, err := c.mc.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: bucket, Object: srcKey},
	)
	if err != nil {
		return storage.UploadResult{}, wrap("CopyObject", bucket, srcKey, err)
	}
	return uploadResult(info), nil
}

func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	var objects []storage.ObjectInfo
	for obj := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, wrap("ListObjectsV2", bucket, prefix, obj.Err)
		}
		objects = append(objects, storage.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
		})
	}
	return objects, nil
}

func (c *Client) ListObjectVersions(ctx context.Context, bucket, prefix string) ([]storage.VersionRecord, error) {
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true, WithVersions: true}
	var records []storage.VersionRecord
	for obj := range c.mc.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, wrap("ListObjectVersions", bucket, prefix, obj.Err)
		}
		if obj.IsDeleteMarker {
			continue
		}
		records = append(records, storage.VersionRecord{
			Key:          obj.Key,
			VersionID:    obj.VersionID,
			IsLatest:     obj.IsLatest,
			LastModified: obj.LastModified,
			Size:         obj.Size,
			ETag:         obj.ETag,
		})
	}
	return records, nil
}

func (c *Client) CreateMultipartUpload(ctx context.Context, bucket, key, contentType string) (string, error) {
	id, err := c.core.NewMultipartUpload(ctx, bucket, key, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", wrap("CreateMultipartUpload", bucket, key, err)
	}
	return id, nil
}

func (c *Client) UploadPart(ctx context.Context, in storage.PartInput) (storage.PartRecord, error) {
	part, err := c.core.PutObjectPart(ctx, in.Bucket, in.Key, in.UploadID, int(in.PartNumber), in.Body, in.Size, minio.PutObjectPartOptions{})
	if err != nil {
		return storage.PartRecord{}, wrap("UploadPart", in.Bucket, in.Key, err)
	}
	return storage.PartRecord{PartNumber: in.PartNumber, ETag: part.ETag}, nil
}

func (c *Client) CompleteMultipartUpload(ctx context.Context, bucket, key, uploadID string, parts []storage.PartRecord) (storage.UploadResult, error) {
	completed := make([]minio.CompletePart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, minio.CompletePart{PartNumber: int(p.PartNumber), ETag: p.ETag})
	}
	info, err := c.core.CompleteMultipartUpload(ctx, bucket, key, uploadID, completed, minio.PutObjectOptions{})
	if err != nil {
		return storage.UploadResult{}, wrap("CompleteMultipartUpload", bucket, key, err)
	}
	return uploadResult(info), nil
}
