package storage

import "context"

// Client defines the storage operations used by the features.
// Implementations convert backend responses into the typed records of this package
// and report every rejected call as an *Error of kind KindRemoteService.
type Client interface {
	// ListBuckets lists the buckets visible to the credentials. Also used as the connectivity check.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
	// CreateBucket creates a bucket in the descriptor's region.
	CreateBucket(ctx context.Context, bucket BucketDescriptor) error
	// DeleteBucket deletes an empty bucket.
	DeleteBucket(ctx context.Context, bucket string) error
	// BucketExists checks whether a bucket exists. Only a missing bucket is reported as false without error.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// DeletePublicAccessBlock removes the public access block of a bucket.
	DeletePublicAccessBlock(ctx context.Context, bucket string) error
	// PutBucketPolicy installs a JSON policy document.
	PutBucketPolicy(ctx context.Context, bucket, policy string) error
	// GetBucketPolicy returns the JSON policy document of a bucket.
	GetBucketPolicy(ctx context.Context, bucket string) (string, error)
	// EnableVersioning turns versioning on.
	EnableVersioning(ctx context.Context, bucket string) error
	// GetBucketVersioning returns the versioning status.
	GetBucketVersioning(ctx context.Context, bucket string) (VersioningStatus, error)
	// PutBucketLifecycle replaces the lifecycle configuration with the given rules.
	PutBucketLifecycle(ctx context.Context, bucket string, rules []LifecycleRule) error
	// PutBucketWebsite enables static website hosting.
	PutBucketWebsite(ctx context.Context, bucket string, cfg WebsiteConfig) error

	// UploadFile uploads a local file, letting the driver manage the transfer.
	UploadFile(ctx context.Context, bucket, key, path, contentType string) (UploadResult, error)
	// PutObject uploads an object in a single request.
	PutObject(ctx context.Context, in PutObjectInput) (UploadResult, error)
	// GetObject opens an object (or a version of it) for reading. Callers close the reader.
	GetObject(ctx context.Context, key ObjectKey) (*ObjectReader, error)
	// DeleteObject deletes an object, or one version of it when VersionID is set.
	DeleteObject(ctx context.Context, key ObjectKey) error
	// PutObjectACL applies a canned ACL to an object.
	PutObjectACL(ctx context.Context, bucket, key string, acl CannedACL) error
	// CopyObject copies an object within a bucket.
	CopyObject(ctx context.Context, bucket, srcKey, dstKey string) (UploadResult, error)
	// ListObjects lists every object under prefix, recursively.
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	// ListObjectVersions lists the versions of objects under prefix, newest first per key.
	ListObjectVersions(ctx context.Context, bucket, prefix string) ([]VersionRecord, error)

	// CreateMultipartUpload starts a multipart upload and returns its upload id.
	CreateMultipartUpload(ctx context.Context, bucket, key, contentType string) (string, error)
	// UploadPart uploads one part and returns its integrity tag.
	UploadPart(ctx context.Context, in PartInput) (PartRecord, error)
	// CompleteMultipartUpload assembles the parts, in the given order, into one object.
	CompleteMultipartUpload(ctx context.Context, bucket, key, uploadID string, parts []PartRecord) (UploadResult, error)
}
