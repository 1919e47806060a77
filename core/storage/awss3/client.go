package awss3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"s3-toolkit/core/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client implements storage.Client on top of the AWS SDK for Go v2.
type Client struct {
	api    API
	region string
}

var _ storage.Client = (*Client)(nil)

// New creates a client from the storage configuration.
// Static credentials are used when an access key is configured, otherwise the
// SDK default credential chain applies.
func New(ctx context.Context, cfg storage.Config) (*Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithHTTPClient(&http.Client{Transport: storage.NewTransport(cfg.Timeout())}),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &Client{api: api, region: region}, nil
}

// NewWithAPI creates a client around a custom API implementation.
// This is primarily used for testing with mocked clients.
func NewWithAPI(api API, region string) *Client {
	return &Client{api: api, region: region}
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// copySource builds the URL-encoded "bucket/key" form CopyObject expects.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return bucket + "/" + strings.Join(segments, "/")
}

func (c *Client) ListBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, wrap("ListBuckets", "", "", err)
	}
	buckets := make([]storage.BucketInfo, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, storage.BucketInfo{
			Name:      aws.ToString(b.Name),
			CreatedAt: aws.ToTime(b.CreationDate),
		})
	}
	return buckets, nil
}

func (c *Client) CreateBucket(ctx context.Context, bucket storage.BucketDescriptor) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket.Name)}
	// us-east-1 is the default location and is rejected as an explicit constraint.
	if bucket.Region != "" && bucket.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(bucket.Region),
		}
	}
	if _, err := c.api.CreateBucket(ctx, input); err != nil {
		return wrap("CreateBucket", bucket.Name, "", err)
	}
	return nil
}

func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	if _, err := c.api.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return wrap("DeleteBucket", bucket, "", err)
	}
	return nil
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	switch errorCode(err) {
	case "NotFound", "NoSuchBucket":
		return false, nil
	}
	return false, wrap("HeadBucket", bucket, "", err)
}

func (c *Client) DeletePublicAccessBlock(ctx context.Context, bucket string) error {
	if _, err := c.api.DeletePublicAccessBlock(ctx, &s3.DeletePublicAccessBlockInput{Bucket: aws.String(bucket)}); err != nil {
		return wrap("DeletePublicAccessBlock", bucket, "", err)
	}
	return nil
}

func (c *Client) PutBucketPolicy(ctx context.Context, bucket, policy string) error {
	_, err := c.api.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(policy),
	})
	if err != nil {
		return wrap("PutBucketPolicy", bucket, "", err)
	}
	return nil
}

func (c *Client) GetBucketPolicy(ctx context.Context, bucket string) (string, error) {
	out, err := c.api.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", wrap("GetBucketPolicy", bucket, "", err)
	}
	return aws.ToString(out.Policy), nil
}

func (c *Client) EnableVersioning(ctx context.Context, bucket string) error {
	_, err := c.api.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(bucket),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	})
	if err != nil {
		return wrap("PutBucketVersioning", bucket, "", err)
	}
	return nil
}

func (c *Client) GetBucketVersioning(ctx context.Context, bucket string) (storage.VersioningStatus, error) {
	out, err := c.api.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", wrap("GetBucketVersioning", bucket, "", err)
	}
	switch out.Status {
	case types.BucketVersioningStatusEnabled:
		return storage.VersioningEnabled, nil
	case types.BucketVersioningStatusSuspended:
		return storage.VersioningSuspended, nil
	default:
		return storage.VersioningDisabled, nil
	}
}

func (c *Client) PutBucketLifecycle(ctx context.Context, bucket string, rules []storage.LifecycleRule) error {
	awsRules := make([]types.LifecycleRule, 0, len(rules))
	for _, r := range rules {
		awsRules = append(awsRules, types.LifecycleRule{
			ID:         aws.String(r.ID),
			Status:     types.ExpirationStatusEnabled,
			Filter:     &types.LifecycleRuleFilter{Prefix: aws.String(r.Prefix)},
			Expiration: &types.LifecycleExpiration{Days: aws.Int32(r.ExpirationDays)},
		})
	}
	_, err := c.api.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket:                 aws.String(bucket),
		LifecycleConfiguration: &types.BucketLifecycleConfiguration{Rules: awsRules},
	})
	if err != nil {
		return wrap("PutBucketLifecycleConfiguration", bucket, "", err)
	}
	return nil
}

func (c *Client) PutBucketWebsite(ctx context.Context, bucket string, cfg storage.WebsiteConfig) error {
	_, err := c.api.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket: aws.String(bucket),
		WebsiteConfiguration: &types.WebsiteConfiguration{
			IndexDocument: &types.IndexDocument{Suffix: aws.String(cfg.IndexDocument)},
			ErrorDocument: &types.ErrorDocument{Key: aws.String(cfg.ErrorDocument)},
		},
	})
	if err != nil {
		return wrap("PutBucketWebsite", bucket, "", err)
	}
	return nil
}

// UploadFile opens the file and sends it with its exact length in a single PutObject.
// The SDK client has no managed transfer here, so on this driver the direct upload
// strategy makes the same call as the stream strategy. The minio driver hands the
// path to FPutObject instead, which switches to multipart for large files.
func (c *Client) UploadFile(ctx context.Context, bucket, key, path, contentType string) (storage.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return storage.UploadResult{}, storage.NewError(storage.KindLocalIO, "UploadFile", err).WithKey(path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return storage.UploadResult{}, storage.NewError(storage.KindLocalIO, "UploadFile", err).WithKey(path)
	}

	return c.PutObject(ctx, storage.PutObjectInput{
		Bucket:      bucket,
		Key:         key,
		Body:        f,
		Size:        info.Size(),
		ContentType: contentType,
	})
}

func (c *Client) PutObject(ctx context.Context, in storage.PutObjectInput) (storage.UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(in.Bucket),
		Key:    aws.String(in.Key),
		Body:   in.Body,
	}
	if in.Size >= 0 {
		input.ContentLength = aws.Int64(in.Size)
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}
	if in.ContentDisposition != "" {
		input.ContentDisposition = aws.String(in.ContentDisposition)
	}

	out, err := c.api.PutObject(ctx, input)
	if err != nil {
		return storage.UploadResult{}, wrap("PutObject", in.Bucket, in.Key, err)
	}
	return storage.UploadResult{
		Bucket:    in.Bucket,
		Key:       in.Key,
		ETag:      aws.ToString(out.ETag),
		VersionID: aws.ToString(out.VersionId),
	}, nil
}

func (c *Client) GetObject(ctx context.Context, key storage.ObjectKey) (*storage.ObjectReader, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(key.Bucket),
		Key:    aws.String(key.Key),
	}
	if key.VersionID != "" {
		input.VersionId = aws.String(key.VersionID)
	}
	out, err := c.api.GetObject(ctx, input)
	if err != nil {
		return nil, wrap("GetObject", key.Bucket, key.Key, err)
	}
	return &storage.ObjectReader{ReadCloser: out.Body, ContentType: aws.ToString(out.ContentType)}, nil
}

func (c *Client) DeleteObject(ctx context.Context, key storage.ObjectKey) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(key.Bucket),
		Key:    aws.String(key.Key),
	}
	if key.VersionID != "" {
		input.VersionId = aws.String(key.VersionID)
	}
	if _, err := c.api.DeleteObject(ctx, input); err != nil {
		return wrap("DeleteObject", key.Bucket, key.Key, err)
	}
	return nil
}

func (c *Client) PutObjectACL(ctx context.Context, bucket, key string, acl storage.CannedACL) error {
	_, err := c.api.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACL(acl),
	})
	if err != nil {
		return wrap("PutObjectAcl", bucket, key, err)
	}
	return nil
}

func (c *Client) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) (storage.UploadResult, error) {
	out, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource(bucket, srcKey)),
	})
	if err != nil {
		return storage.UploadResult{}, wrap("CopyObject", bucket, srcKey, err)
	}
	result := storage.UploadResult{
		Bucket:    bucket,
		Key:       dstKey,
		VersionID: aws.ToString(out.VersionId),
	}
	if out.CopyObjectResult != nil {
		result.ETag = aws.ToString(out.CopyObjectResult.ETag)
	}
	return result, nil
}

func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []storage.ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrap("ListObjectsV2", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, storage.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				ETag:         aws.ToString(obj.ETag),
			})
		}
	}
	return objects, nil
}

func (c *Client) ListObjectVersions(ctx context.Context, bucket, prefix string) ([]storage.VersionRecord, error) {
	input := &s3.ListObjectVersionsInput{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var records []storage.VersionRecord
	for {
		out, err := c.api.ListObjectVersions(ctx, input)
		if err != nil {
			return nil, wrap("ListObjectVersions", bucket, prefix, err)
		}
		for _, v := range out.Versions {
			records = append(records, storage.VersionRecord{
				Key:          aws.ToString(v.Key),
				VersionID:    aws.ToString(v.VersionId),
				IsLatest:     aws.ToBool(v.IsLatest),
				LastModified: aws.ToTime(v.LastModified),
				Size:         aws.ToInt64(v.Size),
				ETag:         aws.ToString(v.ETag),
			})
		}
		if !aws.ToBool(out.IsTruncated) {
			return records, nil
		}
		input.KeyMarker = out.NextKeyMarker
		input.VersionIdMarker = out.NextVersionIdMarker
	}
}

func (c *Client) CreateMultipartUpload(ctx context.Context, bucket, key, contentType string) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	out, err := c.api.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", wrap("CreateMultipartUpload", bucket, key, err)
	}
	return aws.ToString(out.UploadId), nil
}

func (c *Client) UploadPart(ctx context.Context, in storage.PartInput) (storage.PartRecord, error) {
	input := &s3.UploadPartInput{
		Bucket:     aws.String(in.Bucket),
		Key:        aws.String(in.Key),
		UploadId:   aws.String(in.UploadID),
		PartNumber: aws.Int32(in.PartNumber),
		Body:       in.Body,
	}
	if in.Size >= 0 {
		input.ContentLength = aws.Int64(in.Size)
	}
	out, err := c.api.UploadPart(ctx, input)
	if err != nil {
		return storage.PartRecord{}, wrap("UploadPart", in.Bucket, in.Key, err)
	}
	return storage.PartRecord{PartNumber: in.PartNumber, ETag: aws.ToString(out.ETag)}, nil
}

func (c *Client) CompleteMultipartUpload(ctx context.Context, bucket, key, uploadID string, parts []storage.PartRecord) (storage.UploadResult, error) {
	completed := make([]types.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, types.CompletedPart{
			ETag:       aws.String(p.ETag),
			PartNumber: aws.Int32(p.PartNumber),
		})
	}
	out, err := c.api.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return storage.UploadResult{}, wrap("CompleteMultipartUpload", bucket, key, err)
	}
	return storage.UploadResult{
		Bucket:    bucket,
		Key:       key,
		ETag:      aws.ToString(out.ETag),
		VersionID: aws.ToString(out.VersionId),
	}, nil
}
