package website

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path/filepath"

	"s3-toolkit/feature/bucket"
	"s3-toolkit/feature/object"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Options names the documents of the site. Empty values default to index.html and error.html.
type Options struct {
	IndexDocument string
	ErrorDocument string
}

func (o Options) withDefaults() Options {
	if o.IndexDocument == "" {
		o.IndexDocument = bucket.DefaultIndexDocument
	}
	if o.ErrorDocument == "" {
		o.ErrorDocument = bucket.DefaultErrorDocument
	}
	return o
}

// Result describes a published site.
type Result struct {
	Endpoint string
	Files    int
}

// Service publishes static websites.
type Service struct {
	buckets *bucket.Service
	objects *object.Service
	region  string
	logger  *zap.Logger
}

// NewService creates a new website service.
func NewService(buckets *bucket.Service, objects *object.Service, region string, logger *zap.Logger) *Service {
	return &Service{
		buckets: buckets,
		objects: objects,
		region:  region,
		logger:  logger,
	}
}

// Endpoint returns the website address of a bucket.
func Endpoint(bucketName, region string) string {
	return fmt.Sprintf("http://%s.s3-website-%s.amazonaws.com", bucketName, region)
}

// ContentType infers the content type of a file from its name, falling back to its content.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		return mt.String()
	}
	return "application/octet-stream"
}

// HostDocument uploads the page at path as the index document and publishes the bucket.
func (s *Service) HostDocument(ctx context.Context, path, bucketName string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	if err := s.upload(ctx, path, bucketName, opts.IndexDocument); err != nil {
		return Result{}, err
	}
	return s.publish(ctx, bucketName, opts, 1)
}

// HostFolder uploads every regular file under dir, keyed by its slash-separated
// relative path, and publishes the bucket.
func (s *Service) HostFolder(ctx context.Context, dir, bucketName string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	files := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if err := s.upload(ctx, path, bucketName, filepath.ToSlash(rel)); err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to upload site folder",
			zap.String("dir", dir),
			zap.String("bucket", bucketName),
			zap.Int("uploaded", files),
			zap.Error(err),
		)
		return Result{Files: files}, err
	}

	return s.publish(ctx, bucketName, opts, files)
}

func (s *Service) upload(ctx context.Context, path, bucketName, key string) error {
	_, err := s.objects.Upload(ctx, object.UploadRequest{
		Path:        path,
		Bucket:      bucketName,
		Key:         key,
		Strategy:    object.StrategyStream,
		ContentType: ContentType(path),
	})
	return err
}

func (s *Service) publish(ctx context.Context, bucketName string, opts Options, files int) (Result, error) {
	if err := s.buckets.SetPublicReadPolicy(ctx, bucketName); err != nil {
		return Result{Files: files}, err
	}
	if err := s.buckets.ConfigureWebsite(ctx, bucketName, opts.IndexDocument, opts.ErrorDocument); err != nil {
		return Result{Files: files}, err
	}

	res := Result{Endpoint: Endpoint(bucketName, s.region), Files: files}
	s.logger.Info("Static website published",
		zap.String("bucket", bucketName),
		zap.String("endpoint", res.Endpoint),
		zap.Int("files", files),
	)
	return res, nil
}
