package object

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"s3-toolkit/core/storage"

	"go.uber.org/zap"
)

// Strategy selects how the bytes of a local file reach the storage client.
type Strategy int

const (
	StrategyDirect Strategy = iota
	StrategyStream
	StrategyBuffered
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyStream:
		return "stream"
	case StrategyBuffered:
		return "buffered"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// UploadRequest describes a local file upload.
type UploadRequest struct {
	Path     string
	Bucket   string
	Key      string
	Strategy Strategy
	// ContentType is optional; empty leaves it to the backend.
	ContentType string
}

// Upload stores a local file under Bucket/Key.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (storage.UploadResult, error) {
	var (
		res storage.UploadResult
		err error
	)
	switch req.Strategy {
	case StrategyDirect:
		res, err = s.client.UploadFile(ctx, req.Bucket, req.Key, req.Path, req.ContentType)
	case StrategyStream:
		res, err = s.uploadStream(ctx, req)
	case StrategyBuffered:
		res, err = s.uploadBuffered(ctx, req)
	default:
		err = fmt.Errorf("unknown upload strategy %d", int(req.Strategy))
	}
	if err != nil {
		return storage.UploadResult{}, s.fail("upload-"+req.Strategy.String(), req.Bucket, req.Key, err)
	}

	s.logger.Info("File uploaded",
		zap.String("path", req.Path),
		zap.String("bucket", req.Bucket),
		zap.String("key", req.Key),
		zap.Stringer("strategy", req.Strategy),
	)
	return res, nil
}

func (s *Service) uploadStream(ctx context.Context, req UploadRequest) (storage.UploadResult, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return storage.UploadResult{}, storage.NewError(storage.KindLocalIO, "open", err).WithKey(req.Path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return storage.UploadResult{}, storage.NewError(storage.KindLocalIO, "stat", err).WithKey(req.Path)
	}

	return s.client.PutObject(ctx, storage.PutObjectInput{
		Bucket:      req.Bucket,
		Key:         req.Key,
		Body:        f,
		Size:        info.Size(),
		ContentType: req.ContentType,
	})
}

func (s *Service) uploadBuffered(ctx context.Context, req UploadRequest) (storage.UploadResult, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return storage.UploadResult{}, storage.NewError(storage.KindLocalIO, "read", err).WithKey(req.Path)
	}

	return s.client.PutObject(ctx, storage.PutObjectInput{
		Bucket:      req.Bucket,
		Key:         req.Key,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: req.ContentType,
	})
}
