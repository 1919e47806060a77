package object

import (
	"context"
	"path/filepath"
	"strings"

	"s3-toolkit/core/storage"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// SmartUpload sniffs the content of a local file and stores it under
// <top-level MIME type>/<basename> with the detected content type. It returns the key.
func (s *Service) SmartUpload(ctx context.Context, localPath, bucket string) (string, error) {
	mt, err := mimetype.DetectFile(localPath)
	if err != nil {
		return "", s.fail("smart-upload", bucket, localPath,
			storage.NewError(storage.KindLocalIO, "detect", err).WithKey(localPath))
	}

	topLevel, _, _ := strings.Cut(mt.String(), "/")
	key := topLevel + "/" + filepath.Base(localPath)

	if _, err := s.Upload(ctx, UploadRequest{
		Path:        localPath,
		Bucket:      bucket,
		Key:         key,
		Strategy:    StrategyStream,
		ContentType: mt.String(),
	}); err != nil {
		return "", err
	}

	s.logger.Info("File shelved by content type",
		zap.String("key", key),
		zap.String("content_type", mt.String()),
	)
	return key, nil
}
