package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"s3-toolkit/core/storage"

	"go.uber.org/zap"
)

// ErrNoPreviousVersion is returned by RestorePreviousVersion when the key has fewer than two versions.
var ErrNoPreviousVersion = errors.New("no previous version to restore")

const (
	// monthDays is the length of a month for version purging. It is not calendar-aware.
	monthDays = 30
	// maxPurgeMonths bounds the purge age to ten thousand years.
	maxPurgeMonths = 12 * 10000
)

// ListVersions returns the version records under prefix, newest first per key as the backend orders them.
func (s *Service) ListVersions(ctx context.Context, bucket, prefix string) ([]storage.VersionRecord, error) {
	versions, err := s.client.ListObjectVersions(ctx, bucket, prefix)
	if err != nil {
		return nil, s.fail("list-versions", bucket, prefix, err)
	}
	return versions, nil
}

// keyVersions returns the versions of exactly key, skipping other keys sharing the prefix.
func (s *Service) keyVersions(ctx context.Context, bucket, key string) ([]storage.VersionRecord, error) {
	all, err := s.ListVersions(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	versions := make([]storage.VersionRecord, 0, len(all))
	for _, v := range all {
		if v.Key == key {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// RestorePreviousVersion writes the bytes and content type of the second-newest version
// as a new current version. No version is deleted.
func (s *Service) RestorePreviousVersion(ctx context.Context, bucket, key string) (storage.UploadResult, error) {
	versions, err := s.keyVersions(ctx, bucket, key)
	if err != nil {
		return storage.UploadResult{}, err
	}
	if len(versions) < 2 {
		return storage.UploadResult{}, s.fail("restore", bucket, key,
			fmt.Errorf("%w: %s has %d version(s)", ErrNoPreviousVersion, key, len(versions)))
	}
	previous := versions[1]

	body, err := s.client.GetObject(ctx, storage.ObjectKey{Bucket: bucket, Key: key, VersionID: previous.VersionID})
	if err != nil {
		return storage.UploadResult{}, s.fail("restore-read", bucket, key, err)
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return storage.UploadResult{}, s.fail("restore-read", bucket, key,
			storage.RemoteError("GetObject", bucket, key, "", err))
	}

	res, err := s.client.PutObject(ctx, storage.PutObjectInput{
		Bucket:      bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: body.ContentType,
	})
	if err != nil {
		return storage.UploadResult{}, s.fail("restore-write", bucket, key, err)
	}

	s.logger.Info("Previous version restored",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.String("from_version", previous.VersionID),
		zap.String("new_version", res.VersionID),
	)
	return res, nil
}

// PurgeVersionsOlderThan deletes every version of key last modified strictly before
// now minus months*30 days, and returns the deleted records.
func (s *Service) PurgeVersionsOlderThan(ctx context.Context, bucket, key string, months int) ([]storage.VersionRecord, error) {
	if months < 0 || months > maxPurgeMonths {
		return nil, fmt.Errorf("months must be between 0 and %d, got %d", maxPurgeMonths, months)
	}
	cutoff := s.now().AddDate(0, 0, -months*monthDays)

	versions, err := s.keyVersions(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	var deleted []storage.VersionRecord
	for _, v := range versions {
		if !v.LastModified.Before(cutoff) {
			continue
		}
		err := s.client.DeleteObject(ctx, storage.ObjectKey{Bucket: bucket, Key: key, VersionID: v.VersionID})
		if err != nil {
			return deleted, s.fail("purge", bucket, key, err)
		}
		s.logger.Info("Old version deleted",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.String("version", v.VersionID),
			zap.Time("last_modified", v.LastModified),
		)
		deleted = append(deleted, v)
	}
	return deleted, nil
}
