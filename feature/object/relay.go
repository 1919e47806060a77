package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"s3-toolkit/core/storage"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// RelayTypes are the media types Relay accepts, matched against sniffed content.
var RelayTypes = []string{
	"image/bmp",
	"image/jpeg",
	"image/png",
	"image/webp",
	"video/mp4",
}

// RelayRequest describes a download-and-store operation.
type RelayRequest struct {
	SourceURL string
	Bucket    string
	Key       string
	// KeepLocal also writes the downloaded bytes to LocalDir/<basename of Key>.
	KeepLocal bool
	LocalDir  string
}

// Relay downloads SourceURL and stores it under Bucket/Key when its content is an allowed type.
// The object gets the sniffed content type and an inline disposition. It returns the object's URL.
func (s *Service) Relay(ctx context.Context, req RelayRequest) (string, error) {
	data, err := s.fetch(ctx, req.SourceURL)
	if err != nil {
		return "", s.fail("relay-fetch", req.Bucket, req.Key, err)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), RelayTypes...) {
		err := storage.NewError(storage.KindUnsupportedMediaType, "relay",
			fmt.Errorf("content type %s is not allowed", mt.String())).WithKey(req.Key)
		err.Bucket = req.Bucket
		return "", s.fail("relay-sniff", req.Bucket, req.Key, err)
	}

	_, err = s.client.PutObject(ctx, storage.PutObjectInput{
		Bucket:             req.Bucket,
		Key:                req.Key,
		Body:               bytes.NewReader(data),
		Size:               int64(len(data)),
		ContentType:        mt.String(),
		ContentDisposition: "inline",
	})
	if err != nil {
		return "", s.fail("relay-upload", req.Bucket, req.Key, err)
	}

	if req.KeepLocal {
		s.keepLocal(req, data)
	}

	url := s.PublicURL(req.Bucket, req.Key)
	s.logger.Info("File relayed",
		zap.String("source", req.SourceURL),
		zap.String("content_type", mt.String()),
		zap.String("url", url),
	)
	return url, nil
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, storage.NewError(storage.KindRemoteService, "download", err).WithKey(url)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, storage.NewError(storage.KindRemoteService, "download", err).WithKey(url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &storage.Error{
			Kind: storage.KindRemoteService,
			Op:   "download",
			Key:  url,
			Code: http.StatusText(resp.StatusCode),
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, storage.NewError(storage.KindRemoteService, "download", err).WithKey(url)
	}
	return data, nil
}

// keepLocal writes the relayed bytes next to the working directory. Failures are only logged.
func (s *Service) keepLocal(req RelayRequest, data []byte) {
	dir := req.LocalDir
	if dir == "" {
		dir = "."
	}
	target := filepath.Join(dir, path.Base(req.Key))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.logger.Warn("Failed to keep local copy", zap.String("path", target), zap.Error(err))
		return
	}
	s.logger.Debug("Local copy written", zap.String("path", target))
}

// PublicURL returns the address of an object. For AWS it uses the regional
// path-style endpoint; for a custom endpoint it appends bucket and key to it.
func (s *Service) PublicURL(bucket, key string) string {
	if s.cfg.Endpoint == "" {
		return fmt.Sprintf("https://s3-%s.amazonaws.com/%s/%s", s.cfg.Region, bucket, key)
	}
	endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if s.cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	return fmt.Sprintf("%s/%s/%s", endpoint, bucket, key)
}
