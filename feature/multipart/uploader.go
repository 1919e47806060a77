package multipart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"s3-toolkit/core/storage"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	MiB = 1024 * 1024
	GiB = 1024 * MiB
	// DefaultPartSize is the smallest part size S3 accepts for all but the last part.
	DefaultPartSize = 5 * MiB
	// MaxPartSize is the largest part S3 accepts.
	MaxPartSize = 5 * GiB
)

// ProgressFunc receives the bytes sent so far and the file size after each part.
type ProgressFunc func(sent, total int64)

// Request describes a multipart upload of a local file.
type Request struct {
	Path     string
	Bucket   string
	Key      string
	PartSize int64
	Progress ProgressFunc
}

// Uploader runs multipart uploads.
type Uploader struct {
	client storage.Client
	logger *zap.Logger
}

// NewUploader creates a new multipart uploader.
func NewUploader(client storage.Client, logger *zap.Logger) *Uploader {
	return &Uploader{
		client: client,
		logger: logger,
	}
}

// Upload sends the file at req.Path as a multipart upload.
// The returned session is non-nil once the backend has issued an upload id, even on failure.
func (u *Uploader) Upload(ctx context.Context, req Request) (*Session, error) {
	partSize := req.PartSize
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	if partSize > MaxPartSize {
		return nil, u.fail(nil, req, "validate",
			fmt.Errorf("part size %d exceeds the maximum of %d bytes", partSize, int64(MaxPartSize)))
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, u.fail(nil, req, "open", storage.NewError(storage.KindLocalIO, "open", err).WithKey(req.Path))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, u.fail(nil, req, "stat", storage.NewError(storage.KindLocalIO, "stat", err).WithKey(req.Path))
	}
	total := info.Size()

	buf := make([]byte, bufferSize(partSize, total))
	n, last, err := readChunk(f, buf)
	if err != nil {
		return nil, u.fail(nil, req, "read", storage.NewError(storage.KindLocalIO, "read", err).WithKey(req.Path))
	}
	contentType := mimetype.Detect(buf[:n]).String()

	uploadID, err := u.client.CreateMultipartUpload(ctx, req.Bucket, req.Key, contentType)
	if err != nil {
		return nil, u.fail(nil, req, "initiate", err)
	}
	session := &Session{UploadID: uploadID, Bucket: req.Bucket, Key: req.Key, State: StateInitiated}
	u.logger.Debug("Multipart upload initiated",
		zap.String("upload_id", uploadID),
		zap.String("content_type", contentType),
		zap.Int64("size", total),
		zap.Int64("part_size", partSize),
	)

	var sent int64
	for {
		session.State = StatePartsUploading
		part, err := u.client.UploadPart(ctx, storage.PartInput{
			Bucket:     req.Bucket,
			Key:        req.Key,
			UploadID:   uploadID,
			PartNumber: session.nextPartNumber(),
			Body:       bytes.NewReader(buf[:n]),
			Size:       int64(n),
		})
		if err != nil {
			return session, u.fail(session, req, "upload-part", err)
		}
		session.Parts = append(session.Parts, part)
		sent += int64(n)
		if req.Progress != nil {
			req.Progress(sent, total)
		}

		if last {
			break
		}
		n, last, err = readChunk(f, buf)
		if err != nil {
			return session, u.fail(session, req, "read", storage.NewError(storage.KindLocalIO, "read", err).WithKey(req.Path))
		}
		// The previous chunk ended exactly at end of file.
		if n == 0 {
			break
		}
	}

	result, err := u.client.CompleteMultipartUpload(ctx, req.Bucket, req.Key, uploadID, session.Parts)
	if err != nil {
		return session, u.fail(session, req, "complete", err)
	}
	session.State = StateCompleted
	session.Result = result

	u.logger.Info("Multipart upload completed",
		zap.String("bucket", req.Bucket),
		zap.String("key", req.Key),
		zap.Int("parts", len(session.Parts)),
		zap.Int64("bytes", sent),
	)
	return session, nil
}

// bufferSize is the chunk buffer length for a file of total bytes, never larger than the file.
func bufferSize(partSize, total int64) int64 {
	return min(partSize, max(total, 1))
}

// readChunk fills buf from r. last reports that the end of the file was reached.
func readChunk(r io.Reader, buf []byte) (n int, last bool, err error) {
	n, err = io.ReadFull(r, buf)
	switch {
	case err == nil:
		return n, false, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return n, true, nil
	default:
		return n, false, err
	}
}

func (u *Uploader) fail(session *Session, req Request, step string, err error) error {
	fields := []zap.Field{
		zap.String("op", "multipart-"+step),
		zap.String("bucket", req.Bucket),
		zap.String("key", req.Key),
		zap.Error(err),
	}
	if session != nil {
		session.State = StateFailed
		fields = append(fields,
			zap.String("upload_id", session.UploadID),
			zap.Int("parts_uploaded", len(session.Parts)),
		)
	}
	u.logger.Error("Multipart upload failed", fields...)

	return &storage.Error{
		Kind:   storage.KindMultipartUpload,
		Op:     step,
		Bucket: req.Bucket,
		Key:    req.Key,
		Code:   storage.CodeOf(err),
		Err:    fmt.Errorf("multipart upload of %s: %w", req.Path, err),
	}
}
