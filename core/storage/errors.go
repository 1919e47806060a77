package storage

import (
	"errors"
	"fmt"
)

// Kind classifies an error by where it came from.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConnection is a credential or connectivity failure at client construction.
	KindConnection
	// KindRemoteService is any backend rejection: permissions, not-found, conflict, quota.
	KindRemoteService
	// KindUnsupportedMediaType is a content-sniffing rejection.
	KindUnsupportedMediaType
	// KindLocalIO is a missing or unreadable local file.
	KindLocalIO
	// KindMultipartUpload is any failure during the chunked upload workflow.
	KindMultipartUpload
)

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrConnection           = errors.New("connection error")
	ErrRemoteService        = errors.New("remote service error")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrLocalIO              = errors.New("local io error")
	ErrMultipartUpload      = errors.New("multipart upload error")

	// ErrNotSupported is wrapped by drivers for operations their backend does not offer.
	ErrNotSupported = errors.New("operation not supported by storage driver")
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "ConnectionError"
	case KindRemoteService:
		return "RemoteServiceError"
	case KindUnsupportedMediaType:
		return "UnsupportedMediaType"
	case KindLocalIO:
		return "LocalIOError"
	case KindMultipartUpload:
		return "MultipartUploadError"
	default:
		return "UnknownError"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnection
	case KindRemoteService:
		return ErrRemoteService
	case KindUnsupportedMediaType:
		return ErrUnsupportedMediaType
	case KindLocalIO:
		return ErrLocalIO
	case KindMultipartUpload:
		return ErrMultipartUpload
	default:
		return nil
	}
}

// Error is a classified failure with the operation and object it concerned.
type Error struct {
	Kind Kind
	// Op is the operation that failed (e.g., "CreateBucket", "upload").
	Op     string
	Bucket string
	Key    string
	// Code is the backend error code when one was returned (e.g., "NoSuchKey").
	Code string
	Err  error
}

func (e *Error) Error() string {
	var target string
	switch {
	case e.Bucket != "" && e.Key != "":
		target = " " + e.Bucket + "/" + e.Key
	case e.Bucket != "":
		target = " bucket " + e.Bucket
	case e.Key != "":
		target = " object " + e.Key
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s%s: %s: %v", e.Kind, e.Op, target, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s%s: %v", e.Kind, e.Op, target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewError creates a classified error.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// RemoteError creates a KindRemoteService error for a bucket/key.
func RemoteError(op, bucket, key, code string, err error) *Error {
	return &Error{Kind: KindRemoteService, Op: op, Bucket: bucket, Key: key, Code: code, Err: err}
}

// WithBucket adds bucket context.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// KindOf returns the Kind of the first *Error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the backend error code of the first *Error in the chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound reports whether the backend said the bucket, object or configuration does not exist.
func IsNotFound(err error) bool {
	switch CodeOf(err) {
	case "NotFound", "NoSuchKey", "NoSuchBucket", "NoSuchVersion", "NoSuchBucketPolicy":
		return true
	default:
		return false
	}
}
