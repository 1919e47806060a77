package storage

import (
	"io"
	"time"
)

// BucketDescriptor identifies a bucket and the region it lives in.
type BucketDescriptor struct {
	Name   string
	Region string
}

// BucketInfo is a single entry of a bucket listing.
type BucketInfo struct {
	Name      string
	CreatedAt time.Time
}

// ObjectKey identifies a stored object, or one version of it when VersionID is set.
type ObjectKey struct {
	Bucket    string
	Key       string
	VersionID string
}

// ObjectInfo is a single entry of an object listing.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// IsFolder reports whether the key is a folder placeholder.
func (o ObjectInfo) IsFolder() bool {
	return len(o.Key) > 0 && o.Key[len(o.Key)-1] == '/'
}

// VersionRecord is the metadata of one historical revision of an object.
type VersionRecord struct {
	Key          string
	VersionID    string
	IsLatest     bool
	LastModified time.Time
	Size         int64
	ETag         string
}

// PartRecord is the integrity tag the backend returned for one uploaded part.
type PartRecord struct {
	PartNumber int32
	ETag       string
}

// VersioningStatus is the versioning state of a bucket.
type VersioningStatus string

const (
	VersioningEnabled   VersioningStatus = "Enabled"
	VersioningSuspended VersioningStatus = "Suspended"
	// VersioningDisabled is reported for buckets that never had versioning configured.
	VersioningDisabled VersioningStatus = "Disabled"
)

// CannedACL is a predefined access control list.
type CannedACL string

const ACLPublicRead CannedACL = "public-read"

// LifecycleRule expires objects under Prefix after ExpirationDays days.
type LifecycleRule struct {
	ID             string
	Prefix         string
	ExpirationDays int32
}

// WebsiteConfig names the documents served by static website hosting.
type WebsiteConfig struct {
	IndexDocument string
	ErrorDocument string
}

// PutObjectInput describes a single-request upload.
// Size may be -1 when the length of Body is unknown.
type PutObjectInput struct {
	Bucket             string
	Key                string
	Body               io.Reader
	Size               int64
	ContentType        string
	ContentDisposition string
}

// ObjectReader is an open object body with the content type it was stored with.
// Callers close it.
type ObjectReader struct {
	io.ReadCloser
	ContentType string
}

// UploadResult describes a stored object after an upload or copy.
type UploadResult struct {
	Bucket    string
	Key       string
	ETag      string
	VersionID string
}

// PartInput describes one part of a multipart upload.
type PartInput struct {
	Bucket     string
	Key        string
	UploadID   string
	PartNumber int32
	Body       io.Reader
	Size       int64
}
