package memstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"s3-toolkit/core/storage"
)

// Store is a versioned in-memory implementation of storage.Client.
type Store struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	uploads map[string]*upload
	failAt  map[string]error
	calls   map[string]int
	seq     int
	now     func() time.Time
}

type bucket struct {
	region            string
	versioning        storage.VersioningStatus
	policy            string
	publicAccessBlock bool
	lifecycle         []storage.LifecycleRule
	website           *storage.WebsiteConfig
	// objects holds the versions of each key, newest first.
	objects map[string][]*version
	acls    map[string]storage.CannedACL
}

type version struct {
	id           string
	data         []byte
	contentType  string
	disposition  string
	modified     time.Time
	deleteMarker bool
}

type upload struct {
	bucket      string
	key         string
	contentType string
	parts       map[int32][]byte
}

var _ storage.Client = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		buckets: make(map[string]*bucket),
		uploads: make(map[string]*upload),
		failAt:  make(map[string]error),
		calls:   make(map[string]int),
		now:     time.Now,
	}
}

// SetNow replaces the clock used to stamp new versions.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOn makes every following call of op return err wrapped as a remote error.
// Passing a nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failAt, op)
		return
	}
	s.failAt[op] = err
}

// Calls returns how many times op was invoked.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Seed stores a version with an explicit modification time, creating the bucket if needed.
// The bucket is switched to versioning so seeded versions accumulate.
func (s *Store) Seed(bucketName, key string, data []byte, modified time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucketName]
	if !ok {
		b = newBucket("")
		s.buckets[bucketName] = b
	}
	b.versioning = storage.VersioningEnabled
	v := s.newVersion(data, "", "")
	v.modified = modified
	b.objects[key] = append([]*version{v}, b.objects[key]...)
	return v.id
}

// Object returns the bytes and content type of the current version of key.
func (s *Store) Object(bucketName, key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucketName]
	if !ok {
		return nil, "", false
	}
	v := b.latest(key)
	if v == nil {
		return nil, "", false
	}
	return v.data, v.contentType, true
}

// Disposition returns the content disposition of the current version of key.
func (s *Store) Disposition(bucketName, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucketName]; ok {
		if v := b.latest(key); v != nil {
			return v.disposition
		}
	}
	return ""
}

// VersionBytes returns the bytes of one version of key.
func (s *Store) VersionBytes(bucketName, key, versionID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucketName]
	if !ok {
		return nil, false
	}
	for _, v := range b.objects[key] {
		if v.id == versionID && !v.deleteMarker {
			return v.data, true
		}
	}
	return nil, false
}

// Policy returns the bucket policy and whether the public access block is still present.
func (s *Store) Policy(bucketName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucketName]; ok {
		return b.policy, b.publicAccessBlock
	}
	return "", false
}

// Lifecycle returns the lifecycle rules of a bucket.
func (s *Store) Lifecycle(bucketName string) []storage.LifecycleRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucketName]; ok {
		return b.lifecycle
	}
	return nil
}

// Website returns the website configuration of a bucket.
func (s *Store) Website(bucketName string) *storage.WebsiteConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucketName]; ok {
		return b.website
	}
	return nil
}

// ACL returns the canned ACL applied to key.
func (s *Store) ACL(bucketName, key string) storage.CannedACL {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucketName]; ok {
		return b.acls[key]
	}
	return ""
}

// PartSizes returns the size of every part received for uploadID, by part number.
func (s *Store) PartSizes(uploadID string) map[int32]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make(map[int32]int)
	if u, ok := s.uploads[uploadID]; ok {
		for n, data := range u.parts {
			sizes[n] = len(data)
		}
	}
	return sizes
}

// PendingUploads returns the ids of multipart uploads that were never completed.
func (s *Store) PendingUploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.uploads))
	for id := range s.uploads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func newBucket(region string) *bucket {
	return &bucket{
		region:            region,
		versioning:        storage.VersioningDisabled,
		publicAccessBlock: true,
		objects:           make(map[string][]*version),
		acls:              make(map[string]storage.CannedACL),
	}
}

func (b *bucket) latest(key string) *version {
	versions := b.objects[key]
	if len(versions) == 0 || versions[0].deleteMarker {
		return nil
	}
	return versions[0]
}

func (s *Store) newVersion(data []byte, contentType, disposition string) *version {
	s.seq++
	return &version{
		id:          fmt.Sprintf("v%06d", s.seq),
		data:        data,
		contentType: contentType,
		disposition: disposition,
		modified:    s.now(),
	}
}

// enter records the call and returns the injected failure, if any. Callers hold s.mu.
func (s *Store) enter(op, bucketName, key string) error {
	s.calls[op]++
	if err, ok := s.failAt[op]; ok {
		return storage.RemoteError(op, bucketName, key, "InjectedFailure", err)
	}
	return nil
}

func (s *Store) bucket(op, name, key string) (*bucket, error) {
	if err := s.enter(op, name, key); err != nil {
		return nil, err
	}
	b, ok := s.buckets[name]
	if !ok {
		return nil, storage.RemoteError(op, name, key, "NoSuchBucket", errors.New("the specified bucket does not exist"))
	}
	return b, nil
}

func (s *Store) store(b *bucket, key string, v *version) {
	if b.versioning == storage.VersioningEnabled {
		b.objects[key] = append([]*version{v}, b.objects[key]...)
		return
	}
	v.id = "null"
	b.objects[key] = []*version{v}
}

func etag(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func (s *Store) ListBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListBuckets", "", ""); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	infos := make([]storage.BucketInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, storage.BucketInfo{Name: name})
	}
	return infos, nil
}

func (s *Store) CreateBucket(ctx context.Context, desc storage.BucketDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateBucket", desc.Name, ""); err != nil {
		return err
	}
	if _, ok := s.buckets[desc.Name]; ok {
		return storage.RemoteError("CreateBucket", desc.Name, "", "BucketAlreadyOwnedByYou", errors.New("bucket already exists"))
	}
	s.buckets[desc.Name] = newBucket(desc.Region)
	return nil
}

func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("DeleteBucket", name, "")
	if err != nil {
		return err
	}
	if len(b.objects) > 0 {
		return storage.RemoteError("DeleteBucket", name, "", "BucketNotEmpty", errors.New("the bucket you tried to delete is not empty"))
	}
	delete(s.buckets, name)
	return nil
}

func (s *Store) BucketExists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("BucketExists", name, ""); err != nil {
		return false, err
	}
	_, ok := s.buckets[name]
	return ok, nil
}

func (s *Store) DeletePublicAccessBlock(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("DeletePublicAccessBlock", name, "")
	if err != nil {
		return err
	}
	b.publicAccessBlock = false
	return nil
}

func (s *Store) PutBucketPolicy(ctx context.Context, name, policy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("PutBucketPolicy", name, "")
	if err != nil {
		return err
	}
	if b.publicAccessBlock && strings.Contains(policy, `"Principal":"*"`) {
		return storage.RemoteError("PutBucketPolicy", name, "", "AccessDenied", errors.New("public policies are blocked by the BlockPublicPolicy setting"))
	}
	b.policy = policy
	return nil
}

func (s *Store) GetBucketPolicy(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("GetBucketPolicy", name, "")
	if err != nil {
		return "", err
	}
	if b.policy == "" {
		return "", storage.RemoteError("GetBucketPolicy", name, "", "NoSuchBucketPolicy", errors.New("the bucket policy does not exist"))
	}
	return b.policy, nil
}

func (s *Store) EnableVersioning(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("EnableVersioning", name, "")
	if err != nil {
		return err
	}
	b.versioning = storage.VersioningEnabled
	return nil
}

func (s *Store) GetBucketVersioning(ctx context.Context, name string) (storage.VersioningStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("GetBucketVersioning", name, "")
	if err != nil {
		return "", err
	}
	return b.versioning, nil
}

func (s *Store) PutBucketLifecycle(ctx context.Context, name string, rules []storage.LifecycleRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("PutBucketLifecycle", name, "")
	if err != nil {
		return err
	}
	b.lifecycle = append([]storage.LifecycleRule(nil), rules...)
	return nil
}

func (s *Store) PutBucketWebsite(ctx context.Context, name string, cfg storage.WebsiteConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("PutBucketWebsite", name, "")
	if err != nil {
		return err
	}
	b.website = &cfg
	return nil
}

func (s *Store) UploadFile(ctx context.Context, bucketName, key, path, contentType string) (storage.UploadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return storage.UploadResult{}, storage.NewError(storage.KindLocalIO, "UploadFile", err).WithKey(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("UploadFile", bucketName, key)
	if err != nil {
		return storage.UploadResult{}, err
	}
	v := s.newVersion(data, contentType, "")
	s.store(b, key, v)
	return storage.UploadResult{Bucket: bucketName, Key: key, ETag: etag(data), VersionID: v.id}, nil
}

func (s *Store) PutObject(ctx context.Context, in storage.PutObjectInput) (storage.UploadResult, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return storage.UploadResult{}, storage.RemoteError("PutObject", in.Bucket, in.Key, "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("PutObject", in.Bucket, in.Key)
	if err != nil {
		return storage.UploadResult{}, err
	}
	if in.Size >= 0 && int64(len(data)) != in.Size {
		return storage.UploadResult{}, storage.RemoteError("PutObject", in.Bucket, in.Key, "IncompleteBody",
			fmt.Errorf("declared %d bytes, received %d", in.Size, len(data)))
	}
	v := s.newVersion(data, in.ContentType, in.ContentDisposition)
	s.store(b, in.Key, v)
	return storage.UploadResult{Bucket: in.Bucket, Key: in.Key, ETag: etag(data), VersionID: v.id}, nil
}

func (s *Store) GetObject(ctx context.Context, key storage.ObjectKey) (*storage.ObjectReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("GetObject", key.Bucket, key.Key)
	if err != nil {
		return nil, err
	}
	if key.VersionID == "" {
		if v := b.latest(key.Key); v != nil {
			return v.reader(), nil
		}
		return nil, storage.RemoteError("GetObject", key.Bucket, key.Key, "NoSuchKey", errors.New("the specified key does not exist"))
	}
	for _, v := range b.objects[key.Key] {
		if v.id == key.VersionID && !v.deleteMarker {
			return v.reader(), nil
		}
	}
	return nil, storage.RemoteError("GetObject", key.Bucket, key.Key, "NoSuchVersion", errors.New("the specified version does not exist"))
}

func (v *version) reader() *storage.ObjectReader {
	return &storage.ObjectReader{
		ReadCloser:  io.NopCloser(bytes.NewReader(v.data)),
		ContentType: v.contentType,
	}
}

func (s *Store) DeleteObject(ctx context.Context, key storage.ObjectKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("DeleteObject", key.Bucket, key.Key)
	if err != nil {
		return err
	}
	versions := b.objects[key.Key]
	if key.VersionID != "" {
		kept := versions[:0:0]
		for _, v := range versions {
			if v.id != key.VersionID {
				kept = append(kept, v)
			}
		}
		versions = kept
	} else if b.versioning == storage.VersioningEnabled {
		if len(versions) > 0 {
			marker := s.newVersion(nil, "", "")
			marker.deleteMarker = true
			versions = append([]*version{marker}, versions...)
		}
	} else {
		versions = nil
	}
	if len(versions) == 0 {
		delete(b.objects, key.Key)
		delete(b.acls, key.Key)
		return nil
	}
	b.objects[key.Key] = versions
	return nil
}

func (s *Store) PutObjectACL(ctx context.Context, bucketName, key string, acl storage.CannedACL) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("PutObjectACL", bucketName, key)
	if err != nil {
		return err
	}
	if b.latest(key) == nil {
		return storage.RemoteError("PutObjectACL", bucketName, key, "NoSuchKey", errors.New("the specified key does not exist"))
	}
	b.acls[key] = acl
	return nil
}

func (s *Store) CopyObject(ctx context.Context, bucketName, srcKey, dstKey string) (storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("CopyObject", bucketName, srcKey)
	if err != nil {
		return storage.UploadResult{}, err
	}
	src := b.latest(srcKey)
	if src == nil {
		return storage.UploadResult{}, storage.RemoteError("CopyObject", bucketName, srcKey, "NoSuchKey", errors.New("the specified key does not exist"))
	}
	v := s.newVersion(append([]byte(nil), src.data...), src.contentType, src.disposition)
	s.store(b, dstKey, v)
	return storage.UploadResult{Bucket: bucketName, Key: dstKey, ETag: etag(v.data), VersionID: v.id}, nil
}

func (s *Store) ListObjects(ctx context.Context, bucketName, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("ListObjects", bucketName, prefix)
	if err != nil {
		return nil, err
	}
	var objects []storage.ObjectInfo
	for _, key := range b.sortedKeys(prefix) {
		if v := b.latest(key); v != nil {
			objects = append(objects, storage.ObjectInfo{
				Key:          key,
				Size:         int64(len(v.data)),
				LastModified: v.modified,
				ETag:         etag(v.data),
			})
		}
	}
	return objects, nil
}

func (s *Store) ListObjectVersions(ctx context.Context, bucketName, prefix string) ([]storage.VersionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("ListObjectVersions", bucketName, prefix)
	if err != nil {
		return nil, err
	}
	var records []storage.VersionRecord
	for _, key := range b.sortedKeys(prefix) {
		for i, v := range b.objects[key] {
			if v.deleteMarker {
				continue
			}
			records = append(records, storage.VersionRecord{
				Key:          key,
				VersionID:    v.id,
				IsLatest:     i == 0,
				LastModified: v.modified,
				Size:         int64(len(v.data)),
				ETag:         etag(v.data),
			})
		}
	}
	return records, nil
}

func (b *bucket) sortedKeys(prefix string) []string {
	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) CreateMultipartUpload(ctx context.Context, bucketName, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.bucket("CreateMultipartUpload", bucketName, key); err != nil {
		return "", err
	}
	s.seq++
	id := fmt.Sprintf("upload-%06d", s.seq)
	s.uploads[id] = &upload{bucket: bucketName, key: key, contentType: contentType, parts: make(map[int32][]byte)}
	return id, nil
}

func (s *Store) UploadPart(ctx context.Context, in storage.PartInput) (storage.PartRecord, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return storage.PartRecord{}, storage.RemoteError("UploadPart", in.Bucket, in.Key, "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UploadPart", in.Bucket, in.Key); err != nil {
		return storage.PartRecord{}, err
	}
	u, ok := s.uploads[in.UploadID]
	if !ok || u.bucket != in.Bucket || u.key != in.Key {
		return storage.PartRecord{}, storage.RemoteError("UploadPart", in.Bucket, in.Key, "NoSuchUpload", errors.New("the specified upload does not exist"))
	}
	if in.PartNumber < 1 || in.PartNumber > 10000 {
		return storage.PartRecord{}, storage.RemoteError("UploadPart", in.Bucket, in.Key, "InvalidArgument", fmt.Errorf("part number %d out of range", in.PartNumber))
	}
	u.parts[in.PartNumber] = data
	return storage.PartRecord{PartNumber: in.PartNumber, ETag: etag(data)}, nil
}

func (s *Store) CompleteMultipartUpload(ctx context.Context, bucketName, key, uploadID string, parts []storage.PartRecord) (storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket("CompleteMultipartUpload", bucketName, key)
	if err != nil {
		return storage.UploadResult{}, err
	}
	u, ok := s.uploads[uploadID]
	if !ok || u.bucket != bucketName || u.key != key {
		return storage.UploadResult{}, storage.RemoteError("CompleteMultipartUpload", bucketName, key, "NoSuchUpload", errors.New("the specified upload does not exist"))
	}
	if len(parts) == 0 {
		return storage.UploadResult{}, storage.RemoteError("CompleteMultipartUpload", bucketName, key, "MalformedXML", errors.New("no parts given"))
	}
	var buf bytes.Buffer
	var last int32
	for _, p := range parts {
		if p.PartNumber <= last {
			return storage.UploadResult{}, storage.RemoteError("CompleteMultipartUpload", bucketName, key, "InvalidPartOrder", fmt.Errorf("part %d after part %d", p.PartNumber, last))
		}
		data, ok := u.parts[p.PartNumber]
		if !ok || etag(data) != p.ETag {
			return storage.UploadResult{}, storage.RemoteError("CompleteMultipartUpload", bucketName, key, "InvalidPart", fmt.Errorf("part %d not found or etag mismatch", p.PartNumber))
		}
		buf.Write(data)
		last = p.PartNumber
	}
	v := s.newVersion(buf.Bytes(), u.contentType, "")
	s.store(b, key, v)
	delete(s.uploads, uploadID)
	return storage.UploadResult{Bucket: bucketName, Key: key, ETag: fmt.Sprintf("%s-%d", etag(v.data), len(parts)), VersionID: v.id}, nil
}
