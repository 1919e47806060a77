package memstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"s3-toolkit/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func put(t *testing.T, s *Store, bucket, key, body string) storage.UploadResult {
	t.Helper()
	res, err := s.PutObject(context.Background(), storage.PutObjectInput{
		Bucket: bucket, Key: key, Body: bytes.NewReader([]byte(body)), Size: int64(len(body)),
	})
	require.NoError(t, err)
	return res
}

func TestStore_Versioning(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateBucket(ctx, storage.BucketDescriptor{Name: "b", Region: "us-west-2"}))

	t.Run("UnversionedKeepsOneVersion", func(t *testing.T) {
		put(t, s, "b", "k", "one")
		put(t, s, "b", "k", "two")
		versions, err := s.ListObjectVersions(ctx, "b", "k")
		require.NoError(t, err)
		require.Len(t, versions, 1)
		assert.Equal(t, "null", versions[0].VersionID)
	})

	t.Run("VersionedKeepsHistoryNewestFirst", func(t *testing.T) {
		require.NoError(t, s.EnableVersioning(ctx, "b"))
		put(t, s, "b", "v", "one")
		put(t, s, "b", "v", "two")
		versions, err := s.ListObjectVersions(ctx, "b", "v")
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.True(t, versions[0].IsLatest)
		data, ok := s.VersionBytes("b", "v", versions[1].VersionID)
		require.True(t, ok)
		assert.Equal(t, "one", string(data))
	})

	t.Run("DeleteAddsMarker", func(t *testing.T) {
		require.NoError(t, s.DeleteObject(ctx, storage.ObjectKey{Bucket: "b", Key: "v"}))
		objects, err := s.ListObjects(ctx, "b", "v")
		require.NoError(t, err)
		assert.Empty(t, objects)
		versions, err := s.ListObjectVersions(ctx, "b", "v")
		require.NoError(t, err)
		assert.Len(t, versions, 2)
	})
}

func TestStore_Multipart(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateBucket(ctx, storage.BucketDescriptor{Name: "b"}))

	id, err := s.CreateMultipartUpload(ctx, "b", "big", "text/plain")
	require.NoError(t, err)

	var parts []storage.PartRecord
	for i, chunk := range []string{"hello ", "world"} {
		p, err := s.UploadPart(ctx, storage.PartInput{Bucket: "b", Key: "big", UploadID: id, PartNumber: int32(i + 1), Body: bytes.NewReader([]byte(chunk))})
		require.NoError(t, err)
		parts = append(parts, p)
	}

	t.Run("RejectsOutOfOrderParts", func(t *testing.T) {
		_, err := s.CompleteMultipartUpload(ctx, "b", "big", id, []storage.PartRecord{parts[1], parts[0]})
		assert.ErrorIs(t, err, storage.ErrRemoteService)
		assert.Equal(t, "InvalidPartOrder", storage.CodeOf(err))
	})

	t.Run("AssemblesInOrder", func(t *testing.T) {
		_, err := s.CompleteMultipartUpload(ctx, "b", "big", id, parts)
		require.NoError(t, err)
		data, contentType, ok := s.Object("b", "big")
		require.True(t, ok)
		assert.Equal(t, "hello world", string(data))
		assert.Equal(t, "text/plain", contentType)
		assert.Empty(t, s.PendingUploads())
	})
}

func TestStore_FailOn(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateBucket(ctx, storage.BucketDescriptor{Name: "b"}))

	s.FailOn("GetObject", errors.New("denied"))
	_, err := s.GetObject(ctx, storage.ObjectKey{Bucket: "b", Key: "k"})
	assert.ErrorIs(t, err, storage.ErrRemoteService)
	assert.Equal(t, 1, s.Calls("GetObject"))

	s.FailOn("GetObject", nil)
	put(t, s, "b", "k", "data")
	rc, err := s.GetObject(ctx, storage.ObjectKey{Bucket: "b", Key: "k"})
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "data", string(data))
}

func TestStore_GetObjectContentType(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateBucket(ctx, storage.BucketDescriptor{Name: "b"}))
	require.NoError(t, s.EnableVersioning(ctx, "b"))

	first, err := s.PutObject(ctx, storage.PutObjectInput{
		Bucket: "b", Key: "k", Body: bytes.NewReader([]byte("a,b")), Size: 3, ContentType: "text/csv",
	})
	require.NoError(t, err)
	_, err = s.PutObject(ctx, storage.PutObjectInput{
		Bucket: "b", Key: "k", Body: bytes.NewReader([]byte("{}")), Size: 2, ContentType: "application/json",
	})
	require.NoError(t, err)

	current, err := s.GetObject(ctx, storage.ObjectKey{Bucket: "b", Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", current.ContentType)

	old, err := s.GetObject(ctx, storage.ObjectKey{Bucket: "b", Key: "k", VersionID: first.VersionID})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", old.ContentType)
	data, _ := io.ReadAll(old)
	assert.Equal(t, "a,b", string(data))
}

func TestStore_PublicAccessBlock(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateBucket(ctx, storage.BucketDescriptor{Name: "b"}))

	policy := `{"Statement":[{"Principal":"*"}]}`
	assert.Error(t, s.PutBucketPolicy(ctx, "b", policy))
	require.NoError(t, s.DeletePublicAccessBlock(ctx, "b"))
	require.NoError(t, s.PutBucketPolicy(ctx, "b", policy))
	got, err := s.GetBucketPolicy(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, policy, got)
}
