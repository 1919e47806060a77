package bucket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"s3-toolkit/core/storage"
	"s3-toolkit/core/storage/memstore"
	"s3-toolkit/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return NewService(store, "aws", zap.NewNop()), store
}

func TestPublicReadPolicy(t *testing.T) {
	policy, err := PublicReadPolicy("aws", "site-bucket")
	require.NoError(t, err)

	var doc PolicyDocument
	require.NoError(t, json.Unmarshal([]byte(policy), &doc))
	assert.Equal(t, "2012-10-17", doc.Version)
	require.Len(t, doc.Statement, 1)
	st := doc.Statement[0]
	assert.Equal(t, "PublicReadGetObject", st.Sid)
	assert.Equal(t, "Allow", st.Effect)
	assert.Equal(t, "*", st.Principal)
	assert.Equal(t, "s3:GetObject", st.Action)
	assert.Equal(t, "arn:aws:s3:::site-bucket/*", st.Resource)

	china, err := PublicReadPolicy("aws-cn", "b")
	require.NoError(t, err)
	assert.Contains(t, china, `"Resource":"arn:aws-cn:s3:::b/*"`)

	defaulted, err := PublicReadPolicy("", "b")
	require.NoError(t, err)
	assert.Contains(t, defaulted, "arn:aws:s3:::b/*")
}

func TestService_CreateExistsDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	exists, err := svc.Exists(ctx, "test-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, svc.Create(ctx, "test-1", "us-west-2"))

	exists, err = svc.Exists(ctx, "test-1")
	require.NoError(t, err)
	assert.True(t, exists)

	buckets, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "test-1", buckets[0].Name)

	err = svc.Create(ctx, "test-1", "us-west-2")
	assert.ErrorIs(t, err, storage.ErrRemoteService)

	require.NoError(t, svc.Delete(ctx, "test-1"))
	exists, err = svc.Exists(ctx, "test-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_DeleteMissingBucket(t *testing.T) {
	svc, _ := newService(t)
	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrRemoteService)
	assert.True(t, storage.IsNotFound(err))
}

func TestService_ExistsForbidden(t *testing.T) {
	mockClient := new(mocks.Client)
	forbidden := storage.RemoteError("HeadBucket", "private", "", "Forbidden", errors.New("403"))
	mockClient.On("BucketExists", mock.Anything, "private").Return(false, forbidden)

	svc := NewService(mockClient, "aws", zap.NewNop())
	exists, err := svc.Exists(context.Background(), "private")
	assert.False(t, exists)
	assert.ErrorIs(t, err, storage.ErrRemoteService)
	mockClient.AssertExpectations(t)
}

func TestService_SetPublicReadPolicy(t *testing.T) {
	t.Run("RemovesBlockThenPuts", func(t *testing.T) {
		svc, store := newService(t)
		ctx := context.Background()
		require.NoError(t, svc.Create(ctx, "site", ""))

		require.NoError(t, svc.SetPublicReadPolicy(ctx, "site"))

		policy, blocked := store.Policy("site")
		assert.False(t, blocked)
		assert.Contains(t, policy, "arn:aws:s3:::site/*")

		read, err := svc.ReadPolicy(ctx, "site")
		require.NoError(t, err)
		assert.Equal(t, policy, read)
	})

	t.Run("StopsWhenBlockRemovalFails", func(t *testing.T) {
		mockClient := new(mocks.Client)
		denied := storage.RemoteError("DeletePublicAccessBlock", "site", "", "AccessDenied", errors.New("denied"))
		mockClient.On("DeletePublicAccessBlock", mock.Anything, "site").Return(denied)

		svc := NewService(mockClient, "aws", zap.NewNop())
		err := svc.SetPublicReadPolicy(context.Background(), "site")
		assert.ErrorIs(t, err, storage.ErrRemoteService)
		mockClient.AssertNotCalled(t, "PutBucketPolicy", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ReadPolicyMissing(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "b", ""))

	_, err := svc.ReadPolicy(ctx, "b")
	assert.Equal(t, "NoSuchBucketPolicy", storage.CodeOf(err))
}

func TestService_Versioning(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "b", ""))

	status, err := svc.VersioningStatus(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, storage.VersioningDisabled, status)

	require.NoError(t, svc.EnableVersioning(ctx, "b"))

	status, err = svc.VersioningStatus(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, storage.VersioningEnabled, status)
}

func TestService_ConfigureLifecycle(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		days    int
		wantErr bool
	}{
		{"WholeBucket", "", 120, false},
		{"Prefix", "logs/", 30, false},
		{"ZeroDays", "", 0, true},
		{"NegativeDays", "", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			ctx := context.Background()
			require.NoError(t, svc.Create(ctx, "b", ""))

			err := svc.ConfigureLifecycle(ctx, "b", tt.prefix, tt.days)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, store.Lifecycle("b"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []storage.LifecycleRule{
				{ID: LifecycleRuleID, Prefix: tt.prefix, ExpirationDays: int32(tt.days)},
			}, store.Lifecycle("b"))
		})
	}
}

func TestService_ConfigureWebsite(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "site", ""))

	require.NoError(t, svc.ConfigureWebsite(ctx, "site", "", ""))
	assert.Equal(t, &storage.WebsiteConfig{IndexDocument: "index.html", ErrorDocument: "error.html"}, store.Website("site"))

	require.NoError(t, svc.ConfigureWebsite(ctx, "site", "home.html", "404.html"))
	assert.Equal(t, "home.html", store.Website("site").IndexDocument)
	assert.Equal(t, "404.html", store.Website("site").ErrorDocument)
}

func TestService_RemoteFailure(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "b", ""))
	store.FailOn("EnableVersioning", errors.New("throttled"))

	err := svc.EnableVersioning(ctx, "b")
	assert.ErrorIs(t, err, storage.ErrRemoteService)
	assert.Equal(t, 1, store.Calls("EnableVersioning"))
}
