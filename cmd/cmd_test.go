package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"s3-toolkit/core/audit"
	"s3-toolkit/core/database"
	"s3-toolkit/core/logger"
	"s3-toolkit/core/storage"
	"s3-toolkit/core/storage/memstore"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// journal is an in-memory audit.Recorder.
type journal struct {
	entries []audit.Entry
	err     error
}

func (j *journal) Record(_ context.Context, e audit.Entry) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, e)
	return nil
}

func (j *journal) Recent(_ context.Context, limit int) ([]audit.Entry, error) {
	if j.err != nil {
		return nil, j.err
	}
	if limit > len(j.entries) {
		limit = len(j.entries)
	}
	return j.entries[:limit], nil
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// harness swaps the storage connection and audit journal for in-memory doubles.
func harness(t *testing.T, client storage.Client, connErr error) *journal {
	t.Helper()
	j := &journal{}

	origConnect, origAudit, origLogger := connect, openAudit, newLogger
	connect = func(context.Context, storage.Config, *zap.Logger) (storage.Client, error) {
		if connErr != nil {
			return nil, connErr
		}
		return client, nil
	}
	openAudit = func(context.Context, database.Config, *zap.Logger) audit.Recorder { return j }
	newLogger = func(*logger.Config) (*zap.Logger, error) { return zap.NewNop(), nil }
	t.Cleanup(func() {
		connect, openAudit, newLogger = origConnect, origAudit, origLogger
		resetFlags(RootCmd)
	})
	return j
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append(args, "--env-path", filepath.Join(t.TempDir(), "missing.env")))
	err := RootCmd.Execute()
	resetFlags(RootCmd)
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestEndToEnd(t *testing.T) {
	store := memstore.New()
	j := harness(t, store, nil)
	local := writeFile(t, t.TempDir(), "local.txt", []byte("hello world"))

	out, err := run(t, "create-s3bucket", "test-1", "--region", "us-west-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Bucket 'test-1' created successfully in 'us-west-2'.")

	out, err = run(t, "bucket-exists", "test-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bucket 'test-1' exists: true")

	out, err = run(t, "upload-file", local, "test-1", "local.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "File uploaded successfully (direct upload).")

	out, err = run(t, "list-versions", "test-1", "local.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Versions of 'local.txt':")
	assert.Equal(t, 1, strings.Count(out, "VersionId:"))

	out, err = run(t, "delete-object", "test-1", "local.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Object 'local.txt' deleted successfully.")

	out, err = run(t, "list-versions", "test-1", "local.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "No versions found for 'local.txt'.")

	require.Len(t, j.entries, 6)
	for _, e := range j.entries {
		assert.Equal(t, audit.OutcomeSuccess, e.Outcome)
		assert.Equal(t, "test-1", e.Bucket)
		assert.NotEmpty(t, e.RunID)
	}
	assert.Equal(t, "create-s3bucket", j.entries[0].Command)
	assert.Equal(t, "delete-object", j.entries[4].Command)
}

func TestClientInitFailure(t *testing.T) {
	harness(t, nil, &storage.Error{Kind: storage.KindConnection, Op: "connect", Code: "InvalidAccessKeyId"})

	out, err := run(t, "list-s3buckets")
	require.Error(t, err)
	assert.ErrorIs(t, err, errClientInit)
	assert.ErrorIs(t, err, storage.ErrConnection)
	assert.Contains(t, out, "Failed to initialize storage client.")
}

func TestArgumentErrors(t *testing.T) {
	harness(t, memstore.New(), nil)

	_, err := run(t, "delete-object", "only-bucket")
	assert.Error(t, err)
}

func TestHandledFailuresExitCleanly(t *testing.T) {
	store := memstore.New()
	j := harness(t, store, nil)

	out, err := run(t, "delete-s3bucket", "missing")
	require.NoError(t, err)
	assert.Contains(t, out, "Failed to delete bucket 'missing'.")

	out, err = run(t, "upload-file-put", filepath.Join(t.TempDir(), "nope.txt"), "missing", "k")
	require.NoError(t, err)
	assert.Contains(t, out, "Upload failed:")

	require.Len(t, j.entries, 2)
	assert.Equal(t, audit.OutcomeFailure, j.entries[0].Outcome)
	assert.NotEmpty(t, j.entries[0].Detail)
}

func TestAuditFailureDoesNotChangeOutcome(t *testing.T) {
	store := memstore.New()
	j := harness(t, store, nil)
	j.err = errors.New("journal down")

	out, err := run(t, "create-s3bucket", "test-1")
	require.NoError(t, err)
	assert.Contains(t, out, "created successfully")
}

func TestBucketCommands(t *testing.T) {
	store := memstore.New()
	harness(t, store, nil)

	_, err := run(t, "create-s3bucket", "site")
	require.NoError(t, err)

	out, err := run(t, "list-s3buckets")
	require.NoError(t, err)
	assert.Contains(t, out, " - site")

	out, err = run(t, "create-bucket-policy", "site")
	require.NoError(t, err)
	assert.Contains(t, out, "Bucket policy created successfully.")

	out, err = run(t, "read-bucket-policy", "site")
	require.NoError(t, err)
	assert.Contains(t, out, "arn:aws:s3:::site/*")

	out, err = run(t, "check-versioning", "site")
	require.NoError(t, err)
	assert.Contains(t, out, "Versioning status for 'site': Disabled")

	_, err = run(t, "enable-versioning", "site")
	require.NoError(t, err)
	out, err = run(t, "check-versioning", "site")
	require.NoError(t, err)
	assert.Contains(t, out, "Versioning status for 'site': Enabled")

	out, err = run(t, "put-lifecycle-policy", "site", "--expiration-days", "30", "--prefix", "logs/")
	require.NoError(t, err)
	assert.Contains(t, out, "Lifecycle policy applied successfully.")
	rules := store.Lifecycle("site")
	require.Len(t, rules, 1)
	assert.Equal(t, int32(30), rules[0].ExpirationDays)
	assert.Equal(t, "logs/", rules[0].Prefix)
}

func TestObjectCommands(t *testing.T) {
	store := memstore.New()
	harness(t, store, nil)
	now := time.Now()
	store.Seed("media", "notes.txt", []byte("v1"), now.Add(-2*time.Hour))
	store.Seed("media", "notes.txt", []byte("v2"), now.Add(-time.Hour))
	store.Seed("media", "photo.jpg", []byte("jpg"), now)

	out, err := run(t, "restore-previous-version", "media", "notes.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Previous version of 'notes.txt' restored")
	data, _, ok := store.Object("media", "notes.txt")
	require.True(t, ok)
	assert.Equal(t, "v1", string(data))

	out, err = run(t, "set-object-access-policy", "media", "photo.jpg")
	require.NoError(t, err)
	assert.Contains(t, out, "public-read")
	assert.Equal(t, storage.ACLPublicRead, store.ACL("media", "photo.jpg"))

	out, err = run(t, "organize-files", "media")
	require.NoError(t, err)
	assert.Contains(t, out, "(2 moved)")
	assert.Contains(t, out, " - jpg: 1")
	assert.NotContains(t, out, "Skipped")
	_, _, ok = store.Object("media", "jpg/photo.jpg")
	assert.True(t, ok)

	out, err = run(t, "clean-old-versions", "media", "txt/notes.txt", "--months", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "No old versions found for 'txt/notes.txt'")
}

func TestTransferCommands(t *testing.T) {
	store := memstore.New()
	harness(t, store, nil)
	_, err := run(t, "create-s3bucket", "media")
	require.NoError(t, err)
	dir := t.TempDir()

	t.Run("Multipart", func(t *testing.T) {
		big := writeFile(t, dir, "big.bin", bytes.Repeat([]byte{'x'}, 2*1024*1024+512*1024))
		out, err := run(t, "multipart-upload", big, "media", "big.bin", "--part-size-mb", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Multipart upload completed: 3 part(s)")
		assert.Contains(t, out, "Uploaded 2.6 MB of 2.6 MB")
	})

	t.Run("SmartUpload", func(t *testing.T) {
		text := writeFile(t, dir, "readme.txt", []byte("plain text content\n"))
		out, err := run(t, "smart-upload", text, "media")
		require.NoError(t, err)
		assert.Contains(t, out, "File uploaded successfully to 'text/readme.txt'")
	})

	t.Run("Relay", func(t *testing.T) {
		png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(png)
		}))
		defer srv.Close()

		out, err := run(t, "download-and-upload", srv.URL+"/cat.png", "media", "cat.png")
		require.NoError(t, err)
		assert.Contains(t, out, "File successfully uploaded to:")
		_, _, ok := store.Object("media", "cat.png")
		assert.True(t, ok)
	})

	t.Run("RelayRejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("just text"))
		}))
		defer srv.Close()

		out, err := run(t, "download-and-upload", srv.URL, "media", "doc.txt")
		require.NoError(t, err)
		assert.Contains(t, out, "Download or upload failed:")
		_, _, ok := store.Object("media", "doc.txt")
		assert.False(t, ok)
	})
}

func TestWebsiteCommands(t *testing.T) {
	store := memstore.New()
	harness(t, store, nil)
	_, err := run(t, "create-s3bucket", "site")
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "home.html", []byte("<html>home</html>"))
	writeFile(t, dir, "css/site.css", []byte("body{}"))

	out, err := run(t, "host-site-with-source", "site", dir, "--index-document", "home.html")
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded 2 file(s).")
	assert.Contains(t, out, "Website hosted at: http://site.s3-website-")

	cfg := store.Website("site")
	require.NotNil(t, cfg)
	assert.Equal(t, "home.html", cfg.IndexDocument)
	assert.Equal(t, "error.html", cfg.ErrorDocument)
	_, _, ok := store.Object("site", "css/site.css")
	assert.True(t, ok)
}

func TestHistory(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		harness(t, memstore.New(), nil)
		t.Setenv("DATABASE_ENABLED", "false")

		out, err := run(t, "history")
		require.NoError(t, err)
		assert.Contains(t, out, "Audit journal is disabled.")
	})

	t.Run("Enabled", func(t *testing.T) {
		j := harness(t, memstore.New(), nil)
		t.Setenv("DATABASE_ENABLED", "true")
		j.entries = []audit.Entry{
			{Command: "delete-object", Bucket: "media", Key: "a.txt", Outcome: audit.OutcomeSuccess, CreatedAt: time.Now()},
			{Command: "create-s3bucket", Bucket: "media", Outcome: audit.OutcomeFailure, CreatedAt: time.Now()},
		}

		out, err := run(t, "history", "--limit", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "media/a.txt")
		assert.NotContains(t, out, "create-s3bucket")
	})
}
