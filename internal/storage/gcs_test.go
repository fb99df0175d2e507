package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/api/googleapi"
)

// fakeStore records every writer the gateway opens and captures what was
// committed through it. writeErr and closeErr inject backend failures.
type fakeStore struct {
	mu          sync.Mutex
	writerCount int
	writes      []fakeWrite

	writeErr error
	closeErr error
}

type fakeWrite struct {
	bucket      string
	object      string
	contentType string
	data        []byte
}

func (f *fakeStore) NewWriter(_ context.Context, bucket, object, contentType string) io.WriteCloser {
	f.mu.Lock()
	f.writerCount++
	f.mu.Unlock()
	return &fakeWriteCloser{
		store: f,
		write: fakeWrite{bucket: bucket, object: object, contentType: contentType},
	}
}

type fakeWriteCloser struct {
	store *fakeStore
	write fakeWrite
	buf   bytes.Buffer
}

func (w *fakeWriteCloser) Write(p []byte) (int, error) {
	if w.store.writeErr != nil {
		return 0, w.store.writeErr
	}
	return w.buf.Write(p)
}

func (w *fakeWriteCloser) Close() error {
	if w.store.closeErr != nil {
		return w.store.closeErr
	}
	w.write.data = w.buf.Bytes()
	w.store.mu.Lock()
	w.store.writes = append(w.store.writes, w.write)
	w.store.mu.Unlock()
	return nil
}

// newTestGateway builds an enabled gateway over a fake backend, returning the
// observed logs for diagnostic assertions.
func newTestGateway(t *testing.T, store objectStore, bucket string) (*Gateway, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return &Gateway{store: store, bucket: bucket, logger: zap.New(core)}, logs
}

// writeTempFile creates a file named name under a fresh temp directory and
// returns its full path.
func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestNewGatewayWithoutCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := NewGateway(context.Background(), Config{Bucket: "media"}, zap.New(core))

	assert.False(t, g.Enabled())
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	_, err := g.UploadFile(context.Background(), "report.pdf", "")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestNewGatewayMalformedCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds string
	}{
		{name: "invalid json", creds: "{not json"},
		{name: "unknown credential type", creds: `{"type":"not-a-real-type"}`},
		{name: "empty object", creds: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			g := NewGateway(context.Background(), Config{CredentialsJSON: tt.creds}, zap.New(core))

			assert.False(t, g.Enabled())
			assert.Equal(t, 1, logs.FilterMessage("failed to initialize GCS client").Len())

			_, err := g.UploadFile(context.Background(), "report.pdf", "media")
			assert.ErrorIs(t, err, ErrNotInitialized)
		})
	}
}

func TestUploadFileResult(t *testing.T) {
	store := &fakeStore{}
	g, _ := newTestGateway(t, store, "media")

	path := writeTempFile(t, "report.pdf", []byte("%PDF-1.4"))

	res, err := g.UploadFile(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "media", res.Bucket)
	assert.Equal(t, "report.pdf", res.ObjectName)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, "https://storage.googleapis.com/media/report.pdf", res.PublicURL)

	require.Len(t, store.writes, 1)
	assert.Equal(t, "media", store.writes[0].bucket)
	assert.Equal(t, "report.pdf", store.writes[0].object)
	assert.Equal(t, "application/pdf", store.writes[0].contentType)
	assert.Equal(t, []byte("%PDF-1.4"), store.writes[0].data)
}

func TestUploadFileExplicitBucketOverridesDefault(t *testing.T) {
	store := &fakeStore{}
	g, _ := newTestGateway(t, store, "default-bucket")

	path := writeTempFile(t, "clip.mp4", []byte("mp4 bytes"))

	res, err := g.UploadFile(context.Background(), path, "override-bucket")
	require.NoError(t, err)
	assert.Equal(t, "override-bucket", res.Bucket)
	assert.Equal(t, "https://storage.googleapis.com/override-bucket/clip.mp4", res.PublicURL)

	res, err = g.UploadFile(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "default-bucket", res.Bucket)

	require.Len(t, store.writes, 2)
	assert.Equal(t, "override-bucket", store.writes[0].bucket)
	assert.Equal(t, "default-bucket", store.writes[1].bucket)
}

func TestUploadFileMissingBucket(t *testing.T) {
	store := &fakeStore{}
	g, _ := newTestGateway(t, store, "")

	path := writeTempFile(t, "report.pdf", []byte("data"))

	_, err := g.UploadFile(context.Background(), path, "")
	assert.ErrorIs(t, err, ErrBucketRequired)
	assert.Equal(t, 0, store.writerCount)
}

func TestUploadFileSameBaseNameTargetsSameKey(t *testing.T) {
	store := &fakeStore{}
	g, _ := newTestGateway(t, store, "media")

	first := writeTempFile(t, "data.bin", []byte("first"))
	second := writeTempFile(t, "data.bin", []byte("second"))

	res1, err := g.UploadFile(context.Background(), first, "")
	require.NoError(t, err)
	res2, err := g.UploadFile(context.Background(), second, "")
	require.NoError(t, err)

	// Both uploads address the identical remote key; the second overwrites
	// the first without any collision error.
	assert.Equal(t, res1.ObjectName, res2.ObjectName)
	assert.Equal(t, res1.PublicURL, res2.PublicURL)

	require.Len(t, store.writes, 2)
	assert.Equal(t, store.writes[0].object, store.writes[1].object)
	assert.Equal(t, []byte("second"), store.writes[1].data)
}

func TestUploadFileBackendErrorPropagates(t *testing.T) {
	store := &fakeStore{
		closeErr: &googleapi.Error{Code: http.StatusForbidden, Message: "permission denied"},
	}
	g, logs := newTestGateway(t, store, "media")

	path := writeTempFile(t, "report.pdf", []byte("data"))

	_, err := g.UploadFile(context.Background(), path, "")
	require.Error(t, err)

	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusForbidden, gerr.Code)

	// A single writer was opened: the failure is not retried.
	assert.Equal(t, 1, store.writerCount)
	assert.Empty(t, store.writes)

	entries := logs.FilterMessage("error uploading file to GCS").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, path, fields["file"])
	assert.Equal(t, "media", fields["bucket"])
}

func TestUploadFileWriteErrorPropagates(t *testing.T) {
	store := &fakeStore{writeErr: errors.New("connection reset")}
	g, _ := newTestGateway(t, store, "media")

	path := writeTempFile(t, "report.pdf", []byte("data"))

	_, err := g.UploadFile(context.Background(), path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload write failed")
	assert.Equal(t, 1, store.writerCount)
}

func TestUploadFileUnknownContentType(t *testing.T) {
	store := &fakeStore{}
	g, logs := newTestGateway(t, store, "media")

	path := writeTempFile(t, "data.unknownext", []byte("payload"))

	res, err := g.UploadFile(context.Background(), path, "")
	require.NoError(t, err)

	// Unknown is not an error: content-type metadata is omitted and the
	// backend default applies.
	assert.Empty(t, res.ContentType)
	require.Len(t, store.writes, 1)
	assert.Empty(t, store.writes[0].contentType)

	warnings := logs.FilterMessage("could not determine content type, backend may default to application/octet-stream")
	require.Equal(t, 1, warnings.Len())
	assert.Equal(t, path, warnings.All()[0].ContextMap()["file"])
}

func TestUploadFileMissingLocalFile(t *testing.T) {
	store := &fakeStore{}
	g, _ := newTestGateway(t, store, "media")

	_, err := g.UploadFile(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, store.writerCount)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/media/report.pdf", publicURL("media", "report.pdf"))
	assert.Equal(t, "https://storage.googleapis.com/media/my%20report.pdf", publicURL("media", "my report.pdf"))
}
