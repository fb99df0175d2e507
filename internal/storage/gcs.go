// Package storage provides the gateway for pushing local files to Google
// Cloud Storage and returning their public URLs. The gateway is built once at
// process start from environment-derived configuration; when credentials are
// missing or unusable it runs in a disabled state and every upload fails with
// ErrNotInitialized rather than reaching the network.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const publicBaseURL = "https://storage.googleapis.com"

// objectStore is the narrow slice of the GCS API the gateway uses. Tests
// substitute a fake to observe which bucket and key each upload targeted and
// to inject backend failures.
type objectStore interface {
	// NewWriter opens a writer for the object. contentType is attached to
	// the object metadata when non-empty; the backend applies its default
	// (application/octet-stream) otherwise.
	NewWriter(ctx context.Context, bucket, object, contentType string) io.WriteCloser
}

// gcsStore implements objectStore against a real GCS client.
type gcsStore struct {
	client *storage.Client
}

func (g *gcsStore) NewWriter(ctx context.Context, bucket, object, contentType string) io.WriteCloser {
	w := g.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	return w
}

// Gateway uploads local files to Google Cloud Storage. A Gateway is either
// enabled, holding an authenticated client for the life of the process, or
// disabled, in which case UploadFile fails without any network activity. A
// disabled Gateway never becomes enabled.
type Gateway struct {
	store  objectStore
	bucket string
	logger *zap.Logger
}

var _ Uploader = (*Gateway)(nil)

// NewGateway builds a Gateway from the given configuration. Construction
// never fails: absent credentials are a tolerated configuration and yield a
// disabled gateway silently, while malformed credentials or client
// construction errors yield a disabled gateway with an error diagnostic.
// Callers discover disablement when they attempt an upload.
//
// opts are passed through to the underlying GCS client, after the
// credential and scope options derived from cfg.
func NewGateway(ctx context.Context, cfg Config, logger *zap.Logger, opts ...option.ClientOption) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Gateway{bucket: cfg.Bucket, logger: logger}

	if cfg.CredentialsJSON == "" {
		logger.Debug("GCP credentials not found, skipping GCS client initialization")
		return g
	}

	clientOpts := append([]option.ClientOption{
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(storage.ScopeFullControl),
	}, opts...)

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		logger.Error("failed to initialize GCS client", zap.Error(err))
		return g
	}

	g.store = &gcsStore{client: client}
	return g
}

// Enabled reports whether the gateway holds a backend client.
func (g *Gateway) Enabled() bool {
	return g.store != nil
}

// UploadFile uploads the file at path to the given bucket, falling back to
// the configured default bucket when bucket is empty. The object key is the
// base name of path — directory components are stripped, so files sharing a
// base name collide at the same key and the last write wins.
//
// The content type is inferred from the filename extension and attached to
// the object metadata when known. Backend failures are logged with the file
// path and target bucket and returned wrapped, with no retry and no cleanup
// of a partially written object.
func (g *Gateway) UploadFile(ctx context.Context, path, bucket string) (*UploadResult, error) {
	if g.store == nil {
		return nil, ErrNotInitialized
	}

	contentType, ok := GuessContentType(path)
	if !ok {
		g.logger.Warn("could not determine content type, backend may default to application/octet-stream",
			zap.String("file", path))
	}

	if bucket == "" {
		bucket = g.bucket
	}
	if bucket == "" {
		return nil, ErrBucketRequired
	}

	object := filepath.Base(path)

	g.logger.Info("uploading file to Google Cloud Storage",
		zap.String("file", path),
		zap.String("bucket", bucket))
	if ok {
		g.logger.Info("using content type", zap.String("content_type", contentType))
	}

	f, err := os.Open(path)
	if err != nil {
		g.logger.Error("error uploading file to GCS",
			zap.String("file", path),
			zap.String("bucket", bucket),
			zap.Error(err))
		return nil, fmt.Errorf("storage: open %q: %w", path, err)
	}
	defer f.Close()

	w := g.store.NewWriter(ctx, bucket, object, contentType)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		g.logger.Error("error uploading file to GCS",
			zap.String("file", path),
			zap.String("bucket", bucket),
			zap.Error(err))
		return nil, fmt.Errorf("storage: upload write failed for %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		g.logger.Error("error uploading file to GCS",
			zap.String("file", path),
			zap.String("bucket", bucket),
			zap.Error(err))
		return nil, fmt.Errorf("storage: upload close failed for %q: %w", object, err)
	}

	res := &UploadResult{
		Bucket:      bucket,
		ObjectName:  object,
		ContentType: contentType,
		PublicURL:   publicURL(bucket, object),
	}

	g.logger.Info("file uploaded successfully to GCS", zap.String("url", res.PublicURL))
	return res, nil
}

// publicURL builds the address an uploaded object can be retrieved from.
// The object name is escaped the same way the backend escapes it when
// issuing public URLs.
func publicURL(bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", publicBaseURL, bucket, url.PathEscape(object))
}
