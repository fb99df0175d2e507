package storage

import (
	"context"
	"errors"
)

// ErrNotInitialized is returned by UploadFile when the gateway was
// constructed without usable credentials. It is a caller-side configuration
// error: the process must be restarted with valid credentials before uploads
// can succeed.
var ErrNotInitialized = errors.New("storage: client is not initialized")

// ErrBucketRequired is returned by UploadFile when no bucket was supplied
// and no default bucket is configured. Validated before any network
// activity rather than relying on the backend's error message.
var ErrBucketRequired = errors.New("storage: bucket name is required")

// Uploader pushes local files to the storage backend and returns public
// URLs. The Gateway is the production implementation; the interface allows
// alternative implementations for testing.
type Uploader interface {
	// UploadFile uploads the file at path under its base name. bucket
	// overrides the configured default when non-empty.
	UploadFile(ctx context.Context, path, bucket string) (*UploadResult, error)

	// Enabled reports whether the backend client was initialized.
	Enabled() bool
}

// Config is the snapshot of process-wide environment state the gateway is
// built from. It is read once at startup and never reloaded.
type Config struct {
	// Bucket is the default bucket for uploads that do not name one. May be
	// empty, in which case every upload must supply a bucket explicitly.
	Bucket string

	// CredentialsJSON is the service-account key material as a JSON blob.
	// When empty the gateway runs disabled and all uploads fail with
	// ErrNotInitialized.
	CredentialsJSON string
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	// Bucket is the bucket the object was written to.
	Bucket string

	// ObjectName is the object key within the bucket — the base name of the
	// uploaded local file.
	ObjectName string

	// ContentType is the MIME type attached to the object, or empty when it
	// could not be inferred and the backend default applies.
	ContentType string

	// PublicURL is the address the uploaded object can be retrieved from,
	// assuming appropriate access permissions.
	PublicURL string
}
