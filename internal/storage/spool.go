package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Spool stages incoming streams on the local filesystem before they are
// handed to the gateway. Each staged file lives in its own UUID-named
// subdirectory so concurrent requests carrying the same filename never
// collide, while the file itself keeps its original base name — which is
// what the gateway derives the remote object key from.
type Spool struct {
	baseDir string
}

// NewSpool creates a Spool that stages files under baseDir. The directory is
// created if it does not already exist.
func NewSpool(baseDir string) (*Spool, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create spool directory %q: %w", baseDir, err)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to resolve absolute path for %q: %w", baseDir, err)
	}
	return &Spool{baseDir: abs}, nil
}

// Write stages the content of r under the base name of name and returns the
// local path of the staged file. Callers are responsible for removing the
// staged file once they are done with it, typically via Discard.
func (s *Spool) Write(name string, r io.Reader) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("storage: invalid spool file name %q", name)
	}

	dir := filepath.Join(s.baseDir, uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: failed to create spool subdirectory for %q: %w", base, err)
	}

	dest := filepath.Join(dir, base)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("storage: failed to create spool file %q: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: failed to write spool file %q: %w", dest, err)
	}

	return dest, nil
}

// Discard removes a staged file and its containing subdirectory. Passing a
// path that was not returned by Write is an error.
func (s *Spool) Discard(path string) error {
	dir := filepath.Dir(path)
	if filepath.Dir(dir) != s.baseDir {
		return fmt.Errorf("storage: %q is not a spooled file", path)
	}
	return os.RemoveAll(dir)
}
