package local

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio-backend/internal/shared/storage/object"
)

// Store implements BlobStore on the local filesystem. Containers map to
// directories under the base dir; signed URLs are HMAC-stamped links served
// back through the application's /files route.
type Store struct {
	baseDir string
	baseURL string
	secret  []byte
	now     func() time.Time
}

// New creates a local blob store rooted at baseDir. baseURL is the public
// origin used to build signed URLs; secret signs them.
func New(baseDir, baseURL string, secret []byte) *Store {
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		now:     time.Now,
	}
}

// EnsureContainer creates the container directory if missing.
func (s *Store) EnsureContainer(name string) error {
	return os.MkdirAll(filepath.Join(s.baseDir, name), 0o755)
}

// Upload writes the reader to disk. Overwrite disabled uses O_EXCL so an
// existing object at the key fails the upload instead of replacing it.
func (s *Store) Upload(ctx context.Context, container, key string, r io.Reader, opts object.UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(s.baseDir, container)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("local store container=%s: %w", container, object.ErrContainerNotFound)
	}

	clean, err := cleanKey(key)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(dir, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !opts.Overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	f, err := os.OpenFile(fullPath, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("local store container=%s key=%s: %w", container, key, object.ErrKeyExists)
		}
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// CreateSignedURL builds an expiring, HMAC-signed link to the object. The
// /files route verifies the stamp before serving.
func (s *Store) CreateSignedURL(ctx context.Context, container, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, container, clean)); err != nil {
		return "", fmt.Errorf("local store sign container=%s key=%s: %w", container, key, err)
	}

	exp := s.now().Add(ttl).Unix()
	sig := s.stamp(container, clean, exp)
	return fmt.Sprintf("%s/files/%s/%s?exp=%d&sig=%s",
		s.baseURL, url.PathEscape(container), escapeKeyPath(clean), exp, sig), nil
}

// VerifySignedRequest checks the expiry and HMAC stamp of a /files request.
func (s *Store) VerifySignedRequest(container, key, expRaw, sig string) bool {
	exp, err := strconv.ParseInt(expRaw, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix() > exp {
		return false
	}
	clean, err := cleanKey(key)
	if err != nil {
		return false
	}
	expected := s.stamp(container, clean, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// ListContainers lists the directories under the base dir.
func (s *Store) ListContainers(ctx context.Context) ([]object.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("local store list containers: %w", err)
	}
	var containers []object.Container
	for _, e := range entries {
		if e.IsDir() {
			containers = append(containers, object.Container{Name: e.Name()})
		}
	}
	return containers, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, container, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, container, clean))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) stamp(container, key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s/%s|%d", container, key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func cleanKey(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return clean, nil
}

func escapeKeyPath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

var _ object.BlobStore = (*Store)(nil)
