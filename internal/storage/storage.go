package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cfg "github.com/tasklight/tasklight/internal/config"
)

// Storage defines the interface for avatar file storage operations
type Storage interface {
	// Save stores a file under the given name
	Save(name string, file io.Reader) error

	// Delete removes the file with the given name; deleting a file that
	// is already gone is not an error
	Delete(name string) error

	// URL returns the URL for accessing the file
	URL(name string) string
}

// New selects the storage backend from config. Local disk is the
// default; S3-compatible storage is opt-in via STORAGE_DRIVER=s3.
func New(c *cfg.Config) (Storage, error) {
	if c.StorageDriver == "s3" {
		slog.Info("initializing S3 storage", "bucket", c.S3Bucket, "region", c.S3Region, "endpoint", c.S3Endpoint)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	}

	slog.Info("initializing local storage", "dir", c.UploadDir)
	return NewLocalStorage(c.UploadDir, "/uploads")
}

// LocalStorage stores files in a directory on disk. Files are served by
// the router under baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Dir returns the directory files are stored in.
func (l *LocalStorage) Dir() string {
	return l.dir
}

func (l *LocalStorage) Save(name string, file io.Reader) error {
	path := filepath.Join(l.dir, filepath.Base(name))

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, file)
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (l *LocalStorage) Delete(name string) error {
	path := filepath.Join(l.dir, filepath.Base(name))

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}

	err = os.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (l *LocalStorage) URL(name string) string {
	return l.baseURL + "/" + filepath.Base(name)
}
