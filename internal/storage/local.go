package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStorage stores files on the local filesystem under a root
// directory, keyed by a generated id plus the original extension.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (Storage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}
	return &LocalStorage{root: root}, nil
}

func (l *LocalStorage) Upload(reader io.Reader, filename string) (string, error) {
	key := uuid.NewString() + filepath.Ext(filename)
	f, err := os.Create(filepath.Join(l.root, key))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return key, nil
}

func (l *LocalStorage) UploadBytes(data []byte, filename string) (string, error) {
	key := filepath.Clean(filename)
	if err := os.WriteFile(filepath.Join(l.root, key), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return key, nil
}

func (l *LocalStorage) Download(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.root, filepath.Clean(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}
	return f, nil
}

func (l *LocalStorage) Delete(path string) error {
	if err := os.Remove(filepath.Join(l.root, filepath.Clean(path))); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (l *LocalStorage) GetPublicURL(path string) string {
	return "/media/serve/" + path
}

func (l *LocalStorage) GetInternalURL(path string) string {
	return filepath.Join(l.root, filepath.Clean(path))
}

// GetPresignedURL has no expiry semantics locally; it returns the public
// URL unchanged.
func (l *LocalStorage) GetPresignedURL(fileID string, expiration time.Duration) (string, error) {
	return l.GetPublicURL(fileID), nil
}
