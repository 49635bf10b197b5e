package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/linxGnu/goseaweedfs"
)

// SeaweedFSStorage implements the Storage interface for SeaweedFS.
type SeaweedFSStorage struct {
	client      *goseaweedfs.Filer
	internalURL string
	publicURL   string
}

// NewSeaweedFSStorage creates a new SeaweedFS storage instance.
func NewSeaweedFSStorage(config map[string]string) (Storage, error) {
	client, err := goseaweedfs.NewFiler(config["master_url"], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create SeaweedFS client: %v", err)
	}

	return &SeaweedFSStorage{
		client:      client,
		internalURL: config["internal_url"],
		publicURL:   config["public_url"],
	}, nil
}

// Upload uploads a file to SeaweedFS.
func (s *SeaweedFSStorage) Upload(reader io.Reader, filename string) (string, error) {
	// The SeaweedFS client doesn't support streaming uploads.
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	filePart, err := s.client.Upload(
		bytes.NewReader(data),
		int64(len(data)),
		filename,
		"default",
		"",
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to SeaweedFS: %v", err)
	}

	return filePart.FileID, nil
}

// UploadBytes uploads bytes to SeaweedFS.
func (s *SeaweedFSStorage) UploadBytes(data []byte, filename string) (string, error) {
	path := filepath.Clean(filename)
	if _, err := s.client.Upload(bytes.NewReader(data), int64(len(data)), path, "default", ""); err != nil {
		return "", fmt.Errorf("failed to upload bytes to SeaweedFS: %v", err)
	}
	return path, nil
}

// Download downloads a file from SeaweedFS.
func (s *SeaweedFSStorage) Download(path string) (io.ReadCloser, error) {
	data, _, err := s.client.Get(path, url.Values{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from SeaweedFS: %v", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete deletes a file from SeaweedFS.
func (s *SeaweedFSStorage) Delete(path string) error {
	if err := s.client.Delete(path, url.Values{}); err != nil {
		return fmt.Errorf("failed to delete file from SeaweedFS: %v", err)
	}
	return nil
}

// GetPublicURL returns the public URL for a file in SeaweedFS.
func (s *SeaweedFSStorage) GetPublicURL(path string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, path)
}

// GetInternalURL returns the internal URL for a file in SeaweedFS.
func (s *SeaweedFSStorage) GetInternalURL(path string) string {
	return fmt.Sprintf("%s/%s", s.internalURL, path)
}

// GetPresignedURL generates an expiring URL for SeaweedFS.
func (s *SeaweedFSStorage) GetPresignedURL(fileID string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration).Unix()
	return fmt.Sprintf("%s/%s?exp=%d", s.publicURL, fileID, expirationTime), nil
}
