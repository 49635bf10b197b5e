package storage

import (
	"fmt"
	"io"
	"time"

	"go-media-library/internal/config"
)

// Provider represents the type of storage being used.
type Provider string

const (
	Local     Provider = "local"
	SeaweedFS Provider = "seaweedfs"
	S3        Provider = "s3"
)

// Storage defines the interface for storage providers.
type Storage interface {
	Upload(reader io.Reader, filename string) (string, error)
	UploadBytes(data []byte, filename string) (string, error)
	Download(path string) (io.ReadCloser, error)
	Delete(path string) error
	GetPublicURL(path string) string
	GetInternalURL(path string) string
	GetPresignedURL(fileID string, expiration time.Duration) (string, error)
}

// New creates a storage provider from configuration.
func New(cfg *config.Config) (Storage, error) {
	switch Provider(cfg.Storage.Provider) {
	case Local:
		return NewLocalStorage(cfg.Storage.Path)
	case S3:
		return NewS3Storage(map[string]string{
			"region":            cfg.Storage.S3.Region,
			"access_key_id":     cfg.Storage.S3.AccessKeyID,
			"secret_access_key": cfg.Storage.S3.SecretAccessKey,
			"bucket":            cfg.Storage.S3.BucketName,
			"endpoint":          cfg.Storage.S3.Endpoint,
			"force_path_style":  fmt.Sprint(cfg.Storage.S3.ForcePathStyle),
			"public_url":        cfg.Storage.S3.PublicURL,
		})
	case SeaweedFS:
		return NewSeaweedFSStorage(map[string]string{
			"master_url":   cfg.Storage.SeaweedFS.MasterURL,
			"internal_url": fmt.Sprintf("http://localhost:%d", cfg.Storage.SeaweedFS.VolumePort),
			"public_url":   fmt.Sprintf("http://localhost:%s", cfg.Server.Port),
		})
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}
