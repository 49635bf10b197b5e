package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements the Storage interface for AWS S3.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Storage creates a new S3 storage instance.
func NewS3Storage(config map[string]string) (Storage, error) {
	cfg := aws.Config{
		Region: config["region"],
		Credentials: credentials.NewStaticCredentialsProvider(
			config["access_key_id"],
			config["secret_access_key"],
			"",
		),
	}

	if endpoint := config["endpoint"]; endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				SigningRegion:     config["region"],
				HostnameImmutable: true,
			}, nil
		})
		cfg.EndpointResolverWithOptions = customResolver
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = config["force_path_style"] == "true"
	})

	return &S3Storage{
		client:    client,
		bucket:    config["bucket"],
		publicURL: config["public_url"],
	}, nil
}

// Upload uploads a file to S3.
func (s *S3Storage) Upload(reader io.Reader, filename string) (string, error) {
	key := filepath.Clean(filename)
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}
	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Body:   bytes.NewReader(data),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return key, nil
}

// UploadBytes uploads bytes to S3.
func (s *S3Storage) UploadBytes(data []byte, filename string) (string, error) {
	key := filepath.Clean(filename)
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Body:   bytes.NewReader(data),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload bytes to S3: %v", err)
	}
	return key, nil
}

// Download downloads a file from S3.
func (s *S3Storage) Download(path string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file from S3: %v", err)
	}
	return result.Body, nil
}

// Delete deletes a file from S3.
func (s *S3Storage) Delete(path string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}
	return nil
}

// GetPublicURL returns the public URL for a file in S3.
func (s *S3Storage) GetPublicURL(path string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, path)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, path)
}

// GetInternalURL returns the internal URL for a file in S3.
func (s *S3Storage) GetInternalURL(path string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, path)
}

// GetPresignedURL generates a presigned URL for S3.
func (s *S3Storage) GetPresignedURL(fileID string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiration
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %v", err)
	}
	return request.URL, nil
}
