// Package storage provides a domain-agnostic interface for S3-compatible object storage.
// Archived lead reports are its only tenant today.
package storage

import (
	"context"
)

// StorageService defines the interface for object storage operations.
type StorageService interface {
	// PutObject stores body under key, replacing any existing object, so
	// retried uploads are idempotent.
	PutObject(ctx context.Context, bucket, key, contentType string, body []byte) error

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// ValidateContentType checks if the content type is allowed.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
