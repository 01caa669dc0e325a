package gcsuploader

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"

	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/report"
)

// StorageService provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type StorageService interface {
	// UploadBytes writes data to a bucket under the given object name.
	UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error

	// FetchFromGCS downloads object bytes from the given storage URI.
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}

// GCSStorageService is the concrete implementation of StorageService
// that interacts with Google Cloud Storage.
type GCSStorageService struct {
	client *storage.Client
}

// NewGCSStorageService creates a new GCSStorageService with its own client.
func NewGCSStorageService(ctx context.Context) (*GCSStorageService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGCSStorageService: creating storage client: %w", err)
	}
	return &GCSStorageService{client: client}, nil
}

// Close closes the storage client.
func (s *GCSStorageService) Close() error {
	return s.client.Close()
}

// UploadBytes delegates to UploadBytesWithClient.
func (s *GCSStorageService) UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
	return UploadBytesWithClient(ctx, s.client, bucketName, objectName, contentType, data)
}

// FetchFromGCS delegates to FetchFromGCSWithClient.
func (s *GCSStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return FetchFromGCSWithClient(ctx, s.client, gcsURI)
}

// ReportUploader stores finished reports in one bucket.
type ReportUploader struct {
	storage StorageService
	bucket  string
	now     func() time.Time
}

// NewReportUploader returns a ReportUploader writing to bucket.
func NewReportUploader(storage StorageService, bucket string) *ReportUploader {
	return &ReportUploader{storage: storage, bucket: bucket, now: time.Now}
}

// Publish uploads a PDF report and returns its gs:// URI.
func (u *ReportUploader) Publish(ctx context.Context, runID, name string, data []byte) (string, error) {
	object := ReportObjectName(u.now(), runID, name)
	if err := u.storage.UploadBytes(ctx, u.bucket, object, report.MIMEType, data); err != nil {
		return "", fmt.Errorf("Publish: %w", err)
	}

	uri := URI(u.bucket, object)
	log := logger.FromContext(ctx)
	log.Info().
		Str("run_id", runID).
		Str("uri", uri).
		Int("bytes", len(data)).
		Msg("Report uploaded")
	return uri, nil
}
