package gcsuploader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/report"
)

// mockStorage is a mock implementation of StorageService for testing.
type mockStorage struct {
	UploadBytesFunc  func(ctx context.Context, bucketName, objectName, contentType string, data []byte) error
	FetchFromGCSFunc func(ctx context.Context, gcsURI string) ([]byte, error)
	fetched          []string
}

func (m *mockStorage) UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
	if m.UploadBytesFunc != nil {
		return m.UploadBytesFunc(ctx, bucketName, objectName, contentType, data)
	}
	return nil
}

func (m *mockStorage) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	m.fetched = append(m.fetched, gcsURI)
	if m.FetchFromGCSFunc != nil {
		return m.FetchFromGCSFunc(ctx, gcsURI)
	}
	return []byte("font"), nil
}

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{uri: "gs://bucket/path/to/file.pdf", wantBucket: "bucket", wantObject: "path/to/file.pdf"},
		{uri: "gs://bucket/file.pdf", wantBucket: "bucket", wantObject: "file.pdf"},
		{uri: "gs://bucket", wantErr: true},
		{uri: "gs://bucket/", wantErr: true},
		{uri: "s3://bucket/file.pdf", wantErr: true},
		{uri: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGCSURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseGCSURI() = %q, %q, want %q, %q", bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestExtractFilenameFromGCSURI(t *testing.T) {
	tests := map[string]string{
		"gs://bucket/folder/file.pdf": "file.pdf",
		"gs://bucket/file.pdf":        "file.pdf",
		"gs://bucket":                 "bucket",
	}
	for uri, want := range tests {
		if got := ExtractFilenameFromGCSURI(uri); got != want {
			t.Errorf("ExtractFilenameFromGCSURI(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestReportObjectName(t *testing.T) {
	at := time.Date(2024, 7, 9, 23, 30, 0, 0, time.UTC)
	got := ReportObjectName(at, "run-1", "Relatorio_Preditivo_20240709.pdf")
	want := "reports/2024/07/09/run-1-Relatorio_Preditivo_20240709.pdf"
	if got != want {
		t.Errorf("ReportObjectName() = %q, want %q", got, want)
	}
}

func TestReportUploader_Publish(t *testing.T) {
	var gotBucket, gotObject, gotType string
	svc := &mockStorage{UploadBytesFunc: func(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
		gotBucket, gotObject, gotType = bucketName, objectName, contentType
		return nil
	}}

	u := NewReportUploader(svc, "finance-reports")
	u.now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }

	uri, err := u.Publish(context.Background(), "abc", "r.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if uri != "gs://finance-reports/reports/2024/01/02/abc-r.pdf" {
		t.Errorf("Publish() uri = %q", uri)
	}
	if gotBucket != "finance-reports" || gotObject != "reports/2024/01/02/abc-r.pdf" || gotType != report.MIMEType {
		t.Errorf("UploadBytes called with %q, %q, %q", gotBucket, gotObject, gotType)
	}
}

func TestReportUploader_PublishError(t *testing.T) {
	boom := errors.New("permission denied")
	svc := &mockStorage{UploadBytesFunc: func(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
		return boom
	}}

	uri, err := NewReportUploader(svc, "b").Publish(context.Background(), "abc", "r.pdf", []byte("x"))
	if !errors.Is(err, boom) {
		t.Errorf("Publish() error = %v, want %v", err, boom)
	}
	if uri != "" {
		t.Errorf("Publish() uri = %q on failure", uri)
	}
}

func TestFetchFonts(t *testing.T) {
	svc := &mockStorage{}
	fonts, err := FetchFonts(context.Background(), svc, "gs://assets/fonts/")
	if err != nil {
		t.Fatalf("FetchFonts() error = %v", err)
	}

	for _, name := range report.FontFiles() {
		if _, err := fonts.ReadFont(name); err != nil {
			t.Errorf("ReadFont(%q) error = %v", name, err)
		}
	}
	if len(svc.fetched) == 0 || svc.fetched[0] != "gs://assets/fonts/DejaVuSans-Bold.ttf" {
		t.Errorf("fetched %v", svc.fetched)
	}
	if _, err := fonts.ReadFont("Other.ttf"); err == nil {
		t.Error("ReadFont() of an unknown font succeeded")
	}
}

func TestFetchFonts_Errors(t *testing.T) {
	if _, err := FetchFonts(context.Background(), &mockStorage{}, "/local/dir"); err == nil {
		t.Error("FetchFonts() accepted a non-gs URI")
	}

	svc := &mockStorage{FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
		return nil, errors.New("object doesn't exist")
	}}
	if _, err := FetchFonts(context.Background(), svc, "gs://assets"); !errors.Is(err, report.ErrMissingFont) {
		t.Errorf("FetchFonts() error = %v, want ErrMissingFont", err)
	}
}
