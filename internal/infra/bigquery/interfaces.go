package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	bq "github.com/dvloznov/finance-dashboard/internal/bigquery"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// RecordRepository is re-exported from the shared package.
type RecordRepository = bq.RecordRepository

// BigQueryRecordRepository is the concrete implementation of RecordRepository
// that interacts with BigQuery. It holds a shared BigQuery client to avoid
// creating a new connection for each operation.
type BigQueryRecordRepository struct {
	client *bigquery.Client
	tables Tables
}

// NewBigQueryRecordRepository creates a new instance of BigQueryRecordRepository
// with a shared BigQuery client.
func NewBigQueryRecordRepository(ctx context.Context, tables Tables) (*BigQueryRecordRepository, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("NewBigQueryRecordRepository: %w", err)
	}
	client, err := bigquery.NewClient(ctx, tables.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryRecordRepository: creating client: %w", err)
	}
	return &BigQueryRecordRepository{
		client: client,
		tables: tables,
	}, nil
}

// Close closes the BigQuery client connection. This should be called when
// the repository is no longer needed to release resources.
func (r *BigQueryRecordRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ListRecords delegates to ListRecordsWithClient with the shared client.
func (r *BigQueryRecordRepository) ListRecords(ctx context.Context) ([]domain.Record, error) {
	return ListRecordsWithClient(ctx, r.client, r.tables)
}

// FindCardSummary delegates to FindCardSummaryWithClient with the shared client.
func (r *BigQueryRecordRepository) FindCardSummary(ctx context.Context, userID string) (*domain.CardSummary, error) {
	return FindCardSummaryWithClient(ctx, r.client, r.tables, userID)
}

// InsertRecords delegates to InsertRecordsWithClient with the shared client.
func (r *BigQueryRecordRepository) InsertRecords(ctx context.Context, records []domain.Record) error {
	return InsertRecordsWithClient(ctx, r.client, r.tables, records)
}

// EnsureTables delegates to EnsureTablesWithClient with the shared client.
func (r *BigQueryRecordRepository) EnsureTables(ctx context.Context) error {
	return EnsureTablesWithClient(ctx, r.client, r.tables)
}
