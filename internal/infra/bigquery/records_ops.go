package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	bq "github.com/dvloznov/finance-dashboard/internal/bigquery"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// ListRecordsWithClient reads the whole records table using the provided BigQuery client.
// Filtering happens in memory, so no predicates are pushed to the query.
func ListRecordsWithClient(ctx context.Context, client *bigquery.Client, tables Tables) ([]domain.Record, error) {
	q := client.Query(`
		SELECT
		  dia,
		  valor,
		  tipo_mov,
		  categoria,
		  forma_pagamento,
		  tipo_despesa
		FROM ` + tables.recordsRef() + `
		ORDER BY dia
	`)

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecords: query read: %w", err)
	}

	var records []domain.Record
	for {
		var r RecordRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecords: iter next: %w", err)
		}
		rec, err := r.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("ListRecords: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// InsertRecordsWithClient appends records to the records table using the provided BigQuery client.
func InsertRecordsWithClient(ctx context.Context, client *bigquery.Client, tables Tables, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]*RecordRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, bq.NewRecordRow(rec))
	}

	inserter := client.Dataset(tables.Dataset).Table(tables.Records).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertRecords: inserting %d rows: %w", len(rows), err)
	}
	return nil
}
