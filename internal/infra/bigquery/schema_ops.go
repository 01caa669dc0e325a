package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// EnsureTablesWithClient creates the dataset and both tables when they do not exist yet.
// Schemas are inferred from the row types.
func EnsureTablesWithClient(ctx context.Context, client *bigquery.Client, tables Tables) error {
	log := logger.FromContext(ctx)

	ds := client.Dataset(tables.Dataset)
	if err := ds.Create(ctx, &bigquery.DatasetMetadata{}); err != nil && !alreadyExists(err) {
		return fmt.Errorf("EnsureTables: creating dataset %s: %w", tables.Dataset, err)
	}

	for name, row := range map[string]interface{}{
		tables.Records: RecordRow{},
		tables.Card:    CardSummaryRow{},
	} {
		schema, err := bigquery.InferSchema(row)
		if err != nil {
			return fmt.Errorf("EnsureTables: inferring schema for %s: %w", name, err)
		}

		err = ds.Table(name).Create(ctx, &bigquery.TableMetadata{Schema: schema})
		switch {
		case err == nil:
			log.Info().Str("table", name).Msg("Created table")
		case alreadyExists(err):
			log.Debug().Str("table", name).Msg("Table already exists")
		default:
			return fmt.Errorf("EnsureTables: creating table %s: %w", name, err)
		}
	}

	return nil
}

func alreadyExists(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}
