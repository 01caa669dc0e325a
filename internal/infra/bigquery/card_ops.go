package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// FindCardSummaryWithClient returns the card summary for userID using the provided
// BigQuery client. It returns nil, nil when the user has no summary row.
func FindCardSummaryWithClient(ctx context.Context, client *bigquery.Client, tables Tables, userID string) (*domain.CardSummary, error) {
	q := client.Query(`
		SELECT
		  user_id,
		  total_debitos_periodo,
		  saldo_final_calculado
		FROM ` + tables.cardRef() + `
		WHERE user_id = @user_id
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindCardSummary: query read: %w", err)
	}

	var row CardSummaryRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindCardSummary: iter next: %w", err)
	}

	return row.ToDomain(), nil
}
