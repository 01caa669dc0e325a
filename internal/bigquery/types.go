package bigquery

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// RecordRepository provides read access to the movement records and the card summary.
type RecordRepository interface {
	// ListRecords returns every record in the records table.
	ListRecords(ctx context.Context) ([]domain.Record, error)

	// FindCardSummary returns the card summary for userID, or nil when none exists.
	FindCardSummary(ctx context.Context, userID string) (*domain.CardSummary, error)
}

// RecordRow represents one movement in the records table.
type RecordRow struct {
	Day           civil.Date          `bigquery:"dia"`             // REQUIRED
	Amount        *big.Rat            `bigquery:"valor"`           // REQUIRED (NUMERIC)
	Movement      string              `bigquery:"tipo_mov"`        // REQUIRED, Cx.Out or Cx.In
	Category      string              `bigquery:"categoria"`       // REQUIRED
	PaymentMethod string              `bigquery:"forma_pagamento"` // REQUIRED
	ExpenseType   bigquery.NullString `bigquery:"tipo_despesa"`    // NULLABLE
}

// CardSummaryRow represents the precomputed card debit summary of one user.
type CardSummaryRow struct {
	UserID       string   `bigquery:"user_id"`               // REQUIRED
	TotalDebits  *big.Rat `bigquery:"total_debitos_periodo"` // NULLABLE (NUMERIC)
	FinalBalance *big.Rat `bigquery:"saldo_final_calculado"` // NULLABLE (NUMERIC)
}

// ToDomain converts the row into a domain.Record.
func (r *RecordRow) ToDomain() (domain.Record, error) {
	if r.Amount == nil {
		return domain.Record{}, fmt.Errorf("ToDomain: record on %s has no amount", r.Day)
	}

	movement := domain.MovementType(strings.TrimSpace(r.Movement))
	if movement != domain.Outflow && movement != domain.Inflow {
		return domain.Record{}, fmt.Errorf("ToDomain: record on %s has unknown movement %q", r.Day, r.Movement)
	}

	rec := domain.Record{
		Date:          r.Day.In(time.UTC),
		Amount:        ratToDecimal(r.Amount).Abs(),
		Movement:      movement,
		Category:      strings.TrimSpace(r.Category),
		PaymentMethod: strings.TrimSpace(r.PaymentMethod),
	}
	if r.ExpenseType.Valid {
		rec.ExpenseType = strings.TrimSpace(r.ExpenseType.StringVal)
	}
	return rec, nil
}

// ToDomain converts the row into a domain.CardSummary. Null amounts become zero.
func (r *CardSummaryRow) ToDomain() *domain.CardSummary {
	return &domain.CardSummary{
		UserID:       r.UserID,
		TotalDebits:  ratToDecimal(r.TotalDebits),
		FinalBalance: ratToDecimal(r.FinalBalance),
	}
}

// NewRecordRow converts a domain.Record into its BigQuery representation.
func NewRecordRow(rec domain.Record) *RecordRow {
	row := &RecordRow{
		Day:           civil.DateOf(rec.Date),
		Amount:        rec.Amount.Rat(),
		Movement:      string(rec.Movement),
		Category:      rec.Category,
		PaymentMethod: rec.PaymentMethod,
	}
	if rec.HasExpenseType() {
		row.ExpenseType = bigquery.NullString{StringVal: rec.ExpenseType, Valid: true}
	}
	return row
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, 9)
}
