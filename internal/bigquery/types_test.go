package bigquery

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

func TestRecordRowToDomain(t *testing.T) {
	row := &RecordRow{
		Day:           civil.Date{Year: 2024, Month: time.March, Day: 5},
		Amount:        big.NewRat(-12345, 100),
		Movement:      " Cx.Out ",
		Category:      "Mercado",
		PaymentMethod: "Pix",
		ExpenseType:   bigquery.NullString{StringVal: "Variável", Valid: true},
	}

	rec, err := row.ToDomain()
	if err != nil {
		t.Fatalf("ToDomain() error = %v", err)
	}

	if !rec.Date.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", rec.Date)
	}
	if !rec.Amount.Equal(decimal.RequireFromString("123.45")) {
		t.Errorf("Amount = %s, want unsigned 123.45", rec.Amount)
	}
	if rec.Movement != domain.Outflow {
		t.Errorf("Movement = %q, want %q", rec.Movement, domain.Outflow)
	}
	if rec.ExpenseType != "Variável" {
		t.Errorf("ExpenseType = %q", rec.ExpenseType)
	}
}

func TestRecordRowToDomain_NullExpenseType(t *testing.T) {
	row := &RecordRow{
		Day:      civil.Date{Year: 2024, Month: time.January, Day: 1},
		Amount:   big.NewRat(10, 1),
		Movement: "Cx.In",
	}

	rec, err := row.ToDomain()
	if err != nil {
		t.Fatalf("ToDomain() error = %v", err)
	}
	if rec.HasExpenseType() {
		t.Errorf("HasExpenseType() = true for null column")
	}
}

func TestRecordRowToDomain_Invalid(t *testing.T) {
	tests := []struct {
		name string
		row  RecordRow
	}{
		{name: "missing amount", row: RecordRow{Movement: "Cx.Out"}},
		{name: "unknown movement", row: RecordRow{Amount: big.NewRat(1, 1), Movement: "Transfer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.row.ToDomain(); err == nil {
				t.Error("ToDomain() expected error")
			}
		})
	}
}

func TestNewRecordRow(t *testing.T) {
	rec := domain.Record{
		Date:     time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString("50.10"),
		Movement: domain.Inflow,
		Category: "Salário",
	}

	row := NewRecordRow(rec)

	if row.Day != (civil.Date{Year: 2024, Month: time.May, Day: 2}) {
		t.Errorf("Day = %v", row.Day)
	}
	if row.Amount.Cmp(big.NewRat(501, 10)) != 0 {
		t.Errorf("Amount = %v, want 50.1", row.Amount)
	}
	if row.ExpenseType.Valid {
		t.Error("ExpenseType should be null when the record has none")
	}
}

func TestCardSummaryRowToDomain_NullAmounts(t *testing.T) {
	row := &CardSummaryRow{UserID: "u1", TotalDebits: big.NewRat(7, 2)}

	card := row.ToDomain()

	if !card.TotalDebits.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("TotalDebits = %s", card.TotalDebits)
	}
	if !card.FinalBalance.IsZero() {
		t.Errorf("FinalBalance = %s, want zero for null", card.FinalBalance)
	}
}
