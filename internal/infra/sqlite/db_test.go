package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// newTestRepository opens a database in a temp dir. The SQLite driver needs cgo,
// so the test is skipped when the driver cannot open a connection.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_RecordsRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	in := []domain.Record{
		{Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("80.5"), Movement: domain.Outflow, Category: "Mercado", PaymentMethod: "Pix", ExpenseType: "Variável"},
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("3000"), Movement: domain.Inflow, Category: "Salário", PaymentMethod: "TED"},
	}
	if err := repo.InsertRecords(ctx, in); err != nil {
		t.Fatalf("InsertRecords() error = %v", err)
	}

	got, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRecords() returned %d records, want 2", len(got))
	}
	if got[0].Category != "Salário" {
		t.Errorf("records not ordered by day: first is %q", got[0].Category)
	}
	if got[0].HasExpenseType() {
		t.Errorf("null expense type came back as %q", got[0].ExpenseType)
	}
	if !got[1].Amount.Equal(decimal.RequireFromString("80.5")) {
		t.Errorf("Amount = %s, want 80.5", got[1].Amount)
	}
}

func TestRepository_CardSummary(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	card, err := repo.FindCardSummary(ctx, "missing")
	if err != nil || card != nil {
		t.Fatalf("FindCardSummary(missing) = %v, %v; want nil, nil", card, err)
	}

	want := domain.CardSummary{UserID: "u1", TotalDebits: decimal.NewFromInt(420), FinalBalance: decimal.NewFromInt(-20)}
	if err := repo.SaveCardSummary(ctx, want); err != nil {
		t.Fatalf("SaveCardSummary() error = %v", err)
	}

	card, err = repo.FindCardSummary(ctx, "u1")
	if err != nil {
		t.Fatalf("FindCardSummary() error = %v", err)
	}
	if card == nil || !card.TotalDebits.Equal(want.TotalDebits) || !card.FinalBalance.Equal(want.FinalBalance) {
		t.Errorf("FindCardSummary() = %+v, want %+v", card, want)
	}
}
