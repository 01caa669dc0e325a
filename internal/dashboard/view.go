package dashboard

import (
	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/filter"
)

// View is an immutable snapshot of the dashboard for one selection.
type View struct {
	Selection domain.Selection `json:"selection"`
	Count     int              `json:"record_count"`

	Summary              aggregate.Summary             `json:"summary"`
	ByCategory           []aggregate.CategoryTotal     `json:"by_category"`
	CategoryStats        []aggregate.CategoryStat      `json:"category_stats"`
	Monthly              []aggregate.MonthlyTotal      `json:"monthly"`
	MonthlyByCategory    []aggregate.MonthlyGroupTotal `json:"monthly_by_category"`
	MonthlyByExpenseType []aggregate.MonthlyGroupTotal `json:"monthly_by_expense_type"`
	PaymentTree          *aggregate.Node               `json:"payment_tree"`

	records []domain.Record
}

// Records returns the filtered records behind the view.
func (v *View) Records() []domain.Record {
	return v.records
}

func buildView(sel domain.Selection, filtered []domain.Record, card *domain.CardSummary) *View {
	outflows, inflows := filter.Split(filtered)
	return &View{
		Selection:            sel,
		Count:                len(filtered),
		Summary:              aggregate.Summarize(outflows, inflows, card),
		ByCategory:           aggregate.ByCategory(outflows),
		CategoryStats:        aggregate.CategoryStats(outflows),
		Monthly:              aggregate.Monthly(outflows),
		MonthlyByCategory:    aggregate.MonthlyByCategory(outflows),
		MonthlyByExpenseType: aggregate.MonthlyByExpenseType(outflows),
		PaymentTree:          aggregate.ByPaymentMethod(outflows),
		records:              filtered,
	}
}
