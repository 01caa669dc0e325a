package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// flat collapses the padding table writers put around cells.
func flat(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestSummaryMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		summary aggregate.Summary
		want    []string
	}{
		{
			name: "full",
			summary: aggregate.Summary{
				TotalOutflow: decimal.NewFromInt(3300),
				TotalInflow:  decimal.NewFromInt(5000),
				Principal:    &aggregate.CategoryTotal{Category: "Aluguel", Total: decimal.NewFromInt(3000)},
				Card:         &domain.CardSummary{TotalDebits: decimal.NewFromInt(900), FinalBalance: decimal.NewFromInt(100)},
			},
			want: []string{"| Total de saídas | $3,300.00 |", "| Categoria principal | Aluguel ($3,000.00) |", "| Débitos do cartão | $900.00 |"},
		},
		{
			name:    "missing card and principal",
			summary: aggregate.Summary{TotalOutflow: decimal.Zero, TotalInflow: decimal.Zero},
			want:    []string{"| Categoria principal | N/A |", "| Saldo final do cartão | N/A |"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummaryMarkdown(tt.summary, "USD")
			for _, w := range tt.want {
				if !strings.Contains(flat(got), w) {
					t.Errorf("SummaryMarkdown() missing %q in:\n%s", w, got)
				}
			}
		})
	}
}

func TestCompareMarkdown(t *testing.T) {
	a := aggregate.Period{Start: day(2024, 1, 1), End: day(2024, 1, 31)}
	b := aggregate.Period{Start: day(2024, 2, 1), End: day(2024, 2, 29)}
	pct := decimal.NewFromInt(100)
	deltas := []aggregate.CategoryDelta{
		{Category: "Mercado", PeriodA: decimal.NewFromInt(100), PeriodB: decimal.NewFromInt(200), AbsoluteDelta: decimal.NewFromInt(100), PercentChange: &pct},
		{Category: "Lazer", PeriodA: decimal.Zero, PeriodB: decimal.NewFromInt(50), AbsoluteDelta: decimal.NewFromInt(50)},
	}

	got := CompareMarkdown(a, b, deltas, "USD")
	for _, w := range []string{
		"- A: 01/01/2024 a 31/01/2024",
		"| Mercado | $100.00 | $200.00 | $100.00 | 100.0% |",
		"| Lazer | $0.00 | $50.00 | $50.00 | N/A |",
	} {
		if !strings.Contains(flat(got), w) {
			t.Errorf("CompareMarkdown() missing %q in:\n%s", w, got)
		}
	}

	if empty := CompareMarkdown(a, b, nil, "USD"); !strings.Contains(empty, "Sem gastos") {
		t.Errorf("CompareMarkdown(nil) = %q", empty)
	}
}

func TestGoalMarkdown(t *testing.T) {
	g, err := aggregate.Goal(decimal.NewFromInt(1200), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Goal() error = %v", err)
	}

	got := GoalMarkdown(g, "USD")
	if !strings.Contains(flat(got), "| $1,000.00 | $1,200.00 |") || !strings.Contains(got, "Meta ultrapassada") {
		t.Errorf("GoalMarkdown() =\n%s", got)
	}
}

func TestDashboardMarkdown(t *testing.T) {
	v := &dashboard.View{
		Selection: domain.Selection{
			Start:      day(2024, 1, 1),
			End:        day(2024, 2, 29),
			Categories: []string{"Aluguel", "Mercado"},
		},
		Count:   3,
		Summary: aggregate.Summary{TotalOutflow: decimal.NewFromInt(1700), TotalInflow: decimal.Zero},
		CategoryStats: []aggregate.CategoryStat{
			{Category: "Aluguel", Sum: decimal.NewFromInt(1500), Mean: decimal.NewFromInt(1500), Count: 1},
			{Category: "Mercado", Sum: decimal.NewFromInt(200), Mean: decimal.NewFromInt(100), Count: 2},
		},
		Monthly: []aggregate.MonthlyTotal{{Month: "2024-01", Total: decimal.NewFromInt(1700)}},
		PaymentTree: &aggregate.Node{Children: []*aggregate.Node{
			{Label: "Pix", Total: decimal.NewFromInt(200), Children: []*aggregate.Node{
				{Label: "Mercado", Total: decimal.NewFromInt(200)},
			}},
		}},
	}

	got := DashboardMarkdown(v, "USD")
	for _, w := range []string{
		"Período: 01/01/2024 a 29/02/2024, 3 lançamentos",
		"- Categorias: Aluguel, Mercado",
		"| Aluguel | $1,500.00 | $1,500.00 | 1 |",
		"| Mercado | $200.00 | $100.00 | 2 |",
		"| 2024-01 | $1,700.00 |",
		"- **Pix**: $200.00",
		"- Mercado: $200.00",
	} {
		if !strings.Contains(flat(got), w) {
			t.Errorf("DashboardMarkdown() missing %q in:\n%s", w, got)
		}
	}
}
