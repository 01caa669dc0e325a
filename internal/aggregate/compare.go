package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Period is an inclusive day range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls on a day within the period.
func (p Period) Contains(t time.Time) bool {
	d := domain.Day(t)
	return !d.Before(domain.Day(p.Start)) && !d.After(domain.Day(p.End))
}

// CategoryDelta compares one category between two periods.
// PercentChange is nil when period A has no spending in the category.
type CategoryDelta struct {
	Category      string           `json:"category"`
	PeriodA       decimal.Decimal  `json:"period_a"`
	PeriodB       decimal.Decimal  `json:"period_b"`
	AbsoluteDelta decimal.Decimal  `json:"absolute_change"`
	PercentChange *decimal.Decimal `json:"percent_change"`
}

// Compare sums outflows per category in periods a and b and reports the change
// from a to b. Categories with no spending in either period are omitted.
// Results are sorted by category name.
func Compare(outflows []domain.Record, a, b Period) []CategoryDelta {
	sumA := map[string]decimal.Decimal{}
	sumB := map[string]decimal.Decimal{}
	for _, r := range outflows {
		if a.Contains(r.Date) {
			sumA[r.Category] = sumA[r.Category].Add(r.Amount)
		}
		if b.Contains(r.Date) {
			sumB[r.Category] = sumB[r.Category].Add(r.Amount)
		}
	}

	categories := map[string]bool{}
	for c := range sumA {
		categories[c] = true
	}
	for c := range sumB {
		categories[c] = true
	}

	hundred := decimal.NewFromInt(100)
	var out []CategoryDelta
	for c := range categories {
		va, vb := sumA[c], sumB[c]
		if !va.IsPositive() && !vb.IsPositive() {
			continue
		}
		d := CategoryDelta{
			Category:      c,
			PeriodA:       va,
			PeriodB:       vb,
			AbsoluteDelta: vb.Sub(va),
		}
		if !va.IsZero() {
			pct := d.AbsoluteDelta.Div(va).Mul(hundred)
			d.PercentChange = &pct
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
