// Package aggregate derives the dashboard's totals, breakdowns and chart inputs
// from a filtered record set. All functions are pure; empty input yields empty
// output rather than an error.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// MonthLayout is the year-month bucket key format.
const MonthLayout = "2006-01"

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryStat holds sum, mean and count of one category.
type CategoryStat struct {
	Category string          `json:"category"`
	Sum      decimal.Decimal `json:"sum"`
	Mean     decimal.Decimal `json:"mean"`
	Count    int             `json:"count"`
}

// MonthlyTotal is the summed amount of one year-month.
type MonthlyTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// MonthlyGroupTotal is the summed amount of one group within one year-month.
type MonthlyGroupTotal struct {
	Month string          `json:"month"`
	Group string          `json:"group"`
	Total decimal.Decimal `json:"total"`
}

// Summary is the headline figures of a filtered view.
type Summary struct {
	TotalOutflow decimal.Decimal     `json:"total_outflow"`
	TotalInflow  decimal.Decimal     `json:"total_inflow"`
	Principal    *CategoryTotal      `json:"principal_category,omitempty"`
	Card         *domain.CardSummary `json:"card,omitempty"`
}

// Total sums record amounts.
func Total(records []domain.Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// ByCategory sums amounts per category, sorted by total descending.
// Ties keep the order in which categories first appear in the input.
func ByCategory(records []domain.Record) []CategoryTotal {
	stats := CategoryStats(records)
	out := make([]CategoryTotal, len(stats))
	for i, s := range stats {
		out[i] = CategoryTotal{Category: s.Category, Total: s.Sum}
	}
	return out
}

// Principal returns the category with the highest total, if any.
func Principal(records []domain.Record) (CategoryTotal, bool) {
	totals := ByCategory(records)
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}
	return totals[0], true
}

// TopCategories returns at most n categories by descending total.
func TopCategories(records []domain.Record, n int) []CategoryTotal {
	totals := ByCategory(records)
	if n >= 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// CategoryStats computes sum, mean and count per category, ordered like ByCategory.
func CategoryStats(records []domain.Record) []CategoryStat {
	index := map[string]int{}
	var stats []CategoryStat
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(stats)
			index[r.Category] = i
			stats = append(stats, CategoryStat{Category: r.Category, Sum: decimal.Zero})
		}
		stats[i].Sum = stats[i].Sum.Add(r.Amount)
		stats[i].Count++
	}

	for i := range stats {
		stats[i].Mean = stats[i].Sum.Div(decimal.NewFromInt(int64(stats[i].Count)))
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Sum.GreaterThan(stats[j].Sum)
	})
	return stats
}

// Monthly sums amounts per year-month, ascending by month.
func Monthly(records []domain.Record) []MonthlyTotal {
	sums := map[string]decimal.Decimal{}
	for _, r := range records {
		m := r.Date.Format(MonthLayout)
		sums[m] = sums[m].Add(r.Amount)
	}

	out := make([]MonthlyTotal, 0, len(sums))
	for m, total := range sums {
		out = append(out, MonthlyTotal{Month: m, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MonthlyByCategory sums amounts per year-month and category.
func MonthlyByCategory(records []domain.Record) []MonthlyGroupTotal {
	return monthlyBy(records, func(r domain.Record) string { return r.Category })
}

// MonthlyByExpenseType sums amounts per year-month and expense type (fixed vs variable).
// Records without an expense type are grouped under domain.MissingExpenseType.
func MonthlyByExpenseType(records []domain.Record) []MonthlyGroupTotal {
	return monthlyBy(records, func(r domain.Record) string {
		if !r.HasExpenseType() {
			return domain.MissingExpenseType
		}
		return r.ExpenseType
	})
}

// monthlyBy orders by month ascending, then by group name.
func monthlyBy(records []domain.Record, group func(domain.Record) string) []MonthlyGroupTotal {
	type key struct{ month, group string }
	sums := map[key]decimal.Decimal{}
	for _, r := range records {
		k := key{month: r.Date.Format(MonthLayout), group: group(r)}
		sums[k] = sums[k].Add(r.Amount)
	}

	out := make([]MonthlyGroupTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, MonthlyGroupTotal{Month: k.month, Group: k.group, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// Summarize computes the headline totals of a filtered view. card may be nil.
func Summarize(outflows, inflows []domain.Record, card *domain.CardSummary) Summary {
	s := Summary{
		TotalOutflow: Total(outflows),
		TotalInflow:  Total(inflows),
		Card:         card,
	}
	if p, ok := Principal(outflows); ok {
		s.Principal = &p
	}
	return s
}
