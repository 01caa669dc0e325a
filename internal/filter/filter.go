// Package filter narrows a record set to the user's current selection.
package filter

import (
	"sort"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// MissingPolicy decides how records without an expense type are filtered.
type MissingPolicy int

const (
	// MissingAsCategory treats a missing expense type as the selectable
	// label domain.MissingExpenseType.
	MissingAsCategory MissingPolicy = iota
	// MissingExclude always drops records without an expense type.
	MissingExclude
)

// ParsePolicy maps the configuration value to a policy. Unknown values map to MissingAsCategory.
func ParsePolicy(v string) MissingPolicy {
	if v == "exclude" {
		return MissingExclude
	}
	return MissingAsCategory
}

// Apply returns the records whose date lies within the inclusive range and
// whose category, payment method and expense type are each in the selected set.
// An empty set along any dimension yields an empty result. The input is not modified.
func Apply(records []domain.Record, sel domain.Selection, policy MissingPolicy) []domain.Record {
	categories := toSet(sel.Categories)
	methods := toSet(sel.PaymentMethods)
	types := toSet(sel.ExpenseTypes)

	start := domain.Day(sel.Start)
	end := domain.Day(sel.End)

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		day := domain.Day(r.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		if !categories[r.Category] || !methods[r.PaymentMethod] {
			continue
		}
		if !expenseTypeSelected(r, types, policy) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func expenseTypeSelected(r domain.Record, types map[string]bool, policy MissingPolicy) bool {
	if r.HasExpenseType() {
		return types[r.ExpenseType]
	}
	if policy == MissingExclude {
		return false
	}
	return types[domain.MissingExpenseType]
}

// Split partitions records into outflows and inflows, preserving order.
func Split(records []domain.Record) (outflows, inflows []domain.Record) {
	for _, r := range records {
		switch r.Movement {
		case domain.Outflow:
			outflows = append(outflows, r)
		case domain.Inflow:
			inflows = append(inflows, r)
		}
	}
	return outflows, inflows
}

// DefaultSelection selects the whole dataset: the full date span and every
// distinct category, payment method and expense type, sorted.
// Under MissingAsCategory the missing label is included when any record lacks a type.
func DefaultSelection(records []domain.Record, policy MissingPolicy) domain.Selection {
	var sel domain.Selection
	if len(records) == 0 {
		return sel
	}

	categories := map[string]bool{}
	methods := map[string]bool{}
	types := map[string]bool{}

	sel.Start = domain.Day(records[0].Date)
	sel.End = sel.Start
	for _, r := range records {
		day := domain.Day(r.Date)
		if day.Before(sel.Start) {
			sel.Start = day
		}
		if day.After(sel.End) {
			sel.End = day
		}
		categories[r.Category] = true
		methods[r.PaymentMethod] = true
		switch {
		case r.HasExpenseType():
			types[r.ExpenseType] = true
		case policy == MissingAsCategory:
			types[domain.MissingExpenseType] = true
		}
	}

	sel.Categories = sortedKeys(categories)
	sel.PaymentMethods = sortedKeys(methods)
	sel.ExpenseTypes = sortedKeys(types)
	return sel
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
