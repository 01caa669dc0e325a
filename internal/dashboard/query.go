package dashboard

import (
	"fmt"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Query is a partially specified selection. Nil bounds and nil value lists
// keep the dataset's full domain; a non-nil empty list selects nothing.
type Query struct {
	Start          *time.Time
	End            *time.Time
	Categories     []string
	PaymentMethods []string
	ExpenseTypes   []string
}

// Resolve fills the unspecified parts of q from def. Only a range whose
// bounds were both given can be inverted; a single bound outside the
// dataset moves the default one with it and selects no days.
func (q Query) Resolve(def domain.Selection) (domain.Selection, error) {
	sel := def
	if q.Start != nil {
		sel.Start = domain.Day(*q.Start)
	}
	if q.End != nil {
		sel.End = domain.Day(*q.End)
	}
	if !sel.Start.IsZero() && !sel.End.IsZero() && sel.End.Before(sel.Start) {
		switch {
		case q.Start != nil && q.End != nil:
			return domain.Selection{}, fmt.Errorf("Resolve: %w: end %s is before start %s",
				ErrInvalidQuery, sel.End.Format(dateLayout), sel.Start.Format(dateLayout))
		case q.Start != nil:
			sel.End = sel.Start
		default:
			sel.Start = sel.End
		}
	}
	if q.Categories != nil {
		sel.Categories = q.Categories
	}
	if q.PaymentMethods != nil {
		sel.PaymentMethods = q.PaymentMethods
	}
	if q.ExpenseTypes != nil {
		sel.ExpenseTypes = q.ExpenseTypes
	}
	return sel, nil
}

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(v string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w: %q is not YYYY-MM-DD", ErrInvalidQuery, v)
	}
	return t, nil
}
