package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tells whether money left or entered the account.
type MovementType string

const (
	Outflow MovementType = "Cx.Out"
	Inflow  MovementType = "Cx.In"
)

// MissingExpenseType labels records without an expense type when they are
// treated as their own selectable group.
const MissingExpenseType = "(sem tipo)"

// Record is one financial movement as fetched from the record store.
// Amount is an unsigned magnitude; Movement carries the direction.
type Record struct {
	Date          time.Time       `json:"date"` // UTC midnight
	Amount        decimal.Decimal `json:"amount"`
	Movement      MovementType    `json:"movement"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	ExpenseType   string          `json:"expense_type,omitempty"` // empty when the source value is null
}

// HasExpenseType reports whether the source row carried an expense type.
func (r Record) HasExpenseType() bool {
	return strings.TrimSpace(r.ExpenseType) != ""
}

// CardSummary is the precomputed card debit summary for one identity.
type CardSummary struct {
	UserID       string          `json:"user_id"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	FinalBalance decimal.Decimal `json:"final_balance"`
}

// Day truncates t to UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
