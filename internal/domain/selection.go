package domain

import "time"

// Selection is the user's current filter choice. Every dimension is a set of
// allowed values; an empty set matches nothing. Start and End are inclusive days.
type Selection struct {
	Start          time.Time `json:"start_date"`
	End            time.Time `json:"end_date"`
	Categories     []string  `json:"categories"`
	PaymentMethods []string  `json:"payment_methods"`
	ExpenseTypes   []string  `json:"expense_types"`
}

// ForecastPoint is one predicted day. Lower <= Predicted <= Upper.
type ForecastPoint struct {
	Day       time.Time `json:"day"`
	Predicted float64   `json:"predicted"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
}
