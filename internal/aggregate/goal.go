package aggregate

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidGoal is returned for a non-positive spending target.
var ErrInvalidGoal = errors.New("goal target must be positive")

// DefaultGoal is the spending target used when none is given.
var DefaultGoal = decimal.NewFromInt(6000)

// Band is the gauge color zone the spending falls into.
type Band string

const (
	BandGreen  Band = "green"  // below 75% of the target
	BandYellow Band = "yellow" // 75% up to 90%
	BandOrange Band = "orange" // 90% up to the target
	BandRed    Band = "red"    // over budget
)

// GoalProgress describes spending against a target.
type GoalProgress struct {
	Target     decimal.Decimal `json:"target"`
	Spent      decimal.Decimal `json:"spent"`
	Percent    decimal.Decimal `json:"percent"`
	Remaining  decimal.Decimal `json:"remaining"` // negative when over budget
	OverBudget bool            `json:"over_budget"`
	Band       Band            `json:"band"`
}

// Goal measures spent against target.
func Goal(spent, target decimal.Decimal) (GoalProgress, error) {
	if !target.IsPositive() {
		return GoalProgress{}, fmt.Errorf("Goal: %w: %s", ErrInvalidGoal, target)
	}

	percent := spent.Div(target).Mul(decimal.NewFromInt(100))
	p := GoalProgress{
		Target:     target,
		Spent:      spent,
		Percent:    percent.Round(2),
		Remaining:  target.Sub(spent),
		OverBudget: spent.GreaterThan(target),
	}

	switch {
	case p.OverBudget:
		p.Band = BandRed
	case percent.LessThan(decimal.NewFromInt(75)):
		p.Band = BandGreen
	case percent.LessThan(decimal.NewFromInt(90)):
		p.Band = BandYellow
	default:
		p.Band = BandOrange
	}
	return p, nil
}
