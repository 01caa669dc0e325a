package aggregate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGoal(t *testing.T) {
	tests := []struct {
		name          string
		spent         string
		wantBand      Band
		wantPercent   string
		wantRemaining string
		wantOver      bool
	}{
		{name: "nothing spent", spent: "0", wantBand: BandGreen, wantPercent: "0", wantRemaining: "6000"},
		{name: "below 75%", spent: "3000", wantBand: BandGreen, wantPercent: "50", wantRemaining: "3000"},
		{name: "exactly 75%", spent: "4500", wantBand: BandYellow, wantPercent: "75", wantRemaining: "1500"},
		{name: "90%", spent: "5400", wantBand: BandOrange, wantPercent: "90", wantRemaining: "600"},
		{name: "at target", spent: "6000", wantBand: BandOrange, wantPercent: "100", wantRemaining: "0"},
		{name: "over budget", spent: "6600", wantBand: BandRed, wantPercent: "110", wantRemaining: "-600", wantOver: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Goal(dec(tt.spent), DefaultGoal)
			if err != nil {
				t.Fatalf("Goal() error = %v", err)
			}
			if p.Band != tt.wantBand {
				t.Errorf("Band = %s, want %s", p.Band, tt.wantBand)
			}
			if !p.Percent.Equal(dec(tt.wantPercent)) {
				t.Errorf("Percent = %s, want %s", p.Percent, tt.wantPercent)
			}
			if !p.Remaining.Equal(dec(tt.wantRemaining)) {
				t.Errorf("Remaining = %s, want %s", p.Remaining, tt.wantRemaining)
			}
			if p.OverBudget != tt.wantOver {
				t.Errorf("OverBudget = %v, want %v", p.OverBudget, tt.wantOver)
			}
		})
	}
}

func TestGoal_InvalidTarget(t *testing.T) {
	for _, target := range []decimal.Decimal{decimal.Zero, dec("-1")} {
		if _, err := Goal(dec("10"), target); !errors.Is(err, ErrInvalidGoal) {
			t.Errorf("Goal(target=%s) error = %v, want ErrInvalidGoal", target, err)
		}
	}
}
