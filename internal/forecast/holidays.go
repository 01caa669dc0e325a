package forecast

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/aa"
)

// HolidayCalendar reports whether a day is a public holiday.
type HolidayCalendar interface {
	IsHoliday(day time.Time) bool
}

// NoHolidays is a calendar without holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time) bool { return false }

var (
	carnivalMonday = &cal.Holiday{
		Name:   "Carnaval (segunda-feira)",
		Type:   cal.ObservancePublic,
		Offset: -48,
		Func:   cal.CalcEasterOffset,
	}
	carnivalTuesday = &cal.Holiday{
		Name:   "Carnaval (terça-feira)",
		Type:   cal.ObservancePublic,
		Offset: -47,
		Func:   cal.CalcEasterOffset,
	}
	tiradentes     = fixedHoliday("Tiradentes", time.April, 21)
	independence   = fixedHoliday("Independência do Brasil", time.September, 7)
	aparecida      = fixedHoliday("Nossa Senhora Aparecida", time.October, 12)
	allSouls       = fixedHoliday("Finados", time.November, 2)
	republic       = fixedHoliday("Proclamação da República", time.November, 15)
	blackAwareness = &cal.Holiday{
		Name:      "Dia Nacional de Zumbi e da Consciência Negra",
		Type:      cal.ObservancePublic,
		Month:     time.November,
		Day:       20,
		StartYear: 2024,
		Func:      cal.CalcDayOfMonth,
	}

	brazilHolidays = []*cal.Holiday{
		aa.NewYear,
		carnivalMonday,
		carnivalTuesday,
		aa.GoodFriday,
		tiradentes,
		aa.WorkersDay,
		aa.CorpusChristi,
		independence,
		aparecida,
		allSouls,
		republic,
		blackAwareness,
		aa.ChristmasDay,
	}
)

func fixedHoliday(name string, month time.Month, day int) *cal.Holiday {
	return &cal.Holiday{
		Name:  name,
		Type:  cal.ObservancePublic,
		Month: month,
		Day:   day,
		Func:  cal.CalcDayOfMonth,
	}
}

// BrazilHolidays is the Brazilian national holiday calendar, including the
// Easter-based Carnival, Good Friday and Corpus Christi.
type BrazilHolidays struct {
	bc *cal.BusinessCalendar
}

func NewBrazilHolidays() *BrazilHolidays {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(brazilHolidays...)
	return &BrazilHolidays{bc: bc}
}

// IsHoliday implements HolidayCalendar. Brazilian holidays are not moved
// to a weekday, so only the actual date counts.
func (b *BrazilHolidays) IsHoliday(day time.Time) bool {
	actual, _, _ := b.bc.IsHoliday(day)
	return actual
}
