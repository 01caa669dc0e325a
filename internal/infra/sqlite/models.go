package sqlite

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// RecordModel is a stored movement.
type RecordModel struct {
	gorm.Model
	Day           time.Time       `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null"`
	Movement      string          `gorm:"not null"`
	Category      string          `gorm:"index;not null"`
	PaymentMethod string          `gorm:"not null"`
	ExpenseType   *string
}

func (RecordModel) TableName() string { return "records" }

// CardSummaryModel is the card debit summary of one user.
type CardSummaryModel struct {
	UserID       string          `gorm:"primaryKey"`
	TotalDebits  decimal.Decimal `gorm:"type:numeric"`
	FinalBalance decimal.Decimal `gorm:"type:numeric"`
	UpdatedAt    time.Time
}

func (CardSummaryModel) TableName() string { return "card_summaries" }

func (m RecordModel) toDomain() domain.Record {
	rec := domain.Record{
		Date:          domain.Day(m.Day),
		Amount:        m.Amount.Abs(),
		Movement:      domain.MovementType(m.Movement),
		Category:      m.Category,
		PaymentMethod: m.PaymentMethod,
	}
	if m.ExpenseType != nil {
		rec.ExpenseType = *m.ExpenseType
	}
	return rec
}

func newRecordModel(rec domain.Record) RecordModel {
	m := RecordModel{
		Day:           domain.Day(rec.Date),
		Amount:        rec.Amount,
		Movement:      string(rec.Movement),
		Category:      rec.Category,
		PaymentMethod: rec.PaymentMethod,
	}
	if rec.HasExpenseType() {
		et := rec.ExpenseType
		m.ExpenseType = &et
	}
	return m
}
