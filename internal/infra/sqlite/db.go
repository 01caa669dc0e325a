// Package sqlite is a local record store backed by a SQLite file, used for
// offline work and development when BigQuery is not available.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Repository implements the record repository on top of gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository opens (or creates) the database at dbPath and migrates the schema.
func NewRepository(dbPath string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("NewRepository: connecting to database: %w", err)
	}
	if err := db.AutoMigrate(&RecordModel{}, &CardSummaryModel{}); err != nil {
		return nil, fmt.Errorf("NewRepository: migrating schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	return sqlDB.Close()
}

// ListRecords returns every stored record ordered by day.
func (r *Repository) ListRecords(ctx context.Context) ([]domain.Record, error) {
	var models []RecordModel
	if err := r.db.WithContext(ctx).Order("day, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("ListRecords: %w", err)
	}

	records := make([]domain.Record, 0, len(models))
	for _, m := range models {
		records = append(records, m.toDomain())
	}
	return records, nil
}

// FindCardSummary returns the summary for userID, or nil when none is stored.
func (r *Repository) FindCardSummary(ctx context.Context, userID string) (*domain.CardSummary, error) {
	var m CardSummaryModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindCardSummary: %w", err)
	}

	return &domain.CardSummary{
		UserID:       m.UserID,
		TotalDebits:  m.TotalDebits,
		FinalBalance: m.FinalBalance,
	}, nil
}

// InsertRecords stores records in a single transaction.
func (r *Repository) InsertRecords(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]RecordModel, 0, len(records))
	for _, rec := range records {
		models = append(models, newRecordModel(rec))
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("InsertRecords: %w", err)
	}
	return nil
}

// SaveCardSummary inserts or replaces the summary for its user.
func (r *Repository) SaveCardSummary(ctx context.Context, card domain.CardSummary) error {
	m := CardSummaryModel{
		UserID:       card.UserID,
		TotalDebits:  card.TotalDebits,
		FinalBalance: card.FinalBalance,
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("SaveCardSummary: %w", err)
	}
	return nil
}
