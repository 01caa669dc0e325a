// Package store gives the rest of the application read-only, TTL-cached access
// to the movement records and the card summary.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dvloznov/finance-dashboard/internal/bigquery"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// ErrDataUnavailable is returned when records cannot be fetched or the store is empty.
var ErrDataUnavailable = errors.New("record data unavailable")

const (
	recordsKey    = "records"
	cardKeyPrefix = "card:"
)

// Repository is the backing record store.
type Repository = bigquery.RecordRepository

// CachedStore serves records and card summaries from an in-process cache,
// refreshing from the repository once an entry's TTL expires.
type CachedStore struct {
	repo       Repository
	cache      *cache.Cache
	recordsTTL time.Duration
	cardTTL    time.Duration
}

// NewCachedStore wraps repo with a cache using the given per-entry TTLs.
func NewCachedStore(repo Repository, recordsTTL, cardTTL time.Duration) *CachedStore {
	cleanup := recordsTTL
	if cardTTL > cleanup {
		cleanup = cardTTL
	}
	return &CachedStore{
		repo:       repo,
		cache:      cache.New(recordsTTL, cleanup),
		recordsTTL: recordsTTL,
		cardTTL:    cardTTL,
	}
}

// Records returns the full record set. The returned slice is shared with the
// cache and must not be modified.
func (s *CachedStore) Records(ctx context.Context) ([]domain.Record, error) {
	if v, ok := s.cache.Get(recordsKey); ok {
		return v.([]domain.Record), nil
	}

	log := logger.FromContext(ctx)
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch records")
		return nil, fmt.Errorf("Records: %w: %v", ErrDataUnavailable, err)
	}
	if len(records) == 0 {
		log.Warn().Msg("Record store returned no records")
		return nil, fmt.Errorf("Records: %w: store is empty", ErrDataUnavailable)
	}

	s.cache.Set(recordsKey, records, s.recordsTTL)
	log.Debug().Int("records", len(records)).Dur("ttl", s.recordsTTL).Msg("Cached records")
	return records, nil
}

// CardSummary returns the card summary for userID, or nil when there is none.
// An empty userID yields nil without touching the repository.
func (s *CachedStore) CardSummary(ctx context.Context, userID string) (*domain.CardSummary, error) {
	if userID == "" {
		return nil, nil
	}

	key := cardKeyPrefix + userID
	if v, ok := s.cache.Get(key); ok {
		return v.(*domain.CardSummary), nil
	}

	card, err := s.repo.FindCardSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("CardSummary: %w", err)
	}

	s.cache.Set(key, card, s.cardTTL)
	return card, nil
}

// Invalidate drops every cached entry so the next read goes to the repository.
func (s *CachedStore) Invalidate() {
	s.cache.Flush()
}
