// Package dashboard composes the record store, filter, aggregation and report
// pipeline into the operations the HTTP API and the CLI expose.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/filter"
	"github.com/dvloznov/finance-dashboard/internal/forecast"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/runs"
	"github.com/dvloznov/finance-dashboard/internal/runs/inmemory"
)

// ErrInvalidQuery is returned for malformed filter or period parameters.
var ErrInvalidQuery = errors.New("invalid query")

const dateLayout = "2006-01-02"

// Store is the cached record source. store.CachedStore implements it.
type Store interface {
	Records(ctx context.Context) ([]domain.Record, error)
	CardSummary(ctx context.Context, userID string) (*domain.CardSummary, error)
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets how records without an expense type are filtered.
func WithPolicy(p filter.MissingPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithCardUser sets the identity whose card summary is shown.
func WithCardUser(userID string) Option {
	return func(s *Service) { s.cardUserID = userID }
}

// WithCurrency sets the currency code used in narratives and reports.
func WithCurrency(code string) Option {
	return func(s *Service) { s.currency = code }
}

// WithTimeout bounds every forecast and report run.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithEngine replaces the forecast engine.
func WithEngine(e pipeline.Forecaster) Option {
	return func(s *Service) { s.deps.Engine = e }
}

// WithGenerator sets the narrative generator. Without one narratives degrade to placeholder text.
func WithGenerator(g pipeline.NarrativeGenerator) Option {
	return func(s *Service) { s.deps.Generator = g }
}

// WithAssembler sets the PDF assembler. Reports fail without one.
func WithAssembler(a pipeline.ReportAssembler) Option {
	return func(s *Service) { s.deps.Assembler = a }
}

// WithUploader uploads each report after assembly.
func WithUploader(u pipeline.ReportPublisher) Option {
	return func(s *Service) { s.deps.Uploader = u }
}

// WithSummaryPublisher posts a summary of each report.
func WithSummaryPublisher(p pipeline.SummaryPublisher) Option {
	return func(s *Service) { s.deps.Notion = p }
}

// WithRunStore replaces the in-memory run log.
func WithRunStore(r runs.Store) Option {
	return func(s *Service) { s.runs = r }
}

// Service answers dashboard queries over the cached record store.
type Service struct {
	store      Store
	policy     filter.MissingPolicy
	cardUserID string
	currency   string
	timeout    time.Duration

	deps pipeline.Deps
	runs runs.Store

	now   func() time.Time
	newID func() string
}

// NewService returns a Service reading from store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		policy:   filter.MissingAsCategory,
		currency: "BRL",
		timeout:  2 * time.Minute,
		deps: pipeline.Deps{
			Source: store,
			Engine: forecast.NewEngine(),
		},
		runs:  inmemory.NewStore(),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Currency returns the configured currency code.
func (s *Service) Currency() string {
	return s.currency
}

// DefaultSelection returns the selection covering the whole dataset.
func (s *Service) DefaultSelection(ctx context.Context) (domain.Selection, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("DefaultSelection: %w", err)
	}
	return filter.DefaultSelection(records, s.policy), nil
}

// Records returns the records matching q and the resolved selection.
func (s *Service) Records(ctx context.Context, q Query) ([]domain.Record, domain.Selection, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, domain.Selection{}, fmt.Errorf("Records: %w", err)
	}

	sel, err := q.Resolve(filter.DefaultSelection(records, s.policy))
	if err != nil {
		return nil, domain.Selection{}, err
	}
	return filter.Apply(records, sel, s.policy), sel, nil
}

// Summary returns the headline totals of the records matching q.
func (s *Service) Summary(ctx context.Context, q Query) (aggregate.Summary, error) {
	filtered, _, err := s.Records(ctx, q)
	if err != nil {
		return aggregate.Summary{}, err
	}
	outflows, inflows := filter.Split(filtered)
	return aggregate.Summarize(outflows, inflows, s.cardSummary(ctx)), nil
}

// Dashboard builds the full view of the records matching q.
func (s *Service) Dashboard(ctx context.Context, q Query) (*View, error) {
	filtered, sel, err := s.Records(ctx, q)
	if err != nil {
		return nil, err
	}
	return buildView(sel, filtered, s.cardSummary(ctx)), nil
}

// Compare contrasts category spending between two periods. The periods are
// taken over the whole history; only the category, payment method and
// expense type parts of q apply.
func (s *Service) Compare(ctx context.Context, q Query, a, b aggregate.Period) ([]aggregate.CategoryDelta, error) {
	for _, p := range []aggregate.Period{a, b} {
		if p.End.Before(p.Start) {
			return nil, fmt.Errorf("Compare: %w: period end %s is before start %s",
				ErrInvalidQuery, p.End.Format(dateLayout), p.Start.Format(dateLayout))
		}
	}

	q.Start, q.End = nil, nil
	filtered, _, err := s.Records(ctx, q)
	if err != nil {
		return nil, err
	}
	outflows, _ := filter.Split(filtered)
	return aggregate.Compare(outflows, a, b), nil
}

// Goal measures the outflows matching q against target.
func (s *Service) Goal(ctx context.Context, q Query, target decimal.Decimal) (aggregate.GoalProgress, error) {
	filtered, _, err := s.Records(ctx, q)
	if err != nil {
		return aggregate.GoalProgress{}, err
	}
	outflows, _ := filter.Split(filtered)
	return aggregate.Goal(aggregate.Total(outflows), target)
}

// cardSummary fetches the card summary; failures are logged and shown as missing.
func (s *Service) cardSummary(ctx context.Context) *domain.CardSummary {
	card, err := s.store.CardSummary(ctx, s.cardUserID)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("user_id", s.cardUserID).Msg("Card summary unavailable")
		return nil
	}
	return card
}
