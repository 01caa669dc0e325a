package pipeline

import (
	"context"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/forecast"
	"github.com/dvloznov/finance-dashboard/internal/narrative"
	"github.com/dvloznov/finance-dashboard/internal/report"
)

// RecordSource provides the full record set. store.CachedStore implements it.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.Record, error)
}

// Forecaster fits and projects a daily spending series.
// forecast.Engine is the concrete implementation.
type Forecaster interface {
	Forecast(ctx context.Context, history []forecast.Observation, horizon int) (*forecast.Result, error)
}

// NarrativeGenerator writes the explanatory text of a forecast.
// It returns placeholder text together with a non-nil error when generation fails.
type NarrativeGenerator interface {
	Generate(ctx context.Context, in narrative.Input) (string, error)
}

// ReportAssembler renders a report document to bytes.
type ReportAssembler interface {
	Assemble(doc report.Document) ([]byte, error)
}

// ReportPublisher stores a finished report and returns where it was stored.
type ReportPublisher interface {
	Publish(ctx context.Context, runID, name string, data []byte) (string, error)
}

// SummaryPublisher posts a short summary of a finished report.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary ReportSummary) (string, error)
}

// ReportSummary is what SummaryPublisher receives.
type ReportSummary struct {
	RunID          string
	Title          string
	GeneratedAt    time.Time
	Horizon        int
	ProjectedTotal float64
	Currency       string
	TopCategory    string
	ReportURI      string
	Narrative      string
}
