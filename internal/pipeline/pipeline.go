// Package pipeline runs the forecast-and-report stages in order over a shared state.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/forecast"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/report"
)

// TopCategoryCount is how many categories the narrative prompt receives.
const TopCategoryCount = 5

// PipelineStep represents a single stage of the report pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	RunID       string
	Horizon     int
	Title       string
	Currency    string
	GeneratedAt time.Time

	Records       []domain.Record
	History       []forecast.Observation
	TopCategories []aggregate.CategoryTotal
	Forecast      *forecast.Result

	Narrative string
	// NarrativeErr is set when the narrative degraded to placeholder text.
	NarrativeErr error

	Chart      report.ChartRenderer
	ReportPDF  []byte
	ReportName string

	ReportURI    string
	NotionPageID string
}

// NewState returns the initial state of a run.
func NewState(runID string, horizon int, currency string, now time.Time) *PipelineState {
	return &PipelineState{
		RunID:       runID,
		Horizon:     horizon,
		Title:       report.DefaultTitle,
		Currency:    currency,
		GeneratedAt: now,
		ReportName:  report.FileName(now),
	}
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially. It stops at the first
// failing step or when ctx is done.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx).With().Str("run_id", state.RunID).Logger()

	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
		started := time.Now()
		if err := step.Execute(ctx, state); err != nil {
			log.Error().Err(err).Int("step", i+1).Msg("Pipeline step failed")
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
		log.Debug().
			Int("step", i+1).
			Str("name", fmt.Sprintf("%T", step)).
			Dur("elapsed", time.Since(started)).
			Msg("Pipeline step completed")
	}
	return nil
}

// Deps are the collaborators of the forecast report pipeline. Publishers are optional.
type Deps struct {
	Source    RecordSource
	Engine    Forecaster
	Generator NarrativeGenerator
	Assembler ReportAssembler
	Uploader  ReportPublisher
	Notion    SummaryPublisher
}

// NewForecastPipeline creates the stages that fit a forecast without
// producing a document.
func NewForecastPipeline(deps Deps) *Pipeline {
	return NewPipeline(
		&LoadRecordsStep{Source: deps.Source},
		&BuildHistoryStep{},
		&ForecastStep{Engine: deps.Engine},
	)
}

// NewForecastReportPipeline creates the full pipeline: load, forecast,
// narrative, chart, PDF and the configured publishers.
func NewForecastReportPipeline(deps Deps) *Pipeline {
	steps := []PipelineStep{
		&LoadRecordsStep{Source: deps.Source},
		&BuildHistoryStep{},
		&ForecastStep{Engine: deps.Engine},
		&NarrativeStep{Generator: deps.Generator},
		&ChartStep{},
		&AssembleReportStep{Assembler: deps.Assembler},
	}
	if deps.Uploader != nil {
		steps = append(steps, &UploadReportStep{Uploader: deps.Uploader})
	}
	if deps.Notion != nil {
		steps = append(steps, &PublishSummaryStep{Publisher: deps.Notion})
	}
	return NewPipeline(steps...)
}
