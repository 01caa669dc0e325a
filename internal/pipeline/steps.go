package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/chart"
	"github.com/dvloznov/finance-dashboard/internal/filter"
	"github.com/dvloznov/finance-dashboard/internal/forecast"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/narrative"
	"github.com/dvloznov/finance-dashboard/internal/report"
)

var errMissingInput = errors.New("missing step input")

// Step 1: LoadRecordsStep reads the full record set.
type LoadRecordsStep struct {
	Source RecordSource
}

func (s *LoadRecordsStep) Execute(ctx context.Context, state *PipelineState) error {
	records, err := s.Source.Records(ctx)
	if err != nil {
		return err
	}
	state.Records = records
	return nil
}

// Step 2: BuildHistoryStep derives the daily outflow series and the top categories.
type BuildHistoryStep struct{}

func (s *BuildHistoryStep) Execute(ctx context.Context, state *PipelineState) error {
	outflows, _ := filter.Split(state.Records)
	state.History = forecast.DailySeries(outflows)
	state.TopCategories = aggregate.TopCategories(outflows, TopCategoryCount)
	return nil
}

// Step 3: ForecastStep fits the model to the history.
type ForecastStep struct {
	Engine Forecaster
}

func (s *ForecastStep) Execute(ctx context.Context, state *PipelineState) error {
	res, err := s.Engine.Forecast(ctx, state.History, state.Horizon)
	if err != nil {
		return err
	}
	state.Forecast = res
	return nil
}

// Step 4: NarrativeStep asks the language model for the explanation. A failure
// leaves placeholder text in the state and does not stop the pipeline.
type NarrativeStep struct {
	Generator NarrativeGenerator
}

func (s *NarrativeStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Forecast == nil {
		return fmt.Errorf("NarrativeStep: %w: forecast", errMissingInput)
	}
	if s.Generator == nil {
		state.Narrative = narrative.UnavailableText
		state.NarrativeErr = narrative.ErrUnavailable
		return nil
	}

	text, err := s.Generator.Generate(ctx, narrative.Input{
		Horizon:        state.Horizon,
		ProjectedTotal: state.Forecast.ProjectedTotal(),
		DailyTrend:     state.Forecast.DailyTrend,
		TopCategories:  state.TopCategories,
		Currency:       state.Currency,
	})
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("run_id", state.RunID).Msg("Using placeholder narrative")
		state.NarrativeErr = err
		if text == "" {
			text = narrative.UnavailableText
		}
	}
	state.Narrative = text
	return nil
}

// Step 5: ChartStep prepares the forecast chart for embedding.
type ChartStep struct{}

func (s *ChartStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Forecast == nil {
		return fmt.Errorf("ChartStep: %w: forecast", errMissingInput)
	}
	state.Chart = &chart.ForecastChart{
		Title:   chart.DefaultTitle,
		History: state.History,
		Points:  state.Forecast.Points,
	}
	return nil
}

// Step 6: AssembleReportStep renders the PDF. The table lists the future days only.
type AssembleReportStep struct {
	Assembler ReportAssembler
}

func (s *AssembleReportStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Forecast == nil {
		return fmt.Errorf("AssembleReportStep: %w: forecast", errMissingInput)
	}
	pdf, err := s.Assembler.Assemble(report.Document{
		Title:     state.Title,
		Narrative: state.Narrative,
		Chart:     state.Chart,
		Table:     state.Forecast.Tail(),
	})
	if err != nil {
		return err
	}
	state.ReportPDF = pdf
	return nil
}

// Step 7: UploadReportStep stores the PDF in object storage.
type UploadReportStep struct {
	Uploader ReportPublisher
}

func (s *UploadReportStep) Execute(ctx context.Context, state *PipelineState) error {
	if len(state.ReportPDF) == 0 {
		return fmt.Errorf("UploadReportStep: %w: report bytes", errMissingInput)
	}
	uri, err := s.Uploader.Publish(ctx, state.RunID, state.ReportName, state.ReportPDF)
	if err != nil {
		return err
	}
	state.ReportURI = uri
	return nil
}

// Step 8: PublishSummaryStep posts the report summary to the notes workspace.
type PublishSummaryStep struct {
	Publisher SummaryPublisher
}

func (s *PublishSummaryStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Forecast == nil {
		return fmt.Errorf("PublishSummaryStep: %w: forecast", errMissingInput)
	}
	summary := ReportSummary{
		RunID:          state.RunID,
		Title:          state.Title,
		GeneratedAt:    state.GeneratedAt,
		Horizon:        state.Horizon,
		ProjectedTotal: state.Forecast.ProjectedTotal(),
		Currency:       state.Currency,
		ReportURI:      state.ReportURI,
		Narrative:      state.Narrative,
	}
	if len(state.TopCategories) > 0 {
		summary.TopCategory = state.TopCategories[0].Category
	}

	pageID, err := s.Publisher.PublishSummary(ctx, summary)
	if err != nil {
		return err
	}
	state.NotionPageID = pageID
	return nil
}
