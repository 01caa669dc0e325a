package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/forecast"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/runs"
)

// ForecastResult is the outcome of a forecast run.
type ForecastResult struct {
	RunID  string                 `json:"run_id"`
	Result *forecast.Result       `json:"-"`
	Tail   []ForecastPointJSON    `json:"points"`
	Total  float64                `json:"projected_total"`
	Trend  float64                `json:"daily_trend"`
	Series []forecast.Observation `json:"history"`
}

// ForecastPointJSON is a forecast point with a date-only day.
type ForecastPointJSON struct {
	Day       string  `json:"day"`
	Predicted float64 `json:"predicted"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
}

// ReportResult is the outcome of a report run.
type ReportResult struct {
	RunID             string
	Name              string
	PDF               []byte
	Narrative         string
	NarrativeDegraded bool
	URI               string
	NotionPageID      string
	Forecast          *forecast.Result
}

// Forecast fits the full spending history and projects horizon days ahead.
func (s *Service) Forecast(ctx context.Context, horizon int) (*ForecastResult, error) {
	state, err := s.run(ctx, runs.KindForecast, horizon, pipeline.NewForecastPipeline(s.deps))
	if err != nil {
		return nil, err
	}

	res := &ForecastResult{
		RunID:  state.RunID,
		Result: state.Forecast,
		Total:  state.Forecast.ProjectedTotal(),
		Trend:  state.Forecast.DailyTrend,
		Series: state.History,
	}
	for _, p := range state.Forecast.Tail() {
		res.Tail = append(res.Tail, ForecastPointJSON{
			Day:       p.Day.Format(dateLayout),
			Predicted: p.Predicted,
			Lower:     p.Lower,
			Upper:     p.Upper,
		})
	}
	return res, nil
}

// Report runs the whole pipeline and returns the PDF. A narrative failure
// still yields a report carrying placeholder text.
func (s *Service) Report(ctx context.Context, horizon int) (*ReportResult, error) {
	state, err := s.run(ctx, runs.KindReport, horizon, pipeline.NewForecastReportPipeline(s.deps))
	if err != nil {
		return nil, err
	}

	return &ReportResult{
		RunID:             state.RunID,
		Name:              state.ReportName,
		PDF:               state.ReportPDF,
		Narrative:         state.Narrative,
		NarrativeDegraded: state.NarrativeErr != nil,
		URI:               state.ReportURI,
		NotionPageID:      state.NotionPageID,
		Forecast:          state.Forecast,
	}, nil
}

// Runs lists recorded pipeline runs.
func (s *Service) Runs(ctx context.Context, f runs.Filter) ([]*runs.Run, error) {
	return s.runs.ListRuns(ctx, f)
}

// Run returns one recorded run.
func (s *Service) Run(ctx context.Context, runID string) (*runs.Run, error) {
	return s.runs.GetRun(ctx, runID)
}

// run executes p under the configured timeout and records the outcome in the run log.
func (s *Service) run(ctx context.Context, kind runs.Kind, horizon int, p *pipeline.Pipeline) (*pipeline.PipelineState, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	now := s.now()
	state := pipeline.NewState(s.newID(), horizon, s.currency, now)

	ctx = logger.WithContext(ctx, logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"run_id": state.RunID,
		"kind":   string(kind),
	}))
	log := logger.FromContext(ctx)

	run := &runs.Run{
		RunID:     state.RunID,
		Kind:      kind,
		Horizon:   horizon,
		Status:    runs.StatusRunning,
		StartedAt: now,
	}
	s.saveRun(ctx, run)

	log.Info().Int("horizon", horizon).Msg("Starting pipeline run")
	err := p.Execute(ctx, state)

	completed := s.now()
	run.CompletedAt = &completed
	if err != nil {
		run.Status = runs.StatusFailed
		run.Error = err.Error()
		s.saveRun(ctx, run)
		return nil, fmt.Errorf("run %s: %w", state.RunID, err)
	}

	run.Status = runs.StatusCompleted
	run.NarrativeDegraded = state.NarrativeErr != nil
	if state.Forecast != nil {
		run.ProjectedTotal = state.Forecast.ProjectedTotal()
	}
	if len(state.ReportPDF) > 0 {
		run.ReportName = state.ReportName
	}
	run.ReportURI = state.ReportURI
	run.NotionPageID = state.NotionPageID
	s.saveRun(ctx, run)

	log.Info().Dur("elapsed", completed.Sub(now)).Msg("Pipeline run completed")
	return state, nil
}

func (s *Service) saveRun(ctx context.Context, run *runs.Run) {
	if err := s.runs.SaveRun(ctx, run); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("run_id", run.RunID).Msg("Failed to record run")
	}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}
