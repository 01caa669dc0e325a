package runs

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// Kind represents what a run produced.
type Kind string

const (
	// KindForecast is a forecast without a document.
	KindForecast Kind = "forecast"
	// KindReport is a forecast with narrative and PDF report.
	KindReport Kind = "report"
)

// Status represents the current status of a run.
type Status string

const (
	// StatusRunning indicates the pipeline is executing.
	StatusRunning Status = "running"
	// StatusCompleted indicates the pipeline finished successfully.
	StatusCompleted Status = "completed"
	// StatusFailed indicates a pipeline stage failed.
	StatusFailed Status = "failed"
)

// Run records one invocation of the forecast pipeline.
type Run struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"run_id"`

	Kind    Kind `json:"kind"`
	Horizon int  `json:"horizon"`

	// Status is the current status of the run.
	Status Status `json:"status"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the run completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the run failed.
	Error string `json:"error,omitempty"`

	// NarrativeDegraded is true when the report carries the placeholder text.
	NarrativeDegraded bool `json:"narrative_degraded,omitempty"`

	ProjectedTotal float64 `json:"projected_total,omitempty"`
	ReportName     string  `json:"report_name,omitempty"`
	ReportURI      string  `json:"report_uri,omitempty"`
	NotionPageID   string  `json:"notion_page_id,omitempty"`
}

// Finished reports whether the run reached a terminal status.
func (r *Run) Finished() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// Store defines the interface for storing and retrieving runs.
type Store interface {
	// SaveRun saves or updates a run.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// ListRuns retrieves runs, most recent first, with optional filtering.
	ListRuns(ctx context.Context, filter Filter) ([]*Run, error)
}

// Filter defines filtering criteria for listing runs.
type Filter struct {
	// Kind filters runs by kind.
	Kind Kind

	// Status filters runs by status.
	Status Status

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
