package dashboard

import (
	"context"
	"sync/atomic"
)

// Session holds one user's working state: the current filtered view and the
// latest report. Each is replaced wholesale by the operation that produces it;
// readers always see a complete snapshot.
type Session struct {
	svc *Service

	view   atomic.Pointer[View]
	report atomic.Pointer[ReportResult]
}

// NewSession returns an empty session over svc.
func NewSession(svc *Service) *Session {
	return &Session{svc: svc}
}

// Service returns the service behind the session.
func (s *Session) Service() *Service {
	return s.svc
}

// Refilter builds the view for q and makes it current. On error the previous
// view is kept.
func (s *Session) Refilter(ctx context.Context, q Query) (*View, error) {
	v, err := s.svc.Dashboard(ctx, q)
	if err != nil {
		return nil, err
	}
	s.view.Store(v)
	return v, nil
}

// View returns the current view, or nil before the first Refilter.
func (s *Session) View() *View {
	return s.view.Load()
}

// GenerateReport runs the report pipeline and keeps the result as the
// latest report. On error the previous report is kept.
func (s *Session) GenerateReport(ctx context.Context, horizon int) (*ReportResult, error) {
	r, err := s.svc.Report(ctx, horizon)
	if err != nil {
		return nil, err
	}
	s.report.Store(r)
	return r, nil
}

// LatestReport returns the last successful report, or nil.
func (s *Session) LatestReport() *ReportResult {
	return s.report.Load()
}
