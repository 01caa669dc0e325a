package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/forecast"
	"github.com/dvloznov/finance-dashboard/internal/report"
	"github.com/dvloznov/finance-dashboard/internal/runs"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// DashboardHandler handles the dashboard, forecast and report endpoints.
type DashboardHandler struct {
	session *dashboard.Session
	log     zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(session *dashboard.Session, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		session: session,
		log:     log,
	}
}

// Register wires every endpoint into mux.
func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/records", method(http.MethodGet, h.ListRecords))
	mux.HandleFunc("/api/summary", method(http.MethodGet, h.Summary))
	mux.HandleFunc("/api/dashboard", method(http.MethodGet, h.Dashboard))
	mux.HandleFunc("/api/compare", method(http.MethodGet, h.Compare))
	mux.HandleFunc("/api/goal", method(http.MethodGet, h.Goal))
	mux.HandleFunc("/api/forecast", method(http.MethodPost, h.Forecast))
	mux.HandleFunc("/api/reports/forecast", method(http.MethodPost, h.ForecastReport))
	mux.HandleFunc("/api/reports/latest", method(http.MethodGet, h.LatestReport))
	mux.HandleFunc("/api/runs", method(http.MethodGet, h.ListRuns))

	mux.HandleFunc("/api/runs/", method(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		// Extract run ID from path
		runID := strings.TrimPrefix(r.URL.Path, "/api/runs/")
		if runID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Run ID is required")
			return
		}
		h.GetRun(w, r, runID)
	}))
}

func method(m string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		fn(w, r)
	}
}

// ListRecords handles GET /api/records
func (h *DashboardHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, sel, err := h.session.Service().Records(r.Context(), q)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list records")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records":   records,
		"count":     len(records),
		"selection": sel,
	})
}

// Summary handles GET /api/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.session.Service().Summary(r.Context(), q)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to compute summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, summary)
}

// Dashboard handles GET /api/dashboard. The result becomes the session's current view.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.session.Refilter(r.Context(), q)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to build dashboard")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, view)
}

// Compare handles GET /api/compare?a_start=&a_end=&b_start=&b_end=
func (h *DashboardHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, errA := parsePeriod(r, "a")
	b, errB := parsePeriod(r, "b")
	if err := errors.Join(errA, errB); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	deltas, err := h.session.Service().Compare(r.Context(), q, a, b)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to compare periods")
		return
	}

	if deltas == nil {
		deltas = []aggregate.CategoryDelta{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period_a":   a,
		"period_b":   b,
		"categories": deltas,
	})
}

// Goal handles GET /api/goal?target=
func (h *DashboardHandler) Goal(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	target := aggregate.DefaultGoal
	if v := r.URL.Query().Get("target"); v != "" {
		target, err = decimal.NewFromString(v)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid target")
			return
		}
	}

	progress, err := h.session.Service().Goal(r.Context(), q, target)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to compute goal progress")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, progress)
}

type forecastRequest struct {
	Horizon int `json:"horizon"`
}

func decodeHorizon(r *http.Request) (int, error) {
	req := forecastRequest{Horizon: forecast.DefaultHorizon}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return 0, fmt.Errorf("Invalid request body")
		}
	}
	return req.Horizon, nil
}

// Forecast handles POST /api/forecast
func (h *DashboardHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	horizon, err := decodeHorizon(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.session.Service().Forecast(r.Context(), horizon)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to compute forecast")
		return
	}

	w.Header().Set("X-Run-ID", res.RunID)
	middleware.WriteJSON(w, http.StatusOK, res)
}

// ForecastReport handles POST /api/reports/forecast and responds with the PDF.
func (h *DashboardHandler) ForecastReport(w http.ResponseWriter, r *http.Request) {
	horizon, err := decodeHorizon(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.session.GenerateReport(r.Context(), horizon)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to generate report")
		return
	}

	writePDF(w, res)
}

// LatestReport handles GET /api/reports/latest
func (h *DashboardHandler) LatestReport(w http.ResponseWriter, r *http.Request) {
	res := h.session.LatestReport()
	if res == nil {
		middleware.WriteError(w, http.StatusNotFound, "No report generated yet")
		return
	}
	writePDF(w, res)
}

func writePDF(w http.ResponseWriter, res *dashboard.ReportResult) {
	w.Header().Set("Content-Type", report.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.Header().Set("X-Run-ID", res.RunID)
	if res.NarrativeDegraded {
		w.Header().Set("X-Narrative-Degraded", "true")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.PDF)
}

// ListRuns handles GET /api/runs
func (h *DashboardHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := runs.Filter{
		Kind:   runs.Kind(query.Get("kind")),
		Status: runs.Status(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	list, err := h.session.Service().Runs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  list,
		"count": len(list),
	})
}

// GetRun handles GET /api/runs/{id}
func (h *DashboardHandler) GetRun(w http.ResponseWriter, r *http.Request, runID string) {
	run, err := h.session.Service().Run(r.Context(), runID)
	if err != nil {
		if errors.Is(err, runs.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Run not found")
			return
		}
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get run")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get run")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, run)
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidQuery), errors.Is(err, aggregate.ErrInvalidGoal):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, forecast.ErrInsufficientHistory), errors.Is(err, forecast.ErrInvalidHorizon):
		return http.StatusUnprocessableEntity
	case errors.Is(err, forecast.ErrForecastUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, report.ErrMissingFont):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *DashboardHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg(message)
	} else {
		h.log.Warn().Err(err).Str("path", r.URL.Path).Msg(message)
	}
	middleware.WriteError(w, status, fmt.Sprintf("%s: %v", message, err))
}

// parseQuery reads the filter parameters. Absent parameters keep the full domain.
func parseQuery(r *http.Request) (dashboard.Query, error) {
	values := r.URL.Query()
	var q dashboard.Query

	for key, dst := range map[string]**time.Time{"start_date": &q.Start, "end_date": &q.End} {
		v := values.Get(key)
		if v == "" {
			continue
		}
		t, err := dashboard.ParseDate(v)
		if err != nil {
			return dashboard.Query{}, fmt.Errorf("Invalid %s format", key)
		}
		*dst = &t
	}

	if _, ok := values["category"]; ok {
		q.Categories = nonEmpty(values["category"])
	}
	if _, ok := values["payment_method"]; ok {
		q.PaymentMethods = nonEmpty(values["payment_method"])
	}
	if _, ok := values["expense_type"]; ok {
		q.ExpenseTypes = nonEmpty(values["expense_type"])
	}
	return q, nil
}

// nonEmpty drops blank values but keeps a non-nil slice, so "?category="
// selects nothing.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parsePeriod(r *http.Request, prefix string) (aggregate.Period, error) {
	values := r.URL.Query()
	start, err := dashboard.ParseDate(values.Get(prefix + "_start"))
	if err != nil {
		return aggregate.Period{}, fmt.Errorf("Invalid %s_start format", prefix)
	}
	end, err := dashboard.ParseDate(values.Get(prefix + "_end"))
	if err != nil {
		return aggregate.Period{}, fmt.Errorf("Invalid %s_end format", prefix)
	}
	return aggregate.Period{Start: start, End: end}, nil
}
