// Package forecast fits an additive time-series model to daily spending and
// projects it forward with an uncertainty band.
//
// The model is trend + weekly seasonality + monthly seasonality + holiday effect.
// Seasonal terms are Fourier series; the fit is a ridge-regularised least squares
// solve, so short histories still yield a well-posed system.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

var (
	// ErrInsufficientHistory is returned when there are too few distinct days to fit.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrInvalidHorizon is returned for a horizon outside [MinHorizon, MaxHorizon].
	ErrInvalidHorizon = errors.New("invalid horizon")
	// ErrForecastUnavailable is returned when the fit fails numerically.
	ErrForecastUnavailable = errors.New("forecast unavailable")
)

const (
	MinHorizon     = 30
	MaxHorizon     = 365
	DefaultHorizon = 90

	// MinHistoryDays is the fewest distinct days a fit accepts.
	MinHistoryDays = 10

	weeklyOrder   = 3
	monthlyOrder  = 2
	monthlyPeriod = 30.4375

	// Ridge penalties on the scaled problem. Trend and intercept are nearly free.
	trendPenalty    = 1e-6
	seasonalPenalty = 0.01
	holidayPenalty  = 0.01

	defaultIntervalWidth = 0.80
)

// Observation is the total spent on one day.
type Observation struct {
	Day    time.Time `json:"day"`
	Amount float64   `json:"amount"`
}

// DailySeries sums outflow amounts per calendar day, ascending. Days without
// spending are absent. Inflows are ignored.
func DailySeries(records []domain.Record) []Observation {
	sums := map[time.Time]decimal.Decimal{}
	for _, r := range records {
		if r.Movement != domain.Outflow {
			continue
		}
		d := domain.Day(r.Date)
		sums[d] = sums[d].Add(r.Amount)
	}

	series := make([]Observation, 0, len(sums))
	for d, total := range sums {
		series = append(series, Observation{Day: d, Amount: total.InexactFloat64()})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day.Before(series[j].Day) })
	return series
}

// Result is a fitted forecast.
type Result struct {
	Horizon int
	// Points covers every calendar day from the first history day through
	// Horizon days past the last one.
	Points []domain.ForecastPoint
	// DailyTrend is the fitted change in daily spending per day.
	DailyTrend float64
}

// Tail returns the last Horizon points, i.e. the future days only.
func (r *Result) Tail() []domain.ForecastPoint {
	if len(r.Points) <= r.Horizon {
		return r.Points
	}
	return r.Points[len(r.Points)-r.Horizon:]
}

// ProjectedTotal sums the predicted values of the future days.
func (r *Result) ProjectedTotal() float64 {
	var total float64
	for _, p := range r.Tail() {
		total += p.Predicted
	}
	return total
}

// Option configures an Engine.
type Option func(*Engine)

// WithHolidays sets the holiday calendar used for the holiday effect.
func WithHolidays(cal HolidayCalendar) Option {
	return func(e *Engine) { e.holidays = cal }
}

// WithIntervalWidth sets the coverage of the uncertainty band, e.g. 0.8 for 80%.
func WithIntervalWidth(w float64) Option {
	return func(e *Engine) {
		if w > 0 && w < 1 {
			e.intervalWidth = w
		}
	}
}

// Engine fits and projects daily spending.
type Engine struct {
	holidays      HolidayCalendar
	intervalWidth float64
}

// NewEngine returns an Engine using the Brazilian holiday calendar and an 80% band.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		holidays:      NewBrazilHolidays(),
		intervalWidth: defaultIntervalWidth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Forecast fits the model to history and predicts horizon days past its last day.
// history must be one observation per day; duplicate days are summed.
func (e *Engine) Forecast(ctx context.Context, history []Observation, horizon int) (*Result, error) {
	if horizon < MinHorizon || horizon > MaxHorizon {
		return nil, fmt.Errorf("Forecast: %w: %d is outside [%d, %d]", ErrInvalidHorizon, horizon, MinHorizon, MaxHorizon)
	}

	series := normalize(history)
	if len(series) < MinHistoryDays {
		return nil, fmt.Errorf("Forecast: %w: %d distinct days, need at least %d", ErrInsufficientHistory, len(series), MinHistoryDays)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Forecast: %w", err)
	}

	log := logger.FromContext(ctx)

	first := series[0].Day
	last := series[len(series)-1].Day
	span := daysBetween(first, last)

	yScale := 0.0
	for _, o := range series {
		yScale = math.Max(yScale, math.Abs(o.Amount))
	}
	if yScale == 0 {
		yScale = 1
	}

	n := len(series)
	p := e.numFeatures()
	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, o := range series {
		X.SetRow(i, e.features(o.Day, first, span))
		y.SetVec(i, o.Amount/yScale)
	}

	beta, err := e.solve(X, y)
	if err != nil {
		return nil, fmt.Errorf("Forecast: %w", err)
	}

	residuals := make([]float64, n)
	for i, o := range series {
		residuals[i] = o.Amount - yScale*mat.Dot(X.RowView(i), beta)
	}
	sigma := stat.StdDev(residuals, nil)
	z := distuv.UnitNormal.Quantile(0.5 + e.intervalWidth/2)

	total := span + horizon + 1
	points := make([]domain.ForecastPoint, 0, total)
	row := mat.NewVecDense(p, nil)
	for k := 0; k < total; k++ {
		day := first.AddDate(0, 0, k)
		for j, v := range e.features(day, first, span) {
			row.SetVec(j, v)
		}

		yhat := yScale * mat.Dot(row, beta)
		ahead := math.Max(0, float64(k-span))
		band := z * sigma * math.Sqrt(1+ahead/float64(n))
		if !finite(yhat) || !finite(band) {
			return nil, fmt.Errorf("Forecast: %w: non-finite prediction for %s", ErrForecastUnavailable, day.Format("2006-01-02"))
		}

		pred := math.Max(yhat, 0)
		points = append(points, domain.ForecastPoint{
			Day:       day,
			Predicted: pred,
			Lower:     pred - band,
			Upper:     pred + band,
		})
	}

	res := &Result{
		Horizon:    horizon,
		Points:     points,
		DailyTrend: yScale * beta.AtVec(1) / float64(span),
	}

	log.Debug().
		Int("history_days", n).
		Int("horizon", horizon).
		Float64("sigma", sigma).
		Float64("daily_trend", res.DailyTrend).
		Msg("Forecast fitted")

	return res, nil
}

// numFeatures is intercept, trend, weekly and monthly Fourier pairs, and the holiday indicator.
func (e *Engine) numFeatures() int {
	return 2 + 2*weeklyOrder + 2*monthlyOrder + 1
}

// features builds the design row for day. Time is scaled so the history spans [0, 1].
func (e *Engine) features(day, first time.Time, span int) []float64 {
	t := float64(daysBetween(first, day))
	f := make([]float64, 0, e.numFeatures())
	f = append(f, 1, t/float64(span))

	for k := 1; k <= weeklyOrder; k++ {
		a := 2 * math.Pi * float64(k) * t / 7
		f = append(f, math.Sin(a), math.Cos(a))
	}
	for k := 1; k <= monthlyOrder; k++ {
		a := 2 * math.Pi * float64(k) * t / monthlyPeriod
		f = append(f, math.Sin(a), math.Cos(a))
	}

	holiday := 0.0
	if e.holidays != nil && e.holidays.IsHoliday(day) {
		holiday = 1
	}
	return append(f, holiday)
}

func (e *Engine) penalties() []float64 {
	pen := make([]float64, e.numFeatures())
	pen[0] = trendPenalty
	pen[1] = trendPenalty
	for j := 2; j < len(pen)-1; j++ {
		pen[j] = seasonalPenalty
	}
	pen[len(pen)-1] = holidayPenalty
	return pen
}

// solve returns beta minimising |X beta - y|^2 + sum(pen_j * beta_j^2).
func (e *Engine) solve(X *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())
	for j, pen := range e.penalties() {
		xtx.SetSym(j, j, xtx.At(j, j)+pen)
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, fmt.Errorf("%w: normal equations are not positive definite", ErrForecastUnavailable)
	}

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}
	for i := 0; i < beta.Len(); i++ {
		if !finite(beta.AtVec(i)) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrForecastUnavailable)
		}
	}
	return &beta, nil
}

// normalize truncates to days, merges duplicates and sorts ascending.
func normalize(history []Observation) []Observation {
	sums := map[time.Time]float64{}
	for _, o := range history {
		sums[domain.Day(o.Day)] += o.Amount
	}
	out := make([]Observation, 0, len(sums))
	for d, a := range sums {
		out = append(out, Observation{Day: d, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
