// Package chart renders the forecast chart as a raster image.
package chart

import (
	"errors"
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/forecast"
)

const (
	DefaultTitle = "Projeção de Gastos Futuros vs. Histórico"

	width  = 1600
	height = 800
)

var (
	bandColor    = drawing.ColorFromHex("00b0f6").WithAlpha(64)
	predColor    = drawing.ColorFromHex("00bcd4")
	historyColor = drawing.ColorFromHex("e6b800")
)

// ForecastChart plots the predicted series, its uncertainty band and the
// observed daily spending.
type ForecastChart struct {
	Title   string
	History []forecast.Observation
	Points  []domain.ForecastPoint
}

// RenderPNG implements report.ChartRenderer.
func (c *ForecastChart) RenderPNG(w io.Writer) error {
	if len(c.Points) < 2 {
		return errors.New("RenderPNG: at least two forecast points are required")
	}

	days := make([]time.Time, len(c.Points))
	pred := make([]float64, len(c.Points))
	lower := make([]float64, len(c.Points))
	upper := make([]float64, len(c.Points))
	for i, p := range c.Points {
		days[i] = p.Day
		pred[i] = p.Predicted
		lower[i] = p.Lower
		upper[i] = p.Upper
	}

	series := []gochart.Series{
		gochart.TimeSeries{
			Name:    "Máximo Previsto",
			XValues: days,
			YValues: upper,
			Style:   gochart.Style{StrokeColor: bandColor, FillColor: bandColor},
		},
		gochart.TimeSeries{
			Name:    "Mínimo Previsto",
			XValues: days,
			YValues: lower,
			Style:   gochart.Style{StrokeColor: bandColor, FillColor: drawing.ColorWhite},
		},
		gochart.TimeSeries{
			Name:    "Previsão",
			XValues: days,
			YValues: pred,
			Style:   gochart.Style{StrokeColor: predColor, StrokeWidth: 3},
		},
	}

	if len(c.History) >= 2 {
		hx := make([]time.Time, len(c.History))
		hy := make([]float64, len(c.History))
		for i, o := range c.History {
			hx[i] = o.Day
			hy[i] = o.Amount
		}
		series = append(series, gochart.TimeSeries{
			Name:    "Gastos Reais",
			XValues: hx,
			YValues: hy,
			Style: gochart.Style{
				StrokeColor: drawing.ColorTransparent,
				DotWidth:    3,
				DotColor:    historyColor,
			},
		})
	}

	title := c.Title
	if title == "" {
		title = DefaultTitle
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Data",
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name: "Valor Gasto",
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.LegendThin(&graph)}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("RenderPNG: %w", err)
	}
	return nil
}
