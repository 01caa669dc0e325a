// Package report assembles the predictive spending report as a PDF document.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/money"
)

const (
	// MIMEType is the content type of assembled reports.
	MIMEType = "application/pdf"

	// DefaultTitle is the title used for forecast reports.
	DefaultTitle = "Relatório de Análise Preditiva de Gastos"

	dateLayout   = "02/01/2006"
	chartHeading = "Gráfico da Análise Preditiva"
	tableHeading = "Dados Detalhados da Previsão"
	chartImage   = "forecast-chart"

	pageMargin    = 10.0
	contentWidth  = 190.0
	tableRowH     = 6.0
	tableHeaderH  = 7.0
	bottomMargin  = 15.0
	narrativeSize = 11.0
)

var (
	tableHeaders = []string{"Data", "Previsão", "Mínimo", "Máximo"}
	tableWidths  = []float64{35, 45, 50, 55}
	tableAligns  = []string{"C", "R", "R", "R"}
)

// ChartRenderer rasterises a chart as PNG.
type ChartRenderer interface {
	RenderPNG(w io.Writer) error
}

// Document is the content of one report. Chart and Table are optional.
type Document struct {
	Title     string
	Narrative string
	Chart     ChartRenderer
	Table     []domain.ForecastPoint
}

// Assembler renders Documents to PDF bytes.
type Assembler struct {
	fonts    FontSource
	currency string

	uncompressed bool // plain content streams, for inspecting output
}

// NewAssembler returns an Assembler reading fonts from fonts and formatting
// table amounts in currency.
func NewAssembler(fonts FontSource, currency string) *Assembler {
	return &Assembler{fonts: fonts, currency: currency}
}

// FileName returns the download name of a report generated at t.
func FileName(t time.Time) string {
	return "Relatorio_Preditivo_" + t.Format("20060102") + ".pdf"
}

// Assemble renders doc. The first page carries the title and narrative, an
// optional second page the chart and an optional last page the forecast table.
// A chart that fails to render is replaced by an error notice. When a font is
// missing it returns nil bytes and an error wrapping ErrMissingFont.
func (a *Assembler) Assemble(doc Document) ([]byte, error) {
	fonts, err := loadFonts(a.fonts)
	if err != nil {
		return nil, fmt.Errorf("Assemble: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!a.uncompressed)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	for style, data := range fonts {
		pdf.AddUTF8FontFromBytes(fontFamily, style, data)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("Assemble: loading fonts: %w", err)
	}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(5)
	writeNarrative(pdf, doc.Narrative)

	if doc.Chart != nil {
		writeChart(pdf, doc.Chart)
	}
	if len(doc.Table) > 0 {
		a.writeTable(pdf, doc.Table)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("Assemble: writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeNarrative(pdf *fpdf.Fpdf, narrative string) {
	blocks := parseMarkdown([]byte(narrative))
	if len(blocks) == 0 {
		pdf.SetFont(fontFamily, "", narrativeSize)
		pdf.MultiCell(0, 8, narrative, "", "L", false)
		return
	}

	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			pdf.Ln(2)
			pdf.SetFont(fontFamily, "B", 12)
			pdf.MultiCell(0, 7, b.text, "", "L", false)
		case blockListItem:
			pdf.SetFont(fontFamily, "", narrativeSize)
			pdf.SetX(pageMargin + 4)
			pdf.MultiCell(contentWidth-4, 6, "• "+b.text, "", "L", false)
		default:
			pdf.SetFont(fontFamily, "", narrativeSize)
			pdf.MultiCell(0, 6, b.text, "", "L", false)
			pdf.Ln(2)
		}
	}
}

func writeChart(pdf *fpdf.Fpdf, chart ChartRenderer) {
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 10, chartHeading, "", 1, "L", false, 0, "")
	pdf.Ln(5)

	var img bytes.Buffer
	if err := chart.RenderPNG(&img); err != nil {
		writeNotice(pdf, err)
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(chartImage, opts, &img)
	if err := pdf.Error(); err != nil {
		pdf.ClearError()
		writeNotice(pdf, err)
		return
	}
	pdf.ImageOptions(chartImage, pageMargin, pdf.GetY(), contentWidth, 0, true, opts, 0, "")
}

func writeNotice(pdf *fpdf.Fpdf, err error) {
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(200, 0, 0)
	pdf.MultiCell(0, 8, fmt.Sprintf("Não foi possível incluir o gráfico no relatório: %v", err), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
}

func (a *Assembler) writeTable(pdf *fpdf.Fpdf, points []domain.ForecastPoint) {
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 10, tableHeading, "", 1, "L", false, 0, "")
	pdf.Ln(5)

	symbol := money.Symbol(a.currency)
	header := func() {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(224, 235, 255)
		for i, h := range tableHeaders {
			if i > 0 {
				h = fmt.Sprintf("%s (%s)", h, symbol)
			}
			pdf.CellFormat(tableWidths[i], tableHeaderH, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", 8)
	}

	header()
	_, pageH := pdf.GetPageSize()
	for _, row := range tableRows(points, a.currency) {
		if pdf.GetY()+tableRowH > pageH-bottomMargin {
			pdf.AddPage()
			header()
		}
		for i, cell := range row {
			pdf.CellFormat(tableWidths[i], tableRowH, cell, "1", 0, tableAligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// tableRows formats one row per point: date, predicted, lower, upper.
func tableRows(points []domain.ForecastPoint, currency string) [][]string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Day.Format(dateLayout),
			money.FormatFloat(p.Predicted, currency),
			money.FormatFloat(p.Lower, currency),
			money.FormatFloat(p.Upper, currency),
		})
	}
	return rows
}
