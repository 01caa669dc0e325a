package report

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// mockChart is a mock implementation of ChartRenderer for testing.
type mockChart struct {
	RenderPNGFunc func(w io.Writer) error
}

func (m *mockChart) RenderPNG(w io.Writer) error {
	return m.RenderPNGFunc(w)
}

func pngChart() *mockChart {
	return &mockChart{RenderPNGFunc: func(w io.Writer) error {
		img := image.NewRGBA(image.Rect(0, 0, 40, 20))
		for x := 0; x < 40; x++ {
			img.Set(x, 10, color.RGBA{R: 0, G: 176, B: 246, A: 255})
		}
		return png.Encode(w, img)
	}}
}

func points(n int) []domain.ForecastPoint {
	start := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	out := make([]domain.ForecastPoint, n)
	for i := range out {
		pred := 1000 + float64(i)*12.345
		out[i] = domain.ForecastPoint{Day: start.AddDate(0, 0, i), Predicted: pred, Lower: pred - 500, Upper: pred + 500}
	}
	return out
}

var pageCount = regexp.MustCompile(`/Count (\d+)`)

func pages(t *testing.T, pdf []byte) string {
	t.Helper()
	m := pageCount.FindSubmatch(pdf)
	if m == nil {
		t.Fatal("page count not found in output")
	}
	return string(m[1])
}

func TestAssemble(t *testing.T) {
	a := NewAssembler(EmbeddedFonts(), "BRL")

	out, err := a.Assemble(Document{
		Title:     DefaultTitle,
		Narrative: "### **1. Resumo Executivo da Projeção**\nGastos previstos de R$ 9.000,00.\n\n- Reduza **Aluguel**\n- Revise *Mercado*",
		Chart:     pngChart(),
		Table:     points(10),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
	if got := pages(t, out); got != "3" {
		t.Errorf("page count = %s, want 3", got)
	}
}

func TestAssemble_TextOnly(t *testing.T) {
	out, err := NewAssembler(EmbeddedFonts(), "BRL").Assemble(Document{Title: DefaultTitle, Narrative: ""})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got := pages(t, out); got != "1" {
		t.Errorf("page count = %s, want 1", got)
	}
}

func TestAssemble_ChartFailureEmbedsNotice(t *testing.T) {
	tests := []struct {
		name  string
		chart *mockChart
	}{
		{
			name:  "render error",
			chart: &mockChart{RenderPNGFunc: func(w io.Writer) error { return errors.New("invalid data range") }},
		},
		{
			name: "not a png",
			chart: &mockChart{RenderPNGFunc: func(w io.Writer) error {
				_, err := w.Write([]byte("definitely not an image"))
				return err
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewAssembler(EmbeddedFonts(), "BRL").Assemble(Document{
				Title:     DefaultTitle,
				Narrative: "texto",
				Chart:     tt.chart,
			})
			if err != nil {
				t.Fatalf("Assemble() error = %v, want the chart failure to be contained", err)
			}
			if got := pages(t, out); got != "2" {
				t.Errorf("page count = %s, want 2", got)
			}
		})
	}
}

func TestAssemble_MissingFont(t *testing.T) {
	regular, err := EmbeddedFonts().ReadFont("DejaVuSans.ttf")
	if err != nil {
		t.Fatalf("reading embedded font: %v", err)
	}

	tests := []struct {
		name  string
		fonts FontSource
	}{
		{name: "bold missing", fonts: FSFontSource{FS: fstest.MapFS{"DejaVuSans.ttf": {Data: regular}}}},
		{name: "empty dir", fonts: FSFontSource{FS: fstest.MapFS{}}},
		{name: "no source", fonts: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewAssembler(tt.fonts, "BRL").Assemble(Document{Title: "x", Narrative: "y"})
			if !errors.Is(err, ErrMissingFont) {
				t.Errorf("Assemble() error = %v, want ErrMissingFont", err)
			}
			if out != nil {
				t.Errorf("Assemble() returned %d bytes, want nil", len(out))
			}
		})
	}
}

// dataCell matches the border of one bordered, unfilled table cell of
// height tableRowH (6mm is 17.01pt).
var dataCell = regexp.MustCompile(`-17\.01 re S`)

func TestAssemble_TableRowsInDocument(t *testing.T) {
	for _, n := range []int{1, 30, 120} {
		a := NewAssembler(EmbeddedFonts(), "BRL")
		a.uncompressed = true

		out, err := a.Assemble(Document{Title: DefaultTitle, Narrative: "Texto.", Table: points(n)})
		if err != nil {
			t.Fatalf("Assemble(%d rows) error = %v", n, err)
		}
		cells := len(dataCell.FindAll(out, -1))
		if cells != n*len(tableHeaders) {
			t.Errorf("Assemble(%d rows) rendered %d data cells, want %d", n, cells, n*len(tableHeaders))
		}
	}
}

func TestTableRows(t *testing.T) {
	const n = 25
	rows := tableRows(points(n), "USD")

	if len(rows) != n {
		t.Fatalf("tableRows() returned %d rows, want %d", len(rows), n)
	}

	currency := regexp.MustCompile(`^\$\d{1,3}(,\d{3})*\.\d{2}$`)
	for i, row := range rows {
		for _, cell := range row[1:] {
			if !currency.MatchString(cell) {
				t.Errorf("row %d: cell %q is not a two-decimal currency value", i, cell)
			}
		}
	}

	if rows[0][0] != "05/03/2024" {
		t.Errorf("first date = %q, want 05/03/2024", rows[0][0])
	}
	if rows[0][1] != "$1,000.00" || rows[0][2] != "$500.00" || rows[0][3] != "$1,500.00" {
		t.Errorf("first row = %q", rows[0])
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2026, time.October, 16, 15, 4, 5, 0, time.UTC))
	if got != "Relatorio_Preditivo_20261016.pdf" {
		t.Errorf("FileName() = %q", got)
	}
}
