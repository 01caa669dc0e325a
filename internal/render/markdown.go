// Package render turns dashboard results into markdown for the terminal.
package render

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/money"
)

const (
	dateLayout = "02/01/2006"
	notAvail   = "N/A"
)

// SummaryMarkdown renders the headline metrics.
func SummaryMarkdown(s aggregate.Summary, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Resumo")
	doc.Table(summaryTable(s, currency))

	return doc.String()
}

func summaryTable(s aggregate.Summary, currency string) md.TableSet {
	principal := notAvail
	if s.Principal != nil {
		principal = fmt.Sprintf("%s (%s)", s.Principal.Category, money.Format(s.Principal.Total, currency))
	}
	debits, balance := notAvail, notAvail
	if s.Card != nil {
		debits = money.Format(s.Card.TotalDebits, currency)
		balance = money.Format(s.Card.FinalBalance, currency)
	}

	return md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Métrica", "Valor"},
		Rows: [][]string{
			{"Total de saídas", money.Format(s.TotalOutflow, currency)},
			{"Total de entradas", money.Format(s.TotalInflow, currency)},
			{"Categoria principal", principal},
			{"Débitos do cartão", debits},
			{"Saldo final do cartão", balance},
		},
	}
}

// DashboardMarkdown renders the whole view: selection, metrics, per-category
// breakdowns and monthly totals.
func DashboardMarkdown(v *dashboard.View, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Dashboard")
	doc.PlainText(fmt.Sprintf("Período: %s a %s, %d lançamentos",
		v.Selection.Start.Format(dateLayout), v.Selection.End.Format(dateLayout), v.Count))
	doc.BulletList(selectionItems(v.Selection)...)

	doc.H2("Resumo")
	doc.Table(summaryTable(v.Summary, currency))

	if len(v.CategoryStats) > 0 {
		doc.H2("Gastos por categoria")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Categoria", "Total", "Média", "Lançamentos"},
			Rows:      [][]string{},
		}
		for _, s := range v.CategoryStats {
			table.Rows = append(table.Rows, []string{
				s.Category,
				money.Format(s.Sum, currency),
				money.Format(s.Mean, currency),
				fmt.Sprint(s.Count),
			})
		}
		doc.Table(table)
	}

	if len(v.Monthly) > 0 {
		doc.H2("Evolução mensal")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Mês", "Total"},
			Rows:      [][]string{},
		}
		for _, m := range v.Monthly {
			table.Rows = append(table.Rows, []string{m.Month, money.Format(m.Total, currency)})
		}
		doc.Table(table)
	}

	if v.PaymentTree != nil && len(v.PaymentTree.Children) > 0 {
		doc.H2("Formas de pagamento")
		// Nested lists are written by hand; the builder only emits flat ones.
		var b strings.Builder
		for _, m := range v.PaymentTree.Children {
			fmt.Fprintf(&b, "- %s: %s\n", md.Bold(m.Label), money.Format(m.Total, currency))
			for _, c := range m.Children {
				fmt.Fprintf(&b, "  - %s: %s\n", c.Label, money.Format(c.Total, currency))
			}
		}
		doc.PlainText(b.String())
	}

	return doc.String()
}

func selectionItems(sel domain.Selection) []string {
	return []string{
		"Categorias: " + strings.Join(sel.Categories, ", "),
		"Formas de pagamento: " + strings.Join(sel.PaymentMethods, ", "),
		"Tipos de despesa: " + strings.Join(sel.ExpenseTypes, ", "),
	}
}

// CompareMarkdown renders the category comparison between two periods.
func CompareMarkdown(a, b aggregate.Period, deltas []aggregate.CategoryDelta, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Comparação de períodos")
	doc.BulletList(
		fmt.Sprintf("A: %s a %s", a.Start.Format(dateLayout), a.End.Format(dateLayout)),
		fmt.Sprintf("B: %s a %s", b.Start.Format(dateLayout), b.End.Format(dateLayout)),
	)

	if len(deltas) == 0 {
		doc.PlainText("Sem gastos nos períodos selecionados.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Categoria", "Período A", "Período B", "Variação", "%"},
		Rows:      [][]string{},
	}
	for _, d := range deltas {
		table.Rows = append(table.Rows, []string{
			d.Category,
			money.Format(d.PeriodA, currency),
			money.Format(d.PeriodB, currency),
			money.Format(d.AbsoluteDelta, currency),
			percent(d.PercentChange),
		})
	}
	doc.Table(table)

	return doc.String()
}

func percent(p *decimal.Decimal) string {
	if p == nil {
		return notAvail
	}
	return p.StringFixed(1) + "%"
}

// GoalMarkdown renders spending against the target.
func GoalMarkdown(g aggregate.GoalProgress, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Meta de gastos")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Meta", "Gasto", "%", "Restante", "Faixa"},
		Rows: [][]string{{
			money.Format(g.Target, currency),
			money.Format(g.Spent, currency),
			g.Percent.StringFixed(1) + "%",
			money.Format(g.Remaining, currency),
			string(g.Band),
		}},
	})
	if g.OverBudget {
		doc.PlainText(md.Bold("Meta ultrapassada."))
	}

	return doc.String()
}

// ForecastMarkdown renders the projected total and the future days.
func ForecastMarkdown(res *dashboard.ForecastResult, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Previsão de gastos")
	doc.PlainText(fmt.Sprintf("Total previsto para %d dias: %s",
		len(res.Tail), md.Bold(money.FormatFloat(res.Total, currency))))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Data", "Previsão", "Limite inferior", "Limite superior"},
		Rows:      [][]string{},
	}
	for _, p := range res.Result.Tail() {
		table.Rows = append(table.Rows, []string{
			p.Day.Format(dateLayout),
			money.FormatFloat(p.Predicted, currency),
			money.FormatFloat(p.Lower, currency),
			money.FormatFloat(p.Upper, currency),
		})
	}
	doc.Table(table)

	return doc.String()
}
