package narrative

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/money"
)

// Section headings the model is instructed to produce, in order.
var Sections = []string{
	"1. Resumo Executivo da Projeção",
	"2. Análise Detalhada dos Picos de Gastos",
	"3. Tendências e Padrões Ocultos",
	"4. Recomendações Estratégicas e Acionáveis",
}

// Input is everything the prompt is built from.
type Input struct {
	Horizon        int
	ProjectedTotal float64
	// DailyTrend is the fitted change in daily spending per day.
	DailyTrend    float64
	TopCategories []aggregate.CategoryTotal
	Currency      string
}

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"money": func(v interface{}, cur string) string {
		switch x := v.(type) {
		case decimal.Decimal:
			return money.Format(x, cur)
		case float64:
			return money.FormatFloat(x, cur)
		}
		return fmt.Sprint(v)
	},
	"section": func(i int) string { return Sections[i] },
}).Parse(`Você é um analista financeiro sênior, especialista em finanças pessoais e análise de dados. Sua tarefa é criar um relatório detalhado e acionável para um usuário.

**DADOS PARA ANÁLISE:**
1. **Previsão de Gastos:** A previsão para os próximos {{.Horizon}} dias indica um gasto total de aproximadamente **{{money .ProjectedTotal .Currency}}**. O usuário está vendo um gráfico com a projeção diária, os picos e os vales.
2. **Tendência ajustada:** {{.TrendText}}
3. **Contexto Histórico:**
{{- if .TopCategories}}
As {{len .TopCategories}} categorias com maiores gastos no seu histórico foram:
{{- range .TopCategories}}
- {{.Category}}: Total de {{money .Total $.Currency}}
{{- end}}
{{- else}}
Não há histórico de gastos por categoria disponível.
{{- end}}

**SUA TAREFA (siga esta estrutura rigorosamente):**

### **{{section 0}}**
Comece com um parágrafo claro e direto sobre o que o valor total previsto significa para o planejamento financeiro do usuário no período.

### **{{section 1}}**
Identifique no gráfico de previsão as semanas ou dias específicos com os maiores picos de despesas. Usando a análise do histórico de categorias, **faça uma inferência educada sobre QUAIS CATEGORIAS provavelmente estão causando esses picos**. Seja específico.

### **{{section 2}}**
Além dos picos óbvios, identifique padrões mais sutis. Os gastos aumentam em dias de semana específicos? Há uma queda consistente nos fins de semana? Existe alguma tendência geral de aumento ou diminuição dos gastos ao longo do período? Comente sobre a volatilidade da previsão (a distância entre o mínimo e o máximo previsto).

### **{{section 3}}**
Com base em TUDO o que foi analisado (picos, categorias, tendências), forneça pelo menos 3 recomendações práticas e personalizadas. Não dê conselhos genéricos. Por exemplo:
- 'Para a categoria de **{{.TopName}}**, que é sua maior despesa, sugiro revisar X ou Y para reduzir o impacto no pico da semana Z.'
- 'Dado que seus gastos caem nos fins de semana, considere criar um desafio de economia nesses dias para potencializar ainda mais essa tendência.'

Use uma linguagem profissional, mas encorajadora. O objetivo é dar ao usuário clareza, controle e insights que ele não conseguiria ver sozinho.
`))

type promptData struct {
	Input
	TopName   string
	TrendText string
}

// BuildPrompt renders the fixed prompt template for in.
func BuildPrompt(in Input) (string, error) {
	data := promptData{Input: in, TopName: "sua maior categoria de gasto"}
	if len(in.TopCategories) > 0 {
		data.TopName = in.TopCategories[0].Category
	}
	data.TrendText = trendText(in.DailyTrend, in.Currency)

	var b strings.Builder
	if err := promptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("BuildPrompt: %w", err)
	}
	return b.String(), nil
}

func trendText(perDay float64, cur string) string {
	perMonth := perDay * 30
	switch {
	case perMonth > 0.005:
		return fmt.Sprintf("o gasto diário vem subindo cerca de %s a cada 30 dias.", money.FormatFloat(perMonth, cur))
	case perMonth < -0.005:
		return fmt.Sprintf("o gasto diário vem caindo cerca de %s a cada 30 dias.", money.FormatFloat(-perMonth, cur))
	default:
		return "o gasto diário está estável ao longo do histórico."
	}
}
