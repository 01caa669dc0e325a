package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMarkdown(t *testing.T) {
	src := "### **1. Resumo Executivo**\n" +
		"O gasto previsto é **alto** para\no período.\n\n" +
		"- Reduza `delivery`\n" +
		"- Revise *Aluguel*\n\n" +
		"Fim."

	got := parseMarkdown([]byte(src))

	want := []block{
		{kind: blockHeading, text: "1. Resumo Executivo"},
		{kind: blockParagraph, text: "O gasto previsto é alto para o período."},
		{kind: blockListItem, text: "Reduza delivery"},
		{kind: blockListItem, text: "Revise Aluguel"},
		{kind: blockParagraph, text: "Fim."},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(block{})); diff != "" {
		t.Errorf("parseMarkdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMarkdown_PlainText(t *testing.T) {
	got := parseMarkdown([]byte("A análise textual não pôde ser gerada."))

	if len(got) != 1 || got[0].text != "A análise textual não pôde ser gerada." {
		t.Errorf("parseMarkdown() = %+v", got)
	}
}
