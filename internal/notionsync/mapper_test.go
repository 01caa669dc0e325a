package notionsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-dashboard/internal/pipeline"
)

type mockPageWriter struct {
	CreateReportPageFunc func(ctx context.Context, databaseID string, props notionapi.Properties, blocks []notionapi.Block) (notionapi.ObjectID, error)
	AppendBlocksFunc     func(ctx context.Context, pageID notionapi.ObjectID, blocks []notionapi.Block) error
}

func (m *mockPageWriter) CreateReportPage(ctx context.Context, databaseID string, props notionapi.Properties, blocks []notionapi.Block) (notionapi.ObjectID, error) {
	if m.CreateReportPageFunc != nil {
		return m.CreateReportPageFunc(ctx, databaseID, props, blocks)
	}
	return "page-id", nil
}

func (m *mockPageWriter) AppendBlocks(ctx context.Context, pageID notionapi.ObjectID, blocks []notionapi.Block) error {
	if m.AppendBlocksFunc != nil {
		return m.AppendBlocksFunc(ctx, pageID, blocks)
	}
	return nil
}

func sampleSummary() pipeline.ReportSummary {
	return pipeline.ReportSummary{
		RunID:          "run-42",
		Title:          "Relatório",
		GeneratedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Horizon:        90,
		ProjectedTotal: 1234.5,
		Currency:       "USD",
		TopCategory:    "Aluguel",
		ReportURI:      "gs://bucket/reports/run-42.pdf",
		Narrative:      "### **1. Resumo**\n\nTexto do resumo.\n\n- item um\n- item dois",
	}
}

func TestReportSummaryToNotionProperties(t *testing.T) {
	props := ReportSummaryToNotionProperties(sampleSummary())

	title, ok := props["Report"].(notionapi.TitleProperty)
	if !ok || title.Title[0].Text.Content != "Relatório 01/05/2024" {
		t.Errorf("Report title = %+v", props["Report"])
	}
	if n, ok := props["Horizon (days)"].(notionapi.NumberProperty); !ok || n.Number != 90 {
		t.Errorf("Horizon = %+v", props["Horizon (days)"])
	}
	if s, ok := props["Top Category"].(notionapi.SelectProperty); !ok || s.Select.Name != "Aluguel" {
		t.Errorf("Top Category = %+v", props["Top Category"])
	}
	if u, ok := props["Report Link"].(notionapi.URLProperty); !ok || u.URL != "gs://bucket/reports/run-42.pdf" {
		t.Errorf("Report Link = %+v", props["Report Link"])
	}
	if rt, ok := props["Projected Total (formatted)"].(notionapi.RichTextProperty); !ok || rt.RichText[0].Text.Content != "$1,234.50" {
		t.Errorf("Projected Total (formatted) = %+v", props["Projected Total (formatted)"])
	}
}

func TestReportSummaryToNotionProperties_OptionalFields(t *testing.T) {
	s := sampleSummary()
	s.TopCategory = ""
	s.ReportURI = ""

	props := ReportSummaryToNotionProperties(s)
	for _, key := range []string{"Top Category", "Report Link"} {
		if _, ok := props[key]; ok {
			t.Errorf("property %q set for an empty value", key)
		}
	}
}

func TestNarrativeBlocks(t *testing.T) {
	blocks := NarrativeBlocks(sampleSummary().Narrative)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}

	h, ok := blocks[0].(*notionapi.Heading2Block)
	if !ok {
		t.Fatalf("first block is %T, want heading", blocks[0])
	}
	if got := h.Heading2.RichText[0].Text.Content; got != "1. Resumo" {
		t.Errorf("heading = %q, want %q", got, "1. Resumo")
	}

	p, ok := blocks[1].(*notionapi.ParagraphBlock)
	if !ok || p.Paragraph.RichText[0].Text.Content != "Texto do resumo." {
		t.Errorf("second block = %+v", blocks[1])
	}
}

func TestNarrativeBlocks_ChunksLongParagraphs(t *testing.T) {
	long := strings.Repeat("é", maxTextLength*2+10)
	blocks := NarrativeBlocks(long)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	for i, b := range blocks {
		p := b.(*notionapi.ParagraphBlock)
		if n := len([]rune(p.Paragraph.RichText[0].Text.Content)); n > maxTextLength {
			t.Errorf("block %d has %d runes", i, n)
		}
	}
}

func TestNarrativeBlocks_Empty(t *testing.T) {
	if blocks := NarrativeBlocks("  \n\n "); len(blocks) != 0 {
		t.Errorf("got %d blocks for blank narrative", len(blocks))
	}
}

func TestPublisher_PublishSummary(t *testing.T) {
	var gotDB string
	var gotBlocks int
	svc := &mockPageWriter{CreateReportPageFunc: func(ctx context.Context, databaseID string, props notionapi.Properties, blocks []notionapi.Block) (notionapi.ObjectID, error) {
		gotDB = databaseID
		gotBlocks = len(blocks)
		return "abc", nil
	}}

	id, err := NewPublisher(svc, "db-1").PublishSummary(context.Background(), sampleSummary())
	if err != nil {
		t.Fatalf("PublishSummary() error = %v", err)
	}
	if id != "abc" || gotDB != "db-1" || gotBlocks != 3 {
		t.Errorf("PublishSummary() = %q (db %q, %d blocks)", id, gotDB, gotBlocks)
	}
}

func TestPublisher_PublishSummaryError(t *testing.T) {
	boom := errors.New("validation_error")
	svc := &mockPageWriter{CreateReportPageFunc: func(ctx context.Context, databaseID string, props notionapi.Properties, blocks []notionapi.Block) (notionapi.ObjectID, error) {
		return "", boom
	}}

	if _, err := NewPublisher(svc, "db").PublishSummary(context.Background(), sampleSummary()); !errors.Is(err, boom) {
		t.Errorf("PublishSummary() error = %v, want %v", err, boom)
	}
}

func longNarrative(paragraphs int) string {
	parts := make([]string, paragraphs)
	for i := range parts {
		parts[i] = fmt.Sprintf("Parágrafo %d.", i)
	}
	return strings.Join(parts, "\n\n")
}

func TestPublisher_PublishSummaryAppendsBatches(t *testing.T) {
	var created int
	var appended []int
	svc := &mockPageWriter{
		CreateReportPageFunc: func(ctx context.Context, databaseID string, props notionapi.Properties, blocks []notionapi.Block) (notionapi.ObjectID, error) {
			created = len(blocks)
			return "abc", nil
		},
		AppendBlocksFunc: func(ctx context.Context, pageID notionapi.ObjectID, blocks []notionapi.Block) error {
			if pageID != "abc" {
				t.Errorf("AppendBlocks() page = %q, want abc", pageID)
			}
			appended = append(appended, len(blocks))
			return nil
		},
	}

	s := sampleSummary()
	s.Narrative = longNarrative(250)
	if _, err := NewPublisher(svc, "db").PublishSummary(context.Background(), s); err != nil {
		t.Fatalf("PublishSummary() error = %v", err)
	}
	if created != maxChildren {
		t.Errorf("created with %d blocks, want %d", created, maxChildren)
	}
	if len(appended) != 2 || appended[0] != 100 || appended[1] != 50 {
		t.Errorf("appended batches = %v, want [100 50]", appended)
	}
}

func TestPublisher_PublishSummaryAppendFailureKeepsPage(t *testing.T) {
	svc := &mockPageWriter{
		AppendBlocksFunc: func(ctx context.Context, pageID notionapi.ObjectID, blocks []notionapi.Block) error {
			return errors.New("rate_limited")
		},
	}

	s := sampleSummary()
	s.Narrative = longNarrative(120)
	id, err := NewPublisher(svc, "db").PublishSummary(context.Background(), s)
	if err != nil {
		t.Fatalf("PublishSummary() error = %v", err)
	}
	if id != "page-id" {
		t.Errorf("PublishSummary() = %q, want page-id", id)
	}
}

func TestBatchBlocks(t *testing.T) {
	blocks := NarrativeBlocks(longNarrative(5))
	tests := []struct {
		size int
		want []int
	}{
		{size: 2, want: []int{2, 2, 1}},
		{size: 5, want: []int{5}},
		{size: 10, want: []int{5}},
	}
	for _, tt := range tests {
		var got []int
		for _, b := range batchBlocks(blocks, tt.size) {
			got = append(got, len(b))
		}
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("batchBlocks(size %d) = %v, want %v", tt.size, got, tt.want)
		}
	}
	if got := batchBlocks(nil, 3); len(got) != 0 {
		t.Errorf("batchBlocks(nil) = %v", got)
	}
}

var _ pipeline.SummaryPublisher = (*Publisher)(nil)
