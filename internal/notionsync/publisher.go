// Package notionsync publishes report summaries as pages of a Notion database.
package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
)

// Publisher creates one Notion page per generated report.
type Publisher struct {
	pages      PageWriter
	databaseID string
}

// NewPublisher returns a Publisher writing to the database databaseID.
func NewPublisher(pages PageWriter, databaseID string) *Publisher {
	return &Publisher{pages: pages, databaseID: databaseID}
}

// PublishSummary creates the report page and returns its ID. Narratives
// longer than one request are appended in batches after the page exists.
func (p *Publisher) PublishSummary(ctx context.Context, summary pipeline.ReportSummary) (string, error) {
	log := logger.FromContext(ctx)

	props := ReportSummaryToNotionProperties(summary)
	batches := batchBlocks(NarrativeBlocks(summary.Narrative), maxChildren)

	var first []notionapi.Block
	if len(batches) > 0 {
		first = batches[0]
	}
	pageID, err := p.pages.CreateReportPage(ctx, p.databaseID, props, first)
	if err != nil {
		return "", fmt.Errorf("PublishSummary: creating page for run %s: %w", summary.RunID, err)
	}

	blocks := len(first)
	for i := 1; i < len(batches); i++ {
		if err := p.pages.AppendBlocks(ctx, pageID, batches[i]); err != nil {
			// The page is already there; report what was written.
			log.Warn().Err(err).
				Str("run_id", summary.RunID).
				Str("page_id", string(pageID)).
				Int("blocks", blocks).
				Msg("Notion narrative truncated")
			return string(pageID), nil
		}
		blocks += len(batches[i])
	}

	log.Info().
		Str("run_id", summary.RunID).
		Str("page_id", string(pageID)).
		Int("blocks", blocks).
		Msg("Published report summary to Notion")

	return string(pageID), nil
}

func batchBlocks(blocks []notionapi.Block, size int) [][]notionapi.Block {
	var out [][]notionapi.Block
	for len(blocks) > size {
		out = append(out, blocks[:size])
		blocks = blocks[size:]
	}
	if len(blocks) > 0 {
		out = append(out, blocks)
	}
	return out
}
