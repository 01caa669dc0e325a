package notionsync

import (
	"context"

	"github.com/jomei/notionapi"
)

// PageWriter is the part of the Notion API the publisher writes through.
type PageWriter interface {
	// CreateReportPage adds a row to databaseID. Notion accepts at most
	// maxChildren body blocks with the row, so blocks may be a prefix of the body.
	CreateReportPage(ctx context.Context, databaseID string, props notionapi.Properties, blocks []notionapi.Block) (notionapi.ObjectID, error)
	// AppendBlocks adds blocks at the end of an existing page.
	AppendBlocks(ctx context.Context, pageID notionapi.ObjectID, blocks []notionapi.Block) error
}
