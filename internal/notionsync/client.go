package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// Client writes report pages with the Notion SDK.
type Client struct {
	api *notionapi.Client
}

func NewClient(token string) *Client {
	return &Client{api: notionapi.NewClient(notionapi.Token(token))}
}

func (c *Client) CreateReportPage(ctx context.Context, databaseID string, props notionapi.Properties, blocks []notionapi.Block) (notionapi.ObjectID, error) {
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: props,
		Children:   blocks,
	})
	if err != nil {
		return "", fmt.Errorf("CreateReportPage: database %s: %w", databaseID, err)
	}
	return page.ID, nil
}

func (c *Client) AppendBlocks(ctx context.Context, pageID notionapi.ObjectID, blocks []notionapi.Block) error {
	_, err := c.api.Block.AppendChildren(ctx, notionapi.BlockID(pageID), &notionapi.AppendBlockChildrenRequest{
		Children: blocks,
	})
	if err != nil {
		return fmt.Errorf("AppendBlocks: page %s: %w", pageID, err)
	}
	return nil
}
