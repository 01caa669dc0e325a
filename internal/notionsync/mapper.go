package notionsync

import (
	"strings"
	"unicode/utf8"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-dashboard/internal/money"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
)

const (
	// maxTextLength is the Notion limit on one rich text object.
	maxTextLength = 2000
	// maxChildren is the Notion limit on blocks sent in one request.
	maxChildren = 100
)

// ReportSummaryToNotionProperties converts a report summary to Notion properties
// for the Reports database.
func ReportSummaryToNotionProperties(s pipeline.ReportSummary) notionapi.Properties {
	generated := notionapi.Date(s.GeneratedAt)

	props := notionapi.Properties{
		"Report": notionapi.TitleProperty{
			Title: richText(s.Title + " " + s.GeneratedAt.Format("02/01/2006")),
		},
		"Run ID": notionapi.RichTextProperty{
			RichText: richText(s.RunID),
		},
		"Generated": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &generated},
		},
		"Horizon (days)": notionapi.NumberProperty{
			Number: float64(s.Horizon),
		},
		"Projected Total": notionapi.NumberProperty{
			Number: s.ProjectedTotal,
		},
		"Projected Total (formatted)": notionapi.RichTextProperty{
			RichText: richText(money.FormatFloat(s.ProjectedTotal, s.Currency)),
		},
	}

	if s.Currency != "" {
		props["Currency"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: s.Currency},
		}
	}

	if s.TopCategory != "" {
		props["Top Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: s.TopCategory},
		}
	}

	// GCS Link
	if s.ReportURI != "" {
		props["Report Link"] = notionapi.URLProperty{
			URL: s.ReportURI,
		}
	}

	return props
}

// NarrativeBlocks splits markdown narrative into Notion blocks: "#" lines
// become headings, other paragraphs are chunked to the rich text limit.
func NarrativeBlocks(narrative string) []notionapi.Block {
	var blocks []notionapi.Block
	for _, para := range strings.Split(strings.ReplaceAll(narrative, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if strings.HasPrefix(para, "#") && !strings.Contains(para, "\n") {
			blocks = append(blocks, &notionapi.Heading2Block{
				BasicBlock: notionapi.BasicBlock{
					Object: notionapi.ObjectTypeBlock,
					Type:   notionapi.BlockTypeHeading2,
				},
				Heading2: notionapi.Heading{
					RichText: richText(cleanHeading(para)),
				},
			})
			continue
		}

		for _, chunk := range chunkText(para, maxTextLength) {
			blocks = append(blocks, &notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{
					Object: notionapi.ObjectTypeBlock,
					Type:   notionapi.BlockTypeParagraph,
				},
				Paragraph: notionapi.Paragraph{
					RichText: richText(chunk),
				},
			})
		}
	}

	return blocks
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

func cleanHeading(line string) string {
	line = strings.TrimLeft(line, "# ")
	line = strings.ReplaceAll(line, "**", "")
	return strings.TrimSpace(line)
}

// chunkText splits s into pieces of at most limit runes.
func chunkText(s string, limit int) []string {
	var chunks []string
	for utf8.RuneCountInString(s) > limit {
		runes := []rune(s)
		chunks = append(chunks, string(runes[:limit]))
		s = string(runes[limit:])
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}
