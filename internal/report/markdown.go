package report

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockListItem
)

// block is one printable unit of the narrative with inline markup removed.
type block struct {
	kind blockKind
	text string
}

// parseMarkdown flattens model output into headings, paragraphs and list items.
func parseMarkdown(src []byte) []block {
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var blocks []block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var kind blockKind
		switch n.(type) {
		case *ast.Heading:
			kind = blockHeading
		case *ast.ListItem:
			kind = blockListItem
		case *ast.Paragraph, *ast.TextBlock, *ast.CodeBlock, *ast.FencedCodeBlock:
			kind = blockParagraph
		default:
			return ast.WalkContinue, nil
		}

		if s := inlineText(n, src); s != "" {
			blocks = append(blocks, block{kind: kind, text: s})
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// inlineText concatenates the text under n, separating nested blocks with spaces.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
			return
		case *ast.String:
			b.Write(v.Value)
			return
		}

		if n.Type() == ast.TypeBlock && n.ChildCount() == 0 {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
