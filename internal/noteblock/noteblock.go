// Package noteblock converts extracted content blocks into the block format
// consumed by the note editor.
package noteblock

import (
	"github.com/google/uuid"

	"github.com/hyperifyio/smartscrape/internal/blocks"
)

// Editor block types.
const (
	TypeHeading          = "heading"
	TypeParagraph        = "paragraph"
	TypeQuote            = "quote"
	TypeBulletListItem   = "bulletListItem"
	TypeNumberedListItem = "numberedListItem"
)

// Inline is a run of styled text inside a block.
type Inline struct {
	Type   string         `json:"type"`
	Text   string         `json:"text"`
	Styles map[string]any `json:"styles"`
}

// Block is one editor block.
type Block struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Props    map[string]any `json:"props"`
	Content  []Inline       `json:"content"`
	Children []Block        `json:"children"`
}

// FromBlocks maps content blocks 1:1 to editor blocks, except that each list
// item becomes its own block.
func FromBlocks(in []blocks.Block) []Block {
	out := make([]Block, 0, Count(in))
	for _, b := range in {
		switch b.Kind {
		case blocks.Heading:
			nb := newBlock(TypeHeading, b.Text)
			nb.Props["level"] = b.Level
			out = append(out, nb)
		case blocks.Quote:
			out = append(out, newBlock(TypeQuote, b.Text))
		case blocks.Bullet:
			for _, item := range b.Items {
				out = append(out, newBlock(TypeBulletListItem, item))
			}
		case blocks.Numbered:
			for _, item := range b.Items {
				out = append(out, newBlock(TypeNumberedListItem, item))
			}
		default:
			out = append(out, newBlock(TypeParagraph, b.Text))
		}
	}
	return out
}

// Count is the number of editor blocks FromBlocks produces for in.
func Count(in []blocks.Block) int {
	n := 0
	for _, b := range in {
		switch b.Kind {
		case blocks.Bullet, blocks.Numbered:
			n += len(b.Items)
		default:
			n++
		}
	}
	return n
}

func newBlock(typ, text string) Block {
	return Block{
		ID:       uuid.NewString(),
		Type:     typ,
		Props:    map[string]any{},
		Content:  []Inline{{Type: "text", Text: text, Styles: map[string]any{}}},
		Children: []Block{},
	}
}
