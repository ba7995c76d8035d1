package noteblock

import (
	"testing"

	"github.com/hyperifyio/smartscrape/internal/blocks"
)

var sample = []blocks.Block{
	{Kind: blocks.Heading, Text: "Title", Level: 2},
	{Kind: blocks.Paragraph, Text: "A paragraph of text."},
	{Kind: blocks.Bullet, Text: "one, two, three", Items: []string{"one", "two", "three"}},
	{Kind: blocks.Numbered, Text: "first, second", Items: []string{"first", "second"}},
	{Kind: blocks.Quote, Text: "Quoted words"},
}

func TestFromBlocks_Count(t *testing.T) {
	out := FromBlocks(sample)
	// heading + paragraph + quote + 3 bullet items + 2 numbered items
	if len(out) != 8 {
		t.Fatalf("expected 8 editor blocks, got %d", len(out))
	}
	if Count(sample) != len(out) {
		t.Fatalf("Count disagrees with FromBlocks: %d vs %d", Count(sample), len(out))
	}
}

func TestFromBlocks_Mapping(t *testing.T) {
	out := FromBlocks(sample)
	wantTypes := []string{
		TypeHeading, TypeParagraph,
		TypeBulletListItem, TypeBulletListItem, TypeBulletListItem,
		TypeNumberedListItem, TypeNumberedListItem,
		TypeQuote,
	}
	wantText := []string{"Title", "A paragraph of text.", "one", "two", "three", "first", "second", "Quoted words"}
	seen := map[string]bool{}
	for i, b := range out {
		if b.Type != wantTypes[i] {
			t.Fatalf("block %d: type %q want %q", i, b.Type, wantTypes[i])
		}
		if len(b.Content) != 1 || b.Content[0].Text != wantText[i] || b.Content[0].Type != "text" {
			t.Fatalf("block %d: unexpected content %#v", i, b.Content)
		}
		if b.ID == "" || seen[b.ID] {
			t.Fatalf("block %d: missing or duplicate id %q", i, b.ID)
		}
		seen[b.ID] = true
		if b.Children == nil {
			t.Fatalf("block %d: children should be an empty slice", i)
		}
	}
	if lvl, ok := out[0].Props["level"].(int); !ok || lvl != 2 {
		t.Fatalf("expected heading level 2, got %#v", out[0].Props["level"])
	}
}

func TestFromBlocks_Empty(t *testing.T) {
	if out := FromBlocks(nil); len(out) != 0 || out == nil {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}
