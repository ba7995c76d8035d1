// Package export renders scraped articles as Markdown, JSON, plain text or PDF.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperifyio/smartscrape/internal/blocks"
	"github.com/hyperifyio/smartscrape/internal/scrape"
)

// Markdown renders the article with its metadata as a Markdown document.
// Failed articles render as a short error note.
func Markdown(a scrape.Article) string {
	var b strings.Builder
	if a.Failed() {
		fmt.Fprintf(&b, "# Scrape failed\n\nSource: %s\n\nError: %s\n", a.SourceURL, a.Error)
		return b.String()
	}

	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	fmt.Fprintf(&b, "Source: <%s>\n", a.SourceURL)
	if a.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", a.Author)
	}
	if a.PublishedDate != "" {
		fmt.Fprintf(&b, "Published: %s\n", a.PublishedDate)
	}
	if a.FeaturedImage != "" {
		fmt.Fprintf(&b, "\n![featured image](%s)\n", a.FeaturedImage)
	}
	if a.MetaDescription != "" {
		fmt.Fprintf(&b, "\n> %s\n", a.MetaDescription)
	}
	b.WriteString("\n")

	if len(a.ContentBlocks) == 0 {
		b.WriteString(a.PlainText)
		b.WriteString("\n")
		return b.String()
	}
	for _, blk := range a.ContentBlocks {
		writeBlock(&b, blk)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeBlock(b *strings.Builder, blk blocks.Block) {
	switch blk.Kind {
	case blocks.Heading:
		level := blk.Level
		if level < 1 || level > 6 {
			level = 2
		}
		fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), blk.Text)
	case blocks.Bullet:
		for _, item := range blk.Items {
			fmt.Fprintf(b, "- %s\n", item)
		}
		b.WriteString("\n")
	case blocks.Numbered:
		for i, item := range blk.Items {
			fmt.Fprintf(b, "%d. %s\n", i+1, item)
		}
		b.WriteString("\n")
	case blocks.Quote:
		fmt.Fprintf(b, "> %s\n\n", blk.Text)
	default:
		fmt.Fprintf(b, "%s\n\n", blk.Text)
	}
}

// JSON encodes a record (or a list of records) with two-space indentation
// and a trailing newline.
func JSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(out, '\n'), nil
}
