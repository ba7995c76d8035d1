package scrape

import (
	"strings"

	"github.com/hyperifyio/smartscrape/internal/blocks"
)

const (
	// ErrInvalidURL is the error text for input rejected before any I/O.
	ErrInvalidURL = "Invalid URL format"
	// UntitledArticle is used when no title could be found.
	UntitledArticle = "Untitled Article"
	// NoContent is the plain text of a page with no extractable body.
	NoContent = "No content could be extracted from this page."
)

// Article is the result of one scrape. When Error is non-empty the content
// fields are empty and the record signals total failure.
type Article struct {
	SourceURL       string         `json:"sourceUrl"`
	Title           string         `json:"title"`
	PlainText       string         `json:"plainText"`
	ContentBlocks   []blocks.Block `json:"contentBlocks"`
	Author          string         `json:"author,omitempty"`
	PublishedDate   string         `json:"publishedDate,omitempty"`
	MetaDescription string         `json:"metaDescription,omitempty"`
	FeaturedImage   string         `json:"featuredImage,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// Failed reports whether the record carries an error.
func (a Article) Failed() bool { return a.Error != "" }

func errorArticle(sourceURL, msg string) Article {
	return Article{SourceURL: sourceURL, ContentBlocks: []blocks.Block{}, Error: msg}
}

// RenderPlainText flattens blocks: headings get a "## " marker, list items
// become "• " lines, and blocks are separated by blank lines.
func RenderPlainText(bs []blocks.Block) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		switch b.Kind {
		case blocks.Heading:
			parts = append(parts, "## "+b.Text)
		case blocks.Bullet, blocks.Numbered:
			lines := make([]string, 0, len(b.Items))
			for _, item := range b.Items {
				lines = append(lines, "• "+item)
			}
			parts = append(parts, strings.Join(lines, "\n"))
		default:
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
