package export

import (
	"strings"

	"github.com/hyperifyio/smartscrape/internal/scrape"
)

// Text renders the title, source and plain text of an article.
func Text(a scrape.Article) string {
	var b strings.Builder
	if a.Failed() {
		b.WriteString("Error: ")
		b.WriteString(a.Error)
		b.WriteString("\nSource: ")
		b.WriteString(a.SourceURL)
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(a.Title)
	b.WriteString("\n")
	b.WriteString(a.SourceURL)
	b.WriteString("\n\n")
	b.WriteString(a.PlainText)
	b.WriteString("\n")
	return b.String()
}
