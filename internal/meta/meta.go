// Package meta reads article metadata from a document head.
package meta

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Metadata holds the best-effort values found in the page. Absent values are
// empty strings.
type Metadata struct {
	Title         string
	Description   string
	Author        string
	PublishedTime string
	Image         string
}

// siteSuffix matches a trailing " | Site Name" style suffix.
var siteSuffix = regexp.MustCompile(`\s*[|\-–—:][^|]*$`)

// markup strips any tags that made it into attribute values.
var markup = bluemonday.StrictPolicy()

// Extract reads metadata from the original, unstripped HTML. Each field is
// matched independently; a failure to find one does not affect the others.
func Extract(rawHTML string) Metadata {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Metadata{}
	}

	title := metaContent(doc, "og:title")
	if title == "" {
		title = documentTitle(doc)
	}

	description := metaContent(doc, "description")
	if description == "" {
		description = metaContent(doc, "og:description")
	}
	author := metaContent(doc, "author")
	if author == "" {
		author = metaContent(doc, "article:author")
	}

	return Metadata{
		Title:         CleanTitle(plain(title)),
		Description:   plain(description),
		Author:        plain(author),
		PublishedTime: metaContent(doc, "article:published_time"),
		Image:         metaContent(doc, "og:image"),
	}
}

// CleanTitle removes a trailing separator-delimited site name. Titles that
// legitimately contain a separator are over-stripped; if nothing would remain
// the trimmed input is returned.
func CleanTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	cleaned := strings.TrimSpace(siteSuffix.ReplaceAllString(title, ""))
	if cleaned == "" {
		return title
	}
	return cleaned
}

func documentTitle(doc *goquery.Document) string {
	sel := doc.Find("head title").First()
	if sel.Length() == 0 {
		sel = doc.Find("title").First()
	}
	return strings.TrimSpace(sel.Text())
}

// metaContent returns the content of the first <meta> whose property or name
// equals key, case-insensitively.
func metaContent(doc *goquery.Document, key string) string {
	var out string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(prop), key) && !strings.EqualFold(strings.TrimSpace(name), key) {
			return true
		}
		content, _ := s.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return true
		}
		out = content
		return false
	})
	return out
}

// plain removes markup from a metadata value. Values without a '<' are
// returned unchanged.
func plain(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return strings.Join(strings.Fields(html.UnescapeString(markup.Sanitize(s))), " ")
}
