package blocks

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// StripTags returns the visible text of an HTML fragment: script and style
// content is dropped, every tag boundary becomes a space, whitespace runs
// collapse to one space and the ends are trimmed.
func StripTags(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil || doc == nil {
		return ""
	}
	return nodeText(doc)
}

// BodyText is StripTags applied to the <body> element of a full document.
func BodyText(document string) string {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil || doc == nil {
		return ""
	}
	var body *html.Node
	forEachElement(doc, func(n *html.Node) {
		if body == nil && n.DataAtom == atom.Body {
			body = n
		}
	})
	if body == nil {
		return ""
	}
	return nodeText(body)
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// CharLen counts characters, not bytes.
func CharLen(s string) int { return charLen(s) }

func charLen(s string) int { return utf8.RuneCountInString(s) }

func nodeText(n *html.Node) string {
	var b strings.Builder
	collectText(&b, n)
	return normalizeWhitespace(b.String())
}

func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Noscript {
			return
		}
		b.WriteByte(' ')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectText(b, c)
		}
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

func normalizeWhitespace(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
