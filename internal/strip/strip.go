// Package strip reduces a full HTML page to the fragment most likely to hold
// the article body.
package strip

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// FallbackPattern is reported when no structural pattern matched.
const FallbackPattern = "fallback"

// DefaultMinContainerChars is the inner-HTML length a structural match must
// exceed to be accepted.
const DefaultMinContainerChars = 200

// Pattern locates a candidate main-content container. Exactly one of Tag,
// Class or ID is expected to be set. Class matches when the element's class
// attribute contains the hint as a substring; ID matches exactly.
type Pattern struct {
	Name  string `yaml:"name" json:"name"`
	Tag   string `yaml:"tag" json:"tag"`
	Class string `yaml:"class" json:"class"`
	ID    string `yaml:"id" json:"id"`
}

// DefaultPatterns is the priority-ordered container table.
var DefaultPatterns = []Pattern{
	{Name: "article", Tag: "article"},
	{Name: "entry-content", Class: "entry-content"},
	{Name: "article-content", Class: "article-content"},
	{Name: "post-content", Class: "post-content"},
	{Name: "content-area", Class: "content-area"},
	{Name: "id-content", ID: "content"},
	{Name: "main", Tag: "main"},
}

// DefaultNoiseKeywords mark class names of page furniture removed by the
// fallback strategy.
var DefaultNoiseKeywords = []string{
	"sidebar", "widget", "ad", "ads", "advertisement", "comment",
	"social", "share", "related", "menu", "navigation",
}

// Result is the reduced fragment and the name of the strategy that produced it.
type Result struct {
	HTML    string
	Pattern string
}

// Stripper holds the pattern and keyword tables. The zero value uses the
// defaults.
type Stripper struct {
	Patterns          []Pattern
	MinContainerChars int
	NoiseKeywords     []string
}

// Strip checks the first element matching each pattern in priority order and
// returns its inner HTML when it is long enough. Later matches of the same
// pattern are not considered. With no accepted container the whole document
// is returned with boilerplate regions removed.
func (s *Stripper) Strip(raw string) Result {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil || doc == nil {
		return Result{HTML: raw, Pattern: FallbackPattern}
	}

	minChars := s.MinContainerChars
	if minChars <= 0 {
		minChars = DefaultMinContainerChars
	}
	for _, p := range s.patterns() {
		var first *html.Node
		walk(doc, func(n *html.Node) bool {
			if p.matches(n) {
				first = n
				return false
			}
			return true
		})
		if first == nil {
			continue
		}
		if inner := innerHTML(first); utf8.RuneCountInString(inner) > minChars {
			return Result{HTML: inner, Pattern: p.Name}
		}
	}

	removeBoilerplate(doc, s.keywords())
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return Result{HTML: raw, Pattern: FallbackPattern}
	}
	return Result{HTML: buf.String(), Pattern: FallbackPattern}
}

func (s *Stripper) patterns() []Pattern {
	if s.Patterns == nil {
		return DefaultPatterns
	}
	return s.Patterns
}

func (s *Stripper) keywords() []string {
	if s.NoiseKeywords == nil {
		return DefaultNoiseKeywords
	}
	return s.NoiseKeywords
}

func (p Pattern) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch {
	case p.Tag != "":
		return strings.EqualFold(n.Data, p.Tag)
	case p.Class != "":
		return strings.Contains(strings.ToLower(attr(n, "class")), strings.ToLower(p.Class))
	case p.ID != "":
		return attr(n, "id") == p.ID
	}
	return false
}

// walk visits n and its descendants in document order until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
