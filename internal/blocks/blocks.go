// Package blocks decomposes an article fragment into typed content blocks.
//
// Decomposition runs four independent passes over the same parsed fragment:
// headings, paragraphs, lists and quotes. Each pass emits blocks in document
// order, and by default the passes are concatenated in that order, so all
// headings precede all paragraphs. Policy.Order can request true document
// order instead.
package blocks

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind is the closed set of block types.
type Kind string

const (
	Heading   Kind = "heading"
	Paragraph Kind = "paragraph"
	Bullet    Kind = "bullet"
	Numbered  Kind = "numbered"
	Quote     Kind = "quote"
)

// Block is one semantic unit of extracted content. Level is set only for
// headings and Items only for lists.
type Block struct {
	Kind  Kind     `json:"type"`
	Text  string   `json:"text"`
	Level int      `json:"level,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Order selects how blocks from different passes are interleaved.
type Order string

const (
	PassOrder     Order = "passes"
	DocumentOrder Order = "document"
)

// Policy holds the minimum lengths, in characters, a block's text must
// exceed to be emitted. Zero means unset.
type Policy struct {
	MinHeadingChars   int   `yaml:"minHeadingChars" json:"minHeadingChars"`
	MinParagraphChars int   `yaml:"minParagraphChars" json:"minParagraphChars"`
	MinItemChars      int   `yaml:"minItemChars" json:"minItemChars"`
	MinQuoteChars     int   `yaml:"minQuoteChars" json:"minQuoteChars"`
	Order             Order `yaml:"order" json:"order"`
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinHeadingChars:   2,
		MinParagraphChars: 30,
		MinItemChars:      5,
		MinQuoteChars:     10,
		Order:             PassOrder,
	}
}

// WithDefaults returns p with every zero field replaced by its default.
func (p Policy) WithDefaults() Policy {
	def := DefaultPolicy()
	if p.MinHeadingChars == 0 {
		p.MinHeadingChars = def.MinHeadingChars
	}
	if p.MinParagraphChars == 0 {
		p.MinParagraphChars = def.MinParagraphChars
	}
	if p.MinItemChars == 0 {
		p.MinItemChars = def.MinItemChars
	}
	if p.MinQuoteChars == 0 {
		p.MinQuoteChars = def.MinQuoteChars
	}
	if p.Order == "" {
		p.Order = def.Order
	}
	return p
}

// pass is one extraction rule: which elements it claims and how it turns a
// claimed element into a block.
type pass struct {
	match func(*html.Node) bool
	build func(*html.Node, Policy) (Block, bool)
}

var passes = []pass{
	{match: isHeading, build: buildHeading},
	{match: isElement(atom.P), build: buildParagraph},
	{match: isList, build: buildList},
	{match: isElement(atom.Blockquote), build: buildQuote},
}

// Decompose parses fragment and returns its content blocks. Zero fields of p
// take their defaults.
func Decompose(fragment string, p Policy) []Block {
	p = p.WithDefaults()
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil || doc == nil {
		return nil
	}
	var out []Block
	if p.Order == DocumentOrder {
		forEachElement(doc, func(n *html.Node) {
			for _, ps := range passes {
				if !ps.match(n) {
					continue
				}
				if b, ok := ps.build(n, p); ok {
					out = append(out, b)
				}
				return
			}
		})
		return out
	}
	for _, ps := range passes {
		forEachElement(doc, func(n *html.Node) {
			if !ps.match(n) {
				return
			}
			if b, ok := ps.build(n, p); ok {
				out = append(out, b)
			}
		})
	}
	return out
}

func forEachElement(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		forEachElement(c, fn)
	}
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.DataAtom == a }
}

func isHeading(n *html.Node) bool {
	return headingLevel(n) > 0
}

func isList(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Ul || n.DataAtom == atom.Ol)
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func buildHeading(n *html.Node, p Policy) (Block, bool) {
	text := nodeText(n)
	if charLen(text) <= p.MinHeadingChars {
		return Block{}, false
	}
	return Block{Kind: Heading, Text: text, Level: headingLevel(n)}, true
}

func buildParagraph(n *html.Node, p Policy) (Block, bool) {
	text := nodeText(n)
	if charLen(text) <= p.MinParagraphChars {
		return Block{}, false
	}
	return Block{Kind: Paragraph, Text: text}, true
}

func buildQuote(n *html.Node, p Policy) (Block, bool) {
	text := nodeText(n)
	if charLen(text) <= p.MinQuoteChars {
		return Block{}, false
	}
	return Block{Kind: Quote, Text: text}, true
}

// buildList keeps the direct <li> children whose text is long enough.
func buildList(n *html.Node, p Policy) (Block, bool) {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		item := nodeText(c)
		if charLen(item) > p.MinItemChars {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return Block{}, false
	}
	kind := Bullet
	if n.DataAtom == atom.Ol {
		kind = Numbered
	}
	return Block{Kind: kind, Text: strings.Join(items, ", "), Items: items}, true
}
