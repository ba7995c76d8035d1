package strip

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// alwaysRemoved are dropped regardless of attributes.
var alwaysRemoved = map[atom.Atom]bool{
	atom.Header: true,
	atom.Footer: true,
	atom.Nav:    true,
	atom.Aside:  true,
	atom.Script: true,
	atom.Style:  true,
}

var blockLevel = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Details: true, atom.Dialog: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.Header: true,
	atom.Hgroup: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true,
	atom.Table: true, atom.Ul: true,
}

// removeBoilerplate detaches comments, page furniture and noise-classed
// block elements from the tree rooted at doc.
func removeBoilerplate(doc *html.Node, keywords []string) {
	var doomed []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.CommentNode:
			doomed = append(doomed, n)
			return
		case html.ElementNode:
			if alwaysRemoved[n.DataAtom] {
				doomed = append(doomed, n)
				return
			}
			if blockLevel[n.DataAtom] && isNoiseClass(attr(n, "class"), keywords) {
				doomed = append(doomed, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// isNoiseClass reports whether any class token hits a keyword. Keywords of
// three letters or fewer ("ad", "ads") must equal a hyphen or underscore
// delimited word so that "header" or "shadow" are not matched; longer
// keywords match as substrings.
func isNoiseClass(class string, keywords []string) bool {
	class = strings.ToLower(class)
	if strings.TrimSpace(class) == "" {
		return false
	}
	for _, token := range strings.Fields(class) {
		words := strings.FieldsFunc(token, func(r rune) bool { return r == '-' || r == '_' })
		for _, kw := range keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			if len(kw) > 3 {
				if strings.Contains(token, kw) {
					return true
				}
				continue
			}
			for _, w := range words {
				if w == kw {
					return true
				}
			}
		}
	}
	return false
}
