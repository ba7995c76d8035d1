package blocks

import (
	"strings"
	"testing"
)

// Benchmark Decompose on representative fragment sizes in both orders.
func BenchmarkDecompose(b *testing.B) {
	sizes := map[string]string{
		"small":  "<p>" + benchParagraph + "</p>",
		"medium": makeFragment(50, 10),
		"large":  makeFragment(200, 40),
	}
	for _, name := range []string{"small", "medium", "large"} {
		fragment := sizes[name]
		b.Run(name+"/passes", func(b *testing.B) {
			p := DefaultPolicy()
			for i := 0; i < b.N; i++ {
				_ = Decompose(fragment, p)
			}
		})
		b.Run(name+"/document", func(b *testing.B) {
			p := DefaultPolicy()
			p.Order = DocumentOrder
			for i := 0; i < b.N; i++ {
				_ = Decompose(fragment, p)
			}
		})
	}
}

func makeFragment(sections, itemsPerList int) string {
	var sb strings.Builder
	for i := 0; i < sections; i++ {
		sb.WriteString("<h2>Section heading</h2><p>")
		sb.WriteString(benchParagraph)
		sb.WriteString("</p><ul>")
		for j := 0; j < itemsPerList; j++ {
			sb.WriteString("<li>list item text</li>")
		}
		sb.WriteString("</ul><blockquote>A quoted remark worth keeping.</blockquote>")
	}
	return sb.String()
}

const benchParagraph = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."
