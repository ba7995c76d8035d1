package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/smartscrape/internal/blocks"
	"github.com/hyperifyio/smartscrape/internal/scrape"
)

// PDF writes a minimal PDF rendition of the article to w: title, a source
// link, then one paragraph per block. Core fonts only cover cp1252, so text
// is translated and unsupported runes degrade.
func PDF(a scrape.Article, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(a.Title), false)
	if a.Author != "" {
		pdf.SetAuthor(tr(a.Author), false)
	}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := a.Title
	if a.Failed() {
		title = "Scrape failed"
	}
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.WriteLinkString(5, tr(a.SourceURL), a.SourceURL)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	if a.Failed() {
		pdf.MultiCell(0, 5, tr(a.Error), "", "L", false)
		return output(pdf, w)
	}
	if len(a.ContentBlocks) == 0 {
		pdf.MultiCell(0, 5, tr(a.PlainText), "", "L", false)
		return output(pdf, w)
	}

	for _, blk := range a.ContentBlocks {
		switch blk.Kind {
		case blocks.Heading:
			size := 14.0
			if blk.Level >= 2 {
				size = 12.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 7, tr(blk.Text), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case blocks.Bullet, blocks.Numbered:
			for i, item := range blk.Items {
				marker := "-"
				if blk.Kind == blocks.Numbered {
					marker = fmt.Sprintf("%d.", i+1)
				}
				pdf.MultiCell(0, 5, tr(marker+" "+item), "", "L", false)
			}
		case blocks.Quote:
			pdf.SetFont("Helvetica", "I", 11)
			pdf.MultiCell(0, 5, tr(blk.Text), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		default:
			pdf.MultiCell(0, 5, tr(blk.Text), "", "L", false)
		}
		pdf.Ln(3)
	}
	return output(pdf, w)
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
