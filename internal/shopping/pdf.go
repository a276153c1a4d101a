package shopping

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFontFamily   = "export"
	pdfMarginLeft   = 15.0
	pdfTop          = 42.0
	pdfBottomMargin = 40.0
)

func (e *Exporter) renderPDF(doc Document) ([]byte, error) {
	pdf, err := e.buildPDF(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// buildPDF lays the document out on A4 pages, opening a new page whenever the
// next line would cross the bottom margin.
func (e *Exporter) buildPDF(doc Document) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(doc.GeneratedOn)
	pdf.SetModificationDate(doc.GeneratedOn)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fileBaseName, false)
	pdf.SetAutoPageBreak(false, 0)

	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", e.fontData)

	pdf.AddPage()
	_, pageHeight := pdf.GetPageSize()
	limit := pageHeight - pdfBottomMargin

	y := pdfTop
	for i, line := range layout(doc) {
		if i > 0 {
			y += line.Advance
			if y > limit {
				pdf.AddPage()
				y = pdfTop
			}
		}
		pdf.SetFont(pdfFontFamily, "", line.Size)
		pdf.Text(pdfMarginLeft, y, line.Text)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf, nil
}
