package shopping

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	pngWidth         = 595
	pngMarginLeft    = 15.0
	pngTop           = 42.0
	pngBottomPadding = 30.0
)

// renderPNG draws the whole list onto a single white image tall enough for every line.
func (e *Exporter) renderPNG(doc Document) ([]byte, error) {
	lines := layout(doc)

	height := pngTop + pngBottomPadding
	for _, line := range lines {
		height += line.Advance
	}

	dc := gg.NewContext(pngWidth, int(math.Ceil(height)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	faces := make(map[float64]font.Face)
	y := pngTop
	for i, line := range lines {
		if i > 0 {
			y += line.Advance
		}
		face, ok := faces[line.Size]
		if !ok {
			face = e.face(line.Size)
			faces[line.Size] = face
		}
		dc.SetFontFace(face)
		dc.DrawString(line.Text, pngMarginLeft, y)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) face(size float64) font.Face {
	return truetype.NewFace(e.font, &truetype.Options{Size: size, DPI: 72})
}
