package shopping

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"foodgram/internal/config"
)

// Format names an export encoding as it appears in the download query string.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
)

// ErrUnsupportedFormat is returned for any format other than txt, pdf or png.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	fileBaseName = "BuyList"
	caption      = "Shopping list:"
	signOff      = "From Foodgram: happy shopping!"
	dateLayout   = "2006-01-02"
)

// ParseFormat accepts the short names used in the download query string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "text":
		return FormatText, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Document is what gets rendered: the merged rows and the day the list was generated.
type Document struct {
	Rows        []Row
	GeneratedOn time.Time
}

// File is a rendered document ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	Body        []byte
	Rows        int
}

// FormatLine renders a row as "Name — amount unit" with the name's first letter upper-cased.
func FormatLine(r Row) string {
	return fmt.Sprintf("%s — %d %s", capitalize(r.Name), r.Amount, r.MeasurementUnit)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// textLine is one positioned line shared by the paginated and image renderers.
// Advance is the vertical distance from the previous line's baseline.
type textLine struct {
	Text    string
	Size    float64
	Advance float64
}

func layout(doc Document) []textLine {
	lines := make([]textLine, 0, len(doc.Rows)+3)
	lines = append(lines, textLine{Text: caption, Size: 16})
	for i, row := range doc.Rows {
		advance := 20.0
		if i == 0 {
			advance = 40
		}
		lines = append(lines, textLine{Text: FormatLine(row), Size: 12, Advance: advance})
	}
	lines = append(lines,
		textLine{Text: signOff, Size: 10, Advance: 55},
		textLine{Text: doc.GeneratedOn.Format(dateLayout), Size: 9, Advance: 20},
	)
	return lines
}

// Exporter renders documents in every supported format.
type Exporter struct {
	fontData []byte
	font     *truetype.Font
}

// NewExporter loads the configured TrueType font. Without one it uses the
// embedded Go Regular font, which covers Latin, Cyrillic and Greek.
func NewExporter(cfg config.ExportConfig) (*Exporter, error) {
	data := goregular.TTF
	if cfg.FontPath != "" {
		var err error
		if data, err = os.ReadFile(cfg.FontPath); err != nil {
			return nil, fmt.Errorf("failed to read export font: %w", err)
		}
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export font: %w", err)
	}
	return &Exporter{fontData: data, font: font}, nil
}

// Export renders doc in format and names the file BuyList.<ext>.
func (e *Exporter) Export(format Format, doc Document) (*File, error) {
	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case FormatText:
		body, contentType = renderText(doc), "text/plain; charset=utf-8"
	case FormatPDF:
		body, err = e.renderPDF(doc)
		contentType = "application/pdf"
	case FormatPNG:
		body, err = e.renderPNG(doc)
		contentType = "image/png"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        fileBaseName + "." + string(format),
		ContentType: contentType,
		Body:        body,
		Rows:        len(doc.Rows),
	}, nil
}

func renderText(doc Document) []byte {
	var b strings.Builder
	b.WriteString(caption)
	b.WriteString("\n\n")
	for _, row := range doc.Rows {
		b.WriteString(FormatLine(row))
		b.WriteByte('\n')
	}
	if len(doc.Rows) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(signOff)
	b.WriteByte('\n')
	b.WriteString(doc.GeneratedOn.Format(dateLayout))
	b.WriteByte('\n')
	return []byte(b.String())
}
