package report

import (
	"bytes"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/unicode/norm"
)

const fontFamily = "Helvetica"

type fpdfDocument struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

var _ Document = &fpdfDocument{}

// NewPDFDocument returns an A4 document rendered with fpdf. Page breaks are
// left to the caller.
func NewPDFDocument() Document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(fontFamily, FontStyleRegular, DefaultLayout.FontSize)

	// cp1252 only has precomposed accents, decomposed input would lose them
	toCp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	return &fpdfDocument{
		pdf: pdf,
		translate: func(s string) string {
			return toCp1252(norm.NFC.String(s))
		},
	}
}

func (f *fpdfDocument) AddPage() {
	f.pdf.AddPage()
}

func (f *fpdfDocument) SetFont(style string, size float64) {
	f.pdf.SetFont(fontFamily, style, size)
}

func (f *fpdfDocument) Text(x, y float64, text string) {
	f.pdf.Text(x, y, f.translate(text))
}

// SplitLines wraps on whitespace. Words wider than width are kept on a line of their own.
func (f *fpdfDocument) SplitLines(text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 1)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if f.pdf.GetStringWidth(f.translate(candidate)) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

func (f *fpdfDocument) Image(name string, data []byte, x, y, w, h float64) error {
	options := fpdf.ImageOptions{ImageType: "PNG"}
	f.pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(data))
	f.pdf.ImageOptions(name, x, y, w, h, false, options, 0, "")
	return f.pdf.Error()
}

func (f *fpdfDocument) Output(w io.Writer) error {
	return f.pdf.Output(w)
}
