package report

import "io"

const (
	FontStyleRegular = ""
	FontStyleBold    = "B"
)

//go:generate mockgen --build_flags=--mod=mod -source=./document.go -destination=./test/mock_document.go -package test MockDocument

// Document is a paginated document. Coordinates and sizes are in millimeters,
// y grows towards the bottom of the page.
type Document interface {
	AddPage()
	SetFont(style string, size float64)
	Text(x, y float64, text string)
	// SplitLines wraps text into lines no wider than width with the current font
	SplitLines(text string, width float64) []string
	// Image draws a png encoded image
	Image(name string, data []byte, x, y, w, h float64) error
	Output(w io.Writer) error
}

// Layout describes the geometry of the report pages
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	LineHeight   float64
	FontSize     float64
	TitleSize    float64
	HeadingSize  float64
	PhotoWidth   float64
}

// DefaultLayout is an A4 portrait page
var DefaultLayout = Layout{
	PageWidth:    210,
	PageHeight:   297,
	MarginLeft:   15,
	MarginRight:  15,
	MarginTop:    20,
	MarginBottom: 15,
	LineHeight:   6,
	FontSize:     10,
	TitleSize:    18,
	HeadingSize:  12,
	PhotoWidth:   40,
}

func (l Layout) ContentWidth() float64 {
	return l.PageWidth - l.MarginLeft - l.MarginRight
}
