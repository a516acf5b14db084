// Package render provides the drawing surface documents are composed onto.
// Two canvases exist: a raster one for card-style artifacts and a PDF one for
// paginated documents. Layout code targets the Canvas interface and never a
// concrete backend.
package render

import (
	"image/color"
	"io"
)

// Align controls horizontal text placement relative to the given x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle bundles the knobs a layout sets per text run.
type TextStyle struct {
	Size  float64
	Color color.RGBA
	Bold  bool
	Align Align
}

// TableStyle controls ruled-table rendering. The first row is treated as the
// header and drawn with HeaderFill behind it.
type TableStyle struct {
	TextSize   float64
	RowHeight  float64
	HeaderFill color.RGBA
	Border     color.RGBA
	Text       color.RGBA
}

// Canvas is the capability handed to document layouts. Coordinates are in the
// backend's native units (pixels for raster, millimetres for PDF); layouts
// query Size and position content proportionally.
type Canvas interface {
	// Size reports the drawable width and height.
	Size() (w, h float64)
	// FillRect paints a solid rectangle.
	FillRect(x, y, w, h float64, c color.RGBA)
	// StrokeRect outlines a rectangle.
	StrokeRect(x, y, w, h, lineWidth float64, c color.RGBA)
	// Line draws a straight segment.
	Line(x0, y0, x1, y1, lineWidth float64, c color.RGBA)
	// Gradient fills a rectangle with a left-to-right blend.
	Gradient(x, y, w, h float64, from, to color.RGBA)
	// Text draws one run; y is the text baseline.
	Text(x, y float64, s string, style TextStyle)
	// Image places decoded image bytes scaled into the target rectangle.
	Image(x, y, w, h float64, data []byte) error
	// QR encodes payload and places the code as a size×size square.
	QR(x, y, size float64, payload string) error
	// Watermark tiles faint diagonal text across the whole surface.
	Watermark(text string, c color.RGBA)
	// Table draws a ruled table; widths are per column, rows include the header.
	Table(x, y float64, widths []float64, rows [][]string, style TableStyle)
	// Export writes the finished artifact to w.
	Export(w io.Writer) error
}
