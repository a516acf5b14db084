package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// PDFCanvas renders onto a single-page A4 portrait document.
type PDFCanvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images int
}

func NewPDFCanvas() *PDFCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Pin the metadata timestamps so identical drawing sequences export
	// byte-identical documents.
	pdf.SetCreationDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	pdf.SetModificationDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	// Core fonts are cp1252; translate UTF-8 input so currency symbols and
	// accented names survive.
	return &PDFCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (c *PDFCanvas) Size() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *PDFCanvas) FillRect(x, y, w, h float64, col color.RGBA) {
	c.pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *PDFCanvas) StrokeRect(x, y, w, h, lineWidth float64, col color.RGBA) {
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetLineWidth(lineWidth)
	c.pdf.Rect(x, y, w, h, "D")
}

func (c *PDFCanvas) Line(x0, y0, x1, y1, lineWidth float64, col color.RGBA) {
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetLineWidth(lineWidth)
	c.pdf.Line(x0, y0, x1, y1)
}

func (c *PDFCanvas) Gradient(x, y, w, h float64, from, to color.RGBA) {
	c.pdf.LinearGradient(x, y, w, h,
		int(from.R), int(from.G), int(from.B),
		int(to.R), int(to.G), int(to.B),
		0, 0, 1, 0)
}

func (c *PDFCanvas) Text(x, y float64, s string, style TextStyle) {
	if s == "" {
		return
	}
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	size := style.Size
	if size <= 0 {
		size = 10
	}
	col := style.Color
	if col.A == 0 {
		col = color.RGBA{A: 255}
	}
	c.pdf.SetFont("Helvetica", fontStyle, size)
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))

	s = c.tr(s)
	left := x
	switch style.Align {
	case AlignCenter:
		left = x - c.pdf.GetStringWidth(s)/2
	case AlignRight:
		left = x - c.pdf.GetStringWidth(s)
	}
	c.pdf.Text(left, y, s)
}

func (c *PDFCanvas) Image(x, y, w, h float64, data []byte) error {
	kind := sniffImageType(data)
	if kind == "" {
		return fmt.Errorf("unsupported image format")
	}
	c.images++
	name := fmt.Sprintf("img-%d", c.images)
	opts := fpdf.ImageOptions{ImageType: kind}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return c.pdf.Error()
}

func (c *PDFCanvas) QR(x, y, size float64, payload string) error {
	data, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	return c.Image(x, y, size, size, data)
}

func (c *PDFCanvas) Watermark(text string, col color.RGBA) {
	if col.A == 0 {
		col = color.RGBA{R: 128, G: 128, B: 128, A: 26}
	}
	w, h := c.Size()
	c.pdf.SetAlpha(float64(col.A)/255, "Normal")
	c.pdf.TransformBegin()
	c.pdf.TransformRotate(45, w/2, h/2)
	c.pdf.SetFont("Helvetica", "B", 42)
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
	text = c.tr(text)
	c.pdf.Text(w/2-c.pdf.GetStringWidth(text)/2, h/2, text)
	c.pdf.TransformEnd()
	c.pdf.SetAlpha(1, "Normal")
}

func (c *PDFCanvas) Table(x, y float64, widths []float64, rows [][]string, style TableStyle) {
	if len(rows) == 0 || len(widths) == 0 {
		return
	}
	rowH := style.RowHeight
	if rowH <= 0 {
		rowH = 8
	}
	size := style.TextSize
	if size <= 0 {
		size = 9
	}
	c.pdf.SetDrawColor(int(style.Border.R), int(style.Border.G), int(style.Border.B))
	c.pdf.SetTextColor(int(style.Text.R), int(style.Text.G), int(style.Text.B))

	for r, row := range rows {
		fill := r == 0 && style.HeaderFill.A > 0
		if fill {
			c.pdf.SetFillColor(int(style.HeaderFill.R), int(style.HeaderFill.G), int(style.HeaderFill.B))
			c.pdf.SetFont("Helvetica", "B", size)
		} else {
			c.pdf.SetFont("Helvetica", "", size)
		}
		c.pdf.SetXY(x, y+float64(r)*rowH)
		for i, cw := range widths {
			cell := ""
			if i < len(row) {
				cell = c.tr(row[i])
			}
			c.pdf.CellFormat(cw, rowH, cell, "1", 0, "L", fill, 0, "")
		}
	}
}

func (c *PDFCanvas) Export(w io.Writer) error {
	return c.pdf.Output(w)
}

func sniffImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "JPG"
	default:
		return ""
	}
}
