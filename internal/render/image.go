package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/llgcode/draw2d/draw2dimg"
	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const baseFontHeight = 13 // basicfont.Face7x13 glyph height

// ImageCanvas renders onto an in-memory RGBA surface and exports PNG.
type ImageCanvas struct {
	img *image.RGBA
	gc  *draw2dimg.GraphicContext
}

func NewImageCanvas(width, height int) *ImageCanvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &ImageCanvas{img: img, gc: draw2dimg.NewGraphicContext(img)}
}

func (c *ImageCanvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *ImageCanvas) FillRect(x, y, w, h float64, col color.RGBA) {
	c.gc.SetFillColor(col)
	c.rectPath(x, y, w, h)
	c.gc.Fill()
}

func (c *ImageCanvas) StrokeRect(x, y, w, h, lineWidth float64, col color.RGBA) {
	c.gc.SetStrokeColor(col)
	c.gc.SetLineWidth(lineWidth)
	c.rectPath(x, y, w, h)
	c.gc.Stroke()
}

func (c *ImageCanvas) rectPath(x, y, w, h float64) {
	c.gc.BeginPath()
	c.gc.MoveTo(x, y)
	c.gc.LineTo(x+w, y)
	c.gc.LineTo(x+w, y+h)
	c.gc.LineTo(x, y+h)
	c.gc.Close()
}

func (c *ImageCanvas) Line(x0, y0, x1, y1, lineWidth float64, col color.RGBA) {
	c.gc.SetStrokeColor(col)
	c.gc.SetLineWidth(lineWidth)
	c.gc.BeginPath()
	c.gc.MoveTo(x0, y0)
	c.gc.LineTo(x1, y1)
	c.gc.Stroke()
}

// Gradient blends column by column; good enough for card backgrounds and
// cheap compared to a shader-style fill.
func (c *ImageCanvas) Gradient(x, y, w, h float64, from, to color.RGBA) {
	x0, y0 := int(x), int(y)
	cols, rows := int(w), int(h)
	for i := 0; i < cols; i++ {
		t := float64(i) / float64(max(cols-1, 1))
		col := color.RGBA{
			R: lerpByte(from.R, to.R, t),
			G: lerpByte(from.G, to.G, t),
			B: lerpByte(from.B, to.B, t),
			A: 255,
		}
		for j := 0; j < rows; j++ {
			c.img.SetRGBA(x0+i, y0+j, col)
		}
	}
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func (c *ImageCanvas) Text(x, y float64, s string, style TextStyle) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	col := style.Color
	if col.A == 0 {
		col = color.RGBA{A: 255}
	}

	measure := font.Drawer{Face: face}
	width := measure.MeasureString(s).Ceil()
	if style.Bold {
		width++
	}
	if width == 0 {
		return
	}

	scale := style.Size / baseFontHeight
	if style.Size <= 0 {
		scale = 1
	}

	// Rasterize at the face's native size, then scale into place. basicfont
	// has a single size, so larger runs are upsampled.
	tmp := image.NewRGBA(image.Rect(0, 0, width, face.Height+face.Descent))
	d := &font.Drawer{
		Dst: tmp,
		// NRGBA so translucent watermark runs keep their intended alpha.
		Src:  image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A}),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)
	if style.Bold {
		d.Dot = fixed.P(1, face.Ascent)
		d.DrawString(s)
	}

	outW := float64(width) * scale
	outH := float64(face.Height+face.Descent) * scale
	left := x
	switch style.Align {
	case AlignCenter:
		left = x - outW/2
	case AlignRight:
		left = x - outW
	}
	top := y - float64(face.Ascent)*scale

	target := image.Rect(int(left), int(top), int(left+outW), int(top+outH))
	xdraw.ApproxBiLinear.Scale(c.img, target, tmp, tmp.Bounds(), xdraw.Over, nil)
}

func (c *ImageCanvas) Image(x, y, w, h float64, data []byte) error {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	target := image.Rect(int(x), int(y), int(x+w), int(y+h))
	xdraw.ApproxBiLinear.Scale(c.img, target, src, src.Bounds(), xdraw.Over, nil)
	return nil
}

func (c *ImageCanvas) QR(x, y, size float64, payload string) error {
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	qr := code.Image(int(size))
	draw.Draw(c.img, qr.Bounds().Add(image.Pt(int(x), int(y))), qr, qr.Bounds().Min, draw.Over)
	return nil
}

// Watermark tiles the text on a diagonal lattice in a translucent color.
func (c *ImageCanvas) Watermark(text string, col color.RGBA) {
	if col.A == 0 {
		col = color.RGBA{R: 128, G: 128, B: 128, A: 26}
	}
	w, h := c.Size()
	step := 140.0
	row := 0
	for y := step / 2; y < h; y += step {
		offset := 0.0
		if row%2 == 1 {
			offset = step / 2
		}
		for x := offset; x < w; x += step {
			c.Text(x, y, text, TextStyle{Size: 14, Color: col})
		}
		row++
	}
}

func (c *ImageCanvas) Table(x, y float64, widths []float64, rows [][]string, style TableStyle) {
	if len(rows) == 0 || len(widths) == 0 {
		return
	}
	rowH := style.RowHeight
	if rowH <= 0 {
		rowH = 22
	}
	total := 0.0
	for _, cw := range widths {
		total += cw
	}

	for r, row := range rows {
		top := y + float64(r)*rowH
		if r == 0 && style.HeaderFill.A > 0 {
			c.FillRect(x, top, total, rowH, style.HeaderFill)
		}
		cx := x
		for i, cw := range widths {
			if i < len(row) {
				c.Text(cx+6, top+rowH*0.68, row[i], TextStyle{
					Size:  style.TextSize,
					Color: style.Text,
					Bold:  r == 0,
				})
			}
			c.StrokeRect(cx, top, cw, rowH, 1, style.Border)
			cx += cw
		}
	}
}

func (c *ImageCanvas) Export(w io.Writer) error {
	return png.Encode(w, c.img)
}
