package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

var (
	ink    = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	accent = color.RGBA{R: 37, G: 99, B: 235, A: 255}
)

func TestImageCanvasExportsPNG(t *testing.T) {
	c := NewImageCanvas(320, 200)
	c.Gradient(0, 0, 320, 60, accent, ink)
	c.FillRect(10, 70, 100, 40, accent)
	c.StrokeRect(10, 70, 100, 40, 2, ink)
	c.Line(0, 120, 320, 120, 1, ink)
	c.Text(160, 150, "Hello Canvas", TextStyle{Size: 18, Color: ink, Bold: true, Align: AlignCenter})
	c.Watermark("SAMPLE", color.RGBA{})
	if err := c.QR(240, 130, 60, `{"id":"T-1"}`); err != nil {
		t.Fatalf("QR: %v", err)
	}

	var buf bytes.Buffer
	if err := c.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 200 {
		t.Fatalf("dimensions %dx%d, want 320x200", cfg.Width, cfg.Height)
	}
}

func TestImageCanvasDeterministic(t *testing.T) {
	renderOnce := func() []byte {
		c := NewImageCanvas(120, 80)
		c.FillRect(0, 0, 120, 80, accent)
		c.Text(10, 40, "fixed", TextStyle{Size: 13, Color: ink})
		var buf bytes.Buffer
		if err := c.Export(&buf); err != nil {
			t.Fatalf("Export: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(renderOnce(), renderOnce()) {
		t.Fatal("identical drawing sequences must export identical bytes")
	}
}

func TestImageCanvasEmbedsImage(t *testing.T) {
	inner := NewImageCanvas(40, 40)
	inner.FillRect(0, 0, 40, 40, ink)
	var asset bytes.Buffer
	if err := inner.Export(&asset); err != nil {
		t.Fatal(err)
	}

	c := NewImageCanvas(100, 100)
	if err := c.Image(10, 10, 60, 60, asset.Bytes()); err != nil {
		t.Fatalf("Image: %v", err)
	}
	if err := c.Image(0, 0, 10, 10, []byte("not an image")); err == nil {
		t.Fatal("expected error for undecodable bytes")
	}
}

func TestPDFCanvasExportsPDF(t *testing.T) {
	c := NewPDFCanvas()
	w, h := c.Size()
	if w <= 0 || h <= w {
		t.Fatalf("unexpected portrait page size %fx%f", w, h)
	}
	c.Gradient(0, 0, w, 30, accent, ink)
	c.Text(w/2, 20, "Salary Slip", TextStyle{Size: 16, Color: ink, Bold: true, Align: AlignCenter})
	c.Table(15, 40, []float64{90, 90}, [][]string{
		{"Component", "Amount"},
		{"Basic Salary", "75,000.00"},
	}, TableStyle{Border: ink, Text: ink, HeaderFill: color.RGBA{R: 226, G: 232, B: 240, A: 255}})
	c.Watermark("ORIGINAL", color.RGBA{})
	if err := c.QR(w-40, h-40, 25, `{"id":"T-1"}`); err != nil {
		t.Fatalf("QR: %v", err)
	}

	var buf bytes.Buffer
	if err := c.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output does not start with a PDF header")
	}
}
