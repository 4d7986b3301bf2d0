package slidedom

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

// gridMeasurer gives every rune half an em and every line exactly one em,
// and never wraps. It makes autofit results easy to compute by hand.
type gridMeasurer struct{}

func (gridMeasurer) Measure(text string, fd FontDescriptor, _ float64) (float64, float64, error) {
	text = strings.ReplaceAll(text, lineBreak, "\n")
	var w float64
	lines := strings.Split(text, "\n")
	for _, l := range lines {
		w = max(w, float64(utf8.RuneCountInString(l))*fd.Size/2)
	}
	return w, float64(len(lines)) * fd.Size, nil
}

func newTestDoc(t *testing.T, opts ...Option) *Document {
	t.Helper()
	opts = append([]Option{WithMeasurer(gridMeasurer{})}, opts...)
	return New(opts...)
}

// helper: write the document to a buffer and read it back
func roundTrip(t *testing.T, d *Document) *Document {
	t.Helper()
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	out, err := ReadBytes(buf.Bytes(), WithMeasurer(gridMeasurer{}))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return out
}

// helper: create a minimal 1x1 PNG
func testPNG() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
		0xDE, 0x00, 0x00, 0x00, 0x0C, 0x49, 0x44, 0x41,
		0x54, 0x08, 0xD7, 0x63, 0xF8, 0xCF, 0xC0, 0x00,
		0x00, 0x00, 0x02, 0x00, 0x01, 0xE2, 0x21, 0xBC,
		0x33, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
		0x44, 0xAE, 0x42, 0x60, 0x82,
	}
}

// helper: create a 2x1 GIF, distinct from testPNG
func testGIF() []byte {
	return []byte{
		'G', 'I', 'F', '8', '9', 'a',
		0x02, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
		0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF,
		0x2C, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01, 0x00, 0x00,
		0x02, 0x02, 0x44, 0x01, 0x00,
		0x3B,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func mustSlide(t *testing.T, d *Document, layout string) *Slide {
	t.Helper()
	l, err := d.GetLayoutByName(layout)
	if err != nil {
		t.Fatalf("GetLayoutByName(%q) error = %v", layout, err)
	}
	s, err := d.AddSlide(l)
	if err != nil {
		t.Fatalf("AddSlide error = %v", err)
	}
	return s
}

func mustAddShape(t *testing.T, c *ShapeCollection, x, y, w, h float64) AutoShape {
	t.Helper()
	sh, err := c.AddShape(x, y, w, h)
	if err != nil {
		t.Fatalf("AddShape() error = %v", err)
	}
	return sh
}
