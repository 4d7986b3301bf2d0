package slidedom

import (
	"errors"
	"strings"
	"testing"
)

func lines(n int) string {
	return strings.TrimSuffix(strings.Repeat("line\n", n), "\n")
}

// shrinkBox returns a shrinking text box whose usable height is exactly
// 90pt: 97.2pt minus the default 3.6pt top and bottom insets.
func shrinkBox(t *testing.T, d *Document) *TextBox {
	t.Helper()
	s, _ := d.GetSlide(0)
	box, err := s.GetShapes().AddTextBox(0, 0, 400, 97.2, "")
	if err != nil {
		t.Fatalf("AddTextBox() error = %v", err)
	}
	tb, _ := box.GetTextBox()
	if err := tb.SetAutofit(AutofitShrinkText); err != nil {
		t.Fatalf("SetAutofit() error = %v", err)
	}
	return tb
}

func firstFont(t *testing.T, tb *TextBox) *Font {
	t.Helper()
	p, err := tb.GetParagraphs().At(0)
	if err != nil {
		t.Fatalf("At(0) error = %v", err)
	}
	return p.GetPortions()[0].GetFont()
}

func TestShrinkText(t *testing.T) {
	d := newTestDoc(t)
	tb := shrinkBox(t, d)

	tests := []struct {
		name  string
		lines int
		want  float64
	}{
		{"fits", 4, 1},
		{"exactly fits", 5, 1},
		// 108, 99.9 and 91.8 overflow; 83.7 fits
		{"overflow", 6, 0.775},
		{"floor", 40, 0.25},
		{"grows back", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tb.SetText(lines(tt.lines)); err != nil {
				t.Fatalf("SetText() error = %v", err)
			}
			if got := tb.GetFontScale(); got != tt.want {
				t.Errorf("GetFontScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShrinkTextFontSize(t *testing.T) {
	d := newTestDoc(t)
	tb := shrinkBox(t, d)
	if err := tb.SetText(lines(6)); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	f := firstFont(t, tb)
	if sz, _ := f.GetSize(); !approx(sz, 13.95) {
		t.Errorf("GetSize() = %v, want 13.95", sz)
	}
	if sz, _ := f.GetAuthoredSize(); sz != 18 {
		t.Errorf("GetAuthoredSize() = %v, want 18", sz)
	}
}

func TestShrinkTextLargestPortion(t *testing.T) {
	d := newTestDoc(t)
	tb := shrinkBox(t, d)
	if err := tb.SetText(lines(4)); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	p, _ := tb.GetParagraphs().At(0)
	big, err := p.AddPortion(" big")
	if err != nil {
		t.Fatalf("AddPortion() error = %v", err)
	}

	// 36 + 3*18 = 90 still fits
	if err := big.GetFont().SetSize(36); err != nil {
		t.Fatalf("SetSize() error = %v", err)
	}
	if got := tb.GetFontScale(); got != 1 {
		t.Errorf("GetFontScale() = %v, want 1", got)
	}
	if err := big.GetFont().SetSize(40); err != nil {
		t.Fatalf("SetSize() error = %v", err)
	}
	if got := tb.GetFontScale(); got != 0.925 {
		t.Errorf("GetFontScale() = %v, want 0.925", got)
	}
}

func TestShrinkTextOptions(t *testing.T) {
	d := newTestDoc(t, WithAutofitOptions(AutofitOptions{ShrinkStep: 0.1, MinScale: 0.5}))
	tb := shrinkBox(t, d)
	if err := tb.SetText(lines(6)); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	if got := tb.GetFontScale(); got != 0.8 {
		t.Errorf("GetFontScale() = %v, want 0.8", got)
	}
	if err := tb.SetText(lines(40)); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	if got := tb.GetFontScale(); got != 0.5 {
		t.Errorf("GetFontScale() at floor = %v, want 0.5", got)
	}

	bad := newTestDoc(t, WithAutofitOptions(AutofitOptions{ShrinkStep: 2, MinScale: -1}))
	if got := bad.GetAutofitOptions(); got != DefaultAutofitOptions {
		t.Errorf("GetAutofitOptions() = %+v, want defaults", got)
	}
}

func resizeBox(t *testing.T, d *Document, y, h float64, anchor TextAnchor) (AutoShape, *TextBox) {
	t.Helper()
	s, _ := d.GetSlide(0)
	box, err := s.GetShapes().AddTextBox(100, y, 200, h, "a")
	if err != nil {
		t.Fatalf("AddTextBox() error = %v", err)
	}
	tb, _ := box.GetTextBox()
	if err := tb.SetAnchor(anchor); err != nil {
		t.Fatalf("SetAnchor() error = %v", err)
	}
	if err := tb.SetAutofit(AutofitResizeShape); err != nil {
		t.Fatalf("SetAutofit() error = %v", err)
	}
	return box, tb
}

func TestResizeShape(t *testing.T) {
	tests := []struct {
		anchor  TextAnchor
		wantY   float64
		wantTop bool
	}{
		{AnchorTop, 100, true},
		{AnchorMiddle, 82, false},
		{AnchorBottom, 64, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			d := newTestDoc(t)
			// one 18pt line plus insets is 25.2pt, so nothing moves yet
			box, tb := resizeBox(t, d, 100, 25.2, tt.anchor)
			if h, _ := box.GetHeight(); !approx(h, 25.2) {
				t.Fatalf("GetHeight() = %v, want 25.2", h)
			}

			if err := tb.SetText(lines(3)); err != nil {
				t.Fatalf("SetText() error = %v", err)
			}
			h, _ := box.GetHeight()
			y, _ := box.GetY()
			if !approx(h, 61.2) {
				t.Errorf("GetHeight() = %v, want 61.2", h)
			}
			if !approx(y, tt.wantY) {
				t.Errorf("GetY() = %v, want %v", y, tt.wantY)
			}
			if y > 100 {
				t.Errorf("growing text moved the shape down to %v", y)
			}
		})
	}
}

func TestResizeShapeShrinksTowardAnchor(t *testing.T) {
	// middle keeps the center and bottom keeps the bottom edge, so shorter
	// text moves those shapes down
	tests := []struct {
		anchor    TextAnchor
		grownY    float64
		shrunkY   float64
		keptPoint func(y, h float64) float64
	}{
		{AnchorTop, 100, 100, func(y, h float64) float64 { return y }},
		{AnchorMiddle, 82, 100, func(y, h float64) float64 { return y + h/2 }},
		{AnchorBottom, 64, 100, func(y, h float64) float64 { return y + h }},
	}
	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			d := newTestDoc(t)
			box, tb := resizeBox(t, d, 100, 25.2, tt.anchor)
			if err := tb.SetText(lines(3)); err != nil {
				t.Fatalf("SetText() error = %v", err)
			}
			y, _ := box.GetY()
			h, _ := box.GetHeight()
			if !approx(y, tt.grownY) {
				t.Fatalf("grown GetY() = %v, want %v", y, tt.grownY)
			}
			kept := tt.keptPoint(y, h)

			if err := tb.SetText("a"); err != nil {
				t.Fatalf("SetText() error = %v", err)
			}
			y, _ = box.GetY()
			h, _ = box.GetHeight()
			if !approx(h, 25.2) {
				t.Errorf("shrunk GetHeight() = %v, want 25.2", h)
			}
			if !approx(y, tt.shrunkY) {
				t.Errorf("shrunk GetY() = %v, want %v", y, tt.shrunkY)
			}
			if got := tt.keptPoint(y, h); !approx(got, kept) {
				t.Errorf("anchored point moved from %v to %v", kept, got)
			}
		})
	}
}

func TestResizeShapeKeepsBottomEdge(t *testing.T) {
	d := newTestDoc(t)
	box, tb := resizeBox(t, d, 200, 50, AnchorBottom)
	bottom := func() float64 {
		y, _ := box.GetY()
		h, _ := box.GetHeight()
		return y + h
	}
	if b := bottom(); !approx(b, 250) {
		t.Errorf("bottom after shrinking to one line = %v, want 250", b)
	}
	if err := tb.SetText(lines(5)); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	if b := bottom(); !approx(b, 250) {
		t.Errorf("bottom after growing = %v, want 250", b)
	}
}

func TestResizeShapeWidthWithoutWrap(t *testing.T) {
	d := newTestDoc(t)
	box, tb := resizeBox(t, d, 0, 30, AnchorTop)
	if err := tb.SetText("abcd"); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	if err := tb.SetWordWrap(false); err != nil {
		t.Fatalf("SetWordWrap() error = %v", err)
	}
	if w, _ := box.GetWidth(); !approx(w, 50.4) {
		t.Errorf("GetWidth() = %v, want 50.4", w)
	}
}

func TestResizeResetsScale(t *testing.T) {
	d := newTestDoc(t)
	tb := shrinkBox(t, d)
	if err := tb.SetText(lines(6)); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	if err := tb.SetAutofit(AutofitResizeShape); err != nil {
		t.Fatalf("SetAutofit() error = %v", err)
	}
	if got := tb.GetFontScale(); got != 1 {
		t.Errorf("GetFontScale() = %v, want 1", got)
	}
	if err := tb.SetAutofit(AutofitNone); err != nil {
		t.Fatalf("SetAutofit() error = %v", err)
	}
	if err := tb.SetText(lines(40)); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	if got := tb.GetFontScale(); got != 1 {
		t.Errorf("GetFontScale() with autofit off = %v, want 1", got)
	}
}

func TestAutofitInTableCell(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	tbl, err := s.GetShapes().AddTable(2, 2, 0, 0, 200, 100)
	if err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}
	cell, err := tbl.GetCell(1, 1)
	if err != nil {
		t.Fatalf("GetCell() error = %v", err)
	}
	tb := cell.GetTextBox()
	if err := tb.SetAutofit(AutofitShrinkText); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SetAutofit() in a cell error = %v, want ErrInvalidState", err)
	}
	if tb.GetAutofit() != AutofitNone {
		t.Errorf("GetAutofit() = %v, want None", tb.GetAutofit())
	}
	if err := tb.SetText(lines(50)); err != nil {
		t.Errorf("SetText() in a cell error = %v", err)
	}
}
