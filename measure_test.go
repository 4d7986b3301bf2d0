package slidedom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
)

func TestEstimateMeasurer(t *testing.T) {
	fd := FontDescriptor{Family: "Calibri", Size: 10}
	tests := []struct {
		name     string
		text     string
		fd       FontDescriptor
		maxWidth float64
		wantW    float64
		wantH    float64
	}{
		{"empty is one line", "", fd, 0, 0, 12},
		{"narrow runes", "ab", fd, 0, 10, 12},
		{"capitals are wider", "AB", fd, 0, 12, 12},
		{"wide runes", "中文", fd, 0, 20, 12},
		{"bold", "ab", FontDescriptor{Size: 10, Bold: true}, 0, 10.5, 12},
		{"paragraph newline", "ab\nabcd", fd, 0, 20, 24},
		{"line break", "ab\vabcd", fd, 0, 20, 24},
		{"no wrap without width", "aa aa aa", fd, 0, 35, 12},
		{"wraps at width", "aa aa aa", fd, 25, 22.5, 24},
		{"long word overflows", "aaaaaaaa", fd, 10, 40, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := EstimateMeasurer{}.Measure(tt.text, tt.fd, tt.maxWidth)
			if err != nil {
				t.Fatalf("Measure() error = %v", err)
			}
			if !approx(w, tt.wantW) || !approx(h, tt.wantH) {
				t.Errorf("Measure() = %v x %v, want %v x %v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("ab  中文 cd")
	want := []token{{"ab", false}, {"中", true}, {"文", false}, {"cd", true}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(token{})); diff != "" {
		t.Errorf("tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestFontMeasurerFallsBack(t *testing.T) {
	m := &FontMeasurer{Cache: NewFontCache(t.TempDir()), Fallback: gridMeasurer{}}
	fd := FontDescriptor{Family: "No Such Font For Tests", Size: 20}
	w, h, err := m.Measure("abc", fd, 0)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if w != 30 || h != 20 {
		t.Errorf("Measure() = %v x %v, want the fallback's 30 x 20", w, h)
	}
}

func TestFontMeasurerWithLoadedFont(t *testing.T) {
	fc := NewFontCache(t.TempDir())
	if err := fc.LoadFontData("Go Regular", goregular.TTF); err != nil {
		t.Fatalf("LoadFontData() error = %v", err)
	}
	if _, ok := fc.Face("go regular", 12, false, false); !ok {
		t.Fatalf("Face() did not find the loaded font")
	}
	m := &FontMeasurer{Cache: fc}
	fd := FontDescriptor{Family: "Go Regular", Size: 12}

	narrow, h, err := m.Measure("iiii", fd, 0)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	wide, _, _ := m.Measure("WWWW", fd, 0)
	if narrow <= 0 || narrow >= wide {
		t.Errorf("advances: iiii = %v, WWWW = %v", narrow, wide)
	}
	if minH := fd.Size * lineSpacing; h < minH && !approx(h, minH) {
		t.Errorf("line height = %v, want at least %v", h, minH)
	}

	_, h2, _ := m.Measure("WWWW WWWW", fd, wide+1)
	if !approx(h2, 2*h) {
		t.Errorf("wrapped height = %v, want %v", h2, 2*h)
	}
}

func TestLoadFontDataRejectsGarbage(t *testing.T) {
	fc := NewFontCache()
	if err := fc.LoadFontData("junk", []byte("not a font")); !errors.Is(err, ErrFormat) {
		t.Errorf("LoadFontData() error = %v, want ErrFormat", err)
	}
}
