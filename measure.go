package slidedom

import (
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"
)

// FontDescriptor is the resolved font a piece of text is measured with.
// Size is in points and already includes any autofit scale.
type FontDescriptor struct {
	Family          string
	EastAsianFamily string
	Size            float64
	Bold            bool
	Italic          bool
}

// TextMeasurer measures text for autofit. Measure wraps text at maxWidth
// points (no wrapping when maxWidth <= 0) and returns the widest line and
// the total height in points. "\n" and "\v" break lines. Empty text
// measures as one empty line.
type TextMeasurer interface {
	Measure(text string, font FontDescriptor, maxWidth float64) (w, h float64, err error)
}

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// EstimateMeasurer approximates advances from the font size: half an em
// for narrow runes, a full em for East Asian wide and fullwidth runes. It
// needs no font files.
type EstimateMeasurer struct{}

// Measure implements TextMeasurer.
func (EstimateMeasurer) Measure(text string, fd FontDescriptor, maxWidth float64) (float64, float64, error) {
	em := fd.Size
	if fd.Bold {
		em *= 1.05
	}
	advance := func(s string) float64 {
		var w float64
		for _, r := range s {
			w += em * runeEms(r)
		}
		return w
	}
	lines := layoutLines(text, maxWidth, advance)
	return widest(lines), float64(len(lines)) * fd.Size * lineSpacing, nil
}

func runeEms(r rune) float64 {
	switch {
	case isWide(r):
		return 1
	case r == ' ':
		return 0.25
	case unicode.IsUpper(r):
		return 0.6
	}
	return 0.5
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// FontMeasurer measures with real glyph advances from a FontCache. Text
// whose font is not installed goes to Fallback.
type FontMeasurer struct {
	Cache    *FontCache
	Fallback TextMeasurer
}

// Measure implements TextMeasurer.
func (m *FontMeasurer) Measure(text string, fd FontDescriptor, maxWidth float64) (float64, float64, error) {
	latin, ok := m.Cache.Face(fd.Family, fd.Size, fd.Bold, fd.Italic)
	if !ok {
		if m.Fallback == nil {
			return EstimateMeasurer{}.Measure(text, fd, maxWidth)
		}
		return m.Fallback.Measure(text, fd, maxWidth)
	}
	ea := latin
	if fd.EastAsianFamily != "" {
		if f, ok := m.Cache.Face(fd.EastAsianFamily, fd.Size, fd.Bold, fd.Italic); ok {
			ea = f
		}
	}
	advance := func(s string) float64 {
		var w fixed.Int26_6
		for _, r := range s {
			face := latin
			if isWide(r) {
				face = ea
			}
			if a, ok := face.GlyphAdvance(r); ok {
				w += a
			}
		}
		return fixedToFloat(w)
	}
	lineH := max(faceHeight(latin), faceHeight(ea), fd.Size*lineSpacing)
	lines := layoutLines(text, maxWidth, advance)
	return widest(lines), float64(len(lines)) * lineH, nil
}

func faceHeight(f font.Face) float64 {
	return fixedToFloat(f.Metrics().Height)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// token is an unbreakable piece of a line: a word, or a single wide rune.
type token struct {
	text  string
	space bool // preceded by whitespace
}

// tokenize splits a line at whitespace and around wide runes, which may
// break anywhere.
func tokenize(line string) []token {
	var out []token
	var cur strings.Builder
	space := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, token{text: cur.String(), space: space})
			cur.Reset()
			space = false
		}
	}
	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			flush()
			space = true
		case isWide(r):
			flush()
			out = append(out, token{text: string(r), space: space})
			space = false
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// layoutLines breaks text into lines greedily and returns the width of
// each line.
func layoutLines(text string, maxWidth float64, advance func(string) float64) []float64 {
	text = strings.ReplaceAll(text, lineBreak, "\n")
	spaceW := advance(" ")
	var widths []float64
	for _, line := range strings.Split(text, "\n") {
		var cur float64
		started := false
		for _, t := range tokenize(line) {
			w := advance(t.text)
			gap := 0.0
			if t.space && started {
				gap = spaceW
			}
			if started && maxWidth > 0 && cur+gap+w > maxWidth {
				widths = append(widths, cur)
				cur, gap = 0, 0
			}
			cur += gap + w
			started = true
		}
		widths = append(widths, cur)
	}
	return widths
}

func widest(lines []float64) float64 {
	var w float64
	for _, l := range lines {
		w = max(w, l)
	}
	return w
}
