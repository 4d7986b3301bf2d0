package slidedom

import (
	"fmt"
	"math"
	"strings"
)

// Color is an RGB color with a separate alpha channel.
type Color struct {
	R, G, B uint8
	A       uint8
}

// Predefined colors.
var (
	ColorBlack  = Color{0x00, 0x00, 0x00, 0xFF}
	ColorWhite  = Color{0xFF, 0xFF, 0xFF, 0xFF}
	ColorRed    = Color{0xFF, 0x00, 0x00, 0xFF}
	ColorGreen  = Color{0x00, 0xFF, 0x00, 0xFF}
	ColorBlue   = Color{0x00, 0x00, 0xFF, 0xFF}
	ColorYellow = Color{0xFF, 0xFF, 0x00, 0xFF}
)

// ParseColor parses a hex color. It accepts 3, 4, 6 or 8 hex digits with an
// optional leading "#". The short forms expand each digit by duplication and
// the 4th digit or 4th byte, when present, is alpha. Colors without alpha are
// fully opaque.
func ParseColor(hex string) (Color, error) {
	s := strings.TrimPrefix(hex, "#")
	for i := 0; i < len(s); i++ {
		if hexVal(s[i]) < 0 {
			return Color{}, fmt.Errorf("color %q: invalid hex digit %q: %w", hex, s[i], ErrFormat)
		}
	}

	switch len(s) {
	case 3, 4:
		var b [4]uint8
		b[3] = 0xFF
		for i := 0; i < len(s); i++ {
			b[i] = uint8(hexVal(s[i])) * 17
		}
		return Color{b[0], b[1], b[2], b[3]}, nil
	case 6, 8:
		c := Color{
			R: parseHexByte(s, 0),
			G: parseHexByte(s, 2),
			B: parseHexByte(s, 4),
			A: 0xFF,
		}
		if len(s) == 8 {
			c.A = parseHexByte(s, 6)
		}
		return c, nil
	}
	return Color{}, fmt.Errorf("color %q: want 3, 4, 6 or 8 hex digits: %w", hex, ErrFormat)
}

// MustParseColor is like ParseColor but panics on malformed input.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the 6-digit uppercase RGB form. Alpha is not included.
func (c Color) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Hex8 renders the 8-digit RGBA form.
func (c Color) Hex8() string {
	return fmt.Sprintf("%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// withLuminance scales the HSL lightness of c by mod and then adds off.
// Both are fractions (1.0 = 100%).
func (c Color) withLuminance(mod, off float64) Color {
	if mod == 1 && off == 0 {
		return c
	}
	h, s, l := rgbToHSL(c)
	l = math.Max(0, math.Min(1, l*mod+off))
	out := hslToRGB(h, s, l)
	out.A = c.A
	return out
}

func rgbToHSL(c Color) (h, s, l float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	maxV := math.Max(r, math.Max(g, b))
	minV := math.Min(r, math.Min(g, b))
	l = (maxV + minV) / 2
	if maxV == minV {
		return 0, 0, l
	}
	d := maxV - minV
	if l > 0.5 {
		s = d / (2 - maxV - minV)
	} else {
		s = d / (maxV + minV)
	}
	switch maxV {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) Color {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return Color{v, v, v, 0xFF}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	conv := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 0.5:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return Color{conv(h + 1.0/3), conv(h), conv(h - 1.0/3), 0xFF}
}
