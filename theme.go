package slidedom

import "fmt"

// SchemeColor names a theme color slot, or one of the aliases (tx1, bg1,
// tx2, bg2) that a master's color map translates into a slot.
type SchemeColor string

// The twelve color scheme slots.
const (
	SchemeDark1             SchemeColor = "dk1"
	SchemeLight1            SchemeColor = "lt1"
	SchemeDark2             SchemeColor = "dk2"
	SchemeLight2            SchemeColor = "lt2"
	SchemeAccent1           SchemeColor = "accent1"
	SchemeAccent2           SchemeColor = "accent2"
	SchemeAccent3           SchemeColor = "accent3"
	SchemeAccent4           SchemeColor = "accent4"
	SchemeAccent5           SchemeColor = "accent5"
	SchemeAccent6           SchemeColor = "accent6"
	SchemeHyperlink         SchemeColor = "hlink"
	SchemeFollowedHyperlink SchemeColor = "folHlink"
)

// Aliases mapped through the master color map.
const (
	SchemeText1       SchemeColor = "tx1"
	SchemeBackground1 SchemeColor = "bg1"
	SchemeText2       SchemeColor = "tx2"
	SchemeBackground2 SchemeColor = "bg2"
)

// schemeSlots lists the slots in persisted order.
var schemeSlots = [12]SchemeColor{
	SchemeDark1, SchemeLight1, SchemeDark2, SchemeLight2,
	SchemeAccent1, SchemeAccent2, SchemeAccent3, SchemeAccent4, SchemeAccent5, SchemeAccent6,
	SchemeHyperlink, SchemeFollowedHyperlink,
}

func slotIndex(s SchemeColor) int {
	for i, slot := range schemeSlots {
		if slot == s {
			return i
		}
	}
	return -1
}

// ColorScheme maps the twelve scheme slots to concrete colors.
type ColorScheme struct {
	Name   string
	colors [12]Color
}

// Get returns the color of a slot.
func (cs *ColorScheme) Get(slot SchemeColor) (Color, error) {
	i := slotIndex(slot)
	if i < 0 {
		return Color{}, fmt.Errorf("color scheme slot %q: %w", slot, ErrNotFound)
	}
	return cs.colors[i], nil
}

// Set assigns the color of a slot.
func (cs *ColorScheme) Set(slot SchemeColor, c Color) error {
	i := slotIndex(slot)
	if i < 0 {
		return fmt.Errorf("color scheme slot %q: %w", slot, ErrNotFound)
	}
	cs.colors[i] = c
	return nil
}

// FontCollection names the typefaces of one tier of a font scheme.
type FontCollection struct {
	Latin     string
	EastAsian string
	Complex   string
}

// FontScheme holds the major (headings) and minor (body) fonts.
type FontScheme struct {
	Name  string
	Major FontCollection
	Minor FontCollection
}

// Theme holds a color scheme and a font scheme.
type Theme struct {
	Name   string
	Colors ColorScheme
	Fonts  FontScheme
}

// NewOfficeTheme returns the stock Office theme.
func NewOfficeTheme() *Theme {
	t := &Theme{
		Name:   "Office Theme",
		Colors: ColorScheme{Name: "Office"},
		Fonts: FontScheme{
			Name:  "Office",
			Major: FontCollection{Latin: "Calibri Light"},
			Minor: FontCollection{Latin: "Calibri"},
		},
	}
	for i, hex := range []string{
		"000000", "FFFFFF", "44546A", "E7E6E6",
		"4472C4", "ED7D31", "A5A5A5", "FFC000", "5B9BD5", "70AD47",
		"0563C1", "954F72",
	} {
		t.Colors.colors[i] = MustParseColor(hex)
	}
	return t
}

// ColorMap translates the tx/bg aliases used by text and fills into scheme
// slots. It belongs to a slide master.
type ColorMap map[SchemeColor]SchemeColor

// DefaultColorMap is the conventional light-background mapping.
func DefaultColorMap() ColorMap {
	return ColorMap{
		SchemeBackground1: SchemeLight1,
		SchemeText1:       SchemeDark1,
		SchemeBackground2: SchemeLight2,
		SchemeText2:       SchemeDark2,
	}
}

func (m ColorMap) slot(c SchemeColor) SchemeColor {
	if mapped, ok := m[c]; ok {
		return mapped
	}
	return c
}

// ColorSpec is a color as authored: either a direct RGB value or a scheme
// reference, with optional modifiers in per-mille (1000 = 100%).
type ColorSpec struct {
	RGB    Color
	Scheme SchemeColor
	Alpha  *int
	LumMod *int
	LumOff *int
}

// RGBColor returns a direct color spec. An alpha below 255 is carried as
// an alpha modifier.
func RGBColor(c Color) ColorSpec {
	spec := ColorSpec{RGB: Color{c.R, c.G, c.B, 0xFF}}
	if c.A != 0xFF {
		a := int(c.A) * 1000 / 255
		spec.Alpha = &a
	}
	return spec
}

// SchemeRef returns a spec that refers to a theme slot.
func SchemeRef(s SchemeColor) ColorSpec {
	return ColorSpec{Scheme: s}
}

// IsScheme reports whether the color refers to a theme slot.
func (c ColorSpec) IsScheme() bool { return c.Scheme != "" }

func (c ColorSpec) clone() ColorSpec {
	out := c
	out.Alpha = cloneInt(c.Alpha)
	out.LumMod = cloneInt(c.LumMod)
	out.LumOff = cloneInt(c.LumOff)
	return out
}

func (c *ColorSpec) equal(o *ColorSpec) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.RGB == o.RGB && c.Scheme == o.Scheme &&
		eqPtr(c.Alpha, o.Alpha) && eqPtr(c.LumMod, o.LumMod) && eqPtr(c.LumOff, o.LumOff)
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
