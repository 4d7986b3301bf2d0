package slidedom

import (
	"fmt"
	"math"
)

// FillType represents the kind of a fill.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
	FillGradient
	FillPicture
	FillPattern
	FillSlideBackground
)

func (t FillType) String() string {
	switch t {
	case FillNone:
		return "NoFill"
	case FillSolid:
		return "Solid"
	case FillGradient:
		return "Gradient"
	case FillPicture:
		return "Picture"
	case FillPattern:
		return "Pattern"
	case FillSlideBackground:
		return "SlideBackground"
	}
	return fmt.Sprintf("FillType(%d)", int(t))
}

// SolidFill is a single-color fill.
type SolidFill struct {
	Color ColorSpec
}

// GradientStop is one color stop of a gradient; Position is per-mille.
type GradientStop struct {
	Position int
	Color    ColorSpec
}

// GradientFill is a linear gradient; Angle is in degrees.
type GradientFill struct {
	Angle float64
	Stops []GradientStop
}

// BlipFill is a picture fill.
type BlipFill struct {
	Media *MediaHandle
}

// PatternFill is a preset two-color pattern.
type PatternFill struct {
	Preset     string
	Foreground ColorSpec
	Background ColorSpec
}

// ShapeProperties holds the fill elements of a shape or background. More
// than one element may be present in a loaded document; ClassifyFill picks
// the effective one.
type ShapeProperties struct {
	Solid    *SolidFill
	Gradient *GradientFill
	Blip     *BlipFill
	Pattern  *PatternFill
	NoFill   bool
}

func (p ShapeProperties) clone() ShapeProperties {
	out := ShapeProperties{NoFill: p.NoFill}
	if p.Solid != nil {
		out.Solid = &SolidFill{Color: p.Solid.Color.clone()}
	}
	if p.Gradient != nil {
		g := &GradientFill{Angle: p.Gradient.Angle}
		for _, s := range p.Gradient.Stops {
			g.Stops = append(g.Stops, GradientStop{Position: s.Position, Color: s.Color.clone()})
		}
		out.Gradient = g
	}
	if p.Blip != nil {
		out.Blip = &BlipFill{Media: p.Blip.Media}
	}
	if p.Pattern != nil {
		out.Pattern = &PatternFill{
			Preset:     p.Pattern.Preset,
			Foreground: p.Pattern.Foreground.clone(),
			Background: p.Pattern.Background.clone(),
		}
	}
	return out
}

func (p *ShapeProperties) clear() {
	*p = ShapeProperties{}
}

// ClassifyFill returns the effective fill kind. Elements are checked in
// order solid, gradient, picture, pattern; then the use-background flag.
func ClassifyFill(p *ShapeProperties, useBackground bool) FillType {
	switch {
	case p == nil:
	case p.Solid != nil:
		return FillSolid
	case p.Gradient != nil:
		return FillGradient
	case p.Blip != nil:
		return FillPicture
	case p.Pattern != nil:
		return FillPattern
	}
	if useBackground {
		return FillSlideBackground
	}
	return FillNone
}

// fillHost is what a Fill view reads and edits: a shape's properties or a
// slide background.
type fillHost interface {
	document() *Document
	// readProps returns the properties getters look at.
	readProps() (*ShapeProperties, bool, error)
	// writeProps returns the properties setters edit.
	writeProps() (*ShapeProperties, error)
	setUseBackground(bool)
	context() (styleContext, error)
}

type shapeFillHost struct{ s Shape }

func (h shapeFillHost) document() *Document { return h.s.doc }

func (h shapeFillHost) readProps() (*ShapeProperties, bool, error) {
	n, err := h.s.node()
	if err != nil {
		return nil, false, err
	}
	return &n.props, n.useBg, nil
}

func (h shapeFillHost) writeProps() (*ShapeProperties, error) {
	n, err := h.s.node()
	if err != nil {
		return nil, err
	}
	return &n.props, nil
}

func (h shapeFillHost) setUseBackground(v bool) {
	if n, err := h.s.node(); err == nil {
		n.useBg = v
	}
}

func (h shapeFillHost) context() (styleContext, error) {
	n, err := h.s.node()
	if err != nil {
		return styleContext{}, err
	}
	return n.owner.context()
}

type slideFillHost struct{ s *Slide }

func (h slideFillHost) document() *Document { return h.s.doc }

// readProps falls back to the master background when the slide has none.
func (h slideFillHost) readProps() (*ShapeProperties, bool, error) {
	if h.s.removed {
		return nil, false, fmt.Errorf("slide was removed: %w", ErrInvalidState)
	}
	bg := &h.s.background
	if ClassifyFill(bg, false) == FillNone && !bg.NoFill {
		if l := h.s.layout; l != nil && l.master != nil {
			return &l.master.background, false, nil
		}
	}
	return bg, false, nil
}

func (h slideFillHost) writeProps() (*ShapeProperties, error) {
	if h.s.removed {
		return nil, fmt.Errorf("slide was removed: %w", ErrInvalidState)
	}
	return &h.s.background, nil
}

func (h slideFillHost) setUseBackground(bool) {}

func (h slideFillHost) context() (styleContext, error) {
	return h.s.shapes.context()
}

// Fill is a view over the fill of a shape or slide background. It is
// computed on every call.
type Fill struct {
	host fillHost
}

// GetType returns the fill kind.
func (f *Fill) GetType() (FillType, error) {
	p, useBg, err := f.host.readProps()
	if err != nil {
		return FillNone, err
	}
	return ClassifyFill(p, useBg), nil
}

// GetColor returns the 6-digit hex color of a solid fill, resolving scheme
// references through the theme. A slide-background fill reports the slide
// background color. Other kinds return "".
func (f *Fill) GetColor() (string, error) {
	p, useBg, err := f.host.readProps()
	if err != nil {
		return "", err
	}
	switch ClassifyFill(p, useBg) {
	case FillSolid:
		ctx, err := f.host.context()
		if err != nil {
			return "", err
		}
		c, err := ctx.resolveColor(p.Solid.Color)
		if err != nil {
			return "", err
		}
		return c.String(), nil
	case FillSlideBackground:
		ctx, err := f.host.context()
		if err != nil {
			return "", err
		}
		if ctx.slide == nil {
			return "", nil
		}
		return ctx.slide.GetBackground().GetColor()
	}
	return "", nil
}

// GetAlpha returns the solid fill opacity in percent (default 100).
func (f *Fill) GetAlpha() (float64, error) {
	return f.modifier(func(c ColorSpec) *int { return c.Alpha }, 100, true)
}

// GetLuminanceModulation returns the luminance modulation in percent
// (default 100). Direct RGB colors always report the default.
func (f *Fill) GetLuminanceModulation() (float64, error) {
	return f.modifier(func(c ColorSpec) *int { return c.LumMod }, 100, false)
}

// GetLuminanceOffset returns the luminance offset in percent (default 0).
// Direct RGB colors always report the default.
func (f *Fill) GetLuminanceOffset() (float64, error) {
	return f.modifier(func(c ColorSpec) *int { return c.LumOff }, 0, false)
}

// modifier reads a per-mille modifier of the solid color as a percentage.
func (f *Fill) modifier(pick func(ColorSpec) *int, def float64, rgb bool) (float64, error) {
	p, useBg, err := f.host.readProps()
	if err != nil {
		return 0, err
	}
	if ClassifyFill(p, useBg) != FillSolid {
		return def, nil
	}
	spec := p.Solid.Color
	if !spec.IsScheme() && !rgb {
		return def, nil
	}
	v := pick(spec)
	if v == nil {
		return def, nil
	}
	return float64(*v) / 10, nil
}

// GetPicture returns the media entry of a picture fill, or nil.
func (f *Fill) GetPicture() (*MediaHandle, error) {
	p, useBg, err := f.host.readProps()
	if err != nil {
		return nil, err
	}
	if ClassifyFill(p, useBg) != FillPicture {
		return nil, nil
	}
	return p.Blip.Media, nil
}

// GetGradient returns a copy of the gradient, or nil.
func (f *Fill) GetGradient() (*GradientFill, error) {
	p, useBg, err := f.host.readProps()
	if err != nil {
		return nil, err
	}
	if ClassifyFill(p, useBg) != FillGradient {
		return nil, nil
	}
	return p.clone().Gradient, nil
}

// SetColor installs a solid fill with a direct color, replacing any other
// fill kind. Alpha from an 8-digit hex is kept as an alpha modifier.
func (f *Fill) SetColor(hex string) error {
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}
	return f.setSolid(RGBColor(c))
}

// SetSchemeColor installs a solid fill referencing a theme slot.
func (f *Fill) SetSchemeColor(slot SchemeColor) error {
	if slotIndex(slot) < 0 {
		if _, ok := DefaultColorMap()[slot]; !ok {
			return fmt.Errorf("scheme color %q: %w", slot, ErrFormat)
		}
	}
	return f.setSolid(SchemeRef(slot))
}

func (f *Fill) setSolid(spec ColorSpec) error {
	p, err := f.host.writeProps()
	if err != nil {
		return err
	}
	p.clear()
	p.Solid = &SolidFill{Color: spec}
	f.host.setUseBackground(false)
	return nil
}

// SetPicture installs a picture fill. Identical bytes anywhere in the
// document share one media entry.
func (f *Fill) SetPicture(data []byte) error {
	p, err := f.host.writeProps()
	if err != nil {
		return err
	}
	h, err := f.host.document().media.Add(data, "")
	if err != nil {
		return err
	}
	p.clear()
	p.Blip = &BlipFill{Media: h}
	f.host.setUseBackground(false)
	return nil
}

// SetGradient installs a linear gradient.
func (f *Fill) SetGradient(angle float64, stops ...GradientStop) error {
	if len(stops) < 2 {
		return fmt.Errorf("gradient needs at least two stops: %w", ErrInvalidState)
	}
	p, err := f.host.writeProps()
	if err != nil {
		return err
	}
	g := &GradientFill{Angle: math.Mod(angle, 360)}
	for _, s := range stops {
		g.Stops = append(g.Stops, GradientStop{Position: min(max(s.Position, 0), 1000), Color: s.Color.clone()})
	}
	p.clear()
	p.Gradient = g
	f.host.setUseBackground(false)
	return nil
}

// SetPattern installs a preset pattern fill.
func (f *Fill) SetPattern(preset, fgHex, bgHex string) error {
	fg, err := ParseColor(fgHex)
	if err != nil {
		return err
	}
	bg, err := ParseColor(bgHex)
	if err != nil {
		return err
	}
	p, err := f.host.writeProps()
	if err != nil {
		return err
	}
	p.clear()
	p.Pattern = &PatternFill{Preset: preset, Foreground: RGBColor(fg), Background: RGBColor(bg)}
	f.host.setUseBackground(false)
	return nil
}

// SetSlideBackground makes the shape show the slide background.
func (f *Fill) SetSlideBackground() error {
	if _, ok := f.host.(shapeFillHost); !ok {
		return fmt.Errorf("slide background on a background: %w", ErrInvalidState)
	}
	p, err := f.host.writeProps()
	if err != nil {
		return err
	}
	p.clear()
	f.host.setUseBackground(true)
	return nil
}

// SetNoFill removes every fill element.
func (f *Fill) SetNoFill() error {
	p, err := f.host.writeProps()
	if err != nil {
		return err
	}
	p.clear()
	p.NoFill = true
	f.host.setUseBackground(false)
	return nil
}
