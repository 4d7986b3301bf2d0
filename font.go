package slidedom

import (
	"fmt"
	"strings"
)

// FontProps is a set of explicitly authored run properties. A nil field is
// absent and falls through to the next cascade link.
type FontProps struct {
	Size      *float64 // points
	Bold      *bool
	Italic    *bool
	Latin     *string
	EastAsian *string
	Complex   *string
	Color     *ColorSpec
}

func (f FontProps) clone() FontProps {
	out := FontProps{
		Size:      cloneVal(f.Size),
		Bold:      cloneVal(f.Bold),
		Italic:    cloneVal(f.Italic),
		Latin:     cloneVal(f.Latin),
		EastAsian: cloneVal(f.EastAsian),
		Complex:   cloneVal(f.Complex),
	}
	if f.Color != nil {
		c := f.Color.clone()
		out.Color = &c
	}
	return out
}

func (f FontProps) isEmpty() bool {
	return f.Size == nil && f.Bold == nil && f.Italic == nil && f.Latin == nil &&
		f.EastAsian == nil && f.Complex == nil && f.Color == nil
}

func (f FontProps) equal(o FontProps) bool {
	return eqPtr(f.Size, o.Size) && eqPtr(f.Bold, o.Bold) && eqPtr(f.Italic, o.Italic) &&
		eqPtr(f.Latin, o.Latin) && eqPtr(f.EastAsian, o.EastAsian) && eqPtr(f.Complex, o.Complex) &&
		f.Color.equal(o.Color)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneVal[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Font is the formatting view of one portion. Getters return values
// resolved through the style cascade; setters write the portion's own
// properties.
type Font struct {
	p *Portion
}

// GetSize returns the displayed size in points: the resolved size times the
// text box font scale.
func (f *Font) GetSize() (float64, error) {
	sz, err := f.GetAuthoredSize()
	if err != nil {
		return 0, err
	}
	return sz * f.p.para.box.scale, nil
}

// GetAuthoredSize returns the resolved size before autofit scaling.
func (f *Font) GetAuthoredSize() (float64, error) {
	if err := f.p.check(); err != nil {
		return 0, err
	}
	return resolveFont(f.p, func(fp *FontProps) *float64 { return fp.Size })
}

// SetSize sets the size in points and re-runs autofit.
func (f *Font) SetSize(pt float64) error {
	if err := f.p.check(); err != nil {
		return err
	}
	if pt <= 0 {
		return fmt.Errorf("font size %g: %w", pt, ErrInvalidState)
	}
	f.p.props.Size = &pt
	return f.p.para.box.changed()
}

// IsBold reports whether the portion is bold.
func (f *Font) IsBold() (bool, error) {
	if err := f.p.check(); err != nil {
		return false, err
	}
	return resolveFont(f.p, func(fp *FontProps) *bool { return fp.Bold })
}

// SetBold sets the bold flag.
func (f *Font) SetBold(b bool) error {
	if err := f.p.check(); err != nil {
		return err
	}
	f.p.props.Bold = &b
	return f.p.para.box.changed()
}

// IsItalic reports whether the portion is italic.
func (f *Font) IsItalic() (bool, error) {
	if err := f.p.check(); err != nil {
		return false, err
	}
	return resolveFont(f.p, func(fp *FontProps) *bool { return fp.Italic })
}

// SetItalic sets the italic flag.
func (f *Font) SetItalic(b bool) error {
	if err := f.p.check(); err != nil {
		return err
	}
	f.p.props.Italic = &b
	return f.p.para.box.changed()
}

// GetLatinName returns the Latin typeface. Theme font references such as
// "+mn-lt" are resolved.
func (f *Font) GetLatinName() (string, error) {
	return f.typeface(func(fp *FontProps) *string { return fp.Latin })
}

// SetLatinName sets the Latin typeface.
func (f *Font) SetLatinName(name string) error {
	if err := f.p.check(); err != nil {
		return err
	}
	f.p.props.Latin = &name
	return f.p.para.box.changed()
}

// GetEastAsianName returns the East Asian typeface.
func (f *Font) GetEastAsianName() (string, error) {
	return f.typeface(func(fp *FontProps) *string { return fp.EastAsian })
}

// SetEastAsianName sets the East Asian typeface.
func (f *Font) SetEastAsianName(name string) error {
	if err := f.p.check(); err != nil {
		return err
	}
	f.p.props.EastAsian = &name
	return f.p.para.box.changed()
}

func (f *Font) typeface(pick func(*FontProps) *string) (string, error) {
	if err := f.p.check(); err != nil {
		return "", err
	}
	name, err := resolveFont(f.p, pick)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(name, "+") {
		return name, nil
	}
	ctx, err := f.p.context()
	if err != nil {
		return "", err
	}
	return ctx.theme.resolveTypeface(name)
}

// GetColor returns the resolved color as 6-digit hex, with luminance
// modifiers applied.
func (f *Font) GetColor() (string, error) {
	if err := f.p.check(); err != nil {
		return "", err
	}
	spec, err := resolveFont(f.p, func(fp *FontProps) *ColorSpec { return fp.Color })
	if err != nil {
		return "", err
	}
	ctx, err := f.p.context()
	if err != nil {
		return "", err
	}
	c, err := ctx.effectiveColor(spec)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// SetColor sets a direct RGB color from hex.
func (f *Font) SetColor(hex string) error {
	if err := f.p.check(); err != nil {
		return err
	}
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}
	spec := RGBColor(c)
	f.p.props.Color = &spec
	return nil
}

// SetSchemeColor sets a theme slot reference.
func (f *Font) SetSchemeColor(slot SchemeColor) error {
	if err := f.p.check(); err != nil {
		return err
	}
	spec := SchemeRef(slot)
	f.p.props.Color = &spec
	return nil
}

// GetProps returns a copy of the portion's own properties.
func (f *Font) GetProps() FontProps {
	return f.p.props.clone()
}
