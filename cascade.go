package slidedom

import "fmt"

// Default run size when nothing in the cascade sets one.
const defaultFontSize = 18.0

// styleContext is the template chain above a part: the owning slide, its
// layout, master and theme. Scheme colors resolve against this theme only.
type styleContext struct {
	slide  *Slide
	layout *SlideLayout
	master *SlideMaster
	theme  *Theme
}

func (c *ShapeCollection) context() (styleContext, error) {
	var ctx styleContext
	switch {
	case c.slide != nil:
		ctx.slide = c.slide
		ctx.layout = c.slide.layout
		if ctx.layout == nil {
			return ctx, fmt.Errorf("slide has no layout: %w", ErrInconsistentDocument)
		}
		ctx.master = ctx.layout.master
	case c.layout != nil:
		ctx.layout = c.layout
		ctx.master = c.layout.master
	case c.master != nil:
		ctx.master = c.master
	}
	if ctx.master == nil {
		return ctx, fmt.Errorf("layout has no master: %w", ErrInconsistentDocument)
	}
	ctx.theme = ctx.master.theme
	if ctx.theme == nil {
		return ctx, fmt.Errorf("master %q has no theme: %w", ctx.master.name, ErrInconsistentDocument)
	}
	return ctx, nil
}

// resolveColor substitutes a scheme reference with the theme color. Direct
// colors are returned as authored. Modifiers are not applied.
func (ctx styleContext) resolveColor(spec ColorSpec) (Color, error) {
	if !spec.IsScheme() {
		return spec.RGB, nil
	}
	slot := ctx.master.colorMap.slot(spec.Scheme)
	c, err := ctx.theme.Colors.Get(slot)
	if err != nil {
		return Color{}, fmt.Errorf("scheme color %q: %w", spec.Scheme, ErrInconsistentDocument)
	}
	return c, nil
}

// ResolveColor resolves spec in the context of the part holding s and
// applies its alpha and luminance modifiers.
func (d *Document) ResolveColor(s Shape, spec ColorSpec) (Color, error) {
	n, err := s.node()
	if err != nil {
		return Color{}, err
	}
	ctx, err := n.owner.context()
	if err != nil {
		return Color{}, err
	}
	return ctx.effectiveColor(spec)
}

func (ctx styleContext) effectiveColor(spec ColorSpec) (Color, error) {
	c, err := ctx.resolveColor(spec)
	if err != nil {
		return Color{}, err
	}
	mod, off := 1.0, 0.0
	if spec.LumMod != nil {
		mod = float64(*spec.LumMod) / 1000
	}
	if spec.LumOff != nil {
		off = float64(*spec.LumOff) / 1000
	}
	c = c.withLuminance(mod, off)
	c.A = 0xFF
	if spec.Alpha != nil {
		c.A = uint8(min(max(*spec.Alpha, 0), 1000) * 255 / 1000)
	}
	return c, nil
}

// resolveTypeface maps a theme font reference such as "+mj-lt" to a name.
func (t *Theme) resolveTypeface(ref string) (string, error) {
	var coll FontCollection
	switch ref[:min(len(ref), 4)] {
	case "+mj-":
		coll = t.Fonts.Major
	case "+mn-":
		coll = t.Fonts.Minor
	default:
		return "", fmt.Errorf("theme font reference %q: %w", ref, ErrInconsistentDocument)
	}
	switch ref[min(len(ref), 4):] {
	case "lt":
		return coll.Latin, nil
	case "ea":
		return coll.EastAsian, nil
	case "cs":
		return coll.Complex, nil
	}
	return "", fmt.Errorf("theme font reference %q: %w", ref, ErrInconsistentDocument)
}

// cascadeStep is one link of the font cascade. props may be empty.
type cascadeStep struct {
	name  string
	props *FontProps
}

func (r *Portion) context() (styleContext, error) {
	n, err := r.para.box.owner.node()
	if err != nil {
		return styleContext{}, err
	}
	return n.owner.context()
}

// cascade returns the ordered links consulted for r's formatting: the run,
// the text box level style, the layout and master placeholders, the master
// text style and finally the theme defaults.
func (r *Portion) cascade() ([]cascadeStep, error) {
	tb := r.para.box
	n, err := tb.owner.node()
	if err != nil {
		return nil, err
	}
	ctx, err := n.owner.context()
	if err != nil {
		return nil, err
	}
	level := r.para.level
	steps := []cascadeStep{
		{"portion", &r.props},
		{"text box", tb.lstStyle.level(level)},
	}

	isPlaceholder := n.ph != nil && tb.cell == nil
	isTitle := isPlaceholder && n.ph.isTitle()
	if isPlaceholder {
		for _, p := range tb.doc.placeholderChain(n) {
			if p.text == nil {
				continue
			}
			name := "layout placeholder"
			if p.owner.master != nil && p.owner.layout == nil {
				name = "master placeholder"
			}
			steps = append(steps, cascadeStep{name, p.text.lstStyle.level(level)})
		}
	}

	styles := &ctx.master.textStyles
	master := &styles.Other
	switch {
	case isTitle:
		master = &styles.Title
	case isPlaceholder:
		master = &styles.Body
	}
	steps = append(steps,
		cascadeStep{"master text style", master.level(level)},
		cascadeStep{"theme", themeDefaults(ctx.theme, isTitle)},
	)
	return steps, nil
}

// themeDefaults supplies the terminal values of the cascade. A theme
// without a Latin typeface leaves the name unresolvable.
func themeDefaults(t *Theme, title bool) *FontProps {
	coll := t.Fonts.Minor
	if title {
		coll = t.Fonts.Major
	}
	fp := &FontProps{
		Size:      ptr(defaultFontSize),
		Bold:      ptr(false),
		Italic:    ptr(false),
		EastAsian: ptr(coll.EastAsian),
		Complex:   ptr(coll.Complex),
		Color:     ptr(SchemeRef(SchemeText1)),
	}
	if coll.Latin != "" {
		fp.Latin = ptr(coll.Latin)
	}
	return fp
}

// resolveFont walks r's cascade and returns the first value pick finds.
func resolveFont[T any](r *Portion, pick func(*FontProps) *T) (T, error) {
	var zero T
	steps, err := r.cascade()
	if err != nil {
		return zero, err
	}
	for _, s := range steps {
		if v := pick(s.props); v != nil {
			return *v, nil
		}
	}
	return zero, fmt.Errorf("no style link defines the property: %w", ErrInconsistentDocument)
}

// placeholderChain returns the layout and master counterparts of a
// placeholder, nearest first.
func (d *Document) placeholderChain(n *shapeNode) []*shapeNode {
	if n.ph == nil || n.owner == nil {
		return nil
	}
	var chain []*shapeNode
	c := n.owner
	var master *SlideMaster
	switch {
	case c.slide != nil:
		if l := c.slide.layout; l != nil {
			if m := l.shapes.matchPlaceholder(*n.ph, true); m != nil {
				chain = append(chain, m)
			}
			master = l.master
		}
	case c.layout != nil:
		master = c.layout.master
	}
	if master != nil {
		if m := master.shapes.matchPlaceholder(*n.ph, false); m != nil {
			chain = append(chain, m)
		}
	}
	return chain
}

func (d *Document) placeholderParent(n *shapeNode) *shapeNode {
	if chain := d.placeholderChain(n); len(chain) > 0 {
		return chain[0]
	}
	return nil
}

// matchPlaceholder finds the counterpart of ref in c: same type and index,
// then (for layouts) same index, then same type, then same kind.
func (c *ShapeCollection) matchPlaceholder(ref PlaceholderRef, byIndex bool) *shapeNode {
	var best *shapeNode
	bestRank := 0
	for _, r := range c.refs {
		n, err := c.doc.arena.get(r)
		if err != nil || n.ph == nil {
			continue
		}
		rank := 0
		switch {
		case n.ph.Type == ref.Type && n.ph.Index == ref.Index:
			return n
		case byIndex && ref.Index > 0 && n.ph.Index == ref.Index:
			rank = 3
		case n.ph.Type == ref.Type:
			rank = 2
		case placeholderKind(n.ph.Type) == placeholderKind(ref.Type):
			rank = 1
		}
		if rank > bestRank {
			best, bestRank = n, rank
		}
	}
	return best
}

// placeholderKind folds placeholder types onto the master's title, body and
// footer-type slots.
func placeholderKind(t PlaceholderType) PlaceholderType {
	switch t {
	case PlaceholderTitle, PlaceholderCenterTitle:
		return PlaceholderTitle
	case PlaceholderBody, PlaceholderObject, PlaceholderSubTitle, PlaceholderPicture,
		PlaceholderTable, PlaceholderChart, "":
		return PlaceholderBody
	}
	return t
}
