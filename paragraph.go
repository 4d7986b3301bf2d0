package slidedom

import (
	"fmt"
	"slices"
	"strings"
)

// Alignment represents horizontal paragraph alignment.
type Alignment string

const (
	AlignLeft    Alignment = "l"
	AlignCenter  Alignment = "ctr"
	AlignRight   Alignment = "r"
	AlignJustify Alignment = "just"
)

// BulletType represents the bullet kind of a paragraph.
type BulletType int

const (
	BulletNone BulletType = iota
	BulletCharacter
	BulletNumbered
)

// Bullet describes a paragraph bullet.
type Bullet struct {
	Type BulletType
	// Char is the bullet character for BulletCharacter.
	Char string
	// Scheme is the numbering scheme for BulletNumbered, e.g. "arabicPeriod".
	Scheme string
}

// DefaultBullet is the bullet used for Markdown list items.
var DefaultBullet = Bullet{Type: BulletCharacter, Char: "•"}

// lineBreak is how a line break inside a paragraph is held in portion text.
const lineBreak = "\v"

// Paragraph is an ordered run of portions.
type Paragraph struct {
	box      *TextBox
	portions []*Portion
	level    int
	align    Alignment
	bullet   Bullet
	// endProps holds the formatting of an empty paragraph end.
	endProps FontProps
}

func newParagraph(tb *TextBox) *Paragraph {
	return &Paragraph{box: tb}
}

func (p *Paragraph) check() error {
	if p.box == nil {
		return fmt.Errorf("paragraph was removed: %w", ErrInvalidState)
	}
	return p.box.check()
}

// cloneFormat returns an empty paragraph with p's paragraph formatting.
func (p *Paragraph) cloneFormat(tb *TextBox) *Paragraph {
	return &Paragraph{box: tb, level: p.level, align: p.align, bullet: p.bullet, endProps: p.endProps.clone()}
}

func (p *Paragraph) clone(tb *TextBox) *Paragraph {
	out := p.cloneFormat(tb)
	for _, r := range p.portions {
		out.portions = append(out.portions, &Portion{para: out, text: r.text, props: r.props.clone()})
	}
	return out
}

func (p *Paragraph) detach() {
	for _, r := range p.portions {
		r.para = nil
	}
	p.box = nil
}

// GetText returns the portions' text concatenated. Line breaks are held as
// vertical tabs.
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for _, r := range p.portions {
		sb.WriteString(r.text)
	}
	return sb.String()
}

// SetText replaces the portions with one portion keeping the first
// portion's formatting. Newlines become line breaks.
func (p *Paragraph) SetText(text string) error {
	if err := p.check(); err != nil {
		return err
	}
	font := p.endProps
	if len(p.portions) > 0 {
		font = p.portions[0].props
	}
	for _, r := range p.portions {
		r.para = nil
	}
	p.portions = nil
	p.endProps = font.clone()
	if text != "" {
		p.portions = []*Portion{{para: p, text: lineBreaks(text), props: font.clone()}}
	}
	return p.box.changed()
}

func lineBreaks(s string) string {
	return strings.ReplaceAll(normalizeNewlines(s), "\n", lineBreak)
}

// GetPortions returns the portions in order.
func (p *Paragraph) GetPortions() []*Portion {
	return append([]*Portion(nil), p.portions...)
}

// AddPortion appends a portion formatted like the last one.
func (p *Paragraph) AddPortion(text string) (*Portion, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	font := p.endProps
	if n := len(p.portions); n > 0 {
		font = p.portions[n-1].props
	}
	r := &Portion{para: p, text: lineBreaks(text), props: font.clone()}
	p.portions = append(p.portions, r)
	return r, p.box.changed()
}

// GetLevel returns the indent level (0-8).
func (p *Paragraph) GetLevel() int { return p.level }

// SetLevel sets the indent level (0-8).
func (p *Paragraph) SetLevel(level int) error {
	if err := p.check(); err != nil {
		return err
	}
	if level < 0 || level >= maxLevels {
		return fmt.Errorf("paragraph level %d: %w", level, errOutOfRange)
	}
	p.level = level
	return p.box.changed()
}

// GetAlignment returns the horizontal alignment; empty means inherited.
func (p *Paragraph) GetAlignment() Alignment { return p.align }

// SetAlignment sets the horizontal alignment.
func (p *Paragraph) SetAlignment(a Alignment) error {
	if err := p.check(); err != nil {
		return err
	}
	p.align = a
	return nil
}

// GetBullet returns the bullet.
func (p *Paragraph) GetBullet() Bullet { return p.bullet }

// SetBullet sets the bullet.
func (p *Paragraph) SetBullet(b Bullet) error {
	if err := p.check(); err != nil {
		return err
	}
	if b.Type == BulletCharacter && b.Char == "" {
		b.Char = DefaultBullet.Char
	}
	p.bullet = b
	return p.box.changed()
}

// Remove deletes the paragraph. Removing the only paragraph empties it.
func (p *Paragraph) Remove() error {
	if err := p.check(); err != nil {
		return err
	}
	tb := p.box
	if len(tb.paras) == 1 {
		repl := p.cloneFormat(tb)
		if len(p.portions) > 0 {
			repl.endProps = p.portions[0].props.clone()
		}
		tb.paras = []*Paragraph{repl}
	} else {
		tb.paras = slices.DeleteFunc(tb.paras, func(x *Paragraph) bool { return x == p })
	}
	p.detach()
	return tb.changed()
}

// Portion is a run of text sharing one formatting.
type Portion struct {
	para  *Paragraph
	text  string
	props FontProps
}

func (r *Portion) check() error {
	if r.para == nil {
		return fmt.Errorf("portion was removed: %w", ErrInvalidState)
	}
	return r.para.check()
}

// GetText returns the portion text.
func (r *Portion) GetText() string { return r.text }

// SetText replaces the portion text.
func (r *Portion) SetText(text string) error {
	if err := r.check(); err != nil {
		return err
	}
	r.text = lineBreaks(text)
	return r.para.box.changed()
}

// GetFont returns the formatting view.
func (r *Portion) GetFont() *Font {
	return &Font{p: r}
}

// Remove deletes the portion from its paragraph.
func (r *Portion) Remove() error {
	if err := r.check(); err != nil {
		return err
	}
	p := r.para
	p.portions = slices.DeleteFunc(p.portions, func(x *Portion) bool { return x == r })
	if len(p.portions) == 0 {
		p.endProps = r.props.clone()
	}
	r.para = nil
	return p.box.changed()
}
