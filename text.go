package slidedom

import (
	"fmt"
	"strings"
)

// AutofitType represents the autofit policy of a text box.
type AutofitType int

const (
	// AutofitNone lets text overflow.
	AutofitNone AutofitType = iota
	// AutofitShrinkText scales fonts down until the text fits.
	AutofitShrinkText
	// AutofitResizeShape resizes the shape to the text.
	AutofitResizeShape
)

func (a AutofitType) String() string {
	switch a {
	case AutofitNone:
		return "none"
	case AutofitShrinkText:
		return "shrink"
	case AutofitResizeShape:
		return "resize"
	}
	return fmt.Sprintf("AutofitType(%d)", int(a))
}

// TextAnchor represents vertical text anchoring.
type TextAnchor string

const (
	AnchorTop    TextAnchor = "t"
	AnchorMiddle TextAnchor = "ctr"
	AnchorBottom TextAnchor = "b"
)

// Default insets (EMU).
const (
	defaultInsetLR = 91440
	defaultInsetTB = 45720
)

// TextBox holds the paragraphs of a shape or table cell.
type TextBox struct {
	doc   *Document
	owner Shape
	cell  *Cell

	paras    []*Paragraph
	autofit  AutofitType
	scale    float64
	wrap     bool
	lIns     int64
	rIns     int64
	tIns     int64
	bIns     int64
	anchor   TextAnchor
	lstStyle ListStyle
}

func newTextBox(d *Document, owner Shape) *TextBox {
	tb := &TextBox{
		doc:    d,
		owner:  owner,
		scale:  1,
		wrap:   true,
		lIns:   defaultInsetLR,
		rIns:   defaultInsetLR,
		tIns:   defaultInsetTB,
		bIns:   defaultInsetTB,
		anchor: AnchorTop,
	}
	tb.paras = []*Paragraph{newParagraph(tb)}
	return tb
}

// check fails once the owning shape is gone.
func (tb *TextBox) check() error {
	_, err := tb.owner.node()
	return err
}

// changed re-runs the autofit policy after a mutation.
func (tb *TextBox) changed() error {
	return tb.doc.autofit(tb)
}

func (tb *TextBox) clone(owner Shape) *TextBox {
	out := *tb
	out.owner = owner
	out.lstStyle = tb.lstStyle.clone()
	out.paras = make([]*Paragraph, 0, len(tb.paras))
	for _, p := range tb.paras {
		out.paras = append(out.paras, p.clone(&out))
	}
	return &out
}

// GetText returns the portions' text joined per paragraph, paragraphs
// joined by "\n".
func (tb *TextBox) GetText() string {
	lines := make([]string, len(tb.paras))
	for i, p := range tb.paras {
		lines[i] = p.GetText()
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the content with one paragraph per line. The formatting
// of the first portion and paragraph carries over to every new paragraph.
func (tb *TextBox) SetText(text string) error {
	if err := tb.check(); err != nil {
		return err
	}
	tmplPara, tmplFont := tb.template()
	lines := strings.Split(normalizeNewlines(text), "\n")
	paras := make([]*Paragraph, 0, len(lines))
	for _, line := range lines {
		p := tmplPara.cloneFormat(tb)
		p.endProps = tmplFont.clone()
		if line != "" {
			p.portions = []*Portion{{para: p, text: line, props: tmplFont.clone()}}
		}
		paras = append(paras, p)
	}
	tb.replace(paras)
	return tb.changed()
}

// template returns the paragraph and run formatting new content inherits.
func (tb *TextBox) template() (*Paragraph, FontProps) {
	if len(tb.paras) == 0 {
		return newParagraph(tb), FontProps{}
	}
	first := tb.paras[0]
	if len(first.portions) > 0 {
		return first, first.portions[0].props
	}
	return first, first.endProps
}

func (tb *TextBox) replace(paras []*Paragraph) {
	for _, p := range tb.paras {
		p.detach()
	}
	tb.paras = paras
}

// GetParagraphs returns the paragraph collection.
func (tb *TextBox) GetParagraphs() *ParagraphCollection {
	return &ParagraphCollection{tb: tb}
}

// GetAutofit returns the autofit policy.
func (tb *TextBox) GetAutofit() AutofitType { return tb.autofit }

// SetAutofit changes the autofit policy and applies it.
func (tb *TextBox) SetAutofit(a AutofitType) error {
	if err := tb.check(); err != nil {
		return err
	}
	if tb.cell != nil && a != AutofitNone {
		return fmt.Errorf("autofit %s in a table cell: %w", a, ErrInvalidState)
	}
	tb.autofit = a
	if a != AutofitShrinkText {
		tb.scale = 1
	}
	return tb.changed()
}

// GetFontScale returns the autofit font scale (1 = 100%).
func (tb *TextBox) GetFontScale() float64 { return tb.scale }

// IsWordWrap reports whether lines wrap at the shape width.
func (tb *TextBox) IsWordWrap() bool { return tb.wrap }

// SetWordWrap enables or disables wrapping.
func (tb *TextBox) SetWordWrap(wrap bool) error {
	if err := tb.check(); err != nil {
		return err
	}
	tb.wrap = wrap
	return tb.changed()
}

// GetMargins returns the left, right, top and bottom insets in points.
func (tb *TextBox) GetMargins() (left, right, top, bottom float64) {
	return emuToPoints(tb.lIns), emuToPoints(tb.rIns), emuToPoints(tb.tIns), emuToPoints(tb.bIns)
}

// SetMargins sets the insets in points.
func (tb *TextBox) SetMargins(left, right, top, bottom float64) error {
	if err := tb.check(); err != nil {
		return err
	}
	if left < 0 || right < 0 || top < 0 || bottom < 0 {
		return fmt.Errorf("negative margin: %w", ErrInvalidState)
	}
	tb.lIns, tb.rIns = pointsToEMU(left), pointsToEMU(right)
	tb.tIns, tb.bIns = pointsToEMU(top), pointsToEMU(bottom)
	return tb.changed()
}

// GetAnchor returns the vertical anchor.
func (tb *TextBox) GetAnchor() TextAnchor { return tb.anchor }

// SetAnchor sets the vertical anchor.
func (tb *TextBox) SetAnchor(a TextAnchor) error {
	if err := tb.check(); err != nil {
		return err
	}
	switch a {
	case AnchorTop, AnchorMiddle, AnchorBottom:
	default:
		return fmt.Errorf("text anchor %q: %w", a, ErrFormat)
	}
	tb.anchor = a
	return nil
}

// GetListStyle returns the text box's own per-level defaults for editing.
func (tb *TextBox) GetListStyle() *ListStyle { return &tb.lstStyle }

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// ParagraphCollection is the ordered paragraph list of a text box.
type ParagraphCollection struct {
	tb *TextBox
}

// Count returns the number of paragraphs.
func (pc *ParagraphCollection) Count() int { return len(pc.tb.paras) }

// All returns the paragraphs in order.
func (pc *ParagraphCollection) All() []*Paragraph {
	return append([]*Paragraph(nil), pc.tb.paras...)
}

// At returns the paragraph at index i.
func (pc *ParagraphCollection) At(i int) (*Paragraph, error) {
	if i < 0 || i >= len(pc.tb.paras) {
		return nil, fmt.Errorf("paragraph %d of %d: %w", i, len(pc.tb.paras), errOutOfRange)
	}
	return pc.tb.paras[i], nil
}

// Add appends a paragraph holding text.
func (pc *ParagraphCollection) Add(text string) (*Paragraph, error) {
	return pc.AddAt(text, len(pc.tb.paras))
}

// AddAt inserts a paragraph holding text at index. It copies the
// formatting of the paragraph it is inserted after.
func (pc *ParagraphCollection) AddAt(text string, index int) (*Paragraph, error) {
	tb := pc.tb
	if err := tb.check(); err != nil {
		return nil, err
	}
	if index < 0 || index > len(tb.paras) {
		return nil, fmt.Errorf("insert paragraph at %d of %d: %w", index, len(tb.paras), errOutOfRange)
	}
	var tmpl *Paragraph
	switch {
	case index > 0:
		tmpl = tb.paras[index-1]
	case len(tb.paras) > 0:
		tmpl = tb.paras[0]
	default:
		tmpl = newParagraph(tb)
	}
	p := tmpl.cloneFormat(tb)
	font := tmpl.endProps
	if len(tmpl.portions) > 0 {
		font = tmpl.portions[0].props
	}
	p.endProps = font.clone()
	if text != "" {
		p.portions = []*Portion{{para: p, text: lineBreaks(text), props: font.clone()}}
	}
	tb.paras = append(tb.paras, nil)
	copy(tb.paras[index+1:], tb.paras[index:])
	tb.paras[index] = p
	return p, tb.changed()
}

// Remove deletes the paragraph at index. A text box keeps at least one
// (possibly empty) paragraph.
func (pc *ParagraphCollection) Remove(index int) error {
	p, err := pc.At(index)
	if err != nil {
		return err
	}
	return p.Remove()
}
