package slidedom

import (
	"fmt"
	"math"
)

// AutofitOptions tunes the shrink search.
type AutofitOptions struct {
	// ShrinkStep is subtracted from the font scale on each attempt.
	ShrinkStep float64
	// MinScale is the smallest font scale shrinking will reach.
	MinScale float64
}

// DefaultAutofitOptions shrinks in 7.5% steps down to 25%.
var DefaultAutofitOptions = AutofitOptions{ShrinkStep: 0.075, MinScale: 0.25}

// normalized replaces out-of-range fields with the defaults.
func (o AutofitOptions) normalized() AutofitOptions {
	if !(o.ShrinkStep > 0 && o.ShrinkStep < 1) {
		o.ShrinkStep = DefaultAutofitOptions.ShrinkStep
	}
	if !(o.MinScale > 0 && o.MinScale <= 1) {
		o.MinScale = DefaultAutofitOptions.MinScale
	}
	return o
}

// paragraphMetrics is what one paragraph contributes to a measurement.
type paragraphMetrics struct {
	text string
	font FontDescriptor
}

// autofit applies tb's policy. It runs after every mutation that can change
// how text fits its container.
func (d *Document) autofit(tb *TextBox) error {
	if tb.cell != nil || tb.autofit == AutofitNone {
		return nil
	}
	n, err := tb.owner.node()
	if err != nil {
		return err
	}
	d.metrics.autofitPass(tb.autofit)
	switch tb.autofit {
	case AutofitShrinkText:
		return d.shrinkText(tb, n)
	case AutofitResizeShape:
		return d.resizeToText(tb, n)
	}
	return nil
}

// shrinkText picks the largest scale 1 - k*step whose measured height fits
// the usable area, stopping at the floor. The scale is recomputed from the
// authored sizes each time, so it also grows back when text shrinks.
func (d *Document) shrinkText(tb *TextBox, n *shapeNode) error {
	paras, err := tb.paragraphMetrics()
	if err != nil {
		return err
	}
	b := d.bounds(n)
	availW := emuToPoints(b.cx - tb.lIns - tb.rIns)
	availH := emuToPoints(b.cy - tb.tIns - tb.bIns)
	if !tb.wrap {
		availW = 0
	}

	o := d.autofitO
	scale := 1.0
	iterations := 0
	for k := 0; ; k++ {
		scale = math.Round((1-float64(k)*o.ShrinkStep)*1000) / 1000
		floor := scale <= o.MinScale
		if floor {
			scale = o.MinScale
		}
		iterations++
		_, h, err := d.measureParagraphs(paras, scale, availW)
		if err != nil {
			return fmt.Errorf("autofit shape %d: %w", n.id, err)
		}
		if h <= availH || floor {
			break
		}
	}
	tb.scale = scale
	d.metrics.shrinkResult(iterations, scale)
	d.logger.Debug("autofit shrink", "shape", n.id, "scale", scale, "iterations", iterations)
	return nil
}

// resizeToText sets the shape height (and width when wrapping is off) to the
// text extent at the authored sizes. Y moves to keep the anchored edge or
// the center in place.
func (d *Document) resizeToText(tb *TextBox, n *shapeNode) error {
	paras, err := tb.paragraphMetrics()
	if err != nil {
		return err
	}
	b := d.bounds(n)
	availW := emuToPoints(b.cx - tb.lIns - tb.rIns)
	if !tb.wrap {
		availW = 0
	}
	w, h, err := d.measureParagraphs(paras, 1, availW)
	if err != nil {
		return fmt.Errorf("autofit shape %d: %w", n.id, err)
	}

	d.materialize(n)
	cy := pointsToEMU(h) + tb.tIns + tb.bIns
	if !tb.wrap {
		n.cx = pointsToEMU(w) + tb.lIns + tb.rIns
	}
	delta := cy - n.cy
	switch tb.anchor {
	case AnchorMiddle:
		n.y -= delta / 2
	case AnchorBottom:
		n.y -= delta
	}
	n.cy = cy
	tb.scale = 1
	d.logger.Debug("autofit resize", "shape", n.id, "height", emuToPoints(cy), "delta", emuToPoints(delta))
	return nil
}

// measureParagraphs stacks the paragraphs at scale and returns the widest
// line and the total height in points.
func (d *Document) measureParagraphs(paras []paragraphMetrics, scale, maxWidth float64) (w, h float64, err error) {
	for _, p := range paras {
		fd := p.font
		fd.Size *= scale
		pw, ph, err := d.measurer.Measure(p.text, fd, maxWidth)
		if err != nil {
			return 0, 0, err
		}
		w = max(w, pw)
		h += ph
	}
	return w, h, nil
}

// paragraphMetrics resolves, for every paragraph, the text to measure and
// the font of its largest portion at authored size.
func (tb *TextBox) paragraphMetrics() ([]paragraphMetrics, error) {
	out := make([]paragraphMetrics, 0, len(tb.paras))
	for _, p := range tb.paras {
		runs := p.portions
		if len(runs) == 0 {
			runs = []*Portion{{para: p, props: p.endProps}}
		}
		var fd FontDescriptor
		for i, r := range runs {
			desc, err := r.descriptor()
			if err != nil {
				return nil, err
			}
			if i == 0 || desc.Size > fd.Size {
				fd = desc
			}
		}
		text := p.GetText()
		if p.bullet.Type == BulletCharacter {
			text = p.bullet.Char + " " + text
		}
		out = append(out, paragraphMetrics{text: text, font: fd})
	}
	return out, nil
}

// descriptor resolves the portion's font at its authored size.
func (r *Portion) descriptor() (FontDescriptor, error) {
	f := r.GetFont()
	var fd FontDescriptor
	var err error
	if fd.Size, err = f.GetAuthoredSize(); err != nil {
		return fd, err
	}
	if fd.Bold, err = f.IsBold(); err != nil {
		return fd, err
	}
	if fd.Italic, err = f.IsItalic(); err != nil {
		return fd, err
	}
	if fd.Family, err = f.GetLatinName(); err != nil {
		return fd, err
	}
	if fd.EastAsianFamily, err = f.GetEastAsianName(); err != nil {
		return fd, err
	}
	return fd, nil
}
