// Package slidedom is an in-memory object model for slide presentations.
//
// A Document owns slides, layouts, masters and themes, and every shape in
// them. Shapes are reached through generation-checked handles; property
// getters resolve fonts and colors through the placeholder, layout, master
// and theme cascade; text mutations re-run the text box autofit policy
// before returning. Documents are read from and written to .pptx packages.
//
// A Document is not safe for concurrent use.
//
// See the Version variable for the current library version.
package slidedom

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Default slide size (16:9, in EMU).
const (
	defaultSlideCX = 12192000
	defaultSlideCY = 6858000
)

// Document represents an in-memory presentation.
type Document struct {
	id      string
	slideCX int64
	slideCY int64
	masters []*SlideMaster
	slides  []*Slide

	arena    arena
	media    *MediaStore
	measurer TextMeasurer
	autofitO AutofitOptions
	logger   *slog.Logger
	metrics  *Metrics
	hashFunc HashFunc
}

// Option configures a Document.
type Option func(*Document)

// WithMeasurer sets the text measurement service used by autofit.
func WithMeasurer(m TextMeasurer) Option {
	return func(d *Document) { d.measurer = m }
}

// WithFontDirs measures text with TrueType/OpenType fonts found in dirs and
// the system font directories, estimating metrics for unknown fonts.
func WithFontDirs(dirs ...string) Option {
	return func(d *Document) {
		d.measurer = &FontMeasurer{Cache: NewFontCache(dirs...), Fallback: EstimateMeasurer{}}
	}
}

// WithLogger sets the logger. The default discards records.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// WithMetrics records autofit and media activity in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Document) { d.metrics = m }
}

// WithAutofitOptions sets the shrink step and floor.
func WithAutofitOptions(o AutofitOptions) Option {
	return func(d *Document) { d.autofitO = o }
}

// WithHasher sets the media content hash. The default is SHA-512.
func WithHasher(h HashFunc) Option {
	return func(d *Document) { d.hashFunc = h }
}

// newDocument returns a document without masters or slides.
func newDocument(opts ...Option) *Document {
	d := &Document{
		id:       uuid.NewString(),
		slideCX:  defaultSlideCX,
		slideCY:  defaultSlideCY,
		measurer: EstimateMeasurer{},
		autofitO: DefaultAutofitOptions,
		logger:   slog.New(slog.DiscardHandler),
		hashFunc: SHA512,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.autofitO = d.autofitO.normalized()
	d.logger = d.logger.With("doc", d.id)
	d.media = newMediaStore(d.hashFunc, d.logger, d.metrics)
	return d
}

// New creates a document with the stock Office master, its layouts and one
// blank slide.
func New(opts ...Option) *Document {
	d := newDocument(opts...)
	m := newDefaultMaster(d)
	d.masters = append(d.masters, m)
	d.slides = append(d.slides, newSlide(d, m.GetLayoutByName("Blank")))
	return d
}

// GetID returns the session id used to correlate log records.
func (d *Document) GetID() string { return d.id }

// GetSlideSize returns the slide size in points.
func (d *Document) GetSlideSize() (w, h float64) {
	return emuToPoints(d.slideCX), emuToPoints(d.slideCY)
}

// SetSlideSize sets the slide size in points.
func (d *Document) SetSlideSize(w, h float64) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("slide size %gx%g: %w", w, h, ErrInvalidState)
	}
	d.slideCX, d.slideCY = pointsToEMU(w), pointsToEMU(h)
	return nil
}

// GetSlide returns a slide by index.
func (d *Document) GetSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(d.slides) {
		return nil, fmt.Errorf("slide %d of %d: %w", index, len(d.slides), errOutOfRange)
	}
	return d.slides[index], nil
}

// GetSlides returns all slides in order.
func (d *Document) GetSlides() []*Slide {
	return append([]*Slide(nil), d.slides...)
}

// GetSlideCount returns the number of slides.
func (d *Document) GetSlideCount() int {
	return len(d.slides)
}

// AddSlide appends a slide based on layout. The layout's placeholders are
// instantiated on the slide, inheriting geometry and style.
func (d *Document) AddSlide(layout *SlideLayout) (*Slide, error) {
	if layout == nil || layout.master == nil || layout.doc != d {
		return nil, fmt.Errorf("add slide: layout does not belong to this document: %w", ErrInconsistentDocument)
	}
	s := newSlide(d, layout)
	for _, sh := range layout.shapes.All() {
		n, err := sh.node()
		if err != nil || n.ph == nil {
			continue
		}
		switch n.ph.Type {
		case PlaceholderDate, PlaceholderFooter, PlaceholderSlideNumber:
			continue
		}
		ph, pn := s.shapes.alloc(ContentPlaceholder, "", box{})
		pn.name = n.name
		pn.hasXfrm = false
		ref := *n.ph
		pn.ph = &ref
		pn.text = newTextBox(d, ph)
		if n.text != nil {
			pn.text.autofit = n.text.autofit
			pn.text.anchor = n.text.anchor
		}
	}
	d.slides = append(d.slides, s)
	d.logger.Debug("slide added", "index", len(d.slides)-1, "layout", layout.name)
	return s, nil
}

// RemoveSlideByIndex removes a slide by index.
// Returns an error if the index is out of range or if it would remove the last slide.
func (d *Document) RemoveSlideByIndex(index int) error {
	if index < 0 || index >= len(d.slides) {
		return fmt.Errorf("slide %d of %d: %w", index, len(d.slides), errOutOfRange)
	}
	if len(d.slides) <= 1 {
		return fmt.Errorf("cannot remove the last slide: %w", ErrInvalidState)
	}
	s := d.slides[index]
	for _, r := range s.shapes.refs {
		d.releaseTree(r)
	}
	s.shapes.refs = nil
	s.shapes.released = true
	s.removed = true
	d.slides = append(d.slides[:index], d.slides[index+1:]...)
	return nil
}

// MoveSlide moves a slide from one index to another.
func (d *Document) MoveSlide(fromIndex, toIndex int) error {
	if fromIndex < 0 || fromIndex >= len(d.slides) {
		return fmt.Errorf("fromIndex %d: %w", fromIndex, errOutOfRange)
	}
	if toIndex < 0 || toIndex >= len(d.slides) {
		return fmt.Errorf("toIndex %d: %w", toIndex, errOutOfRange)
	}
	if fromIndex == toIndex {
		return nil
	}
	slide := d.slides[fromIndex]
	d.slides = append(d.slides[:fromIndex], d.slides[fromIndex+1:]...)
	d.slides = append(d.slides, nil)
	copy(d.slides[toIndex+1:], d.slides[toIndex:])
	d.slides[toIndex] = slide
	return nil
}

// GetSlideMasters returns all slide masters.
func (d *Document) GetSlideMasters() []*SlideMaster {
	return d.masters
}

// AddSlideMaster creates an empty master bound to theme.
func (d *Document) AddSlideMaster(name string, theme *Theme) *SlideMaster {
	m := newSlideMaster(d, name, theme)
	d.masters = append(d.masters, m)
	return m
}

// GetLayoutByName searches every master for a layout name.
func (d *Document) GetLayoutByName(name string) (*SlideLayout, error) {
	for _, m := range d.masters {
		if l := m.GetLayoutByName(name); l != nil {
			return l, nil
		}
	}
	return nil, fmt.Errorf("layout %q: %w", name, ErrNotFound)
}

// GetMedia returns the media store.
func (d *Document) GetMedia() *MediaStore { return d.media }

// GetAutofitOptions returns the shrink step and floor in effect.
func (d *Document) GetAutofitOptions() AutofitOptions { return d.autofitO }

// ExtractText returns the text of all slides, separated by blank lines.
func (d *Document) ExtractText() string {
	parts := make([]string, 0, len(d.slides))
	for _, s := range d.slides {
		parts = append(parts, s.GetText())
	}
	return strings.Join(parts, "\n\n")
}

// WriteTo writes the document as a .pptx package.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := newPackageWriter(d).write(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
