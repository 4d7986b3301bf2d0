package slidedom

import (
	"fmt"
	"strings"
)

// Slide is one slide of a document. It references exactly one layout.
type Slide struct {
	doc        *Document
	layout     *SlideLayout
	shapes     *ShapeCollection
	background ShapeProperties
	removed    bool
}

func newSlide(d *Document, layout *SlideLayout) *Slide {
	s := &Slide{doc: d, layout: layout, shapes: newRootCollection(d)}
	s.shapes.slide = s
	return s
}

// GetIndex returns the zero-based position of the slide, or -1 once removed.
func (s *Slide) GetIndex() int {
	for i, other := range s.doc.slides {
		if other == s {
			return i
		}
	}
	return -1
}

// GetLayout returns the layout of the slide.
func (s *Slide) GetLayout() *SlideLayout { return s.layout }

// GetShapes returns the slide shape tree.
func (s *Slide) GetShapes() *ShapeCollection { return s.shapes }

// GetBackground returns the slide background fill.
func (s *Slide) GetBackground() *Fill {
	return &Fill{host: slideFillHost{s}}
}

// Remove deletes the slide from its document. Handles to its shapes become
// invalid.
func (s *Slide) Remove() error {
	i := s.GetIndex()
	if i < 0 {
		return fmt.Errorf("slide already removed: %w", ErrInvalidState)
	}
	return s.doc.RemoveSlideByIndex(i)
}

// GetText returns the text of every text-bearing shape, one per line.
func (s *Slide) GetText() string {
	var lines []string
	collectText(s.shapes, &lines)
	return strings.Join(lines, "\n")
}

func collectText(c *ShapeCollection, lines *[]string) {
	for _, sh := range c.All() {
		n, err := sh.node()
		if err != nil {
			continue
		}
		switch {
		case n.children != nil:
			collectText(n.children, lines)
		case n.table != nil:
			for _, row := range n.table.rows {
				for _, cell := range row.cells {
					if t := cell.text.GetText(); t != "" {
						*lines = append(*lines, t)
					}
				}
			}
		case n.text != nil:
			if t := n.text.GetText(); t != "" {
				*lines = append(*lines, t)
			}
		}
	}
}
