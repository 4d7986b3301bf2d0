package slidedom

import (
	"fmt"
	"slices"
)

// Validate checks the document for structural issues and returns a
// *ValidationError listing all problems found, or nil.
func (d *Document) Validate() error {
	var errs []string

	if d.slideCX <= 0 || d.slideCY <= 0 {
		errs = append(errs, "slide size must be positive")
	}
	if len(d.slides) == 0 {
		errs = append(errs, "document must have at least one slide")
	}
	if len(d.masters) == 0 {
		errs = append(errs, "document must have at least one slide master")
	}

	for i, m := range d.masters {
		prefix := fmt.Sprintf("master %d (%s)", i+1, m.name)
		if m.theme == nil {
			errs = append(errs, prefix+": no theme")
		}
		errs = append(errs, d.validateShapes(m.shapes, prefix)...)
		for j, l := range m.layouts {
			lp := fmt.Sprintf("%s layout %d (%s)", prefix, j+1, l.name)
			if l.master != m {
				errs = append(errs, lp+": master link does not point back")
			}
			errs = append(errs, d.validateShapes(l.shapes, lp)...)
		}
	}

	for i, s := range d.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		switch {
		case s.layout == nil:
			errs = append(errs, prefix+": no layout")
		case s.layout.master == nil:
			errs = append(errs, prefix+": layout "+s.layout.name+" has no master")
		case !slices.Contains(d.masters, s.layout.master):
			errs = append(errs, prefix+": layout "+s.layout.name+" belongs to a foreign master")
		}
		errs = append(errs, d.validateShapes(s.shapes, prefix)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Problems: errs}
}

func (d *Document) validateShapes(c *ShapeCollection, prefix string) []string {
	var errs []string
	seen := make(map[int]bool)
	for j, r := range c.refs {
		sp := fmt.Sprintf("%s: shape %d", prefix, j+1)
		n, err := d.arena.get(r)
		if err != nil {
			errs = append(errs, sp+": stale reference in tree")
			continue
		}
		if n.owner != c {
			errs = append(errs, sp+": owner link does not point back")
		}
		if seen[n.id] {
			errs = append(errs, fmt.Sprintf("%s: duplicate id %d", sp, n.id))
		}
		seen[n.id] = true
		if n.id > c.maxID {
			errs = append(errs, fmt.Sprintf("%s: id %d above high-water mark %d", sp, n.id, c.maxID))
		}
		if n.hasXfrm && (n.cx < 0 || n.cy < 0) {
			errs = append(errs, sp+": negative size")
		}
		if !n.hasXfrm && n.ph == nil && n.content != ContentGroup {
			errs = append(errs, sp+": no geometry to inherit")
		}

		switch n.content {
		case ContentGroup:
			if n.children == nil {
				errs = append(errs, sp+": group has no member list")
			} else {
				errs = append(errs, d.validateShapes(n.children, sp)...)
			}
		case ContentTable:
			errs = append(errs, validateTable(n.table, sp)...)
		case ContentPicture, ContentMedia, ContentOLEObject:
			errs = append(errs, d.validateMedia(n.media, sp)...)
		case ContentPlaceholder:
			if n.ph == nil {
				errs = append(errs, sp+": placeholder without placeholder reference")
			}
		}
		if n.props.Blip != nil {
			errs = append(errs, d.validateMedia(n.props.Blip.Media, sp+" picture fill")...)
		}
		if n.text != nil {
			errs = append(errs, validateText(n.text, sp)...)
		}
	}
	return errs
}

func (d *Document) validateMedia(h *MediaHandle, prefix string) []string {
	if h == nil {
		return []string{prefix + ": no media"}
	}
	if got, ok := d.media.TryGet(h.digest); !ok || got != h {
		return []string{prefix + ": media " + h.name + " is not registered"}
	}
	return nil
}

func validateTable(t *tableData, prefix string) []string {
	if t == nil || len(t.rows) == 0 || len(t.cols) == 0 {
		return []string{prefix + ": table must have at least 1 row and 1 column"}
	}
	var errs []string
	for i, row := range t.rows {
		if len(row.cells) != len(t.cols) {
			errs = append(errs, fmt.Sprintf("%s: row %d has %d cells for %d columns", prefix, i+1, len(row.cells), len(t.cols)))
		}
		for _, cell := range row.cells {
			if cell.text.autofit != AutofitNone {
				errs = append(errs, fmt.Sprintf("%s: cell (%d,%d) autofits", prefix, cell.row, cell.col))
			}
		}
	}
	return errs
}

func validateText(tb *TextBox, prefix string) []string {
	var errs []string
	if len(tb.paras) == 0 {
		errs = append(errs, prefix+": text box has no paragraphs")
	}
	if tb.scale <= 0 || tb.scale > 1 {
		errs = append(errs, fmt.Sprintf("%s: font scale %g out of range", prefix, tb.scale))
	}
	for i, p := range tb.paras {
		if p.box != tb {
			errs = append(errs, fmt.Sprintf("%s: paragraph %d detached", prefix, i+1))
		}
		if p.level < 0 || p.level >= maxLevels {
			errs = append(errs, fmt.Sprintf("%s: paragraph %d level %d", prefix, i+1, p.level))
		}
	}
	return errs
}
