package slidedom

import (
	"fmt"
	"math"
)

// ShapeContent tags the kind of a shape. The set is closed; code that needs
// kind-specific behavior switches over every value.
type ShapeContent int

const (
	ContentShape ShapeContent = iota
	ContentGroup
	ContentTable
	ContentChart
	ContentPicture
	ContentMedia
	ContentOLEObject
	ContentPlaceholder
)

var contentNames = [...]string{
	ContentShape:       "Shape",
	ContentGroup:       "Group",
	ContentTable:       "Table",
	ContentChart:       "Chart",
	ContentPicture:     "Picture",
	ContentMedia:       "Media",
	ContentOLEObject:   "OLEObject",
	ContentPlaceholder: "Placeholder",
}

func (c ShapeContent) String() string {
	if c < 0 || int(c) >= len(contentNames) {
		return fmt.Sprintf("ShapeContent(%d)", int(c))
	}
	return contentNames[c]
}

// supportsText reports whether shapes of this kind own a text box.
func (c ShapeContent) supportsText() bool {
	switch c {
	case ContentShape, ContentPlaceholder:
		return true
	case ContentGroup, ContentTable, ContentChart, ContentPicture, ContentMedia, ContentOLEObject:
		return false
	}
	panic(fmt.Sprintf("slidedom: unknown shape content %d", int(c)))
}

// supportsFill reports whether shapes of this kind carry shape properties
// with a fill.
func (c ShapeContent) supportsFill() bool {
	switch c {
	case ContentShape, ContentPlaceholder, ContentGroup, ContentPicture:
		return true
	case ContentTable, ContentChart, ContentMedia, ContentOLEObject:
		return false
	}
	panic(fmt.Sprintf("slidedom: unknown shape content %d", int(c)))
}

// PlaceholderType represents the type of placeholder.
type PlaceholderType string

const (
	PlaceholderTitle       PlaceholderType = "title"
	PlaceholderCenterTitle PlaceholderType = "ctrTitle"
	PlaceholderSubTitle    PlaceholderType = "subTitle"
	PlaceholderBody        PlaceholderType = "body"
	PlaceholderObject      PlaceholderType = "obj"
	PlaceholderDate        PlaceholderType = "dt"
	PlaceholderFooter      PlaceholderType = "ftr"
	PlaceholderSlideNumber PlaceholderType = "sldNum"
	PlaceholderPicture     PlaceholderType = "pic"
	PlaceholderTable       PlaceholderType = "tbl"
	PlaceholderChart       PlaceholderType = "chart"
)

// PlaceholderRef identifies the layout and master counterpart a placeholder
// inherits from.
type PlaceholderRef struct {
	Type  PlaceholderType
	Index int
}

func (r PlaceholderRef) isTitle() bool {
	return r.Type == PlaceholderTitle || r.Type == PlaceholderCenterTitle
}

// Outline is a shape's line.
type Outline struct {
	Width float64 // points
	Color *ColorSpec
}

// ChartType names the plot kind of a chart frame.
type ChartType string

const (
	ChartBar     ChartType = "barChart"
	ChartLine    ChartType = "lineChart"
	ChartPie     ChartType = "pieChart"
	ChartArea    ChartType = "areaChart"
	ChartScatter ChartType = "scatterChart"
)

// shapeNode is the arena payload of one shape.
type shapeNode struct {
	gen  uint32
	live bool

	owner   *ShapeCollection
	id      int
	name    string
	hidden  bool
	content ShapeContent

	// hasXfrm is false for placeholders that inherit geometry.
	hasXfrm      bool
	x, y, cx, cy int64
	rot          int64
	geom         string
	txBox        bool

	props   ShapeProperties
	useBg   bool
	outline *Outline
	text    *TextBox
	ph      *PlaceholderRef

	children *ShapeCollection
	table    *tableData
	media    *MediaHandle
	chart    ChartType
	progID   string
}

// Shape is a handle to a shape owned by a Document. Handles are cheap values;
// once the shape is removed or moved every method fails with ErrInvalidState.
type Shape struct {
	doc *Document
	ref nodeRef
}

func (s Shape) node() (*shapeNode, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("zero shape handle: %w", ErrInvalidState)
	}
	return s.doc.arena.get(s.ref)
}

// IsValid reports whether the handle still refers to a live shape.
func (s Shape) IsValid() bool {
	_, err := s.node()
	return err == nil
}

// GetContent returns the kind of the shape.
func (s Shape) GetContent() (ShapeContent, error) {
	n, err := s.node()
	if err != nil {
		return 0, err
	}
	return n.content, nil
}

// GetID returns the shape id, unique within its container.
func (s Shape) GetID() (int, error) {
	n, err := s.node()
	if err != nil {
		return 0, err
	}
	return n.id, nil
}

// GetName returns the shape name.
func (s Shape) GetName() (string, error) {
	n, err := s.node()
	if err != nil {
		return "", err
	}
	return n.name, nil
}

// SetName sets the shape name. Names need not be unique.
func (s Shape) SetName(name string) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	n.name = name
	return nil
}

// IsHidden reports whether the shape is hidden.
func (s Shape) IsHidden() (bool, error) {
	n, err := s.node()
	if err != nil {
		return false, err
	}
	return n.hidden, nil
}

// SetHidden hides or shows the shape.
func (s Shape) SetHidden(hidden bool) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	n.hidden = hidden
	return nil
}

// GetGeometryPreset returns the preset geometry name, e.g. "rect".
func (s Shape) GetGeometryPreset() (string, error) {
	n, err := s.node()
	if err != nil {
		return "", err
	}
	return n.geom, nil
}

// GetPlaceholder returns the placeholder reference of a placeholder shape.
func (s Shape) GetPlaceholder() (PlaceholderRef, bool, error) {
	n, err := s.node()
	if err != nil {
		return PlaceholderRef{}, false, err
	}
	if n.ph == nil {
		return PlaceholderRef{}, false, nil
	}
	return *n.ph, true, nil
}

// GetParent returns the collection holding the shape.
func (s Shape) GetParent() (*ShapeCollection, error) {
	n, err := s.node()
	if err != nil {
		return nil, err
	}
	return n.owner, nil
}

// GetX returns the left edge in points.
func (s Shape) GetX() (float64, error) {
	n, err := s.node()
	if err != nil {
		return 0, err
	}
	return emuToPoints(s.doc.bounds(n).x), nil
}

// GetY returns the top edge in points.
func (s Shape) GetY() (float64, error) {
	n, err := s.node()
	if err != nil {
		return 0, err
	}
	return emuToPoints(s.doc.bounds(n).y), nil
}

// GetWidth returns the width in points.
func (s Shape) GetWidth() (float64, error) {
	n, err := s.node()
	if err != nil {
		return 0, err
	}
	return emuToPoints(s.doc.bounds(n).cx), nil
}

// GetHeight returns the height in points.
func (s Shape) GetHeight() (float64, error) {
	n, err := s.node()
	if err != nil {
		return 0, err
	}
	return emuToPoints(s.doc.bounds(n).cy), nil
}

// SetX moves the shape horizontally. Moving a group moves its members.
func (s Shape) SetX(x float64) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	b := s.doc.bounds(n)
	s.doc.translate(n, pointsToEMU(x)-b.x, 0)
	return nil
}

// SetY moves the shape vertically. Moving a group moves its members.
func (s Shape) SetY(y float64) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	b := s.doc.bounds(n)
	s.doc.translate(n, 0, pointsToEMU(y)-b.y)
	return nil
}

// SetWidth resizes the shape and re-runs its autofit policy.
func (s Shape) SetWidth(w float64) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	b := s.doc.bounds(n)
	return s.doc.resize(n, pointsToEMU(w), b.cy)
}

// SetHeight resizes the shape and re-runs its autofit policy.
func (s Shape) SetHeight(h float64) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	b := s.doc.bounds(n)
	return s.doc.resize(n, b.cx, pointsToEMU(h))
}

// SetSize resizes both dimensions at once.
func (s Shape) SetSize(w, h float64) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	return s.doc.resize(n, pointsToEMU(w), pointsToEMU(h))
}

// GetRotation returns the rotation in degrees.
func (s Shape) GetRotation() (float64, error) {
	n, err := s.node()
	if err != nil {
		return 0, err
	}
	return float64(n.rot) / rotationUnit, nil
}

// SetRotation sets the rotation in degrees.
func (s Shape) SetRotation(deg float64) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	s.doc.materialize(n)
	n.rot = int64(math.Round(deg * rotationUnit))
	return nil
}

// GetOutline returns the shape outline, or nil when none is set.
func (s Shape) GetOutline() (*Outline, error) {
	n, err := s.node()
	if err != nil {
		return nil, err
	}
	if n.outline == nil {
		return nil, nil
	}
	out := *n.outline
	if out.Color != nil {
		c := out.Color.clone()
		out.Color = &c
	}
	return &out, nil
}

// SetOutline sets the outline width in points and its color.
func (s Shape) SetOutline(width float64, hex string) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	if !n.content.supportsFill() {
		return fmt.Errorf("outline on %s: %w", n.content, ErrInvalidState)
	}
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}
	spec := RGBColor(c)
	n.outline = &Outline{Width: width, Color: &spec}
	return nil
}

// GetTextBox returns the text box of a text-capable shape.
func (s Shape) GetTextBox() (*TextBox, error) {
	n, err := s.node()
	if err != nil {
		return nil, err
	}
	if !n.content.supportsText() {
		return nil, fmt.Errorf("%s %d has no text: %w", n.content, n.id, ErrInvalidState)
	}
	if n.text == nil {
		n.text = newTextBox(s.doc, s)
	}
	return n.text, nil
}

// GetFill returns the fill view of the shape.
func (s Shape) GetFill() (*Fill, error) {
	n, err := s.node()
	if err != nil {
		return nil, err
	}
	if !n.content.supportsFill() {
		return nil, fmt.Errorf("%s %d has no fill: %w", n.content, n.id, ErrInvalidState)
	}
	return &Fill{host: shapeFillHost{s}}, nil
}

// Remove detaches the shape from its container. The handle and every copy
// of it become invalid.
func (s Shape) Remove() error {
	n, err := s.node()
	if err != nil {
		return err
	}
	id := n.id
	n.owner.detach(s.ref)
	s.doc.releaseTree(s.ref)
	s.doc.logger.Debug("shape removed", "id", id)
	return nil
}

// Duplicate copies the shape into the same container under a new id.
func (s Shape) Duplicate() (Shape, error) {
	n, err := s.node()
	if err != nil {
		return Shape{}, err
	}
	c := n.owner
	ref := s.doc.cloneNode(n, c, c.nextID())
	c.refs = append(c.refs, ref)
	return Shape{doc: s.doc, ref: ref}, nil
}

// MoveTo moves the shape into another collection of the same document and
// returns the new handle. The old handle becomes invalid.
func (s Shape) MoveTo(dest *ShapeCollection) (Shape, error) {
	n, err := s.node()
	if err != nil {
		return Shape{}, err
	}
	if dest == nil || dest.doc != s.doc {
		return Shape{}, fmt.Errorf("move to foreign collection: %w", ErrInvalidState)
	}
	if err := dest.check(); err != nil {
		return Shape{}, err
	}
	if dest == n.owner {
		return s, nil
	}
	if s.doc.contains(n, dest) {
		return Shape{}, fmt.Errorf("move group into itself: %w", ErrInvalidState)
	}
	ref := s.doc.cloneNode(n, dest, dest.nextID())
	dest.refs = append(dest.refs, ref)
	if err := s.Remove(); err != nil {
		return Shape{}, err
	}
	return Shape{doc: s.doc, ref: ref}, nil
}

// box is a geometry rectangle in EMU.
type box struct {
	x, y, cx, cy int64
}

// bounds returns the effective geometry of a node: the member bounding box
// for groups, the inherited geometry for placeholders without their own
// transform, and the stored transform otherwise.
func (d *Document) bounds(n *shapeNode) box {
	if n.content == ContentGroup && n.children != nil && len(n.children.refs) > 0 {
		var out box
		first := true
		var maxX, maxY int64
		for _, r := range n.children.refs {
			c, err := d.arena.get(r)
			if err != nil {
				continue
			}
			b := d.bounds(c)
			if first {
				out.x, out.y = b.x, b.y
				maxX, maxY = b.x+b.cx, b.y+b.cy
				first = false
				continue
			}
			out.x = min(out.x, b.x)
			out.y = min(out.y, b.y)
			maxX = max(maxX, b.x+b.cx)
			maxY = max(maxY, b.y+b.cy)
		}
		if !first {
			out.cx, out.cy = maxX-out.x, maxY-out.y
			return out
		}
	}
	if !n.hasXfrm && n.ph != nil {
		if parent := d.placeholderParent(n); parent != nil {
			return d.bounds(parent)
		}
	}
	return box{n.x, n.y, n.cx, n.cy}
}

// materialize gives an inheriting placeholder its own transform.
func (d *Document) materialize(n *shapeNode) {
	if n.hasXfrm {
		return
	}
	b := d.bounds(n)
	n.x, n.y, n.cx, n.cy = b.x, b.y, b.cx, b.cy
	n.hasXfrm = true
}

func (d *Document) translate(n *shapeNode, dx, dy int64) {
	if n.content == ContentGroup && n.children != nil && len(n.children.refs) > 0 {
		for _, r := range n.children.refs {
			if c, err := d.arena.get(r); err == nil {
				d.translate(c, dx, dy)
			}
		}
		return
	}
	d.materialize(n)
	n.x += dx
	n.y += dy
}

// resize sets the extent of a node. Groups scale their members about the
// group's top-left corner.
func (d *Document) resize(n *shapeNode, cx, cy int64) error {
	if cx < 0 || cy < 0 {
		return fmt.Errorf("negative size %dx%d: %w", cx, cy, ErrInvalidState)
	}
	if n.content == ContentGroup && n.children != nil && len(n.children.refs) > 0 {
		b := d.bounds(n)
		fx, fy := 1.0, 1.0
		if b.cx > 0 {
			fx = float64(cx) / float64(b.cx)
		}
		if b.cy > 0 {
			fy = float64(cy) / float64(b.cy)
		}
		return d.scale(n, b.x, b.y, fx, fy)
	}
	d.materialize(n)
	if n.cx == cx && n.cy == cy {
		return nil
	}
	n.cx, n.cy = cx, cy
	if n.text != nil {
		return d.autofit(n.text)
	}
	return nil
}

func (d *Document) scale(n *shapeNode, ox, oy int64, fx, fy float64) error {
	for _, r := range n.children.refs {
		c, err := d.arena.get(r)
		if err != nil {
			continue
		}
		if c.content == ContentGroup && c.children != nil && len(c.children.refs) > 0 {
			if err := d.scale(c, ox, oy, fx, fy); err != nil {
				return err
			}
			continue
		}
		d.materialize(c)
		c.x = ox + int64(math.Round(float64(c.x-ox)*fx))
		c.y = oy + int64(math.Round(float64(c.y-oy)*fy))
		cx := int64(math.Round(float64(c.cx) * fx))
		cy := int64(math.Round(float64(c.cy) * fy))
		if err := d.resize(c, cx, cy); err != nil {
			return err
		}
	}
	return nil
}

// releaseTree frees a node and every node below it.
func (d *Document) releaseTree(r nodeRef) {
	n, err := d.arena.get(r)
	if err != nil {
		return
	}
	if n.children != nil {
		for _, cr := range n.children.refs {
			d.releaseTree(cr)
		}
		n.children.released = true
	}
	d.arena.release(r)
}

// contains reports whether c is the member collection of n or of one of
// its descendants.
func (d *Document) contains(n *shapeNode, c *ShapeCollection) bool {
	if n.children == nil {
		return false
	}
	if n.children == c {
		return true
	}
	for _, r := range n.children.refs {
		if child, err := d.arena.get(r); err == nil && d.contains(child, c) {
			return true
		}
	}
	return false
}

// cloneNode deep-copies n into dest under id and returns the new ref. The
// caller appends the ref to dest.
func (d *Document) cloneNode(n *shapeNode, dest *ShapeCollection, id int) nodeRef {
	ref, out := d.arena.alloc()
	gen := out.gen
	*out = *n
	out.gen, out.live = gen, true
	out.owner = dest
	out.id = id
	out.props = n.props.clone()
	if n.outline != nil {
		o := *n.outline
		if o.Color != nil {
			c := o.Color.clone()
			o.Color = &c
		}
		out.outline = &o
	}
	if n.ph != nil {
		ph := *n.ph
		out.ph = &ph
	}
	samePart := dest.slide == n.owner.slide && dest.layout == n.owner.layout && dest.master == n.owner.master
	if !n.hasXfrm && !samePart {
		b := d.bounds(n)
		out.x, out.y, out.cx, out.cy = b.x, b.y, b.cx, b.cy
		out.hasXfrm = true
	}
	handle := Shape{doc: d, ref: ref}
	if n.text != nil {
		out.text = n.text.clone(handle)
	}
	if n.children != nil {
		out.children = dest.childCollection(ref)
		for _, cr := range n.children.refs {
			c, err := d.arena.get(cr)
			if err != nil {
				continue
			}
			out.children.refs = append(out.children.refs, d.cloneNode(c, out.children, c.id))
		}
		out.children.maxID = n.children.maxID
	}
	if n.table != nil {
		out.table = n.table.clone(d, handle)
	}
	return ref
}
