package slidedom

import (
	"bytes"
	"fmt"
	"image"
	"slices"
)

// ShapeCollection is the ordered set of shapes of a slide, layout, master
// or group. Every accessor projects the current member list; nothing is
// cached between calls.
type ShapeCollection struct {
	doc    *Document
	slide  *Slide
	layout *SlideLayout
	master *SlideMaster
	group  *nodeRef

	refs []nodeRef
	// released is set once the owning slide or group is removed.
	released bool
	// maxID is the highest id ever assigned here, so removed ids are not
	// handed out again.
	maxID int
}

func newRootCollection(d *Document) *ShapeCollection {
	// id 1 belongs to the tree root itself
	return &ShapeCollection{doc: d, maxID: 1}
}

func (c *ShapeCollection) childCollection(group nodeRef) *ShapeCollection {
	g := group
	return &ShapeCollection{
		doc:    c.doc,
		slide:  c.slide,
		layout: c.layout,
		master: c.master,
		group:  &g,
	}
}

func (c *ShapeCollection) nextID() int {
	next := c.maxID
	for _, r := range c.refs {
		if n, err := c.doc.arena.get(r); err == nil && n.id > next {
			next = n.id
		}
	}
	next++
	c.maxID = next
	return next
}

// check fails once the slide or group owning c has been removed.
func (c *ShapeCollection) check() error {
	if c.released {
		return fmt.Errorf("shape collection of a removed container: %w", ErrInvalidState)
	}
	return nil
}

// noteID raises the high-water mark for ids read from a package.
func (c *ShapeCollection) noteID(id int) {
	if id > c.maxID {
		c.maxID = id
	}
}

func (c *ShapeCollection) detach(r nodeRef) {
	c.refs = slices.DeleteFunc(c.refs, func(x nodeRef) bool { return x == r })
}

// Count returns the number of shapes.
func (c *ShapeCollection) Count() int {
	return len(c.refs)
}

// All returns handles to every shape in document order.
func (c *ShapeCollection) All() []Shape {
	out := make([]Shape, 0, len(c.refs))
	for _, r := range c.refs {
		out = append(out, Shape{doc: c.doc, ref: r})
	}
	return out
}

// At returns the shape at position i.
func (c *ShapeCollection) At(i int) (Shape, error) {
	if i < 0 || i >= len(c.refs) {
		return Shape{}, fmt.Errorf("shape %d of %d: %w", i, len(c.refs), errOutOfRange)
	}
	return Shape{doc: c.doc, ref: c.refs[i]}, nil
}

// GetByID returns the shape with the given id.
func (c *ShapeCollection) GetByID(id int) (Shape, error) {
	s, ok := c.TryGetByID(id)
	if !ok {
		return Shape{}, fmt.Errorf("shape with id %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// TryGetByID is like GetByID but reports absence with a boolean.
func (c *ShapeCollection) TryGetByID(id int) (Shape, bool) {
	return c.find(func(n *shapeNode) bool { return n.id == id })
}

// GetByName returns the first shape with the given name.
func (c *ShapeCollection) GetByName(name string) (Shape, error) {
	s, ok := c.TryGetByName(name)
	if !ok {
		return Shape{}, fmt.Errorf("shape named %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// TryGetByName is like GetByName but reports absence with a boolean.
func (c *ShapeCollection) TryGetByName(name string) (Shape, bool) {
	return c.find(func(n *shapeNode) bool { return n.name == name })
}

// Last returns the last shape of the collection.
func (c *ShapeCollection) Last() (Shape, error) {
	if len(c.refs) == 0 {
		return Shape{}, fmt.Errorf("last shape of empty collection: %w", ErrNotFound)
	}
	return Shape{doc: c.doc, ref: c.refs[len(c.refs)-1]}, nil
}

// Remove removes a shape of this collection.
func (c *ShapeCollection) Remove(s Shape) error {
	n, err := s.node()
	if err != nil {
		return err
	}
	if n.owner != c {
		return fmt.Errorf("shape %d is not a member: %w", n.id, ErrNotFound)
	}
	return s.Remove()
}

func (c *ShapeCollection) find(match func(*shapeNode) bool) (Shape, bool) {
	for _, r := range c.refs {
		n, err := c.doc.arena.get(r)
		if err != nil {
			continue
		}
		if match(n) {
			return Shape{doc: c.doc, ref: r}, true
		}
	}
	return Shape{}, false
}

// GetByID returns the shape with the given id when it is of kind T.
func GetByID[T ShapeView](c *ShapeCollection, id int) (T, error) {
	v, ok := TryGetByID[T](c, id)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s with id %d: %w", zero.kind(), id, ErrNotFound)
	}
	return v, nil
}

// TryGetByID is like GetByID but reports absence with a boolean.
func TryGetByID[T ShapeView](c *ShapeCollection, id int) (T, bool) {
	var zero T
	s, ok := c.find(func(n *shapeNode) bool { return n.id == id && n.content == zero.kind() })
	if !ok {
		return zero, false
	}
	return T(struct{ Shape }{s}), true
}

// GetByName returns the first shape of kind T with the given name.
func GetByName[T ShapeView](c *ShapeCollection, name string) (T, error) {
	v, ok := TryGetByName[T](c, name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s named %q: %w", zero.kind(), name, ErrNotFound)
	}
	return v, nil
}

// TryGetByName is like GetByName but reports absence with a boolean.
func TryGetByName[T ShapeView](c *ShapeCollection, name string) (T, bool) {
	var zero T
	s, ok := c.find(func(n *shapeNode) bool { return n.name == name && n.content == zero.kind() })
	if !ok {
		return zero, false
	}
	return T(struct{ Shape }{s}), true
}

// Last returns the last shape of kind T.
func Last[T ShapeView](c *ShapeCollection) (T, error) {
	var zero T
	for i := len(c.refs) - 1; i >= 0; i-- {
		n, err := c.doc.arena.get(c.refs[i])
		if err != nil || n.content != zero.kind() {
			continue
		}
		return T(struct{ Shape }{Shape{doc: c.doc, ref: c.refs[i]}}), nil
	}
	return zero, fmt.Errorf("last %s: %w", zero.kind(), ErrNotFound)
}

// alloc appends a node at the end of the collection.
func (c *ShapeCollection) alloc(content ShapeContent, prefix string, b box) (Shape, *shapeNode) {
	ref, n := c.doc.arena.alloc()
	n.owner = c
	n.id = c.nextID()
	n.name = fmt.Sprintf("%s %d", prefix, n.id)
	n.content = content
	n.hasXfrm = true
	n.x, n.y, n.cx, n.cy = b.x, b.y, b.cx, b.cy
	n.geom = "rect"
	c.refs = append(c.refs, ref)
	return Shape{doc: c.doc, ref: ref}, n
}

// adopt appends a node read from a package. The stored id is kept unless it
// is missing or already taken in this collection.
func (c *ShapeCollection) adopt(content ShapeContent, id int, name string) (Shape, *shapeNode) {
	ref, n := c.doc.arena.alloc()
	n.owner = c
	if _, taken := c.TryGetByID(id); id <= 0 || taken {
		id = c.nextID()
	}
	c.noteID(id)
	n.id = id
	n.name = name
	n.content = content
	c.refs = append(c.refs, ref)
	return Shape{doc: c.doc, ref: ref}, n
}

func pointBox(x, y, w, h float64) box {
	return box{pointsToEMU(x), pointsToEMU(y), pointsToEMU(w), pointsToEMU(h)}
}

// AddShape adds a rectangle auto-shape with an empty text box.
func (c *ShapeCollection) AddShape(x, y, w, h float64) (AutoShape, error) {
	if err := c.check(); err != nil {
		return AutoShape{}, err
	}
	s, n := c.alloc(ContentShape, "Shape", pointBox(x, y, w, h))
	n.text = newTextBox(c.doc, s)
	return AutoShape{s}, nil
}

// AddTextBox adds a text box holding text.
func (c *ShapeCollection) AddTextBox(x, y, w, h float64, text string) (AutoShape, error) {
	if err := c.check(); err != nil {
		return AutoShape{}, err
	}
	s, n := c.alloc(ContentShape, "TextBox", pointBox(x, y, w, h))
	n.txBox = true
	n.text = newTextBox(c.doc, s)
	if err := n.text.SetText(text); err != nil {
		return AutoShape{}, err
	}
	return AutoShape{s}, nil
}

// addPlaceholder adds a placeholder shape with its own geometry.
func (c *ShapeCollection) addPlaceholder(ref PlaceholderRef, name string, b box) Shape {
	s, n := c.alloc(ContentPlaceholder, name, b)
	n.name = fmt.Sprintf("%s %d", name, n.id-1)
	n.ph = &ref
	n.text = newTextBox(c.doc, s)
	return s
}

// AddGroup groups the given members of this collection. The members keep
// their ids inside the group; the passed handles become invalid.
func (c *ShapeCollection) AddGroup(shapes ...Shape) (Group, error) {
	if err := c.check(); err != nil {
		return Group{}, err
	}
	if len(shapes) == 0 {
		return Group{}, fmt.Errorf("group needs at least one shape: %w", ErrInvalidState)
	}
	nodes := make([]*shapeNode, 0, len(shapes))
	for _, s := range shapes {
		n, err := s.node()
		if err != nil {
			return Group{}, err
		}
		if n.owner != c {
			return Group{}, fmt.Errorf("shape %d is not a member: %w", n.id, ErrNotFound)
		}
		if slices.Contains(nodes, n) {
			return Group{}, fmt.Errorf("shape %d listed twice: %w", n.id, ErrInvalidState)
		}
		nodes = append(nodes, n)
	}

	g, gn := c.alloc(ContentGroup, "Group", box{})
	gn.children = c.childCollection(g.ref)
	for _, n := range nodes {
		gn.children.refs = append(gn.children.refs, c.doc.cloneNode(n, gn.children, n.id))
		gn.children.noteID(n.id)
	}
	for _, s := range shapes {
		if err := s.Remove(); err != nil {
			return Group{}, err
		}
	}
	gb := c.doc.bounds(gn)
	gn.x, gn.y, gn.cx, gn.cy = gb.x, gb.y, gb.cx, gb.cy
	return Group{g}, nil
}

// AddTable adds a rows×cols table with empty cells.
func (c *ShapeCollection) AddTable(rows, cols int, x, y, w, h float64) (Table, error) {
	if rows < 1 || cols < 1 {
		return Table{}, fmt.Errorf("table %dx%d: %w", rows, cols, ErrInvalidState)
	}
	if err := c.check(); err != nil {
		return Table{}, err
	}
	b := pointBox(x, y, w, h)
	s, n := c.alloc(ContentTable, "Table", b)
	n.table = newTableData(c.doc, s, rows, cols, b.cx, b.cy)
	return Table{s}, nil
}

// AddPicture adds a picture sized from the image's pixel dimensions at
// 96 DPI. Identical image bytes share one media entry.
func (c *ShapeCollection) AddPicture(data []byte) (Picture, error) {
	if err := c.check(); err != nil {
		return Picture{}, err
	}
	h, err := c.doc.media.Add(data, "")
	if err != nil {
		return Picture{}, err
	}
	w, ht := pixelsToPoints(h.width), pixelsToPoints(h.height)
	s, n := c.alloc(ContentPicture, "Picture", pointBox(0, 0, w, ht))
	n.media = h
	return Picture{s}, nil
}

// AddChart adds a chart frame of the given plot kind.
func (c *ShapeCollection) AddChart(kind ChartType, x, y, w, h float64) (Chart, error) {
	if err := c.check(); err != nil {
		return Chart{}, err
	}
	s, n := c.alloc(ContentChart, "Chart", pointBox(x, y, w, h))
	n.chart = kind
	return Chart{s}, nil
}

// AddMedia adds an audio or video frame.
func (c *ShapeCollection) AddMedia(data []byte, contentType string, x, y, w, h float64) (Media, error) {
	if contentType == "" {
		return Media{}, fmt.Errorf("media content type is empty: %w", ErrFormat)
	}
	if err := c.check(); err != nil {
		return Media{}, err
	}
	mh, err := c.doc.media.Add(data, contentType)
	if err != nil {
		return Media{}, err
	}
	s, n := c.alloc(ContentMedia, "Media", pointBox(x, y, w, h))
	n.media = mh
	return Media{s}, nil
}

// AddOLEObject adds an embedded object frame.
func (c *ShapeCollection) AddOLEObject(progID string, data []byte, x, y, w, h float64) (OLEObject, error) {
	if err := c.check(); err != nil {
		return OLEObject{}, err
	}
	mh, err := c.doc.media.Add(data, contentTypeOLE)
	if err != nil {
		return OLEObject{}, err
	}
	s, n := c.alloc(ContentOLEObject, "Object", pointBox(x, y, w, h))
	n.media = mh
	n.progID = progID
	return OLEObject{s}, nil
}

// imageSize decodes only the header of an image.
func imageSize(data []byte) (format string, w, h int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode image header: %v: %w", err, ErrFormat)
	}
	return format, cfg.Width, cfg.Height, nil
}

func pixelsToPoints(px int) float64 {
	return float64(px) * 72 / 96
}
