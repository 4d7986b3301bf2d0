package slidedom

import "fmt"

// Typed views over a Shape. Each view matches exactly one ShapeContent.
type (
	// AutoShape is a plain shape or text box.
	AutoShape struct{ Shape }
	// Group is a shape whose content is a collection of shapes.
	Group struct{ Shape }
	// Table is a graphic frame holding a grid of cells.
	Table struct{ Shape }
	// Chart is a graphic frame holding a chart.
	Chart struct{ Shape }
	// Picture is an image shape.
	Picture struct{ Shape }
	// Media is an audio or video frame.
	Media struct{ Shape }
	// OLEObject is an embedded object frame.
	OLEObject struct{ Shape }
	// Placeholder is a shape inheriting from a layout and master.
	Placeholder struct{ Shape }
)

// ShapeView constrains the typed views accepted by the generic lookups.
type ShapeView interface {
	AutoShape | Group | Table | Chart | Picture | Media | OLEObject | Placeholder
	kind() ShapeContent
}

func (AutoShape) kind() ShapeContent   { return ContentShape }
func (Group) kind() ShapeContent       { return ContentGroup }
func (Table) kind() ShapeContent       { return ContentTable }
func (Chart) kind() ShapeContent       { return ContentChart }
func (Picture) kind() ShapeContent     { return ContentPicture }
func (Media) kind() ShapeContent       { return ContentMedia }
func (OLEObject) kind() ShapeContent   { return ContentOLEObject }
func (Placeholder) kind() ShapeContent { return ContentPlaceholder }

// As converts a shape handle to the typed view T.
func As[T ShapeView](s Shape) (T, error) {
	var zero T
	n, err := s.node()
	if err != nil {
		return zero, err
	}
	if n.content != zero.kind() {
		return zero, fmt.Errorf("shape %d is a %s, not a %s: %w", n.id, n.content, zero.kind(), ErrNotFound)
	}
	return T(struct{ Shape }{s}), nil
}

// GetShapes returns the members of the group.
func (g Group) GetShapes() (*ShapeCollection, error) {
	n, err := g.node()
	if err != nil {
		return nil, err
	}
	return n.children, nil
}

// GetImage returns the media entry holding the picture bytes.
func (p Picture) GetImage() (*MediaHandle, error) {
	n, err := p.node()
	if err != nil {
		return nil, err
	}
	return n.media, nil
}

// SetImage replaces the picture bytes. Identical bytes elsewhere in the
// document are shared.
func (p Picture) SetImage(data []byte) error {
	n, err := p.node()
	if err != nil {
		return err
	}
	h, err := p.doc.media.Add(data, "")
	if err != nil {
		return err
	}
	n.media = h
	return nil
}

// GetChartType returns the plot kind.
func (c Chart) GetChartType() (ChartType, error) {
	n, err := c.node()
	if err != nil {
		return "", err
	}
	return n.chart, nil
}

// SetChartType changes the plot kind.
func (c Chart) SetChartType(kind ChartType) error {
	n, err := c.node()
	if err != nil {
		return err
	}
	n.chart = kind
	return nil
}

// GetMedia returns the media entry of the frame.
func (m Media) GetMedia() (*MediaHandle, error) {
	n, err := m.node()
	if err != nil {
		return nil, err
	}
	return n.media, nil
}

// GetProgID returns the program id of the embedded object.
func (o OLEObject) GetProgID() (string, error) {
	n, err := o.node()
	if err != nil {
		return "", err
	}
	return n.progID, nil
}

// GetData returns the embedded object payload.
func (o OLEObject) GetData() (*MediaHandle, error) {
	n, err := o.node()
	if err != nil {
		return nil, err
	}
	return n.media, nil
}

// GetPlaceholderType returns the placeholder type.
func (p Placeholder) GetPlaceholderType() (PlaceholderType, error) {
	ref, _, err := p.GetPlaceholder()
	if err != nil {
		return "", err
	}
	return ref.Type, nil
}
