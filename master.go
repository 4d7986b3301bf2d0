package slidedom

// LayoutType represents the built-in type of a slide layout.
type LayoutType string

const (
	LayoutTitle      LayoutType = "title"
	LayoutObject     LayoutType = "obj"
	LayoutTitleOnly  LayoutType = "titleOnly"
	LayoutBlank      LayoutType = "blank"
	LayoutTwoObjects LayoutType = "twoObj"
	LayoutCustom     LayoutType = "cust"
)

// maxLevels is the number of paragraph indent levels.
const maxLevels = 9

// ListStyle holds default run properties per paragraph level.
type ListStyle struct {
	Levels [maxLevels]FontProps
}

func (ls *ListStyle) level(i int) *FontProps {
	if i < 0 {
		i = 0
	}
	if i >= maxLevels {
		i = maxLevels - 1
	}
	return &ls.Levels[i]
}

func (ls ListStyle) clone() ListStyle {
	var out ListStyle
	for i := range ls.Levels {
		out.Levels[i] = ls.Levels[i].clone()
	}
	return out
}

// TextStyles are the master-wide defaults for title placeholders, other
// placeholders and free text.
type TextStyles struct {
	Title ListStyle
	Body  ListStyle
	Other ListStyle
}

// SlideMaster is the top template tier. It references exactly one theme.
type SlideMaster struct {
	doc        *Document
	name       string
	theme      *Theme
	colorMap   ColorMap
	layouts    []*SlideLayout
	shapes     *ShapeCollection
	textStyles TextStyles
	background ShapeProperties
}

func newSlideMaster(d *Document, name string, theme *Theme) *SlideMaster {
	m := &SlideMaster{
		doc:      d,
		name:     name,
		theme:    theme,
		colorMap: DefaultColorMap(),
		shapes:   newRootCollection(d),
	}
	m.shapes.master = m
	return m
}

// GetName returns the master name.
func (m *SlideMaster) GetName() string { return m.name }

// GetTheme returns the theme of the master.
func (m *SlideMaster) GetTheme() *Theme { return m.theme }

// SetTheme replaces the theme of the master.
func (m *SlideMaster) SetTheme(t *Theme) { m.theme = t }

// GetColorMap returns the alias mapping used for tx/bg scheme references.
func (m *SlideMaster) GetColorMap() ColorMap { return m.colorMap }

// GetTextStyles returns the master text styles for editing.
func (m *SlideMaster) GetTextStyles() *TextStyles { return &m.textStyles }

// GetShapes returns the master shape tree.
func (m *SlideMaster) GetShapes() *ShapeCollection { return m.shapes }

// GetLayouts returns the layouts derived from this master.
func (m *SlideMaster) GetLayouts() []*SlideLayout { return m.layouts }

// GetLayoutByName returns the first layout with the given name, or nil.
func (m *SlideMaster) GetLayoutByName(name string) *SlideLayout {
	for _, l := range m.layouts {
		if l.name == name {
			return l
		}
	}
	return nil
}

// AddLayout creates an empty layout under this master.
func (m *SlideMaster) AddLayout(name string, typ LayoutType) *SlideLayout {
	l := &SlideLayout{doc: m.doc, name: name, typ: typ, master: m, shapes: newRootCollection(m.doc)}
	l.shapes.layout = l
	m.layouts = append(m.layouts, l)
	return l
}

// SlideLayout is the middle template tier. It references exactly one master.
type SlideLayout struct {
	doc    *Document
	name   string
	typ    LayoutType
	master *SlideMaster
	shapes *ShapeCollection
}

// GetName returns the layout name.
func (l *SlideLayout) GetName() string { return l.name }

// GetType returns the layout type.
func (l *SlideLayout) GetType() LayoutType { return l.typ }

// GetMaster returns the master of the layout.
func (l *SlideLayout) GetMaster() *SlideMaster { return l.master }

// GetShapes returns the layout shape tree.
func (l *SlideLayout) GetShapes() *ShapeCollection { return l.shapes }

// newDefaultMaster builds the stock Office master with its title, body and
// footer placeholders and three layouts.
func newDefaultMaster(d *Document) *SlideMaster {
	m := newSlideMaster(d, "Office Theme", NewOfficeTheme())

	title := m.shapes.addPlaceholder(PlaceholderRef{Type: PlaceholderTitle}, "Title Placeholder",
		box{838200, 365125, 10515600, 1325563})
	body := m.shapes.addPlaceholder(PlaceholderRef{Type: PlaceholderBody, Index: 1}, "Text Placeholder",
		box{838200, 1825625, 10515600, 4351338})
	for _, s := range []Shape{title, body} {
		n, _ := s.node()
		n.text.autofit = AutofitShrinkText
	}
	n, _ := title.node()
	n.text.anchor = AnchorMiddle
	m.shapes.addPlaceholder(PlaceholderRef{Type: PlaceholderFooter, Index: 11}, "Footer Placeholder",
		box{4038600, 6356350, 4114800, 365125})

	mj, mn := "+mj-lt", "+mn-lt"
	tx1 := SchemeRef(SchemeText1)
	m.textStyles.Title.Levels[0] = FontProps{Size: ptr(44.0), Latin: &mj, Color: &tx1}
	bodySizes := [maxLevels]float64{28, 24, 20, 18, 18, 18, 18, 18, 18}
	for i, sz := range bodySizes {
		c := tx1
		m.textStyles.Body.Levels[i] = FontProps{Size: ptr(sz), Latin: &mn, Color: &c}
		oc := tx1
		m.textStyles.Other.Levels[i] = FontProps{Size: ptr(18.0), Latin: &mn, Color: &oc}
	}

	ts := m.AddLayout("Title Slide", LayoutTitle)
	ts.shapes.addPlaceholder(PlaceholderRef{Type: PlaceholderCenterTitle}, "Title",
		box{1524000, 1122363, 9144000, 2387600})
	sub := ts.shapes.addPlaceholder(PlaceholderRef{Type: PlaceholderSubTitle, Index: 1}, "Subtitle",
		box{1524000, 3602038, 9144000, 1655762})
	sn, _ := sub.node()
	sn.text.lstStyle.Levels[0].Size = ptr(24.0)

	tc := m.AddLayout("Title and Content", LayoutObject)
	tc.shapes.addPlaceholder(PlaceholderRef{Type: PlaceholderTitle}, "Title", box{})
	tc.shapes.addPlaceholder(PlaceholderRef{Type: PlaceholderObject, Index: 1}, "Content Placeholder", box{})
	for _, s := range tc.shapes.All() {
		n, _ := s.node()
		n.hasXfrm = false
	}

	m.AddLayout("Blank", LayoutBlank)
	return m
}

func ptr[T any](v T) *T { return &v }
