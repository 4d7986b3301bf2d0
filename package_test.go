package slidedom

import (
	"archive/zip"
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func named(t *testing.T, c *ShapeCollection, name string) Shape {
	t.Helper()
	s, err := c.GetByName(name)
	if err != nil {
		t.Fatalf("GetByName(%q) error = %v", name, err)
	}
	return s
}

func geometry(t *testing.T, s Shape) [4]float64 {
	t.Helper()
	x, err := s.GetX()
	if err != nil {
		t.Fatalf("GetX() error = %v", err)
	}
	y, _ := s.GetY()
	w, _ := s.GetWidth()
	h, _ := s.GetHeight()
	return [4]float64{x, y, w, h}
}

func TestRoundTripText(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	box, _ := s.GetShapes().AddTextBox(20, 30, 300, 100, "")
	box.SetName("Notes")
	tb, _ := box.GetTextBox()
	if err := tb.SetMarkdownText("Plain **bold** tail\n- item"); err != nil {
		t.Fatalf("SetMarkdownText() error = %v", err)
	}
	p, _ := tb.GetParagraphs().Add("")
	if err := p.SetText("before\nafter"); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	r := p.GetPortions()[0]
	r.GetFont().SetSize(28)
	r.GetFont().SetColor("1F4E79")
	r.GetFont().SetLatinName("Georgia")

	out := roundTrip(t, d)
	rs, _ := out.GetSlide(0)
	got, _ := named(t, rs.GetShapes(), "Notes").GetTextBox()

	if diff := cmp.Diff(describeParagraphs(t, tb), describeParagraphs(t, got)); diff != "" {
		t.Errorf("paragraphs mismatch after round trip (-want +got):\n%s", diff)
	}
	gp, _ := got.GetParagraphs().At(2)
	if n := len(gp.GetPortions()); n != 1 {
		t.Fatalf("line break split the portion into %d", n)
	}
	f := gp.GetPortions()[0].GetFont()
	if sz, _ := f.GetSize(); sz != 28 {
		t.Errorf("GetSize() = %v, want 28", sz)
	}
	if c, _ := f.GetColor(); c != "1F4E79" {
		t.Errorf("GetColor() = %q, want 1F4E79", c)
	}
	if name, _ := f.GetLatinName(); name != "Georgia" {
		t.Errorf("GetLatinName() = %q, want Georgia", name)
	}
	if g := geometry(t, named(t, rs.GetShapes(), "Notes")); g != [4]float64{20, 30, 300, 100} {
		t.Errorf("geometry = %v", g)
	}
}

func TestRoundTripPlaceholders(t *testing.T) {
	d := newTestDoc(t)
	s := mustSlide(t, d, "Title and Content")
	title, _ := s.GetShapes().At(0)
	tb, _ := title.GetTextBox()
	tb.SetText("Agenda")

	out := roundTrip(t, d)
	rs, err := out.GetSlide(1)
	if err != nil {
		t.Fatalf("GetSlide(1) error = %v", err)
	}
	if got := rs.GetLayout().GetName(); got != "Title and Content" {
		t.Errorf("layout = %q, want Title and Content", got)
	}
	ot, _ := rs.GetShapes().At(0)
	ref, ok, _ := ot.GetPlaceholder()
	if !ok || ref.Type != PlaceholderTitle {
		t.Fatalf("GetPlaceholder() = %+v, %v, want a title", ref, ok)
	}
	// geometry and size still come from the master
	if g := geometry(t, ot); g != geometry(t, title) {
		t.Errorf("geometry = %v, want %v", g, geometry(t, title))
	}
	otb, _ := ot.GetTextBox()
	if otb.GetText() != "Agenda" {
		t.Errorf("GetText() = %q", otb.GetText())
	}
	f := firstFont(t, otb)
	if sz, _ := f.GetSize(); sz != 44 {
		t.Errorf("GetSize() = %v, want 44", sz)
	}
	if name, _ := f.GetLatinName(); name != "Calibri Light" {
		t.Errorf("GetLatinName() = %q, want Calibri Light", name)
	}

	if got := len(out.GetSlideMasters()[0].GetLayouts()); got != 3 {
		t.Errorf("layouts = %d, want 3", got)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestRoundTripFills(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	shapes := s.GetShapes()
	fillOf := func(name string) *Fill {
		sh := mustAddShape(t, shapes, 0, 0, 10, 10)
		sh.SetName(name)
		f, _ := sh.GetFill()
		return f
	}
	fillOf("solid").SetColor("FF000080")
	scheme := fillOf("scheme")
	scheme.SetSchemeColor(SchemeAccent1)
	sp, _, _ := scheme.host.readProps()
	sp.Solid.Color.LumMod = ptr(600)
	sp.Solid.Color.LumOff = ptr(400)
	fillOf("gradient").SetGradient(45, GradientStop{0, RGBColor(ColorRed)}, GradientStop{1000, SchemeRef(SchemeAccent2)})
	fillOf("pattern").SetPattern("ltHorz", "000000", "FFFFFF")
	fillOf("picture").SetPicture(testPNG())
	fillOf("none").SetNoFill()
	fillOf("background").SetSlideBackground()
	s.GetBackground().SetColor("F2F2F2")

	out := roundTrip(t, d)
	rs, _ := out.GetSlide(0)
	get := func(name string) *Fill {
		f, err := named(t, rs.GetShapes(), name).GetFill()
		if err != nil {
			t.Fatalf("GetFill() error = %v", err)
		}
		return f
	}

	tests := []struct {
		name string
		want FillType
	}{
		{"solid", FillSolid},
		{"scheme", FillSolid},
		{"gradient", FillGradient},
		{"pattern", FillPattern},
		{"picture", FillPicture},
		{"none", FillNone},
		{"background", FillSlideBackground},
	}
	for _, tt := range tests {
		if got, _ := get(tt.name).GetType(); got != tt.want {
			t.Errorf("%s: GetType() = %v, want %v", tt.name, got, tt.want)
		}
	}

	if a, _ := get("solid").GetAlpha(); a != 50.1 {
		t.Errorf("GetAlpha() = %v, want 50.1", a)
	}
	sf := get("scheme")
	if c, _ := sf.GetColor(); c != "4472C4" {
		t.Errorf("scheme GetColor() = %q, want 4472C4", c)
	}
	if v, _ := sf.GetLuminanceModulation(); v != 60 {
		t.Errorf("GetLuminanceModulation() = %v, want 60", v)
	}
	if v, _ := sf.GetLuminanceOffset(); v != 40 {
		t.Errorf("GetLuminanceOffset() = %v, want 40", v)
	}
	g, _ := get("gradient").GetGradient()
	if g == nil || g.Angle != 45 || len(g.Stops) != 2 || g.Stops[1].Color.Scheme != SchemeAccent2 {
		t.Errorf("GetGradient() = %+v", g)
	}
	if pic, _ := get("picture").GetPicture(); pic == nil || !bytes.Equal(pic.Bytes(), testPNG()) {
		t.Errorf("picture fill lost its image")
	}
	if c, _ := get("background").GetColor(); c != "F2F2F2" {
		t.Errorf("background-filled shape color = %q, want F2F2F2", c)
	}
}

func TestRoundTripGroups(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	a := mustAddShape(t, s.GetShapes(), 10, 10, 100, 50)
	b := mustAddShape(t, s.GetShapes(), 150, 100, 100, 50)
	g, err := s.GetShapes().AddGroup(a.Shape, b.Shape)
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	g.SetName("Pair")

	out := roundTrip(t, d)
	rs, _ := out.GetSlide(0)
	og, err := GetByName[Group](rs.GetShapes(), "Pair")
	if err != nil {
		t.Fatalf("GetByName[Group]() error = %v", err)
	}
	if got := geometry(t, og.Shape); got != [4]float64{10, 10, 240, 140} {
		t.Errorf("group geometry = %v", got)
	}
	members, _ := og.GetShapes()
	var got [][4]float64
	for _, m := range members.All() {
		got = append(got, geometry(t, m))
	}
	want := [][4]float64{{10, 10, 100, 50}, {150, 100, 100, 50}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("member geometry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 3}, ids(t, members)); diff != "" {
		t.Errorf("member ids mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripTable(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	tbl, _ := s.GetShapes().AddTable(2, 3, 0, 0, 300, 60)
	tbl.SetName("Grid")
	tbl.SetColumnWidth(2, 150)
	c, _ := tbl.GetCell(1, 2)
	c.GetTextBox().SetText("total")

	out := roundTrip(t, d)
	rs, _ := out.GetSlide(0)
	ot, err := GetByName[Table](rs.GetShapes(), "Grid")
	if err != nil {
		t.Fatalf("GetByName[Table]() error = %v", err)
	}
	rows, _ := ot.GetRowCount()
	cols, _ := ot.GetColumnCount()
	if rows != 2 || cols != 3 {
		t.Errorf("table is %dx%d, want 2x3", rows, cols)
	}
	if w, _ := ot.GetColumnWidth(2); w != 150 {
		t.Errorf("GetColumnWidth(2) = %v, want 150", w)
	}
	oc, _ := ot.GetCell(1, 2)
	if oc.GetTextBox().GetText() != "total" {
		t.Errorf("cell text = %q, want total", oc.GetTextBox().GetText())
	}
	if oc.GetTextBox().GetAutofit() != AutofitNone {
		t.Errorf("cell autofit = %v, want None", oc.GetTextBox().GetAutofit())
	}
}

func TestRoundTripMedia(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	shapes := s.GetShapes()
	shapes.AddPicture(testPNG())
	shapes.AddPicture(testPNG())
	shapes.AddPicture(testGIF())
	shapes.AddMedia([]byte("fake video"), "video/mp4", 0, 0, 320, 240)
	shapes.AddChart(ChartPie, 0, 0, 200, 200)
	shapes.AddOLEObject("Excel.Sheet.12", []byte("workbook"), 0, 0, 100, 100)
	// not referenced by any shape, so it is not written
	d.GetMedia().Add([]byte("orphan"), "audio/wav")

	out := roundTrip(t, d)
	if n := out.GetMedia().Len(); n != 4 {
		t.Errorf("media entries = %d, want 4", n)
	}
	rs, _ := out.GetSlide(0)
	oc := rs.GetShapes()
	p1, _ := GetByID[Picture](oc, 2)
	p2, _ := GetByID[Picture](oc, 3)
	h1, _ := p1.GetImage()
	h2, _ := p2.GetImage()
	if h1 == nil || h1 != h2 {
		t.Errorf("pictures of identical bytes hold different entries")
	}
	if w, _ := p1.GetWidth(); w != 0.75 {
		t.Errorf("picture width = %v, want 0.75", w)
	}

	m, err := Last[Media](oc)
	if err != nil {
		t.Fatalf("Last[Media]() error = %v", err)
	}
	mh, _ := m.GetMedia()
	if mh.GetContentType() != "video/mp4" || string(mh.Bytes()) != "fake video" {
		t.Errorf("media = %s %q", mh.GetContentType(), mh.Bytes())
	}
	ch, _ := Last[Chart](oc)
	if kind, _ := ch.GetChartType(); kind != ChartPie {
		t.Errorf("GetChartType() = %q, want pieChart", kind)
	}
	ole, _ := Last[OLEObject](oc)
	if prog, _ := ole.GetProgID(); prog != "Excel.Sheet.12" {
		t.Errorf("GetProgID() = %q", prog)
	}
	if data, _ := ole.GetData(); data == nil || string(data.Bytes()) != "workbook" {
		t.Errorf("OLE data lost")
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestRoundTripAutofit(t *testing.T) {
	d := newTestDoc(t)
	tb := shrinkBox(t, d)
	tb.SetText(lines(6))
	_, rtb := newTextBoxOnSlide(t, d, "grow")
	rtb.SetAutofit(AutofitResizeShape)
	rtb.SetAnchor(AnchorBottom)

	out := roundTrip(t, d)
	rs, _ := out.GetSlide(0)
	first, _ := rs.GetShapes().At(0)
	otb, _ := first.GetTextBox()
	if otb.GetAutofit() != AutofitShrinkText || otb.GetFontScale() != 0.775 {
		t.Errorf("autofit = %v scale %v, want ShrinkText 0.775", otb.GetAutofit(), otb.GetFontScale())
	}
	if sz, _ := firstFont(t, otb).GetSize(); !approx(sz, 13.95) {
		t.Errorf("GetSize() = %v, want 13.95", sz)
	}
	second, _ := rs.GetShapes().At(1)
	orb, _ := second.GetTextBox()
	if orb.GetAutofit() != AutofitResizeShape || orb.GetAnchor() != AnchorBottom {
		t.Errorf("autofit = %v anchor %q, want ResizeShape b", orb.GetAutofit(), orb.GetAnchor())
	}

	// the loaded document keeps recomputing
	otb.SetText("short")
	if otb.GetFontScale() != 1 {
		t.Errorf("GetFontScale() after edit = %v, want 1", otb.GetFontScale())
	}
}

func TestRoundTripDocumentSettings(t *testing.T) {
	d := newTestDoc(t)
	if err := d.SetSlideSize(720, 405); err != nil {
		t.Fatalf("SetSlideSize() error = %v", err)
	}
	m := d.GetSlideMasters()[0]
	m.GetTheme().Colors.Set(SchemeAccent1, MustParseColor("123456"))
	m.GetTheme().Fonts.Minor.Latin = "Verdana"
	s, _ := d.GetSlide(0)
	mustAddShape(t, s.GetShapes(), 0, 0, 1, 1)
	mustAddShape(t, s.GetShapes(), 0, 0, 1, 1)
	first, _ := s.GetShapes().At(0)
	first.Remove()

	out := roundTrip(t, d)
	if w, h := out.GetSlideSize(); w != 720 || h != 405 {
		t.Errorf("GetSlideSize() = %v x %v, want 720 x 405", w, h)
	}
	ot := out.GetSlideMasters()[0].GetTheme()
	if c, _ := ot.Colors.Get(SchemeAccent1); c.String() != "123456" {
		t.Errorf("accent1 = %s, want 123456", c)
	}
	if ot.Fonts.Minor.Latin != "Verdana" {
		t.Errorf("minor font = %q, want Verdana", ot.Fonts.Minor.Latin)
	}

	rs, _ := out.GetSlide(0)
	if diff := cmp.Diff([]int{3}, ids(t, rs.GetShapes())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	added := mustAddShape(t, rs.GetShapes(), 0, 0, 1, 1)
	if id, _ := added.GetID(); id != 4 {
		t.Errorf("new shape id = %d, want 4", id)
	}
}

func TestSaveAndOpen(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	s.GetShapes().AddTextBox(0, 0, 100, 20, "on disk")

	path := filepath.Join(t.TempDir(), "nested", "deck.pptx")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out, err := Open(path, WithMeasurer(gridMeasurer{}))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := out.ExtractText(); got != "on disk" {
		t.Errorf("ExtractText() = %q, want on disk", got)
	}
	if out.GetID() == d.GetID() {
		t.Errorf("reopened document shares the session id")
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Errorf("Open() of a missing file succeeded")
	}
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a zip", []byte("definitely not a zip archive")},
		{"no content types", zipOf(t, map[string]string{"ppt/presentation.xml": "<p:presentation/>"})},
		{"no main document", zipOf(t, map[string]string{
			"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		})},
		{"broken xml", zipOf(t, map[string]string{"[Content_Types].xml": "<Types"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadBytes(tt.data); !errors.Is(err, ErrFormat) {
				t.Errorf("ReadBytes() error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	d := newTestDoc(t)
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() on a new document error = %v", err)
	}

	s, _ := d.GetSlide(0)
	s.layout = nil
	err := d.Validate()
	if !errors.Is(err, ErrInconsistentDocument) {
		t.Fatalf("Validate() error = %v, want ErrInconsistentDocument", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Problems) != 1 {
		t.Errorf("Validate() problems = %v, want one", err)
	}

	if _, err := d.WriteTo(&bytes.Buffer{}); !errors.Is(err, ErrInconsistentDocument) {
		t.Errorf("WriteTo() with a dangling slide error = %v, want ErrInconsistentDocument", err)
	}
}
