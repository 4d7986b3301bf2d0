package slidedom

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
)

// maxZipEntrySize is the maximum allowed size for a single file extracted from a ZIP.
// This prevents zip bomb attacks. 50 MB is generous for any legitimate PPTX part.
const maxZipEntrySize = 50 << 20

// maxZipTotalSize is the cumulative limit for all extracted content from a single ZIP.
const maxZipTotalSize = 200 << 20

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// packageReader builds a Document from a .pptx package. Parts are loaded
// on first reference and cached by path.
type packageReader struct {
	d     *Document
	files map[string]*zip.File
	read  int64
	ct    xmlContentTypes

	masters map[string]*SlideMaster
	layouts map[string]*SlideLayout
	themes  map[string]*Theme
	media   map[string]*MediaHandle
}

func readPackage(d *Document, r io.ReaderAt, size int64) error {
	if size <= 0 {
		return fmt.Errorf("invalid reader size %d: %w", size, ErrFormat)
	}
	if size > maxZipTotalSize {
		return fmt.Errorf("file size %d exceeds maximum allowed (%d bytes): %w", size, maxZipTotalSize, ErrFormat)
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("open zip: %w: %w", err, ErrFormat)
	}
	if len(zr.File) > maxZipEntries {
		return fmt.Errorf("zip archive contains too many entries (%d > %d): %w", len(zr.File), maxZipEntries, ErrFormat)
	}

	pr := &packageReader{
		d:       d,
		files:   make(map[string]*zip.File, len(zr.File)),
		masters: make(map[string]*SlideMaster),
		layouts: make(map[string]*SlideLayout),
		themes:  make(map[string]*Theme),
		media:   make(map[string]*MediaHandle),
	}
	for _, f := range zr.File {
		pr.files[f.Name] = f
	}
	return pr.readPresentation()
}

func (pr *packageReader) readFile(name string) ([]byte, error) {
	f, ok := pr.files[name]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", name, ErrNotFound)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("part %s exceeds maximum allowed size (%d bytes): %w", name, maxZipEntrySize, ErrFormat)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s in zip: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxZipEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s from zip: %w", name, err)
	}
	if len(data) > maxZipEntrySize {
		return nil, fmt.Errorf("part %s actual size exceeds maximum allowed size: %w", name, ErrFormat)
	}
	pr.read += int64(len(data))
	if pr.read > maxZipTotalSize {
		return nil, fmt.Errorf("extracted content exceeds %d bytes: %w", maxZipTotalSize, ErrFormat)
	}
	return data, nil
}

func (pr *packageReader) parse(name string, v any) error {
	if _, ok := pr.files[name]; !ok {
		return fmt.Errorf("part %s is missing: %w", name, ErrFormat)
	}
	data, err := pr.readFile(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w: %w", name, err, ErrFormat)
	}
	return nil
}

// partRels are the relationships of one part in document order.
type partRels []xmlRelationship

// rels reads the relationships of part. A part without a rels file has none.
func (pr *packageReader) rels(part string) (partRels, error) {
	p := relsPath(part)
	if _, ok := pr.files[p]; !ok {
		return nil, nil
	}
	var x xmlRelationships
	if err := pr.parse(p, &x); err != nil {
		return nil, err
	}
	return x.Relationships, nil
}

func (r partRels) byID(id string) (xmlRelationship, bool) {
	for _, rel := range r {
		if rel.ID == id {
			return rel, true
		}
	}
	return xmlRelationship{}, false
}

// ofType matches on the last segment of the type, so transitional and
// strict relationship URIs are both accepted.
func (r partRels) ofType(typ string) []xmlRelationship {
	var out []xmlRelationship
	for _, rel := range r {
		if path.Base(rel.Type) == path.Base(typ) {
			out = append(out, rel)
		}
	}
	return out
}

func (r partRels) first(typ string) (xmlRelationship, bool) {
	if all := r.ofType(typ); len(all) > 0 {
		return all[0], true
	}
	return xmlRelationship{}, false
}

// resolvePart resolves a relationship target against the part holding it.
func resolvePart(part, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(part), target)
}

func (pr *packageReader) readPresentation() error {
	if err := pr.parse("[Content_Types].xml", &pr.ct); err != nil {
		return err
	}
	root, err := pr.rels("")
	if err != nil {
		return err
	}
	docRel, ok := root.first(relTypeOfficeDoc)
	if !ok {
		return fmt.Errorf("package has no main document: %w", ErrFormat)
	}
	presPath := resolvePart("", docRel.Target)

	var x xPresentation
	if err := pr.parse(presPath, &x); err != nil {
		return err
	}
	rels, err := pr.rels(presPath)
	if err != nil {
		return err
	}
	if x.SldSz != nil && x.SldSz.Cx > 0 && x.SldSz.Cy > 0 {
		pr.d.slideCX, pr.d.slideCY = x.SldSz.Cx, x.SldSz.Cy
	}

	for _, e := range x.Masters {
		rel, ok := rels.byID(e.relID())
		if !ok {
			return fmt.Errorf("master relationship %q: %w", e.relID(), ErrInconsistentDocument)
		}
		if _, err := pr.master(resolvePart(presPath, rel.Target)); err != nil {
			return err
		}
	}
	for _, e := range x.Slides {
		rel, ok := rels.byID(e.relID())
		if !ok {
			return fmt.Errorf("slide relationship %q: %w", e.relID(), ErrInconsistentDocument)
		}
		if err := pr.slide(resolvePart(presPath, rel.Target)); err != nil {
			return err
		}
	}
	pr.d.logger.Debug("package read", "slides", len(pr.d.slides), "masters", len(pr.d.masters),
		"media", pr.d.media.Len())
	return nil
}

func (pr *packageReader) theme(p string) (*Theme, error) {
	if t, ok := pr.themes[p]; ok {
		return t, nil
	}
	var x xTheme
	if err := pr.parse(p, &x); err != nil {
		return nil, err
	}
	// parts missing from the theme keep the stock values
	t := NewOfficeTheme()
	if x.Name != "" {
		t.Name = x.Name
	}
	if n := x.Elements.ClrScheme.Name; n != "" {
		t.Colors.Name = n
	}
	if fs := x.Elements.FontScheme; fs.Major.Latin.Typeface != "" || fs.Minor.Latin.Typeface != "" {
		t.Fonts = FontScheme{
			Name:  fs.Name,
			Major: FontCollection{Latin: fs.Major.Latin.Typeface, EastAsian: fs.Major.Ea.Typeface, Complex: fs.Major.Cs.Typeface},
			Minor: FontCollection{Latin: fs.Minor.Latin.Typeface, EastAsian: fs.Minor.Ea.Typeface, Complex: fs.Minor.Cs.Typeface},
		}
	}
	for i := range x.Elements.ClrScheme.Slots {
		slot := &x.Elements.ClrScheme.Slots[i]
		spec, ok := slot.spec()
		if !ok || spec.IsScheme() {
			continue
		}
		// unknown slot names are ignored
		_ = t.Colors.Set(SchemeColor(slot.XMLName.Local), spec.RGB)
	}
	pr.themes[p] = t
	return t, nil
}

func (pr *packageReader) master(p string) (*SlideMaster, error) {
	if m, ok := pr.masters[p]; ok {
		return m, nil
	}
	var x xSldMaster
	if err := pr.parse(p, &x); err != nil {
		return nil, err
	}
	rels, err := pr.rels(p)
	if err != nil {
		return nil, err
	}
	theme := NewOfficeTheme()
	if rel, ok := rels.first(relTypeTheme); ok {
		if theme, err = pr.theme(resolvePart(p, rel.Target)); err != nil {
			return nil, err
		}
	}
	name := x.CSld.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(p), ".xml")
	}
	m := newSlideMaster(pr.d, name, theme)
	pr.masters[p] = m
	pr.d.masters = append(pr.d.masters, m)

	if x.ClrMap != nil {
		m.colorMap = make(ColorMap, len(x.ClrMap.Attrs))
		for _, a := range x.ClrMap.Attrs {
			m.colorMap[SchemeColor(a.Name.Local)] = SchemeColor(a.Value)
		}
	}
	m.textStyles.Title = listStyle(x.TxStyles.Title)
	m.textStyles.Body = listStyle(x.TxStyles.Body)
	m.textStyles.Other = listStyle(x.TxStyles.Other)
	if m.background, err = pr.background(x.CSld.Bg, p, rels); err != nil {
		return nil, err
	}
	if err := pr.buildTree(m.shapes, &x.CSld.SpTree, p, rels, identityXform); err != nil {
		return nil, fmt.Errorf("master %s: %w", p, err)
	}

	var layoutRels []xmlRelationship
	for _, e := range x.Layouts {
		if rel, ok := rels.byID(e.relID()); ok {
			layoutRels = append(layoutRels, rel)
		}
	}
	if len(layoutRels) == 0 {
		layoutRels = rels.ofType(relTypeSlideLayout)
	}
	for _, rel := range layoutRels {
		if _, err := pr.layout(resolvePart(p, rel.Target)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (pr *packageReader) layout(p string) (*SlideLayout, error) {
	if l, ok := pr.layouts[p]; ok {
		return l, nil
	}
	var x xSldLayout
	if err := pr.parse(p, &x); err != nil {
		return nil, err
	}
	rels, err := pr.rels(p)
	if err != nil {
		return nil, err
	}
	rel, ok := rels.first(relTypeSlideMaster)
	if !ok {
		return nil, fmt.Errorf("layout %s has no master: %w", p, ErrInconsistentDocument)
	}
	m, err := pr.master(resolvePart(p, rel.Target))
	if err != nil {
		return nil, err
	}
	// loading the master may have loaded this layout through its list
	if l, ok := pr.layouts[p]; ok {
		return l, nil
	}

	name := x.CSld.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(p), ".xml")
	}
	l := m.AddLayout(name, LayoutType(x.Type))
	pr.layouts[p] = l
	if err := pr.buildTree(l.shapes, &x.CSld.SpTree, p, rels, identityXform); err != nil {
		return nil, fmt.Errorf("layout %s: %w", p, err)
	}
	return l, nil
}

func (pr *packageReader) slide(p string) error {
	var x xSld
	if err := pr.parse(p, &x); err != nil {
		return err
	}
	rels, err := pr.rels(p)
	if err != nil {
		return err
	}
	rel, ok := rels.first(relTypeSlideLayout)
	if !ok {
		return fmt.Errorf("slide %s has no layout: %w", p, ErrInconsistentDocument)
	}
	l, err := pr.layout(resolvePart(p, rel.Target))
	if err != nil {
		return err
	}
	s := newSlide(pr.d, l)
	if s.background, err = pr.background(x.CSld.Bg, p, rels); err != nil {
		return err
	}
	if err := pr.buildTree(s.shapes, &x.CSld.SpTree, p, rels, identityXform); err != nil {
		return fmt.Errorf("slide %s: %w", p, err)
	}
	pr.d.slides = append(pr.d.slides, s)
	return nil
}

// contentType looks a part up in [Content_Types].xml.
func (pr *packageReader) contentType(p string) string {
	for _, o := range pr.ct.Overrides {
		if strings.TrimPrefix(o.PartName, "/") == p {
			return o.ContentType
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	for _, def := range pr.ct.Defaults {
		if strings.EqualFold(def.Extension, ext) {
			return def.ContentType
		}
	}
	if ct, ok := contentTypeForExt[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

var contentTypeForExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"svg":  "image/svg+xml",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"mp4":  "video/mp4",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"bin":  contentTypeOLE,
}

// mediaFor loads the media part behind a relationship, sharing one store
// entry per distinct content.
func (pr *packageReader) mediaFor(part string, rels partRels, rid string) (*MediaHandle, error) {
	rel, ok := rels.byID(rid)
	if !ok {
		return nil, fmt.Errorf("relationship %q of %s: %w", rid, part, ErrNotFound)
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return nil, fmt.Errorf("external media %s: %w", rel.Target, ErrNotFound)
	}
	p := resolvePart(part, rel.Target)
	if h, ok := pr.media[p]; ok {
		return h, nil
	}
	data, err := pr.readFile(p)
	if err != nil {
		return nil, err
	}
	h, err := pr.d.media.Add(data, pr.contentType(p))
	if err != nil {
		return nil, fmt.Errorf("media %s: %w", p, err)
	}
	pr.media[p] = h
	return h, nil
}

func (pr *packageReader) background(bg *xBg, part string, rels partRels) (ShapeProperties, error) {
	if bg == nil || bg.BgPr == nil {
		return ShapeProperties{}, nil
	}
	return pr.fillProps(bg.BgPr, part, rels)
}

// fillProps keeps every fill element present; ClassifyFill picks the
// effective one.
func (pr *packageReader) fillProps(f *xFillProps, part string, rels partRels) (ShapeProperties, error) {
	var p ShapeProperties
	p.NoFill = f.NoFill != nil
	if spec, ok := f.SolidFill.spec(); ok {
		p.Solid = &SolidFill{Color: spec}
	}
	if g := f.GradFill; g != nil {
		gf := &GradientFill{}
		if g.Lin != nil {
			gf.Angle = float64(g.Lin.Ang) / rotationUnit
		}
		for i := range g.Stops {
			stop := &g.Stops[i]
			if spec, ok := stop.xColorChoice.spec(); ok {
				gf.Stops = append(gf.Stops, GradientStop{Position: stop.Pos / 100, Color: spec})
			}
		}
		p.Gradient = gf
	}
	if b := f.BlipFill; b != nil && b.Blip != nil && b.Blip.Embed != "" {
		h, err := pr.mediaFor(part, rels, b.Blip.Embed)
		if err != nil {
			pr.d.logger.Warn("picture fill skipped", "part", part, "err", err)
		} else {
			p.Blip = &BlipFill{Media: h}
		}
	}
	if pt := f.PattFill; pt != nil {
		fg, _ := pt.FgClr.spec()
		bg, _ := pt.BgClr.spec()
		p.Pattern = &PatternFill{Preset: pt.Prst, Foreground: fg, Background: bg}
	}
	return p, nil
}

// xform maps child coordinates of nested groups onto the slide.
type xform struct {
	sx, sy float64
	tx, ty float64
}

var identityXform = xform{sx: 1, sy: 1}

func (t xform) apply(x *xXfrm) (box, bool) {
	if x == nil || x.Off == nil || x.Ext == nil {
		return box{}, false
	}
	return box{
		x:  int64(math.Round(t.sx*float64(x.Off.X) + t.tx)),
		y:  int64(math.Round(t.sy*float64(x.Off.Y) + t.ty)),
		cx: int64(math.Round(t.sx * float64(x.Ext.Cx))),
		cy: int64(math.Round(t.sy * float64(x.Ext.Cy))),
	}, true
}

// child returns the transform for the members of a group with transform x.
func (t xform) child(x *xXfrm) xform {
	if x == nil || x.Off == nil || x.Ext == nil || x.ChOff == nil || x.ChExt == nil {
		return t
	}
	sx, sy := 1.0, 1.0
	if x.ChExt.Cx != 0 {
		sx = float64(x.Ext.Cx) / float64(x.ChExt.Cx)
	}
	if x.ChExt.Cy != 0 {
		sy = float64(x.Ext.Cy) / float64(x.ChExt.Cy)
	}
	tx := float64(x.Off.X) - float64(x.ChOff.X)*sx
	ty := float64(x.Off.Y) - float64(x.ChOff.Y)*sy
	return xform{sx: t.sx * sx, sy: t.sy * sy, tx: t.sx*tx + t.tx, ty: t.sy*ty + t.ty}
}

// place sets the transform of n. Shapes other than placeholders always
// get one, even if the element had none.
func place(n *shapeNode, x *xXfrm, t xform) {
	b, ok := t.apply(x)
	if !ok {
		n.hasXfrm = n.ph == nil
		return
	}
	n.hasXfrm = true
	n.x, n.y, n.cx, n.cy = b.x, b.y, b.cx, b.cy
	n.rot = x.Rot
}

func (pr *packageReader) shapeProps(n *shapeNode, spPr *xSpPr, part string, rels partRels, t xform) error {
	place(n, spPr.Xfrm, t)
	if spPr.PrstGeom != nil {
		n.geom = spPr.PrstGeom.Prst
	}
	props, err := pr.fillProps(&spPr.xFillProps, part, rels)
	if err != nil {
		return err
	}
	n.props = props
	if ln := spPr.Ln; ln != nil {
		o := &Outline{Width: emuToPoints(ln.W)}
		if spec, ok := ln.SolidFill.spec(); ok {
			o.Color = &spec
		}
		n.outline = o
	}
	return nil
}

func (pr *packageReader) buildTree(c *ShapeCollection, g *xGroup, part string, rels partRels, t xform) error {
	for _, it := range g.Items {
		var err error
		switch {
		case it.Sp != nil:
			err = pr.readSp(c, it.Sp, part, rels, t)
		case it.Pic != nil:
			err = pr.readPic(c, it.Pic, part, rels, t)
		case it.Frame != nil:
			err = pr.readFrame(c, it.Frame, part, rels, t)
		case it.Group != nil:
			err = pr.readGroup(c, it.Group, part, rels, t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (pr *packageReader) readSp(c *ShapeCollection, sp *xSp, part string, rels partRels, t xform) error {
	content := ContentShape
	if sp.Nv.NvPr.Ph != nil {
		content = ContentPlaceholder
	}
	s, n := c.adopt(content, sp.Nv.CNvPr.ID, sp.Nv.CNvPr.Name)
	n.hidden = sp.Nv.CNvPr.Hidden
	if ph := sp.Nv.NvPr.Ph; ph != nil {
		typ := PlaceholderType(ph.Type)
		if typ == "" {
			typ = PlaceholderObject
		}
		n.ph = &PlaceholderRef{Type: typ, Index: ph.Idx}
	}
	n.txBox = sp.Nv.CNvSpPr != nil && sp.Nv.CNvSpPr.TxBox
	n.useBg = sp.UseBgFill
	if err := pr.shapeProps(n, &sp.SpPr, part, rels, t); err != nil {
		return err
	}
	n.text = newTextBox(pr.d, s)
	if sp.TxBody != nil {
		readTextBody(n.text, sp.TxBody)
	}
	return nil
}

func (pr *packageReader) readPic(c *ShapeCollection, pic *xPic, part string, rels partRels, t xform) error {
	nvPr := pic.Nv.NvPr
	content, rid := ContentPicture, ""
	switch {
	case nvPr.VideoFile != nil:
		content, rid = ContentMedia, nvPr.VideoFile.Link
	case nvPr.AudioFile != nil:
		content, rid = ContentMedia, nvPr.AudioFile.Link
	case pic.BlipFill != nil && pic.BlipFill.Blip != nil:
		rid = pic.BlipFill.Blip.Embed
	}
	h, err := pr.mediaFor(part, rels, rid)
	if err != nil {
		pr.d.logger.Warn("picture skipped", "part", part, "name", pic.Nv.CNvPr.Name, "err", err)
		return nil
	}
	_, n := c.adopt(content, pic.Nv.CNvPr.ID, pic.Nv.CNvPr.Name)
	n.hidden = pic.Nv.CNvPr.Hidden
	n.media = h
	if err := pr.shapeProps(n, &pic.SpPr, part, rels, t); err != nil {
		return err
	}
	if content == ContentMedia {
		n.props = ShapeProperties{}
		n.outline = nil
	}
	return nil
}

func (pr *packageReader) readFrame(c *ShapeCollection, f *xGraphicFrame, part string, rels partRels, t xform) error {
	data := &f.Graphic.Data
	id, name := f.Nv.CNvPr.ID, f.Nv.CNvPr.Name
	var n *shapeNode
	switch {
	case data.Tbl != nil:
		var s Shape
		s, n = c.adopt(ContentTable, id, name)
		n.table = pr.readTable(s, data.Tbl)
	case data.Chart != nil:
		_, n = c.adopt(ContentChart, id, name)
		n.chart = pr.chartKind(part, rels, data.Chart.ID)
	case data.ole() != nil:
		ole := data.ole()
		h, err := pr.mediaFor(part, rels, ole.ID)
		if err != nil {
			pr.d.logger.Warn("embedded object skipped", "part", part, "name", name, "err", err)
			return nil
		}
		_, n = c.adopt(ContentOLEObject, id, name)
		n.media = h
		n.progID = ole.ProgID
	default:
		pr.d.logger.Debug("graphic frame skipped", "part", part, "uri", data.URI)
		return nil
	}
	n.hidden = f.Nv.CNvPr.Hidden
	place(n, f.Xfrm, t)
	return nil
}

func (pr *packageReader) readGroup(c *ShapeCollection, g *xGroup, part string, rels partRels, t xform) error {
	s, n := c.adopt(ContentGroup, g.Nv.CNvPr.ID, g.Nv.CNvPr.Name)
	n.hidden = g.Nv.CNvPr.Hidden
	if err := pr.shapeProps(n, &g.SpPr, part, rels, t); err != nil {
		return err
	}
	n.children = c.childCollection(s.ref)
	return pr.buildTree(n.children, g, part, rels, t.child(g.SpPr.Xfrm))
}

// readTable pads or truncates rows to the grid width.
func (pr *packageReader) readTable(owner Shape, x *xTbl) *tableData {
	t := &tableData{}
	for _, col := range x.Cols {
		t.cols = append(t.cols, col.W)
	}
	for r, row := range x.Rows {
		tr := &tableRow{height: row.H}
		for col := range t.cols {
			cell := newCell(pr.d, owner, r, col)
			if col < len(row.Cells) && row.Cells[col].TxBody != nil {
				readTextBody(cell.text, row.Cells[col].TxBody)
				cell.text.autofit = AutofitNone
				cell.text.scale = 1
			}
			tr.cells = append(tr.cells, cell)
		}
		t.rows = append(t.rows, tr)
	}
	return t
}

// chartKind reads the plot kind from the chart part, defaulting to a bar
// chart when the part cannot be read.
func (pr *packageReader) chartKind(part string, rels partRels, rid string) ChartType {
	rel, ok := rels.byID(rid)
	if !ok {
		return ChartBar
	}
	var x xChartSpace
	if err := pr.parse(resolvePart(part, rel.Target), &x); err != nil {
		pr.d.logger.Warn("chart part unreadable", "target", rel.Target, "err", err)
		return ChartBar
	}
	for _, it := range x.Chart.PlotArea.Items {
		if strings.HasSuffix(it.XMLName.Local, "Chart") {
			return ChartType(it.XMLName.Local)
		}
	}
	return ChartBar
}

// readTextBody fills tb from a txBody element. The stored font scale is
// kept as written; autofit runs only on later mutations.
func readTextBody(tb *TextBox, x *xTxBody) {
	bp := &x.BodyPr
	tb.wrap = bp.Wrap != "none"
	for _, ins := range []struct {
		src *int64
		dst *int64
	}{{bp.LIns, &tb.lIns}, {bp.RIns, &tb.rIns}, {bp.TIns, &tb.tIns}, {bp.BIns, &tb.bIns}} {
		if ins.src != nil && *ins.src >= 0 {
			*ins.dst = *ins.src
		}
	}
	switch TextAnchor(bp.Anchor) {
	case AnchorMiddle, AnchorBottom:
		tb.anchor = TextAnchor(bp.Anchor)
	}
	switch {
	case bp.NormAutofit != nil:
		tb.autofit = AutofitShrinkText
		tb.scale = bp.fontScale()
	case bp.SpAutoFit != nil:
		tb.autofit = AutofitResizeShape
	}
	tb.lstStyle = listStyle(x.LstStyle)

	paras := make([]*Paragraph, 0, len(x.Paras))
	for i := range x.Paras {
		paras = append(paras, readParagraph(tb, &x.Paras[i]))
	}
	if len(paras) == 0 {
		paras = append(paras, newParagraph(tb))
	}
	tb.paras = paras
}

// readParagraph turns runs and breaks into portions. A break is appended
// to the preceding portion, and the run after it joins that portion when
// the formatting is the same.
func readParagraph(tb *TextBox, x *xP) *Paragraph {
	p := newParagraph(tb)
	if pp := x.PPr; pp != nil {
		p.level = min(max(pp.Lvl, 0), maxLevels-1)
		p.align = Alignment(pp.Algn)
		switch {
		case pp.BuChar != nil:
			p.bullet = Bullet{Type: BulletCharacter, Char: pp.BuChar.Char}
		case pp.BuAutoNum != nil:
			p.bullet = Bullet{Type: BulletNumbered, Scheme: pp.BuAutoNum.Type}
		}
	}
	p.endProps = x.EndParaRPr.props()

	var last *Portion
	afterBreak := false
	for _, it := range x.Items {
		props := it.RPr.props()
		if it.Break {
			if last == nil {
				last = &Portion{para: p, props: props}
				p.portions = append(p.portions, last)
			}
			last.text += lineBreak
			afterBreak = true
			continue
		}
		if afterBreak && last.props.equal(props) {
			last.text += it.Text
			afterBreak = false
			continue
		}
		afterBreak = false
		last = &Portion{para: p, text: it.Text, props: props}
		p.portions = append(p.portions, last)
	}
	return p
}

func listStyle(x *xLstStyle) ListStyle {
	var ls ListStyle
	if x == nil {
		return ls
	}
	for _, l := range x.Levels {
		if i, ok := l.level(); ok && l.DefRPr != nil {
			ls.Levels[i] = l.DefRPr.props()
		}
	}
	return ls
}
