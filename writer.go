package slidedom

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// packageWriter serializes a Document into a .pptx package.
type packageWriter struct {
	d  *Document
	zw *zip.Writer

	overrides []xmlOverride
	// part paths assigned before anything is written
	masterPaths map[*SlideMaster]string
	layoutPaths map[*SlideLayout]string
	// media parts already written, by handle
	mediaPaths map[*MediaHandle]string
	charts     int
}

func newPackageWriter(d *Document) *packageWriter {
	return &packageWriter{
		d:           d,
		masterPaths: make(map[*SlideMaster]string),
		layoutPaths: make(map[*SlideLayout]string),
		mediaPaths:  make(map[*MediaHandle]string),
	}
}

// Save writes the document to a file.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, writeErr := d.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

func (pw *packageWriter) write(w io.Writer) error {
	d := pw.d
	if len(d.masters) == 0 || len(d.slides) == 0 {
		return fmt.Errorf("write package: document needs a master and a slide: %w", ErrInconsistentDocument)
	}
	pw.zw = zip.NewWriter(w)

	layoutN := 0
	for i, m := range d.masters {
		pw.masterPaths[m] = fmt.Sprintf("ppt/slideMasters/slideMaster%d.xml", i+1)
		for _, l := range m.layouts {
			layoutN++
			pw.layoutPaths[l] = fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", layoutN)
		}
	}

	// Write _rels/.rels
	var root relSet
	root.add(relTypeOfficeDoc, "ppt/presentation.xml")
	root.add(relTypeExtProps, "docProps/app.xml")
	if err := root.write(pw.zw, "_rels/.rels"); err != nil {
		return err
	}

	// Write docProps/app.xml
	if err := pw.part("docProps/app.xml", ctExtProps, appPropertiesXML(len(d.slides))); err != nil {
		return err
	}

	// Write ppt/presentation.xml and its relationships
	if err := pw.writePresentation(); err != nil {
		return err
	}

	// Write masters, their themes and layouts
	for i, m := range d.masters {
		if err := pw.writeMaster(m, i+1); err != nil {
			return err
		}
	}

	// Write slides
	for i, s := range d.slides {
		if err := pw.writeSlide(s, i+1); err != nil {
			return err
		}
	}

	// [Content_Types].xml goes last, once every part is known.
	if err := pw.writeContentTypes(); err != nil {
		return err
	}
	if err := pw.zw.Close(); err != nil {
		return err
	}
	d.logger.Debug("package written", "slides", len(d.slides), "masters", len(d.masters),
		"media", len(pw.mediaPaths), "charts", pw.charts)
	return nil
}

// part writes a raw XML part and records its content type override.
func (pw *packageWriter) part(path, contentType, content string) error {
	pw.overrides = append(pw.overrides, xmlOverride{PartName: "/" + path, ContentType: contentType})
	return writeRawXMLToZip(pw.zw, path, content)
}

func (pw *packageWriter) writeContentTypes() error {
	ct := xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: pw.overrides,
	}
	return writeXMLToZip(pw.zw, "[Content_Types].xml", ct)
}

func (pw *packageWriter) writePresentation() error {
	d := pw.d
	var rels relSet
	var masters, slides strings.Builder

	id := firstMasterID
	for _, m := range d.masters {
		rid := rels.add(relTypeSlideMaster, relTarget("ppt/presentation.xml", pw.masterPaths[m]))
		fmt.Fprintf(&masters, `<p:sldMasterId id="%d" r:id="%s"/>`, id, rid)
		id += 1 + len(m.layouts)
	}
	for i := range d.slides {
		rid := rels.add(relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
		fmt.Fprintf(&slides, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
	}
	rels.add(relTypeTheme, "theme/theme1.xml")

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">
  <p:sldMasterIdLst>%s</p:sldMasterIdLst>
  <p:sldIdLst>%s</p:sldIdLst>
  <p:sldSz cx="%d" cy="%d"/>
  <p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		masters.String(), slides.String(), d.slideCX, d.slideCY)

	if err := pw.part("ppt/presentation.xml", ctPresentation, content); err != nil {
		return err
	}
	return rels.write(pw.zw, relsPath("ppt/presentation.xml"))
}

func (pw *packageWriter) writeMaster(m *SlideMaster, n int) error {
	path := pw.masterPaths[m]
	var rels relSet

	var layoutIDs strings.Builder
	id := firstMasterID
	for _, other := range pw.d.masters {
		if other == m {
			break
		}
		id += 1 + len(other.layouts)
	}
	for i, l := range m.layouts {
		rid := rels.add(relTypeSlideLayout, relTarget(path, pw.layoutPaths[l]))
		fmt.Fprintf(&layoutIDs, `<p:sldLayoutId id="%d" r:id="%s"/>`, id+1+i, rid)
	}
	themePath := fmt.Sprintf("ppt/theme/theme%d.xml", n)
	rels.add(relTypeTheme, relTarget(path, themePath))

	theme := m.theme
	if theme == nil {
		theme = NewOfficeTheme()
	}
	if err := pw.part(themePath, ctTheme, themeXML(theme)); err != nil {
		return err
	}

	bg, err := pw.backgroundXML(&m.background, &rels, path)
	if err != nil {
		return err
	}
	tree, err := pw.shapeTreeXML(m.shapes, &rels, path)
	if err != nil {
		return fmt.Errorf("master %q: %w", m.name, err)
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld name="%s">%s%s</p:cSld>
  %s
  <p:sldLayoutIdLst>%s</p:sldLayoutIdLst>
  <p:txStyles>
    <p:titleStyle>%s</p:titleStyle>
    <p:bodyStyle>%s</p:bodyStyle>
    <p:otherStyle>%s</p:otherStyle>
  </p:txStyles>
</p:sldMaster>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		xmlEscape(m.name), bg, tree, colorMapXML(m.colorMap), layoutIDs.String(),
		listStyleXML(&m.textStyles.Title), listStyleXML(&m.textStyles.Body), listStyleXML(&m.textStyles.Other))

	if err := pw.part(path, ctSlideMaster, content); err != nil {
		return err
	}
	if err := rels.write(pw.zw, relsPath(path)); err != nil {
		return err
	}

	for _, l := range m.layouts {
		if err := pw.writeLayout(l); err != nil {
			return err
		}
	}
	return nil
}

func (pw *packageWriter) writeLayout(l *SlideLayout) error {
	path := pw.layoutPaths[l]
	var rels relSet
	rels.add(relTypeSlideMaster, relTarget(path, pw.masterPaths[l.master]))

	tree, err := pw.shapeTreeXML(l.shapes, &rels, path)
	if err != nil {
		return fmt.Errorf("layout %q: %w", l.name, err)
	}
	typ := ""
	if l.typ != "" {
		typ = fmt.Sprintf(` type="%s"`, l.typ)
	}
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"%s preserve="1">
  <p:cSld name="%s">%s</p:cSld>
  <p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sldLayout>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, typ, xmlEscape(l.name), tree)

	if err := pw.part(path, ctSlideLayout, content); err != nil {
		return err
	}
	return rels.write(pw.zw, relsPath(path))
}

func (pw *packageWriter) writeSlide(s *Slide, n int) error {
	path := fmt.Sprintf("ppt/slides/slide%d.xml", n)
	var rels relSet
	layoutPath, ok := pw.layoutPaths[s.layout]
	if !ok {
		return fmt.Errorf("slide %d: layout is not part of the document: %w", n, ErrInconsistentDocument)
	}
	rels.add(relTypeSlideLayout, relTarget(path, layoutPath))

	bg, err := pw.backgroundXML(&s.background, &rels, path)
	if err != nil {
		return err
	}
	tree, err := pw.shapeTreeXML(s.shapes, &rels, path)
	if err != nil {
		return fmt.Errorf("slide %d: %w", n, err)
	}
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>%s%s</p:cSld>
  <p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, bg, tree)

	if err := pw.part(path, ctSlide, content); err != nil {
		return err
	}
	return rels.write(pw.zw, relsPath(path))
}

// mediaTarget writes the media part on first use and returns its path.
func (pw *packageWriter) mediaTarget(h *MediaHandle) (string, error) {
	if h == nil {
		return "", fmt.Errorf("shape references no media: %w", ErrInconsistentDocument)
	}
	if p, ok := pw.mediaPaths[h]; ok {
		return p, nil
	}
	dir := "ppt/media/"
	if h.contentType == contentTypeOLE {
		dir = "ppt/embeddings/"
	}
	p := dir + h.name
	pw.overrides = append(pw.overrides, xmlOverride{PartName: "/" + p, ContentType: h.contentType})
	if err := writeBytesToZip(pw.zw, p, h.data); err != nil {
		return "", err
	}
	pw.mediaPaths[h] = p
	return p, nil
}

// writeChart writes a chart part and returns its path.
func (pw *packageWriter) writeChart(kind ChartType) (string, error) {
	pw.charts++
	p := fmt.Sprintf("ppt/charts/chart%d.xml", pw.charts)
	if err := pw.part(p, ctChart, chartPartXML(kind)); err != nil {
		return "", err
	}
	return p, nil
}

// relTarget returns target relative to the directory of part.
func relTarget(part, target string) string {
	rel, err := filepath.Rel(filepath.Dir(filepath.FromSlash(part)), filepath.FromSlash(target))
	if err != nil {
		return "/" + target
	}
	return filepath.ToSlash(rel)
}

func colorMapXML(m ColorMap) string {
	var b strings.Builder
	b.WriteString("<p:clrMap")
	for _, alias := range []SchemeColor{SchemeBackground1, SchemeText1, SchemeBackground2, SchemeText2} {
		fmt.Fprintf(&b, ` %s="%s"`, alias, m.slot(alias))
	}
	for _, slot := range schemeSlots[4:] {
		fmt.Fprintf(&b, ` %s="%s"`, slot, m.slot(slot))
	}
	b.WriteString("/>")
	return b.String()
}
