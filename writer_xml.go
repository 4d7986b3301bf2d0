package slidedom

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// XML namespace constants
const (
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsChart          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"

	uriTable = "http://schemas.openxmlformats.org/drawingml/2006/table"
	uriChart = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	uriOLE   = "http://schemas.openxmlformats.org/presentationml/2006/ole"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeVideo       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/video"
	relTypeAudio       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/audio"
	relTypeChart       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	relTypeOLEObject   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/oleObject"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
	ctChart        = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
)

// First id of the sldMasterId/sldLayoutId sequence.
const firstMasterID = 2147483648

func writeXMLToZip(zw *zip.Writer, path string, v any) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("create %s in zip: %w", path, err)
	}
	if _, err := fw.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(fw)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func writeRawXMLToZip(zw *zip.Writer, path string, content string) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("create %s in zip: %w", path, err)
	}
	_, err = fw.Write([]byte(content))
	return err
}

func writeBytesToZip(zw *zip.Writer, path string, data []byte) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("create %s in zip: %w", path, err)
	}
	_, err = fw.Write(data)
	return err
}

// xmlEscape escapes special XML characters.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

// --- Content Types ---

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// --- Relationships ---

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// relSet numbers the relationships of one part as they are added.
type relSet struct {
	rels []xmlRelationship
}

func (r *relSet) add(typ, target string) string {
	id := fmt.Sprintf("rId%d", len(r.rels)+1)
	r.rels = append(r.rels, xmlRelationship{ID: id, Type: typ, Target: target})
	return id
}

func (r *relSet) write(zw *zip.Writer, path string) error {
	return writeXMLToZip(zw, path, xmlRelationships{Xmlns: nsRelationships, Relationships: r.rels})
}

// relsPath returns the relationships part of part, e.g.
// "ppt/slides/_rels/slide1.xml.rels" for "ppt/slides/slide1.xml".
func relsPath(part string) string {
	dir, file := "", part
	if i := strings.LastIndexByte(part, '/'); i >= 0 {
		dir, file = part[:i+1], part[i+1:]
	}
	return dir + "_rels/" + file + ".rels"
}

// --- Theme ---

func themeXML(t *Theme) string {
	var colors strings.Builder
	for i, slot := range schemeSlots {
		c := t.Colors.colors[i]
		fmt.Fprintf(&colors, "      <a:%s><a:srgbClr val=\"%s\"/></a:%s>\n", slot, c, slot)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="%s" name="%s">
  <a:themeElements>
    <a:clrScheme name="%s">
%s    </a:clrScheme>
    <a:fontScheme name="%s">
      <a:majorFont>%s</a:majorFont>
      <a:minorFont>%s</a:minorFont>
    </a:fontScheme>
%s  </a:themeElements>
</a:theme>`, nsDrawingML, xmlEscape(t.Name), xmlEscape(t.Colors.Name),
		colors.String(), xmlEscape(t.Fonts.Name),
		fontCollectionXML(t.Fonts.Major), fontCollectionXML(t.Fonts.Minor),
		formatSchemeXML)
}

func fontCollectionXML(fc FontCollection) string {
	return fmt.Sprintf(`<a:latin typeface="%s"/><a:ea typeface="%s"/><a:cs typeface="%s"/>`,
		xmlEscape(fc.Latin), xmlEscape(fc.EastAsian), xmlEscape(fc.Complex))
}

// formatSchemeXML is the minimal format scheme slide applications require.
const formatSchemeXML = `    <a:fmtScheme name="Office">
      <a:fillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
      </a:fillStyleLst>
      <a:lnStyleLst>
        <a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
      </a:lnStyleLst>
      <a:effectStyleLst>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
      </a:effectStyleLst>
      <a:bgFillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
      </a:bgFillStyleLst>
    </a:fmtScheme>
`

// --- App Properties ---

func appPropertiesXML(slides int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="%s">
  <Application>slidedom v%s</Application>
  <AppVersion>%s</AppVersion>
  <Slides>%d</Slides>
</Properties>`, nsExtProperties, Version, appVersion, slides)
}
