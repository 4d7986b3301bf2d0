package slidedom

import (
	"fmt"
	"math"
	"strings"
)

// shapeTreeXML renders the spTree of a part. Relationships for media and
// charts are added to rels as they are met.
func (pw *packageWriter) shapeTreeXML(c *ShapeCollection, rels *relSet, part string) (string, error) {
	var sb strings.Builder
	sb.WriteString(`
    <p:spTree>
      <p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
      <p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>
`)
	if err := pw.shapesXML(&sb, c, rels, part); err != nil {
		return "", err
	}
	sb.WriteString("    </p:spTree>\n  ")
	return sb.String(), nil
}

func (pw *packageWriter) shapesXML(sb *strings.Builder, c *ShapeCollection, rels *relSet, part string) error {
	for _, r := range c.refs {
		n, err := pw.d.arena.get(r)
		if err != nil {
			return err
		}
		var s string
		switch n.content {
		case ContentShape, ContentPlaceholder:
			s, err = pw.spXML(n, rels, part)
		case ContentGroup:
			s, err = pw.groupXML(n, rels, part)
		case ContentTable:
			s, err = pw.tableXML(n)
		case ContentChart:
			s, err = pw.chartFrameXML(n, rels, part)
		case ContentPicture:
			s, err = pw.pictureXML(n, rels, part)
		case ContentMedia:
			s, err = pw.mediaXML(n, rels, part)
		case ContentOLEObject:
			s, err = pw.oleXML(n, rels, part)
		}
		if err != nil {
			return fmt.Errorf("shape %d: %w", n.id, err)
		}
		sb.WriteString(s)
	}
	return nil
}

func cNvPrXML(n *shapeNode) string {
	hidden := ""
	if n.hidden {
		hidden = ` hidden="1"`
	}
	return fmt.Sprintf(`<p:cNvPr id="%d" name="%s"%s/>`, n.id, xmlEscape(n.name), hidden)
}

func xfrmXML(n *shapeNode, prefix string) string {
	if !n.hasXfrm {
		return ""
	}
	rot := ""
	if n.rot != 0 {
		rot = fmt.Sprintf(` rot="%d"`, n.rot)
	}
	return fmt.Sprintf(`<%s:xfrm%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></%s:xfrm>`,
		prefix, rot, n.x, n.y, n.cx, n.cy, prefix)
}

func (pw *packageWriter) spPrXML(n *shapeNode, rels *relSet, part string) (string, error) {
	var sb strings.Builder
	sb.WriteString("<p:spPr>")
	sb.WriteString(xfrmXML(n, "a"))
	if n.geom != "" {
		fmt.Fprintf(&sb, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, n.geom)
	}
	fill, err := pw.fillXML(&n.props, rels, part)
	if err != nil {
		return "", err
	}
	sb.WriteString(fill)
	if n.outline != nil {
		sb.WriteString(outlineXML(n.outline))
	}
	sb.WriteString("</p:spPr>")
	return sb.String(), nil
}

func (pw *packageWriter) spXML(n *shapeNode, rels *relSet, part string) (string, error) {
	var sb strings.Builder
	sb.WriteString("      <p:sp")
	if n.useBg {
		sb.WriteString(` useBgFill="1"`)
	}
	sb.WriteString("><p:nvSpPr>")
	sb.WriteString(cNvPrXML(n))
	if n.txBox {
		sb.WriteString(`<p:cNvSpPr txBox="1"/>`)
	} else {
		sb.WriteString(`<p:cNvSpPr/>`)
	}
	sb.WriteString("<p:nvPr>")
	if n.ph != nil {
		sb.WriteString(placeholderXML(*n.ph))
	}
	sb.WriteString("</p:nvPr></p:nvSpPr>")

	spPr, err := pw.spPrXML(n, rels, part)
	if err != nil {
		return "", err
	}
	sb.WriteString(spPr)
	if n.text != nil {
		sb.WriteString(textBodyXML(n.text, "p"))
	}
	sb.WriteString("</p:sp>\n")
	return sb.String(), nil
}

// placeholderXML omits the type for obj, the format default.
func placeholderXML(ref PlaceholderRef) string {
	var attrs string
	if ref.Type != "" && ref.Type != PlaceholderObject {
		attrs += fmt.Sprintf(` type="%s"`, ref.Type)
	}
	if ref.Index > 0 {
		attrs += fmt.Sprintf(` idx="%d"`, ref.Index)
	}
	return "<p:ph" + attrs + "/>"
}

func (pw *packageWriter) groupXML(n *shapeNode, rels *relSet, part string) (string, error) {
	b := pw.d.bounds(n)
	fill, err := pw.fillXML(&n.props, rels, part)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `      <p:grpSp><p:nvGrpSpPr>%s<p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`, cNvPrXML(n))
	fmt.Fprintf(&sb, `<p:grpSpPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/><a:chOff x="%d" y="%d"/><a:chExt cx="%d" cy="%d"/></a:xfrm>%s</p:grpSpPr>`+"\n",
		b.x, b.y, b.cx, b.cy, b.x, b.y, b.cx, b.cy, fill)
	if n.children != nil {
		if err := pw.shapesXML(&sb, n.children, rels, part); err != nil {
			return "", err
		}
	}
	sb.WriteString("      </p:grpSp>\n")
	return sb.String(), nil
}

func (pw *packageWriter) pictureXML(n *shapeNode, rels *relSet, part string) (string, error) {
	target, err := pw.mediaTarget(n.media)
	if err != nil {
		return "", err
	}
	rid := rels.add(relTypeImage, relTarget(part, target))
	spPr, err := pw.spPrXML(n, rels, part)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`      <p:pic><p:nvPicPr>%s<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>%s</p:pic>`+"\n",
		cNvPrXML(n), rid, spPr), nil
}

func (pw *packageWriter) mediaXML(n *shapeNode, rels *relSet, part string) (string, error) {
	target, err := pw.mediaTarget(n.media)
	if err != nil {
		return "", err
	}
	relType, tag := relTypeVideo, "videoFile"
	if strings.HasPrefix(n.media.contentType, "audio/") {
		relType, tag = relTypeAudio, "audioFile"
	}
	rid := rels.add(relType, relTarget(part, target))
	return fmt.Sprintf(`      <p:pic><p:nvPicPr>%s<p:cNvPicPr/><p:nvPr><a:%s r:link="%s"/></p:nvPr></p:nvPicPr>`+
		`<p:blipFill/><p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`+"\n",
		cNvPrXML(n), tag, rid, xfrmXML(n, "a")), nil
}

func graphicFrameXML(n *shapeNode, uri, data string) string {
	return fmt.Sprintf(`      <p:graphicFrame><p:nvGraphicFramePr>%s<p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>%s`+
		`<a:graphic><a:graphicData uri="%s">%s</a:graphicData></a:graphic></p:graphicFrame>`+"\n",
		cNvPrXML(n), xfrmXML(n, "p"), uri, data)
}

func (pw *packageWriter) chartFrameXML(n *shapeNode, rels *relSet, part string) (string, error) {
	p, err := pw.writeChart(n.chart)
	if err != nil {
		return "", err
	}
	rid := rels.add(relTypeChart, relTarget(part, p))
	return graphicFrameXML(n, uriChart, fmt.Sprintf(`<c:chart xmlns:c="%s" r:id="%s"/>`, nsChart, rid)), nil
}

func (pw *packageWriter) oleXML(n *shapeNode, rels *relSet, part string) (string, error) {
	target, err := pw.mediaTarget(n.media)
	if err != nil {
		return "", err
	}
	rid := rels.add(relTypeOLEObject, relTarget(part, target))
	return graphicFrameXML(n, uriOLE, fmt.Sprintf(`<p:oleObj progId="%s" r:id="%s"><p:embed/></p:oleObj>`,
		xmlEscape(n.progID), rid)), nil
}

func (pw *packageWriter) tableXML(n *shapeNode) (string, error) {
	t := n.table
	if t == nil {
		return "", fmt.Errorf("table without grid: %w", ErrInconsistentDocument)
	}
	var sb strings.Builder
	sb.WriteString(`<a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	for _, w := range t.cols {
		fmt.Fprintf(&sb, `<a:gridCol w="%d"/>`, w)
	}
	sb.WriteString("</a:tblGrid>")
	for _, row := range t.rows {
		fmt.Fprintf(&sb, `<a:tr h="%d">`, row.height)
		for _, cell := range row.cells {
			sb.WriteString("<a:tc>")
			sb.WriteString(textBodyXML(cell.text, "a"))
			sb.WriteString("<a:tcPr/></a:tc>")
		}
		sb.WriteString("</a:tr>")
	}
	sb.WriteString("</a:tbl>")
	return graphicFrameXML(n, uriTable, sb.String()), nil
}

func (pw *packageWriter) backgroundXML(p *ShapeProperties, rels *relSet, part string) (string, error) {
	if ClassifyFill(p, false) == FillNone && !p.NoFill {
		return "", nil
	}
	fill, err := pw.fillXML(p, rels, part)
	if err != nil {
		return "", err
	}
	return "\n    <p:bg><p:bgPr>" + fill + "<a:effectLst/></p:bgPr></p:bg>", nil
}

// fillXML writes the effective fill only; competing elements of a loaded
// document are dropped.
func (pw *packageWriter) fillXML(p *ShapeProperties, rels *relSet, part string) (string, error) {
	switch ClassifyFill(p, false) {
	case FillSolid:
		return "<a:solidFill>" + colorXML(p.Solid.Color) + "</a:solidFill>", nil
	case FillGradient:
		var sb strings.Builder
		sb.WriteString(`<a:gradFill rotWithShape="1"><a:gsLst>`)
		for _, s := range p.Gradient.Stops {
			fmt.Fprintf(&sb, `<a:gs pos="%d">%s</a:gs>`, s.Position*100, colorXML(s.Color))
		}
		fmt.Fprintf(&sb, `</a:gsLst><a:lin ang="%d" scaled="0"/></a:gradFill>`,
			int64(math.Round(p.Gradient.Angle*rotationUnit)))
		return sb.String(), nil
	case FillPicture:
		target, err := pw.mediaTarget(p.Blip.Media)
		if err != nil {
			return "", err
		}
		rid := rels.add(relTypeImage, relTarget(part, target))
		return fmt.Sprintf(`<a:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></a:blipFill>`, rid), nil
	case FillPattern:
		return fmt.Sprintf(`<a:pattFill prst="%s"><a:fgClr>%s</a:fgClr><a:bgClr>%s</a:bgClr></a:pattFill>`,
			p.Pattern.Preset, colorXML(p.Pattern.Foreground), colorXML(p.Pattern.Background)), nil
	}
	if p.NoFill {
		return "<a:noFill/>", nil
	}
	return "", nil
}

// colorXML writes a color with its modifiers in thousandths of a percent.
func colorXML(c ColorSpec) string {
	var mods strings.Builder
	if c.LumMod != nil {
		fmt.Fprintf(&mods, `<a:lumMod val="%d"/>`, *c.LumMod*100)
	}
	if c.LumOff != nil {
		fmt.Fprintf(&mods, `<a:lumOff val="%d"/>`, *c.LumOff*100)
	}
	if c.Alpha != nil {
		fmt.Fprintf(&mods, `<a:alpha val="%d"/>`, *c.Alpha*100)
	}
	tag, val := "srgbClr", c.RGB.String()
	if c.IsScheme() {
		tag, val = "schemeClr", string(c.Scheme)
	}
	if mods.Len() == 0 {
		return fmt.Sprintf(`<a:%s val="%s"/>`, tag, val)
	}
	return fmt.Sprintf(`<a:%s val="%s">%s</a:%s>`, tag, val, mods.String(), tag)
}

func outlineXML(o *Outline) string {
	color := ""
	if o.Color != nil {
		color = "<a:solidFill>" + colorXML(*o.Color) + "</a:solidFill>"
	}
	return fmt.Sprintf(`<a:ln w="%d">%s</a:ln>`, pointsToEMU(o.Width), color)
}

// textBodyXML renders a text box as p:txBody for shapes or a:txBody for
// table cells.
func textBodyXML(tb *TextBox, prefix string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%s:txBody>", prefix)

	wrap := "square"
	if !tb.wrap {
		wrap = "none"
	}
	fmt.Fprintf(&sb, `<a:bodyPr wrap="%s" lIns="%d" tIns="%d" rIns="%d" bIns="%d" anchor="%s" rtlCol="0">`,
		wrap, tb.lIns, tb.tIns, tb.rIns, tb.bIns, tb.anchor)
	switch tb.autofit {
	case AutofitShrinkText:
		if tb.scale < 1 {
			fmt.Fprintf(&sb, `<a:normAutofit fontScale="%d"/>`, int(math.Round(tb.scale*100000)))
		} else {
			sb.WriteString("<a:normAutofit/>")
		}
	case AutofitResizeShape:
		sb.WriteString("<a:spAutoFit/>")
	}
	sb.WriteString("</a:bodyPr>")

	sb.WriteString("<a:lstStyle>" + listStyleXML(&tb.lstStyle) + "</a:lstStyle>")
	for _, p := range tb.paras {
		sb.WriteString(paragraphXML(p))
	}
	fmt.Fprintf(&sb, "</%s:txBody>", prefix)
	return sb.String()
}

// listStyleXML renders the lvlNpPr elements of levels that set anything.
func listStyleXML(ls *ListStyle) string {
	var sb strings.Builder
	for i := range ls.Levels {
		fp := ls.Levels[i]
		if fp.isEmpty() {
			continue
		}
		fmt.Fprintf(&sb, "<a:lvl%dpPr>%s</a:lvl%dpPr>", i+1, runPropsXML("defRPr", fp), i+1)
	}
	return sb.String()
}

func paragraphXML(p *Paragraph) string {
	var sb strings.Builder
	sb.WriteString("<a:p>")

	var attrs string
	if p.level > 0 {
		attrs += fmt.Sprintf(` lvl="%d"`, p.level)
	}
	if p.align != "" {
		attrs += fmt.Sprintf(` algn="%s"`, p.align)
	}
	var bullet string
	switch p.bullet.Type {
	case BulletCharacter:
		bullet = fmt.Sprintf(`<a:buChar char="%s"/>`, xmlEscape(p.bullet.Char))
	case BulletNumbered:
		scheme := p.bullet.Scheme
		if scheme == "" {
			scheme = "arabicPeriod"
		}
		bullet = fmt.Sprintf(`<a:buAutoNum type="%s"/>`, scheme)
	}
	if attrs != "" || bullet != "" {
		sb.WriteString("<a:pPr" + attrs + ">" + bullet + "</a:pPr>")
	}

	for _, r := range p.portions {
		rPr := runPropsXML("rPr", r.props)
		for i, seg := range strings.Split(r.text, lineBreak) {
			if i > 0 {
				sb.WriteString("<a:br>" + rPr + "</a:br>")
			}
			if seg == "" {
				continue
			}
			fmt.Fprintf(&sb, "<a:r>%s<a:t>%s</a:t></a:r>", rPr, xmlEscape(seg))
		}
	}
	sb.WriteString(runPropsXML("endParaRPr", p.endProps))
	sb.WriteString("</a:p>")
	return sb.String()
}

func runPropsXML(tag string, fp FontProps) string {
	attrs := ` lang="en-US"`
	if fp.Size != nil {
		attrs += fmt.Sprintf(` sz="%d"`, int(math.Round(*fp.Size*100)))
	}
	if fp.Bold != nil {
		attrs += fmt.Sprintf(` b="%s"`, boolToXML(*fp.Bold))
	}
	if fp.Italic != nil {
		attrs += fmt.Sprintf(` i="%s"`, boolToXML(*fp.Italic))
	}
	var children strings.Builder
	if fp.Color != nil {
		children.WriteString("<a:solidFill>" + colorXML(*fp.Color) + "</a:solidFill>")
	}
	if fp.Latin != nil {
		fmt.Fprintf(&children, `<a:latin typeface="%s"/>`, xmlEscape(*fp.Latin))
	}
	if fp.EastAsian != nil {
		fmt.Fprintf(&children, `<a:ea typeface="%s"/>`, xmlEscape(*fp.EastAsian))
	}
	if fp.Complex != nil {
		fmt.Fprintf(&children, `<a:cs typeface="%s"/>`, xmlEscape(*fp.Complex))
	}
	if children.Len() == 0 {
		return fmt.Sprintf("<a:%s%s/>", tag, attrs)
	}
	return fmt.Sprintf("<a:%s%s>%s</a:%s>", tag, attrs, children.String(), tag)
}

func boolToXML(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
