package slidedom

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Parse targets for package parts. Tags carry local names only, so both
// transitional and strict namespaces decode.

type xPresentation struct {
	Masters []xIDEntry `xml:"sldMasterIdLst>sldMasterId"`
	Slides  []xIDEntry `xml:"sldIdLst>sldId"`
	SldSz   *xSize     `xml:"sldSz"`
}

// xIDEntry keeps raw attributes: the plain id and r:id share a local name.
type xIDEntry struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (e xIDEntry) relID() string {
	for _, a := range e.Attrs {
		if a.Name.Local == "id" && a.Name.Space != "" {
			return a.Value
		}
	}
	return ""
}

type xSldMaster struct {
	CSld   xCSld `xml:"cSld"`
	ClrMap *struct {
		Attrs []xml.Attr `xml:",any,attr"`
	} `xml:"clrMap"`
	Layouts  []xIDEntry `xml:"sldLayoutIdLst>sldLayoutId"`
	TxStyles struct {
		Title *xLstStyle `xml:"titleStyle"`
		Body  *xLstStyle `xml:"bodyStyle"`
		Other *xLstStyle `xml:"otherStyle"`
	} `xml:"txStyles"`
}

type xSldLayout struct {
	Type string `xml:"type,attr"`
	CSld xCSld  `xml:"cSld"`
}

type xSld struct {
	CSld xCSld `xml:"cSld"`
}

type xCSld struct {
	Name   string `xml:"name,attr"`
	Bg     *xBg   `xml:"bg"`
	SpTree xGroup `xml:"spTree"`
}

type xBg struct {
	BgPr *xFillProps `xml:"bgPr"`
}

type xTheme struct {
	Name     string `xml:"name,attr"`
	Elements struct {
		ClrScheme struct {
			Name  string     `xml:"name,attr"`
			Slots []xClrSlot `xml:",any"`
		} `xml:"clrScheme"`
		FontScheme struct {
			Name  string    `xml:"name,attr"`
			Major xFontColl `xml:"majorFont"`
			Minor xFontColl `xml:"minorFont"`
		} `xml:"fontScheme"`
	} `xml:"themeElements"`
}

type xClrSlot struct {
	XMLName xml.Name
	xColorChoice
}

type xFontColl struct {
	Latin xTypeface `xml:"latin"`
	Ea    xTypeface `xml:"ea"`
	Cs    xTypeface `xml:"cs"`
}

type xTypeface struct {
	Typeface string `xml:"typeface,attr"`
}

type xChartSpace struct {
	Chart struct {
		PlotArea struct {
			Items []struct {
				XMLName xml.Name
			} `xml:",any"`
		} `xml:"plotArea"`
	} `xml:"chart"`
}

// --- shape tree ---

// xGroup is an spTree or grpSp. Members are kept in document order.
type xGroup struct {
	Nv    xNonVisual
	SpPr  xSpPr
	Items []xShapeElem
}

// xShapeElem holds exactly one member.
type xShapeElem struct {
	Sp    *xSp
	Pic   *xPic
	Frame *xGraphicFrame
	Group *xGroup
}

type xAlternateContent struct {
	Choice *xGroup `xml:"Choice"`
}

func (g *xGroup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "nvGrpSpPr":
				err = d.DecodeElement(&g.Nv, &t)
			case "grpSpPr":
				err = d.DecodeElement(&g.SpPr, &t)
			case "sp":
				sp := new(xSp)
				err = d.DecodeElement(sp, &t)
				g.Items = append(g.Items, xShapeElem{Sp: sp})
			case "pic":
				pic := new(xPic)
				err = d.DecodeElement(pic, &t)
				g.Items = append(g.Items, xShapeElem{Pic: pic})
			case "graphicFrame":
				gf := new(xGraphicFrame)
				err = d.DecodeElement(gf, &t)
				g.Items = append(g.Items, xShapeElem{Frame: gf})
			case "grpSp":
				grp := new(xGroup)
				err = d.DecodeElement(grp, &t)
				g.Items = append(g.Items, xShapeElem{Group: grp})
			case "AlternateContent":
				var ac xAlternateContent
				err = d.DecodeElement(&ac, &t)
				if ac.Choice != nil {
					g.Items = append(g.Items, ac.Choice.Items...)
				}
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xNonVisual struct {
	CNvPr   xCNvPr `xml:"cNvPr"`
	CNvSpPr *struct {
		TxBox bool `xml:"txBox,attr"`
	} `xml:"cNvSpPr"`
	NvPr xNvPr `xml:"nvPr"`
}

type xCNvPr struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Hidden bool   `xml:"hidden,attr"`
}

type xNvPr struct {
	Ph        *xPh        `xml:"ph"`
	VideoFile *xMediaLink `xml:"videoFile"`
	AudioFile *xMediaLink `xml:"audioFile"`
}

type xPh struct {
	Type string `xml:"type,attr"`
	Idx  int    `xml:"idx,attr"`
}

type xMediaLink struct {
	Link string `xml:"link,attr"`
}

type xSp struct {
	UseBgFill bool       `xml:"useBgFill,attr"`
	Nv        xNonVisual `xml:"nvSpPr"`
	SpPr      xSpPr      `xml:"spPr"`
	TxBody    *xTxBody   `xml:"txBody"`
}

type xPic struct {
	Nv       xNonVisual `xml:"nvPicPr"`
	BlipFill *xBlipFill `xml:"blipFill"`
	SpPr     xSpPr      `xml:"spPr"`
}

type xGraphicFrame struct {
	Nv      xNonVisual `xml:"nvGraphicFramePr"`
	Xfrm    *xXfrm     `xml:"xfrm"`
	Graphic struct {
		Data xGraphicData `xml:"graphicData"`
	} `xml:"graphic"`
}

type xGraphicData struct {
	URI   string `xml:"uri,attr"`
	Tbl   *xTbl  `xml:"tbl"`
	Chart *struct {
		ID string `xml:"id,attr"`
	} `xml:"chart"`
	OleObj           *xOleObj `xml:"oleObj"`
	AlternateContent *struct {
		Choice struct {
			OleObj *xOleObj `xml:"oleObj"`
		} `xml:"Choice"`
	} `xml:"AlternateContent"`
}

func (g *xGraphicData) ole() *xOleObj {
	if g.OleObj != nil {
		return g.OleObj
	}
	if g.AlternateContent != nil {
		return g.AlternateContent.Choice.OleObj
	}
	return nil
}

type xOleObj struct {
	ProgID string `xml:"progId,attr"`
	ID     string `xml:"id,attr"`
}

type xTbl struct {
	Cols []struct {
		W int64 `xml:"w,attr"`
	} `xml:"tblGrid>gridCol"`
	Rows []struct {
		H     int64 `xml:"h,attr"`
		Cells []struct {
			TxBody *xTxBody `xml:"txBody"`
		} `xml:"tc"`
	} `xml:"tr"`
}

type xSpPr struct {
	Xfrm     *xXfrm `xml:"xfrm"`
	PrstGeom *struct {
		Prst string `xml:"prst,attr"`
	} `xml:"prstGeom"`
	xFillProps
	Ln *struct {
		W         int64         `xml:"w,attr"`
		SolidFill *xColorChoice `xml:"solidFill"`
	} `xml:"ln"`
}

type xFillProps struct {
	NoFill    *struct{}     `xml:"noFill"`
	SolidFill *xColorChoice `xml:"solidFill"`
	GradFill  *struct {
		Stops []struct {
			Pos int `xml:"pos,attr"`
			xColorChoice
		} `xml:"gsLst>gs"`
		Lin *struct {
			Ang int64 `xml:"ang,attr"`
		} `xml:"lin"`
	} `xml:"gradFill"`
	BlipFill *xBlipFill `xml:"blipFill"`
	PattFill *struct {
		Prst  string        `xml:"prst,attr"`
		FgClr *xColorChoice `xml:"fgClr"`
		BgClr *xColorChoice `xml:"bgClr"`
	} `xml:"pattFill"`
}

type xBlipFill struct {
	Blip *struct {
		Embed string `xml:"embed,attr"`
	} `xml:"blip"`
}

type xXfrm struct {
	Rot   int64   `xml:"rot,attr"`
	Off   *xPoint `xml:"off"`
	Ext   *xSize  `xml:"ext"`
	ChOff *xPoint `xml:"chOff"`
	ChExt *xSize  `xml:"chExt"`
}

type xPoint struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type xSize struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type xColorChoice struct {
	SrgbClr   *xColorVal `xml:"srgbClr"`
	SchemeClr *xColorVal `xml:"schemeClr"`
	SysClr    *xColorVal `xml:"sysClr"`
}

type xColorVal struct {
	Val     string   `xml:"val,attr"`
	LastClr string   `xml:"lastClr,attr"`
	Alpha   *xIntVal `xml:"alpha"`
	LumMod  *xIntVal `xml:"lumMod"`
	LumOff  *xIntVal `xml:"lumOff"`
}

type xIntVal struct {
	Val int `xml:"val,attr"`
}

// spec converts a color element; modifiers go from thousandths of a
// percent to per-mille.
func (c *xColorChoice) spec() (ColorSpec, bool) {
	if c == nil {
		return ColorSpec{}, false
	}
	var spec ColorSpec
	var v *xColorVal
	switch {
	case c.SrgbClr != nil:
		v = c.SrgbClr
		rgb, err := ParseColor(v.Val)
		if err != nil {
			return ColorSpec{}, false
		}
		spec.RGB = rgb
	case c.SchemeClr != nil:
		v = c.SchemeClr
		spec.Scheme = SchemeColor(v.Val)
	case c.SysClr != nil:
		v = c.SysClr
		rgb, err := ParseColor(v.LastClr)
		if err != nil {
			return ColorSpec{}, false
		}
		spec.RGB = rgb
	default:
		return ColorSpec{}, false
	}
	perMille := func(x *xIntVal) *int {
		if x == nil {
			return nil
		}
		n := x.Val / 100
		return &n
	}
	spec.Alpha = perMille(v.Alpha)
	spec.LumMod = perMille(v.LumMod)
	spec.LumOff = perMille(v.LumOff)
	return spec, true
}

// --- text ---

type xTxBody struct {
	BodyPr   xBodyPr    `xml:"bodyPr"`
	LstStyle *xLstStyle `xml:"lstStyle"`
	Paras    []xP       `xml:"p"`
}

type xBodyPr struct {
	Wrap        string `xml:"wrap,attr"`
	LIns        *int64 `xml:"lIns,attr"`
	TIns        *int64 `xml:"tIns,attr"`
	RIns        *int64 `xml:"rIns,attr"`
	BIns        *int64 `xml:"bIns,attr"`
	Anchor      string `xml:"anchor,attr"`
	NormAutofit *struct {
		FontScale string `xml:"fontScale,attr"`
	} `xml:"normAutofit"`
	SpAutoFit *struct{} `xml:"spAutoFit"`
}

// fontScale parses "62500" or the strict form "62.5%".
func (b *xBodyPr) fontScale() float64 {
	if b.NormAutofit == nil || b.NormAutofit.FontScale == "" {
		return 1
	}
	s := b.NormAutofit.FontScale
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || v <= 0 {
			return 1
		}
		return min(v/100, 1)
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 1
	}
	return min(float64(v)/100000, 1)
}

type xLstStyle struct {
	Levels []xLvlPPr `xml:",any"`
}

type xLvlPPr struct {
	XMLName xml.Name
	DefRPr  *xRPr `xml:"defRPr"`
}

// level returns the zero-based level of an "lvlNpPr" element.
func (l xLvlPPr) level() (int, bool) {
	name := l.XMLName.Local
	if !strings.HasPrefix(name, "lvl") || !strings.HasSuffix(name, "pPr") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "lvl"), "pPr"))
	if err != nil || n < 1 || n > maxLevels {
		return 0, false
	}
	return n - 1, true
}

type xRPr struct {
	Sz        *int          `xml:"sz,attr"`
	B         *bool         `xml:"b,attr"`
	I         *bool         `xml:"i,attr"`
	SolidFill *xColorChoice `xml:"solidFill"`
	Latin     *xTypeface    `xml:"latin"`
	Ea        *xTypeface    `xml:"ea"`
	Cs        *xTypeface    `xml:"cs"`
}

func (r *xRPr) props() FontProps {
	var fp FontProps
	if r == nil {
		return fp
	}
	if r.Sz != nil {
		fp.Size = ptr(float64(*r.Sz) / 100)
	}
	fp.Bold = cloneVal(r.B)
	fp.Italic = cloneVal(r.I)
	if spec, ok := r.SolidFill.spec(); ok {
		fp.Color = &spec
	}
	if r.Latin != nil {
		fp.Latin = ptr(r.Latin.Typeface)
	}
	if r.Ea != nil {
		fp.EastAsian = ptr(r.Ea.Typeface)
	}
	if r.Cs != nil {
		fp.Complex = ptr(r.Cs.Typeface)
	}
	return fp
}

type xPPr struct {
	Lvl    int    `xml:"lvl,attr"`
	Algn   string `xml:"algn,attr"`
	BuChar *struct {
		Char string `xml:"char,attr"`
	} `xml:"buChar"`
	BuAutoNum *struct {
		Type string `xml:"type,attr"`
	} `xml:"buAutoNum"`
}

type xR struct {
	RPr *xRPr  `xml:"rPr"`
	T   string `xml:"t"`
}

// xRunItem is a run, a field or a line break.
type xRunItem struct {
	Text  string
	RPr   *xRPr
	Break bool
}

// xP keeps runs and breaks in document order.
type xP struct {
	PPr        *xPPr
	Items      []xRunItem
	EndParaRPr *xRPr
}

func (p *xP) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "pPr":
				p.PPr = new(xPPr)
				err = d.DecodeElement(p.PPr, &t)
			case "r", "fld":
				var r xR
				err = d.DecodeElement(&r, &t)
				p.Items = append(p.Items, xRunItem{Text: r.T, RPr: r.RPr})
			case "br":
				var r xR
				err = d.DecodeElement(&r, &t)
				p.Items = append(p.Items, xRunItem{Break: true, RPr: r.RPr})
			case "endParaRPr":
				p.EndParaRPr = new(xRPr)
				err = d.DecodeElement(p.EndParaRPr, &t)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}
