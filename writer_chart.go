package slidedom

import "fmt"

// chartPartXML renders a chart part with an empty plot of the given kind.
// Series data lives in the embedded workbook, which is not modeled.
func chartPartXML(kind ChartType) string {
	if kind == "" {
		kind = ChartBar
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<c:chartSpace xmlns:c="%s" xmlns:a="%s" xmlns:r="%s">
  <c:chart>
    <c:autoTitleDeleted val="1"/>
    <c:plotArea>
      <c:layout/>
%s%s    </c:plotArea>
    <c:plotVisOnly val="1"/>
    <c:dispBlanksAs val="gap"/>
  </c:chart>
</c:chartSpace>`, nsChart, nsDrawingML, nsOfficeDocRels, plotXML(kind), axesXML(kind))
}

func plotXML(kind ChartType) string {
	switch kind {
	case ChartPie:
		return `      <c:pieChart>
        <c:varyColors val="1"/>
      </c:pieChart>
`
	case ChartBar:
		return `      <c:barChart>
        <c:barDir val="col"/>
        <c:grouping val="clustered"/>
        <c:varyColors val="0"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:barChart>
`
	case ChartScatter:
		return `      <c:scatterChart>
        <c:scatterStyle val="lineMarker"/>
        <c:varyColors val="0"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:scatterChart>
`
	}
	return fmt.Sprintf(`      <c:%s>
        <c:grouping val="standard"/>
        <c:varyColors val="0"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:%s>
`, kind, kind)
}

func axesXML(kind ChartType) string {
	if kind == ChartPie {
		return ""
	}
	// scatter plots have a value axis in both directions
	first := "catAx"
	if kind == ChartScatter {
		first = "valAx"
	}
	return fmt.Sprintf(`      <c:%s>
        <c:axId val="1"/>
        <c:scaling><c:orientation val="minMax"/></c:scaling>
        <c:delete val="0"/>
        <c:axPos val="b"/>
        <c:crossAx val="2"/>
        <c:crosses val="autoZero"/>
      </c:%s>
      <c:valAx>
        <c:axId val="2"/>
        <c:scaling><c:orientation val="minMax"/></c:scaling>
        <c:delete val="0"/>
        <c:axPos val="l"/>
        <c:crossAx val="1"/>
        <c:crosses val="autoZero"/>
      </c:valAx>
`, first, first)
}
