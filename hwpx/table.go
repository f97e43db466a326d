package hwpx

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/HC-ProductTech/hwpers/htmltable"
)

// Table geometry in HWP units. The body content width of the default page is
// split evenly between columns, integer division drops any remainder.
const (
	tableContentWidth = 42520
	tableCellHeight   = 1000
)

func buildTable(a *TableAttachment) *etree.Element {
	g := a.Grid
	if g == nil || g.Rows == 0 || g.Cols == 0 {
		return nil
	}

	colWidth := tableContentWidth / g.Cols
	totalWidth := colWidth * g.Cols

	tbl := etree.NewElement("hp:tbl")
	tbl.CreateAttr("id", strconv.Itoa(a.Seq))
	tbl.CreateAttr("zOrder", "0")
	tbl.CreateAttr("numberingType", "TABLE")
	tbl.CreateAttr("textWrap", "TOP_AND_BOTTOM")
	tbl.CreateAttr("textFlow", "BOTH_SIDES")
	tbl.CreateAttr("lock", "0")
	tbl.CreateAttr("dropcapstyle", "None")
	tbl.CreateAttr("pageBreak", "CELL")
	tbl.CreateAttr("repeatHeader", "1")
	tbl.CreateAttr("rowCnt", strconv.Itoa(g.Rows))
	tbl.CreateAttr("colCnt", strconv.Itoa(g.Cols))
	tbl.CreateAttr("cellSpacing", "0")
	tbl.CreateAttr("borderFillIDRef", "3")
	tbl.CreateAttr("noAdjust", "0")

	addSize(tbl, totalWidth, tableCellHeight*g.Rows)
	addAnchorPos(tbl, "0")
	addMargin(tbl, "hp:outMargin", 283, 283, 283, 283)
	addMargin(tbl, "hp:inMargin", 510, 510, 142, 142)

	for r := 0; r < g.Rows; r++ {
		tr := tbl.CreateElement("hp:tr")
		for c := 0; c < g.Cols; c++ {
			cell := g.Cells[r][c]
			if cell.Kind == htmltable.Covered {
				continue
			}
			addTableCell(tr, r, c, cell, colWidth)
		}
	}
	return tbl
}

func addTableCell(tr *etree.Element, row, col int, cell htmltable.Cell, colWidth int) {
	tc := tr.CreateElement("hp:tc")
	tc.CreateAttr("name", "")
	tc.CreateAttr("header", "0")
	tc.CreateAttr("hasMargin", "0")
	tc.CreateAttr("protect", "0")
	tc.CreateAttr("editable", "0")
	tc.CreateAttr("dirty", "0")
	tc.CreateAttr("borderFillIDRef", "3")

	subList := tc.CreateElement("hp:subList")
	subList.CreateAttr("id", "")
	subList.CreateAttr("textDirection", "HORIZONTAL")
	subList.CreateAttr("lineWrap", "BREAK")
	subList.CreateAttr("vertAlign", "CENTER")
	subList.CreateAttr("linkListIDRef", "0")
	subList.CreateAttr("linkListNextIDRef", "0")
	subList.CreateAttr("textWidth", "0")
	subList.CreateAttr("textHeight", "0")
	subList.CreateAttr("hasTextRef", "0")
	subList.CreateAttr("hasNumRef", "0")
	textRun(newPara(subList, 0), 0, cell.Text)

	addr := tc.CreateElement("hp:cellAddr")
	addr.CreateAttr("colAddr", strconv.Itoa(col))
	addr.CreateAttr("rowAddr", strconv.Itoa(row))

	span := tc.CreateElement("hp:cellSpan")
	span.CreateAttr("colSpan", strconv.Itoa(cell.ColSpan))
	span.CreateAttr("rowSpan", strconv.Itoa(cell.RowSpan))

	sz := tc.CreateElement("hp:cellSz")
	sz.CreateAttr("width", strconv.Itoa(colWidth*cell.ColSpan))
	sz.CreateAttr("height", strconv.Itoa(tableCellHeight*cell.RowSpan))

	addMargin(tc, "hp:cellMargin", 510, 510, 142, 142)
}

func addSize(parent *etree.Element, width, height int) {
	sz := parent.CreateElement("hp:sz")
	sz.CreateAttr("width", strconv.Itoa(width))
	sz.CreateAttr("widthRelTo", "ABSOLUTE")
	sz.CreateAttr("height", strconv.Itoa(height))
	sz.CreateAttr("heightRelTo", "ABSOLUTE")
	sz.CreateAttr("protect", "0")
}

func addAnchorPos(parent *etree.Element, treatAsChar string) {
	pos := parent.CreateElement("hp:pos")
	pos.CreateAttr("treatAsChar", treatAsChar)
	pos.CreateAttr("affectLSpacing", "0")
	pos.CreateAttr("flowWithText", "1")
	pos.CreateAttr("allowOverlap", "0")
	pos.CreateAttr("holdAnchorAndSO", "0")
	pos.CreateAttr("vertRelTo", "PARA")
	pos.CreateAttr("horzRelTo", "PARA")
	pos.CreateAttr("vertAlign", "TOP")
	pos.CreateAttr("horzAlign", "LEFT")
	pos.CreateAttr("vertOffset", "0")
	pos.CreateAttr("horzOffset", "0")
}

func addMargin(parent *etree.Element, name string, left, right, top, bottom int) {
	m := parent.CreateElement(name)
	m.CreateAttr("left", strconv.Itoa(left))
	m.CreateAttr("right", strconv.Itoa(right))
	m.CreateAttr("top", strconv.Itoa(top))
	m.CreateAttr("bottom", strconv.Itoa(bottom))
}
