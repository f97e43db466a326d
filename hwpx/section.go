package hwpx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Section properties emitted inside the first run of every section. A4
// portrait page, single column, continuous footnote numbering.
const secPrXML = `<hp:secPr id="" textDirection="HORIZONTAL" spaceColumns="1134" tabStop="8000" tabStopVal="4000" tabStopUnit="HWPUNIT" outlineShapeIDRef="1" memoShapeIDRef="0" textVerticalWidthHead="0" masterPageCnt="0">` +
	`<hp:grid lineGrid="0" charGrid="0" wonggojiFormat="0"/>` +
	`<hp:startNum pageStartsOn="BOTH" page="0" pic="0" tbl="0" equation="0"/>` +
	`<hp:visibility hideFirstHeader="0" hideFirstFooter="0" hideFirstMasterPage="0" border="SHOW_ALL" fill="SHOW_ALL" hideFirstPageNum="0" hideFirstEmptyLine="0" showLineNumber="0"/>` +
	`<hp:lineNumberShape restartType="0" countBy="0" distance="0" startNumber="0"/>` +
	`<hp:pagePr landscape="WIDELY" width="59528" height="84186" gutterType="LEFT_ONLY">` +
	`<hp:margin header="4252" footer="4252" gutter="0" left="8504" right="8504" top="5668" bottom="4252"/></hp:pagePr>` +
	`<hp:footNotePr><hp:autoNumFormat type="DIGIT" userChar="" prefixChar="" suffixChar=")" supscript="0"/>` +
	`<hp:noteLine length="-1" type="SOLID" width="0.12 mm" color="#000000"/>` +
	`<hp:noteSpacing betweenNotes="283" belowLine="567" aboveLine="850"/>` +
	`<hp:numbering type="CONTINUOUS" newNum="1"/><hp:placement place="EACH_COLUMN" beneathText="0"/></hp:footNotePr>` +
	`<hp:endNotePr><hp:autoNumFormat type="DIGIT" userChar="" prefixChar="" suffixChar=")" supscript="0"/>` +
	`<hp:noteLine length="14692344" type="SOLID" width="0.12 mm" color="#000000"/>` +
	`<hp:noteSpacing betweenNotes="0" belowLine="567" aboveLine="850"/>` +
	`<hp:numbering type="CONTINUOUS" newNum="1"/><hp:placement place="END_OF_DOCUMENT" beneathText="0"/></hp:endNotePr>` +
	`<hp:pageBorderFill type="BOTH" borderFillIDRef="1" textBorder="PAPER" headerInside="0" footerInside="0" fillArea="PAPER">` +
	`<hp:offset left="1417" right="1417" top="1417" bottom="1417"/></hp:pageBorderFill>` +
	`<hp:pageBorderFill type="EVEN" borderFillIDRef="1" textBorder="PAPER" headerInside="0" footerInside="0" fillArea="PAPER">` +
	`<hp:offset left="1417" right="1417" top="1417" bottom="1417"/></hp:pageBorderFill>` +
	`<hp:pageBorderFill type="ODD" borderFillIDRef="1" textBorder="PAPER" headerInside="0" footerInside="0" fillArea="PAPER">` +
	`<hp:offset left="1417" right="1417" top="1417" bottom="1417"/></hp:pageBorderFill>` +
	`</hp:secPr>`

const colPrXML = `<hp:ctrl><hp:colPr id="" type="NEWSPAPER" layout="LEFT" colCount="1" sameSz="1" sameGap="0"/></hp:ctrl>`

func (d *Document) buildSection(s *Section) *etree.Document {
	doc := newXMLDocument()
	sec := doc.CreateElement("hs:sec")
	addNamespaces(sec)

	if len(s.Paragraphs) == 0 {
		p := newPara(sec, 0)
		d.addSectionOpening(p)
		run := newRun(p, 0)
		run.CreateElement("hp:t")
		return doc
	}

	for idx, para := range s.Paragraphs {
		p := newPara(sec, idx)
		if idx == 0 {
			d.addSectionOpening(p)
		}
		addParagraphContent(p, para)
	}
	return doc
}

// addSectionOpening attaches the section properties and any page header and
// footer controls to the first paragraph.
func (d *Document) addSectionOpening(p *etree.Element) {
	run := newRun(p, 0)
	run.AddChild(fragment(secPrXML))
	run.AddChild(fragment(colPrXML))

	if len(d.Headers) > 0 {
		run := newRun(p, 0)
		for i, hf := range d.Headers {
			addHeaderCtrl(run, i, hf)
		}
		run.CreateElement("hp:t")
	}
	if len(d.Footers) > 0 {
		run := newRun(p, 0)
		for i, hf := range d.Footers {
			addFooterCtrl(run, i, hf)
		}
		run.CreateElement("hp:t")
	}
}

func addParagraphContent(p *etree.Element, para *Paragraph) {
	if len(para.Runs) > 0 {
		addStyledRuns(p, para.Text, para.Runs)
		return
	}
	switch a := para.Attach.(type) {
	case *TableAttachment:
		run := newRun(p, 0)
		if tbl := buildTable(a); tbl != nil {
			run.AddChild(tbl)
		}
		run.CreateElement("hp:t")
	case *ImageAttachment:
		run := newRun(p, 0)
		run.AddChild(buildPicture(a))
		run.CreateElement("hp:t")
	case *LinkAttachment:
		addLinkRuns(p, para.Text, a.Links)
	default:
		textRun(p, 0, para.Text)
	}
}

// addStyledRuns splits the paragraph text at the run offsets. Stretches not
// claimed by a run fall back to shape 0, empty stretches are not emitted.
func addStyledRuns(p *etree.Element, text string, runs []StyleRun) {
	chars := []rune(text)
	last := 0
	for i, sr := range runs {
		start := min(sr.Offset, len(chars))
		end := len(chars)
		if i+1 < len(runs) {
			end = min(runs[i+1].Offset, len(chars))
		}
		if start > last {
			textRun(p, 0, string(chars[last:start]))
		}
		if end > start {
			textRun(p, sr.ShapeID, string(chars[start:end]))
		}
		last = end
	}
	if last < len(chars) {
		textRun(p, 0, string(chars[last:]))
	}
}

// addLinkRuns anchors each link at the first occurrence of its text after
// the previous link's end. Links whose text does not occur are skipped. When
// nothing at all is emitted the paragraph degrades to a plain text run.
func addLinkRuns(p *etree.Element, text string, links []Hyperlink) {
	chars := []rune(text)
	last := 0
	emitted := false
	for _, link := range links {
		start := runeIndex(chars, []rune(link.Text), last)
		if start < 0 {
			continue
		}
		if start > last {
			textRun(p, 0, string(chars[last:start]))
			emitted = true
		}
		run := newRun(p, 0)
		ctrl := run.CreateElement("hp:ctrl")
		hl := ctrl.CreateElement("hp:hyperlink")
		hl.CreateAttr("url", link.URL)
		hl.CreateAttr("visited", "0")
		hl.CreateAttr("visited_style", "0")
		hl.CreateAttr("new_window", "0")
		run.CreateElement("hp:t").SetText(link.Text)
		emitted = true
		last = start + len([]rune(link.Text))
	}
	if last < len(chars) {
		textRun(p, 0, string(chars[last:]))
		emitted = true
	}
	if !emitted {
		textRun(p, 0, text)
	}
}

func runeIndex(chars, target []rune, from int) int {
	if from < 0 {
		from = 0
	}
outer:
	for i := from; i+len(target) <= len(chars); i++ {
		for j, r := range target {
			if chars[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

func addHeaderCtrl(run *etree.Element, idx int, hf HeaderFooter) {
	ctrl := run.CreateElement("hp:ctrl")
	header := ctrl.CreateElement("hp:header")
	header.CreateAttr("id", strconv.Itoa(idx+1))
	header.CreateAttr("applyPageType", hf.ApplyTo.PageType())
	inner := newRun(headFootBody(header), 0)
	if hf.Text == "" {
		// No caption, show a bare page number instead
		addPageNumCtrl(inner, "DIGIT")
		inner.CreateElement("hp:t")
	} else {
		inner.CreateElement("hp:t").SetText(hf.Text)
	}
}

func addFooterCtrl(run *etree.Element, idx int, hf HeaderFooter) {
	ctrl := run.CreateElement("hp:ctrl")
	footer := ctrl.CreateElement("hp:footer")
	footer.CreateAttr("id", strconv.Itoa(idx+1))
	footer.CreateAttr("applyPageType", hf.ApplyTo.PageType())
	p := headFootBody(footer)
	inner := newRun(p, 0)
	inner.CreateElement("hp:t").SetText(hf.Text)
	if hf.PageNumbers {
		second := newRun(p, 0)
		addPageNumCtrl(second, hf.NumberFmt.FormatType())
		second.CreateElement("hp:t")
	}
}

// headFootBody builds the sub-list skeleton shared by header and footer
// controls and returns its paragraph.
func headFootBody(parent *etree.Element) *etree.Element {
	subList := parent.CreateElement("hp:subList")
	subList.CreateAttr("id", "")
	subList.CreateAttr("textDirection", "HORIZONTAL")
	subList.CreateAttr("lineWrap", "BREAK")
	subList.CreateAttr("vertAlign", "TOP")
	subList.CreateAttr("linkListIDRef", "0")
	subList.CreateAttr("linkListNextIDRef", "0")
	subList.CreateAttr("textWidth", "42520")
	subList.CreateAttr("textHeight", "4252")
	subList.CreateAttr("hasTextRef", "0")
	subList.CreateAttr("hasNumRef", "0")
	return newPara(subList, 0)
}

func addPageNumCtrl(run *etree.Element, format string) {
	ctrl := run.CreateElement("hp:ctrl")
	num := ctrl.CreateElement("hp:autoNum")
	num.CreateAttr("num", "1")
	num.CreateAttr("numType", "PAGE")
	f := num.CreateElement("hp:autoNumFormat")
	f.CreateAttr("type", format)
	f.CreateAttr("userChar", "")
	f.CreateAttr("prefixChar", "")
	f.CreateAttr("suffixChar", "")
	f.CreateAttr("supscript", "0")
}

func newPara(parent *etree.Element, id int) *etree.Element {
	p := parent.CreateElement("hp:p")
	p.CreateAttr("id", strconv.Itoa(id))
	p.CreateAttr("paraPrIDRef", "0")
	p.CreateAttr("styleIDRef", "0")
	p.CreateAttr("pageBreak", "0")
	p.CreateAttr("columnBreak", "0")
	p.CreateAttr("merged", "0")
	return p
}

func newRun(p *etree.Element, shapeID int) *etree.Element {
	run := p.CreateElement("hp:run")
	run.CreateAttr("charPrIDRef", strconv.Itoa(shapeID))
	return run
}

func textRun(p *etree.Element, shapeID int, text string) {
	newRun(p, shapeID).CreateElement("hp:t").SetText(text)
}
