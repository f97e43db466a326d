package hwpx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Reference-list blocks that never vary between documents. They mirror what
// Hanword writes for a fresh document using the 맑은 고딕 face.
const fontfacesXML = `<hh:fontfaces itemCnt="7">` +
	`<hh:fontface lang="HANGUL" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"><hh:typeInfo weight="26" proportion="26" contrast="26" strokeVariation="26" armStyle="26" letterform="26" midline="26" xHeight="26"/></hh:font></hh:fontface>` +
	`<hh:fontface lang="LATIN" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"><hh:typeInfo familyType="FCAT_UNKNOWN" weight="0" proportion="0" contrast="0" strokeVariation="0" armStyle="0" letterform="0" midline="252" xHeight="255"/></hh:font></hh:fontface>` +
	`<hh:fontface lang="HANJA" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"><hh:typeInfo familyType="FCAT_UNKNOWN" weight="0" proportion="0" contrast="0" strokeVariation="0" armStyle="0" letterform="0" midline="252" xHeight="255"/></hh:font></hh:fontface>` +
	`<hh:fontface lang="JAPANESE" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"><hh:typeInfo familyType="FCAT_UNKNOWN" weight="0" proportion="0" contrast="0" strokeVariation="0" armStyle="0" letterform="0" midline="252" xHeight="255"/></hh:font></hh:fontface>` +
	`<hh:fontface lang="OTHER" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"><hh:typeInfo familyType="FCAT_UNKNOWN" weight="0" proportion="0" contrast="0" strokeVariation="0" armStyle="0" letterform="0" midline="252" xHeight="255"/></hh:font></hh:fontface>` +
	`<hh:fontface lang="SYMBOL" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"><hh:typeInfo familyType="FCAT_UNKNOWN" weight="0" proportion="0" contrast="0" strokeVariation="0" armStyle="0" letterform="0" midline="252" xHeight="255"/></hh:font></hh:fontface>` +
	`<hh:fontface lang="USER" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"><hh:typeInfo familyType="FCAT_UNKNOWN" weight="0" proportion="0" contrast="0" strokeVariation="0" armStyle="0" letterform="0" midline="252" xHeight="255"/></hh:font></hh:fontface>` +
	`</hh:fontfaces>`

// Border fill 1 is the invisible page default, 2 backs character shading and
// 3 draws the solid table grid.
const borderFillsXML = `<hh:borderFills itemCnt="3">` +
	`<hh:borderFill id="1" threeD="0" shadow="0" centerLine="NONE" breakCellSeparateLine="0">` +
	`<hh:slash type="NONE" Crooked="0" isCounter="0"/><hh:backSlash type="NONE" Crooked="0" isCounter="0"/>` +
	`<hh:leftBorder type="NONE" width="0.1 mm" color="#000000"/><hh:rightBorder type="NONE" width="0.1 mm" color="#000000"/>` +
	`<hh:topBorder type="NONE" width="0.1 mm" color="#000000"/><hh:bottomBorder type="NONE" width="0.1 mm" color="#000000"/>` +
	`<hh:diagonal type="SOLID" width="0.1 mm" color="#000000"/>` +
	`</hh:borderFill>` +
	`<hh:borderFill id="2" threeD="0" shadow="0" centerLine="NONE" breakCellSeparateLine="0">` +
	`<hh:slash type="NONE" Crooked="0" isCounter="0"/><hh:backSlash type="NONE" Crooked="0" isCounter="0"/>` +
	`<hh:leftBorder type="NONE" width="0.1 mm" color="#000000"/><hh:rightBorder type="NONE" width="0.1 mm" color="#000000"/>` +
	`<hh:topBorder type="NONE" width="0.1 mm" color="#000000"/><hh:bottomBorder type="NONE" width="0.1 mm" color="#000000"/>` +
	`<hh:diagonal type="SOLID" width="0.1 mm" color="#000000"/>` +
	`<hc:fillBrush><hc:winBrush faceColor="none" hatchColor="#999999" alpha="0"/></hc:fillBrush>` +
	`</hh:borderFill>` +
	`<hh:borderFill id="3" threeD="0" shadow="0" centerLine="NONE" breakCellSeparateLine="0">` +
	`<hh:slash type="NONE" Crooked="0" isCounter="0"/><hh:backSlash type="NONE" Crooked="0" isCounter="0"/>` +
	`<hh:leftBorder type="SOLID" width="0.12 mm" color="#000000"/><hh:rightBorder type="SOLID" width="0.12 mm" color="#000000"/>` +
	`<hh:topBorder type="SOLID" width="0.12 mm" color="#000000"/><hh:bottomBorder type="SOLID" width="0.12 mm" color="#000000"/>` +
	`<hh:diagonal type="NONE" width="0.1 mm" color="#000000"/>` +
	`</hh:borderFill>` +
	`</hh:borderFills>`

const tabPropertiesXML = `<hh:tabProperties itemCnt="1"><hh:tabPr id="0" autoTabLeft="0" autoTabRight="0"/></hh:tabProperties>`

const numberingsXML = `<hh:numberings itemCnt="1">` +
	`<hh:numbering id="1" start="0">` +
	`<hh:paraHead start="1" level="1" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="DIGIT" charPrIDRef="4294967295" checkable="0">^1.</hh:paraHead>` +
	`<hh:paraHead start="1" level="2" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="HANGUL_SYLLABLE" charPrIDRef="4294967295" checkable="0">^2.</hh:paraHead>` +
	`<hh:paraHead start="1" level="3" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="DIGIT" charPrIDRef="4294967295" checkable="0">^3)</hh:paraHead>` +
	`<hh:paraHead start="1" level="4" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="HANGUL_SYLLABLE" charPrIDRef="4294967295" checkable="0">^4)</hh:paraHead>` +
	`<hh:paraHead start="1" level="5" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="DIGIT" charPrIDRef="4294967295" checkable="0">(^5)</hh:paraHead>` +
	`<hh:paraHead start="1" level="6" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="HANGUL_SYLLABLE" charPrIDRef="4294967295" checkable="0">(^6)</hh:paraHead>` +
	`<hh:paraHead start="1" level="7" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="CIRCLED_DIGIT" charPrIDRef="4294967295" checkable="1">^7</hh:paraHead>` +
	`<hh:paraHead start="1" level="8" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="CIRCLED_HANGUL_SYLLABLE" charPrIDRef="4294967295" checkable="1">^8</hh:paraHead>` +
	`<hh:paraHead start="1" level="9" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="HANGUL_JAMO" charPrIDRef="4294967295" checkable="0"/>` +
	`<hh:paraHead start="1" level="10" align="LEFT" useInstWidth="1" autoIndent="1" widthAdjust="0" textOffsetType="PERCENT" textOffset="50" numFormat="ROMAN_SMALL" charPrIDRef="4294967295" checkable="1"/>` +
	`</hh:numbering>` +
	`</hh:numberings>`

const paraPropertiesXML = `<hh:paraProperties itemCnt="1">` +
	`<hh:paraPr id="0" tabPrIDRef="0" condense="0" fontLineHeight="0" snapToGrid="1" suppressLineNumbers="0" checked="0">` +
	`<hh:align horizontal="JUSTIFY" vertical="BASELINE"/>` +
	`<hh:heading type="NONE" idRef="0" level="0"/>` +
	`<hh:breakSetting breakLatinWord="KEEP_WORD" breakNonLatinWord="KEEP_WORD" widowOrphan="0" keepWithNext="0" keepLines="0" pageBreakBefore="0" lineWrap="BREAK"/>` +
	`<hh:autoSpacing eAsianEng="0" eAsianNum="0"/>` +
	`<hp:switch>` +
	`<hp:case hp:required-namespace="http://www.hancom.co.kr/hwpml/2016/HwpUnitChar">` +
	`<hh:margin><hc:intent value="0" unit="HWPUNIT"/><hc:left value="0" unit="HWPUNIT"/><hc:right value="0" unit="HWPUNIT"/><hc:prev value="0" unit="HWPUNIT"/><hc:next value="0" unit="HWPUNIT"/></hh:margin>` +
	`<hh:lineSpacing type="PERCENT" value="160" unit="HWPUNIT"/>` +
	`</hp:case>` +
	`<hp:default>` +
	`<hh:margin><hc:intent value="0" unit="HWPUNIT"/><hc:left value="0" unit="HWPUNIT"/><hc:right value="0" unit="HWPUNIT"/><hc:prev value="0" unit="HWPUNIT"/><hc:next value="0" unit="HWPUNIT"/></hh:margin>` +
	`<hh:lineSpacing type="PERCENT" value="160" unit="HWPUNIT"/>` +
	`</hp:default>` +
	`</hp:switch>` +
	`<hh:border borderFillIDRef="2" offsetLeft="0" offsetRight="0" offsetTop="0" offsetBottom="0" connect="0" ignoreMargin="0"/>` +
	`</hh:paraPr>` +
	`</hh:paraProperties>`

const stylesXML = `<hh:styles itemCnt="1">` +
	`<hh:style id="0" type="PARA" name="바탕글" engName="Normal" paraPrIDRef="0" charPrIDRef="0" nextStyleIDRef="0" langID="1042" lockForm="0"/>` +
	`</hh:styles>`

func (d *Document) buildHeader() *etree.Document {
	doc := newXMLDocument()
	head := doc.CreateElement("hh:head")
	addNamespaces(head)
	head.CreateAttr("version", "1.5")
	head.CreateAttr("secCnt", strconv.Itoa(d.sectionCount()))

	beginNum := head.CreateElement("hh:beginNum")
	for _, name := range []string{"page", "footnote", "endnote", "pic", "tbl", "equation"} {
		beginNum.CreateAttr(name, "1")
	}

	refList := head.CreateElement("hh:refList")
	refList.AddChild(fragment(fontfacesXML))
	refList.AddChild(fragment(borderFillsXML))
	refList.AddChild(d.buildCharProperties())
	refList.AddChild(fragment(tabPropertiesXML))
	refList.AddChild(fragment(numberingsXML))
	refList.AddChild(fragment(paraPropertiesXML))
	refList.AddChild(fragment(stylesXML))
	if bin := d.buildBinDataItems(); bin != nil {
		refList.AddChild(bin)
	}

	compat := head.CreateElement("hh:compatibleDocument")
	compat.CreateAttr("targetProgram", "HWP201X")
	compat.CreateElement("hh:layoutCompatibility")

	docOption := head.CreateElement("hh:docOption")
	linkinfo := docOption.CreateElement("hh:linkinfo")
	linkinfo.CreateAttr("path", "")
	linkinfo.CreateAttr("pageInherit", "0")
	linkinfo.CreateAttr("footnoteInherit", "0")

	// "trackchage" is Hanword's own spelling, keep it
	track := head.CreateElement("hh:trackchageConfig")
	track.CreateAttr("flags", "56")
	itemSet := track.CreateElement("config:config-item-set")
	itemSet.CreateAttr("name", "TrackChangePasswordInfo")
	item := itemSet.CreateElement("config:config-item")
	item.CreateAttr("name", "algorithm-name")
	item.CreateAttr("type", "string")
	item.SetText("SHA1")
	return doc
}

func (d *Document) buildCharProperties() *etree.Element {
	props := etree.NewElement("hh:charProperties")
	if len(d.shapes) == 0 {
		props.CreateAttr("itemCnt", "1")
		props.AddChild(buildCharPr(0, newCharShape(TextStyle{})))
		return props
	}
	props.CreateAttr("itemCnt", strconv.Itoa(len(d.shapes)))
	for id, cs := range d.shapes {
		props.AddChild(buildCharPr(id, cs))
	}
	return props
}

func buildCharPr(id int, cs charShape) *etree.Element {
	pr := etree.NewElement("hh:charPr")
	pr.CreateAttr("id", strconv.Itoa(id))
	pr.CreateAttr("height", strconv.Itoa(cs.baseSize))
	if cs.bold() {
		pr.CreateAttr("bold", "1")
	}
	if cs.italic() {
		pr.CreateAttr("italic", "1")
	}
	pr.CreateAttr("textColor", rgb(cs.textColor))
	pr.CreateAttr("shadeColor", "none")
	pr.CreateAttr("useFontSpace", "0")
	pr.CreateAttr("useKerning", "0")
	pr.CreateAttr("symMark", "NONE")
	pr.CreateAttr("borderFillIDRef", "2")

	perLanguage(pr, "hh:fontRef", "0")
	perLanguage(pr, "hh:ratio", "100")
	perLanguage(pr, "hh:spacing", "0")
	perLanguage(pr, "hh:relSz", "100")
	perLanguage(pr, "hh:offset", "0")

	underline := pr.CreateElement("hh:underline")
	if cs.underline() {
		underline.CreateAttr("type", "BOTTOM")
	} else {
		underline.CreateAttr("type", "NONE")
	}
	underline.CreateAttr("shape", "SOLID")
	underline.CreateAttr("color", rgb(cs.underlineColor))

	strikeout := pr.CreateElement("hh:strikeout")
	if cs.strike() {
		strikeout.CreateAttr("shape", "CONTINUOUS")
	} else {
		strikeout.CreateAttr("shape", "NONE")
	}
	strikeout.CreateAttr("color", rgb(cs.textColor))

	outline := pr.CreateElement("hh:outline")
	outline.CreateAttr("type", "NONE")

	shadow := pr.CreateElement("hh:shadow")
	shadow.CreateAttr("type", "NONE")
	shadow.CreateAttr("color", rgb(cs.shadowColor))
	shadow.CreateAttr("offsetX", "10")
	shadow.CreateAttr("offsetY", "10")
	return pr
}

// perLanguage emits one of the seven-script property elements with the same
// value for every script.
func perLanguage(parent *etree.Element, name, value string) {
	e := parent.CreateElement(name)
	for _, lang := range []string{"hangul", "latin", "hanja", "japanese", "other", "symbol", "user"} {
		e.CreateAttr(lang, value)
	}
}

func rgb(c uint32) string {
	return fmt.Sprintf("#%06X", c&0xFFFFFF)
}

func (d *Document) buildBinDataItems() *etree.Element {
	if len(d.images) == 0 {
		return nil
	}
	items := etree.NewElement("hh:binDataItems")
	items.CreateAttr("itemCnt", strconv.Itoa(len(d.images)))
	for i, img := range d.images {
		item := items.CreateElement("hh:binDataItem")
		item.CreateAttr("id", fmt.Sprintf("image%d", i+1))
		item.CreateAttr("src", fmt.Sprintf("BinData/image%d.%s", i+1, img.Format.Ext()))
		item.CreateAttr("format", img.Format.ItemFormat())
		item.CreateAttr("isEmbeded", "1")
	}
	return items
}
