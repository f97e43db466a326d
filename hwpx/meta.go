package hwpx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Namespace set declared on every major markup root, order is fixed.
var hwpxNamespaces = [][2]string{
	{"xmlns:ha", "http://www.hancom.co.kr/hwpml/2011/app"},
	{"xmlns:hp", "http://www.hancom.co.kr/hwpml/2011/paragraph"},
	{"xmlns:hp10", "http://www.hancom.co.kr/hwpml/2016/paragraph"},
	{"xmlns:hs", "http://www.hancom.co.kr/hwpml/2011/section"},
	{"xmlns:hc", "http://www.hancom.co.kr/hwpml/2011/core"},
	{"xmlns:hh", "http://www.hancom.co.kr/hwpml/2011/head"},
	{"xmlns:hhs", "http://www.hancom.co.kr/hwpml/2011/history"},
	{"xmlns:hm", "http://www.hancom.co.kr/hwpml/2011/master-page"},
	{"xmlns:hpf", "http://www.hancom.co.kr/schema/2011/hpf"},
	{"xmlns:dc", "http://purl.org/dc/elements/1.1/"},
	{"xmlns:opf", "http://www.idpf.org/2007/opf/"},
	{"xmlns:ooxmlchart", "http://www.hancom.co.kr/hwpml/2016/ooxmlchart"},
	{"xmlns:hwpunitchar", "http://www.hancom.co.kr/hwpml/2016/HwpUnitChar"},
	{"xmlns:epub", "http://www.idpf.org/2007/ops"},
	{"xmlns:config", "urn:oasis:names:tc:opendocument:xmlns:config:1.0"},
}

func addNamespaces(e *etree.Element) {
	for _, ns := range hwpxNamespaces {
		e.CreateAttr(ns[0], ns[1])
	}
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// fragment parses a builtin markup constant. A fresh tree is returned every
// time so callers may re-parent it freely.
func fragment(src string) *etree.Element {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		panic("hwpx: invalid builtin fragment: " + err.Error())
	}
	return doc.Root()
}

func buildVersion() *etree.Document {
	doc := newXMLDocument()
	v := doc.CreateElement("hv:HCFVersion")
	v.CreateAttr("xmlns:hv", "http://www.hancom.co.kr/hwpml/2011/version")
	// "tagetApplication" is what Hanword itself writes, keep the spelling
	v.CreateAttr("tagetApplication", "WORDPROCESSOR")
	v.CreateAttr("major", "5")
	v.CreateAttr("minor", "1")
	v.CreateAttr("micro", "1")
	v.CreateAttr("buildNumber", "0")
	v.CreateAttr("os", "1")
	v.CreateAttr("xmlVersion", "1.5")
	v.CreateAttr("application", "Hancom Office Hangul")
	v.CreateAttr("appVersion", "12, 0, 0, 0")
	return doc
}

func buildSettings() *etree.Document {
	doc := newXMLDocument()
	s := doc.CreateElement("ha:HWPApplicationSetting")
	s.CreateAttr("xmlns:ha", "http://www.hancom.co.kr/hwpml/2011/app")
	s.CreateAttr("xmlns:config", "urn:oasis:names:tc:opendocument:xmlns:config:1.0")
	caret := s.CreateElement("ha:CaretPosition")
	caret.CreateAttr("listIDRef", "0")
	caret.CreateAttr("paraIDRef", "0")
	caret.CreateAttr("pos", "0")
	return doc
}

func buildContainer() *etree.Document {
	doc := newXMLDocument()
	container := doc.CreateElement("ocf:container")
	container.CreateAttr("xmlns:ocf", "urn:oasis:names:tc:opendocument:xmlns:container")
	container.CreateAttr("xmlns:hpf", "http://www.hancom.co.kr/schema/2011/hpf")

	rootfiles := container.CreateElement("ocf:rootfiles")
	for _, rf := range [][2]string{
		{"Contents/content.hpf", "application/hwpml-package+xml"},
		{"Preview/PrvText.txt", "text/plain"},
		{"META-INF/container.rdf", "application/rdf+xml"},
	} {
		rootfile := rootfiles.CreateElement("ocf:rootfile")
		rootfile.CreateAttr("full-path", rf[0])
		rootfile.CreateAttr("media-type", rf[1])
	}
	return doc
}

func buildManifest() *etree.Document {
	doc := newXMLDocument()
	m := doc.CreateElement("odf:manifest")
	m.CreateAttr("xmlns:odf", "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0")
	return doc
}

const pkgNS = "http://www.hancom.co.kr/hwpml/2016/meta/pkg#"

func (d *Document) buildContainerRDF() *etree.Document {
	doc := newXMLDocument()
	rdf := doc.CreateElement("rdf:RDF")
	rdf.CreateAttr("xmlns:rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#")

	addPart := func(resource, kind string) {
		desc := rdf.CreateElement("rdf:Description")
		desc.CreateAttr("rdf:about", "")
		part := desc.CreateElement("ns0:hasPart")
		part.CreateAttr("xmlns:ns0", pkgNS)
		part.CreateAttr("rdf:resource", resource)

		typed := rdf.CreateElement("rdf:Description")
		typed.CreateAttr("rdf:about", resource)
		t := typed.CreateElement("rdf:type")
		t.CreateAttr("rdf:resource", pkgNS+kind)
	}

	addPart("Contents/header.xml", "HeaderFile")
	for i := 0; i < d.sectionCount(); i++ {
		addPart(fmt.Sprintf("Contents/section%d.xml", i), "SectionFile")
	}

	desc := rdf.CreateElement("rdf:Description")
	desc.CreateAttr("rdf:about", "")
	t := desc.CreateElement("rdf:type")
	t.CreateAttr("rdf:resource", pkgNS+"Document")
	return doc
}

// buildContentHPF declares the package manifest and spine. It depends on the
// final section and image counts, so it must run after content assembly.
func (d *Document) buildContentHPF() *etree.Document {
	doc := newXMLDocument()
	pkg := doc.CreateElement("opf:package")
	addNamespaces(pkg)
	pkg.CreateAttr("version", "")
	pkg.CreateAttr("unique-identifier", "")
	pkg.CreateAttr("id", "")

	metadata := pkg.CreateElement("opf:metadata")
	metadata.CreateElement("opf:title").SetText(d.Meta.Title)
	metadata.CreateElement("opf:language").SetText("ko")
	addMeta := func(name, text string) {
		m := metadata.CreateElement("opf:meta")
		m.CreateAttr("name", name)
		m.CreateAttr("content", "text")
		if text != "" {
			m.SetText(text)
		}
	}
	addMeta("creator", d.Meta.Creator)
	addMeta("subject", "")
	addMeta("description", "")
	addMeta("lastsaveby", d.Meta.Creator)
	addMeta("CreatedDate", d.Meta.Created)
	addMeta("ModifiedDate", d.Meta.Created)
	addMeta("date", d.Meta.Created)
	addMeta("keyword", "")

	manifest := pkg.CreateElement("opf:manifest")
	addItem := func(id, href, mediaType string) *etree.Element {
		item := manifest.CreateElement("opf:item")
		item.CreateAttr("id", id)
		item.CreateAttr("href", href)
		item.CreateAttr("media-type", mediaType)
		return item
	}
	addItem("header", "Contents/header.xml", "application/xml")
	for i := 0; i < d.sectionCount(); i++ {
		addItem("section"+strconv.Itoa(i), fmt.Sprintf("Contents/section%d.xml", i), "application/xml")
	}
	for i, img := range d.images {
		item := addItem(
			fmt.Sprintf("image%d", i+1),
			fmt.Sprintf("BinData/image%d.%s", i+1, img.Format.Ext()),
			img.Format.MediaType())
		item.CreateAttr("isEmbeded", "1")
	}
	addItem("headersc", "Scripts/headerScripts", "application/x-javascript ;charset=utf-16")
	addItem("sourcesc", "Scripts/sourceScripts", "application/x-javascript ;charset=utf-16")
	addItem("settings", "settings.xml", "application/xml")

	spine := pkg.CreateElement("opf:spine")
	addRef := func(idref string) {
		ref := spine.CreateElement("opf:itemref")
		ref.CreateAttr("idref", idref)
		ref.CreateAttr("linear", "yes")
	}
	addRef("header")
	for i := 0; i < d.sectionCount(); i++ {
		addRef("section" + strconv.Itoa(i))
	}
	addRef("headersc")
	addRef("sourcesc")
	return doc
}

// sectionCount never reports zero, a contentless document still serializes
// one empty section.
func (d *Document) sectionCount() int {
	if len(d.Sections) == 0 {
		return 1
	}
	return len(d.Sections)
}
