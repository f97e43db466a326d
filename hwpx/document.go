// Package hwpx assembles Hanword HWPX packages: an in-memory document model
// built through append-only operations and a serializer producing the
// ZIP-of-XML bundle the consuming application expects, entry by entry.
package hwpx

import (
	"strings"
	"unicode/utf8"

	"github.com/HC-ProductTech/hwpers/config"
	"github.com/HC-ProductTech/hwpers/htmltable"
)

// Metadata carries the package level document properties. All values are
// free-form strings, nothing is parsed or validated here.
type Metadata struct {
	Title   string
	Creator string
	Created string
}

// Hyperlink is one clickable region inside a paragraph, anchored to an
// occurrence of its display text.
type Hyperlink struct {
	Text string
	URL  string
}

// HeaderFooter configures a running page header or footer. PageNumbers and
// NumberFmt are only honored for footers.
type HeaderFooter struct {
	Text        string
	ApplyTo     config.ApplyTo
	PageNumbers bool
	NumberFmt   config.PageNumFmt
}

// StyleRun marks the shape that takes effect at a character offset.
// Offsets inside a paragraph are strictly increasing.
type StyleRun struct {
	Offset  int
	ShapeID int
}

// Attachment is the one piece of non-text content a paragraph can carry.
type Attachment interface{ attachment() }

// TableAttachment renders a composed grid in place of the paragraph.
type TableAttachment struct {
	Grid *htmltable.Grid
	Seq  int
}

// ImageAttachment renders an embedded picture. Seq is the 1-based binary
// entry index the picture markup refers to.
type ImageAttachment struct {
	Image *Image
	Seq   int
}

// LinkAttachment renders the paragraph text with clickable regions.
type LinkAttachment struct {
	Links []Hyperlink
}

func (*TableAttachment) attachment() {}
func (*ImageAttachment) attachment() {}
func (*LinkAttachment) attachment()  {}

// Paragraph holds plain text, optional style runs and at most one
// attachment. Placeholder paragraphs created for tables and images keep an
// empty text.
type Paragraph struct {
	Text   string
	Runs   []StyleRun
	Attach Attachment
}

// Section is an ordered list of paragraphs sharing one page setup.
type Section struct {
	Paragraphs []*Paragraph
}

// Document is the in-memory model, mutated by builder calls and consumed by
// serialization. Instances are fully independent, the shape table, the
// image list and all sequence counters belong to the instance.
type Document struct {
	Meta     Metadata
	Sections []*Section

	Headers []HeaderFooter
	Footers []HeaderFooter

	shapes []charShape
	images []*Image

	nextTableSeq int
}

// NewDocument returns an empty document with a single open section.
func NewDocument() *Document {
	return &Document{Sections: []*Section{{}}, nextTableSeq: 1}
}

// SetMetadata replaces the document properties.
func (d *Document) SetMetadata(m Metadata) {
	d.Meta = m
}

// NewSection opens a new markup section, subsequent content lands there.
func (d *Document) NewSection() {
	d.Sections = append(d.Sections, &Section{})
}

// AddParagraph appends a plain text paragraph in the default style.
func (d *Document) AddParagraph(text string) {
	d.push(&Paragraph{Text: text})
}

// AddStyledParagraph appends a paragraph rendered entirely in one style.
func (d *Document) AddStyledParagraph(text string, style TextStyle) {
	id := d.encodeStyle(style)
	d.push(&Paragraph{Text: text, Runs: []StyleRun{{Offset: 0, ShapeID: id}}})
}

// AddMixedParagraph concatenates the fragments into one paragraph, styling
// each segment separately. Offsets count characters, not bytes.
func (d *Document) AddMixedParagraph(runs []StyledText) {
	var sb strings.Builder
	var styleRuns []StyleRun
	offset := 0
	for _, r := range runs {
		styleRuns = append(styleRuns, StyleRun{Offset: offset, ShapeID: d.encodeStyle(r.Style)})
		offset += utf8.RuneCountInString(r.Text)
		sb.WriteString(r.Text)
	}
	d.push(&Paragraph{Text: sb.String(), Runs: styleRuns})
}

// AddTable attaches a composed grid to a fresh placeholder paragraph.
func (d *Document) AddTable(g *htmltable.Grid) {
	seq := d.nextTableSeq
	d.nextTableSeq++
	d.push(&Paragraph{Attach: &TableAttachment{Grid: g, Seq: seq}})
}

// AddImage attaches a picture to a fresh placeholder paragraph and claims
// the next binary entry index.
func (d *Document) AddImage(img *Image) {
	d.images = append(d.images, img)
	d.push(&Paragraph{Attach: &ImageAttachment{Image: img, Seq: len(d.images)}})
}

// AddLinkParagraph appends a text paragraph with clickable regions. Each
// link anchors to the first occurrence of its display text after the
// previous link, links whose text cannot be located are skipped.
func (d *Document) AddLinkParagraph(text string, links []Hyperlink) {
	d.push(&Paragraph{Text: text, Attach: &LinkAttachment{Links: links}})
}

// AddPageHeader adds a running header line.
func (d *Document) AddPageHeader(h HeaderFooter) {
	d.Headers = append(d.Headers, h)
}

// AddPageFooter adds a running footer line.
func (d *Document) AddPageFooter(f HeaderFooter) {
	d.Footers = append(d.Footers, f)
}

// PreviewText joins every paragraph's text for the preview entry. An
// entirely textless document yields a single space so the entry is never
// empty.
func (d *Document) PreviewText() string {
	var sb strings.Builder
	for _, s := range d.Sections {
		for _, p := range s.Paragraphs {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return " "
	}
	return sb.String()
}

func (d *Document) section() *Section {
	return d.Sections[len(d.Sections)-1]
}

func (d *Document) push(p *Paragraph) {
	s := d.section()
	s.Paragraphs = append(s.Paragraphs, p)
}

// encodeStyle appends a new shape table entry and returns its position.
// Identical styles intentionally get separate entries, runs only ever
// reference their own.
func (d *Document) encodeStyle(s TextStyle) int {
	d.shapes = append(d.shapes, newCharShape(s))
	return len(d.shapes) - 1
}
