// Package htmltable composes HTML table markup into a rectangular logical
// grid, resolving colspan/rowspan attributes into origin and covered cells.
package htmltable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoRows is returned when the markup contains no table rows at all.
var ErrNoRows = errors.New("table markup contains no rows")

// CellKind classifies a grid coordinate.
type CellKind int

const (
	// Ordinary is a plain 1x1 cell.
	Ordinary CellKind = iota
	// Origin is the top-left cell of a merged region and carries the span.
	Origin
	// Covered is a coordinate subsumed by another cell's span, it renders
	// as absent.
	Covered
)

// Cell is one grid coordinate. Spans are always at least 1 so callers can
// multiply by them without special-casing ordinary cells.
type Cell struct {
	Text    string
	Kind    CellKind
	ColSpan int
	RowSpan int
}

// Grid is the composed rectangular table. Every coordinate inside
// [0,Rows)x[0,Cols) is exactly one of ordinary, origin or covered.
type Grid struct {
	Rows  int
	Cols  int
	Cells [][]Cell
}

type sourceCell struct {
	text    string
	colSpan int
	rowSpan int
}

// Compose parses the markup and places every cell on an occupancy grid.
// Spans that would extend past the grid edge are clipped, cells that no
// longer fit in their row are dropped. Markup without any rows fails.
func Compose(markup string) (*Grid, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("unable to parse table markup: %w", err)
	}

	var parsed [][]sourceCell
	for _, tr := range collectRows(doc) {
		var row []sourceCell
		for _, cell := range collectCells(tr) {
			row = append(row, sourceCell{
				text:    cellText(cell),
				colSpan: spanAttr(cell, "colspan"),
				rowSpan: spanAttr(cell, "rowspan"),
			})
		}
		if len(row) > 0 {
			parsed = append(parsed, row)
		}
	}
	if len(parsed) == 0 {
		return nil, ErrNoRows
	}

	// Width is the widest declared row, height is the row count extended by
	// whatever row spans hang below the last parsed row.
	var cols int
	rows := len(parsed)
	for i, row := range parsed {
		var width int
		for _, c := range row {
			width += c.colSpan
			if i+c.rowSpan > rows {
				rows = i + c.rowSpan
			}
		}
		if width > cols {
			cols = width
		}
	}

	g := &Grid{Rows: rows, Cols: cols, Cells: make([][]Cell, rows)}
	for r := range g.Cells {
		g.Cells[r] = make([]Cell, cols)
		for c := range g.Cells[r] {
			g.Cells[r][c] = Cell{Kind: Ordinary, ColSpan: 1, RowSpan: 1}
		}
	}

	// The bitmap, not row-local bookkeeping, decides whether a coordinate is
	// free - spans from earlier rows may occupy arbitrary positions here.
	occupied := make([][]bool, rows)
	for r := range occupied {
		occupied[r] = make([]bool, cols)
	}

	for r, row := range parsed {
		cursor := 0
		for _, c := range row {
			for cursor < cols && occupied[r][cursor] {
				cursor++
			}
			if cursor >= cols {
				break // malformed markup, drop the rest of the row
			}

			colSpan := min(c.colSpan, cols-cursor)
			rowSpan := min(c.rowSpan, rows-r)

			cell := &g.Cells[r][cursor]
			cell.Text = c.text
			cell.ColSpan = colSpan
			cell.RowSpan = rowSpan
			if colSpan > 1 || rowSpan > 1 {
				cell.Kind = Origin
			}

			for rr := r; rr < r+rowSpan; rr++ {
				for cc := cursor; cc < cursor+colSpan; cc++ {
					occupied[rr][cc] = true
					if rr == r && cc == cursor {
						continue
					}
					g.Cells[rr][cc] = Cell{Kind: Covered, ColSpan: 1, RowSpan: 1}
				}
			}
			cursor += colSpan
		}
	}
	return g, nil
}

// collectRows returns all tr elements in document order.
func collectRows(n *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return rows
}

// collectCells returns the th/td elements of a row without descending into
// nested cells.
func collectCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			cells = append(cells, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return cells
}

// cellText concatenates all descendant text, markup stripped.
func cellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// spanAttr reads a span attribute, anything missing or unusable counts as 1.
func spanAttr(n *html.Node, name string) int {
	for _, a := range n.Attr {
		if a.Key != name {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || v < 1 {
			return 1
		}
		return v
	}
	return 1
}
