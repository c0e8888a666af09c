package extract

import (
	"strings"

	"github.com/dgallion1/omextract/internal/xmltree"
)

// Table is a grid of cell text. Rows[0] is the header.
type Table struct {
	Rows [][]string
}

// ReadTable collects the rows of a table unit. Cells come from entry
// descendants of each row, falling back to cell descendants. Rows that
// yield no cells at all are dropped.
func (e *Extractor) ReadTable(n *xmltree.Node) Table {
	var t Table
	for row := range n.Descendants(e.vocab.Row) {
		cells := cellTexts(row, e.vocab.Entry)
		if len(cells) == 0 {
			cells = cellTexts(row, e.vocab.Cell)
		}
		if len(cells) > 0 {
			t.Rows = append(t.Rows, cells)
		}
	}
	return t
}

// TableMarkdown renders a table unit, or "" when it has no cells.
func (e *Extractor) TableMarkdown(n *xmltree.Node) string {
	return e.ReadTable(n).Markdown()
}

func cellTexts(row *xmltree.Node, tag string) []string {
	var cells []string
	for c := range row.Descendants(tag) {
		cells = append(cells, ownTextTrimmed(c))
	}
	return cells
}

// Markdown renders t as a pipe table. The separator has one column per
// header cell regardless of the other rows. Pipe characters inside cells
// are emitted as-is.
func (t Table) Markdown() string {
	if len(t.Rows) == 0 {
		return ""
	}
	header := t.Rows[0]
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, pipeRow(header), pipeRow(sep))
	for _, row := range t.Rows[1:] {
		lines = append(lines, pipeRow(row))
	}
	return joinLines(lines)
}

func pipeRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
