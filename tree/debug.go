package tree

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableRows dumps every slot of the flat tree, one row per
// node, as plain strings. The result doubles as a snapshot for
// a later diffed render.
func (t *FlatTree) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Nodes))
	for i := range t.Nodes {
		n := &t.Nodes[i]
		rows = append(rows, []string{
			strconv.Itoa(i),
			n.Name,
			formatIndex(n.Left),
			formatIndex(n.Right),
			formatIndex(n.Parent),
			formatDepth(n.Depth),
			fmt.Sprintf("%.6f", n.Length),
		})
	}
	return rows
}

func formatIndex(i int) string {
	if i == NIL_INDEX {
		return "None"
	}
	return strconv.Itoa(i)
}

func formatDepth(d float64) string {
	if d == NIL_DEPTH {
		return "None"
	}
	return fmt.Sprintf("%.6f", d)
}

// RenderTable renders the flat tree as a table. If old is a
// snapshot obtained from TableRows before a mutation, cells
// that changed are highlighted and annotated with the previous
// value. Purely presentational.
func (t *FlatTree) RenderTable(old [][]string) string {
	w := table.NewWriter()
	w.Style().Format.Header = text.FormatDefault
	w.AppendHeader(table.Row{"Index", "Name", "Left Child", "Right Child", "Parent", "Depth", "Length"})
	for i, row := range t.TableRows() {
		out := make(table.Row, len(row))
		for j, cell := range row {
			if old != nil && i < len(old) && old[i][j] != cell {
				out[j] = fmt.Sprintf("%s (%s)", text.FgRed.Sprint(cell), old[i][j])
			} else {
				out[j] = cell
			}
		}
		w.AppendRow(out)
	}
	return w.Render()
}
