package apex

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

// tableCellSpan accumulates the rowspan/colspan a surviving cell absorbs
// from the "^^" / empty-cell cells merged into it.
type tableCellSpan struct {
	rowspan int
	colspan int
}

// tablePostState holds the side-channel tables runTablePost populates and
// the corresponding render funcs in htmlrender.go consume, keyed by node
// identity. One instance lives per conversion (owned by apexNodeRenderer,
// constructed fresh in newApexNodeRenderer), so two concurrent Convert
// calls never touch the same maps regardless of their AST node pointers
// happening to collide in value.
type tablePostState struct {
	cellSpans       map[*extast.TableCell]*tableCellSpan
	cellRemoved     map[*extast.TableCell]bool
	rowRemoved      map[ast.Node]bool
	tableCaptions   map[*extast.Table]string
	tableBodyOpened map[*extast.Table]bool
}

func newTablePostState() *tablePostState {
	return &tablePostState{
		cellSpans:       map[*extast.TableCell]*tableCellSpan{},
		cellRemoved:     map[*extast.TableCell]bool{},
		rowRemoved:      map[ast.Node]bool{},
		tableCaptions:   map[*extast.Table]string{},
		tableBodyOpened: map[*extast.Table]bool{},
	}
}

// runTablePost walks every table, resolving
// "^^" row-span markers and empty-cell column-span markers into
// accumulated span counts on the surviving cell, mark elided cells/rows,
// and detect a bracketed caption paragraph immediately preceding the
// table. The actual rowspan/colspan attribute emission, row/cell elision,
// and figure/figcaption wrapping happen in the render funcs below, which
// consult this same side-channel state, folded into the html.Renderer's own
// AST walk instead of a second pass over the rendered bytes, since goldmark
// already hands us a structured cell grid that a second text scan would
// have to rediscover.
func runTablePost(doc ast.Node, source []byte, opt Options, st *tablePostState) {
	if !opt.Tables && !opt.RelaxedTables {
		return
	}

	var captionRemovals []ast.Node

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		table, ok := n.(*extast.Table)
		if !ok {
			return ast.WalkContinue, nil
		}

		var rows []ast.Node
		for r := table.FirstChild(); r != nil; r = r.NextSibling() {
			rows = append(rows, r)
		}

		grid := make([][]*extast.TableCell, len(rows))
		for i, row := range rows {
			var cells []*extast.TableCell
			for c := row.FirstChild(); c != nil; c = c.NextSibling() {
				if cell, ok := c.(*extast.TableCell); ok {
					cells = append(cells, cell)
				}
			}
			grid[i] = cells
		}

		for i, cells := range grid {
			for j, cell := range cells {
				text := cellPlainText(cell, source)
				switch {
				case text == "^^":
					for k := i - 1; k >= 0; k-- {
						if j < len(grid[k]) && !st.cellRemoved[grid[k][j]] {
							st.spanFor(grid[k][j]).rowspan++
							st.cellRemoved[cell] = true
							break
						}
					}
				case text == "" && j > 0:
					for k := j - 1; k >= 0; k-- {
						if !st.cellRemoved[cells[k]] {
							st.spanFor(cells[k]).colspan++
							st.cellRemoved[cell] = true
							break
						}
					}
				}
			}
		}

		for i, row := range rows {
			cells := grid[i]
			if len(cells) == 0 {
				continue
			}
			allRemoved := true
			for _, c := range cells {
				if !st.cellRemoved[c] {
					allRemoved = false
					break
				}
			}
			if allRemoved {
				st.rowRemoved[row] = true
			}
		}

		if prev := table.PreviousSibling(); prev != nil {
			if p, ok := prev.(*ast.Paragraph); ok {
				if txt, ok := soleParagraphText(p, source); ok {
					trimmed := strings.TrimSpace(txt)
					if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
						st.tableCaptions[table] = inlineParseFragment(trimmed[1 : len(trimmed)-1])
						captionRemovals = append(captionRemovals, p)
					}
				}
			}
		}

		return ast.WalkSkipChildren, nil
	})

	for _, p := range captionRemovals {
		if p.Parent() != nil {
			p.Parent().RemoveChild(p.Parent(), p)
		}
	}
}

func (st *tablePostState) spanFor(cell *extast.TableCell) *tableCellSpan {
	sp, ok := st.cellSpans[cell]
	if !ok {
		sp = &tableCellSpan{rowspan: 1, colspan: 1}
		st.cellSpans[cell] = sp
	}
	return sp
}

func cellPlainText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func (r *apexNodeRenderer) renderTable(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	table := n.(*extast.Table)
	if entering {
		if caption, ok := r.tbl.tableCaptions[table]; ok {
			w.WriteString(`<figure class="table-figure"><figcaption>`)
			w.WriteString(caption)
			w.WriteString("</figcaption>\n")
		}
		w.WriteString("<table>\n")
		return ast.WalkContinue, nil
	}

	if r.tbl.tableBodyOpened[table] {
		w.WriteString("</tbody>\n")
		delete(r.tbl.tableBodyOpened, table)
	}
	w.WriteString("</table>\n")
	if _, ok := r.tbl.tableCaptions[table]; ok {
		w.WriteString("</figure>\n")
		delete(r.tbl.tableCaptions, table)
	}
	return ast.WalkContinue, nil
}

func (r *apexNodeRenderer) renderTableHeader(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if r.tbl.rowRemoved[n] {
		if entering {
			delete(r.tbl.rowRemoved, n)
		}
		return ast.WalkSkipChildren, nil
	}
	if entering {
		w.WriteString("<thead>\n<tr>\n")
		return ast.WalkContinue, nil
	}
	w.WriteString("</tr>\n</thead>\n")
	return ast.WalkContinue, nil
}

func (r *apexNodeRenderer) renderTableRow(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if r.tbl.rowRemoved[n] {
		if entering {
			delete(r.tbl.rowRemoved, n)
		}
		return ast.WalkSkipChildren, nil
	}
	row := n.(*extast.TableRow)
	table, _ := row.Parent().(*extast.Table)
	if entering {
		if table != nil && !r.tbl.tableBodyOpened[table] {
			w.WriteString("<tbody>\n")
			r.tbl.tableBodyOpened[table] = true
		}
		w.WriteString("<tr>\n")
		return ast.WalkContinue, nil
	}
	w.WriteString("</tr>\n")
	return ast.WalkContinue, nil
}

func (r *apexNodeRenderer) renderTableCell(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	cell := n.(*extast.TableCell)
	if r.tbl.cellRemoved[cell] {
		if entering {
			delete(r.tbl.cellRemoved, cell)
			delete(r.tbl.cellSpans, cell)
		}
		return ast.WalkSkipChildren, nil
	}

	tag := "td"
	if _, ok := cell.Parent().(*extast.TableHeader); ok {
		tag = "th"
	}

	if entering {
		fmt.Fprintf(w, "<%s", tag)
		if sp, ok := r.tbl.cellSpans[cell]; ok {
			if sp.rowspan > 1 {
				fmt.Fprintf(w, ` rowspan="%d"`, sp.rowspan)
			}
			if sp.colspan > 1 {
				fmt.Fprintf(w, ` colspan="%d"`, sp.colspan)
			}
			delete(r.tbl.cellSpans, cell)
		}
		if align := cellAlignAttr(cell.Alignment); align != "" {
			fmt.Fprintf(w, ` style="text-align:%s"`, align)
		}
		w.WriteByte('>')
		return ast.WalkContinue, nil
	}

	fmt.Fprintf(w, "</%s>\n", tag)
	return ast.WalkContinue, nil
}

func cellAlignAttr(a extast.Alignment) string {
	if s, ok := any(a).(fmt.Stringer); ok {
		switch s.String() {
		case "left", "right", "center":
			return s.String()
		}
		return ""
	}
	switch a {
	case extast.AlignLeft:
		return "left"
	case extast.AlignRight:
		return "right"
	case extast.AlignCenter:
		return "center"
	}
	return ""
}
