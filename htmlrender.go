package apex

import (
	"fmt"
	"strconv"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// apexNodeRenderer implements renderer.NodeRenderer for the custom node
// kinds specialnodes.go defines (math, wiki links, page breaks, pause
// spans, passthrough HTML) plus a Heading override that adds a
// self-referential anchor link. Grounded on
// dihedron-goldmark-latex's latex.go (the RegisterFuncs-per-kind shape for
// a wholly custom node) and golang-pkgsite's internal/frontend/goldmark.go
// (overriding a single built-in kind -- ast.KindHeading -- while leaving
// everything else to goldmark's default html.Renderer).
type apexNodeRenderer struct {
	opt Options
	tbl *tablePostState
}

func newApexNodeRenderer(opt Options) *apexNodeRenderer {
	return &apexNodeRenderer{opt: opt, tbl: newTablePostState()}
}

func (r *apexNodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
	reg.Register(KindWikiLink, r.renderWikiLink)
	reg.Register(KindPageBreak, r.renderPageBreak)
	reg.Register(KindPauseSpan, r.renderPauseSpan)
	reg.Register(KindPassthroughHTML, r.renderPassthroughHTML)
	if r.opt.HeaderAnchors {
		reg.Register(ast.KindHeading, r.renderHeading)
	}
	reg.Register(extast.KindTable, r.renderTable)
	reg.Register(extast.KindTableHeader, r.renderTableHeader)
	reg.Register(extast.KindTableRow, r.renderTableRow)
	reg.Register(extast.KindTableCell, r.renderTableCell)
}

// renderHeading implements the header_anchors=true form: the id moves
// off the <hN> tag and onto an empty leading anchor,
// `<hN><a class="anchor" id="X" aria-hidden="true" href="#X"></a>TEXT</hN>`,
// instead of goldmark's default `<hN id="X">TEXT</hN>`.
func (r *apexNodeRenderer) renderHeading(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node := n.(*ast.Heading)
	if entering {
		fmt.Fprintf(w, "<h%d>", node.Level)
		if id, ok := node.AttributeString("id"); ok {
			idStr := util.EscapeHTML(id.([]byte))
			fmt.Fprintf(w, `<a class="anchor" id="%s" aria-hidden="true" href="#%s"></a>`, idStr, idStr)
		}
	} else {
		fmt.Fprintf(w, "</h%d>\n", node.Level)
	}
	return ast.WalkContinue, nil
}

func (r *apexNodeRenderer) renderMath(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*MathNode)
	class := "math inline"
	tag := "span"
	if node.Display {
		class = "math display"
		tag = "div"
	}
	fmt.Fprintf(w, `<%s class="%s">`, tag, class)
	w.Write(util.EscapeHTML(node.Literal))
	fmt.Fprintf(w, `</%s>`, tag)
	return ast.WalkContinue, nil
}

func (r *apexNodeRenderer) renderWikiLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*WikiLinkNode)
	dest := wikiLinkToHref(node.Destination)
	w.WriteString(`<a href="`)
	w.Write(util.EscapeHTML(dest))
	w.WriteString(`" class="wiki-link">`)
	w.Write(util.EscapeHTML(node.LinkText))
	w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

func wikiLinkToHref(dest []byte) []byte {
	out := make([]byte, 0, len(dest))
	for _, b := range dest {
		if b == ' ' {
			out = append(out, '-')
		} else {
			out = append(out, b)
		}
	}
	return out
}

func (r *apexNodeRenderer) renderPageBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		w.WriteString(`<div class="page-break"></div>` + "\n")
	}
	return ast.WalkContinue, nil
}

func (r *apexNodeRenderer) renderPauseSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*PauseSpanNode)
	seconds := node.Seconds
	if _, err := strconv.ParseFloat(seconds, 64); err != nil {
		seconds = "0"
	}
	fmt.Fprintf(w, `<span class="pause" data-seconds="%s"></span>`, seconds)
	return ast.WalkContinue, nil
}

// renderPassthroughHTML writes Apex's own synthesized HTML verbatim. This
// bypasses html.Renderer's Unsafe gate entirely and on purpose: Unsafe
// governs raw HTML the document's *author* wrote, never markup S7/S9/S11
// generated on the author's behalf from Markdown-level syntax (definition
// lists, callouts, markdown= re-parses).
func (r *apexNodeRenderer) renderPassthroughHTML(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*PassthroughHTMLNode)
	w.Write(node.HTML)
	w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
