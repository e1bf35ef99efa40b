package apex

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Custom node kinds Apex registers alongside goldmark's built-ins. Each is
// created once via ast.NewNodeKind at package init time and thereafter
// treated as a read-only, process-lifetime table, mirroring how extast
// registers extast.KindFootnote.
var (
	KindMath            = ast.NewNodeKind("ApexMath")
	KindWikiLink        = ast.NewNodeKind("ApexWikiLink")
	KindPageBreak       = ast.NewNodeKind("ApexPageBreak")
	KindPauseSpan       = ast.NewNodeKind("ApexPauseSpan")
	KindPassthroughHTML = ast.NewNodeKind("ApexPassthroughHTML")
)

// MathNode is an inline node for both `$...$` and `$$...$$` spans. Display
// distinguishes the two for the "math inline" / "math display" CSS
// classes.
type MathNode struct {
	ast.BaseInline
	Literal []byte
	Display bool
}

func NewMathNode(literal []byte, display bool) *MathNode {
	return &MathNode{Literal: literal, Display: display}
}

func (n *MathNode) Kind() ast.NodeKind { return KindMath }
func (n *MathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Literal": string(n.Literal), "Display": boolString(n.Display)}, nil)
}

// WikiLinkNode models `[[Page#Sec|Alt]]`: Destination is
// "Page#Sec", Text is Alt if given, else Page.
type WikiLinkNode struct {
	ast.BaseInline
	Destination []byte
	LinkText    []byte
}

func NewWikiLinkNode(dest, text []byte) *WikiLinkNode {
	return &WikiLinkNode{Destination: dest, LinkText: text}
}

func (n *WikiLinkNode) Kind() ast.NodeKind { return KindWikiLink }
func (n *WikiLinkNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Destination": string(n.Destination), "Text": string(n.LinkText)}, nil)
}

// PageBreakNode replaces `<!--BREAK-->` and `{::pagebreak/}` markers.
type PageBreakNode struct {
	ast.BaseBlock
}

func NewPageBreakNode() *PageBreakNode { return &PageBreakNode{} }
func (n *PageBreakNode) Kind() ast.NodeKind { return KindPageBreak }
func (n *PageBreakNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// PauseSpanNode replaces `<!--PAUSE:n-->` with a span carrying the pause
// duration as a data attribute.
type PauseSpanNode struct {
	ast.BaseInline
	Seconds string
}

func NewPauseSpanNode(seconds string) *PauseSpanNode { return &PauseSpanNode{Seconds: seconds} }
func (n *PauseSpanNode) Kind() ast.NodeKind { return KindPauseSpan }
func (n *PauseSpanNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Seconds": n.Seconds}, nil)
}

// PassthroughHTMLNode carries HTML Apex itself generated (S7 definition
// lists, S9 callouts, S11's markdown= re-parse) that must render verbatim
// regardless of the unsafe option, since unsafe governs user-authored raw
// HTML, not the pipeline's own synthesized markup.
type PassthroughHTMLNode struct {
	ast.BaseBlock
	HTML []byte
}

func NewPassthroughHTMLNode(html []byte) *PassthroughHTMLNode {
	return &PassthroughHTMLNode{HTML: html}
}

func (n *PassthroughHTMLNode) Kind() ast.NodeKind { return KindPassthroughHTML }
func (n *PassthroughHTMLNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": string(n.HTML)}, nil)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

var (
	mathDisplayRe = regexp.MustCompile(`\$\$([^$]+)\$\$`)
	mathInlineRe  = regexp.MustCompile(`\$([^\s$][^$]*[^\s$]|[^\s$])\$`)
	wikiLinkRe    = regexp.MustCompile(`\[\[([^\]|#]+)(#[^\]|]+)?(\|([^\]]+))?\]\]`)
	pauseRe       = regexp.MustCompile(`<!--\s*PAUSE:(\d+(?:\.\d+)?)\s*-->`)
	breakRe       = regexp.MustCompile(`<!--\s*BREAK\s*-->|\{::pagebreak/?\}`)
	passthroughRe = regexp.MustCompile(`(?s)<!--` + passthroughSentinel + `-->(.*?)<!--/` + passthroughSentinel + `-->`)
)

// runSpecialNodes runs S12: post-parse AST walk recognizing math spans,
// wiki links, page breaks, pause markers, and Apex's own passthrough HTML
// sentinel, replacing matched text runs with the corresponding node kind.
// Grounded on brandonbloom-catmd's transform.go idiom: collect candidate
// nodes (and their constructed replacements) during one read-only walk,
// then apply ReplaceChild/RemoveChild after the walk returns, never
// mutating the tree mid-traversal.
func runSpecialNodes(doc ast.Node, source []byte, opt Options) {
	type replacement struct {
		old ast.Node
		new []ast.Node
	}
	var repls []replacement

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.HTMLBlock:
			raw := htmlBlockText(node, source)
			if passthroughRe.MatchString(raw) {
				inner := passthroughRe.FindStringSubmatch(raw)[1]
				repls = append(repls, replacement{old: node, new: []ast.Node{NewPassthroughHTMLNode([]byte(inner))}})
				return ast.WalkSkipChildren, nil
			}
			if breakRe.MatchString(raw) {
				repls = append(repls, replacement{old: node, new: []ast.Node{NewPageBreakNode()}})
				return ast.WalkSkipChildren, nil
			}

		case *ast.Paragraph:
			// `{::pagebreak/}` isn't HTML syntax, so it parses as an
			// ordinary paragraph rather than an ast.HTMLBlock; catch a
			// paragraph whose entire content is the marker here.
			if text := soleText(node, source); text != "" && breakRe.FindString(text) == text {
				repls = append(repls, replacement{old: node, new: []ast.Node{NewPageBreakNode()}})
				return ast.WalkSkipChildren, nil
			}

		case *ast.Text:
			if !opt.Math && !opt.WikiLinks {
				return ast.WalkContinue, nil
			}
			segment := node.Segment.Value(source)
			if replaced, changed := splitSpecialText(segment, opt); changed {
				repls = append(repls, replacement{old: node, new: replaced})
				return ast.WalkSkipChildren, nil
			}

		case *ast.RawHTML:
			// An inline `<!--PAUSE:n-->` parses as raw inline HTML, not as
			// Text, so it is matched here rather than in splitSpecialText.
			if !opt.Math {
				return ast.WalkContinue, nil
			}
			var raw strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				raw.Write(node.Segments.At(i).Value(source))
			}
			if m := pauseRe.FindStringSubmatch(raw.String()); m != nil && m[0] == raw.String() {
				repls = append(repls, replacement{old: node, new: []ast.Node{NewPauseSpanNode(m[1])}})
				return ast.WalkSkipChildren, nil
			}
		}

		return ast.WalkContinue, nil
	})

	for _, r := range repls {
		parent := r.old.Parent()
		if parent == nil {
			continue
		}
		if len(r.new) == 0 {
			parent.RemoveChild(parent, r.old)
			continue
		}
		parent.ReplaceChild(parent, r.old, r.new[0])
		at := r.new[0]
		for _, extra := range r.new[1:] {
			parent.InsertAfter(parent, at, extra)
			at = extra
		}
	}
}

// specialTextMatch records one candidate replacement span found while
// scanning a Text node's literal value.
type specialTextMatch struct {
	start, end int
	node       ast.Node
}

// splitSpecialText scans a single Text node's literal value for math spans
// and wiki links, returning the sequence of replacement inline nodes (plain
// *ast.String for the untouched runs in between) when at least one match
// is found.
func splitSpecialText(value []byte, opt Options) ([]ast.Node, bool) {
	s := string(value)
	var matches []specialTextMatch

	if opt.Math {
		for _, loc := range mathDisplayRe.FindAllStringSubmatchIndex(s, -1) {
			matches = append(matches, specialTextMatch{loc[0], loc[1], NewMathNode([]byte(s[loc[2]:loc[3]]), true)})
		}
	}
	if opt.Math {
		for _, loc := range mathInlineRe.FindAllStringSubmatchIndex(s, -1) {
			if overlaps(matches, loc[0], loc[1]) {
				continue
			}
			matches = append(matches, specialTextMatch{loc[0], loc[1], NewMathNode([]byte(s[loc[2]:loc[3]]), false)})
		}
	}
	if opt.WikiLinks {
		for _, loc := range wikiLinkRe.FindAllStringSubmatchIndex(s, -1) {
			if overlaps(matches, loc[0], loc[1]) {
				continue
			}
			page := s[loc[2]:loc[3]]
			section := ""
			if loc[4] >= 0 {
				section = s[loc[4]:loc[5]]
			}
			alt := ""
			if loc[8] >= 0 {
				alt = s[loc[8]:loc[9]]
			}
			dest := page + section
			txt := alt
			if txt == "" {
				txt = page
			}
			matches = append(matches, specialTextMatch{loc[0], loc[1], NewWikiLinkNode([]byte(dest), []byte(txt))})
		}
	}
	if opt.Math {
		for _, loc := range pauseRe.FindAllStringSubmatchIndex(s, -1) {
			if overlaps(matches, loc[0], loc[1]) {
				continue
			}
			matches = append(matches, specialTextMatch{loc[0], loc[1], NewPauseSpanNode(s[loc[2]:loc[3]])})
		}
	}

	if len(matches) == 0 {
		return nil, false
	}

	sortMatches(matches)

	var out []ast.Node
	cursor := 0
	for _, m := range matches {
		if m.start < cursor {
			continue // overlap from a lower-priority pass; skip
		}
		if m.start > cursor {
			out = append(out, ast.NewString([]byte(s[cursor:m.start])))
		}
		out = append(out, m.node)
		cursor = m.end
	}
	if cursor < len(s) {
		out = append(out, ast.NewString([]byte(s[cursor:])))
	}
	return out, true
}

func overlaps(matches []specialTextMatch, start, end int) bool {
	for _, m := range matches {
		if start < m.end && end > m.start {
			return true
		}
	}
	return false
}

func sortMatches(matches []specialTextMatch) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j-1].start > matches[j].start; j-- {
			matches[j-1], matches[j] = matches[j], matches[j-1]
		}
	}
}

// soleText returns a paragraph's literal text when it has exactly one
// child and that child is a plain Text node, trimmed of surrounding
// whitespace; otherwise "".
func soleText(p *ast.Paragraph, source []byte) string {
	if p.ChildCount() != 1 {
		return ""
	}
	t, ok := p.FirstChild().(*ast.Text)
	if !ok {
		return ""
	}
	return strings.TrimSpace(string(t.Segment.Value(source)))
}

func htmlBlockText(block *ast.HTMLBlock, source []byte) string {
	var b strings.Builder
	l := block.Lines().Len()
	for i := 0; i < l; i++ {
		b.Write(block.Lines().At(i).Value(source))
	}
	if block.HasClosure() {
		b.Write(block.ClosureLine.Value(source))
	}
	return b.String()
}
