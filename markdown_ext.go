package apex

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// newGoldmarkEngine runs S11: builds a goldmark engine with GFM/footnote
// extensions plus Apex's own IAL/ALD and markdown= attribute
// transformers, mirroring brandonbloom-catmd's NewMarkdownParser
// (goldmark.New(goldmark.WithExtensions(...), goldmark.WithParserOptions(...)))
// and goliatone-go-cms's table-driven extension selection, generalized to
// Apex's feature gates.
func newGoldmarkEngine(opt Options, alphaRuns []alphaRun) (goldmark.Markdown, *apexNodeRenderer) {
	var exts []goldmark.Extender
	if opt.Tables || opt.RelaxedTables {
		exts = append(exts, extension.Table)
	}
	exts = append(exts, extension.Strikethrough)
	if opt.Autolink {
		exts = append(exts, extension.Linkify)
	}
	exts = append(exts, extension.TaskList)
	if opt.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if opt.SmartTypography {
		exts = append(exts, extension.Typographer)
	}

	parserOpts := []parser.Option{
		parser.WithASTTransformers(
			util.Prioritized(&ialTransformer{}, 100),
			util.Prioritized(&markdownAttrTransformer{opt: opt}, 200),
			util.Prioritized(&alphaListTransformer{runs: alphaRuns}, 300),
		),
	}
	if opt.GenerateHeaderIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	var rendererOpts []renderer.Option
	if opt.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if opt.HardBreaks {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	nodeRenderer := newApexNodeRenderer(opt)
	rendererOpts = append(rendererOpts, renderer.WithNodeRenderers(
		util.Prioritized(nodeRenderer, 100),
	))

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return md, nodeRenderer
}

// parseDocument runs S11 proper: parse source into an AST using the
// configured engine. When header ID generation is enabled, parsing runs
// with a per-dialect headingIDs (idgen.go) installed in the parser
// context, so goldmark's built-in auto-heading-ID machinery calls into
// Apex's gfm/mmd/kramdown slug algorithm instead of its own default one.
// Callers keep hold of both the returned goldmark instance (for its
// Renderer, used by S13) and the AST (walked by S12 and mutated by
// S15's own pass before render).
func parseDocument(source []byte, opt Options, alphaRuns []alphaRun) (goldmark.Markdown, ast.Node, *apexNodeRenderer) {
	md, nodeRenderer := newGoldmarkEngine(opt, alphaRuns)
	var parseOpts []parser.ParseOption
	if opt.GenerateHeaderIDs {
		pc := parser.NewContext(parser.WithIDs(newHeadingIDs(opt.IDFormat)))
		parseOpts = append(parseOpts, parser.WithContext(pc))
	}
	doc := md.Parser().Parse(text.NewReader(source), parseOpts...)
	return md, doc, nodeRenderer
}

// ialPattern matches a standalone IAL/ALD line: "{: ...}" (attach to
// preceding block), "{:ref: ...}" (define), or "{:ref}" (use a definition).
var ialPattern = regexp.MustCompile(`^\{:\s*([^}]*)\}\s*$`)
var aldDefPattern = regexp.MustCompile(`^(\w[\w-]*):\s*(.+)$`)
var aldUsePattern = regexp.MustCompile(`^(\w[\w-]*)$`)

// ialTransformer implements S11's IAL/ALD handling: a paragraph whose sole
// content is "{: #id .class attr=val}" attaches those attributes to the
// immediately preceding sibling block and is removed from the tree. A
// named form ("{:ref: ...}") registers a reusable attribute set; a bare
// "{:ref}" on its own line looks it up.
//
// An IAL immediately following a definition list is left unattached rather
// than guessed at. The <dl> our own S7 emits arrives as a passthrough-wrapped
// HTMLBlock, which this transformer never attaches to (see the type switch
// in attachableBlock) -- so that case degrades to "IAL passed through as
// literal text".
type ialTransformer struct{}

func (t *ialTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	defs := map[string]map[string]string{}

	var toRemove []ast.Node
	var prev ast.Node

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		ptext, ok := soleParagraphText(n, source)
		if !ok {
			prev = n
			continue
		}

		if m := ialPattern.FindStringSubmatch(ptext); m != nil {
			body := strings.TrimSpace(m[1])

			if am := aldDefPattern.FindStringSubmatch(body); am != nil && !strings.HasPrefix(body, "#") && !strings.HasPrefix(body, ".") {
				defs[am[1]] = parseAttrList(am[2])
				toRemove = append(toRemove, n)
				continue
			}
			if am := aldUsePattern.FindStringSubmatch(body); am != nil {
				if attrs, ok := defs[am[1]]; ok && prev != nil && attachableBlock(prev) {
					applyAttrs(prev, attrs)
					toRemove = append(toRemove, n)
					continue
				}
			}

			if prev != nil && attachableBlock(prev) {
				applyAttrs(prev, parseAttrList(body))
				toRemove = append(toRemove, n)
				continue
			}
			// Unattachable (e.g. follows a passthrough-wrapped <dl>/<div>
			// HTMLBlock): left in place as literal text.
		}

		prev = n
	}

	for _, n := range toRemove {
		doc.RemoveChild(doc, n)
	}
}

// attachableBlock reports whether node is a plain paragraph or heading,
// the only two block kinds an IAL attaches attributes to.
func attachableBlock(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.Heading:
		return true
	default:
		return false
	}
}

func soleParagraphText(n ast.Node, source []byte) (string, bool) {
	p, ok := n.(*ast.Paragraph)
	if !ok {
		return "", false
	}
	if p.FirstChild() == nil || p.FirstChild() != p.LastChild() {
		return "", false
	}
	txt, ok := p.FirstChild().(*ast.Text)
	if !ok {
		return "", false
	}
	return string(txt.Segment.Value(source)), true
}

// parseAttrList parses the body of an IAL/ALD: "#id .class .class2 key=val
// key2=\"quoted val\"".
func parseAttrList(body string) map[string]string {
	attrs := map[string]string{}
	var classes []string

	tokens := splitAttrTokens(body)
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "#"):
			attrs["id"] = tok[1:]
		case strings.HasPrefix(tok, "."):
			classes = append(classes, tok[1:])
		case strings.Contains(tok, "="):
			kv := strings.SplitN(tok, "=", 2)
			key := kv[0]
			val := strings.Trim(kv[1], `"`)
			attrs[key] = val
		}
	}
	if len(classes) > 0 {
		attrs["class"] = strings.Join(classes, " ")
	}
	return attrs
}

// splitAttrTokens splits on whitespace outside double quotes.
func splitAttrTokens(s string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ' ' && !inQuotes:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func applyAttrs(n ast.Node, attrs map[string]string) {
	for k, v := range attrs {
		n.SetAttributeString(k, []byte(v))
	}
}

// markdownAttrTransformer implements the HTML markdown= attribute:
// an HTML block whose opening tag carries markdown="1"/"block" has its
// inner lines re-parsed as block Markdown; markdown="span" re-parses as
// inline; markdown="0" (or absent) passes through verbatim.
type markdownAttrTransformer struct {
	opt Options
}

var markdownAttrRe = regexp.MustCompile(`markdown\s*=\s*"?(1|block|span|0)"?`)
var openTagRe = regexp.MustCompile(`^<(\w+)([^>]*)>`)

func (t *markdownAttrTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var replace []struct {
		old ast.Node
		new ast.Node
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.HTMLBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		opening := firstLine(block, source)
		tagMatch := openTagRe.FindStringSubmatch(opening)
		if tagMatch == nil {
			return ast.WalkContinue, nil
		}
		mdMatch := markdownAttrRe.FindStringSubmatch(tagMatch[2])
		if mdMatch == nil {
			return ast.WalkContinue, nil
		}

		closing := "</" + tagMatch[1] + ">"
		inner := strings.TrimSuffix(strings.TrimRight(innerLines(block, source), " \t\n"), closing)
		switch mdMatch[1] {
		case "1", "block":
			// goldmark's default HTML renderer writes an *ast.HTMLBlock by
			// emitting its raw Lines(), never by walking children, so
			// reparsing into real child nodes and appending them to an
			// ast.HTMLBlock would silently fail to render. Render the
			// nested document straight to HTML instead and carry the
			// result as a PassthroughHTMLNode (specialnodes.go), which
			// S13's renderer writes it out verbatim regardless of Unsafe --
			// the same sentinel-bypass S7/S9 rely on for their own
			// synthesized markup.
			rendered := blockParseFragment(inner)
			html := opening + "\n" + rendered + closing
			replace = append(replace, struct {
				old ast.Node
				new ast.Node
			}{block, NewPassthroughHTMLNode([]byte(html))})
		case "span":
			// markdown="span": the tag's own start/end lines are kept
			// verbatim and only inline spans inside are re-parsed, which
			// for the common single-line case reduces to inline-parsing
			// the line between them. Multi-line span content is left
			// verbatim rather than guessed at.
			if line := strings.TrimSpace(inner); line != "" && !strings.Contains(line, "\n") {
				html := opening + inlineParseFragment(line) + closing
				replace = append(replace, struct {
					old ast.Node
					new ast.Node
				}{block, NewPassthroughHTMLNode([]byte(html))})
			}
		}

		return ast.WalkContinue, nil
	})

	for _, r := range replace {
		if r.old.Parent() != nil {
			r.old.Parent().ReplaceChild(r.old.Parent(), r.old, r.new)
		}
	}
}

func firstLine(block *ast.HTMLBlock, source []byte) string {
	if block.Lines().Len() == 0 {
		return ""
	}
	return string(block.Lines().At(0).Value(source))
}

func innerLines(block *ast.HTMLBlock, source []byte) string {
	var b strings.Builder
	l := block.Lines().Len()
	for i := 1; i < l; i++ {
		b.Write(block.Lines().At(i).Value(source))
	}
	return b.String()
}

// alphaRun records one contiguous run of alpha-marker lines normalizeAlphaLists
// rewrote to digit markers: [start, end) is the run's byte range in the
// rewritten source that is subsequently parsed, and style is "a" or "A".
type alphaRun struct {
	start, end int
	style      string
}

// alphaListTransformer finishes the alpha-list normalization that
// begins in a pre-parse text rewrite (normalizeAlphaLists, called from the
// pipeline immediately before parsing): it restores the `type="a"`/`type="A"`
// attribute goldmark's ordered-list renderer needs, matching each parsed
// List node back to the run that produced it by source position.
type alphaListTransformer struct {
	runs []alphaRun
}

func (t *alphaListTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if len(t.runs) == 0 {
		return
	}
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		list, ok := n.(*ast.List)
		if !ok {
			return ast.WalkContinue, nil
		}
		if style, ok := styleForList(list, t.runs); ok {
			list.SetAttributeString("type", []byte(style))
		}
		return ast.WalkContinue, nil
	})
}

// styleForList locates the first Text descendant of list and reports the
// style of whichever recorded run contains its source offset.
func styleForList(list *ast.List, runs []alphaRun) (string, bool) {
	offset, ok := firstTextOffset(list)
	if !ok {
		return "", false
	}
	for _, r := range runs {
		if offset >= r.start && offset < r.end {
			return r.style, true
		}
	}
	return "", false
}

func firstTextOffset(n ast.Node) (int, bool) {
	var offset int
	found := false
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			offset = t.Segment.Start
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return offset, found
}

// normalizeAlphaLists implements alpha list markers ("a."-"z.",
// "A."-"Z." act as ordered-list markers) as a text-level rewrite ahead of
// block parsing, since goldmark's built-in list block parser only recognizes "-",
// "+", "*", and digit markers. Each recognized alpha marker is rewritten
// to an equivalent digit marker before parsing; the returned runs let
// alphaListTransformer recover the original letter's case after goldmark
// builds the List node. Run boundaries are byte offsets in the returned
// source, so this must be the last text-level rewrite before parsing --
// anything rewriting the body afterward would invalidate them.
var alphaMarkerLine = regexp.MustCompile(`^(\s*)([a-zA-Z])([.)])(\s+)`)

func normalizeAlphaLists(source []byte, opt Options) ([]byte, []alphaRun) {
	if !opt.AlphaLists {
		return source, nil
	}

	lines := splitKeepTerminator(source)
	var out bytes.Buffer
	var runs []alphaRun
	inRun := false

	closeRun := func() {
		if inRun {
			runs[len(runs)-1].end = out.Len()
			inRun = false
		}
	}

	for _, line := range lines {
		m := alphaMarkerLine.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) == "" {
				closeRun()
			}
			out.WriteString(line)
			continue
		}

		letter := m[2][0]
		style := "a"
		n := int(letter-'a') + 1
		if letter >= 'A' && letter <= 'Z' {
			style = "A"
			n = int(letter-'A') + 1
		}

		if !inRun {
			runs = append(runs, alphaRun{start: out.Len(), style: style})
			inRun = true
		}

		replaced := m[1] + itoa(n) + "." + m[4] + line[len(m[0]):]
		out.WriteString(replaced)
	}
	closeRun()

	return out.Bytes(), runs
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// mdFragmentEngine is a CommonMark engine with only the strikethrough
// extension, used for the small sub-document re-parses S7 (definition
// lists), S9 (callouts) and S11's markdown= attribute blocks need for
// their term/title/body text, kept separate from newGoldmarkEngine's full
// IAL/markdown-attribute configuration since those sub-fragments are never
// themselves subject to S11's block-level extensions.
func mdFragmentEngine() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
}

// inlineParseFragment parses s as a single inline Markdown span, wrapping
// it in a <p> then stripping the wrapper after rendering.
func inlineParseFragment(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	md := mdFragmentEngine()
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return escapeHTMLText(s)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return out
}

// blockParseFragment parses s as a block-level Markdown fragment (used for
// callout bodies), returning the rendered HTML unmodified.
func blockParseFragment(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	md := mdFragmentEngine()
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return escapeHTMLText(s)
	}
	return buf.String()
}
