package apex

import (
	"regexp"
	"strings"
)

// prettyBlockTags are the elements pretty printing indents onto their own
// line; anything else (inline elements such as <em>/<a>/<code>, or bare
// text) is left attached to the surrounding line so contiguous inline
// content stays on a single line.
var prettyBlockTags = map[string]bool{
	"html": true, "head": true, "body": true,
	"div": true, "section": true, "article": true, "header": true,
	"footer": true, "nav": true, "aside": true, "figure": true,
	"figcaption": true, "main": true,
	"p": true, "blockquote": true, "pre": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "th": true, "td": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "details": true, "summary": true,
}

// prettyVoidTags never carry a separate closing tag, so they never open an
// indent level or wait for a matching close.
var prettyVoidTags = map[string]bool{
	"hr": true, "br": true, "img": true, "meta": true, "link": true, "input": true,
}

var prettyTagRe = regexp.MustCompile(`<(/?)([a-zA-Z][\w-]*)([^>]*)>`)

// prettyNode is one parsed element or text run. A flat token stream isn't
// enough to know whether a block tag's content is itself further block
// structure (needs its own indented lines) or just inline text (stays on
// the same line as its open/close tags), so the input is parsed into a
// tree first and the line-breaking decision is made per node from its
// children.
type prettyNode struct {
	tag        string // "" for a text run
	raw        string // full "<tag ...>" text for a tag node, or the text itself
	selfClosed bool
	children   []*prettyNode
}

// prettyPrint implements S18: parses html into a tree, then reindents
// block-level elements two spaces per nesting level, keeping an element's
// inline-only content on the same line as its tags. A <pre> element's
// contents are serialized verbatim, since whitespace there is significant.
func prettyPrint(html string) string {
	toks := tokenizeHTML(html)
	roots, _ := parseHTMLNodes(toks, 0)

	var b strings.Builder
	for _, n := range roots {
		writeNode(&b, n, 0)
	}
	return b.String()
}

type htmlToken struct {
	text       string
	isTag      bool
	tag        string
	isClosing  bool
	selfClosed bool
}

func tokenizeHTML(html string) []htmlToken {
	var toks []htmlToken
	pos := 0
	for _, m := range prettyTagRe.FindAllStringSubmatchIndex(html, -1) {
		if m[0] > pos {
			toks = append(toks, htmlToken{text: html[pos:m[0]]})
		}
		attrs := html[m[6]:m[7]]
		toks = append(toks, htmlToken{
			text:       html[m[0]:m[1]],
			isTag:      true,
			tag:        strings.ToLower(html[m[4]:m[5]]),
			isClosing:  html[m[2]:m[3]] == "/",
			selfClosed: strings.HasSuffix(strings.TrimSpace(attrs), "/"),
		})
		pos = m[1]
	}
	if pos < len(html) {
		toks = append(toks, htmlToken{text: html[pos:]})
	}
	return toks
}

// parseHTMLNodes builds a forest of prettyNode from toks starting at i,
// stopping when it sees a closing tag that doesn't match an open node
// collected here (that close belongs to an ancestor call). Returns the
// forest and the index just past what was consumed.
func parseHTMLNodes(toks []htmlToken, i int) ([]*prettyNode, int) {
	var out []*prettyNode
	for i < len(toks) {
		t := toks[i]

		if !t.isTag {
			if strings.TrimSpace(t.text) != "" {
				out = append(out, &prettyNode{raw: t.text})
			}
			i++
			continue
		}

		if t.isClosing {
			// Unmatched close (e.g. stray tag): stop, let the caller decide.
			return out, i
		}

		if t.tag == "pre" {
			start := i + 1
			end := start
			for end < len(toks) {
				if toks[end].isTag && toks[end].tag == "pre" && toks[end].isClosing {
					break
				}
				end++
			}
			var inner strings.Builder
			for k := start; k < end; k++ {
				inner.WriteString(toks[k].text)
			}
			closing := "</pre>"
			if end < len(toks) {
				closing = toks[end].text
			}
			out = append(out, &prettyNode{tag: "pre", raw: t.text + inner.String() + closing})
			i = end + 1
			continue
		}

		if prettyVoidTags[t.tag] || t.selfClosed {
			out = append(out, &prettyNode{tag: t.tag, raw: t.text, selfClosed: true})
			i++
			continue
		}

		children, next := parseHTMLNodes(toks, i+1)
		node := &prettyNode{tag: t.tag, raw: t.text, children: children}
		i = next
		if i < len(toks) && toks[i].isTag && toks[i].isClosing && toks[i].tag == t.tag {
			node.children = append(node.children, &prettyNode{raw: "", tag: "", children: nil})
			node.children = node.children[:len(node.children)-1] // keep closing implicit
			i++
		}
		out = append(out, node)
	}
	return out, i
}

// isPureInline reports whether n (a non-void element with its own tag)
// contains no nested block-level element anywhere, meaning its entire
// subtree can be rendered as plain text on a single line.
func isPureInline(n *prettyNode) bool {
	if n.tag == "pre" {
		return false
	}
	for _, c := range n.children {
		if c.tag == "" {
			continue
		}
		if prettyBlockTags[c.tag] {
			return false
		}
		if !isPureInline(c) {
			return false
		}
	}
	return true
}

// flattenInline renders n's full subtree as plain text (tags and all),
// used for a block element whose content is entirely inline.
func flattenInline(n *prettyNode) string {
	if n.tag == "" {
		return n.raw
	}
	var b strings.Builder
	b.WriteString(n.raw)
	for _, c := range n.children {
		b.WriteString(flattenInline(c))
	}
	if !n.selfClosed && n.tag != "pre" {
		b.WriteString("</" + n.tag + ">")
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *prettyNode, depth int) {
	indent := strings.Repeat("  ", depth)

	if n.tag == "" {
		b.WriteString(indent)
		b.WriteString(strings.TrimSpace(n.raw))
		b.WriteByte('\n')
		return
	}

	if n.tag == "pre" || n.selfClosed {
		b.WriteString(indent)
		b.WriteString(n.raw)
		b.WriteByte('\n')
		return
	}

	if !prettyBlockTags[n.tag] || isPureInline(n) {
		b.WriteString(indent)
		b.WriteString(flattenInline(n))
		b.WriteByte('\n')
		return
	}

	b.WriteString(indent)
	b.WriteString(n.raw)
	b.WriteByte('\n')
	for _, c := range n.children {
		writeNode(b, c, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("</" + n.tag + ">")
	b.WriteByte('\n')
}
