package apex

import "strings"

// rewriteDefinitionLists runs S7: detect "Term\n: definition" blocks and
// emit <dl>/<dt>/<dd>, preserving blockquote nesting so the outer parser
// still places the list inside <blockquote>. Ported from
// original_source/src/extensions/definition_list.c.
//
// The emitted HTML is wrapped with the same passthrough sentinel file
// includes use, so it survives later parsing as a single HTML block
// regardless of the unsafe option: this <dl> is Apex's own output, not
// user-authored raw HTML, and unsafe only gates the latter.
func rewriteDefinitionLists(source []byte, opt Options) []byte {
	lines := splitKeepTerminator(source)
	var out strings.Builder

	i := 0
	for i < len(lines) {
		depth := BlockquotePrefixDepth([]byte(lines[i]))
		body := strings.TrimRight(string(StripBlockquotePrefix([]byte(lines[i]), depth)), "\n")

		if i+1 < len(lines) {
			nextDepth := BlockquotePrefixDepth([]byte(lines[i+1]))
			nextBody := strings.TrimRight(string(StripBlockquotePrefix([]byte(lines[i+1]), nextDepth)), "\n")
			if nextDepth == depth && isDefinitionLine(nextBody) && isEligibleTerm(body) {
				term := strings.TrimSpace(body)
				var defs []string
				j := i + 1
				for j < len(lines) {
					d := BlockquotePrefixDepth([]byte(lines[j]))
					b := strings.TrimRight(string(StripBlockquotePrefix([]byte(lines[j]), d)), "\n")
					if d != depth || !isDefinitionLine(b) {
						break
					}
					defs = append(defs, strings.TrimSpace(definitionBody(b)))
					j++
				}

				dl := renderDefinitionList(term, defs)
				out.Write(ApplyBlockquotePrefix([]byte(wrapPassthrough(dl)), depth))
				out.WriteByte('\n')
				i = j
				continue
			}
		}

		out.WriteString(lines[i])
		i++
	}
	return []byte(out.String())
}

// isDefinitionLine matches "0-3 leading spaces, ':', space-or-tab" (the
// blockquote prefix has already been stripped by the caller).
func isDefinitionLine(body string) bool {
	i := 0
	for i < len(body) && i < 3 && body[i] == ' ' {
		i++
	}
	if i >= len(body) || body[i] != ':' {
		return false
	}
	if i+1 >= len(body) {
		return false
	}
	return body[i+1] == ' ' || body[i+1] == '\t'
}

func definitionBody(body string) string {
	i := 0
	for i < len(body) && i < 3 && body[i] == ' ' {
		i++
	}
	return body[i+1:]
}

// isEligibleTerm rejects table rows, list items, headings, IAL markers, and
// lines containing "{:" as candidate term lines.
func isEligibleTerm(body string) bool {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "#") {
		return false
	}
	if strings.Contains(trimmed, "|") {
		return false
	}
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ ") {
		return false
	}
	if strings.Contains(trimmed, "{:") {
		return false
	}
	if isDefinitionLine(trimmed) {
		return false
	}
	return true
}

func renderDefinitionList(term string, defs []string) string {
	var b strings.Builder
	b.WriteString("<dl>\n<dt>")
	b.WriteString(inlineParseFragment(term))
	b.WriteString("</dt>\n")
	for _, d := range defs {
		b.WriteString("<dd>")
		b.WriteString(inlineParseFragment(d))
		b.WriteString("</dd>\n")
	}
	b.WriteString("</dl>")
	return b.String()
}
