package apex

import (
	"regexp"
	"strings"
)

// calloutHeader matches the first line of a callout blockquote:
// "> [!TYPE](+|-)? Title?", with the leading "> " already stripped by the
// blockquote-prefix machinery shared with definition-list rewriting.
var calloutHeader = regexp.MustCompile(`^\[!([A-Za-z][\w-]*)\](\+|-)?\s*(.*)$`)

// rewriteCallouts runs S9: detect "> [!TYPE](+|-)? Title" blockquote
// openers and emit a <details>/<div class="callout callout-TYPE"> wrapper
// around the rest of the blockquote's contiguous lines. It is a no-op when
// callouts is disabled.
func rewriteCallouts(source []byte, opt Options) []byte {
	if !opt.Callouts {
		return source
	}

	lines := splitKeepTerminator(source)
	var out strings.Builder

	i := 0
	for i < len(lines) {
		depth := BlockquotePrefixDepth([]byte(lines[i]))
		if depth == 0 {
			out.WriteString(lines[i])
			i++
			continue
		}
		body := strings.TrimRight(string(StripBlockquotePrefix([]byte(lines[i]), depth)), "\n")
		m := calloutHeader.FindStringSubmatch(body)
		if m == nil {
			out.WriteString(lines[i])
			i++
			continue
		}

		calloutType := strings.ToLower(m[1])
		marker := m[2]
		title := strings.TrimSpace(m[3])

		var bodyLines []string
		j := i + 1
		for j < len(lines) {
			d := BlockquotePrefixDepth([]byte(lines[j]))
			if d < depth {
				break
			}
			bodyLines = append(bodyLines, strings.TrimRight(string(StripBlockquotePrefix([]byte(lines[j]), depth)), "\n"))
			j++
		}

		html := renderCallout(calloutType, marker, title, blockParseFragment(strings.Join(bodyLines, "\n")))
		out.Write(ApplyBlockquotePrefix([]byte(wrapPassthrough(html)), depth-1))
		out.WriteByte('\n')
		i = j
	}

	return []byte(out.String())
}

func renderCallout(calloutType, marker, title, bodyHTML string) string {
	class := `class="callout callout-` + calloutType + `"`

	var b strings.Builder
	switch marker {
	case "+":
		b.WriteString("<details " + class + " open>\n")
		b.WriteString("<summary>" + inlineParseFragment(title) + "</summary>\n")
	case "-":
		b.WriteString("<details " + class + ">\n")
		b.WriteString("<summary>" + inlineParseFragment(title) + "</summary>\n")
	default:
		b.WriteString("<div " + class + ">\n")
		if title != "" {
			b.WriteString(`<p class="callout-title">` + inlineParseFragment(title) + "</p>\n")
		}
	}

	b.WriteString(bodyHTML)

	if marker == "+" || marker == "-" {
		b.WriteString("</details>")
	} else {
		b.WriteString("</div>")
	}
	return b.String()
}
