package apex

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	mmdInlineFootnoteRe      = regexp.MustCompile(`^\[\^ ([^\]]*) \]`)
	kramdownInlineFootnoteRe = regexp.MustCompile(`^\^\[([^\]]*)\]`)
)

// normalizeInlineFootnotes runs the text-level half of footnote handling: MMD's
// "[^ text with spaces ]" and Kramdown's "^[text]" inline footnote forms
// are rewritten into goldmark's native "[^key]" reference plus an
// appended "[^key]: text" definition, so extension.Footnote's own
// numbering, back-reference, and footnotes-section rendering (wired into
// newGoldmarkEngine whenever Footnotes is enabled) handles every inline
// spelling uniformly instead of Apex reimplementing footnote bookkeeping
// goldmark already owns. Runs after S10 and just before normalizeAlphaLists,
// the last text pass before S11 parsing; the "^[" guard scanSuperscript
// already applies (inlinespans.go) keeps this form intact through S6.
func normalizeInlineFootnotes(source []byte, opt Options) []byte {
	if !opt.Footnotes {
		return source
	}

	text := string(source)
	sc := NewScanner()
	var out strings.Builder
	var defs []string
	n := 0

	i := 0
	for i < len(text) {
		if sc.InCodeOrMath() {
			consumed := sc.Advance(source, i)
			out.WriteString(text[i : i+consumed])
			i += consumed
			continue
		}

		if opt.MMD6Features {
			if m := mmdInlineFootnoteRe.FindStringSubmatchIndex(text[i:]); m != nil {
				n++
				key := fmt.Sprintf("apex-inline-fn-%d", n)
				out.WriteString("[^" + key + "]")
				defs = append(defs, "[^"+key+"]: "+strings.TrimSpace(text[i+m[2]:i+m[3]]))
				i += m[1]
				continue
			}
		}

		if text[i] == '^' {
			if m := kramdownInlineFootnoteRe.FindStringSubmatchIndex(text[i:]); m != nil {
				n++
				key := fmt.Sprintf("apex-inline-fn-%d", n)
				out.WriteString("[^" + key + "]")
				defs = append(defs, "[^"+key+"]: "+strings.TrimSpace(text[i+m[2]:i+m[3]]))
				i += m[1]
				continue
			}
		}

		consumed := sc.Advance(source, i)
		out.WriteString(text[i : i+consumed])
		i += consumed
	}

	if len(defs) == 0 {
		return []byte(out.String())
	}
	out.WriteString("\n\n")
	out.WriteString(strings.Join(defs, "\n\n"))
	out.WriteString("\n")
	return []byte(out.String())
}
