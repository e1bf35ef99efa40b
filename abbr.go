package apex

import (
	"regexp"
	"sort"
	"strings"
)

// abbrDef is one abbreviation definition collected from the document body.
type abbrDef struct {
	key   string
	value string
}

var (
	abbrDefLine      = regexp.MustCompile(`(?m)^\*\[([^\]]+)\]:\s*(.+)$`)
	abbrMMD6DefLine  = regexp.MustCompile(`(?m)^\[>([^\]]+)\]:\s*(.+)$`)
	abbrInlineShort  = regexp.MustCompile(`\[>\(([^)]+)\)\s*([^\]]+)\]`)
)

// rewriteAbbreviations runs S8: collect *[KEY]: VALUE and [>KEY]: VALUE
// definitions, strip the definition lines, resolve inline [>(KEY) VALUE]
// shorthand immediately, and wrap every later whole-word occurrence of KEY
// in <abbr title="VALUE">KEY</abbr>.
func rewriteAbbreviations(source []byte, opt Options) []byte {
	text := string(source)

	var defs []abbrDef
	text = abbrDefLine.ReplaceAllStringFunc(text, func(m string) string {
		sub := abbrDefLine.FindStringSubmatch(m)
		defs = append(defs, abbrDef{key: sub[1], value: strings.TrimSpace(sub[2])})
		return ""
	})

	if opt.MMD6Features {
		text = abbrMMD6DefLine.ReplaceAllStringFunc(text, func(m string) string {
			sub := abbrMMD6DefLine.FindStringSubmatch(m)
			defs = append(defs, abbrDef{key: sub[1], value: strings.TrimSpace(sub[2])})
			return ""
		})

		text = abbrInlineShort.ReplaceAllStringFunc(text, func(m string) string {
			sub := abbrInlineShort.FindStringSubmatch(m)
			key, value := sub[1], strings.TrimSpace(sub[2])
			defs = append(defs, abbrDef{key: key, value: value})
			return `<abbr title="` + escapeHTMLText(value) + `">` + escapeHTMLText(key) + `</abbr>`
		})
	}

	if len(defs) == 0 {
		return []byte(text)
	}

	// Longest key first so "ID" doesn't shadow a later match of "IDENTIFIER".
	sort.SliceStable(defs, func(i, j int) bool { return len(defs[i].key) > len(defs[j].key) })

	sc := NewScanner()
	return []byte(wrapAbbreviations(text, defs, sc))
}

// wrapAbbreviations scans text outside code/math regions and wraps
// whole-word KEY occurrences, skipping text already inside <abbr>, <a>,
// <code>, or <pre> tags.
func wrapAbbreviations(text string, defs []abbrDef, sc *Scanner) string {
	var out strings.Builder
	skipDepth := 0
	source := []byte(text)
	i := 0

	for i < len(text) {
		if sc.InCodeOrMath() {
			n := sc.Advance(source, i)
			out.WriteString(text[i : i+n])
			i += n
			continue
		}

		if tag, width, ok := matchTagOpen(text, i); ok {
			if isSkippedAbbrevTag(tag) {
				skipDepth++
			}
			out.WriteString(text[i : i+width])
			i += width
			continue
		}
		if tag, width, ok := matchTagClose(text, i); ok {
			if isSkippedAbbrevTag(tag) && skipDepth > 0 {
				skipDepth--
			}
			out.WriteString(text[i : i+width])
			i += width
			continue
		}

		if skipDepth == 0 {
			if matched, width, ok := matchAbbrevKey(text, i, defs); ok {
				out.WriteString(matched)
				i += width
				continue
			}
		}

		n := sc.Advance(source, i)
		out.WriteString(text[i : i+n])
		i += n
	}
	return out.String()
}

var tagOpenRe = regexp.MustCompile(`^<(abbr|a|code|pre)(\s[^>]*)?>`)
var tagCloseRe = regexp.MustCompile(`^</(abbr|a|code|pre)>`)

func matchTagOpen(text string, i int) (string, int, bool) {
	m := tagOpenRe.FindStringSubmatch(text[i:])
	if m == nil {
		return "", 0, false
	}
	return m[1], len(m[0]), true
}

func matchTagClose(text string, i int) (string, int, bool) {
	m := tagCloseRe.FindStringSubmatch(text[i:])
	if m == nil {
		return "", 0, false
	}
	return m[1], len(m[0]), true
}

func isSkippedAbbrevTag(tag string) bool {
	switch tag {
	case "abbr", "a", "code", "pre":
		return true
	default:
		return false
	}
}

func matchAbbrevKey(text string, i int, defs []abbrDef) (string, int, bool) {
	if i > 0 && isWordByte(text[i-1]) {
		return "", 0, false
	}
	for _, d := range defs {
		if d.key == "" {
			continue
		}
		end := i + len(d.key)
		if end > len(text) || text[i:end] != d.key {
			continue
		}
		if end < len(text) && isWordByte(text[end]) {
			continue
		}
		return `<abbr title="` + escapeHTMLText(d.value) + `">` + d.key + `</abbr>`, len(d.key), true
	}
	return "", 0, false
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
