package apex

import "strings"

// rewriteInlineSpans runs S6: sup/sub/underline/highlight transforms into
// explicit HTML tags. Ported from original_source/src/extensions/sup_sub.c,
// operating outside code/math regions via the shared Scanner.
//
// Four forms, tried in this order at each outside-region byte:
//   - "^X..."  -> <sup>X...</sup>     (footnote-reference "[^" exempted)
//   - "~~...~~" left alone here (strikethrough owns it; disables underline)
//   - "~WORD~" -> <u>WORD</u>        (closing tilde on the same line)
//   - "~WORD"  -> <sub>WORD</sub>    (no closing tilde)
//   - "==TEXT==" -> <mark>TEXT</mark> (single line only)
func rewriteInlineSpans(source []byte, opt Options) []byte {
	if !opt.SupSub {
		return source
	}

	var out strings.Builder
	sc := NewScanner()
	text := string(source)
	i := 0

	for i < len(text) {
		if sc.InCodeOrMath() {
			consumed := sc.Advance(source, i)
			out.WriteString(text[i : i+consumed])
			i += consumed
			continue
		}

		switch text[i] {
		case '^':
			if rendered, width, ok := scanSuperscript(text, i); ok {
				out.WriteString(rendered)
				i += width
				continue
			}
		case '~':
			if rendered, width, ok := scanTilde(text, i); ok {
				out.WriteString(rendered)
				i += width
				continue
			}
		case '=':
			if rendered, width, ok := scanHighlight(text, i); ok {
				out.WriteString(rendered)
				i += width
				continue
			}
		}

		consumed := sc.Advance(source, i)
		out.WriteString(text[i : i+consumed])
		i += consumed
	}

	return []byte(out.String())
}

// scanSuperscript implements "^X" -> <sup>X</sup> where X is the maximal
// run ending at whitespace/newline/'^', excluding the footnote-reference
// case (preceding char not '[', checked by the caller having already
// emitted everything up to i) and Critic-delimiter adjacency
// ("^" next to '{' / '}' must be preserved verbatim).
func scanSuperscript(text string, i int) (string, int, bool) {
	if i+1 >= len(text) {
		return "", 0, false
	}
	next := text[i+1]
	if next == ' ' || next == '\t' || next == '\n' || next == '^' {
		return "", 0, false
	}
	if next == '{' || next == '}' {
		return "", 0, false
	}
	if next == '[' {
		// "^[text]" is Kramdown's inline footnote form, not a
		// superscript; leave it untouched for the footnote pass to recognize.
		return "", 0, false
	}
	if i > 0 && text[i-1] == '[' {
		return "", 0, false
	}

	j := i + 1
	for j < len(text) && !isSpanBoundary(text[j]) && text[j] != '^' {
		j++
	}
	word := text[i+1 : j]
	return "<sup>" + word + "</sup>", j - i, true
}

func isSpanBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// scanTilde handles both "~WORD~" (underline) and "~WORD" (subscript). A
// leading "~~" is strikethrough's territory and is left untouched here so
// goldmark's GFM extension handles it during S11; "~>" (Critic Markup's
// substitution arrow) is left untouched as well.
func scanTilde(text string, i int) (string, int, bool) {
	if i+1 < len(text) && (text[i+1] == '~' || text[i+1] == '>') {
		return "", 0, false
	}
	if i > 0 && (text[i-1] == '{' || text[i-1] == '~') {
		return "", 0, false
	}
	if i+1 >= len(text) {
		return "", 0, false
	}
	next := text[i+1]
	if isSpanBoundary(next) || isSentenceTerminator(next) {
		return "", 0, false
	}

	// Look for a closing '~' on the same line with no preceding whitespace.
	j := i + 1
	for j < len(text) && text[j] != '\n' {
		if text[j] == '~' {
			word := text[i+1 : j]
			if word != "" && !strings.ContainsAny(word, " \t") && !containsSentenceTerminator(word) {
				return "<u>" + word + "</u>", (j + 1) - i, true
			}
			break
		}
		j++
	}

	// No closing tilde (or a disqualified one): subscript up to the next
	// whitespace or sentence terminator.
	k := i + 1
	for k < len(text) && !isSpanBoundary(text[k]) && !isSentenceTerminator(text[k]) {
		k++
	}
	word := text[i+1 : k]
	if word == "" {
		return "", 0, false
	}
	return "<sub>" + word + "</sub>", k - i, true
}

func isSentenceTerminator(c byte) bool {
	switch c {
	case '.', ',', ';', ':', '!', '?':
		return true
	default:
		return false
	}
}

func containsSentenceTerminator(s string) bool {
	return strings.ContainsAny(s, ".,;:!?")
}

// scanHighlight handles "==TEXT==" -> <mark>TEXT</mark> on a single line.
// The guard against consuming a Setext "==" underline is the caller's
// responsibility upstream of S6 is not needed here because a Setext
// underline is a line of its own consisting solely of '=' characters,
// which never matches the "==TEXT==" shape (TEXT would be empty or all
// '='); scanHighlight additionally refuses an all-'=' body explicitly.
func scanHighlight(text string, i int) (string, int, bool) {
	if i+1 >= len(text) || text[i+1] != '=' {
		return "", 0, false
	}
	lineEnd := strings.IndexByte(text[i:], '\n')
	limit := len(text)
	if lineEnd >= 0 {
		limit = i + lineEnd
	}
	closeIdx := strings.Index(text[i+2:limit], "==")
	if closeIdx < 0 {
		return "", 0, false
	}
	body := text[i+2 : i+2+closeIdx]
	if body == "" || strings.Trim(body, "=") == "" {
		return "", 0, false
	}
	return "<mark>" + body + "</mark>", (2 + closeIdx + 2), true
}
