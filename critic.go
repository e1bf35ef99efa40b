package apex

import "strings"

// rewriteCritic runs S5: eliminate or transform Critic Markup spans
// ({++ins++}, {--del--}, {==hi==}, {>>comment<<}, {~~old~>new~~}) according
// to opt.CriticMode. It is a no-op when critic_markup is disabled.
//
// Rewriting is scanner-driven so that a Critic-like sequence inside a code
// span, fenced code block, math span, or HTML comment is left untouched,
// using the same region classifier the other text-level rewrites share.
func rewriteCritic(source []byte, opt Options) []byte {
	if !opt.CriticMarkup {
		return source
	}

	var out strings.Builder
	sc := NewScanner()
	text := string(source)
	i := 0

	for i < len(text) {
		if sc.InCodeOrMath() || sc.Region() == RegionHTMLBlock {
			consumed := sc.Advance(source, i)
			out.WriteString(text[i : i+consumed])
			i += consumed
			continue
		}

		if span, width, ok := scanCriticSpan(text, i); ok {
			out.WriteString(renderCriticSpan(span, opt.CriticMode))
			i += width
			continue
		}

		consumed := sc.Advance(source, i)
		out.WriteString(text[i : i+consumed])
		i += consumed
	}

	return []byte(out.String())
}

type criticKind int

const (
	criticIns criticKind = iota
	criticDel
	criticHighlight
	criticComment
	criticSubstitution
)

type criticSpan struct {
	kind  criticKind
	a, b  string // a is the only payload except substitution, where a=old, b=new
}

// scanCriticSpan recognizes a Critic Markup span opening at text[i].
// Every span kind has its own distinct opener, so the cases do not
// overlap; substitution ({~~old~>new~~}) is checked last.
func scanCriticSpan(text string, i int) (criticSpan, int, bool) {
	switch {
	case strings.HasPrefix(text[i:], "{++"):
		return closeCritic(text, i, "{++", "++}", criticIns)
	case strings.HasPrefix(text[i:], "{--"):
		return closeCritic(text, i, "{--", "--}", criticDel)
	case strings.HasPrefix(text[i:], "{=="):
		return closeCritic(text, i, "{==", "==}", criticHighlight)
	case strings.HasPrefix(text[i:], "{>>"):
		return closeCritic(text, i, "{>>", "<<}", criticComment)
	case strings.HasPrefix(text[i:], "{~~"):
		return scanSubstitution(text, i)
	default:
		return criticSpan{}, 0, false
	}
}

func closeCritic(text string, i int, open, close string, kind criticKind) (criticSpan, int, bool) {
	end := strings.Index(text[i+len(open):], close)
	if end < 0 {
		return criticSpan{}, 0, false
	}
	inner := text[i+len(open) : i+len(open)+end]
	width := len(open) + end + len(close)
	return criticSpan{kind: kind, a: inner}, width, true
}

func scanSubstitution(text string, i int) (criticSpan, int, bool) {
	closeIdx := strings.Index(text[i+3:], "~~}")
	if closeIdx < 0 {
		return criticSpan{}, 0, false
	}
	body := text[i+3 : i+3+closeIdx]
	width := 3 + closeIdx + 3
	sep := strings.Index(body, "~>")
	if sep < 0 {
		// Not a well-formed substitution; treat as a plain deletion so a
		// lone "{~~...~~}" still degrades sensibly rather than leaking.
		return criticSpan{kind: criticDel, a: body}, width, true
	}
	return criticSpan{kind: criticSubstitution, a: body[:sep], b: body[sep+2:]}, width, true
}

func renderCriticSpan(span criticSpan, mode CriticMode) string {
	switch mode {
	case CriticAccept:
		switch span.kind {
		case criticIns:
			return span.a
		case criticDel, criticComment:
			return ""
		case criticHighlight:
			return span.a
		case criticSubstitution:
			return span.b
		}
	case CriticReject:
		switch span.kind {
		case criticIns, criticComment:
			return ""
		case criticDel:
			return span.a
		case criticHighlight:
			return span.a
		case criticSubstitution:
			return span.a
		}
	case CriticMarkup:
		switch span.kind {
		case criticIns:
			return `<ins class="critic">` + span.a + `</ins>`
		case criticDel:
			return `<del class="critic">` + span.a + `</del>`
		case criticHighlight:
			return `<mark class="critic">` + span.a + `</mark>`
		case criticComment:
			return `<span class="critic-comment">` + span.a + `</span>`
		case criticSubstitution:
			return `<del class="critic">` + span.a + `</del><ins class="critic">` + span.b + `</ins>`
		}
	}
	return ""
}
