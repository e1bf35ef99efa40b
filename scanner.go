package apex

// RegionKind classifies a byte position while scanning raw Markdown text
// with a cheap left-to-right state machine. Scanner reports outside,
// inline-code, fenced-code, inline-math, display-math and html-block (an
// HTML comment); RegionTableRow and RegionBlockquotePrefix are declared but
// never reported. S5, S6, S8 and the inline footnote pass drive the same
// Scanner instead of reimplementing fence/code/math tracking per pass; S7
// and S9 use only the blockquote-prefix helpers below, and S10 uses neither.
type RegionKind int

const (
	RegionOutside RegionKind = iota
	RegionInlineCode
	RegionFencedCode
	RegionInlineMath
	RegionDisplayMath
	RegionHTMLBlock
	RegionTableRow
	RegionBlockquotePrefix
)

// Scanner walks text byte-by-byte (rune-aware for multi-byte runes, but all
// delimiters of interest are single-byte ASCII) maintaining the current
// region. It is stateless between documents; construct one per pass.
type Scanner struct {
	inFencedCode  bool
	inInlineCode  bool
	inInlineMath  bool
	inDisplayMath bool
	inHTMLBlock   bool
}

// NewScanner returns a fresh Scanner positioned outside any region.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Region reports the scanner's current region classification. Callers
// should call Advance after inspecting each byte at i.
func (s *Scanner) Region() RegionKind {
	switch {
	case s.inFencedCode:
		return RegionFencedCode
	case s.inInlineCode:
		return RegionInlineCode
	case s.inDisplayMath:
		return RegionDisplayMath
	case s.inInlineMath:
		return RegionInlineMath
	case s.inHTMLBlock:
		return RegionHTMLBlock
	default:
		return RegionOutside
	}
}

// Advance updates scanner state for the byte at text[i], mirroring the
// fence/code/math toggling in original_source/src/extensions/sup_sub.c's
// preprocessing loop. It returns the number of bytes consumed (1, or the
// delimiter's length: 2 for `$$`, 3 for a triple-backtick fence or `-->`,
// 4 for `<!--`)
// so callers can skip over the delimiter itself.
func (s *Scanner) Advance(text []byte, i int) int {
	if s.inHTMLBlock {
		if hasPrefixAt(text, i, "-->") {
			s.inHTMLBlock = false
			return 3
		}
		return 1
	}

	if !s.inFencedCode && !s.inInlineCode {
		if hasPrefixAt(text, i, "<!--") {
			s.inHTMLBlock = true
			return 4
		}
	}

	if hasPrefixAt(text, i, "```") {
		if !s.inInlineCode {
			s.inFencedCode = !s.inFencedCode
		}
		return 3
	}

	if text[i] == '`' && !s.inFencedCode {
		s.inInlineCode = !s.inInlineCode
		return 1
	}

	if s.inFencedCode || s.inInlineCode {
		return 1
	}

	if hasPrefixAt(text, i, "$$") {
		s.inDisplayMath = !s.inDisplayMath
		return 2
	}

	if text[i] == '$' && !s.inDisplayMath {
		// A lone '$' toggles inline math whatever its neighbours are; no
		// whitespace check is made on either side of it.
		s.inInlineMath = !s.inInlineMath
		return 1
	}

	return 1
}

// InCodeOrMath reports whether the scanner's current region is one that
// every preprocessing pass must treat as inviolate: code spans, fenced
// code blocks, and math spans.
func (s *Scanner) InCodeOrMath() bool {
	return s.inFencedCode || s.inInlineCode || s.inInlineMath || s.inDisplayMath
}

func hasPrefixAt(text []byte, i int, prefix string) bool {
	if i+len(prefix) > len(text) {
		return false
	}
	return string(text[i:i+len(prefix)]) == prefix
}

// BlockquotePrefixDepth returns the number of leading "> " (or ">") runs at
// the start of line, the depth used by S7/S9 to preserve blockquote
// nesting across emitted lines.
func BlockquotePrefixDepth(line []byte) int {
	depth := 0
	i := 0
	for i < len(line) {
		// skip leading spaces (0-3 allowed per CommonMark, but nested
		// blockquote markers may be separated by a single space each)
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i < len(line) && line[i] == '>' {
			depth++
			i++
			if i < len(line) && line[i] == ' ' {
				i++
			}
			continue
		}
		break
	}
	return depth
}

// StripBlockquotePrefix removes depth levels of "> " prefix from line,
// returning the remainder. Used to look at a definition-list/callout body
// independent of its blockquote nesting.
func StripBlockquotePrefix(line []byte, depth int) []byte {
	i := 0
	for d := 0; d < depth && i < len(line); d++ {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i < len(line) && line[i] == '>' {
			i++
			if i < len(line) && line[i] == ' ' {
				i++
			}
		}
	}
	return line[i:]
}

// ApplyBlockquotePrefix re-applies depth levels of "> " prefix to line.
func ApplyBlockquotePrefix(line []byte, depth int) []byte {
	prefix := make([]byte, 0, depth*2)
	for d := 0; d < depth; d++ {
		prefix = append(prefix, '>', ' ')
	}
	return append(prefix, line...)
}
