package apex

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/text/unicode/norm"
)

// headingIDs implements parser.IDs (Generate/Put), grounded on pkgsite's
// internal/frontend/goldmark.go `ids` type, but with three interchangeable
// slug algorithms selected by Options.IDFormat instead of a single
// fixed one: gfm mirrors GitHub's heading-anchor algorithm, mmd mirrors
// MultiMarkdown's, kramdown mirrors kramdown's. Like pkgsite's version it
// tracks every id handed out (by Generate or Put) so collisions get a
// "-2", "-3", ... suffix, process-lifetime per document conversion.
type headingIDs struct {
	format IDFormat
	seen   map[string]int
}

func newHeadingIDs(format IDFormat) *headingIDs {
	return &headingIDs{format: format, seen: map[string]int{}}
}

func (ids *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	slug := ids.slugify(string(value))
	if slug == "" {
		slug = "header"
	}
	return []byte(ids.dedupe(slug))
}

func (ids *headingIDs) Put(value []byte) {
	ids.dedupe(string(value))
}

func (ids *headingIDs) dedupe(slug string) string {
	n, exists := ids.seen[slug]
	if !exists {
		ids.seen[slug] = 1
		return slug
	}
	n++
	ids.seen[slug] = n
	candidate := slug + "-" + strconv.Itoa(n)
	for {
		if _, clash := ids.seen[candidate]; !clash {
			ids.seen[candidate] = 1
			return candidate
		}
		n++
		ids.seen[slug] = n
		candidate = slug + "-" + strconv.Itoa(n)
	}
}

func (ids *headingIDs) slugify(text string) string {
	switch ids.format {
	case IDFormatMMD:
		return mmdSlug(text)
	case IDFormatKramdown:
		return kramdownSlug(text)
	default:
		return gfmSlug(text)
	}
}

// gfmSlug mirrors GitHub's heading-anchor algorithm: lowercase,
// strip combining marks via Unicode NFKD decomposition, collapse
// whitespace runs to a single '-', drop everything that isn't a
// letter/digit/'-'/'_', then trim leading/trailing '-'.
func gfmSlug(text string) string {
	lower := strings.ToLower(text)
	stripped := stripCombiningMarks(lower)

	var collapsed strings.Builder
	inSpace := false
	for _, r := range stripped {
		if unicode.IsSpace(r) {
			if !inSpace {
				collapsed.WriteRune('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		collapsed.WriteRune(r)
	}

	var out strings.Builder
	for _, r := range collapsed.String() {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			out.WriteRune(r)
		}
	}
	return strings.Trim(out.String(), "-")
}

// mmdSlug mirrors MultiMarkdown's header-to-anchor rule: remove
// spaces only, preserving case, diacritics, and dash characters (including
// em/en dash) untouched.
func mmdSlug(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// kramdownSlug mirrors kramdown's default: strip diacritics and
// em/en dashes, keep letters/digits verbatim, and turn every other
// character into its own '-' (a run of N non-alphanumerics becomes N
// dashes, not one). Leading dashes are trimmed; trailing ones are kept.
func kramdownSlug(text string) string {
	stripped := stripDiacriticsAndLongDashes(text)

	var b strings.Builder
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return strings.TrimLeft(b.String(), "-")
}

func stripCombiningMarks(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripDiacriticsAndLongDashes(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r == '—' || r == '–' { // em dash, en dash
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
