package apex

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// rawIncludeSentinel wraps a Marked raw-HTML include's content so it
// survives Markdown parsing untouched; S13 (or an earlier pass over the
// rendered HTML) substitutes the sentinel back out verbatim.
const rawIncludeSentinel = "APEX_RAW_INCLUDE"

// includer resolves S3 transclusions. It is grounded on
// brandonbloom-catmd's FileTraversal: a visited/stack shape for cycle
// detection, generalized here from whole-file links to line-addressed,
// syntax-tagged include directives.
type includer struct {
	baseDir string
	stack   []string // absolute canonical paths currently being expanded
}

// expandIncludes runs S3 over source, resolving every recognized include
// form relative to opt.BaseDirectory. It is a no-op when file_includes is
// disabled.
func expandIncludes(source []byte, opt Options) ([]byte, error) {
	if !opt.FileIncludes {
		return source, nil
	}
	inc := &includer{baseDir: opt.BaseDirectory}
	return inc.expand(source, 0)
}

func (inc *includer) expand(source []byte, depth int) ([]byte, error) {
	if depth > MaxIncludeDepth {
		return nil, fmt.Errorf("%w: exceeded %d nested includes", ErrIncludeTooDeep, MaxIncludeDepth)
	}

	var out bytes.Buffer
	lines := splitKeepTerminator(source)

	for _, line := range lines {
		expanded, err := inc.expandLine(line, depth)
		if err != nil {
			// Localized include failures are reported inline and the
			// conversion continues rather than aborting.
			out.WriteString(fmt.Sprintf("<!-- include error: %s -->\n", err.Error()))
			continue
		}
		out.WriteString(expanded)
	}

	return out.Bytes(), nil
}

var bareIncludeLine = regexp.MustCompile(`^\s*(/\S+)\s*$`)

// expandLine expands every include directive on a single source line. A
// line is processed as a unit because all five forms are line-oriented in
// practice (Marked and MMD transclusions are written on their own line),
// matching how the iA Writer form is explicitly specified.
func (inc *includer) expandLine(line string, depth int) (string, error) {
	trimmed := strings.TrimRight(line, "\n")
	terminator := line[len(trimmed):]

	if m := bareIncludeLine.FindStringSubmatch(trimmed); m != nil {
		resolved, err := inc.resolveDirective(directive{kind: includeBare, raw: m[1]}, depth)
		if err != nil {
			return "", err
		}
		return resolved + terminator, nil
	}

	var b strings.Builder
	i := 0
	for i < len(trimmed) {
		d, width, ok := scanDirectiveAt(trimmed, i)
		if !ok {
			b.WriteByte(trimmed[i])
			i++
			continue
		}
		resolved, err := inc.resolveDirective(d, depth)
		if err != nil {
			return "", err
		}
		b.WriteString(resolved)
		i += width
	}
	b.WriteString(terminator)
	return b.String(), nil
}

type includeKind int

const (
	includeMarkedFile includeKind = iota // <<[path]
	includeMarkedCode                    // <<(path)
	includeMarkedRaw                     // <<{path}
	includeMMD                           // {{path}}
	includeBare                          // /path
)

type directive struct {
	kind includeKind
	raw  string // inner text between the delimiters, address/options intact
}

// scanDirectiveAt recognizes a directive opening at text[i] and returns it
// along with how many bytes it (and its matching close) occupy. Matching
// is depth-aware because an address suffix like "[3,10]" reuses the same
// bracket characters as the Marked `<<[...]` delimiter.
func scanDirectiveAt(text string, i int) (directive, int, bool) {
	switch {
	case strings.HasPrefix(text[i:], "<<["):
		return closeBracketed(text, i, 3, '[', ']', includeMarkedFile)
	case strings.HasPrefix(text[i:], "<<("):
		return closeBracketed(text, i, 3, '(', ')', includeMarkedCode)
	case strings.HasPrefix(text[i:], "<<{"):
		return closeBracketed(text, i, 3, '{', '}', includeMarkedRaw)
	case strings.HasPrefix(text[i:], "{{"):
		return closeBracketed(text, i, 2, '{', '}', includeMMD)
	default:
		return directive{}, 0, false
	}
}

func closeBracketed(text string, i, openLen int, open, close byte, kind includeKind) (directive, int, bool) {
	depth := 1
	j := i + openLen
	start := j
	for j < len(text) {
		switch text[j] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				inner := text[start:j]
				width := (j + 1) - i
				// MMD uses doubled braces on both ends.
				if kind == includeMMD {
					if j+1 < len(text) && text[j+1] == close {
						width++
					} else {
						return directive{}, 0, false
					}
				}
				return directive{kind: kind, raw: inner}, width, true
			}
		}
		j++
	}
	return directive{}, 0, false
}

// includeAddress is the optional [m,n] or [/re1/,/re2/] line-range suffix
// and the optional prefix="..." option.
type includeAddress struct {
	hasRange    bool
	startLine   int // 1-based, 0 means "from start"
	endLine     int // 0 means "to EOF"
	startRegexp *regexp.Regexp
	endRegexp   *regexp.Regexp
	prefix      string
}

var addressSuffix = regexp.MustCompile(`^(.*?)\s*\[([^\]]*)\](?:\s*;\s*(.*))?$`)

func parseAddress(raw string) (path string, addr includeAddress) {
	m := addressSuffix.FindStringSubmatch(raw)
	if m == nil {
		return strings.TrimSpace(raw), includeAddress{}
	}
	path = strings.TrimSpace(m[1])
	rangeSpec := m[2]
	options := m[3]

	addr.hasRange = true
	if strings.HasPrefix(rangeSpec, "/") {
		parts := strings.SplitN(rangeSpec, ",", 2)
		addr.startRegexp = compileAddressRegexp(parts[0])
		if len(parts) > 1 {
			addr.endRegexp = compileAddressRegexp(parts[1])
		}
	} else {
		parts := strings.SplitN(rangeSpec, ",", 2)
		addr.startLine, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			addr.endLine, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
		}
	}

	if options != "" {
		if pm := regexp.MustCompile(`prefix="([^"]*)"`).FindStringSubmatch(options); pm != nil {
			addr.prefix = pm[1]
		}
	}
	return path, addr
}

func compileAddressRegexp(s string) *regexp.Regexp {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, "/")
	re, err := regexp.Compile(s)
	if err != nil {
		return nil
	}
	return re
}

// applyAddress slices content to the requested line range, applying the
// optional per-line prefix.
func applyAddress(content []byte, addr includeAddress) []byte {
	if !addr.hasRange {
		return content
	}

	lines := splitKeepTerminator(content)
	start, end := 0, len(lines)

	switch {
	case addr.startRegexp != nil:
		for idx, l := range lines {
			if addr.startRegexp.MatchString(l) {
				start = idx
				break
			}
		}
		end = len(lines)
		if addr.endRegexp != nil {
			for idx := start; idx < len(lines); idx++ {
				if addr.endRegexp.MatchString(lines[idx]) {
					end = idx + 1
					break
				}
			}
		}
	default:
		if addr.startLine > 0 {
			start = addr.startLine - 1
		}
		if addr.endLine > 0 && addr.endLine <= len(lines) {
			end = addr.endLine
		}
	}

	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		start = end
	}

	var out bytes.Buffer
	for _, l := range lines[start:end] {
		if addr.prefix != "" {
			out.WriteString(addr.prefix)
		}
		out.WriteString(l)
	}
	return out.Bytes()
}

func (inc *includer) resolveDirective(d directive, depth int) (string, error) {
	path, addr := parseAddress(d.raw)
	if path == "" {
		return "", fmt.Errorf("%w: empty include path", ErrIncludeNotFound)
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(inc.baseDir, abs)
	}
	abs, err := filepath.Abs(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrIncludeNotFound, path)
	}

	for _, onStack := range inc.stack {
		if onStack == abs {
			return "", fmt.Errorf("%w: %s", ErrIncludeCycle, path)
		}
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrIncludeNotFound, path)
	}
	content = applyAddress(content, addr)

	switch d.kind {
	case includeMarkedFile:
		return inc.resolveFileForm(abs, content, depth)
	case includeMarkedCode:
		return renderCodeInclude(path, content), nil
	case includeMarkedRaw:
		return wrapRawInclude(content), nil
	case includeMMD:
		return inc.resolveFileForm(abs, content, depth)
	case includeBare:
		return inc.resolveBareForm(path, content, depth)
	}
	return "", nil
}

// resolveFileForm handles `<<[path]` and `{{path}}`: Markdown is expanded
// recursively (cycle-checked via the path stack), CSV/TSV becomes a pipe
// table, anything else is included verbatim.
func (inc *includer) resolveFileForm(abs string, content []byte, depth int) (string, error) {
	ext := strings.ToLower(filepath.Ext(abs))
	switch ext {
	case ".csv":
		return csvToPipeTable(content, ',')
	case ".tsv":
		return csvToPipeTable(content, '\t')
	case ".md", ".markdown":
		inc.stack = append(inc.stack, abs)
		defer func() { inc.stack = inc.stack[:len(inc.stack)-1] }()

		prevBase := inc.baseDir
		inc.baseDir = filepath.Dir(abs)
		defer func() { inc.baseDir = prevBase }()

		expanded, err := inc.expand(content, depth+1)
		if err != nil {
			return "", err
		}
		return string(expanded), nil
	default:
		return string(content), nil
	}
}

// resolveBareForm handles the iA Writer bare-path form: an image
// reference becomes a Markdown image, anything else is a code include.
func (inc *includer) resolveBareForm(path string, content []byte, depth int) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
		return fmt.Sprintf("![%s](%s)", filepath.Base(path), path), nil
	default:
		return renderCodeInclude(path, content), nil
	}
}

func renderCodeInclude(path string, content []byte) string {
	lang := languageForExt(filepath.Ext(path))
	class := ""
	if lang != "" {
		class = fmt.Sprintf(` class="language-%s"`, lang)
	}
	return fmt.Sprintf("<pre><code%s>%s</code></pre>\n", class, escapeHTMLText(string(content)))
}

func wrapRawInclude(content []byte) string {
	return fmt.Sprintf("<!--%s-->%s<!--/%s-->", rawIncludeSentinel, content, rawIncludeSentinel)
}

var extLanguage = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".java": "java",
	".sh":   "bash",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".html": "html",
	".css":  "css",
	".sql":  "sql",
}

func languageForExt(ext string) string {
	return extLanguage[strings.ToLower(ext)]
}

// csvToPipeTable converts RFC 4180-style CSV/TSV content into a GFM pipe
// table, treating the first row as the header. encoding/csv already
// implements the quoted-field semantics needed here, so no third-party CSV
// library is pulled in for it.
func csvToPipeTable(content []byte, delim rune) (string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIncludeNotFound, err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteByte('|')
		for _, c := range cells {
			b.WriteByte(' ')
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}

	writeRow(records[0])
	sep := make([]string, len(records[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range records[1:] {
		writeRow(row)
	}

	return b.String(), nil
}
