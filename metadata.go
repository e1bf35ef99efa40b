package apex

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

// MetadataPair is one (key, value) entry extracted by S2. Order is
// significant: it is the order callers iterate metadata in.
type MetadataPair struct {
	Key   string
	Value string
}

// Metadata is the ordered key-value sequence front-matter extraction
// produces. Lookups are case-insensitive.
type Metadata []MetadataPair

// Get returns the first value for key, matched case-insensitively, and
// whether it was found.
func (m Metadata) Get(key string) (string, bool) {
	for _, p := range m {
		if strings.EqualFold(p.Key, key) {
			return p.Value, true
		}
	}
	return "", false
}

// metadataFormat records which dialect produced a Metadata block, since S4
// variable substitution and S17 standalone wrapping both care whether any
// metadata was found at all, not which format it came from.
type metadataFormat int

const (
	metadataNone metadataFormat = iota
	metadataYAML
	metadataPandocTitle
	metadataMMD
)

// extractMetadata implements S2: it detects and strips a leading metadata
// block from source, returning the remaining document body and whatever
// metadata was found. A malformed or absent block degrades to (source,
// nil, metadataNone) rather than an error, matching
// apex_extract_metadata's "try YAML, then Pandoc, then MMD, keep going on
// not-found" behavior.
func extractMetadata(source []byte) ([]byte, Metadata, metadataFormat) {
	switch {
	case bytes.HasPrefix(source, []byte("---")):
		if body, meta, ok := extractYAMLMetadata(source); ok {
			return body, meta, metadataYAML
		}
		return source, nil, metadataNone

	case len(source) > 0 && source[0] == '%':
		if body, meta, ok := extractPandocMetadata(source); ok {
			return body, meta, metadataPandocTitle
		}
		return source, nil, metadataNone

	default:
		if body, meta, ok := extractMMDMetadata(source); ok {
			return body, meta, metadataMMD
		}
		return source, nil, metadataNone
	}
}

// extractYAMLMetadata handles the --- ... --- / --- ... ... front-matter
// block. It is grounded on goliatone-go-cms's ParseFrontMatter,
// which hands the same frontmatter.Parse(reader, &dest) call an io.Reader
// and gets back the body with the block stripped.
func extractYAMLMetadata(source []byte) ([]byte, Metadata, bool) {
	var raw map[string]interface{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil || len(raw) == 0 {
		return source, nil, false
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	meta := make(Metadata, 0, len(keys))
	for _, k := range keys {
		meta = append(meta, MetadataPair{Key: k, Value: fmt.Sprintf("%v", raw[k])})
	}

	return body, meta, true
}

// extractPandocMetadata handles the "% Title / % Author / % Date" three
// line title block, ported from parse_pandoc_metadata.
func extractPandocMetadata(source []byte) ([]byte, Metadata, bool) {
	keys := []string{"title", "author", "date"}
	lines := splitKeepTerminator(source)

	var meta Metadata
	consumed := 0
	keyIndex := 0

	for keyIndex < 3 && keyIndex < len(lines) {
		line := lines[keyIndex]
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\n"))
		if len(trimmed) == 0 || trimmed[0] != '%' {
			break
		}
		value := strings.TrimSpace(trimmed[1:])
		if value != "" {
			meta = append(meta, MetadataPair{Key: keys[keyIndex], Value: value})
		}
		consumed += len(line)
		keyIndex++
	}

	if keyIndex == 0 {
		return source, nil, false
	}
	return source[consumed:], meta, true
}

// extractMMDMetadata handles bare "Key: Value" metadata at the top of a
// document, terminated by a blank line. Ported line-for-line from
// parse_mmd_metadata's disqualification order: a candidate metadata line
// is rejected (and scanning stops, keeping whatever was already found) the
// moment it looks like an abbreviation definition, an HTML comment, a
// Kramdown block marker, a heading, an IAL/ALD, a TOC marker, a bare URL,
// a Markdown link, or a "key: value" pair whose key contains a protocol or
// '<' before the colon, or whose colon isn't followed by a space/tab.
func extractMMDMetadata(source []byte) ([]byte, Metadata, bool) {
	lines := splitKeepTerminator(source)

	var meta Metadata
	consumed := 0
	found := false

	for _, line := range lines {
		bare := strings.TrimRight(line, "\n")
		trimmed := strings.TrimSpace(bare)

		if trimmed == "" {
			if found {
				consumed += len(line)
				return source[consumed:], meta, true
			}
			consumed += len(line)
			continue
		}

		if strings.HasPrefix(trimmed, "*[") || strings.HasPrefix(trimmed, "[>") ||
			strings.HasPrefix(trimmed, "<!--") ||
			strings.HasPrefix(trimmed, "{::") ||
			trimmed[0] == '#' ||
			strings.HasPrefix(trimmed, "{:") ||
			strings.HasPrefix(trimmed, "{{TOC") ||
			strings.Contains(trimmed, "](") {
			break
		}

		colon := strings.IndexByte(bare, ':')
		if colon < 0 {
			// No colon at all disqualifies the line unconditionally, even
			// before any metadata has been found.
			break
		}

		key := bare[:colon]
		if looksLikeProtocol(key) || strings.ContainsRune(key, '<') {
			break
		}

		if colon+1 >= len(bare) || (bare[colon+1] != ' ' && bare[colon+1] != '\t') {
			break
		}

		k := strings.TrimSpace(key)
		v := strings.TrimSpace(bare[colon+1:])
		if k == "" || v == "" {
			break
		}

		meta = append(meta, MetadataPair{Key: k, Value: v})
		found = true
		consumed += len(line)
	}

	if !found {
		return source, nil, false
	}
	return source[consumed:], meta, true
}

func looksLikeProtocol(key string) bool {
	return strings.HasPrefix(key, "http://") ||
		strings.HasPrefix(key, "https://") ||
		strings.HasPrefix(key, "mailto:") ||
		strings.Contains(key, "://")
}

// splitKeepTerminator splits source into lines, each retaining its
// trailing '\n' (absent on a final unterminated line), so callers can
// reconstruct exact byte offsets the way the C scanner's (line_end+1)-text
// arithmetic does.
func splitKeepTerminator(source []byte) []string {
	var lines []string
	start := 0
	for i, b := range source {
		if b == '\n' {
			lines = append(lines, string(source[start:i+1]))
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, string(source[start:]))
	}
	return lines
}
