package apex

import (
	"net/url"
	"regexp"
	"strings"
)

// substituteVariables runs S4: replace every [%KEY] (and, when
// metadata_transforms is enabled, [%KEY:filter(:filter)*]) with the
// metadata value for KEY. Unknown keys are left literal. Ported from
// apex_metadata_replace_variables's two-pass scan-then-build, generalized
// with an added filter pipeline for the ":filter" suffix form.
func substituteVariables(source []byte, meta Metadata, opt Options) []byte {
	if len(meta) == 0 {
		return source
	}

	var out strings.Builder
	text := string(source)

	for {
		start := strings.Index(text, "[%")
		if start < 0 {
			out.WriteString(text)
			break
		}
		end := strings.IndexByte(text[start+2:], ']')
		if end < 0 {
			out.WriteString(text)
			break
		}
		end += start + 2

		out.WriteString(text[:start])

		token := text[start+2 : end]
		key, filters := token, []string(nil)
		if opt.MetadataTransforms {
			if idx := strings.IndexByte(token, ':'); idx >= 0 {
				key = token[:idx]
				filters = strings.Split(token[idx+1:], ":")
			}
		}

		if value, ok := meta.Get(key); ok {
			out.WriteString(applyFilters(value, filters))
		} else {
			out.WriteString(text[start : end+1])
		}

		text = text[end+1:]
	}

	return []byte(out.String())
}

var nonSlugRunes = regexp.MustCompile(`[^a-z0-9]+`)

// applyFilters implements the small pure-text transform pipeline
// metadata_transforms enables: lowercase, uppercase, url-slug, strip.
func applyFilters(value string, filters []string) string {
	for _, f := range filters {
		switch strings.TrimSpace(f) {
		case "lowercase":
			value = strings.ToLower(value)
		case "uppercase":
			value = strings.ToUpper(value)
		case "url-slug":
			slug := nonSlugRunes.ReplaceAllString(strings.ToLower(value), "-")
			value = strings.Trim(slug, "-")
		case "strip":
			value = strings.TrimSpace(value)
		case "url-escape":
			value = url.QueryEscape(value)
		}
	}
	return value
}
