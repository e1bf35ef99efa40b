package apex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Jowie27/apex/citation"
)

// finalizeCitations runs the citation half of S16 end-to-end: scan the
// rendered HTML for citation syntax, then render a references section when
// a bibliography was configured.
func finalizeCitations(html string, opt Options) (string, error) {
	var biblio *citation.Registry
	if opt.BibliographyPath != "" {
		reg, err := citation.LoadFile(opt.BibliographyPath)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBibliographyParse, err)
		}
		biblio = reg
	}

	html, sites := processCitations(html, opt)
	html = processReferences(html, sites, biblio)
	return html, nil
}

// citationSite is one in-text citation occurrence, grounded on
// original_source/src/extensions/citations.h's apex_citation struct.
type citationSite struct {
	key              string
	prefix           string
	locator          string
	authorSuppressed bool
	authorInText     bool
	syntax           string // "pandoc", "mmd", "mmark"
}

var (
	mmdLocatorCiteRe = regexp.MustCompile(`\[([^\]]*)\]\[#([\w:.#$%&+/-]+)\]`)
	mmdCiteRe        = regexp.MustCompile(`\[#([\w:.#$%&+/-]+)\]`)
	pandocGroupRe    = regexp.MustCompile(`\[([^\[\]]*@[^\[\]]*)\]`)
	citeUnitRe       = regexp.MustCompile(`^\s*(.*?)\s*(-)?@(!)?([A-Za-z][\w:.#$%&+/-]*)\s*(?:,\s*(.*?)\s*)?$`)
	// The leading alternation includes '>' because this scan runs over
	// already-rendered HTML: an in-text citation opening a paragraph reads
	// as "<p>@key ..." with no whitespace between the tag and the '@'.
	authorInTextRe = regexp.MustCompile(`(^|[\s(>])@([A-Za-z][\w:.#$%&+/-]*)`)
)

// processCitations runs the citation half of reference resolution over
// already-rendered HTML: every bracketed/in-text citation of the three
// supported families (Pandoc, MultiMarkdown, mmark) is collected into an
// ordered registry and replaced with a span carrying the formatted
// in-text citation; processReferences (below) then renders the cited
// bibliography entries.
func processCitations(html string, opt Options) (string, []citationSite) {
	var sites []citationSite

	html = mmdLocatorCiteRe.ReplaceAllStringFunc(html, func(m string) string {
		sub := mmdLocatorCiteRe.FindStringSubmatch(m)
		site := citationSite{key: sub[2], locator: sub[1], syntax: "mmd"}
		sites = append(sites, site)
		return renderCitationSpan([]citationSite{site}, opt)
	})

	html = mmdCiteRe.ReplaceAllStringFunc(html, func(m string) string {
		sub := mmdCiteRe.FindStringSubmatch(m)
		site := citationSite{key: sub[1], syntax: "mmd"}
		sites = append(sites, site)
		return renderCitationSpan([]citationSite{site}, opt)
	})

	html = pandocGroupRe.ReplaceAllStringFunc(html, func(m string) string {
		sub := pandocGroupRe.FindStringSubmatch(m)
		units := strings.Split(sub[1], ";")
		var group []citationSite
		for _, u := range units {
			cm := citeUnitRe.FindStringSubmatch(u)
			if cm == nil {
				continue
			}
			syntax := "pandoc"
			if cm[1] == "" && cm[5] == "" && len(units) > 1 {
				syntax = "mmark"
			}
			group = append(group, citationSite{
				key:              cm[4],
				prefix:           strings.TrimSpace(cm[1]),
				locator:          strings.TrimSpace(cm[5]),
				authorSuppressed: cm[2] == "-",
				syntax:           syntax,
			})
		}
		if len(group) == 0 {
			return m
		}
		sites = append(sites, group...)
		return renderCitationSpan(group, opt)
	})

	html = authorInTextRe.ReplaceAllStringFunc(html, func(m string) string {
		sub := authorInTextRe.FindStringSubmatch(m)
		site := citationSite{key: sub[2], syntax: "pandoc", authorInText: true}
		sites = append(sites, site)
		return sub[1] + renderCitationSpan([]citationSite{site}, opt)
	})

	return html, sites
}

func renderCitationSpan(group []citationSite, opt Options) string {
	var parts []string
	for _, c := range group {
		label := c.key
		if c.prefix != "" {
			label = c.prefix + " " + label
		}
		if c.locator != "" {
			label = label + ", " + c.locator
		}
		parts = append(parts, label)
	}
	keys := make([]string, len(group))
	for i, c := range group {
		keys[i] = c.key
	}
	return fmt.Sprintf(`<span class="citation" data-keys="%s">(%s)</span>`,
		strings.Join(keys, ","), strings.Join(parts, "; "))
}

// processReferences runs the bibliography-rendering half: when a
// bibliography is loaded, a "<div class=\"references\">" listing the cited
// entries (in citation order, deduplicated) is inserted at an
// "<!-- REFERENCES -->" marker, or appended to the document end if no
// marker is present.
func processReferences(html string, sites []citationSite, biblio *citation.Registry) string {
	if biblio == nil || len(sites) == 0 {
		return html
	}

	seen := map[string]bool{}
	var ordered []*citation.Entry
	for _, s := range sites {
		if seen[s.key] {
			continue
		}
		seen[s.key] = true
		if e, ok := biblio.Find(s.key); ok {
			ordered = append(ordered, e)
		}
	}
	if len(ordered) == 0 {
		return html
	}

	var b strings.Builder
	b.WriteString(`<div class="references">` + "\n<ol>\n")
	for _, e := range ordered {
		b.WriteString("<li id=\"ref-" + e.ID + "\">")
		b.WriteString(formatReference(e))
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n</div>\n")

	const marker = "<!-- REFERENCES -->"
	if idx := strings.Index(html, marker); idx >= 0 {
		return html[:idx] + b.String() + html[idx+len(marker):]
	}
	return html + b.String()
}

func formatReference(e *citation.Entry) string {
	var parts []string
	if e.Author != "" {
		parts = append(parts, e.Author+".")
	}
	if e.Year != "" {
		parts = append(parts, "("+e.Year+").")
	}
	if e.Title != "" {
		parts = append(parts, e.Title+".")
	}
	if e.ContainerTitle != "" {
		parts = append(parts, e.ContainerTitle+".")
	}
	if e.Volume != "" {
		parts = append(parts, "vol. "+e.Volume+".")
	}
	if e.Page != "" {
		parts = append(parts, "pp. "+e.Page+".")
	}
	if e.Publisher != "" {
		parts = append(parts, e.Publisher+".")
	}
	return strings.Join(parts, " ")
}
