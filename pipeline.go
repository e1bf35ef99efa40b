package apex

import (
	"bytes"
)

// Convert runs the full conversion pipeline over source and returns the
// produced HTML, mirroring a markdown_to_html() library entry point. Its
// shape follows a linear sequence of named steps, each returning
// (result, error), aborting on the first error.
func Convert(source []byte, opt Options) (string, error) {
	// S2: metadata extract.
	body, meta, _ := extractMetadata(source)

	// S3: include expand.
	body, err := expandIncludes(body, opt)
	if err != nil {
		return "", err
	}

	// S4: variable substitute.
	body = substituteVariables(body, meta, opt)

	// S5: Critic rewrite.
	body = rewriteCritic(body, opt)

	// S6: inline span pre (sup/sub/underline/highlight).
	body = rewriteInlineSpans(body, opt)

	// S7: definition lists.
	body = rewriteDefinitionLists(body, opt)

	// S8: abbreviations.
	body = rewriteAbbreviations(body, opt)

	// S9: callouts.
	body = rewriteCallouts(body, opt)

	// S10: relaxed table promotion.
	body = rewriteRelaxedTables(body, opt)

	// Text-level normalization immediately before S11 parsing: the two
	// non-standard inline footnote spellings are rewritten first, then
	// alpha-list markers last of all, since normalizeAlphaLists records
	// byte offsets against the exact bytes handed to parseDocument and
	// nothing may rewrite the body after it runs.
	body = normalizeInlineFootnotes(body, opt)
	body, alphaRuns := normalizeAlphaLists(body, opt)

	// S11: Markdown parse.
	md, doc, nodeRenderer := parseDocument(body, opt, alphaRuns)

	// S12: math/wiki/special nodes.
	runSpecialNodes(doc, body, opt)

	// S15 runs at the AST level (before render) since goldmark already
	// hands us a structured table grid; see tablepost.go.
	runTablePost(doc, body, opt, nodeRenderer.tbl)

	// S13: HTML render.
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, doc); err != nil {
		return "", err
	}
	html := buf.String()

	// S14: TOC inject.
	html = injectTOC(html)

	// S16: footnote/citation finalize. Goldmark's extension.Footnote
	// already rendered the footnotes section during S13 (it owns
	// numbering and back-references); this stage only handles citations
	// and the optional bibliography.
	html, err = finalizeCitations(html, opt)
	if err != nil {
		return "", err
	}

	// S17: standalone wrap.
	html = wrapStandalone(html, opt, meta)

	// S18: pretty print.
	if opt.Pretty {
		html = prettyPrint(html)
	}

	return html, nil
}
