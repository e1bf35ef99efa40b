package apex

import "strings"

// escapeHTMLText escapes the four characters & < > " in text content; the
// single quote is left as is. Shared by S3's code-include rendering and
// S13's render pass so both escape exactly the same way.
var htmlTextEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeHTMLText(s string) string {
	return htmlTextEscaper.Replace(s)
}

// passthroughSentinel wraps HTML that Apex itself generated during a
// text-level preprocessing pass (S7 definition lists, S9 callouts) so it
// survives S11 parsing as a single HTML block and is restored verbatim by
// S13's renderer regardless of the unsafe option. unsafe governs raw HTML
// the *user* wrote; it was never meant to gate Apex's own synthesized
// markup, so passthrough content is tracked separately from ast.HTMLBlock
// the way S3's raw-HTML include sentinel already is.
const passthroughSentinel = "APEX_PASSTHROUGH"

func wrapPassthrough(html string) string {
	return "<!--" + passthroughSentinel + "-->" + html + "<!--/" + passthroughSentinel + "-->"
}
