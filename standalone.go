package apex

import (
	"strings"
	"text/template"
)

// standaloneTemplate is the fixed HTML5 document shell used for standalone
// output. A single static template, not a page-templating engine, since
// the shell never varies beyond title/stylesheet/body.
var standaloneTemplate = template.Must(template.New("standalone").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{if .StylesheetHref}}<link rel="stylesheet" href="{{.StylesheetHref}}">
{{else}}<style>{{.DefaultStyle}}</style>
{{end}}</head>
<body>
{{.Body}}
</body>
</html>
`))

// defaultStandaloneStyle is the inline style used when no stylesheet_path
// is configured: a minimal readable body default.
const defaultStandaloneStyle = `body{max-width:42rem;margin:2rem auto;padding:0 1rem;font-family:system-ui,sans-serif;line-height:1.6}
pre,code{font-family:ui-monospace,monospace}
pre{overflow-x:auto;padding:0.75rem;background:#f5f5f5}
table{border-collapse:collapse}
td,th{border:1px solid #ccc;padding:0.3rem 0.6rem}`

// wrapStandalone implements S17: wrap a rendered fragment in HTML5
// boilerplate when opt.Standalone is set. Title falls back to "Untitled"
// when neither document_title nor a title metadata entry is present.
func wrapStandalone(body string, opt Options, meta Metadata) string {
	if !opt.Standalone {
		return body
	}

	title := opt.DocumentTitle
	if title == "" {
		if v, ok := meta.Get("title"); ok {
			title = v
		}
	}
	if title == "" {
		title = "Untitled"
	}

	data := struct {
		Title          string
		StylesheetHref string
		DefaultStyle   string
		Body           string
	}{
		Title:          title,
		StylesheetHref: opt.StylesheetPath,
		DefaultStyle:   defaultStandaloneStyle,
		Body:           body,
	}

	var b strings.Builder
	if err := standaloneTemplate.Execute(&b, data); err != nil {
		return body
	}
	return b.String()
}
