package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectTOC_NoMarkerIsUntouched(t *testing.T) {
	html := `<h1 id="intro">Intro</h1><p>hello</p>`
	assert.Equal(t, html, injectTOC(html))
}

func TestInjectTOC_CommentMarker(t *testing.T) {
	html := `<!--TOC--><h1 id="intro">Intro</h1><h2 id="details">Details</h2>`
	got := injectTOC(html)

	assert.Contains(t, got, `<a href="#intro">Intro</a>`)
	assert.Contains(t, got, `<a href="#details">Details</a>`)
	assert.NotContains(t, got, "<!--TOC-->")
}

func TestInjectTOC_CommentMarkerMaxDepth(t *testing.T) {
	html := `<!--TOC max1--><h1 id="a">A</h1><h2 id="b">B</h2>`
	got := injectTOC(html)

	assert.Contains(t, got, `<a href="#a">A</a>`)
	assert.NotContains(t, got, `href="#b"`)
}

func TestInjectTOC_BraceMarkerRange(t *testing.T) {
	html := `{{TOC:2-3}}<h1 id="a">A</h1><h2 id="b">B</h2><h3 id="c">C</h3>`
	got := injectTOC(html)

	assert.NotContains(t, got, `href="#a"`)
	assert.Contains(t, got, `href="#b"`)
	assert.Contains(t, got, `href="#c"`)
}

func TestInjectTOC_NestsByLevel(t *testing.T) {
	html := `<!--TOC--><h1 id="top">Top</h1><h2 id="child">Child</h2>`
	got := injectTOC(html)

	topIdx := indexOf(got, `href="#top"`)
	ulIdx := indexOf(got, `<ul class="toc">`)
	childIdx := indexOf(got, `href="#child"`)

	assert.GreaterOrEqual(t, topIdx, 0)
	assert.GreaterOrEqual(t, childIdx, topIdx)
	assert.GreaterOrEqual(t, ulIdx, 0)
}

func TestInjectTOC_HeaderAnchorForm(t *testing.T) {
	html := `<!--TOC--><h2><a class="anchor" id="anchored" aria-hidden="true" href="#anchored"></a>Anchored</h2>`
	got := injectTOC(html)
	assert.Contains(t, got, `href="#anchored">Anchored</a>`)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
