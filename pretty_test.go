package apex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyPrint_IndentsNestedBlocks(t *testing.T) {
	html := "<div><p>hello</p></div>"
	got := prettyPrint(html)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, "<div>", lines[0])
	assert.Equal(t, "  <p>hello</p>", lines[1])
	assert.Equal(t, "</div>", lines[2])
}

func TestPrettyPrint_KeepsInlineContentOnOneLine(t *testing.T) {
	html := "<p>hello <em>world</em> and <a href=\"#\">link</a></p>"
	got := prettyPrint(html)

	assert.Equal(t, 1, strings.Count(strings.TrimRight(got, "\n"), "\n")+1)
	assert.Contains(t, got, "hello <em>world</em> and")
}

func TestPrettyPrint_PreContentsUntouched(t *testing.T) {
	html := "<pre>line1\n   line2\nline3</pre>"
	got := prettyPrint(html)

	assert.Contains(t, got, "<pre>line1\n   line2\nline3</pre>")
}

func TestPrettyPrint_VoidTagsDoNotIndent(t *testing.T) {
	html := "<div><hr></div>"
	got := prettyPrint(html)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, "  <hr>", lines[1])
	assert.Equal(t, "</div>", lines[2])
}
