package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata_YAML(t *testing.T) {
	src := []byte("---\ntitle: Hello\nauthor: Jane\n---\nBody text\n")
	body, meta, format := extractMetadata(src)

	assert.Equal(t, metadataYAML, format)
	assert.Contains(t, string(body), "Body text")
	assert.NotContains(t, string(body), "title:")
	v, ok := meta.Get("Title")
	require.True(t, ok)
	assert.Equal(t, "Hello", v)
}

func TestExtractMetadata_Pandoc(t *testing.T) {
	src := []byte("% My Title\n% Jane Doe\n% 2024-01-01\n\nBody.\n")
	body, meta, format := extractMetadata(src)

	assert.Equal(t, metadataPandocTitle, format)
	assert.Equal(t, "\nBody.\n", string(body))
	v, ok := meta.Get("title")
	require.True(t, ok)
	assert.Equal(t, "My Title", v)
	v, ok = meta.Get("author")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", v)
}

func TestExtractMetadata_MMD(t *testing.T) {
	src := []byte("Title: My Doc\nAuthor: Jane\n\nBody.\n")
	body, meta, format := extractMetadata(src)

	assert.Equal(t, metadataMMD, format)
	assert.Equal(t, "Body.\n", string(body))
	v, ok := meta.Get("title")
	require.True(t, ok)
	assert.Equal(t, "My Doc", v)
}

func TestExtractMetadata_MMDStopsAtHeading(t *testing.T) {
	src := []byte("Title: My Doc\n# Heading\n\nBody.\n")
	_, meta, format := extractMetadata(src)

	assert.Equal(t, metadataMMD, format)
	require.Len(t, meta, 1)
	v, ok := meta.Get("title")
	require.True(t, ok)
	assert.Equal(t, "My Doc", v)
}

func TestExtractMetadata_MMDRejectsBareURL(t *testing.T) {
	src := []byte("http://example.com: not metadata\n\nBody.\n")
	body, _, format := extractMetadata(src)

	assert.Equal(t, metadataNone, format)
	assert.Equal(t, src, body)
}

func TestExtractMetadata_NoneWhenNoMatch(t *testing.T) {
	src := []byte("Just a plain paragraph.\n")
	body, meta, format := extractMetadata(src)

	assert.Equal(t, metadataNone, format)
	assert.Nil(t, meta)
	assert.Equal(t, src, body)
}

func TestMetadata_GetCaseInsensitive(t *testing.T) {
	m := Metadata{{Key: "Title", Value: "X"}}
	v, ok := m.Get("TITLE")
	require.True(t, ok)
	assert.Equal(t, "X", v)
}

func TestMetadata_GetMissingKey(t *testing.T) {
	m := Metadata{{Key: "title", Value: "X"}}
	_, ok := m.Get("author")
	assert.False(t, ok)
}

func TestSplitKeepTerminator(t *testing.T) {
	lines := splitKeepTerminator([]byte("a\nb\nc"))
	require.Len(t, lines, 3)
	assert.Equal(t, "a\n", lines[0])
	assert.Equal(t, "b\n", lines[1])
	assert.Equal(t, "c", lines[2])
}
