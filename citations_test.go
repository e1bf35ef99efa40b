package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jowie27/apex/citation"
)

func TestProcessCitations_PandocBracketed(t *testing.T) {
	html := "<p>a claim [@smith2020].</p>"
	got, sites := processCitations(html, OptionsDefault())

	require.Len(t, sites, 1)
	assert.Equal(t, "smith2020", sites[0].key)
	assert.Contains(t, got, `class="citation"`)
	assert.Contains(t, got, "smith2020")
}

func TestProcessCitations_PandocWithLocator(t *testing.T) {
	html := "<p>see [see @smith2020, pp. 33-35].</p>"
	got, sites := processCitations(html, OptionsDefault())

	require.Len(t, sites, 1)
	assert.Equal(t, "smith2020", sites[0].key)
	assert.Equal(t, "pp. 33-35", sites[0].locator)
	assert.Contains(t, got, "pp. 33-35")
}

func TestProcessCitations_MultiMarkdownLocator(t *testing.T) {
	html := "<p>text [p. 23][#jones2019].</p>"
	got, sites := processCitations(html, OptionsDefault())

	require.Len(t, sites, 1)
	assert.Equal(t, "jones2019", sites[0].key)
	assert.Equal(t, "p. 23", sites[0].locator)
	assert.Contains(t, got, "jones2019")
}

func TestProcessCitations_MultiMarkdownBare(t *testing.T) {
	html := "<p>text [#jones2019].</p>"
	_, sites := processCitations(html, OptionsDefault())

	require.Len(t, sites, 1)
	assert.Equal(t, "jones2019", sites[0].key)
}

func TestProcessCitations_AuthorInText(t *testing.T) {
	html := "<p>@smith2020 argues that this is true.</p>"
	_, sites := processCitations(html, OptionsDefault())

	require.Len(t, sites, 1)
	assert.True(t, sites[0].authorInText)
	assert.Equal(t, "smith2020", sites[0].key)
}

func TestProcessReferences_AppendsWhenNoMarker(t *testing.T) {
	data := []byte(`[{"id":"smith2020","title":"A Title","author":[{"family":"Smith","given":"J."}],"issued":{"date-parts":[[2020]]}}]`)
	reg, err := citation.ParseCSLJSON(data)
	require.NoError(t, err)

	sites := []citationSite{{key: "smith2020"}}
	got := processReferences("<p>body</p>", sites, reg)

	assert.Contains(t, got, `<div class="references">`)
	assert.Contains(t, got, "A Title")
}

func TestProcessReferences_NoBibliographyIsNoop(t *testing.T) {
	html := "<p>body</p>"
	got := processReferences(html, []citationSite{{key: "x"}}, nil)
	assert.Equal(t, html, got)
}
