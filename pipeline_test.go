package apex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_FrontMatterVariableSubstitution(t *testing.T) {
	opt, err := OptionsForMode(ModeMMD)
	require.NoError(t, err)

	src := "---\ntitle: My Doc\nauthor: Jane\n---\n\n# [%title]\n\nBy [%author].\n"
	got, err := Convert([]byte(src), opt)
	require.NoError(t, err)

	assert.Contains(t, got, "My Doc")
	assert.Contains(t, got, "By Jane.")
	assert.NotContains(t, got, "[%title]")
}

func TestConvert_MetadataTransformFilter(t *testing.T) {
	opt, err := OptionsForMode(ModeMMD)
	require.NoError(t, err)

	src := "---\ntitle: Hello World\n---\n\n[%title:url-slug]\n"
	got, err := Convert([]byte(src), opt)
	require.NoError(t, err)

	assert.Contains(t, got, "hello-world")
}

func TestConvert_SmartTypographyCurlsQuotes(t *testing.T) {
	opt, err := OptionsForMode(ModeMMD)
	require.NoError(t, err)

	got, err := Convert([]byte(`She said "hello" -- then left.`+"\n"), opt)
	require.NoError(t, err)

	assert.Contains(t, got, "&ldquo;hello&rdquo;")
	assert.Contains(t, got, "&ndash;")
}

func TestConvert_SmartTypographyDisabledLeavesQuotesStraight(t *testing.T) {
	opt, err := OptionsForMode(ModeCommonMark)
	require.NoError(t, err)

	got, err := Convert([]byte(`She said "hello".`+"\n"), opt)
	require.NoError(t, err)

	assert.NotContains(t, got, "&ldquo;")
	assert.NotContains(t, got, "&rdquo;")
}

func TestConvert_FootnotesRenderSection(t *testing.T) {
	opt, err := OptionsForMode(ModeGFM)
	require.NoError(t, err)

	src := "A claim[^1].\n\n[^1]: The source.\n"
	got, err := Convert([]byte(src), opt)
	require.NoError(t, err)

	assert.Contains(t, got, `class="footnote`)
	assert.Contains(t, got, "The source.")
}

func TestConvert_StandaloneAndPrettyTogether(t *testing.T) {
	opt, err := OptionsForMode(ModeCommonMark)
	require.NoError(t, err)
	opt.Standalone = true
	opt.Pretty = true
	opt.DocumentTitle = "Doc Title"

	got, err := Convert([]byte("# Heading\n\nBody text.\n"), opt)
	require.NoError(t, err)

	assert.Contains(t, got, "<!DOCTYPE html>")
	assert.Contains(t, got, "<title>Doc Title</title>")
	lines := strings.Split(got, "\n")
	assert.Greater(t, len(lines), 3)
}

func TestConvert_RelaxedTablesKeepSeparatorTable(t *testing.T) {
	opt, err := OptionsForMode(ModeMMD)
	require.NoError(t, err)

	src := "H1 | H2\n---|---\nA | B\n"
	got, err := Convert([]byte(src), opt)
	require.NoError(t, err)

	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<td>A</td>")
}
