package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_HeaderAnchorsWrapID(t *testing.T) {
	opt := OptionsDefault()
	opt.HeaderAnchors = true

	got, err := Convert([]byte("# Hello World\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `<a class="anchor" id="hello-world" aria-hidden="true" href="#hello-world"></a>`)
	assert.Contains(t, got, "<h1>")
	assert.NotContains(t, got, `<h1 id=`)
}

func TestConvert_HeaderWithoutAnchorsUsesPlainID(t *testing.T) {
	opt := OptionsDefault()
	opt.HeaderAnchors = false

	got, err := Convert([]byte("# Hello World\n"), opt)
	require.NoError(t, err)
	assert.NotContains(t, got, `class="anchor"`)
}

func TestConvert_DefinitionListRendersAsPassthroughHTML(t *testing.T) {
	opt, err := OptionsForMode(ModeMMD)
	require.NoError(t, err)

	got, err := Convert([]byte("Term\n:   Definition text\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, "<dl>")
	assert.Contains(t, got, "<dt>Term</dt>")
	assert.Contains(t, got, "<dd>Definition text</dd>")
	assert.NotContains(t, got, "APEX_PASSTHROUGH")
}

func TestConvert_CalloutRendersAsPassthroughHTML(t *testing.T) {
	opt, err := OptionsForMode(ModeKramdown)
	require.NoError(t, err)

	got, err := Convert([]byte("> [!NOTE]\n> Heads up.\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `class="callout`)
	assert.NotContains(t, got, "APEX_PASSTHROUGH")
}
