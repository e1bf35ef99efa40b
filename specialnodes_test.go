package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MathInlineAndDisplay(t *testing.T) {
	opt, err := OptionsForMode(ModeUnified)
	require.NoError(t, err)

	got, err := Convert([]byte("Energy is $E=mc^2$ famously.\n\n$$\\int_0^1 x\\,dx$$\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `<span class="math inline">E=mc^2</span>`)
	assert.Contains(t, got, `class="math display"`)
}

func TestConvert_MathDisabledLeavesDollarsLiteral(t *testing.T) {
	opt, err := OptionsForMode(ModeCommonMark)
	require.NoError(t, err)

	got, err := Convert([]byte("price is $5 today\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, "$5")
	assert.NotContains(t, got, "math inline")
}

func TestConvert_WikiLinkPageOnly(t *testing.T) {
	opt, err := OptionsForMode(ModeKramdown)
	require.NoError(t, err)

	got, err := Convert([]byte("See [[Home]] for more.\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `class="wiki-link"`)
	assert.Contains(t, got, `href="Home"`)
	assert.Contains(t, got, ">Home</a>")
}

func TestConvert_WikiLinkAliasAndSection(t *testing.T) {
	opt, err := OptionsForMode(ModeKramdown)
	require.NoError(t, err)

	got, err := Convert([]byte("See [[Home#intro|go home]] now.\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `href="Home#intro"`)
	assert.Contains(t, got, ">go home<")
}

func TestConvert_PageBreakMarkers(t *testing.T) {
	opt, err := OptionsForMode(ModeUnified)
	require.NoError(t, err)

	got, err := Convert([]byte("before\n\n<!--BREAK-->\n\nafter\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `<div class="page-break"></div>`)
}

func TestConvert_KramdownPageBreakMarker(t *testing.T) {
	opt, err := OptionsForMode(ModeUnified)
	require.NoError(t, err)

	got, err := Convert([]byte("before\n\n{::pagebreak/}\n\nafter\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `<div class="page-break"></div>`)
}

func TestConvert_PauseSpanWhenMathEnabled(t *testing.T) {
	opt, err := OptionsForMode(ModeMMD)
	require.NoError(t, err)

	got, err := Convert([]byte("Wait <!--PAUSE:2.5--> here.\n"), opt)
	require.NoError(t, err)
	assert.Contains(t, got, `data-seconds="2.5"`)
}
