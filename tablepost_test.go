package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePost_RowspanFromCaretMarker(t *testing.T) {
	opt, err := OptionsForMode(ModeGFM)
	require.NoError(t, err)
	opt.Tables = true

	src := "| H1 | H2 |\n|----|----|\n| A  | B  |\n| ^^ | C  |\n"
	got, err := Convert([]byte(src), opt)
	require.NoError(t, err)

	assert.Contains(t, got, `rowspan="2"`)
	assert.NotContains(t, got, "^^")
}

func TestTablePost_EmptyCellColspan(t *testing.T) {
	opt, err := OptionsForMode(ModeGFM)
	require.NoError(t, err)
	opt.Tables = true

	src := "| H1 | H2 | H3 |\n|----|----|----|\n| A  |    |    |\n"
	got, err := Convert([]byte(src), opt)
	require.NoError(t, err)

	assert.Contains(t, got, `colspan="3"`)
}

func TestTablePost_CaptionWrapsFigure(t *testing.T) {
	opt, err := OptionsForMode(ModeGFM)
	require.NoError(t, err)
	opt.Tables = true

	src := "[My Caption]\n\n| H1 | H2 |\n|----|----|\n| A  | B  |\n"
	got, err := Convert([]byte(src), opt)
	require.NoError(t, err)

	assert.Contains(t, got, `<figure class="table-figure">`)
	assert.Contains(t, got, "<figcaption>My Caption</figcaption>")
}
