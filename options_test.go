package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsForMode_Presets(t *testing.T) {
	tests := map[string]struct {
		mode       Mode
		wantTables bool
		wantUnsafe bool
		wantFormat IDFormat
	}{
		"commonmark": {ModeCommonMark, false, false, IDFormatGFM},
		"gfm":        {ModeGFM, true, false, IDFormatGFM},
		"mmd":        {ModeMMD, true, false, IDFormatMMD},
		"kramdown":   {ModeKramdown, true, false, IDFormatKramdown},
		"unified":    {ModeUnified, true, true, IDFormatGFM},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			opt, err := OptionsForMode(tc.mode)
			require.NoError(t, err)
			assert.Equal(t, tc.mode, opt.Mode)
			assert.Equal(t, tc.wantTables, opt.Tables)
			assert.Equal(t, tc.wantUnsafe, opt.Unsafe)
			assert.Equal(t, tc.wantFormat, opt.IDFormat)
		})
	}
}

func TestOptionsForMode_UnknownModeErrors(t *testing.T) {
	_, err := OptionsForMode(Mode("bogus"))
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestOptionsDefault_IsCommonMark(t *testing.T) {
	opt := OptionsDefault()
	assert.Equal(t, ModeCommonMark, opt.Mode)
	assert.False(t, opt.Tables)
}

func TestResolveOptions_OverrideWinsOverPreset(t *testing.T) {
	tables := true
	opt, err := ResolveOptions(ModeCommonMark, Override{Tables: &tables})
	require.NoError(t, err)
	assert.True(t, opt.Tables)
}

func TestResolveOptions_NilOverrideLeavesPreset(t *testing.T) {
	opt, err := ResolveOptions(ModeGFM, Override{})
	require.NoError(t, err)
	assert.True(t, opt.Tables) // GFM preset already enables tables
}

func TestResolveOptions_StylesheetImpliesStandaloneWhenUnset(t *testing.T) {
	path := "style.css"
	opt, err := ResolveOptions(ModeCommonMark, Override{StylesheetPath: &path})
	require.NoError(t, err)
	assert.True(t, opt.Standalone)
	assert.Equal(t, "style.css", opt.StylesheetPath)
}

func TestResolveOptions_ExplicitStandaloneFalseOverridesStylesheetImplication(t *testing.T) {
	path := "style.css"
	standalone := false
	opt, err := ResolveOptions(ModeCommonMark, Override{StylesheetPath: &path, Standalone: &standalone})
	require.NoError(t, err)
	assert.False(t, opt.Standalone)
}

func TestResolveOptions_IDFormatDerivedFromModeWhenUnset(t *testing.T) {
	opt, err := ResolveOptions(ModeKramdown, Override{})
	require.NoError(t, err)
	assert.Equal(t, IDFormatKramdown, opt.IDFormat)
}

func TestResolveOptions_ExplicitIDFormatOverridesModeDerivation(t *testing.T) {
	f := IDFormatMMD
	opt, err := ResolveOptions(ModeKramdown, Override{IDFormat: &f})
	require.NoError(t, err)
	assert.Equal(t, IDFormatMMD, opt.IDFormat)
}

func TestResolveOptions_UnknownModeErrors(t *testing.T) {
	_, err := ResolveOptions(Mode("nope"), Override{})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestResolveOptions_DefaultsBaseDirectory(t *testing.T) {
	opt, err := ResolveOptions(ModeCommonMark, Override{})
	require.NoError(t, err)
	assert.Equal(t, ".", opt.BaseDirectory)
}
