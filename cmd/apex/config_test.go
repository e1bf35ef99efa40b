package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jowie27/apex"
)

func newTestFlags(t *testing.T, args []string) (*Config, *pflag.FlagSet) {
	t.Helper()
	cfg := &Config{}
	flags := pflag.NewFlagSet("apex", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return cfg, flags
}

func TestBuildOptions_DefaultsToCommonMarkPreset(t *testing.T) {
	cfg, flags := newTestFlags(t, nil)
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.Equal(t, apex.ModeCommonMark, opt.Mode)
	assert.False(t, opt.Tables)
}

func TestBuildOptions_ModeSelectsPreset(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--mode", "gfm"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.Equal(t, apex.ModeGFM, opt.Mode)
	assert.True(t, opt.Tables)
}

func TestBuildOptions_NoTablesOverridesEvenInGFM(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--mode", "gfm", "--no-tables"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.False(t, opt.Tables)
}

func TestBuildOptions_StyleImpliesStandalone(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--style", "theme.css"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.True(t, opt.Standalone)
	assert.Equal(t, "theme.css", opt.StylesheetPath)
}

func TestBuildOptions_BoolPairNoFlagDisables(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--mode", "kramdown", "--no-alpha-lists"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.False(t, opt.AlphaLists)
}

func TestBuildOptions_BoolPairOnFlagEnables(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--alpha-lists"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.True(t, opt.AlphaLists)
}

func TestBuildOptions_BoolPairUnsetLeavesPreset(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--mode", "kramdown"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.True(t, opt.AlphaLists) // kramdown preset already enables it
}

func TestBuildOptions_AcceptAndRejectConflict(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--accept", "--reject"})
	_, err := cfg.buildOptions(flags)
	assert.Error(t, err)
}

func TestBuildOptions_AcceptSetsCriticMode(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--mode", "mmd", "--accept"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.Equal(t, apex.CriticAccept, opt.CriticMode)
}

func TestBuildOptions_BibliographyPathPassedThrough(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--bibliography", "refs.json"})
	opt, err := cfg.buildOptions(flags)
	require.NoError(t, err)
	assert.Equal(t, "refs.json", opt.BibliographyPath)
}

func TestBuildOptions_UnknownModeErrors(t *testing.T) {
	cfg, flags := newTestFlags(t, []string{"--mode", "bogus"})
	_, err := cfg.buildOptions(flags)
	assert.Error(t, err)
}
