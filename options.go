package apex

import "fmt"

// Mode selects a dialect preset.
type Mode string

const (
	ModeCommonMark Mode = "commonmark"
	ModeGFM        Mode = "gfm"
	ModeMMD        Mode = "mmd"
	ModeKramdown   Mode = "kramdown"
	ModeUnified    Mode = "unified"
)

// IDFormat selects the header-anchor slug algorithm.
type IDFormat string

const (
	IDFormatGFM      IDFormat = "gfm"
	IDFormatMMD      IDFormat = "mmd"
	IDFormatKramdown IDFormat = "kramdown"
)

// CriticMode selects how Critic Markup is resolved.
type CriticMode string

const (
	CriticAccept CriticMode = "accept"
	CriticReject CriticMode = "reject"
	CriticMarkup CriticMode = "markup"
)

// Options is the immutable, fully-resolved configuration produced by S1.
// Zero-value Options is not valid input to the pipeline stages; always
// construct one via ResolveOptions or OptionsForMode.
type Options struct {
	Mode Mode

	Unsafe          bool
	HardBreaks      bool
	Pretty          bool
	Standalone      bool
	DocumentTitle   string
	StylesheetPath  string
	BaseDirectory   string

	Tables              bool
	RelaxedTables       bool
	Footnotes           bool
	SmartTypography     bool
	Math                bool
	SupSub              bool
	Autolink            bool
	ObfuscateEmails     bool
	FileIncludes        bool
	CriticMarkup        bool
	Callouts            bool
	WikiLinks           bool
	MarkedExtensions    bool
	MMD6Features        bool
	MetadataTransforms  bool
	AlphaLists          bool
	MixedListMarkers    bool
	GenerateHeaderIDs   bool
	HeaderAnchors       bool

	IDFormat   IDFormat
	CriticMode CriticMode

	// BibliographyPath, when set, is loaded by S16 into a citation registry
	// and rendered as a references section.
	BibliographyPath string
}

// modePreset fully populates every gated field for a given Mode. Unknown
// modes are rejected by ResolveOptions before this is consulted.
func modePreset(mode Mode) Options {
	base := Options{
		Mode:              mode,
		BaseDirectory:     ".",
		GenerateHeaderIDs: true,
		CriticMode:        CriticMarkup,
	}

	switch mode {
	case ModeCommonMark:
		base.Unsafe = false
		base.Tables = false
		base.Footnotes = false
		base.SmartTypography = false
		base.Math = false
		base.SupSub = false
		base.Autolink = false
		base.FileIncludes = false
		base.CriticMarkup = false
		base.Callouts = false
		base.WikiLinks = false
		base.MarkedExtensions = false
		base.MMD6Features = false
		base.MetadataTransforms = false
		base.AlphaLists = false
		base.MixedListMarkers = false
		base.RelaxedTables = false
		base.IDFormat = IDFormatGFM

	case ModeGFM:
		base.Unsafe = false
		base.Tables = true
		base.Footnotes = true
		base.SmartTypography = false
		base.Math = false
		base.SupSub = false
		base.Autolink = true
		base.FileIncludes = false
		base.CriticMarkup = false
		base.Callouts = false
		base.WikiLinks = false
		base.MarkedExtensions = false
		base.MMD6Features = false
		base.MetadataTransforms = false
		base.AlphaLists = false
		base.MixedListMarkers = false
		base.RelaxedTables = false
		base.IDFormat = IDFormatGFM

	case ModeMMD:
		base.Unsafe = false
		base.Tables = true
		base.Footnotes = true
		base.SmartTypography = true
		base.Math = true
		base.SupSub = true
		base.Autolink = true
		base.FileIncludes = true
		base.CriticMarkup = true
		base.Callouts = false
		base.WikiLinks = false
		base.MarkedExtensions = true
		base.MMD6Features = true
		base.MetadataTransforms = true
		base.AlphaLists = false
		base.MixedListMarkers = false
		base.RelaxedTables = true
		base.IDFormat = IDFormatMMD

	case ModeKramdown:
		base.Unsafe = false
		base.Tables = true
		base.Footnotes = true
		base.SmartTypography = true
		base.Math = true
		base.SupSub = false
		base.Autolink = true
		base.FileIncludes = false
		base.CriticMarkup = false
		base.Callouts = true
		base.WikiLinks = true
		base.MarkedExtensions = false
		base.MMD6Features = false
		base.MetadataTransforms = false
		base.AlphaLists = true
		base.MixedListMarkers = true
		base.RelaxedTables = false
		base.IDFormat = IDFormatKramdown

	case ModeUnified:
		base.Unsafe = true
		base.Tables = true
		base.Footnotes = true
		base.SmartTypography = true
		base.Math = true
		base.SupSub = true
		base.Autolink = true
		base.FileIncludes = true
		base.CriticMarkup = true
		base.Callouts = true
		base.WikiLinks = true
		base.MarkedExtensions = true
		base.MMD6Features = true
		base.MetadataTransforms = true
		base.AlphaLists = true
		base.MixedListMarkers = true
		base.RelaxedTables = true
		base.IDFormat = IDFormatGFM
	}

	return base
}

// Override carries user-supplied overrides on top of a mode preset. A
// pointer field left nil means "use the preset's value"; this mirrors how a
// CLI flag set distinguishes "not passed" from "explicitly false".
type Override struct {
	Unsafe             *bool
	HardBreaks         *bool
	Pretty             *bool
	Standalone         *bool
	DocumentTitle      *string
	StylesheetPath     *string
	BaseDirectory      *string
	Tables             *bool
	RelaxedTables      *bool
	Footnotes          *bool
	SmartTypography    *bool
	Math               *bool
	SupSub             *bool
	Autolink           *bool
	ObfuscateEmails    *bool
	FileIncludes       *bool
	CriticMarkup       *bool
	Callouts           *bool
	WikiLinks          *bool
	MarkedExtensions   *bool
	MMD6Features       *bool
	MetadataTransforms *bool
	AlphaLists         *bool
	MixedListMarkers   *bool
	GenerateHeaderIDs  *bool
	HeaderAnchors      *bool
	IDFormat           *IDFormat
	CriticMode         *CriticMode
	BibliographyPath   *string
}

// OptionsForMode returns the fully-populated preset for mode with no
// overrides applied, mirroring an options_for_mode() library entry point.
func OptionsForMode(mode Mode) (Options, error) {
	if !validMode(mode) {
		return Options{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, mode)
	}
	return modePreset(mode), nil
}

// OptionsDefault returns the commonmark preset, mirroring an
// options_default() library entry point.
func OptionsDefault() Options {
	return modePreset(ModeCommonMark)
}

// ResolveOptions runs S1: apply the mode preset, then overlay the caller's
// explicit overrides, then resolve the fields the options language leaves
// implicit (id_format from mode; standalone implied by a stylesheet path).
func ResolveOptions(mode Mode, ov Override) (Options, error) {
	if !validMode(mode) {
		return Options{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, mode)
	}

	opt := modePreset(mode)
	applyOverride(&opt, ov)

	if ov.StylesheetPath != nil && *ov.StylesheetPath != "" && ov.Standalone == nil {
		opt.Standalone = true
	}
	if opt.BaseDirectory == "" {
		opt.BaseDirectory = "."
	}

	return opt, nil
}

func applyOverride(opt *Options, ov Override) {
	if ov.Unsafe != nil {
		opt.Unsafe = *ov.Unsafe
	}
	if ov.HardBreaks != nil {
		opt.HardBreaks = *ov.HardBreaks
	}
	if ov.Pretty != nil {
		opt.Pretty = *ov.Pretty
	}
	if ov.Standalone != nil {
		opt.Standalone = *ov.Standalone
	}
	if ov.DocumentTitle != nil {
		opt.DocumentTitle = *ov.DocumentTitle
	}
	if ov.StylesheetPath != nil {
		opt.StylesheetPath = *ov.StylesheetPath
	}
	if ov.BaseDirectory != nil {
		opt.BaseDirectory = *ov.BaseDirectory
	}
	if ov.Tables != nil {
		opt.Tables = *ov.Tables
	}
	if ov.RelaxedTables != nil {
		opt.RelaxedTables = *ov.RelaxedTables
	}
	if ov.Footnotes != nil {
		opt.Footnotes = *ov.Footnotes
	}
	if ov.SmartTypography != nil {
		opt.SmartTypography = *ov.SmartTypography
	}
	if ov.Math != nil {
		opt.Math = *ov.Math
	}
	if ov.SupSub != nil {
		opt.SupSub = *ov.SupSub
	}
	if ov.Autolink != nil {
		opt.Autolink = *ov.Autolink
	}
	if ov.ObfuscateEmails != nil {
		opt.ObfuscateEmails = *ov.ObfuscateEmails
	}
	if ov.FileIncludes != nil {
		opt.FileIncludes = *ov.FileIncludes
	}
	if ov.CriticMarkup != nil {
		opt.CriticMarkup = *ov.CriticMarkup
	}
	if ov.Callouts != nil {
		opt.Callouts = *ov.Callouts
	}
	if ov.WikiLinks != nil {
		opt.WikiLinks = *ov.WikiLinks
	}
	if ov.MarkedExtensions != nil {
		opt.MarkedExtensions = *ov.MarkedExtensions
	}
	if ov.MMD6Features != nil {
		opt.MMD6Features = *ov.MMD6Features
	}
	if ov.MetadataTransforms != nil {
		opt.MetadataTransforms = *ov.MetadataTransforms
	}
	if ov.AlphaLists != nil {
		opt.AlphaLists = *ov.AlphaLists
	}
	if ov.MixedListMarkers != nil {
		opt.MixedListMarkers = *ov.MixedListMarkers
	}
	if ov.GenerateHeaderIDs != nil {
		opt.GenerateHeaderIDs = *ov.GenerateHeaderIDs
	}
	if ov.HeaderAnchors != nil {
		opt.HeaderAnchors = *ov.HeaderAnchors
	}
	if ov.IDFormat != nil {
		opt.IDFormat = *ov.IDFormat
	} else {
		opt.IDFormat = idFormatForMode(opt.Mode)
	}
	if ov.CriticMode != nil {
		opt.CriticMode = *ov.CriticMode
	}
	if ov.BibliographyPath != nil {
		opt.BibliographyPath = *ov.BibliographyPath
	}
}

// idFormatForMode derives id_format from mode for the case a caller
// resolves options without ever touching id_format explicitly.
func idFormatForMode(mode Mode) IDFormat {
	switch mode {
	case ModeKramdown:
		return IDFormatKramdown
	case ModeMMD:
		return IDFormatMMD
	default:
		return IDFormatGFM
	}
}

func validMode(mode Mode) bool {
	switch mode {
	case ModeCommonMark, ModeGFM, ModeMMD, ModeKramdown, ModeUnified:
		return true
	default:
		return false
	}
}
