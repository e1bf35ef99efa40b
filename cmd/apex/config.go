package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/Jowie27/apex"
)

// Config holds CLI flag values for the conversion, bridging command-line
// flags to an apex.Override the way MacroPower-x/magicschema/config.go's
// Config bridges its own CLI flags to a Generator.
type Config struct {
	Mode       string
	Output     string
	Standalone bool
	Style      string
	Title      string
	Pretty     bool
	HardBreaks bool

	EnableIncludes bool
	NoTables       bool
	NoFootnotes    bool
	NoSmart        bool
	NoMath         bool
	NoIDs          bool
	HeaderAnchors  bool
	IDFormat       string

	AlphaLists    bool
	NoAlphaLists  bool
	MixedLists    bool
	NoMixedLists  bool
	Autolink      bool
	NoAutolink    bool
	ObfuscateMail bool
	Relaxed       bool
	NoRelaxed     bool
	SupSub        bool
	NoSupSub      bool
	Unsafe        bool
	NoUnsafe      bool

	Accept bool
	Reject bool

	Bibliography string
}

// RegisterFlags adds apex's CLI flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Mode, "mode", "m", "commonmark",
		"dialect preset: commonmark, gfm, mmd, kramdown, unified")
	flags.StringVarP(&c.Output, "output", "o", "-",
		"output file path (- for stdout)")
	flags.BoolVarP(&c.Standalone, "standalone", "s", false,
		"wrap output in a complete HTML document")
	flags.StringVar(&c.Style, "style", "",
		"stylesheet path to link from a standalone document (implies --standalone)")
	flags.StringVar(&c.Title, "title", "",
		"standalone document title")
	flags.BoolVar(&c.Pretty, "pretty", false,
		"indent block-level HTML tags")
	flags.BoolVar(&c.HardBreaks, "hardbreaks", false,
		"render single newlines as <br>")

	flags.BoolVar(&c.EnableIncludes, "enable-includes", false,
		"resolve file transclusion directives")
	flags.BoolVar(&c.NoTables, "no-tables", false,
		"disable GFM tables")
	flags.BoolVar(&c.NoFootnotes, "no-footnotes", false,
		"disable footnotes")
	flags.BoolVar(&c.NoSmart, "no-smart", false,
		"disable smart typography")
	flags.BoolVar(&c.NoMath, "no-math", false,
		"disable math spans")
	flags.BoolVar(&c.NoIDs, "no-ids", false,
		"disable header id generation")
	flags.BoolVar(&c.HeaderAnchors, "header-anchors", false,
		"wrap generated header ids in anchor links")
	flags.StringVar(&c.IDFormat, "id-format", "",
		"header id slug algorithm: gfm, mmd, kramdown (defaults from mode)")

	flags.BoolVar(&c.AlphaLists, "alpha-lists", false, "enable a./b./c. ordered lists")
	flags.BoolVar(&c.NoAlphaLists, "no-alpha-lists", false, "disable a./b./c. ordered lists")
	flags.BoolVar(&c.MixedLists, "mixed-lists", false, "enable mixed ordered-list markers")
	flags.BoolVar(&c.NoMixedLists, "no-mixed-lists", false, "disable mixed ordered-list markers")
	flags.BoolVar(&c.Autolink, "autolink", false, "enable bare URL autolinking")
	flags.BoolVar(&c.NoAutolink, "no-autolink", false, "disable bare URL autolinking")
	flags.BoolVar(&c.ObfuscateMail, "obfuscate-emails", false,
		"obfuscate autolinked email addresses")
	flags.BoolVar(&c.Relaxed, "relaxed-tables", false, "enable relaxed table detection")
	flags.BoolVar(&c.NoRelaxed, "no-relaxed-tables", false, "disable relaxed table detection")
	flags.BoolVar(&c.SupSub, "sup-sub", false, "enable ^sup/~sub inline spans")
	flags.BoolVar(&c.NoSupSub, "no-sup-sub", false, "disable ^sup/~sub inline spans")
	flags.BoolVar(&c.Unsafe, "unsafe", false, "allow raw HTML passthrough")
	flags.BoolVar(&c.NoUnsafe, "no-unsafe", false, "disallow raw HTML passthrough")

	flags.BoolVar(&c.Accept, "accept", false, "accept all Critic Markup edits")
	flags.BoolVar(&c.Reject, "reject", false, "reject all Critic Markup edits")

	flags.StringVar(&c.Bibliography, "bibliography", "",
		"bibliography file (.bib, .json, .yaml) for citation resolution")
}

// boolPair resolves a "--flag"/"--no-flag" pair into an *bool override,
// nil when neither was explicitly passed on the command line.
func boolPair(flags *pflag.FlagSet, on, off string, onVal, offVal bool) *bool {
	onChanged := flags.Changed(on)
	offChanged := flags.Changed(off)
	switch {
	case onChanged && !offChanged:
		v := onVal
		return &v
	case offChanged && !onChanged:
		v := offVal
		return &v
	case onChanged && offChanged:
		v := onVal
		return &v
	default:
		return nil
	}
}

// buildOptions resolves a Config plus the flags it was parsed from into an
// apex.Options, mirroring apex.ResolveOptions's "preset then override" shape
// at the CLI boundary.
func (c *Config) buildOptions(flags *pflag.FlagSet) (apex.Options, error) {
	mode := apex.Mode(c.Mode)

	var ov apex.Override
	if flags.Changed("standalone") || c.Style != "" {
		standalone := c.Standalone || c.Style != ""
		ov.Standalone = &standalone
	}
	if flags.Changed("style") {
		ov.StylesheetPath = &c.Style
	}
	if flags.Changed("title") {
		ov.DocumentTitle = &c.Title
	}
	if flags.Changed("pretty") {
		ov.Pretty = &c.Pretty
	}
	if flags.Changed("hardbreaks") {
		ov.HardBreaks = &c.HardBreaks
	}
	if flags.Changed("enable-includes") {
		ov.FileIncludes = &c.EnableIncludes
	}
	if flags.Changed("no-tables") {
		v := !c.NoTables
		ov.Tables = &v
	}
	if flags.Changed("no-footnotes") {
		v := !c.NoFootnotes
		ov.Footnotes = &v
	}
	if flags.Changed("no-smart") {
		v := !c.NoSmart
		ov.SmartTypography = &v
	}
	if flags.Changed("no-math") {
		v := !c.NoMath
		ov.Math = &v
	}
	if flags.Changed("no-ids") {
		v := !c.NoIDs
		ov.GenerateHeaderIDs = &v
	}
	if flags.Changed("header-anchors") {
		ov.HeaderAnchors = &c.HeaderAnchors
	}
	if c.IDFormat != "" {
		f := apex.IDFormat(c.IDFormat)
		ov.IDFormat = &f
	}
	ov.AlphaLists = boolPair(flags, "alpha-lists", "no-alpha-lists", true, false)
	ov.MixedListMarkers = boolPair(flags, "mixed-lists", "no-mixed-lists", true, false)
	ov.Autolink = boolPair(flags, "autolink", "no-autolink", true, false)
	if flags.Changed("obfuscate-emails") {
		ov.ObfuscateEmails = &c.ObfuscateMail
	}
	ov.RelaxedTables = boolPair(flags, "relaxed-tables", "no-relaxed-tables", true, false)
	ov.SupSub = boolPair(flags, "sup-sub", "no-sup-sub", true, false)
	ov.Unsafe = boolPair(flags, "unsafe", "no-unsafe", true, false)

	if c.Accept && c.Reject {
		return apex.Options{}, fmt.Errorf("apex: --accept and --reject are mutually exclusive")
	}
	if c.Accept {
		m := apex.CriticAccept
		ov.CriticMode = &m
	}
	if c.Reject {
		m := apex.CriticReject
		ov.CriticMode = &m
	}

	if c.Bibliography != "" {
		ov.BibliographyPath = &c.Bibliography
	}

	return apex.ResolveOptions(mode, ov)
}
