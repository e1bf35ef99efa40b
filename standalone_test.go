package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapStandalone_Disabled(t *testing.T) {
	opt := OptionsDefault()
	opt.Standalone = false
	body := "<p>hi</p>"
	assert.Equal(t, body, wrapStandalone(body, opt, nil))
}

func TestWrapStandalone_DefaultTitle(t *testing.T) {
	opt := OptionsDefault()
	opt.Standalone = true
	got := wrapStandalone("<p>hi</p>", opt, nil)

	assert.Contains(t, got, "<!DOCTYPE html>")
	assert.Contains(t, got, "<title>Untitled</title>")
	assert.Contains(t, got, "<p>hi</p>")
	assert.Contains(t, got, "<style>")
}

func TestWrapStandalone_DocumentTitleWins(t *testing.T) {
	opt := OptionsDefault()
	opt.Standalone = true
	opt.DocumentTitle = "Explicit Title"
	meta := Metadata{{Key: "title", Value: "Metadata Title"}}

	got := wrapStandalone("<p>x</p>", opt, meta)
	assert.Contains(t, got, "<title>Explicit Title</title>")
}

func TestWrapStandalone_MetadataTitleFallback(t *testing.T) {
	opt := OptionsDefault()
	opt.Standalone = true
	meta := Metadata{{Key: "title", Value: "Metadata Title"}}

	got := wrapStandalone("<p>x</p>", opt, meta)
	assert.Contains(t, got, "<title>Metadata Title</title>")
}

func TestWrapStandalone_StylesheetLink(t *testing.T) {
	opt := OptionsDefault()
	opt.Standalone = true
	opt.StylesheetPath = "/style.css"

	got := wrapStandalone("<p>x</p>", opt, nil)
	assert.Contains(t, got, `<link rel="stylesheet" href="/style.css">`)
	assert.NotContains(t, got, "<style>")
}
