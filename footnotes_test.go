package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInlineFootnotes_Disabled(t *testing.T) {
	opt := OptionsDefault()
	opt.Footnotes = false
	src := []byte("text ^[note]")
	assert.Equal(t, src, normalizeInlineFootnotes(src, opt))
}

func TestNormalizeInlineFootnotes_KramdownForm(t *testing.T) {
	opt := OptionsDefault()
	opt.Footnotes = true

	got := string(normalizeInlineFootnotes([]byte("Some text^[a note here]."), opt))

	assert.Contains(t, got, "[^apex-inline-fn-1]")
	assert.Contains(t, got, "[^apex-inline-fn-1]: a note here")
}

func TestNormalizeInlineFootnotes_MMDForm(t *testing.T) {
	opt := OptionsDefault()
	opt.Footnotes = true
	opt.MMD6Features = true

	got := string(normalizeInlineFootnotes([]byte("Some text[^ a note here ]."), opt))

	assert.Contains(t, got, "[^apex-inline-fn-1]")
	assert.Contains(t, got, "[^apex-inline-fn-1]: a note here")
}

func TestNormalizeInlineFootnotes_MMDFormRequiresMMD6Features(t *testing.T) {
	opt := OptionsDefault()
	opt.Footnotes = true
	opt.MMD6Features = false

	src := "Some text[^ a note here ]."
	got := string(normalizeInlineFootnotes([]byte(src), opt))
	assert.Equal(t, src, got)
}

func TestNormalizeInlineFootnotes_MultipleGetDistinctKeys(t *testing.T) {
	opt := OptionsDefault()
	opt.Footnotes = true

	got := string(normalizeInlineFootnotes([]byte("a^[one] b^[two]"), opt))
	assert.Contains(t, got, "[^apex-inline-fn-1]")
	assert.Contains(t, got, "[^apex-inline-fn-2]")
	assert.Contains(t, got, "[^apex-inline-fn-1]: one")
	assert.Contains(t, got, "[^apex-inline-fn-2]: two")
}
