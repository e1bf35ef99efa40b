package apex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingIDsGenerate_GFM(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"lowercases and hyphenates": {"Hello World", "hello-world"},
		"strips punctuation":        {"What's New?", "whats-new"},
		"collapses whitespace runs": {"Too   Many   Spaces", "too-many-spaces"},
		"empty yields header":       {"!!!", "header"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ids := newHeadingIDs(IDFormatGFM)
			got := string(ids.Generate([]byte(tc.input), 0))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHeadingIDsGenerate_Dedupe(t *testing.T) {
	ids := newHeadingIDs(IDFormatGFM)
	first := string(ids.Generate([]byte("Section"), 0))
	second := string(ids.Generate([]byte("Section"), 0))
	third := string(ids.Generate([]byte("Section"), 0))

	assert.Equal(t, "section", first)
	assert.Equal(t, "section-2", second)
	assert.Equal(t, "section-3", third)
}

func TestHeadingIDsGenerate_MMDPreservesDiacriticsAndCase(t *testing.T) {
	ids := newHeadingIDs(IDFormatMMD)
	got := string(ids.Generate([]byte("Café Time"), 0))
	assert.Equal(t, "CaféTime", got)
}

func TestHeadingIDsGenerate_KramdownExpandsPunctuationPerCharacter(t *testing.T) {
	ids := newHeadingIDs(IDFormatKramdown)
	got := string(ids.Generate([]byte("a, b"), 0))
	assert.Equal(t, "a--b", got)
}

func TestHeadingIDsPut_ReservesSlug(t *testing.T) {
	ids := newHeadingIDs(IDFormatGFM)
	ids.Put([]byte("intro"))
	got := string(ids.Generate([]byte("Intro"), 0))
	assert.Equal(t, "intro-2", got)
}
