package citation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSLJSON(t *testing.T) {
	data := []byte(`[
		{"id":"smith2020","type":"article-journal","title":"A Study",
		 "container-title":"Journal of Things","volume":"12","page":"1-10",
		 "author":[{"family":"Smith","given":"Jane"},{"family":"Doe","given":"John"}],
		 "issued":{"date-parts":[[2020,3,1]]}}
	]`)

	reg, err := ParseCSLJSON(data)
	require.NoError(t, err)
	require.Len(t, reg.Entries, 1)

	e, ok := reg.Find("smith2020")
	require.True(t, ok)
	assert.Equal(t, "A Study", e.Title)
	assert.Equal(t, "Jane Smith, John Doe", e.Author)
	assert.Equal(t, "2020", e.Year)
	assert.Equal(t, "Journal of Things", e.ContainerTitle)
	assert.Equal(t, "12", e.Volume)
	assert.Equal(t, "1-10", e.Page)
}

func TestParseCSLJSON_FamilyOnlyAuthor(t *testing.T) {
	data := []byte(`[{"id":"x","author":[{"family":"Madonna"}]}]`)
	reg, err := ParseCSLJSON(data)
	require.NoError(t, err)
	e, ok := reg.Find("x")
	require.True(t, ok)
	assert.Equal(t, "Madonna", e.Author)
}

func TestParseCSLYAML(t *testing.T) {
	data := []byte(`
references:
  - id: jones2019
    type: book
    title: A Book
    publisher: Acme Press
    author:
      - family: Jones
        given: Alice
    issued:
      date-parts:
        - [2019]
`)
	reg, err := ParseCSLYAML(data)
	require.NoError(t, err)
	e, ok := reg.Find("jones2019")
	require.True(t, ok)
	assert.Equal(t, "A Book", e.Title)
	assert.Equal(t, "Alice Jones", e.Author)
	assert.Equal(t, "2019", e.Year)
	assert.Equal(t, "Acme Press", e.Publisher)
}

func TestParseBibTeX(t *testing.T) {
	data := []byte(`
@article{smith2020,
  title = {A Study},
  author = {Jane Smith},
  year = {2020},
  journal = {Journal of Things},
  volume = {12},
  pages = {1-10},
}
`)
	reg, err := ParseBibTeX(data)
	require.NoError(t, err)
	require.Len(t, reg.Entries, 1)

	e, ok := reg.Find("smith2020")
	require.True(t, ok)
	assert.Equal(t, "article-journal", e.Type)
	assert.Equal(t, "A Study", e.Title)
	assert.Equal(t, "Jane Smith", e.Author)
	assert.Equal(t, "2020", e.Year)
	assert.Equal(t, "Journal of Things", e.ContainerTitle)
	assert.Equal(t, "12", e.Volume)
	assert.Equal(t, "1-10", e.Page)
}

func TestParseBibTeX_TypeMapping(t *testing.T) {
	tests := map[string]struct {
		entryType string
		wantCSL   string
	}{
		"book":          {"book", "book"},
		"inproceedings": {"inproceedings", "paper-conference"},
		"misc":          {"misc", "misc"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			data := []byte("@" + tc.entryType + "{key1,\n  title = {T},\n}\n")
			reg, err := ParseBibTeX(data)
			require.NoError(t, err)
			e, ok := reg.Find("key1")
			require.True(t, ok)
			assert.Equal(t, tc.wantCSL, e.Type)
		})
	}
}

func TestLoadFile_DispatchesByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "refs.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"id":"a","title":"T"}]`), 0o644))
	reg, err := LoadFile(jsonPath)
	require.NoError(t, err)
	_, ok := reg.Find("a")
	assert.True(t, ok)

	yamlPath := filepath.Join(dir, "refs.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("references:\n  - id: b\n    title: T\n"), 0o644))
	reg, err = LoadFile(yamlPath)
	require.NoError(t, err)
	_, ok = reg.Find("b")
	assert.True(t, ok)

	bibPath := filepath.Join(dir, "refs.bib")
	require.NoError(t, os.WriteFile(bibPath, []byte("@book{c,\n  title = {T},\n}\n"), 0o644))
	reg, err = LoadFile(bibPath)
	require.NoError(t, err)
	_, ok = reg.Find("c")
	assert.True(t, ok)
}

func TestLoadFile_UnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.txt")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestRegistry_FindOnNilRegistry(t *testing.T) {
	var reg *Registry
	_, ok := reg.Find("anything")
	assert.False(t, ok)
}
