// Package citation loads a bibliography (BibTeX, CSL-JSON, or CSL-YAML)
// into a registry keyed by citation id, grounded on
// original_source/src/extensions/citations.h's apex_bibliography_entry /
// apex_bibliography_registry shape and its format-autodetection-by-extension
// apex_load_bibliography_file.
package citation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

// Entry is one bibliography record, a simplified CSL entry: the common
// fields the original C header's apex_bibliography_entry carried (id,
// type, title, author, year, container title, publisher, volume, page).
type Entry struct {
	ID             string `json:"id" yaml:"id"`
	Type           string `json:"type" yaml:"type"`
	Title          string `json:"title" yaml:"title"`
	Author         string `json:"-" yaml:"-"`
	Year           string `json:"-" yaml:"-"`
	ContainerTitle string `json:"container-title" yaml:"container-title"`
	Publisher      string `json:"publisher" yaml:"publisher"`
	Volume         string `json:"volume" yaml:"volume"`
	Page           string `json:"page" yaml:"page"`
}

// Registry is a bibliography indexed by entry id, in load order so
// references can list entries in the order they first appeared in the
// source file when no citations constrain the order.
type Registry struct {
	Entries []*Entry
	byID    map[string]*Entry
}

func newRegistry() *Registry {
	return &Registry{byID: map[string]*Entry{}}
}

func (r *Registry) add(e *Entry) {
	if e.ID == "" {
		return
	}
	r.Entries = append(r.Entries, e)
	r.byID[e.ID] = e
}

// Find looks up a bibliography entry by citation key.
func (r *Registry) Find(id string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.byID[id]
	return e, ok
}

// LoadFile auto-detects the bibliography format from the file extension
// (.bib, .json, .yaml/.yml) and parses it, mirroring
// apex_load_bibliography_file's dispatch.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("citation: reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bib":
		return ParseBibTeX(data)
	case ".json":
		return ParseCSLJSON(data)
	case ".yaml", ".yml":
		return ParseCSLYAML(data)
	default:
		return nil, fmt.Errorf("citation: unrecognized bibliography extension for %s", path)
	}
}

// ParseCSLJSON parses a CSL-JSON bibliography: a JSON array of entry
// objects. Author/year, which CSL-JSON models as structured sub-objects,
// are reduced to Apex's flat "formatted string" fields (per the original
// header's comment that apex_bibliography_entry's author/year are already
// "formatted string"s, not structured CSL author arrays).
func ParseCSLJSON(data []byte) (*Registry, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("citation: parsing CSL-JSON: %w", err)
	}
	reg := newRegistry()
	for _, obj := range raw {
		reg.add(entryFromCSLMap(obj))
	}
	return reg, nil
}

// ParseCSLYAML parses a CSL-YAML bibliography (a YAML "references:" list,
// the CSL-YAML convention), using goccy/go-yaml.
func ParseCSLYAML(data []byte) (*Registry, error) {
	var doc struct {
		References []map[string]interface{} `yaml:"references"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("citation: parsing CSL-YAML: %w", err)
	}
	reg := newRegistry()
	for _, obj := range doc.References {
		reg.add(entryFromCSLMap(obj))
	}
	return reg, nil
}

func entryFromCSLMap(obj map[string]interface{}) *Entry {
	e := &Entry{
		ID:             stringField(obj, "id"),
		Type:           stringField(obj, "type"),
		Title:          stringField(obj, "title"),
		ContainerTitle: stringField(obj, "container-title"),
		Publisher:      stringField(obj, "publisher"),
		Volume:         stringField(obj, "volume"),
		Page:           stringField(obj, "page"),
		Author:         cslAuthorString(obj["author"]),
		Year:           cslYearString(obj["issued"]),
	}
	return e
}

func stringField(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

// cslAuthorString formats CSL's structured author array ([{family, given},
// ...]) into a single display string, since Entry.Author is a flat field.
func cslAuthorString(v interface{}) string {
	list, ok := v.([]interface{})
	if !ok {
		return ""
	}
	var names []string
	for _, a := range list {
		m, ok := a.(map[string]interface{})
		if !ok {
			continue
		}
		family := stringField(m, "family")
		given := stringField(m, "given")
		switch {
		case family != "" && given != "":
			names = append(names, given+" "+family)
		case family != "":
			names = append(names, family)
		case given != "":
			names = append(names, given)
		}
	}
	return strings.Join(names, ", ")
}

// cslYearString extracts the year from CSL's issued date-parts form
// ({"date-parts": [[year, month, day]]}).
func cslYearString(v interface{}) string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	parts, ok := m["date-parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return ""
	}
	first, ok := parts[0].([]interface{})
	if !ok || len(first) == 0 {
		return ""
	}
	// JSON decodes numbers as float64; goccy/go-yaml decodes plain
	// integers as int/int64/uint64, so both families are handled here.
	switch y := first[0].(type) {
	case float64:
		return fmt.Sprintf("%d", int(y))
	case int:
		return fmt.Sprintf("%d", y)
	case int64:
		return fmt.Sprintf("%d", y)
	case uint64:
		return fmt.Sprintf("%d", y)
	case string:
		return y
	default:
		return ""
	}
}

var bibtexEntryRe = regexp.MustCompile(`(?s)@(\w+)\s*\{\s*([^,]+),(.*?)\n\}`)
var bibtexFieldRe = regexp.MustCompile(`(\w+)\s*=\s*[{"]([^}"]*)[}"]\s*,?`)

// ParseBibTeX parses a minimal BibTeX bibliography: "@type{id, field =
// {value}, ...}" entries, one field per line or comma-separated, which
// covers the common case without a full BibTeX grammar. An entry's closing
// brace must start its own line; an entry written on a single line is not
// recognized.
func ParseBibTeX(data []byte) (*Registry, error) {
	reg := newRegistry()
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var b strings.Builder
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	for _, m := range bibtexEntryRe.FindAllStringSubmatch(b.String(), -1) {
		entryType := strings.ToLower(m[1])
		id := strings.TrimSpace(m[2])
		fields := map[string]string{}
		for _, fm := range bibtexFieldRe.FindAllStringSubmatch(m[3], -1) {
			fields[strings.ToLower(fm[1])] = strings.TrimSpace(fm[2])
		}
		reg.add(&Entry{
			ID:             id,
			Type:           bibtexTypeToCSL(entryType),
			Title:          fields["title"],
			Author:         fields["author"],
			Year:           fields["year"],
			ContainerTitle: fields["journal"],
			Publisher:      fields["publisher"],
			Volume:         fields["volume"],
			Page:           fields["pages"],
		})
	}
	return reg, nil
}

func bibtexTypeToCSL(t string) string {
	switch t {
	case "article":
		return "article-journal"
	case "book":
		return "book"
	case "inproceedings", "conference":
		return "paper-conference"
	default:
		return t
	}
}
