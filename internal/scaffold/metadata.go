package scaffold

import (
	"regexp"
	"strings"
)

// Defaults used when a field is missing from a section.
const (
	NoPurpose = "No purpose specified"
	None      = "None"
)

// FileMetadata is what a breakdown section says about one file.
type FileMetadata struct {
	Purpose      string
	KeySymbols   string
	Dependencies string
	Interactions string
}

// Symbols parses KeySymbols into descriptors.
func (m FileMetadata) Symbols() []Symbol {
	if isNone(m.KeySymbols) {
		return nil
	}
	return ParseSymbols(m.KeySymbols)
}

// DependencyList splits Dependencies on top-level commas. "None" yields nil.
func (m FileMetadata) DependencyList() []string {
	if isNone(m.Dependencies) {
		return nil
	}
	var out []string
	for _, d := range splitTopLevel(m.Dependencies) {
		d = strings.TrimSpace(strings.Trim(strings.TrimSpace(d), "`*"))
		if d == "" || isNone(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func isNone(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, None)
}

type field struct {
	anchored *regexp.Regexp
	inline   *regexp.Regexp
}

// newField builds the two patterns for a labelled field: one anchored at the
// start of a line with an optional bullet, and one for a label that follows a
// bullet or bold marker later on a line ("src/a.py * Purpose: x"). A label
// word inside running prose never matches. Both capture the rest of the line
// after the colon.
func newField(label string) field {
	const tail = `[^:\n]{0,40}?:[ \t*_]*([^\n]*)`
	return field{
		anchored: regexp.MustCompile(`(?im)^[ \t]*(?:[-*•+]|\d+[.)])?[ \t]*[*_]*` + label + tail),
		inline:   regexp.MustCompile(`(?im)[ \t](?:[-*•+][ \t]+[*_]*|\*\*|__)` + label + tail),
	}
}

var (
	purposeField      = newField(`(?:primary\s+)?purpose`)
	keySymbolsField   = newField(`(?:key\s+)?(?:classes|functions|components)`)
	dependenciesField = newField(`(?:dependencies|imports)`)
	interactionsField = newField(`(?:interactions?|interacts)`)
)

var reBulletLine = regexp.MustCompile(`^[ \t]*(?:[-*•+]|\d+[.)])[ \t]+(.*\S)`)

// extract returns the value of f in section. An empty value on a line of its
// own picks up the indented bullet list that follows it.
func (f field) extract(section string) (string, bool) {
	if loc := f.anchored.FindStringSubmatchIndex(section); loc != nil {
		val := cleanValue(section[loc[2]:loc[3]])
		if val == "" {
			val = continuationList(section[loc[1]:])
		}
		if val != "" {
			return val, true
		}
	}
	if m := f.inline.FindStringSubmatch(section); m != nil {
		if val := cleanValue(m[1]); val != "" {
			return val, true
		}
	}
	return "", false
}

func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "**")
	s = strings.TrimSuffix(s, "__")
	return strings.TrimSpace(s)
}

// continuationList joins the bullet lines that directly follow a label.
func continuationList(rest string) string {
	lines := strings.Split(strings.TrimPrefix(rest, "\n"), "\n")
	var items []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			break
		}
		m := reBulletLine.FindStringSubmatch(line)
		if m == nil || !startsIndented(line) {
			break
		}
		item := m[1]
		if isLabel(item) {
			break
		}
		items = append(items, strings.Trim(item, "`*"))
	}
	return strings.Join(items, ", ")
}

func isLabel(s string) bool {
	s = strings.TrimLeft(s, "*_ ")
	for _, f := range []field{purposeField, keySymbolsField, dependenciesField, interactionsField} {
		if loc := f.anchored.FindStringIndex(s); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return false
}

// ExtractPurpose returns the Purpose / Primary purpose field.
func ExtractPurpose(section string) (string, bool) { return purposeField.extract(section) }

// ExtractKeySymbols returns the key classes/functions field.
func ExtractKeySymbols(section string) (string, bool) { return keySymbolsField.extract(section) }

// ExtractDependencies returns the Dependencies (or Imports) field.
func ExtractDependencies(section string) (string, bool) { return dependenciesField.extract(section) }

// ExtractInteractions returns the Interactions field.
func ExtractInteractions(section string) (string, bool) { return interactionsField.extract(section) }

// ExtractMetadata reads every field of a section, substituting the defaults
// for anything missing.
func ExtractMetadata(section string) FileMetadata {
	m := FileMetadata{
		Purpose:      NoPurpose,
		KeySymbols:   None,
		Dependencies: None,
		Interactions: None,
	}
	if v, ok := ExtractPurpose(section); ok {
		m.Purpose = v
	}
	if v, ok := ExtractKeySymbols(section); ok {
		m.KeySymbols = v
	}
	if v, ok := ExtractDependencies(section); ok {
		m.Dependencies = v
	}
	if v, ok := ExtractInteractions(section); ok {
		m.Interactions = v
	}
	return m
}
