package scaffold

import (
	"regexp"
	"strings"
)

// SymbolKind distinguishes class and function stubs.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolClass
)

func (k SymbolKind) String() string {
	if k == SymbolClass {
		return "class"
	}
	return "function"
}

// Symbol describes one entry of a key classes/functions list. Params holds the
// parameter list for functions and the base classes for classes.
type Symbol struct {
	Kind   SymbolKind
	Name   string
	Params string
}

var (
	reClassName  = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	reKeyword    = regexp.MustCompile(`^(?:class|def|async\s+def|function|func|method)\s+`)
)

// ClassifySymbol turns one list item such as "Foo(Base)" or "add(a, b)" into
// a Symbol. It reports false when the item has no identifier.
func ClassifySymbol(item string) (Symbol, bool) {
	s := strings.TrimSpace(item)
	s = strings.Trim(s, "`*\"'")
	s = reKeyword.ReplaceAllString(s, "")
	s = strings.TrimSpace(strings.Trim(s, "`"))

	name := reIdentifier.FindString(s)
	if name == "" || isNone(name) {
		return Symbol{}, false
	}
	params := ""
	if rest := s[len(name):]; strings.HasPrefix(strings.TrimLeft(rest, " "), "(") {
		params = parenContent(strings.TrimLeft(rest, " "))
	}
	kind := SymbolFunction
	if reClassName.MatchString(name) {
		kind = SymbolClass
	}
	return Symbol{Kind: kind, Name: name, Params: strings.TrimSpace(params)}, true
}

// ParseSymbols splits a key-symbols list on top-level commas and classifies
// each item. Later duplicates of a name are dropped.
func ParseSymbols(list string) []Symbol {
	var out []Symbol
	seen := map[string]bool{}
	for _, item := range splitTopLevel(list) {
		sym, ok := ClassifySymbol(item)
		if !ok || seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true
		out = append(out, sym)
	}
	return out
}

// splitTopLevel splits s on commas and semicolons that are not nested inside
// brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',', ';':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parenContent returns the text between the opening parenthesis at the start
// of s and its matching close. An unclosed group returns the remainder.
func parenContent(s string) string {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i]
			}
		}
	}
	return strings.TrimPrefix(s, "(")
}
