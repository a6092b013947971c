package scaffold

import (
	"regexp"
	"strings"
	"unicode"
)

// Reasons a section contributes no file.
const (
	ReasonNoPath      = "no file path found"
	ReasonDirectory   = "path names a directory"
	ReasonNoExtension = "path has no extension"
	ReasonOutsideRoot = "path escapes the project root"
	ReasonPreamble    = "text before the first file section"
)

var (
	reHeadingMarks = regexp.MustCompile(`^#{1,6}[ \t]*`)
	reNumbering    = regexp.MustCompile(`^(?:\d+[.)]|[-*•+])[ \t]+`)
	reFilePrefix   = regexp.MustCompile(`(?i)^file[ \t]*:[ \t]*`)
	rePathField    = regexp.MustCompile("(?im)^[ \\t]*(?:[-*•+][ \\t]*)?[*_]*(?:file[ \\t]+)?path[*_]*[ \\t]*:[*_]*[ \\t]*`?([^\\s`*]+)")
)

// ExtractPath finds the file path a section describes. It first reads the
// section's opening line and falls back to an explicit "Path:" field. When no
// usable path is found it returns one of the Reason constants instead.
func ExtractPath(section string, rules Rules) (string, string) {
	header := Section{Text: section}.Header()
	candidate := pathFromHeader(header)
	if !looksLikeFile(candidate, rules) {
		if m := rePathField.FindStringSubmatch(section); m != nil {
			if p := trimPathToken(m[1]); p != "" {
				candidate = p
			}
		}
	}

	switch {
	case candidate == "":
		return "", ReasonNoPath
	case strings.HasSuffix(candidate, "/") || strings.HasSuffix(candidate, `\`):
		return "", ReasonDirectory
	case !rules.hasUsableName(toSlash(candidate)):
		return "", ReasonNoExtension
	}
	return candidate, ""
}

// pathFromHeader strips Markdown decoration and any trailing description from
// the first line of a section and returns its leading token.
func pathFromHeader(line string) string {
	s := strings.TrimSpace(line)
	s = reHeadingMarks.ReplaceAllString(s, "")
	s = reNumbering.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, "*` ")
	s = reFilePrefix.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, "*` ")
	if i := strings.Index(s, ": "); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		s = s[:i]
	}
	return trimPathToken(s)
}

func trimPathToken(s string) string {
	s = strings.TrimSpace(s)
	for {
		prev := s
		s = strings.Trim(s, "`*\"'")
		s = strings.TrimRight(s, ":,;")
		if s == prev {
			break
		}
	}
	return s
}

// looksLikeFile reports whether a header token can stand as a file path
// without consulting the Path field.
func looksLikeFile(p string, rules Rules) bool {
	if p == "" || strings.HasSuffix(p, "/") || strings.HasSuffix(p, `\`) {
		return false
	}
	return rules.hasUsableName(toSlash(p))
}
