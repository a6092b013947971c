package scaffold

import (
	"regexp"
	"strings"
	"unicode"
)

// Section is a span of the file breakdown associated with one candidate file.
type Section struct {
	// Index is the position of the section in the breakdown, starting at 0.
	Index int
	// Line is the 1-based line on which the section starts.
	Line int
	Text string
}

// Header returns the first non-blank line of the section.
func (s Section) Header() string {
	for _, line := range strings.Split(s.Text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// rePathLine finds lines that open a file section: an optionally decorated
// token (heading marks, numbering, bold, backticks, "File:") that contains a
// path separator and is followed by a colon, a bullet marker or end of line.
var rePathLine = regexp.MustCompile(
	"(?m)^[ \\t]{0,3}(?:#{1,6}[ \\t]+)?(?:\\d+[.)][ \\t]+)?(?:\\*\\*)?`?(?:(?i:file)[ \\t]*:[ \\t]*)?(?:\\*\\*)?`?" +
		"([^\\s*\\-#`][^\\n*:]*?[/\\\\][^\\n*:]*?)`?(?:\\*\\*)?[ \\t]*(?::|\\*|$)")

// reLabelLine matches lines that name a metadata field even though they
// contain a slash, such as "Classes/functions: ...".
var reLabelLine = regexp.MustCompile(`(?i)^(?:key\s+|primary\s+)?(?:purpose|classes|functions|components|dependencies|imports|interactions?|path|file)\b`)

// SplitSections segments a file breakdown into per-file spans. Lines that look
// like file paths delimit sections; text before the first such line is not
// part of any section (see Preamble). When no path line is found the text is split at blank lines that
// are followed by an unindented line.
func SplitSections(breakdown string) []Section {
	text := strings.ReplaceAll(breakdown, "\r\n", "\n")
	starts := pathLineStarts(text)
	if len(starts) == 0 {
		return splitOnBlankLines(text)
	}

	var out []Section
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		chunk := strings.TrimSpace(text[start:end])
		if chunk == "" {
			continue
		}
		out = append(out, Section{
			Index: len(out),
			Line:  strings.Count(text[:start], "\n") + 1,
			Text:  chunk,
		})
	}
	return out
}

// Preamble returns the text in front of the first path line of a breakdown,
// which SplitSections leaves out. It reports false when that text is blank or
// when the breakdown has no path lines at all.
func Preamble(breakdown string) (Section, bool) {
	text := strings.ReplaceAll(breakdown, "\r\n", "\n")
	starts := pathLineStarts(text)
	if len(starts) == 0 {
		return Section{}, false
	}
	head := text[:starts[0]]
	chunk := strings.TrimSpace(head)
	if chunk == "" {
		return Section{}, false
	}
	lead := len(head) - len(strings.TrimLeft(head, " \t\n"))
	return Section{Index: -1, Line: strings.Count(head[:lead], "\n") + 1, Text: chunk}, true
}

func pathLineStarts(text string) []int {
	var starts []int
	for _, m := range rePathLine.FindAllStringSubmatchIndex(text, -1) {
		token := strings.TrimSpace(text[m[2]:m[3]])
		if !isPathToken(token) {
			continue
		}
		starts = append(starts, m[0])
	}
	return starts
}

// isPathToken reports whether the first field of a candidate path line
// carries a separator and is not a metadata label.
func isPathToken(token string) bool {
	field := token
	if i := strings.IndexFunc(field, unicode.IsSpace); i >= 0 {
		field = field[:i]
	}
	if !strings.ContainsAny(field, `/\`) {
		return false
	}
	if strings.Contains(field, "://") {
		return false
	}
	return !reLabelLine.MatchString(token)
}

func splitOnBlankLines(text string) []Section {
	lines := strings.Split(text, "\n")
	var out []Section
	var cur []string
	startLine := 0
	sawBlank := false

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(cur, "\n"))
		if chunk != "" {
			out = append(out, Section{Index: len(out), Line: startLine + 1, Text: chunk})
		}
		cur = nil
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			sawBlank = true
			cur = append(cur, line)
			continue
		}
		if sawBlank && !startsIndented(line) {
			flush()
		}
		if len(cur) == 0 || strings.TrimSpace(strings.Join(cur, "")) == "" {
			startLine = i
		}
		sawBlank = false
		cur = append(cur, line)
	}
	flush()
	return out
}

func startsIndented(line string) bool {
	r := []rune(line)
	return len(r) > 0 && unicode.IsSpace(r[0])
}
