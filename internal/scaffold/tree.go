package scaffold

import (
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// PathKind tags a planned path.
type PathKind int

const (
	KindDir PathKind = iota
	KindFile
)

func (k PathKind) String() string {
	if k == KindFile {
		return "file"
	}
	return "directory"
}

// PlannedPath is a normalized root-relative path declared by the folder tree.
type PlannedPath struct {
	Path string
	Kind PathKind
}

// Layout holds the planned directories and files of a project. Paths are
// slash-separated and relative to the project root. Adding a file also adds
// every ancestor directory.
type Layout struct {
	dirs  map[string]bool
	files map[string]bool
	// Ignored lists tree lines that could not be turned into a path.
	Ignored []string
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{dirs: map[string]bool{}, files: map[string]bool{}}
}

// AddDir records p and its ancestors as directories.
func (l *Layout) AddDir(p string) {
	p = cleanRel(p)
	for p != "" && p != "." {
		l.dirs[p] = true
		p = parentDir(p)
	}
}

// AddFile records p as a file and its ancestors as directories.
func (l *Layout) AddFile(p string) {
	p = cleanRel(p)
	if p == "" || p == "." {
		return
	}
	l.files[p] = true
	l.AddDir(parentDir(p))
}

// HasFile reports whether p is a planned file.
func (l *Layout) HasFile(p string) bool { return l != nil && l.files[cleanRel(p)] }

// HasDir reports whether p is a planned directory. The root "." always is.
func (l *Layout) HasDir(p string) bool {
	p = cleanRel(p)
	return p == "." || p == "" || (l != nil && l.dirs[p])
}

// Files returns planned files in sorted order.
func (l *Layout) Files() []string {
	if l == nil {
		return nil
	}
	return sortedKeys(l.files)
}

// Dirs returns planned directories in sorted order.
func (l *Layout) Dirs() []string {
	if l == nil {
		return nil
	}
	return sortedKeys(l.dirs)
}

// Paths returns every planned path, directories first.
func (l *Layout) Paths() []PlannedPath {
	if l == nil {
		return nil
	}
	out := make([]PlannedPath, 0, len(l.dirs)+len(l.files))
	for _, d := range l.Dirs() {
		out = append(out, PlannedPath{Path: d, Kind: KindDir})
	}
	for _, f := range l.Files() {
		out = append(out, PlannedPath{Path: f, Kind: KindFile})
	}
	return out
}

// FilesNamed returns planned files whose basename is name.
func (l *Layout) FilesNamed(name string) []string {
	var out []string
	for _, f := range l.Files() {
		if path.Base(f) == name {
			out = append(out, f)
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// treeGlyphs are blanked out of the leading part of a tree line so that they
// count toward indentation like spaces.
const treeGlyphs = "│├└─┬┼┌┐┘┴┤╰╭╮╯┃┣┗┡━┠┖┕|+-•·>"

var reTrailingComment = regexp.MustCompile(`\s+(#|//|<-|--\s|-\s|\().*$`)

type stackEntry struct {
	name  string
	level int
}

// ParseTree converts a folder diagram into a Layout. Indentation is measured
// after tree glyphs are turned into spaces, at two columns per level. A line
// naming the root directory itself is skipped and a leading "root/" prefix
// is stripped from every entry.
//
// Before each line the stack is unwound to the nearest entry shallower than
// the line, so a run of sibling files never drops their parent directory.
func ParseTree(text, root string, rules Rules) *Layout {
	layout := NewLayout()
	root = strings.Trim(toSlash(strings.TrimSpace(root)), "/")

	var stack []stackEntry
	seen := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent, rest := splitIndent(line)
		token := cleanToken(rest)
		if token == "" {
			continue
		}
		level := indent / 2

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}

		isDir := strings.HasSuffix(token, "/")
		token = strings.Trim(token, "/")
		if token == "" || token == "." {
			continue
		}
		first := !seen
		seen = true
		if root != "" {
			// Deeper lines may name a package that shares the root's name.
			if token == root && (first || level == 0) {
				continue
			}
			token = strings.TrimPrefix(token, root+"/")
		}
		if hasDotDot(token) {
			layout.Ignored = append(layout.Ignored, strings.TrimSpace(raw))
			continue
		}

		full := token
		if len(stack) > 0 {
			full = joinStack(stack) + "/" + token
		}
		if !isDir && rules.isFileName(token) {
			layout.AddFile(full)
			continue
		}
		layout.AddDir(full)
		stack = append(stack, stackEntry{name: token, level: level})
	}
	return layout
}

// splitIndent blanks leading whitespace and tree glyphs and returns the
// resulting indentation width along with the remainder of the line.
// A backtick or asterisk counts as a glyph only in "`--" and "* "; otherwise
// it opens Markdown decoration around the name.
func splitIndent(line string) (int, string) {
	width := 0
	for i, r := range line {
		switch {
		case r == '\t':
			width += 2
		case r == ' ' || r == '\u00a0':
			width++
		case r == '`' || r == '*':
			next := byte(0)
			if i+1 < len(line) {
				next = line[i+1]
			}
			if (r == '`' && next == '-') || (r == '*' && (next == ' ' || next == '\t')) {
				width++
				continue
			}
			return width, line[i:]
		case strings.ContainsRune(treeGlyphs, r):
			width++
		default:
			return width, line[i:]
		}
	}
	return width, ""
}

// cleanToken extracts the path token from the remainder of a tree line,
// dropping trailing annotations and Markdown decoration.
func cleanToken(s string) string {
	s = reTrailingComment.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "`*\"'")
	s = strings.TrimRight(s, ":,;")
	s = strings.Trim(s, "`*\"'")
	s = toSlash(s)
	s = strings.TrimPrefix(s, "./")
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	if s != "/" {
		s = strings.TrimPrefix(s, "/")
	}
	return s
}

func joinStack(stack []stackEntry) string {
	parts := make([]string, len(stack))
	for i, e := range stack {
		parts[i] = e.name
	}
	return strings.Join(parts, "/")
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func hasDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// cleanRel normalizes p to a clean slash-separated relative path.
func cleanRel(p string) string {
	p = strings.TrimSpace(toSlash(p))
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

func parentDir(p string) string {
	d := path.Dir(p)
	if d == "/" {
		return "."
	}
	return d
}
