package scaffold

import (
	"path"
	"regexp"
	"strings"
)

// Resolution records how a breakdown path was turned into a project path.
type Resolution struct {
	Path string
	// Hint is the directory taken from the section text, if any.
	Hint string
	// Planned is set when the path was matched to a planned file.
	Planned bool
}

var reDirHint = regexp.MustCompile("(?i)\\b(?:in|within|under|inside|the)\\s+[`'\"*]*([A-Za-z0-9_\\-./\\\\]+?)[`'\"*]*\\s+(?:directory|folder|dir)\\b")

// genericDirWords never name a real directory in a hint phrase.
var genericDirWords = map[string]bool{
	"same": true, "current": true, "parent": true, "this": true, "that": true,
	"root": true, "project": true, "top": true, "top-level": true, "base": true,
	"its": true, "their": true, "each": true, "any": true, "appropriate": true,
	"respective": true, "main": true, "a": true, "an": true, "the": true,
}

// DirectoryHints returns candidate parent directories mentioned in text as
// "in/within/under/inside/the <dir> directory|folder|dir", in order.
func DirectoryHints(text, root string) []string {
	var out []string
	for _, m := range reDirHint.FindAllStringSubmatch(text, -1) {
		hint := strings.Trim(strings.TrimPrefix(toSlash(m[1]), "./"), "/")
		if hint == "" || hint == "." || genericDirWords[strings.ToLower(hint)] {
			continue
		}
		out = append(out, stripRoot(hint, root))
	}
	return out
}

// ResolvePath normalizes a breakdown path against the project root and the
// planned layout. A root prefix is stripped. A bare filename that is not
// planned at the root takes its parent from the first directory hint in the
// section, or else from the single planned file with the same name. A path
// with directories that is not planned is matched to a planned file ending
// with it. The returned path is slash-separated and never escapes the root.
func ResolvePath(raw, section, root string, layout *Layout) (Resolution, bool) {
	p := strings.TrimSpace(toSlash(raw))
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimLeft(p, "/")
	p = stripRoot(p, root)
	if p == "" || hasDotDot(p) {
		return Resolution{}, false
	}

	res := Resolution{}
	if !strings.Contains(p, "/") {
		// a file the folder tree already places at the root stays there
		atRoot := layout.HasFile(p)
		if !atRoot {
			for _, hint := range DirectoryHints(section, root) {
				if hint == "" {
					// the hint names the root itself
					atRoot = true
					break
				}
				if hasDotDot(hint) {
					continue
				}
				res.Hint = hint
				p = hint + "/" + p
				break
			}
		}
		if res.Hint == "" && !atRoot {
			if named := layout.FilesNamed(p); len(named) == 1 {
				p = named[0]
				res.Planned = true
			}
		}
	} else if layout != nil && !layout.HasFile(p) {
		var matches []string
		for _, f := range layout.FilesNamed(path.Base(p)) {
			if strings.HasSuffix(f, "/"+p) {
				matches = append(matches, f)
			}
		}
		if len(matches) == 1 {
			p = matches[0]
			res.Planned = true
		}
	}

	p = cleanRel(p)
	if p == "" || p == "." || hasDotDot(p) {
		return Resolution{}, false
	}
	res.Path = p
	if layout != nil && layout.HasFile(p) {
		res.Planned = true
	}
	return res, true
}

func stripRoot(p, root string) string {
	root = strings.Trim(toSlash(strings.TrimSpace(root)), "/")
	if root == "" {
		return p
	}
	if p == root {
		return ""
	}
	return strings.TrimPrefix(p, root+"/")
}
