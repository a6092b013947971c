package scaffold

import (
	"fmt"
	"path"
	"strings"
)

// Synthesize renders stub content for the file at relPath from its breakdown
// metadata. Source files get a docstring header, imports and stubs; document
// files get a templated body; anything else gets a comment header. project is
// used as the README title when the README sits at the project root.
func Synthesize(relPath string, meta FileMetadata, project string, rules Rules) string {
	name := path.Base(relPath)
	switch {
	case rules.isSource(name):
		return pythonSource(name, meta, rules)
	case rules.isDocument(name):
		return markdownDocument(relPath, meta.Purpose, project, rules)
	default:
		return genericHeader(name, meta.Purpose, rules)
	}
}

func genericHeader(name, purpose string, rules Rules) string {
	prefix := rules.commentPrefix(name)
	return fmt.Sprintf("%s %s\n%s Purpose: %s\n\n", prefix, name, prefix, purpose)
}

func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
