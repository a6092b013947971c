package scaffold

import (
	"path"
	"strings"
)

// Placeholder returns generic content for a planned file that no breakdown
// section described.
func Placeholder(relPath string, rules Rules) string {
	name := path.Base(relPath)
	switch {
	case rules.isSource(name):
		content := "\"\"\"\n" + name + "\n\nGenerated file based on project structure.\n\"\"\"\n\n"
		switch {
		case rules.isPackageInit(name):
		case strings.Contains(strings.ToLower(name), "main"):
			content += "\ndef main():\n    pass\n\nif __name__ == \"__main__\":\n    main()\n"
		default:
			content += "# Add your code here\n"
		}
		return content
	case rules.isDocument(name):
		return "# " + stem(name) + "\n\nGenerated file based on project structure.\n"
	default:
		prefix := rules.commentPrefix(name)
		return prefix + " " + name + "\n" + prefix + " Generated file based on project structure\n"
	}
}
