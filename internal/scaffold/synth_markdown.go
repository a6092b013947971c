package scaffold

import (
	"path"
	"strings"
)

const readmeBody = "## Installation\n\n" +
	"```bash\n" +
	"# Clone the repository\n" +
	"git clone https://github.com/yourusername/repo-name.git\n\n" +
	"# Navigate to the project directory\n" +
	"cd repo-name\n\n" +
	"# Install dependencies (if any)\n" +
	"# pip install -r requirements.txt\n" +
	"```\n\n" +
	"## Usage\n\n" +
	"```bash\n" +
	"python main.py\n" +
	"```\n\n" +
	"## Features\n\n" +
	"- Feature 1\n" +
	"- Feature 2\n\n" +
	"## License\n\n" +
	"This project is licensed under the MIT License - see the LICENSE file for details.\n"

const documentBody = "## Overview\n\n" +
	"Add an overview here.\n\n" +
	"## Contents\n\n" +
	"- Section 1\n" +
	"- Section 2\n"

func markdownDocument(relPath, purpose, project string, rules Rules) string {
	name := path.Base(relPath)
	if rules.isReadme(name) {
		title := path.Base(path.Dir(relPath))
		if title == "." || title == "/" || title == "" {
			title = project
		}
		return "# " + title + "\n\n" + purpose + "\n\n" + readmeBody
	}
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(stem(name))
	b.WriteString("\n\n")
	b.WriteString(purpose)
	b.WriteString("\n\n")
	b.WriteString(documentBody)
	return b.String()
}
