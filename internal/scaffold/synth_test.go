package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeEntryPoint(t *testing.T) {
	meta := FileMetadata{
		Purpose:      "Entry point",
		KeySymbols:   "main()",
		Dependencies: "os, utils.math_ops",
		Interactions: "Calls utils/math_ops.py",
	}
	got := Synthesize("main.py", meta, "calc_app", DefaultRules())
	want := "\"\"\"\nmain.py\n\nEntry point\n\nInteractions: Calls utils/math_ops.py\n\"\"\"\n\n" +
		"import os\n" +
		"from utils import math_ops\n" +
		"\n" +
		knownFunctionStubs["main"] +
		mainTrailer
	assert.Equal(t, want, got)
}

func TestSynthesizeModule(t *testing.T) {
	meta := FileMetadata{
		Purpose:      "Arithmetic helpers",
		KeySymbols:   "add(a, b), Calculator",
		Dependencies: None,
		Interactions: None,
	}
	got := Synthesize("utils/math_ops.py", meta, "calc_app", DefaultRules())

	assert.True(t, strings.HasPrefix(got, "\"\"\"\nmath_ops.py\n\nArithmetic helpers\n\nInteractions: None\n\"\"\"\n\n"))
	assert.Contains(t, got, "def add(a, b):\n")
	assert.Contains(t, got, "Description of the add function.")
	assert.NotContains(t, got, "__main__")
	assert.NotContains(t, got, "import")
	// classes come before functions
	assert.Less(t, strings.Index(got, "class Calculator:"), strings.Index(got, "def add("))
}

func TestSynthesizeMainFileWithoutMainSymbol(t *testing.T) {
	meta := FileMetadata{Purpose: "p", KeySymbols: "run()", Dependencies: None, Interactions: None}
	got := Synthesize("app_main.py", meta, "x", DefaultRules())
	assert.Contains(t, got, "def run():")
	assert.Contains(t, got, "def main():")
	assert.True(t, strings.HasSuffix(got, mainTrailer))
}

func TestSynthesizeWithoutSymbols(t *testing.T) {
	meta := FileMetadata{Purpose: "p", KeySymbols: None, Dependencies: "json", Interactions: None}
	got := Synthesize("main.py", meta, "x", DefaultRules())
	assert.Equal(t, "\"\"\"\nmain.py\n\np\n\nInteractions: None\n\"\"\"\n\nimport json\n\n", got)
}

func TestSynthesizePackageInit(t *testing.T) {
	meta := FileMetadata{Purpose: "marker", KeySymbols: "Foo", Dependencies: None, Interactions: None}
	got := Synthesize("pkg/__init__.py", meta, "x", DefaultRules())
	assert.Equal(t, "\"\"\"\n__init__.py\n\nmarker\n\nInteractions: None\n\"\"\"\n\n", got)
}

func TestSynthesizeKnownStubs(t *testing.T) {
	meta := FileMetadata{Purpose: "p", KeySymbols: "parse_markdown(text), generate_html(tree)", Dependencies: None, Interactions: None}
	got := Synthesize("converter.py", meta, "x", DefaultRules())
	assert.Contains(t, got, "def parse_markdown(markdown_text):")
	assert.Contains(t, got, "def generate_html(parsed_markdown):")
}

func TestImportLine(t *testing.T) {
	tests := map[string]string{
		"os":                          "import os",
		"utils.math_ops":              "from utils import math_ops",
		"a.b.c":                       "import a.b.c",
		"from x import y":             "from x import y",
		"import numpy as np":          "import numpy as np",
		"requests (for HTTP calls)":   "import requests",
		"markdown. Used for parsing.": "import markdown",
		"(nothing)":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, importLine(in), in)
	}
}

func TestSynthesizeReadme(t *testing.T) {
	rules := DefaultRules()
	root := Synthesize("README.md", FileMetadata{Purpose: "A calculator"}, "calc_app", rules)
	assert.True(t, strings.HasPrefix(root, "# calc_app\n\nA calculator\n\n## Installation"))
	assert.True(t, strings.HasSuffix(root, readmeBody))

	nested := Synthesize("docs/README.md", FileMetadata{Purpose: "Docs"}, "calc_app", rules)
	assert.True(t, strings.HasPrefix(nested, "# docs\n\nDocs\n\n"))
}

func TestSynthesizeDocument(t *testing.T) {
	got := Synthesize("docs/usage.md", FileMetadata{Purpose: "How to use"}, "calc_app", DefaultRules())
	assert.Equal(t, "# usage\n\nHow to use\n\n"+documentBody, got)
}

func TestSynthesizeGeneric(t *testing.T) {
	rules := DefaultRules()
	assert.Equal(t, "// app.js\n// Purpose: UI glue\n\n", Synthesize("web/app.js", FileMetadata{Purpose: "UI glue"}, "x", rules))
	assert.Equal(t, "-- schema.sql\n-- Purpose: tables\n\n", Synthesize("schema.sql", FileMetadata{Purpose: "tables"}, "x", rules))
	assert.Equal(t, "# requirements.txt\n# Purpose: pins\n\n", Synthesize("requirements.txt", FileMetadata{Purpose: "pins"}, "x", rules))
}

func TestPlaceholder(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		path, want string
	}{
		{"utils/helpers.py", "\"\"\"\nhelpers.py\n\nGenerated file based on project structure.\n\"\"\"\n\n# Add your code here\n"},
		{"pkg/__init__.py", "\"\"\"\n__init__.py\n\nGenerated file based on project structure.\n\"\"\"\n\n"},
		{"main.py", "\"\"\"\nmain.py\n\nGenerated file based on project structure.\n\"\"\"\n\n\ndef main():\n    pass\n\nif __name__ == \"__main__\":\n    main()\n"},
		{"docs/guide.md", "# guide\n\nGenerated file based on project structure.\n"},
		{"static/app.ts", "// app.ts\n// Generated file based on project structure\n"},
		{"Makefile", "# Makefile\n# Generated file based on project structure\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Placeholder(tt.path, rules), tt.path)
	}
}
