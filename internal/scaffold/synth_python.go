package scaffold

import (
	"fmt"
	"regexp"
	"strings"
)

const mainTrailer = "\n\nif __name__ == \"__main__\":\n    main()\n"

// Hand-written stubs for two well-known entry points of the Markdown
// converter sample project, plus main.
var knownFunctionStubs = map[string]string{
	"parse_markdown": "def parse_markdown(markdown_text):\n" +
		"    \"\"\"\n" +
		"    Parse Markdown text and convert it to an intermediate representation.\n" +
		"    \n" +
		"    Args:\n" +
		"        markdown_text (str): The Markdown text to parse.\n" +
		"        \n" +
		"    Returns:\n" +
		"        dict: An intermediate representation of the parsed Markdown.\n" +
		"    \"\"\"\n" +
		"    # Implementation goes here\n" +
		"    pass\n\n",
	"generate_html": "def generate_html(parsed_markdown):\n" +
		"    \"\"\"\n" +
		"    Generate HTML from parsed Markdown.\n" +
		"    \n" +
		"    Args:\n" +
		"        parsed_markdown (dict): The parsed Markdown in intermediate representation.\n" +
		"        \n" +
		"    Returns:\n" +
		"        str: The generated HTML.\n" +
		"    \"\"\"\n" +
		"    # Implementation goes here\n" +
		"    pass\n\n",
	"main": "def main():\n" +
		"    \"\"\"\n" +
		"    Main entry point of the application.\n" +
		"    \"\"\"\n" +
		"    # Implementation goes here\n" +
		"    pass\n\n",
}

var reModuleName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*`)

func pythonSource(filename string, meta FileMetadata, rules Rules) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\"\"\"\n%s\n\n%s\n\nInteractions: %s\n\"\"\"\n\n", filename, meta.Purpose, meta.Interactions)

	if deps := meta.DependencyList(); len(deps) > 0 {
		for _, dep := range deps {
			if line := importLine(dep); line != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if rules.isPackageInit(filename) {
		return b.String()
	}

	symbols := meta.Symbols()
	if len(symbols) == 0 {
		return b.String()
	}

	var classes, functions []string
	hasMain := false
	for _, sym := range symbols {
		if sym.Kind == SymbolClass {
			classes = append(classes, classStub(sym))
			continue
		}
		if sym.Name == "main" {
			hasMain = true
		}
		functions = append(functions, functionStub(sym))
	}

	trailer := hasMain || strings.Contains(strings.ToLower(filename), "main")
	if trailer && !hasMain {
		functions = append(functions, knownFunctionStubs["main"])
	}
	for _, c := range classes {
		b.WriteString(c)
	}
	for _, f := range functions {
		b.WriteString(f)
	}
	if trailer {
		b.WriteString(mainTrailer)
	}
	return b.String()
}

// importLine renders one dependency as an import statement. Statements are
// kept as written; "pkg.mod" becomes "from pkg import mod".
func importLine(dep string) string {
	dep = strings.TrimSpace(dep)
	if strings.HasPrefix(dep, "import ") || strings.HasPrefix(dep, "from ") {
		return dep
	}
	mod := reModuleName.FindString(dep)
	mod = strings.TrimRight(mod, ".")
	if mod == "" {
		return ""
	}
	if parts := strings.Split(mod, "."); len(parts) == 2 {
		return fmt.Sprintf("from %s import %s", parts[0], parts[1])
	}
	return "import " + mod
}

func classStub(sym Symbol) string {
	decl := "class " + sym.Name
	if sym.Params != "" {
		decl += "(" + sym.Params + ")"
	}
	return decl + ":\n" +
		"    \"\"\"\n" +
		"    Description of the " + sym.Name + " class.\n" +
		"    \"\"\"\n" +
		"    \n" +
		"    def __init__(self):\n" +
		"        \"\"\"\n" +
		"        Initialize the " + sym.Name + " instance.\n" +
		"        \"\"\"\n" +
		"        pass\n\n"
}

func functionStub(sym Symbol) string {
	if stub, ok := knownFunctionStubs[sym.Name]; ok {
		return stub
	}
	return "def " + sym.Name + "(" + sym.Params + "):\n" +
		"    \"\"\"\n" +
		"    Description of the " + sym.Name + " function.\n" +
		"    \"\"\"\n" +
		"    # Implementation goes here\n" +
		"    pass\n\n"
}
