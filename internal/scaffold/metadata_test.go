package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadataBulleted(t *testing.T) {
	sec := "calc_app/main.py:\n" +
		"* Primary purpose: Entry point\n" +
		"* Key classes/functions: Calculator, main()\n" +
		"* Dependencies: os, utils.math_ops\n" +
		"* Interactions: Calls utils/math_ops.py\n"

	m := ExtractMetadata(sec)
	assert.Equal(t, FileMetadata{
		Purpose:      "Entry point",
		KeySymbols:   "Calculator, main()",
		Dependencies: "os, utils.math_ops",
		Interactions: "Calls utils/math_ops.py",
	}, m)
	assert.Equal(t, []string{"os", "utils.math_ops"}, m.DependencyList())
}

func TestExtractMetadataDefaults(t *testing.T) {
	m := ExtractMetadata("src/empty.py:\nnothing useful here\n")
	assert.Equal(t, NoPurpose, m.Purpose)
	assert.Equal(t, None, m.KeySymbols)
	assert.Equal(t, None, m.Dependencies)
	assert.Equal(t, None, m.Interactions)
	assert.Nil(t, m.DependencyList())
	assert.Nil(t, m.Symbols())
}

func TestExtractMetadataLabelVariants(t *testing.T) {
	tests := []struct {
		name string
		sec  string
		want FileMetadata
	}{
		{
			name: "bold labels without bullets",
			sec:  "src/a.py\n**Purpose:** Parses input\n**Key functions:** parse(text)\n**Imports:** re",
			want: FileMetadata{Purpose: "Parses input", KeySymbols: "parse(text)", Dependencies: "re", Interactions: None},
		},
		{
			name: "dash bullets and mixed case",
			sec:  "src/b.py\n- PURPOSE: shouting\n- key classes: Shout\n- dependencies: None",
			want: FileMetadata{Purpose: "shouting", KeySymbols: "Shout", Dependencies: None, Interactions: None},
		},
		{
			name: "long label",
			sec:  "src/c.py\n  * Primary purpose and functionality: Does c\n  * Key classes, functions, or components: C\n  * Interactions with other files: none really",
			want: FileMetadata{Purpose: "Does c", KeySymbols: "C", Dependencies: None, Interactions: "none really"},
		},
		{
			name: "inline bullet after path",
			sec:  "src/d.py * Purpose: inline purpose",
			want: FileMetadata{Purpose: "inline purpose", KeySymbols: None, Dependencies: None, Interactions: None},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMetadata(tt.sec))
		})
	}
}

func TestExtractMetadataIgnoresLabelWordsInProse(t *testing.T) {
	tests := []struct {
		name string
		sec  string
		want FileMetadata
	}{
		{
			name: "dependencies inside purpose",
			sec:  "src/installer.py:\n* Purpose: Manage dependencies: install and update packages\n* Key classes/functions: install()",
			want: FileMetadata{Purpose: "Manage dependencies: install and update packages", KeySymbols: "install()", Dependencies: None, Interactions: None},
		},
		{
			name: "interactions inside purpose",
			sec:  "src/routes.py:\n* Purpose: HTTP routes. Interactions: none worth noting",
			want: FileMetadata{Purpose: "HTTP routes. Interactions: none worth noting", KeySymbols: None, Dependencies: None, Interactions: None},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ExtractMetadata(tt.sec)
			assert.Equal(t, tt.want, m)
			assert.Nil(t, m.DependencyList())
		})
	}

	sec := "src/installer.py:\n* Purpose: Manage dependencies: install and update packages\n* Key classes/functions: install()"
	got := Synthesize("src/installer.py", ExtractMetadata(sec), "proj", DefaultRules())
	assert.NotContains(t, got, "import")
	assert.Contains(t, got, "def install():")
}

func TestExtractKeySymbolsContinuationList(t *testing.T) {
	sec := "src/a.py:\n" +
		"* Key classes/functions:\n" +
		"  - Calculator\n" +
		"  - add(a, b)\n" +
		"* Dependencies: math\n"
	got, ok := ExtractKeySymbols(sec)
	require.True(t, ok)
	assert.Equal(t, "Calculator, add(a, b)", got)

	deps, ok := ExtractDependencies(sec)
	require.True(t, ok)
	assert.Equal(t, "math", deps)
}

func TestExtractPurposeMissing(t *testing.T) {
	_, ok := ExtractPurpose("src/a.py:\n* Dependencies: os\n")
	assert.False(t, ok)
}

func TestDependencyListSkipsNoneAndBackticks(t *testing.T) {
	m := FileMetadata{Dependencies: "`os`, none, , json"}
	assert.Equal(t, []string{"os", "json"}, m.DependencyList())
}
