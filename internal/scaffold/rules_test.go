package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRulesOverlaysDefaults(t *testing.T) {
	data := []byte(`
source_extensions: [py, ".PYI"]
special_files: [Taskfile]
comment_prefixes:
  ex: "#"
  hs: "--"
`)
	r, err := ParseRules(data)
	require.NoError(t, err)
	assert.Equal(t, []string{".py", ".pyi"}, r.SourceExtensions)
	assert.Equal(t, DefaultRules().DocumentExtensions, r.DocumentExtensions)
	assert.Equal(t, "project_plan.json", r.PlanFileName)
	assert.True(t, r.isSource("stubs.pyi"))
	assert.True(t, r.isSpecial("Taskfile"))
	assert.False(t, r.isSpecial("Makefile"))
	assert.Equal(t, "--", r.commentPrefix("Main.hs"))
	assert.Equal(t, "//", r.commentPrefix("index.ts"))
}

func TestParseRulesInvalid(t *testing.T) {
	_, err := ParseRules([]byte("source_extensions: {nope"))
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	r, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), r)

	file := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(file, []byte("plan_file_name: plan.json\n"), 0o644))
	r, err = LoadRules(file)
	require.NoError(t, err)
	assert.Equal(t, "plan.json", r.planFile())

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRulesNameClassification(t *testing.T) {
	r := DefaultRules()
	for _, p := range []string{"a.py", "src/.env", "pkg/__init__.py", "Dockerfile", "x/README.md"} {
		assert.True(t, r.hasUsableName(p), p)
	}
	for _, p := range []string{"src", "docs/notes", "__", "."} {
		assert.False(t, r.hasUsableName(p), p)
	}
	assert.True(t, r.isReadme("docs/Readme.MD"))
	assert.True(t, r.isPackageInit("pkg/__init__.py"))
}
