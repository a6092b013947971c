package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headers(secs []Section) []string {
	out := make([]string, 0, len(secs))
	for _, s := range secs {
		out = append(out, s.Header())
	}
	return out
}

func TestSplitSectionsOnPathLines(t *testing.T) {
	text := "Here is the breakdown:\n\n" +
		"calc_app/main.py:\n" +
		"* Purpose: Entry point\n" +
		"* Key classes/functions: main()\n" +
		"\n" +
		"calc_app/utils/math_ops.py:\n" +
		"* Purpose: Math helpers\n" +
		"* Key classes/functions: add(a, b)\n" +
		"* Interactions: Used by calc_app/main.py\n"

	secs := SplitSections(text)
	require.Len(t, secs, 2)
	assert.Equal(t, []string{"calc_app/main.py:", "calc_app/utils/math_ops.py:"}, headers(secs))
	assert.Equal(t, 3, secs[0].Line)
	assert.Equal(t, 7, secs[1].Line)
	assert.Equal(t, 1, secs[1].Index)
	assert.Contains(t, secs[1].Text, "Interactions: Used by calc_app/main.py")
}

func TestSplitSectionsDecoratedHeaders(t *testing.T) {
	text := "### 1. `src/app.py`\n" +
		"- Purpose: app\n" +
		"\n" +
		"**src/util.py**:\n" +
		"- Purpose: util\n" +
		"\n" +
		"File: src/db.py\n" +
		"- Purpose: db\n" +
		"Classes/functions: Repo, connect()\n"

	secs := SplitSections(text)
	require.Len(t, secs, 3)
	assert.Contains(t, secs[0].Text, "Purpose: app")
	assert.Contains(t, secs[1].Text, "Purpose: util")
	assert.Contains(t, secs[2].Text, "Classes/functions: Repo, connect()")
}

func TestSplitSectionsBulletStar(t *testing.T) {
	text := "src/a.py * Purpose: first\nsrc/b.py * Purpose: second\n"
	secs := SplitSections(text)
	require.Len(t, secs, 2)
	assert.Equal(t, "src/a.py * Purpose: first", secs[0].Text)
}

func TestSplitSectionsFallback(t *testing.T) {
	text := "main.py\n" +
		"  Purpose: Entry point\n" +
		"\n" +
		"  Still part of main\n" +
		"\n" +
		"helpers.py\n" +
		"  Purpose: Helpers\n"

	secs := SplitSections(text)
	require.Len(t, secs, 2)
	assert.Equal(t, "main.py\n  Purpose: Entry point\n\n  Still part of main", secs[0].Text)
	assert.Equal(t, 1, secs[0].Line)
	assert.Equal(t, "helpers.py\n  Purpose: Helpers", secs[1].Text)
	assert.Equal(t, 6, secs[1].Line)
}

func TestSplitSectionsIgnoresURLsAndProse(t *testing.T) {
	text := "See https://example.com/docs for details.\n" +
		"Handles input parsing\n"
	secs := SplitSections(text)
	require.Len(t, secs, 1)
	assert.Equal(t, text[:len(text)-1], secs[0].Text)
}

func TestSplitSectionsEmpty(t *testing.T) {
	assert.Empty(t, SplitSections(""))
	assert.Empty(t, SplitSections("\n\n  \n"))
}

func TestPreamble(t *testing.T) {
	text := "\n\nmain.py:\n* Purpose: Entry point\n\ncalc_app/utils/math_ops.py:\n* Purpose: Math helpers\n"
	pre, ok := Preamble(text)
	require.True(t, ok)
	assert.Equal(t, 3, pre.Line)
	assert.Equal(t, "main.py:", pre.Header())
	assert.Equal(t, "main.py:\n* Purpose: Entry point", pre.Text)

	_, ok = Preamble("calc_app/main.py:\n* Purpose: x\n")
	assert.False(t, ok)

	// without any path line the whole text goes through the blank-line split
	_, ok = Preamble("main.py:\n* Purpose: x\n")
	assert.False(t, ok)
}
