package scan

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"planforge/internal/safeio"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func mustFS(t *testing.T, root string) *safeio.SafeFS {
	t.Helper()
	fsys, err := safeio.NewSafeFS(root)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	return fsys
}

func TestSnapshot_FilesAndDepth(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.py", "")
	write(t, root, "src/main.py", "print(1)")
	write(t, root, "src/utils/helpers.py", "")
	write(t, root, ".git/HEAD", "ref")
	write(t, root, "node_modules/x.js", "")

	got, err := Snapshot(mustFS(t, root), Options{})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := []string{"main.py", "src/main.py", "src/utils/helpers.py"}
	if !slices.Equal(Paths(got), want) {
		t.Fatalf("paths=%v want=%v", Paths(got), want)
	}
	if got[0].Depth != 0 || !got[0].AtRoot() {
		t.Fatalf("root entry depth: %+v", got[0])
	}
	if got[1].Depth != 1 || got[1].Dir != "src" || got[1].Size != 8 {
		t.Fatalf("src entry: %+v", got[1])
	}
	if got[2].Depth != 2 || got[2].Name != "helpers.py" {
		t.Fatalf("deep entry: %+v", got[2])
	}
}

func TestSnapshot_IgnoreFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "project_plan.json", "{}")
	write(t, root, "app/project_plan.json", "{}")
	write(t, root, "app/run.py", "")

	got, err := Snapshot(mustFS(t, root), Options{IgnoreFiles: []string{"project_plan.json"}})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if want := []string{"app/run.py"}; !slices.Equal(Paths(got), want) {
		t.Fatalf("paths=%v want=%v", Paths(got), want)
	}

	got, err = Snapshot(mustFS(t, root), Options{IgnoreFiles: []string{"./project_plan.json"}})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if want := []string{"app/project_plan.json", "app/run.py"}; !slices.Equal(Paths(got), want) {
		t.Fatalf("paths=%v want=%v", Paths(got), want)
	}
}

func TestSnapshot_MaxDepth(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", "")
	write(t, root, "d/b.txt", "")

	got, err := Snapshot(mustFS(t, root), Options{MaxDepth: 1})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if want := []string{"a.txt"}; !slices.Equal(Paths(got), want) {
		t.Fatalf("paths=%v want=%v", Paths(got), want)
	}
}

func TestGroupByName(t *testing.T) {
	entries := []Entry{
		{Path: "main.py", Name: "main.py"},
		{Path: "src/main.py", Name: "main.py", Depth: 1},
		{Path: "src/util.py", Name: "util.py", Depth: 1},
	}
	groups := GroupByName(entries)
	if len(groups["main.py"]) != 2 || len(groups["util.py"]) != 1 {
		t.Fatalf("groups=%v", groups)
	}
	if got := FindByName(entries, "util.py"); len(got) != 1 || got[0].Path != "src/util.py" {
		t.Fatalf("FindByName=%v", got)
	}
}
