package safeio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFSAllowsAbsoluteUnderRoot(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewSafeFS(dir)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := s.SafeReadFile(p); err != nil {
		t.Fatalf("SafeReadFile absolute: %v", err)
	}
}

func TestSafeFSRejectsTraversal(t *testing.T) {
	s, err := NewSafeFS(t.TempDir())
	require.NoError(t, err)

	_, err = s.SafeReadFile("../etc/passwd")
	require.Error(t, err)
	require.Error(t, s.WriteFile("../escape.txt", []byte("x")))
	require.Error(t, s.MkdirAll("a/../../b"))
}

func TestSafeFSRejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	s, err := NewSafeFS(root)
	require.NoError(t, err)

	err = s.WriteFile("link/new/file.txt", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutsideRoot))
	_, statErr := os.Stat(filepath.Join(outside, "new", "file.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileCreatesParents(t *testing.T) {
	root := t.TempDir()
	s, err := NewSafeFS(root)
	require.NoError(t, err)

	require.NoError(t, s.WriteFile("a/b/c.py", []byte("print(1)\n")))
	got, err := os.ReadFile(filepath.Join(root, "a", "b", "c.py"))
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", string(got))

	require.NoError(t, s.WriteFile("a/b/c.py", []byte("v2")))
	got, err = s.SafeReadFile("a/b/c.py")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestCreateEmptyKeepsExisting(t *testing.T) {
	root := t.TempDir()
	s, err := NewSafeFS(root)
	require.NoError(t, err)

	created, err := s.CreateEmpty("pkg/__init__.py")
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, s.WriteFile("pkg/__init__.py", []byte("x = 1\n")))
	created, err = s.CreateEmpty("pkg/__init__.py")
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.SafeReadFile("pkg/__init__.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(got))
}

func TestRemoveRefusesRoot(t *testing.T) {
	s, err := NewSafeFS(t.TempDir())
	require.NoError(t, err)
	require.Error(t, s.Remove("."))

	require.NoError(t, s.WriteFile("x.txt", nil))
	require.NoError(t, s.Remove("x.txt"))
	_, err = s.SafeStat("x.txt")
	assert.True(t, os.IsNotExist(err))
}

func TestWalkReportsRelativePaths(t *testing.T) {
	s, err := NewSafeFS(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.WriteFile("main.py", nil))
	require.NoError(t, s.WriteFile("utils/math_ops.py", nil))

	var files []string
	err = s.Walk(func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{"main.py", "utils/math_ops.py"}, files)
}

func TestRel(t *testing.T) {
	s, err := NewSafeFS(t.TempDir())
	require.NoError(t, err)
	abs, err := s.Abs("a/b.txt")
	require.NoError(t, err)
	rel, err := s.Rel(abs)
	require.NoError(t, err)
	assert.Equal(t, "a/b.txt", rel)

	_, err = s.Rel(filepath.Dir(s.Root()))
	assert.ErrorIs(t, err, ErrOutsideRoot)
}
