// Package scan takes point-in-time snapshots of a materialized project tree.
package scan

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"planforge/internal/safeio"
)

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{".git", ".hg", ".svn", "node_modules", "__pycache__", ".venv", ".planforge"}

// Options controls what Snapshot records.
type Options struct {
	// Directory basenames to skip entirely. Nil means DefaultIgnoreDirs.
	IgnoreDirs []string
	// File paths (slash-separated, relative to root) or basenames to leave out.
	IgnoreFiles []string
	// Maximum depth to record; 0 means unlimited. Root-level files have depth 0,
	// so MaxDepth is compared against Depth+1.
	MaxDepth int
}

// Entry is one regular file in a snapshot.
type Entry struct {
	// Root-relative path using forward slashes (e.g., "src/main.py").
	Path string
	// Basename.
	Name string
	// Parent directory ("." for root-level files).
	Dir string
	// Number of directories between the root and the file.
	Depth int
	// Size in bytes; 0 when stat fails.
	Size int64
}

// AtRoot reports whether the file sits directly under the root.
func (e Entry) AtRoot() bool { return e.Depth == 0 }

// Snapshot walks fsys and returns every regular file, sorted by path.
// Unreadable subtrees are skipped rather than failing the whole walk.
func Snapshot(fsys *safeio.SafeFS, opts Options) ([]Entry, error) {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}
	skipDir := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		skipDir[d] = true
	}
	skipFile := make(map[string]bool, len(opts.IgnoreFiles))
	for _, f := range opts.IgnoreFiles {
		skipFile[strings.TrimPrefix(path.Clean(f), "./")] = true
	}

	var out []Entry
	err := fsys.Walk(func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != "." && skipDir[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if skipFile[p] || skipFile[d.Name()] {
			return nil
		}
		depth := strings.Count(p, "/")
		if opts.MaxDepth > 0 && depth+1 > opts.MaxDepth {
			return nil
		}
		var size int64
		if info, e := d.Info(); e == nil {
			size = info.Size()
		}
		out = append(out, Entry{
			Path:  p,
			Name:  d.Name(),
			Dir:   path.Dir(p),
			Depth: depth,
			Size:  size,
		})
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, err
}

// FindByName returns every entry whose basename equals name.
func FindByName(entries []Entry, name string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// GroupByName groups entries by basename, preserving path order inside each group.
func GroupByName(entries []Entry) map[string][]Entry {
	groups := make(map[string][]Entry)
	for _, e := range entries {
		groups[e.Name] = append(groups[e.Name], e)
	}
	return groups
}

// Paths returns the Path of each entry.
func Paths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}
