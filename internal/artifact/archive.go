package artifact

import (
	"context"
	"fmt"

	"planforge/internal/safeio"
	"planforge/internal/scan"
)

// ArchiveTree uploads every regular file under fsys to store under runID,
// skipping the names in ignore. It returns the archived relative paths.
func ArchiveTree(ctx context.Context, store Store, runID string, fsys *safeio.SafeFS, ignore ...string) ([]string, error) {
	entries, err := scan.Snapshot(fsys, scan.Options{IgnoreFiles: ignore})
	if err != nil {
		return nil, fmt.Errorf("artifact: scan %s: %w", fsys.Root(), err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		data, err := fsys.SafeReadFile(e.Path)
		if err != nil {
			return out, fmt.Errorf("artifact: read %s: %w", e.Path, err)
		}
		if err := store.Put(ctx, runID, e.Path, data); err != nil {
			return out, fmt.Errorf("artifact: put %s: %w", e.Path, err)
		}
		out = append(out, e.Path)
	}
	return out, nil
}
