// Package artifact archives the files a generation run produced.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store persists run artifacts keyed by run ID and relative path.
type Store interface {
	Put(ctx context.Context, runID, path string, content []byte) error
	Get(ctx context.Context, runID, path string) ([]byte, error)
	GetURL(ctx context.Context, runID, path string) (string, error)
	List(ctx context.Context, runID string) ([]string, error)
}

var ErrNotFound = errors.New("artifact: not found")

func normalizeKey(runID, path string) (string, string, error) {
	runID = strings.TrimSpace(runID)
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if runID == "" {
		return "", "", fmt.Errorf("artifact: run_id is required")
	}
	if path == "" {
		return "", "", fmt.Errorf("artifact: path is required")
	}
	return runID, path, nil
}

func objectKey(runID, path string) string {
	return runID + "/" + path
}
