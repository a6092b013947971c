package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planforge/internal/safeio"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	content := []byte("print('hi')\n")
	require.NoError(t, s.Put(ctx, "run-1", "/utils/math_ops.py", content))
	require.NoError(t, s.Put(ctx, "run-1", "main.py", nil))
	require.NoError(t, s.Put(ctx, "run-2", "main.py", []byte("x")))
	content[0] = 'X'

	got, err := s.Get(ctx, "run-1", "utils/math_ops.py")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(got))

	list, err := s.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py", "utils/math_ops.py"}, list)

	_, err = s.Get(ctx, "run-1", "missing.py")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Put(ctx, "", "a", nil))
	assert.Error(t, s.Put(ctx, "r", " ", nil))
	_, err = s.List(ctx, "")
	assert.Error(t, err)

	url, err := s.GetURL(ctx, "run-1", "main.py")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestArchiveTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "utils", "__pycache__"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "utils", "math_ops.py"), []byte("ops"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "utils", "__pycache__", "x.pyc"), []byte("c"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "project_plan.json"), []byte("{}"), 0o644))

	fsys, err := safeio.NewSafeFS(root)
	require.NoError(t, err)
	store := NewMemoryStore()

	got, err := ArchiveTree(context.Background(), store, "r1", fsys, "project_plan.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py", "utils/math_ops.py"}, got)

	data, err := store.Get(context.Background(), "r1", "utils/math_ops.py")
	require.NoError(t, err)
	assert.Equal(t, "ops", string(data))
}

func TestNewS3StoreValidatesConfig(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.ErrorContains(t, err, "endpoint")
	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "access key")
	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")

	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "runs"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", contentType("Makefile"))
	assert.Contains(t, contentType("data.json"), "application/json")
}
