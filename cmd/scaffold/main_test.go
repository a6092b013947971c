package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planforge/internal/llm"
	"planforge/internal/plan"
	"planforge/internal/planner"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		dir         string
		useExisting bool
		wantErr     bool
	}{
		{"positional only", []string{"proj"}, "proj", false, false},
		{"short flag first", []string{"-e", "proj"}, "proj", true, false},
		{"long flag after", []string{"proj", "--use-existing-folder"}, "proj", true, false},
		{"missing dir", []string{"-e"}, "", true, true},
		{"two dirs", []string{"a", "b"}, "", false, true},
		{"unknown flag", []string{"-x", "proj"}, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dir, opts.dir)
			assert.Equal(t, tt.useExisting, opts.useExisting)
		})
	}
}

func savePlan(t *testing.T, dir string) {
	t.Helper()
	p, err := planner.New(llm.NewFakeClient(), nil).CreatePlan(context.Background(), "a calculator")
	require.NoError(t, err)
	require.NoError(t, plan.Save(dir, p))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run([]string{filepath.Join(dir, "missing")}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Directory not found")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{dir}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Project plan not found")

	savePlan(t, dir)
	stderr.Reset()
	require.Equal(t, 0, run([]string{"-e", dir}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "Project structure successfully generated")
	assert.Contains(t, stdout.String(), "math_ops.py")
	assert.FileExists(t, filepath.Join(dir, "utils", "math_ops.py"))
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	savePlan(t, dir)
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{dir, "-json"}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), `"project_name": "Calculator"`)
	assert.FileExists(t, filepath.Join(dir, "calc_app", "main.py"))
}
