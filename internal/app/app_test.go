package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planforge/internal/artifact"
	"planforge/internal/config"
	"planforge/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	ws := filepath.Join(t.TempDir(), "ws")
	return &config.Config{
		Port:         "127.0.0.1:0",
		Env:          "test",
		WorkspaceDir: ws,
		LogLevel:     "error",
		LogFormat:    "text",
		LLM:          config.LLMConfig{Fake: true},
		RunStore:     config.RunStoreConfig{Path: filepath.Join(ws, "runs.json")},
	}
}

func TestFromConfigWithFakeLLM(t *testing.T) {
	cfg := testConfig(t)
	a, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.DirExists(t, cfg.WorkspaceDir)
	assert.Equal(t, "FakeLLM", a.client.Name())
	assert.Equal(t, "file", a.runs.Backend())
	require.NoError(t, a.Shutdown(context.Background()))
}

func TestFromConfigWithoutModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM = config.LLMConfig{}
	a, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, a.client)
	require.NoError(t, a.Shutdown(context.Background()))
}

func TestFromConfigBadRules(t *testing.T) {
	cfg := testConfig(t)
	bad := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("source_extensions: [unclosed"), 0o644))
	cfg.RulesFile = bad
	_, err := FromConfig(context.Background(), cfg)
	assert.Error(t, err)
}

func TestChooseArtifactStore(t *testing.T) {
	log := logging.Discard()
	_, ok := chooseArtifactStore(config.ArtifactConfig{}, log).(*artifact.MemoryStore)
	assert.True(t, ok)

	s3 := chooseArtifactStore(config.ArtifactConfig{
		Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "planforge-artifacts",
	}, log)
	_, ok = s3.(*artifact.S3Store)
	assert.True(t, ok)
}
