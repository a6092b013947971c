// Package app wires configuration, stores, the planner and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"planforge/internal/artifact"
	"planforge/internal/config"
	"planforge/internal/llm"
	"planforge/internal/logging"
	"planforge/internal/planner"
	"planforge/internal/runstore"
	"planforge/internal/scaffold"
	"planforge/internal/server"
	"planforge/internal/service"
)

type App struct {
	server *server.Server
	client llm.Client
	runs   *runstore.Store
	log    *slog.Logger
}

func New(ctx context.Context, args []string) (*App, error) {
	cfg, err := config.Load(args)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return FromConfig(ctx, cfg)
}

func FromConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr).With("env", cfg.Env)

	if err := os.MkdirAll(cfg.WorkspaceDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare workspace: %w", err)
	}
	rules, err := scaffold.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load scaffold rules: %w", err)
	}

	client, err := newLLMClient(ctx, cfg.LLM)
	switch {
	case errors.Is(err, errNoLLM):
		log.Warn("planner disabled: no model configured", "hint", "set GEMINI_API_KEY or LLM_FAKE=true")
	case err != nil:
		log.Error("planner disabled: model client failed", "err", err)
	}
	var pl *planner.Planner
	if client != nil {
		pl = planner.New(client, log)
		log.Info("planner ready", "llm", client.Name())
	}

	runs := runstore.Open(cfg.RunStore.PostgresDSN, cfg.RunStore.Path, log)
	log.Info("run store", "backend", runs.Backend())

	artifacts := chooseArtifactStore(cfg.Artifact, log)

	svc, err := service.New(service.Config{
		Workspace: cfg.WorkspaceDir,
		Rules:     &rules,
		Planner:   pl,
		Runs:      runs,
		Artifacts: artifacts,
		Logger:    log,
	})
	if err != nil {
		_ = runs.Close()
		return nil, err
	}

	mux := server.NewMux(server.NewHandler(svc, log))
	return &App{
		server: server.New(cfg.Port, mux, log),
		client: client,
		runs:   runs,
		log:    log,
	}, nil
}

var errNoLLM = errors.New("no model configured")

func newLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	if cfg.Fake {
		return llm.NewFakeClient(), nil
	}
	if cfg.APIKey == "" {
		return nil, errNoLLM
	}
	c, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		RPS:    cfg.RPS,
		Burst:  cfg.Burst,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func chooseArtifactStore(cfg config.ArtifactConfig, log *slog.Logger) artifact.Store {
	if !cfg.CanUseS3() {
		log.Info("artifact store: in-memory")
		return artifact.NewMemoryStore()
	}
	s3, err := artifact.NewS3Store(artifact.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Warn("artifact store: s3 unavailable, using in-memory", "err", err)
		return artifact.NewMemoryStore()
	}
	log.Info("artifact store: s3", "bucket", cfg.Bucket, "endpoint", cfg.Endpoint)
	return s3
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if a.client != nil {
		err = errors.Join(err, a.client.Close())
	}
	return errors.Join(err, a.runs.Close())
}
