// Package config loads service settings from .env, the environment and
// command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	WorkspaceDir string
	RulesFile    string
	LogLevel     string
	LogFormat    string
	LLM          LLMConfig
	RunStore     RunStoreConfig
	Artifact     ArtifactConfig
}

type LLMConfig struct {
	APIKey string
	Model  string
	RPS    float64
	Burst  int
	// Fake serves the canned plan instead of calling the model.
	Fake bool
}

type RunStoreConfig struct {
	PostgresDSN string
	Path        string
}

type ArtifactConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether enough is configured to reach an S3 endpoint.
func (a ArtifactConfig) CanUseS3() bool {
	return a.Endpoint != "" && a.AccessKey != "" && a.SecretKey != "" && a.Bucket != ""
}

// Load reads .env (if present), the environment, then parses args.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()
	return parse(args, os.Getenv)
}

func parse(args []string, getenv func(string) string) (*Config, error) {
	env := strings.TrimSpace(getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}
	cfg := &Config{
		Port:         normalizePort(firstNonEmpty(getenv("PORT"), ":8081")),
		Env:          env,
		WorkspaceDir: firstNonEmpty(getenv("WORKSPACE_DIR"), "."),
		RulesFile:    strings.TrimSpace(getenv("SCAFFOLD_RULES")),
		LogLevel:     firstNonEmpty(getenv("LOG_LEVEL"), "info"),
		LogFormat:    firstNonEmpty(getenv("LOG_FORMAT"), "text"),
		LLM: LLMConfig{
			APIKey: firstNonEmpty(getenv("GEMINI_API_KEY"), getenv("AI_STUDIO_API_KEY")),
			Model:  firstNonEmpty(getenv("GEMINI_MODEL"), "gemini-2.0-flash"),
			RPS:    parseFloat(getenv("LLM_RPS")),
			Burst:  parseInt(getenv("LLM_BURST")),
			Fake:   parseBool(getenv("LLM_FAKE"), false),
		},
		RunStore: RunStoreConfig{
			PostgresDSN: strings.TrimSpace(getenv("RUN_STORE_PG_DSN")),
			Path:        strings.TrimSpace(getenv("RUN_STORE_PATH")),
		},
		Artifact: loadArtifactConfig(env, getenv),
	}

	fs := flag.NewFlagSet("planforge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	port := fs.String("port", cfg.Port, "server port")
	fs.StringVar(&cfg.WorkspaceDir, "workspace", cfg.WorkspaceDir, "directory holding generated projects")
	fs.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "YAML synthesis rules file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text|json")
	fs.BoolVar(&cfg.LLM.Fake, "fake-llm", cfg.LLM.Fake, "serve a canned plan instead of calling the model")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Port = normalizePort(*port)

	abs, err := filepath.Abs(cfg.WorkspaceDir)
	if err != nil {
		return nil, fmt.Errorf("config: workspace: %w", err)
	}
	cfg.WorkspaceDir = abs
	if cfg.RunStore.Path == "" {
		cfg.RunStore.Path = filepath.Join(abs, ".planforge", "runs.json")
	}
	return cfg, nil
}

func loadArtifactConfig(env string, getenv func(string) string) ArtifactConfig {
	local := strings.EqualFold(env, "local")
	return ArtifactConfig{
		Endpoint:  firstNonEmpty(getenv("ARTIFACT_S3_ENDPOINT"), getenv("ARTIFACT_MINIO_ENDPOINT")),
		Region:    firstNonEmpty(getenv("ARTIFACT_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(getenv("ARTIFACT_S3_ACCESS_KEY"), getenv("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(getenv("ARTIFACT_S3_SECRET_KEY"), getenv("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(getenv("ARTIFACT_S3_BUCKET"), "planforge-artifacts"),
		UseSSL:    parseBool(getenv("ARTIFACT_S3_USE_SSL"), !local),
	}
}

func normalizePort(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func parseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
