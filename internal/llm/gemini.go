package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"planforge/internal/logging"
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey string
	Model  string
	// RPS and Burst enable the request limiter when RPS > 0.
	RPS   float64
	Burst int
}

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
	rl    *limiter

	attempts  int
	baseDelay time.Duration
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("llm: gemini api key is required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("llm: init gemini client: %w", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		cli:       cli,
		model:     model,
		rl:        newLimiter(cfg.RPS, cfg.Burst),
		attempts:  defaultAttempts,
		baseDelay: defaultBaseDelay,
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.3),
		TopP:             genai.Ptr[float32](0.8),
		TopK:             genai.Ptr[float32](40),
		MaxOutputTokens:  8192,
	}
}

// GenerateJSON sends the prompt and requests application/json output.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	full := buildPrompt(prompt, input)
	log := logging.FromContext(ctx).With(slog.String("model", g.model))
	log.Debug("llm request", "bytes", len(full))

	raw, err := retry(ctx, g.attempts, g.baseDelay, func() (json.RawMessage, error) {
		// each API call consumes a token
		if err := g.rl.Acquire(ctx); err != nil {
			return nil, err
		}
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
			generationConfig(),
		)
		if err != nil {
			log.Warn("llm call failed", "err", err)
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, ErrInvalidJSON
		}
		var b strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
		if strings.TrimSpace(b.String()) == "" {
			return nil, ErrInvalidJSON
		}
		return json.RawMessage(b.String()), nil
	})
	if err != nil {
		return nil, fmt.Errorf("llm: gemini generate: %w", err)
	}
	log.Debug("llm response", "bytes", len(raw))
	return raw, nil
}
