// Package planner asks a language model for a project plan and normalizes
// the answer into a plan.Plan.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"planforge/internal/llm"
	"planforge/internal/logging"
	"planforge/internal/plan"
	"planforge/internal/safeio"
	"planforge/internal/util/jsonutil"
)

// Substituted for a missing or blank file_breakdown.
const MissingBreakdown = "Error: File breakdown was not generated. Please try again."

const (
	defaultGUIFramework     = "None"
	defaultGUIJustification = "No GUI framework specified by the planning agent"
)

var (
	ErrEmptyRequirement = errors.New("planner: requirement is empty")
	ErrMalformed        = errors.New("planner: model returned malformed JSON")
)

// Planner turns a natural-language requirement into a plan.
type Planner struct {
	client llm.Client
	log    *slog.Logger
}

// New returns a Planner. A nil logger uses the context logger per call.
func New(client llm.Client, log *slog.Logger) *Planner {
	return &Planner{client: client, log: log}
}

// Name reports the backing model client.
func (p *Planner) Name() string {
	if p == nil || p.client == nil {
		return ""
	}
	return p.client.Name()
}

func (p *Planner) logger(ctx context.Context) *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return logging.FromContext(ctx)
}

// CreatePlan asks the model for a plan and applies the producer defaults.
func (p *Planner) CreatePlan(ctx context.Context, requirement string) (*plan.Plan, error) {
	requirement = strings.TrimSpace(requirement)
	if requirement == "" {
		return nil, ErrEmptyRequirement
	}
	if p == nil || p.client == nil {
		return nil, errors.New("planner: no model client configured")
	}
	log := p.logger(ctx).With("client", p.client.Name())

	log.Info("requesting project plan", "requirement_bytes", len(requirement))
	raw, err := p.client.GenerateJSON(ctx, Prompt(requirement), nil)
	if err != nil {
		return nil, fmt.Errorf("planner: generate: %w", err)
	}
	log.Info("received plan response", "bytes", len(raw))

	normalized, err := Normalize(raw, log)
	if err != nil {
		return nil, err
	}
	pl, err := plan.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	return pl, nil
}

// Normalize strips Markdown fences from a model response, decodes it and
// fills the defaults for an empty file_breakdown and gui_framework.
func Normalize(raw []byte, log *slog.Logger) ([]byte, error) {
	if log == nil {
		log = logging.Discard()
	}
	cleaned, err := jsonutil.Unwrap([]byte(StripFences(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(cleaned, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	var missing []string
	for _, s := range plan.Sections {
		if _, ok := doc[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		log.Warn("plan response is missing sections", "sections", missing)
	}

	var breakdown plan.Text
	if rawBreakdown, ok := doc["file_breakdown"]; ok {
		_ = json.Unmarshal(rawBreakdown, &breakdown)
	}
	if breakdown.IsBlank() {
		log.Error("file_breakdown is missing or empty")
		doc["file_breakdown"], _ = json.Marshal(MissingBreakdown)
	}

	if rawTech, ok := doc["technical_requirements"]; ok {
		var tech map[string]any
		if json.Unmarshal(rawTech, &tech) == nil && tech != nil {
			gui, _ := tech["gui_framework"].(string)
			if strings.TrimSpace(gui) == "" {
				log.Warn("gui framework not specified, defaulting", "gui_framework", defaultGUIFramework)
				tech["gui_framework"] = defaultGUIFramework
				tech["gui_framework_justification"] = defaultGUIJustification
				doc["technical_requirements"], _ = json.Marshal(tech)
			}
		}
	}
	return jsonutil.MarshalNoEscape(doc)
}

// StripFences removes a surrounding ```json or ``` Markdown fence.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Persist writes the plan to <workspace>/<root_directory>/project_plan.json
// and returns that folder. The root directory must stay inside workspace.
func Persist(workspace string, p *plan.Plan) (string, error) {
	root := p.RootName()
	if root == "" {
		return "", fmt.Errorf("planner: %w: empty root directory", plan.ErrInvalid)
	}
	fsys, err := safeio.NewSafeFS(workspace)
	if err != nil {
		return "", fmt.Errorf("planner: open workspace: %w", err)
	}
	dir, err := fsys.Abs(root)
	if err != nil {
		return "", fmt.Errorf("planner: place plan: %w", err)
	}
	if err := plan.Save(dir, p); err != nil {
		return "", err
	}
	return dir, nil
}
