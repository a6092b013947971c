package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns a fixed calculator plan for offline runs and tests.
type FakeClient struct {
	// Response overrides the canned plan when set.
	Response json.RawMessage
	// Prompts records every prompt received.
	Prompts []string
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.Prompts = append(f.Prompts, buildPrompt(prompt, input))
	if len(f.Response) > 0 {
		return append(json.RawMessage(nil), f.Response...), nil
	}
	b, err := json.Marshal(calculatorPlan)
	if err != nil {
		return nil, err
	}
	return b, nil
}

var calculatorPlan = map[string]any{
	"project_overview": map[string]any{
		"name":        "Calculator",
		"description": "A command line calculator",
		"purpose":     "Perform basic arithmetic",
		"audience":    "Learners",
	},
	"technical_requirements": map[string]any{
		"python_version":              "3.11",
		"dependencies":                "None",
		"gui_framework":               "None",
		"gui_framework_justification": "Runs in a terminal",
		"database_requirements":       "None",
		"external_apis":               "None",
		"system_requirements":         "Standard Python environment",
	},
	"project_structure": map[string]any{
		"root_directory": "calc_app",
		"description":    "Entry point plus a utils package",
		"folders":        "calc_app/\n├── main.py\n└── utils/\n    └── math_ops.py",
	},
	"file_breakdown": "calc_app/main.py:\n" +
		"* Primary purpose: Entry point that reads input and prints results\n" +
		"* Key classes/functions: main()\n" +
		"* Dependencies: utils.math_ops\n" +
		"* Interactions: Calls utils/math_ops.py\n" +
		"\n" +
		"calc_app/utils/math_ops.py:\n" +
		"* Primary purpose: Arithmetic helpers\n" +
		"* Key classes/functions: add(a, b), subtract(a, b), multiply(a, b), divide(a, b)\n" +
		"* Dependencies: None\n" +
		"* Interactions: Used by main.py\n",
	"implementation_strategy": map[string]any{
		"development_phases":     "1. math_ops 2. main",
		"test_file_requirements": "Unit tests for math_ops",
	},
}
