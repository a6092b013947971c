package planner

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planforge/internal/llm"
	"planforge/internal/plan"
	"planforge/internal/safeio"
)

type failingClient struct{}

func (failingClient) Name() string { return "failing" }
func (failingClient) Close() error { return nil }
func (failingClient) GenerateJSON(context.Context, string, any) (json.RawMessage, error) {
	return nil, errors.New("quota exceeded")
}

func TestCreatePlanWithFakeClient(t *testing.T) {
	fake := llm.NewFakeClient()
	p := New(fake, nil)

	pl, err := p.CreatePlan(context.Background(), "a calculator")
	require.NoError(t, err)
	assert.Equal(t, "calc_app", pl.RootName())
	assert.Equal(t, "Calculator", pl.ProjectName())
	assert.Empty(t, pl.MissingSections())
	require.Len(t, fake.Prompts, 1)
	assert.Contains(t, fake.Prompts[0], "USER REQUIREMENT: a calculator")
	assert.Equal(t, "FakeLLM", p.Name())
}

func TestCreatePlanRejectsEmptyRequirement(t *testing.T) {
	_, err := New(llm.NewFakeClient(), nil).CreatePlan(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyRequirement)
}

func TestCreatePlanClientFailure(t *testing.T) {
	_, err := New(failingClient{}, nil).CreatePlan(context.Background(), "x")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestCreatePlanFencedAndDefaults(t *testing.T) {
	fake := &llm.FakeClient{Response: json.RawMessage("```json\n" +
		`{"technical_requirements":{"gui_framework":" "},` +
		`"project_structure":{"root_directory":"app","folders":"app/\n  main.py"}}` +
		"\n```")}
	pl, err := New(fake, nil).CreatePlan(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, MissingBreakdown, pl.FileBreakdown.String())

	var tech map[string]string
	require.NoError(t, json.Unmarshal(pl.TechnicalRequirements, &tech))
	assert.Equal(t, "None", tech["gui_framework"])
	assert.Equal(t, defaultGUIJustification, tech["gui_framework_justification"])
	assert.ElementsMatch(t, []string{"project_overview", "implementation_strategy"}, pl.MissingSections())
}

func TestCreatePlanMalformedAndInvalid(t *testing.T) {
	_, err := New(&llm.FakeClient{Response: json.RawMessage("not json")}, nil).CreatePlan(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = New(&llm.FakeClient{Response: json.RawMessage(`{"file_breakdown":"a.py"}`)}, nil).CreatePlan(context.Background(), "x")
	assert.ErrorIs(t, err, plan.ErrInvalid)
}

func TestNormalizeKeepsGivenValues(t *testing.T) {
	out, err := Normalize([]byte(`{"file_breakdown":"a/b.py: x","technical_requirements":{"gui_framework":"Tkinter"}}`), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"file_breakdown":"a/b.py: x","technical_requirements":{"gui_framework":"Tkinter"}}`, string(out))
}

func TestStripFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```\n{}\n```":     "{}",
		"  {}  ":           "{}",
		"{}```":            "{}",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripFences(in), in)
	}
}

func TestPersist(t *testing.T) {
	ws := t.TempDir()
	pl, err := New(llm.NewFakeClient(), nil).CreatePlan(context.Background(), "calc")
	require.NoError(t, err)

	dir, err := Persist(ws, pl)
	require.NoError(t, err)
	realWs, err := filepath.EvalSymlinks(ws)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realWs, "calc_app"), dir)
	_, err = os.Stat(filepath.Join(dir, plan.FileName))
	require.NoError(t, err)

	loaded, err := plan.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, pl.FileBreakdown, loaded.FileBreakdown)

	pl.ProjectStructure.RootDirectory = "../escape"
	_, err = Persist(ws, pl)
	assert.ErrorIs(t, err, safeio.ErrOutsideRoot)
}

func TestNormalizeUnwrapsQuotedDocument(t *testing.T) {
	out, err := Normalize([]byte(`"{\"file_breakdown\":\"a.py: x -> y & z\"}"`), nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), `x -> y & z`)
}
