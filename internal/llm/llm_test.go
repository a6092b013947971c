package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClientReturnsCalculatorPlan(t *testing.T) {
	f := NewFakeClient()
	raw, err := f.GenerateJSON(context.Background(), "plan it", nil)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	structure := doc["project_structure"].(map[string]any)
	assert.Equal(t, "calc_app", structure["root_directory"])
	assert.Equal(t, []string{"plan it"}, f.Prompts)
}

func TestFakeClientOverride(t *testing.T) {
	f := &FakeClient{Response: json.RawMessage(`{"a":1}`)}
	raw, err := f.GenerateJSON(context.Background(), "p", map[string]any{"k": "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
	assert.Contains(t, f.Prompts[0], "[INPUT JSON]")
}

func TestFakeClientCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFakeClient().GenerateJSON(ctx, "p", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry(t *testing.T) {
	calls := 0
	out, err := retry(context.Background(), 3, time.Millisecond, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = retry(context.Background(), 2, time.Millisecond, func() (int, error) {
		calls++
		return 0, errors.New("down")
	})
	assert.EqualError(t, err, "down")
	assert.Equal(t, 2, calls)
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retry(ctx, 5, time.Hour, func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestLimiterSpacing(t *testing.T) {
	var disabled *limiter = newLimiter(0, 0)
	assert.Nil(t, disabled)
	require.NoError(t, disabled.Acquire(context.Background()))

	l := newLimiter(10, 1)
	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "p", buildPrompt("p", nil))
	assert.Equal(t, "p\n\n[INPUT JSON]\n{\n  \"a\": 1\n}", buildPrompt("p", map[string]int{"a": 1}))
}
