// Package llm wraps the language model used to draft project plans.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when the model produced no usable text.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// Client produces a JSON document for a prompt. input is appended to the
// prompt as indented JSON when non-nil.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// buildPrompt joins the prompt with the JSON rendering of input.
func buildPrompt(prompt string, input any) string {
	if input == nil {
		return prompt
	}
	in, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return prompt
	}
	return prompt + "\n\n[INPUT JSON]\n" + string(in)
}
