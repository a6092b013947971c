// Package jsonutil holds JSON helpers for model output and plan documents.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNotJSON is returned when a payload is neither JSON nor a JSON string
// wrapping JSON.
var ErrNotJSON = errors.New("jsonutil: cannot parse JSON payload")

// MarshalIndentNoEscape encodes v with indentation and without escaping
// <, > and & into < and friends. The trailing newline is kept.
func MarshalIndentNoEscape(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalNoEscape is MarshalIndentNoEscape without indentation or trailing newline.
func MarshalNoEscape(v any) ([]byte, error) {
	out, err := MarshalIndentNoEscape(v, "", "")
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(out, "\n"), nil
}

// Unwrap returns raw unchanged when it is valid JSON that is not a string.
// A JSON string whose content is itself JSON is unwrapped, up to two levels,
// which is how some models return a document.
func Unwrap(raw []byte) ([]byte, error) {
	cur := bytes.TrimSpace(raw)
	for range 3 {
		if !json.Valid(cur) {
			return nil, ErrNotJSON
		}
		if len(cur) == 0 || cur[0] != '"' {
			return cur, nil
		}
		var s string
		if err := json.Unmarshal(cur, &s); err != nil {
			return nil, ErrNotJSON
		}
		cur = bytes.TrimSpace([]byte(s))
	}
	return nil, ErrNotJSON
}
