package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Text is a free-text plan field. Producers are asked for a string but
// sometimes return a list of lines or a list of per-file objects; all three
// shapes are flattened into one newline-joined string.
type Text string

// String returns the flattened text.
func (t Text) String() string { return string(t) }

// IsBlank reports whether the text is empty after trimming.
func (t Text) IsBlank() bool { return strings.TrimSpace(string(t)) == "" }

// MarshalJSON always encodes as a plain string.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON accepts a string, an array of strings, or an array of objects.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		sep := "\n"
		for _, item := range items {
			if trimmed := bytes.TrimSpace(item); len(trimmed) > 0 && trimmed[0] == '{' {
				sep = "\n\n"
			}
			s, err := flattenItem(item)
			if err != nil {
				return err
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		*t = Text(strings.Join(parts, sep))
		return nil
	case '{':
		s, err := flattenObject(data)
		if err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	return fmt.Errorf("plan: unsupported text value %s", truncate(string(data), 40))
}

func flattenItem(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{':
		return flattenObject(raw)
	}
	return string(raw), nil
}

var pathKeys = []string{"path", "file_path", "file", "filename", "name"}

type labelKey struct {
	key   string
	label string
}

var knownLabels = []labelKey{
	{"primary_purpose", "Primary purpose"},
	{"purpose", "Purpose"},
	{"key_classes_functions", "Key classes/functions"},
	{"key_classes", "Key classes"},
	{"key_functions", "Key functions"},
	{"classes", "Classes"},
	{"functions", "Functions"},
	{"dependencies", "Dependencies"},
	{"interactions", "Interactions"},
}

// flattenObject renders a per-file object as a path line followed by
// "* Label: value" bullets, the same shape the section splitter expects.
func flattenObject(raw []byte) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	var b strings.Builder
	used := map[string]bool{}
	for _, k := range pathKeys {
		if v, ok := obj[k]; ok {
			if s := valueString(v); s != "" {
				b.WriteString(s)
				b.WriteString(":\n")
				used[k] = true
				break
			}
		}
	}
	for _, l := range knownLabels {
		if v, ok := obj[l.key]; ok && !used[l.key] {
			fmt.Fprintf(&b, "* %s: %s\n", l.label, valueString(v))
			used[l.key] = true
		}
	}
	var rest []string
	for k := range obj {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fmt.Fprintf(&b, "* %s: %s\n", labelFor(k), valueString(obj[k]))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func labelFor(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s := valueString(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+valueString(x[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
