package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalNoEscape(t *testing.T) {
	out, err := MarshalNoEscape(map[string]string{"a": "x -> <y> & z"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x -> <y> & z"}`, string(out))

	out, err = MarshalIndentNoEscape(map[string]int{"n": 1}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"n\": 1\n}\n", string(out))
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name, in, want string
		wantErr        bool
	}{
		{"object", ` {"a":1} `, `{"a":1}`, false},
		{"wrapped once", `"{\"a\":1}"`, `{"a":1}`, false},
		{"wrapped twice", `"\"{\\\"a\\\":1}\""`, `{"a":1}`, false},
		{"plain string", `"hello"`, "", true},
		{"garbage", `{nope`, "", true},
		{"empty", ``, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap([]byte(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
