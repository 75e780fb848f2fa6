package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`17`, "17"},
		{`"17"`, "17"},
		{`"abc-1"`, "abc-1"},
		{`null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"17", `17`},
		{"0", `0`},
		{"007", `"007"`},
		{"abc", `"abc"`},
		{"", `""`},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			b, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestID_MapKeys(t *testing.T) {
	in := map[ID]string{"5": "a", "x": "b"}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out map[ID]string
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
