package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interrors "github.com/streed/litewrite/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "plain array",
			raw:  `["a","b"]`,
			want: []string{"a", "b"},
		},
		{
			name: "json fence",
			raw:  "```json\n[\"Buy milk\",\"Call mom\"]\n```",
			want: []string{"Buy milk", "Call mom"},
		},
		{
			name: "other language fence",
			raw:  "```python\n[\"x\"]\n```",
			want: []string{"x"},
		},
		{
			name: "bare fence",
			raw:  "```\n[\"x\"]\n```\nHope this helps!",
			want: []string{"x"},
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n [\"x\"] \n\t",
			want: []string{"x"},
		},
		{
			name: "empty array",
			raw:  "[]",
			want: []string{},
		},
		{
			name: "non string elements",
			raw:  `["a", 1, {"k": "v"}, [true, null]]`,
			want: []string{"a", "1", `{"k":"v"}`, "[true,null]"},
		},
		{
			name: "preserves order and duplicates",
			raw:  `["z","a","z"]`,
			want: []string{"z", "a", "z"},
		},
		{
			name: "unicode content",
			raw:  `["café ☕", "line\nbreak"]`,
			want: []string{"café ☕", "line\nbreak"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json at all", "not json at all"},
		{"empty", ""},
		{"only fence", "```"},
		{"object", `{"notes":["a"]}`},
		{"string", `"a"`},
		{"number", `42`},
		{"truncated array", `["a", "b"`},
		{"trailing data", `["a"] ["b"]`},
		{"trailing prose", `["a"] that is all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			assert.ErrorIs(t, err, interrors.ErrMalformedAIOutput)
			assert.Nil(t, got)
		})
	}
}

func TestParseFencedRoundTrip(t *testing.T) {
	contents := []string{"first note", "second \"quoted\" note", "tab\tseparated"}
	payload, err := json.Marshal(contents)
	require.NoError(t, err)

	got, err := Parse("```json\n" + string(payload) + "\n```")
	require.NoError(t, err)
	assert.Equal(t, contents, got)

	got, err = Parse(string(payload))
	require.NoError(t, err)
	assert.Equal(t, contents, got)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `["a"]`, StripFences("```json\n[\"a\"]\n```"))
	assert.Equal(t, `["a"]`, StripFences(`  ["a"]  `))
	assert.Equal(t, `["a"]`, StripFences("```[\"a\"]```"))
}
