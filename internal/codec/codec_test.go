package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{"nil encodes as empty array", nil, `[]`},
		{"empty encodes as empty array", []string{}, `[]`},
		{"sentinel is stored literally", []string{"Buy milk", "Edit Here..."}, `["Buy milk","Edit Here..."]`},
		{"quotes and unicode are escaped", []string{`say "hi"`, "café"}, `["say \"hi\"","café"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.texts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	_, err := Encode([]string{"ok", "a\xffb"})
	require.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "element 1")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr error
	}{
		{name: "empty input is empty list", data: "", want: []string{}},
		{name: "whitespace input is empty list", data: "  \n", want: []string{}},
		{name: "empty array", data: `[]`, want: []string{}},
		{name: "strings in order", data: `["b","a","Edit Here..."]`, want: []string{"b", "a", "Edit Here..."}},
		{name: "empty string element", data: `[""]`, want: []string{""}},
		{name: "object is not an array", data: `{"tasks":[]}`, wantErr: ErrNotArray},
		{name: "bare null is not an array", data: `null`, wantErr: ErrNotArray},
		{name: "null element", data: `["a",null]`, wantErr: ErrNullElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, data := range []string{`[1,2]`, `["a"`, `["a"] trailing`, `[["nested"]]`} {
		t.Run(data, func(t *testing.T) {
			_, err := Decode([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	lists := [][]string{
		{},
		{"Edit Here..."},
		{"", "", ""},
		{"line\nbreak", "tab\there", "emoji 🎉"},
	}
	for _, want := range lists {
		data, err := Encode(want)
		require.NoError(t, err)
		got, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
