// Package codec encodes the task list as a single JSON array of strings,
// the value format every store backend persists under the tasks key.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Codec errors.
var (
	ErrNotArray    = errors.New("value is not a JSON array")
	ErrNullElement = errors.New("array contains null element")
	ErrInvalidUTF8 = errors.New("text is not valid UTF-8")
)

// Encode returns the compact JSON array for texts. A nil slice encodes as "[]".
// Texts must be valid UTF-8; JSON would otherwise replace the bad bytes and
// the list would not read back as written.
func Encode(texts []string) ([]byte, error) {
	if texts == nil {
		texts = []string{}
	}
	for i, text := range texts {
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("element %d: %w", i, ErrInvalidUTF8)
		}
	}
	data, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of strings. Empty or whitespace-only input
// decodes to an empty list. Always returns a non-nil slice on success.
func Decode(data []byte) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []string{}, nil
	}
	if data[0] != '[' {
		return nil, ErrNotArray
	}

	// Pointers expose null elements, which would otherwise decode as "".
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	texts := make([]string, len(raw))
	for i, p := range raw {
		if p == nil {
			return nil, fmt.Errorf("element %d: %w", i, ErrNullElement)
		}
		texts[i] = *p
	}
	return texts, nil
}
