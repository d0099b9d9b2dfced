package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rsfmt/pkg/config"
)

func TestHexLiteralCase(t *testing.T) {
	tests := []struct {
		text string
		mode config.HexLiteralCase
		want string
	}{
		{text: "0xaBc", mode: config.HexPreserve, want: "0xaBc"},
		{text: "0xaBc", mode: config.HexUpper, want: "0xABC"},
		{text: "0xaBc", mode: config.HexLower, want: "0xabc"},
		{text: "0xffu8", mode: config.HexUpper, want: "0xFFu8"},
		{text: "0xFF_i32", mode: config.HexLower, want: "0xff_i32"},
		{text: "255", mode: config.HexUpper, want: "255"},
		{text: "0b1010", mode: config.HexUpper, want: "0b1010"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hexLiteralCase(tt.text, tt.mode), "%s as %s", tt.text, tt.mode)
	}
}

func TestSplitAfterSpaces(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "one", want: []string{"one"}},
		{in: "one two", want: []string{"one ", "two"}},
		{in: "a  b c", want: []string{"a  ", "b ", "c"}},
		{in: "trailing ", want: []string{"trailing "}},
		{in: `esc\ aped x`, want: []string{`esc\ aped `, "x"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitAfterSpaces(tt.in), "split %q", tt.in)
	}
}

func TestEscapedAt(t *testing.T) {
	assert.True(t, escapedAt(`a\ b`, 2))
	assert.False(t, escapedAt(`a\\ b`, 3))
	assert.False(t, escapedAt("a b", 1))
}
