package format

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "a", b: "b", want: -1},
		{a: "abc", b: "abc", want: 0},
		{a: "ab", b: "abc", want: -1},
		{a: "v2", b: "v10", want: -1},
		{a: "v10", b: "v2", want: 1},
		{a: "u8", b: "u16", want: -1},
		{a: "a001", b: "a01", want: -1},
		{a: "a01", b: "a1", want: -1},
		{a: "Zeta", b: "alpha", want: -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, versionCompare(tt.a, tt.b), "versionCompare(%q, %q)", tt.a, tt.b)
		assert.Equal(t, -tt.want, versionCompare(tt.b, tt.a), "versionCompare(%q, %q)", tt.b, tt.a)
	}
}

func TestVersionCompare_Sort(t *testing.T) {
	names := []string{"x10", "x9", "x1", "x09", "x"}
	slices.SortFunc(names, versionCompare)

	assert.Equal(t, []string{"x", "x09", "x1", "x9", "x10"}, names)
}
