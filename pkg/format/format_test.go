package format_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func formatString(t *testing.T, src string, cfg *config.Config) *format.Result {
	t.Helper()

	res, err := format.Format("test.rs", src, cfg)
	require.NoError(t, err)
	return res
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "empty file",
			src:  "",
			want: "",
		},
		{
			name: "whitespace only",
			src:  "\n\n  \n",
			want: "",
		},
		{
			name: "function spacing",
			src:  "fn   main ( )   {  }\n",
			want: "fn main() {}\n",
		},
		{
			name: "missing final newline",
			src:  "fn main() {}",
			want: "fn main() {}\n",
		},
		{
			name: "trailing whitespace",
			src:  "fn main() {}   \n\n\n",
			want: "fn main() {}\n",
		},
		{
			name: "let statement",
			src:  "fn main() {\nlet   x=1;\n}\n",
			want: "fn main() {\n    let x = 1;\n}\n",
		},
		{
			name: "leading blank lines in block",
			src:  "fn main() {\n\n\n    let x = 1;\n}\n",
			want: "fn main() {\n    let x = 1;\n}\n",
		},
		{
			name: "blank lines between items",
			src:  "fn a() {}\n\n\n\nfn b() {}\n",
			want: "fn a() {}\n\nfn b() {}\n",
		},
		{
			name: "reorder imports",
			src:  "use b;\nuse a;\n",
			want: "use a;\nuse b;\n",
		},
		{
			name: "reorder stops at blank line",
			src:  "use d;\nuse c;\n\nuse b;\nuse a;\n",
			want: "use c;\nuse d;\n\nuse a;\nuse b;\n",
		},
		{
			name: "sort use list",
			src:  "use a::{c, b};\n",
			want: "use a::{b, c};\n",
		},
		{
			name: "flatten single use",
			src:  "use a::{b};\n",
			want: "use a::b;\n",
		},
		{
			name: "reorder modules",
			src:  "mod zeta;\nmod alpha;\n",
			want: "mod alpha;\nmod zeta;\n",
		},
		{
			name: "struct fields vertical",
			src:  "struct S{a:u8,b:String}\n",
			want: "struct S {\n    a: u8,\n    b: String,\n}\n",
		},
		{
			name: "empty struct",
			src:  "struct S {  }\n",
			want: "struct S {}\n",
		},
		{
			name: "leading comment kept",
			src:  "// hello\nfn main() {}\n",
			want: "// hello\nfn main() {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := formatString(t, tt.src, nil)
			if diff := cmp.Diff(tt.want, res.Text); diff != "" {
				t.Errorf("Format() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.src != tt.want, res.Changed)

			again := formatString(t, res.Text, nil)
			assert.Equal(t, res.Text, again.Text, "formatting is not idempotent")
			assert.False(t, again.Changed)
		})
	}
}

func TestFormat_ParseError(t *testing.T) {
	_, err := format.Format("bad.rs", "fn main( {\n", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, syntax.ErrParse)
	assert.Contains(t, err.Error(), "bad.rs")
}

func TestFormat_DisableAllFormatting(t *testing.T) {
	cfg := config.NewConfig()
	cfg.DisableAllFormatting = true

	src := "fn   main ( ) {}"
	res := formatString(t, src, cfg)
	assert.Equal(t, src, res.Text)
	assert.False(t, res.Changed)
}

func TestFormat_SkipAttribute(t *testing.T) {
	src := "#[rustfmt::skip]\nfn  f( ) {}\n\nfn   g() {}\n"
	res := formatString(t, src, nil)

	assert.Equal(t, "#[rustfmt::skip]\nfn  f( ) {}\n\nfn g() {}\n", res.Text)
	assert.Equal(t, []report.NonFormattedRange{{Lo: 1, Hi: 2}}, res.NonFormatted)
}

func TestFormat_NewlineStyle(t *testing.T) {
	t.Run("auto keeps CRLF", func(t *testing.T) {
		res := formatString(t, "fn  main() {}\r\n", nil)
		assert.Equal(t, "fn main() {}\r\n", res.Text)
		assert.True(t, res.Changed)
	})

	t.Run("unformatted CRLF input is unchanged", func(t *testing.T) {
		src := "use a;\r\nuse b;\r\n"
		res := formatString(t, src, nil)
		assert.Equal(t, src, res.Text)
		assert.False(t, res.Changed)
	})

	t.Run("unix", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.NewlineStyle = config.NewlineUnix
		res := formatString(t, "fn main() {}\r\n", cfg)
		assert.Equal(t, "fn main() {}\n", res.Text)
	})

	t.Run("windows", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.NewlineStyle = config.NewlineWindows
		res := formatString(t, "use a;\nuse b;\n", cfg)
		assert.Equal(t, "use a;\r\nuse b;\r\n", res.Text)
	})
}

func TestFormat_ReorderDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.ReorderImports = false
	cfg.ReorderModules = false

	src := "use b;\nuse a;\nmod z;\nmod y;\n"
	res := formatString(t, src, cfg)
	assert.Equal(t, src, res.Text)
}

func TestFormat_LineOverflowInComment(t *testing.T) {
	long := "// " + strings.Repeat("x", 120)
	src := long + "\nfn main() {}\n"

	res := formatString(t, src, nil)
	require.Len(t, res.Errors, 1)
	diag := res.Errors[0]
	assert.Equal(t, report.LineOverflow, diag.Kind)
	assert.Equal(t, 1, diag.Line)
	assert.True(t, diag.IsWarning())

	cfg := config.NewConfig()
	cfg.ErrorOnLineOverflow = true
	res = formatString(t, src, cfg)
	require.Len(t, res.Errors, 1)
	assert.False(t, res.Errors[0].IsWarning())
}

func TestFormat_LicenseTemplate(t *testing.T) {
	cfg := config.NewConfig()
	cfg.LicenseTemplate = `// Copyright \d{4} Acme`

	res := formatString(t, "// Copyright 2024 Acme\nfn main() {}\n", cfg)
	assert.Empty(t, res.Errors)

	res = formatString(t, "fn main() {}\n", cfg)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, report.LicenseCheck, res.Errors[0].Kind)
	assert.Equal(t, 1, res.Errors[0].Line)
}
