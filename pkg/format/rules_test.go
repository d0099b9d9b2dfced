package format_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/report"
)

type ruleCase struct {
	name string
	src  string
	want string
	cfg  func(*config.Config)
}

func runRuleCases(t *testing.T, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			res := formatString(t, tt.src, cfg)
			if diff := cmp.Diff(tt.want, res.Text); diff != "" {
				t.Errorf("Format() mismatch (-want +got):\n%s", diff)
			}

			again := formatString(t, res.Text, cfg)
			assert.Equal(t, res.Text, again.Text, "formatting is not idempotent")
		})
	}
}

func wrapMain(body string) string {
	return "fn main() {\n" + body + "}\n"
}

func TestRules_Calls(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "arguments spaced",
			src:  wrapMain("    foo(a,b ,c);\n"),
			want: wrapMain("    foo(a, b, c);\n"),
		},
		{
			name: "vertical with trailing comma",
			src:  wrapMain("    f(aaaaaaaaaa, bbbbbbbbbb, cccccccccc);\n"),
			want: wrapMain("    f(\n        aaaaaaaaaa,\n        bbbbbbbbbb,\n        cccccccccc,\n    );\n"),
			cfg:  func(c *config.Config) { c.MaxWidth = 20 },
		},
		{
			name: "empty call",
			src:  wrapMain("    foo( );\n"),
			want: wrapMain("    foo();\n"),
		},
	})
}

func TestRules_LastClosureOverflow(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "block closure stays on the call line",
			src:  wrapMain("    run(config, |event| { handle(event); log(event); });\n"),
			want: wrapMain("    run(config, |event| {\n        handle(event);\n        log(event);\n    });\n"),
		},
	})
}

func TestRules_Closures(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "braces dropped around a simple body",
			src:  wrapMain("    let f = |x| { x + 1 };\n"),
			want: wrapMain("    let f = |x| x + 1;\n"),
		},
		{
			name: "control flow body keeps a block",
			src:  wrapMain("    let f = |x| if x { 1 } else { 2 };\n"),
			want: wrapMain("    let f = |x| {\n        if x {\n            1\n        } else {\n            2\n        }\n    };\n"),
		},
		{
			name: "parameters spaced",
			src:  wrapMain("    let f = |a,b| a+b;\n"),
			want: wrapMain("    let f = |a, b| a + b;\n"),
		},
	})
}

func TestRules_Match(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "one arm per line",
			src:  wrapMain("    match x { 1 => a(), _ => {} }\n"),
			want: wrapMain("    match x {\n        1 => a(),\n        _ => {}\n    }\n"),
		},
		{
			name: "block arm has no comma",
			src:  wrapMain("    match x {\n        1 => { a(); b(); },\n        _ => c(),\n    }\n"),
			want: wrapMain("    match x {\n        1 => {\n            a();\n            b();\n        }\n        _ => c(),\n    }\n"),
		},
	})
}

func TestRules_Chains(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "short chain on one line",
			src:  wrapMain("    let v = items . iter() . map(f) . collect();\n"),
			want: wrapMain("    let v = items.iter().map(f).collect();\n"),
		},
		{
			name: "long chain one element per line",
			src:  wrapMain("    let total = values.iter().filter(is_valid).map(convert).fold(start, accumulate);\n"),
			want: wrapMain("    let total = values\n        .iter()\n        .filter(is_valid)\n        .map(convert)\n        .fold(start, accumulate);\n"),
		},
	})
}

func TestRules_ControlFlow(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "if else statement",
			src:  wrapMain("    if x {a()} else {b()}\n"),
			want: wrapMain("    if x {\n        a()\n    } else {\n        b()\n    }\n"),
		},
		{
			name: "single line if else in let",
			src:  wrapMain("    let y = if x {1} else {2};\n"),
			want: wrapMain("    let y = if x { 1 } else { 2 };\n"),
		},
		{
			name: "while",
			src:  wrapMain("    while i<10 {i+=1;}\n"),
			want: wrapMain("    while i < 10 {\n        i += 1;\n    }\n"),
		},
		{
			name: "trailing comment before else hangs at brace level",
			src:  wrapMain("    if c {\n        a();\n        // trailing\n    } else {\n        b();\n    }\n"),
			want: wrapMain("    if c {\n        a();\n    // trailing\n    } else {\n        b();\n    }\n"),
		},
		{
			name: "comment between brace and else",
			src:  wrapMain("    if c {\n        a();\n    } // c\n    else {\n        b();\n    }\n"),
			want: wrapMain("    if c {\n        a();\n    }\n    // c\n    else {\n        b();\n    }\n"),
		},
		{
			name: "trailing comment without else stays indented",
			src:  wrapMain("    if c {\n        a();\n        // trailing\n    }\n"),
			want: wrapMain("    if c {\n        a();\n        // trailing\n    }\n"),
		},
	})
}

func TestRules_Comments(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "comment after opening brace moves into the block",
			src:  "fn main() { // note\n}\n",
			want: "fn main() {\n    // note\n}\n",
		},
		{
			name: "nested block",
			src:  wrapMain("    loop { // note\n    }\n"),
			want: wrapMain("    loop {\n        // note\n    }\n"),
		},
		{
			name: "block comment between operands",
			src:  wrapMain("    let x = a + b /* keep */ + c;\n"),
			want: wrapMain("    let x = a + b /* keep */ + c;\n"),
		},
	})
}

func TestRules_Macros(t *testing.T) {
	runRuleCases(t, []ruleCase{
		{
			name: "call-like arguments",
			src:  wrapMain("    println!(\"{}\",x);\n"),
			want: wrapMain("    println!(\"{}\", x);\n"),
		},
		{
			name: "bracket delimiter",
			src:  wrapMain("    let v = vec![1,2,3];\n"),
			want: wrapMain("    let v = vec![1, 2, 3];\n"),
		},
	})
}

// lineWith returns the trimmed line of text containing needle.
func lineWith(t *testing.T, text, needle string) (string, int) {
	t.Helper()

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Contains(line, needle) {
			return strings.TrimSpace(line), i
		}
	}
	require.Failf(t, "missing line", "no line contains %q in:\n%s", needle, text)
	return "", -1
}

func TestBinaryComment_Wrapped(t *testing.T) {
	src := wrapMain("    let x = aaaaaaaaaaaa + bbbbbbbbbbbb /* keep */ + cccccccccccc;\n")

	t.Run("front", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.MaxWidth = 40
		res := formatString(t, src, cfg)

		line, idx := lineWith(t, res.Text, "/* keep */")
		assert.True(t, strings.HasSuffix(line, "/* keep */"), res.Text)
		next := strings.TrimSpace(strings.Split(res.Text, "\n")[idx+1])
		assert.True(t, strings.HasPrefix(next, "+ "), res.Text)

		again := formatString(t, res.Text, cfg)
		assert.Equal(t, res.Text, again.Text, "formatting is not idempotent")
	})

	t.Run("back", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.MaxWidth = 40
		cfg.BinopSeparator = config.SeparatorBack
		res := formatString(t, src, cfg)

		line, _ := lineWith(t, res.Text, "/* keep */")
		assert.True(t, strings.HasSuffix(line, "/* keep */ +"), res.Text)
		assert.Equal(t, 1, strings.Count(res.Text, "/* keep */"))

		again := formatString(t, res.Text, cfg)
		assert.Equal(t, res.Text, again.Text, "formatting is not idempotent")
	})

	t.Run("back with line comment", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.MaxWidth = 40
		cfg.BinopSeparator = config.SeparatorBack
		res := formatString(t, wrapMain("    let x = aaaaaaaaaaaa // keep\n        + bbbbbbbbbbbb;\n"), cfg)

		assert.Equal(t, 1, strings.Count(res.Text, "// keep"))
		again := formatString(t, res.Text, cfg)
		assert.Equal(t, res.Text, again.Text, "formatting is not idempotent")
	})
}

func TestFormat_RefusedStatementOverflow(t *testing.T) {
	long := "    let x = " + strings.Repeat("a", 31) + " + " + strings.Repeat("b", 39) +
		" + " + strings.Repeat("c", 44) + ";\n"
	cfg := config.NewConfig()
	cfg.MaxWidth = 40
	cfg.ErrorOnLineOverflow = true

	res := formatString(t, wrapMain(long), cfg)
	assert.Empty(t, res.NonFormatted)

	var overflow []report.FormatError
	for _, diag := range res.Errors {
		if diag.Kind == report.LineOverflow {
			overflow = append(overflow, diag)
		}
	}
	require.NotEmpty(t, overflow, "%+v", res.Errors)
	assert.False(t, overflow[0].IsWarning())
}

func TestFormat_DeprecatedSkipAttribute(t *testing.T) {
	for _, name := range []string{"rustfmt_skip", "rsfmt_skip"} {
		t.Run(name, func(t *testing.T) {
			src := "#[" + name + "]\nfn   main() {}\n"
			res := formatString(t, src, nil)

			assert.Equal(t, src, res.Text)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, report.DeprecatedAttr, res.Errors[0].Kind)
			assert.Equal(t, 1, res.Errors[0].Line)
			assert.True(t, res.Errors[0].IsWarning())
		})
	}

	t.Run("on a statement", func(t *testing.T) {
		res := formatString(t, wrapMain("    #[rustfmt_skip]\n    let   x = 1;\n"), nil)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, report.DeprecatedAttr, res.Errors[0].Kind)
		assert.Equal(t, 2, res.Errors[0].Line)
	})
}

func TestFormat_MacroRewriteFailure(t *testing.T) {
	src := wrapMain("    foo!(key => value);\n")
	res := formatString(t, src, nil)

	assert.Equal(t, src, res.Text)
	assert.True(t, res.MacroRewriteFailed)
	require.Len(t, res.Errors, 1)
	diag := res.Errors[0]
	assert.Equal(t, report.MacroRewriteFailure, diag.Kind)
	assert.Equal(t, 2, diag.Line)
	assert.True(t, diag.IsWarning())
	assert.Contains(t, diag.Message, "foo!")
}

func TestFormat_ReorderFallbackReportsOnce(t *testing.T) {
	src := "#[rsfmt::bogus]\nuse b;\nuse a /* x */ ::c;\n"
	res := formatString(t, src, nil)

	var bad []report.FormatError
	for _, diag := range res.Errors {
		if diag.Kind == report.BadAttr {
			bad = append(bad, diag)
		}
	}
	require.Len(t, bad, 1, "%+v", res.Errors)
	assert.Equal(t, 1, bad[0].Line)
	assert.Contains(t, res.Text, "/* x */")
}
