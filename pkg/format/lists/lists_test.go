package lists_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func items(texts ...string) []lists.ListItem {
	out := make([]lists.ListItem, 0, len(texts))
	for _, s := range texts {
		out = append(out, lists.FromString(s))
	}
	return out
}

func TestDefinitiveTactic(t *testing.T) {
	abc := items("a", "bb", "ccc")
	tests := []struct {
		name   string
		items  []lists.ListItem
		tactic lists.Tactic
		width  int
		want   lists.Tactic
	}{
		{"fits exactly", abc, lists.HorizontalVertical, 10, lists.Horizontal},
		{"one column short", abc, lists.HorizontalVertical, 9, lists.Vertical},
		{"mixed stays mixed", abc, lists.Mixed, 9, lists.Mixed},
		{"mixed fits", abc, lists.Mixed, 10, lists.Horizontal},
		{"limited", abc, lists.LimitedHorizontalVertical(5), 100, lists.Vertical},
		{"forced vertical", abc, lists.Vertical, 100, lists.Vertical},
		{"forced horizontal", abc, lists.Horizontal, 1, lists.Horizontal},
		{"multiline item", items("a", "b\nc"), lists.HorizontalVertical, 100, lists.Vertical},
		{
			"line comment",
			[]lists.ListItem{{Item: "a", PostComment: "// c"}, {Item: "b"}},
			lists.Horizontal, 100, lists.Vertical,
		},
		{
			"comment on its own line",
			[]lists.ListItem{{Item: "a"}, {PreComment: "/* c */", PreCommentStyle: lists.DifferentLine, Item: "b"}},
			lists.HorizontalVertical, 100, lists.Vertical,
		},
		{
			"inline block comment",
			[]lists.ListItem{{Item: "a"}, {PreComment: "/* c */", PreCommentStyle: lists.SameLine, Item: "b"}},
			lists.HorizontalVertical, 100, lists.Horizontal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lists.DefinitiveTactic(tt.items, tt.tactic, ",", tt.width))
		})
	}
}

func TestDefinitiveTactic_Monotonic(t *testing.T) {
	abc := items("alpha", "beta", "gamma", "delta")
	horizontal := false
	for width := 0; width <= 40; width++ {
		got := lists.DefinitiveTactic(abc, lists.HorizontalVertical, ",", width)
		if horizontal {
			assert.Equal(t, lists.Horizontal, got, "width %d", width)
		}
		horizontal = got == lists.Horizontal
	}
	assert.True(t, horizontal)
}

func TestSepLen(t *testing.T) {
	assert.Equal(t, 2, lists.SepLen(","))
	assert.Equal(t, 3, lists.SepLen("|"))
	assert.Equal(t, 4, lists.SepLen("&&"))
}

func formatting(cfg *config.Config, block int, tactic lists.Tactic, trailing lists.SeparatorTactic) lists.Formatting {
	f := lists.NewFormatting(shape.Indented(shape.NewIndent(block, 0), cfg), cfg)
	f.Tactic = tactic
	f.Trailing = trailing
	return f
}

func TestWriteList_TrailingComma(t *testing.T) {
	cfg := config.NewConfig()
	tests := []struct {
		name     string
		tactic   lists.Tactic
		trailing lists.SeparatorTactic
		want     string
	}{
		{"horizontal never", lists.Horizontal, lists.SeparatorNever, "a, b, c"},
		{"horizontal vertical", lists.Horizontal, lists.SeparatorVertical, "a, b, c"},
		{"horizontal always", lists.Horizontal, lists.SeparatorAlways, "a, b, c,"},
		{"vertical vertical", lists.Vertical, lists.SeparatorVertical, "a,\n    b,\n    c,"},
		{"vertical never", lists.Vertical, lists.SeparatorNever, "a,\n    b,\n    c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lists.WriteList(items("a", "b", "c"), formatting(cfg, 4, tt.tactic, tt.trailing))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteList_Mixed(t *testing.T) {
	cfg := config.NewConfig()
	f := lists.NewFormatting(shape.Legacy(8, shape.Empty()), cfg)
	f.Tactic = lists.Mixed
	f.EndsWithNewline = false

	got, ok := lists.WriteList(items("aaa", "bbb", "ccc"), f)
	require.True(t, ok)
	assert.Equal(t, "aaa,\nbbb, ccc", got)
}

func TestWriteList_PreserveNewline(t *testing.T) {
	cfg := config.NewConfig()
	f := formatting(cfg, 0, lists.Vertical, lists.SeparatorNever)
	f.PreserveNewline = true

	got, ok := lists.WriteList([]lists.ListItem{{Item: "a", NewLines: true}, {Item: "b"}}, f)
	require.True(t, ok)
	assert.Equal(t, "a,\n\nb", got)
}

func TestWriteList_PostComment(t *testing.T) {
	cfg := config.NewConfig()
	f := formatting(cfg, 4, lists.Vertical, lists.SeparatorVertical)

	got, ok := lists.WriteList([]lists.ListItem{{Item: "a", PostComment: "// one"}, {Item: "b"}}, f)
	require.True(t, ok)
	assert.Equal(t, "a, // one\n    b,", got)
}

func TestWriteList_Refused(t *testing.T) {
	cfg := config.NewConfig()
	_, ok := lists.WriteList([]lists.ListItem{{Item: "a"}, {Refused: true}}, formatting(cfg, 0, lists.Horizontal, lists.SeparatorNever))
	assert.False(t, ok)
}

func TestItemize(t *testing.T) {
	src := "(a, /* x */ b, // y\n    c)"
	file := syntax.NewFile("test.rs", src)
	spans := []syntax.Span{syntax.Sp(1, 2), syntax.Sp(12, 13), syntax.Sp(24, 25)}

	got := lists.Itemize(lists.Source[syntax.Span]{
		File:       file,
		Items:      spans,
		Separator:  ",",
		Terminator: ")",
		Lo:         func(s syntax.Span) int { return s.Lo },
		Hi:         func(s syntax.Span) int { return s.Hi },
		Render:     func(s syntax.Span) (string, bool) { return file.Snippet(s), true },
		Start:      1,
		End:        25,
	})
	want := []lists.ListItem{
		{Item: "a"},
		{PreComment: "/* x */", PreCommentStyle: lists.SameLine, Item: "b", PostComment: "// y"},
		{Item: "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Itemize() mismatch (-want +got):\n%s", diff)
	}

	cfg := config.NewConfig()
	tactic := lists.DefinitiveTactic(got, lists.HorizontalVertical, ",", 100)
	require.Equal(t, lists.Vertical, tactic)

	out, ok := lists.WriteList(got, formatting(cfg, 4, tactic, lists.SeparatorVertical))
	require.True(t, ok)
	assert.Equal(t, "a,\n    /* x */ b, // y\n    c,", out)
}

func TestExtractPreComment(t *testing.T) {
	c, style := lists.ExtractPreComment("\n    // a\n    ")
	assert.Equal(t, "// a", c)
	assert.Equal(t, lists.DifferentLine, style)

	c, style = lists.ExtractPreComment(" /* a */\n ")
	assert.Equal(t, "/* a */", c)
	assert.Equal(t, lists.DifferentLine, style)

	_, style = lists.ExtractPreComment("  ")
	assert.Equal(t, lists.NoComment, style)
}

func TestStructLitTactic(t *testing.T) {
	cfg := config.NewConfig()
	sh := shape.Indented(shape.Empty(), cfg)

	h, ok, v := lists.StructLitShape(sh, cfg, 6, 2)
	require.True(t, ok)
	assert.Equal(t, 18, h.Width)
	assert.Equal(t, 4, v.Indent.Width())

	assert.Equal(t, lists.Horizontal, lists.StructLitTactic(h, ok, cfg, items("x: 1", "y: 2")))
	assert.Equal(t, lists.Vertical, lists.StructLitTactic(h, ok, cfg, items("x: 1000000", "y: 2000000")))

	cfg.StructLitSingleLine = false
	assert.Equal(t, lists.Vertical, lists.StructLitTactic(h, ok, cfg, items("x: 1")))
}
