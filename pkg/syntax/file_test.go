package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func TestFile_LineCol(t *testing.T) {
	file := syntax.NewFile("a.rs", "ab\ncd\r\n\nef")

	tests := []struct {
		pos       int
		line, col int
		lineText  string
	}{
		{pos: 0, line: 1, col: 1, lineText: "ab"},
		{pos: 2, line: 1, col: 3, lineText: "ab"},
		{pos: 3, line: 2, col: 1, lineText: "cd"},
		{pos: 7, line: 3, col: 1, lineText: ""},
		{pos: 9, line: 4, col: 2, lineText: "ef"},
		{pos: 100, line: 4, col: 3, lineText: "ef"},
	}
	for _, tt := range tests {
		line, col := file.LineCol(tt.pos)
		assert.Equal(t, tt.line, line, "line of %d", tt.pos)
		assert.Equal(t, tt.col, col, "column of %d", tt.pos)
		assert.Equal(t, tt.lineText, file.LineText(line))
	}
	assert.Equal(t, 4, file.LineCount())
	assert.Empty(t, file.LineText(0))
	assert.Empty(t, file.LineText(5))
}

func TestFile_Snippet(t *testing.T) {
	file := syntax.NewFile("a.rs", "fn main() {}")

	assert.Equal(t, "main", file.Snippet(syntax.Sp(3, 7)))
	assert.Equal(t, "{}", file.Snippet(syntax.Sp(10, 50)))
	assert.Empty(t, file.Snippet(syntax.Sp(-4, 0)))
}

func TestFile_LineSpan(t *testing.T) {
	file := syntax.NewFile("a.rs", "a\nbc\nd\n")

	lo, hi := file.LineSpan(syntax.Sp(2, 7))
	assert.Equal(t, 2, lo)
	assert.Equal(t, 3, hi)
}

func TestSpan(t *testing.T) {
	sp := syntax.Sp(4, 10)

	assert.Equal(t, 6, sp.Len())
	assert.False(t, sp.IsEmpty())
	assert.True(t, sp.Contains(4))
	assert.False(t, sp.Contains(10))
	assert.Equal(t, syntax.Sp(4, 20), sp.To(syntax.Sp(15, 20)))
	assert.True(t, syntax.Sp(3, 3).IsEmpty())
}

func TestLex(t *testing.T) {
	file := syntax.NewFile("a.rs", "let x = r#\"raw\"#; // note\nb'c' 0x1F_u8 'a: 1.5e3")
	toks, err := syntax.Lex(file)
	require.NoError(t, err)

	var texts []string
	for _, tok := range toks {
		if tok.Kind == syntax.TokEOF {
			continue
		}
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"let", "x", "=", `r#"raw"#`, ";", "b'c'", "0x1F_u8", "'a", ":", "1.5e3"}, texts)

	assert.Equal(t, syntax.LitRawStr, toks[3].Lit)
	assert.Equal(t, syntax.LitByte, toks[5].Lit)
	assert.Equal(t, syntax.LitInt, toks[6].Lit)
	assert.Equal(t, syntax.TokLifetime, toks[7].Kind)
	assert.Equal(t, syntax.LitFloat, toks[9].Lit)
}

func TestLex_JointPunct(t *testing.T) {
	toks, err := syntax.Lex(syntax.NewFile("a.rs", "a::b :/**/:"))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(toks), 6)
	assert.True(t, toks[1].Joint)
	assert.False(t, toks[2].Joint)
	assert.False(t, toks[4].Joint)
}
