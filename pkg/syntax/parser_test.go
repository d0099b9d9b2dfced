package syntax_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func parse(t *testing.T, src string) (*syntax.File, *syntax.Crate) {
	t.Helper()

	file := syntax.NewFile("test.rs", src)
	crate, err := syntax.Parse(file)
	require.NoError(t, err)
	return file, crate
}

func TestParse_Items(t *testing.T) {
	src := `use std::io;
extern crate foo;
mod bar;
mod inline { fn f() {} }
fn main() {}
struct S { a: u8 }
enum E { A, B(u8) }
trait T {}
impl T for S {}
const C: u8 = 1;
static X: u8 = 2;
type A = u8;
macro_rules! m { () => {} }
m!();
extern "C" {}
`
	_, crate := parse(t, src)

	kinds := make([]string, 0, len(crate.Items))
	for _, item := range crate.Items {
		switch item.(type) {
		case *syntax.UseItem:
			kinds = append(kinds, "use")
		case *syntax.ExternCrateItem:
			kinds = append(kinds, "extern crate")
		case *syntax.ModItem:
			kinds = append(kinds, "mod")
		case *syntax.FnItem:
			kinds = append(kinds, "fn")
		case *syntax.StructItem:
			kinds = append(kinds, "struct")
		case *syntax.EnumItem:
			kinds = append(kinds, "enum")
		case *syntax.TraitItem:
			kinds = append(kinds, "trait")
		case *syntax.ImplItem:
			kinds = append(kinds, "impl")
		case *syntax.ConstItem:
			kinds = append(kinds, "const")
		case *syntax.StaticItem:
			kinds = append(kinds, "static")
		case *syntax.TypeAliasItem:
			kinds = append(kinds, "type")
		case *syntax.MacroRulesItem:
			kinds = append(kinds, "macro_rules")
		case *syntax.MacItem:
			kinds = append(kinds, "mac")
		case *syntax.ExternBlockItem:
			kinds = append(kinds, "extern block")
		}
	}
	assert.Equal(t, []string{
		"use", "extern crate", "mod", "mod", "fn", "struct", "enum", "trait",
		"impl", "const", "static", "type", "macro_rules", "mac", "extern block",
	}, kinds)

	mod, ok := crate.Items[3].(*syntax.ModItem)
	require.True(t, ok)
	assert.True(t, mod.Inline)
	assert.Len(t, mod.Items, 1)
	assert.False(t, crate.Items[2].(*syntax.ModItem).Inline)
}

func TestParse_ItemSpanIncludesAttrs(t *testing.T) {
	src := "#[inline]\npub fn f() {}\n"
	file, crate := parse(t, src)

	require.Len(t, crate.Items, 1)
	item := crate.Items[0]
	assert.Equal(t, "#[inline]\npub fn f() {}", file.Snippet(item.Span()))
	require.Len(t, item.Base().Attrs, 1)
	assert.Equal(t, "f", item.Base().Name.Name)
	require.NotNil(t, item.Base().Vis)
	assert.Equal(t, syntax.VisPublic, item.Base().Vis.Kind)
}

func TestParse_InnerAttrs(t *testing.T) {
	_, crate := parse(t, "#![allow(dead_code)]\nfn f() {}\n")

	require.Len(t, crate.InnerAttrs, 1)
	attr := crate.InnerAttrs[0]
	assert.True(t, attr.Inner)
	require.NotNil(t, attr.Meta)
	assert.Equal(t, syntax.MetaList, attr.Meta.Kind)
	assert.Len(t, crate.Items, 1)
}

func TestParse_UseTree(t *testing.T) {
	_, crate := parse(t, "use a::b::{c, d as e, f::*};\n")

	use, ok := crate.Items[0].(*syntax.UseItem)
	require.True(t, ok)
	tree := use.Tree
	assert.Equal(t, syntax.UseNested, tree.Kind)
	require.Len(t, tree.Prefix, 2)
	assert.Equal(t, "a", tree.Prefix[0].Name)
	assert.Equal(t, "b", tree.Prefix[1].Name)
	require.Len(t, tree.Children, 3)
	assert.Equal(t, syntax.UseSimple, tree.Children[0].Kind)
	require.NotNil(t, tree.Children[1].Rename)
	assert.Equal(t, "e", tree.Children[1].Rename.Name)
	assert.Equal(t, syntax.UseGlob, tree.Children[2].Kind)
}

func TestParse_BinaryPrecedence(t *testing.T) {
	_, crate := parse(t, "fn f() { a + b * c; }\n")

	fn, ok := crate.Items[0].(*syntax.FnItem)
	require.True(t, ok)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 1)
	stmt, ok := fn.Body.Stmts[0].(*syntax.ExprStmt)
	require.True(t, ok)
	assert.True(t, stmt.Semi)

	add, ok := stmt.X.(*syntax.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Y.(*syntax.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParse_CompoundAssignIsNotBinary(t *testing.T) {
	_, crate := parse(t, "fn f() { x += 1; y <<= 2; }\n")

	fn := crate.Items[0].(*syntax.FnItem)
	require.Len(t, fn.Body.Stmts, 2)
	for i, op := range []string{"+=", "<<="} {
		stmt, ok := fn.Body.Stmts[i].(*syntax.ExprStmt)
		require.True(t, ok)
		assign, ok := stmt.X.(*syntax.AssignExpr)
		require.True(t, ok, "statement %d", i)
		assert.Equal(t, op, assign.Op)
	}
}

func TestParse_LetElse(t *testing.T) {
	_, crate := parse(t, "fn f() { let Some(x) = y else { return; }; }\n")

	fn := crate.Items[0].(*syntax.FnItem)
	require.Len(t, fn.Body.Stmts, 1)
	let, ok := fn.Body.Stmts[0].(*syntax.LetStmt)
	require.True(t, ok)
	assert.NotNil(t, let.Init)
	assert.NotNil(t, let.Else)
}

func TestParse_MacroStatement(t *testing.T) {
	file, crate := parse(t, "fn f() { println!(\"{}\", x); }\n")

	fn := crate.Items[0].(*syntax.FnItem)
	require.Len(t, fn.Body.Stmts, 1)
	stmt, ok := fn.Body.Stmts[0].(*syntax.MacStmt)
	require.True(t, ok)
	assert.True(t, stmt.Semi)
	assert.Equal(t, syntax.DelimParen, stmt.Mac.Delim)
	assert.Equal(t, `"{}", x`, file.Snippet(stmt.Mac.Inner))
}

func TestParse_Shebang(t *testing.T) {
	_, crate := parse(t, "#!/usr/bin/env run-cargo-script\nfn main() {}\n")
	assert.Len(t, crate.Items, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{name: "missing paren", src: "fn main( {}\n", line: 1},
		{name: "unterminated block comment", src: "fn main() {}\n/* open\n", line: 2},
		{name: "missing semicolon", src: "fn f() {\n    let x = 1\n}\n", line: 3},
		{name: "unexpected character", src: "fn f() { ` }\n", line: 1},
		{name: "no-break space", src: "\u00a0fn main() {}\n", line: 1},
		{name: "no-break space in block", src: "fn main() {\n\u00a0\n}\n", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := syntax.Parse(syntax.NewFile("bad.rs", tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, syntax.ErrParse))

			perr, ok := syntax.AsError(err)
			require.True(t, ok)
			assert.Equal(t, "bad.rs", perr.File)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParseMacroArgs(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		count    int
		sep      string
		trailing bool
	}{
		{name: "comma list", src: "m!(a, b + 1, c)", count: 3, sep: ","},
		{name: "trailing comma", src: "m!(a, b,)", count: 2, sep: ",", trailing: true},
		{name: "repeat", src: "m![0; n]", count: 2, sep: ";"},
		{name: "empty", src: "m!()", count: 0, sep: ","},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := syntax.NewFile("mac.rs", tt.src)
			args, err := syntax.ParseMacroArgs(file, syntax.Sp(3, len(tt.src)-1))
			require.NoError(t, err)
			assert.Len(t, args.Exprs, tt.count)
			assert.Equal(t, tt.sep, args.Separator)
			assert.Equal(t, tt.trailing, args.TrailingSep)
		})
	}
}

func TestParseMacroArgs_NotExpressions(t *testing.T) {
	src := "m!(struct Foo;)"
	_, err := syntax.ParseMacroArgs(syntax.NewFile("mac.rs", src), syntax.Sp(3, len(src)-1))
	require.ErrorIs(t, err, syntax.ErrParse)
}
