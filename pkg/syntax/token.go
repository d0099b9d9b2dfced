package syntax

import "fmt"

// TokenKind classifies a lexical token.
type TokenKind uint8

// Token kinds. Punctuation is always lexed one byte at a time; multi-byte
// operators are recognised by the parser from runs of joint punctuation.
const (
	TokEOF TokenKind = iota
	TokIdent
	TokLifetime
	TokLiteral
	TokPunct
)

// LitKind classifies literal tokens and literal expressions.
type LitKind uint8

// Literal kinds.
const (
	LitInt LitKind = iota
	LitFloat
	LitStr
	LitRawStr
	LitByteStr
	LitRawByteStr
	LitCStr
	LitChar
	LitByte
	LitBool
)

// String returns a short name for the literal kind.
func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitStr:
		return "str"
	case LitRawStr:
		return "raw_str"
	case LitByteStr:
		return "byte_str"
	case LitRawByteStr:
		return "raw_byte_str"
	case LitCStr:
		return "c_str"
	case LitChar:
		return "char"
	case LitByte:
		return "byte"
	case LitBool:
		return "bool"
	default:
		return fmt.Sprintf("LitKind(%d)", k)
	}
}

// Token is a single lexical token.
type Token struct {
	Kind TokenKind
	Text string
	Sp   Span

	// Lit is set for TokLiteral.
	Lit LitKind

	// Joint is true for punctuation immediately followed by more
	// punctuation with no whitespace or comment in between.
	Joint bool
}

// Is reports whether the token is the punctuation or identifier text.
func (t Token) Is(text string) bool {
	return (t.Kind == TokPunct || t.Kind == TokIdent) && t.Text == text
}

// IsPunct reports whether the token is the single punctuation byte ch.
func (t Token) IsPunct(ch byte) bool {
	return t.Kind == TokPunct && len(t.Text) == 1 && t.Text[0] == ch
}

func (t Token) String() string {
	switch t.Kind {
	case TokEOF:
		return "end of file"
	case TokIdent:
		return fmt.Sprintf("identifier `%s`", t.Text)
	case TokLifetime:
		return fmt.Sprintf("lifetime `%s`", t.Text)
	case TokLiteral:
		return fmt.Sprintf("literal `%s`", t.Text)
	default:
		return fmt.Sprintf("`%s`", t.Text)
	}
}

//nolint:gochecknoglobals // read-only keyword table
var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true,
}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool {
	return keywords[name]
}

// isPathKeyword reports keywords that may start or appear inside a path.
func isPathKeyword(name string) bool {
	switch name {
	case "self", "Self", "super", "crate":
		return true
	}
	return false
}
