package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const punctChars = ";,.(){}[]@#~?:$=!<>-&|+*/^%"

// Lex splits the file into tokens. Comments and whitespace are dropped; the
// formatter recovers them from the gaps between node spans.
func Lex(file *File) ([]Token, error) {
	lx := &lexer{file: file, src: file.Src}
	if HasShebang(lx.src) {
		lx.skipLine()
	}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		lx.toks = append(lx.toks, tok)
		if tok.Kind == TokEOF {
			return lx.toks, nil
		}
	}
}

// HasShebang reports whether src starts with an interpreter line such as
// `#!/usr/bin/env run-cargo-script`.
func HasShebang(src string) bool {
	return strings.HasPrefix(src, "#!") && !strings.HasPrefix(strings.TrimLeft(src[2:], " \t"), "[")
}

type lexer struct {
	file *File
	src  string
	pos  int
	toks []Token
}

func (lx *lexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

// skipTrivia consumes whitespace and comments.
func (lx *lexer) skipTrivia() error {
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v':
			lx.pos++
		case ch == '/' && lx.peekByte(1) == '/':
			lx.skipLine()
		case ch == '/' && lx.peekByte(1) == '*':
			if err := lx.skipBlockComment(); err != nil {
				return err
			}
		default:
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if isRustWhitespace(r) {
				lx.pos += size
				continue
			}
			return nil
		}
	}
	return nil
}

// isRustWhitespace reports whether r is a non-ASCII Pattern_White_Space
// character. Other Unicode spaces such as U+00A0 are not whitespace in Rust.
func isRustWhitespace(r rune) bool {
	switch r {
	case '\u0085', '\u200e', '\u200f', '\u2028', '\u2029':
		return true
	}
	return false
}

func (lx *lexer) skipBlockComment() error {
	start := lx.pos
	depth := 0
	for lx.pos < len(lx.src) {
		switch {
		case lx.src[lx.pos] == '/' && lx.peekByte(1) == '*':
			depth++
			lx.pos += 2
		case lx.src[lx.pos] == '*' && lx.peekByte(1) == '/':
			depth--
			lx.pos += 2
			if depth == 0 {
				return nil
			}
		default:
			lx.pos++
		}
	}
	return newError(lx.file, start, "unterminated block comment")
}

func (lx *lexer) next() (Token, error) {
	if err := lx.skipTrivia(); err != nil {
		return Token{}, err
	}
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return Token{Kind: TokEOF, Sp: Sp(start, start)}, nil
	}

	ch := lx.src[lx.pos]
	switch {
	case ch == 'r' && lx.peekByte(1) == '#' && isIdentStart(rune(lx.peekByte(2))):
		lx.pos += 2
		lx.scanIdent()
		return lx.token(TokIdent, start), nil
	case ch == 'r' && (lx.peekByte(1) == '"' || (lx.peekByte(1) == '#' && lx.rawQuoteFollows(1))):
		lx.pos++
		return lx.rawString(start, LitRawStr)
	case ch == 'b' && lx.peekByte(1) == 'r' && (lx.peekByte(2) == '"' || lx.peekByte(2) == '#'):
		lx.pos += 2
		return lx.rawString(start, LitRawByteStr)
	case ch == 'b' && lx.peekByte(1) == '"':
		lx.pos++
		return lx.quoted(start, '"', LitByteStr)
	case ch == 'c' && lx.peekByte(1) == '"':
		lx.pos++
		return lx.quoted(start, '"', LitCStr)
	case ch == 'b' && lx.peekByte(1) == '\'':
		lx.pos++
		return lx.quoted(start, '\'', LitByte)
	case ch == '"':
		return lx.quoted(start, '"', LitStr)
	case ch == '\'':
		return lx.quote(start)
	case ch >= '0' && ch <= '9':
		return lx.number(start), nil
	case strings.IndexByte(punctChars, ch) >= 0:
		lx.pos++
		tok := lx.token(TokPunct, start)
		if lx.pos < len(lx.src) {
			nxt := lx.src[lx.pos]
			isComment := nxt == '/' && (lx.peekByte(1) == '/' || lx.peekByte(1) == '*')
			tok.Joint = strings.IndexByte(punctChars, nxt) >= 0 && !isComment
		}
		return tok, nil
	}

	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if isIdentStart(r) {
		lx.scanIdent()
		tok := lx.token(TokIdent, start)
		if tok.Text == "true" || tok.Text == "false" {
			tok.Kind = TokLiteral
			tok.Lit = LitBool
		}
		return tok, nil
	}
	return Token{}, newError(lx.file, start, "unexpected character %q", r)
}

func (lx *lexer) token(kind TokenKind, start int) Token {
	return Token{Kind: kind, Text: lx.src[start:lx.pos], Sp: Sp(start, lx.pos)}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (lx *lexer) scanIdent() {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentContinue(r) {
			return
		}
		lx.pos += size
	}
}

// rawQuoteFollows reports whether a run of '#' starting at offset off ends
// in a double quote.
func (lx *lexer) rawQuoteFollows(off int) bool {
	for lx.peekByte(off) == '#' {
		off++
	}
	return lx.peekByte(off) == '"'
}

func (lx *lexer) rawString(start int, kind LitKind) (Token, error) {
	hashes := 0
	for lx.pos < len(lx.src) && lx.src[lx.pos] == '#' {
		hashes++
		lx.pos++
	}
	if lx.pos >= len(lx.src) || lx.src[lx.pos] != '"' {
		return Token{}, newError(lx.file, start, "malformed raw string literal")
	}
	lx.pos++
	closing := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(lx.src[lx.pos:], closing)
	if end < 0 {
		return Token{}, newError(lx.file, start, "unterminated raw string literal")
	}
	lx.pos += end + len(closing)
	lx.suffix()
	tok := lx.token(TokLiteral, start)
	tok.Lit = kind
	return tok, nil
}

func (lx *lexer) quoted(start int, quote byte, kind LitKind) (Token, error) {
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
			continue
		case quote:
			lx.pos++
			lx.suffix()
			tok := lx.token(TokLiteral, start)
			tok.Lit = kind
			return tok, nil
		}
		lx.pos++
	}
	return Token{}, newError(lx.file, start, "unterminated literal")
}

// quote lexes either a char literal or a lifetime / label.
func (lx *lexer) quote(start int) (Token, error) {
	if lx.peekByte(1) == '\\' {
		return lx.quoted(start, '\'', LitChar)
	}
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos+1:])
	if lx.peekByte(1+size) == '\'' {
		return lx.quoted(start, '\'', LitChar)
	}
	if !isIdentStart(r) {
		return Token{}, newError(lx.file, start, "malformed character literal")
	}
	lx.pos++
	lx.scanIdent()
	return lx.token(TokLifetime, start), nil
}

func (lx *lexer) suffix() {
	if lx.pos < len(lx.src) {
		r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if isIdentStart(r) {
			lx.scanIdent()
		}
	}
}

func (lx *lexer) number(start int) Token {
	kind := LitInt
	isDigit := func(ch byte) bool { return ch >= '0' && ch <= '9' || ch == '_' }
	if lx.src[lx.pos] == '0' && (lx.peekByte(1) == 'x' || lx.peekByte(1) == 'o' || lx.peekByte(1) == 'b') {
		lx.pos += 2
		for lx.pos < len(lx.src) && (isHexDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			lx.pos++
		}
		lx.suffix()
		tok := lx.token(TokLiteral, start)
		tok.Lit = kind
		return tok
	}
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.peekByte(0) == '.' && lx.peekByte(1) != '.' {
		next, _ := utf8.DecodeRuneInString(lx.src[min(lx.pos+1, len(lx.src)):])
		if lx.pos+1 >= len(lx.src) || !isIdentStart(next) {
			kind = LitFloat
			lx.pos++
			for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
				lx.pos++
			}
		}
	}
	if ch := lx.peekByte(0); ch == 'e' || ch == 'E' {
		off := 1
		if sign := lx.peekByte(1); sign == '+' || sign == '-' {
			off = 2
		}
		if d := lx.peekByte(off); d >= '0' && d <= '9' {
			kind = LitFloat
			lx.pos += off
			for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
				lx.pos++
			}
		}
	}
	suffixStart := lx.pos
	lx.suffix()
	if sfx := lx.src[suffixStart:lx.pos]; sfx == "f32" || sfx == "f64" {
		kind = LitFloat
	}
	tok := lx.token(TokLiteral, start)
	tok.Lit = kind
	return tok
}

func isHexDigit(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}
