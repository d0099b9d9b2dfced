package syntax

import (
	"errors"
	"fmt"
)

// Parse lexes and parses a whole file.
func Parse(file *File) (*Crate, error) {
	p, err := newParser(file, Sp(0, len(file.Src)))
	if err != nil {
		return nil, err
	}
	var crate *Crate
	err = p.guard(func() {
		crate = &Crate{Spanned: Spanned{Sp: Sp(0, len(file.Src))}}
		crate.InnerAttrs = p.parseInnerAttrs()
		for !p.atEOF() {
			crate.Items = append(crate.Items, p.parseItem(p.parseOuterAttrs()))
		}
	})
	if err != nil {
		return nil, err
	}
	return crate, nil
}

// MacroArgs is the result of re-parsing a macro token tree as a list of
// expressions.
type MacroArgs struct {
	Exprs []Expr
	// Separator is "," or ";" (the latter only for `[elem; count]`).
	Separator string
	// TrailingSep records a separator after the last expression.
	TrailingSep bool
}

// ParseMacroArgs parses the tokens in span as comma separated expressions,
// or as `elem; count`.
func ParseMacroArgs(file *File, span Span) (*MacroArgs, error) {
	p, err := newParser(file, span)
	if err != nil {
		return nil, err
	}
	args := &MacroArgs{Separator: ","}
	err = p.guard(func() {
		for !p.atEOF() {
			args.Exprs = append(args.Exprs, p.parseExpr())
			args.TrailingSep = false
			if p.atEOF() {
				break
			}
			if len(args.Exprs) == 1 && p.eat(";") {
				args.Separator = ";"
				args.Exprs = append(args.Exprs, p.parseExpr())
				break
			}
			p.expect(",")
			args.TrailingSep = true
		}
		if !p.atEOF() {
			p.unexpected("end of macro arguments")
		}
	})
	if err != nil {
		return nil, err
	}
	return args, nil
}

// ParseItemsIn parses the tokens in span as a sequence of items.
func ParseItemsIn(file *File, span Span) ([]Item, error) {
	p, err := newParser(file, span)
	if err != nil {
		return nil, err
	}
	var items []Item
	err = p.guard(func() {
		for !p.atEOF() {
			items = append(items, p.parseItem(p.parseOuterAttrs()))
		}
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ParseExpr parses a single expression from source text.
func ParseExpr(file *File) (Expr, error) {
	p, err := newParser(file, Sp(0, len(file.Src)))
	if err != nil {
		return nil, err
	}
	var expr Expr
	err = p.guard(func() {
		expr = p.parseExpr()
		if !p.atEOF() {
			p.unexpected("end of expression")
		}
	})
	return expr, err
}

type parser struct {
	file *File
	toks []Token
	pos  int

	// noStruct forbids struct literals, as in `if` and `match` heads.
	noStruct bool
}

type bailout struct {
	err *Error
}

func newParser(file *File, span Span) (*parser, error) {
	sub := &File{Name: file.Name, Src: file.Src[:span.Hi], lineStarts: file.lineStarts}
	lx := &lexer{file: sub, src: sub.Src, pos: span.Lo}
	if span.Lo == 0 && HasShebang(sub.Src) {
		lx.skipLine()
	}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		lx.toks = append(lx.toks, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	return &parser{file: file, toks: lx.toks}, nil
}

// guard runs fn, converting a parse bailout into an error.
func (p *parser) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	fn()
	return nil
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

func (p *parser) errorf(pos int, format string, args ...any) {
	panic(bailout{err: newError(p.file, pos, format, args...)})
}

func (p *parser) unexpected(want string) {
	tok := p.tok()
	p.errorf(tok.Sp.Lo, "expected %s, found %s", want, tok)
}

func (p *parser) tok() Token {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) atEOF() bool {
	return p.tok().Kind == TokEOF
}

func (p *parser) lo() int {
	return p.tok().Sp.Lo
}

// prevHi is the end of the last consumed token.
func (p *parser) prevHi() int {
	if p.pos == 0 {
		return p.tok().Sp.Lo
	}
	return p.toks[p.pos-1].Sp.Hi
}

func (p *parser) spanFrom(lo int) Spanned {
	return Spanned{Sp: Sp(lo, p.prevHi())}
}

func (p *parser) bump() Token {
	tok := p.tok()
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

// atOpAt reports whether the joint punctuation run starting n tokens ahead
// spells op. Keywords are matched by identifier text.
func (p *parser) atOpAt(n int, op string) bool {
	if isIdentStart(rune(op[0])) {
		first := p.peek(n)
		return first.Kind == TokIdent && first.Text == op
	}
	for idx := 0; idx < len(op); idx++ {
		tok := p.peek(n + idx)
		if !tok.IsPunct(op[idx]) {
			return false
		}
		if idx < len(op)-1 && !tok.Joint {
			return false
		}
	}
	return true
}

func (p *parser) at(op string) bool {
	return p.atOpAt(0, op)
}

func (p *parser) eat(op string) bool {
	if !p.at(op) {
		return false
	}
	if p.tok().Kind == TokPunct {
		p.pos += len(op)
	} else {
		p.pos++
	}
	return true
}

func (p *parser) expect(op string) {
	if !p.eat(op) {
		p.unexpected(fmt.Sprintf("`%s`", op))
	}
}

func (p *parser) atIdent() bool {
	return isNameToken(p.tok())
}

func isNameToken(tok Token) bool {
	return tok.Kind == TokIdent && tok.Text != "_" && (!IsKeyword(tok.Text) || isPathKeyword(tok.Text))
}

func (p *parser) parseIdent() Ident {
	tok := p.tok()
	if !isNameToken(tok) {
		p.unexpected("identifier")
	}
	p.bump()
	return Ident{Spanned: Spanned{Sp: tok.Sp}, Name: tok.Text}
}

// parseIdentOrUnderscore accepts `_` where a name may be elided.
func (p *parser) parseIdentOrUnderscore() Ident {
	if p.tok().Is("_") {
		tok := p.bump()
		return Ident{Spanned: Spanned{Sp: tok.Sp}, Name: "_"}
	}
	return p.parseIdent()
}

// skipDelimited consumes a balanced token tree starting at an open delimiter
// and returns the span strictly inside it.
func (p *parser) skipDelimited() (MacDelim, Span) {
	open := p.tok()
	var delim MacDelim
	switch {
	case open.IsPunct('('):
		delim = DelimParen
	case open.IsPunct('['):
		delim = DelimBracket
	case open.IsPunct('{'):
		delim = DelimBrace
	default:
		p.unexpected("delimiter")
	}
	p.bump()
	depth := 1
	for depth > 0 {
		tok := p.tok()
		switch {
		case tok.Kind == TokEOF:
			p.errorf(open.Sp.Lo, "unclosed delimiter `%s`", open.Text)
		case tok.IsPunct('(') || tok.IsPunct('[') || tok.IsPunct('{'):
			depth++
		case tok.IsPunct(')') || tok.IsPunct(']') || tok.IsPunct('}'):
			depth--
		}
		p.bump()
	}
	return delim, Sp(open.Sp.Hi, p.toks[p.pos-1].Sp.Lo)
}

// Attributes.

func (p *parser) parseOuterAttrs() []*Attribute {
	var attrs []*Attribute
	for p.tok().IsPunct('#') && p.peek(1).IsPunct('[') {
		attrs = append(attrs, p.parseAttr(false))
	}
	return attrs
}

func (p *parser) parseInnerAttrs() []*Attribute {
	var attrs []*Attribute
	for p.tok().IsPunct('#') && p.peek(1).IsPunct('!') && p.peek(2).IsPunct('[') {
		attrs = append(attrs, p.parseAttr(true))
	}
	return attrs
}

func (p *parser) parseAttr(inner bool) *Attribute {
	lo := p.lo()
	p.expect("#")
	if inner {
		p.expect("!")
	}
	if !p.tok().IsPunct('[') {
		p.unexpected("`[`")
	}
	bodyLo := p.tok().Sp.Hi
	save := p.pos
	p.bump()
	meta := p.tryParseMeta()
	if meta == nil || !p.tok().IsPunct(']') {
		meta = nil
		p.pos = save
		p.skipDelimited()
	} else {
		p.bump()
	}
	return &Attribute{
		Spanned: p.spanFrom(lo),
		Inner:   inner,
		Meta:    meta,
		Body:    Sp(bodyLo, p.prevHi()-1),
	}
}

// tryParseMeta parses a meta item, returning nil without consuming input
// when the tokens are not one.
func (p *parser) tryParseMeta() (meta *MetaItem) {
	save := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.pos = save
			meta = nil
		}
	}()
	return p.parseMeta()
}

func (p *parser) parseMeta() *MetaItem {
	lo := p.lo()
	path := p.parsePath(pathMod)
	meta := &MetaItem{Path: path, Kind: MetaWord}
	switch {
	case p.at("=") && !p.at("=="):
		p.bump()
		tok := p.tok()
		if tok.Kind != TokLiteral {
			p.unexpected("literal")
		}
		p.bump()
		meta.Kind = MetaNameValue
		meta.Value = &LitExpr{Spanned: Spanned{Sp: tok.Sp}, Kind: tok.Lit, Text: tok.Text}
	case p.tok().IsPunct('('):
		listLo := p.lo()
		p.bump()
		meta.Kind = MetaList
		for !p.tok().IsPunct(')') {
			nlo := p.lo()
			nested := &NestedMeta{}
			if tok := p.tok(); tok.Kind == TokLiteral {
				p.bump()
				nested.Lit = &LitExpr{Spanned: Spanned{Sp: tok.Sp}, Kind: tok.Lit, Text: tok.Text}
			} else {
				nested.Meta = p.parseMeta()
			}
			nested.Spanned = p.spanFrom(nlo)
			meta.Nested = append(meta.Nested, nested)
			if !p.eat(",") {
				break
			}
		}
		p.expect(")")
		meta.ListSpan = Sp(listLo, p.prevHi())
	}
	meta.Spanned = p.spanFrom(lo)
	return meta
}

func (p *parser) parseVis() *Visibility {
	lo := p.lo()
	if !p.tok().Is("pub") {
		return nil
	}
	p.bump()
	vis := &Visibility{Kind: VisPublic}
	if p.tok().IsPunct('(') {
		next := p.peek(1)
		switch {
		case (next.Is("crate") || next.Is("self") || next.Is("super")) && p.peek(2).IsPunct(')'):
			p.bump()
			p.bump()
			p.bump()
			if next.Text == "crate" {
				vis.Kind = VisCrate
			} else {
				vis.Kind = VisRestricted
				vis.Path = next.Text
			}
		case next.Is("in"):
			p.bump()
			p.bump()
			path := p.parsePath(pathMod)
			p.expect(")")
			vis.Kind = VisRestricted
			vis.Path = "in " + p.file.Snippet(path.Sp)
		}
	}
	vis.Spanned = p.spanFrom(lo)
	return vis
}
