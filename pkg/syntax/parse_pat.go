package syntax

// parsePat parses a pattern with top-level `|` alternatives.
func (p *parser) parsePat() Pat {
	lo := p.lo()
	if p.tok().IsPunct('|') && !p.at("||") {
		p.bump()
	}
	first := p.parsePatNoAlt()
	if !p.tok().IsPunct('|') || p.at("||") {
		return first
	}
	alts := []Pat{first}
	for p.tok().IsPunct('|') && !p.at("||") {
		p.bump()
		alts = append(alts, p.parsePatNoAlt())
	}
	return &OrPat{Spanned: p.spanFrom(lo), Alts: alts}
}

func (p *parser) parsePatNoAlt() Pat {
	lo := p.lo()
	tok := p.tok()
	switch {
	case tok.Is("_"):
		p.bump()
		return &WildPat{Spanned: p.spanFrom(lo)}
	case p.at("..="):
		p.bump()
		p.bump()
		p.bump()
		hi := p.parsePatRangeEnd()
		return &RangePat{Spanned: p.spanFrom(lo), Hi: hi, Limits: "..="}
	case p.at(".."):
		p.bump()
		p.bump()
		return &RestPat{Spanned: p.spanFrom(lo)}
	case tok.IsPunct('&'):
		if p.at("&&") {
			p.bump()
			innerLo := p.lo()
			p.bump()
			mut := p.eat("mut")
			inner := p.parsePatNoAlt()
			ref := &RefPat{Spanned: p.spanFrom(innerLo), Mut: mut, Pat: inner}
			return &RefPat{Spanned: p.spanFrom(lo), Pat: ref}
		}
		p.bump()
		mut := p.eat("mut")
		inner := p.parsePatNoAlt()
		return &RefPat{Spanned: p.spanFrom(lo), Mut: mut, Pat: inner}
	case tok.IsPunct('('):
		elems, trailing := p.parsePatList("(", ")")
		if len(elems) == 1 && !trailing {
			if _, isRest := elems[0].(*RestPat); !isRest {
				return &ParenPat{Spanned: p.spanFrom(lo), Pat: elems[0]}
			}
		}
		return &TuplePat{Spanned: p.spanFrom(lo), Elems: elems}
	case tok.IsPunct('['):
		elems, _ := p.parsePatList("[", "]")
		return &SlicePat{Spanned: p.spanFrom(lo), Elems: elems}
	case tok.Is("box"):
		p.bump()
		inner := p.parsePatNoAlt()
		return &BoxPat{Spanned: p.spanFrom(lo), Pat: inner}
	case tok.Is("ref") || tok.Is("mut"):
		return p.parseIdentPat(lo)
	case tok.Kind == TokLiteral || tok.IsPunct('-'):
		lit := p.parsePatLiteral()
		return p.maybeRangePat(lo, lit)
	case tok.IsPunct('<'):
		q := p.parseQSelf()
		path := p.parseQualifiedTail(pathExpr)
		return p.maybeRangePat(lo, &PathExpr{Spanned: p.spanFrom(lo), QSelf: q, Path: path})
	case p.atIdent() || p.at("::"):
		if p.atIdent() && !p.atOpAt(1, "::") && !p.peek(1).IsPunct('(') && !p.peek(1).IsPunct('{') &&
			!(p.peek(1).IsPunct('!') && !p.atOpAt(1, "!=")) && !p.atOpAt(1, "..") && !p.atOpAt(1, "...") &&
			!isPathKeyword(tok.Text) {
			return p.parseIdentPat(lo)
		}
		return p.parsePathPat(lo)
	}
	p.unexpected("pattern")
	return nil
}

func (p *parser) parseIdentPat(lo int) Pat {
	pat := &IdentPat{}
	pat.ByRef = p.eat("ref")
	pat.Mut = p.eat("mut")
	pat.Name = p.parseIdent()
	if p.tok().IsPunct('@') {
		p.bump()
		pat.Sub = p.parsePatNoAlt()
	}
	pat.Spanned = p.spanFrom(lo)
	return pat
}

func (p *parser) parsePathPat(lo int) Pat {
	path := p.parsePath(pathExpr)
	tok := p.tok()
	switch {
	case tok.IsPunct('!') && !p.at("!="):
		p.bump()
		delim, inner := p.skipDelimited()
		mac := &MacCall{Spanned: p.spanFrom(lo), Path: path, Delim: delim, Inner: inner}
		return &MacPat{Spanned: mac.Spanned, Mac: mac}
	case tok.IsPunct('('):
		elems, _ := p.parsePatList("(", ")")
		return &TupleStructPat{Spanned: p.spanFrom(lo), Path: path, Elems: elems}
	case tok.IsPunct('{'):
		return p.parseStructPat(lo, path)
	}
	return p.maybeRangePat(lo, &PathExpr{Spanned: p.spanFrom(lo), Path: path})
}

func (p *parser) parseStructPat(lo int, path *Path) Pat {
	p.expect("{")
	pat := &StructPat{Path: path}
	for !p.tok().IsPunct('}') {
		flo := p.lo()
		attrs := p.parseOuterAttrs()
		if p.at("..") {
			p.bump()
			p.bump()
			pat.Rest = &RestPat{Spanned: p.spanFrom(flo)}
			break
		}
		field := &FieldPat{Attrs: attrs}
		switch {
		case p.tok().Kind == TokLiteral && p.tok().Lit == LitInt && p.atOpAt(1, ":"):
			tok := p.bump()
			field.Name = Ident{Spanned: Spanned{Sp: tok.Sp}, Name: tok.Text}
			p.expect(":")
			field.Pat = p.parsePat()
		case p.atIdent() && p.atOpAt(1, ":") && !p.atOpAt(1, "::"):
			field.Name = p.parseIdent()
			p.expect(":")
			field.Pat = p.parsePat()
		default:
			identLo := p.lo()
			ident := p.parseIdentPat(identLo).(*IdentPat)
			field.Name = ident.Name
			field.Pat = ident
			field.Shorthand = true
		}
		field.Spanned = p.spanFrom(flo)
		pat.Fields = append(pat.Fields, field)
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	pat.Spanned = p.spanFrom(lo)
	return pat
}

// parsePatList parses a delimited, comma separated pattern list and reports
// whether a trailing comma was present.
func (p *parser) parsePatList(open, closing string) ([]Pat, bool) {
	p.expect(open)
	var elems []Pat
	trailing := false
	for !p.at(closing) {
		elems = append(elems, p.parsePat())
		trailing = false
		if !p.eat(",") {
			break
		}
		trailing = true
	}
	p.expect(closing)
	return elems, trailing
}

func (p *parser) parsePatLiteral() Expr {
	lo := p.lo()
	if p.tok().IsPunct('-') {
		p.bump()
		tok := p.tok()
		if tok.Kind != TokLiteral {
			p.unexpected("literal")
		}
		p.bump()
		lit := &LitExpr{Spanned: Spanned{Sp: tok.Sp}, Kind: tok.Lit, Text: tok.Text}
		return &UnaryExpr{Spanned: p.spanFrom(lo), Op: "-", X: lit}
	}
	tok := p.bump()
	return &LitExpr{Spanned: p.spanFrom(lo), Kind: tok.Lit, Text: tok.Text}
}

func (p *parser) parsePatRangeEnd() Expr {
	lo := p.lo()
	tok := p.tok()
	if tok.Kind == TokLiteral || tok.IsPunct('-') {
		return p.parsePatLiteral()
	}
	if tok.IsPunct('<') {
		q := p.parseQSelf()
		path := p.parseQualifiedTail(pathExpr)
		return &PathExpr{Spanned: p.spanFrom(lo), QSelf: q, Path: path}
	}
	path := p.parsePath(pathExpr)
	return &PathExpr{Spanned: p.spanFrom(lo), Path: path}
}

func (p *parser) maybeRangePat(lo int, start Expr) Pat {
	var limits string
	switch {
	case p.at("..="):
		limits = "..="
	case p.at("..."):
		limits = "..."
	case p.at(".."):
		limits = ".."
	default:
		if _, ok := start.(*LitExpr); ok || isNegLit(start) {
			return &LitPat{Spanned: p.spanFrom(lo), X: start}
		}
		path := start.(*PathExpr)
		return &PathPat{Spanned: p.spanFrom(lo), QSelf: path.QSelf, Path: path.Path}
	}
	for range limits {
		p.bump()
	}
	pat := &RangePat{Lo: start, Limits: limits}
	if tok := p.tok(); tok.Kind == TokLiteral || tok.IsPunct('-') || p.atIdent() || tok.IsPunct('<') || p.at("::") {
		pat.Hi = p.parsePatRangeEnd()
	}
	pat.Spanned = p.spanFrom(lo)
	return pat
}

func isNegLit(e Expr) bool {
	un, ok := e.(*UnaryExpr)
	return ok && un.Op == "-"
}
