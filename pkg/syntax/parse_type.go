package syntax

type pathMode uint8

const (
	// pathMod accepts no generic arguments.
	pathMod pathMode = iota
	// pathExpr requires the `::<` turbofish for generic arguments.
	pathExpr
	// pathType accepts `<` directly and `Fn(A) -> B` sugar.
	pathType
)

func (p *parser) parsePath(mode pathMode) *Path {
	lo := p.lo()
	path := &Path{}
	if p.at("::") {
		p.bump()
		p.bump()
		path.Global = true
	}
	for {
		path.Segments = append(path.Segments, p.parsePathSegment(mode))
		if !p.at("::") {
			break
		}
		if next := p.peek(2); next.IsPunct('<') || next.IsPunct('{') || next.IsPunct('*') {
			break
		}
		p.bump()
		p.bump()
	}
	path.Spanned = p.spanFrom(lo)
	return path
}

func (p *parser) parsePathSegment(mode pathMode) *PathSegment {
	lo := p.lo()
	seg := &PathSegment{Name: p.parseIdent()}
	switch mode {
	case pathExpr:
		if p.at("::") && p.peek(2).IsPunct('<') {
			argsLo := p.lo()
			p.bump()
			p.bump()
			seg.Args = p.parseAngleArgs(argsLo)
			seg.Args.Turbofish = true
		}
	case pathType:
		switch {
		case p.tok().IsPunct('<') && !p.at("<="):
			seg.Args = p.parseAngleArgs(p.lo())
		case p.at("::") && p.peek(2).IsPunct('<'):
			argsLo := p.lo()
			p.bump()
			p.bump()
			seg.Args = p.parseAngleArgs(argsLo)
			seg.Args.Turbofish = true
		case p.tok().IsPunct('('):
			seg.Args = p.parseParenArgs()
		}
	}
	seg.Spanned = p.spanFrom(lo)
	return seg
}

// parseAngleArgs parses `<...>` with the opening `<` at the current token.
func (p *parser) parseAngleArgs(lo int) *GenericArgs {
	p.expect("<")
	args := &GenericArgs{}
	for !p.tok().IsPunct('>') {
		args.Args = append(args.Args, p.parseGenericArg())
		if !p.eat(",") {
			break
		}
	}
	p.expect(">")
	args.Spanned = p.spanFrom(lo)
	return args
}

func (p *parser) parseGenericArg() *GenericArg {
	lo := p.lo()
	arg := &GenericArg{}
	tok := p.tok()
	switch {
	case tok.Kind == TokLifetime:
		p.bump()
		arg.Kind = ArgLifetime
		arg.Lifetime = tok.Text
	case p.atIdent() && p.atOpAt(1, "=") && !p.atOpAt(1, "==") && !p.atOpAt(1, "=>"):
		arg.Kind = ArgBinding
		arg.Name = p.parseIdent()
		p.expect("=")
		arg.Type = p.parseType()
	case p.atIdent() && p.atOpAt(1, ":") && !p.atOpAt(1, "::"):
		arg.Kind = ArgConstraint
		arg.Name = p.parseIdent()
		p.expect(":")
		arg.Bounds = p.parseBounds()
	case tok.Kind == TokLiteral || tok.IsPunct('-') || tok.IsPunct('{'):
		arg.Kind = ArgConst
		if tok.IsPunct('{') {
			arg.Const = p.parseBlockExpr(p.lo(), "", BlockDefault)
		} else {
			arg.Const = p.parseUnary()
		}
	default:
		arg.Kind = ArgType
		arg.Type = p.parseType()
	}
	arg.Spanned = p.spanFrom(lo)
	return arg
}

// parseParenArgs parses `(A, B) -> C` for Fn-family traits.
func (p *parser) parseParenArgs() *GenericArgs {
	lo := p.lo()
	p.expect("(")
	args := &GenericArgs{Parenthesized: true}
	for !p.tok().IsPunct(')') {
		args.Inputs = append(args.Inputs, p.parseType())
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	if p.eat("->") {
		args.Output = p.parseTypeNoBounds()
	}
	args.Spanned = p.spanFrom(lo)
	return args
}

// parseQSelf parses `<T as Trait>` and leaves the parser before `::`.
func (p *parser) parseQSelf() *QSelf {
	lo := p.lo()
	p.expect("<")
	q := &QSelf{Type: p.parseType()}
	if p.eat("as") {
		q.Trait = p.parsePath(pathType)
	}
	p.expect(">")
	q.Spanned = p.spanFrom(lo)
	return q
}

// parseQualifiedTail parses the `::a::b` following a QSelf.
func (p *parser) parseQualifiedTail(mode pathMode) *Path {
	lo := p.lo()
	path := &Path{}
	for p.at("::") {
		p.bump()
		p.bump()
		path.Segments = append(path.Segments, p.parsePathSegment(mode))
	}
	if len(path.Segments) == 0 {
		p.unexpected("`::`")
	}
	path.Spanned = p.spanFrom(lo)
	return path
}

func (p *parser) parseType() Type {
	return p.parseTypeNoBounds()
}

func (p *parser) parseTypeNoBounds() Type {
	lo := p.lo()
	tok := p.tok()
	switch {
	case tok.IsPunct('('):
		p.bump()
		var elems []Type
		trailingComma := false
		for !p.tok().IsPunct(')') {
			elems = append(elems, p.parseType())
			trailingComma = false
			if !p.eat(",") {
				break
			}
			trailingComma = true
		}
		p.expect(")")
		if len(elems) == 1 && !trailingComma {
			return &ParenType{Spanned: p.spanFrom(lo), Elem: elems[0]}
		}
		return &TupleType{Spanned: p.spanFrom(lo), Elems: elems}
	case tok.IsPunct('['):
		p.bump()
		elem := p.parseType()
		if p.eat(";") {
			n := p.withStruct(p.parseExpr)
			p.expect("]")
			return &ArrayType{Spanned: p.spanFrom(lo), Elem: elem, Len: n}
		}
		p.expect("]")
		return &SliceType{Spanned: p.spanFrom(lo), Elem: elem}
	case tok.IsPunct('&'):
		return p.parseRefType(lo)
	case tok.IsPunct('*'):
		p.bump()
		mut := false
		switch {
		case p.eat("mut"):
			mut = true
		case p.eat("const"):
		default:
			p.unexpected("`const` or `mut`")
		}
		elem := p.parseTypeNoBounds()
		return &PtrType{Spanned: p.spanFrom(lo), Mut: mut, Elem: elem}
	case tok.IsPunct('!'):
		p.bump()
		return &NeverType{Spanned: p.spanFrom(lo)}
	case tok.Is("_"):
		p.bump()
		return &InferType{Spanned: p.spanFrom(lo)}
	case tok.Is("impl"):
		p.bump()
		bounds := p.parseBounds()
		return &ImplTraitType{Spanned: p.spanFrom(lo), Bounds: bounds}
	case tok.Is("dyn"):
		p.bump()
		bounds := p.parseBounds()
		return &DynTraitType{Spanned: p.spanFrom(lo), Bounds: bounds}
	case tok.Is("fn") || tok.Is("unsafe") || tok.Is("extern"):
		return p.parseFnPtrType(lo, nil)
	case tok.Is("for"):
		lifetimes := p.parseForLifetimes()
		if p.tok().Is("fn") || p.tok().Is("unsafe") || p.tok().Is("extern") {
			return p.parseFnPtrType(lo, lifetimes)
		}
		bound := p.parseTraitBound(lo, lifetimes)
		return &DynTraitType{Spanned: p.spanFrom(lo), Bounds: []*GenericBound{bound}}
	case tok.IsPunct('<'):
		q := p.parseQSelf()
		path := p.parseQualifiedTail(pathType)
		return &PathType{Spanned: p.spanFrom(lo), QSelf: q, Path: path}
	case p.atIdent() || p.at("::"):
		path := p.parsePath(pathType)
		if p.tok().IsPunct('!') && !p.at("!=") {
			p.bump()
			delim, inner := p.skipDelimited()
			mac := &MacCall{Spanned: p.spanFrom(lo), Path: path, Delim: delim, Inner: inner}
			return &MacType{Spanned: mac.Spanned, Mac: mac}
		}
		return &PathType{Spanned: p.spanFrom(lo), Path: path}
	}
	p.unexpected("type")
	return nil
}

func (p *parser) parseRefType(lo int) Type {
	// `&&T` is two references.
	if p.at("&&") {
		p.bump()
		innerLo := p.lo()
		p.bump()
		inner := p.parseRefTail(innerLo)
		return &RefType{Spanned: p.spanFrom(lo), Elem: inner}
	}
	p.bump()
	return p.parseRefTail(lo)
}

func (p *parser) parseRefTail(lo int) Type {
	ref := &RefType{}
	if p.tok().Kind == TokLifetime {
		ref.Lifetime = p.bump().Text
	}
	ref.Mut = p.eat("mut")
	ref.Elem = p.parseTypeNoBounds()
	ref.Spanned = p.spanFrom(lo)
	return ref
}

func (p *parser) parseForLifetimes() []string {
	p.expect("for")
	p.expect("<")
	var lifetimes []string
	for p.tok().Kind == TokLifetime {
		lifetimes = append(lifetimes, p.bump().Text)
		if !p.eat(",") {
			break
		}
	}
	p.expect(">")
	return lifetimes
}

func (p *parser) parseFnPtrType(lo int, lifetimes []string) Type {
	ty := &FnPtrType{ForLifetimes: lifetimes}
	ty.Unsafe = p.eat("unsafe")
	if p.eat("extern") {
		ty.Extern = true
		if tok := p.tok(); tok.Kind == TokLiteral && tok.Lit == LitStr {
			ty.Abi = p.bump().Text
		}
	}
	p.expect("fn")
	paramsLo := p.lo()
	p.expect("(")
	for !p.tok().IsPunct(')') {
		plo := p.lo()
		param := &Param{Attrs: p.parseOuterAttrs()}
		switch {
		case p.at("..."):
			p.bump()
			p.bump()
			p.bump()
			param.Variadic = true
		case (p.atIdent() || p.tok().Is("_")) && p.atOpAt(1, ":") && !p.atOpAt(1, "::"):
			name := p.parseIdentOrUnderscore()
			if name.Name == "_" {
				param.Pat = &WildPat{Spanned: name.Spanned}
			} else {
				param.Pat = &IdentPat{Spanned: name.Spanned, Name: name}
			}
			p.expect(":")
			param.Type = p.parseType()
		default:
			param.Type = p.parseType()
		}
		param.Spanned = p.spanFrom(plo)
		ty.Params = append(ty.Params, param)
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	ty.ParamsSp = Sp(paramsLo, p.prevHi())
	if p.eat("->") {
		ty.Ret = p.parseTypeNoBounds()
	}
	ty.Spanned = p.spanFrom(lo)
	return ty
}

// parseBounds parses `A + B + 'a`.
func (p *parser) parseBounds() []*GenericBound {
	var bounds []*GenericBound
	for {
		if !p.canBeginBound() {
			break
		}
		bounds = append(bounds, p.parseBound())
		if !p.eat("+") {
			break
		}
	}
	return bounds
}

func (p *parser) canBeginBound() bool {
	tok := p.tok()
	return tok.Kind == TokLifetime || tok.IsPunct('?') || tok.IsPunct('(') || tok.Is("for") ||
		p.atIdent() || p.at("::") || tok.IsPunct('~')
}

func (p *parser) parseBound() *GenericBound {
	lo := p.lo()
	tok := p.tok()
	switch {
	case tok.Kind == TokLifetime:
		p.bump()
		return &GenericBound{Spanned: p.spanFrom(lo), Lifetime: tok.Text}
	case tok.IsPunct('('):
		p.bump()
		bound := p.parseBound()
		p.expect(")")
		bound.Paren = true
		bound.Spanned = p.spanFrom(lo)
		return bound
	}
	var lifetimes []string
	if p.tok().Is("for") {
		lifetimes = p.parseForLifetimes()
	}
	return p.parseTraitBound(lo, lifetimes)
}

func (p *parser) parseTraitBound(lo int, lifetimes []string) *GenericBound {
	bound := &GenericBound{ForLifetimes: lifetimes}
	if p.eat("?") {
		bound.Maybe = true
	}
	bound.Trait = p.parsePath(pathType)
	bound.Spanned = p.spanFrom(lo)
	return bound
}

// parseGenerics parses an optional `<...>` parameter list.
func (p *parser) parseGenerics() *Generics {
	lo := p.lo()
	gen := &Generics{}
	if p.tok().IsPunct('<') {
		p.bump()
		for !p.tok().IsPunct('>') {
			gen.Params = append(gen.Params, p.parseGenericParam())
			if !p.eat(",") {
				break
			}
		}
		p.expect(">")
	}
	gen.Spanned = p.spanFrom(lo)
	if len(gen.Params) == 0 {
		gen.Sp = Sp(lo, lo)
	}
	return gen
}

func (p *parser) parseGenericParam() *GenericParam {
	lo := p.lo()
	param := &GenericParam{Attrs: p.parseOuterAttrs()}
	tok := p.tok()
	switch {
	case tok.Kind == TokLifetime:
		p.bump()
		param.Kind = ParamLifetime
		param.Name = Ident{Spanned: Spanned{Sp: tok.Sp}, Name: tok.Text}
		if p.eat(":") {
			for p.tok().Kind == TokLifetime {
				lt := p.bump()
				param.Bounds = append(param.Bounds, &GenericBound{Spanned: Spanned{Sp: lt.Sp}, Lifetime: lt.Text})
				if !p.eat("+") {
					break
				}
			}
		}
	case tok.Is("const"):
		p.bump()
		param.Kind = ParamConst
		param.Name = p.parseIdent()
		p.expect(":")
		param.ConstType = p.parseType()
		if p.eat("=") {
			if p.tok().IsPunct('{') {
				param.ConstDefault = p.parseBlockExpr(p.lo(), "", BlockDefault)
			} else {
				param.ConstDefault = p.parseUnary()
			}
		}
	default:
		param.Kind = ParamType
		param.Name = p.parseIdent()
		if p.eat(":") {
			param.Bounds = p.parseBounds()
		}
		if p.eat("=") {
			param.Default = p.parseType()
		}
	}
	param.Spanned = p.spanFrom(lo)
	return param
}

// parseWhere parses an optional where clause into gen.
func (p *parser) parseWhere(gen *Generics) {
	if !p.tok().Is("where") {
		return
	}
	lo := p.lo()
	p.bump()
	where := &WhereClause{}
	for {
		tok := p.tok()
		if tok.IsPunct('{') || tok.IsPunct(';') || tok.Kind == TokEOF || (tok.IsPunct('=') && !p.at("==")) {
			break
		}
		where.Predicates = append(where.Predicates, p.parseWherePredicate())
		if !p.eat(",") {
			break
		}
	}
	where.Spanned = p.spanFrom(lo)
	gen.Where = where
}

func (p *parser) parseWherePredicate() *WherePredicate {
	lo := p.lo()
	pred := &WherePredicate{}
	if p.tok().Kind == TokLifetime {
		pred.Lifetime = p.bump().Text
		p.expect(":")
		for p.tok().Kind == TokLifetime {
			lt := p.bump()
			pred.Bounds = append(pred.Bounds, &GenericBound{Spanned: Spanned{Sp: lt.Sp}, Lifetime: lt.Text})
			if !p.eat("+") {
				break
			}
		}
		pred.Spanned = p.spanFrom(lo)
		return pred
	}
	if p.tok().Is("for") {
		pred.ForLifetimes = p.parseForLifetimes()
	}
	pred.Type = p.parseType()
	p.expect(":")
	pred.Bounds = p.parseBounds()
	pred.Spanned = p.spanFrom(lo)
	return pred
}
