package syntax

// atItemStart reports whether the tokens ahead begin an item rather than an
// expression statement.
func (p *parser) atItemStart() bool {
	tok := p.tok()
	if tok.Kind != TokIdent {
		return false
	}
	switch tok.Text {
	case "fn", "pub", "struct", "enum", "trait", "impl", "mod", "use", "extern", "static", "type":
		return true
	case "const":
		next := p.peek(1)
		return !next.IsPunct('{') && !next.IsPunct('|') && !next.Is("move")
	case "unsafe":
		next := p.peek(1)
		return next.Is("fn") || next.Is("impl") || next.Is("trait") || next.Is("extern") || next.Is("mod") || next.Is("auto")
	case "async":
		next := p.peek(1)
		return next.Is("fn") || next.Is("unsafe")
	case "union", "auto":
		return p.peek(1).Kind == TokIdent && !p.peek(1).Is("as")
	case "macro_rules":
		return p.peek(1).IsPunct('!') && p.peek(2).Kind == TokIdent
	}
	return false
}

// parseItem parses one item whose outer attributes were already consumed.
func (p *parser) parseItem(attrs []*Attribute) Item {
	lo := p.lo()
	if len(attrs) > 0 {
		lo = attrs[0].Sp.Lo
	}
	vis := p.parseVis()
	base := ItemBase{Attrs: attrs, Vis: vis}

	item := p.parseItemKind(lo, base)
	return item
}

func (p *parser) parseItemKind(lo int, base ItemBase) Item {
	tok := p.tok()
	fin := func(b *ItemBase) {
		b.Spanned = p.spanFrom(lo)
	}

	switch {
	case tok.Is("use"):
		p.bump()
		item := &UseItem{ItemBase: base}
		item.Tree = p.parseUseTree()
		p.expect(";")
		fin(&item.ItemBase)
		return item
	case tok.Is("extern") && p.peek(1).Is("crate"):
		p.bump()
		p.bump()
		item := &ExternCrateItem{ItemBase: base}
		item.Name = p.parseIdent()
		if p.eat("as") {
			rename := p.parseIdentOrUnderscore()
			item.Rename = &rename
		}
		p.expect(";")
		fin(&item.ItemBase)
		return item
	case tok.Is("extern") && (p.peek(1).IsPunct('{') || p.peek(1).Kind == TokLiteral && p.peek(2).IsPunct('{')):
		return p.parseExternBlock(lo, base, false)
	case tok.Is("unsafe") && p.peek(1).Is("extern") && (p.peek(2).IsPunct('{') || p.peek(3).IsPunct('{')):
		p.bump()
		return p.parseExternBlock(lo, base, true)
	case tok.Is("mod") || tok.Is("unsafe") && p.peek(1).Is("mod"):
		item := &ModItem{ItemBase: base}
		item.Unsafe = p.eat("unsafe")
		p.expect("mod")
		item.Name = p.parseIdent()
		if !p.eat(";") {
			item.Inline = true
			bodyLo := p.lo()
			p.expect("{")
			item.InnerAttrs = p.parseInnerAttrs()
			for !p.tok().IsPunct('}') {
				if p.atEOF() {
					p.errorf(bodyLo, "unclosed module body")
				}
				item.Items = append(item.Items, p.parseItem(p.parseOuterAttrs()))
			}
			p.expect("}")
			item.Body = Sp(bodyLo, p.prevHi())
		}
		fin(&item.ItemBase)
		return item
	case tok.Is("struct") || tok.Is("union") && p.peek(1).Kind == TokIdent:
		return p.parseStruct(lo, base)
	case tok.Is("enum"):
		return p.parseEnum(lo, base)
	case tok.Is("trait") || tok.Is("auto") || tok.Is("unsafe") && (p.peek(1).Is("trait") || p.peek(1).Is("auto")):
		return p.parseTrait(lo, base)
	case tok.Is("impl") || tok.Is("unsafe") && p.peek(1).Is("impl") || tok.Is("default") && p.peek(1).Is("impl"):
		return p.parseImpl(lo, base)
	case tok.Is("static"):
		p.bump()
		item := &StaticItem{ItemBase: base}
		item.Mut = p.eat("mut")
		item.Name = p.parseIdent()
		p.expect(":")
		item.Type = p.parseType()
		if p.eat("=") {
			item.Value = p.parseExpr()
		}
		p.expect(";")
		fin(&item.ItemBase)
		return item
	case tok.Is("const") && !p.peek(1).Is("fn") && !p.peek(1).Is("unsafe") && !p.peek(1).Is("async") && !p.peek(1).Is("extern"),
		tok.Is("default") && p.peek(1).Is("const"):
		item := &ConstItem{ItemBase: base}
		item.Default = p.eat("default")
		p.expect("const")
		item.Name = p.parseIdentOrUnderscore()
		p.expect(":")
		item.Type = p.parseType()
		if p.eat("=") {
			item.Value = p.parseExpr()
		}
		p.expect(";")
		fin(&item.ItemBase)
		return item
	case tok.Is("type") || tok.Is("default") && p.peek(1).Is("type"):
		item := &TypeAliasItem{ItemBase: base}
		item.Default = p.eat("default")
		p.expect("type")
		item.Name = p.parseIdent()
		item.Generics = p.parseGenerics()
		if p.eat(":") {
			item.Bounds = p.parseBounds()
		}
		p.parseWhere(item.Generics)
		if p.eat("=") {
			item.Type = p.parseType()
		}
		p.parseWhere(item.Generics)
		p.expect(";")
		fin(&item.ItemBase)
		return item
	case tok.Is("macro_rules") && p.peek(1).IsPunct('!'):
		p.bump()
		p.bump()
		item := &MacroRulesItem{ItemBase: base}
		item.Name = p.parseIdent()
		item.Delim, item.Inner = p.skipDelimited()
		if item.Delim != DelimBrace {
			item.Semi = p.eat(";")
		}
		fin(&item.ItemBase)
		return item
	case p.atFnStart():
		return p.parseFn(lo, base)
	case p.atIdent() || p.at("::"):
		path := p.parsePath(pathMod)
		if !p.tok().IsPunct('!') {
			p.unexpected("`!`")
		}
		p.bump()
		delim, inner := p.skipDelimited()
		mac := &MacCall{Spanned: p.spanFrom(path.Sp.Lo), Path: path, Delim: delim, Inner: inner}
		item := &MacItem{ItemBase: base, Mac: mac}
		if delim != DelimBrace {
			p.expect(";")
			item.Semi = true
		} else {
			item.Semi = p.eat(";")
		}
		fin(&item.ItemBase)
		return item
	}
	p.unexpected("item")
	return nil
}

func (p *parser) atFnStart() bool {
	for idx := 0; idx < 6; idx++ {
		tok := p.peek(idx)
		switch {
		case tok.Is("fn"):
			return true
		case tok.Is("const"), tok.Is("async"), tok.Is("unsafe"), tok.Is("default"), tok.Is("extern"):
		case tok.Kind == TokLiteral && tok.Lit == LitStr && idx > 0 && p.peek(idx-1).Is("extern"):
		default:
			return false
		}
	}
	return false
}

func (p *parser) parseFn(lo int, base ItemBase) Item {
	item := &FnItem{ItemBase: base, Sig: &FnSig{}}
	sig := item.Sig
	item.Default = p.eat("default")
	sig.Const = p.eat("const")
	sig.Async = p.eat("async")
	sig.Unsafe = p.eat("unsafe")
	if p.eat("extern") {
		sig.Extern = true
		if tok := p.tok(); tok.Kind == TokLiteral && tok.Lit == LitStr {
			sig.Abi = p.bump().Text
		}
	}
	p.expect("fn")
	item.Name = p.parseIdent()
	sig.Generics = p.parseGenerics()
	paramsLo := p.lo()
	p.expect("(")
	for !p.tok().IsPunct(')') {
		sig.Params = append(sig.Params, p.parseParam())
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	sig.ParamsSp = Sp(paramsLo, p.prevHi())
	if p.eat("->") {
		sig.Ret = p.parseType()
	}
	p.parseWhere(sig.Generics)
	if !p.eat(";") {
		item.Body = p.parseBlock()
	}
	item.Spanned = p.spanFrom(lo)
	return item
}

func (p *parser) parseParam() *Param {
	lo := p.lo()
	param := &Param{Attrs: p.parseOuterAttrs()}
	if self := p.tryParseSelfParam(); self != nil {
		param.Self = self
		param.Spanned = p.spanFrom(lo)
		return param
	}
	if p.at("...") {
		p.bump()
		p.bump()
		p.bump()
		param.Variadic = true
		param.Spanned = p.spanFrom(lo)
		return param
	}
	param.Pat = p.parsePatNoAlt()
	p.expect(":")
	if p.at("...") {
		p.bump()
		p.bump()
		p.bump()
		param.Variadic = true
	} else {
		param.Type = p.parseType()
	}
	param.Spanned = p.spanFrom(lo)
	return param
}

func (p *parser) tryParseSelfParam() *SelfParam {
	self := &SelfParam{}
	n := 0
	if p.peek(n).IsPunct('&') {
		self.Ref = true
		n++
		if p.peek(n).Kind == TokLifetime {
			self.Lifetime = p.peek(n).Text
			n++
		}
	}
	if p.peek(n).Is("mut") {
		self.Mut = true
		n++
	}
	if !p.peek(n).Is("self") || p.atOpAt(n+1, "::") {
		return nil
	}
	for idx := 0; idx <= n; idx++ {
		p.bump()
	}
	if !self.Ref && p.at(":") && !p.at("::") {
		p.bump()
		self.Type = p.parseType()
	}
	return self
}

func (p *parser) parseStruct(lo int, base ItemBase) Item {
	item := &StructItem{ItemBase: base}
	item.Union = p.bump().Text == "union"
	item.Name = p.parseIdent()
	item.Generics = p.parseGenerics()
	p.parseWhere(item.Generics)
	switch {
	case p.eat(";"):
		item.Kind = VariantUnit
	case p.tok().IsPunct('('):
		item.Kind = VariantTuple
		item.Fields, item.Body = p.parseTupleFields()
		p.parseWhere(item.Generics)
		p.expect(";")
	default:
		item.Kind = VariantStruct
		item.Fields, item.Body = p.parseNamedFields()
	}
	item.Spanned = p.spanFrom(lo)
	return item
}

func (p *parser) parseTupleFields() ([]*FieldDef, Span) {
	lo := p.lo()
	p.expect("(")
	var fields []*FieldDef
	for !p.tok().IsPunct(')') {
		flo := p.lo()
		field := &FieldDef{Attrs: p.parseOuterAttrs()}
		field.Vis = p.parseVis()
		field.Type = p.parseType()
		field.Spanned = p.spanFrom(flo)
		fields = append(fields, field)
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return fields, Sp(lo, p.prevHi())
}

func (p *parser) parseNamedFields() ([]*FieldDef, Span) {
	lo := p.lo()
	p.expect("{")
	var fields []*FieldDef
	for !p.tok().IsPunct('}') {
		flo := p.lo()
		field := &FieldDef{Attrs: p.parseOuterAttrs()}
		field.Vis = p.parseVis()
		name := p.parseIdentOrUnderscore()
		field.Name = &name
		p.expect(":")
		field.Type = p.parseType()
		field.Spanned = p.spanFrom(flo)
		fields = append(fields, field)
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return fields, Sp(lo, p.prevHi())
}

func (p *parser) parseEnum(lo int, base ItemBase) Item {
	p.expect("enum")
	item := &EnumItem{ItemBase: base}
	item.Name = p.parseIdent()
	item.Generics = p.parseGenerics()
	p.parseWhere(item.Generics)
	bodyLo := p.lo()
	p.expect("{")
	for !p.tok().IsPunct('}') {
		vlo := p.lo()
		v := &Variant{Attrs: p.parseOuterAttrs()}
		v.Vis = p.parseVis()
		v.Name = p.parseIdent()
		switch {
		case p.tok().IsPunct('('):
			v.Kind = VariantTuple
			v.Fields, v.Body = p.parseTupleFields()
		case p.tok().IsPunct('{'):
			v.Kind = VariantStruct
			v.Fields, v.Body = p.parseNamedFields()
		}
		if p.at("=") && !p.at("==") {
			p.bump()
			v.Discriminant = p.parseExpr()
		}
		v.Spanned = p.spanFrom(vlo)
		item.Variants = append(item.Variants, v)
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	item.Body = Sp(bodyLo, p.prevHi())
	item.Spanned = p.spanFrom(lo)
	return item
}

func (p *parser) parseAssocItems() ([]*Attribute, []Item, Span) {
	lo := p.lo()
	p.expect("{")
	inner := p.parseInnerAttrs()
	var items []Item
	for !p.tok().IsPunct('}') {
		if p.atEOF() {
			p.errorf(lo, "unclosed item body")
		}
		items = append(items, p.parseItem(p.parseOuterAttrs()))
	}
	p.expect("}")
	return inner, items, Sp(lo, p.prevHi())
}

func (p *parser) parseTrait(lo int, base ItemBase) Item {
	item := &TraitItem{ItemBase: base}
	item.Unsafe = p.eat("unsafe")
	item.Auto = p.eat("auto")
	p.expect("trait")
	item.Name = p.parseIdent()
	item.Generics = p.parseGenerics()
	if p.eat(":") {
		item.Bounds = p.parseBounds()
	}
	p.parseWhere(item.Generics)
	item.InnerAttrs, item.Items, item.Body = p.parseAssocItems()
	item.Spanned = p.spanFrom(lo)
	return item
}

func (p *parser) parseImpl(lo int, base ItemBase) Item {
	item := &ImplItem{ItemBase: base}
	item.Default = p.eat("default")
	item.Unsafe = p.eat("unsafe")
	p.expect("impl")
	if p.tok().IsPunct('<') && !p.atOpAt(1, "::") {
		item.Generics = p.parseGenerics()
	} else {
		item.Generics = &Generics{Spanned: Spanned{Sp: Sp(p.lo(), p.lo())}}
	}
	item.Negative = p.tok().IsPunct('!')
	if item.Negative {
		p.bump()
	}
	first := p.parseType()
	if p.eat("for") {
		pathTy, ok := first.(*PathType)
		if !ok || pathTy.QSelf != nil {
			p.errorf(first.Span().Lo, "expected a trait path before `for`")
		}
		item.Trait = pathTy.Path
		item.SelfType = p.parseType()
	} else {
		item.SelfType = first
	}
	p.parseWhere(item.Generics)
	item.InnerAttrs, item.Items, item.Body = p.parseAssocItems()
	item.Spanned = p.spanFrom(lo)
	return item
}

func (p *parser) parseExternBlock(lo int, base ItemBase, unsafe bool) Item {
	p.expect("extern")
	item := &ExternBlockItem{ItemBase: base, Unsafe: unsafe}
	if tok := p.tok(); tok.Kind == TokLiteral {
		item.Abi = p.bump().Text
	}
	item.InnerAttrs, item.Items, item.Body = p.parseAssocItems()
	item.Spanned = p.spanFrom(lo)
	return item
}

func (p *parser) parseUseTree() *UseTree {
	lo := p.lo()
	tree := &UseTree{Kind: UseSimple}
	if p.at("::") {
		p.bump()
		p.bump()
		tree.Global = true
	}
	for {
		switch {
		case p.tok().IsPunct('*'):
			p.bump()
			tree.Kind = UseGlob
			tree.Spanned = p.spanFrom(lo)
			return tree
		case p.tok().IsPunct('{'):
			p.bump()
			tree.Kind = UseNested
			for !p.tok().IsPunct('}') {
				tree.Children = append(tree.Children, p.parseUseTree())
				if !p.eat(",") {
					break
				}
			}
			p.expect("}")
			tree.Spanned = p.spanFrom(lo)
			return tree
		}
		tree.Prefix = append(tree.Prefix, p.parseIdent())
		if !p.at("::") {
			break
		}
		p.bump()
		p.bump()
	}
	if p.eat("as") {
		rename := p.parseIdentOrUnderscore()
		tree.Rename = &rename
	}
	tree.Spanned = p.spanFrom(lo)
	return tree
}
