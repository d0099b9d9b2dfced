package syntax

import "strings"

const (
	precOr = iota + 1
	precAnd
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
	precCast
)

var binOps = []struct {
	op   string
	prec int
}{
	{"||", precOr},
	{"&&", precAnd},
	{"==", precCompare},
	{"!=", precCompare},
	{"<=", precCompare},
	{">=", precCompare},
	{"<<", precShift},
	{">>", precShift},
	{"<", precCompare},
	{">", precCompare},
	{"|", precBitOr},
	{"^", precBitXor},
	{"&", precBitAnd},
	{"+", precAdd},
	{"-", precAdd},
	{"*", precMul},
	{"/", precMul},
	{"%", precMul},
}

var assignOps = []string{"<<=", ">>=", "+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "="}

func (p *parser) withStruct(fn func() Expr) Expr {
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()
	return fn()
}

func (p *parser) withNoStruct(fn func() Expr) Expr {
	saved := p.noStruct
	p.noStruct = true
	defer func() { p.noStruct = saved }()
	return fn()
}

// parseExpr parses a full expression including assignment.
func (p *parser) parseExpr() Expr {
	lo := p.lo()
	lhs := p.parseRange()
	for _, op := range assignOps {
		if op == "=" && (p.at("==") || p.at("=>")) {
			continue
		}
		if p.at(op) {
			for range op {
				p.bump()
			}
			rhs := p.parseExpr()
			return &AssignExpr{Spanned: p.spanFrom(lo), Op: op, X: lhs, Y: rhs}
		}
	}
	return lhs
}

func (p *parser) atRangeOp() (string, bool) {
	switch {
	case p.at("..="):
		return "..=", true
	case p.at("..."):
		return "...", true
	case p.at(".."):
		return "..", true
	}
	return "", false
}

func (p *parser) parseRange() Expr {
	lo := p.lo()
	if limits, ok := p.atRangeOp(); ok {
		for range limits {
			p.bump()
		}
		rng := &RangeExpr{Limits: limits}
		if p.canBeginExpr() {
			rng.Hi = p.parseBinary(precOr)
		}
		rng.Spanned = p.spanFrom(lo)
		return rng
	}
	lhs := p.parseBinary(precOr)
	return p.parseRangeTail(lo, lhs)
}

func (p *parser) parseRangeTail(lo int, lhs Expr) Expr {
	limits, ok := p.atRangeOp()
	if !ok {
		return lhs
	}
	for range limits {
		p.bump()
	}
	rng := &RangeExpr{Lo: lhs, Limits: limits}
	if p.canBeginExpr() {
		rng.Hi = p.parseBinary(precOr)
	}
	rng.Spanned = p.spanFrom(lo)
	return rng
}

// canBeginExpr reports whether the current token may start an expression.
func (p *parser) canBeginExpr() bool {
	tok := p.tok()
	switch tok.Kind {
	case TokEOF:
		return false
	case TokLiteral, TokLifetime:
		return true
	case TokIdent:
		switch tok.Text {
		case "as", "else", "in", "where":
			return false
		}
		return true
	}
	if tok.IsPunct('{') {
		return !p.noStruct
	}
	return strings.IndexByte("([|!-*&<:.#", tok.Text[0]) >= 0 && !p.at("=>")
}

func (p *parser) peekBinOp() (string, int) {
	tok := p.tok()
	if tok.Is("as") {
		return "as", precCast
	}
	if tok.Kind != TokPunct {
		return "", 0
	}
	for _, cand := range binOps {
		if !p.at(cand.op) {
			continue
		}
		// Compound assignment and ranges are not binary operators.
		if next := p.peek(len(cand.op)); p.peek(len(cand.op) - 1).Joint && next.IsPunct('=') && cand.prec != precCompare {
			return "", 0
		}
		if cand.op == "<" && p.at("<=") || cand.op == ">" && p.at(">=") {
			continue
		}
		if (cand.op == "<<" || cand.op == ">>") && p.peek(1).Joint && p.peek(2).IsPunct('=') {
			return "", 0
		}
		return cand.op, cand.prec
	}
	return "", 0
}

func (p *parser) parseBinary(minPrec int) Expr {
	lo := p.lo()
	return p.parseBinaryRHS(lo, minPrec, p.parseUnary())
}

func (p *parser) parseBinaryRHS(lo, minPrec int, lhs Expr) Expr {
	for {
		op, prec := p.peekBinOp()
		if op == "" || prec < minPrec {
			return lhs
		}
		if op == "as" {
			p.bump()
			ty := p.parseTypeNoBounds()
			lhs = &CastExpr{Spanned: p.spanFrom(lo), X: lhs, Type: ty}
			continue
		}
		opLo := p.lo()
		for range op {
			p.bump()
		}
		opSp := Sp(opLo, p.prevHi())
		rhs := p.parseBinary(prec + 1)
		lhs = &BinaryExpr{Spanned: p.spanFrom(lo), Op: op, OpSp: opSp, X: lhs, Y: rhs}
	}
}

func (p *parser) parseUnary() Expr {
	lo := p.lo()
	tok := p.tok()
	switch {
	case tok.IsPunct('-') && !p.at("->"), tok.IsPunct('!'), tok.IsPunct('*'):
		p.bump()
		x := p.parseUnary()
		return &UnaryExpr{Spanned: p.spanFrom(lo), Op: tok.Text, X: x}
	case tok.IsPunct('&'):
		if p.at("&&") {
			p.bump()
			innerLo := p.lo()
			p.bump()
			inner := p.parseRefRest(innerLo)
			return &RefExpr{Spanned: p.spanFrom(lo), X: inner}
		}
		p.bump()
		return p.parseRefRest(lo)
	}
	return p.parsePostfix(lo, p.parsePrimary())
}

func (p *parser) parseRefRest(lo int) Expr {
	ref := &RefExpr{}
	if p.tok().Is("raw") && (p.peek(1).Is("const") || p.peek(1).Is("mut")) {
		p.bump()
		ref.Raw = true
		ref.Mut = p.bump().Text == "mut"
	} else {
		ref.Mut = p.eat("mut")
	}
	ref.X = p.parseUnary()
	ref.Spanned = p.spanFrom(lo)
	return ref
}

func (p *parser) parsePostfix(lo int, x Expr) Expr {
	for {
		tok := p.tok()
		switch {
		case tok.IsPunct('?'):
			p.bump()
			x = &TryExpr{Spanned: p.spanFrom(lo), X: x}
		case tok.IsPunct('.') && !p.at(".."):
			x = p.parseDotSuffix(lo, x)
		case tok.IsPunct('('):
			args, argsSp := p.parseCallArgs()
			x = &CallExpr{Spanned: p.spanFrom(lo), Fun: x, Args: args, ArgsSp: argsSp}
		case tok.IsPunct('['):
			p.bump()
			idx := p.withStruct(p.parseExpr)
			p.expect("]")
			x = &IndexExpr{Spanned: p.spanFrom(lo), X: x, Index: idx}
		default:
			return x
		}
	}
}

func (p *parser) parseDotSuffix(lo int, x Expr) Expr {
	p.expect(".")
	tok := p.tok()
	switch {
	case tok.Is("await"):
		p.bump()
		return &AwaitExpr{Spanned: p.spanFrom(lo), X: x}
	case tok.Kind == TokLiteral && (tok.Lit == LitInt || tok.Lit == LitFloat):
		p.bump()
		// `t.0.1` lexes the indices as one float literal.
		parts := strings.SplitN(tok.Text, ".", 2)
		first := Ident{Spanned: Spanned{Sp: Sp(tok.Sp.Lo, tok.Sp.Lo+len(parts[0]))}, Name: parts[0]}
		x = &FieldExpr{Spanned: Spanned{Sp: Sp(lo, first.Sp.Hi)}, X: x, Name: first}
		if len(parts) == 2 && parts[1] != "" {
			secondLo := first.Sp.Hi + 1
			second := Ident{Spanned: Spanned{Sp: Sp(secondLo, tok.Sp.Hi)}, Name: parts[1]}
			x = &FieldExpr{Spanned: p.spanFrom(lo), X: x, Name: second}
		}
		return x
	}
	segLo := p.lo()
	name := p.parseIdent()
	seg := &PathSegment{Name: name}
	if p.at("::") && p.peek(2).IsPunct('<') {
		argsLo := p.lo()
		p.bump()
		p.bump()
		seg.Args = p.parseAngleArgs(argsLo)
		seg.Args.Turbofish = true
	}
	seg.Spanned = p.spanFrom(segLo)
	if p.tok().IsPunct('(') {
		args, argsSp := p.parseCallArgs()
		return &MethodCallExpr{Spanned: p.spanFrom(lo), Receiver: x, Method: seg, Args: args, ArgsSp: argsSp}
	}
	return &FieldExpr{Spanned: p.spanFrom(lo), X: x, Name: name}
}

func (p *parser) parseCallArgs() ([]Expr, Span) {
	lo := p.lo()
	p.expect("(")
	var args []Expr
	for !p.tok().IsPunct(')') {
		args = append(args, p.withStruct(p.parseExpr))
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return args, Sp(lo, p.prevHi())
}

func (p *parser) parsePrimary() Expr {
	lo := p.lo()
	tok := p.tok()

	switch tok.Kind {
	case TokLiteral:
		p.bump()
		return &LitExpr{Spanned: p.spanFrom(lo), Kind: tok.Lit, Text: tok.Text}
	case TokLifetime:
		// Labelled loop or block.
		p.bump()
		p.expect(":")
		return p.parseLabelled(lo, tok.Text)
	}

	switch {
	case tok.IsPunct('('):
		return p.parseParenOrTuple(lo)
	case tok.IsPunct('['):
		return p.parseArray(lo)
	case tok.IsPunct('{'):
		return p.parseBlockExpr(lo, "", BlockDefault)
	case tok.IsPunct('|'):
		return p.parseClosure(lo)
	case tok.IsPunct('<'):
		q := p.parseQSelf()
		path := p.parseQualifiedTail(pathExpr)
		return p.parsePathTail(lo, q, path)
	case tok.Is("move") && p.peek(1).IsPunct('|'):
		return p.parseClosure(lo)
	case tok.Is("async"):
		switch {
		case p.peek(1).IsPunct('{'):
			p.bump()
			return p.parseBlockExpr(lo, "", BlockAsync)
		case p.peek(1).Is("move") && p.peek(2).IsPunct('{'):
			p.bump()
			p.bump()
			return p.parseBlockExpr(lo, "", BlockAsyncMove)
		default:
			return p.parseClosure(lo)
		}
	case tok.Is("unsafe"):
		p.bump()
		return p.parseBlockExpr(lo, "", BlockUnsafe)
	case tok.Is("const") && p.peek(1).IsPunct('{'):
		p.bump()
		return p.parseBlockExpr(lo, "", BlockConst)
	case tok.Is("if"):
		return p.parseIf(lo)
	case tok.Is("match"):
		return p.parseMatch(lo)
	case tok.Is("loop"), tok.Is("while"), tok.Is("for"):
		return p.parseLabelled(lo, "")
	case tok.Is("let"):
		p.bump()
		pat := p.parsePat()
		p.expect("=")
		init := p.withNoStruct(func() Expr { return p.parseBinary(precAnd + 1) })
		return &LetExpr{Spanned: p.spanFrom(lo), Pat: pat, Init: init}
	case tok.Is("return"):
		p.bump()
		ret := &ReturnExpr{}
		if p.canEndWithValue() {
			ret.X = p.parseExpr()
		}
		ret.Spanned = p.spanFrom(lo)
		return ret
	case tok.Is("break"):
		p.bump()
		brk := &BreakExpr{}
		if p.tok().Kind == TokLifetime {
			brk.Label = p.bump().Text
		}
		if p.canEndWithValue() {
			brk.X = p.parseExpr()
		}
		brk.Spanned = p.spanFrom(lo)
		return brk
	case tok.Is("continue"):
		p.bump()
		cont := &ContinueExpr{}
		if p.tok().Kind == TokLifetime {
			cont.Label = p.bump().Text
		}
		cont.Spanned = p.spanFrom(lo)
		return cont
	case tok.Is("_"):
		p.bump()
		return &UnderscoreExpr{Spanned: p.spanFrom(lo)}
	case p.atIdent() || p.at("::"):
		path := p.parsePath(pathExpr)
		return p.parsePathTail(lo, nil, path)
	}
	p.unexpected("expression")
	return nil
}

// canEndWithValue reports whether `return` / `break` is followed by a value.
func (p *parser) canEndWithValue() bool {
	tok := p.tok()
	if tok.IsPunct(';') || tok.IsPunct('}') || tok.IsPunct(')') || tok.IsPunct(']') || tok.IsPunct(',') || p.at("=>") {
		return false
	}
	return p.canBeginExpr()
}

func (p *parser) parsePathTail(lo int, q *QSelf, path *Path) Expr {
	tok := p.tok()
	switch {
	case q == nil && tok.IsPunct('!') && !p.at("!=") && isDelimOpen(p.peek(1)):
		p.bump()
		delim, inner := p.skipDelimited()
		mac := &MacCall{Spanned: p.spanFrom(lo), Path: path, Delim: delim, Inner: inner}
		return &MacExpr{Spanned: mac.Spanned, Mac: mac}
	case tok.IsPunct('{') && !p.noStruct:
		return p.parseStructExpr(lo, q, path)
	}
	return &PathExpr{Spanned: p.spanFrom(lo), QSelf: q, Path: path}
}

func isDelimOpen(tok Token) bool {
	return tok.IsPunct('(') || tok.IsPunct('[') || tok.IsPunct('{')
}

func (p *parser) parseStructExpr(lo int, q *QSelf, path *Path) Expr {
	p.expect("{")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	st := &StructExpr{QSelf: q, Path: path}
	for !p.tok().IsPunct('}') {
		flo := p.lo()
		if p.at("..") {
			p.bump()
			p.bump()
			rest := &StructRest{}
			if !p.tok().IsPunct('}') {
				rest.Base = p.parseExpr()
			}
			rest.Spanned = p.spanFrom(flo)
			st.Rest = rest
			break
		}
		field := &FieldInit{Attrs: p.parseOuterAttrs()}
		if tok := p.tok(); tok.Kind == TokLiteral && tok.Lit == LitInt {
			p.bump()
			field.Name = Ident{Spanned: Spanned{Sp: tok.Sp}, Name: tok.Text}
		} else {
			field.Name = p.parseIdent()
		}
		if p.eat(":") {
			field.Value = p.parseExpr()
		} else {
			field.Shorthand = true
			field.Value = &PathExpr{
				Spanned: field.Name.Spanned,
				Path: &Path{Spanned: field.Name.Spanned, Segments: []*PathSegment{
					{Spanned: field.Name.Spanned, Name: field.Name},
				}},
			}
		}
		field.Spanned = p.spanFrom(flo)
		st.Fields = append(st.Fields, field)
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	st.Spanned = p.spanFrom(lo)
	return st
}

func (p *parser) parseParenOrTuple(lo int) Expr {
	p.expect("(")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var elems []Expr
	trailing := false
	for !p.tok().IsPunct(')') {
		elems = append(elems, p.parseExpr())
		trailing = false
		if !p.eat(",") {
			break
		}
		trailing = true
	}
	p.expect(")")
	if len(elems) == 1 && !trailing {
		return &ParenExpr{Spanned: p.spanFrom(lo), X: elems[0]}
	}
	return &TupleExpr{Spanned: p.spanFrom(lo), Elems: elems}
}

func (p *parser) parseArray(lo int) Expr {
	p.expect("[")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var elems []Expr
	for !p.tok().IsPunct(']') {
		elems = append(elems, p.parseExpr())
		if len(elems) == 1 && p.eat(";") {
			count := p.parseExpr()
			p.expect("]")
			return &RepeatExpr{Spanned: p.spanFrom(lo), Elem: elems[0], Count: count}
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect("]")
	return &ArrayExpr{Spanned: p.spanFrom(lo), Elems: elems}
}

func (p *parser) parseClosure(lo int) Expr {
	cl := &ClosureExpr{}
	cl.Async = p.eat("async")
	cl.Move = p.eat("move")
	paramsLo := p.lo()
	if p.at("||") {
		p.bump()
		p.bump()
	} else {
		p.expect("|")
		for !p.tok().IsPunct('|') {
			plo := p.lo()
			param := &ClosureParam{Attrs: p.parseOuterAttrs()}
			param.Pat = p.parsePatNoAlt()
			if p.eat(":") {
				param.Type = p.parseTypeNoBounds()
			}
			param.Spanned = p.spanFrom(plo)
			cl.Params = append(cl.Params, param)
			if !p.eat(",") {
				break
			}
		}
		p.expect("|")
	}
	cl.ParamsSp = Sp(paramsLo, p.prevHi())
	if p.eat("->") {
		cl.Ret = p.parseTypeNoBounds()
		if !p.tok().IsPunct('{') {
			p.unexpected("`{`")
		}
		cl.Body = p.parseBlockExpr(p.lo(), "", BlockDefault)
	} else {
		cl.Body = p.parseExpr()
	}
	cl.Spanned = p.spanFrom(lo)
	return cl
}

func (p *parser) parseLabelled(lo int, label string) Expr {
	tok := p.tok()
	switch {
	case tok.Is("loop"):
		p.bump()
		body := p.parseBlock()
		return &LoopExpr{Spanned: p.spanFrom(lo), Label: label, Body: body}
	case tok.Is("while"):
		p.bump()
		cond := p.withNoStruct(p.parseExpr)
		body := p.parseBlock()
		return &WhileExpr{Spanned: p.spanFrom(lo), Label: label, Cond: cond, Body: body}
	case tok.Is("for"):
		p.bump()
		pat := p.parsePat()
		p.expect("in")
		iter := p.withNoStruct(p.parseExpr)
		body := p.parseBlock()
		return &ForExpr{Spanned: p.spanFrom(lo), Label: label, Pat: pat, Iter: iter, Body: body}
	case tok.IsPunct('{'):
		return p.parseBlockExpr(lo, label, BlockDefault)
	}
	p.unexpected("loop or block after label")
	return nil
}

func (p *parser) parseIf(lo int) Expr {
	p.expect("if")
	cond := p.withNoStruct(p.parseExpr)
	then := p.parseBlock()
	ifExpr := &IfExpr{Cond: cond, Then: then}
	if p.eat("else") {
		elseLo := p.lo()
		if p.tok().Is("if") {
			ifExpr.Else = p.parseIf(elseLo)
		} else {
			ifExpr.Else = p.parseBlockExpr(elseLo, "", BlockDefault)
		}
	}
	ifExpr.Spanned = p.spanFrom(lo)
	return ifExpr
}

func (p *parser) parseMatch(lo int) Expr {
	p.expect("match")
	scrutinee := p.withNoStruct(p.parseExpr)
	m := &MatchExpr{X: scrutinee, BraceLo: p.lo()}
	p.expect("{")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	m.InnerAttrs = p.parseInnerAttrs()
	for !p.tok().IsPunct('}') {
		alo := p.lo()
		arm := &Arm{Attrs: p.parseOuterAttrs()}
		arm.Pat = p.parsePat()
		if p.eat("if") {
			arm.Guard = p.parseExpr()
		}
		p.expect("=>")
		arm.Body = p.parseStmtLikeExpr()
		arm.Comma = p.eat(",")
		arm.Spanned = p.spanFrom(alo)
		m.Arms = append(m.Arms, arm)
		if !arm.Comma && !IsBlockLike(arm.Body) && !p.tok().IsPunct('}') {
			p.unexpected("`,` or `}` after match arm")
		}
	}
	p.expect("}")
	m.Spanned = p.spanFrom(lo)
	return m
}

// parseStmtLikeExpr parses an expression in statement or arm-body position,
// where a leading block-like expression ends the expression unless it is
// followed by a method call or `?`.
func (p *parser) parseStmtLikeExpr() Expr {
	lo := p.lo()
	if !p.atBlockLikeStart() {
		return p.parseExpr()
	}
	x := p.parsePrimary()
	if !p.tok().IsPunct('.') && !p.tok().IsPunct('?') {
		return x
	}
	x = p.parsePostfix(lo, x)
	x = p.parseBinaryRHS(lo, precOr, x)
	return p.parseRangeTail(lo, x)
}

func (p *parser) atBlockLikeStart() bool {
	tok := p.tok()
	switch {
	case tok.IsPunct('{'), tok.Is("if"), tok.Is("match"), tok.Is("loop"), tok.Is("while"), tok.Is("for"):
		return true
	case tok.Is("unsafe") && p.peek(1).IsPunct('{'):
		return true
	case tok.Kind == TokLifetime && p.peek(1).IsPunct(':'):
		return true
	}
	return false
}

func (p *parser) parseBlockExpr(lo int, label string, rules BlockRules) Expr {
	block := p.parseBlock()
	return &BlockExpr{Spanned: p.spanFrom(lo), Label: label, Rules: rules, Block: block}
}

func (p *parser) parseBlock() *Block {
	lo := p.lo()
	p.expect("{")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	block := &Block{InnerAttrs: p.parseInnerAttrs()}
	for !p.tok().IsPunct('}') {
		if p.atEOF() {
			p.errorf(lo, "unclosed block")
		}
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	p.expect("}")
	block.Spanned = p.spanFrom(lo)
	return block
}

func (p *parser) parseStmt() Stmt {
	lo := p.lo()
	attrs := p.parseOuterAttrs()
	tok := p.tok()
	switch {
	case tok.IsPunct(';') && len(attrs) == 0:
		p.bump()
		return &EmptyStmt{Spanned: p.spanFrom(lo)}
	case tok.Is("let"):
		return p.parseLet(lo, attrs)
	case p.atItemStart():
		item := p.parseItem(attrs)
		return &ItemStmt{Spanned: p.spanFrom(lo), Item: item}
	}

	blockLike := p.atBlockLikeStart()
	x := p.parseStmtLikeExpr()
	if mac, ok := x.(*MacExpr); ok {
		semi := p.eat(";")
		return &MacStmt{Spanned: p.spanFrom(lo), Attrs: attrs, Mac: mac.Mac, Semi: semi}
	}
	stmt := &ExprStmt{Attrs: attrs, X: x}
	switch {
	case p.eat(";"):
		stmt.Semi = true
	case p.tok().IsPunct('}'):
	case blockLike && IsBlockLike(x):
	default:
		p.unexpected("`;` or `}`")
	}
	stmt.Spanned = p.spanFrom(lo)
	return stmt
}

func (p *parser) parseLet(lo int, attrs []*Attribute) Stmt {
	p.expect("let")
	let := &LetStmt{Attrs: attrs}
	let.Pat = p.parsePat()
	if p.eat(":") {
		let.Type = p.parseType()
	}
	if p.at("=") && !p.at("==") {
		p.bump()
		let.Init = p.parseExpr()
		if p.eat("else") {
			let.Else = p.parseBlock()
		}
	}
	p.expect(";")
	let.Spanned = p.spanFrom(lo)
	return let
}
