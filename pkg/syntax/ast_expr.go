package syntax

// LitExpr is a literal.
type LitExpr struct {
	Spanned
	Kind LitKind
	Text string
}

// PathExpr is a path in expression position, optionally qualified.
type PathExpr struct {
	Spanned
	QSelf *QSelf
	Path  *Path
}

// UnaryExpr is `-x`, `!x` or `*x`.
type UnaryExpr struct {
	Spanned
	Op string
	X  Expr
}

// RefExpr is `&x`, `&mut x`, `&raw const x` or `&raw mut x`.
type RefExpr struct {
	Spanned
	Mut bool
	Raw bool
	X   Expr
}

// BinaryExpr is `X op Y` for arithmetic, bitwise, comparison and lazy
// boolean operators.
type BinaryExpr struct {
	Spanned
	Op   string
	OpSp Span
	X    Expr
	Y    Expr
}

// AssignExpr is `X = Y` or a compound assignment such as `X += Y`.
type AssignExpr struct {
	Spanned
	Op string
	X  Expr
	Y  Expr
}

// CastExpr is `X as T`.
type CastExpr struct {
	Spanned
	X    Expr
	Type Type
}

// CallExpr is `Fun(args)`.
type CallExpr struct {
	Spanned
	Fun  Expr
	Args []Expr
	// ArgsSp spans the parenthesised argument list including delimiters.
	ArgsSp Span
}

// MethodCallExpr is `Receiver.method::<T>(args)`.
type MethodCallExpr struct {
	Spanned
	Receiver Expr
	Method   *PathSegment
	Args     []Expr
	ArgsSp   Span
}

// FieldExpr is `X.name` or `X.0`.
type FieldExpr struct {
	Spanned
	X    Expr
	Name Ident
}

// IndexExpr is `X[Index]`.
type IndexExpr struct {
	Spanned
	X     Expr
	Index Expr
}

// TryExpr is `X?`.
type TryExpr struct {
	Spanned
	X Expr
}

// AwaitExpr is `X.await`.
type AwaitExpr struct {
	Spanned
	X Expr
}

// ParenExpr is `(X)`.
type ParenExpr struct {
	Spanned
	X Expr
}

// TupleExpr is `(a, b)`; the unit value is a tuple with no elements.
type TupleExpr struct {
	Spanned
	Elems []Expr
}

// ArrayExpr is `[a, b, c]`.
type ArrayExpr struct {
	Spanned
	Elems []Expr
}

// RepeatExpr is `[elem; count]`.
type RepeatExpr struct {
	Spanned
	Elem  Expr
	Count Expr
}

// FieldInit is one `name: value` entry of a struct literal.
type FieldInit struct {
	Spanned
	Attrs     []*Attribute
	Name      Ident
	Value     Expr
	Shorthand bool
}

// StructRest is the `..base` or bare `..` tail of a struct literal.
type StructRest struct {
	Spanned
	Base Expr
}

// StructExpr is `Path { fields, ..base }`.
type StructExpr struct {
	Spanned
	QSelf  *QSelf
	Path   *Path
	Fields []*FieldInit
	Rest   *StructRest
}

// RangeExpr is `lo..hi`, `lo..=hi` or any open variant.
type RangeExpr struct {
	Spanned
	Lo     Expr
	Hi     Expr
	Limits string
}

// ClosureParam is one closure parameter.
type ClosureParam struct {
	Spanned
	Attrs []*Attribute
	Pat   Pat
	Type  Type
}

// ClosureExpr is `move |params| -> Ret body`.
type ClosureExpr struct {
	Spanned
	Move     bool
	Async    bool
	Params   []*ClosureParam
	ParamsSp Span
	Ret      Type
	Body     Expr
}

// BlockRules distinguishes plain blocks from `unsafe`, `async` and `const`
// blocks.
type BlockRules uint8

// Block flavours.
const (
	BlockDefault BlockRules = iota
	BlockUnsafe
	BlockAsync
	BlockAsyncMove
	BlockConst
)

// Block is `{ stmts }`. The span includes both braces.
type Block struct {
	Spanned
	InnerAttrs []*Attribute
	Stmts      []Stmt
}

// BlockExpr is a block used as an expression.
type BlockExpr struct {
	Spanned
	Label string
	Rules BlockRules
	Block *Block
}

// LetExpr is `let pat = init` in an `if` or `while` condition.
type LetExpr struct {
	Spanned
	Pat  Pat
	Init Expr
}

// IfExpr is `if cond { } else ...`. Else is nil, an *IfExpr or a *BlockExpr.
type IfExpr struct {
	Spanned
	Cond Expr
	Then *Block
	Else Expr
}

// WhileExpr is `'label: while cond { }`.
type WhileExpr struct {
	Spanned
	Label string
	Cond  Expr
	Body  *Block
}

// LoopExpr is `'label: loop { }`.
type LoopExpr struct {
	Spanned
	Label string
	Body  *Block
}

// ForExpr is `'label: for pat in iter { }`.
type ForExpr struct {
	Spanned
	Label string
	Pat   Pat
	Iter  Expr
	Body  *Block
}

// Arm is one match arm.
type Arm struct {
	Spanned
	Attrs []*Attribute
	Pat   Pat
	Guard Expr
	Body  Expr
	Comma bool
}

// MatchExpr is `match x { arms }`.
type MatchExpr struct {
	Spanned
	X          Expr
	InnerAttrs []*Attribute
	Arms       []*Arm
	// BraceLo is the offset of the opening brace.
	BraceLo int
}

// ReturnExpr is `return` with an optional value.
type ReturnExpr struct {
	Spanned
	X Expr
}

// BreakExpr is `break 'label value`.
type BreakExpr struct {
	Spanned
	Label string
	X     Expr
}

// ContinueExpr is `continue 'label`.
type ContinueExpr struct {
	Spanned
	Label string
}

// MacExpr is a macro invocation in expression position.
type MacExpr struct {
	Spanned
	Mac *MacCall
}

// UnderscoreExpr is `_` on the left of a destructuring assignment.
type UnderscoreExpr struct {
	Spanned
}

func (*LitExpr) exprNode()        {}
func (*PathExpr) exprNode()       {}
func (*UnaryExpr) exprNode()      {}
func (*RefExpr) exprNode()        {}
func (*BinaryExpr) exprNode()     {}
func (*AssignExpr) exprNode()     {}
func (*CastExpr) exprNode()       {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*FieldExpr) exprNode()      {}
func (*IndexExpr) exprNode()      {}
func (*TryExpr) exprNode()        {}
func (*AwaitExpr) exprNode()      {}
func (*ParenExpr) exprNode()      {}
func (*TupleExpr) exprNode()      {}
func (*ArrayExpr) exprNode()      {}
func (*RepeatExpr) exprNode()     {}
func (*StructExpr) exprNode()     {}
func (*RangeExpr) exprNode()      {}
func (*ClosureExpr) exprNode()    {}
func (*BlockExpr) exprNode()      {}
func (*LetExpr) exprNode()        {}
func (*IfExpr) exprNode()         {}
func (*WhileExpr) exprNode()      {}
func (*LoopExpr) exprNode()       {}
func (*ForExpr) exprNode()        {}
func (*MatchExpr) exprNode()      {}
func (*ReturnExpr) exprNode()     {}
func (*BreakExpr) exprNode()      {}
func (*ContinueExpr) exprNode()   {}
func (*MacExpr) exprNode()        {}
func (*UnderscoreExpr) exprNode() {}

// LetStmt is `let pat: T = init else { ... };`.
type LetStmt struct {
	Spanned
	Attrs []*Attribute
	Pat   Pat
	Type  Type
	Init  Expr
	Else  *Block
}

// ExprStmt is an expression statement; Semi records a trailing `;`.
type ExprStmt struct {
	Spanned
	Attrs []*Attribute
	X     Expr
	Semi  bool
}

// ItemStmt is an item declared inside a block.
type ItemStmt struct {
	Spanned
	Item Item
}

// MacStmt is a macro invocation in statement position.
type MacStmt struct {
	Spanned
	Attrs []*Attribute
	Mac   *MacCall
	Semi  bool
}

// EmptyStmt is a lone `;`.
type EmptyStmt struct {
	Spanned
}

func (*LetStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()  {}
func (*ItemStmt) stmtNode()  {}
func (*MacStmt) stmtNode()   {}
func (*EmptyStmt) stmtNode() {}

// IsBlockLike reports whether e ends in a block and may stand as a
// statement without a trailing semicolon.
func IsBlockLike(e Expr) bool {
	switch e.(type) {
	case *BlockExpr, *IfExpr, *WhileExpr, *LoopExpr, *ForExpr, *MatchExpr:
		return true
	case *MacExpr:
		return e.(*MacExpr).Mac.Delim == DelimBrace
	}
	return false
}
