package syntax

// Node is implemented by every AST node.
type Node interface {
	Span() Span
}

// Spanned carries the source span of a node. Embedding it provides Span().
type Spanned struct {
	Sp Span
}

// Span returns the node's source span.
func (s Spanned) Span() Span {
	return s.Sp
}

// Expr is the sealed set of expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the sealed set of statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Item is the sealed set of item nodes.
type Item interface {
	Node
	itemNode()
	// Base returns the attributes, visibility and name shared by all items.
	Base() *ItemBase
}

// Pat is the sealed set of pattern nodes.
type Pat interface {
	Node
	patNode()
}

// Type is the sealed set of type nodes.
type Type interface {
	Node
	typeNode()
}

// Ident is a name with its span.
type Ident struct {
	Spanned
	Name string
}

// Crate is the root of a parsed file.
type Crate struct {
	Spanned
	InnerAttrs []*Attribute
	Items      []Item
}

// Attribute is `#[...]` or `#![...]`. Meta is nil when the attribute body is
// not a plain meta item and must be reproduced verbatim.
type Attribute struct {
	Spanned
	Inner bool
	Meta  *MetaItem
	// Body is the span of the text between the brackets.
	Body Span
}

// MetaKind classifies a meta item.
type MetaKind uint8

// Meta item kinds.
const (
	MetaWord MetaKind = iota
	MetaNameValue
	MetaList
)

// MetaItem is the structured body of an attribute: `path`, `path = lit` or
// `path(nested, ...)`.
type MetaItem struct {
	Spanned
	Kind  MetaKind
	Path  *Path
	Value *LitExpr
	// Nested entries of a list; each is either a MetaItem or a literal.
	Nested []*NestedMeta
	// ListSpan is the span of the parenthesised list including delimiters.
	ListSpan Span
}

// NestedMeta is one entry of a meta list.
type NestedMeta struct {
	Spanned
	Meta *MetaItem
	Lit  *LitExpr
}

// VisKind classifies a visibility qualifier.
type VisKind uint8

// Visibility kinds.
const (
	VisInherited VisKind = iota
	VisPublic
	VisCrate
	VisRestricted
)

// Visibility is `pub`, `pub(crate)`, `pub(super)` or `pub(in path)`.
type Visibility struct {
	Spanned
	Kind VisKind
	// Path holds the restriction path text for VisRestricted, e.g. "super"
	// or "in crate::a".
	Path string
}

// PathSegment is one `::` separated component of a path.
type PathSegment struct {
	Spanned
	Name Ident
	Args *GenericArgs
}

// Path is a possibly global sequence of segments.
type Path struct {
	Spanned
	Global   bool
	Segments []*PathSegment
}

// QSelf is the qualified self part of `<T as Trait>::Name`.
type QSelf struct {
	Spanned
	Type  Type
	Trait *Path
}

// GenericArgKind classifies a generic argument.
type GenericArgKind uint8

// Generic argument kinds.
const (
	ArgLifetime GenericArgKind = iota
	ArgType
	ArgConst
	ArgBinding
	ArgConstraint
)

// GenericArg is one argument inside `<...>`.
type GenericArg struct {
	Spanned
	Kind     GenericArgKind
	Lifetime string
	Type     Type
	Const    Expr
	// Name is the associated item for bindings (`Item = T`) and
	// constraints (`Item: Bound`).
	Name   Ident
	Bounds []*GenericBound
}

// GenericArgs is `<...>` (angle bracketed, possibly turbofish) or
// `(A, B) -> C` (parenthesised, for Fn traits).
type GenericArgs struct {
	Spanned
	Parenthesized bool
	Turbofish     bool
	Args          []*GenericArg
	Inputs        []Type
	Output        Type
}

// GenericBound is a trait bound (`?Sized`, `for<'a> Fn(&'a T)`, `Trait`) or
// a lifetime bound.
type GenericBound struct {
	Spanned
	Lifetime     string
	Maybe        bool
	ForLifetimes []string
	Trait        *Path
	// Paren is true for `(Trait)`.
	Paren bool
}

// GenericParamKind classifies a generic parameter.
type GenericParamKind uint8

// Generic parameter kinds.
const (
	ParamLifetime GenericParamKind = iota
	ParamType
	ParamConst
)

// GenericParam is one parameter inside a generics list.
type GenericParam struct {
	Spanned
	Attrs   []*Attribute
	Kind    GenericParamKind
	Name    Ident
	Bounds  []*GenericBound
	Default Type
	// ConstType and ConstDefault are used for const parameters.
	ConstType    Type
	ConstDefault Expr
}

// WherePredicate is one `T: Bound` or `'a: 'b` entry.
type WherePredicate struct {
	Spanned
	ForLifetimes []string
	Lifetime     string
	Type         Type
	Bounds       []*GenericBound
}

// WhereClause is `where P1, P2`.
type WhereClause struct {
	Spanned
	Predicates []*WherePredicate
}

// Generics holds the parameter list and the optional where clause.
type Generics struct {
	Spanned
	Params []*GenericParam
	Where  *WhereClause
}

// MacDelim is the delimiter of a macro invocation.
type MacDelim uint8

// Macro delimiters.
const (
	DelimParen MacDelim = iota
	DelimBracket
	DelimBrace
)

// Open returns the opening delimiter.
func (d MacDelim) Open() string {
	switch d {
	case DelimBracket:
		return "["
	case DelimBrace:
		return "{"
	default:
		return "("
	}
}

// Close returns the closing delimiter.
func (d MacDelim) Close() string {
	switch d {
	case DelimBracket:
		return "]"
	case DelimBrace:
		return "}"
	default:
		return ")"
	}
}

// MacCall is `path!(tokens)`. The token tree is kept as a span; the
// formatter re-parses it on demand.
type MacCall struct {
	Spanned
	Path  *Path
	Delim MacDelim
	// Inner is the span strictly between the delimiters.
	Inner Span
}
