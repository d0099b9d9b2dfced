package syntax

// WildPat is `_`.
type WildPat struct {
	Spanned
}

// RestPat is `..` inside a tuple or slice pattern.
type RestPat struct {
	Spanned
}

// IdentPat is `ref mut name @ sub`.
type IdentPat struct {
	Spanned
	ByRef bool
	Mut   bool
	Name  Ident
	Sub   Pat
}

// LitPat is a literal pattern, possibly negated.
type LitPat struct {
	Spanned
	X Expr
}

// RangePat is `lo..=hi`, `lo..hi`, `lo..` or `..=hi`.
type RangePat struct {
	Spanned
	Lo     Expr
	Hi     Expr
	Limits string
}

// RefPat is `&pat` or `&mut pat`.
type RefPat struct {
	Spanned
	Mut bool
	Pat Pat
}

// TuplePat is `(a, b)`.
type TuplePat struct {
	Spanned
	Elems []Pat
}

// SlicePat is `[a, .., b]`.
type SlicePat struct {
	Spanned
	Elems []Pat
}

// PathPat is a unit struct, unit variant or constant path.
type PathPat struct {
	Spanned
	QSelf *QSelf
	Path  *Path
}

// TupleStructPat is `Path(a, b)`.
type TupleStructPat struct {
	Spanned
	Path  *Path
	Elems []Pat
}

// FieldPat is one field of a struct pattern.
type FieldPat struct {
	Spanned
	Attrs     []*Attribute
	Name      Ident
	Pat       Pat
	Shorthand bool
}

// StructPat is `Path { a, b: c, .. }`.
type StructPat struct {
	Spanned
	Path   *Path
	Fields []*FieldPat
	// Rest is non-nil when the pattern ends in `..`.
	Rest *RestPat
}

// OrPat is `a | b | c`.
type OrPat struct {
	Spanned
	Alts []Pat
}

// ParenPat is `(pat)`.
type ParenPat struct {
	Spanned
	Pat Pat
}

// BoxPat is `box pat`.
type BoxPat struct {
	Spanned
	Pat Pat
}

// MacPat is a macro invocation in pattern position.
type MacPat struct {
	Spanned
	Mac *MacCall
}

func (*WildPat) patNode()        {}
func (*RestPat) patNode()        {}
func (*IdentPat) patNode()       {}
func (*LitPat) patNode()         {}
func (*RangePat) patNode()       {}
func (*RefPat) patNode()         {}
func (*TuplePat) patNode()       {}
func (*SlicePat) patNode()       {}
func (*PathPat) patNode()        {}
func (*TupleStructPat) patNode() {}
func (*StructPat) patNode()      {}
func (*OrPat) patNode()          {}
func (*ParenPat) patNode()       {}
func (*BoxPat) patNode()         {}
func (*MacPat) patNode()         {}
