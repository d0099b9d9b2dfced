package syntax

// PathType is a named type, optionally qualified: `Vec<T>`,
// `<T as Trait>::Output`.
type PathType struct {
	Spanned
	QSelf *QSelf
	Path  *Path
}

// RefType is `&'a mut T`.
type RefType struct {
	Spanned
	Lifetime string
	Mut      bool
	Elem     Type
}

// PtrType is `*const T` or `*mut T`.
type PtrType struct {
	Spanned
	Mut  bool
	Elem Type
}

// SliceType is `[T]`.
type SliceType struct {
	Spanned
	Elem Type
}

// ArrayType is `[T; N]`.
type ArrayType struct {
	Spanned
	Elem Type
	Len  Expr
}

// TupleType is `(A, B)`; the unit type has no elements.
type TupleType struct {
	Spanned
	Elems []Type
}

// ParenType is `(T)`.
type ParenType struct {
	Spanned
	Elem Type
}

// FnPtrType is `for<'a> unsafe extern "C" fn(A, B) -> R`.
type FnPtrType struct {
	Spanned
	ForLifetimes []string
	Unsafe       bool
	Extern       bool
	Abi          string
	Params       []*Param
	ParamsSp     Span
	Ret          Type
}

// ImplTraitType is `impl A + B`.
type ImplTraitType struct {
	Spanned
	Bounds []*GenericBound
}

// DynTraitType is `dyn A + 'a`.
type DynTraitType struct {
	Spanned
	Bounds []*GenericBound
}

// InferType is `_`.
type InferType struct {
	Spanned
}

// NeverType is `!`.
type NeverType struct {
	Spanned
}

// MacType is a macro invocation in type position.
type MacType struct {
	Spanned
	Mac *MacCall
}

func (*PathType) typeNode()      {}
func (*RefType) typeNode()       {}
func (*PtrType) typeNode()       {}
func (*SliceType) typeNode()     {}
func (*ArrayType) typeNode()     {}
func (*TupleType) typeNode()     {}
func (*ParenType) typeNode()     {}
func (*FnPtrType) typeNode()     {}
func (*ImplTraitType) typeNode() {}
func (*DynTraitType) typeNode()  {}
func (*InferType) typeNode()     {}
func (*NeverType) typeNode()     {}
func (*MacType) typeNode()       {}
