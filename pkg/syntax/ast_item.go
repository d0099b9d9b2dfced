package syntax

// ItemBase holds what every item carries: outer attributes, visibility and
// name. Name is empty for impls and item macros.
type ItemBase struct {
	Spanned
	Attrs []*Attribute
	Vis   *Visibility
	Name  Ident
}

// Base returns the shared item header.
func (b *ItemBase) Base() *ItemBase {
	return b
}

// UseTreeKind classifies a use tree.
type UseTreeKind uint8

// Use tree kinds.
const (
	UseSimple UseTreeKind = iota
	UseGlob
	UseNested
)

// UseTree is the path part of a `use` item: `a::b as c`, `a::*` or
// `a::{b, c}`.
type UseTree struct {
	Spanned
	Global   bool
	Prefix   []Ident
	Kind     UseTreeKind
	Rename   *Ident
	Children []*UseTree
}

// UseItem is `use tree;`.
type UseItem struct {
	ItemBase
	Tree *UseTree
}

// ExternCrateItem is `extern crate name as rename;`.
type ExternCrateItem struct {
	ItemBase
	Rename *Ident
}

// ModItem is `mod name;` or `mod name { items }`.
type ModItem struct {
	ItemBase
	Unsafe     bool
	Inline     bool
	InnerAttrs []*Attribute
	Items      []Item
	// Body spans the braces of an inline module.
	Body Span
}

// SelfParam describes the receiver of a method.
type SelfParam struct {
	Ref      bool
	Lifetime string
	Mut      bool
	Type     Type
}

// Param is one function parameter.
type Param struct {
	Spanned
	Attrs []*Attribute
	Self  *SelfParam
	Pat   Pat
	Type  Type
	// Variadic marks C-style `...`.
	Variadic bool
}

// FnSig is the signature of a function.
type FnSig struct {
	Const    bool
	Async    bool
	Unsafe   bool
	Extern   bool
	Abi      string
	Generics *Generics
	Params   []*Param
	ParamsSp Span
	Ret      Type
}

// FnItem is a function, method or associated function.
type FnItem struct {
	ItemBase
	Default bool
	Sig     *FnSig
	Body    *Block
}

// FieldDef is a named or positional field of a struct, union or variant.
type FieldDef struct {
	Spanned
	Attrs []*Attribute
	Vis   *Visibility
	Name  *Ident
	Type  Type
}

// VariantKind classifies struct-like bodies.
type VariantKind uint8

// Struct body kinds.
const (
	VariantUnit VariantKind = iota
	VariantTuple
	VariantStruct
)

// StructItem is a struct or union.
type StructItem struct {
	ItemBase
	Union    bool
	Generics *Generics
	Kind     VariantKind
	Fields   []*FieldDef
	// Body spans the field list including its delimiters.
	Body Span
}

// Variant is one enum variant.
type Variant struct {
	Spanned
	Attrs        []*Attribute
	Vis          *Visibility
	Name         Ident
	Kind         VariantKind
	Fields       []*FieldDef
	Body         Span
	Discriminant Expr
}

// EnumItem is `enum Name<T> { variants }`.
type EnumItem struct {
	ItemBase
	Generics *Generics
	Variants []*Variant
	Body     Span
}

// TraitItem is `trait Name: Bounds { items }`.
type TraitItem struct {
	ItemBase
	Unsafe     bool
	Auto       bool
	Generics   *Generics
	Bounds     []*GenericBound
	InnerAttrs []*Attribute
	Items      []Item
	Body       Span
}

// ImplItem is `impl<T> Trait for Type { items }`.
type ImplItem struct {
	ItemBase
	Default    bool
	Unsafe     bool
	Generics   *Generics
	Negative   bool
	Trait      *Path
	SelfType   Type
	InnerAttrs []*Attribute
	Items      []Item
	Body       Span
}

// ConstItem is `const NAME: T = value;`. Value is nil in trait
// declarations.
type ConstItem struct {
	ItemBase
	Default bool
	Type    Type
	Value   Expr
}

// StaticItem is `static mut NAME: T = value;`.
type StaticItem struct {
	ItemBase
	Mut   bool
	Type  Type
	Value Expr
}

// TypeAliasItem is `type Name<T>: Bounds = T;`.
type TypeAliasItem struct {
	ItemBase
	Default  bool
	Generics *Generics
	Bounds   []*GenericBound
	Type     Type
}

// MacroRulesItem is `macro_rules! name { ... }`; the body is kept verbatim.
type MacroRulesItem struct {
	ItemBase
	Delim MacDelim
	Inner Span
	Semi  bool
}

// MacItem is a macro invocation in item position.
type MacItem struct {
	ItemBase
	Mac  *MacCall
	Semi bool
}

// ExternBlockItem is `extern "C" { items }`.
type ExternBlockItem struct {
	ItemBase
	Unsafe     bool
	Abi        string
	InnerAttrs []*Attribute
	Items      []Item
	Body       Span
}

func (*UseItem) itemNode()         {}
func (*ExternCrateItem) itemNode() {}
func (*ModItem) itemNode()         {}
func (*FnItem) itemNode()          {}
func (*StructItem) itemNode()      {}
func (*EnumItem) itemNode()        {}
func (*TraitItem) itemNode()       {}
func (*ImplItem) itemNode()        {}
func (*ConstItem) itemNode()       {}
func (*StaticItem) itemNode()      {}
func (*TypeAliasItem) itemNode()   {}
func (*MacroRulesItem) itemNode()  {}
func (*MacItem) itemNode()         {}
func (*ExternBlockItem) itemNode() {}
