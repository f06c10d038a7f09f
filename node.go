package cdecl

// NodeID indexes a Node within an Arena. NilNode (-1) is the "no node"
// sentinel everywhere a field is optional.
type NodeID int32

const NilNode NodeID = -1

// ArraySizeKind distinguishes the four declared-size forms an array
// dimension can take (§3.2).
type ArraySizeKind int

const (
	ArraySizeNone     ArraySizeKind = iota // unsized: `int a[]`
	ArraySizeInteger                       // a literal constant: `int a[10]`
	ArraySizeVariable                      // C99 `int a[*]`, parameter types only
	ArraySizeConstant                      // a named integer constant expression
)

// ArraySize is the declared size of one array layer.
type ArraySize struct {
	Kind  ArraySizeKind
	Value int64  // meaningful when Kind == ArraySizeInteger
	Expr  string // meaningful when Kind == ArraySizeConstant (unevaluated, per spec.md Non-goals)
}

// AlignKind distinguishes the two forms an `alignas` specifier can
// take (§3.2).
type AlignKind int

const (
	AlignNone AlignKind = iota
	AlignInteger
	AlignType
)

// Alignment is the optional `alignas`/`_Alignas` annotation on a node.
type Alignment struct {
	Kind  AlignKind
	Value int64   // meaningful when Kind == AlignInteger
	Type  NodeID  // meaningful when Kind == AlignType
}

// Node is the tagged-variant Declarator Tree node (§3.2). Go has no
// sum type, so kind-specific fields simply sit unused for the kinds
// that don't need them — callers gate on Kind, exactly as a visitor
// would gate on a variant tag.
type Node struct {
	Kind  NodeKind
	Span  Span
	Name  ScopedName
	Type  TypeValue
	Align *Alignment

	Parent NodeID // non-owning back-reference; NilNode at the tree root
	Target NodeID // inner-target back-reference used while splicing (§3.2)

	// leaf: builtin
	BitfieldWidth *int

	// leaf: ECSU
	Underlying NodeID // NilNode unless an enum carries `: underlying-type`

	// leaf: typedef-reference
	AliasName ScopedName

	// parent: pointer / reference / rvalue-reference / array /
	// function / apple-block / user-defined-conversion — the single
	// subtree the layer wraps. NilNode for kinds that don't use it
	// (constructor, destructor, operator's params-only shape, etc).
	Child NodeID

	// parent: pointer-to-member
	ClassName ScopedName

	// parent: array
	Size ArraySize

	// parent: function / constructor / operator / user-defined-literal
	Params []NodeID

	// parent: operator
	OperatorID string
	IsMember   bool
}

// HasName reports whether n carries a non-empty scoped name.
func (n *Node) HasName() bool { return !n.Name.IsEmpty() && n.Name.LocalName() != "" }
