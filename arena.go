package cdecl

// Arena is the bump-allocated, slice-backed store for one parse's
// worth of Declarator Tree nodes (§3.2, §9 Design Notes). Nodes
// reference each other by NodeID rather than by pointer so the
// backing slice can grow without invalidating existing references —
// the same trick the teacher's token tree (`tree.go`) uses for its
// parse forest.
type Arena struct {
	nodes []Node
	Root  NodeID
}

// NewArena returns an empty arena. One Arena is created per parse and
// discarded at the end of the command (§3.2 Ownership, §5).
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 32), Root: NilNode}
}

// Len reports how many nodes the arena currently holds — used by
// tests asserting the baseline-after-GC invariant (§8.3).
func (a *Arena) Len() int { return len(a.nodes) }

// NewNode allocates a zero-initialised node of the given kind at
// span, with both child-bearing fields set to NilNode (§4.4
// `new_node`).
func (a *Arena) NewNode(kind NodeKind, span Span) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, Node{
		Kind:       kind,
		Span:       span,
		Parent:     NilNode,
		Target:     NilNode,
		Child:      NilNode,
		Underlying: NilNode,
	})
	return id
}

// Node returns a pointer into the arena's backing slice. The pointer
// is only valid until the next NewNode call grows the slice; callers
// that need to hold a reference across allocations should re-fetch
// by NodeID.
func (a *Arena) Node(id NodeID) *Node {
	if id == NilNode {
		return nil
	}
	return &a.nodes[id]
}

// SetParent links child under parent, asserting parent is a kind that
// accepts children (§4.4 `set_parent`). The parent link is a
// non-owning back-reference (§3.2); ownership flows the other way,
// via whichever kind-specific field (Child/Params) actually holds the
// pointer.
func (a *Arena) SetParent(child, parent NodeID) {
	p := a.Node(parent)
	if p != nil && !p.Kind.AcceptsChildren() {
		panic("cdecl: " + p.Kind.String() + " cannot accept children")
	}
	if c := a.Node(child); c != nil {
		c.Parent = parent
	}
}

// extend is the shared primitive behind AddArray, AddFunction and the
// native parser's pointer/reference prefix grafting: it walks host
// down its owning chain to the first placeholder (or true leaf,
// which a well-formed in-progress declarator never has before the
// base type is patched in) and splices layer there, so layer becomes
// the new innermost wrapper around whatever was at that position.
// Because the splice point is always the single placeholder carrying
// the pending name, and never the chain head after the first splice,
// layers parsed later in a left-to-right native declarator end up
// *deeper* than layers parsed earlier — the inside-out propagation
// the native grammar needs (§4.6, §9).
//
// It returns the (possibly new) chain head.
func (a *Arena) extend(host, layer NodeID) NodeID {
	pos, prev := a.findSplicePoint(host)
	a.Node(layer).Child = pos
	a.SetParent(pos, layer)
	if prev == NilNode {
		a.SetParent(layer, a.Node(host).Parent)
		return layer
	}
	a.Node(prev).Child = layer
	a.SetParent(layer, prev)
	return host
}

// findSplicePoint walks host's owning chain (following Child) to the
// first placeholder or leaf, returning that node and its immediate
// parent within the chain (NilNode if host itself is the splice
// point).
func (a *Arena) findSplicePoint(host NodeID) (pos, prev NodeID) {
	pos = host
	prev = NilNode
	for {
		n := a.Node(pos)
		if n.Kind == KindPlaceholder || n.Kind.IsLeaf() || n.Child == NilNode {
			return pos, prev
		}
		prev = pos
		pos = n.Child
	}
}

// AddArray extends host with a new array layer around array-node
// `arr` (whose Size/Child should already be set by the caller except
// for Child, which extend fills in), per §4.4 `add_array`.
func (a *Arena) AddArray(host, arr NodeID) NodeID {
	return a.extend(host, arr)
}

// AddFunction extends host with a new function layer around
// function-node `fn`. The return type of a function/block layer is
// whatever extend splices beneath it (the existing chain), matching `add_function`'s contract of
// extending a declarator by a function-returning layer (§4.4).
func (a *Arena) AddFunction(host, fn NodeID) NodeID {
	return a.extend(host, fn)
}

// AddPointerLike extends host with a pointer/reference/rvalue-
// reference/pointer-to-member layer. The native parser uses this (via
// the same splice primitive as AddArray/AddFunction) to graft leading
// `*`/`&`/`&&` prefixes in reverse parse order, which is what makes
// the star closest to the name end up outermost among the prefix
// layers (§9).
func (a *Arena) AddPointerLike(host, ptr NodeID) NodeID {
	return a.extend(host, ptr)
}

// PatchPlaceholder substitutes typeRoot into declRoot's placeholder,
// if declRoot (or something in its chain) still has one, and returns
// the patched root. If declRoot carries no placeholder at the
// expected splice point, it is returned unchanged (§3.2 Placeholder
// semantics, §4.4 `patch_placeholder`). Placeholders never survive a
// successful parse (§3.2): after this call the returned tree has
// none left.
func (a *Arena) PatchPlaceholder(typeRoot, declRoot NodeID) NodeID {
	if declRoot == NilNode {
		return typeRoot
	}
	pos, prev := a.findSplicePoint(declRoot)
	if a.Node(pos).Kind != KindPlaceholder {
		return declRoot
	}
	// Carry the placeholder's pending name and alignment onto the
	// patched-in type root so `take_name` still finds exactly one
	// name afterwards.
	ph := a.Node(pos)
	name, align := ph.Name, ph.Align
	if tr := a.Node(typeRoot); tr.Name.IsEmpty() {
		tr.Name = name
	}
	if a.Node(typeRoot).Align == nil {
		a.Node(typeRoot).Align = align
	}
	if prev == NilNode {
		a.SetParent(typeRoot, a.Node(declRoot).Parent)
		return typeRoot
	}
	a.Node(prev).Child = typeRoot
	a.SetParent(typeRoot, prev)
	return declRoot
}

// Direction selects which way Visit walks the tree.
type Direction int

const (
	RootToLeaves Direction = iota
	LeavesToRoot
)

// VisitFn is called once per node during a Visit traversal.
type VisitFn func(id NodeID, n *Node)

// Visit performs a depth-first traversal of ast in the given
// direction. Function/constructor/operator/literal parameter lists
// are *not* entered — each parameter is an independent tree the
// Checker visits explicitly (§4.4 `visit`).
func (a *Arena) Visit(ast NodeID, dir Direction, fn VisitFn) {
	if ast == NilNode {
		return
	}
	n := a.Node(ast)
	if dir == RootToLeaves {
		fn(ast, n)
	}
	if n.Child != NilNode {
		a.Visit(n.Child, dir, fn)
	}
	if n.Underlying != NilNode {
		a.Visit(n.Underlying, dir, fn)
	}
	if dir == LeavesToRoot {
		fn(ast, n)
	}
}

// FindFirst returns the first node in ast (pre-order, root-to-leaves,
// parameter lists included) matching predicate, or NilNode (§4.4
// `find_first`).
func (a *Arena) FindFirst(ast NodeID, predicate func(NodeID, *Node) bool) NodeID {
	if ast == NilNode {
		return NilNode
	}
	n := a.Node(ast)
	if predicate(ast, n) {
		return ast
	}
	for _, p := range n.Params {
		if found := a.FindFirst(p, predicate); found != NilNode {
			return found
		}
	}
	if n.Child != NilNode {
		return a.FindFirst(n.Child, predicate)
	}
	if n.Underlying != NilNode {
		return a.FindFirst(n.Underlying, predicate)
	}
	return NilNode
}

// TakeName relocates the deepest name in ast to the tree's root and
// clears it from the source node, so the renderer can always read the
// name off the root regardless of which grammar built the tree (§4.4
// `take_name`).
func (a *Arena) TakeName(ast NodeID) {
	if ast == NilNode {
		return
	}
	deepest, _ := a.findSplicePoint(ast)
	if deepest == ast {
		return
	}
	src := a.Node(deepest)
	if src.Name.IsEmpty() {
		return
	}
	root := a.Node(ast)
	root.Name = src.Name
	src.Name = ScopedName{}
}

// Untypedef follows ast to its definition if it is a typedef-
// reference, otherwise returns it unchanged (§4.4 `untypedef`).
func (a *Arena) Untypedef(ast NodeID, reg *Registry) NodeID {
	n := a.Node(ast)
	if n == nil || n.Kind != KindTypedefRef {
		return ast
	}
	if def, ok := reg.Lookup(n.AliasName); ok {
		return def.Root
	}
	return ast
}

// Equiv reports whether a and b are structurally equal up to names
// and source locations (§4.4 `equiv`), used to decide whether a
// redefinition of an existing alias is idempotent (§3.4).
func (a *Arena) Equiv(x, y NodeID) bool {
	if x == NilNode || y == NilNode {
		return x == y
	}
	nx, ny := a.Node(x), a.Node(y)
	if nx.Kind != ny.Kind || nx.Type != ny.Type {
		return false
	}
	switch nx.Kind {
	case KindBuiltin:
		if (nx.BitfieldWidth == nil) != (ny.BitfieldWidth == nil) {
			return false
		}
		if nx.BitfieldWidth != nil && *nx.BitfieldWidth != *ny.BitfieldWidth {
			return false
		}
	case KindECSU:
		if nx.ClassName.FullName() != ny.ClassName.FullName() {
			return false
		}
		return a.Equiv(nx.Underlying, ny.Underlying)
	case KindPointerToMember:
		if nx.ClassName.FullName() != ny.ClassName.FullName() {
			return false
		}
	case KindArray:
		if nx.Size != ny.Size {
			return false
		}
	case KindOperator:
		if nx.OperatorID != ny.OperatorID || nx.IsMember != ny.IsMember {
			return false
		}
	}
	if len(nx.Params) != len(ny.Params) {
		return false
	}
	for i := range nx.Params {
		if !a.Equiv(nx.Params[i], ny.Params[i]) {
			return false
		}
	}
	return a.Equiv(nx.Child, ny.Child)
}
