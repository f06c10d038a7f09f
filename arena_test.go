package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildArrayOfPointer builds the declarator shape for `*p[10]` — an
// array of pointers — by driving Arena exactly as the native parser
// would: the postfix array layer is extended first (becoming the
// chain head), then the prefix pointer layer is grafted afterward.
func buildArrayOfPointer(a *Arena) (head, ph NodeID) {
	ph = a.NewNode(KindPlaceholder, Span{})
	a.Node(ph).Name = NewScopedName("p")

	arr := a.NewNode(KindArray, Span{})
	a.Node(arr).Size = ArraySize{Kind: ArraySizeInteger, Value: 10}
	head = a.AddArray(ph, arr)

	ptr := a.NewNode(KindPointer, Span{})
	head = a.AddPointerLike(head, ptr)
	return head, ph
}

// buildPointerToArray builds the declarator shape for `(*p)[10]` — a
// pointer to an array — mirroring a nested native declarator: the
// inner `(*p)` core is built first (pointer grafted directly onto the
// placeholder), then the outer `[10]` is extended onto that core.
func buildPointerToArray(a *Arena) (head, ph NodeID) {
	ph = a.NewNode(KindPlaceholder, Span{})
	a.Node(ph).Name = NewScopedName("p")

	ptr := a.NewNode(KindPointer, Span{})
	core := a.AddPointerLike(ph, ptr)

	arr := a.NewNode(KindArray, Span{})
	a.Node(arr).Size = ArraySize{Kind: ArraySizeInteger, Value: 10}
	head = a.AddArray(core, arr)
	return head, ph
}

func TestArena_ArrayOfPointerSpliceOrder(t *testing.T) {
	a := NewArena()
	head, ph := buildArrayOfPointer(a)

	root := a.Node(head)
	require.Equal(t, KindArray, root.Kind)
	ptr := a.Node(root.Child)
	require.Equal(t, KindPointer, ptr.Kind)
	assert.Equal(t, ph, ptr.Child)
}

func TestArena_PointerToArraySpliceOrder(t *testing.T) {
	a := NewArena()
	head, ph := buildPointerToArray(a)

	root := a.Node(head)
	require.Equal(t, KindPointer, root.Kind)
	arr := a.Node(root.Child)
	require.Equal(t, KindArray, arr.Kind)
	assert.Equal(t, ph, arr.Child)
}

func TestArena_MultiDimensionalArrayOuterDimensionFirst(t *testing.T) {
	a := NewArena()
	ph := a.NewNode(KindPlaceholder, Span{})

	arr3 := a.NewNode(KindArray, Span{})
	a.Node(arr3).Size = ArraySize{Kind: ArraySizeInteger, Value: 3}
	head := a.AddArray(ph, arr3)

	arr4 := a.NewNode(KindArray, Span{})
	a.Node(arr4).Size = ArraySize{Kind: ArraySizeInteger, Value: 4}
	head = a.AddArray(head, arr4)

	root := a.Node(head)
	require.Equal(t, int64(3), root.Size.Value)
	inner := a.Node(root.Child)
	require.Equal(t, int64(4), inner.Size.Value)
	assert.Equal(t, ph, inner.Child)
}

func TestArena_PatchPlaceholderCarriesNameAndAlign(t *testing.T) {
	a := NewArena()
	chainHead, _ := buildArrayOfPointer(a)

	typeRoot := a.NewNode(KindBuiltin, Span{})
	a.Node(typeRoot).Type = TypeValue{}.set(BaseInt)

	patched := a.PatchPlaceholder(typeRoot, chainHead)
	assert.Equal(t, chainHead, patched)

	leaf, _ := a.findSplicePoint(patched)
	assert.Equal(t, typeRoot, leaf)
	assert.Equal(t, "p", a.Node(leaf).Name.LocalName())
}

func TestArena_TakeNameRelocatesToRoot(t *testing.T) {
	a := NewArena()
	chainHead, _ := buildArrayOfPointer(a)

	typeRoot := a.NewNode(KindBuiltin, Span{})
	a.Node(typeRoot).Type = TypeValue{}.set(BaseInt)
	patched := a.PatchPlaceholder(typeRoot, chainHead)

	a.TakeName(patched)

	assert.Equal(t, "p", a.Node(patched).Name.LocalName())
	leaf, _ := a.findSplicePoint(patched)
	assert.True(t, a.Node(leaf).Name.IsEmpty())
}

func TestArena_EquivStructural(t *testing.T) {
	a := NewArena()
	h1, _ := buildArrayOfPointer(a)
	h2, _ := buildArrayOfPointer(a)
	assert.True(t, a.Equiv(h1, h2))

	h3, _ := buildPointerToArray(a)
	assert.False(t, a.Equiv(h1, h3))
}

func TestArena_SetParentPanicsOnLeafParent(t *testing.T) {
	a := NewArena()
	leaf := a.NewNode(KindBuiltin, Span{})
	other := a.NewNode(KindBuiltin, Span{})
	assert.Panics(t, func() { a.SetParent(other, leaf) })
}
