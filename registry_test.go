package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntLeaf(a *Arena) NodeID {
	id := a.NewNode(KindBuiltin, Span{})
	a.Node(id).Type = TypeValue{}.set(BaseInt)
	return id
}

func TestRegistry_DefineAndLookup(t *testing.T) {
	reg := NewRegistry()
	arena := NewArena()
	leaf := newIntLeaf(arena)

	name := NewScopedName("myint")
	d := reg.Define(name, arena, leaf, false, "typedef int myint;", Span{})
	require.Nil(t, d)

	e, ok := reg.Lookup(name)
	require.True(t, ok)
	assert.Equal(t, "typedef int myint;", e.Command)
	assert.True(t, reg.Has("myint"))
	assert.False(t, reg.Has("nope"))
}

func TestRegistry_DefineIdempotentOnEquivalentSubtree(t *testing.T) {
	reg := NewRegistry()
	arena := NewArena()
	name := NewScopedName("myint")

	require.Nil(t, reg.Define(name, arena, newIntLeaf(arena), false, "typedef int myint;", Span{}))
	// A second, structurally equivalent definition from a different arena
	// is a no-op rather than a redefinition error.
	arena2 := NewArena()
	d := reg.Define(name, arena2, newIntLeaf(arena2), false, "typedef int myint;", Span{})
	assert.Nil(t, d)
}

func TestRegistry_DefineConflictingSubtreeErrors(t *testing.T) {
	reg := NewRegistry()
	arena := NewArena()
	name := NewScopedName("mytype")
	require.Nil(t, reg.Define(name, arena, newIntLeaf(arena), false, "typedef int mytype;", Span{}))

	other := NewArena()
	charLeaf := other.NewNode(KindBuiltin, Span{})
	other.Node(charLeaf).Type = TypeValue{}.set(BaseChar)
	d := reg.Define(name, other, charLeaf, false, "typedef char mytype;", Span{})
	require.NotNil(t, d)
	assert.Equal(t, "redefinition", d.Code)
	assert.Equal(t, SeverityError, d.Severity)

	// The existing entry is left untouched.
	e, _ := reg.Lookup(name)
	assert.Equal(t, "typedef int mytype;", e.Command)
}

func TestRegistry_DumpPreservesDefinitionOrder(t *testing.T) {
	reg := NewRegistry()
	a := NewArena()
	require.Nil(t, reg.Define(NewScopedName("a_t"), a, newIntLeaf(a), false, "typedef int a_t;", Span{}))
	require.Nil(t, reg.Define(NewScopedName("b_t"), a, newIntLeaf(a), false, "typedef int b_t;", Span{}))
	require.Nil(t, reg.Define(NewScopedName("c_t"), a, newIntLeaf(a), false, "typedef int c_t;", Span{}))

	assert.Equal(t, []string{
		"typedef int a_t;",
		"typedef int b_t;",
		"typedef int c_t;",
	}, reg.Dump())
}

func TestRegistry_LoadRoundTripsThroughParse(t *testing.T) {
	reg := NewRegistry()
	cfg := NewConfig()
	commands := []string{"typedef int myint;"}

	diags := reg.Load(commands, cfg)
	assert.Empty(t, diags)
	assert.True(t, reg.Has("myint"))

	// Dumping what was just loaded reproduces the same command text.
	assert.Equal(t, commands, reg.Dump())
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	a := NewArena()
	require.Nil(t, reg.Define(NewScopedName("zeta"), a, newIntLeaf(a), false, "typedef int zeta;", Span{}))
	require.Nil(t, reg.Define(NewScopedName("alpha"), a, newIntLeaf(a), false, "typedef int alpha;", Span{}))

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
}
