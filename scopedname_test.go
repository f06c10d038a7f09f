package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedName_NamesAndAppend(t *testing.T) {
	s := NewScopedName("Widget")
	s = s.Prepend("app", ScopeNamespace)
	s = s.Append("draw", ScopeGeneric)

	assert.Equal(t, "draw", s.LocalName())
	assert.Equal(t, "app::Widget", s.ScopeName())
	assert.Equal(t, "app::Widget::draw", s.FullName())
	assert.False(t, s.IsEmpty())
	assert.True(t, ScopedName{}.IsEmpty())
}

func TestScopedName_IsConstructorLike(t *testing.T) {
	ctor := NewScopedName("Widget").Prepend("Widget", ScopeClass)
	assert.True(t, ctor.IsConstructorLike())

	member := NewScopedName("draw").Prepend("Widget", ScopeClass)
	assert.False(t, member.IsConstructorLike())

	assert.False(t, NewScopedName("solo").IsConstructorLike())
}

func TestScopedName_CheckNamespaceInsideClassRejected(t *testing.T) {
	s := ScopedName{}
	s = s.Append("Widget", ScopeClass)
	s = s.Append("detail", ScopeNamespace)

	diag := s.Check(Span{})
	require.NotNil(t, diag)
	assert.Equal(t, "scope-nesting", diag.Code)
}

func TestScopedName_CheckMemberMatchesClassNameRejected(t *testing.T) {
	// Three segments so the trailing nested name isn't mistaken for a
	// constructor, which only ever looks at the final two segments.
	s := ScopedName{}
	s = s.Append("Widget", ScopeClass)
	s = s.Append("Widget", ScopeClass)
	s = s.Append("inner", ScopeGeneric)

	diag := s.Check(Span{})
	require.NotNil(t, diag)
	assert.Equal(t, "member-matches-class-name", diag.Code)
}

func TestScopedName_CheckConstructorNameAllowed(t *testing.T) {
	s := ScopedName{}
	s = s.Append("Widget", ScopeClass)
	s = s.Append("Widget", ScopeClass) // constructor: same name as enclosing class

	diag := s.Check(Span{})
	assert.Nil(t, diag)
}

func TestScopedName_CheckNamespaceInsideNamespaceAllowed(t *testing.T) {
	s := ScopedName{}
	s = s.Append("app", ScopeNamespace)
	s = s.Append("detail", ScopeNamespace)

	diag := s.Check(Span{})
	assert.Nil(t, diag)
}

func TestScopedName_DupIsIndependent(t *testing.T) {
	s := NewScopedName("a").Append("b", ScopeGeneric)
	dup := s.Dup()
	dup = dup.SetScopeKind(0, ScopeNamespace)

	assert.Equal(t, ScopeNone, s.Segments[0].Kind)
	assert.Equal(t, ScopeNamespace, dup.Segments[0].Kind)
}

func TestScopedName_Compare(t *testing.T) {
	a := NewScopedName("alpha")
	b := NewScopedName("beta")
	assert.True(t, a.Compare(b) < 0)
	assert.Equal(t, 0, a.Compare(a))
}
