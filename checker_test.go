package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuiltin(a *Arena, bits ...Bit) NodeID {
	id := a.NewNode(KindBuiltin, Span{})
	tv := TypeValue{}
	for _, b := range bits {
		tv = tv.set(b)
	}
	a.Node(id).Type = tv
	return id
}

func checkRoot(a *Arena, reg *Registry, dialect Dialect, root NodeID) []Diagnostic {
	return NewChecker(a, reg, dialect).Check(root)
}

func firstError(diags []Diagnostic) *Diagnostic {
	for i := range diags {
		if diags[i].Severity == SeverityError {
			return &diags[i]
		}
	}
	return nil
}

func TestChecker_PlainVoidObjectRejected(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseVoid)
	diags := checkRoot(a, nil, DialectC17, root)
	require.Len(t, diags, 1)
	assert.Equal(t, "void-object", diags[0].Code)
}

func TestChecker_PointerToVoidAllowed(t *testing.T) {
	a := NewArena()
	void := newBuiltin(a, BaseVoid)
	ptr := a.NewNode(KindPointer, Span{})
	a.Node(ptr).Child = void
	a.SetParent(void, ptr)
	diags := checkRoot(a, nil, DialectC17, ptr)
	assert.Empty(t, firstErrors(diags))
}

func firstErrors(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

func TestChecker_ImplicitIntRejectedInC99(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a) // no base bits at all
	diags := checkRoot(a, nil, DialectC99, root)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "implicit-int", d.Code)
}

func TestChecker_ImplicitIntAllowedPreC99(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a)
	diags := checkRoot(a, nil, DialectC89, root)
	assert.Empty(t, firstErrors(diags))
}

func TestChecker_ArrayOfVoidRejected(t *testing.T) {
	a := NewArena()
	void := newBuiltin(a, BaseVoid)
	arr := a.NewNode(KindArray, Span{})
	a.Node(arr).Size = ArraySize{Kind: ArraySizeInteger, Value: 4}
	a.Node(arr).Child = void
	a.SetParent(void, arr)
	diags := checkRoot(a, nil, DialectC17, arr)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "array-of-void", d.Code)
}

func TestChecker_ArrayOfFunctionRejected(t *testing.T) {
	a := NewArena()
	fn := a.NewNode(KindFunction, Span{})
	a.Node(fn).Child = newBuiltin(a, BaseInt)
	a.SetParent(a.Node(fn).Child, fn)
	arr := a.NewNode(KindArray, Span{})
	a.Node(arr).Size = ArraySize{Kind: ArraySizeInteger, Value: 4}
	a.Node(arr).Child = fn
	a.SetParent(fn, arr)
	diags := checkRoot(a, nil, DialectC17, arr)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "array-of-function", d.Code)
}

func TestChecker_PointerToReferenceRejected(t *testing.T) {
	a := NewArena()
	ref := a.NewNode(KindReference, Span{})
	a.Node(ref).Child = newBuiltin(a, BaseInt)
	a.SetParent(a.Node(ref).Child, ref)
	ptr := a.NewNode(KindPointer, Span{})
	a.Node(ptr).Child = ref
	a.SetParent(ref, ptr)
	diags := checkRoot(a, nil, DialectCPP20, ptr)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "pointer-to-reference", d.Code)
}

func TestChecker_ReferenceCannotCarryConstDirectly(t *testing.T) {
	a := NewArena()
	ref := a.NewNode(KindReference, Span{})
	a.Node(ref).Type = TypeValue{}.set(StorageConst)
	a.Node(ref).Child = newBuiltin(a, BaseInt)
	a.SetParent(a.Node(ref).Child, ref)
	diags := checkRoot(a, nil, DialectCPP20, ref)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "reference-cv", d.Code)
}

func TestChecker_MainMustReturnInt(t *testing.T) {
	a := NewArena()
	fn := a.NewNode(KindFunction, Span{})
	a.Node(fn).Name = NewScopedName("main")
	a.Node(fn).Child = newBuiltin(a, BaseVoid)
	a.SetParent(a.Node(fn).Child, fn)
	diags := checkRoot(a, nil, DialectC17, fn)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "main-signature", d.Code)
}

func TestChecker_MainReturningIntIsFine(t *testing.T) {
	a := NewArena()
	fn := a.NewNode(KindFunction, Span{})
	a.Node(fn).Name = NewScopedName("main")
	a.Node(fn).Child = newBuiltin(a, BaseInt)
	a.SetParent(a.Node(fn).Child, fn)
	diags := checkRoot(a, nil, DialectC17, fn)
	assert.Empty(t, firstErrors(diags))
}

func TestChecker_VariadicMustBeLast(t *testing.T) {
	a := NewArena()
	fn := a.NewNode(KindFunction, Span{})
	variadic := a.NewNode(KindVariadic, Span{})
	intParam := newBuiltin(a, BaseInt)
	a.Node(fn).Params = []NodeID{variadic, intParam}
	a.Node(fn).Child = newBuiltin(a, BaseVoid)
	a.SetParent(a.Node(fn).Child, fn)
	diags := checkRoot(a, nil, DialectC17, fn)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "variadic-not-last", d.Code)
}

func TestChecker_DuplicateParameterNameRejected(t *testing.T) {
	a := NewArena()
	fn := a.NewNode(KindFunction, Span{})
	p1 := newBuiltin(a, BaseInt)
	a.Node(p1).Name = NewScopedName("x")
	p2 := newBuiltin(a, BaseInt)
	a.Node(p2).Name = NewScopedName("x")
	a.Node(fn).Params = []NodeID{p1, p2}
	a.Node(fn).Child = newBuiltin(a, BaseVoid)
	a.SetParent(a.Node(fn).Child, fn)
	diags := checkRoot(a, nil, DialectC17, fn)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "duplicate-parameter-name", d.Code)
}

func TestChecker_ReturnArrayRejected(t *testing.T) {
	a := NewArena()
	fn := a.NewNode(KindFunction, Span{})
	arr := a.NewNode(KindArray, Span{})
	a.Node(arr).Size = ArraySize{Kind: ArraySizeInteger, Value: 4}
	a.Node(arr).Child = newBuiltin(a, BaseInt)
	a.SetParent(a.Node(arr).Child, arr)
	a.Node(fn).Child = arr
	a.SetParent(arr, fn)
	diags := checkRoot(a, nil, DialectC17, fn)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "return-array", d.Code)
}

func TestChecker_AlignmentMustBePowerOfTwo(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseInt)
	a.Node(root).Align = &Alignment{Kind: AlignInteger, Value: 3}
	diags := checkRoot(a, nil, DialectC17, root)
	d := firstError(diags)
	require.NotNil(t, d)
	assert.Equal(t, "alignment", d.Code)
}

func TestChecker_AlignmentPowerOfTwoIsFine(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseInt)
	a.Node(root).Align = &Alignment{Kind: AlignInteger, Value: 16}
	diags := checkRoot(a, nil, DialectC17, root)
	assert.Empty(t, firstErrors(diags))
}

func TestChecker_WarnDeprecatedRegisterInCPP11(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseInt)
	a.Node(root).Type = a.Node(root).Type.set(StorageRegister)
	diags := checkRoot(a, nil, DialectCPP11, root)
	found := false
	for _, d := range diags {
		if d.Code == "deprecated-register" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestChecker_WarnReservedName(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseInt)
	a.Node(root).Name = NewScopedName("__reserved")
	diags := checkRoot(a, nil, DialectC17, root)
	found := false
	for _, d := range diags {
		if d.Code == "reserved-name" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckCast_ConstCastRequiresPointerLike(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseInt)
	d := CheckCast(CastConst, root, a, DialectCPP20)
	require.NotNil(t, d)
	assert.Equal(t, "const-cast-target", d.Code)
}

func TestCheckCast_ConstCastOnPointerIsFine(t *testing.T) {
	a := NewArena()
	ptr := a.NewNode(KindPointer, Span{})
	a.Node(ptr).Child = newBuiltin(a, BaseInt)
	d := CheckCast(CastConst, ptr, a, DialectCPP20)
	assert.Nil(t, d)
}

func TestCheckCast_DynamicCastRequiresClassPointer(t *testing.T) {
	a := NewArena()
	ptr := a.NewNode(KindPointer, Span{})
	a.Node(ptr).Child = newBuiltin(a, BaseInt)
	d := CheckCast(CastDynamic, ptr, a, DialectCPP20)
	require.NotNil(t, d)
	assert.Equal(t, "dynamic-cast-target", d.Code)
}

func TestCheckCast_DynamicCastOnClassPointerIsFine(t *testing.T) {
	a := NewArena()
	ecsu := a.NewNode(KindECSU, Span{})
	a.Node(ecsu).Type = TypeValue{}.set(BaseClass)
	a.Node(ecsu).ClassName = NewScopedName("Widget")
	ptr := a.NewNode(KindPointer, Span{})
	a.Node(ptr).Child = ecsu
	d := CheckCast(CastDynamic, ptr, a, DialectCPP20)
	assert.Nil(t, d)
}

func TestCheckCast_ReinterpretCastVoidRejected(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseVoid)
	d := CheckCast(CastReinterpret, root, a, DialectCPP20)
	require.NotNil(t, d)
	assert.Equal(t, "reinterpret-cast-void", d.Code)
}

func TestCheckCast_NoStorageClassAllowedOnTarget(t *testing.T) {
	a := NewArena()
	root := newBuiltin(a, BaseInt, StorageStatic)
	d := CheckCast(CastStatic, root, a, DialectCPP20)
	require.NotNil(t, d)
	assert.Equal(t, "cast-storage", d.Code)
}
