package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_DeclareThenRenderBothForms(t *testing.T) {
	cfg := NewConfig()
	results, diags := Parse("declare p as pointer to integer;", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "int *p;", Render(res.Arena, res.Root, TargetNative, cfg))
	assert.Equal(t, "p as pointer to integer", Render(res.Arena, res.Root, TargetEnglish, cfg))
}

func TestAPI_ExplainNativeThenRenderEnglish(t *testing.T) {
	cfg := NewConfig()
	results, diags := Parse("explain int a[3][4];", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "int a[3][4];", Render(res.Arena, res.Root, TargetNative, cfg))
	assert.Equal(t, "a as array 3 of array 4 of integer", Render(res.Arena, res.Root, TargetEnglish, cfg))
}

func TestAPI_CastDynamicOnClassPointerSucceeds(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetDialect("c++20"))
	results, diags := Parse("cast dynamic to pointer to class Widget;", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)
	require.NotEqual(t, NilNode, results[0].Root)
}

func TestAPI_TypedefPersistsAcrossDumpAndLoad(t *testing.T) {
	cfg := NewConfig()
	reg := NewRegistry()
	_, diags := Parse("typedef int *intptr;", cfg, reg)
	require.Empty(t, diags)
	require.True(t, reg.Has("intptr"))

	dumped := reg.Dump()
	reg2 := NewRegistry()
	loadDiags := reg2.Load(dumped, cfg)
	assert.Empty(t, loadDiags)
	assert.True(t, reg2.Has("intptr"))
	assert.Equal(t, dumped, reg2.Dump())
}

func TestAPI_PointerToMemberNativeRoundTripsBothForms(t *testing.T) {
	cfg := NewConfig()
	results, diags := Parse("int Widget::*p;", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "int Widget::*p;", Render(res.Arena, res.Root, TargetNative, cfg))
	assert.Equal(t, "p as pointer to member of Widget integer", Render(res.Arena, res.Root, TargetEnglish, cfg))
}

func TestAPI_CheckRevalidatesAnAlreadyParsedTree(t *testing.T) {
	cfg := NewConfig()
	results, diags := Parse("int x;", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)

	res := results[0]
	fresh := Check(res.Arena, nil, cfg.Dialect(), res.Root)
	assert.Empty(t, firstErrors(fresh))
}

func TestAPI_DeclareMainWithWrongReturnTypeIsRejected(t *testing.T) {
	cfg := NewConfig()
	_, diags := Parse("int main(void);", cfg, NewRegistry())
	assert.Empty(t, diags)

	_, diags2 := Parse("void main(void);", cfg, NewRegistry())
	require.NotEmpty(t, diags2)
	found := false
	for _, d := range diags2 {
		if d.Code == "main-signature" {
			found = true
		}
	}
	assert.True(t, found)
}
