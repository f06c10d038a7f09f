package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOneNative(t *testing.T, src string) CommandResult {
	t.Helper()
	results, _ := Parse(src, NewConfig(), NewRegistry())
	require.Len(t, results, 1)
	return results[0]
}

func TestParserNative_SimpleDeclarationRoundTrips(t *testing.T) {
	res := parseOneNative(t, "int x;")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "int x;", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_ArrayOfPointerRoundTrips(t *testing.T) {
	res := parseOneNative(t, "int *p[10];")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "int *p[10];", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_PointerToArrayRoundTrips(t *testing.T) {
	res := parseOneNative(t, "int (*p)[10];")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "int (*p)[10];", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_MultiDimensionalArrayRoundTrips(t *testing.T) {
	res := parseOneNative(t, "int a[3][4];")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "int a[3][4];", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_FunctionReturningPointerRoundTrips(t *testing.T) {
	res := parseOneNative(t, "int *f(int x);")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "int *f(int x);", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_VariadicFunctionRoundTrips(t *testing.T) {
	res := parseOneNative(t, "void f(int x, ...);")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "void f(int x, ...);", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_TypedefRegistersAlias(t *testing.T) {
	reg := NewRegistry()
	results, diags := Parse("typedef int myint;", NewConfig(), reg)
	require.Empty(t, diags)
	require.Len(t, results, 1)
	assert.True(t, reg.Has("myint"))
}

func TestParserNative_UsingAliasRegistersAlias(t *testing.T) {
	reg := NewRegistry()
	results, diags := Parse("using myint = int;", NewConfig(), reg)
	require.Empty(t, diags)
	require.Len(t, results, 1)
	assert.True(t, reg.Has("myint"))
}

func TestParserNative_TypedefRedefinitionWithDifferentTypeErrors(t *testing.T) {
	reg := NewRegistry()
	_, diags := Parse("typedef int myint; typedef char myint;", NewConfig(), reg)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == "redefinition" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParserNative_TypedefRedefinitionWithSameTypeIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	_, diags := Parse("typedef int myint; typedef int myint;", NewConfig(), reg)
	assert.Empty(t, diags)
}

func TestParserNative_UnknownIdentifierProducesDiagnostic(t *testing.T) {
	_, diags := Parse("frobnicate x;", NewConfig(), NewRegistry())
	require.NotEmpty(t, diags)
}

func TestParserNative_PointerToMemberRoundTrips(t *testing.T) {
	res := parseOneNative(t, "int Widget::*p;")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "int Widget::*p;", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_ConstPointerRoundTrips(t *testing.T) {
	res := parseOneNative(t, "int *const p;")
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "int *const p;", RenderNative(res.Arena, res.Root, NewConfig()))
}

func TestParserNative_OperatorEqualityRoundTrips(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetDialect("c++20"))
	results, diags := Parse("bool operator==(const class C &, const class C &) = default;", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)
	assert.Equal(t, "bool operator==(const class C &, const class C &) = default;",
		RenderNative(results[0].Arena, results[0].Root, cfg))
}

func TestParserNative_DestructorRoundTrips(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetDialect("c++20"))
	results, diags := Parse("~Widget();", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)
	assert.Equal(t, "~Widget();", RenderNative(results[0].Arena, results[0].Root, cfg))
}

func TestParserNative_OutOfLineConstructorRoundTrips(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetDialect("c++20"))
	results, diags := Parse("Widget::Widget(int x);", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)
	assert.Equal(t, "Widget(int x);", RenderNative(results[0].Arena, results[0].Root, cfg))
}

func TestParserNative_UserConversionRoundTrips(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetDialect("c++20"))
	results, diags := Parse("operator int();", cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)
	assert.Equal(t, "operator int();", RenderNative(results[0].Arena, results[0].Root, cfg))
}

func TestParserNative_UserLiteralRoundTrips(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetDialect("c++20"))
	results, diags := Parse(`operator""_kg(unsigned long long v);`, cfg, NewRegistry())
	require.Empty(t, diags)
	require.Len(t, results, 1)
	assert.Equal(t, `operator""_kg(unsigned long long v);`, RenderNative(results[0].Arena, results[0].Root, cfg))
}

func TestParserNative_TrailingTokenAfterDeclarationProducesGrammarError(t *testing.T) {
	_, diags := Parse("int x y;", NewConfig(), NewRegistry())
	require.NotEmpty(t, diags)
	assert.Equal(t, "grammar-error", diags[0].Code)
}

func TestParserNative_MalformedCommandDoesNotAbortFollowingCommands(t *testing.T) {
	results, diags := Parse("fooblype x; int y;", NewConfig(), NewRegistry())
	assert.NotEmpty(t, diags)
	var texts []string
	for _, r := range results {
		if r.Root != NilNode {
			texts = append(texts, RenderNative(r.Arena, r.Root, NewConfig()))
		}
	}
	assert.Contains(t, texts, "int y;")
}
