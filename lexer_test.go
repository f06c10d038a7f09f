package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string, mode Mode, cfg *Config, reg *Registry) []Token {
	t.Helper()
	l := NewLexer([]byte(src), DialectCPP20, reg)
	l.SetMode(mode)
	var toks []Token
	for {
		tok, err := l.Next(cfg)
		require.NoError(t, err)
		if tok.Kind == TokEOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexer_MultiCharPunctuators(t *testing.T) {
	toks := lexAll(t, "a::b->c && d...", ModeNative, nil, nil)
	var texts []string
	for _, tok := range toks {
		if tok.Kind == TokPunct {
			texts = append(texts, tok.Text)
		}
	}
	assert.Equal(t, []string{"::", "->", "&&", "..."}, texts)
}

func TestLexer_NumberLiteralWithSuffix(t *testing.T) {
	toks := lexAll(t, "0x10ul 42", ModeNative, nil, nil)
	require.Len(t, toks, 2)
	assert.Equal(t, TokIntLiteral, toks[0].Kind)
	assert.Equal(t, int64(16), toks[0].IntVal)
	assert.Equal(t, int64(42), toks[1].IntVal)
}

func TestLexer_StringAndCharLiterals(t *testing.T) {
	toks := lexAll(t, `"hi\"there" 'x'`, ModeNative, nil, nil)
	require.Len(t, toks, 2)
	assert.Equal(t, TokStringLiteral, toks[0].Kind)
	assert.Equal(t, `hi\"there`, toks[0].Text)
	assert.Equal(t, TokCharLiteral, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Text)
}

func TestLexer_CommentsAreSkipped(t *testing.T) {
	toks := lexAll(t, "int # this is a comment\nx;", ModeNative, nil, nil)
	require.Len(t, toks, 3)
	assert.Equal(t, "x", toks[1].Text)
	assert.True(t, toks[2].isPunct(";"))
}

func TestLexer_DigraphsToggle(t *testing.T) {
	on := NewConfig()
	toks := lexAll(t, "<: <%", ModeNative, on, nil)
	require.Len(t, toks, 2)
	assert.Equal(t, "[", toks[0].Text)
	assert.Equal(t, "{", toks[1].Text)

	off := NewConfig()
	off.SetBool("lexer.digraphs", false)
	l := NewLexer([]byte("<:"), DialectCPP20, nil)
	l.SetMode(ModeNative)
	tok, err := l.Next(off)
	require.NoError(t, err)
	assert.Equal(t, "<", tok.Text)
}

func TestLexer_EnglishStructuralKeyword(t *testing.T) {
	toks := lexAll(t, "declare x as pointer to int", ModeEnglish, nil, nil)
	require.True(t, len(toks) > 0)
	assert.Equal(t, TokKeyword, toks[0].Kind)
	assert.Equal(t, "declare", toks[0].Text)
}

func TestLexer_NativeBitKeyword(t *testing.T) {
	toks := lexAll(t, "unsigned long", ModeNative, nil, nil)
	require.Len(t, toks, 2)
	assert.Equal(t, TokBitKeyword, toks[0].Kind)
	assert.True(t, toks[0].HasBit)
	assert.Equal(t, BaseUnsigned, toks[0].Bit)
	assert.Equal(t, BaseLong, toks[1].Bit)
}

func TestLexer_TypeAliasResolution(t *testing.T) {
	reg := NewRegistry()
	arena := NewArena()
	leaf := arena.NewNode(KindBuiltin, Span{})
	arena.Node(leaf).Type = TypeValue{}.set(BaseInt)
	require.Nil(t, reg.Define(NewScopedName("myint"), arena, leaf, false, "typedef int myint;", Span{}))

	toks := lexAll(t, "myint x;", ModeNative, nil, reg)
	require.True(t, len(toks) > 0)
	assert.Equal(t, TokTypeAlias, toks[0].Kind)
	assert.Equal(t, "myint", toks[0].Text)
}

func TestLexer_PlainIdentifier(t *testing.T) {
	toks := lexAll(t, "frobnicate", ModeNative, nil, nil)
	require.Len(t, toks, 1)
	assert.Equal(t, TokIdent, toks[0].Kind)
}
