package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Dialect
		wantOk bool
	}{
		{"lowercase c17", "c17", DialectC17, true},
		{"alias c18", "c18", DialectC17, true},
		{"mixed case cpp20", "C++20", DialectCPP20, true},
		{"alias c++2a", "c++2a", DialectCPP20, true},
		{"knr", "knr", DialectKNRC, true},
		{"k&r spelling", "K&R", DialectKNRC, true},
		{"unknown", "cobol74", DialectKNRC, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDialect(tt.input)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDialectSet_HasAndFamily(t *testing.T) {
	assert.True(t, C_ANY.Has(DialectC99))
	assert.False(t, C_ANY.Has(DialectCPP11))
	assert.True(t, CPPAny.IsCPP())
	assert.False(t, CPPAny.IsC())
	assert.True(t, C_ANY.IsC())
	assert.False(t, C_ANY.IsCPP())
	assert.False(t, None.IsC())
	assert.False(t, None.IsCPP())
}

func TestMinCMaxC(t *testing.T) {
	set := MinC(DialectC11)
	assert.True(t, set.Has(DialectC11))
	assert.True(t, set.Has(DialectC17))
	assert.True(t, set.Has(DialectC23))
	assert.False(t, set.Has(DialectC99))
	assert.False(t, set.Has(DialectCPP11))

	upTo := MaxC(DialectC11)
	assert.True(t, upTo.Has(DialectKNRC))
	assert.True(t, upTo.Has(DialectC11))
	assert.False(t, upTo.Has(DialectC17))
}

func TestWhich(t *testing.T) {
	assert.Equal(t, "", Which(ANY, DialectC17))
	assert.Equal(t, "in C only", Which(C_ANY, DialectC17))
	assert.Equal(t, "in C++ only", Which(CPPAny, DialectCPP17))
	assert.Equal(t, "in C11 and later", Which(MinC(DialectC11), DialectC17))
	assert.Equal(t, "until C17", Which(MaxC(DialectC11), DialectC11))
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "C17", NameOf(DialectC17))
	assert.Equal(t, "C++20", NameOf(DialectCPP20))
	assert.Equal(t, "K&R C", NameOf(DialectKNRC))
}
