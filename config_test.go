package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, DialectC17, cfg.Dialect())
	assert.True(t, cfg.GetBool("render.trailing_semicolon"))
	assert.False(t, cfg.GetBool("render.east_const"))
	assert.Equal(t, "keyword", cfg.GetString("render.alignas_style"))
}

func TestConfig_SetDialectValidates(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.SetDialect("c++20"))
	assert.Equal(t, DialectCPP20, cfg.Dialect())

	assert.Error(t, cfg.SetDialect("not-a-dialect"))
	// The prior valid dialect is left in place after a rejected SetDialect.
	assert.Equal(t, DialectCPP20, cfg.Dialect())
}

func TestConfig_TypeMismatchPanics(t *testing.T) {
	cfg := NewConfig()
	assert.Panics(t, func() { cfg.GetInt("render.trailing_semicolon") })
	assert.Panics(t, func() { cfg.GetString("missing-key") })
}

func TestConfig_SetIntRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("custom.count", 42)
	assert.Equal(t, 42, cfg.GetInt("custom.count"))
}
