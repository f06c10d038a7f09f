package cdecl

import "fmt"

// Config is the process-scoped settings object read by the Lexer,
// Parser, Checker and Renderer (§6 configuration surface). It is a
// typed map rather than a struct so that new toggles can be added
// without touching every constructor that builds one.
type Config map[string]*cfgVal

// NewConfig creates a configuration primed with the default dialect
// and rendering toggles.
func NewConfig() *Config {
	m := make(Config)
	m.SetString("dialect", "c17")
	m.SetBool("render.trailing_semicolon", true)
	m.SetBool("render.east_const", false)
	m.SetString("render.alignas_style", "keyword")
	m.SetBool("lexer.digraphs", true)
	m.SetBool("lexer.trigraphs", false)
	return &m
}

// Dialect resolves the configured dialect selector. It panics if the
// string was never validated by SetDialect — an internal-invariant
// failure, not a user error (§7).
func (c *Config) Dialect() Dialect {
	d, ok := ParseDialect(c.GetString("dialect"))
	if !ok {
		panic(fmt.Sprintf("cdecl: invalid dialect selector %q", c.GetString("dialect")))
	}
	return d
}

// SetDialect validates name against the Dialect Registry before
// storing it, so Dialect() above never panics in practice unless a
// caller bypasses this setter.
func (c *Config) SetDialect(name string) error {
	if _, ok := ParseDialect(name); !ok {
		return fmt.Errorf("cdecl: unknown dialect %q", name)
	}
	c.SetString("dialect", name)
	return nil
}

type cfgValType int

const (
	cfgValTypeUndefined cfgValType = iota
	cfgValTypeBool
	cfgValTypeInt
	cfgValTypeString
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValTypeUndefined: "undefined",
		cfgValTypeBool:      "bool",
		cfgValTypeInt:       "int",
		cfgValTypeString:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType panics if v already holds a value of a different type.
// The Set* setters below store a fresh cfgVal before calling it, so
// setting an existing key again with another type replaces the value
// rather than panicking.
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValTypeUndefined {
		panic(fmt.Sprintf("cdecl: can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("cdecl: can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeBool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeInt)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeString)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeBool)
		return val.asBool
	}
	panic(fmt.Sprintf("cdecl: bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeInt)
		return val.asInt
	}
	panic(fmt.Sprintf("cdecl: int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeString)
		return val.asString
	}
	panic(fmt.Sprintf("cdecl: string setting `%s` does not exist", path))
}
