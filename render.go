package cdecl

import (
	"strconv"
	"strings"
)

// RenderEnglish walks ast pre-order and emits the pseudo-English form:
// own-kind word first, then a descent into whatever the layer wraps
// (§4.8). Types are spelled out in their English vocabulary.
func RenderEnglish(arena *Arena, root NodeID, cfg *Config) string {
	n := arena.Node(root)
	if n == nil {
		return ""
	}
	var b strings.Builder
	if name := n.Name.LocalName(); name != "" {
		b.WriteString(n.Name.FullName())
		b.WriteString(" as ")
	}
	b.WriteString(renderEnglishNode(arena, root, cfg))
	return b.String()
}

func renderEnglishNode(arena *Arena, id NodeID, cfg *Config) string {
	n := arena.Node(id)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindPointer:
		return qualPrefix(n.Type, cfg) + "pointer to " + renderEnglishNode(arena, n.Child, cfg)
	case KindReference:
		return qualPrefix(n.Type, cfg) + "reference to " + renderEnglishNode(arena, n.Child, cfg)
	case KindRvalueReference:
		return qualPrefix(n.Type, cfg) + "rvalue reference to " + renderEnglishNode(arena, n.Child, cfg)
	case KindPointerToMember:
		return qualPrefix(n.Type, cfg) + "pointer to member of " + n.ClassName.FullName() + " " + renderEnglishNode(arena, n.Child, cfg)
	case KindArray:
		return "array " + englishArraySize(n.Size) + "of " + renderEnglishNode(arena, n.Child, cfg)
	case KindAppleBlock:
		return qualPrefix(n.Type, cfg) + "block " + englishFuncQualifiers(n.Type) + "returning " + renderEnglishNode(arena, n.Child, cfg)
	case KindFunction:
		return englishFuncPrefix(n) + "function " + englishParamList(arena, n.Params, cfg) + " " + englishFuncQualifiers(n.Type) + "returning " + renderEnglishNode(arena, n.Child, cfg)
	case KindOperator:
		return englishFuncPrefix(n) + "operator " + n.OperatorID + " " + englishParamList(arena, n.Params, cfg) + " " + englishFuncQualifiers(n.Type) + "returning " + renderEnglishNode(arena, n.Child, cfg)
	case KindConstructor:
		return englishFuncQualifiers(n.Type) + "constructor " + englishParamList(arena, n.Params, cfg)
	case KindDestructor:
		return englishFuncQualifiers(n.Type) + "destructor"
	case KindUserConversion:
		return englishFuncQualifiers(n.Type) + "user-defined conversion to " + renderEnglishNode(arena, n.Child, cfg)
	case KindUserLiteral:
		return "user-defined literal " + englishParamList(arena, n.Params, cfg)
	case KindVariadic:
		return "..."
	case KindNameOnly:
		return "integer (K&R, untyped)"
	case KindECSU:
		return n.Type.Name(FormEnglish, cfg) + ecsuNameSuffix(n)
	case KindTypedefRef:
		return n.AliasName.FullName()
	case KindBuiltin:
		return n.Type.Name(FormEnglish, cfg)
	default:
		return ""
	}
}

func qualPrefix(tv TypeValue, cfg *Config) string {
	words := qualifierWords(tv, FormEnglish)
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ") + " "
}

func qualifierWords(tv TypeValue, form RenderForm) []string {
	var out []string
	for _, b := range []Bit{StorageConst, StorageVolatile, StorageRestrict, StorageAtomic} {
		if tv.Has(b) {
			info, _ := infoOf(b)
			if form == FormEnglish {
				out = append(out, info.english)
			} else {
				out = append(out, info.native)
			}
		}
	}
	return out
}

func englishArraySize(s ArraySize) string {
	switch s.Kind {
	case ArraySizeInteger:
		return strconv.FormatInt(s.Value, 10) + " "
	case ArraySizeVariable:
		return "variable length "
	case ArraySizeConstant:
		return s.Expr + " "
	default:
		return ""
	}
}

func englishFuncPrefix(n *Node) string {
	if n.IsMember {
		return "member "
	}
	return "non-member "
}

func englishFuncQualifiers(tv TypeValue) string {
	var words []string
	for _, b := range []Bit{StorageVirtual, StoragePureVirtual, StorageStatic, StorageExplicit, StorageConst, StorageNoexcept} {
		if tv.Has(b) {
			info, _ := infoOf(b)
			words = append(words, info.english)
		}
	}
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ") + " "
}

func englishParamList(arena *Arena, params []NodeID, cfg *Config) string {
	if len(params) == 0 {
		return "(taking no parameters)"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = RenderEnglish(arena, p, cfg)
	}
	return "(taking " + strings.Join(parts, ", ") + ")"
}

func ecsuNameSuffix(n *Node) string {
	if n.ClassName.IsEmpty() {
		return ""
	}
	return " " + n.ClassName.FullName()
}

// RenderNative walks ast inside-out: the base type prints first, then
// the declarator wraps around the name, accumulating a prefix for
// pointers/references and a suffix for arrays/function signatures,
// parenthesising a prefix layer whenever its immediate child is a
// postfix (array/function) layer so precedence survives the round
// trip (§4.8).
func RenderNative(arena *Arena, root NodeID, cfg *Config) string {
	n := arena.Node(root)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindConstructor:
		return n.Name.LocalName() + nativeParamList(arena, n.Params, cfg) + nativeFuncTrailer(n.Type) + trailingSemi(cfg)
	case KindDestructor:
		return "~" + n.Name.LocalName() + "()" + trailingSemi(cfg)
	case KindUserLiteral:
		return "operator\"\"" + n.Name.LocalName() + nativeParamList(arena, n.Params, cfg) + trailingSemi(cfg)
	case KindUserConversion:
		target := strings.TrimSuffix(RenderNative(arena, n.Child, stripSemiConfig(cfg)), ";")
		return "operator " + target + "()" + nativeFuncTrailer(n.Type) + trailingSemi(cfg)
	}

	base, name := nativeBaseAndName(arena, root, cfg)
	decl := nativeDeclaratorText(arena, root, name, cfg)
	out := nativeFuncPrefix(arena, root) + base + " " + decl
	return strings.TrimSpace(out) + trailingSemi(cfg)
}

func trailingSemi(cfg *Config) string {
	if cfg != nil && cfg.GetBool("render.trailing_semicolon") {
		return ";"
	}
	return ""
}

// nativeBaseAndName walks ast down its Child chain to the base-type
// leaf, returning the base type's own text (with storage-class words)
// and the name to graft into the declarator.
func nativeBaseAndName(arena *Arena, root NodeID, cfg *Config) (base string, name string) {
	n := arena.Node(root)
	name = n.Name.LocalName()
	id := root
	for {
		cur := arena.Node(id)
		if cur.Kind == KindOperator && arena.Node(cur.Child) != nil {
			name = "operator" + cur.OperatorID
		}
		if cur.Kind.IsLeaf() || cur.Child == NilNode {
			return leafTypeText(arena, id, cfg), name
		}
		id = cur.Child
	}
}

func leafTypeText(arena *Arena, id NodeID, cfg *Config) string {
	n := arena.Node(id)
	switch n.Kind {
	case KindECSU:
		word := n.Type.Name(FormNative, cfg)
		if !n.ClassName.IsEmpty() {
			word += " " + n.ClassName.FullName()
		}
		if n.Underlying != NilNode {
			word += " : " + leafTypeText(arena, n.Underlying, cfg)
		}
		return word
	case KindTypedefRef:
		return n.AliasName.FullName()
	case KindNameOnly:
		return "int"
	default:
		return n.Type.Name(FormNative, cfg)
	}
}

// isPostfixKind reports whether k is a postfix (array/function)
// declarator layer, the ones that bind tighter than a prefix `*`/`&`.
func isPostfixKind(k NodeKind) bool {
	return k == KindArray || k == KindFunction
}

func nativeDeclaratorText(arena *Arena, id NodeID, core string, cfg *Config) string {
	n := arena.Node(id)
	if n.Kind.IsLeaf() || n.Child == NilNode && !isWrapKind(n.Kind) {
		return core
	}
	switch n.Kind {
	case KindPointer:
		sym := "*" + qualSuffixAfterStar(n.Type)
		newCore := sym + core
		if isPostfixKind(arena.Node(n.Child).Kind) {
			newCore = "(" + sym + core + ")"
		}
		return nativeDeclaratorText(arena, n.Child, newCore, cfg)
	case KindReference:
		newCore := "&" + core
		if isPostfixKind(arena.Node(n.Child).Kind) {
			newCore = "(&" + core + ")"
		}
		return nativeDeclaratorText(arena, n.Child, newCore, cfg)
	case KindRvalueReference:
		newCore := "&&" + core
		if isPostfixKind(arena.Node(n.Child).Kind) {
			newCore = "(&&" + core + ")"
		}
		return nativeDeclaratorText(arena, n.Child, newCore, cfg)
	case KindPointerToMember:
		sym := n.ClassName.FullName() + "::*" + qualSuffixAfterStar(n.Type)
		newCore := sym + core
		if isPostfixKind(arena.Node(n.Child).Kind) {
			newCore = "(" + sym + core + ")"
		}
		return nativeDeclaratorText(arena, n.Child, newCore, cfg)
	case KindArray:
		newCore := core + "[" + nativeArraySize(n.Size) + "]"
		return nativeDeclaratorText(arena, n.Child, newCore, cfg)
	case KindFunction:
		newCore := core + nativeParamList(arena, n.Params, cfg) + nativeFuncTrailer(n.Type)
		return nativeDeclaratorText(arena, n.Child, newCore, cfg)
	case KindOperator:
		newCore := core + nativeParamList(arena, n.Params, cfg) + nativeFuncTrailer(n.Type)
		return nativeDeclaratorText(arena, n.Child, newCore, cfg)
	case KindAppleBlock:
		sym := "(^" + core + ")"
		return nativeDeclaratorText(arena, n.Child, sym, cfg)
	default:
		return core
	}
}

func isWrapKind(k NodeKind) bool {
	switch k {
	case KindPointer, KindReference, KindRvalueReference, KindPointerToMember, KindArray, KindFunction, KindAppleBlock:
		return true
	default:
		return false
	}
}

func qualSuffixAfterStar(tv TypeValue) string {
	words := qualifierWords(tv, FormNative)
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ") + " "
}

func nativeArraySize(s ArraySize) string {
	switch s.Kind {
	case ArraySizeInteger:
		return strconv.FormatInt(s.Value, 10)
	case ArraySizeVariable:
		return "*"
	case ArraySizeConstant:
		return s.Expr
	default:
		return ""
	}
}

func nativeParamList(arena *Arena, params []NodeID, cfg *Config) string {
	if len(params) == 0 {
		return "()"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		n := arena.Node(p)
		if n.Kind == KindVariadic {
			parts[i] = "..."
			continue
		}
		parts[i] = strings.TrimSuffix(RenderNative(arena, p, stripSemiConfig(cfg)), ";")
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// stripSemiConfig returns a shallow copy of cfg with trailing
// semicolons disabled, for rendering nested declarators (parameters,
// alignas type arguments) that must never carry their own `;`.
func stripSemiConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	c := make(Config, len(*cfg))
	for k, v := range *cfg {
		vv := *v
		c[k] = &vv
	}
	c.SetBool("render.trailing_semicolon", false)
	return &c
}

// nativeFuncPrefix collects the storage-class words that precede a
// function/operator's return type (`friend`, `virtual`, `static`, ...)
// by walking down to the Function/Operator layer the way
// nativeBaseAndName walks down to the base-type leaf.
func nativeFuncPrefix(arena *Arena, root NodeID) string {
	var words []string
	id := root
	for {
		cur := arena.Node(id)
		if cur == nil {
			break
		}
		if cur.Kind == KindFunction || cur.Kind == KindOperator {
			words = append(words, funcPrefixWords(cur.Type)...)
		}
		if cur.Kind.IsLeaf() || cur.Child == NilNode {
			break
		}
		id = cur.Child
	}
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ") + " "
}

func funcPrefixWords(tv TypeValue) []string {
	var words []string
	for _, b := range []Bit{StorageFriend, StorageVirtual, StorageStatic, StorageExtern,
		StorageInline, StorageExplicit, StorageConstexpr, StorageConsteval, StorageConstinit,
		StorageExport, StorageMutable} {
		if tv.Has(b) {
			info, _ := infoOf(b)
			words = append(words, info.native)
		}
	}
	return words
}

func nativeFuncTrailer(tv TypeValue) string {
	var words []string
	for _, b := range []Bit{StorageConst, StorageVolatile} {
		if tv.Has(b) {
			info, _ := infoOf(b)
			words = append(words, info.native)
		}
	}
	if tv.Has(StorageNoexcept) {
		words = append(words, "noexcept")
	}
	if tv.Has(StorageOverride) {
		words = append(words, "override")
	}
	if tv.Has(StorageFinal) {
		words = append(words, "final")
	}
	suffix := ""
	if len(words) > 0 {
		suffix = " " + strings.Join(words, " ")
	}
	if tv.Has(StoragePureVirtual) {
		suffix += " = 0"
	}
	if tv.Has(StorageDefault) {
		suffix += " = default"
	}
	if tv.Has(StorageDelete) {
		suffix += " = delete"
	}
	return suffix
}
