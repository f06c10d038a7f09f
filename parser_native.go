package cdecl

// ptrPrefixKind distinguishes the four spellings a native pointer-
// like prefix can take before the splice target is known.
type ptrPrefixKind int

const (
	prefixPointer ptrPrefixKind = iota
	prefixReference
	prefixRvalueReference
	prefixPointerToMember
)

type ptrPrefix struct {
	kind  ptrPrefixKind
	qual  TypeValue
	class ScopedName
	span  Span
}

// parseNativeCommand parses one command in the native C/C++ surface
// syntax: a `typedef`, a `using` alias, a constructor/destructor/
// user-defined conversion/user-defined literal, or a plain declaration
// (§4.6, §6).
func (p *Parser) parseNativeCommand(diags *[]Diagnostic) NodeID {
	switch {
	case p.ts.Peek(0).isKeyword("typedef"):
		return p.nativeTypedef(diags)
	case p.ts.Peek(0).isKeyword("using") && (p.ts.Peek(1).Kind == TokIdent || p.ts.Peek(1).Kind == TokTypeAlias) && p.ts.Peek(2).isPunct("="):
		return p.nativeUsingAlias(diags)
	}

	// Constructors, destructors and operator-named special members
	// carry no return type, so they may be preceded only by leading
	// storage-class specifiers (friend, explicit, constexpr, ...)
	// rather than a type-specifier-seq; skip past those before
	// matching the shape (§4.2 table rows "constructor" ... "user-
	// defined literal").
	skip := p.specifierLookahead()
	switch {
	case p.ts.Peek(skip).isPunct("~") && (p.ts.Peek(skip+1).Kind == TokIdent || p.ts.Peek(skip+1).Kind == TokTypeAlias) && p.ts.Peek(skip+2).isPunct("("):
		return p.nativeDestructor(diags)
	case (p.ts.Peek(skip).Kind == TokIdent || p.ts.Peek(skip).Kind == TokTypeAlias) && p.ts.Peek(skip+1).isPunct("::") &&
		p.ts.Peek(skip+2).Text == p.ts.Peek(skip).Text && p.ts.Peek(skip+3).isPunct("("):
		return p.nativeConstructor(diags)
	case p.ts.Peek(skip).isKeyword("operator") && isConversionTargetStart(p.ts.Peek(skip+1)):
		return p.nativeUserConversion(diags)
	case p.ts.Peek(skip).isKeyword("operator") && p.ts.Peek(skip+1).Kind == TokStringLiteral:
		return p.nativeUserLiteral(diags)
	}

	root, err := p.parseNativeDeclaration()
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	p.arena.TakeName(root)
	if cd := p.checkTree(root); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	return root
}

// specifierLookahead returns how many leading bit-keyword tokens
// precede the current position, without consuming them, so the
// dispatch above can see past e.g. `friend` or `explicit` to the
// construct's real shape.
func (p *Parser) specifierLookahead() int {
	n := 0
	for p.ts.Peek(n).Kind == TokBitKeyword {
		n++
	}
	return n
}

// collectNativeFuncSpecifiers consumes the leading storage-class
// words (friend, explicit, constexpr, virtual, ...) that may precede
// a constructor/destructor/conversion/literal name (§4.2, mirrors
// englishQualifierLoop's bit-accumulation for the native surface).
func (p *Parser) collectNativeFuncSpecifiers() TypeValue {
	var tv TypeValue
	for p.ts.Peek(0).Kind == TokBitKeyword {
		tok := p.ts.Peek(0)
		nv, d := tv.Add(tok.Bit, tok.Span)
		if d != nil {
			break
		}
		p.ts.Advance()
		tv = nv
	}
	return tv
}

func isConversionTargetStart(tok Token) bool {
	return tok.Kind == TokBitKeyword || tok.Kind == TokTypeAlias || tok.Kind == TokIdent
}

// nativeDestructor parses `~Name() <trailer>` (§4.2 table row
// "destructor").
func (p *Parser) nativeDestructor(diags *[]Diagnostic) NodeID {
	tv := p.collectNativeFuncSpecifiers()
	start := p.ts.Advance().Span // "~"
	nameTok := p.ts.Advance()
	fn, err := p.parseFunctionPostfix()
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	fnNode := p.arena.Node(fn)
	id := p.arena.NewNode(KindDestructor, start)
	n := p.arena.Node(id)
	n.Type = tv.Union(fnNode.Type)
	n.Name = ScopedName{Segments: []ScopeSegment{{Name: nameTok.Text}}}
	if cd := p.checkTree(id); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	return id
}

// nativeConstructor parses `Name::Name(<params>) <trailer>`, the
// out-of-line constructor spelling (§4.2 table row "constructor").
func (p *Parser) nativeConstructor(diags *[]Diagnostic) NodeID {
	tv := p.collectNativeFuncSpecifiers()
	nameTok := p.ts.Advance() // "Widget"
	p.ts.Advance()            // "::"
	p.ts.Advance()            // "Widget" again
	fn, err := p.parseFunctionPostfix()
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	fnNode := p.arena.Node(fn)
	id := p.arena.NewNode(KindConstructor, nameTok.Span)
	n := p.arena.Node(id)
	n.Type = tv.Union(fnNode.Type)
	n.Params = fnNode.Params
	n.Name = ScopedName{Segments: []ScopeSegment{{Name: nameTok.Text}}}
	if cd := p.checkTree(id); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	return id
}

// parseConversionTargetDeclarator parses the abstract, postfix-free
// prefix chain (`*`/`&`/`&&`) of a user-defined conversion's target
// type, deliberately stopping short of array/function postfixes (a
// conversion operator's own `()` immediately follows and must not be
// consumed as part of the target's declarator).
func (p *Parser) parseConversionTargetDeclarator() NodeID {
	var prefixes []ptrPrefix
	for {
		tok := p.ts.Peek(0)
		switch {
		case tok.isPunct("*"):
			p.ts.Advance()
			qual := p.collectTrailingQualifiers()
			prefixes = append(prefixes, ptrPrefix{kind: prefixPointer, qual: qual, span: tok.Span})
		case tok.isPunct("&"):
			p.ts.Advance()
			qual := p.collectTrailingQualifiers()
			prefixes = append(prefixes, ptrPrefix{kind: prefixReference, qual: qual, span: tok.Span})
		case tok.isPunct("&&"):
			p.ts.Advance()
			qual := p.collectTrailingQualifiers()
			prefixes = append(prefixes, ptrPrefix{kind: prefixRvalueReference, qual: qual, span: tok.Span})
		default:
			core := p.arena.NewNode(KindPlaceholder, tok.Span)
			for i := len(prefixes) - 1; i >= 0; i-- {
				core = p.graftPrefix(core, prefixes[i])
			}
			return core
		}
	}
}

// nativeUserConversion parses `operator <type>() <trailer>` (§4.2
// table row "user-defined conversion").
func (p *Parser) nativeUserConversion(diags *[]Diagnostic) NodeID {
	tv := p.collectNativeFuncSpecifiers()
	start := p.ts.Advance().Span // "operator"
	typeRoot, err := p.parseTypeSpecifierSeq()
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	declRoot := p.parseConversionTargetDeclarator()
	target := p.arena.PatchPlaceholder(typeRoot, declRoot)
	if t := p.ts.Advance(); !t.isPunct("(") {
		addDiag(diags, errDiag(t.Span, "grammar-error", "expected `(`"))
		return NilNode
	}
	if t := p.ts.Advance(); !t.isPunct(")") {
		addDiag(diags, errDiag(t.Span, "grammar-error", "expected `)`"))
		return NilNode
	}
	tv = p.collectFuncTrailer(tv)
	id := p.arena.NewNode(KindUserConversion, start)
	n := p.arena.Node(id)
	n.Type = tv
	n.Child = target
	p.arena.SetParent(target, id)
	if cd := p.checkTree(id); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	return id
}

// nativeUserLiteral parses `operator""<suffix>(<params>)` (§4.2 table
// row "user-defined literal").
func (p *Parser) nativeUserLiteral(diags *[]Diagnostic) NodeID {
	tv := p.collectNativeFuncSpecifiers()
	start := p.ts.Advance().Span // "operator"
	p.ts.Advance()               // `""`
	suffixTok := p.ts.Advance()
	fn, err := p.parseFunctionPostfix()
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	fnNode := p.arena.Node(fn)
	id := p.arena.NewNode(KindUserLiteral, start)
	n := p.arena.Node(id)
	n.Type = tv.Union(fnNode.Type)
	n.Params = fnNode.Params
	n.Name = ScopedName{Segments: []ScopeSegment{{Name: suffixTok.Text}}}
	if cd := p.checkTree(id); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	return id
}

func (p *Parser) nativeTypedef(diags *[]Diagnostic) NodeID {
	p.ts.Advance() // "typedef"
	root, err := p.parseNativeDeclaration()
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	p.arena.TakeName(root)
	n := p.arena.Node(root)
	nv, d := n.Type.Add(StorageTypedef, n.Span)
	if d != nil {
		addDiag(diags, *d)
		return NilNode
	}
	n.Type = nv
	if n.Name.IsEmpty() {
		addDiag(diags, errDiag(n.Span, "grammar-error", "a typedef requires a name"))
		return NilNode
	}
	if cd := p.checkTree(root); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	cmd := string(p.lexSrc[:p.ts.lex.Pos()])
	if d := p.reg.Define(n.Name, p.arena, root, false, cmd, n.Span); d != nil {
		addDiag(diags, *d)
		return NilNode
	}
	return root
}

func (p *Parser) nativeUsingAlias(diags *[]Diagnostic) NodeID {
	p.ts.Advance() // "using"
	nameTok := p.ts.Advance()
	name := ScopedName{Segments: []ScopeSegment{{Name: nameTok.Text}}}
	if tok := p.ts.Advance(); !tok.isPunct("=") {
		addDiag(diags, errDiag(tok.Span, "grammar-error", "expected `=`"))
		return NilNode
	}
	root, err := p.parseNativeDeclaration()
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	n := p.arena.Node(root)
	if n.Name.IsEmpty() {
		n.Name = name
	}
	if cd := p.checkTree(root); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	cmd := string(p.lexSrc[:p.ts.lex.Pos()])
	if d := p.reg.Define(name, p.arena, root, false, cmd, n.Span); d != nil {
		addDiag(diags, *d)
		return NilNode
	}
	return root
}

// parseNativeDeclaration parses a type-specifier-seq followed by one
// declarator and grafts the base type into the declarator's
// placeholder (§4.6).
func (p *Parser) parseNativeDeclaration() (NodeID, error) {
	typeRoot, err := p.parseTypeSpecifierSeq()
	if err != nil {
		return NilNode, err
	}
	declRoot, err := p.parseDeclarator()
	if err != nil {
		return NilNode, err
	}
	return p.arena.PatchPlaceholder(typeRoot, declRoot), nil
}

// parseTypeSpecifierSeq accumulates base/storage/attribute bit
// keywords into a single leaf node: KindBuiltin, or KindECSU/
// KindTypedefRef if the run hits a class-like keyword or a known
// alias (§4.2, §4.6).
func (p *Parser) parseTypeSpecifierSeq() (NodeID, error) {
	tv := TypeValue{}
	var align *Alignment
	start := p.ts.Peek(0).Span

	for {
		tok := p.ts.Peek(0)
		switch {
		case tok.isKeyword("alignas") || tok.isKeyword("_Alignas"):
			p.ts.Advance()
			a, err := p.parseAlignSpecifier()
			if err != nil {
				return NilNode, err
			}
			align = &a
			continue
		case tok.isKeyword("_Atomic") && p.ts.Peek(1).isPunct("("):
			p.ts.Advance()
			p.ts.Advance()
			inner, err := p.parseTypeSpecifierSeq()
			if err != nil {
				return NilNode, err
			}
			if tok := p.ts.Advance(); !tok.isPunct(")") {
				return NilNode, ParsingError{Message: "expected `)`", Span: tok.Span}
			}
			in := p.arena.Node(inner)
			nv, d := in.Type.Add(StorageAtomic, tok.Span)
			if d == nil {
				in.Type = nv
			}
			if align != nil {
				in.Align = align
			}
			return inner, nil
		case tok.Kind == TokBitKeyword:
			if tok.Bit == BaseClass || tok.Bit == BaseStruct || tok.Bit == BaseUnion || tok.Bit == BaseEnum {
				p.ts.Advance()
				return p.nativeECSU(tok, tv, align)
			}
			p.ts.Advance()
			nv, d := tv.Add(tok.Bit, tok.Span)
			if d != nil {
				return NilNode, ParsingError{Message: d.Message, Span: d.Span}
			}
			tv = nv
			continue
		}
		break
	}

	tok := p.ts.Peek(0)
	if tok.Kind == TokTypeAlias && tv.Base == 0 {
		p.ts.Advance()
		name, err := p.continueScopedName(tok)
		if err != nil {
			return NilNode, err
		}
		id := p.arena.NewNode(KindTypedefRef, start)
		n := p.arena.Node(id)
		n.Type = tv
		n.AliasName = name
		n.Align = align
		return id, nil
	}
	if tok.Kind == TokIdent && tv.Base == 0 && tv.Storage == 0 {
		return NilNode, p.unknownIdentifier(tok)
	}

	id := p.arena.NewNode(KindBuiltin, start)
	n := p.arena.Node(id)
	n.Type = tv.Normalize()
	n.Align = align
	return id, nil
}

func (p *Parser) parseAlignSpecifier() (Alignment, error) {
	if tok := p.ts.Advance(); !tok.isPunct("(") {
		return Alignment{}, ParsingError{Message: "expected `(`", Span: tok.Span}
	}
	var align Alignment
	if p.ts.Peek(0).Kind == TokIntLiteral {
		v, err := p.parseIntLiteral()
		if err != nil {
			return Alignment{}, err
		}
		align = Alignment{Kind: AlignInteger, Value: v}
	} else {
		typeRoot, err := p.parseTypeSpecifierSeq()
		if err != nil {
			return Alignment{}, err
		}
		align = Alignment{Kind: AlignType, Type: typeRoot}
	}
	if tok := p.ts.Advance(); !tok.isPunct(")") {
		return Alignment{}, ParsingError{Message: "expected `)`", Span: tok.Span}
	}
	return align, nil
}

func scopeKindFromBaseBit(b Bit) ScopeKind {
	switch b {
	case BaseClass:
		return ScopeClass
	case BaseStruct:
		return ScopeStruct
	case BaseUnion:
		return ScopeUnion
	default:
		return ScopeGeneric
	}
}

func (p *Parser) nativeECSU(kindTok Token, tv TypeValue, align *Alignment) (NodeID, error) {
	nv, d := tv.Add(kindTok.Bit, kindTok.Span)
	if d != nil {
		return NilNode, ParsingError{Message: d.Message, Span: d.Span}
	}
	scopeKind := scopeKindFromBaseBit(kindTok.Bit)

	var name ScopedName
	if tok := p.ts.Peek(0); tok.Kind == TokIdent || tok.Kind == TokTypeAlias {
		n2, err := p.parseScopedName(scopeKind)
		if err != nil {
			return NilNode, err
		}
		name = n2
	}

	underlying := NilNode
	if kindTok.Bit == BaseEnum && p.ts.Peek(0).isPunct(":") {
		p.ts.Advance()
		u, err := p.parseTypeSpecifierSeq()
		if err != nil {
			return NilNode, err
		}
		underlying = u
	}

	id := p.arena.NewNode(KindECSU, kindTok.Span)
	n := p.arena.Node(id)
	n.Type = nv
	n.ClassName = name
	n.Underlying = underlying
	n.Align = align
	return id, nil
}

// parseDeclarator parses the prefix chain of `*`/`&`/`&&`/pointer-to-
// member tokens, the direct-declarator core, and the postfix `[]`/`()`
// chain, assembling them into one subtree rooted in a KindPlaceholder
// (or a nested parenthesized declarator's own root) per the deferred,
// reverse-order grafting algorithm derived for this grammar (§4.6, §9):
// postfix layers splice in left-to-right parse order (closest-to-name
// dimension ends up outermost among them, matching C precedence),
// then prefix layers splice in *reverse* parse order, so the `*`/`&`
// token closest to the name ends up outermost among the prefix layers
// (postfix layers stay outside them: `int *p[10]` is an array of
// pointers).
func (p *Parser) parseDeclarator() (NodeID, error) {
	var prefixes []ptrPrefix
	for {
		tok := p.ts.Peek(0)
		if (tok.Kind == TokIdent || tok.Kind == TokTypeAlias) && p.ts.Peek(1).isPunct("::") {
			mark := p.ts.Mark()
			var scopeName ScopedName
			for t := p.ts.Peek(0); (t.Kind == TokIdent || t.Kind == TokTypeAlias) && p.ts.Peek(1).isPunct("::"); t = p.ts.Peek(0) {
				scopeName.Segments = append(scopeName.Segments, ScopeSegment{Name: p.ts.Advance().Text, Kind: ScopeGeneric})
				p.ts.Advance() // "::"
			}
			if !p.ts.Peek(0).isPunct("*") {
				p.ts.Reset(mark)
				break
			}
			p.ts.Advance() // "*"
			qual := p.collectTrailingQualifiers()
			prefixes = append(prefixes, ptrPrefix{kind: prefixPointerToMember, qual: qual, class: scopeName, span: tok.Span})
			continue
		}
		switch {
		case tok.isPunct("*"):
			p.ts.Advance()
			qual := p.collectTrailingQualifiers()
			prefixes = append(prefixes, ptrPrefix{kind: prefixPointer, qual: qual, span: tok.Span})
		case tok.isPunct("&"):
			p.ts.Advance()
			qual := p.collectTrailingQualifiers()
			prefixes = append(prefixes, ptrPrefix{kind: prefixReference, qual: qual, span: tok.Span})
		case tok.isPunct("&&"):
			p.ts.Advance()
			qual := p.collectTrailingQualifiers()
			prefixes = append(prefixes, ptrPrefix{kind: prefixRvalueReference, qual: qual, span: tok.Span})
		default:
			goto core
		}
	}
core:
	core, err := p.parseDirectDeclarator()
	if err != nil {
		return NilNode, err
	}
	for i := len(prefixes) - 1; i >= 0; i-- {
		core = p.graftPrefix(core, prefixes[i])
	}
	return core, nil
}

func (p *Parser) collectTrailingQualifiers() TypeValue {
	var tv TypeValue
	for {
		tok := p.ts.Peek(0)
		if tok.Kind != TokBitKeyword {
			return tv
		}
		switch tok.Bit {
		case StorageConst, StorageVolatile, StorageAtomic, StorageRestrict:
			p.ts.Advance()
			if nv, d := tv.Add(tok.Bit, tok.Span); d == nil {
				tv = nv
			}
		default:
			return tv
		}
	}
}

func (p *Parser) graftPrefix(core NodeID, pfx ptrPrefix) NodeID {
	var kind NodeKind
	switch pfx.kind {
	case prefixReference:
		kind = KindReference
	case prefixRvalueReference:
		kind = KindRvalueReference
	case prefixPointerToMember:
		kind = KindPointerToMember
	default:
		kind = KindPointer
	}
	layer := p.arena.NewNode(kind, pfx.span)
	n := p.arena.Node(layer)
	n.Type = pfx.qual
	n.ClassName = pfx.class
	return p.arena.AddPointerLike(core, layer)
}

// parseDirectDeclarator parses the core of a declarator (a
// parenthesized nested declarator, an `operator <symbol>` name, or a
// bare name/abstract slot), followed by its postfix `[]`/`()` chain
// (§4.6).
func (p *Parser) parseDirectDeclarator() (NodeID, error) {
	var core NodeID
	var opSym string
	tok := p.ts.Peek(0)
	switch {
	case tok.isPunct("(") && isNestedDeclaratorStart(p.ts.Peek(1)):
		p.ts.Advance()
		inner, err := p.parseDeclarator()
		if err != nil {
			return NilNode, err
		}
		if t := p.ts.Advance(); !t.isPunct(")") {
			return NilNode, ParsingError{Message: "expected `)`", Span: t.Span}
		}
		core = inner
	case tok.isKeyword("operator"):
		p.ts.Advance()
		opTok := p.ts.Advance()
		opSym = opTok.Text
		core = p.arena.NewNode(KindPlaceholder, tok.Span)
	case tok.Kind == TokIdent || tok.Kind == TokTypeAlias:
		p.ts.Advance()
		id := p.arena.NewNode(KindPlaceholder, tok.Span)
		p.arena.Node(id).Name = ScopedName{Segments: []ScopeSegment{{Name: tok.Text}}}
		core = id
	default:
		core = p.arena.NewNode(KindPlaceholder, tok.Span)
	}

	for {
		tok := p.ts.Peek(0)
		switch {
		case tok.isPunct("["):
			arr, err := p.parseArrayPostfix()
			if err != nil {
				return NilNode, err
			}
			core = p.arena.AddArray(core, arr)
		case tok.isPunct("("):
			fn, err := p.parseFunctionPostfix()
			if err != nil {
				return NilNode, err
			}
			if opSym != "" {
				fnNode := p.arena.Node(fn)
				fnNode.Kind = KindOperator
				fnNode.OperatorID = opSym
				opSym = ""
			}
			core = p.arena.AddFunction(core, fn)
		default:
			return core, nil
		}
	}
}

// isNestedDeclaratorStart reports whether the token following a `(`
// can only begin a nested declarator (`*`, `&`, `&&`, another `(`) —
// the heuristic that disambiguates `(*p)[10]` from a parameter list
// starting with a type (§4.6 ambiguity resolution).
func isNestedDeclaratorStart(tok Token) bool {
	return tok.isPunct("*") || tok.isPunct("&") || tok.isPunct("&&") || tok.isPunct("(")
}

func (p *Parser) parseArrayPostfix() (NodeID, error) {
	start := p.ts.Advance().Span // "["
	size := ArraySize{Kind: ArraySizeNone}
	qual := p.collectTrailingQualifiers()
	switch tok := p.ts.Peek(0); {
	case tok.isPunct("*"):
		p.ts.Advance()
		size = ArraySize{Kind: ArraySizeVariable}
	case tok.Kind == TokIntLiteral:
		p.ts.Advance()
		size = ArraySize{Kind: ArraySizeInteger, Value: tok.IntVal}
	case tok.Kind == TokIdent:
		p.ts.Advance()
		size = ArraySize{Kind: ArraySizeConstant, Expr: tok.Text}
	}
	if tok := p.ts.Advance(); !tok.isPunct("]") {
		return NilNode, ParsingError{Message: "expected `]`", Span: tok.Span}
	}
	id := p.arena.NewNode(KindArray, start)
	n := p.arena.Node(id)
	n.Size = size
	n.Type = qual
	return id, nil
}

func (p *Parser) parseFunctionPostfix() (NodeID, error) {
	start := p.ts.Advance().Span // "("
	var params []NodeID
	if !p.ts.Peek(0).isPunct(")") {
		if p.ts.Peek(0).isKeyword("void") && p.ts.Peek(1).isPunct(")") {
			p.ts.Advance()
		} else {
			for {
				if p.ts.Peek(0).isPunct("...") {
					span := p.ts.Advance().Span
					params = append(params, p.arena.NewNode(KindVariadic, span))
				} else {
					param, err := p.parseNativeParam()
					if err != nil {
						return NilNode, err
					}
					params = append(params, param)
				}
				if p.ts.Peek(0).isPunct(",") {
					p.ts.Advance()
					continue
				}
				break
			}
		}
	}
	if tok := p.ts.Advance(); !tok.isPunct(")") {
		return NilNode, ParsingError{Message: "expected `)`", Span: tok.Span}
	}

	qual := p.collectTrailingQualifiers()
	qual = p.collectFuncTrailer(qual)

	id := p.arena.NewNode(KindFunction, start)
	n := p.arena.Node(id)
	n.Params = params
	n.Type = qual
	return id, nil
}

// collectFuncTrailer consumes the trailer that can follow a parameter
// list: ref-qualifiers, noexcept/override/final, and the `= 0`/
// `= default`/`= delete` forms (§4.2). Shared by parseFunctionPostfix
// and the productions that build their own function-like node without
// going through it (user-defined conversions don't take a parameter
// list but still carry this trailer).
func (p *Parser) collectFuncTrailer(qual TypeValue) TypeValue {
	for {
		tok := p.ts.Peek(0)
		if tok.isPunct("&") || tok.isPunct("&&") {
			p.ts.Advance()
			bit := StorageReference
			if tok.Text == "&&" {
				bit = StorageRvalueRef
			}
			if nv, d := qual.Add(bit, tok.Span); d == nil {
				qual = nv
			}
			continue
		}
		if tok.isKeyword("noexcept") || tok.isKeyword("override") || tok.isKeyword("final") {
			p.ts.Advance()
			if info, ok := nativeBitWords[tok.Text]; ok {
				if nv, d := qual.Add(info.bit, tok.Span); d == nil {
					qual = nv
				}
			}
			continue
		}
		if tok.isPunct("=") && p.ts.Peek(1).Kind == TokIntLiteral && p.ts.Peek(1).IntVal == 0 {
			p.ts.Advance()
			p.ts.Advance()
			if nv, d := qual.Add(StoragePureVirtual, tok.Span); d == nil {
				qual = nv
			}
			continue
		}
		if tok.isPunct("=") && (p.ts.Peek(1).isKeyword("default") || p.ts.Peek(1).isKeyword("delete")) {
			p.ts.Advance()
			kw := p.ts.Advance()
			bit := StorageDefault
			if kw.Text == "delete" {
				bit = StorageDelete
			}
			if nv, d := qual.Add(bit, kw.Span); d == nil {
				qual = nv
			}
			continue
		}
		break
	}
	return qual
}

func (p *Parser) parseNativeParam() (NodeID, error) {
	typeRoot, err := p.parseTypeSpecifierSeq()
	if err != nil {
		return NilNode, err
	}
	declRoot, err := p.parseDeclarator()
	if err != nil {
		return NilNode, err
	}
	return p.arena.PatchPlaceholder(typeRoot, declRoot), nil
}
