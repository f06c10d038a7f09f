package cdecl

import "strings"

// qualifierBits are the storage bits the English grammar lets a
// leading or mid-phrase qualifier word set on the *next* node created,
// rather than immediately on a base type (§4.6 qualifier stack).
var qualifierWordBits = map[Bit]bool{
	StorageConst: true, StorageVolatile: true, StorageAtomic: true, StorageRestrict: true,
}

// parseEnglishCommand parses one command belonging to the English
// family (verb-first: declare/cast/define/explain/help/set/show/quit,
// §6). help/set/show/quit are external per spec.md §1; the core
// recognises but does not act on them.
func (p *Parser) parseEnglishCommand(diags *[]Diagnostic) NodeID {
	verb := p.ts.Advance()

	switch verb.Text {
	case "declare":
		return p.englishDeclare(diags, false)
	case "define":
		return p.englishDeclare(diags, true)
	case "explain":
		return p.englishExplain(diags)
	case "cast":
		return p.englishCast(diags)
	case "help", "set", "show", "quit":
		return NilNode
	default:
		addDiag(diags, errDiag(verb.Span, "grammar-error", "unexpected command `"+verb.Text+"`"))
		return NilNode
	}
}

func (p *Parser) englishDeclare(diags *[]Diagnostic, define bool) NodeID {
	name, err := p.parseScopedName(ScopeGeneric)
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	if tok := p.ts.Advance(); !tok.isKeyword("as") {
		addDiag(diags, errDiag(tok.Span, "grammar-error", "expected `as`"))
		return NilNode
	}
	root, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	n := p.arena.Node(root)
	if n.Name.IsEmpty() {
		n.Name = name
	}
	if d := n.Name.Check(n.Span); d != nil {
		addDiag(diags, *d)
		return NilNode
	}
	if cd := p.checkTree(root); len(cd) > 0 {
		*diags = append(*diags, cd...)
		if hasError(cd) {
			return NilNode
		}
	}
	if define {
		if d := p.reg.Define(name, p.arena, root, true, string(p.lexSrc[:p.ts.lex.Pos()]), n.Span); d != nil {
			addDiag(diags, *d)
			return NilNode
		}
	}
	return root
}

// englishExplain parses `explain <native declaration>`: the argument
// belongs to the *native* grammar even though the command verb is an
// English word, so the lexer's mode is switched for the remainder of
// the command (§4.5, §8 scenario 2).
func (p *Parser) englishExplain(diags *[]Diagnostic) NodeID {
	rawPos := p.ts.lex.Pos()
	nativeLex := NewLexer(p.lexSrc[rawPos:], p.cfg.Dialect(), p.reg)
	nativeLex.SetMode(ModeNative)
	p.ts = NewTokenStream(nativeLex, p.cfg)

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

// englishCast parses `cast <flavour> to <decl-expr>`, building just the
// target type's tree; the Checker's Cast rule family is applied with
// the named flavour (§4.7 rule 4).
func (p *Parser) englishCast(diags *[]Diagnostic) NodeID {
	flavor, ok := p.parseCastFlavorWord()
	if !ok {
		tok := p.ts.Peek(0)
		addDiag(diags, errDiag(tok.Span, "grammar-error", "expected a cast flavour"))
		return NilNode
	}
	if tok := p.ts.Advance(); !tok.isKeyword("to") {
		addDiag(diags, errDiag(tok.Span, "grammar-error", "expected `to`"))
		return NilNode
	}
	root, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		addDiag(diags, diagFromErr(err))
		return NilNode
	}
	if d := CheckCast(flavor, root, p.arena, p.cfg.Dialect()); d != nil {
		addDiag(diags, *d)
		return NilNode
	}
	return root
}

func (p *Parser) parseCastFlavorWord() (CastFlavor, bool) {
	tok := p.ts.Peek(0)
	switch strings.ToLower(tok.Text) {
	case "const":
		p.ts.Advance()
		return CastConst, true
	case "static":
		p.ts.Advance()
		return CastStatic, true
	case "dynamic":
		p.ts.Advance()
		return CastDynamic, true
	case "reinterpret":
		p.ts.Advance()
		return CastReinterpret, true
	}
	return CastStatic, false
}

// parseEnglishDeclExpr is the heart of the English grammar: a
// recursive-descent production that builds the tree outside-in
// (root-first), the opposite propagation direction from the native
// grammar (§4.6, §9).
func (p *Parser) parseEnglishDeclExpr(inherited TypeValue) (NodeID, error) {
	qual := inherited
	for {
		tok := p.ts.Peek(0)
		if tok.Kind == TokBitKeyword && qualifierWordBits[tok.Bit] {
			p.ts.Advance()
			nq, d := qual.Add(tok.Bit, tok.Span)
			if d != nil {
				return NilNode, ParsingError{Message: d.Message, Span: d.Span}
			}
			qual = nq
			continue
		}
		break
	}

	tok := p.ts.Peek(0)
	switch {
	case tok.isKeyword("pointer"):
		return p.englishPointerLike(qual)
	case tok.isKeyword("reference"):
		p.ts.Advance()
		return p.englishWrap(KindReference, qual, "to")
	case tok.isKeyword("rvalue"):
		p.ts.Advance()
		if n := p.ts.Advance(); !n.isKeyword("reference") {
			return NilNode, ParsingError{Message: "expected `reference` after `rvalue`", Span: n.Span}
		}
		return p.englishWrap(KindRvalueReference, qual, "to")
	case tok.isKeyword("array"):
		return p.englishArray(qual)
	case tok.isKeyword("block"):
		p.ts.Advance()
		return p.englishWrap(KindAppleBlock, qual, "returning")
	default:
		return p.englishFunctionOrOperatorOrBase(qual)
	}
}

// englishWrap parses `<sep> <decl-expr>` and wraps it in a single-
// child node of kind, used by reference/rvalue-reference/Apple block.
func (p *Parser) englishWrap(kind NodeKind, qual TypeValue, sep string) (NodeID, error) {
	start := p.ts.Peek(0).Span
	if tok := p.ts.Advance(); !tok.isKeyword(sep) {
		return NilNode, ParsingError{Message: "expected `" + sep + "`", Span: tok.Span}
	}
	inner, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(kind, start)
	n := p.arena.Node(id)
	n.Type = qual
	n.Child = inner
	p.arena.SetParent(inner, id)
	return id, nil
}

// englishPointerLike handles `pointer to ...` and the pointer-to-
// member form `pointer to member of class C ...` (§8 scenario 7).
func (p *Parser) englishPointerLike(qual TypeValue) (NodeID, error) {
	start := p.ts.Advance().Span // "pointer"
	if tok := p.ts.Advance(); !tok.isKeyword("to") {
		return NilNode, ParsingError{Message: "expected `to`", Span: tok.Span}
	}
	if p.ts.Peek(0).isKeyword("member") {
		p.ts.Advance()
		if tok := p.ts.Advance(); !tok.isKeyword("of") {
			return NilNode, ParsingError{Message: "expected `of`", Span: tok.Span}
		}
		scopeKind, err := p.parseScopeKindWord()
		if err != nil {
			return NilNode, err
		}
		className, err := p.parseScopedName(scopeKind)
		if err != nil {
			return NilNode, err
		}
		inner, err := p.parseEnglishDeclExpr(TypeValue{})
		if err != nil {
			return NilNode, err
		}
		id := p.arena.NewNode(KindPointerToMember, start)
		n := p.arena.Node(id)
		n.Type = qual
		n.ClassName = className
		n.Child = inner
		p.arena.SetParent(inner, id)
		return id, nil
	}

	inner, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(KindPointer, start)
	n := p.arena.Node(id)
	n.Type = qual
	n.Child = inner
	p.arena.SetParent(inner, id)
	return id, nil
}

func (p *Parser) parseScopeKindWord() (ScopeKind, error) {
	tok := p.ts.Advance()
	switch tok.Text {
	case "class":
		return ScopeClass, nil
	case "structure":
		return ScopeStruct, nil
	case "union":
		return ScopeUnion, nil
	case "namespace":
		return ScopeNamespace, nil
	default:
		return ScopeGeneric, ParsingError{Message: "expected a scope kind (`class`, `structure`, `union`, `namespace`)", Span: tok.Span}
	}
}

func (p *Parser) englishArray(qual TypeValue) (NodeID, error) {
	start := p.ts.Advance().Span // "array"
	size := ArraySize{Kind: ArraySizeNone}
	switch tok := p.ts.Peek(0); {
	case tok.Kind == TokIntLiteral:
		p.ts.Advance()
		size = ArraySize{Kind: ArraySizeInteger, Value: tok.IntVal}
	case tok.isPunct("*"):
		p.ts.Advance()
		size = ArraySize{Kind: ArraySizeVariable}
	case tok.Kind == TokIdent:
		p.ts.Advance()
		size = ArraySize{Kind: ArraySizeConstant, Expr: tok.Text}
	}
	if tok := p.ts.Advance(); !tok.isKeyword("of") {
		return NilNode, ParsingError{Message: "expected `of`", Span: tok.Span}
	}
	inner, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(KindArray, start)
	n := p.arena.Node(id)
	n.Type = qual
	n.Size = size
	n.Child = inner
	p.arena.SetParent(inner, id)
	return id, nil
}

// englishQualifierLoop consumes the storage-ish words that may appear
// before `function`/`operator`/`constructor`/`destructor`
// (non-member, friend, default, deleted, noexcept, virtual, pure
// virtual, static, explicit, ... — §8 scenario 4, 5).
func (p *Parser) englishQualifierLoop(qual TypeValue) (TypeValue, *bool, error) {
	var isMember *bool
	for {
		tok := p.ts.Peek(0)
		if tok.Text == "non-member" {
			p.ts.Advance()
			f := false
			isMember = &f
			continue
		}
		if tok.Text == "member" {
			p.ts.Advance()
			t := true
			isMember = &t
			continue
		}
		if tok.Text == "pure" {
			mark := p.ts.Mark()
			p.ts.Advance()
			nxt := p.ts.Peek(0)
			if nxt.Kind == TokBitKeyword && nxt.Bit == StorageVirtual {
				p.ts.Advance()
				nq, d := qual.Add(StoragePureVirtual, tok.Span)
				if d != nil {
					return qual, isMember, ParsingError{Message: d.Message, Span: d.Span}
				}
				qual = nq
				continue
			}
			p.ts.Reset(mark)
			break
		}
		if tok.Kind == TokBitKeyword && isFunctionQualifierBit(tok.Bit) {
			p.ts.Advance()
			nq, d := qual.Add(tok.Bit, tok.Span)
			if d != nil {
				return qual, isMember, ParsingError{Message: d.Message, Span: d.Span}
			}
			qual = nq
			continue
		}
		break
	}
	return qual, isMember, nil
}

func isFunctionQualifierBit(b Bit) bool {
	switch b {
	case StorageFriend, StorageDefault, StorageDelete, StorageNoexcept, StorageVirtual,
		StorageStatic, StorageExtern, StorageInline, StorageExplicit, StorageConstexpr,
		StorageConsteval, StorageConstinit, StorageExport, StorageMutable, StorageOverride,
		StorageFinal, StorageThrow, StorageReference, StorageRvalueRef, StorageConst, StorageVolatile:
		return true
	default:
		return false
	}
}

// englishFunctionOrOperatorOrBase resolves the remainder of the
// production: `function (...) returning ...`, an operator/constructor/
// destructor form, or a plain base type.
func (p *Parser) englishFunctionOrOperatorOrBase(qual TypeValue) (NodeID, error) {
	qual, isMember, err := p.englishQualifierLoop(qual)
	if err != nil {
		return NilNode, err
	}

	tok := p.ts.Peek(0)
	switch {
	case tok.isKeyword("function") && p.ts.Peek(1).isKeyword("operator"):
		p.ts.Advance() // "function" — the operator clause carries its own form
		return p.englishOperator(qual, isMember)
	case tok.isKeyword("function"):
		return p.englishFunction(qual, isMember)
	case tok.isKeyword("operator"):
		return p.englishOperator(qual, isMember)
	case tok.isKeyword("constructor"):
		p.ts.Advance()
		params, err := p.parseEnglishParamList()
		if err != nil {
			return NilNode, err
		}
		id := p.arena.NewNode(KindConstructor, tok.Span)
		n := p.arena.Node(id)
		n.Type = qual
		n.Params = params
		return id, nil
	case tok.isKeyword("destructor"):
		p.ts.Advance()
		id := p.arena.NewNode(KindDestructor, tok.Span)
		p.arena.Node(id).Type = qual
		return id, nil
	case tok.isKeyword("conversion"):
		return p.englishUserConversion(qual)
	case tok.isKeyword("literal"):
		return p.englishUserLiteral(qual)
	default:
		return p.englishBaseType(qual)
	}
}

// englishUserConversion parses `conversion returning <decl-expr>`, the
// English spelling of a user-defined conversion operator (§4.2 table
// row "user-defined conversion").
func (p *Parser) englishUserConversion(qual TypeValue) (NodeID, error) {
	start := p.ts.Advance().Span // "conversion"
	if tok := p.ts.Advance(); !tok.isKeyword("returning") {
		return NilNode, ParsingError{Message: "expected `returning`", Span: tok.Span}
	}
	ret, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(KindUserConversion, start)
	n := p.arena.Node(id)
	n.Type = qual
	n.Child = ret
	p.arena.SetParent(ret, id)
	return id, nil
}

// englishUserLiteral parses `literal ( <param>, ... )`, the English
// spelling of a user-defined literal operator (§4.2 table row
// "user-defined literal").
func (p *Parser) englishUserLiteral(qual TypeValue) (NodeID, error) {
	start := p.ts.Advance().Span // "literal"
	params, err := p.parseEnglishParamList()
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(KindUserLiteral, start)
	n := p.arena.Node(id)
	n.Type = qual
	n.Params = params
	return id, nil
}

func (p *Parser) englishFunction(qual TypeValue, isMember *bool) (NodeID, error) {
	start := p.ts.Advance().Span // "function"
	params, err := p.parseEnglishParamList()
	if err != nil {
		return NilNode, err
	}
	if tok := p.ts.Advance(); !tok.isKeyword("returning") {
		return NilNode, ParsingError{Message: "expected `returning`", Span: tok.Span}
	}
	ret, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(KindFunction, start)
	n := p.arena.Node(id)
	n.Type = qual
	n.Params = params
	n.Child = ret
	p.arena.SetParent(ret, id)
	if isMember != nil {
		n.IsMember = *isMember
	}
	return id, nil
}

func (p *Parser) englishOperator(qual TypeValue, isMember *bool) (NodeID, error) {
	start := p.ts.Advance().Span // "operator"
	opTok := p.ts.Advance()
	params, err := p.parseEnglishParamList()
	if err != nil {
		return NilNode, err
	}
	if tok := p.ts.Advance(); !tok.isKeyword("returning") {
		return NilNode, ParsingError{Message: "expected `returning`", Span: tok.Span}
	}
	ret, err := p.parseEnglishDeclExpr(TypeValue{})
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(KindOperator, start)
	n := p.arena.Node(id)
	n.Type = qual
	n.Params = params
	n.Child = ret
	n.OperatorID = opTok.Text
	p.arena.SetParent(ret, id)
	if isMember != nil {
		n.IsMember = *isMember
	} else {
		n.IsMember = true
	}
	return id, nil
}

// parseEnglishParamList parses `( <decl-expr> , ... )`.
func (p *Parser) parseEnglishParamList() ([]NodeID, error) {
	if tok := p.ts.Advance(); !tok.isPunct("(") {
		return nil, ParsingError{Message: "expected `(`", Span: tok.Span}
	}
	var params []NodeID
	for !p.ts.Peek(0).isPunct(")") {
		if p.ts.Peek(0).isPunct("...") {
			span := p.ts.Advance().Span
			params = append(params, p.arena.NewNode(KindVariadic, span))
		} else {
			param, err := p.parseEnglishDeclExpr(TypeValue{})
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
		if p.ts.Peek(0).isPunct(",") {
			p.ts.Advance()
			continue
		}
		break
	}
	if tok := p.ts.Advance(); !tok.isPunct(")") {
		return nil, ParsingError{Message: "expected `)`", Span: tok.Span}
	}
	return params, nil
}

// englishBaseType consumes a run of base-type bit keywords (and
// ECSU/typedef-alias names) into a single leaf node (§4.2, §4.5).
func (p *Parser) englishBaseType(qual TypeValue) (NodeID, error) {
	tv := qual
	start := p.ts.Peek(0).Span

	for {
		tok := p.ts.Peek(0)
		if tok.Kind != TokBitKeyword {
			break
		}
		if tok.Bit == BaseClass || tok.Bit == BaseStruct || tok.Bit == BaseUnion || tok.Bit == BaseEnum {
			p.ts.Advance()
			return p.englishECSU(tok, tv)
		}
		p.ts.Advance()
		nv, d := tv.Add(tok.Bit, tok.Span)
		if d != nil {
			return NilNode, ParsingError{Message: d.Message, Span: d.Span}
		}
		tv = nv
	}

	tok := p.ts.Peek(0)
	if tok.Kind == TokTypeAlias {
		p.ts.Advance()
		name, err := p.continueScopedName(tok)
		if err != nil {
			return NilNode, err
		}
		id := p.arena.NewNode(KindTypedefRef, start)
		n := p.arena.Node(id)
		n.Type = tv
		n.AliasName = name
		return id, nil
	}
	if tok.Kind == TokIdent {
		return NilNode, p.unknownIdentifier(tok)
	}

	id := p.arena.NewNode(KindBuiltin, start)
	p.arena.Node(id).Type = tv.Normalize()
	return id, nil
}

func (p *Parser) englishECSU(kindTok Token, tv TypeValue) (NodeID, error) {
	nv, d := tv.Add(kindTok.Bit, kindTok.Span)
	if d != nil {
		return NilNode, ParsingError{Message: d.Message, Span: d.Span}
	}
	scopeKind := ScopeGeneric
	switch kindTok.Bit {
	case BaseClass:
		scopeKind = ScopeClass
	case BaseStruct:
		scopeKind = ScopeStruct
	case BaseUnion:
		scopeKind = ScopeUnion
	}
	name, err := p.parseScopedName(scopeKind)
	if err != nil {
		return NilNode, err
	}
	id := p.arena.NewNode(KindECSU, kindTok.Span)
	n := p.arena.Node(id)
	n.Type = nv
	n.ClassName = name
	return id, nil
}

func (p *Parser) continueScopedName(first Token) (ScopedName, error) {
	name := ScopedName{Segments: []ScopeSegment{{Name: first.Text}}}
	for p.ts.Peek(0).isPunct("::") {
		p.ts.Advance()
		next := p.ts.Advance()
		if next.Kind != TokIdent && next.Kind != TokTypeAlias {
			return name, ParsingError{Message: "expected an identifier after `::`", Span: next.Span}
		}
		name = name.Append(next.Text, ScopeGeneric)
	}
	return name, nil
}

func (p *Parser) unknownIdentifier(tok Token) error {
	var suggestions []string
	for _, n := range p.reg.Names() {
		if strings.HasPrefix(n, tok.Text[:min(1, len(tok.Text))]) {
			suggestions = append(suggestions, n)
		}
	}
	d := errDiag(tok.Span, "unknown-identifier", "unknown identifier `"+tok.Text+"`, possibly naming a type")
	d.DidYouMean = suggestions
	return ParsingError{Message: d.Message, Span: d.Span}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func hasError(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
