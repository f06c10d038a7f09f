package cdecl

// parseScopedName parses a `::`-separated name (optionally prefixed by
// a scope-kind keyword such as `class`/`struct`/`namespace`, handled by
// the caller) shared by both grammars (§3.3, §4.6).
func (p *Parser) parseScopedName(kind ScopeKind) (ScopedName, error) {
	tok := p.ts.Advance()
	if tok.Kind != TokIdent && tok.Kind != TokTypeAlias {
		return ScopedName{}, ParsingError{Message: "expected an identifier", Span: tok.Span}
	}
	name := ScopedName{Segments: []ScopeSegment{{Name: tok.Text, Kind: kind}}}
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

// parseIntLiteral parses a bare non-negative integer constant, used
// for array sizes and alignment expressions (§3.2, the Non-goal that
// excludes general expression evaluation still allows this one).
func (p *Parser) parseIntLiteral() (int64, error) {
	tok := p.ts.Advance()
	if tok.Kind != TokIntLiteral {
		return 0, ParsingError{Message: "expected an integer constant", Span: tok.Span}
	}
	return tok.IntVal, nil
}
