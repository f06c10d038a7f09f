package cdecl

import "strings"

// englishVerbs are the reserved command verbs that put the Parser into
// ModeEnglish for the whole command (§6 Input formats).
var englishVerbs = map[string]bool{
	"cast": true, "declare": true, "define": true, "explain": true,
	"help": true, "set": true, "show": true, "quit": true,
}

// Parser drives one Lexer/TokenStream over a command stream, producing
// one Declarator Tree (or diagnostic) per command (§4.6). Both
// inherited-attribute stacks the spec calls for are fields here rather
// than action-maintained globals, matching the source's behavioural
// contract that they're empty at every command boundary (§9).
type Parser struct {
	src   []byte
	pos   int
	cfg   *Config
	reg   *Registry
	arena *Arena

	ts     *TokenStream
	lexSrc []byte // the current command's slice of src, for explain's mode switch

	// typeCtxStack: a base-type stack for the native grammar (§4.6),
	// reset at every command boundary. The native grammar does not
	// push onto it; it grafts the base type through PatchPlaceholder.
	typeCtxStack []NodeID

	// qualStack: a qualifier stack for the English grammar (§4.6),
	// reset at every command boundary. The English grammar does not
	// push onto it; it passes pending qualifiers down as an argument.
	qualStack []TypeValue
}

// NewParser returns a Parser over src. cfg supplies the active dialect
// and lexer toggles; reg is the Type Alias Registry consulted by
// identifier classification and written to by successful defines.
func NewParser(src []byte, cfg *Config, reg *Registry) *Parser {
	return &Parser{src: src, cfg: cfg, reg: reg}
}

// CommandResult is what parseOneCommand produces for one command.
// Root is NilNode when the command failed; a successful tree can still
// carry warning Diagnostics.
type CommandResult struct {
	Root        NodeID
	Arena       *Arena
	Diagnostics []Diagnostic
	SourceText  string
}

// ParseAll splits src on `;` command boundaries (and end-of-input) and
// parses each command independently, exactly as §6 describes. A
// failing command doesn't abort the rest: the Parser resets to the
// next command boundary and continues (§4.6, §7 Propagation policy).
func (p *Parser) ParseAll() []CommandResult {
	var results []CommandResult
	for p.pos < len(p.src) {
		p.skipLeadingSpaceAndComments()
		if p.pos >= len(p.src) {
			break
		}
		res := p.parseOneCommand()
		if res.SourceText != "" || res.Root != NilNode || len(res.Diagnostics) > 0 {
			results = append(results, res)
		}
	}
	return results
}

func (p *Parser) skipLeadingSpaceAndComments() {
	for p.pos < len(p.src) {
		b := p.src[p.pos]
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == ';':
			p.pos++
		case b == '#':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

// commandMode peeks the first word of the upcoming command, lexed
// under ModeEnglish, to decide whether the whole command belongs to
// the English or native grammar family (§4.6).
func (p *Parser) commandMode() Mode {
	probe := NewLexer(p.src[p.pos:], p.cfg.Dialect(), p.reg)
	probe.SetMode(ModeEnglish)
	tok, err := probe.Next(p.cfg)
	if err != nil {
		return ModeNative
	}
	if tok.Kind == TokKeyword && englishVerbs[strings.ToLower(tok.Text)] {
		return ModeEnglish
	}
	return ModeNative
}

// parseOneCommand parses exactly one command starting at p.pos and
// advances p.pos past it (to just after the `;` or to EOF), running
// arena GC regardless of success (§4.6, §8.3).
func (p *Parser) parseOneCommand() CommandResult {
	start := p.pos
	mode := p.commandMode()

	p.lexSrc = p.src[p.pos:]
	lex := NewLexer(p.lexSrc, p.cfg.Dialect(), p.reg)
	lex.SetMode(mode)
	p.arena = NewArena()
	p.ts = NewTokenStream(lex, p.cfg)
	p.typeCtxStack = nil
	p.qualStack = nil

	var root NodeID
	var diags []Diagnostic

	if mode == ModeEnglish {
		root = p.parseEnglishCommand(&diags)
	} else {
		root = p.parseNativeCommand(&diags)
	}

	if root != NilNode && !hasError(diags) {
		if d := p.expectEndOfCommand(); d != nil {
			diags = append(diags, *d)
			root = NilNode
		}
	}

	end := p.findCommandEnd(lex)
	text := strings.TrimSpace(string(p.src[start:end]))
	p.pos = end
	if p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}

	// Both inherited-attribute stacks must be empty at the command
	// boundary regardless of outcome (§4.6, §9).
	p.typeCtxStack = nil
	p.qualStack = nil

	arena := p.arena
	if root == NilNode {
		arena = nil
	}
	return CommandResult{Root: root, Arena: arena, Diagnostics: diags, SourceText: text}
}

// expectEndOfCommand reports a grammar error if tokens remain before
// the `;`/EOF command boundary once a grammar production has returned
// a tree, catching the case where a production stops early and leaves
// a trailing clause unconsumed (§7 "grammar: unexpected token").
func (p *Parser) expectEndOfCommand() *Diagnostic {
	tok := p.ts.Peek(0)
	if tok.Kind == TokEOF || tok.isPunct(";") {
		return nil
	}
	d := errDiag(tok.Span, "grammar-error", "unexpected token `"+tok.Text+"` before end of command")
	return &d
}

// findCommandEnd scans raw bytes (not tokens, so it works even after a
// lex error) for the next unconsumed `;` or EOF, starting at the first
// token the grammar left unconsumed (which may be a `;` the lexer has
// already read as lookahead).
func (p *Parser) findCommandEnd(lex *Lexer) int {
	i := p.pos + lex.Pos()
	if p.ts.lex == lex {
		i = p.pos + p.ts.Peek(0).Span.Start.Cursor
	}
	for i < len(p.src) && p.src[i] != ';' {
		i++
	}
	return i
}

// pushQual/popQual implement the qualifier stack's save/restore
// discipline around nested English phrases (§4.6).
func (p *Parser) pushQual(q TypeValue) { p.qualStack = append(p.qualStack, q) }
func (p *Parser) popQual() TypeValue {
	n := len(p.qualStack)
	q := p.qualStack[n-1]
	p.qualStack = p.qualStack[:n-1]
	return q
}

// checkTree runs the Semantic Checker over a freshly parsed tree using
// this Parser's config and registry (§4.7).
func (p *Parser) checkTree(root NodeID) []Diagnostic {
	return NewChecker(p.arena, p.reg, p.cfg.Dialect()).Check(root)
}

func (p *Parser) pushTypeCtx(id NodeID) { p.typeCtxStack = append(p.typeCtxStack, id) }
func (p *Parser) popTypeCtx() NodeID {
	n := len(p.typeCtxStack)
	id := p.typeCtxStack[n-1]
	p.typeCtxStack = p.typeCtxStack[:n-1]
	return id
}
func (p *Parser) peekTypeCtx() NodeID { return p.typeCtxStack[len(p.typeCtxStack)-1] }

func addDiag(diags *[]Diagnostic, d Diagnostic) { *diags = append(*diags, d) }

func diagFromErr(err error) Diagnostic {
	if pe, ok := err.(ParsingError); ok {
		return pe.Diagnostic()
	}
	if be, ok := err.(*backtrackingError); ok {
		return errDiag(be.Span, "grammar-error", be.Message)
	}
	return Diagnostic{Severity: SeverityError, Message: err.Error()}
}
