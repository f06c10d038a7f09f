package cdecl

// Parse runs the full text of src through the Parser, one command at
// a time (§6), and returns every command's result alongside a flat
// list of every diagnostic produced across all commands — the shape
// Registry.Load needs to replay a dumped alias list (§3.4, §6
// Persisted state).
func Parse(src string, cfg *Config, reg *Registry) ([]CommandResult, []*Diagnostic) {
	p := NewParser([]byte(src), cfg, reg)
	results := p.ParseAll()
	var diags []*Diagnostic
	for i := range results {
		for j := range results[i].Diagnostics {
			diags = append(diags, &results[i].Diagnostics[j])
		}
	}
	return results, diags
}

// Check re-runs the Semantic Checker over an already-parsed tree,
// useful when a caller holds a tree produced outside ParseAll (e.g.
// after editing a persisted alias) and wants fresh diagnostics without
// re-lexing (§4.7).
func Check(arena *Arena, reg *Registry, dialect Dialect, root NodeID) []Diagnostic {
	return NewChecker(arena, reg, dialect).Check(root)
}

// TargetForm selects which of the two surface grammars Render emits.
type TargetForm int

const (
	TargetEnglish TargetForm = iota
	TargetNative
)

// Render renders root to text in the requested surface form (§4.8).
func Render(arena *Arena, root NodeID, form TargetForm, cfg *Config) string {
	switch form {
	case TargetNative:
		return RenderNative(arena, root, cfg)
	default:
		return RenderEnglish(arena, root, cfg)
	}
}
