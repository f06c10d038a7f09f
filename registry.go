package cdecl

import (
	"sort"
	"sync"
)

// aliasEntry is one registered type alias: the long-lived subtree that
// defines it, plus whether it was declared via the English `define` or
// a native `typedef`/`using`, so rendering can default back to
// whichever form created it (§3.4).
type aliasEntry struct {
	Name        ScopedName
	Root        NodeID
	Arena       *Arena
	FromEnglish bool
	Command     string // the exact re-loadable command text (§6 Persisted state)
}

// Registry is the Type Alias Registry (§3.4): a map from scoped name
// to the long-lived AST subtree that defines it. It is the one
// process-wide piece of mutable state the core carries (§5), guarded
// by a RWMutex since readers (the Lexer, on every identifier) vastly
// outnumber writers (a successful `define`/`typedef`/`using`).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*aliasEntry
	order   []string // preserves definition order for Dump (§6 Persisted state)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*aliasEntry)}
}

// Lookup reports whether name is a registered alias and returns its
// entry.
func (r *Registry) Lookup(name ScopedName) (*aliasEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name.FullName()]
	return e, ok
}

// Has reports whether the plain identifier (ignoring scope qualifiers)
// names a registered alias anywhere in the registry — used by the
// Lexer, which sees a bare identifier token and must decide whether it
// could possibly be a type name before the Parser resolves full
// scoping (§4.5 step 3).
func (r *Registry) Has(localName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Name.LocalName() == localName {
			return true
		}
	}
	return false
}

// Define registers name as an alias for the subtree rooted at root
// within arena. If name is already registered with a structurally
// equivalent subtree, Define is a no-op (idempotent per §3.4). If it
// is registered with a non-equivalent subtree, Define returns a
// redefinition diagnostic and leaves the existing entry untouched.
// On success, Define migrates the AST by copying it into the
// registry's own long-lived arena (§3.2 Ownership) rather than
// retaining a reference into the caller's per-parse arena.
func (r *Registry) Define(name ScopedName, src *Arena, root NodeID, fromEnglish bool, command string, span Span) *Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := name.FullName()
	if existing, ok := r.entries[key]; ok {
		// Equiv compares within one arena, so both subtrees are copied
		// into a scratch arena first.
		cmp := NewArena()
		if cmp.Equiv(copySubtree(existing.Arena, existing.Root, cmp), copySubtree(src, root, cmp)) {
			return nil
		}
		d := errDiag(span, "redefinition", "redefinition of `"+key+"` with a different type")
		return &d
	}

	dst := NewArena()
	newRoot := copySubtree(src, root, dst)
	r.entries[key] = &aliasEntry{
		Name:        name,
		Root:        newRoot,
		Arena:       dst,
		FromEnglish: fromEnglish,
		Command:     command,
	}
	r.order = append(r.order, key)
	return nil
}

// copySubtree deep-copies the subtree rooted at id from src into dst.
// The copied root's Parent is NilNode (the long-lived copy owns nothing
// above itself); each copied Child is linked back to its copied parent,
// while Underlying and parameter subtrees keep Parent NilNode.
func copySubtree(src *Arena, id NodeID, dst *Arena) NodeID {
	if id == NilNode {
		return NilNode
	}
	n := *src.Node(id)
	newID := dst.NewNode(n.Kind, n.Span)
	cp := dst.Node(newID)
	*cp = n
	cp.Parent = NilNode

	cp.Child = copySubtree(src, n.Child, dst)
	if cp.Child != NilNode {
		dst.SetParent(cp.Child, newID)
	}
	cp.Underlying = copySubtree(src, n.Underlying, dst)
	if len(n.Params) > 0 {
		cp.Params = make([]NodeID, len(n.Params))
		for i, p := range n.Params {
			cp.Params[i] = copySubtree(src, p, dst)
		}
	}
	return newID
}

// Dump serialises the registry as an ordered list of re-loadable
// commands, each in the form that declared its alias: an English
// `define` or a native `typedef`/`using` (§6 Persisted state).
func (r *Registry) Dump() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key].Command)
	}
	return out
}

// Names returns every registered alias's full name, sorted, for
// tests and diagnostics (`did you mean`).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load replays a previously-Dumped command list through parse, re-
// populating the registry. Re-loading a list produced under the same
// dialect configuration is idempotent, since each Define call is.
func (r *Registry) Load(commands []string, cfg *Config) []*Diagnostic {
	var diags []*Diagnostic
	for _, cmd := range commands {
		_, cmdDiags := Parse(cmd, cfg, r)
		diags = append(diags, cmdDiags...)
	}
	return diags
}
