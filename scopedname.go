package cdecl

import "strings"

// ScopeKind is the kind of scope a ScopedName segment was declared
// in (§3.3).
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeNamespace
	ScopeInlineNamespace
	ScopeClass
	ScopeStruct
	ScopeUnion
	ScopeGeneric
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeNamespace:
		return "namespace"
	case ScopeInlineNamespace:
		return "inline namespace"
	case ScopeClass:
		return "class"
	case ScopeStruct:
		return "struct"
	case ScopeUnion:
		return "union"
	case ScopeGeneric:
		return "scope"
	default:
		return "none"
	}
}

// looseness ranks each scope kind from loosest (namespaces, which may
// contain anything) to strictest (class/struct/union, which may not
// contain a namespace). Check does not consult these ranks: the only
// nesting it rejects is a namespace inside a class, struct or union
// (§3.3).
var loosenessRank = map[ScopeKind]int{
	ScopeNamespace:       0,
	ScopeInlineNamespace: 0,
	ScopeGeneric:         1,
	ScopeClass:           2,
	ScopeStruct:          2,
	ScopeUnion:           2,
}

func (k ScopeKind) rank() int {
	if r, ok := loosenessRank[k]; ok {
		return r
	}
	return 1
}

// isClassLike reports whether k is class/struct/union — the "stricter"
// kinds that cannot contain a namespace.
func (k ScopeKind) isClassLike() bool {
	return k == ScopeClass || k == ScopeStruct || k == ScopeUnion
}

// ScopeSegment is one `::`-separated component of a ScopedName.
type ScopeSegment struct {
	Name string
	Kind ScopeKind
}

// ScopedName is a non-empty ordered sequence of segments (§3.3).
type ScopedName struct {
	Segments []ScopeSegment
}

// NewScopedName builds a ScopedName from a single unscoped identifier.
func NewScopedName(name string) ScopedName {
	return ScopedName{Segments: []ScopeSegment{{Name: name}}}
}

// IsEmpty reports whether the name has no segments at all (distinct
// from a single segment whose Name is ""; a node with no name, such
// as an abstract declarator, uses IsEmpty).
func (s ScopedName) IsEmpty() bool { return len(s.Segments) == 0 }

// LocalName returns the last segment's name, i.e. the name relative
// to its immediately enclosing scope.
func (s ScopedName) LocalName() string {
	if len(s.Segments) == 0 {
		return ""
	}
	return s.Segments[len(s.Segments)-1].Name
}

// ScopeName returns every segment except the last, joined by `::`.
func (s ScopedName) ScopeName() string {
	if len(s.Segments) <= 1 {
		return ""
	}
	parts := make([]string, len(s.Segments)-1)
	for i, seg := range s.Segments[:len(s.Segments)-1] {
		parts[i] = seg.Name
	}
	return strings.Join(parts, "::")
}

// FullName returns every segment joined by `::`.
func (s ScopedName) FullName() string {
	parts := make([]string, len(s.Segments))
	for i, seg := range s.Segments {
		parts[i] = seg.Name
	}
	return strings.Join(parts, "::")
}

// Append returns a copy of s with a new trailing segment.
func (s ScopedName) Append(name string, kind ScopeKind) ScopedName {
	segs := make([]ScopeSegment, len(s.Segments), len(s.Segments)+1)
	copy(segs, s.Segments)
	segs = append(segs, ScopeSegment{Name: name, Kind: kind})
	return ScopedName{Segments: segs}
}

// Prepend returns a copy of s with a new leading segment.
func (s ScopedName) Prepend(name string, kind ScopeKind) ScopedName {
	segs := make([]ScopeSegment, 0, len(s.Segments)+1)
	segs = append(segs, ScopeSegment{Name: name, Kind: kind})
	segs = append(segs, s.Segments...)
	return ScopedName{Segments: segs}
}

// Dup returns a deep copy of s.
func (s ScopedName) Dup() ScopedName {
	segs := make([]ScopeSegment, len(s.Segments))
	copy(segs, s.Segments)
	return ScopedName{Segments: segs}
}

// SetScopeKind returns a copy of s with the kind of its i'th segment
// replaced by kind.
func (s ScopedName) SetScopeKind(i int, kind ScopeKind) ScopedName {
	s = s.Dup()
	s.Segments[i].Kind = kind
	return s
}

// Compare reports -1/0/1 ordering two scoped names by their full
// dotted name, for use in deterministic sorting (e.g. of registry
// dumps).
func (s ScopedName) Compare(o ScopedName) int {
	return strings.Compare(s.FullName(), o.FullName())
}

// IsConstructorLike reports whether the last two segments share the
// same local name — the way `C::C` is recognised as a constructor
// rather than a same-named nested type (§4.3).
func (s ScopedName) IsConstructorLike() bool {
	n := len(s.Segments)
	if n < 2 {
		return false
	}
	return s.Segments[n-1].Name == s.Segments[n-2].Name
}

// Check validates the nesting-rank invariant (§3.3): a looser scope
// kind cannot be nested inside a stricter one, i.e. once a
// class/struct/union segment appears, no later segment may be a
// namespace. It also rejects a member whose name repeats the name of
// its immediately enclosing class/struct/union (member-vs-enclosing-
// class-name rule; constructors are the sole, explicit exception:
// Check exempts a name for which IsConstructorLike holds).
func (s ScopedName) Check(span Span) *Diagnostic {
	seenClassLike := false
	for i, seg := range s.Segments {
		if seg.Kind.isClassLike() {
			seenClassLike = true
		} else if (seg.Kind == ScopeNamespace || seg.Kind == ScopeInlineNamespace) && seenClassLike {
			d := errDiag(span, "scope-nesting",
				"a namespace cannot be nested inside a "+classLikeKindBefore(s, i).String())
			return &d
		}
		if i > 0 && seg.Kind.isClassLike() {
			enclosing := s.Segments[i-1]
			if enclosing.Kind.isClassLike() && enclosing.Name == seg.Name && !s.IsConstructorLike() {
				d := errDiag(span, "member-matches-class-name",
					"member `"+seg.Name+"` has the same name as its enclosing "+enclosing.Kind.String())
				return &d
			}
		}
	}
	return nil
}

func classLikeKindBefore(s ScopedName, upTo int) ScopeKind {
	for i := upTo - 1; i >= 0; i-- {
		if s.Segments[i].Kind.isClassLike() {
			return s.Segments[i].Kind
		}
	}
	return ScopeGeneric
}
