package cdecl

import "strings"

// Dialect is the enumerated id of one supported C or C++ language
// version (§4.1). The two families (C, C++) are each totally
// ordered by release date; there is no ordering between a C dialect
// and a C++ dialect.
type Dialect uint

const (
	DialectKNRC Dialect = iota
	DialectC89
	DialectC95
	DialectC99
	DialectC11
	DialectC17
	DialectC23 // "C2x"

	DialectCPPPre98
	DialectCPP03 // covers C++98 and its 2003 technical corrigendum
	DialectCPP11
	DialectCPP14
	DialectCPP17
	DialectCPP20
	DialectCPP23

	dialectCount
)

// DialectSet is a bitset of Dialect ids, one bit per dialect.
type DialectSet uint64

func dialectBit(d Dialect) DialectSet { return DialectSet(1) << uint(d) }

// ANY, NONE and the per-family singletons used throughout the
// legality tables (§3.1, §4.2).
var (
	None   DialectSet
	C_ANY  = maxSet(cChain, DialectC23)
	CPPAny = maxSet(cppChain, DialectCPP23)
	ANY    = C_ANY | CPPAny
)

var cChain = []Dialect{DialectKNRC, DialectC89, DialectC95, DialectC99, DialectC11, DialectC17, DialectC23}
var cppChain = []Dialect{DialectCPPPre98, DialectCPP03, DialectCPP11, DialectCPP14, DialectCPP17, DialectCPP20, DialectCPP23}

var dialectNames = map[Dialect]string{
	DialectKNRC:     "K&R C",
	DialectC89:      "C89",
	DialectC95:      "C95",
	DialectC99:      "C99",
	DialectC11:      "C11",
	DialectC17:      "C17",
	DialectC23:      "C23",
	DialectCPPPre98: "C++ (pre-98)",
	DialectCPP03:    "C++98/03",
	DialectCPP11:    "C++11",
	DialectCPP14:    "C++14",
	DialectCPP17:    "C++17",
	DialectCPP20:    "C++20",
	DialectCPP23:    "C++23",
}

// NameOf returns the canonical display name of d.
func NameOf(d Dialect) string { return dialectNames[d] }

var dialectIDs = map[string]Dialect{
	"knr": DialectKNRC, "k&r": DialectKNRC, "k&rc": DialectKNRC,
	"c89": DialectC89, "c90": DialectC89,
	"c95": DialectC95,
	"c99": DialectC99,
	"c11": DialectC11,
	"c17": DialectC17, "c18": DialectC17,
	"c2x": DialectC23, "c23": DialectC23,
	"c++98": DialectCPP03, "c++03": DialectCPP03,
	"c++11": DialectCPP11, "c++0x": DialectCPP11,
	"c++14": DialectCPP14,
	"c++17": DialectCPP17,
	"c++20": DialectCPP20, "c++2a": DialectCPP20,
	"c++23": DialectCPP23, "c++2b": DialectCPP23,
}

// ParseDialect resolves a configuration-surface dialect selector
// (§6, e.g. "c11", "c++20", "knr") to a Dialect id.
func ParseDialect(name string) (Dialect, bool) {
	d, ok := dialectIDs[strings.ToLower(name)]
	return d, ok
}

// Has reports whether d is a member of set.
func (set DialectSet) Has(d Dialect) bool { return set&dialectBit(d) != 0 }

// IsC reports whether set is non-empty and contains only C dialects.
func (set DialectSet) IsC() bool { return set != 0 && set&CPPAny == 0 }

// IsCPP reports whether set is non-empty and contains only C++ dialects.
func (set DialectSet) IsCPP() bool { return set != 0 && set&C_ANY == 0 }

// minSet returns every dialect in chain at or after d (inclusive).
func minSet(chain []Dialect, d Dialect) DialectSet {
	var set DialectSet
	found := false
	for _, c := range chain {
		if c == d {
			found = true
		}
		if found {
			set |= dialectBit(c)
		}
	}
	return set
}

// maxSet returns every dialect in chain at or before d (inclusive).
func maxSet(chain []Dialect, d Dialect) DialectSet {
	var set DialectSet
	for _, c := range chain {
		set |= dialectBit(c)
		if c == d {
			break
		}
	}
	return set
}

// chainOf returns the ordered chain d belongs to.
func chainOf(d Dialect) []Dialect {
	for _, c := range cChain {
		if c == d {
			return cChain
		}
	}
	return cppChain
}

// MinC returns {d' : d' >= d} within d's own family (C or C++).
func MinC(d Dialect) DialectSet { return minSet(chainOf(d), d) }

// MaxC returns {d' : d' <= d} within d's own family (C or C++).
func MaxC(d Dialect) DialectSet { return maxSet(chainOf(d), d) }

// Which renders a readable clause describing set for use in
// diagnostics (§4.1): "in C89 and later", "until C++11", "in C++
// only", or "" when set is ANY or None (nothing useful to say). active
// is not consulted.
func Which(set DialectSet, active Dialect) string {
	if set == ANY || set == None {
		return ""
	}
	if set == C_ANY {
		return "in C only"
	}
	if set == CPPAny {
		return "in C++ only"
	}
	// A single contiguous "at or after" run within one family.
	for _, chain := range [][]Dialect{cChain, cppChain} {
		for _, d := range chain {
			if set == minSet(chain, d) {
				if d == chain[0] {
					return ""
				}
				return "in " + NameOf(d) + " and later"
			}
			if set == maxSet(chain, d) {
				if d == chain[len(chain)-1] {
					return ""
				}
				return "until " + NameOf(nextAfter(chain, d))
			}
		}
	}
	// Fall back to an explicit, if verbose, enumeration.
	var names []string
	for _, chain := range [][]Dialect{cChain, cppChain} {
		for _, d := range chain {
			if set.Has(d) {
				names = append(names, NameOf(d))
			}
		}
	}
	return "in " + strings.Join(names, ", ")
}

func nextAfter(chain []Dialect, d Dialect) Dialect {
	for i, c := range chain {
		if c == d && i+1 < len(chain) {
			return chain[i+1]
		}
	}
	return d
}
