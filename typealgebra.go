package cdecl

import "strings"

// TypeValue is the type triple described in §3.1: three disjoint
// bitsets, one per Partition. It is a plain value — copying it copies
// the whole type, which is what every tree node and every operation
// below wants.
type TypeValue struct {
	Base    uint64
	Storage uint64
	Attr    uint64
}

// Has reports whether b is set in t.
func (t TypeValue) Has(b Bit) bool {
	return t.maskOf(b.Partition())&b.mask() != 0
}

func (t TypeValue) maskOf(part Partition) uint64 {
	switch part {
	case PartitionBase:
		return t.Base
	case PartitionStorage:
		return t.Storage
	default:
		return t.Attr
	}
}

func (t TypeValue) withMask(part Partition, m uint64) TypeValue {
	switch part {
	case PartitionBase:
		t.Base = m
	case PartitionStorage:
		t.Storage = m
	default:
		t.Attr = m
	}
	return t
}

// set unconditionally ORs b into t, bypassing Add's conflict checks.
// Used internally and by tests that want to build a type value
// without exercising the `conflicting type specifier` rule.
func (t TypeValue) set(b Bit) TypeValue {
	return t.withMask(b.Partition(), t.maskOf(b.Partition())|b.mask())
}

func (t TypeValue) clear(b Bit) TypeValue {
	return t.withMask(b.Partition(), t.maskOf(b.Partition())&^b.mask())
}

// Union merges two type values bit-for-bit across all three
// partitions, with no conflict checking — callers that need the
// `conflicting type specifier` rule should use Add.
func (t TypeValue) Union(o TypeValue) TypeValue {
	return TypeValue{Base: t.Base | o.Base, Storage: t.Storage | o.Storage, Attr: t.Attr | o.Attr}
}

// Mask returns the raw one-hot mask for a single partition, e.g. for
// a legality-table row/column lookup restricted to that partition.
func (t TypeValue) Mask(part Partition) uint64 { return t.maskOf(part) }

// Diff returns the bits present in t but absent from o, per partition.
func (t TypeValue) Diff(o TypeValue) TypeValue {
	return TypeValue{Base: t.Base &^ o.Base, Storage: t.Storage &^ o.Storage, Attr: t.Attr &^ o.Attr}
}

// Bits returns every Bit set in t, in a fixed, deterministic order
// (partition order, then declaration order within the partition) —
// this is the canonical ordering the Renderer relies on (§4.2).
func (t TypeValue) Bits() []Bit {
	var out []Bit
	for _, part := range []Partition{PartitionStorage, PartitionAttr, PartitionBase} {
		for _, info := range bitsOf(part) {
			if t.Has(info.bit) {
				out = append(out, info.bit)
			}
		}
	}
	return out
}

// Add inserts bit b into t (§4.2 `add`). It fails with a
// "conflicting type specifier" diagnostic if the bit is already set,
// except that setting `long` a second time (with no float/double
// present) promotes the type to `long long` instead of conflicting.
func (t TypeValue) Add(b Bit, span Span) (TypeValue, *Diagnostic) {
	if b == BaseLong && t.Has(BaseLongLong) {
		d := errDiag(span, "conflicting-type", "conflicting type specifier: `long`")
		return t, &d
	}
	if b == BaseLong && t.Has(BaseLong) && !t.Has(BaseFloat) && !t.Has(BaseDouble) {
		nt := t.clear(BaseLong).set(BaseLongLong)
		return nt, nil
	}
	if t.Has(b) {
		info, _ := infoOf(b)
		d := errDiag(span, "conflicting-type", "conflicting type specifier: `"+info.native+"`")
		return t, &d
	}
	return t.set(b), nil
}

// Normalize removes redundant bits so that structurally-equal types
// compare and render identically (§4.2 `normalize`, invariant (v)).
// `normalize(normalize(v)) == normalize(v)` for every v (§8.2).
func (t TypeValue) Normalize() TypeValue {
	hasOtherBaseNumber := t.Has(BaseShort) || t.Has(BaseInt) || t.Has(BaseLong) ||
		t.Has(BaseLongLong) || t.Has(BaseFloat) || t.Has(BaseDouble)
	if t.Has(BaseSigned) && !t.Has(BaseChar) && hasOtherBaseNumber {
		t = t.clear(BaseSigned)
	}
	return t
}

// RenderForm selects which surface vocabulary TypeValue.Name uses.
type RenderForm int

const (
	FormEnglish RenderForm = iota
	FormNative
)

// typeCanonicalOrder fixes the order bits are printed in, independent
// of insertion order, matching idiomatic C/C++ output (storage class
// and qualifiers, then attributes, then base — e.g. "static const
// unsigned long" in native form). Name places attribute words apart
// from this run.
var typeCanonicalOrder = []Partition{PartitionStorage, PartitionAttr, PartitionBase}

// Name renders t to text in either English or native form, in the
// canonical bit order (§4.2 `name`). Renderers elsewhere must not
// reshuffle this order — it is this component's design contract.
func (t TypeValue) Name(form RenderForm, cfg *Config) string {
	var words []string
	var attrWords []string

	for _, part := range typeCanonicalOrder {
		for _, info := range bitsOf(part) {
			if !t.Has(info.bit) {
				continue
			}
			// The opaque typedef marker and the `typedef` storage
			// bit never print as their own word; the alias name or
			// the kind word covers them elsewhere.
			if info.bit == BaseTypedef || info.bit == StorageTypedef {
				continue
			}
			word := info.english
			if form == FormNative {
				word = info.native
			}
			if part == PartitionAttr {
				attrWords = append(attrWords, word)
				continue
			}
			words = append(words, word)
		}
	}

	if form == FormEnglish {
		if len(words) == 0 || isOnlyModifierWords(t) {
			words = append(words, "integer")
		}
	} else {
		words = suppressImplicitInt(t, words)
	}

	out := strings.Join(words, " ")
	if len(attrWords) > 0 {
		if form == FormNative {
			out = strings.TrimSpace(out + " [[" + strings.Join(attrWords, ", ") + "]]")
		} else {
			out = strings.TrimSpace(strings.Join(attrWords, " ") + " " + out)
		}
	}
	return out
}

// isOnlyModifierWords reports whether t carries only short/long/
// signed/unsigned with no int/char/float/... base word — the case
// where English rendering must add an implicit "integer".
func isOnlyModifierWords(t TypeValue) bool {
	hasModifier := t.Has(BaseShort) || t.Has(BaseLong) || t.Has(BaseLongLong) ||
		t.Has(BaseSigned) || t.Has(BaseUnsigned)
	hasOtherBase := false
	for _, info := range allBaseBits {
		switch info.bit {
		case BaseShort, BaseLong, BaseLongLong, BaseSigned, BaseUnsigned, BaseInt:
			continue
		}
		if t.Has(info.bit) {
			hasOtherBase = true
		}
	}
	return hasModifier && !hasOtherBase
}

// suppressImplicitInt drops the literal "int" word from native
// rendering when a modifier (short/long/signed/unsigned) already
// implies it, e.g. "unsigned long" rather than "unsigned long int" —
// matching idiomatic native spelling. The spec only requires implicit
// int be *suppressed*, not that "int" is illegal to spell out; we
// keep it when int is the only base word (plain `int`).
func suppressImplicitInt(t TypeValue, words []string) []string {
	if !t.Has(BaseInt) {
		return words
	}
	hasModifier := t.Has(BaseShort) || t.Has(BaseLong) || t.Has(BaseLongLong) ||
		t.Has(BaseSigned) || t.Has(BaseUnsigned)
	if !hasModifier {
		return words
	}
	out := words[:0:0]
	for _, w := range words {
		if w == "int" {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Check returns the dialect set in which t is legal (§4.2 `check`).
// A result equal to ANY means every constraint passed. Otherwise the
// result is the narrowest offending cell: a per-bit dialect set if a
// single bit isn't meaningful in the active family, or a pair-legality
// cell if two bits conflict.
func (t TypeValue) Check(active Dialect) DialectSet {
	bits := t.Bits()
	for _, b := range bits {
		info, ok := infoOf(b)
		if ok && info.dialects != ANY && !info.dialects.Has(active) {
			return info.dialects
		}
	}
	for i := 0; i < len(bits); i++ {
		for j := i + 1; j < len(bits); j++ {
			if bits[i].Partition() != bits[j].Partition() {
				continue
			}
			cell := legalityCell(bits[i], bits[j])
			if cell != ANY && !cell.Has(active) {
				return cell
			}
		}
	}
	return ANY
}
