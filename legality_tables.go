package cdecl

// legalityTable is a sparse representation of the square
// lower-triangular matrix described in §3.1: only cells that are
// *not* ANY need an entry. Lookup normalizes the (a, b) index pair so
// only the lower triangle is ever populated (§8.4) — the pair (a, b)
// and (b, a) always resolve to the same cell.
type legalityTable map[[2]Bit]DialectSet

var pairTables = map[Partition]legalityTable{
	PartitionBase:    {},
	PartitionStorage: {},
	PartitionAttr:    {},
}

// cellKey orders a pair of bits so (a, b) and (b, a) hash the same.
func cellKey(a, b Bit) [2]Bit {
	if a > b {
		a, b = b, a
	}
	return [2]Bit{a, b}
}

func registerPair(a, b Bit, set DialectSet) {
	if a.Partition() != b.Partition() {
		panic("cdecl: legality pair spans two partitions")
	}
	pairTables[a.Partition()][cellKey(a, b)] = set
}

// legalityCell looks up the dialect set in which bits a and b are
// jointly legal. Cells with no explicit entry default to ANY.
func legalityCell(a, b Bit) DialectSet {
	if a.Partition() != b.Partition() {
		return ANY
	}
	if set, ok := pairTables[a.Partition()][cellKey(a, b)]; ok {
		return set
	}
	return ANY
}

func init() {
	registerBaseLegality()
	registerStorageLegality()
	registerAttrLegality()
}

// registerBaseLegality encodes the base-partition pairs that are
// never, or only conditionally, legal together.
func registerBaseLegality() {
	allBase := []Bit{
		BaseVoid, BaseAuto, BaseBool, BaseChar, BaseChar8T, BaseChar16T, BaseChar32T, BaseWCharT,
		BaseShort, BaseInt, BaseLong, BaseLongLong, BaseSigned, BaseUnsigned, BaseFloat, BaseDouble,
		BaseComplex, BaseImaginary, BaseEnum, BaseStruct, BaseUnion, BaseClass, BaseNamespace,
		BaseScope, BaseAccum, BaseFract, BaseSat,
	}
	// void, the ECSU kinds, and auto are "alone" bits: nothing else
	// may combine with them (they denote the whole base type).
	aloneBits := []Bit{BaseVoid, BaseAuto, BaseEnum, BaseStruct, BaseUnion, BaseClass, BaseNamespace, BaseScope}
	for _, alone := range aloneBits {
		for _, other := range allBase {
			if other == alone {
				continue
			}
			registerPair(alone, other, None)
		}
	}

	// signed/unsigned apply only to integral bases.
	integral := []Bit{BaseChar, BaseShort, BaseInt, BaseLong, BaseLongLong}
	nonIntegral := []Bit{BaseBool, BaseFloat, BaseDouble, BaseChar8T, BaseChar16T, BaseChar32T, BaseWCharT}
	for _, ni := range nonIntegral {
		registerPair(BaseSigned, ni, None)
		registerPair(BaseUnsigned, ni, None)
	}
	_ = integral

	// short/long only combine with int or with each other's own kind.
	nonIntWidth := []Bit{BaseBool, BaseChar, BaseFloat, BaseChar8T, BaseChar16T, BaseChar32T, BaseWCharT}
	for _, ni := range nonIntWidth {
		registerPair(BaseShort, ni, None)
		registerPair(BaseLong, ni, None)
		registerPair(BaseLongLong, ni, None)
	}
	registerPair(BaseShort, BaseLong, None)
	registerPair(BaseShort, BaseLongLong, None)

	// long applies to double (C's `long double`), short does not.
	registerPair(BaseShort, BaseDouble, None)

	// complex/imaginary are floating-point-only, C99+.
	for _, ni := range []Bit{BaseBool, BaseChar, BaseShort, BaseInt, BaseLong, BaseLongLong,
		BaseChar8T, BaseChar16T, BaseChar32T, BaseWCharT} {
		registerPair(BaseComplex, ni, None)
		registerPair(BaseImaginary, ni, None)
	}

	// Embedded-C fixed-point bits don't mix with floating or char bits.
	for _, ni := range []Bit{BaseFloat, BaseDouble, BaseComplex, BaseImaginary, BaseBool,
		BaseChar, BaseChar8T, BaseChar16T, BaseChar32T, BaseWCharT} {
		registerPair(BaseAccum, ni, None)
		registerPair(BaseFract, ni, None)
	}
	registerPair(BaseAccum, BaseFract, None)
}

func registerStorageLegality() {
	// Mutually exclusive storage classes (a declarator has at most
	// one primary storage class).
	primary := []Bit{StorageAutoKw, StorageExtern, StorageRegister, StorageStatic, StorageTypedef, StorageThreadLocal}
	for i := 0; i < len(primary); i++ {
		for j := i + 1; j < len(primary); j++ {
			// `static thread_local` and `extern thread_local` are
			// legal in C11+/C++11+; every other primary/primary pair
			// conflicts outright.
			if (primary[i] == StorageThreadLocal && (primary[j] == StorageStatic || primary[j] == StorageExtern)) ||
				(primary[j] == StorageThreadLocal && (primary[i] == StorageStatic || primary[i] == StorageExtern)) {
				registerPair(primary[i], primary[j], MinC(DialectC11)|MinC(DialectCPP11))
				continue
			}
			registerPair(primary[i], primary[j], None)
		}
	}

	// const/volatile/restrict/_Atomic are independent qualifiers and
	// need no entries (default ANY); virtual/override/final are
	// mutually compatible (override implies virtual — §3.1 invariant
	// (iv) is a rendering rule, not a legality one).

	// default and delete are mutually exclusive.
	registerPair(StorageDefault, StorageDelete, None)

	// consteval/constexpr/constinit are mutually exclusive specifiers.
	registerPair(StorageConsteval, StorageConstexpr, None)
	registerPair(StorageConsteval, StorageConstinit, None)
	registerPair(StorageConstexpr, StorageConstinit, None)

	// A member function is reference-qualified by `&` xor `&&`.
	registerPair(StorageReference, StorageRvalueRef, None)
}

func registerAttrLegality() {
	// Calling-convention attributes are mutually exclusive — a
	// function has at most one.
	conv := []Bit{AttrCallConvCdecl, AttrCallConvStdcall, AttrCallConvFastcall, AttrCallConvThiscall}
	for i := 0; i < len(conv); i++ {
		for j := i + 1; j < len(conv); j++ {
			registerPair(conv[i], conv[j], None)
		}
	}
}
