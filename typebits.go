package cdecl

// Partition is one of the three disjoint bit spaces a type attribute
// can live in (§3.1).
type Partition uint8

const (
	PartitionBase Partition = iota
	PartitionStorage
	PartitionAttr
)

func (p Partition) String() string {
	switch p {
	case PartitionBase:
		return "base"
	case PartitionStorage:
		return "storage"
	case PartitionAttr:
		return "attribute"
	default:
		return "unknown"
	}
}

// Bit identifies a single type attribute. The partition tag lives in
// the top byte so it can always be recovered from the value alone
// (§3.1 invariant), while the low bits are a one-hot mask within that
// partition's 56-bit space.
type Bit uint64

const partitionTagShift = 56

func mkBit(part Partition, index uint) Bit {
	if index >= partitionTagShift {
		panic("cdecl: too many bits in partition")
	}
	return Bit(uint64(part)<<partitionTagShift | (uint64(1) << index))
}

// Partition recovers which of the three bitsets b belongs to.
func (b Bit) Partition() Partition { return Partition(uint64(b) >> partitionTagShift) }

// mask returns the pure one-hot value of b with the partition tag
// cleared, suitable for OR-ing into a TypeValue's per-partition mask.
func (b Bit) mask() uint64 { return uint64(b) &^ (uint64(0xff) << partitionTagShift) }

// bitIndexer hands out sequential one-hot positions per partition so
// the const blocks below read as a plain enumeration.
type bitIndexer struct {
	part Partition
	next uint
}

func newBitIndexer(part Partition) *bitIndexer { return &bitIndexer{part: part} }

func (bi *bitIndexer) next_() Bit {
	b := mkBit(bi.part, bi.next)
	bi.next++
	return b
}

// Base bits (mutually constraining with each other — §3.1).
var (
	baseIdx = newBitIndexer(PartitionBase)

	BaseVoid      = baseIdx.next_()
	BaseAuto      = baseIdx.next_() // placeholder-`auto` (C++11 return-type / C++14 var deduction)
	BaseBool      = baseIdx.next_()
	BaseChar      = baseIdx.next_()
	BaseChar8T    = baseIdx.next_()
	BaseChar16T   = baseIdx.next_()
	BaseChar32T   = baseIdx.next_()
	BaseWCharT    = baseIdx.next_()
	BaseShort     = baseIdx.next_()
	BaseInt       = baseIdx.next_()
	BaseLong      = baseIdx.next_()
	BaseLongLong  = baseIdx.next_()
	BaseSigned    = baseIdx.next_()
	BaseUnsigned  = baseIdx.next_()
	BaseFloat     = baseIdx.next_()
	BaseDouble    = baseIdx.next_()
	BaseComplex   = baseIdx.next_()
	BaseImaginary = baseIdx.next_()
	BaseEnum      = baseIdx.next_()
	BaseStruct    = baseIdx.next_()
	BaseUnion     = baseIdx.next_()
	BaseClass     = baseIdx.next_()
	BaseNamespace = baseIdx.next_()
	BaseScope     = baseIdx.next_()
	BaseTypedef   = baseIdx.next_() // opaque-typedef marker: "this base is a named alias"
	BaseAccum     = baseIdx.next_() // Embedded-C _Accum
	BaseFract     = baseIdx.next_() // Embedded-C _Fract
	BaseSat       = baseIdx.next_() // Embedded-C _Sat
)

// Storage/qualifier bits.
var (
	storageIdx = newBitIndexer(PartitionStorage)

	StorageAutoKw       = storageIdx.next_() // `auto` used as a storage class, not the base-bit placeholder
	StorageAppleBlock   = storageIdx.next_() // `__block`
	StorageExtern       = storageIdx.next_()
	StorageExternC      = storageIdx.next_()
	StorageRegister     = storageIdx.next_()
	StorageStatic       = storageIdx.next_()
	StorageThreadLocal  = storageIdx.next_()
	StorageTypedef      = storageIdx.next_()
	StorageConsteval    = storageIdx.next_()
	StorageConstexpr    = storageIdx.next_()
	StorageConstinit    = storageIdx.next_()
	StorageDefault      = storageIdx.next_()
	StorageDelete       = storageIdx.next_()
	StorageExplicit     = storageIdx.next_()
	StorageExport       = storageIdx.next_()
	StorageFinal        = storageIdx.next_()
	StorageFriend       = storageIdx.next_()
	StorageInline       = storageIdx.next_()
	StorageMutable      = storageIdx.next_()
	StorageNoexcept     = storageIdx.next_()
	StorageOverride     = storageIdx.next_()
	StorageThrow        = storageIdx.next_()
	StorageVirtual      = storageIdx.next_()
	StoragePureVirtual  = storageIdx.next_()
	StorageConst        = storageIdx.next_()
	StorageVolatile     = storageIdx.next_()
	StorageRestrict     = storageIdx.next_()
	StorageAtomic       = storageIdx.next_() // `_Atomic`
	StorageReference    = storageIdx.next_() // reference-as-qualifier (member-function `&`)
	StorageRvalueRef    = storageIdx.next_() // rvalue-reference-as-qualifier (member-function `&&`)
	StorageUPCShared    = storageIdx.next_()
	StorageUPCStrict    = storageIdx.next_()
	StorageUPCRelaxed   = storageIdx.next_()
)

// Attribute bits.
var (
	attrIdx = newBitIndexer(PartitionAttr)

	AttrCarriesDependency = attrIdx.next_()
	AttrDeprecated        = attrIdx.next_()
	AttrMaybeUnused       = attrIdx.next_()
	AttrNodiscard         = attrIdx.next_()
	AttrNoreturn          = attrIdx.next_()
	AttrNoUniqueAddress   = attrIdx.next_()
	AttrCallConvCdecl     = attrIdx.next_()
	AttrCallConvStdcall   = attrIdx.next_()
	AttrCallConvFastcall  = attrIdx.next_()
	AttrCallConvThiscall  = attrIdx.next_()
)

// bitInfo gives one bit its English and native spellings and the
// dialects it is meaningful in; the tables below back the lexer's
// keyword tables and the renderer's canonical ordering (§4.2 `name`).
type bitInfo struct {
	bit      Bit
	english  string
	native   string
	dialects DialectSet // per-bit table: dialects in which the bit itself is meaningful
}

var allBaseBits = []bitInfo{
	{BaseVoid, "void", "void", ANY},
	{BaseAuto, "auto", "auto", MinC(DialectCPP11)},
	{BaseBool, "boolean", "bool", MinC(DialectC99) | CPPAny},
	{BaseSigned, "signed", "signed", ANY},
	{BaseUnsigned, "unsigned", "unsigned", ANY},
	{BaseChar, "character", "char", ANY},
	{BaseChar8T, "8-bit character", "char8_t", MinC(DialectC23) | MinC(DialectCPP20)},
	{BaseChar16T, "16-bit character", "char16_t", MinC(DialectC11) | MinC(DialectCPP11)},
	{BaseChar32T, "32-bit character", "char32_t", MinC(DialectC11) | MinC(DialectCPP11)},
	{BaseWCharT, "wide character", "wchar_t", MinC(DialectC89) | CPPAny},
	{BaseShort, "short", "short", ANY},
	{BaseInt, "integer", "int", ANY},
	{BaseLong, "long", "long", ANY},
	{BaseLongLong, "long long", "long long", MinC(DialectC99) | MinC(DialectCPP11)},
	{BaseFloat, "floating", "float", ANY},
	{BaseDouble, "double", "double", ANY},
	{BaseComplex, "complex", "_Complex", MinC(DialectC99)},
	{BaseImaginary, "imaginary", "_Imaginary", MinC(DialectC99)},
	{BaseEnum, "enumeration", "enum", ANY},
	{BaseStruct, "structure", "struct", ANY},
	{BaseUnion, "union", "union", ANY},
	{BaseClass, "class", "class", CPPAny},
	{BaseNamespace, "namespace", "namespace", MinC(DialectCPP03)},
	{BaseScope, "scope", "scope", ANY},
	{BaseTypedef, "typedef", "typedef", ANY},
	{BaseAccum, "accum", "_Accum", ANY},
	{BaseFract, "fract", "_Fract", ANY},
	{BaseSat, "saturating", "_Sat", ANY},
}

var allStorageBits = []bitInfo{
	{StorageAutoKw, "automatic", "auto", MaxC(DialectCPP03) | MaxC(DialectC17)},
	{StorageAppleBlock, "block", "__block", ANY},
	{StorageExtern, "external", "extern", ANY},
	{StorageExternC, "external \"C\"", `extern "C"`, CPPAny},
	{StorageRegister, "register", "register", ANY},
	{StorageStatic, "static", "static", ANY},
	{StorageThreadLocal, "thread local", "thread_local", MinC(DialectC11) | MinC(DialectCPP11)},
	{StorageTypedef, "typedef", "typedef", ANY},
	{StorageConsteval, "consteval", "consteval", MinC(DialectCPP20)},
	{StorageConstexpr, "constexpr", "constexpr", MinC(DialectCPP11)},
	{StorageConstinit, "constinit", "constinit", MinC(DialectCPP20)},
	{StorageDefault, "default", "= default", MinC(DialectCPP11)},
	{StorageDelete, "deleted", "= delete", MinC(DialectCPP11)},
	{StorageExplicit, "explicit", "explicit", CPPAny},
	{StorageExport, "export", "export", MinC(DialectCPP11)},
	{StorageFinal, "final", "final", MinC(DialectCPP11)},
	{StorageFriend, "friend", "friend", CPPAny},
	{StorageInline, "inline", "inline", MinC(DialectC99) | CPPAny},
	{StorageMutable, "mutable", "mutable", CPPAny},
	{StorageNoexcept, "non-throwing", "noexcept", MinC(DialectCPP11)},
	{StorageOverride, "override", "override", MinC(DialectCPP11)},
	{StorageThrow, "throwing", "throw", CPPAny},
	{StorageVirtual, "virtual", "virtual", CPPAny},
	{StoragePureVirtual, "pure virtual", "= 0", CPPAny},
	{StorageConst, "constant", "const", ANY},
	{StorageVolatile, "volatile", "volatile", ANY},
	{StorageRestrict, "restricted", "restrict", MinC(DialectC99)},
	{StorageAtomic, "atomic", "_Atomic", MinC(DialectC11)},
	{StorageReference, "reference", "&", MinC(DialectCPP11)},
	{StorageRvalueRef, "rvalue reference", "&&", MinC(DialectCPP11)},
	{StorageUPCShared, "shared", "shared", ANY},
	{StorageUPCStrict, "strict", "strict", ANY},
	{StorageUPCRelaxed, "relaxed", "relaxed", ANY},
}

var allAttrBits = []bitInfo{
	{AttrCarriesDependency, "carries dependency", "carries_dependency", MinC(DialectCPP11)},
	{AttrDeprecated, "deprecated", "deprecated", MinC(DialectC23) | MinC(DialectCPP14)},
	{AttrMaybeUnused, "maybe unused", "maybe_unused", MinC(DialectC23) | MinC(DialectCPP17)},
	{AttrNodiscard, "non-discardable", "nodiscard", MinC(DialectC23) | MinC(DialectCPP17)},
	{AttrNoreturn, "non-returning", "noreturn", MinC(DialectC11) | MinC(DialectCPP11)},
	{AttrNoUniqueAddress, "no unique address", "no_unique_address", MinC(DialectCPP20)},
	{AttrCallConvCdecl, "cdecl", "__cdecl", ANY},
	{AttrCallConvStdcall, "stdcall", "__stdcall", ANY},
	{AttrCallConvFastcall, "fastcall", "__fastcall", ANY},
	{AttrCallConvThiscall, "thiscall", "__thiscall", ANY},
}

func bitsOf(part Partition) []bitInfo {
	switch part {
	case PartitionBase:
		return allBaseBits
	case PartitionStorage:
		return allStorageBits
	default:
		return allAttrBits
	}
}

func infoOf(b Bit) (bitInfo, bool) {
	for _, info := range bitsOf(b.Partition()) {
		if info.bit == b {
			return info, true
		}
	}
	return bitInfo{}, false
}
