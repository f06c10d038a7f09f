package cdecl

// CastFlavor names which of the four cast operators a `cast` command
// targets (§4.7 rule family 4).
type CastFlavor int

const (
	CastStatic CastFlavor = iota
	CastConst
	CastDynamic
	CastReinterpret
)

func (f CastFlavor) String() string {
	switch f {
	case CastConst:
		return "const_cast"
	case CastDynamic:
		return "dynamic_cast"
	case CastReinterpret:
		return "reinterpret_cast"
	default:
		return "static_cast"
	}
}

// Checker walks one Declarator Tree applying the rule families of
// §4.7: a single root-to-leaves visitor, first error aborts the walk,
// warnings never short-circuit.
type Checker struct {
	arena   *Arena
	reg     *Registry
	dialect Dialect
}

// NewChecker returns a Checker bound to one arena/registry/dialect.
func NewChecker(arena *Arena, reg *Registry, dialect Dialect) *Checker {
	return &Checker{arena: arena, reg: reg, dialect: dialect}
}

// at reports whether the Checker's active dialect belongs to set.
func (c *Checker) at(set DialectSet) bool { return set.Has(c.dialect) }

func (c *Checker) isC() bool   { return C_ANY.Has(c.dialect) }
func (c *Checker) isCPP() bool { return CPPAny.Has(c.dialect) }

// nodeCtx carries the few pieces of "where am I" information a rule
// needs that the tree shape alone doesn't convey.
type nodeCtx struct {
	pointedTo    bool // this node's parent is a pointer/reference/pointer-to-member
	isTypedefDef bool // this node is the target of a typedef/using/define
	inParamList  bool
}

// Check runs the error pass (which stops at the first failing node)
// followed by the non-short-circuiting warning pass.
func (c *Checker) Check(root NodeID) []Diagnostic {
	var diags []Diagnostic
	if d := c.checkNode(root, nodeCtx{isTypedefDef: c.isTypedefRoot(root)}); d != nil {
		diags = append(diags, *d)
		return diags
	}
	c.warnNode(root, &diags)
	return diags
}

func (c *Checker) isTypedefRoot(root NodeID) bool {
	n := c.arena.Node(root)
	return n != nil && n.Type.Has(StorageTypedef)
}

// checkNode applies every rule family at id, then recurses. It returns
// the first diagnostic encountered (root-to-leaves, left-to-right over
// Params then Child), or nil.
func (c *Checker) checkNode(id NodeID, ctx nodeCtx) *Diagnostic {
	if id == NilNode {
		return nil
	}
	n := c.arena.Node(id)

	if d := c.checkAlignment(id, n, ctx); d != nil {
		return d
	}
	if d := c.checkBuiltinVoid(id, n, ctx); d != nil {
		return d
	}
	if d := c.checkArray(id, n, ctx); d != nil {
		return d
	}
	if d := c.checkPointerRef(id, n); d != nil {
		return d
	}
	if d := c.checkFunctionLike(id, n); d != nil {
		return d
	}
	if d := c.checkReturnType(id, n); d != nil {
		return d
	}
	if d := c.checkUserConversion(id, n); d != nil {
		return d
	}
	if d := c.checkUserLiteral(id, n); d != nil {
		return d
	}
	if d := n.Name.Check(n.Span); d != nil {
		return d
	}
	if n.Kind == KindFunction || n.Kind == KindOperator || n.Kind == KindConstructor || n.Kind == KindUserLiteral {
		if d := c.checkParamList(n.Params); d != nil {
			return d
		}
		for _, p := range n.Params {
			if d := c.checkNode(p, nodeCtx{inParamList: true}); d != nil {
				return d
			}
		}
	}

	childCtx := nodeCtx{pointedTo: n.Kind == KindPointer || n.Kind == KindPointerToMember || n.Kind == KindReference || n.Kind == KindRvalueReference}
	if d := c.checkNode(n.Child, childCtx); d != nil {
		return d
	}
	return c.checkNode(n.Underlying, nodeCtx{})
}

// --- rule family 1: Alignment ---

func (c *Checker) checkAlignment(id NodeID, n *Node, ctx nodeCtx) *Diagnostic {
	if n.Align == nil {
		return nil
	}
	if ctx.isTypedefDef || n.Type.Has(StorageTypedef) {
		d := errDiag(n.Span, "alignment", "a typedef cannot be `alignas`-annotated")
		return &d
	}
	if n.Type.Has(StorageRegister) {
		d := errDiag(n.Span, "alignment", "a `register` object cannot be `alignas`-annotated")
		return &d
	}
	switch n.Align.Kind {
	case AlignInteger:
		v := n.Align.Value
		if v <= 0 || (v&(v-1)) != 0 {
			d := errDiag(n.Span, "alignment", "alignment must be a non-zero power of two")
			return &d
		}
	case AlignType:
		if d := c.checkNode(n.Align.Type, nodeCtx{}); d != nil {
			return d
		}
	}
	return nil
}

// --- rule family 3 (the void half): Built-in ---

func (c *Checker) checkBuiltinVoid(id NodeID, n *Node, ctx nodeCtx) *Diagnostic {
	if n.Kind != KindBuiltin {
		return nil
	}
	if !n.Type.Has(BaseVoid) {
		return c.checkImplicitIntAndBitfield(id, n)
	}
	if ctx.isTypedefDef || ctx.pointedTo {
		return nil
	}
	// A function, operator or block may return void.
	if parent := c.arena.Node(n.Parent); parent != nil && parent.Child == id &&
		(parent.Kind == KindFunction || parent.Kind == KindOperator || parent.Kind == KindAppleBlock) {
		return nil
	}
	d := errDiagHint(n.Span, "void-object", "a plain `void` is not a valid object type",
		"did you mean a pointer to void?")
	return &d
}

func (c *Checker) checkImplicitIntAndBitfield(id NodeID, n *Node) *Diagnostic {
	hasAnyBaseWord := n.Type.Base != 0
	if !hasAnyBaseWord && c.isC() && c.at(MinC(DialectC99)) {
		d := errDiag(n.Span, "implicit-int", "implicit `int` is not allowed in C99 and later")
		return &d
	}
	if n.BitfieldWidth != nil {
		if !n.Name.IsEmpty() && n.Name.LocalName() != "" && len(n.Name.Segments) > 1 {
			d := errDiag(n.Span, "bitfield-scoped-name", "a bit-field cannot carry a scoped name")
			return &d
		}
		if n.Type.Storage&^(storageBitMaskFor(StorageConst)|storageBitMaskFor(StorageVolatile)) != 0 {
			d := errDiag(n.Span, "bitfield-storage-class", "a bit-field cannot carry a storage class")
			return &d
		}
	}
	if n.Type.Has(StorageInline) && !n.Type.Has(StorageTypedef) {
		if c.isCPP() && !c.at(MinC(DialectCPP17)) {
			d := errDiag(n.Span, "inline-variable", "`inline` on a variable requires C++17 or later")
			return &d
		}
	}
	return nil
}

func storageBitMaskFor(b Bit) uint64 { return b.mask() }

// --- rule family 2: Array ---

func (c *Checker) checkArray(id NodeID, n *Node, ctx nodeCtx) *Diagnostic {
	if n.Kind != KindArray {
		return nil
	}
	if n.Size.Kind == ArraySizeVariable {
		if !c.at(MinC(DialectC99)) {
			d := errDiag(n.Span, "variable-length-array", "a variable-length array requires C99 or later")
			return &d
		}
		if !ctx.inParamList {
			d := errDiag(n.Span, "variable-length-array", "a variable-length array is only allowed inside a function parameter")
			return &d
		}
	}
	if n.Type != (TypeValue{}) && !ctx.inParamList {
		d := errDiag(n.Span, "array-size-qualifier", "an array-size qualifier is only allowed inside a function parameter")
		return &d
	}
	elem := c.arena.Node(n.Child)
	if elem != nil {
		switch {
		case elem.Kind == KindBuiltin && elem.Type.Has(BaseVoid):
			d := errDiagHint(n.Span, "array-of-void", "an array cannot have element type `void`", "did you mean an array of pointer to void?")
			return &d
		case elem.Kind == KindFunction:
			d := errDiagHint(n.Span, "array-of-function", "an array cannot have a function element type", "did you mean an array of pointer to function?")
			return &d
		case elem.Kind == KindReference || elem.Kind == KindRvalueReference:
			d := errDiagHint(n.Span, "array-of-reference", "an array cannot have a reference element type", "did you mean a pointer/reference to array?")
			return &d
		}
	}
	return nil
}

// --- rule family 7: Pointer/reference ---

func (c *Checker) checkPointerRef(id NodeID, n *Node) *Diagnostic {
	child := c.arena.Node(n.Child)
	switch n.Kind {
	case KindPointer, KindPointerToMember:
		if child != nil && (child.Kind == KindReference || child.Kind == KindRvalueReference) {
			d := errDiagHint(n.Span, "pointer-to-reference", "a pointer cannot point to a reference", "did you mean a reference to pointer?")
			return &d
		}
		if n.Type.Has(StorageRegister) {
			d := errDiag(n.Span, "pointer-to-register", "a pointer cannot point to a `register` object")
			return &d
		}
		if callConvBits(n.Type) != 0 && (child == nil || child.Kind != KindFunction) {
			d := errDiag(n.Span, "calling-convention", "a calling-convention attribute is only allowed on a function or pointer-to-function")
			return &d
		}
	case KindReference, KindRvalueReference:
		if n.Type.Has(StorageConst) || n.Type.Has(StorageVolatile) || n.Type.Has(StorageAtomic) || n.Type.Has(StorageRestrict) {
			d := errDiagHint(n.Span, "reference-cv", "a reference cannot carry a CV qualifier directly", "did you mean reference-to-const?")
			return &d
		}
		if child != nil {
			if child.Kind == KindBuiltin && child.Type.Has(BaseVoid) {
				d := errDiag(n.Span, "reference-to-void", "a reference cannot refer to `void`")
				return &d
			}
			if child.Kind == KindReference || child.Kind == KindRvalueReference {
				d := errDiag(n.Span, "reference-to-reference", "a reference cannot refer to another reference")
				return &d
			}
		}
	case KindFunction:
		// calling-convention attributes on the function node itself are fine.
	}
	return nil
}

func callConvBits(t TypeValue) uint64 {
	return t.Mask(PartitionAttr) & (AttrCallConvCdecl.mask() | AttrCallConvStdcall.mask() | AttrCallConvFastcall.mask() | AttrCallConvThiscall.mask())
}

// --- rule family 5: Function-like ---

func (c *Checker) checkFunctionLike(id NodeID, n *Node) *Diagnostic {
	switch n.Kind {
	case KindFunction:
		return c.checkPlainFunction(n)
	case KindOperator:
		return c.checkOperator(n)
	case KindConstructor, KindDestructor:
		return c.checkCtorDtor(n)
	}
	return nil
}

func (c *Checker) checkPlainFunction(n *Node) *Diagnostic {
	if n.Name.LocalName() == "main" && !n.IsMember {
		if d := c.checkMainShape(n); d != nil {
			return d
		}
	}
	if n.Type.Has(StorageReference) || n.Type.Has(StorageRvalueRef) {
		if !c.at(MinC(DialectCPP11)) {
			d := errDiag(n.Span, "ref-qualified-member", "a reference-qualified member function requires C++11 or later")
			return &d
		}
		if n.Type.Has(StorageExtern) || n.Type.Has(StorageStatic) {
			d := errDiag(n.Span, "ref-qualified-member", "a reference-qualified member function cannot also be `extern`/`static`")
			return &d
		}
	}
	if n.IsMember && (n.Type.Has(StorageExtern) || n.Type.Has(StorageStatic)) && memberOnlyBits(n.Type) {
		d := errDiag(n.Span, "member-storage-conflict", "a member-only storage bit cannot combine with `extern`/`static`")
		return &d
	}
	if n.Type.Has(StorageDefault) || n.Type.Has(StorageDelete) {
		d := errDiag(n.Span, "defaulted-deleted", "`default`/`delete` is only allowed on special member functions")
		return &d
	}
	return nil
}

func memberOnlyBits(t TypeValue) bool {
	return t.Has(StorageVirtual) || t.Has(StoragePureVirtual) || t.Has(StorageOverride) || t.Has(StorageFinal) || t.Has(StorageMutable)
}

func (c *Checker) checkMainShape(n *Node) *Diagnostic {
	ret := c.arena.Node(n.Child)
	if ret == nil || ret.Kind != KindBuiltin || !ret.Type.Has(BaseInt) || ret.Type.Base&^baseIntMask() != 0 {
		d := errDiag(n.Span, "main-signature", "`main` must return `int`")
		return &d
	}
	if len(n.Params) > 3 {
		d := errDiag(n.Span, "main-signature", "`main` takes at most 3 parameters")
		return &d
	}
	return nil
}

func baseIntMask() uint64 { return BaseInt.mask() }

func (c *Checker) checkOperator(n *Node) *Diagnostic {
	switch n.OperatorID {
	case "++", "--":
		if len(n.Params) == 2 {
			p := c.arena.Node(n.Params[1])
			if p == nil || p.Kind != KindBuiltin || !p.Type.Has(BaseInt) || p.Type.Base&^baseIntMask() != 0 {
				d := errDiag(n.Span, "postfix-operator-param", "the postfix `"+n.OperatorID+"` overload's second parameter must be exactly `int`")
				return &d
			}
		}
	case "->":
		ret := c.arena.Node(n.Child)
		if ret == nil || ret.Kind != KindPointer {
			d := errDiag(n.Span, "operator-arrow-return", "`operator->` must return a pointer to class/struct/union")
			return &d
		}
		pointee := c.arena.Node(ret.Child)
		if pointee == nil || pointee.Kind != KindECSU {
			d := errDiag(n.Span, "operator-arrow-return", "`operator->` must return a pointer to class/struct/union")
			return &d
		}
	case "new", "new[]":
		ret := c.arena.Node(n.Child)
		if ret == nil || ret.Kind != KindPointer {
			d := errDiag(n.Span, "operator-new-return", "`operator "+n.OperatorID+"` must return `void*`")
			return &d
		}
		pointee := c.arena.Node(ret.Child)
		if pointee == nil || pointee.Kind != KindBuiltin || !pointee.Type.Has(BaseVoid) {
			d := errDiag(n.Span, "operator-new-return", "`operator "+n.OperatorID+"` must return `void*`")
			return &d
		}
	case "delete", "delete[]":
		ret := c.arena.Node(n.Child)
		if ret == nil || ret.Kind != KindBuiltin || !ret.Type.Has(BaseVoid) {
			d := errDiag(n.Span, "operator-delete-return", "`operator "+n.OperatorID+"` must return `void`")
			return &d
		}
	}
	if (n.Type.Has(StorageDefault) || n.Type.Has(StorageDelete)) && !isSpecialMember(n.OperatorID) {
		if !(c.at(MinC(DialectCPP20)) && isRelationalOp(n.OperatorID)) {
			d := errDiag(n.Span, "defaulted-deleted", "`default`/`delete` is only allowed on special member functions (or, from C++20, relational operators)")
			return &d
		}
	}
	return nil
}

func isSpecialMember(opID string) bool { return opID == "=" }

func isRelationalOp(opID string) bool {
	switch opID {
	case "==", "!=", "<", "<=", ">", ">=", "<=>":
		return true
	default:
		return false
	}
}

var ctorDtorAllowedDecl = map[Bit]bool{
	StorageExplicit: true, StorageConstexpr: true, StorageConsteval: true, StorageInline: true,
	StorageFriend: true, StorageDefault: true, StorageDelete: true, StorageVirtual: true, StorageNoexcept: true, StorageThrow: true,
}

func (c *Checker) checkCtorDtor(n *Node) *Diagnostic {
	for _, b := range n.Type.Bits() {
		if b.Partition() != PartitionStorage {
			continue
		}
		if !ctorDtorAllowedDecl[b] {
			info, _ := infoOf(b)
			d := errDiag(n.Span, "ctor-dtor-storage", "a constructor/destructor cannot carry `"+info.native+"`")
			return &d
		}
	}
	return nil
}

// --- rule family 6: Parameter validation ---

func (c *Checker) checkParamList(params []NodeID) *Diagnostic {
	seen := map[string]bool{}
	for i, pid := range params {
		p := c.arena.Node(pid)
		if p == nil {
			continue
		}
		if p.Kind == KindVariadic && i != len(params)-1 {
			d := errDiag(p.Span, "variadic-not-last", "a variadic parameter must be last")
			return &d
		}
		if p.Kind == KindBuiltin && p.Type.Has(BaseVoid) {
			if len(params) != 1 || !p.Name.IsEmpty() || p.Type.Base&^BaseVoid.mask() != 0 || p.Type.Storage != 0 {
				d := errDiag(p.Span, "void-parameter", "a `void` parameter is only allowed alone, unnamed and unqualified")
				return &d
			}
		}
		if name := p.Name.LocalName(); name != "" {
			if seen[name] {
				d := errDiag(p.Span, "duplicate-parameter-name", "duplicate parameter name `"+name+"`")
				return &d
			}
			seen[name] = true
		}
		if p.BitfieldWidth != nil {
			d := errDiag(p.Span, "parameter-bitfield", "a parameter cannot have a bit-field width")
			return &d
		}
		if p.Kind == KindBuiltin && p.Type.Has(BaseAuto) && !c.at(MinC(DialectCPP20)) {
			d := errDiag(p.Span, "auto-parameter", "an `auto` parameter requires C++20 or later")
			return &d
		}
		if p.Kind == KindNameOnly && c.at(MinC(DialectC23)) {
			d := errDiag(p.Span, "kr-parameter", "a K&R name-only parameter is rejected from C2x onward")
			return &d
		}
	}
	return nil
}

// --- rule family 8: Return type ---

func (c *Checker) checkReturnType(id NodeID, n *Node) *Diagnostic {
	if n.Kind != KindFunction && n.Kind != KindOperator {
		return nil
	}
	ret := c.arena.Node(n.Child)
	if ret == nil {
		return nil
	}
	if ret.Kind == KindArray {
		d := errDiagHint(n.Span, "return-array", "a function cannot return an array", "did you mean a pointer to array?")
		return &d
	}
	if ret.Kind == KindFunction {
		d := errDiagHint(n.Span, "return-function", "a function cannot return a function", "did you mean a pointer to function?")
		return &d
	}
	if ret.Kind == KindBuiltin && ret.Type.Has(BaseAuto) && !c.at(MinC(DialectCPP14)) {
		d := errDiag(n.Span, "auto-return", "an `auto` return type requires C++14 or later")
		return &d
	}
	if n.Type.Has(StorageExplicit) {
		d := errDiag(n.Span, "explicit-function", "`explicit` cannot be applied to a function declaration at large")
		return &d
	}
	return nil
}

// --- rule family 9: User-defined conversion ---

var conversionAllowedBits = map[Bit]bool{
	StorageExplicit: true, StorageConstexpr: true, StorageVirtual: true, StorageFriend: true, StorageNoexcept: true,
}

func (c *Checker) checkUserConversion(id NodeID, n *Node) *Diagnostic {
	if n.Kind != KindUserConversion {
		return nil
	}
	for _, b := range n.Type.Bits() {
		if b.Partition() != PartitionStorage {
			continue
		}
		if !conversionAllowedBits[b] {
			info, _ := infoOf(b)
			d := errDiag(n.Span, "conversion-storage", "a user-defined conversion cannot carry `"+info.native+"`")
			return &d
		}
	}
	if ret := c.arena.Node(n.Child); ret != nil && ret.Kind == KindArray {
		d := errDiagHint(n.Span, "conversion-to-array", "a user-defined conversion cannot convert to an array", "did you mean to an array's pointer type?")
		return &d
	}
	return nil
}

// --- rule family 10: User-defined literal ---

func (c *Checker) checkUserLiteral(id NodeID, n *Node) *Diagnostic {
	if n.Kind != KindUserLiteral {
		return nil
	}
	if !isValidLiteralParamShape(c.arena, n.Params) {
		d := errDiag(n.Span, "literal-signature", "a user-defined literal's parameter signature must match one of the allowed shapes")
		return &d
	}
	return nil
}

func isValidLiteralParamShape(a *Arena, params []NodeID) bool {
	switch len(params) {
	case 1:
		p := a.Node(params[0])
		if p == nil || p.Kind != KindBuiltin {
			return false
		}
		if p.Type.Has(BaseChar) || p.Type.Has(BaseChar8T) || p.Type.Has(BaseChar16T) || p.Type.Has(BaseChar32T) || p.Type.Has(BaseWCharT) {
			return true
		}
		if p.Type.Has(BaseUnsigned) && p.Type.Has(BaseLongLong) {
			return true
		}
		if p.Type.Has(BaseLong) && p.Type.Has(BaseDouble) {
			return true
		}
		return false
	case 2:
		first := a.Node(params[0])
		if first == nil || first.Kind != KindPointer {
			return false
		}
		return true
	default:
		return false
	}
}

// warnNode runs the six warning kinds over every node, never
// short-circuiting (§4.7).
func (c *Checker) warnNode(id NodeID, diags *[]Diagnostic) {
	if id == NilNode {
		return
	}
	n := c.arena.Node(id)

	if n.Type.Has(StorageRegister) {
		if c.at(MinC(DialectCPP17)) {
			// removed, not merely deprecated; the error pass above would
			// already have this dialect-feature rule in a fuller build.
		} else if c.at(MinC(DialectCPP11)) {
			*diags = append(*diags, warnDiag(n.Span, "deprecated-register", "`register` is deprecated in C++11 and later"))
		}
	}
	if n.Kind == KindUserLiteral && n.Name.LocalName() != "" && n.Name.LocalName()[0] != '_' {
		*diags = append(*diags, warnDiag(n.Span, "reserved-literal-suffix", "a user-defined literal suffix not starting with `_` is reserved"))
	}
	if n.Type.Has(AttrNodiscard) && n.Kind == KindFunction {
		if ret := c.arena.Node(n.Child); ret != nil && ret.Kind == KindBuiltin && ret.Type.Has(BaseVoid) {
			*diags = append(*diags, warnDiag(n.Span, "nodiscard-void", "`nodiscard` on a function returning `void` is ineffective"))
		}
	}
	if n.Type.Has(StorageThrow) && c.at(MinC(DialectCPP11)) {
		*diags = append(*diags, warnDiag(n.Span, "deprecated-throw", "`throw(...)` is deprecated in C++11 and later"))
	}
	if n.Kind == KindNameOnly && c.isC() && c.at(MinC(DialectC89)) {
		*diags = append(*diags, warnDiag(n.Span, "kr-parameter-int", "a K&R name-only parameter assumes `int`"))
	}
	if local := n.Name.LocalName(); local != "" && isReservedName(local) {
		*diags = append(*diags, warnDiag(n.Span, "reserved-name", "`"+local+"` matches a reserved-name pattern"))
	}

	for _, p := range n.Params {
		c.warnNode(p, diags)
	}
	c.warnNode(n.Child, diags)
	c.warnNode(n.Underlying, diags)
}

func isReservedName(s string) bool {
	if len(s) >= 2 && s[0] == '_' && s[1] >= 'A' && s[1] <= 'Z' {
		return true
	}
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '_' && s[i+1] == '_' {
			return true
		}
	}
	return false
}

// CheckCast applies rule family 4 to the target of a `cast` command
// (§4.7). Unlike checkNode, this only runs against the cast's
// top-level target type, matching the rule's wording.
func CheckCast(flavor CastFlavor, target NodeID, arena *Arena, dialect Dialect) *Diagnostic {
	n := arena.Node(target)
	if n == nil {
		return nil
	}
	if n.Type.Storage != 0 {
		d := errDiag(n.Span, "cast-storage", "no storage-class bits may be set on a cast target")
		return &d
	}
	switch flavor {
	case CastConst:
		if n.Kind != KindPointer && n.Kind != KindReference && n.Kind != KindRvalueReference && n.Kind != KindPointerToMember {
			d := errDiag(n.Span, "const-cast-target", "`const_cast` may only target a pointer, reference, or pointer-to-member")
			return &d
		}
	case CastDynamic:
		isPtrOrRefToClass := false
		if n.Kind == KindPointer || n.Kind == KindReference {
			if c := arena.Node(n.Child); c != nil && c.Kind == KindECSU {
				isPtrOrRefToClass = true
			}
		}
		if !isPtrOrRefToClass {
			d := errDiag(n.Span, "dynamic-cast-target", "`dynamic_cast` may only target a pointer/reference to a class/struct")
			return &d
		}
	case CastReinterpret:
		if n.Kind == KindBuiltin && n.Type.Has(BaseVoid) {
			d := errDiag(n.Span, "reinterpret-cast-void", "`reinterpret_cast` cannot target `void`")
			return &d
		}
	}
	return nil
}
