package metadata

// CallingConvention is the low nibble (plus HASTHIS/EXPLICITTHIS/GENERIC
// flag bits) of a method signature's leading byte (ECMA-335 §II.23.2.1).
type CallingConvention byte

// Calling convention kinds (low 4 bits) and flag bits (high nibble).
const (
	CallingConventionDefault  CallingConvention = 0x0
	CallingConventionC        CallingConvention = 0x1
	CallingConventionStdCall  CallingConvention = 0x2
	CallingConventionThisCall CallingConvention = 0x3
	CallingConventionFastCall CallingConvention = 0x4
	CallingConventionVarArg   CallingConvention = 0x5
	CallingConventionField    CallingConvention = 0x6
	CallingConventionGenericInst CallingConvention = 0xA

	callingConventionKindMask CallingConvention = 0x0F

	CallingConventionGeneric      CallingConvention = 0x10
	CallingConventionHasThis      CallingConvention = 0x20
	CallingConventionExplicitThis CallingConvention = 0x40
)

// Kind extracts the calling-convention kind, discarding the flag bits.
func (c CallingConvention) Kind() CallingConvention { return c & callingConventionKindMask }

// IsVarArg reports whether the kind is the native-vararg calling
// convention (not to be confused with a managed `params`/vararg method,
// which uses CallingConventionDefault with extra MemberRef parameters at
// the call site — ECMA-335 draws this distinction explicitly).
func (c CallingConvention) IsVarArg() bool { return c.Kind() == CallingConventionVarArg }

// HasThis reports the HASTHIS flag bit.
func (c CallingConvention) HasThis() bool { return c&CallingConventionHasThis != 0 }

// ExplicitThis reports the EXPLICITTHIS flag bit.
func (c CallingConvention) ExplicitThis() bool { return c&CallingConventionExplicitThis != 0 }

// IsGeneric reports the GENERIC flag bit (the signature carries a generic
// parameter count).
func (c CallingConvention) IsGeneric() bool { return c&CallingConventionGeneric != 0 }

// MethodSignature is `(callingConvention, hasThis, explicitThis, isVarArg,
// genericParamCount, returnType, parameterTypes, sentinelIndex?)` (§3/§4).
type MethodSignature struct {
	CallingConvention CallingConvention
	GenericParamCount uint32
	ReturnType        TypeSignature
	ParameterTypes    []TypeSignature

	// SentinelIndex is the index within ParameterTypes at which a vararg
	// call site's extra arguments begin (ELEMENT_TYPE_SENTINEL's position),
	// or -1 when the signature has no sentinel.
	SentinelIndex int
}

func (*MethodSignature) isMemberSignature() {}

// NewMethodSignature builds a method signature with the given calling
// convention and no sentinel (SentinelIndex -1).
func NewMethodSignature(cc CallingConvention, genericCount uint32, ret TypeSignature, params []TypeSignature) *MethodSignature {
	return &MethodSignature{
		CallingConvention: cc,
		GenericParamCount: genericCount,
		ReturnType:        ret,
		ParameterTypes:    params,
		SentinelIndex:     -1,
	}
}

// HasThis reports whether the signature's calling convention carries an
// implicit `this` parameter.
func (m *MethodSignature) HasThis() bool { return m.CallingConvention.HasThis() }

// IsVarArg reports whether ECMA-335's vararg calling convention is set
// (distinct from a sentinel-carrying call-site signature, though the two
// usually co-occur).
func (m *MethodSignature) IsVarArg() bool { return m.CallingConvention.IsVarArg() }

// HasSentinel reports whether SentinelIndex names a real boundary.
func (m *MethodSignature) HasSentinel() bool { return m.SentinelIndex >= 0 }
