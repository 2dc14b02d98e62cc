package prefdoc

// Kind identifies the value type of a Preference. The set is closed; every
// Preference carries exactly one Kind for its whole lifetime.
type Kind int

// Supported preference value kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindBytes
	KindNetAddr
	KindChoice
	KindFlags
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindDecimal: "decimal",
	KindString:  "string",
	KindBytes:   "bytes",
	KindNetAddr: "netaddr",
	KindChoice:  "choice",
	KindFlags:   "flags",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsSelectable reports whether the kind draws its values from a named
// enumeration (single-select or combinable).
func (k Kind) IsSelectable() bool {
	return k == KindChoice || k == KindFlags
}

// IsCombinable reports whether values of the kind may be bitwise
// combinations of enumerants.
func (k Kind) IsCombinable() bool {
	return k == KindFlags
}
