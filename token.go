package tokjson

// Kind identifies one JSON lexical event.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindDouble
	KindRawNumber
	KindString
	KindStartObject
	KindKey
	KindEndObject
	KindStartArray
	KindEndArray
)

// String returns the kind name as it appears in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindDouble:
		return "double"
	case KindRawNumber:
		return "number"
	case KindString:
		return "string"
	case KindStartObject:
		return "start object"
	case KindKey:
		return "key"
	case KindEndObject:
		return "end object"
	case KindStartArray:
		return "start array"
	case KindEndArray:
		return "end array"
	default:
		return "unknown"
	}
}

// Token is one lexical event pulled from the tokenizer. Only the payload
// slot matching Kind is meaningful; Str is shared by the String, Key and
// RawNumber kinds.
type Token struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Uint   uint64
	Double float64
	Str    string
}
