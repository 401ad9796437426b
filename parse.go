package tokjson

import (
	"io"
	"math"
	"reflect"
	"sync"
)

// A parserFunc parses one JSON value from the cursor into target.
type parserFunc func(tok *Tokens, target reflect.Value) error

// A set of types whose parser or dumper is currently being built.
type typeSet map[reflect.Type]struct{}

var tyUnmarshaler = reflect.TypeFor[Unmarshaler]()

// Cache for parsers, indexed by reflect.Type.
var parserCache sync.Map

// Parse parses json text into a value of type T. The cursor it builds
// tracks the structural path, so every error carries its location.
func Parse[T any](json string) (T, error) {
	return ParseTokens[T](NewTokens(json))
}

// ParseBytes is Parse over a byte slice.
func ParseBytes[T any](data []byte) (T, error) {
	return ParseTokens[T](NewTokensBytes(data))
}

// ParseReader is Parse over a reader. The input is drained before
// tokenizing starts.
func ParseReader[T any](r io.Reader) (T, error) {
	return ParseTokens[T](NewTokensReader(r))
}

// ParseTokens parses one value of type T from a live cursor. This is the
// recursion point UnmarshalTokens implementations call for their parts.
func ParseTokens[T any](tok *Tokens) (T, error) {
	var target T

	parser, err := parserOf(typeSet{}, reflect.TypeFor[T]())
	if err != nil {
		return target, err
	}

	if err := parser(tok, reflect.ValueOf(&target).Elem()); err != nil {
		var zero T
		return zero, err
	}

	return target, nil
}

func parserOf(inConstruction typeSet, ty reflect.Type) (parserFunc, error) {
	if cached, ok := parserCache.Load(ty); ok {
		return cached.(parserFunc), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// detected a cycle. return a parser that does a cache lookup when
		// executed. the real parser is in the cache by the time it runs.
		lazyParser := func(tok *Tokens, target reflect.Value) error {
			cached, _ := parserCache.Load(ty)
			return cached.(parserFunc)(tok, target)
		}

		return lazyParser, nil
	}

	inConstruction[ty] = struct{}{}

	parser, err := makeParserOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	parserCache.Store(ty, parser)

	return parser, nil
}

// makeParserOf classifies ty into the closed set of categories. Pointers
// are always nullable; for everything else the self-describing method wins
// over a registered codec, which wins over the structural rules.
func makeParserOf(inConstruction typeSet, ty reflect.Type) (parserFunc, error) {
	if ty.Kind() == reflect.Pointer {
		return makeParseNullable(inConstruction, ty)
	}

	if reflect.PointerTo(ty).Implements(tyUnmarshaler) {
		return parseSelfDescribing, nil
	}

	if codec, ok := lookupCodec(ty); ok {
		return codec.parse, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return parseBool, nil

	case reflect.Int:
		return makeParseInt(math.MinInt, math.MaxInt), nil
	case reflect.Int8:
		return makeParseInt(math.MinInt8, math.MaxInt8), nil
	case reflect.Int16:
		return makeParseInt(math.MinInt16, math.MaxInt16), nil
	case reflect.Int32:
		return makeParseInt(math.MinInt32, math.MaxInt32), nil
	case reflect.Int64:
		return makeParseInt(math.MinInt64, math.MaxInt64), nil

	case reflect.Uint:
		return makeParseUint(math.MaxUint), nil
	case reflect.Uint8:
		return makeParseUint(math.MaxUint8), nil
	case reflect.Uint16:
		return makeParseUint(math.MaxUint16), nil
	case reflect.Uint32:
		return makeParseUint(math.MaxUint32), nil
	case reflect.Uint64:
		return makeParseUint(math.MaxUint64), nil

	case reflect.Float32, reflect.Float64:
		return parseFloat, nil

	case reflect.String:
		return parseString, nil

	case reflect.Slice:
		return makeParseSlice(inConstruction, ty)

	case reflect.Map:
		if isSetType(ty) {
			return makeParseSet(inConstruction, ty)
		}
		return makeParseMap(inConstruction, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

// isSetType reports the set-like map shape: elements carry no payload.
func isSetType(ty reflect.Type) bool {
	return ty.Elem() == reflect.TypeFor[struct{}]()
}

func parseSelfDescribing(tok *Tokens, target reflect.Value) error {
	return target.Addr().Interface().(Unmarshaler).UnmarshalTokens(tok)
}

func parseBool(tok *Tokens, target reflect.Value) error {
	t, ok := tok.Next()
	if !ok {
		return tok.endError()
	}
	if t.Kind != KindBool {
		return unexpectedToken(t, tok, KindBool)
	}

	target.SetBool(t.Bool)
	return nil
}

// makeParseInt builds the parser for a signed integer target with the given
// representable range. The runtime token value is range-checked with
// signedness-safe comparisons.
func makeParseInt(lo, hi int64) parserFunc {
	return func(tok *Tokens, target reflect.Value) error {
		t, ok := tok.Next()
		if !ok {
			return tok.endError()
		}

		switch t.Kind {
		case KindInt:
			if !inRange(t.Int, lo, hi) {
				return parseError("integer value not in range", tok)
			}
			target.SetInt(t.Int)
			return nil

		case KindUint:
			if !inRange(t.Uint, lo, hi) {
				return parseError("integer value not in range", tok)
			}
			target.SetInt(int64(t.Uint))
			return nil

		case KindRawNumber:
			// number literal beyond both int64 and uint64
			return parseError("integer value not in range", tok)

		default:
			return unexpectedToken(t, tok, KindInt, KindUint)
		}
	}
}

func makeParseUint(hi uint64) parserFunc {
	return func(tok *Tokens, target reflect.Value) error {
		t, ok := tok.Next()
		if !ok {
			return tok.endError()
		}

		switch t.Kind {
		case KindInt:
			if !inRange(t.Int, uint64(0), hi) {
				return parseError("integer value not in range", tok)
			}
			target.SetUint(uint64(t.Int))
			return nil

		case KindUint:
			if !inRange(t.Uint, uint64(0), hi) {
				return parseError("integer value not in range", tok)
			}
			target.SetUint(t.Uint)
			return nil

		case KindRawNumber:
			return parseError("integer value not in range", tok)

		default:
			return unexpectedToken(t, tok, KindInt, KindUint)
		}
	}
}

// parseFloat accepts any numeric token and widens it into the target.
func parseFloat(tok *Tokens, target reflect.Value) error {
	t, ok := tok.Next()
	if !ok {
		return tok.endError()
	}

	switch t.Kind {
	case KindInt:
		target.SetFloat(float64(t.Int))
	case KindUint:
		target.SetFloat(float64(t.Uint))
	case KindDouble:
		target.SetFloat(t.Double)
	default:
		return unexpectedToken(t, tok, KindInt, KindUint, KindDouble)
	}

	return nil
}

func parseString(tok *Tokens, target reflect.Value) error {
	t, ok := tok.Next()
	if !ok {
		return tok.endError()
	}
	// raw number text is accepted as a fallback for literals beyond every
	// numeric type; the error still names only string, the type's one
	// natural token kind.
	if t.Kind != KindString && t.Kind != KindRawNumber {
		return unexpectedToken(t, tok, KindString)
	}

	target.SetString(t.Str)
	return nil
}

// makeParseNullable peeks: a Null token is consumed and leaves the pointer
// nil, anything else parses the pointee and wraps it as present.
func makeParseNullable(inConstruction typeSet, ty reflect.Type) (parserFunc, error) {
	pointeeType := ty.Elem()

	pointeeParser, err := parserOf(inConstruction, pointeeType)
	if err != nil {
		return nil, err
	}

	parser := func(tok *Tokens, target reflect.Value) error {
		t, ok := tok.Peek()
		if !ok {
			return tok.endError()
		}

		if t.Kind == KindNull {
			tok.Next()
			target.Set(reflect.Zero(ty))
			return nil
		}

		newValue := reflect.New(pointeeType)
		if err := pointeeParser(tok, newValue.Elem()); err != nil {
			return err
		}

		target.Set(newValue)
		return nil
	}

	return parser, nil
}

func makeParseSlice(inConstruction typeSet, ty reflect.Type) (parserFunc, error) {
	elementParser, err := parserOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, err
	}

	elementType := ty.Elem()

	parser := func(tok *Tokens, target reflect.Value) error {
		t, ok := tok.Next()
		if !ok {
			return tok.endError()
		}
		if t.Kind != KindStartArray {
			return unexpectedToken(t, tok, KindStartArray)
		}

		result := reflect.MakeSlice(ty, 0, 0)

		for {
			t, ok := tok.Peek()
			if !ok {
				return tok.endError()
			}
			if t.Kind == KindEndArray {
				tok.Next()
				target.Set(result)
				return nil
			}

			element := reflect.New(elementType).Elem()
			if err := elementParser(tok, element); err != nil {
				return err
			}

			result = reflect.Append(result, element)
		}
	}

	return parser, nil
}

// makeParseSet parses a JSON array into a map[K]struct{}; duplicate
// elements collapse.
func makeParseSet(inConstruction typeSet, ty reflect.Type) (parserFunc, error) {
	keyParser, err := parserOf(inConstruction, ty.Key())
	if err != nil {
		return nil, err
	}

	keyType := ty.Key()
	member := reflect.ValueOf(struct{}{})

	parser := func(tok *Tokens, target reflect.Value) error {
		t, ok := tok.Next()
		if !ok {
			return tok.endError()
		}
		if t.Kind != KindStartArray {
			return unexpectedToken(t, tok, KindStartArray)
		}

		result := reflect.MakeMap(ty)

		for {
			t, ok := tok.Peek()
			if !ok {
				return tok.endError()
			}
			if t.Kind == KindEndArray {
				tok.Next()
				target.Set(result)
				return nil
			}

			key := reflect.New(keyType).Elem()
			if err := keyParser(tok, key); err != nil {
				return err
			}

			result.SetMapIndex(key, member)
		}
	}

	return parser, nil
}

// makeParseMap parses a JSON object into a string-keyed map. Duplicate keys
// overwrite silently; duplicate detection belongs to ParseObject.
func makeParseMap(inConstruction typeSet, ty reflect.Type) (parserFunc, error) {
	if ty.Key().Kind() != reflect.String {
		return nil, NotSupportedError{Type: ty}
	}

	valueParser, err := parserOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, err
	}

	keyType := ty.Key()
	valueType := ty.Elem()

	parser := func(tok *Tokens, target reflect.Value) error {
		t, ok := tok.Next()
		if !ok {
			return tok.endError()
		}
		if t.Kind != KindStartObject {
			return unexpectedToken(t, tok, KindStartObject)
		}

		result := reflect.MakeMap(ty)

		for {
			t, ok := tok.Next()
			if !ok {
				return tok.endError()
			}
			if t.Kind == KindEndObject {
				target.Set(result)
				return nil
			}
			if t.Kind != KindKey {
				return unexpectedToken(t, tok, KindKey, KindEndObject)
			}

			key := reflect.New(keyType).Elem()
			key.SetString(t.Str)

			value := reflect.New(valueType).Elem()
			if err := valueParser(tok, value); err != nil {
				return err
			}

			result.SetMapIndex(key, value)
		}
	}

	return parser, nil
}
