package tokjson

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	v, err := Parse[bool](`true`)
	require.NoError(t, err)
	require.True(t, v)

	v, err = Parse[bool](`false`)
	require.NoError(t, err)
	require.False(t, v)
}

func TestParseBoolRejectsOtherKinds(t *testing.T) {
	_, err := Parse[bool](`1`)
	require.EqualError(t, err, "expected bool, got uint at root")

	_, err = Parse[bool](`"true"`)
	require.EqualError(t, err, "expected bool, got string at root")
}

func TestParseSignedIntegers(t *testing.T) {
	v, err := Parse[int](`-123`)
	require.NoError(t, err)
	require.Equal(t, -123, v)

	v8, err := Parse[int8](`-128`)
	require.NoError(t, err)
	require.Equal(t, int8(-128), v8)

	v64, err := Parse[int64](`9223372036854775807`)
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), v64)

	v64, err = Parse[int64](`-9223372036854775808`)
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), v64)
}

func TestParseUnsignedIntegers(t *testing.T) {
	v, err := Parse[uint16](`65535`)
	require.NoError(t, err)
	require.Equal(t, uint16(math.MaxUint16), v)

	v64, err := Parse[uint64](`18446744073709551615`)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v64)
}

func TestParseIntegerRangeChecks(t *testing.T) {
	_, err := Parse[int8](`128`)
	require.EqualError(t, err, "integer value not in range at root")

	_, err = Parse[int8](`-129`)
	require.EqualError(t, err, "integer value not in range at root")

	_, err = Parse[uint8](`256`)
	require.EqualError(t, err, "integer value not in range at root")

	_, err = Parse[uint8](`-1`)
	require.EqualError(t, err, "integer value not in range at root")

	// fits uint64 but not int64
	_, err = Parse[int64](`18446744073709551615`)
	require.EqualError(t, err, "integer value not in range at root")

	// beyond uint64 the literal degrades to a double token
	_, err = Parse[uint64](`18446744073709551616`)
	require.EqualError(t, err, "expected int, uint, got double at root")

	// and beyond float64 to raw number text
	_, err = Parse[int](`1e999`)
	require.EqualError(t, err, "integer value not in range at root")
}

func TestParseIntegerRejectsDouble(t *testing.T) {
	_, err := Parse[int](`1.5`)
	require.EqualError(t, err, "expected int, uint, got double at root")

	_, err = Parse[uint](`"7"`)
	require.EqualError(t, err, "expected int, uint, got string at root")
}

func TestParseFloats(t *testing.T) {
	v, err := Parse[float64](`1.5`)
	require.NoError(t, err)
	require.Equal(t, 1.5, v)

	// integer tokens widen
	v, err = Parse[float64](`-3`)
	require.NoError(t, err)
	require.Equal(t, -3.0, v)

	v, err = Parse[float64](`18446744073709551615`)
	require.NoError(t, err)
	require.Equal(t, float64(math.MaxUint64), v)

	v32, err := Parse[float32](`0.25`)
	require.NoError(t, err)
	require.Equal(t, float32(0.25), v32)
}

func TestParseFloatRejectsOverflowLiteral(t *testing.T) {
	_, err := Parse[float64](`1e999`)
	require.EqualError(t, err, "expected int, uint, double, got number at root")
}

func TestParseString(t *testing.T) {
	v, err := Parse[string](`"hello \"world\""`)
	require.NoError(t, err)
	require.Equal(t, `hello "world"`, v)

	_, err = Parse[string](`42`)
	require.EqualError(t, err, "expected string, got uint at root")
}

func TestParseStringAcceptsOversizedNumberLiteral(t *testing.T) {
	v, err := Parse[string](`1e999`)
	require.NoError(t, err)
	require.Equal(t, "1e999", v)
}

func TestParseNullable(t *testing.T) {
	v, err := Parse[*int](`null`)
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = Parse[*int](`7`)
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, 7, *v)

	// errors of the pointee pass through
	_, err = Parse[*int8](`300`)
	require.EqualError(t, err, "integer value not in range at root")
}

func TestParseNestedNullable(t *testing.T) {
	v, err := Parse[**int](`null`)
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = Parse[**int](`7`)
	require.NoError(t, err)
	require.Equal(t, 7, **v)
}

func TestParseNonNullableRejectsNull(t *testing.T) {
	_, err := Parse[int](`null`)
	require.EqualError(t, err, "expected int, uint, got null at root")

	_, err = Parse[string](`null`)
	require.EqualError(t, err, "expected string, got null at root")
}

func TestParseSlice(t *testing.T) {
	v, err := Parse[[]int](`[1, 2, 3]`)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, v)

	v, err = Parse[[]int](`[]`)
	require.NoError(t, err)
	require.Empty(t, v)

	nested, err := Parse[[][]string](`[["a"], [], ["b", "c"]]`)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a"}, {}, {"b", "c"}}, nested)
}

func TestParseSliceElementErrorCarriesIndex(t *testing.T) {
	_, err := Parse[[]int8](`[1, 2, 300]`)
	require.EqualError(t, err, "integer value not in range at root[2]")

	_, err = Parse[[]bool](`[true, 1]`)
	require.EqualError(t, err, "expected bool, got uint at root[1]")
}

func TestParseSliceErrors(t *testing.T) {
	_, err := Parse[[]int](`{"a": 1}`)
	require.EqualError(t, err, "expected start array, got start object at root")

	_, err = Parse[[]int](`[1, 2`)
	require.Error(t, err)
	_, ok := AsError(err)
	require.True(t, ok)
}

func TestParseSet(t *testing.T) {
	v, err := Parse[map[string]struct{}](`["a", "b", "a"]`)
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{"a": {}, "b": {}}, v)

	ints, err := Parse[map[int]struct{}](`[1, 2]`)
	require.NoError(t, err)
	require.Equal(t, map[int]struct{}{1: {}, 2: {}}, ints)

	_, err = Parse[map[string]struct{}](`{"a": 1}`)
	require.EqualError(t, err, "expected start array, got start object at root")
}

func TestParseMap(t *testing.T) {
	v, err := Parse[map[string]int](`{"a": 1, "b": 2}`)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1, "b": 2}, v)

	empty, err := Parse[map[string]int](`{}`)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestParseMapDuplicateKeyOverwrites(t *testing.T) {
	v, err := Parse[map[string]int](`{"a": 1, "a": 2}`)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 2}, v)
}

func TestParseMapValueErrorCarriesKey(t *testing.T) {
	_, err := Parse[map[string]int8](`{"a": 1, "b": 300}`)
	require.EqualError(t, err, "integer value not in range at root.b")
}

func TestParseMapRequiresObject(t *testing.T) {
	_, err := Parse[map[string]int](`[1]`)
	require.EqualError(t, err, "expected start object, got start array at root")
}

func TestParseMapWithNonStringKeysNotSupported(t *testing.T) {
	_, err := Parse[map[int]string](`{}`)
	require.ErrorContains(t, err, "not supported")
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse[int](``)
	require.EqualError(t, err, "unexpected end of json at root")

	pe, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, ParseError, pe.Kind)
}

func TestParseMalformedInputIsJSONError(t *testing.T) {
	_, err := Parse[map[string]int](`{"a": tru}`)
	require.Error(t, err)

	pe, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, JSONError, pe.Kind)
}

func TestParseRejectsMissingColon(t *testing.T) {
	v, err := Parse[map[string]int](`{"a" 1}`)
	require.Nil(t, v)

	pe, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, JSONError, pe.Kind)
}

func TestParseTrailingComma(t *testing.T) {
	v, err := Parse[[]int](`[1, 2, 3,]`)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, v)

	m, err := Parse[map[string]int](`{"a": 1,}`)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1}, m)
}

func TestParseBytesAndReader(t *testing.T) {
	v, err := ParseBytes[[]int]([]byte(`[4, 5]`))
	require.NoError(t, err)
	require.Equal(t, []int{4, 5}, v)

	v, err = ParseReader[[]int](strings.NewReader(`[6]`))
	require.NoError(t, err)
	require.Equal(t, []int{6}, v)
}

func TestParseUnsupportedType(t *testing.T) {
	_, err := Parse[chan int](`1`)

	var ns NotSupportedError
	require.ErrorAs(t, err, &ns)
	require.Equal(t, `type "chan int" is not supported`, ns.Error())
}

func TestParseReturnsZeroValueOnError(t *testing.T) {
	v, err := Parse[[]int](`[1, 2, "x"]`)
	require.Error(t, err)
	require.Nil(t, v)
}

func TestParseErrorShapeIsStable(t *testing.T) {
	const input = `{"a": [1, "x"]}`

	first, ok := AsError(mustFail(t, input))
	require.True(t, ok)

	for range 3 {
		again, ok := AsError(mustFail(t, input))
		require.True(t, ok)
		require.Equal(t, first, again)
	}
}

func mustFail(t *testing.T, input string) error {
	t.Helper()
	_, err := Parse[map[string][]int](input)
	require.Error(t, err)
	return err
}

func TestParseErrorIsTyped(t *testing.T) {
	_, err := Parse[int8](`300`)

	pe, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, ParseError, pe.Kind)
	require.Equal(t, "integer value not in range", pe.Message)
	require.Equal(t, "root", pe.Path)
}

// rgb parses itself from "r,g,b" strings instead of the structural rules.
type rgb struct {
	r, g, b uint8
}

func (c *rgb) UnmarshalTokens(tok *Tokens) error {
	s, err := ParseTokens[string](tok)
	if err != nil {
		return err
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return &Error{Kind: ParseError, Message: "malformed color"}
	}

	channels := []*uint8{&c.r, &c.g, &c.b}
	for idx, part := range parts {
		v, err := Parse[uint8](part)
		if err != nil {
			return err
		}
		*channels[idx] = v
	}
	return nil
}

func (c rgb) MarshalTokens(w *Writer) {
	var b strings.Builder
	b.WriteString(Dump(c.r))
	b.WriteByte(',')
	b.WriteString(Dump(c.g))
	b.WriteByte(',')
	b.WriteString(Dump(c.b))
	w.String(b.String())
}

func TestParseSelfDescribing(t *testing.T) {
	v, err := Parse[rgb](`"16,32,64"`)
	require.NoError(t, err)
	require.Equal(t, rgb{r: 16, g: 32, b: 64}, v)

	_, err = Parse[rgb](`"16,32"`)
	require.EqualError(t, err, "malformed color")
}

func TestParseSelfDescribingPointerIsNullable(t *testing.T) {
	v, err := Parse[*rgb](`null`)
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = Parse[*rgb](`"1,2,3"`)
	require.NoError(t, err)
	require.Equal(t, &rgb{r: 1, g: 2, b: 3}, v)
}

func TestParseSelfDescribingInsideContainers(t *testing.T) {
	v, err := Parse[[]rgb](`["0,0,0", "255,255,255"]`)
	require.NoError(t, err)
	require.Equal(t, []rgb{{}, {r: 255, g: 255, b: 255}}, v)

	_, err = Parse[[]rgb](`["0,0,0", 7]`)
	require.EqualError(t, err, "expected string, got uint at root[1]")
}

// node is a recursive type; building its parser must not recurse forever.
type node struct {
	name     string
	children []node
}

func (n *node) UnmarshalTokens(tok *Tokens) error {
	return ParseObject(tok,
		Bind("name", &n.name),
		Bind("children", &n.children),
	)
}

func (n node) MarshalTokens(w *Writer) {
	DumpObject(w,
		Bind("name", &n.name),
		Bind("children", &n.children),
	)
}

func TestParseRecursiveType(t *testing.T) {
	v, err := Parse[node](`{
		"name": "a",
		"children": [
			{"name": "b", "children": []},
			{"name": "c", "children": [{"name": "d", "children": []}]}
		]
	}`)
	require.NoError(t, err)

	require.Equal(t, node{
		name: "a",
		children: []node{
			{name: "b", children: []node{}},
			{name: "c", children: []node{{name: "d", children: []node{}}}},
		},
	}, v)
}

func TestParseRecursiveTypeErrorPath(t *testing.T) {
	_, err := Parse[node](`{"name": "a", "children": [{"name": 1, "children": []}]}`)
	require.EqualError(t, err, "expected string, got uint at root.children[0].name")
}
