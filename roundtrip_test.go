package tokjson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip[T any](t *testing.T, v T) {
	t.Helper()

	parsed, err := Parse[T](Dump(v))
	require.NoError(t, err)
	require.Equal(t, v, parsed)
}

func TestRoundTripScalars(t *testing.T) {
	roundTrip(t, true)
	roundTrip(t, false)
	roundTrip(t, int8(math.MinInt8))
	roundTrip(t, int64(math.MaxInt64))
	roundTrip(t, int64(math.MinInt64))
	roundTrip(t, uint64(math.MaxUint64))
	roundTrip(t, 0)
	roundTrip(t, 1.5)
	roundTrip(t, float32(0.1))
	roundTrip(t, math.MaxFloat64)
	roundTrip(t, "")
	roundTrip(t, "with \"quotes\" and\nnewlines")
	roundTrip(t, "smörgåsbord")
}

func TestRoundTripNullable(t *testing.T) {
	roundTrip[*int](t, nil)

	seven := 7
	roundTrip(t, &seven)
}

func TestRoundTripContainers(t *testing.T) {
	roundTrip(t, []int{1, 2, 3})
	roundTrip(t, []string{})
	roundTrip(t, [][]bool{{true}, {}})
	roundTrip(t, map[string]int{"a": 1, "b": 2})
	roundTrip(t, map[string][]string{"xs": {"x"}, "ys": {}})
	roundTrip(t, map[string]struct{}{"a": {}, "b": {}})
	roundTrip(t, map[int]struct{}{-1: {}, 200: {}})
}

func TestRoundTripSelfDescribing(t *testing.T) {
	roundTrip(t, rgb{r: 1, g: 2, b: 3})
	roundTrip(t, []rgb{{}, {r: 255}})
}

func TestRoundTripRecursive(t *testing.T) {
	roundTrip(t, node{
		name: "a",
		children: []node{
			{name: "b", children: []node{}},
			{name: "c", children: []node{{name: "d", children: []node{}}}},
		},
	})
}
