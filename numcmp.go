package tokjson

import "golang.org/x/exp/constraints"

// Signedness-safe integer comparisons, modeled on C++20 std::cmp_equal and
// friends. They compare mathematical values across mixed signedness without
// implicit conversions, which plain Go comparisons of converted operands
// would get wrong for values past the signed maximum.

func cmpEqual[T, U constraints.Integer](t T, u U) bool {
	tSigned := isSigned[T]()
	uSigned := isSigned[U]()
	switch {
	case tSigned == uSigned:
		if tSigned {
			return int64(t) == int64(u)
		}
		return uint64(t) == uint64(u)
	case tSigned:
		return t >= 0 && uint64(t) == uint64(u)
	default:
		return u >= 0 && uint64(t) == uint64(u)
	}
}

func cmpLess[T, U constraints.Integer](t T, u U) bool {
	tSigned := isSigned[T]()
	uSigned := isSigned[U]()
	switch {
	case tSigned == uSigned:
		if tSigned {
			return int64(t) < int64(u)
		}
		return uint64(t) < uint64(u)
	case tSigned:
		return t < 0 || uint64(t) < uint64(u)
	default:
		return u >= 0 && uint64(t) < uint64(u)
	}
}

func cmpGreater[T, U constraints.Integer](t T, u U) bool {
	return cmpLess(u, t)
}

func cmpLessEqual[T, U constraints.Integer](t T, u U) bool {
	return !cmpGreater(t, u)
}

func cmpGreaterEqual[T, U constraints.Integer](t T, u U) bool {
	return !cmpLess(t, u)
}

// inRange reports whether v lies within [lo, hi], compared value-wise.
func inRange[T, B constraints.Integer](v T, lo, hi B) bool {
	return cmpGreaterEqual(v, lo) && cmpLessEqual(v, hi)
}

func isSigned[T constraints.Integer]() bool {
	var minusOne T = 0
	minusOne--
	return minusOne < 0
}
