package algoutil

import "unsafe"

// Integer is the constraint satisfied by the built-in integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// FindMaxIf returns the greatest non-negative value greater than or equal to
// start for which notTooLarge returns true.
//
// The behavior is undefined unless all of the following hold:
//
//   - notTooLarge(start) is true
//   - start is non-negative
//   - notTooLarge is monotone: if notTooLarge(a) is true for some a, then
//     notTooLarge(b) is true for every b <= a.
//
// FindMaxIf doubles from start until notTooLarge rejects a candidate, then
// bisects between the largest accepted and smallest rejected values.
func FindMaxIf[N Integer](start N, notTooLarge func(N) bool) N {
	max := maxValue[N]()
	if start == max {
		return start
	}

	// current rises geometrically until it overshoots, then converges by
	// bisection. highest is the largest accepted value so far, ceiling the
	// smallest rejected one.
	var current N
	if start == 0 {
		current = 1
	} else {
		current = Twice(start)
	}
	for highest, ceiling := start, start; current != highest; {
		if notTooLarge(current) {
			highest = current
			if ceiling <= current {
				current = Twice(current)
			} else {
				current = Midpoint(current, ceiling)
			}
		} else {
			ceiling = current
			current = Midpoint(highest, current)
		}
	}

	return current
}

// Twice returns two times n, saturating at the maximum value of N instead of
// overflowing.
func Twice[N Integer](n N) N {
	max := maxValue[N]()
	if max-n >= n {
		return 2 * n
	}
	return max
}

// Midpoint returns the value lying halfway between lesser and greater,
// rounding down. The behavior is undefined unless lesser <= greater.
func Midpoint[N Integer](lesser, greater N) N {
	return lesser + (greater-lesser)/2
}

func maxValue[N Integer]() N {
	var n N
	n = ^n
	if n > 0 {
		// unsigned: all ones is the max.
		return n
	}
	bits := unsafe.Sizeof(n) * 8
	return N(1)<<(bits-1) - 1
}
