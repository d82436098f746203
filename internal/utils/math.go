package utils

import "golang.org/x/exp/constraints"

// Clamp constrains v to the range [minVal, maxVal].
func Clamp[T constraints.Ordered](v, minVal, maxVal T) T {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Lerp linearly interpolates between a and b. t is not clamped; t == 0 and
// t == 1 return a and b exactly.
func Lerp[T constraints.Float](a, b, t T) T {
	return a*(1-t) + b*t
}

// ClampIndex bounds idx to the valid range for a slice of length.
func ClampIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}

// WrapIndex maps idx onto [0, length) cyclically.
func WrapIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	idx %= length
	if idx < 0 {
		idx += length
	}
	return idx
}
