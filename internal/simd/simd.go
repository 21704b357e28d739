// Package simd provides the width-parameterised lane primitives the
// solver's SoA inner loops are built on. Go has no portable SIMD
// intrinsics and no compile-time generic array lengths, so a "lane
// group" of width N is represented as a plain []float32 of length N;
// every op below is a tight loop over that slice in the style of
// hand-unrolled auto-vectorizable Go (no gather/scatter instruction
// exists for the compiler to reach for, so the loops stay straight-line).
package simd

import "math"

// Widths recognised by the solver's Mode enum.
const (
	WidthScalar = 1
	WidthSSE2   = 4
	WidthAVX2   = 8
)

// Splat fills dst with a single scalar value.
func Splat(dst []float32, v float32) {
	for i := range dst {
		dst[i] = v
	}
}

// Add computes dst[i] = a[i] + b[i].
func Add(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

// Sub computes dst[i] = a[i] - b[i].
func Sub(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

// Mul computes dst[i] = a[i] * b[i].
func Mul(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

// MulAdd computes dst[i] = a[i]*b[i] + c[i].
func MulAdd(dst, a, b, c []float32) {
	for i := range dst {
		dst[i] = a[i]*b[i] + c[i]
	}
}

// Max computes dst[i] = max(a[i], b[i]).
func Max(dst, a, b []float32) {
	for i := range dst {
		if a[i] > b[i] {
			dst[i] = a[i]
		} else {
			dst[i] = b[i]
		}
	}
}

// Abs computes dst[i] = |a[i]|.
func Abs(dst, a []float32) {
	for i := range dst {
		v := a[i]
		if v < 0 {
			v = -v
		}
		dst[i] = v
	}
}

// FlipSign computes dst[i] = sign[i] >= 0 ? a[i] : -a[i].
func FlipSign(dst, a, sign []float32) {
	for i := range dst {
		if sign[i] < 0 {
			dst[i] = -a[i]
		} else {
			dst[i] = a[i]
		}
	}
}

// Select performs a branchless per-lane choice: dst[i] = mask[i] ? b[i] : a[i].
func Select(dst, a, b []float32, mask []bool) {
	for i := range dst {
		if mask[i] {
			dst[i] = b[i]
		} else {
			dst[i] = a[i]
		}
	}
}

// GreaterThan computes mask[i] = a[i] > b[i].
func GreaterThan(mask []bool, a, b []float32) {
	for i := range mask {
		mask[i] = a[i] > b[i]
	}
}

// Any reports whether at least one lane of mask is set.
func Any(mask []bool) bool {
	for _, m := range mask {
		if m {
			return true
		}
	}
	return false
}

// None reports whether no lane of mask is set.
func None(mask []bool) bool {
	return !Any(mask)
}

// BitcastI32ToF32 reinterprets an int32's bit pattern as a float32
// without numeric conversion. Used exclusively for the lastIteration
// lane, which must never undergo floating-point arithmetic.
func BitcastI32ToF32(i int32) float32 {
	return math.Float32frombits(uint32(i))
}

// BitcastF32ToI32 is the inverse of BitcastI32ToF32.
func BitcastF32ToI32(f float32) int32 {
	return int32(math.Float32bits(f))
}
