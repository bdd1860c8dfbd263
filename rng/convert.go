package rng

import "math"

const (
	float32One = uint32(0x7F) << 23
	float64One = uint64(0x3FF) << 52
)

// toFloat32 maps the top 23 bits of the low word of x onto the mantissa of a
// float32 in [1, 2) and shifts the result down to [0, 1).
func toFloat32(x uint64) float32 {
	return math.Float32frombits(float32One|uint32(x)>>9) - 1.0
}

// toFloat64 maps the top 52 bits of x onto the mantissa of a float64 in
// [1, 2) and shifts the result down to [0, 1).
func toFloat64(x uint64) float64 {
	return math.Float64frombits(float64One|x>>12) - 1.0
}
