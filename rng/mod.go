// Package rng implements the xoshiro256+ pseudo random number generator
// (David Blackman and Sebastiano Vigna, https://prng.di.unimi.it/).
//
// The generator is not cryptographically secure and a single state is not
// safe for concurrent use. Parallel consumers should each own a state derived
// from one seeded state through Jump or LongJump.
package rng

import "unsafe"

func GenericRotLeft[T uint8 | uint16 | uint32 | uint64](x T, k int) T {
	bitWidth := int(unsafe.Sizeof(x) * 8)
	return (x << k) | (x >> (bitWidth - k))
}

// jumpImpl advances state by the polynomial encoded in table. Every bit of
// every table word costs exactly one call to permute.
func jumpImpl[T uint32 | uint64](state []T, table []T, permute func([]T) T) {
	s := make([]T, len(state))
	bitWidth := int(unsafe.Sizeof(table[0]) * 8)

	for i := 0; i < len(table); i++ {
		for b := 0; b < bitWidth; b++ {
			if (table[i] & (T(1) << b)) != 0 {
				for j := 0; j < len(state); j++ {
					s[j] ^= state[j]
				}
			}
			_ = permute(state)
		}
	}

	copy(state, s)
}
