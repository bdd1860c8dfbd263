package rng

// permutes a [4]uint64 state according to xoshiro256+
// https://prng.di.unimi.it/xoshiro256plus.c
//
// The result is taken from the state before it is updated.
func xoshiro256PPermuteState(s []uint64) (result uint64) {
	result = s[0] + s[3]

	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t

	s[3] = GenericRotLeft(s[3], 45)

	return
}

// splitmix64 advances *x and returns the next output of a SplitMix64 stream
// starting at the original value of *x.
// https://prng.di.unimi.it/splitmix64.c
func splitmix64(x *uint64) uint64 {
	*x += 0x9E3779B97F4A7C15

	z := *x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB

	return z ^ (z >> 31)
}
