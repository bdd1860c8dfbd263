package rng

import (
	"errors"
	"fmt"
	"math"

	"github.com/xor-shift/prng/util"
)

// ErrZeroState is returned when restoring a state made only of zero words.
// The all-zero state is a fixed point of the generator.
var ErrZeroState = errors.New("xoshiro256+ state must not be all zero")

var (
	jump128 = [4]uint64{
		0x180ec6d33cfd0aba,
		0xd5a61266f0c9392c,
		0xa9582618e03fc9aa,
		0x39abdc4529b1661c,
	}

	jump192 = [4]uint64{
		0x76e15d3efefdcbbf,
		0xc5004e441c522fb3,
		0x77710069854ee241,
		0x39109bb02acbe635,
	}
)

type Xoshiro256PState struct {
	state [4]uint64
}

// NewXoshiro256P returns a generator whose state is the first four outputs of
// a SplitMix64 stream started at seed. Any seed is valid, including 0.
func NewXoshiro256P(seed uint64) *Xoshiro256PState {
	state := Xoshiro256PState{}

	for i := range state.state {
		state.state[i] = splitmix64(&seed)
	}

	return &state
}

// FromState restores a generator from a previously taken Snapshot.
func FromState(s [4]uint64) (*Xoshiro256PState, error) {
	if s == [4]uint64{} {
		return nil, ErrZeroState
	}

	return &Xoshiro256PState{state: s}, nil
}

// ParseXoshiro256P restores a generator from the output of String.
func ParseXoshiro256P(s string) (*Xoshiro256PState, error) {
	words, err := util.StringToArray64(s)
	if err != nil {
		return nil, err
	}

	if len(words) != 4 {
		return nil, fmt.Errorf("xoshiro256+ state needs 4 words, got %d", len(words))
	}

	return FromState([4]uint64{words[0], words[1], words[2], words[3]})
}

func (state *Xoshiro256PState) Next() uint64 {
	return xoshiro256PPermuteState(state.state[:])
}

// Jump is equivalent to 2^128 calls to Next. It can be used to generate 2^128
// non-overlapping subsequences for parallel computations.
func (state *Xoshiro256PState) Jump() {
	table := jump128
	jumpImpl(state.state[:], table[:], xoshiro256PPermuteState)
}

// LongJump is equivalent to 2^192 calls to Next. It can be used to generate
// 2^64 starting points, from each of which Jump will generate 2^64
// non-overlapping subsequences for distributed computations.
func (state *Xoshiro256PState) LongJump() {
	table := jump192
	jumpImpl(state.state[:], table[:], xoshiro256PPermuteState)
}

// NextF32 returns a float32 in [0, 1) with 23 bits of randomness.
func (state *Xoshiro256PState) NextF32() float32 {
	return toFloat32(state.Next())
}

// NextF64 returns a float64 in [0, 1) with 52 bits of randomness.
func (state *Xoshiro256PState) NextF64() float64 {
	return toFloat64(state.Next())
}

// NextInt returns an int32 in [a, b). The result is a + floor((b-a) * NextF64()),
// which is close to, but not exactly, uniform over the integers of the range.
// It panics if b <= a.
func (state *Xoshiro256PState) NextInt(a, b int32) int32 {
	if b <= a {
		panic(fmt.Sprintf("invalid range [%d, %d) for NextInt", a, b))
	}

	span := float64(int64(b) - int64(a))
	return int32(int64(a) + int64(math.Floor(span*state.NextF64())))
}

// Snapshot returns a copy of the four state words.
func (state *Xoshiro256PState) Snapshot() [4]uint64 {
	return state.state
}

func (state *Xoshiro256PState) String() string {
	return util.ArrayToString(state.state[:])
}
