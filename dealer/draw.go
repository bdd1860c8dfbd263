package dealer

import (
	"github.com/xor-shift/prng/common"
	"github.com/xor-shift/prng/rng"
)

// Draw restores the state in spec and draws spec.Count values from it. The
// returned batch carries the state the stream continues from.
func Draw(spec common.DrawSpec) (common.DrawBatch, error) {
	if err := spec.Validate(); err != nil {
		return common.DrawBatch{}, err
	}

	gen, err := rng.ParseXoshiro256P(spec.State)
	if err != nil {
		return common.DrawBatch{}, err
	}

	batch := common.DrawBatch{
		StreamState: gen.String(),
		Kind:        spec.Kind,
	}

	switch spec.Kind {
	case common.DrawU64:
		batch.Words = make([]uint64, spec.Count)
		for i := range batch.Words {
			batch.Words[i] = gen.Next()
		}
	case common.DrawF32:
		batch.Floats = make([]float64, spec.Count)
		for i := range batch.Floats {
			batch.Floats[i] = float64(gen.NextF32())
		}
	case common.DrawF64:
		batch.Floats = make([]float64, spec.Count)
		for i := range batch.Floats {
			batch.Floats[i] = gen.NextF64()
		}
	case common.DrawInt:
		batch.Min, batch.Max = spec.Min, spec.Max
		batch.Ints = make([]int32, spec.Count)
		for i := range batch.Ints {
			batch.Ints[i] = gen.NextInt(spec.Min, spec.Max)
		}
	}

	batch.NextState = gen.String()

	return batch, nil
}
