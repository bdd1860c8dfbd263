package common

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

type DrawKind string

const (
	DrawU64 DrawKind = "u64"
	DrawF32 DrawKind = "f32"
	DrawF64 DrawKind = "f64"
	DrawInt DrawKind = "int"
)

const MaxDrawCount = 1 << 16

// DrawSpec describes a batch of values to draw from one stream state.
type DrawSpec struct {
	State string   `json:"state" mapstructure:"state"`
	Kind  DrawKind `json:"kind" mapstructure:"kind"`
	Count int      `json:"count" mapstructure:"count"`
	Min   int32    `json:"min" mapstructure:"min"`
	Max   int32    `json:"max" mapstructure:"max"`
}

// DrawBatch is what a dealer publishes on the draws exchange. Only the slice
// matching Kind is populated; f32 values are stored widened to float64.
type DrawBatch struct {
	StreamState string   `json:"state"`
	NextState   string   `json:"nextState"`
	Kind        DrawKind `json:"kind"`
	Min         int32    `json:"min,omitempty"`
	Max         int32    `json:"max,omitempty"`

	Words  []uint64  `json:"words,omitempty"`
	Floats []float64 `json:"floats,omitempty"`
	Ints   []int32   `json:"ints,omitempty"`
}

// DecodeDrawSpec decodes a loosely typed request body, e.g. the result of
// unmarshalling JSON into a map, and validates it.
func DecodeDrawSpec(body map[string]interface{}) (DrawSpec, error) {
	spec := DrawSpec{Kind: DrawF64, Count: 1}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       exactIntHook,
		Result:           &spec,
	})
	if err != nil {
		return spec, err
	}

	if err = decoder.Decode(body); err != nil {
		return spec, fmt.Errorf("bad draw request: %w", err)
	}

	return spec, spec.Validate()
}

// exactIntHook rejects numbers that would not survive the conversion into a
// signed integer field, so 2.9 or 1<<32 never silently become 2 or 0.
func exactIntHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}

	var n int64
	value := reflect.ValueOf(data)

	switch value.Kind() {
	case reflect.Float32, reflect.Float64:
		f := value.Float()
		if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
			return nil, fmt.Errorf("%v is not an integer", data)
		}
		n = int64(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = value.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if value.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%v does not fit into %s", data, to)
		}
		n = int64(value.Uint())
	case reflect.String:
		var err error
		if n, err = strconv.ParseInt(value.String(), 0, 64); err != nil {
			return nil, fmt.Errorf("%q is not an integer", data)
		}
	default:
		return data, nil
	}

	if bits := to.Bits(); bits < 64 && (n < -(1<<(bits-1)) || n >= 1<<(bits-1)) {
		return nil, fmt.Errorf("%v does not fit into %s", data, to)
	}

	return n, nil
}

func (spec DrawSpec) Validate() error {
	switch spec.Kind {
	case DrawU64, DrawF32, DrawF64:
	case DrawInt:
		if spec.Max <= spec.Min {
			return fmt.Errorf("empty int range [%d, %d)", spec.Min, spec.Max)
		}
	default:
		return fmt.Errorf("unknown draw kind %q", spec.Kind)
	}

	if spec.Count <= 0 || spec.Count > MaxDrawCount {
		return fmt.Errorf("draw count %d outside of [1, %d]", spec.Count, MaxDrawCount)
	}

	if spec.State == "" {
		return errors.New("missing stream state")
	}

	return nil
}

func (batch *DrawBatch) Len() int {
	switch batch.Kind {
	case DrawU64:
		return len(batch.Words)
	case DrawInt:
		return len(batch.Ints)
	default:
		return len(batch.Floats)
	}
}

// Strings formats every value of the batch losslessly, f32 values at single
// precision.
func (batch *DrawBatch) Strings() []string {
	ret := make([]string, 0, batch.Len())

	switch batch.Kind {
	case DrawU64:
		for _, v := range batch.Words {
			ret = append(ret, strconv.FormatUint(v, 10))
		}
	case DrawInt:
		for _, v := range batch.Ints {
			ret = append(ret, strconv.FormatInt(int64(v), 10))
		}
	case DrawF32:
		for _, v := range batch.Floats {
			ret = append(ret, strconv.FormatFloat(v, 'g', -1, 32))
		}
	default:
		for _, v := range batch.Floats {
			ret = append(ret, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}

	return ret
}

func EncodeDrawBatch(batch DrawBatch) ([]byte, error) {
	var buffer bytes.Buffer

	if err := gob.NewEncoder(&buffer).Encode(batch); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func DecodeDrawBatch(body []byte) (DrawBatch, error) {
	var batch DrawBatch

	if err := gob.NewDecoder(bytes.NewBuffer(body)).Decode(&batch); err != nil {
		return batch, fmt.Errorf("error decoding a draw batch with gob: %w", err)
	}

	return batch, nil
}
