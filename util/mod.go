package util

import (
	"errors"
	"fmt"
	"strconv"
	"unsafe"
)

var ErrBadHexLength = errors.New("hex string length is not a multiple of 16")

// ArrayToString formats every element as fixed width lowercase hex and
// concatenates the results.
func ArrayToString[T uint8 | uint16 | uint32 | uint64](arr []T) string {
	ret := ""

	for _, v := range arr {
		bitWidth := int(unsafe.Sizeof(v) * 8)
		ret += fmt.Sprintf("%0[1]*[2]x", bitWidth/4, v)
	}

	return ret
}

// StringToArray64 is the inverse of ArrayToString for uint64 elements.
func StringToArray64(s string) ([]uint64, error) {
	if len(s)%16 != 0 {
		return nil, ErrBadHexLength
	}

	ret := make([]uint64, 0, len(s)/16)

	for i := 0; i < len(s); i += 16 {
		v, err := strconv.ParseUint(s[i:i+16], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("bad hex word at offset %d: %w", i, err)
		}

		ret = append(ret, v)
	}

	return ret, nil
}
