package util

import (
	"errors"
	"testing"
)

func TestArrayToString(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"uint64", ArrayToString([]uint64{1, 0xdeadbeef}), "000000000000000100000000deadbeef"},
		{"uint32", ArrayToString([]uint32{0xab, 0xffffffff}), "000000abffffffff"},
		{"uint8", ArrayToString([]uint8{0, 0x7f}), "007f"},
		{"empty", ArrayToString([]uint64{}), ""},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestStringToArray64(t *testing.T) {
	in := []uint64{0xe220a8397b1dcdaf, 0, 1, 0xffffffffffffffff}

	out, err := StringToArray64(ArrayToString(in))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(out) != len(in) {
		t.Fatalf("got %d words, want %d", len(out), len(in))
	}

	for i := range in {
		if out[i] != in[i] {
			t.Errorf("word %d: got %#x, want %#x", i, out[i], in[i])
		}
	}
}

func TestStringToArray64Errors(t *testing.T) {
	if _, err := StringToArray64("abc"); !errors.Is(err, ErrBadHexLength) {
		t.Errorf("short input: got %v, want ErrBadHexLength", err)
	}

	if _, err := StringToArray64("zzzzzzzzzzzzzzzz"); err == nil {
		t.Errorf("non-hex input: expected an error")
	}
}
