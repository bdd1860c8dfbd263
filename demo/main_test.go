package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func parse(t *testing.T, argv ...string) args {
	t.Helper()

	var a args
	parser, err := kong.New(&a)
	if err != nil {
		t.Fatalf("kong.New: %s", err)
	}

	if _, err = parser.Parse(argv); err != nil {
		t.Fatalf("parsing %v: %s", argv, err)
	}

	return a
}

func TestDefaultRun(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, parse(t)); err != nil {
		t.Fatalf("run: %s", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}

	for i, want := range []string{"0.92740333", "0.053718805", "0.52270925", "0.11612666", "0.7620783"} {
		if lines[i] != want {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want)
		}
	}
}

func TestRunU64(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, parse(t, "--seed=42", "--kind=u64", "-n", "3")); err != nil {
		t.Fatalf("run: %s", err)
	}

	want := "0x15f414253e365229\n0x4f771f08f4211387\n0x100492bd8828891e\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunInt(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, parse(t, "--seed=7", "--kind=int", "-n", "4")); err != nil {
		t.Fatalf("run: %s", err)
	}

	if out.String() != "6\n2\n5\n5\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestValidate(t *testing.T) {
	var a args
	parser, err := kong.New(&a)
	if err != nil {
		t.Fatalf("kong.New: %s", err)
	}

	if _, err = parser.Parse([]string{"--kind=int", "--min=5", "--max=5"}); err == nil {
		t.Errorf("expected an error for an empty int range")
	}

	if _, err = parser.Parse([]string{"--kind=gaussian"}); err == nil {
		t.Errorf("expected an error for an unknown kind")
	}
}
