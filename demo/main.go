package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/kataras/golog"
	"github.com/xor-shift/prng/rng"
)

type args struct {
	Seed     uint64 `name:"seed" default:"0" help:"generator seed"`
	Count    int    `name:"count" short:"n" default:"10" help:"number of values to print"`
	Kind     string `name:"kind" short:"k" enum:"f32,f64,u64,int" default:"f32" help:"kind of value to draw"`
	Min      int32  `name:"min" default:"1" help:"(int only) inclusive lower bound"`
	Max      int32  `name:"max" default:"7" help:"(int only) exclusive upper bound"`
	Jumps    int    `name:"jump" default:"0" help:"jumps (2^128 draws each) applied before drawing"`
	LongJump int    `name:"long-jump" default:"0" help:"long jumps (2^192 draws each) applied before drawing"`
}

func (a *args) Validate() error {
	if a.Kind == "int" && a.Max <= a.Min {
		return fmt.Errorf("--max (%d) must be greater than --min (%d)", a.Max, a.Min)
	}

	if a.Count < 0 || a.Jumps < 0 || a.LongJump < 0 {
		return fmt.Errorf("--count, --jump and --long-jump must not be negative")
	}

	return nil
}

func run(w io.Writer, a args) error {
	gen := rng.NewXoshiro256P(a.Seed)

	for i := 0; i < a.LongJump; i++ {
		gen.LongJump()
	}
	for i := 0; i < a.Jumps; i++ {
		gen.Jump()
	}

	for i := 0; i < a.Count; i++ {
		var err error

		switch a.Kind {
		case "f32":
			_, err = fmt.Fprintln(w, gen.NextF32())
		case "f64":
			_, err = fmt.Fprintln(w, gen.NextF64())
		case "u64":
			_, err = fmt.Fprintf(w, "%#016x\n", gen.Next())
		case "int":
			_, err = fmt.Fprintln(w, gen.NextInt(a.Min, a.Max))
		default:
			return fmt.Errorf("unknown kind %q", a.Kind)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func main() {
	var a args
	_ = kong.Parse(&a, kong.Description("Print values drawn from a seeded xoshiro256+ generator."))

	if err := run(os.Stdout, a); err != nil {
		golog.Fatal(err)
	}
}
