package main

import (
	"fmt"
	"os"
	"strconv"

	calc "github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// Prints operating profit across one field's range as CSV, to see where the
// break-even solver should find its sign change.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: debug_break_even <assumptions-file|preset> <field> [steps]")
		return
	}

	a := load(os.Args[1])
	field, ok := domain.LookupField(os.Args[2])
	if !ok {
		fmt.Printf("unknown field %q\n", os.Args[2])
		return
	}
	steps := 20
	if len(os.Args) > 3 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil || n < 1 {
			panic(fmt.Sprintf("bad step count %q", os.Args[3]))
		}
		steps = n
	}

	lo := field.Clamp(field.Min)
	hi := field.Clamp(field.Upper())
	span := hi.Sub(lo)

	engine := calc.NewEngine()
	fmt.Println("Index,Value,Turnover,GrossProfit,Opex,OperatingProfit,Sign")
	var prev decimal.Decimal
	for i := 0; i <= steps; i++ {
		v := lo.Add(span.Mul(decimal.NewFromInt(int64(i))).Div(decimal.NewFromInt(int64(steps))))
		v = field.Clamp(v)
		r := engine.Compute(field.Set(a, v))

		mark := ""
		if i > 0 && prev.Sign() != r.OperatingProfit.Sign() {
			mark = "crossing"
		}
		prev = r.OperatingProfit

		fmt.Printf("%d,%s,%s,%s,%s,%s,%s\n", i,
			field.Get(field.Set(a, v)).String(),
			r.Turnover.StringFixed(0),
			r.GPTotal.StringFixed(0),
			r.Opex.StringFixed(0),
			r.OperatingProfit.StringFixed(0),
			mark)
	}
}

func load(arg string) domain.Assumptions {
	if preset, err := domain.Preset(arg); err == nil {
		return preset
	}
	in, err := config.NewInputParser().LoadFromFile(arg)
	if err != nil {
		panic(err)
	}
	return in.Assumptions
}
