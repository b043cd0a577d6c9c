package stdlib

import (
	"math"

	"wisp"
)

func init() {
	wisp.RegisterStdModule(wisp.StdMath, "std:math", bindMath)
}

func bindMath(vm *wisp.VM) error {
	mod, err := vm.MakeModule("std:math")
	if err != nil {
		return err
	}
	unary := func(name string, f func(float64) float64) {
		vm.BindFunction(mod, name, func(s *wisp.Stack) {
			s.SetNumber(0, f(s.Number(0)))
		}, 1)
	}
	unary("sqrt", math.Sqrt)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("abs", math.Abs)
	unary("sin", math.Sin)
	unary("cos", math.Cos)

	vm.BindFunction(mod, "pow", func(s *wisp.Stack) {
		s.SetNumber(0, math.Pow(s.Number(0), s.Number(1)))
	}, 2)
	vm.BindFunction(mod, "max", func(s *wisp.Stack) {
		s.SetNumber(0, math.Max(s.Number(0), s.Number(1)))
	}, 2)
	vm.BindFunction(mod, "min", func(s *wisp.Stack) {
		s.SetNumber(0, math.Min(s.Number(0), s.Number(1)))
	}, 2)
	return nil
}
