// Package stdlib holds the "std:" modules the reference build links in by
// default but this port keeps out-of-core (§6, SPEC_FULL's package
// layout): a host that wants none of them can import wisp alone.
package stdlib

import "wisp"

func init() {
	wisp.RegisterStdModule(wisp.StdIO, "std:io", bindIO)
}

func bindIO(vm *wisp.VM) error {
	mod, err := vm.MakeModule("std:io")
	if err != nil {
		return err
	}
	vm.BindFunction(mod, "print", printFn, -1)
	return nil
}

// printFn formats every argument with Stack.Format and writes the result
// through the host's print callback, space-separated, with a trailing
// newline — the one binding §6 calls out by name for "io".
func printFn(s *wisp.Stack) {
	n := s.Argc()
	var line string
	for i := 0; i < n; i++ {
		if i > 0 {
			line += " "
		}
		line += s.Format(i)
	}
	s.Print(line + "\n")
}
