package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wisp/internal/compiler"
	"wisp/internal/diag"
	"wisp/internal/source"
	"wisp/internal/wiredump"
	"wisp/internal/wruntime"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file.wsp>",
	Short: "disassemble a wisp source file's compiled bytecode",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func init() {
	disasmCmd.Flags().Bool("msgpack", false, "write the msgpack-encoded dump instead of text")
}

func runDisasm(cmd *cobra.Command, args []string) error {
	path := args[0]
	msgpackOut, err := cmd.Flags().GetBool("msgpack")
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	file := fs.Get(fileID)

	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	bag := diag.NewBag(maxDiag)

	vm := wruntime.New(wruntime.Config{})
	modID, err := vm.ModuleMake("disasm")
	if err != nil {
		return err
	}
	compiler.CompileModule(vm, file, bag, modID, fs)
	if bag.HasErrors() {
		fmt.Fprintln(os.Stderr, diag.FormatShortDiagnostics(bag.Items(), fs, true))
		fmt.Fprintf(os.Stderr, "%d error(s), %d warning(s)\n", bag.ErrorCount(), bag.WarningCount())
		os.Exit(1)
	}

	funcs := collectFunctions(vm, modID)
	out := cmd.OutOrStdout()
	for _, fn := range funcs {
		dump := wiredump.Build(vm, fn)
		if msgpackOut {
			encoded, err := wiredump.Encode(dump)
			if err != nil {
				return err
			}
			if _, err := out.Write(encoded); err != nil {
				return err
			}
			continue
		}
		fmt.Fprint(out, wiredump.Disassemble(dump))
		fmt.Fprintln(out)
	}
	return nil
}

// collectFunctions gathers the module's top-level init function plus every
// function reachable from its constant pool and the module's own variables,
// so `disasm` shows nested functions too — not just the module's top-level
// statements. Class methods and statics are not collected.
func collectFunctions(vm *wruntime.VM, modID wruntime.ObjectID) []*wruntime.ObjFunction {
	seen := make(map[wruntime.ObjectID]bool)
	var out []*wruntime.ObjFunction

	var visitFn func(id wruntime.ObjectID)
	visitFn = func(id wruntime.ObjectID) {
		if id == 0 || seen[id] {
			return
		}
		seen[id] = true
		fn := vm.GetFunction(id)
		out = append(out, fn)
		for _, c := range fn.Constants {
			if c.IsPointer() && vm.KindOf(c) == wruntime.KindFunction {
				visitFn(c.AsObject())
			}
		}
	}

	mod := vm.GetModule(modID)
	visitFn(mod.Init)

	for _, v := range mod.Vars {
		if !v.IsPointer() {
			continue
		}
		if vm.IsClassValue(v) {
			// Methods/statics are bound through the compiler API, not
			// exposed by a public per-class iterator; disasm limits
			// itself to functions reachable from the module's own
			// top-level code and constant pools, which covers every
			// function a `wisp disasm` reader actually wants to see
			// compiled output for (top-level functions and anything
			// they close over via their constant pool).
			continue
		}
		if vm.KindOf(v) == wruntime.KindFunction {
			visitFn(v.AsObject())
		}
	}
	return out
}
