package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	tea "github.com/charmbracelet/bubbletea"

	"wisp"
	"wisp/internal/compiler"
	"wisp/internal/diag"
	"wisp/internal/replui"
	"wisp/internal/source"
	"wisp/internal/wruntime"
	_ "wisp/stdlib"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "read-eval-print loop over a single persistent module",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	replCmd.Flags().Bool("tui", false, "run the full-screen call-stack/GC view instead of a plain prompt")
}

// replSession holds everything repeated across lines: one module compiled
// into incrementally, one VM backing it, so top-level `var` declarations
// from earlier lines stay visible to later ones (the module's Vars table
// outlives any single compiled function).
type replSession struct {
	vm      *wisp.VM
	rt      *wruntime.VM
	modID   wruntime.ObjectID
	lineNum int
}

func newReplSession() (*replSession, error) {
	cfg, found, err := loadProjectConfig(".")
	if err != nil {
		return nil, err
	}
	vmCfg := cfg.vmConfig()
	vmCfg.Print = func(_ any, s string) { fmt.Fprint(os.Stdout, s) }

	vm := wisp.New(vmCfg)
	if err := vm.LoadStandard(cfg.stdFlags(found)); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load standard modules: %w", err)
	}

	rt := vm.Runtime()
	modID, err := rt.ModuleMake("repl")
	if err != nil {
		vm.Close()
		return nil, err
	}
	return &replSession{vm: vm, rt: rt, modID: modID}, nil
}

// Eval compiles and immediately runs one line's text. Unlike
// wisp.VM.ExecuteInModule, it calls the compiled chunk directly through
// Call instead of ExecModule, since ExecModule only ever runs a module's
// init function once — the REPL needs every line to execute, not just
// the first (internal/wruntime/module.go's ExecModule doc).
func (s *replSession) Eval(line string) (output string, diagErr string, runErr error) {
	s.lineNum++
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(fmt.Sprintf("repl:%d", s.lineNum), []byte(line))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	fnID := compiler.CompileModule(s.rt, file, bag, s.modID, fs)
	if bag.HasErrors() {
		return "", diag.FormatShortDiagnostics(bag.Items(), fs, true), nil
	}

	result, err := s.rt.Call(wruntime.FromObject(fnID), nil)
	if err != nil {
		return "", "", err
	}
	if result.IsNil() {
		return "", "", nil
	}
	return s.rt.Format(result), "", nil
}

func (s *replSession) Close() { s.vm.Close() }

func runRepl(cmd *cobra.Command, args []string) error {
	tui, err := cmd.Flags().GetBool("tui")
	if err != nil {
		return err
	}

	session, err := newReplSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if tui {
		return runReplTUI(session)
	}
	return runReplPlain(cmd, session)
}

func runReplPlain(cmd *cobra.Command, session *replSession) error {
	colorOn := useColor(cmd, os.Stdout)
	errColor := color.New(color.FgRed, color.Bold)
	resultColor := color.New(color.FgCyan)

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(out, "wisp> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			fmt.Fprint(out, "wisp> ")
			continue
		}

		result, diagErr, runErr := session.Eval(line)
		switch {
		case diagErr != "":
			if colorOn {
				errColor.Fprintln(os.Stdout, diagErr)
			} else {
				fmt.Fprintln(out, diagErr)
			}
		case runErr != nil:
			if werr, ok := runErr.(*wruntime.RuntimeError); ok {
				msg := fmt.Sprintf("%s: %s", werr.Code, werr.Message)
				if colorOn {
					errColor.Fprintln(os.Stdout, msg)
				} else {
					fmt.Fprintln(out, msg)
				}
			} else {
				fmt.Fprintln(out, runErr)
			}
		case result != "":
			if colorOn {
				resultColor.Fprintln(os.Stdout, result)
			} else {
				fmt.Fprintln(out, result)
			}
		}
		fmt.Fprint(out, "wisp> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

// runReplTUI drives the same session through replui's bubbletea model: a
// background goroutine reads stdin lines, evaluates them, and pushes a
// Snapshot (result/error plus a fresh call-stack and GC-stats read) into
// the model over a channel, the same producer/consumer shape a build tool
// uses to feed a live progress model from its own build-event channel.
func runReplTUI(session *replSession) error {
	lines := make(chan replui.Snapshot)
	quit := make(chan struct{})

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			output, diagErr, runErr := session.Eval(line)
			snap := replui.Snapshot{
				Line:   line,
				Output: output,
				Frames: session.vm.CallStack(),
				Stats:  session.vm.Stats(),
			}
			switch {
			case diagErr != "":
				snap.Err = diagErr
			case runErr != nil:
				snap.Err = runErr.Error()
			}
			select {
			case lines <- snap:
			case <-quit:
				return
			}
		}
	}()

	model := replui.New(lines, quit)
	program := tea.NewProgram(model)
	_, err := program.Run()
	close(quit)
	return err
}
