package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wisp"
	_ "wisp/stdlib"
)

var runCmd = &cobra.Command{
	Use:   "run <file.wsp>",
	Short: "compile and execute a wisp source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecution,
}

func runExecution(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path) // #nosec G304 -- path is a CLI argument
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg, found, err := loadProjectConfig(filepath.Dir(path))
	if err != nil {
		return err
	}

	errColor := color.New(color.FgRed, color.Bold)
	frameColor := color.New(color.FgYellow)
	colorOn := useColor(cmd, os.Stderr)

	vmCfg := cfg.vmConfig()
	vmCfg.Print = func(_ any, s string) { fmt.Fprint(os.Stdout, s) }
	vmCfg.ErrorCallback = func(kind wisp.StackTraceKind, frameIndex int, line uint32, fn string) {
		switch kind {
		case wisp.StackTraceBegin:
			if colorOn {
				errColor.Fprintln(os.Stderr, "runtime error, stack trace:")
			} else {
				fmt.Fprintln(os.Stderr, "runtime error, stack trace:")
			}
		case wisp.StackTraceFrame:
			msg := fmt.Sprintf("  #%d line %d in %s", frameIndex, line, fn)
			if colorOn {
				frameColor.Fprintln(os.Stderr, msg)
			} else {
				fmt.Fprintln(os.Stderr, msg)
			}
		}
	}

	vm := wisp.New(vmCfg)
	defer vm.Close()

	if err := vm.LoadStandard(cfg.stdFlags(found)); err != nil {
		return fmt.Errorf("load standard modules: %w", err)
	}

	if _, err := vm.ExecuteInModule(filepath.Base(path), string(src)); err != nil {
		if werr, ok := err.(*wisp.Error); ok {
			if colorOn {
				errColor.Fprintf(os.Stderr, "%s: %s\n", werr.Code, werr.Message)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %s\n", werr.Code, werr.Message)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	return nil
}
