// Command wisp is the demo CLI driver for the wisp embedding API: a
// thin, real host program exercising run/tokenize/disasm/repl as its own
// compiler pipeline front end (§1 places the CLI driver outside the CORE;
// SPEC_FULL.md's ambient-stack section keeps it in this module anyway, as
// a concrete embedder).
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wisp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "wisp",
	Short: "wisp embeddable scripting runtime",
	Long:  `wisp compiles and runs the scripting language described by the runtime's language specification.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	flag, _ := cmd.Root().PersistentFlags().GetString("color")
	return flag == "on" || (flag == "auto" && isTerminal(f))
}
