// Command lc3vm loads an LC-3 object file and executes it, either freely
// to completion or one instruction at a time under the interactive
// debugger.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lc3/internal/debugger"
	"lc3/internal/host"
	"lc3/internal/loader"
	"lc3/internal/vm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	runCmd := &cobra.Command{
		Use:   "run <image-file>",
		Short: "Load an LC-3 object file and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], debug)
		},
	}
	runCmd.Flags().BoolVar(&debug, "debug", false, "step through execution in an interactive TUI instead of running freely")

	root := &cobra.Command{
		Use:   "lc3vm [image-file]",
		Short: "An interpreter for the LC-3 instruction set architecture",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return run(args[0], debug)
		},
	}
	root.Flags().BoolVar(&debug, "debug", false, "step through execution in an interactive TUI instead of running freely")
	root.AddCommand(runCmd)
	return root
}

func run(imagePath string, debug bool) error {
	term, err := host.NewTerminal()
	if err != nil {
		return fmt.Errorf("lc3: failed to initialize terminal: %w", err)
	}
	defer term.Close()

	m := vm.New(term)
	origin, err := loader.LoadFile(imagePath, m.Mem)
	if err != nil {
		return err
	}
	m.Reg[vm.RPC] = origin

	if debug {
		return debugger.Run(m, origin)
	}

	m.Running = true
	if err := m.Run(); err != nil {
		return err
	}
	return nil
}
