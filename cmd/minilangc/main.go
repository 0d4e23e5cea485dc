// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Command minilangc compiles a minilang source file to its linearized
// target program.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"minilang/compile"
)

var (
	outPath             string
	numRegisters        int
	enableSafety        bool
	enableOptimize      bool
	eliminateDeadStores bool
	verbose             bool
	dump                bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "minilangc compile <input>",
		Short:        "minilangc compiles minilang source to its target IR",
		SilenceUsage: true,
	}
	root.AddCommand(newCompileCmd())
	return root
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <input>",
		Short: "Compile a source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	flags := cmd.Flags()
	flags.StringVarP(&outPath, "output", "o", "", "output path (stdout if empty)")
	flags.IntVarP(&numRegisters, "registers", "n", 8, "number of physical registers, including r_in/r_out/r_a/r_b")
	flags.BoolVar(&enableSafety, "safety", false, "fail the build on use-before-definition")
	flags.BoolVar(&enableOptimize, "optimize", false, "coalesce registers before allocation")
	flags.BoolVar(&eliminateDeadStores, "eliminate-dead-stores", false, "drop spill stores for registers never read again (requires --optimize)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "report how many registers were kept/spilled")
	flags.BoolVar(&dump, "dump", false, "dump the allocated target CFG's structure to stderr")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := compile.Run(path, string(source), compile.Options{
		N:                   numRegisters,
		Safety:              enableSafety,
		Optimize:            enableOptimize,
		EliminateDeadStores: eliminateDeadStores,
		Verbose:             verbose,
		Dump:                dump,
	})
	if err != nil {
		return err
	}

	if dump {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Dump)
	}

	if outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Output)
		return nil
	}
	return os.WriteFile(outPath, []byte(result.Output), 0o644)
}
