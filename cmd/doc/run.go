package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/QcO-dev/doc/cpu"
	"github.com/QcO-dev/doc/emulator"
)

func newRunCmd() *cobra.Command {
	var sf sourceFlags
	var binary bool
	var maxTicks int

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a source file or byte image until it halts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			file := args[0]

			emu := emulator.NewEmulator()
			emu.Verbose = sf.verbose
			emu.TickLimit = maxTicks

			if binary {
				var image []byte
				image, err = os.ReadFile(file)
				if err != nil {
					return
				}
				err = emu.Load(image)
			} else {
				var prog *cpu.Program
				prog, err = sf.assemble(file)
				if err != nil {
					return
				}
				emu.Program = prog
				err = emu.Reset()
			}
			if err != nil {
				return
			}

			err = emu.Run()

			fmt.Fprint(cmd.OutOrStdout(), emu.Cpu.String())
			fmt.Fprintf(cmd.OutOrStdout(), "% 5s: %d\n", "ticks", emu.Ticks())

			return
		},
	}

	sf.register(cmd)
	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "FILE is a byte image, not source")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "fail after this many ticks; 0 is unlimited")

	return cmd
}

func newDefinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defines",
		Short: "List the predefined names available to #( ) expressions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			defines := map[string]string{}
			for name, value := range emulator.NewEmulator().Defines() {
				defines[name] = value
			}

			names := make([]string, 0, len(defines))
			for name := range defines {
				names = append(names, name)
			}
			slices.Sort(names)

			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%v=%v\n", name, defines[name])
			}
		},
	}
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the instruction set: opcode, overload key, and length in bytes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, ins := range cpu.Catalog() {
				fmt.Fprintf(cmd.OutOrStdout(), "%x %-24v %d\n", int(ins.Op), ins.Key(), ins.Length)
			}
		},
	}
}
