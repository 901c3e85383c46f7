package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/QcO-dev/doc/cpu"
	"github.com/QcO-dev/doc/emulator"
	"github.com/QcO-dev/doc/include"
)

// sourceFlags are the flags shared by commands that assemble source.
type sourceFlags struct {
	verbose bool
	dirs    []string
	defines map[string]string
}

func (sf *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&sf.verbose, "verbose", "v", false, "verbose mode")
	cmd.Flags().StringArrayVarP(&sf.dirs, "include", "I", nil, "include search directory")
	cmd.Flags().StringToStringVarP(&sf.defines, "define", "D", nil, "predefine NAME=VALUE")
}

// assemble assembles a source file. The file's own directory is searched
// for includes before any -I directory.
func (sf *sourceFlags) assemble(file string) (prog *cpu.Program, err error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return
	}

	dirs := append([]string{filepath.Dir(file)}, sf.dirs...)
	asm := &cpu.Assembler{
		Verbose:  sf.verbose,
		Resolver: include.Default(sf.verbose, dirs...),
	}
	for name, value := range emulator.NewEmulator().Defines() {
		asm.Predefine(name, value)
	}
	for name, value := range sf.defines {
		asm.Predefine(name, value)
	}

	return asm.Assemble(string(data))
}

// create opens path for writing; "-" is standard output.
func create(cmd *cobra.Command, path string) (w io.WriteCloser, err error) {
	if path == "-" {
		w = nopCloser{cmd.OutOrStdout()}
		return
	}

	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// writeListing writes the program listing and closes w.
func writeListing(w io.WriteCloser, prog *cpu.Program) (err error) {
	err = prog.WriteListing(w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}

	return
}

func newAsmCmd() *cobra.Command {
	var sf sourceFlags
	var output string
	var listing string

	cmd := &cobra.Command{
		Use:   "asm FILE",
		Short: "Assemble a source file into a byte image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			file := args[0]
			prog, err := sf.assemble(file)
			if err != nil {
				return
			}

			if len(output) == 0 {
				output = strings.TrimSuffix(file, filepath.Ext(file)) + ".bin"
			}
			err = os.WriteFile(output, prog.Binary(), 0o644)
			if err != nil {
				return
			}

			if len(listing) != 0 {
				var w io.WriteCloser
				w, err = create(cmd, listing)
				if err != nil {
					return
				}
				err = writeListing(w, prog)
			}

			return
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "image file (default FILE with a .bin extension)")
	cmd.Flags().StringVarP(&listing, "listing", "l", "", "listing file, or - for standard output")

	return cmd
}
