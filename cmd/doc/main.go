// Copyright 2025, The DOC Authors

// Command doc assembles and runs programs for the DOC machine.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "doc",
		Short: "DOC assembler and emulator",
		Long: `Doc assembles source files for the DOC 8-bit machine into byte
images, and runs them on an emulator of the machine.

Source files may @include other files, which are searched for in the
directories given with -I, and then in the standard macro library.
`,
		SilenceUsage: true,
	}

	root.AddCommand(newAsmCmd(), newRunCmd(), newDefinesCmd(), newCatalogCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
