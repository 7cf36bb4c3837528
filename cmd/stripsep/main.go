// Command stripsep is the CLI entry point wiring the separator core to the
// external collaborators spec.md §1 keeps out of core scope: instance
// parsing, SVG rendering, and logging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stripsep",
		Short: "Irregular strip-packing separator",
	}
	root.AddCommand(newSolveCmd())
	root.AddCommand(newRenderCmd())
	return root
}
