package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irregpack/stripsep/render"
)

func newRenderCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render <result.json>",
		Short: "Redraw a previously solved result.json as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := render.LoadResultFile(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = "result.svg"
			}
			if err := render.WriteSVGFile(out, r); err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output SVG path (default result.svg)")
	return cmd
}
