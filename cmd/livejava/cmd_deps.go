package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func newDepsCmd(opts *options) *cobra.Command {
	var dot bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "List which classes of its package each class uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.scanProject()
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			if dot {
				fmt.Fprint(out, p.DOT())
				return nil
			}
			deps := p.Dependencies()
			for _, name := range slices.Sorted(maps.Keys(deps)) {
				fmt.Fprintf(out, "%s: %s\n", name, strings.Join(deps[name], " "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dot, "dot", false, "print a Graphviz graph")

	return cmd
}
