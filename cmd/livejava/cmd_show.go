package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/livejava/format"
)

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <class>",
		Short: "Print the declaration of a class as a Java stub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.scanProject()
			if err != nil {
				return err
			}
			defer p.Close()

			te := p.ResolveQualifiedClass(args[0])
			if te == nil || te.Class() == nil {
				return fmt.Errorf("class not found: %s", args[0])
			}
			return format.NewJavaEncoder(os.Stdout).Encode(te.Class().Ref)
		},
	}
}
