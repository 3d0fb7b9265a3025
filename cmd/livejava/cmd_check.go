package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file.java...]",
		Short: "Report syntax errors in source files, or in the whole project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.scanProject()
			if err != nil {
				return err
			}
			defer p.Close()

			paths := p.Files()
			if len(args) > 0 {
				if paths, err = addFiles(p, args); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			count := 0
			for _, path := range paths {
				for _, d := range p.File(path).Diagnostics() {
					count++
					fmt.Fprintf(out, "%s:%d:%d: %s (%s)\n", path, d.Range.Start.Line+1, d.Range.Start.Column+1, d.Message, d.Source)
				}
			}
			if count > 0 {
				return fmt.Errorf("%d problems in %d files", count, len(paths))
			}
			return nil
		},
	}
}
