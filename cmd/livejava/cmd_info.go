package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/livejava/format"
	"github.com/dhamidi/livejava/java/info"
)

func newInfoCmd(opts *options) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "info <file.java>...",
		Short: "Describe the primary class of source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat == "" {
				outputFormat = opts.settings.Format
			}
			enc, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			p, err := opts.scanProject()
			if err != nil {
				return err
			}
			defer p.Close()

			paths, err := addFiles(p, args)
			if err != nil {
				return err
			}
			for _, path := range paths {
				c := p.Info(path)
				if c == nil {
					return fmt.Errorf("%s: no class declared", path)
				}
				if err := enc.Encode(c); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json, yaml)")

	return cmd
}

func newCtxtCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ctxt <file.java>",
		Short: "Write the method comments of a class as a context file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.scanProject()
			if err != nil {
				return err
			}
			defer p.Close()

			paths, err := addFiles(p, args)
			if err != nil {
				return err
			}
			c := p.Info(paths[0])
			if c == nil {
				return fmt.Errorf("%s: no class declared", paths[0])
			}
			return info.WriteContext(os.Stdout, c)
		},
	}
}
