package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/livejava/format"
	"github.com/dhamidi/livejava/java/nodes"
	"github.com/dhamidi/livejava/java/parser"
)

func newTreeCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree <file.java>",
		Short: "Print the scope tree of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			u, err := nodes.Parse(bytes.NewReader(data), nil, "", parser.WithFile(filename))
			if err != nil {
				return fmt.Errorf("parse java file: %w", err)
			}
			for _, e := range u.Errors {
				fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", filename, e.Token.Span.Start.Line, e.Token.Span.Start.Column, e.Message)
			}

			if asJSON {
				return format.NewTreeJSONEncoder(os.Stdout, data).Encode(u.Root)
			}
			return format.WriteTree(os.Stdout, u.Root, data)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")

	return cmd
}

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <file.java>",
		Short: "Print the parser events of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return err
			}
			defer f.Close()

			var rec parser.Recorder
			p := parser.ParseCompilationUnit(f, &rec, parser.WithFile(filename))
			if err := p.Finish(); err != nil {
				return fmt.Errorf("parse java file: %w", err)
			}
			return format.WriteEvents(os.Stdout, rec.Events)
		},
	}
}
