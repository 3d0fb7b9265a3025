package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/livejava/java/project"
)

func newLSPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := project.NewLSPServer(version)
			return server.RunStdio()
		},
	}
}
