package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/livejava/java/codepad"
)

func newEvalCmd(opts *options) *cobra.Command {
	var pkg string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Read code pad commands from stdin and describe each",
		Long: `Reads one command per line: an import, variable declarations, an
expression or a statement. Declared variables stay on the bench for the
following lines. Imports take effect once they resolve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.scanProject()
			if err != nil {
				return err
			}
			defer p.Close()

			bench := codepad.Values{}
			a := codepad.New(p, pkg, bench)
			return evalLoop(cmd.InOrStdin(), cmd.OutOrStdout(), a, bench)
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "", "package the commands are evaluated in")

	return cmd
}

func evalLoop(in io.Reader, out io.Writer, a *codepad.Analyzer, bench codepad.Values) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res, err := a.ParseCommand(line)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}
		switch res.Kind {
		case codepad.KindImport:
			if err := a.ConfirmCommand(); err != nil {
				fmt.Fprintf(out, "error: %s\n", err)
				continue
			}
			fmt.Fprintln(out, "import")
		case codepad.KindDeclaration:
			for _, v := range res.Vars {
				typ := "var"
				if v.Type != nil {
					typ = v.Type.String()
					bench[v.Name] = v.Type
				}
				fmt.Fprintf(out, "declaration %s %s\n", typ, v.Name)
			}
		case codepad.KindExpression:
			if res.Type == "" {
				fmt.Fprintln(out, "expression ?")
				continue
			}
			fmt.Fprintf(out, "expression %s\n", res.Type)
		default:
			fmt.Fprintln(out, res.Kind)
		}
	}
	return scanner.Err()
}
