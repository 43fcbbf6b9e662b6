package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gerardmtb/avo/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdin and stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.debugf("starting language server")
			return lsp.New(a.log).Serve(os.Stdin, os.Stdout)
		},
	}
}
