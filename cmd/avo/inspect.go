package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerardmtb/avo/ast"
	"github.com/gerardmtb/avo/generator"
	"github.com/gerardmtb/avo/parser"
)

func newInspectCmd(a *app) *cobra.Command {
	var expr string
	var stats bool

	cmd := &cobra.Command{
		Use:   "inspect [-e template | paths...]",
		Short: "Print the instructions templates compile to",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if expr != "" {
				if len(args) > 0 {
					return errors.New("inspect: -e cannot be combined with paths")
				}
				prog, err := generator.Compile("<expr>", expr)
				if err != nil {
					return err
				}
				printProgram(out, prog, stats)
				return nil
			}

			if len(args) == 0 {
				return errors.New("inspect: no templates given; use -e or name .avo files")
			}
			files, err := a.avoFiles(args)
			if err != nil {
				return err
			}
			for _, path := range files {
				if err := inspectFile(out, path, stats); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "template body to compile")
	cmd.Flags().BoolVar(&stats, "stats", false, "print instruction counts after each program")
	return cmd
}

func inspectFile(out io.Writer, path string, stats bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := parser.Parse(path, src)
	if err != nil {
		return err
	}

	for _, seg := range file.Segments {
		tmpl, ok := seg.(*ast.Template)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s:%s\n", path, tmpl.Range.Start)
		printProgram(out, generator.Build(tmpl.Body), stats)
	}
	return nil
}

func printProgram(w io.Writer, p *generator.Program, stats bool) {
	io.WriteString(w, p.String())
	if stats {
		st := p.Stats()
		fmt.Fprintf(w, "# %d flushes, %d writes, %d attrs, %d blocks, %d static bytes\n",
			st.Flushes, st.Writes, st.Attrs, st.Blocks, st.Bytes)
	}
}
