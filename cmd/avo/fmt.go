package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerardmtb/avo/formatter"
)

func newFmtCmd(a *app) *cobra.Command {
	var write, list bool

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format .avo files",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.avoFiles(args)
			if err != nil {
				return err
			}

			var errs []error
			for _, path := range files {
				if err := a.formatFile(cmd.OutOrStdout(), path, write, list); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")
	return cmd
}

func (a *app) formatFile(out io.Writer, path string, write, list bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := formatter.Source(path, src, nil)
	if err != nil {
		return err
	}

	changed := !bytes.Equal(src, formatted)
	if list && changed {
		fmt.Fprintln(out, path)
	}
	if write {
		if !changed {
			return nil
		}
		a.debugf("formatted %s", path)
		return os.WriteFile(path, formatted, 0o644)
	}
	if !list {
		_, err = out.Write(formatted)
	}
	return err
}
