package main

import (
	"bytes"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerardmtb/avo/generator"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate .go files from .avo files",
		Example: `  avo generate .           Generate all .avo files in current directory
  avo generate ./ui/...    Generate .avo files recursively in ui/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.avoFiles(args)
			if err != nil {
				return err
			}

			var errs []error
			for _, path := range files {
				if err := a.generateFile(path); err != nil {
					errs = append(errs, err)
				}
			}
			a.debugf("generated %d of %d files", len(files)-len(errs), len(files))
			return errors.Join(errs...)
		},
	}
}

// generateFile compiles one .avo file, leaving the output untouched when it
// is already current.
func (a *app) generateFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := generator.CompileFile(path, src, a.generatorOptions())
	if err != nil {
		return err
	}

	dst := a.cfg.OutputPath(path)
	if old, err := os.ReadFile(dst); err == nil && bytes.Equal(old, out) {
		a.debugf("%s is up to date", dst)
		return nil
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}
	a.debugf("wrote %s", dst)
	return nil
}
