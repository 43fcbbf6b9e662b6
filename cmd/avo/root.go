package main

import (
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerardmtb/avo/config"
	"github.com/gerardmtb/avo/generator"
)

// app holds state shared by all subcommands.
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	log    *log.Logger
	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "avo",
		Short: "HTML templates embedded in Go",
		Long: `avo compiles .avo files, Go source with embedded @html { ... } templates,
into plain .go files that render HTML through the avo runtime.

Examples:
  avo generate ./...       Generate .go files for every .avo file in the module
  avo fmt -w views         Format the .avo files in views/
  avo inspect -e 'p { @x }' Show the instructions a template compiles to`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: avo.yaml or avo.toml up to the module root)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newGenerateCmd(a),
		newWatchCmd(a),
		newFmtCmd(a),
		newInspectCmd(a),
		newLSPCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.Find(".")
	}
	if err != nil {
		return err
	}

	a.stderr = cmd.ErrOrStderr()
	a.log = log.New(a.stderr, "[avo] ", 0)
	a.verbose = a.verbose || a.cfg.Verbose
	if a.cfg.Path != "" {
		a.debugf("using config %s", a.cfg.Path)
	}
	return nil
}

func (a *app) debugf(format string, args ...any) {
	if a.verbose {
		a.log.Printf(format, args...)
	}
}

// report prints a non-fatal error and carries on.
func (a *app) report(err error) {
	if err != nil {
		printError(a.stderr, err)
	}
}

func (a *app) generatorOptions() *generator.Options {
	return &generator.Options{
		RuntimePackage: a.cfg.Runtime,
		Logger:         a.log,
	}
}

// avoFiles expands command-line paths into .avo files. A path ending in
// /... is walked recursively, a directory contributes its own .avo files
// and a file is taken as is.
func (a *app) avoFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		root, recursive := strings.CutSuffix(filepath.ToSlash(arg), "/...")
		if root == "" || root == "..." {
			root, recursive = ".", true
		}
		root = filepath.FromSlash(root)

		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (!recursive || a.cfg.Excluded(d.Name())) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".avo" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
