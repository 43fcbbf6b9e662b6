package generator

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

const (
	// DefaultRuntime is the import path of the rendering library.
	DefaultRuntime = "github.com/gerardmtb/avo"

	// RuntimeEnv overrides the rendering library import path.
	RuntimeEnv = "AVO_RUNTIME"
)

var runtimePath = sync.OnceValue(func() string {
	wd, err := os.Getwd()
	if err != nil {
		return DefaultRuntime
	}
	return lookupRuntime(wd, os.Getenv)
})

// RuntimePath returns the import path under which generated code reaches
// the rendering library. It is resolved once per process: the AVO_RUNTIME
// environment variable, else the enclosing go.mod (the module itself when
// it is the library, or a required module named avo, such as a fork),
// else DefaultRuntime.
func RuntimePath() string {
	return runtimePath()
}

func lookupRuntime(dir string, getenv func(string) string) string {
	if p := getenv(RuntimeEnv); p != "" {
		return p
	}

	gomod, err := findGoMod(dir)
	if err != nil {
		return DefaultRuntime
	}
	data, err := os.ReadFile(gomod)
	if err != nil {
		return DefaultRuntime
	}
	f, err := modfile.ParseLax(gomod, data, nil)
	if err != nil {
		return DefaultRuntime
	}

	if f.Module != nil && f.Module.Mod.Path == DefaultRuntime {
		return DefaultRuntime
	}
	for _, req := range f.Require {
		if importName(req.Mod.Path) == "avo" {
			return req.Mod.Path
		}
	}
	return DefaultRuntime
}

// findGoMod returns the path of the go.mod governing dir.
func findGoMod(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fs.ErrNotExist
		}
		dir = parent
	}
}

// importName returns the package name an import path is known by, ignoring
// a major version suffix such as /v2.
func importName(importPath string) string {
	if prefix, _, ok := module.SplitPathVersion(importPath); ok && prefix != "" {
		importPath = prefix
	}
	return path.Base(importPath)
}

// isRuntimeRoot reports whether dir is the root directory of the module
// providing the rendering library, where generated code must not import
// its own package.
func isRuntimeRoot(dir, runtime string) bool {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return false
	}
	return modfile.ModulePath(data) == runtime
}
