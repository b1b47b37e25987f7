package tmpl

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
)

const (
	// WrapperTemplate loads SPM.mat, thresholds the contrast, and calls the mode script.
	WrapperTemplate = "wrapper.m.tpl"
)

//go:embed templates/*.tpl
var builtinFS embed.FS

// Builtin returns the templates shipped with spmaal.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// BuiltinNames lists the shipped template file names.
func BuiltinNames() []string {
	names, _ := fs.Glob(Builtin(), "*.tpl")
	sort.Strings(names)
	return names
}

// Source returns the template filesystem for a configured override directory.
// Files present in dir win; everything else falls back to the built-in set.
func Source(dir string) fs.FS {
	if strings.TrimSpace(dir) == "" {
		return Builtin()
	}
	return overlayFS{primary: os.DirFS(dir), fallback: Builtin()}
}

type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return nil, err
}
