package preflight

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"spmaal/internal/atlas"
	"spmaal/internal/tmpl"
)

// CheckBinary verifies that command resolves to an executable on PATH.
func CheckBinary(name, command string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", command)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckReadableFile verifies that path is a regular file the process can read.
func CheckReadableFile(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckAtlasTable verifies the lookup table is readable and parses.
func CheckAtlasTable(name, path string) Result {
	if res := CheckReadableFile(name, path); !res.Passed {
		return res
	}
	records, err := atlas.Open(path).Records()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(records) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no regions)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d regions)", path, len(records))}
}

// CheckTemplates verifies every built-in template name can be read, either
// from the override directory or the embedded set.
func CheckTemplates(name, dir string) Result {
	dir = strings.TrimSpace(dir)
	if dir != "" {
		if res := CheckDirectoryAccess(name, dir); !res.Passed {
			return res
		}
	}
	source := tmpl.Source(dir)
	var overridden []string
	for _, tpl := range tmpl.BuiltinNames() {
		if _, err := fs.ReadFile(source, tpl); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", tpl, err)}
		}
		if dir != "" {
			if _, err := os.Stat(filepath.Join(dir, tpl)); err == nil {
				overridden = append(overridden, tpl)
			}
		}
	}
	switch {
	case dir == "":
		return Result{Name: name, Passed: true, Detail: "built-in"}
	case len(overridden) == 0:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no overrides, using built-in)", dir)}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (overrides: %s)", dir, strings.Join(overridden, ", "))}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
