package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStubBinary writes a /bin/sh script named name into dir. The script
// prints stdout verbatim, echoes its arguments to stderr, and exits with
// exitCode. It returns the script path.
func WriteStubBinary(t testing.TB, dir, name, stdout string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("printf '%%s' '%s'\necho \"$@\" >&2\nexit %d\n", shellQuoteBody(stdout), exitCode))
}

// WriteScript writes an executable /bin/sh script with the given body.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// PrependPath puts dir at the front of PATH for the duration of the test.
func PrependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func shellQuoteBody(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
