package tmpl_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"spmaal/internal/tmpl"
)

func TestSubstituteLeavesUnknownPlaceholders(t *testing.T) {
	got := tmpl.Substitute("threshold=$threshold k=$k", map[string]string{"threshold": "3.11"})
	if got != "threshold=3.11 k=$k" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestSubstituteSyntax(t *testing.T) {
	mapping := map[string]string{"mode": "aal_1234", "k": "50"}
	cases := map[string]string{
		"${mode}(xSPM);":         "aal_1234(xSPM);",
		"$mode(xSPM);":           "aal_1234(xSPM);",
		"cost: $$5":              "cost: $5",
		"${missing} $missing":    "${missing} $missing",
		"${mode":                 "${mode",
		"$ 1 $9":                 "$ 1 $9",
		"k=${k}0":                "k=500",
		"$kk stays":              "$kk stays",
		"no placeholders at all": "no placeholders at all",
	}
	for in, want := range cases {
		if got := tmpl.Substitute(in, mapping); got != want {
			t.Fatalf("Substitute(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.m.tpl")
	if err := os.WriteFile(path, []byte("load('$spm_mat_file');\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	got, err := tmpl.Render(map[string]string{"spm_mat_file": "/data/SPM.mat"}, path)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "load('/data/SPM.mat');\n" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	_, err := tmpl.Render(nil, filepath.Join(t.TempDir(), "absent.tpl"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	got := tmpl.Placeholders("$a ${b} $$ $a ${c}")
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected placeholders: got %v want %v", got, want)
	}
}

func TestBuiltinTemplatesContract(t *testing.T) {
	wrapper, err := fs.ReadFile(tmpl.Builtin(), tmpl.WrapperTemplate)
	if err != nil {
		t.Fatalf("read wrapper: %v", err)
	}
	got := tmpl.Placeholders(string(wrapper))
	want := []string{"contrast", "spm_mat_file", "threshold", "k", "mode"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrapper placeholders: got %v want %v", got, want)
	}

	for _, name := range []string{"grg_list_dlabels.m.tpl", "grg_list_plabels.m.tpl", "grg_clusters_plabels.m.tpl"} {
		data, err := fs.ReadFile(tmpl.Builtin(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if got := tmpl.Placeholders(string(data)); !reflect.DeepEqual(got, []string{"aal_nii", "aal_txt"}) {
			t.Fatalf("unexpected placeholders in %s: %v", name, got)
		}
		if !strings.Contains(string(data), "disp('STATISTICS');") {
			t.Fatalf("expected %s to print the STATISTICS marker", name)
		}
	}
	if len(tmpl.BuiltinNames()) != 4 {
		t.Fatalf("expected four built-in templates, got %v", tmpl.BuiltinNames())
	}
}

func TestSourceOverlaysDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tmpl.WrapperTemplate), []byte("custom $mode"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	src := tmpl.Source(dir)

	got, err := tmpl.RenderFS(src, tmpl.WrapperTemplate, map[string]string{"mode": "aal_x"})
	if err != nil {
		t.Fatalf("RenderFS override: %v", err)
	}
	if got != "custom aal_x" {
		t.Fatalf("expected override template, got %q", got)
	}
	if _, err := tmpl.RenderFS(src, "grg_list_dlabels.m.tpl", nil); err != nil {
		t.Fatalf("expected fallback to built-in template: %v", err)
	}
}

func TestRenderFSMissing(t *testing.T) {
	if _, err := tmpl.RenderFS(fstest.MapFS{}, "nope.tpl", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}
