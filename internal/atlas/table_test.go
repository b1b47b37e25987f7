package atlas_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spmaal/internal/atlas"
	"spmaal/internal/services"
	"spmaal/internal/testsupport"
)

func amygdalaTable(t *testing.T) *atlas.Table {
	t.Helper()
	path := testsupport.WriteAtlasTable(t, t.TempDir(), []testsupport.Region{
		{Name: "Amygdala_L", Label: 41},
		{Name: "Amygdala_R", Label: 42},
	})
	return atlas.Open(path)
}

func TestLabelForName(t *testing.T) {
	table := amygdalaTable(t)
	label, err := table.LabelForName("Amygdala_L")
	if err != nil {
		t.Fatalf("LabelForName returned error: %v", err)
	}
	if label != 41 {
		t.Fatalf("expected 41, got %d", label)
	}
}

func TestLabelForNameAmbiguous(t *testing.T) {
	table := amygdalaTable(t)
	_, err := table.LabelForName("Amygdala")
	if !errors.Is(err, services.ErrNonUniqueLookup) {
		t.Fatalf("expected non-unique lookup error, got %v", err)
	}
	var lookupErr *atlas.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *atlas.LookupError, got %T", err)
	}
	if len(lookupErr.Matches) != 2 {
		t.Fatalf("expected both matches reported, got %v", lookupErr.Matches)
	}
	if lookupErr.Source != table.Path() {
		t.Fatalf("expected source %q, got %q", table.Path(), lookupErr.Source)
	}
	if !strings.Contains(err.Error(), "Amygdala_R") {
		t.Fatalf("expected matches in message, got %q", err.Error())
	}
}

func TestLabelForNameMissing(t *testing.T) {
	table := amygdalaTable(t)
	_, err := table.LabelForName("Hippocampus")
	if !errors.Is(err, services.ErrNonUniqueLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no occurrence") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNameForLabel(t *testing.T) {
	table := amygdalaTable(t)
	name, err := table.NameForLabel(42)
	if err != nil {
		t.Fatalf("NameForLabel returned error: %v", err)
	}
	if name != "Amygdala_R" {
		t.Fatalf("expected Amygdala_R, got %q", name)
	}
	if _, err := table.NameForLabel(99); !errors.Is(err, services.ErrNonUniqueLookup) {
		t.Fatalf("expected lookup error for 99, got %v", err)
	}
}

func TestNameForLabelComparesWholeField(t *testing.T) {
	path := testsupport.WriteAtlasTable(t, t.TempDir(), []testsupport.Region{
		{Name: "Precentral_L", Label: 2001},
		{Name: "Precentral_R", Label: 2002},
	})
	table := atlas.Open(path)
	if _, err := table.NameForLabel(200); err == nil {
		t.Fatal("expected label 200 not to match 2001 or 2002")
	}
	name, err := table.NameForLabel(2002)
	if err != nil || name != "Precentral_R" {
		t.Fatalf("unexpected lookup: %q %v", name, err)
	}
}

func TestOpenIsLazy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	table := atlas.Open(path)
	_, err := table.Records()
	if !errors.Is(err, services.ErrMissingInput) {
		t.Fatalf("expected missing input on first query, got %v", err)
	}
}

func TestRecordsRejectsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("1\tPrecentral_L\t2001\n2\tPrecentral_R\tabc\n"), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	_, err := atlas.Open(path).Records()
	if err == nil || !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line-numbered parse error, got %v", err)
	}
}

func TestRecordsRejectsLinesWithoutIndexColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.txt")
	if err := os.WriteFile(path, []byte("1\tPrecentral_L\t2001\nAmygdala_L\t4201\n"), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	table := atlas.Open(path)
	_, err := table.LabelForName("Amygdala_L")
	if err == nil || !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line-numbered parse error for two-column line, got %v", err)
	}
}

func TestRecordsKeepsFileOrderAndSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aal.txt")
	content := "1\tPrecentral_L\t2001\r\n\n2\tPrecentral_R\t2002\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	records, err := atlas.Open(path).Records()
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if len(records) != 2 || records[0].Name != "Precentral_L" || records[1].Label != 2002 || records[0].Index != "1" {
		t.Fatalf("unexpected records: %+v", records)
	}
}
