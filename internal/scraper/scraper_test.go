package scraper_test

import (
	"reflect"
	"testing"

	"spmaal/internal/scraper"
)

func TestExtractStartsAtMarker(t *testing.T) {
	raw := "MATLAB banner\nSPM12 loading\nSTATISTICS\nx\ty\tz\n-42\t10\t8\n"
	got := scraper.Extract(raw)
	want := []string{"STATISTICS", "x\ty\tz", "-42\t10\t8"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected section: got %q want %q", got, want)
	}
}

func TestExtractWithoutMarkerIsEmpty(t *testing.T) {
	cases := []string{"", "\n", "HEADER\nrow1\nrow2", "statistics in lower case\n"}
	for _, raw := range cases {
		got := scraper.Extract(raw)
		if got == nil {
			t.Fatalf("expected non-nil empty slice for %q", raw)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty result for %q, got %q", raw, got)
		}
	}
}

func TestExtractNeverResetsAfterFirstMarker(t *testing.T) {
	raw := "noise\nSTATISTICS\na\nSTATISTICS again\nb"
	got := scraper.Extract(raw)
	want := []string{"STATISTICS", "a", "STATISTICS again", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected section: got %q want %q", got, want)
	}
}

func TestExtractMatchesMarkerAsSubstring(t *testing.T) {
	got := scraper.Extract("x\n=== STATISTICS (local maxima) ===\nrow")
	want := []string{"=== STATISTICS (local maxima) ===", "row"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected section: got %q want %q", got, want)
	}
}

func TestScanObservesContrast(t *testing.T) {
	var observed []string
	section := scraper.Scan(
		"HEADER\nCONTRAST\nT-map\nSTATISTICS\nrow1\nrow2",
		scraper.WithContrastObserver(func(line string) { observed = append(observed, line) }),
	)
	if want := []string{"STATISTICS", "row1", "row2"}; !reflect.DeepEqual(section.Lines, want) {
		t.Fatalf("unexpected lines: got %q want %q", section.Lines, want)
	}
	if want := []string{"T-map"}; !reflect.DeepEqual(observed, want) {
		t.Fatalf("unexpected observations: got %q want %q", observed, want)
	}
	if !reflect.DeepEqual(section.Contrasts, observed) {
		t.Fatalf("expected section contrasts %q to match observations %q", section.Contrasts, observed)
	}
	if section.Empty() {
		t.Fatal("expected non-empty section")
	}
}

func TestScanContrastMarkerMustBeExact(t *testing.T) {
	section := scraper.Scan("CONTRAST:\nT-map\n CONTRAST\nother\n")
	if len(section.Contrasts) != 0 {
		t.Fatalf("expected no contrast observations, got %q", section.Contrasts)
	}
}

func TestSplitLinesHandlesCRLF(t *testing.T) {
	got := scraper.SplitLines("a\r\nb\r\n\r\nc")
	want := []string{"a", "b", "", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected split: got %q want %q", got, want)
	}
}
