package logs

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spmaal.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastReturnsTrailingLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\n")

	lines, offset, err := Last(path, 2)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"three", "four"}) {
		t.Fatalf("unexpected lines %q", lines)
	}
	if offset != int64(len("one\ntwo\nthree\nfour\n")) {
		t.Fatalf("unexpected offset %d", offset)
	}

	lines, _, err = Last(path, 10)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected all 4 lines, got %q", lines)
	}
}

func TestLastLeavesPartialLine(t *testing.T) {
	path := writeLog(t, "done\npartial")

	lines, offset, err := Last(path, 5)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"done"}) || offset != 5 {
		t.Fatalf("unexpected result %q at %d", lines, offset)
	}
}

func TestLastTruncatesLongLinesWithoutLosingContent(t *testing.T) {
	exact := strings.Repeat("a", maxLineBytes)
	long := strings.Repeat("b", maxLineBytes) + "tail"
	path := writeLog(t, exact+"\n"+long+"\r\nshort\n")

	lines, _, err := Last(path, 3)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != exact {
		t.Fatalf("line at the limit lost bytes: got %d, want %d", len(lines[0]), maxLineBytes)
	}
	if lines[1] != strings.Repeat("b", maxLineBytes) {
		t.Fatalf("long line not cut at the limit: got %d bytes", len(lines[1]))
	}
	if lines[2] != "short" {
		t.Fatalf("unexpected last line %q", lines[2])
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := Last(filepath.Join(t.TempDir(), "missing.log"), 5)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %q %d %v", lines, offset, err)
	}
}

func TestFollowStreamsAppendedLines(t *testing.T) {
	path := writeLog(t, "old\n")
	_, offset, err := Last(path, 0)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, offset, func(line string) {
			mu.Lock()
			got = append(got, line)
			if len(got) == 2 {
				cancel()
			}
			mu.Unlock()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("new1\nnew2\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	<-done
	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(got, []string{"new1", "new2"}) {
		t.Fatalf("unexpected followed lines %q", got)
	}
}
