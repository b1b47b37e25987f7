package atlas

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"spmaal/internal/services"
)

// Record is one row of the region lookup table.
type Record struct {
	Index string
	Name  string
	Label int
	// rawLabel is the last column as written in the file; label queries compare
	// against it as a string.
	rawLabel string
}

// LookupError reports a region query that did not match exactly one record.
type LookupError struct {
	Query   string
	Source  string
	Matches []string
}

func (e *LookupError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("region %q returned no occurrence in %s", e.Query, e.Source)
	}
	return fmt.Sprintf("region %q returned a non-unique occurrence in %s: %s",
		e.Query, e.Source, strings.Join(e.Matches, ", "))
}

func (e *LookupError) Unwrap() error {
	return services.ErrNonUniqueLookup
}

// Table is a lazily loaded AAL region lookup table.
type Table struct {
	path string

	once    sync.Once
	records []Record
	loadErr error
}

// Open returns a table backed by path. The file is read on the first query.
func Open(path string) *Table {
	return &Table{path: path}
}

// Path returns the backing file.
func (t *Table) Path() string {
	return t.path
}

// Records returns every record in file order.
func (t *Table) Records() ([]Record, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out, nil
}

// LabelForName returns the label of the single record whose name contains name.
func (t *Table) LabelForName(name string) (int, error) {
	if err := t.load(); err != nil {
		return 0, err
	}
	var matches []Record
	for _, rec := range t.records {
		if strings.Contains(rec.Name, name) {
			matches = append(matches, rec)
		}
	}
	if len(matches) != 1 {
		return 0, t.lookupError(name, matches)
	}
	return matches[0].Label, nil
}

// NameForLabel returns the name of the single record whose label equals label.
func (t *Table) NameForLabel(label int) (string, error) {
	if err := t.load(); err != nil {
		return "", err
	}
	want := strconv.Itoa(label)
	var matches []Record
	for _, rec := range t.records {
		if rec.rawLabel == want {
			matches = append(matches, rec)
		}
	}
	if len(matches) != 1 {
		return "", t.lookupError(want, matches)
	}
	return matches[0].Name, nil
}

func (t *Table) lookupError(query string, matches []Record) error {
	names := make([]string, 0, len(matches))
	for _, rec := range matches {
		names = append(names, fmt.Sprintf("%s (%s)", rec.Name, rec.rawLabel))
	}
	return &LookupError{Query: query, Source: t.path, Matches: names}
}

func (t *Table) load() error {
	t.once.Do(func() {
		t.records, t.loadErr = readTable(t.path)
	})
	return t.loadErr
}

func readTable(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrMissingInput, "atlas", "open", "lookup table not found", err)
		}
		return nil, fmt.Errorf("open atlas table: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: expected tab-separated index, name, and label", path, lineNo)
		}
		raw := strings.TrimSpace(fields[len(fields)-1])
		label, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: label %q is not an integer", path, lineNo, raw)
		}
		records = append(records, Record{
			Index:    strings.TrimSpace(fields[0]),
			Name:     strings.TrimSpace(fields[1]),
			Label:    label,
			rawLabel: raw,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read atlas table: %w", err)
	}
	return records, nil
}
