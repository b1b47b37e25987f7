// Package report turns scraped STATISTICS lines into a table.
//
// MATLAB prints a tab-separated block after the marker: a title line, a header
// line, then one line per row. Lines without a tab (the marker itself, blank
// lines, MATLAB chatter) are ignored.
package report

import (
	"errors"
	"strings"
)

// ErrNoTable is returned when fewer than two tab-separated lines are present.
var ErrNoTable = errors.New("no tabular report in output")

// Table is a parsed labeling report.
type Table struct {
	Title  []string
	Header []string
	Rows   [][]string
}

// Parse builds a Table from scraped lines. The header gains one trailing
// empty column; rows are padded or truncated to the header width.
func Parse(lines []string) (*Table, error) {
	var tabbed [][]string
	for _, line := range lines {
		if !strings.Contains(line, "\t") {
			continue
		}
		tabbed = append(tabbed, strings.Split(line, "\t"))
	}
	if len(tabbed) < 2 {
		return nil, ErrNoTable
	}

	header := append(append([]string(nil), tabbed[1]...), "")
	table := &Table{
		Title:  tabbed[0],
		Header: header,
		Rows:   make([][]string, 0, len(tabbed)-2),
	}
	for _, fields := range tabbed[2:] {
		row := make([]string, len(header))
		copy(row, fields)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Heading joins the non-empty title fields.
func (t *Table) Heading() string {
	parts := make([]string, 0, len(t.Title))
	for _, field := range t.Title {
		if field = strings.TrimSpace(field); field != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, ": ")
}

// Column returns the values of the named header column, or nil when absent.
func (t *Table) Column(name string) []string {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}
