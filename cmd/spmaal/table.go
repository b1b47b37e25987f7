package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable draws rows under headers in the rounded style. Rows are cut or
// padded to the header width. With nil aligns, columns holding only numbers
// are right-aligned so report coordinates and statistics line up.
func renderTable(title string, headers []string, rows [][]string, aligns []columnAlignment) string {
	width := len(headers)
	if width == 0 {
		return ""
	}
	if aligns == nil {
		aligns = numericAlignments(width, rows)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.AppendHeader(fitRow(headers, width))
	for _, row := range rows {
		tw.AppendRow(fitRow(row, width))
	}

	configs := make([]table.ColumnConfig, width)
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if i < len(aligns) && aligns[i] == alignRight {
			configs[i].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func fitRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

// numericAlignments right-aligns every column whose non-empty cells all parse
// as numbers.
func numericAlignments(width int, rows [][]string) []columnAlignment {
	aligns := make([]columnAlignment, width)
	for col := range aligns {
		seen, numeric := false, true
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
		}
		if seen && numeric {
			aligns[col] = alignRight
		}
	}
	return aligns
}
