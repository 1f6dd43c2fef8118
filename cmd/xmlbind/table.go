package main

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// table renders left-aligned columns with a colored header.
type table struct {
	w       io.Writer
	headers []string
	rows    [][]string
}

func newTable(w io.Writer, headers ...string) *table {
	return &table{w: w, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	header := color.New(color.FgCyan, color.Bold)
	for i, h := range t.headers {
		if _, err := header.Fprint(t.w, pad(h, widths[i], i == len(t.headers)-1)); err != nil {
			return err
		}
	}
	if err := writeln(t.w); err != nil {
		return err
	}
	for _, row := range t.rows {
		var b strings.Builder
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			b.WriteString(pad(cell, widths[i], i == len(row)-1 || i == len(widths)-1))
		}
		if err := writeln(t.w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// pad right-pads s to width and appends the column gap unless last.
func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	n := width - utf8.RuneCountInString(s)
	if n < 0 {
		n = 0
	}
	return s + strings.Repeat(" ", n+2)
}
