package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// displayWidth is the number of terminal columns s occupies. Hangul counts as two.
func displayWidth(s string) int {
	return lipgloss.Width(s)
}

// writeTable prints rows under header with columns padded to their widest cell.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if dw := displayWidth(cell); dw > widths[i] {
				widths[i] = dw
			}
		}
	}

	line := func(cells []string) error {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-displayWidth(cell)))
			}
		}
		_, err := fmt.Fprintln(w, b.String())
		return err
	}

	if err := line(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := line(row); err != nil {
			return err
		}
	}
	return nil
}
