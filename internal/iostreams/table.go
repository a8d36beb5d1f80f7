package iostreams

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

// TablePrinter renders tabular data to IOStreams.Out.
// Styled headers are used on a color TTY; otherwise output is plain
// tab-aligned text for scripts.
type TablePrinter struct {
	ios     *IOStreams
	headers []string
	rows    [][]string
}

// NewTablePrinter creates a new table printer with the given column headers.
func (ios *IOStreams) NewTablePrinter(headers ...string) *TablePrinter {
	return &TablePrinter{
		ios:     ios,
		headers: headers,
	}
}

// AddRow adds a data row. Missing columns are treated as empty strings.
func (tp *TablePrinter) AddRow(cols ...string) {
	tp.rows = append(tp.rows, cols)
}

// Len returns the number of data rows (not including headers).
func (tp *TablePrinter) Len() int {
	return len(tp.rows)
}

// Render writes the table to the IOStreams output.
func (tp *TablePrinter) Render() error {
	if len(tp.headers) == 0 {
		return nil
	}
	if tp.ios.IsOutputTTY() && tp.ios.ColorEnabled() {
		return tp.renderStyled()
	}
	return tp.renderPlain()
}

func (tp *TablePrinter) renderPlain() error {
	w := tabwriter.NewWriter(tp.ios.Out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(tp.headers, "\t"))
	for _, row := range tp.rows {
		fmt.Fprintln(w, strings.Join(tp.normalizeRow(row), "\t"))
	}
	return w.Flush()
}

func (tp *TablePrinter) renderStyled() error {
	numCols := len(tp.headers)
	gap := 2
	available := tp.ios.TerminalWidth() - gap*(numCols-1)
	if available < numCols {
		available = numCols
	}
	colWidth := available / numCols
	spacing := strings.Repeat(" ", gap)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Width(colWidth)
	cellStyle := lipgloss.NewStyle().Width(colWidth)

	var parts []string
	for _, h := range tp.headers {
		parts = append(parts, headerStyle.Render(truncate(h, colWidth)))
	}
	if _, err := fmt.Fprintln(tp.ios.Out, strings.Join(parts, spacing)); err != nil {
		return err
	}

	parts = parts[:0]
	for range tp.headers {
		parts = append(parts, strings.Repeat("─", colWidth))
	}
	if _, err := fmt.Fprintln(tp.ios.Out, DividerStyle.Render(strings.Join(parts, spacing))); err != nil {
		return err
	}

	for _, row := range tp.rows {
		parts = parts[:0]
		for _, col := range tp.normalizeRow(row) {
			parts = append(parts, cellStyle.Render(truncate(col, colWidth)))
		}
		if _, err := fmt.Fprintln(tp.ios.Out, strings.Join(parts, spacing)); err != nil {
			return err
		}
	}
	return nil
}

func (tp *TablePrinter) normalizeRow(row []string) []string {
	cols := make([]string, len(tp.headers))
	for i := range cols {
		if i < len(row) {
			cols[i] = row[i]
		}
	}
	return cols
}

// truncate shortens s to width runes, marking the cut with "…".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
