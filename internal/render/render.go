// Package render turns contacts into terminal output: markdown tables,
// glamour-styled markdown and before/after diffs.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/jeanpaul/contactbook/internal/contact"
)

// Table renders contacts as a markdown table. Numbered tables get a leading
// "#" column holding the 1-based positional index.
func Table(contacts []contact.Contact, numbered bool) string {
	header := contact.Header
	if numbered {
		header = append([]string{"#"}, header...)
	}
	rows := [][]string{header}
	for i, c := range contacts {
		row := c.Row()
		if numbered {
			row = append([]string{strconv.Itoa(i + 1)}, row...)
		}
		rows = append(rows, row)
	}
	return rowsToMarkdown(rows)
}

// rowsToMarkdown converts a slice of string slices into a Markdown table.
func rowsToMarkdown(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	cols := len(rows[0])

	sb.WriteString("| " + strings.Join(escape(rows[0]), " | ") + " |\n")
	sb.WriteString("|")
	for i := 0; i < cols; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	for _, row := range rows[1:] {
		for len(row) < cols {
			row = append(row, "")
		}
		sb.WriteString("| " + strings.Join(escape(row), " | ") + " |\n")
	}
	return sb.String()
}

// escape keeps cell content from breaking the table layout.
func escape(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		c = strings.ReplaceAll(c, "\r\n", " ")
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = c
	}
	return out
}

// Markdown renders md for a terminal of the given width.
func Markdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return r.Render(md)
}

// Diff returns a unified diff of the two records, one field per line.
// Identical records give an empty string.
func Diff(before, after contact.Contact) string {
	a, b := lines(before), lines(after)
	edits := myers.ComputeEdits(span.URIFromPath("before"), a, b)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified("before", "after", a, edits))
}

func lines(c contact.Contact) string {
	var sb strings.Builder
	for i, h := range contact.Header {
		fmt.Fprintf(&sb, "%s: %s\n", h, c.Row()[i])
	}
	return sb.String()
}
