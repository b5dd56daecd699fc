package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

// OutputFormat selects how a Result is written.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
)

// ErrUnsupportedFormat is returned for an unknown OutputFormat.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// Column widths for the table renderer.
const (
	colWidthName  = 32
	colWidthDesc  = 40
	colWidthAgent = 24
)

// RenderResult writes res to w in the given format.
func RenderResult(w io.Writer, format OutputFormat, res Result) error {
	switch format {
	case OutputTable, "":
		return RenderTable(w, res)
	case OutputJSON:
		return RenderJSON(w, res)
	case OutputNDJSON:
		return RenderNDJSON(w, res)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// RenderTable writes an aligned text table of the rows followed by the
// status line.
func RenderTable(w io.Writer, res Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "NAME\tDESCRIPTION\tOWNER\tGROUP\tID\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "----\t-----------\t-----\t-----\t--\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, row := range res.Rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			truncate(row.Name, colWidthName),
			truncate(row.Description, colWidthDesc),
			truncate(orDash(row.Owner), colWidthAgent),
			truncate(orDash(row.Group), colWidthAgent),
			row.ID,
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", res.Status); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	return nil
}

// RenderJSON writes res as one indented JSON document.
func RenderJSON(w io.Writer, res Result) error {
	if res.Rows == nil {
		res.Rows = []Row{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(res); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// RenderNDJSON writes each row as a separate JSON line, with no status.
func RenderNDJSON(w io.Writer, res Result) error {
	for _, row := range res.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshaling row: %w", err)
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to maxLen runes, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxLen-3])) + "..."
}
