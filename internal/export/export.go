// Package export renders query results for terminals, scripts and downloads.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// Formats lists the supported formats for flag completion.
var Formats = []string{string(FormatTable), string(FormatJSON), string(FormatCSV), string(FormatMarkdown)}

// ParseFormat accepts a format name or one of its aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table", "text":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected one of %s)", s, strings.Join(Formats, ", "))
	}
}

// Write renders res to w in format f.
func Write(w io.Writer, res *core.Result, f Format) error {
	switch f {
	case FormatJSON:
		return JSON(w, res)
	case FormatCSV:
		return CSV(w, res)
	case FormatMarkdown:
		return Markdown(w, res)
	default:
		return Table(w, res)
	}
}

// CSV writes a header row followed by one record per result row. NULL
// values become empty fields.
func CSV(w io.Writer, res *core.Result) error {
	cw := csv.NewWriter(w)
	if res == nil {
		cw.Flush()
		return cw.Error()
	}

	if err := cw.Write(res.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			if v := row[col]; v != nil {
				record[i] = FormatValue(v)
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes the rows as an indented array of objects.
func JSON(w io.Writer, res *core.Result) error {
	rows := []map[string]any{}
	if res != nil && res.Rows != nil {
		rows = res.Rows
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Table writes a boxed terminal table and a row count footer.
func Table(w io.Writer, res *core.Result) error {
	if res.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newWriter(w, res)
	t.SetStyle(table.StyleLight)
	t.Render()

	footer := fmt.Sprintf("(%d rows)", res.RowCount())
	if res.Truncated {
		footer = fmt.Sprintf("(%d rows, truncated)", res.RowCount())
	}
	_, _ = fmt.Fprintln(w, footer)
	return nil
}

// Markdown writes a GitHub-flavored markdown table.
func Markdown(w io.Writer, res *core.Result) error {
	if res.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	newWriter(w, res).RenderMarkdown()
	return nil
}

func newWriter(w io.Writer, res *core.Result) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range res.Rows {
		row := make(table.Row, len(res.Columns))
		for i, col := range res.Columns {
			row[i] = FormatValue(r[col])
		}
		t.AppendRow(row)
	}
	return t
}

// FormatValue renders a scanned database value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
