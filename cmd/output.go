package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/pkg/errors"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

const nullValue = "NULL"

// writeResult prints rows as a table, or the update count of statements
// that do not produce rows.
func writeResult(w io.Writer, res *embedded.ExecResult, elapsed time.Duration) error {
	if !res.IsResultSet() {
		var msg string
		switch n := res.UpdateCount(); n {
		case embedded.NoRowsAffected:
			msg = "OK"
		case 1:
			msg = "1 row affected"
		default:
			msg = fmt.Sprintf("%d rows affected", n)
		}
		_, err := fmt.Fprintf(w, "%s (%s)\n", msg, elapsed.Round(time.Microsecond))
		return errors.Wrap(err, "writing update count")
	}

	rs := res.ResultSet()
	names, err := rs.ColumnNames()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(names))
	for i, n := range names {
		header[i] = n
	}
	t.AppendHeader(header)

	it := rs.Rows()
	for it.Next() {
		row := make(table.Row, rs.ColumnCount())
		for i, v := range it.Values() {
			row[i] = cellText(v)
		}
		t.AppendRow(row)
	}
	if err := it.Err(); err != nil {
		return err
	}
	t.Render()

	_, err = fmt.Fprintf(w, "%d rows (%s)\n", rs.RowCount(), elapsed.Round(time.Microsecond))
	return errors.Wrap(err, "writing row count")
}

func cellText(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nullValue
	case []byte:
		return fmt.Sprintf("\\x%X", x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05.999999")
	case fmt.Stringer:
		return x.String()
	}
	return v
}
