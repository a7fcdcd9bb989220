package output

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/handlelens/handlelens/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatQuery renders a query result as a table.
func (f *TableFormatter) FormatQuery(result *core.QueryResult) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Platform", "Username", "Status", "Notes"})

	for _, v := range result.Results {
		if v == nil {
			continue
		}
		t.AppendRow(table.Row{
			string(v.Platform),
			v.Username,
			statusLabel(v),
			formatNotes(v),
		})
	}

	if len(result.Results) > 0 {
		t.AppendFooter(table.Row{
			"",
			"",
			summaryLine(result),
			"",
		})
	}

	return t.Render(), nil
}
