package output

import (
	"fmt"
	"strings"

	"github.com/handlelens/handlelens/internal/core"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatQuery renders a query result as Markdown.
func (f *MarkdownFormatter) FormatQuery(result *core.QueryResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s availability\n\n", escapeMarkdownCell(result.Username)))
	sb.WriteString("| Platform | Username | Status | Notes |\n")
	sb.WriteString("|----------|----------|--------|-------|\n")

	for _, v := range result.Results {
		if v == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(string(v.Platform)),
			escapeMarkdownCell(v.Username),
			escapeMarkdownCell(statusLabel(v)),
			escapeMarkdownCell(formatNotes(v)),
		))
	}

	if len(result.Results) > 0 {
		sb.WriteString(fmt.Sprintf("\n**Summary**: %s\n", summaryLine(result)))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
