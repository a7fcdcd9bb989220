package output

import (
	"fmt"
	"strings"

	"github.com/handlelens/handlelens/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders query results.
type Formatter interface {
	FormatQuery(result *core.QueryResult) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

func statusLabel(v *core.Verdict) string {
	switch v.Status {
	case core.StatusAvailable:
		return "available"
	case core.StatusTaken:
		return "taken"
	default:
		return "unknown"
	}
}

func formatNotes(v *core.Verdict) string {
	parts := make([]string, 0, 2)
	if v.URL != "" {
		parts = append(parts, v.URL)
	}
	if v.Reason != "" {
		parts = append(parts, v.Reason)
	}
	return strings.Join(parts, " ")
}

func summaryLine(result *core.QueryResult) string {
	total := len(result.Results)
	summary := fmt.Sprintf("%d/%d available", result.Available, total)
	if result.Unknown > 0 {
		summary += fmt.Sprintf(", %d unknown", result.Unknown)
	}
	return summary
}
