package output

import (
	"encoding/json"

	"github.com/handlelens/handlelens/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatQuery renders a query result as JSON.
func (f *JSONFormatter) FormatQuery(result *core.QueryResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
