package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
)

// JSONFormatter outputs RunReport as pretty-printed JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns the RunReport as indented JSON. C operators such as ->, <
// and & are written literally.
func (f *JSONFormatter) Format(report RunReport) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		// Fallback: should never happen since RunReport is fully serializable.
		return `{"error": "failed to marshal report"}`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
