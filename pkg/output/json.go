package output

import (
	"encoding/json"
)

// GenerateJSONReport renders any dashboard view (rows, a summary, license
// issues or manifest entries) as indented JSON.
func GenerateJSONReport(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
