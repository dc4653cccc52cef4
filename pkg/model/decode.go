package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// lenientInt decodes a JSON number, a numeric string or null. Frame-based
// producers write integer columns as 85.0, and as null when a value is
// missing. Anything unparseable decodes as zero.
type lenientInt int

func (n *lenientInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
		b = bytes.TrimSpace([]byte(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = lenientInt(math.Round(f))
	return nil
}

// UnmarshalJSON decodes a record, accepting float, string and null values
// for the numeric fields.
func (r *DependencyRecord) UnmarshalJSON(b []byte) error {
	type AliasDependencyRecord DependencyRecord
	aux := &struct {
		HealthScore        lenientInt `json:"health_score"`
		VulnerabilityCount lenientInt `json:"vulnerability_count"`
		*AliasDependencyRecord
	}{
		AliasDependencyRecord: (*AliasDependencyRecord)(r),
	}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}
	r.HealthScore = int(aux.HealthScore)
	r.VulnerabilityCount = int(aux.VulnerabilityCount)
	return nil
}
