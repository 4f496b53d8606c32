// Package prescription turns loosely structured model output into the strict
// medicine schema the mobile client consumes.
package prescription

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Defaults applied when the model omits a field, returns null, or returns
// the wrong type. They are fixed points: normalizing an already normalized
// entry changes nothing.
const (
	DefaultDuration = -1
	DefaultMeal     = "anytime"
)

// Medicine is one normalized entry extracted from a prescription image.
// Every field is always present and of its declared type.
type Medicine struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	Duration  int    `json:"duration"`
	Meal      string `json:"meal"`
	Frequency string `json:"frequency"`
}

// Decode parses cleaned model output into raw records. A JSON array is taken
// as-is, a single object is wrapped into a one-element list, anything else
// (malformed JSON, scalars) yields nil. Malformed output is not an error:
// the caller treats it as "no medicines found".
func Decode(cleaned string) []map[string]any {
	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		records := make([]map[string]any, 0, len(t))
		for _, el := range t {
			if m, ok := el.(map[string]any); ok {
				records = append(records, m)
			}
		}
		return records
	case map[string]any:
		return []map[string]any{t}
	default:
		return nil
	}
}

// Normalize coerces every raw record into the Medicine schema. The result is
// never nil so the response encodes as [] rather than null.
func Normalize(records []map[string]any) []Medicine {
	meds := make([]Medicine, 0, len(records))
	for _, rec := range records {
		meds = append(meds, Medicine{
			Name:      coerceString(rec["name"], ""),
			Quantity:  coerceString(rec["quantity"], ""),
			Duration:  coerceDuration(rec["duration"]),
			Meal:      coerceString(rec["meal"], DefaultMeal),
			Frequency: coerceString(rec["frequency"], ""),
		})
	}
	return meds
}

// coerceDuration accepts the number and numeric-string shapes the model
// produces ("7", 7, 7.0); everything else is DefaultDuration.
func coerceDuration(v any) int {
	switch t := v.(type) {
	case float64:
		// Decode does not use UseNumber, so JSON numbers arrive as float64.
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return DefaultDuration
}

func coerceString(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}
