package document

import (
	"strconv"
	"strings"
)

// Coerce converts a textual query-parameter value into a typed value using
// ordered trial parsing: boolean first (case-insensitive), then base-10
// integer, then floating point, falling back to the unchanged string.
// Failed parses simply fall through to the next rule. Integers outside
// the int64 range land on the float branch and lose precision there.
func Coerce(s string) interface{} {
	if strings.EqualFold(s, "true") {
		return true
	}
	if strings.EqualFold(s, "false") {
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// CoerceParams builds an equality filter from raw query parameters,
// coercing each value via Coerce. The _id field is exempt: it is passed
// through as a raw string and matched against the store's identifier type
// by the backend, not here.
func CoerceParams(params map[string]string) Document {
	filter := make(Document, len(params))
	for key, value := range params {
		if key == FieldID {
			filter[key] = value
			continue
		}
		filter[key] = Coerce(value)
	}
	return filter
}
