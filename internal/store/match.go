package store

import (
	"fmt"

	"github.com/nuwanwp/docapi/internal/document"
)

// matchesFilter reports whether doc matches every filter field by equality
// (implicit AND across fields). A field absent from the document never
// matches.
func matchesFilter(doc document.Document, filter document.Document) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// looseEqual compares a stored value against a filter value across the
// numeric types JSON decoding and query coercion produce: stored numbers
// arrive as float64 while coerced filter values may be int64.
func looseEqual(got, want interface{}) bool {
	switch w := want.(type) {
	case bool:
		g, ok := got.(bool)
		return ok && g == w
	case string:
		g, ok := got.(string)
		return ok && g == w
	case nil:
		return got == nil
	default:
		if wf, ok := toFloat64(want); ok {
			gf, gok := toFloat64(got)
			return gok && gf == wf
		}
		return fmt.Sprintf("%v", got) == fmt.Sprintf("%v", want)
	}
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
