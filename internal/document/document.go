// Package document defines the schema-less document type shared by every
// storage backend, along with the boundary helpers the HTTP layer applies:
// serialization of store-native values into transport-safe JSON, and
// coercion of query-string parameters into typed filter values.
package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldID is the reserved identifier field assigned by the store at
// creation time. It is never reassigned and never coerced.
const FieldID = "_id"

// Document represents a single schema-less document in a collection.
// Any two documents in the same collection may have different key sets.
type Document map[string]interface{}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Serialize rewrites store-native values into transport-safe equivalents by
// structural recursion: object ids become their hex string form, timestamps
// become RFC 3339 UTC strings, mappings and sequences are rebuilt with each
// element serialized, and every other scalar passes through unchanged.
//
// Serialize never fails, never mutates its input, and is idempotent. It is
// applied to every value read from storage before it reaches a response
// body, and never to values being written.
func Serialize(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case Document:
		return serializeMap(val)
	case bson.M:
		return serializeMap(val)
	case map[string]interface{}:
		return serializeMap(val)
	case bson.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = Serialize(e.Value)
		}
		return m
	case []Document:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Serialize(item)
		}
		return out
	case bson.A:
		return serializeSlice(val)
	case []interface{}:
		return serializeSlice(val)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

func serializeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = Serialize(v)
	}
	return out
}

func serializeSlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = Serialize(v)
	}
	return out
}

// ID returns the document's identifier in its transport string form, or ""
// if the document has none.
func (d Document) ID() string {
	id, _ := Serialize(d[FieldID]).(string)
	return id
}
