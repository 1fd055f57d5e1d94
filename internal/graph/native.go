package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// NativeMap converts every value in a record map into a portable
// representation: driver temporal wrappers become strings, nodes and
// relationships become their property maps, lists and maps recurse.
func NativeMap(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = NativeValue(v)
	}
	return out
}

// NativeValue converts a single driver value. Plain Go scalars (int64,
// float64, string, bool) pass through unchanged.
func NativeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case dbtype.Node:
		return NativeMap(t.Props)
	case dbtype.Relationship:
		return NativeMap(t.Props)
	case dbtype.Date:
		return t.String()
	case dbtype.LocalTime:
		return t.String()
	case dbtype.Time:
		return t.String()
	case dbtype.LocalDateTime:
		return t.String()
	case dbtype.Duration:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = NativeValue(item)
		}
		return out
	case map[string]interface{}:
		return NativeMap(t)
	default:
		return v
	}
}
